package storage

import (
	"context"
	"errors"
	"io"
)

// MaxProofSize caps payment-proof uploads; enforced before any bytes reach
// the blob store.
const MaxProofSize = 3 << 20 // 3MB

var ErrBlobNotFound = errors.New("blob not found")

// BlobStorage accepts a binary payment proof and returns a retrievable
// reference URL that gets embedded into the order's payment details.
type BlobStorage interface {
	Save(ctx context.Context, name string, source io.Reader) (string, error)
	Load(ctx context.Context, id string, sink io.Writer) error
}
