package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = "receipts"

// GridFSStorage keeps payment proofs next to the catalog in Mongo. Uploads
// go through a circuit breaker: when the backing store is down, checkouts
// fail fast instead of hanging on every attempt.
type GridFSStorage struct {
	bucket  *gridfs.Bucket
	breaker *gobreaker.CircuitBreaker[string]
	urlBase string
}

func NewGridFSStorage(db *mongo.Database, urlBase string) (*GridFSStorage, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to create gridfs bucket: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "receipt-uploads",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &GridFSStorage{
		bucket:  bucket,
		breaker: breaker,
		urlBase: urlBase,
	}, nil
}

func (g *GridFSStorage) Save(ctx context.Context, name string, source io.Reader) (string, error) {
	return g.breaker.Execute(func() (string, error) {
		if deadline, ok := ctx.Deadline(); ok {
			g.bucket.SetWriteDeadline(deadline)
		}

		id, err := g.bucket.UploadFromStream(name, source)
		if err != nil {
			return "", fmt.Errorf("failed to upload blob: %w", err)
		}
		return fmt.Sprintf("%s/%s", g.urlBase, id.Hex()), nil
	})
}

func (g *GridFSStorage) Load(ctx context.Context, id string, sink io.Writer) error {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBlobNotFound
	}

	if deadline, ok := ctx.Deadline(); ok {
		g.bucket.SetReadDeadline(deadline)
	}

	if _, err := g.bucket.DownloadToStream(fileID, sink); err != nil {
		if err == gridfs.ErrFileNotFound {
			return ErrBlobNotFound
		}
		return fmt.Errorf("failed to download blob: %w", err)
	}
	return nil
}
