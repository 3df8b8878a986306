package cart

import (
	"context"
	"errors"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

var ErrLineNotFound = errors.New("cart line not found")

// Store persists each shopper's cart under a single named slot. The engine
// saves after every mutation and restores on read; a slot that is missing or
// holds a malformed value must come back as an empty cart, never an error.
type Store interface {
	Load(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}
