package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// KeyValueStore is the durable side of a persisted mirror.
// Get returns ErrNotFound when the key was never written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
