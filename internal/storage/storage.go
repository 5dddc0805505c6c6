// Package storage defines the durable key-value slot used to keep client
// state (the cart) across restarts. Drivers live in subpackages.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("storage: key not found")

// Storage is an origin-scoped key-value store. Set overwrites; the last
// writer wins.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
