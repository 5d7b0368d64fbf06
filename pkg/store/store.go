// Package store is the persistence boundary. The engine itself is
// storage-agnostic: it talks to a string key-value port, and a slot layer
// on top of the port gives the snapshot lifecycle its three logical
// locations: the latest slot, a bounded history list, and the baseline
// slot. Every backend is interchangeable; tests run against the in-memory
// one.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends after Close.
var ErrClosed = errors.New("store closed")

// KV is the minimal string key-value port every backend implements.
// Get reports presence explicitly so an empty stored value is
// distinguishable from an absent key.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
