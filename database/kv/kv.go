// Package kv is the durable key-value storage the directory and identity
// documents are persisted in. Values are whole JSON documents stored as
// strings; every write overwrites the previous value.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is implemented by every storage backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
