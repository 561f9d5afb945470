package state

import (
	"context"
	"errors"
)

// Store is a string key-value backend. Get reports found=false for a missing key;
// Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

var (
	ErrClosed     = errors.New("state: store closed")
	ErrInvalidKey = errors.New("state: invalid key")
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)
