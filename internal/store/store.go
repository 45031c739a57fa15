// Package store provides the persistent string-keyed slots the dashboard
// keeps its favorites in. Each backend stores opaque string values; callers
// own the serialization.
package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("store is closed")
)

// KV is a minimal key-value slot store.
// Get reports found=false, without error, when the key was never written.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names a KV implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// Options configures Open.
type Options struct {
	Backend    Backend
	FilePath   string
	SQLitePath string
	Redis      RedisOptions
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.FilePath)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
