package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key or field is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the hash-oriented cache surface used by the answer cache service.
type Cache interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Ping(ctx context.Context) error
}
