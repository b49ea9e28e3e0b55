package repository

import (
	"context"
	"time"
)

// CacheRepository stores model predictions keyed by the encoded applicant
// row. A miss and a backend failure look the same to callers.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (string, bool) { return "", false }

func (NoopCache) Set(context.Context, string, string, time.Duration) error { return nil }
