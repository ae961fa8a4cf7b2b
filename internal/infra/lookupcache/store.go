// Package lookupcache is a TTL cache in front of the location and weather collaborators.
package lookupcache

import (
	"context"
	"time"
)

// Store persists opaque cache payloads by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Name() string
}

// NoopStore never holds anything. Used when caching is disabled.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopStore) Name() string { return "disabled" }

var _ Store = NoopStore{}
