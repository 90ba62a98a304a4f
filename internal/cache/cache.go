package cache

import (
	"context"
	"errors"
)

var ErrCacheUnavailable = errors.New("cache unavailable")

// Cache keeps raw, already serialized values by key. A miss and a backend
// failure look the same to Get callers; failures are logged by implementations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Nop never stores anything
type Nop struct{}

var _ Cache = Nop{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte) error  { return nil }
func (Nop) Delete(context.Context, string) error       { return nil }
