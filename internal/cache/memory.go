package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Cache = (*MemoryCache)(nil)

// MemoryCache is an in-process cache, used when no redis is around
type MemoryCache struct {
	mainCache *freecache.Cache
	ttlSec    int
}

func NewMemoryCache(sizeMiB int, ttl time.Duration) *MemoryCache {
	megabyte := 1024 * 1024
	return &MemoryCache{
		mainCache: freecache.NewCache(sizeMiB * megabyte),
		ttlSec:    int(ttl.Seconds()),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	val, err := c.mainCache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("memory cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	if err := c.mainCache.Set([]byte(key), value, c.ttlSec); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mainCache.Del([]byte(key))
	return nil
}

func (c *MemoryCache) EntryCount() int64 {
	return c.mainCache.EntryCount()
}
