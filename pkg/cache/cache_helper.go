package cache

import (
	"context"
	"log"
	"time"
)

type CacheHelper[T any] struct {
	Cache *Cache
}

func NewCacheHelper[T any](cache *Cache) *CacheHelper[T] {
	return &CacheHelper[T]{Cache: cache}
}

// Handle fills out from the cache or from fn. A failing cache write is logged
// and the fresh value is still returned.
func (c *CacheHelper[T]) Handle(ctx context.Context, key string, out *T, fn func() (T, error), expiration time.Duration) (hit bool, err error) {
	if c.Cache != nil {
		if err = c.Cache.Get(ctx, key, out); err == nil {
			return true, nil
		}
	}
	*out, err = fn()
	if err != nil {
		return false, err
	}
	if setErr := c.Cache.Set(ctx, key, out, expiration); setErr != nil {
		log.Printf("Failed to cache %s: %v", key, setErr)
	}
	return false, nil
}
