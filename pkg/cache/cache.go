package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/redis/go-redis/v9"
)

const localTTL = time.Minute

type LocalEntry struct {
	Expires time.Time
	Data    []byte
}

// Cache keeps rendered responses in redis with a short lived local copy in
// front of it. A nil *Cache is valid and caches nothing.
type Cache struct {
	client   *redis.Client
	mu       sync.Mutex
	memCache map[string]LocalEntry
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, memCache: make(map[string]LocalEntry)}
}

func (c *Cache) getLocal(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	local, found := c.memCache[key]
	if !found {
		return nil, false
	}
	if local.Expires.Before(time.Now()) {
		delete(c.memCache, key)
		return nil, false
	}
	return local.Data, true
}

func (c *Cache) setLocal(key string, data []byte, expiration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memCache[key] = LocalEntry{Expires: time.Now().Add(min(expiration, localTTL)), Data: data}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	if c == nil {
		return redis.Nil
	}
	if data, ok := c.getLocal(key); ok {
		return jsoncompat.Unmarshal(data, out)
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err = jsoncompat.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	c.setLocal(key, data, localTTL)
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.setLocal(key, data, expiration)
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// FacetKey is the cache key of a facet state response for one catalog content hash.
func FacetKey(contentHash uint64, query string) string {
	return fmt.Sprintf("facets:%016x:%s", contentHash, query)
}
