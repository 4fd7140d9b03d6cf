package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - file_url:{storage_key} - resolved download URL for a stored image

type CacheConfig struct {
	URLTTL time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{URLTTL: 10 * time.Minute}
}

type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

func fileURLKey(storageKey string) string {
	return fmt.Sprintf("file_url:%s", storageKey)
}

// GetFileURL returns "" and no error on a cache miss.
func (c *CacheStore) GetFileURL(ctx context.Context, storageKey string) (string, error) {
	url, err := c.client.Get(ctx, fileURLKey(storageKey)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return url, err
}

func (c *CacheStore) SetFileURL(ctx context.Context, storageKey, url string) error {
	return c.client.Set(ctx, fileURLKey(storageKey), url, c.config.URLTTL).Err()
}

func (c *CacheStore) InvalidateFileURL(ctx context.Context, storageKey string) error {
	return c.client.Del(ctx, fileURLKey(storageKey)).Err()
}

// URLResolver turns a storage key into a URL a client can fetch.
type URLResolver interface {
	ResolveURL(ctx context.Context, storageKey string) (string, error)
}

// CachedURLResolver memoizes another resolver in Redis. Cache failures fall
// through to the underlying resolver.
type CachedURLResolver struct {
	cache *CacheStore
	next  URLResolver
}

func NewCachedURLResolver(cache *CacheStore, next URLResolver) *CachedURLResolver {
	return &CachedURLResolver{cache: cache, next: next}
}

func (r *CachedURLResolver) ResolveURL(ctx context.Context, storageKey string) (string, error) {
	if url, err := r.cache.GetFileURL(ctx, storageKey); err == nil && url != "" {
		return url, nil
	}
	url, err := r.next.ResolveURL(ctx, storageKey)
	if err != nil {
		return "", err
	}
	_ = r.cache.SetFileURL(ctx, storageKey, url)
	return url, nil
}
