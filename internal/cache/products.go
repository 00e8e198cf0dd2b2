package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AayushAcharya189/SportGear/internal/domain"
)

const (
	listVersionKey = "products:list:ver"
	listKeyFormat  = "products:list:v%d:cat=%s:page=%d:per=%d"
)

// ProductList is the cached shape of a catalog page.
type ProductList struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// ProductListCache caches catalog listing pages in Redis. Invalidation bumps
// a version counter instead of deleting keys, so stale entries simply expire.
type ProductListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductListCache creates a Redis-backed catalog page cache.
func NewProductListCache(client *redis.Client, ttl time.Duration) *ProductListCache {
	return &ProductListCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached page if present. A false second return means a miss.
func (c *ProductListCache) Get(ctx context.Context, category string, page, perPage int) (*ProductList, bool, error) {
	key, err := c.key(ctx, category, page, perPage)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get product list: %w", err)
	}

	var list ProductList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached product list: %w", err)
	}

	return &list, true, nil
}

// Set stores a catalog page with the configured TTL.
func (c *ProductListCache) Set(ctx context.Context, category string, page, perPage int, list *ProductList) error {
	key, err := c.key(ctx, category, page, perPage)
	if err != nil {
		return err
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal product list: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product list: %w", err)
	}

	return nil
}

// Invalidate bumps the version counter so all cached pages are bypassed.
func (c *ProductListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, listVersionKey).Err(); err != nil {
		return fmt.Errorf("redis bump product list version: %w", err)
	}
	return nil
}

func (c *ProductListCache) key(ctx context.Context, category string, page, perPage int) (string, error) {
	ver, err := c.client.Get(ctx, listVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get product list version: %w", err)
	}
	return fmt.Sprintf(listKeyFormat, ver, category, page, perPage), nil
}
