package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"dijital-vitrin/models"

	"github.com/redis/go-redis/v9"
)

// ListingCacheInterface caches a store's active product list
type ListingCacheInterface interface {
	Get(ctx context.Context, storeID string) ([]models.Product, bool)
	Set(ctx context.Context, storeID string, products []models.Product)
	Invalidate(ctx context.Context, storeID string)
}

// RedisListingCache keeps listings in Redis as JSON. Every Redis failure is
// treated as a miss so the database stays the source of truth.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ListingCacheInterface = (*RedisListingCache)(nil)

func NewRedisListingCache(addr string, ttl time.Duration) *RedisListingCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	return &RedisListingCache{client: rdb, ttl: ttl}
}

func listingKey(storeID string) string {
	return fmt.Sprintf("vitrin:listing:%s", storeID)
}

func (c *RedisListingCache) Get(ctx context.Context, storeID string) ([]models.Product, bool) {
	raw, err := c.client.Get(ctx, listingKey(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("⚠️ Listing cache read failed for store %s: %v", storeID, err)
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Printf("⚠️ Listing cache entry for store %s is corrupt: %v", storeID, err)
		return nil, false
	}
	return products, true
}

func (c *RedisListingCache) Set(ctx context.Context, storeID string, products []models.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		log.Printf("⚠️ Listing cache encode failed for store %s: %v", storeID, err)
		return
	}
	if err := c.client.Set(ctx, listingKey(storeID), raw, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Listing cache write failed for store %s: %v", storeID, err)
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context, storeID string) {
	if err := c.client.Del(ctx, listingKey(storeID)).Err(); err != nil {
		log.Printf("⚠️ Listing cache invalidate failed for store %s: %v", storeID, err)
	}
}

func (c *RedisListingCache) Close() error {
	return c.client.Close()
}

// NoopListingCache is used when no Redis address is configured
type NoopListingCache struct{}

var _ ListingCacheInterface = NoopListingCache{}

func (NoopListingCache) Get(context.Context, string) ([]models.Product, bool) { return nil, false }
func (NoopListingCache) Set(context.Context, string, []models.Product)        {}
func (NoopListingCache) Invalidate(context.Context, string)                   {}
