package service

import (
	"context"
	"testing"
	"time"

	"dijital-vitrin/models"

	"github.com/stretchr/testify/assert"
)

func TestRedisListingCacheUnreachableIsMiss(t *testing.T) {
	cache := NewRedisListingCache("127.0.0.1:1", time.Minute)
	defer cache.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cache.Set(ctx, "s1", []models.Product{{ID: "p1"}})
	_, ok := cache.Get(ctx, "s1")
	assert.False(t, ok)
	cache.Invalidate(ctx, "s1")
}

func TestListingKey(t *testing.T) {
	assert.Equal(t, "vitrin:listing:s1", listingKey("s1"))
}

func TestNoopListingCache(t *testing.T) {
	var c ListingCacheInterface = NoopListingCache{}
	c.Set(context.Background(), "s1", []models.Product{{ID: "p1"}})
	_, ok := c.Get(context.Background(), "s1")
	assert.False(t, ok)
}
