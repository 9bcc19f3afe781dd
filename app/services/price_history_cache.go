package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cenovka/cenovka/app/dto"
	"github.com/redis/go-redis/v9"
)

// PriceHistoryCache caches the computed price-history listing. The cached view
// must never outlive a write: Invalidate is called synchronously inside every
// upload create/delete before the write returns, and it bumps the write
// generation. An aggregation records the generation before scanning the store
// and passes it to Set; a stored view whose generation no longer matches is a
// miss, so a scan that raced a completing write can never re-cache its
// pre-write view. This preserves read-your-writes for subsequent aggregations.
type PriceHistoryCache interface {
	Get(ctx context.Context) ([]dto.PriceHistoryItem, bool)
	Generation(ctx context.Context) uint64
	Set(ctx context.Context, generation uint64, items []dto.PriceHistoryItem)
	Invalidate(ctx context.Context)
}

// cachedPriceHistory is the stored envelope: the listing plus the generation
// it was computed against.
type cachedPriceHistory struct {
	Generation uint64                 `json:"generation"`
	Items      []dto.PriceHistoryItem `json:"items"`
}

// RedisPriceHistoryCache stores the listing as a single JSON value in Redis,
// with a separate counter key tracking the write generation
type RedisPriceHistoryCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewRedisPriceHistoryCache creates a redis-backed price history cache
func NewRedisPriceHistoryCache(client *redis.Client, keyPrefix string, ttl time.Duration) PriceHistoryCache {
	return &RedisPriceHistoryCache{
		client: client,
		key:    keyPrefix + "price_history",
		genKey: keyPrefix + "price_history_gen",
		ttl:    ttl,
	}
}

func (c *RedisPriceHistoryCache) Get(ctx context.Context) ([]dto.PriceHistoryItem, bool) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("price history cache read failed: %v", err)
		}
		return nil, false
	}

	var cached cachedPriceHistory
	if err := json.Unmarshal(payload, &cached); err != nil {
		log.Printf("price history cache payload corrupt, dropping: %v", err)
		_ = c.client.Del(ctx, c.key).Err()
		return nil, false
	}

	// A view computed against an older generation raced a write; drop it
	if cached.Generation != c.Generation(ctx) {
		_ = c.client.Del(ctx, c.key).Err()
		return nil, false
	}
	return cached.Items, true
}

func (c *RedisPriceHistoryCache) Generation(ctx context.Context) uint64 {
	gen, err := c.client.Get(ctx, c.genKey).Uint64()
	if err != nil {
		if err != redis.Nil {
			log.Printf("price history cache generation read failed: %v", err)
		}
		return 0
	}
	return gen
}

func (c *RedisPriceHistoryCache) Set(ctx context.Context, generation uint64, items []dto.PriceHistoryItem) {
	payload, err := json.Marshal(cachedPriceHistory{Generation: generation, Items: items})
	if err != nil {
		log.Printf("price history cache marshal failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		log.Printf("price history cache write failed: %v", err)
	}
}

func (c *RedisPriceHistoryCache) Invalidate(ctx context.Context) {
	// Bump the generation first so an in-flight Set is stale before the old
	// value disappears
	if err := c.client.Incr(ctx, c.genKey).Err(); err != nil {
		log.Printf("price history cache generation bump failed: %v", err)
	}
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		log.Printf("price history cache invalidation failed: %v", err)
	}
}

// NoopPriceHistoryCache is used when caching is disabled; every aggregation
// recomputes from the store.
type NoopPriceHistoryCache struct{}

func NewNoopPriceHistoryCache() PriceHistoryCache {
	return &NoopPriceHistoryCache{}
}

func (NoopPriceHistoryCache) Get(ctx context.Context) ([]dto.PriceHistoryItem, bool) { return nil, false }

func (NoopPriceHistoryCache) Generation(ctx context.Context) uint64 { return 0 }

func (NoopPriceHistoryCache) Set(ctx context.Context, generation uint64, items []dto.PriceHistoryItem) {
}

func (NoopPriceHistoryCache) Invalidate(ctx context.Context) {}
