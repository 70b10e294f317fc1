package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	WorkCacheTTL    = 5 * time.Minute
	RankingCacheTTL = 15 * time.Minute
)

// CacheService provides a Redis cache-aside layer for work and ranking lookups.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetWork retrieves a cached work response. Returns nil if not cached or cache is disabled.
func (c *CacheService) GetWork(ctx context.Context, slug string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, workKey(slug)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetWork stores a work response in cache.
func (c *CacheService) SetWork(ctx context.Context, slug string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, workKey(slug), b, WorkCacheTTL).Err()
}

// InvalidateWork removes a work from cache (called after manual video edits).
func (c *CacheService) InvalidateWork(ctx context.Context, slug string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, workKey(slug)).Err()
}

// GetRanking retrieves a cached ranking response. Returns nil if not cached.
func (c *CacheService) GetRanking(ctx context.Context, period string, year, n int) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, rankingKey(period, year, n)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetRanking stores a ranking response in cache.
func (c *CacheService) SetRanking(ctx context.Context, period string, year, n int, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, rankingKey(period, year, n), b, RankingCacheTTL).Err()
}

// InvalidateRanking removes a ranking from cache (called after recomputation).
func (c *CacheService) InvalidateRanking(ctx context.Context, period string, year, n int) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, rankingKey(period, year, n)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func workKey(slug string) string {
	return fmt.Sprintf("work:%s", slug)
}

func rankingKey(period string, year, n int) string {
	return fmt.Sprintf("ranking:%s:%d:%d", period, year, n)
}
