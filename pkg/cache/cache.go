package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLListing = 30 * time.Second // approved listing pages (refreshed often)
	TTLDetail  = 2 * time.Minute  // approved submission detail
	TTLDefault = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixListing    = "listing:"
	PrefixSubmission = "submission:"
)

// ErrCacheMiss is returned when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Service Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Listing cache for the public approved channels
	GetListing(ctx context.Context, channel string, page, pageSize int, sortBy, sortOrder string, dest interface{}) error
	SetListing(ctx context.Context, channel string, page, pageSize int, sortBy, sortOrder string, value interface{}) error
	InvalidateListings(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// New creates a Redis-backed cache service
func New(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func listingKey(channel string, page, pageSize int, sortBy, sortOrder string) string {
	return fmt.Sprintf("%s%s:%d:%d:%s:%s", PrefixListing, channel, page, pageSize, sortBy, sortOrder)
}

func (c *redisCache) GetListing(ctx context.Context, channel string, page, pageSize int, sortBy, sortOrder string, dest interface{}) error {
	return c.Get(ctx, listingKey(channel, page, pageSize, sortBy, sortOrder), dest)
}

func (c *redisCache) SetListing(ctx context.Context, channel string, page, pageSize int, sortBy, sortOrder string, value interface{}) error {
	return c.Set(ctx, listingKey(channel, page, pageSize, sortBy, sortOrder), value, TTLListing)
}

// InvalidateListings drops every cached listing page. Called after any
// status change so a submission never lingers in a public channel it no
// longer belongs to.
func (c *redisCache) InvalidateListings(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, PrefixListing+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}
