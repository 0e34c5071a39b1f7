// Package cache provides analytics.Cache implementations.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/analytics"
)

type redisCache struct {
	client *redis.Client
}

var _ analytics.Cache = (*redisCache)(nil) // interface compliance check

// OpenRedis connects a Redis-backed cache and verifies the connection.
func OpenRedis(ctx context.Context, conf core.RedisConfig) (*redisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return analytics.ErrCacheMiss
		}
		return errors.Wrap(err, "reading cache key")
	}
	if err = json.Unmarshal(val, dest); err != nil {
		return errors.Wrap(err, "unmarshalling cached value")
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrap(err, "marshalling value")
	}
	if err = c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "writing cache key")
	}
	return nil
}

func (c *redisCache) Close() error { return c.client.Close() }
