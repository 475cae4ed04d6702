package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/utils"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisClient(client, cfg.RedisPrefix, cfg.CacheTTL), nil
}

func newRedisClient(client *redis.Client, prefix string, ttl time.Duration) *RedisClient {
	if prefix == "" {
		prefix = "feedpress:slug:"
	}
	return &RedisClient{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisClient) key(slug string) string {
	return r.prefix + utils.SlugKey(slug)
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) IsProcessed(ctx context.Context, slug string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.key(slug)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return exists > 0, nil
}

func (r *RedisClient) MarkProcessed(ctx context.Context, slug string) error {
	return r.client.Set(ctx, r.key(slug), slug, r.ttl).Err()
}

func (r *RedisClient) ClearProcessed(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error deleting keys: %w", err)
		}
	}

	return nil
}
