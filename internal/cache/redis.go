package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	statsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, statsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		statsTTL: statsTTL,
	}
}

// GetDateCounts returns nil, nil on a miss.
func (c *RedisCache) GetDateCounts(ctx context.Context) ([]domain.DateCount, error) {
	data, err := c.client.Get(ctx, dateCountsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var counts []domain.DateCount
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (c *RedisCache) SetDateCounts(ctx context.Context, counts []domain.DateCount) error {
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dateCountsKey(), payload, c.statsTTL).Err()
}

func (c *RedisCache) InvalidateDateCounts(ctx context.Context) error {
	return c.client.Del(ctx, dateCountsKey()).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func dateCountsKey() string {
	return "cache:flights:count_by_date"
}
