package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/Domenick1991/farescope/internal/domain"
)

type DateCountsCache interface {
	GetDateCounts(ctx context.Context) ([]domain.DateCount, error)
	SetDateCounts(ctx context.Context, counts []domain.DateCount) error
	InvalidateDateCounts(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// New returns a redis cache when an address is configured, an in-process one otherwise.
func New(cfg config.RedisConfig, statsTTL time.Duration) DateCountsCache {
	if cfg.Addr == "" {
		return NewMemoryCache(statsTTL)
	}
	return NewRedisCache(cfg, statsTTL)
}

var (
	_ DateCountsCache = (*RedisCache)(nil)
	_ DateCountsCache = (*MemoryCache)(nil)
)
