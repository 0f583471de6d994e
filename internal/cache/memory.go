package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/farescope/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps the aggregate in process. Used when no redis address is configured.
type MemoryCache struct {
	cache    *gocache.Cache
	statsTTL time.Duration
}

func NewMemoryCache(statsTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		cache:    gocache.New(statsTTL, 2*statsTTL),
		statsTTL: statsTTL,
	}
}

func (c *MemoryCache) GetDateCounts(_ context.Context) ([]domain.DateCount, error) {
	v, found := c.cache.Get(dateCountsKey())
	if !found {
		return nil, nil
	}
	counts, _ := v.([]domain.DateCount)
	out := make([]domain.DateCount, len(counts))
	copy(out, counts)
	return out, nil
}

func (c *MemoryCache) SetDateCounts(_ context.Context, counts []domain.DateCount) error {
	stored := make([]domain.DateCount, len(counts))
	copy(stored, counts)
	c.cache.Set(dateCountsKey(), stored, c.statsTTL)
	return nil
}

func (c *MemoryCache) InvalidateDateCounts(_ context.Context) error {
	c.cache.Delete(dateCountsKey())
	return nil
}

func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}

func (c *MemoryCache) Close() error {
	c.cache.Flush()
	return nil
}
