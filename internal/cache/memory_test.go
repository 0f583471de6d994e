package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_DateCounts(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	got, err := c.GetDateCounts(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	counts := []domain.DateCount{{FlightDate: "10-06-2024", Count: 2}}
	require.NoError(t, c.SetDateCounts(ctx, counts))

	// callers cannot mutate the cached slice
	counts[0].Count = 99

	got, err = c.GetDateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateCount{{FlightDate: "10-06-2024", Count: 2}}, got)

	require.NoError(t, c.InvalidateDateCounts(ctx))
	got, err = c.GetDateCounts(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.SetDateCounts(ctx, []domain.DateCount{{FlightDate: "01-01-2024", Count: 1}}))
	time.Sleep(50 * time.Millisecond)

	got, err := c.GetDateCounts(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNew_SelectsBackend(t *testing.T) {
	mem := New(config.RedisConfig{}, time.Minute)
	_, ok := mem.(*MemoryCache)
	assert.True(t, ok)

	rc := New(config.RedisConfig{Addr: "localhost:6379"}, time.Minute)
	_, ok = rc.(*RedisCache)
	assert.True(t, ok)
	assert.NoError(t, rc.Close())
}
