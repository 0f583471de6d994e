package cache

import (
	"testing"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "127.0.0.1:6379"}, time.Minute)
	assert.NotNil(t, c)
	assert.Equal(t, "cache:flights:count_by_date", dateCountsKey())
	assert.NoError(t, c.Close())
}
