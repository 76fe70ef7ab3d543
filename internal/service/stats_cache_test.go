package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatsCacheKey(t *testing.T) {
	assert.Equal(t, "stats:dashboard:0.70", statsCacheKey(0.7))
	assert.Equal(t, "stats:dashboard:0.55", statsCacheKey(0.55))
	// 相同阈值的不同写法落到同一个键
	assert.Equal(t, statsCacheKey(0.5), statsCacheKey(0.50))
}

func TestStatsCache_UpdateTTL(t *testing.T) {
	cache := NewStatsCache(nil, 5*time.Minute, zap.NewNop())
	assert.Equal(t, 5*time.Minute, cache.TTL())

	cache.UpdateTTL(10 * time.Minute)
	assert.Equal(t, 10*time.Minute, cache.TTL())
}
