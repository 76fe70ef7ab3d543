package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"qa_automation_backend/internal/model"
	"qa_automation_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StatsCache 仪表盘统计的 Redis 读穿缓存。
// 引擎本身无状态，缓存只是 API 层的加速，不做持久化
type StatsCache struct {
	RDB    *redis.Client
	Logger *zap.Logger

	mu  sync.RWMutex
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *StatsCache {
	return &StatsCache{RDB: rdb, Logger: log, ttl: ttl}
}

// UpdateTTL 配置热更新时替换缓存有效期，只影响之后写入的条目
func (c *StatsCache) UpdateTTL(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}

func (c *StatsCache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

func statsCacheKey(threshold float64) string {
	return fmt.Sprintf("stats:dashboard:%.2f", threshold)
}

func (c *StatsCache) Get(ctx context.Context, threshold float64) (*model.DashboardStats, bool) {
	data, err := c.RDB.Get(ctx, statsCacheKey(threshold)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.Logger.Warn("stats cache read failed", zap.Error(err))
		}
		monitoring.StatsCacheMiss.Inc()
		return nil, false
	}

	var stats model.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.Logger.Warn("stats cache entry corrupted, dropping", zap.Error(err))
		c.RDB.Del(ctx, statsCacheKey(threshold))
		monitoring.StatsCacheMiss.Inc()
		return nil, false
	}

	monitoring.StatsCacheHit.Inc()
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, threshold float64, stats *model.DashboardStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		c.Logger.Error("stats cache marshal failed", zap.Error(err))
		return
	}
	if err := c.RDB.Set(ctx, statsCacheKey(threshold), data, c.TTL()).Err(); err != nil {
		c.Logger.Warn("stats cache write failed", zap.Error(err))
	}
}
