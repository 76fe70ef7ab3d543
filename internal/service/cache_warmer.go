package service

import (
	"context"
	"sync"
	"time"

	"qa_automation_backend/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DashboardComposer 预热器依赖的统计入口，由 AutomationService 实现
type DashboardComposer interface {
	DashboardStats(threshold float64) (*model.DashboardStats, error)
}

// StatsSink 预热结果的写入目标，由 StatsCache 实现
type StatsSink interface {
	Set(ctx context.Context, threshold float64, stats *model.DashboardStats)
}

// CacheWarmer 周期性预计算常用阈值的仪表盘统计并写入缓存，
// 作为显式组件持有自己的调度句柄，便于测试和优雅停机
type CacheWarmer struct {
	Composer   DashboardComposer
	Cache      StatsSink
	Thresholds []float64
	Schedule   string
	Logger     *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
}

func NewCacheWarmer(composer DashboardComposer, cache StatsSink, thresholds []float64, schedule string, log *zap.Logger) *CacheWarmer {
	return &CacheWarmer{
		Composer:   composer,
		Cache:      cache,
		Thresholds: thresholds,
		Schedule:   schedule,
		Logger:     log,
	}
}

// Start 启动定时预热，并立即异步执行一次。重复调用是幂等的
func (w *CacheWarmer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return nil
	}

	c := cron.New()
	entryID, err := c.AddFunc(w.Schedule, w.RefreshNow)
	if err != nil {
		return err
	}
	w.cron = c
	w.entryID = entryID
	c.Start()

	go w.RefreshNow()

	w.Logger.Info("cache warmer started",
		zap.String("schedule", w.Schedule),
		zap.Float64s("thresholds", w.Thresholds))
	return nil
}

// Stop 停止调度并等待正在执行的预热结束。
// 等待在锁外进行，正在跑的预热还要取阈值快照
func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	w.Logger.Info("cache warmer stopped")
}

// UpdateTuning 配置热更新时替换预热阈值表与调度表达式。
// 新表达式先注册成功再摘除旧任务，非法表达式不影响原有调度
func (w *CacheWarmer) UpdateTuning(thresholds []float64, schedule string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Thresholds = thresholds
	if schedule == w.Schedule {
		return nil
	}
	if w.cron != nil {
		entryID, err := w.cron.AddFunc(schedule, w.RefreshNow)
		if err != nil {
			return err
		}
		w.cron.Remove(w.entryID)
		w.entryID = entryID
	}
	w.Schedule = schedule

	w.Logger.Info("cache warmer tuning updated",
		zap.String("schedule", schedule),
		zap.Float64s("thresholds", thresholds))
	return nil
}

// RefreshNow 立即对全部常用阈值执行一轮预热。
// 各阈值互不依赖，单个阈值失败不影响其余
func (w *CacheWarmer) RefreshNow() {
	start := time.Now()
	ctx := context.Background()

	w.mu.Lock()
	thresholds := append([]float64(nil), w.Thresholds...)
	w.mu.Unlock()

	var wg sync.WaitGroup
	for _, threshold := range thresholds {
		wg.Add(1)
		go func(threshold float64) {
			defer wg.Done()
			stats, err := w.Composer.DashboardStats(threshold)
			if err != nil {
				w.Logger.Error("cache warm failed",
					zap.Float64("threshold", threshold),
					zap.Error(err))
				return
			}
			w.Cache.Set(ctx, threshold, stats)
		}(threshold)
	}
	wg.Wait()

	w.Logger.Info("cache warming completed",
		zap.Duration("duration", time.Since(start)))
}
