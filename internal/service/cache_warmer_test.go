package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"qa_automation_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeComposer struct {
	failOn float64
}

func (f *fakeComposer) DashboardStats(threshold float64) (*model.DashboardStats, error) {
	if threshold == f.failOn {
		return nil, errors.New("store unavailable")
	}
	return &model.DashboardStats{TotalQuestions: int(threshold * 100)}, nil
}

type fakeSink struct {
	mu      sync.Mutex
	entries map[float64]*model.DashboardStats
}

func newFakeSink() *fakeSink {
	return &fakeSink{entries: map[float64]*model.DashboardStats{}}
}

func (f *fakeSink) Set(_ context.Context, threshold float64, stats *model.DashboardStats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[threshold] = stats
}

func TestRefreshNow_WarmsAllThresholds(t *testing.T) {
	sink := newFakeSink()
	warmer := NewCacheWarmer(&fakeComposer{failOn: -1}, sink, []float64{0.5, 0.6, 0.7, 0.8}, "@every 4m", zap.NewNop())

	warmer.RefreshNow()

	require.Len(t, sink.entries, 4)
	assert.Equal(t, 70, sink.entries[0.7].TotalQuestions)
}

func TestRefreshNow_PartialFailureTolerated(t *testing.T) {
	sink := newFakeSink()
	warmer := NewCacheWarmer(&fakeComposer{failOn: 0.6}, sink, []float64{0.5, 0.6, 0.7}, "@every 4m", zap.NewNop())

	warmer.RefreshNow()

	assert.Len(t, sink.entries, 2)
	assert.NotContains(t, sink.entries, 0.6)
}

func TestStartIsIdempotentAndStopIsSafe(t *testing.T) {
	sink := newFakeSink()
	warmer := NewCacheWarmer(&fakeComposer{failOn: -1}, sink, []float64{0.7}, "@every 1h", zap.NewNop())

	require.NoError(t, warmer.Start())
	require.NoError(t, warmer.Start())
	warmer.Stop()
	warmer.Stop()
}

func TestUpdateTuning_AppliesNewThresholds(t *testing.T) {
	sink := newFakeSink()
	warmer := NewCacheWarmer(&fakeComposer{failOn: -1}, sink, []float64{0.5, 0.6, 0.7, 0.8}, "@every 4m", zap.NewNop())

	require.NoError(t, warmer.UpdateTuning([]float64{0.3}, "@every 10m"))
	warmer.RefreshNow()

	require.Len(t, sink.entries, 1)
	assert.Contains(t, sink.entries, 0.3)
	assert.Equal(t, "@every 10m", warmer.Schedule)
}

func TestUpdateTuning_RescheduleWhileRunning(t *testing.T) {
	sink := newFakeSink()
	warmer := NewCacheWarmer(&fakeComposer{failOn: -1}, sink, []float64{0.7}, "@every 1h", zap.NewNop())
	require.NoError(t, warmer.Start())
	defer warmer.Stop()

	require.NoError(t, warmer.UpdateTuning([]float64{0.7}, "@every 2h"))

	// 非法表达式不替换原有调度
	assert.Error(t, warmer.UpdateTuning([]float64{0.7}, "not a schedule"))
	assert.Equal(t, "@every 2h", warmer.Schedule)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	warmer := NewCacheWarmer(&fakeComposer{failOn: -1}, newFakeSink(), []float64{0.7}, "not a schedule", zap.NewNop())

	assert.Error(t, warmer.Start())
}
