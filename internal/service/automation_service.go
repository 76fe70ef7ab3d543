package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"qa_automation_backend/internal/config"
	"qa_automation_backend/internal/model"
	"qa_automation_backend/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RateStore 自动化率计算所需的数据访问接口，由 repository.AnswerRepository 实现
type RateStore interface {
	FindByTimeRange(start, end time.Time) ([]model.AnswerRecord, error)
	FindAll() ([]model.AnswerRecord, error)
}

type AutomationService struct {
	Store  RateStore
	Logger *zap.Logger

	mu    sync.RWMutex
	stats config.StatsConfig
}

func NewAutomationService(store RateStore, statsCfg config.StatsConfig, log *zap.Logger) *AutomationService {
	return &AutomationService{
		Store:  store,
		Logger: log,
		stats:  statsCfg,
	}
}

// UpdateTuning 配置热更新时替换统计参数（回溯窗口、阈值扫描表等）
func (s *AutomationService) UpdateTuning(statsCfg config.StatsConfig) {
	s.mu.Lock()
	s.stats = statsCfg
	s.mu.Unlock()
}

func (s *AutomationService) tuning() config.StatsConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// LatestVersions 返回各来源最新的未删除版本。
// 排序使用稳定排序，时间完全相同时保留原始顺序在前的版本，保证结果可复现
func LatestVersions(versions []model.AnswerVersion) (ai, human *model.AnswerVersion) {
	return latestByOrigin(versions, model.OriginAI), latestByOrigin(versions, model.OriginHuman)
}

func latestByOrigin(versions []model.AnswerVersion, origin model.VersionOrigin) *model.AnswerVersion {
	var candidates []model.AnswerVersion
	for _, v := range versions {
		if v.Origin == origin && !v.IsDeleted {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return &candidates[0]
}

// IsQuestionAutomated 判断一条提问的最新 AI 答案与最新人工答案是否相似到视为自动化。
// 缺少任一来源的答案时无法比较，返回 false
func IsQuestionAutomated(record *model.AnswerRecord, threshold float64) bool {
	ai, human := LatestVersions(record.Versions)
	if ai == nil || human == nil {
		return false
	}
	return IsAutomatedAnswer(ai.Content, human.Content, threshold)
}

// SimilarityScore 返回一条提问 AI/人工最新答案的相似度，缺任一来源时为 0
func SimilarityScore(record *model.AnswerRecord) float64 {
	ai, human := LatestVersions(record.Versions)
	if ai == nil || human == nil {
		return 0
	}
	return SimilarityRatio(ai.Content, human.Content)
}

func hasOrigin(record *model.AnswerRecord, origin model.VersionOrigin) bool {
	for _, v := range record.Versions {
		if v.Origin == origin && !v.IsDeleted {
			return true
		}
	}
	return false
}

func validateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", util.ErrInvalidThreshold, threshold)
	}
	return nil
}

// 分桶统一在 UTC 下计算，避免运行环境时区影响分桶归属
func truncateToPeriod(t time.Time, granularity model.Granularity) (time.Time, error) {
	t = t.UTC()
	switch granularity {
	case model.GranularityHour:
		return t.Truncate(time.Hour), nil
	case model.GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case model.GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // 周一为一周起点
		return day.AddDate(0, 0, -offset), nil
	case model.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", util.ErrInvalidGranularity, granularity)
	}
}

// periodLabel 生成韩文本地化的展示标签，仅用于展示，分桶与排序依赖截断后的时间点
func periodLabel(start time.Time, granularity model.Granularity) string {
	switch granularity {
	case model.GranularityHour:
		return fmt.Sprintf("%02d월 %02d일 %02d시", int(start.Month()), start.Day(), start.Hour())
	case model.GranularityDay:
		return fmt.Sprintf("%02d월 %02d일", int(start.Month()), start.Day())
	case model.GranularityWeek:
		end := start.AddDate(0, 0, 6) // 周一起算的 7 天，止于周日
		return fmt.Sprintf("%d년 %02d월 %02d일~%02d일", start.Year(), int(start.Month()), start.Day(), end.Day())
	case model.GranularityMonth:
		return fmt.Sprintf("%d년 %02d월", start.Year(), int(start.Month()))
	default:
		return ""
	}
}

// CalculateAutomationRates 统计 [start, end] 闭区间内按粒度分桶的自动化率，
// 返回结果按桶起始时间升序
func (s *AutomationService) CalculateAutomationRates(start, end time.Time, granularity model.Granularity, threshold float64) ([]model.AutomationRate, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	// 粒度在取数前校验，未知粒度立即失败而不是退回默认值
	if _, err := truncateToPeriod(time.Now(), granularity); err != nil {
		return nil, err
	}

	records, err := s.Store.FindByTimeRange(start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[time.Time][]*model.AnswerRecord)
	for i := range records {
		record := &records[i]
		if record.CreatedAt.IsZero() {
			// 时间无法归一化的记录跳过，不拖垮整个统计
			s.Logger.Warn("skipping answer record with unusable created_at",
				zap.String("id", record.ID))
			continue
		}
		periodStart, _ := truncateToPeriod(record.CreatedAt, granularity)
		buckets[periodStart] = append(buckets[periodStart], record)
	}

	rates := make([]model.AutomationRate, 0, len(buckets))
	for periodStart, group := range buckets {
		total := len(group)
		automated := 0
		aiCount := 0
		humanCount := 0
		for _, record := range group {
			if IsQuestionAutomated(record, threshold) {
				automated++
			}
			if hasOrigin(record, model.OriginAI) {
				aiCount++
			}
			if hasOrigin(record, model.OriginHuman) {
				humanCount++
			}
		}

		rate := 0.0
		if total > 0 {
			rate = float64(automated) / float64(total) * 100
		}

		rates = append(rates, model.AutomationRate{
			Period:             periodLabel(periodStart, granularity),
			TotalQuestions:     total,
			AutomatedQuestions: automated,
			AutomationRate:     rate,
			AIAnswersCount:     aiCount,
			HumanAnswersCount:  humanCount,
			Timestamp:          periodStart,
		})
	}

	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Timestamp.Before(rates[j].Timestamp)
	})

	return rates, nil
}

// ThresholdComparison 对全量数据按配置的阈值序列计算自动化率对照表
func (s *AutomationService) ThresholdComparison() ([]model.ThresholdAutomationRate, error) {
	records, err := s.Store.FindAll()
	if err != nil {
		return nil, err
	}

	thresholds := s.tuning().SweepThresholds
	rows := make([]model.ThresholdAutomationRate, 0, len(thresholds))
	for _, threshold := range thresholds {
		automated := 0
		for i := range records {
			if IsQuestionAutomated(&records[i], threshold) {
				automated++
			}
		}

		rate := 0.0
		if len(records) > 0 {
			rate = float64(automated) / float64(len(records)) * 100
		}

		rows = append(rows, model.ThresholdAutomationRate{
			Threshold:          threshold,
			AutomatedQuestions: automated,
			AutomationRate:     rate,
		})
	}

	return rows, nil
}

// DashboardStats 组装仪表盘总览：四种粒度各自固定回溯窗口的时间序列、
// 阈值对照表与全量汇总。五个子计算互不依赖，并发执行
func (s *AutomationService) DashboardStats(threshold float64) (*model.DashboardStats, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	windows := s.tuning().Windows
	stats := &model.DashboardStats{}

	var g errgroup.Group
	g.Go(func() error {
		rates, err := s.CalculateAutomationRates(now.AddDate(0, 0, -windows.HourlyDays), now, model.GranularityHour, threshold)
		stats.HourlyRates = rates
		return err
	})
	g.Go(func() error {
		rates, err := s.CalculateAutomationRates(now.AddDate(0, -windows.DailyMonths, 0), now, model.GranularityDay, threshold)
		stats.DailyRates = rates
		return err
	})
	g.Go(func() error {
		rates, err := s.CalculateAutomationRates(now.AddDate(-windows.WeeklyYears, 0, 0), now, model.GranularityWeek, threshold)
		stats.WeeklyRates = rates
		return err
	})
	g.Go(func() error {
		rates, err := s.CalculateAutomationRates(now.AddDate(-windows.MonthlyYears, 0, 0), now, model.GranularityMonth, threshold)
		stats.MonthlyRates = rates
		return err
	})
	g.Go(func() error {
		comparison, err := s.ThresholdComparison()
		stats.ThresholdComparison = comparison
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records, err := s.Store.FindAll()
	if err != nil {
		return nil, err
	}

	stats.TotalQuestions = len(records)
	for i := range records {
		record := &records[i]
		if IsQuestionAutomated(record, threshold) {
			stats.AutomatedQuestions++
		}
		if hasOrigin(record, model.OriginAI) {
			stats.AIAnswersCount++
		}
		if hasOrigin(record, model.OriginHuman) {
			stats.HumanAnswersCount++
		}
	}
	if stats.TotalQuestions > 0 {
		stats.OverallAutomation = float64(stats.AutomatedQuestions) / float64(stats.TotalQuestions) * 100
	}

	return stats, nil
}

// RatesForPeriod 相对窗口查询：period 决定回溯跨度与隐含的细分粒度
// （day→按小时，week→按天，month→按周）
func (s *AutomationService) RatesForPeriod(period string, count int) ([]model.AutomationRate, error) {
	if count <= 0 {
		count = 7
	}

	now := time.Now().UTC()
	var start time.Time
	var granularity model.Granularity

	switch period {
	case "day":
		start = now.AddDate(0, 0, -count)
		granularity = model.GranularityHour
	case "week":
		start = now.AddDate(0, 0, -count*7)
		granularity = model.GranularityDay
	case "month":
		start = now.AddDate(0, -count, 0)
		granularity = model.GranularityWeek
	default:
		return nil, fmt.Errorf("%w: %q", util.ErrInvalidPeriod, period)
	}

	return s.CalculateAutomationRates(start, now, granularity, s.tuning().DefaultThreshold)
}
