package model

import "time"

// Granularity 自动化率时间序列的分桶粒度
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// AutomationRate 单个时间桶的自动化率统计
type AutomationRate struct {
	Period             string    `json:"period"` // 本地化显示标签，排序依赖 Timestamp 而非标签
	TotalQuestions     int       `json:"total_questions"`
	AutomatedQuestions int       `json:"automated_questions"`
	AutomationRate     float64   `json:"automation_rate"`
	AIAnswersCount     int       `json:"ai_answers_count"`    // 含有效 AI 版本的问题数（非版本数）
	HumanAnswersCount  int       `json:"human_answers_count"` // 含有效人工版本的问题数（非版本数）
	Timestamp          time.Time `json:"timestamp"`
}

// ThresholdAutomationRate 阈值敏感度对照表的一行
type ThresholdAutomationRate struct {
	Threshold          float64 `json:"threshold"`
	AutomatedQuestions int     `json:"automated_questions"`
	AutomationRate     float64 `json:"automation_rate"`
}

// DashboardStats 仪表盘总览统计
type DashboardStats struct {
	TotalQuestions      int                       `json:"total_questions"`
	AutomatedQuestions  int                       `json:"automated_questions"`
	OverallAutomation   float64                   `json:"overall_automation_rate"`
	AIAnswersCount      int                       `json:"ai_answers_count"`
	HumanAnswersCount   int                       `json:"human_answers_count"`
	ThresholdComparison []ThresholdAutomationRate `json:"threshold_comparison"`
	HourlyRates         []AutomationRate          `json:"hourly_rates"`
	DailyRates          []AutomationRate          `json:"daily_rates"`
	WeeklyRates         []AutomationRate          `json:"weekly_rates"`
	MonthlyRates        []AutomationRate          `json:"monthly_rates"`
}

// AnswerSummary 简要统计（/stats/summary 接口）
type AnswerSummary struct {
	TotalQuestions            int64     `json:"total_questions"`
	RecentQuestions           int64     `json:"recent_questions"` // 最近24小时
	QuestionsWithBothVersions int64     `json:"questions_with_both_versions"`
	LastUpdated               time.Time `json:"last_updated"`
}
