package controller

import (
	"errors"
	"strconv"
	"time"

	"qa_automation_backend/internal/model"
	"qa_automation_backend/internal/service"
	"qa_automation_backend/internal/util"
	"qa_automation_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	AutomationService *service.AutomationService
	Cache             *service.StatsCache
	Warmer            *service.CacheWarmer
	DefaultThreshold  float64
}

func NewStatsController(automation *service.AutomationService, cache *service.StatsCache, warmer *service.CacheWarmer, defaultThreshold float64) *StatsController {
	return &StatsController{
		AutomationService: automation,
		Cache:             cache,
		Warmer:            warmer,
		DefaultThreshold:  defaultThreshold,
	}
}

func (c *StatsController) parseThreshold(ctx *gin.Context) (float64, bool) {
	raw := ctx.Query("threshold")
	if raw == "" {
		return c.DefaultThreshold, true
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold < 0 || threshold > 1 {
		util.BadRequest(ctx, "invalid threshold", util.ErrInvalidThreshold)
		return 0, false
	}
	return threshold, true
}

// @Summary 自动化率统计
// @Description 不带 period 参数时返回完整仪表盘统计；带 period (day/week/month) 时返回对应相对窗口的时间序列
// @Tags 统计
// @Produce json
// @Param period query string false "相对窗口 day/week/month"
// @Param count query int false "回溯数量" default(7)
// @Param threshold query number false "相似度阈值 [0,1]" default(0.7)
// @Success 200 {object} model.DashboardStats
// @Failure 400 {object} util.ErrorBody
// @Failure 500 {object} util.ErrorBody
// @Router /api/automation-rates [get]
func (c *StatsController) GetAutomationRates(ctx *gin.Context) {
	period := ctx.Query("period")

	if period != "" {
		count, _ := strconv.Atoi(ctx.DefaultQuery("count", "7"))
		rates, err := c.AutomationService.RatesForPeriod(period, count)
		if err != nil {
			if errors.Is(err, util.ErrInvalidPeriod) {
				util.BadRequest(ctx, "invalid period parameter", err)
				return
			}
			util.InternalServerError(ctx, "failed to fetch automation rates", err)
			return
		}
		ctx.JSON(200, gin.H{"rates": rates})
		return
	}

	threshold, ok := c.parseThreshold(ctx)
	if !ok {
		return
	}

	// 读穿缓存：预热器写入的快照命中则直接返回
	if stats, hit := c.Cache.Get(ctx.Request.Context(), threshold); hit {
		ctx.JSON(200, stats)
		return
	}

	start := time.Now()
	stats, err := c.AutomationService.DashboardStats(threshold)
	if err != nil {
		util.InternalServerError(ctx, "failed to fetch automation rates", err)
		return
	}
	monitoring.StatsComputeDuration.Observe(time.Since(start).Seconds())

	c.Cache.Set(ctx.Request.Context(), threshold, stats)
	ctx.JSON(200, stats)
}

// @Summary 区间自动化率
// @Description 按起止时间与分桶粒度返回自动化率时间序列
// @Tags 统计
// @Produce json
// @Param start query string true "起始时间 (RFC3339)"
// @Param end query string true "结束时间 (RFC3339)"
// @Param groupBy query string true "分桶粒度 hour/day/week/month"
// @Param threshold query number false "相似度阈值 [0,1]" default(0.7)
// @Success 200 {object} util.Response
// @Failure 400 {object} util.ErrorBody
// @Router /api/automation-rates/range [get]
func (c *StatsController) GetAutomationRatesByRange(ctx *gin.Context) {
	start, err := time.Parse(time.RFC3339, ctx.Query("start"))
	if err != nil {
		util.BadRequest(ctx, "invalid start parameter", err)
		return
	}
	end, err := time.Parse(time.RFC3339, ctx.Query("end"))
	if err != nil {
		util.BadRequest(ctx, "invalid end parameter", err)
		return
	}

	threshold, ok := c.parseThreshold(ctx)
	if !ok {
		return
	}

	granularity := model.Granularity(ctx.Query("groupBy"))
	rates, err := c.AutomationService.CalculateAutomationRates(start, end, granularity, threshold)
	if err != nil {
		if errors.Is(err, util.ErrInvalidGranularity) {
			util.BadRequest(ctx, "invalid groupBy parameter", err)
			return
		}
		util.InternalServerError(ctx, "failed to calculate automation rates", err)
		return
	}

	util.Success(ctx, rates)
}

// @Summary 阈值敏感度对照表
// @Description 全量数据在各阈值下的自动化率
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response
// @Failure 500 {object} util.ErrorBody
// @Router /api/automation-rates/thresholds [get]
func (c *StatsController) GetThresholdComparison(ctx *gin.Context) {
	rows, err := c.AutomationService.ThresholdComparison()
	if err != nil {
		util.InternalServerError(ctx, "failed to calculate threshold comparison", err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 手动触发缓存预热
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/cache/warm [post]
func (c *StatsController) WarmCache(ctx *gin.Context) {
	go c.Warmer.RefreshNow()
	util.Success(ctx, gin.H{"status": "warming"})
}
