package app

import (
	"qa_automation_backend/docs"
	"qa_automation_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 自动化率统计
		api.GET("/automation-rates", c.stats.GetAutomationRates)
		api.GET("/automation-rates/range", c.stats.GetAutomationRatesByRange)
		api.GET("/automation-rates/thresholds", c.stats.GetThresholdComparison)
		api.POST("/cache/warm", c.stats.WarmCache)
		api.GET("/stats/summary", c.answer.GetSummary)

		// 应答浏览与导入
		api.GET("/responses", c.answer.ListResponses)
		api.GET("/responses/:id", c.answer.GetResponse)
		api.POST("/answers", c.answer.IngestAnswers)
	}
}
