// @title 自动化率仪表盘 API
// @version 1.0
// @description 客服问答自动化率统计仪表盘的后端服务。

// @host localhost:8080
// @BasePath /api

package main

import (
	"log"

	"qa_automation_backend/internal/app"
	"qa_automation_backend/internal/config"
	"qa_automation_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
