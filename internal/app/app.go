package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qa_automation_backend/internal/config"
	"qa_automation_backend/internal/controller"
	"qa_automation_backend/internal/repository"
	"qa_automation_backend/internal/service"
	"qa_automation_backend/pkg/configwatcher"
	"qa_automation_backend/pkg/database"
	"qa_automation_backend/pkg/logger"
	"qa_automation_backend/pkg/monitoring"
	"qa_automation_backend/pkg/security"
	"qa_automation_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	answer *repository.AnswerRepository
}

type services struct {
	automation *service.AutomationService
	answer     *service.AnswerService
	statsCache *service.StatsCache
	warmer     *service.CacheWarmer
}

type controllers struct {
	stats  *controller.StatsController
	answer *controller.AnswerController
	health *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		answer: repository.NewAnswerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.automation = service.NewAutomationService(repos.answer, cfg.Stats, logger.Log)
	s.answer = service.NewAnswerService(repos.answer, logger.Log)
	s.statsCache = service.NewStatsCache(rdb, time.Duration(cfg.Stats.CacheTTLMinutes)*time.Minute, logger.Log)
	s.warmer = service.NewCacheWarmer(s.automation, s.statsCache, cfg.Stats.WarmThresholds, cfg.Stats.WarmSchedule, logger.Log)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		stats:  controller.NewStatsController(s.automation, s.statsCache, s.warmer, cfg.Stats.DefaultThreshold),
		answer: controller.NewAnswerController(s.answer, cfg.Stats.DefaultThreshold),
		health: controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 监听配置文件，把更新后的统计参数热应用到引擎、预热器和缓存
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		a.Config.Stats = cfg.Stats
		a.services.automation.UpdateTuning(cfg.Stats)
		if err := a.services.warmer.UpdateTuning(cfg.Stats.WarmThresholds, cfg.Stats.WarmSchedule); err != nil {
			logger.Log.Error("Failed to apply cache warmer tuning", zap.Error(err))
		}
		a.services.statsCache.UpdateTTL(time.Duration(cfg.Stats.CacheTTLMinutes) * time.Minute)
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	if cfg.Stats.SeedSampleData {
		if err := database.SeedSampleData(db); err != nil {
			logger.Log.Error("Failed to seed sample data", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, cfg, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("qa-automation-dashboard", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	if err := services.warmer.Start(); err != nil {
		logger.Log.Error("Failed to start cache warmer", zap.Error(err))
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 先停预热器，避免停机期间还有统计计算在跑
	if a.services != nil && a.services.warmer != nil {
		a.services.warmer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
