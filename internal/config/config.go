package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// StatsConfig 自动化率统计的运行参数
type StatsConfig struct {
	DefaultThreshold float64      `mapstructure:"default_threshold"`
	SweepThresholds  []float64    `mapstructure:"sweep_thresholds"` // 阈值敏感度对照表，升序
	WarmThresholds   []float64    `mapstructure:"warm_thresholds"`  // 缓存预热的常用阈值
	WarmSchedule     string       `mapstructure:"warm_schedule"`    // cron 表达式
	CacheTTLMinutes  int          `mapstructure:"cache_ttl_minutes"`
	SeedSampleData   bool         `mapstructure:"seed_sample_data"`
	Windows          StatsWindows `mapstructure:"windows"`
}

// StatsWindows 四种粒度各自的固定回溯窗口
type StatsWindows struct {
	HourlyDays   int `mapstructure:"hourly_days"`
	DailyMonths  int `mapstructure:"daily_months"`
	WeeklyYears  int `mapstructure:"weekly_years"`
	MonthlyYears int `mapstructure:"monthly_years"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("QA_DASH")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// 统计参数默认值（回溯窗口策略见 configs/config.yaml 注释）
	viper.SetDefault("stats.default_threshold", 0.7)
	viper.SetDefault("stats.sweep_thresholds", []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9})
	viper.SetDefault("stats.warm_thresholds", []float64{0.5, 0.6, 0.7, 0.8})
	viper.SetDefault("stats.warm_schedule", "@every 4m")
	viper.SetDefault("stats.cache_ttl_minutes", 5)
	viper.SetDefault("stats.windows.hourly_days", 30)
	viper.SetDefault("stats.windows.daily_months", 6)
	viper.SetDefault("stats.windows.weekly_years", 2)
	viper.SetDefault("stats.windows.monthly_years", 5)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Stats.DefaultThreshold < 0 || cfg.Stats.DefaultThreshold > 1 {
		return nil, fmt.Errorf("stats.default_threshold out of range: %v", cfg.Stats.DefaultThreshold)
	}

	return &cfg, nil
}
