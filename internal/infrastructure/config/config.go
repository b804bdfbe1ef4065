package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Log         LogConfig       `mapstructure:"log"`
	Store       StoreConfig     `mapstructure:"store"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Ranking     RankingConfig   `mapstructure:"ranking"`
	Events      EventsConfig    `mapstructure:"events"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// LogConfig 日誌配置
type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
	File  string `mapstructure:"file"`
}

// StoreConfig 資料儲存配置
type StoreConfig struct {
	Driver   string `mapstructure:"driver"` // memory, sqlite, postgres
	DSN      string `mapstructure:"dsn"`
	Seed     bool   `mapstructure:"seed"`
	SeedFile string `mapstructure:"seed_file"` // 空字串使用內建範例資料
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"` // memory, redis
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RankingConfig 推薦配置
type RankingConfig struct {
	SuggestLimit int `mapstructure:"suggest_limit"`
}

// EventsConfig 事件發佈配置
type EventsConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 為選用
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 常見的無前綴環境變數
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")
	_ = v.BindEnv("log.level", "APP_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log.mode", "APP_LOG_MODE", "LOG_MODE")
	_ = v.BindEnv("store.dsn", "APP_STORE_DSN", "DATABASE_URL")
	_ = v.BindEnv("cache.redis_addr", "APP_CACHE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("events.brokers", "APP_EVENTS_BROKERS", "KAFKA_BROKERS")
	_ = v.BindEnv("dedup_window", "APP_DEDUP_WINDOW", "DEDUP_WINDOW")

	return load(v)
}

// LoadConfigFile 從指定的設定檔載入（yaml/json/toml/env 依副檔名判斷）
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "petchef-api")

	// 伺服器設定
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// 日誌設定
	v.SetDefault("log.level", "info")
	v.SetDefault("log.mode", "")
	v.SetDefault("log.file", "")

	// 儲存設定
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.seed", true)
	v.SetDefault("store.seed_file", "")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.cleanup_interval", "1m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 推薦設定
	v.SetDefault("ranking.suggest_limit", 5)

	// 事件設定
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "petchef.events")

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes")
	}

	switch config.Store.Driver {
	case "memory":
	case "sqlite", "postgres":
		if config.Store.DSN == "" {
			return fmt.Errorf("store dsn is required for driver %q", config.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.Cache.Enabled {
		switch config.Cache.Driver {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache driver %q", config.Cache.Driver)
		}
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	if config.Ranking.SuggestLimit <= 0 {
		return fmt.Errorf("invalid suggest limit")
	}

	if config.Events.Enabled {
		if len(config.Events.Brokers) == 0 {
			return fmt.Errorf("events brokers are required")
		}
		if config.Events.Topic == "" {
			return fmt.Errorf("events topic is required")
		}
	}

	return nil
}
