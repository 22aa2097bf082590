package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Conversational recommendation specifics
	Redis    RedisConfig
	Taxonomy TaxonomyConfig
	Resolver ResolverConfig
	Catalog  CatalogConfig
	Breaker  BreakerConfig

	// API protection
	RateLimit RateLimitConfig

	// Background maintenance
	Worker WorkerConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	OpTimeout time.Duration
}

type TaxonomyConfig struct {
	Path            string
	DefaultLanguage string
	ReloadInterval  time.Duration // 0 disables periodic reload
}

// ResolverConfig tunes the diversification resolver.
type ResolverConfig struct {
	SessionTTL          time.Duration
	StoreTimeout        time.Duration
	PoolTimeout         time.Duration
	CandidateFetchLimit int
	DiverseCategoryCap  int
	SessionCacheSize    int // 0 disables the read cache (baseline store only)
}

type CatalogConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

// BreakerConfig tunes the provisioning circuit breaker.
type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
}

type RateLimitConfig struct {
	PerMin int
}

// WorkerConfig tunes the maintenance binary.
type WorkerConfig struct {
	MetricsPort    int
	SweepSchedule  string
	ReloadSchedule string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Redis session store
	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.KeyPrefix = viper.GetString("redis.key_prefix")
	cfg.Redis.OpTimeout = viper.GetDuration("redis.op_timeout")
	if redisAddr := viper.GetString("redis_addr"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if redisPassword := viper.GetString("redis_password"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	// Taxonomy
	cfg.Taxonomy.Path = viper.GetString("taxonomy.path")
	cfg.Taxonomy.DefaultLanguage = viper.GetString("taxonomy.default_language")
	cfg.Taxonomy.ReloadInterval = viper.GetDuration("taxonomy.reload_interval")
	if taxonomyPath := viper.GetString("taxonomy_path"); taxonomyPath != "" {
		cfg.Taxonomy.Path = taxonomyPath
	}

	// Resolver
	cfg.Resolver.SessionTTL = viper.GetDuration("resolver.session_ttl")
	cfg.Resolver.StoreTimeout = viper.GetDuration("resolver.store_timeout")
	cfg.Resolver.PoolTimeout = viper.GetDuration("resolver.pool_timeout")
	cfg.Resolver.CandidateFetchLimit = viper.GetInt("resolver.candidate_fetch_limit")
	cfg.Resolver.DiverseCategoryCap = viper.GetInt("resolver.diverse_category_cap")
	cfg.Resolver.SessionCacheSize = viper.GetInt("resolver.session_cache_size")

	// Catalog engine
	cfg.Catalog.BaseURL = viper.GetString("catalog.base_url")
	cfg.Catalog.APIKey = viper.GetString("catalog.api_key")
	cfg.Catalog.Timeout = viper.GetDuration("catalog.timeout")
	cfg.Catalog.RatePerSec = viper.GetFloat64("catalog.rate_per_sec")
	cfg.Catalog.Burst = viper.GetInt("catalog.burst")
	if catalogURL := viper.GetString("catalog_base_url"); catalogURL != "" {
		cfg.Catalog.BaseURL = catalogURL
	}
	if catalogKey := viper.GetString("catalog_api_key"); catalogKey != "" {
		cfg.Catalog.APIKey = catalogKey
	}

	// Breaker
	cfg.Breaker.FailureThreshold = viper.GetInt("breaker.failure_threshold")
	cfg.Breaker.Cooldown = viper.GetDuration("breaker.cooldown")

	// API protection
	cfg.RateLimit.PerMin = viper.GetInt("rate_limit.per_min")

	// Worker
	cfg.Worker.MetricsPort = viper.GetInt("worker.metrics_port")
	cfg.Worker.SweepSchedule = viper.GetString("worker.sweep_schedule")
	cfg.Worker.ReloadSchedule = viper.GetString("worker.reload_schedule")

	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("catalog.base_url is required - please add a catalog section to config.yaml")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key_prefix", "recsvc:")
	viper.SetDefault("redis.op_timeout", "2s")

	viper.SetDefault("taxonomy.path", "taxonomy.yaml")
	viper.SetDefault("taxonomy.default_language", "en")
	viper.SetDefault("taxonomy.reload_interval", "5m")

	// Resolver defaults
	viper.SetDefault("resolver.session_ttl", "30m")
	viper.SetDefault("resolver.store_timeout", "2s")
	viper.SetDefault("resolver.pool_timeout", "3s")
	viper.SetDefault("resolver.candidate_fetch_limit", 50)
	viper.SetDefault("resolver.diverse_category_cap", 3)
	viper.SetDefault("resolver.session_cache_size", 512)

	viper.SetDefault("catalog.timeout", "3s")
	viper.SetDefault("catalog.rate_per_sec", 20)
	viper.SetDefault("catalog.burst", 40)

	viper.SetDefault("breaker.failure_threshold", 3)
	viper.SetDefault("breaker.cooldown", "30s")

	viper.SetDefault("rate_limit.per_min", 120)

	viper.SetDefault("worker.metrics_port", 9091)
	viper.SetDefault("worker.sweep_schedule", "@every 10m")
	viper.SetDefault("worker.reload_schedule", "@every 1h")
}
