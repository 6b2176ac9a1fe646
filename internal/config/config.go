// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Events    EventsConfig    `mapstructure:"events"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Retention RetentionConfig `mapstructure:"retention"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
	OpTimeout    time.Duration `mapstructure:"op_timeout"`
}

// RedisConfig holds Redis connection settings, shared by the cache tier, the
// invalidation channel, and the distributed locker.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address for the Redis client.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds resolved-content cache settings.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	ResolveTTL  time.Duration `mapstructure:"resolve_ttl"`
	NegativeTTL time.Duration `mapstructure:"negative_ttl"` // eventual-consistency bound for misses
	LocalTTL    time.Duration `mapstructure:"local_ttl"`
	LocalSize   uint64        `mapstructure:"local_size"`
	OpTimeout   time.Duration `mapstructure:"op_timeout"`
}

// EventsConfig holds invalidation pub/sub settings.
type EventsConfig struct {
	Channel        string        `mapstructure:"channel"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// WebhookConfig holds purge webhook settings.
type WebhookConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Endpoints []string      `mapstructure:"endpoints"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retry     RetryConfig   `mapstructure:"retry"`
	CB        CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings for outbound HTTP calls.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// RetentionConfig holds analytics retention job settings.
type RetentionConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Horizon   time.Duration `mapstructure:"horizon"`
	OnStartup bool          `mapstructure:"on_startup"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "content-resolution-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "africahub_content")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.op_timeout", "3s")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.key_prefix", "africahub")
	v.SetDefault("cache.resolve_ttl", "10m")
	v.SetDefault("cache.negative_ttl", "30s")
	v.SetDefault("cache.local_ttl", "15s")
	v.SetDefault("cache.local_size", 4096)
	v.SetDefault("cache.op_timeout", "250ms")

	// Events defaults
	v.SetDefault("events.channel", "content:changes")
	v.SetDefault("events.publish_timeout", "1s")

	// Webhook defaults
	v.SetDefault("webhook.enabled", false)
	v.SetDefault("webhook.endpoints", []string{})
	v.SetDefault("webhook.timeout", "5s")
	v.SetDefault("webhook.retry.max_attempts", 3)
	v.SetDefault("webhook.retry.wait_time", "500ms")
	v.SetDefault("webhook.retry.max_wait_time", "3s")
	v.SetDefault("webhook.circuit_breaker.max_requests", 3)
	v.SetDefault("webhook.circuit_breaker.interval", "60s")
	v.SetDefault("webhook.circuit_breaker.timeout", "30s")
	v.SetDefault("webhook.circuit_breaker.failure_ratio", 0.5)

	// Retention defaults
	v.SetDefault("retention.interval", "24h")
	v.SetDefault("retention.horizon", "2160h") // 90 days of counters
	v.SetDefault("retention.on_startup", false)
	v.SetDefault("retention.lock_ttl", "10m")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
