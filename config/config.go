package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/passcheck-api/internal/breach"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port" default:"8080"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" split_words:"true" default:"10s"`
}

type BreachConfig struct {
	Endpoint     string             `mapstructure:"endpoint" default:"https://api.pwnedpasswords.com/range"`
	Timeout      time.Duration      `mapstructure:"timeout" default:"2s"`
	TTL          time.Duration      `mapstructure:"ttl" default:"24h"`
	CacheBackend string             `mapstructure:"cache_backend" split_words:"true" default:"memory"`
	Redis        breach.RedisConfig `mapstructure:"redis"`
}

type WordlistConfig struct {
	Path string `mapstructure:"path" default:"config/common_passwords.txt"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true" default:"*"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level" default:"info"`
	Console bool   `mapstructure:"console" default:"true"`
}

type MonitoringConfig struct {
	Namespace     string `mapstructure:"namespace" default:"passcheck"`
	MetricsPrefix string `mapstructure:"metrics_prefix" split_words:"true" default:"passcheck_http"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Breach     BreachConfig     `mapstructure:"breach"`
	Wordlist   WordlistConfig   `mapstructure:"wordlist"`
	Security   SecurityConfig   `mapstructure:"security"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// LoadConfig reads config.yml from the working directory or ./config, then
// applies environment overrides. A missing file is fine: everything has an
// env-driven default, so containerized deployments can run file-free.
func LoadConfig() (*Config, error) {
	var config Config

	// Environment first: this also fills every default.
	if err := envconfig.Process("passcheck", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate rejects configurations that cannot be served.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Breach.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown breach cache backend %q", c.Breach.CacheBackend)
	}
	if c.Breach.CacheBackend == CacheBackendRedis && c.Breach.Redis.URL == "" {
		return fmt.Errorf("redis cache backend requires a redis url")
	}
	return nil
}
