package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"wellness-insights/internal/analytics"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Config centraliza la configuración del servicio.
type Config struct {
	StoreDriver    string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"wellness.db"`
	LLMAPIKey      string `env:"LLM_API_KEY"`
	LLMBaseURL     string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel       string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	InsightCacheTTL     time.Duration `env:"INSIGHT_CACHE_TTL" envDefault:"6h"`
	TrendWindowSize     int           `env:"TREND_WINDOW_SIZE" envDefault:"7"`
	TrendThreshold      float64       `env:"TREND_THRESHOLD" envDefault:"0.5"`
	FrequencyPeriodDays int           `env:"FREQUENCY_PERIOD_DAYS" envDefault:"30"`
	AnalyticsTimezone   string        `env:"ANALYTICS_TIMEZONE" envDefault:"UTC"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = StoreDriverPostgres
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TrendWindowSize <= 0 {
		return fmt.Errorf("TREND_WINDOW_SIZE must be positive, got %d", c.TrendWindowSize)
	}
	if c.TrendThreshold <= 0 {
		return fmt.Errorf("TREND_THRESHOLD must be positive, got %v", c.TrendThreshold)
	}
	if c.FrequencyPeriodDays <= 0 {
		return fmt.Errorf("FREQUENCY_PERIOD_DAYS must be positive, got %d", c.FrequencyPeriodDays)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.LLMTemperature)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %v", c.LLMTimeout)
	}
	if _, err := time.LoadLocation(c.AnalyticsTimezone); err != nil {
		return fmt.Errorf("ANALYTICS_TIMEZONE: %w", err)
	}
	return nil
}

// AnalyticsSettings traduce la configuración a parámetros del motor.
func (c *Config) AnalyticsSettings() (analytics.Settings, error) {
	loc, err := time.LoadLocation(c.AnalyticsTimezone)
	if err != nil {
		return analytics.Settings{}, fmt.Errorf("load timezone: %w", err)
	}
	s := analytics.DefaultSettings()
	s.TrendWindowSize = c.TrendWindowSize
	s.TrendThreshold = c.TrendThreshold
	s.FrequencyPeriodDays = c.FrequencyPeriodDays
	s.Location = loc
	return s, nil
}
