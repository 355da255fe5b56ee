// Package config loads service configuration from configs/config.yml,
// PORTFOLIO_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/preferences"

	"github.com/spf13/viper"
)

const envPrefix = "PORTFOLIO"

// Config is the full service configuration.
type Config struct {
	Port        string               `mapstructure:"port"`
	StaticDir   string               `mapstructure:"static_dir"`
	Log         logger.Options       `mapstructure:"log"`
	DB          DBConfig             `mapstructure:"db"`
	Auth        AuthConfig           `mapstructure:"auth"`
	Visitor     VisitorConfig        `mapstructure:"visitor"`
	Preferences preferences.Defaults `mapstructure:"preferences"`
	Tracking    TrackingConfig       `mapstructure:"tracking"`
	Retention   RetentionConfig      `mapstructure:"retention"`
	Profile     models.Profile       `mapstructure:"profile"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// VisitorConfig controls the anonymous visitor cookie.
type VisitorConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
}

type TrackingConfig struct {
	QueueSize   int             `mapstructure:"queue_size"`
	SendTimeout time.Duration   `mapstructure:"send_timeout"`
	DrainGrace  time.Duration   `mapstructure:"drain_grace"`
	RespectDNT  bool            `mapstructure:"respect_dnt"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	PostHog     PostHogConfig   `mapstructure:"posthog"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// PostHogConfig points the forwarding sink at a capture endpoint.
// An empty Host disables forwarding.
type PostHogConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"api_key"`
}

type RetentionConfig struct {
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

var (
	ErrMissingPort      = errors.New("config: port is required")
	ErrInvalidQueueSize = errors.New("config: tracking.queue_size must be > 0")
	ErrInvalidMaxAge    = errors.New("config: retention.max_age must be > 0")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("static_dir", "")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.format", logger.FormatConsole)
	v.SetDefault("db.path", "portfolio.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("visitor.cookie_name", "visitor_id")
	v.SetDefault("visitor.max_age", 365*24*time.Hour)
	v.SetDefault("visitor.secure", false)
	v.SetDefault("preferences.dark_mode", false)
	v.SetDefault("preferences.ama_opened", false)
	v.SetDefault("tracking.queue_size", 256)
	v.SetDefault("tracking.send_timeout", 5*time.Second)
	v.SetDefault("tracking.drain_grace", 3*time.Second)
	v.SetDefault("tracking.respect_dnt", false)
	v.SetDefault("tracking.rate_limit.requests_per_second", 5.0)
	v.SetDefault("tracking.rate_limit.burst", 20)
	v.SetDefault("tracking.posthog.host", "")
	v.SetDefault("tracking.posthog.api_key", "")
	v.SetDefault("retention.schedule", "@daily")
	v.SetDefault("retention.max_age", 365*24*time.Hour)
}

// Load reads config from dir (config.yml), then environment overrides.
// A missing config file is not an error; defaults apply.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config in %q: %w", dir, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return ErrMissingPort
	}
	if c.Tracking.QueueSize <= 0 {
		return ErrInvalidQueueSize
	}
	if c.Retention.MaxAge <= 0 {
		return ErrInvalidMaxAge
	}
	return nil
}
