// Package config loads babylog settings from an optional config file and
// BABYLOG_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "BABYLOG"

// Config holds process-level configuration. Reminder behaviour lives in the
// store (settings.ReminderSettings) so it can be changed from the CLI.
type Config struct {
	DB         string        `mapstructure:"db"`
	LogLevel   string        `mapstructure:"log_level"`
	Timezone   string        `mapstructure:"timezone" validate:"required"`
	WindowDays int           `mapstructure:"window_days" validate:"min=0"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
	Webhook    WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig configures the optional HTTP reminder sink.
type WebhookConfig struct {
	URL      string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Attempts uint          `mapstructure:"attempts" validate:"min=1,max=10"`
}

var validate = validator.New()

// Load reads configuration. path names a YAML/JSON/TOML file; when empty,
// $BABYLOG_CONFIG is consulted, and with neither only defaults and the
// environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("timezone", "Local")
	v.SetDefault("window_days", 14)
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", 10*time.Second)
	v.SetDefault("webhook.attempts", 3)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Window is the analysis window; zero means the analyzer default.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}
