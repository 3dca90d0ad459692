package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

// Config is the file-backed configuration of the inspector.
type Config struct {
	DB           DBConfig           `mapstructure:"db"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Fetch        FetchConfig        `mapstructure:"fetch"`
	Notification NotificationConfig `mapstructure:"notification"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type QueueConfig struct {
	Workers    int           `mapstructure:"workers"`
	BufferSize int           `mapstructure:"buffer_size"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type FetchConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	Retries         int           `mapstructure:"retries"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
}

type NotificationConfig struct {
	// MinLevel enables notifications when set; empty disables them.
	MinLevel     string `mapstructure:"min_level"`
	SlackWebhook string `mapstructure:"slack_webhook"`
	SlackChannel string `mapstructure:"slack_channel"`
}

// HTTPOptions converts the fetch section to per-run options.
func (c FetchConfig) HTTPOptions() domain.HTTPOptions {
	options := domain.DefaultHTTPOptions()
	if c.Timeout > 0 {
		options.Timeout = c.Timeout
	}
	if c.Retries > 0 {
		options.Retries = c.Retries
	}
	options.FollowRedirects = c.FollowRedirects
	return options
}

// MinLevelOrNil parses the notification threshold; nil means disabled.
func (c NotificationConfig) MinLevelOrNil() (*domain.Level, error) {
	if c.MinLevel == "" {
		return nil, nil
	}
	level, err := domain.ParseLevel(c.MinLevel)
	if err != nil {
		return nil, fmt.Errorf("notification.min_level: %w", err)
	}
	return &level, nil
}

// Load reads the config file at path, falling back to defaults for anything
// unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("db.path", "page-atlas.db")
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.buffer_size", 256)
	v.SetDefault("queue.retry_delay", time.Second)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.retries", 2)
	v.SetDefault("fetch.follow_redirects", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := cfg.Notification.MinLevelOrNil(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
