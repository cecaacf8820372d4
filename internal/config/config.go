// Package config loads taskpad settings from a config file, environment
// variables, and defaults, in that order of increasing precedence for
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	DB    DBConfig    `mapstructure:"db"`
	Log   LogConfig   `mapstructure:"log"`
	Feed  FeedConfig  `mapstructure:"feed"`
	Watch WatchConfig `mapstructure:"watch"`
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls file logging.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// FeedConfig controls the WebSocket feed server.
type FeedConfig struct {
	Port int `mapstructure:"port"`
}

// WatchConfig controls database file monitoring.
type WatchConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Quiet   time.Duration `mapstructure:"quiet"`
}

// Load reads configuration from the given file if non-empty, otherwise
// from $XDG_CONFIG_HOME/taskpad/config.yaml when present. TASKPAD_*
// environment variables override file values.
func Load(file string) (*Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("db.path", filepath.Join(home, ".taskpad", "taskpad.db"))
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("feed.port", 8080)
	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.quiet", time.Second)

	v.SetEnvPrefix("TASKPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "taskpad"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}
