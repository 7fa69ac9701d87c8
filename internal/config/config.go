package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceSample = "sample"
	SourceSQLite = "sqlite"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds application configuration.
type Config struct {
	Dashboard DashboardConfig     `mapstructure:"dashboard"`
	Source    SourceConfig        `mapstructure:"source"`
	Log       LogConfig           `mapstructure:"log"`
	Keys      map[string][]string `mapstructure:"keys"`
}

// DashboardConfig holds event loop settings.
type DashboardConfig struct {
	TickRate     time.Duration `mapstructure:"tick_rate"`
	ProgressStep float64       `mapstructure:"progress_step"`
	EventBuffer  int           `mapstructure:"event_buffer"`
}

// SourceConfig selects where the initial task set comes from.
type SourceConfig struct {
	Kind       string `mapstructure:"kind"`
	DBPath     string `mapstructure:"db_path"`
	SampleSize int    `mapstructure:"sample_size"`
}

// LogConfig holds logger settings. The dashboard owns the terminal, so logs
// go to a file.
type LogConfig struct {
	Path   string `mapstructure:"path"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// CRANKSHAFT_. A .env file in the working directory is loaded first when
// present. path overrides CRANKSHAFT_CONFIG when not empty.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("dashboard.tick_rate", "250ms")
	v.SetDefault("dashboard.progress_step", 0.01)
	v.SetDefault("dashboard.event_buffer", 256)
	v.SetDefault("source.kind", SourceSample)
	v.SetDefault("source.db_path", filepath.Join(home, ".local", "share", "crankshaft", "crankshaft.db"))
	v.SetDefault("source.sample_size", 19)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "crankshaft", "crankshaft.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatText)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("CRANKSHAFT_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "crankshaft"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CRANKSHAFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist, the default location is optional.
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the dashboard cannot run with.
func (c Config) Validate() error {
	if c.Dashboard.TickRate <= 0 {
		return fmt.Errorf("invalid config: dashboard.tick_rate must be positive, got %s", c.Dashboard.TickRate)
	}
	if c.Dashboard.ProgressStep <= 0 || c.Dashboard.ProgressStep > 1 {
		return fmt.Errorf("invalid config: dashboard.progress_step must be in (0, 1], got %v", c.Dashboard.ProgressStep)
	}
	switch c.Source.Kind {
	case SourceSample, SourceSQLite:
	default:
		return fmt.Errorf("invalid config: unknown source.kind %q", c.Source.Kind)
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid config: unknown log.format %q", c.Log.Format)
	}
	return nil
}

// Save writes the provided config to path as TOML, creating the directory if
// needed. An empty path uses CRANKSHAFT_CONFIG or the default location.
func Save(path string, cfg Config) error {
	if path == "" {
		path = os.Getenv("CRANKSHAFT_CONFIG")
	}
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".config", "crankshaft", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("dashboard.tick_rate", cfg.Dashboard.TickRate.String())
	v.Set("dashboard.progress_step", cfg.Dashboard.ProgressStep)
	v.Set("dashboard.event_buffer", cfg.Dashboard.EventBuffer)
	v.Set("source.kind", cfg.Source.Kind)
	v.Set("source.db_path", cfg.Source.DBPath)
	v.Set("source.sample_size", cfg.Source.SampleSize)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	for action, keys := range cfg.Keys {
		v.Set("keys."+action, keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
