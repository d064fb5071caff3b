// Package config provides configuration management for the strategy
// workbench.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "options-strategist/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
	// CreatedTemplate reports whether a default config file was written
	// on this load.
	CreatedTemplate bool `mapstructure:"-"`
}

// EngineConfig holds payoff engine tuning.
type EngineConfig struct {
	Samples      int     `mapstructure:"samples"`
	DomainSpan   float64 `mapstructure:"domain_span"`
	StrikeMargin float64 `mapstructure:"strike_margin"`
	ChanceWindow float64 `mapstructure:"chance_window"`
	StrikeStep   float64 `mapstructure:"strike_step"`
	Multiplier   int     `mapstructure:"multiplier"`
}

// ChartConfig holds payoff chart rendering settings.
type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// CatalogConfig holds strategy catalog settings.
type CatalogConfig struct {
	// TemplateFiles are extra strategy template files, resolved relative
	// to the config directory unless absolute.
	TemplateFiles []string `mapstructure:"template_files"`
}

// ServerConfig holds the JSON API server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/strategist"
	}
	return filepath.Join(home, ".config", "strategist")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default directory is used. A missing config file is replaced
// with a commented template and the load continues on defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	cfg := &Config{Dir: configDir}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
		cfg.CreatedTemplate = true
		// The template mirrors the defaults; re-read so later edits and
		// this first run go through the same path.
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading created config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	resolvePaths(cfg, configDir)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("engine.samples", 50)
	v.SetDefault("engine.domain_span", 0.30)
	v.SetDefault("engine.strike_margin", 0.10)
	v.SetDefault("engine.chance_window", 0.50)
	v.SetDefault("engine.strike_step", 5.0)
	v.SetDefault("engine.multiplier", 100)

	v.SetDefault("chart.width", 72)
	v.SetDefault("chart.height", 20)

	v.SetDefault("catalog.template_files", []string{"strategies.yaml"})

	v.SetDefault("server.addr", ":8087")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.path", filepath.Join(configDir, "strategist.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("log.file", true)
	v.SetDefault("log.file_path", filepath.Join(configDir, "logs", "strategist.log"))
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("ui.color_enabled", true)
}

// resolvePaths makes relative catalog template paths absolute against the
// config directory.
func resolvePaths(cfg *Config, configDir string) {
	for i, f := range cfg.Catalog.TemplateFiles {
		if !filepath.IsAbs(f) {
			cfg.Catalog.TemplateFiles[i] = filepath.Join(configDir, f)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRATEGIST_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("STRATEGIST_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STRATEGIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.UI.ColorEnabled = false
	}
}

// Validate validates the configuration. Every failure wraps
// apperrors.ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.Engine.Samples < 2 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.samples must be at least 2")
	}
	if c.Engine.Samples > 10000 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.samples must be at most 10000")
	}
	if c.Engine.DomainSpan <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.domain_span must be positive")
	}
	if c.Engine.StrikeMargin < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.strike_margin must be non-negative")
	}
	if c.Engine.ChanceWindow <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.chance_window must be positive")
	}
	if c.Engine.StrikeStep <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.strike_step must be positive")
	}
	if c.Engine.Multiplier < 1 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "engine.multiplier must be at least 1")
	}

	if c.Chart.Width < 20 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "chart.width must be at least 20")
	}
	if c.Chart.Height < 5 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "chart.height must be at least 5")
	}

	if c.Server.Addr == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "server.addr must not be empty")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "log.level must be one of debug, info, warn, error")
	}

	return nil
}

// ConfigFilePath returns the path of the main config file.
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.Dir, "config.toml")
}
