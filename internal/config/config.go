// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads omnilens configuration from defaults, an optional
// YAML file and OMNILENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bartekus/omnilens/internal/scanner"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidFileBytes = errors.New("max file bytes must be positive")
	ErrInvalidLimit     = errors.New("limit must not be negative")
	ErrInvalidTTL       = errors.New("cache ttl must not be negative")
	ErrInvalidLevel     = errors.New("unknown log level")
	ErrInvalidLogFormat = errors.New("unknown log format")
	ErrInvalidFormat    = errors.New("unknown output format")
)

// Default configuration values.
const (
	defaultWorkers   = 4
	defaultCacheTTL  = 24 * time.Hour
	defaultCachePath = ".omnilens/cache.db"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultFormat    = "table"

	// FileName is the configuration file looked up in the working and home
	// directories, without extension.
	FileName = ".omnilens"
	// EnvPrefix prefixes environment overrides, e.g. OMNILENS_ANALYSIS_WORKERS.
	EnvPrefix = "OMNILENS"
)

// Formats lists the accepted output formats.
var Formats = []string{"table", "json", "yaml", "markdown", "html", "csv"}

// Config holds all configuration for a run. It is passed by value and never
// mutated by the components that receive it.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Exclude  ExcludeConfig  `mapstructure:"exclude"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

// AnalysisConfig holds pipeline settings.
type AnalysisConfig struct {
	Workers       int   `mapstructure:"workers"`
	MaxFileBytes  int64 `mapstructure:"max_file_bytes"`
	SkipVendored  bool  `mapstructure:"skip_vendored"`
	IncludeMerges bool  `mapstructure:"include_merges"`
	Limit         int   `mapstructure:"limit"`
	NoGit         bool  `mapstructure:"no_git"`
}

// ExcludeConfig holds path exclusion patterns.
type ExcludeConfig struct {
	Dirs  []string `mapstructure:"dirs"`
	Files []string `mapstructure:"files"`
}

// CacheConfig holds analysis cache settings.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{
			Workers:      defaultWorkers,
			MaxFileBytes: scanner.DefaultMaxFileBytes,
			SkipVendored: true,
		},
		Exclude: ExcludeConfig{
			Dirs:  scanner.DefaultExcludeDirs(),
			Files: scanner.DefaultExcludeFiles(),
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    defaultCachePath,
			TTL:     defaultCacheTTL,
		},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Output:  OutputConfig{Format: defaultFormat},
	}
}

// Load reads configuration. An explicit configPath must exist; otherwise
// .omnilens.yaml is looked up in the working directory, then $HOME, and a
// missing file is not an error.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// UsedFile reports the config file Load would read, or "" when none exists.
func UsedFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.max_file_bytes", d.Analysis.MaxFileBytes)
	v.SetDefault("analysis.skip_vendored", d.Analysis.SkipVendored)
	v.SetDefault("analysis.include_merges", d.Analysis.IncludeMerges)
	v.SetDefault("analysis.limit", d.Analysis.Limit)
	v.SetDefault("analysis.no_git", d.Analysis.NoGit)

	v.SetDefault("exclude.dirs", d.Exclude.Dirs)
	v.SetDefault("exclude.files", d.Exclude.Files)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.path", d.Output.Path)
}

// Validate checks every field with a constrained domain.
func (c Config) Validate() error {
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Analysis.Workers)
	}
	if c.Analysis.MaxFileBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFileBytes, c.Analysis.MaxFileBytes)
	}
	if c.Analysis.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.Analysis.Limit)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, c.Cache.TTL)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if !ValidFormat(c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}
	return nil
}

// ValidFormat reports whether f is an accepted output format.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ScannerOptions derives the scanner configuration.
func (c Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		Filter: scanner.FilterOptions{
			ExcludeDirs:  c.Exclude.Dirs,
			ExcludeFiles: c.Exclude.Files,
			SkipVendored: c.Analysis.SkipVendored,
			SkipHidden:   true,
		},
		UseGit:       !c.Analysis.NoGit,
		MaxFileBytes: c.Analysis.MaxFileBytes,
	}
}
