// Package config loads the configuration for the CDTS engine and its CLI:
// fast-path thresholds, buffer pool sizes, logging, and the runtime registry
// overlay path (spec.md §6.4, §4.4).
//
// Configuration sources, in order of precedence:
//  1. Environment variables (METAFFI_*, highest priority)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// No command-line flag overrides an individual setting; the CLI's --config
// flag only selects which file is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the engine and CLI.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics contains Prometheus metrics server configuration.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Engine contains CDTS engine tuning: fast-path thresholds and buffer
	// pool sizes.
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`

	// Runtimes contains the runtime ID registry overlay (spec.md §6.4).
	Runtimes RuntimesConfig `mapstructure:"runtimes" yaml:"runtimes"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized
	// to uppercase).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig configures the Prometheus metrics HTTP server. When Enabled
// is false, no metrics are collected.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// EngineConfig tunes the CDTS engine's fast path and buffer pool.
type EngineConfig struct {
	// FastPathThreshold is a validated, reported setting (grounded on the
	// original's cdts_cache_size). The construct engine does not read it:
	// its fast path is gated by the constant bufpool.SmallArrayThreshold.
	FastPathThreshold int `mapstructure:"fast_path_threshold" validate:"gt=0" yaml:"fast_path_threshold"`

	// BufferPool sizes the scratch-buffer pool backing the fast path.
	BufferPool BufferPoolConfig `mapstructure:"buffer_pool" yaml:"buffer_pool"`
}

// BufferPoolConfig sizes the three pkg/bufpool tiers, in bytes.
type BufferPoolConfig struct {
	SmallSize  uint64 `mapstructure:"small_size" validate:"gt=0" yaml:"small_size"`
	MediumSize uint64 `mapstructure:"medium_size" validate:"gt=0" yaml:"medium_size"`
	LargeSize  uint64 `mapstructure:"large_size" validate:"gt=0" yaml:"large_size"`
}

// RuntimesConfig points at the optional pkg/runtimeid YAML overlay file.
type RuntimesConfig struct {
	// OverlayPath is a path to a YAML file registering additional runtime
	// IDs by name. Empty means no overlay is loaded.
	OverlayPath string `mapstructure:"overlay_path" yaml:"overlay_path,omitempty"`
}

// Load loads configuration from file, environment, and defaults.
//
// configPath may be empty, in which case the default location
// ($XDG_CONFIG_HOME/metaffi-core/config.yaml) is searched and, if absent,
// the defaults are used, still overridden by any METAFFI_* variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}
	// AutomaticEnv only consults the environment for keys viper already
	// knows, so bind every key explicitly for env overrides without a file.
	for _, key := range []string{
		"logging.level", "logging.format", "logging.output",
		"metrics.enabled", "metrics.port", "engine.fast_path_threshold",
		"engine.buffer_pool.small_size", "engine.buffer_pool.medium_size",
		"engine.buffer_pool.large_size", "runtimes.overlay_path",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationFreeDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// durationFreeDecodeHook is the decode hook composition point. The engine
// config has no time.Duration fields today, but the hook is kept as its own
// function (mirroring the teacher's configDecodeHooks) so a future duration
// field only needs a hook added here, not a call-site change.
func durationFreeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		return data, nil
	}
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("METAFFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "metaffi-core")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "metaffi-core")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// SaveConfig writes cfg to path in YAML format.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate runs struct-tag validation over cfg using go-playground/validator.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
