package config

import "strings"

// ApplyDefaults fills any unspecified fields of cfg with sensible defaults.
// Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyEngineDefaults(&cfg.Engine)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// cdts_cache_size in the original runtime. Same value as
// bufpool.SmallArrayThreshold, which is what the construct fast path checks.
const defaultFastPathThreshold = 50

func applyEngineDefaults(cfg *EngineConfig) {
	if cfg.FastPathThreshold == 0 {
		cfg.FastPathThreshold = defaultFastPathThreshold
	}
	if cfg.BufferPool.SmallSize == 0 {
		cfg.BufferPool.SmallSize = 4 * 1024
	}
	if cfg.BufferPool.MediumSize == 0 {
		cfg.BufferPool.MediumSize = 64 * 1024
	}
	if cfg.BufferPool.LargeSize == 0 {
		cfg.BufferPool.LargeSize = 1024 * 1024
	}
}

// GetDefaultConfig returns a Config with all defaults applied, used when no
// config file is found and as the basis for `config init`.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
