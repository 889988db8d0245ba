package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsNormalizesLogLevelCase(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "debug"
	ApplyDefaults(cfg)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestApplyDefaultsMetricsPortOnlyWhenEnabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Zero(t, cfg.Metrics.Port)

	cfg2 := &Config{}
	cfg2.Metrics.Enabled = true
	ApplyDefaults(cfg2)
	assert.Equal(t, 9090, cfg2.Metrics.Port)
}

func TestApplyDefaultsEngineBufferPool(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, defaultFastPathThreshold, cfg.Engine.FastPathThreshold)
	assert.Equal(t, uint64(4*1024), cfg.Engine.BufferPool.SmallSize)
	assert.Equal(t, uint64(64*1024), cfg.Engine.BufferPool.MediumSize)
	assert.Equal(t, uint64(1024*1024), cfg.Engine.BufferPool.LargeSize)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Engine.FastPathThreshold = 10
	ApplyDefaults(cfg)
	assert.Equal(t, 10, cfg.Engine.FastPathThreshold)
}

func TestGetDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, Validate(GetDefaultConfig()))
}
