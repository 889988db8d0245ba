package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidConfig(t *testing.T) {
	require.NoError(t, Validate(GetDefaultConfig()))
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oneof")
}

func TestValidateInvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, Validate(cfg))
}

func TestValidateMetricsPortOutOfRange(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Port = 70000
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max")
}

func TestValidateFastPathThresholdMustBePositive(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Engine.FastPathThreshold = 0
	assert.Error(t, Validate(cfg))
}
