package telemetry

// Config holds OpenTelemetry configuration for the engine's span helpers.
type Config struct {
	// Enabled indicates whether tracing is enabled.
	Enabled bool

	// ServiceName is the name reported on the trace resource.
	ServiceName string

	// ServiceVersion is the version reported on the trace resource.
	ServiceVersion string

	// SampleRate is the trace sampling rate (0.0 to 1.0). 1.0 samples all
	// traces, 0.5 samples half, 0.0 disables sampling entirely.
	SampleRate float64
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "metaffi-core",
		ServiceVersion: "dev",
		SampleRate:     1.0,
	}
}
