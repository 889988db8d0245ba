// Package metrics provides optional observability for the CDTS engine.
//
// EngineMetrics is an interface so the traverse/construct/xcall call paths
// never import Prometheus directly: callers pass nil to disable metrics with
// zero overhead, or a value obtained from NewEngineMetrics after InitRegistry
// has been called.
//
// Example usage:
//
//	metrics.InitRegistry()
//	m := metrics.NewEngineMetrics()
//	traverse.Run(arr, callbacks, traverse.WithMetrics(m))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics observes traverse/construct/xcall activity. Implementations
// must tolerate a nil receiver so call sites can pass a possibly-nil
// EngineMetrics without a guard at every call.
type EngineMetrics interface {
	// ObserveTraversal records one traverse_cdts invocation, the element
	// tree it walked, and the wall time taken.
	ObserveTraversal(leafCount int, duration time.Duration)

	// ObserveConstruction records one construct_cdts invocation.
	ObserveConstruction(leafCount int, duration time.Duration)

	// RecordFastPath records whether build_array_fast's bulk path was
	// taken (hit) or the engine fell back to per-element callbacks (miss).
	RecordFastPath(hit bool)

	// RecordError increments the counter for one ffierr.Kind by name.
	RecordError(kind string)

	// ObserveXcall records one Callable.Invoke dispatch by ABI shape
	// ("no_params_no_return", "params_no_return", "no_params_return",
	// "params_and_return") and outcome ("ok" or "error").
	ObserveXcall(shape string, outcome string, duration time.Duration)
}

var (
	registry  *prometheus.Registry
	enabled   bool
	newEngine func() EngineMetrics
)

// InitRegistry creates the process-wide Prometheus registry and enables
// metrics collection. Must be called before NewEngineMetrics for the latter
// to return a non-nil value.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return enabled
}

// GetRegistry returns the process-wide registry, or nil if InitRegistry has
// not been called.
func GetRegistry() *prometheus.Registry {
	return registry
}

// NewEngineMetrics returns a Prometheus-backed EngineMetrics, or nil if
// metrics are not enabled. The prometheus-backed constructor is registered by
// pkg/metrics/prometheus during that package's init, mirroring the
// constructor-indirection used to avoid an import cycle between this
// interface package and its Prometheus-specific implementation.
func NewEngineMetrics() EngineMetrics {
	if !IsEnabled() || newEngine == nil {
		return nil
	}
	return newEngine()
}

// RegisterEngineMetricsConstructor registers the Prometheus engine metrics
// constructor. Called by pkg/metrics/prometheus during package init.
func RegisterEngineMetricsConstructor(constructor func() EngineMetrics) {
	newEngine = constructor
}
