// Package prometheus implements pkg/metrics.EngineMetrics on top of
// prometheus/client_golang, following the same constructor-registration
// idiom used elsewhere in this module to avoid an import cycle between the
// metrics interface package and this implementation.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MetaFFI/plugin-sdk/pkg/metrics"
)

func init() {
	metrics.RegisterEngineMetricsConstructor(NewEngineMetrics)
}

type engineMetrics struct {
	traversals       prometheus.Counter
	traversalLeaves  prometheus.Histogram
	traversalSeconds prometheus.Histogram

	constructions       prometheus.Counter
	constructionLeaves  prometheus.Histogram
	constructionSeconds prometheus.Histogram

	fastPathHits   prometheus.Counter
	fastPathMisses prometheus.Counter

	errorsByKind *prometheus.CounterVec

	xcalls *prometheus.CounterVec
	xcallSeconds *prometheus.HistogramVec
}

// NewEngineMetrics creates a new Prometheus-backed metrics.EngineMetrics.
//
// Returns nil if metrics are not enabled (metrics.InitRegistry not called).
func NewEngineMetrics() metrics.EngineMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &engineMetrics{
		traversals: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "metaffi_cdts_traversals_total",
			Help: "Total number of traverse_cdts invocations.",
		}),
		traversalLeaves: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "metaffi_cdts_traversal_leaves",
			Help:    "Distribution of leaf element counts seen per traverse_cdts call.",
			Buckets: []float64{1, 2, 5, 10, 50, 100, 1000, 10000, 100000},
		}),
		traversalSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "metaffi_cdts_traversal_duration_seconds",
			Help:    "Wall time of traverse_cdts invocations.",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		}),
		constructions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "metaffi_cdts_constructions_total",
			Help: "Total number of construct_cdts invocations.",
		}),
		constructionLeaves: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "metaffi_cdts_construction_leaves",
			Help:    "Distribution of leaf element counts seen per construct_cdts call.",
			Buckets: []float64{1, 2, 5, 10, 50, 100, 1000, 10000, 100000},
		}),
		constructionSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "metaffi_cdts_construction_duration_seconds",
			Help:    "Wall time of construct_cdts invocations.",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		}),
		fastPathHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "metaffi_cdts_fast_path_hits_total",
			Help: "Number of build_array_fast bulk constructions taken.",
		}),
		fastPathMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "metaffi_cdts_fast_path_misses_total",
			Help: "Number of arrays that fell back to per-element construction.",
		}),
		errorsByKind: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "metaffi_cdts_errors_total",
			Help: "Total errors by ffierr.Kind.",
		}, []string{"kind"}),
		xcalls: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "metaffi_xcall_invocations_total",
			Help: "Total xcall dispatches by ABI shape and outcome.",
		}, []string{"shape", "outcome"}),
		xcallSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "metaffi_xcall_duration_seconds",
			Help:    "Wall time of xcall dispatches by ABI shape.",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		}, []string{"shape"}),
	}
}

func (m *engineMetrics) ObserveTraversal(leafCount int, duration time.Duration) {
	if m == nil {
		return
	}
	m.traversals.Inc()
	m.traversalLeaves.Observe(float64(leafCount))
	m.traversalSeconds.Observe(duration.Seconds())
}

func (m *engineMetrics) ObserveConstruction(leafCount int, duration time.Duration) {
	if m == nil {
		return
	}
	m.constructions.Inc()
	m.constructionLeaves.Observe(float64(leafCount))
	m.constructionSeconds.Observe(duration.Seconds())
}

func (m *engineMetrics) RecordFastPath(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.fastPathHits.Inc()
		return
	}
	m.fastPathMisses.Inc()
}

func (m *engineMetrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.errorsByKind.WithLabelValues(kind).Inc()
}

func (m *engineMetrics) ObserveXcall(shape string, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.xcalls.WithLabelValues(shape, outcome).Inc()
	m.xcallSeconds.WithLabelValues(shape).Observe(duration.Seconds())
}
