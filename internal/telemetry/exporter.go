package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/MetaFFI/plugin-sdk/internal/logger"
)

// logExporter is a tiny in-process sdktrace.SpanExporter that logs completed
// spans through internal/logger instead of shipping them to a collector.
// spec.md doesn't ask for a tracing backend, and the only OTLP exporter in
// the corpus (otlptracegrpc) pulls in a gRPC client with nothing on the
// other end to talk to — see DESIGN.md for why it was dropped.
type logExporter struct{}

func (logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := make([]any, 0, len(s.Attributes())*2+4)
		attrs = append(attrs,
			"trace_id", s.SpanContext().TraceID().String(),
			"span_id", s.SpanContext().SpanID().String(),
			"duration_ms", float64(s.EndTime().Sub(s.StartTime()).Microseconds())/1000.0,
		)
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key), kv.Value.Emit())
		}
		logger.Debug("span: "+s.Name(), attrs...)
	}
	return nil
}

func (logExporter) Shutdown(context.Context) error { return nil }
