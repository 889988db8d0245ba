package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for the engine's three call-path boundaries: traverse,
// construct, and xcall (spec.md §3, §4, §5).
const (
	AttrPath            = "cdts.path"             // dot-joined element path, e.g. "0.2.1"
	AttrTag             = "cdts.tag"               // primitive.Tag name at this position
	AttrFixedDimensions = "cdts.fixed_dimensions"   // array nesting depth, -1 for mixed
	AttrElementCount    = "cdts.element_count"      // root array's element count
	AttrFastPathHit     = "cdts.fast_path_hit"       // build_array_fast bulk path taken
	AttrRuntimeID       = "cdts.runtime_id"          // runtimeid.ID of a Handle/Callable
	AttrAbiShape        = "cdts.xcall.shape"        // xcall.Shape name
	AttrErrorKind       = "cdts.error.kind"         // ffierr.Kind
	AttrCorrelationID   = "cdts.correlation_id"     // per-invocation UUID, for log/span correlation
)

// Span names for the engine's three call paths.
const (
	SpanTraverse  = "cdts.traverse"
	SpanConstruct = "cdts.construct"
	SpanXcall     = "cdts.xcall"
)

// Path formats a CDTS element path (a slice of array indices) as a dotted
// attribute value, e.g. []uint64{0, 2, 1} -> "0.2.1".
func Path(path []uint64) attribute.KeyValue {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return attribute.String(AttrPath, strings.Join(parts, "."))
}

// Tag returns an attribute for a primitive.Tag's name.
func Tag(name string) attribute.KeyValue {
	return attribute.String(AttrTag, name)
}

// FixedDimensions returns an attribute for an array's dimension-nesting depth.
func FixedDimensions(depth int64) attribute.KeyValue {
	return attribute.Int64(AttrFixedDimensions, depth)
}

// ElementCount returns an attribute for the number of elements in the root
// array a traverse or construct call works on (not its nested leaves).
func ElementCount(n int) attribute.KeyValue {
	return attribute.Int(AttrElementCount, n)
}

// FastPathHit returns an attribute for whether build_array_fast's bulk path
// was taken.
func FastPathHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrFastPathHit, hit)
}

// RuntimeID returns an attribute for a runtimeid.ID, by its raw value.
func RuntimeID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrRuntimeID, int64(id))
}

// AbiShape returns an attribute for an xcall.Shape's name.
func AbiShape(name string) attribute.KeyValue {
	return attribute.String(AttrAbiShape, name)
}

// ErrorKind returns an attribute for an ffierr.Kind.
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// CorrelationID returns an attribute for a per-invocation correlation UUID.
func CorrelationID(id string) attribute.KeyValue {
	return attribute.String(AttrCorrelationID, id)
}

// StartTraverseSpan starts a span around one traverse.Run invocation.
func StartTraverseSpan(ctx context.Context, elementCount int, correlationID string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanTraverse, trace.WithAttributes(ElementCount(elementCount), CorrelationID(correlationID)))
}

// StartConstructSpan starts a span around one construct.Build invocation.
func StartConstructSpan(ctx context.Context, elementCount int, correlationID string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanConstruct, trace.WithAttributes(ElementCount(elementCount), CorrelationID(correlationID)))
}

// StartXcallSpan starts a span around one Callable.Invoke dispatch.
func StartXcallSpan(ctx context.Context, shape string, runtimeID uint64, correlationID string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanXcall, trace.WithAttributes(AbiShape(shape), RuntimeID(runtimeID), CorrelationID(correlationID)))
}
