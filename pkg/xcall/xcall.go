// Package xcall implements the four-shape call ABI (spec.md §6.2, C5) that
// dispatches a foreign Callable: with or without parameters, with or
// without a return array, plus the err_out double-pointer convention for
// reporting a foreign-side failure back across the boundary.
package xcall

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MetaFFI/plugin-sdk/internal/logger"
	"github.com/MetaFFI/plugin-sdk/internal/telemetry"
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/metrics"
)

// Shape names the four ABI dispatch combinations spec.md §6.2 enumerates.
type Shape string

const (
	ShapeNoParamsNoReturn Shape = "no_params_no_return"
	ShapeParamsNoReturn   Shape = "params_no_return"
	ShapeNoParamsReturn   Shape = "no_params_return"
	ShapeParamsAndReturn  Shape = "params_and_return"
)

// ShapeOf reports which of the four ABI shapes a call with the given
// params/returns presence uses.
func ShapeOf(hasParams, hasReturn bool) Shape {
	switch {
	case hasParams && hasReturn:
		return ShapeParamsAndReturn
	case hasParams:
		return ShapeParamsNoReturn
	case hasReturn:
		return ShapeNoParamsReturn
	default:
		return ShapeNoParamsNoReturn
	}
}

// Allocator supplies the alloc/free hooks a foreign callee uses to satisfy
// the err_out convention (spec.md §6.3): the callee allocates the error
// message, the caller frees it once done logging/wrapping it.
type Allocator interface {
	AllocString(s string) (ptr any, err error)
	FreeString(ptr any) error
}

// Invoke dispatches one call to c, selecting the ABI shape from c's declared
// ParamTypes/ReturnTypes (spec.md §6.2 and §3.4 — a property of the
// callable's signature, not of any one call's actual params array, since a
// callable declared with no return type never produces one regardless of
// what a given call happens to pass), and returns the foreign return array
// (nil for the no-return shapes).
//
// A panic escaping c.Invoke is recovered and reported as a
// ffierr.ForeignError rather than propagating into caller code that may not
// expect a foreign runtime to unwind Go's stack — the cross-language
// equivalent of the err_out convention's "callee reports, never crashes the
// caller" contract.
func Invoke(c *cdt.Callable, params *cdt.Array, m metrics.EngineMetrics) (returns *cdt.Array, err error) {
	if c == nil || c.Invoke == nil {
		return nil, ffierr.New(ffierr.HandleProtocolViolation, "xcall dispatched on a callable with no Invoke function")
	}

	shape := ShapeOf(len(c.ParamTypes) > 0, len(c.ReturnTypes) > 0)
	start := time.Now()
	outcome := "ok"

	defer func() {
		if r := recover(); r != nil {
			err = ffierr.Newf(ffierr.ForeignError, "callable panicked: %v", r)
			outcome = "error"
		}
		if err != nil {
			outcome = "error"
		}
		if m != nil {
			m.ObserveXcall(string(shape), outcome, time.Since(start))
		}
	}()

	returns, err = c.Invoke(params)
	if err != nil {
		return nil, ffierr.Wrap(ffierr.ForeignError, err, "callable invocation failed")
	}
	return returns, nil
}

// InvokeTraced is Invoke with a correlation ID, structured logging, and an
// OpenTelemetry span around the dispatch — the entry point real xcall
// call sites should use; Invoke itself stays bare for callers (and tests)
// that don't need a context.
//
// The correlation ID is a fresh UUID per call, attached to both the log
// line and the span so a cross-runtime call can be traced through both
// without threading a request ID through Callable.Invoke's signature.
func InvokeTraced(ctx context.Context, c *cdt.Callable, params *cdt.Array, m metrics.EngineMetrics) (*cdt.Array, error) {
	correlationID := uuid.New().String()

	var shape Shape
	var runtimeID uint64
	if c != nil {
		shape = ShapeOf(len(c.ParamTypes) > 0, len(c.ReturnTypes) > 0)
		runtimeID = c.RuntimeID
	}

	ctx, span := telemetry.StartXcallSpan(ctx, string(shape), runtimeID, correlationID)
	defer span.End()

	logger.Debug("xcall dispatch starting", "correlation_id", correlationID, "shape", string(shape), "runtime_id", runtimeID)

	returns, err := Invoke(c, params, m)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.Error("xcall dispatch failed", "correlation_id", correlationID, "error", err)
		return nil, err
	}

	logger.Debug("xcall dispatch completed", "correlation_id", correlationID)
	return returns, nil
}
