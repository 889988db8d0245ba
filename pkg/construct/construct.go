// Package construct implements the CDTS construct engine (spec.md §4.4,
// C4): the dual of pkg/traverse. Where traverse walks an existing cdt.Array
// and calls out per element, construct calls out per element to decide what
// the tree even looks like, then builds the cdt.Array from the answers.
//
// The original runtime threads a void* context through every callback
// function pointer. This package instead asks the caller to implement
// Source, whose methods close over whatever state they need — the method
// receiver is the typed context the original's void* stood in for, checked
// by the compiler instead of cast at each call site.
package construct

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MetaFFI/plugin-sdk/internal/logger"
	"github.com/MetaFFI/plugin-sdk/internal/telemetry"
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/metrics"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// TypeInfo describes the tag (and, for a tag of primitive.Any, a
// diagnostic-only alias) Source reports for one position. FixedDimensions
// carries the same meaning as cdt.Array.FixedDimensions when Tag is an
// array tag.
type TypeInfo struct {
	Tag             primitive.Tag
	Alias           string
	FixedDimensions int64
}

// ArrayMetadata answers get_array_metadata: how many elements the array at
// one position has, and how the engine should obtain them.
type ArrayMetadata struct {
	Length uint64

	// IsFixedDimension mirrors is_fixed_dimension: whether FixedDimensions
	// on the resulting cdt.Array should be treated as authoritative
	// (true) or as cdt.MixedOrUnknownDimensions (false).
	IsFixedDimension bool

	// Is1DArray signals the array has no nested array elements, making it
	// eligible for BuildArrayFast's bulk path when CommonType is also a
	// fixed-width primitive.
	Is1DArray bool

	// CommonType is the element tag if every element shares one, or zero
	// if elements vary in tag.
	CommonType primitive.Tag

	// ManuallyConstruct signals the engine should call
	// Source.ConstructArray instead of iterating per element.
	ManuallyConstruct bool
}

// Source is what a caller implements to drive construction. Every method
// receives the index path of the position being constructed (spec.md §3.2);
// GetRootElementsCount is the only path-free method, matching the original
// get_root_elements_count(context) signature.
type Source interface {
	GetRootElementsCount() (uint64, error)
	GetTypeInfo(path []uint64) (TypeInfo, error)
	GetArrayMetadata(path []uint64) (ArrayMetadata, error)

	// ConstructArray is called instead of per-element iteration when
	// ArrayMetadata.ManuallyConstruct is true. It returns the fully built
	// array for path.
	ConstructArray(path []uint64) (*cdt.Array, error)

	GetFloat64(path []uint64) (float64, error)
	GetFloat32(path []uint64) (float32, error)
	GetInt8(path []uint64) (int8, error)
	GetInt16(path []uint64) (int16, error)
	GetInt32(path []uint64) (int32, error)
	GetInt64(path []uint64) (int64, error)
	GetUint8(path []uint64) (uint8, error)
	GetUint16(path []uint64) (uint16, error)
	GetUint32(path []uint64) (uint32, error)
	GetUint64(path []uint64) (uint64, error)
	GetBool(path []uint64) (bool, error)
	GetSize(path []uint64) (uint64, error)
	GetChar8(path []uint64) (rune, error)
	GetChar16(path []uint64) (uint16, error)
	GetChar32(path []uint64) (rune, error)

	// GetString8/16/32 report freeRequired alongside the value: whether
	// the source allocated the backing buffer for this call specifically
	// and expects this engine to be the one tracking its lifetime (mirrors
	// get_string8's is_free_required out-parameter).
	GetString8(path []uint64) (val string, freeRequired bool, err error)
	GetString16(path []uint64) (val string, freeRequired bool, err error)
	GetString32(path []uint64) (val string, freeRequired bool, err error)

	GetHandle(path []uint64) (*cdt.Handle, error)
	GetCallable(path []uint64) (*cdt.Callable, error)
}

// FastSource is an optional extension a Source may also implement to serve
// BuildArrayFast's bulk path (spec.md §4.6): a single call returning a
// packed byte buffer of fixed-width elements instead of one callback per
// element.
type FastSource interface {
	Source

	// GetArrayBytes returns elemCount elements of elemTag packed
	// little-endian back-to-back, for the 1-D fixed-width array at path.
	GetArrayBytes(path []uint64, elemTag primitive.Tag, elemCount uint64) ([]byte, error)
}

// Option configures a Build call.
type Option func(*config)

type config struct {
	startPath []uint64
	known     *TypeInfo
	metrics   metrics.EngineMetrics
}

// WithStartPath seeds the index path Build reports to Source, for
// re-entering a subtree rather than building a whole fresh tree from the
// root (spec.md §13.3).
func WithStartPath(path []uint64) Option {
	return func(c *config) {
		c.startPath = append([]uint64(nil), path...)
	}
}

// WithKnownType pins the type of the root being constructed, bypassing a
// GetTypeInfo call for it. Mirrors the original's construct_cdt overload
// defaulting known_type to metaffi_any_type when the caller doesn't already
// know the answer.
func WithKnownType(t TypeInfo) Option {
	return func(c *config) { c.known = &t }
}

// WithMetrics attaches an EngineMetrics sink.
func WithMetrics(m metrics.EngineMetrics) Option {
	return func(c *config) { c.metrics = m }
}

// Build constructs a cdt.Array of src.GetRootElementsCount() elements,
// calling back into src for every position's type and value.
func Build(src Source, opts ...Option) (*cdt.Array, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	n, err := src.GetRootElementsCount()
	if err != nil {
		return nil, ffierr.Wrap(ffierr.ForeignError, err, "get_root_elements_count failed")
	}

	arr := cdt.NewArray(n, cdt.MixedOrUnknownDimensions)
	leaves := 0
	for i := uint64(0); i < n; i++ {
		path := append(append([]uint64(nil), cfg.startPath...), i)
		v, err := buildValue(src, path, nil, &cfg, &leaves)
		if err != nil {
			if cfg.metrics != nil {
				cfg.metrics.ObserveConstruction(leaves, time.Since(start))
				if kind, ok := ffierr.KindOf(err); ok {
					cfg.metrics.RecordError(string(kind))
				}
			}
			return nil, err
		}
		arr.Elements[i] = v
	}
	if cfg.metrics != nil {
		cfg.metrics.ObserveConstruction(leaves, time.Since(start))
	}
	return arr, nil
}

// BuildTraced is Build with a correlation ID, structured logging, and an
// OpenTelemetry span around the whole construction — the entry point a real
// host adapter should call; Build itself stays context-free for callers
// (and tests) that don't need one.
func BuildTraced(ctx context.Context, src Source, opts ...Option) (*cdt.Array, error) {
	correlationID := uuid.New().String()
	ctx, span := telemetry.StartConstructSpan(ctx, 0, correlationID)
	defer span.End()

	logger.Debug("construct starting", "correlation_id", correlationID)

	arr, err := Build(src, opts...)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.Error("construct failed", "correlation_id", correlationID, "error", err)
		return nil, err
	}

	telemetry.SetAttributes(ctx, telemetry.ElementCount(int(arr.Len())))
	logger.Debug("construct completed", "correlation_id", correlationID, "elements", arr.Len())
	return arr, nil
}

// BuildValue constructs a single root cdt.Value rather than a whole array,
// mirroring the original's construct_cdt entry point.
func BuildValue(src Source, opts ...Option) (cdt.Value, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	path := cfg.startPath
	if len(path) == 0 {
		path = []uint64{0}
	}
	leaves := 0
	return buildValue(src, path, cfg.known, &cfg, &leaves)
}

func buildValue(src Source, path []uint64, known *TypeInfo, cfg *config, leaves *int) (cdt.Value, error) {
	var ti TypeInfo
	if known != nil {
		ti = *known
	} else {
		t, err := src.GetTypeInfo(path)
		if err != nil {
			return cdt.Value{}, wrapPath(ffierr.Wrap(ffierr.ForeignError, err, "get_type_info failed"), path)
		}
		ti = t
	}

	if ti.Tag.IsArray() {
		return buildArray(src, path, ti, cfg, leaves)
	}

	*leaves++

	switch ti.Tag {
	case primitive.Float64:
		val, err := src.GetFloat64(path)
		return chk(cdt.Float64Value(val), err, path)
	case primitive.Float32:
		val, err := src.GetFloat32(path)
		return chk(cdt.Float32Value(val), err, path)
	case primitive.Int8:
		val, err := src.GetInt8(path)
		return chk(cdt.Int8Value(val), err, path)
	case primitive.Int16:
		val, err := src.GetInt16(path)
		return chk(cdt.Int16Value(val), err, path)
	case primitive.Int32:
		val, err := src.GetInt32(path)
		return chk(cdt.Int32Value(val), err, path)
	case primitive.Int64:
		val, err := src.GetInt64(path)
		return chk(cdt.Int64Value(val), err, path)
	case primitive.Uint8:
		val, err := src.GetUint8(path)
		return chk(cdt.Uint8Value(val), err, path)
	case primitive.Uint16:
		val, err := src.GetUint16(path)
		return chk(cdt.Uint16Value(val), err, path)
	case primitive.Uint32:
		val, err := src.GetUint32(path)
		return chk(cdt.Uint32Value(val), err, path)
	case primitive.Uint64:
		val, err := src.GetUint64(path)
		return chk(cdt.Uint64Value(val), err, path)
	case primitive.Bool:
		val, err := src.GetBool(path)
		return chk(cdt.BoolValue(val), err, path)
	case primitive.Size:
		val, err := src.GetSize(path)
		return chk(cdt.SizeValue(val), err, path)
	case primitive.Char8:
		val, err := src.GetChar8(path)
		return chk(cdt.Char8Value(val), err, path)
	case primitive.Char16:
		val, err := src.GetChar16(path)
		return chk(cdt.Char16Value(val), err, path)
	case primitive.Char32:
		val, err := src.GetChar32(path)
		return chk(cdt.Char32Value(val), err, path)
	case primitive.String8:
		val, free, err := src.GetString8(path)
		v := cdt.String8Value(val)
		v.FreeRequired = free
		return chk(v, err, path)
	case primitive.String16:
		val, free, err := src.GetString16(path)
		v := cdt.String16Value(val)
		v.FreeRequired = free
		return chk(v, err, path)
	case primitive.String32:
		val, free, err := src.GetString32(path)
		v := cdt.String32Value(val)
		v.FreeRequired = free
		return chk(v, err, path)
	case primitive.Handle:
		val, err := src.GetHandle(path)
		return chk(cdt.HandleValue(val), err, path)
	case primitive.Callable:
		val, err := src.GetCallable(path)
		return chk(cdt.CallableValue(val), err, path)
	case primitive.Null:
		return cdt.Null(), nil
	case primitive.Any:
		return cdt.Value{}, wrapPath(ffierr.New(ffierr.InvalidType, "get_type_info returned any: construction requires a concrete type"), path)
	default:
		return cdt.Value{}, wrapPath(ffierr.Newf(ffierr.UnknownTag, "unrecognized type tag 0x%x at get_type_info", uint64(ti.Tag)), path)
	}
}

func buildArray(src Source, path []uint64, ti TypeInfo, cfg *config, leaves *int) (cdt.Value, error) {
	meta, err := src.GetArrayMetadata(path)
	if err != nil {
		return cdt.Value{}, wrapPath(ffierr.Wrap(ffierr.ForeignError, err, "get_array_metadata failed"), path)
	}

	fixedDimensions := ti.FixedDimensions
	if !meta.IsFixedDimension {
		fixedDimensions = cdt.MixedOrUnknownDimensions
	}

	if meta.ManuallyConstruct {
		arr, err := src.ConstructArray(path)
		if err != nil {
			return cdt.Value{}, wrapPath(ffierr.Wrap(ffierr.ForeignError, err, "construct_cdt_array failed"), path)
		}
		*leaves += int(arr.Len())
		return cdt.ArrayValue(ti.Tag.Elem(), arr), nil
	}

	if meta.Is1DArray && meta.CommonType != 0 && meta.CommonType.IsFixedWidth() {
		if fs, ok := src.(FastSource); ok {
			arr, ok2, err := buildArrayFast(fs, path, meta, fixedDimensions)
			if err != nil {
				return cdt.Value{}, err
			}
			if ok2 {
				if cfg.metrics != nil {
					cfg.metrics.RecordFastPath(true)
				}
				*leaves += int(arr.Len())
				return cdt.ArrayValue(ti.Tag.Elem(), arr), nil
			}
		}
		if cfg.metrics != nil {
			cfg.metrics.RecordFastPath(false)
		}
	}

	arr := cdt.NewArray(meta.Length, fixedDimensions)
	for i := uint64(0); i < meta.Length; i++ {
		elemPath := append(append([]uint64(nil), path...), i)
		var known *TypeInfo
		if meta.CommonType != 0 {
			known = &TypeInfo{Tag: meta.CommonType, FixedDimensions: fixedDimensions}
		}
		v, err := buildValue(src, elemPath, known, cfg, leaves)
		if err != nil {
			return cdt.Value{}, err
		}
		arr.Elements[i] = v
	}
	return cdt.ArrayValue(ti.Tag.Elem(), arr), nil
}

func chk(v cdt.Value, err error, path []uint64) (cdt.Value, error) {
	if err != nil {
		return cdt.Value{}, wrapPath(ffierr.Wrap(ffierr.ForeignError, err, "getter failed"), path)
	}
	return v, nil
}

func wrapPath(err error, path []uint64) error {
	fe, ok := err.(*ffierr.Error)
	if !ok {
		return err
	}
	if len(fe.Path) == 0 {
		return fe.AtPath(path)
	}
	return fe
}
