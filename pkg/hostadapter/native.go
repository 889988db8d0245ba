package hostadapter

import (
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/construct"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// NativeSource implements construct.Source over plain Go values, so the
// CLI's interactive tree builder (and tests) can hand construct.Build a
// nested []any of Go primitives instead of writing a purpose-built Source
// for every demo tree. It stands in for what a real host binding's callback
// implementation would look like, simplified to Go-native types instead of
// a foreign runtime's object model.
//
// Supported leaf types: float64, float32, int8/16/32/64, uint8/16/32/64,
// bool, string, *cdt.Handle, *cdt.Callable, and nil (null). []any nests an
// array.
type NativeSource struct {
	Root []any
}

// NewNativeSource wraps root, which must be a slice of elements — each
// either a supported leaf type or another []any.
func NewNativeSource(root []any) *NativeSource {
	return &NativeSource{Root: root}
}

func (n *NativeSource) GetRootElementsCount() (uint64, error) {
	return uint64(len(n.Root)), nil
}

func (n *NativeSource) nodeAt(path []uint64) (any, error) {
	var cur any = n.Root
	for _, idx := range path {
		arr, ok := cur.([]any)
		if !ok {
			return nil, ffierr.Newf(ffierr.ArrayShapeMismatch, "path descends into a non-array at index %d", idx)
		}
		if idx >= uint64(len(arr)) {
			return nil, ffierr.Newf(ffierr.ArrayShapeMismatch, "index %d out of range (len %d)", idx, len(arr))
		}
		cur = arr[idx]
	}
	return cur, nil
}

func leafTag(node any) (primitive.Tag, error) {
	switch node.(type) {
	case nil:
		return primitive.Null, nil
	case float64:
		return primitive.Float64, nil
	case float32:
		return primitive.Float32, nil
	case int8:
		return primitive.Int8, nil
	case int16:
		return primitive.Int16, nil
	case int32:
		return primitive.Int32, nil
	case int64:
		return primitive.Int64, nil
	case uint8:
		return primitive.Uint8, nil
	case uint16:
		return primitive.Uint16, nil
	case uint32:
		return primitive.Uint32, nil
	case uint64:
		return primitive.Uint64, nil
	case bool:
		return primitive.Bool, nil
	case string:
		return primitive.String8, nil
	case *cdt.Handle:
		return primitive.Handle, nil
	case *cdt.Callable:
		return primitive.Callable, nil
	default:
		return 0, ffierr.Newf(ffierr.InvalidType, "unsupported native leaf type %T", node)
	}
}

func depthOf(node any) int64 {
	arr, ok := node.([]any)
	if !ok {
		return 0
	}
	if len(arr) == 0 {
		return 1
	}
	d0 := depthOf(arr[0])
	for _, e := range arr[1:] {
		if depthOf(e) != d0 {
			return -1
		}
	}
	if d0 < 0 {
		return -1
	}
	return d0 + 1
}

func (n *NativeSource) GetTypeInfo(path []uint64) (construct.TypeInfo, error) {
	node, err := n.nodeAt(path)
	if err != nil {
		return construct.TypeInfo{}, err
	}
	if arr, ok := node.([]any); ok {
		common := commonLeafTag(arr)
		return construct.TypeInfo{Tag: common.OfArray(), FixedDimensions: depthOf(arr)}, nil
	}
	tag, err := leafTag(node)
	if err != nil {
		return construct.TypeInfo{}, err
	}
	return construct.TypeInfo{Tag: tag}, nil
}

func commonLeafTag(arr []any) primitive.Tag {
	if len(arr) == 0 {
		return 0
	}
	first, err := elementTag(arr[0])
	if err != nil {
		return 0
	}
	for _, e := range arr[1:] {
		t, err := elementTag(e)
		if err != nil || t != first {
			return 0
		}
	}
	return first
}

func elementTag(node any) (primitive.Tag, error) {
	if sub, ok := node.([]any); ok {
		return commonLeafTag(sub).OfArray(), nil
	}
	return leafTag(node)
}

func (n *NativeSource) GetArrayMetadata(path []uint64) (construct.ArrayMetadata, error) {
	node, err := n.nodeAt(path)
	if err != nil {
		return construct.ArrayMetadata{}, err
	}
	arr, ok := node.([]any)
	if !ok {
		return construct.ArrayMetadata{}, ffierr.New(ffierr.ArrayShapeMismatch, "get_array_metadata called on a non-array position")
	}
	is1D := true
	for _, e := range arr {
		if _, ok := e.([]any); ok {
			is1D = false
			break
		}
	}
	return construct.ArrayMetadata{
		Length:           uint64(len(arr)),
		IsFixedDimension:  depthOf(arr) >= 0,
		Is1DArray:         is1D,
		CommonType:        commonLeafTag(arr),
		ManuallyConstruct: false,
	}, nil
}

func (n *NativeSource) ConstructArray(path []uint64) (*cdt.Array, error) {
	return nil, ffierr.New(ffierr.InvalidType, "NativeSource never requests manual array construction")
}

func (n *NativeSource) get(path []uint64) (any, error) { return n.nodeAt(path) }

func (n *NativeSource) GetFloat64(path []uint64) (float64, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}
func (n *NativeSource) GetFloat32(path []uint64) (float32, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(float32), nil
}
func (n *NativeSource) GetInt8(path []uint64) (int8, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(int8), nil
}
func (n *NativeSource) GetInt16(path []uint64) (int16, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(int16), nil
}
func (n *NativeSource) GetInt32(path []uint64) (int32, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}
func (n *NativeSource) GetInt64(path []uint64) (int64, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}
func (n *NativeSource) GetUint8(path []uint64) (uint8, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(uint8), nil
}
func (n *NativeSource) GetUint16(path []uint64) (uint16, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(uint16), nil
}
func (n *NativeSource) GetUint32(path []uint64) (uint32, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(uint32), nil
}
func (n *NativeSource) GetUint64(path []uint64) (uint64, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}
func (n *NativeSource) GetBool(path []uint64) (bool, error) {
	v, err := n.get(path)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
func (n *NativeSource) GetSize(path []uint64) (uint64, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}
func (n *NativeSource) GetChar8(path []uint64) (rune, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(rune), nil
}
func (n *NativeSource) GetChar16(path []uint64) (uint16, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(uint16), nil
}
func (n *NativeSource) GetChar32(path []uint64) (rune, error) {
	v, err := n.get(path)
	if err != nil {
		return 0, err
	}
	return v.(rune), nil
}
func (n *NativeSource) GetString8(path []uint64) (string, bool, error) {
	v, err := n.get(path)
	if err != nil {
		return "", false, err
	}
	return v.(string), false, nil
}
func (n *NativeSource) GetString16(path []uint64) (string, bool, error) {
	return n.GetString8(path)
}
func (n *NativeSource) GetString32(path []uint64) (string, bool, error) {
	return n.GetString8(path)
}
func (n *NativeSource) GetHandle(path []uint64) (*cdt.Handle, error) {
	v, err := n.get(path)
	if err != nil {
		return nil, err
	}
	return v.(*cdt.Handle), nil
}
func (n *NativeSource) GetCallable(path []uint64) (*cdt.Callable, error) {
	v, err := n.get(path)
	if err != nil {
		return nil, err
	}
	return v.(*cdt.Callable), nil
}

var _ construct.Source = (*NativeSource)(nil)
