package construct

import (
	"encoding/binary"
	"math"

	"github.com/MetaFFI/plugin-sdk/pkg/bufpool"
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// buildArrayFast implements build_array_fast (spec.md §4.4, §4.6): a single
// GetArrayBytes call for a 1-D fixed-width array, decoded in one pass
// instead of one getter call per element. ok is false when the array is too
// small to be worth the bulk path (bufpool.SmallArrayThreshold), letting the
// caller fall back to the per-element path without this being an error.
func buildArrayFast(fs FastSource, path []uint64, meta ArrayMetadata, fixedDimensions int64) (arr *cdt.Array, ok bool, err error) {
	if meta.Length <= bufpool.SmallArrayThreshold {
		return nil, false, nil
	}

	elemTag := meta.CommonType
	elemSize, hasSize := elemTag.ElemByteSize()
	if !hasSize {
		return nil, false, nil
	}

	want := meta.Length * uint64(elemSize)
	buf := bufpool.GetSize(want)
	defer bufpool.Put(buf)

	raw, err := fs.GetArrayBytes(path, elemTag, meta.Length)
	if err != nil {
		return nil, false, wrapPath(ffierr.Wrap(ffierr.ForeignError, err, "get_array_bytes failed"), path)
	}
	if uint64(len(raw)) < want {
		return nil, false, wrapPath(ffierr.Newf(ffierr.ArrayShapeMismatch,
			"get_array_bytes returned %d bytes, want at least %d for %d elements of %s",
			len(raw), want, meta.Length, elemTag), path)
	}

	out := cdt.NewArray(meta.Length, fixedDimensions)
	for i := uint64(0); i < meta.Length; i++ {
		off := i * uint64(elemSize)
		out.Elements[i] = decodeElem(elemTag, raw[off:off+uint64(elemSize)])
	}
	return out, true, nil
}

func decodeElem(tag primitive.Tag, b []byte) cdt.Value {
	switch tag {
	case primitive.Int8:
		return cdt.Int8Value(int8(b[0]))
	case primitive.Uint8:
		return cdt.Uint8Value(b[0])
	case primitive.Bool:
		return cdt.BoolValue(b[0] != 0)
	case primitive.Char8:
		return cdt.Char8Value(rune(b[0]))
	case primitive.Int16:
		return cdt.Int16Value(int16(binary.LittleEndian.Uint16(b)))
	case primitive.Uint16:
		return cdt.Uint16Value(binary.LittleEndian.Uint16(b))
	case primitive.Char16:
		return cdt.Char16Value(binary.LittleEndian.Uint16(b))
	case primitive.Int32:
		return cdt.Int32Value(int32(binary.LittleEndian.Uint32(b)))
	case primitive.Uint32:
		return cdt.Uint32Value(binary.LittleEndian.Uint32(b))
	case primitive.Float32:
		return cdt.Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case primitive.Char32:
		return cdt.Char32Value(rune(binary.LittleEndian.Uint32(b)))
	case primitive.Int64:
		return cdt.Int64Value(int64(binary.LittleEndian.Uint64(b)))
	case primitive.Uint64:
		return cdt.Uint64Value(binary.LittleEndian.Uint64(b))
	case primitive.Size:
		return cdt.SizeValue(binary.LittleEndian.Uint64(b))
	case primitive.Float64:
		return cdt.Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	case primitive.Handle:
		// A bulk get_array_bytes call has no way to hand back a per-element
		// release function, so handles reconstructed this way are
		// foreign-owned: this runtime never releases them.
		raw := uintptr(binary.LittleEndian.Uint64(b))
		return cdt.HandleValue(cdt.NewHandle(raw, 0, nil))
	default:
		return cdt.Value{}
	}
}
