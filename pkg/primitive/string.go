package primitive

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
)

// EncodeString16 converts a Go string (UTF-8) to the UTF-16 code unit
// sequence a metaffi_string16 carries.
func EncodeString16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// DecodeString16 converts a metaffi_string16 code unit sequence back to a Go
// string.
func DecodeString16(units []uint16) string {
	return string(utf16.Decode(units))
}

// EncodeString32 converts a Go string to the UTF-32 (one rune per code
// point) sequence a metaffi_string32 carries.
func EncodeString32(s string) []rune {
	return []rune(s)
}

// DecodeString32 converts a metaffi_string32 rune sequence back to a Go
// string.
func DecodeString32(runes []rune) string {
	return string(runes)
}

// DecodeChar8 decodes the single UTF-8 character (1-4 bytes, spec.md §3.1)
// encoded in b, returning the code point and the number of bytes it
// occupied. b may carry trailing bytes belonging to a later element; only
// the leading character is decoded. An ill-formed leading sequence fails
// with ffierr.InvalidEncoding rather than silently substituting U+FFFD.
func DecodeChar8(b []byte) (rune, int, error) {
	if len(b) == 0 {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char8: empty byte sequence")
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char8: ill-formed utf-8 sequence")
	}
	return r, size, nil
}

// EncodeChar8 encodes a single code point as its UTF-8 byte sequence (1-4
// bytes). r must be a valid code point; a lone surrogate half or an
// out-of-range value fails with ffierr.InvalidEncoding.
func EncodeChar8(r rune) ([]byte, error) {
	if !utf8.ValidRune(r) {
		return nil, ffierr.Newf(ffierr.InvalidEncoding, "char8: code point U+%04X cannot be encoded as utf-8", r)
	}
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	return buf, nil
}

// DecodeChar16 decodes the single UTF-16 character encoded in units (one
// code unit, or a surrogate pair for code points above U+FFFF), returning
// the code point and the number of units consumed. A lone (unpaired)
// surrogate fails with ffierr.InvalidEncoding.
func DecodeChar16(units []uint16) (rune, int, error) {
	if len(units) == 0 {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char16: empty code unit sequence")
	}
	first := units[0]
	if first < 0xD800 || first > 0xDFFF {
		return rune(first), 1, nil
	}
	if first > 0xDBFF {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char16: unpaired low surrogate")
	}
	if len(units) < 2 {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char16: high surrogate missing its pair")
	}
	second := units[1]
	if second < 0xDC00 || second > 0xDFFF {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char16: high surrogate not followed by a low surrogate")
	}
	r := utf16.DecodeRune(rune(first), rune(second))
	if r == utf8.RuneError {
		return 0, 0, ffierr.New(ffierr.InvalidEncoding, "char16: invalid surrogate pair")
	}
	return r, 2, nil
}

// EncodeChar16 encodes a single code point as one or two UTF-16 code units.
func EncodeChar16(r rune) ([]uint16, error) {
	if !utf8.ValidRune(r) {
		return nil, ffierr.Newf(ffierr.InvalidEncoding, "char16: code point U+%04X cannot be encoded as utf-16", r)
	}
	if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
		return []uint16{uint16(r1), uint16(r2)}, nil
	}
	return []uint16{uint16(r)}, nil
}

// DecodeChar32 validates a single UTF-32 code point. A metaffi_char32 is
// already a single code point by construction, so decoding is really just
// validation: a surrogate half or an out-of-range value is ill-formed.
func DecodeChar32(r rune) (rune, error) {
	if !utf8.ValidRune(r) {
		return 0, ffierr.Newf(ffierr.InvalidEncoding, "char32: code point U+%04X is not a valid character", r)
	}
	return r, nil
}

// EncodeChar32 validates a single code point for storage as a metaffi_char32.
func EncodeChar32(r rune) (rune, error) {
	return DecodeChar32(r)
}
