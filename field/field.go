// Package field implements TRE field values and the tag-keyed store that holds them.
//
// A Field owns its bytes. AsciiText and AsciiNumber fields follow the NITF BCS
// padding rules (text is left-justified and space padded, numbers are
// right-justified and zero padded). Binary fields hold their value in host
// byte order; the conversion from and to wire order is done by the TRE handler.
package field

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ngageoint/six-library-sub005/endian"
	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/format"
)

// Field is a single typed TRE value.
//
// The invariant len(raw) == Len() always holds; a resizable field may change
// its length when a new value is assigned, a fixed field never does.
type Field struct {
	kind      format.FieldKind
	raw       []byte
	resizable bool
}

// New creates a fixed-length field holding a copy of raw.
func New(kind format.FieldKind, raw []byte) *Field {
	return &Field{kind: kind, raw: bytes.Clone(raw)}
}

// NewResizable creates a field whose length follows the value assigned to it.
func NewResizable(kind format.FieldKind, raw []byte) *Field {
	f := New(kind, raw)
	f.resizable = true

	return f
}

// NewDefault creates a field of the given length filled with the kind's pad
// value: spaces for AsciiText, '0' for AsciiNumber and zero bytes for Binary.
func NewDefault(kind format.FieldKind, length int) *Field {
	raw := make([]byte, length)
	if pad, ok := padByte(kind); ok {
		for i := range raw {
			raw[i] = pad
		}
	}

	return &Field{kind: kind, raw: raw}
}

func padByte(kind format.FieldKind) (byte, bool) {
	switch kind { //nolint: exhaustive
	case format.AsciiText:
		return ' ', true
	case format.AsciiNumber:
		return '0', true
	default:
		return 0, false
	}
}

// Kind returns the field kind.
func (f *Field) Kind() format.FieldKind { return f.kind }

// Len returns the field length in bytes.
func (f *Field) Len() int { return len(f.raw) }

// Resizable reports whether the field length follows its value.
func (f *Field) Resizable() bool { return f.resizable }

// Raw returns the field bytes without copying. Callers must not modify them.
func (f *Field) Raw() []byte { return f.raw }

// Bytes returns a copy of the field bytes.
func (f *Field) Bytes() []byte { return bytes.Clone(f.raw) }

// String returns the raw field bytes as a string.
func (f *Field) String() string { return string(f.raw) }

// Trimmed returns the field text with surrounding spaces removed.
func (f *Field) Trimmed() string { return strings.TrimSpace(string(f.raw)) }

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	return &Field{kind: f.kind, raw: bytes.Clone(f.raw), resizable: f.resizable}
}

// Equal reports whether two fields have the same kind and bytes.
func (f *Field) Equal(o *Field) bool {
	if f == nil || o == nil {
		return f == o
	}

	return f.kind == o.kind && bytes.Equal(f.raw, o.raw)
}

// Int interprets the field as an integer.
//
// AsciiNumber and AsciiText fields are parsed as trimmed decimal text, where a
// blank field reads as zero. Binary fields of 1, 2, 4 or 8 bytes are read as
// unsigned host-order integers.
func (f *Field) Int() (int64, error) {
	if f.kind == format.Binary {
		v, err := f.Uint()
		return int64(v), err //nolint:gosec
	}

	s := f.Trimmed()
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field value %q is not an integer: %w", s, err)
	}

	return v, nil
}

// Uint interprets a Binary field as an unsigned host-order integer.
func (f *Field) Uint() (uint64, error) {
	if f.kind != format.Binary {
		v, err := f.Int()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, fmt.Errorf("field value %d is negative", v)
		}

		return uint64(v), nil
	}

	engine := endian.HostEngine()
	switch len(f.raw) {
	case 1:
		return uint64(f.raw[0]), nil
	case 2:
		return uint64(engine.Uint16(f.raw)), nil
	case 4:
		return uint64(engine.Uint32(f.raw)), nil
	case 8:
		return engine.Uint64(f.raw), nil
	default:
		return 0, fmt.Errorf("binary field of %d bytes has no integer value", len(f.raw))
	}
}

// SetBytes replaces the field bytes. A fixed field must receive exactly Len() bytes.
func (f *Field) SetBytes(raw []byte) error {
	if !f.resizable && len(raw) != len(f.raw) {
		return fmt.Errorf("%w: %d bytes into %d byte field", errs.ErrFieldTooLong, len(raw), len(f.raw))
	}
	f.raw = bytes.Clone(raw)

	return nil
}

// SetString assigns s using the padding rules of the field kind. Binary fields
// take the bytes of s, zero padded on the right.
func (f *Field) SetString(s string) error {
	if f.resizable {
		f.raw = []byte(s)
		return nil
	}

	width := len(f.raw)
	if len(s) > width {
		return fmt.Errorf("%w: %q exceeds %d bytes", errs.ErrFieldTooLong, s, width)
	}

	out := make([]byte, width)
	switch f.kind { //nolint: exhaustive
	case format.AsciiNumber:
		padNumber(out, s)
	case format.AsciiText:
		copy(out, s)
		for i := len(s); i < width; i++ {
			out[i] = ' '
		}
	default:
		copy(out, s)
	}
	f.raw = out

	return nil
}

// padNumber right-justifies s in out with zero padding, keeping a leading sign first.
func padNumber(out []byte, s string) {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	copy(out, sign)
	pad := len(out) - len(sign) - len(s)
	for i := 0; i < pad; i++ {
		out[len(sign)+i] = '0'
	}
	copy(out[len(sign)+pad:], s)
}

// SetInt assigns an integer. Ascii fields receive its decimal form, Binary
// fields its host-order encoding in the field's width.
func (f *Field) SetInt(v int64) error {
	if f.kind != format.Binary {
		return f.SetString(strconv.FormatInt(v, 10))
	}
	if v < 0 {
		return f.putBinary(uint64(v), true) //nolint:gosec
	}

	return f.putBinary(uint64(v), false)
}

// SetUint assigns an unsigned integer.
func (f *Field) SetUint(v uint64) error {
	if f.kind != format.Binary {
		return f.SetString(strconv.FormatUint(v, 10))
	}

	return f.putBinary(v, false)
}

func (f *Field) putBinary(v uint64, signed bool) error {
	width := len(f.raw)
	if f.resizable && width == 0 {
		width = 8
	}

	engine := endian.HostEngine()
	out := make([]byte, width)
	switch width {
	case 1:
		out[0] = byte(v)
	case 2:
		engine.PutUint16(out, uint16(v)) //nolint:gosec
	case 4:
		engine.PutUint32(out, uint32(v)) //nolint:gosec
	case 8:
		engine.PutUint64(out, v)
	default:
		return fmt.Errorf("%w: no integer encoding for %d byte binary field", errs.ErrFieldTooLong, width)
	}

	if width < 8 && !fits(v, signed, uint(width)*8) {
		return fmt.Errorf("%w: %d does not fit in %d bytes", errs.ErrFieldTooLong, int64(v), width) //nolint:gosec
	}
	f.raw = out

	return nil
}

func fits(v uint64, signed bool, bits uint) bool {
	if signed {
		lo := -(int64(1) << (bits - 1))
		return int64(v) >= lo //nolint:gosec
	}

	return v>>bits == 0
}
