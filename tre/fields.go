package tre

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/Velocidex/ordereddict"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/field"
	"github.com/ngageoint/six-library-sub005/format"
)

// locate walks t until it reaches the qualified tag and returns the cursor
// positioned there.
func locate(t *TRE, tag string) (*Cursor, error) {
	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s has no field %s in its current layout", errs.ErrMissingField, t.tag, tag)
		}
		if c.Tag() == tag {
			return c, nil
		}
	}
}

// SetField assigns value to the qualified tag, creating the field with the
// kind and length its descriptor resolves to. Fields that loops or lengths
// depend on must be set before the fields depending on them.
//
// Supported values are string, []byte, the integer types and float64.
func (h *Handler) SetField(t *TRE, tag string, value any) error {
	c, err := locate(t, tag)
	if err != nil {
		return err
	}

	kind := c.Descriptor().Type
	var f *field.Field
	if c.Gobble() {
		f = field.NewResizable(kind, nil)
	} else {
		if err := h.checkLength(t, c); err != nil {
			return err
		}
		f = field.NewDefault(kind, c.Length())
	}

	if err := assign(f, value); err != nil {
		return fmt.Errorf("%s field %s: %w", t.tag, tag, err)
	}
	t.fields.Set(tag, f)

	return nil
}

func assign(f *field.Field, value any) error {
	switch v := value.(type) {
	case string:
		return f.SetString(v)
	case []byte:
		if f.Resizable() || len(v) == f.Len() {
			return f.SetBytes(v)
		}
		return f.SetString(string(v))
	case int:
		return f.SetInt(int64(v))
	case int8:
		return f.SetInt(int64(v))
	case int16:
		return f.SetInt(int64(v))
	case int32:
		return f.SetInt(int64(v))
	case int64:
		return f.SetInt(v)
	case uint:
		return f.SetUint(uint64(v))
	case uint8:
		return f.SetUint(uint64(v))
	case uint16:
		return f.SetUint(uint64(v))
	case uint32:
		return f.SetUint(uint64(v))
	case uint64:
		return f.SetUint(v)
	case float64:
		return f.SetString(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported field value type %T", value)
	}
}

// GetField returns the field stored under the qualified tag.
func (h *Handler) GetField(t *TRE, tag string) (*field.Field, bool) {
	return t.fields.Get(tag)
}

// Find returns the fields whose qualified tag contains substr.
func (h *Handler) Find(t *TRE, substr string) []field.Match {
	return t.fields.FindMatching(substr)
}

// Remove deletes the field stored under the qualified tag.
func (h *Handler) Remove(t *TRE, tag string) (*field.Field, bool) {
	return t.fields.Remove(tag)
}

// value renders a field for display: numbers as integers when they parse,
// text trimmed, binary as hex.
func value(f *field.Field) any {
	switch f.Kind() { //nolint: exhaustive
	case format.AsciiNumber:
		if v, err := f.Int(); err == nil {
			return v
		}
		return f.Trimmed()
	case format.AsciiText:
		return f.Trimmed()
	default:
		return hex.EncodeToString(f.Raw())
	}
}

// Ordered returns the fields of t keyed by qualified tag in traversal order.
func (h *Handler) Ordered(t *TRE) (*ordereddict.Dict, error) {
	out := ordereddict.NewDict()

	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}

		f, found := t.fields.Get(c.Tag())
		if !found {
			return nil, fmt.Errorf("%w: %s field %s", errs.ErrMissingField, t.tag, c.Tag())
		}
		out.Set(c.Tag(), value(f))
	}
}

// Print writes one "TAG (label) = [value]" line per field in traversal order.
func (h *Handler) Print(w io.Writer, t *TRE) error {
	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		f, found := t.fields.Get(c.Tag())
		if !found {
			return fmt.Errorf("%w: %s field %s", errs.ErrMissingField, t.tag, c.Tag())
		}
		if _, err := fmt.Fprintf(w, "%s (%s) = [%v]\n", c.Tag(), c.Descriptor().Label, value(f)); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}
}
