package tre

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ngageoint/six-library-sub005/endian"
	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/field"
	"github.com/ngageoint/six-library-sub005/format"
	"github.com/ngageoint/six-library-sub005/internal/options"
	"github.com/ngageoint/six-library-sub005/internal/pool"
)

// Handler reads, writes, fills, measures and validates TREs by driving a
// Cursor over their programs.
//
// A Handler holds only configuration and is safe for concurrent use on
// distinct TREs.
type Handler struct {
	cfg *HandlerConfig
}

// NewHandler creates a Handler.
func NewHandler(opts ...HandlerOption) (*Handler, error) {
	cfg := defaultHandlerConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Handler{cfg: cfg}, nil
}

// Config returns the handler configuration.
func (h *Handler) Config() *HandlerConfig { return h.cfg }

// Parse replaces the fields of t with the values decoded from data. The
// length of data becomes the declared TRE length and must be consumed exactly.
// On failure t keeps its previous fields and length.
func (h *Handler) Parse(t *TRE, data []byte) error {
	fields, length := t.fields, t.length
	t.fields, t.length = field.NewStore(), len(data)
	if err := h.parse(t, data); err != nil {
		t.fields, t.length = fields, length
		return err
	}

	return nil
}

func (h *Handler) parse(t *TRE, data []byte) error {
	offset := 0
	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		d := c.Descriptor()
		n := c.Length()
		if c.Gobble() {
			n = t.length - offset
		}
		if n < 0 || n > len(data)-offset {
			return fmt.Errorf("%w: %s field %s needs %d bytes at offset %d, TRE has %d",
				errs.ErrLengthMismatch, t.tag, c.Tag(), n, offset, len(data))
		}

		raw := data[offset : offset+n]
		if d.Type == format.Binary && endian.Swappable(n) {
			raw = append([]byte(nil), raw...)
			endian.NetworkToHost(raw)
		}

		var f *field.Field
		if c.Gobble() {
			f = field.NewResizable(d.Type, raw)
		} else {
			f = field.New(d.Type, raw)
		}
		t.fields.Set(c.Tag(), f)
		offset += n

		h.cfg.logger.Debug("parsed TRE field",
			slog.String("tre", t.tag),
			slog.String("field", c.Tag()),
			slog.Int("length", n))
	}

	if offset != t.length {
		return fmt.Errorf("%w: %s consumed %d of %d bytes, TRE data is longer than it should be",
			errs.ErrLengthMismatch, t.tag, offset, t.length)
	}

	return nil
}

// Serialize encodes the fields of t in program order.
func (h *Handler) Serialize(t *TRE) ([]byte, error) {
	buf := pool.GetTREBuffer()
	defer pool.PutTREBuffer(buf)

	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		f, found := t.fields.Get(c.Tag())
		if !found {
			return nil, fmt.Errorf("%w: %s field %s", errs.ErrMissingField, t.tag, c.Tag())
		}
		if !c.Gobble() && f.Len() != c.Length() {
			return nil, fmt.Errorf("%w: %s field %s holds %d bytes, layout requires %d",
				errs.ErrLengthMismatch, t.tag, c.Tag(), f.Len(), c.Length())
		}

		start := buf.Len()
		buf.MustWrite(f.Raw())
		if f.Kind() == format.Binary && endian.Swappable(f.Len()) {
			endian.HostToNetwork(buf.B[start:])
		}
	}

	return buf.Clone(), nil
}

// Fill adds a default value for every field of the traversal that t does
// not hold yet: spaces for AsciiText, zeros for AsciiNumber and zero bytes
// for Binary. Gobble fields get a single byte and stay resizable. The
// declared length is updated to the filled size.
//
// In strict mode every AsciiNumber field already present must hold a
// number, otherwise Fill fails with errs.ErrInvalidValue.
func (h *Handler) Fill(t *TRE) error {
	total := 0

	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		if f, found := t.fields.Get(c.Tag()); found {
			if h.cfg.strict && !numeric(f) {
				return fmt.Errorf("%w: %s field %s holds %q", errs.ErrInvalidValue, t.tag, c.Tag(), f.String())
			}
			total += h.fieldSize(c, f)
			continue
		}

		kind := c.Descriptor().Type
		var f *field.Field
		if c.Gobble() {
			def := field.NewDefault(kind, 1)
			f = field.NewResizable(kind, def.Raw())
		} else {
			if err := h.checkLength(t, c); err != nil {
				return err
			}
			f = field.NewDefault(kind, c.Length())
		}
		t.fields.Set(c.Tag(), f)
		total += f.Len()
	}

	t.length = total

	return nil
}

// numeric reports whether an AsciiNumber field holds blank, integer or
// decimal text. Other kinds always pass.
func numeric(f *field.Field) bool {
	if f.Kind() != format.AsciiNumber {
		return true
	}
	if _, err := f.Int(); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(f.Trimmed(), 64)

	return err == nil
}

// checkLength rejects a resolved field length that no TRE body accepted by
// h could hold.
func (h *Handler) checkLength(t *TRE, c *Cursor) error {
	if n := c.Length(); n < 0 || n > h.cfg.maxLength {
		return fmt.Errorf("%w: %s field %s resolves to %d bytes, limit is %d",
			errs.ErrAllocation, t.tag, c.Tag(), n, h.cfg.maxLength)
	}

	return nil
}

func (h *Handler) fieldSize(c *Cursor, f *field.Field) int {
	if c.Gobble() {
		return f.Len()
	}

	return c.Length()
}

// ComputeLength sums the field lengths of one traversal. Gobble fields count
// with their stored length, or zero when absent.
func (h *Handler) ComputeLength(t *TRE) (int, error) {
	total := 0

	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			return 0, err
		}
		if !ok {
			return total, nil
		}

		if !c.Gobble() {
			total += c.Length()
			continue
		}
		if f, found := t.fields.Get(c.Tag()); found {
			total += f.Len()
		}
	}
}

// CurrentSize computes the length of t and stores it as the declared length.
func (h *Handler) CurrentSize(t *TRE) (int, error) {
	n, err := h.ComputeLength(t)
	if err != nil {
		return 0, err
	}
	t.length = n

	return n, nil
}

// IsSane reports whether every field of the traversal is present in t.
// A traversal that fails counts as not sane.
func (h *Handler) IsSane(t *TRE) bool {
	c := Begin(t)
	for {
		ok, err := c.Iterate()
		if err != nil {
			h.cfg.logger.Debug("TRE traversal failed", slog.String("tre", t.tag), slog.Any("error", err))
			return false
		}
		if !ok {
			return true
		}
		if !t.fields.Has(c.Tag()) {
			return false
		}
	}
}
