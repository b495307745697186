package tre

import (
	"fmt"
	"io"

	"github.com/ngageoint/six-library-sub005/errs"
)

// Read reads exactly length bytes from r and parses them into t.
func (h *Handler) Read(r io.Reader, length int, t *TRE) error {
	if length < 0 || length > h.cfg.maxLength {
		return fmt.Errorf("%w: %s declares %d bytes, limit is %d", errs.ErrAllocation, t.tag, length, h.cfg.maxLength)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: read %s body: %w", errs.ErrIO, t.tag, err)
	}

	return h.Parse(t, buf)
}

// Write serializes t and writes it to w in a single call.
func (h *Handler) Write(w io.Writer, t *TRE) error {
	data, err := h.Serialize(t)
	if err != nil {
		return err
	}

	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("%w: write %s body: %w", errs.ErrIO, t.tag, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: write %s body: %w", errs.ErrIO, t.tag, io.ErrShortWrite)
	}

	return nil
}
