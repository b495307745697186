// Package nitf reads and writes NITF Tagged Record Extensions (TREs).
//
// A TRE body is a flat run of fixed-width BCS text and binary fields whose
// layout can depend on its own content: loop counts read from earlier fields,
// blocks present only when a field holds some value, and lengths computed
// from other fields. Layouts are described by a program.Program, a small
// list of field, loop and condition descriptors, and interpreted by the tre
// package.
//
// # Core Features
//
//   - Programs built in Go or loaded from YAML descriptions
//   - Nested loops with loop-qualified field tags ("BAND[2][0]")
//   - Conditional blocks and field-derived or postfix computed lengths
//   - Parse, serialize, default fill, length computation and sanity checks
//   - Extension section framing (CETAG/CEL/CEDATA) with raw-capture fallback
//   - Compressed section archives (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Parsing a TRE body:
//
//	import "github.com/ngageoint/six-library-sub005"
//
//	reg, _ := nitf.LoadRegistry(os.DirFS("descriptions"), ".")
//	t, _ := nitf.ParseTRE(reg, "ACFTB", body)
//	f, _ := t.Field("AC_MSN_ID")
//
// Building a TRE from scratch:
//
//	h, _ := nitf.NewHandler()
//	t := nitf.NewTRE(reg, "ACFTB")
//	_ = h.SetField(t, "AC_MSN_ID", "MISSION1")
//	_ = h.Fill(t)
//	body, _ := h.Serialize(t)
//
// Reading a whole extension section:
//
//	p, _ := nitf.NewExtensionProcessor(reg)
//	tres, _ := p.Parse(section)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the tre,
// registry and extension packages. For fine-grained control, use those
// packages directly.
package nitf

import (
	"fmt"
	"io/fs"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/extension"
	"github.com/ngageoint/six-library-sub005/internal/hash"
	"github.com/ngageoint/six-library-sub005/registry"
	"github.com/ngageoint/six-library-sub005/tre"
)

// NewHandler creates a TRE handler.
//
// Example:
//
//	h, err := nitf.NewHandler(tre.WithLogger(logger), tre.WithStrict(true))
func NewHandler(opts ...tre.HandlerOption) (*tre.Handler, error) {
	return tre.NewHandler(opts...)
}

// NewRegistry creates an empty program registry.
func NewRegistry(opts ...registry.Option) (*registry.Registry, error) {
	return registry.New(opts...)
}

// LoadRegistry creates a registry holding every YAML description in dir.
func LoadRegistry(fsys fs.FS, dir string, opts ...registry.Option) (*registry.Registry, error) {
	reg, err := registry.New(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := reg.LoadDir(fsys, dir); err != nil {
		return nil, err
	}

	return reg, nil
}

// NewTRE creates an empty TRE laid out by the program registered for tag,
// or by the registry fallback when tag is unknown. It returns nil when the
// registry has neither.
func NewTRE(reg *registry.Registry, tag string) *tre.TRE {
	prog, _ := reg.Lookup(tag)
	if prog == nil {
		return nil
	}

	return tre.New(tag, prog)
}

// ParseTRE parses a single TRE body with a default handler.
func ParseTRE(reg *registry.Registry, tag string, body []byte) (*tre.TRE, error) {
	if err := registry.ValidateTag(tag); err != nil {
		return nil, err
	}

	t := NewTRE(reg, tag)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownProgram, tag)
	}

	h, err := tre.NewHandler()
	if err != nil {
		return nil, err
	}
	if err := h.Parse(t, body); err != nil {
		return nil, err
	}

	return t, nil
}

// NewExtensionProcessor creates an extension section processor using reg.
func NewExtensionProcessor(reg *registry.Registry, opts ...extension.Option) (*extension.Processor, error) {
	return extension.New(append([]extension.Option{extension.WithRegistry(reg)}, opts...)...)
}

// FieldID returns the 64-bit xxHash of a qualified field tag, the key under
// which field stores index their fields.
func FieldID(tag string) uint64 {
	return hash.ID(tag)
}
