// Package tre parses, serializes and builds NITF Tagged Record Extensions.
//
// A TRE pairs a tag with the Program describing its layout and a field store
// keyed by loop-qualified tags ("BAND[2][0]"). A Cursor walks the program one
// concrete field at a time, resolving loop counts, conditions and computed
// lengths from fields already in the store. Handler builds parse, serialize,
// fill, measurement and sanity checks on top of that walk.
//
// # Basic Usage
//
//	h, _ := tre.NewHandler()
//	t := tre.New("TSTABC", prog)
//	if err := h.Parse(t, body); err != nil {
//	    return err
//	}
//	f, _ := t.Field("COUNT")
//
// Note: a TRE and its cursors are NOT safe for concurrent use. Programs may be
// shared freely.
package tre

import (
	"github.com/ngageoint/six-library-sub005/field"
	"github.com/ngageoint/six-library-sub005/program"
)

// TRE is one Tagged Record Extension instance.
type TRE struct {
	tag    string
	id     string
	prog   *program.Program
	fields *field.Store
	length int
}

var _ program.Record = (*TRE)(nil)

// New creates an empty TRE for tag laid out by prog.
func New(tag string, prog *program.Program) *TRE {
	return &TRE{
		tag:    tag,
		prog:   prog,
		fields: field.NewStore(),
	}
}

// Tag returns the TRE tag.
func (t *TRE) Tag() string { return t.tag }

// ID returns the optional identifier of the description variant in use.
func (t *TRE) ID() string { return t.id }

// SetID sets the description variant identifier.
func (t *TRE) SetID(id string) { t.id = id }

// Program returns the layout program. It is shared and must not be modified.
func (t *TRE) Program() *program.Program { return t.prog }

// Fields returns the field store.
func (t *TRE) Fields() *field.Store { return t.fields }

// Field returns the field stored under a qualified tag.
func (t *TRE) Field(tag string) (*field.Field, bool) { return t.fields.Get(tag) }

// Length returns the declared byte length of the TRE body.
func (t *TRE) Length() int { return t.length }

// SetLength sets the declared byte length of the TRE body.
func (t *TRE) SetLength(n int) { t.length = n }

// Clone deep-copies the fields and declared length; the program is shared.
func (t *TRE) Clone() *TRE {
	return &TRE{
		tag:    t.tag,
		id:     t.id,
		prog:   t.prog,
		fields: t.fields.Clone(),
		length: t.length,
	}
}
