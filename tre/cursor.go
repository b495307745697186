package tre

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/expr"
	"github.com/ngageoint/six-library-sub005/program"
)

// State is the traversal state of a Cursor.
type State uint8

const (
	NotStarted State = iota
	Positioned
	Exhausted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Positioned:
		return "Positioned"
	default:
		return "Exhausted"
	}
}

// loopFrame is one active loop: iterations left, the index of its Loop
// descriptor and the current iteration.
type loopFrame struct {
	remaining int
	start     int
	iter      int
}

// Cursor walks a TRE's program one concrete field at a time.
//
// The cursor reads loop counts, conditions and computed lengths from the
// TRE's field store as it goes, so a parse must store each field before the
// next Iterate. Cursors are plain values: copying one yields an independent
// traversal.
type Cursor struct {
	t       *TRE
	index   int
	frames  [program.MaxNesting]loopFrame
	looping int
	ifDepth int
	state   State

	desc   program.Descriptor
	tag    string
	length int
	gobble bool
}

// Begin returns a cursor positioned before the first field of t.
func Begin(t *TRE) *Cursor {
	return &Cursor{t: t, index: -1}
}

// Clone returns an independent copy of the cursor.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	return &cp
}

// State returns the traversal state.
func (c *Cursor) State() State { return c.state }

// Index returns the program index of the current descriptor.
func (c *Cursor) Index() int { return c.index }

// Tag returns the qualified tag of the current field.
func (c *Cursor) Tag() string { return c.tag }

// Length returns the resolved length of the current field. It is 0 for
// gobble fields, whose length only the caller can determine.
func (c *Cursor) Length() int { return c.length }

// Gobble reports whether the current field takes the rest of the TRE.
func (c *Cursor) Gobble() bool { return c.gobble }

// Descriptor returns the descriptor of the current field.
func (c *Cursor) Descriptor() program.Descriptor { return c.desc }

// LoopIndices returns the iteration index of every active loop, outermost first.
func (c *Cursor) LoopIndices() []int {
	out := make([]int, c.looping)
	for i := range out {
		out[i] = c.frames[i].iter
	}

	return out
}

// IsDone reports whether no field follows the current one. It runs a copy
// of the cursor one step ahead and leaves c untouched. A step that fails is
// not "done": the error surfaces on the real Iterate.
func (c *Cursor) IsDone() bool {
	if c.state == Exhausted {
		return true
	}

	ok, err := c.Clone().Iterate()

	return !ok && err == nil
}

// Iterate advances to the next concrete field. It returns false once the
// program is exhausted. Fields whose resolved length is zero are skipped;
// gobble fields are returned with Length 0 and Gobble set.
func (c *Cursor) Iterate() (bool, error) {
	if c.state == Exhausted {
		return false, nil
	}

	prog := c.t.prog
	for {
		c.index++
		if c.index >= prog.Len() {
			c.finish()
			return false, nil
		}

		d := prog.At(c.index)
		switch d.Op {
		case program.OpField:
			n, gobble, err := c.fieldLength(d)
			if err != nil {
				return false, fmt.Errorf("%s descriptor %d (%s): %w", c.t.tag, c.index, d.Tag, err)
			}
			if n == 0 && !gobble {
				continue
			}

			c.desc = d
			c.tag = c.qualify(d.Tag)
			c.length = n
			c.gobble = gobble
			c.state = Positioned

			return true, nil

		case program.OpLoop:
			count, err := c.loopCount(d)
			if err != nil {
				return false, fmt.Errorf("%s loop at %d: %w", c.t.tag, c.index, err)
			}
			if count <= 0 {
				if err := c.skip(program.OpLoop, program.OpEndLoop); err != nil {
					return false, err
				}
				continue
			}
			if c.looping >= program.MaxNesting {
				return false, fmt.Errorf("%s loop at %d: %w", c.t.tag, c.index, errs.ErrNestingTooDeep)
			}
			c.frames[c.looping] = loopFrame{remaining: count, start: c.index}
			c.looping++

		case program.OpEndLoop:
			if c.looping == 0 {
				return false, fmt.Errorf("%s descriptor %d: %w: EndLoop outside a loop", c.t.tag, c.index, errs.ErrMalformedProgram)
			}
			top := &c.frames[c.looping-1]
			top.remaining--
			if top.remaining > 0 {
				top.iter++
				c.index = top.start
			} else {
				c.looping--
			}

		case program.OpIf:
			ok, err := c.evalIf(d)
			if err != nil {
				return false, fmt.Errorf("%s if at %d: %w", c.t.tag, c.index, err)
			}
			if ok {
				if c.ifDepth >= program.MaxNesting {
					return false, fmt.Errorf("%s if at %d: %w", c.t.tag, c.index, errs.ErrNestingTooDeep)
				}
				c.ifDepth++
				continue
			}
			if err := c.skip(program.OpIf, program.OpEndIf); err != nil {
				return false, err
			}

		case program.OpEndIf:
			if c.ifDepth > 0 {
				c.ifDepth--
			}

		case program.OpEnd:
			c.finish()
			return false, nil

		default:
			return false, fmt.Errorf("%s descriptor %d: %w: unknown op %d", c.t.tag, c.index, errs.ErrMalformedProgram, d.Op)
		}
	}
}

func (c *Cursor) finish() {
	c.index = c.t.prog.Len()
	c.state = Exhausted
	c.desc = program.Descriptor{}
	c.tag = ""
	c.length = 0
	c.gobble = false
}

// skip moves the index onto the descriptor closing the block opened at the
// current index, honoring nested blocks of the same kind.
func (c *Cursor) skip(open, closing program.Op) error {
	prog := c.t.prog
	depth := 1
	for i := c.index + 1; i < prog.Len(); i++ {
		switch prog.At(i).Op {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				c.index = i
				return nil
			}
		}
	}

	return fmt.Errorf("%s descriptor %d: %w: unterminated %s", c.t.tag, c.index, errs.ErrMalformedProgram, open)
}

// qualify appends one "[i]" suffix per active loop, outermost first.
func (c *Cursor) qualify(base string) string {
	if c.looping == 0 {
		return base
	}

	var b strings.Builder
	b.Grow(len(base) + 4*c.looping)
	b.WriteString(base)
	for i := 0; i < c.looping; i++ {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(c.frames[i].iter))
		b.WriteByte(']')
	}

	return b.String()
}

// lookup resolves a field reference: the bare tag first, then the tag
// qualified by one more enclosing loop index at a time, outermost first.
func (c *Cursor) lookup(ref string) (string, bool) {
	fields := c.t.fields
	if fields.Has(ref) {
		return ref, true
	}

	var b strings.Builder
	b.WriteString(ref)
	for i := 0; i < c.looping; i++ {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(c.frames[i].iter))
		b.WriteByte(']')
		if tag := b.String(); fields.Has(tag) {
			return tag, true
		}
	}

	return "", false
}

// Resolve implements expr.Resolver with the qualified lookup rule.
func (c *Cursor) Resolve(ref string) (int64, error) {
	tag, ok := c.lookup(ref)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrUnresolvedReference, ref)
	}

	f, _ := c.t.fields.Get(tag)
	v, err := f.Int()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrUnresolvedReference, tag, err)
	}

	return v, nil
}

var _ expr.Resolver = (*Cursor)(nil)

func (c *Cursor) fieldLength(d program.Descriptor) (int, bool, error) {
	switch d.Length.Mode {
	case program.LengthLiteral:
		return d.Length.N, false, nil
	case program.LengthGobble:
		return 0, true, nil
	case program.LengthConditional:
		v, err := expr.FieldDerived(d.Length.Expr, c)
		return int(v), false, err
	case program.LengthComputed:
		v, err := expr.Postfix(d.Length.Expr, c)
		return int(max(v, 0)), false, err
	default:
		return 0, false, fmt.Errorf("%w: unknown length mode %d", errs.ErrMalformedProgram, d.Length.Mode)
	}
}

func (c *Cursor) loopCount(d program.Descriptor) (int, error) {
	switch d.Label {
	case program.LabelConst:
		n, err := strconv.Atoi(d.Tag)
		if err != nil {
			return 0, fmt.Errorf("%w: constant loop count %q", errs.ErrMalformedProgram, d.Tag)
		}
		return n, nil

	case program.LabelFunction:
		fn, ok := c.t.prog.Func(d.Tag)
		if !ok {
			return 0, fmt.Errorf("%w: loop function %q not registered", errs.ErrMalformedProgram, d.Tag)
		}
		return fn(c.t, c.LoopIndices())

	default:
		v, err := c.Resolve(d.Tag)
		if err != nil {
			return 0, err
		}
		v, err = expr.Adjust(v, d.Label)
		if err != nil {
			return 0, err
		}

		return int(max(v, 0)), nil
	}
}

func (c *Cursor) evalIf(d program.Descriptor) (bool, error) {
	tag, ok := c.lookup(d.Tag)
	if !ok {
		return false, fmt.Errorf("%w: %s", errs.ErrUnresolvedReference, d.Tag)
	}
	f, _ := c.t.fields.Get(tag)

	return expr.Compare(f, d.Label)
}
