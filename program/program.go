// Package program defines the declarative layout language of a TRE.
//
// A Program is an ordered list of Descriptors ending in an End descriptor.
// Field descriptors declare one value each; Loop/EndLoop and If/EndIf
// pseudo-instructions repeat or guard the descriptors between them. Programs
// carry no behavior: the tre package walks them with a cursor.
//
// # Loop forms
//
// A Loop descriptor selects its trip count from its Label:
//
//	{Op: OpLoop, Label: "CONST", Tag: "4"}        // constant
//	{Op: OpLoop, Label: "FUNCTION", Tag: "name"}  // CountFunc registered with the program
//	{Op: OpLoop, Label: "- 1", Tag: "NUMBANDS"}   // field value, optionally adjusted
//
// # Conditions
//
// An If descriptor references a field in Tag and holds "<op> <value>" in Label,
// for example {Op: OpIf, Tag: "VERSION", Label: "== 2"}.
//
// # Thread Safety
//
// A Program is immutable once built and safe to share between goroutines.
package program

import (
	"fmt"
	"strconv"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/field"
	"github.com/ngageoint/six-library-sub005/format"
	"github.com/ngageoint/six-library-sub005/internal/collision"
	"github.com/ngageoint/six-library-sub005/internal/hash"
)

// MaxNesting is the deepest Loop (and, separately, If) nesting a program may use.
const MaxNesting = 10

// Loop labels selecting the trip-count form.
const (
	LabelConst    = "CONST"
	LabelFunction = "FUNCTION"
)

// Op is the instruction kind of a Descriptor.
type Op uint8

const (
	OpField Op = iota + 1
	OpLoop
	OpEndLoop
	OpIf
	OpEndIf
	OpEnd
)

func (o Op) String() string {
	switch o {
	case OpField:
		return "Field"
	case OpLoop:
		return "Loop"
	case OpEndLoop:
		return "EndLoop"
	case OpIf:
		return "If"
	case OpEndIf:
		return "EndIf"
	case OpEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// LengthMode selects how a field's length is determined.
type LengthMode uint8

const (
	// LengthLiteral is a fixed byte count.
	LengthLiteral LengthMode = iota
	// LengthGobble consumes the rest of the TRE.
	LengthGobble
	// LengthConditional is a previously parsed field's value, optionally
	// adjusted once: Expr is "REF" or "REF <op> <operand>".
	LengthConditional
	// LengthComputed is a postfix expression over literals and fields.
	LengthComputed
)

// Length is the length specification of a field descriptor.
type Length struct {
	Mode LengthMode
	N    int
	Expr string
}

// Fixed returns a literal length.
func Fixed(n int) Length { return Length{Mode: LengthLiteral, N: n} }

// Rest returns the gobble length.
func Rest() Length { return Length{Mode: LengthGobble} }

// FromField returns a field-derived conditional length.
func FromField(expr string) Length { return Length{Mode: LengthConditional, Expr: expr} }

// FromPostfix returns a computed length.
func FromPostfix(expr string) Length { return Length{Mode: LengthComputed, Expr: expr} }

// Descriptor is one instruction of a Program.
type Descriptor struct {
	Op     Op
	Type   format.FieldKind // field kind, OpField only
	Length Length           // OpField only
	Label  string
	Tag    string
}

// Record is the view of a TRE handed to loop count functions.
type Record interface {
	Tag() string
	Field(tag string) (*field.Field, bool)
}

// CountFunc computes a loop trip count. loop holds the current iteration
// index of every enclosing loop, outermost first.
type CountFunc func(rec Record, loop []int) (int, error)

// Program is an immutable, validated TRE layout.
type Program struct {
	tag   string
	descs []Descriptor
	funcs map[string]CountFunc
}

// New validates descs and builds a Program for tag. An End descriptor is
// appended when the list does not already finish with one. funcs holds the
// count functions referenced by FUNCTION loops and may be nil.
func New(tag string, descs []Descriptor, funcs map[string]CountFunc) (*Program, error) {
	list := make([]Descriptor, len(descs), len(descs)+1)
	copy(list, descs)
	if len(list) == 0 || list[len(list)-1].Op != OpEnd {
		list = append(list, Descriptor{Op: OpEnd})
	}

	fs := make(map[string]CountFunc, len(funcs))
	for k, v := range funcs {
		fs[k] = v
	}

	p := &Program{tag: tag, descs: list, funcs: fs}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("program %s: %w", tag, err)
	}

	return p, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// program definitions.
func MustNew(tag string, descs []Descriptor, funcs map[string]CountFunc) *Program {
	p, err := New(tag, descs, funcs)
	if err != nil {
		panic(err)
	}

	return p
}

// Raw returns the raw-capture program: the whole TRE body as a single
// resizable Binary field named "raw_data".
func Raw(tag string) *Program {
	return &Program{
		tag: tag,
		descs: []Descriptor{
			{Op: OpField, Type: format.Binary, Length: Rest(), Label: "raw data", Tag: RawDataTag},
			{Op: OpEnd},
		},
		funcs: map[string]CountFunc{},
	}
}

// RawDataTag is the field tag used by the raw-capture program.
const RawDataTag = "raw_data"

// Tag returns the TRE tag the program describes.
func (p *Program) Tag() string { return p.tag }

// Len returns the number of descriptors, End included.
func (p *Program) Len() int { return len(p.descs) }

// At returns the descriptor at index i.
func (p *Program) At(i int) Descriptor { return p.descs[i] }

// Descriptors returns a copy of the descriptor list.
func (p *Program) Descriptors() []Descriptor {
	out := make([]Descriptor, len(p.descs))
	copy(out, p.descs)

	return out
}

// Func returns the count function registered under name.
func (p *Program) Func(name string) (CountFunc, bool) {
	fn, ok := p.funcs[name]
	return fn, ok
}

// FieldTags returns the distinct field tags in declaration order and the
// tags declared more than once. Loop qualification is not applied.
func (p *Program) FieldTags() (tags, duplicates []string) {
	tracker := collision.NewTracker()
	for _, d := range p.descs {
		if d.Op != OpField {
			continue
		}
		// validateField rejects empty tags, so Track cannot fail here.
		_, _ = tracker.Track(d.Tag, hash.ID(d.Tag))
	}

	return tracker.Tags(), tracker.Duplicates()
}

// Equal reports whether two programs describe the same layout. Count
// functions are compared by name only.
func (p *Program) Equal(o *Program) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.tag != o.tag || len(p.descs) != len(o.descs) || len(p.funcs) != len(o.funcs) {
		return false
	}
	for i := range p.descs {
		if p.descs[i] != o.descs[i] {
			return false
		}
	}
	for name := range p.funcs {
		if _, ok := o.funcs[name]; !ok {
			return false
		}
	}

	return true
}

func (p *Program) validate() error {
	var (
		stack     []Op
		loopDepth int
		ifDepth   int
	)

	for i, d := range p.descs {
		switch d.Op {
		case OpField:
			if err := validateField(d); err != nil {
				return fmt.Errorf("descriptor %d: %w", i, err)
			}
		case OpLoop:
			if err := p.validateLoop(d); err != nil {
				return fmt.Errorf("descriptor %d: %w", i, err)
			}
			loopDepth++
			if loopDepth > MaxNesting {
				return fmt.Errorf("descriptor %d: %w: loop depth %d", i, errs.ErrNestingTooDeep, loopDepth)
			}
			stack = append(stack, OpLoop)
		case OpIf:
			if d.Tag == "" || d.Label == "" {
				return fmt.Errorf("descriptor %d: %w: if needs a field and a condition", i, errs.ErrMalformedProgram)
			}
			ifDepth++
			if ifDepth > MaxNesting {
				return fmt.Errorf("descriptor %d: %w: if depth %d", i, errs.ErrNestingTooDeep, ifDepth)
			}
			stack = append(stack, OpIf)
		case OpEndLoop, OpEndIf:
			open := OpLoop
			if d.Op == OpEndIf {
				open = OpIf
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return fmt.Errorf("descriptor %d: %w: unmatched %s", i, errs.ErrMalformedProgram, d.Op)
			}
			stack = stack[:len(stack)-1]
			if open == OpLoop {
				loopDepth--
			} else {
				ifDepth--
			}
		case OpEnd:
			if i != len(p.descs)-1 {
				return fmt.Errorf("descriptor %d: %w: End before the last descriptor", i, errs.ErrMalformedProgram)
			}
		default:
			return fmt.Errorf("descriptor %d: %w: unknown op %d", i, errs.ErrMalformedProgram, d.Op)
		}
	}

	if len(stack) != 0 {
		return fmt.Errorf("%w: unterminated %s", errs.ErrMalformedProgram, stack[len(stack)-1])
	}

	return nil
}

func validateField(d Descriptor) error {
	if d.Tag == "" {
		return fmt.Errorf("%w: field without a tag", errs.ErrMalformedProgram)
	}
	if !d.Type.IsValid() {
		return fmt.Errorf("%w: field %s has unknown kind %d", errs.ErrMalformedProgram, d.Tag, d.Type)
	}

	switch d.Length.Mode {
	case LengthLiteral:
		if d.Length.N < 0 {
			return fmt.Errorf("%w: field %s has negative length", errs.ErrMalformedProgram, d.Tag)
		}
	case LengthGobble:
	case LengthConditional, LengthComputed:
		if d.Length.Expr == "" {
			return fmt.Errorf("%w: field %s has an empty length expression", errs.ErrMalformedProgram, d.Tag)
		}
	default:
		return fmt.Errorf("%w: field %s has unknown length mode %d", errs.ErrMalformedProgram, d.Tag, d.Length.Mode)
	}

	return nil
}

func (p *Program) validateLoop(d Descriptor) error {
	switch d.Label {
	case LabelConst:
		if _, err := strconv.Atoi(d.Tag); err != nil {
			return fmt.Errorf("%w: constant loop count %q", errs.ErrMalformedProgram, d.Tag)
		}
	case LabelFunction:
		if _, ok := p.funcs[d.Tag]; !ok {
			return fmt.Errorf("%w: loop function %q not registered", errs.ErrMalformedProgram, d.Tag)
		}
	default:
		if d.Tag == "" {
			return fmt.Errorf("%w: loop without a count field", errs.ErrMalformedProgram)
		}
	}

	return nil
}
