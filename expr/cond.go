package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/field"
	"github.com/ngageoint/six-library-sub005/format"
)

// Condition is a parsed If label "<op> <value>".
type Condition struct {
	Op    string
	Value string
}

// ParseCondition splits an If label at its first space.
func ParseCondition(label string) (Condition, error) {
	op, value, ok := strings.Cut(strings.TrimSpace(label), " ")
	if !ok || op == "" {
		return Condition{}, fmt.Errorf("%w: condition %q", errs.ErrMalformedProgram, label)
	}

	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&":
	default:
		return Condition{}, fmt.Errorf("%w: condition operator %q", errs.ErrMalformedProgram, op)
	}

	return Condition{Op: op, Value: strings.TrimSpace(value)}, nil
}

// Eval applies the condition to f.
//
// AsciiText fields compare as strings for == and != after trailing spaces are
// removed. Every other combination compares integers, where & is true when the
// field and the value share a set bit.
func (c Condition) Eval(f *field.Field) (bool, error) {
	if f.Kind() == format.AsciiText && (c.Op == "==" || c.Op == "!=") {
		eq := strings.TrimRight(f.String(), " ") == c.Value
		return eq == (c.Op == "=="), nil
	}

	v, err := f.Int()
	if err != nil {
		return false, fmt.Errorf("%w: condition %s %s: %w", errs.ErrUnresolvedReference, c.Op, c.Value, err)
	}
	want, err := strconv.ParseInt(c.Value, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: condition value %q is not an integer", errs.ErrMalformedProgram, c.Value)
	}

	switch c.Op {
	case "==":
		return v == want, nil
	case "!=":
		return v != want, nil
	case "<":
		return v < want, nil
	case ">":
		return v > want, nil
	case "<=":
		return v <= want, nil
	case ">=":
		return v >= want, nil
	default:
		return v&want != 0, nil
	}
}

// Compare parses label and evaluates it against f.
func Compare(f *field.Field, label string) (bool, error) {
	c, err := ParseCondition(label)
	if err != nil {
		return false, err
	}

	return c.Eval(f)
}
