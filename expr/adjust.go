package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngageoint/six-library-sub005/errs"
)

// Adjustment is a single arithmetic step "<op> <operand>".
type Adjustment struct {
	Op      byte
	Operand int64
}

// ParseAdjustment parses "<op> <operand>", for example "- 1" or "* 2".
func ParseAdjustment(s string) (Adjustment, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 || !isOperator(parts[0]) {
		return Adjustment{}, fmt.Errorf("%w: adjustment %q", errs.ErrMalformedExpression, s)
	}

	n, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Adjustment{}, fmt.Errorf("%w: adjustment operand %q", errs.ErrMalformedExpression, parts[1])
	}

	return Adjustment{Op: parts[0][0], Operand: n}, nil
}

// Apply applies the adjustment to v.
func (a Adjustment) Apply(v int64) (int64, error) {
	return Apply(a.Op, v, a.Operand)
}

// Adjust applies the adjustment encoded in label to v. An empty label leaves
// v unchanged.
func Adjust(v int64, label string) (int64, error) {
	if strings.TrimSpace(label) == "" {
		return v, nil
	}

	a, err := ParseAdjustment(label)
	if err != nil {
		return 0, err
	}

	return a.Apply(v)
}

// FieldDerived evaluates "REF" or "REF <op> <operand>": the value of the
// referenced field with at most one adjustment. Negative results clamp to 0.
func FieldDerived(spec string, r Resolver) (int64, error) {
	spec = strings.TrimSpace(spec)
	ref, adj, _ := strings.Cut(spec, " ")
	if ref == "" {
		return 0, fmt.Errorf("%w: empty field reference", errs.ErrMalformedExpression)
	}
	if r == nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrUnresolvedReference, ref)
	}

	v, err := r.Resolve(ref)
	if err != nil {
		return 0, err
	}
	v, err = Adjust(v, adj)
	if err != nil {
		return 0, err
	}

	return max(v, 0), nil
}
