// Package expr evaluates the small expression forms used by TRE programs:
// postfix length expressions, the single "<op> <operand>" adjustment applied
// to loop counts and conditional lengths, and If conditions.
//
// Field references are resolved through a Resolver supplied by the caller, so
// this package knows nothing about loop-qualified names.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngageoint/six-library-sub005/errs"
)

// Resolver resolves a field reference to its integer value.
type Resolver interface {
	Resolve(tag string) (int64, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(tag string) (int64, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(tag string) (int64, error) { return f(tag) }

func isOperator(tok string) bool {
	return len(tok) == 1 && strings.ContainsAny(tok, "+-*/%")
}

// Apply computes a op b. Division and modulo by zero return errs.ErrArithmetic.
func Apply(op byte, a, b int64) (int64, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, fmt.Errorf("%w: %d / 0", errs.ErrArithmetic, a)
		}
		return a / b, nil
	case '%':
		if b == 0 {
			return 0, fmt.Errorf("%w: %d %% 0", errs.ErrArithmetic, a)
		}
		return a % b, nil
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", errs.ErrMalformedExpression, op)
	}
}

// Postfix evaluates a whitespace separated postfix expression.
//
// Tokens are single character operators (+ - * / %), signed integer
// literals, or field tags resolved through r. An operator that finds a single
// operand on the stack uses 0 as its left operand, so "5 -" yields -5. An
// operator with an empty stack, or an expression leaving anything other than
// one value, is malformed.
func Postfix(expression string, r Resolver) (int64, error) {
	tokens := strings.Fields(expression)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty expression", errs.ErrMalformedExpression)
	}

	stack := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		if isOperator(tok) {
			var a, b int64
			switch len(stack) {
			case 0:
				return 0, fmt.Errorf("%w: operator %s without operands in %q", errs.ErrMalformedExpression, tok, expression)
			case 1:
				b = stack[0]
				stack = stack[:0]
			default:
				a, b = stack[len(stack)-2], stack[len(stack)-1]
				stack = stack[:len(stack)-2]
			}

			v, err := Apply(tok[0], a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)

			continue
		}

		if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
			stack = append(stack, v)
			continue
		}

		if r == nil {
			return 0, fmt.Errorf("%w: %s", errs.ErrUnresolvedReference, tok)
		}
		v, err := r.Resolve(tok)
		if err != nil {
			return 0, err
		}
		stack = append(stack, v)
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("%w: %q leaves %d values", errs.ErrMalformedExpression, expression, len(stack))
	}

	return stack[0], nil
}
