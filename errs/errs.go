// Package errs defines the sentinel errors returned by the TRE packages.
//
// Errors are wrapped with additional context (qualified tag, descriptor index)
// using fmt.Errorf and "%w", so callers should test for them with errors.Is.
package errs

import "errors"

// Program structure errors.
var (
	// ErrMalformedProgram is returned for unknown descriptor kinds, unmatched
	// Loop/EndLoop or If/EndIf pairs and programs missing their End descriptor.
	ErrMalformedProgram = errors.New("malformed TRE program")
	// ErrNestingTooDeep is returned when Loop or If nesting exceeds MaxNesting.
	ErrNestingTooDeep = errors.New("TRE program nesting too deep")
	// ErrUnknownProgram is returned when a registry has no program for a tag and no fallback.
	ErrUnknownProgram = errors.New("unknown TRE program")
	// ErrInvalidTag is returned for TRE tags that are not 1-6 characters.
	ErrInvalidTag = errors.New("invalid TRE tag")
)

// Evaluation errors.
var (
	ErrUnresolvedReference = errors.New("unresolved field reference")
	ErrArithmetic          = errors.New("division or modulo by zero")
	ErrMalformedExpression = errors.New("malformed expression")
	ErrCursorExhausted     = errors.New("TRE cursor exhausted")
)

// Data errors.
var (
	// ErrLengthMismatch is returned when the consumed byte count differs from the declared TRE length.
	ErrLengthMismatch = errors.New("TRE length mismatch")
	// ErrMissingField is returned when serialization visits a tag absent from the field store.
	ErrMissingField = errors.New("missing TRE field")
	// ErrFieldTooLong is returned when a value does not fit its field.
	ErrFieldTooLong = errors.New("value too long for field")
	// ErrInvalidValue is returned by strict handlers for AsciiNumber fields holding non-numeric text.
	ErrInvalidValue = errors.New("invalid TRE field value")
	// ErrTruncated is returned when an extension section ends in the middle of a TRE.
	ErrTruncated = errors.New("truncated TRE data")
	// ErrIO wraps failures of the underlying byte stream.
	ErrIO = errors.New("TRE i/o failure")
	// ErrAllocation is returned when a requested buffer size cannot be satisfied.
	ErrAllocation = errors.New("TRE allocation failure")
)
