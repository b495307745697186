package program

import (
	"strconv"

	"github.com/ngageoint/six-library-sub005/format"
)

// Text declares an AsciiText field of n bytes.
func Text(tag string, n int, label string) Descriptor {
	return Descriptor{Op: OpField, Type: format.AsciiText, Length: Fixed(n), Label: label, Tag: tag}
}

// Number declares an AsciiNumber field of n bytes.
func Number(tag string, n int, label string) Descriptor {
	return Descriptor{Op: OpField, Type: format.AsciiNumber, Length: Fixed(n), Label: label, Tag: tag}
}

// Binary declares a Binary field of n bytes.
func Binary(tag string, n int, label string) Descriptor {
	return Descriptor{Op: OpField, Type: format.Binary, Length: Fixed(n), Label: label, Tag: tag}
}

// Gobble declares a field that takes the rest of the TRE.
func Gobble(kind format.FieldKind, tag, label string) Descriptor {
	return Descriptor{Op: OpField, Type: kind, Length: Rest(), Label: label, Tag: tag}
}

// Sized declares a field with an arbitrary length specification.
func Sized(kind format.FieldKind, tag string, length Length, label string) Descriptor {
	return Descriptor{Op: OpField, Type: kind, Length: length, Label: label, Tag: tag}
}

// LoopConst opens a loop that runs n times.
func LoopConst(n int) Descriptor {
	return Descriptor{Op: OpLoop, Label: LabelConst, Tag: strconv.Itoa(n)}
}

// LoopField opens a loop counted by the field ref. adjust is empty or
// "<op> <operand>", for example "- 1".
func LoopField(ref, adjust string) Descriptor {
	return Descriptor{Op: OpLoop, Label: adjust, Tag: ref}
}

// LoopFunc opens a loop counted by the CountFunc registered as name.
func LoopFunc(name string) Descriptor {
	return Descriptor{Op: OpLoop, Label: LabelFunction, Tag: name}
}

// EndLoop closes the innermost loop.
func EndLoop() Descriptor { return Descriptor{Op: OpEndLoop} }

// If opens a block guarded by cond ("<op> <value>") applied to the field ref.
func If(ref, cond string) Descriptor {
	return Descriptor{Op: OpIf, Label: cond, Tag: ref}
}

// EndIf closes the innermost If block.
func EndIf() Descriptor { return Descriptor{Op: OpEndIf} }

// End terminates a program.
func End() Descriptor { return Descriptor{Op: OpEnd} }
