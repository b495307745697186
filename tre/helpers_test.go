package tre

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngageoint/six-library-sub005/format"
	"github.com/ngageoint/six-library-sub005/program"
)

// nestedProgram has a counted outer loop, an inner loop counted by a field
// of the outer iteration, a version guarded block and a gobble tail.
func nestedProgram(t testing.TB) *program.Program {
	t.Helper()

	p, err := program.New("TSTLOP", []program.Descriptor{
		program.Number("VERSION", 2, "Version"),
		program.Number("COUNT", 2, "Count"),
		program.LoopField("COUNT", ""),
		program.Text("NAME", 3, "Name"),
		program.Number("NVAL", 1, "Value count"),
		program.LoopField("NVAL", ""),
		program.Number("VAL", 2, "Value"),
		program.EndLoop(),
		program.EndLoop(),
		program.If("VERSION", "== 2"),
		program.Text("EXTRA", 4, "Extra"),
		program.EndIf(),
		program.Gobble(format.Binary, "TAIL", "Tail"),
	}, nil)
	require.NoError(t, err)

	return p
}

// nestedBody is a version 2 body for nestedProgram.
func nestedBody() []byte {
	return append([]byte("0202AAA21011BBB120XTRA"), 0x01, 0x02, 0x03)
}

func mustHandler(t testing.TB, opts ...HandlerOption) *Handler {
	t.Helper()

	h, err := NewHandler(opts...)
	require.NoError(t, err)

	return h
}

func mustProgram(t testing.TB, descs ...program.Descriptor) *program.Program {
	t.Helper()

	p, err := program.New("TSTPRG", descs, nil)
	require.NoError(t, err)

	return p
}

// tags walks t and returns the qualified tags in traversal order.
func tags(t *testing.T, tr *TRE) []string {
	t.Helper()

	var out []string
	c := Begin(tr)
	for {
		ok, err := c.Iterate()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, c.Tag())
	}
}
