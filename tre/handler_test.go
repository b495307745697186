package tre

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngageoint/six-library-sub005/endian"
	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/field"
	"github.com/ngageoint/six-library-sub005/format"
	"github.com/ngageoint/six-library-sub005/program"
)

func TestHandler_ParseNested(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))

	require.NoError(t, h.Parse(tr, nestedBody()))
	require.Equal(t, 25, tr.Length())
	require.Equal(t, 11, tr.Fields().Len())

	expect := map[string]string{
		"VERSION":   "02",
		"COUNT":     "02",
		"NAME[0]":   "AAA",
		"NVAL[0]":   "2",
		"VAL[0][0]": "10",
		"VAL[0][1]": "11",
		"NAME[1]":   "BBB",
		"NVAL[1]":   "1",
		"VAL[1][0]": "20",
		"EXTRA":     "XTRA",
	}
	for tag, want := range expect {
		f, ok := tr.Field(tag)
		require.True(t, ok, tag)
		require.Equal(t, want, f.String(), tag)
	}

	tail, ok := tr.Field("TAIL")
	require.True(t, ok)
	require.True(t, tail.Resizable())
	require.Equal(t, []byte{1, 2, 3}, tail.Raw())
}

func TestHandler_RoundTrip(t *testing.T) {
	h := mustHandler(t)

	bodies := [][]byte{
		nestedBody(),
		[]byte("0100"),
		[]byte("0101XYZ0"),
		append([]byte("0201ABC3010203XTRA"), 0xff),
	}
	for _, body := range bodies {
		tr := New("TSTLOP", nestedProgram(t))
		require.NoError(t, h.Parse(tr, body), "%q", body)

		out, err := h.Serialize(tr)
		require.NoError(t, err)
		require.Equal(t, body, out)
	}
}

func TestHandler_ParseSkipsFalseIf(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))

	require.NoError(t, h.Parse(tr, []byte("0101XYZ0")))
	require.False(t, tr.Fields().Has("EXTRA"))

	tail, ok := tr.Field("TAIL")
	require.True(t, ok)
	require.Equal(t, 0, tail.Len())
}

func TestHandler_ParseGobble(t *testing.T) {
	h := mustHandler(t)
	p := mustProgram(t,
		program.Text("HEAD", 40, ""),
		program.Gobble(format.Binary, "REST", ""),
	)
	tr := New("TSTPRG", p)

	require.NoError(t, h.Parse(tr, bytes.Repeat([]byte{'x'}, 100)))

	rest, ok := tr.Field("REST")
	require.True(t, ok)
	require.Equal(t, 60, rest.Len())
}

func TestHandler_ParseLengthMismatch(t *testing.T) {
	h := mustHandler(t)
	p := mustProgram(t, program.Text("A", 2, ""), program.Number("N", 3, ""))

	err := h.Parse(New("TSTPRG", p), []byte("AB123X"))
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	err = h.Parse(New("TSTPRG", p), []byte("AB12"))
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestHandler_ParseClearsPreviousFields(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", mustProgram(t, program.Text("A", 1, "")))
	tr.Fields().Set("STALE", field.New(format.AsciiText, []byte("x")))

	require.NoError(t, h.Parse(tr, []byte("Q")))
	require.False(t, tr.Fields().Has("STALE"))
	require.Equal(t, 1, tr.Fields().Len())
}

func TestHandler_ByteOrder(t *testing.T) {
	h := mustHandler(t)
	p := mustProgram(t,
		program.Binary("L", 4, ""),
		program.Binary("S", 2, ""),
		program.Binary("T", 3, ""),
		program.Binary("B", 1, ""),
	)
	wire := []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x02, 0x01, 0x02, 0x03, 0x7f}

	tr := New("TSTPRG", p)
	require.NoError(t, h.Parse(tr, wire))

	l, _ := tr.Field("L")
	v, err := l.Uint()
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)
	require.Equal(t, uint32(1), endian.HostEngine().Uint32(l.Raw()))

	s, _ := tr.Field("S")
	v, err = s.Uint()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102), v)

	odd, _ := tr.Field("T")
	require.Equal(t, []byte{0x01, 0x02, 0x03}, odd.Raw())

	out, err := h.Serialize(tr)
	require.NoError(t, err)
	require.Equal(t, wire, out)
}

func TestHandler_ByteOrderBigEndianWire(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", mustProgram(t, program.Binary("L", 4, "")))
	wire := []byte{0x01, 0x00, 0x00, 0x00}

	require.NoError(t, h.Parse(tr, wire))
	l, _ := tr.Field("L")
	v, err := l.Uint()
	require.NoError(t, err)
	require.Equal(t, uint64(0x01000000), v)

	out, err := h.Serialize(tr)
	require.NoError(t, err)
	require.Equal(t, wire, out)
}

func TestHandler_SerializeMissingField(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))
	require.NoError(t, h.Parse(tr, nestedBody()))

	tr.Fields().Remove("VAL[0][1]")
	_, err := h.Serialize(tr)
	require.ErrorIs(t, err, errs.ErrMissingField)
	require.Contains(t, err.Error(), "VAL[0][1]")
}

func TestHandler_SerializeWrongLength(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", mustProgram(t, program.Text("A", 2, "")))
	tr.Fields().Set("A", field.New(format.AsciiText, []byte("ABC")))

	_, err := h.Serialize(tr)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestHandler_FillEmpty(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))

	require.NoError(t, h.Fill(tr))
	require.Equal(t, 3, tr.Fields().Len())
	require.Equal(t, 5, tr.Length())

	out, err := h.Serialize(tr)
	require.NoError(t, err)
	require.Equal(t, []byte("0000\x00"), out)

	reparsed := New("TSTLOP", nestedProgram(t))
	require.NoError(t, h.Parse(reparsed, out))
	require.Equal(t, tr.Fields().Len(), reparsed.Fields().Len())
	tr.Fields().Range(func(tag string, f *field.Field) bool {
		got, ok := reparsed.Field(tag)
		require.True(t, ok, tag)
		require.True(t, f.Equal(got), tag)

		return true
	})
}

func TestHandler_FillKeepsExistingValues(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))

	require.NoError(t, h.SetField(tr, "VERSION", 2))
	require.NoError(t, h.SetField(tr, "COUNT", 1))
	require.NoError(t, h.Fill(tr))
	require.True(t, h.IsSane(tr))

	out, err := h.Serialize(tr)
	require.NoError(t, err)
	require.Equal(t, []byte("0201   0    \x00"), out)

	reparsed := New("TSTLOP", nestedProgram(t))
	require.NoError(t, h.Parse(reparsed, out))
	require.Equal(t, tr.Fields().Len(), reparsed.Fields().Len())
	tr.Fields().Range(func(tag string, f *field.Field) bool {
		got, ok := reparsed.Field(tag)
		require.True(t, ok, tag)
		require.True(t, f.Equal(got), tag)

		return true
	})
}

func TestHandler_FillDefaults(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", mustProgram(t,
		program.Text("T", 3, ""),
		program.Number("N", 3, ""),
		program.Binary("B", 2, ""),
		program.Gobble(format.AsciiNumber, "G", ""),
	))

	require.NoError(t, h.Fill(tr))

	f, _ := tr.Field("T")
	require.Equal(t, "   ", f.String())
	f, _ = tr.Field("N")
	require.Equal(t, "000", f.String())
	f, _ = tr.Field("B")
	require.Equal(t, []byte{0, 0}, f.Raw())
	f, _ = tr.Field("G")
	require.Equal(t, "0", f.String())
	require.True(t, f.Resizable())
}

func TestHandler_ComputeLength(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))
	require.NoError(t, h.Parse(tr, nestedBody()))

	n, err := h.ComputeLength(tr)
	require.NoError(t, err)
	require.Equal(t, 25, n)

	tr.Fields().Remove("TAIL")
	n, err = h.CurrentSize(tr)
	require.NoError(t, err)
	require.Equal(t, 22, n)
	require.Equal(t, 22, tr.Length())
}

func TestHandler_IsSane(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))
	require.NoError(t, h.Parse(tr, nestedBody()))
	require.True(t, h.IsSane(tr))

	removed, ok := h.Remove(tr, "NAME[1]")
	require.True(t, ok)
	require.Equal(t, "BBB", removed.String())
	require.False(t, h.IsSane(tr))

	require.False(t, h.IsSane(New("TSTLOP", nestedProgram(t))))
}

func TestHandler_Clone(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTLOP", nestedProgram(t))
	require.NoError(t, h.Parse(tr, nestedBody()))

	cp := tr.Clone()
	require.Same(t, tr.Program(), cp.Program())
	require.Equal(t, tr.Length(), cp.Length())

	require.NoError(t, h.SetField(cp, "EXTRA", "ABCD"))
	orig, _ := tr.Field("EXTRA")
	require.Equal(t, "XTRA", orig.String())
}

func TestNewHandler_InvalidOption(t *testing.T) {
	_, err := NewHandler(WithMaxLength(0))
	require.Error(t, err)

	h := mustHandler(t, WithMaxLength(10), WithLogger(nil))
	require.Equal(t, 10, h.Config().MaxLength())
	require.NotNil(t, h.Config().Logger())
}

func TestHandler_FillStrict(t *testing.T) {
	tr := New("TSTLOP", nestedProgram(t))
	h := mustHandler(t)
	require.NoError(t, h.SetField(tr, "VERSION", 1))
	require.NoError(t, h.SetField(tr, "COUNT", 1))
	require.NoError(t, h.SetField(tr, "NVAL[0]", 1))
	require.NoError(t, h.SetField(tr, "VAL[0][0]", "AB"))
	require.NoError(t, h.Fill(tr.Clone()))

	strict := mustHandler(t, WithStrict(true))
	require.True(t, strict.Config().Strict())
	require.ErrorIs(t, strict.Fill(tr), errs.ErrInvalidValue)

	require.NoError(t, strict.SetField(tr, "VAL[0][0]", "-1"))
	require.NoError(t, strict.Fill(tr))
}

func sizedProgram(t *testing.T) *program.Program {
	t.Helper()

	return mustProgram(t,
		program.Number("N", 19, ""),
		program.Sized(format.AsciiText, "X", program.FromField("N"), ""),
	)
}

func TestHandler_ParseHugeFieldLength(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", sizedProgram(t))

	err := h.Parse(tr, []byte("9223372036854775807abc"))
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestHandler_ParseFailureKeepsPreviousState(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", sizedProgram(t))
	require.NoError(t, h.Parse(tr, []byte("0000000000000000002ab")))

	err := h.Parse(tr, []byte("0000000000000000009abc"))
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	require.Equal(t, 21, tr.Length())
	require.Equal(t, 2, tr.Fields().Len())
	x, ok := tr.Field("X")
	require.True(t, ok)
	require.Equal(t, "ab", x.String())
}

func TestHandler_FillHugeFieldLength(t *testing.T) {
	h := mustHandler(t)
	tr := New("TSTPRG", sizedProgram(t))

	require.NoError(t, h.SetField(tr, "N", int64(math.MaxInt64)))
	require.ErrorIs(t, h.Fill(tr), errs.ErrAllocation)
	require.ErrorIs(t, h.SetField(tr, "X", "abc"), errs.ErrAllocation)
	require.False(t, tr.Fields().Has("X"))
}

func TestHandler_MaxLengthBoundsFields(t *testing.T) {
	h := mustHandler(t, WithMaxLength(20))
	tr := New("TSTPRG", sizedProgram(t))

	require.NoError(t, h.SetField(tr, "N", 21))
	require.ErrorIs(t, h.SetField(tr, "X", "abc"), errs.ErrAllocation)

	require.NoError(t, h.SetField(tr, "N", 20))
	require.NoError(t, h.SetField(tr, "X", "abc"))
	require.NoError(t, h.Fill(tr))
	require.Equal(t, 39, tr.Length())
}
