package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngageoint/six-library-sub005/format"
)

const namesYAML = `tag: TSTABC
descriptors:
  - {type: N, len: 2, tag: COUNT, label: Count}
  - {loop: COUNT}
  - {type: A, len: 3, tag: NAME, label: Name}
  - {endloop: true}
`

const section = "TSTABC0000802AAABBB" + "UNKN  00003xyz"

func setup(t *testing.T, data []byte) (defs, in string) {
	t.Helper()

	dir := t.TempDir()
	defs = filepath.Join(dir, "defs")
	require.NoError(t, os.Mkdir(defs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(defs, "names.yaml"), []byte(namesYAML), 0o600))

	in = filepath.Join(dir, "section.bin")
	require.NoError(t, os.WriteFile(in, data, 0o600))

	return defs, in
}

func TestRun_JSON(t *testing.T) {
	defs, in := setup(t, []byte(section))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-defs", defs, "-in", in}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	require.JSONEq(t, `{"tag":"TSTABC","fields":{"COUNT":2,"NAME[0]":"AAA","NAME[1]":"BBB"}}`, lines[0])
	require.Less(t, strings.Index(lines[0], "COUNT"), strings.Index(lines[0], "NAME[0]"))
	require.Less(t, strings.Index(lines[0], "NAME[0]"), strings.Index(lines[0], "NAME[1]"))
	require.JSONEq(t, `{"tag":"UNKN","fields":{"raw_data":"78797a"}}`, lines[1])
}

func TestRun_Stdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("UNKN  00001z"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.JSONEq(t, `{"tag":"UNKN","fields":{"raw_data":"7a"}}`, stdout.String())
}

func TestRun_Query(t *testing.T) {
	defs, in := setup(t, []byte(section))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-defs", defs, "-in", in, "-query", `select(.tag == "TSTABC") | .fields.COUNT`}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "2\n", stdout.String())

	stdout.Reset()
	code = run([]string{"-in", in, "-query", ".["}, nil, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "invalid query")
}

func TestRun_Text(t *testing.T) {
	defs, in := setup(t, []byte(section))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-defs", defs, "-in", in, "-text"}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "TSTABC:\nCOUNT (Count) = [2]\nNAME[0] (Name) = [AAA]\n")
	require.Contains(t, stdout.String(), "UNKN:\nraw_data (raw data) = [78797a]\n")
}

func TestRun_Archive(t *testing.T) {
	archive := append([]byte{byte(format.CompressionNone)}, section...)
	defs, in := setup(t, archive)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-defs", defs, "-in", in, "-archive", "-v"}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, 2, strings.Count(stdout.String(), "\n"))
	require.Contains(t, stderr.String(), "loaded TRE descriptions")
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run([]string{"-bogus"}, nil, &stdout, &stderr))
	require.Equal(t, 0, run([]string{"-h"}, nil, &stdout, &stderr))

	require.Equal(t, 1, run([]string{"-in", filepath.Join(t.TempDir(), "missing")}, nil, &stdout, &stderr))

	_, in := setup(t, []byte("TSTABC00010"))
	stderr.Reset()
	require.Equal(t, 1, run([]string{"-in", in}, nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), "truncated")
}
