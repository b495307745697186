// Command tredump prints the TREs of a NITF extension section.
//
// Each TRE is written as one JSON object per line with its fields in layout
// order:
//
//	{"tag":"ACFTB","fields":{"AC_MSN_ID":"...","SCTYPE":"..."}}
//
// Usage:
//
//	tredump -defs ./descriptions -in section.bin
//	tredump -defs ./descriptions -in section.arc -archive -query '.fields.COUNT'
//
// Tags without a description in -defs are printed as a single raw_data field
// holding the hex encoded body.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Velocidex/ordereddict"
	"github.com/itchyny/gojq"

	"github.com/ngageoint/six-library-sub005/extension"
	"github.com/ngageoint/six-library-sub005/registry"
	"github.com/ngageoint/six-library-sub005/tre"
)

type config struct {
	defs    string
	in      string
	archive bool
	query   string
	text    bool
	verbose bool
}

type record struct {
	Tag    string            `json:"tag"`
	Fields *ordereddict.Dict `json:"fields"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tredump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg config
	fs.StringVar(&cfg.defs, "defs", "", "Directory of YAML TRE descriptions")
	fs.StringVar(&cfg.in, "in", "-", "Extension section file, - for stdin")
	fs.BoolVar(&cfg.archive, "archive", false, "Input is a compressed extension archive")
	fs.StringVar(&cfg.query, "query", "", "jq expression applied to each TRE object")
	fs.BoolVar(&cfg.text, "text", false, "Print TAG (label) = [value] lines instead of JSON")
	fs.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := dump(cfg, stdin, stdout, logger); err != nil {
		logger.Error("tredump failed", slog.Any("error", err))
		return 1
	}

	return 0
}

func dump(cfg config, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	var query *gojq.Query
	if cfg.query != "" {
		q, err := gojq.Parse(cfg.query)
		if err != nil {
			return fmt.Errorf("invalid query %q: %w", cfg.query, err)
		}
		query = q
	}

	reg, err := registry.New()
	if err != nil {
		return err
	}
	if cfg.defs != "" {
		n, err := reg.LoadDir(os.DirFS(cfg.defs), ".")
		if err != nil {
			return err
		}
		logger.Debug("loaded TRE descriptions", slog.String("dir", cfg.defs), slog.Int("count", n))
	}

	h, err := tre.NewHandler(tre.WithLogger(logger))
	if err != nil {
		return err
	}
	p, err := extension.New(extension.WithRegistry(reg), extension.WithHandler(h))
	if err != nil {
		return err
	}

	data, err := readInput(cfg.in, stdin)
	if err != nil {
		return err
	}

	var tres []*tre.TRE
	if cfg.archive {
		tres, err = p.Unarchive(data)
	} else {
		tres, err = p.Parse(data)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	for _, t := range tres {
		if cfg.text {
			if _, err := fmt.Fprintf(stdout, "%s:\n", t.Tag()); err != nil {
				return err
			}
			if err := h.Print(stdout, t); err != nil {
				return err
			}
			continue
		}

		fields, err := h.Ordered(t)
		if err != nil {
			return err
		}
		rec := record{Tag: t.Tag(), Fields: fields}
		if query == nil {
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		if err := runQuery(query, rec, enc); err != nil {
			return fmt.Errorf("query on %s: %w", t.Tag(), err)
		}
	}

	return nil
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(name)
}

// runQuery round-trips rec through JSON so gojq sees plain maps and float64
// numbers, then encodes every result.
func runQuery(q *gojq.Query, rec record, enc *json.Encoder) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	var input map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&input); err != nil {
		return err
	}

	iter := q.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}
