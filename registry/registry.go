// Package registry maps TRE tags to the programs that describe them.
//
// A Registry is populated once, typically at process start from a directory
// of YAML descriptions, and then shared read-only by every handler and
// extension parser. Lookups never fail: an unknown tag resolves to the
// raw-capture program unless a different fallback is configured.
package registry

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/internal/options"
	"github.com/ngageoint/six-library-sub005/program"
)

// MaxTagLength is the width of the CETAG field of a TRE header.
const MaxTagLength = 6

// Fallback produces the program used for a tag with no registered program.
type Fallback func(tag string) *program.Program

// Option is a functional option for configuring a Registry.
type Option = options.Option[*Registry]

// Registry is a tag to program lookup table. Registration takes a write
// lock and lookups a read lock, so lookups may run concurrently with each
// other and with late registrations.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]*program.Program
	funcs    map[string]program.CountFunc
	fallback Fallback
	logger   *slog.Logger
}

// WithFallback replaces the raw-capture default used for unknown tags.
// A nil fallback makes Lookup report a miss with a nil program.
func WithFallback(fn Fallback) Option {
	return options.NoError(func(r *Registry) {
		r.fallback = fn
	})
}

// WithFuncs sets the count functions that loop_func entries of loaded
// descriptions resolve against.
func WithFuncs(funcs map[string]program.CountFunc) Option {
	return options.NoError(func(r *Registry) {
		r.funcs = funcs
	})
}

// WithLogger sets the logger receiving registration warnings. A nil logger
// keeps the default discard logger.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// New creates an empty Registry.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		programs: make(map[string]*program.Program),
		fallback: program.Raw,
		logger:   slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Register adds p under its tag, replacing any previous program for that
// tag. Programs declaring a field tag more than once are accepted with a
// warning, since only mutually exclusive If blocks can do so safely.
func (r *Registry) Register(p *program.Program) error {
	if err := ValidateTag(p.Tag()); err != nil {
		return err
	}
	if _, dups := p.FieldTags(); len(dups) > 0 {
		r.logger.Warn("TRE program declares field tags more than once",
			slog.String("tre", p.Tag()),
			slog.Any("fields", dups))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[p.Tag()] = p

	return nil
}

// LoadDir registers every program described by the *.yaml and *.yml files
// directly under dir. It returns the number of programs registered.
func (r *Registry) LoadDir(fsys fs.FS, dir string) (int, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("read description directory %s: %w", dir, err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}

		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return n, fmt.Errorf("read description %s: %w", name, err)
		}

		progs, err := program.LoadYAML(data, r.funcs)
		if err != nil {
			return n, fmt.Errorf("load description %s: %w", name, err)
		}
		for _, p := range progs {
			if err := r.Register(p); err != nil {
				return n, fmt.Errorf("load description %s: %w", name, err)
			}
			n++
		}
	}

	return n, nil
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// Lookup returns the program registered for tag. On a miss it returns the
// fallback program for tag and false.
func (r *Registry) Lookup(tag string) (*program.Program, bool) {
	r.mu.RLock()
	p, ok := r.programs[tag]
	r.mu.RUnlock()
	if ok {
		return p, true
	}
	if r.fallback == nil {
		return nil, false
	}

	return r.fallback(tag), false
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.programs))
	for tag := range r.programs {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags
}

// Len returns the number of registered programs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.programs)
}

// ValidateTag checks that tag fits the CETAG field: 1 to 6 printable ASCII
// characters without embedded spaces.
func ValidateTag(tag string) error {
	if tag == "" || len(tag) > MaxTagLength {
		return fmt.Errorf("%w: %q must be 1-%d characters", errs.ErrInvalidTag, tag, MaxTagLength)
	}
	if strings.IndexFunc(tag, func(r rune) bool { return r <= ' ' || r > '~' }) >= 0 {
		return fmt.Errorf("%w: %q contains non-printable characters", errs.ErrInvalidTag, tag)
	}

	return nil
}
