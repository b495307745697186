package tre

import (
	"fmt"
	"log/slog"

	"github.com/ngageoint/six-library-sub005/internal/options"
)

// MaxTRELength is the largest TRE body a 5-digit length field can declare.
const MaxTRELength = 99999

// HandlerConfig holds the settings of a Handler.
type HandlerConfig struct {
	logger    *slog.Logger
	maxLength int
	strict    bool
}

// HandlerOption is a functional option for configuring a Handler.
type HandlerOption = options.Option[*HandlerConfig]

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		logger:    slog.New(slog.DiscardHandler),
		maxLength: MaxTRELength,
	}
}

// WithLogger sets the logger receiving per-field debug records.
// A nil logger keeps the default discard logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return options.NoError(func(c *HandlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMaxLength sets the largest TRE body Read accepts and the largest field
// Fill or SetField allocates. Default is MaxTRELength.
func WithMaxLength(n int) HandlerOption {
	return options.New(func(c *HandlerConfig) error {
		if n <= 0 {
			return fmt.Errorf("invalid max TRE length: %d", n)
		}
		c.maxLength = n

		return nil
	})
}

// WithStrict makes Fill reject AsciiNumber fields whose content is not numeric.
func WithStrict(strict bool) HandlerOption {
	return options.NoError(func(c *HandlerConfig) {
		c.strict = strict
	})
}

// Logger returns the configured logger.
func (c *HandlerConfig) Logger() *slog.Logger { return c.logger }

// MaxLength returns the configured maximum TRE body length.
func (c *HandlerConfig) MaxLength() int { return c.maxLength }

// Strict reports whether strict mode is enabled.
func (c *HandlerConfig) Strict() bool { return c.strict }
