package extension

import (
	"fmt"

	"github.com/ngageoint/six-library-sub005/format"
	"github.com/ngageoint/six-library-sub005/internal/options"
	"github.com/ngageoint/six-library-sub005/registry"
	"github.com/ngageoint/six-library-sub005/tre"
)

// Option is a functional option for configuring a Processor.
type Option = options.Option[*Processor]

// WithRegistry sets the registry used to look up TRE programs. By default
// the registry is empty and every TRE is raw-captured.
func WithRegistry(r *registry.Registry) Option {
	return options.New(func(p *Processor) error {
		if r == nil {
			return fmt.Errorf("extension registry must not be nil")
		}
		p.registry = r

		return nil
	})
}

// WithHandler sets the TRE handler. Its logger also receives the
// processor's fallback warnings.
func WithHandler(h *tre.Handler) Option {
	return options.New(func(p *Processor) error {
		if h == nil {
			return fmt.Errorf("extension handler must not be nil")
		}
		p.handler = h

		return nil
	})
}

// WithCompression sets the codec Archive uses. Default is format.CompressionZstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(p *Processor) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			p.compression = ct
			return nil
		default:
			return fmt.Errorf("invalid archive compression: %s", ct)
		}
	})
}
