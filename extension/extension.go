package extension

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ngageoint/six-library-sub005/compress"
	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/format"
	"github.com/ngageoint/six-library-sub005/internal/options"
	"github.com/ngageoint/six-library-sub005/internal/pool"
	"github.com/ngageoint/six-library-sub005/program"
	"github.com/ngageoint/six-library-sub005/registry"
	"github.com/ngageoint/six-library-sub005/tre"
)

// Header field widths.
const (
	TagWidth    = registry.MaxTagLength
	LengthWidth = 5
	HeaderSize  = TagWidth + LengthWidth
)

// MaxBodyLength is the largest body a 5-digit CEL can describe.
const MaxBodyLength = 99999

// Processor parses and serializes extension sections.
//
// A Processor is safe for concurrent use once configured, provided its
// registry is not modified concurrently.
type Processor struct {
	registry    *registry.Registry
	handler     *tre.Handler
	compression format.CompressionType
}

// New creates a Processor.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{compression: format.CompressionZstd}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	if p.registry == nil {
		r, err := registry.New()
		if err != nil {
			return nil, err
		}
		p.registry = r
	}
	if p.handler == nil {
		h, err := tre.NewHandler()
		if err != nil {
			return nil, err
		}
		p.handler = h
	}

	return p, nil
}

// Handler returns the TRE handler in use.
func (p *Processor) Handler() *tre.Handler { return p.handler }

// Registry returns the program registry in use.
func (p *Processor) Registry() *registry.Registry { return p.registry }

func (p *Processor) logger() *slog.Logger { return p.handler.Config().Logger() }

// Parse splits data into TREs and parses each body with the program
// registered for its tag.
//
// A body that its registered program cannot parse is kept as a raw-capture
// TRE and a warning is logged. Headers or bodies cut short by the end of data
// fail with errs.ErrTruncated.
func (p *Processor) Parse(data []byte) ([]*tre.TRE, error) {
	var out []*tre.TRE

	for offset := 0; offset < len(data); {
		if len(data)-offset < HeaderSize {
			return nil, fmt.Errorf("%w: %d header bytes at offset %d", errs.ErrTruncated, len(data)-offset, offset)
		}

		tag := strings.TrimRight(string(data[offset:offset+TagWidth]), " ")
		if err := registry.ValidateTag(tag); err != nil {
			return nil, fmt.Errorf("TRE at offset %d: %w", offset, err)
		}

		celText := string(data[offset+TagWidth : offset+HeaderSize])
		cel, err := strconv.Atoi(celText)
		if err != nil || cel < 0 {
			return nil, fmt.Errorf("%w: %s length %q is not a number", errs.ErrLengthMismatch, tag, celText)
		}

		start := offset + HeaderSize
		if len(data)-start < cel {
			return nil, fmt.Errorf("%w: %s declares %d bytes, %d remain", errs.ErrTruncated, tag, cel, len(data)-start)
		}

		t, err := p.parseTRE(tag, data[start:start+cel])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		offset = start + cel
	}

	return out, nil
}

func (p *Processor) parseTRE(tag string, body []byte) (*tre.TRE, error) {
	prog, registered := p.registry.Lookup(tag)
	if prog == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownProgram, tag)
	}

	t := tre.New(tag, prog)
	err := p.handler.Parse(t, body)
	if err == nil {
		return t, nil
	}
	if !registered {
		return nil, fmt.Errorf("parse %s: %w", tag, err)
	}

	p.logger().Warn("TRE does not match its description, keeping raw data",
		slog.String("tre", tag),
		slog.Int("length", len(body)),
		slog.Any("error", err))

	t = tre.New(tag, program.Raw(tag))
	if err := p.handler.Parse(t, body); err != nil {
		return nil, fmt.Errorf("parse %s: %w", tag, err)
	}

	return t, nil
}

// Serialize writes the header and body of every TRE in order. Bodies longer
// than MaxBodyLength fail with errs.ErrFieldTooLong.
func (p *Processor) Serialize(tres []*tre.TRE) ([]byte, error) {
	buf := pool.GetSectionBuffer()
	defer pool.PutSectionBuffer(buf)

	for _, t := range tres {
		if err := registry.ValidateTag(t.Tag()); err != nil {
			return nil, err
		}

		body, err := p.handler.Serialize(t)
		if err != nil {
			return nil, err
		}
		if len(body) > MaxBodyLength {
			return nil, fmt.Errorf("%w: %s body is %d bytes, CEL holds at most %d",
				errs.ErrFieldTooLong, t.Tag(), len(body), MaxBodyLength)
		}

		buf.Grow(HeaderSize + len(body))
		_, _ = fmt.Fprintf(buf, "%-*s%0*d", TagWidth, t.Tag(), LengthWidth, len(body))
		buf.MustWrite(body)
	}

	return buf.Clone(), nil
}

// Archive serializes tres and compresses the section with the configured
// codec. The first byte of the result is the CompressionType.
func (p *Processor) Archive(tres []*tre.TRE) ([]byte, error) {
	section, err := p.Serialize(tres)
	if err != nil {
		return nil, err
	}

	packed, stats, err := compress.CompressWithStats(p.compression, section)
	if err != nil {
		return nil, err
	}
	p.logger().Debug("archived extension section",
		slog.String("compression", stats.Algorithm.String()),
		slog.Int("tres", len(tres)),
		slog.Int("original", stats.OriginalSize),
		slog.Int("compressed", stats.CompressedSize))

	out := make([]byte, 0, len(packed)+1)
	out = append(out, byte(p.compression))

	return append(out, packed...), nil
}

// Unarchive reverses Archive using the codec named by the first byte, which
// need not match the configured compression.
func (p *Processor) Unarchive(data []byte) ([]*tre.TRE, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty archive", errs.ErrTruncated)
	}

	codec, err := compress.GetCodec(format.CompressionType(data[0]))
	if err != nil {
		return nil, err
	}
	section, err := codec.Decompress(data[1:])
	if err != nil {
		return nil, fmt.Errorf("unarchive extension section: %w", err)
	}

	return p.Parse(section)
}
