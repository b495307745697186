package compress

// ZstdCompressor provides Zstandard compression. TRE bodies are mostly
// space padded BCS text, which Zstd compresses far better than the other
// codecs.
//
// The implementation is selected at build time, see zstd_pure.go and
// zstd_cgo.go.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
