package compress

import "github.com/klauspost/compress/s2"

// S2Compressor archives extension sections with S2, the fastest codec
// Processor.Archive offers. Sections are small and ASCII heavy, so S2 trades
// some ratio against zstd for much cheaper encoding.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 section codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes a serialized section as one S2 block.
func (c S2Compressor) Compress(section []byte) ([]byte, error) {
	if len(section) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, section), nil
}

// Decompress decodes an S2 block back into the serialized section.
func (c S2Compressor) Decompress(archived []byte) ([]byte, error) {
	if len(archived) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, archived)
}
