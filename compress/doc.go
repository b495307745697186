// Package compress provides the codecs used to archive NITF extension
// sections.
//
// An archived section is the serialized CETAG/CEL/CEDATA sequence passed
// through one of the codecs below. The codec is chosen by format.CompressionType
// and recorded in the archive so that Unarchive can pick the matching
// decompressor.
//
//   - None: data is passed through unchanged
//   - Zstd: best ratio, suited to text-heavy TREs
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// Every codec satisfies Codec:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(section)
//
// The Zstd codec is implemented with github.com/klauspost/compress/zstd by
// default. Building with cgo and the gozstd tag switches it to the
// github.com/valyala/gozstd bindings.
//
// All codecs are safe for concurrent use. Encoders and decoders are pooled
// internally.
package compress
