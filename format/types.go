package format

type (
	FieldKind       uint8
	CompressionType uint8
)

const (
	AsciiText   FieldKind = 0x1 // AsciiText is a BCS-A field: left-justified, space padded.
	AsciiNumber FieldKind = 0x2 // AsciiNumber is a BCS-N field: right-justified, zero padded.
	Binary      FieldKind = 0x3 // Binary is an opaque byte field, 2 and 4 byte values are byte swapped.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k FieldKind) String() string {
	switch k {
	case AsciiText:
		return "AsciiText"
	case AsciiNumber:
		return "AsciiNumber"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is one of the defined field kinds.
func (k FieldKind) IsValid() bool {
	return k >= AsciiText && k <= Binary
}

// ParseFieldKind maps the short NITF names ("A", "N", "B") and the long names
// returned by String back to a FieldKind.
func ParseFieldKind(s string) (FieldKind, bool) {
	switch s {
	case "A", "BCS_A", "AsciiText":
		return AsciiText, true
	case "N", "BCS_N", "AsciiNumber":
		return AsciiNumber, true
	case "B", "BINARY", "Binary":
		return Binary, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
