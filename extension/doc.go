// Package extension reads and writes NITF TRE extension sections.
//
// An extension section is a run of TREs, each framed by a fixed header:
//
//	CETAG   6 bytes   BCS-A tag, space padded on the right
//	CEL     5 bytes   BCS-N body length, zero padded
//	CEDATA  CEL bytes TRE body
//
// A Processor looks each tag up in a registry.Registry and parses the body
// with a tre.Handler. Bodies whose registered program does not fit are kept
// as raw-capture TREs so that a section always round-trips byte for byte.
//
// Sections can also be archived: the serialized section compressed with one
// of the compress codecs behind a single CompressionType byte.
//
//	p, _ := extension.New(extension.WithRegistry(reg))
//	tres, err := p.Parse(section)
//	packed, err := p.Archive(tres)
package extension
