package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ngageoint/six-library-sub005/errs"
	"github.com/ngageoint/six-library-sub005/format"
)

// yamlProgram is the on-disk form of a TRE description.
type yamlProgram struct {
	Tag         string           `yaml:"tag"`
	Descriptors []yamlDescriptor `yaml:"descriptors"`
}

type yamlDescriptor struct {
	// Fields
	Type    string `yaml:"type,omitempty"`
	Len     *int   `yaml:"len,omitempty"`
	Gobble  bool   `yaml:"gobble,omitempty"`
	CondLen string `yaml:"cond_len,omitempty"`
	ExprLen string `yaml:"expr_len,omitempty"`
	Tag     string `yaml:"tag,omitempty"`
	Label   string `yaml:"label,omitempty"`
	// Loops
	Loop      string `yaml:"loop,omitempty"`
	Adjust    string `yaml:"adjust,omitempty"`
	LoopConst *int   `yaml:"loop_const,omitempty"`
	LoopFunc  string `yaml:"loop_func,omitempty"`
	EndLoop   bool   `yaml:"endloop,omitempty"`
	// Conditions
	If    string `yaml:"if,omitempty"`
	Cond  string `yaml:"cond,omitempty"`
	EndIf bool   `yaml:"endif,omitempty"`
}

// LoadYAML decodes every YAML document in data into a Program. funcs resolves
// loop_func references and may be nil.
//
// Example document:
//
//	tag: TSTABC
//	descriptors:
//	  - {type: N, len: 3, tag: COUNT}
//	  - {loop: COUNT, adjust: "- 1"}
//	  - {type: A, len: 4, tag: NAME}
//	  - {endloop: true}
//	  - {type: B, gobble: true, tag: TAIL}
func LoadYAML(data []byte, funcs map[string]CountFunc) ([]*Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var out []*Program
	for {
		var doc yamlProgram
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode TRE description: %w", err)
		}
		if doc.Tag == "" {
			return nil, fmt.Errorf("%w: description without a tag", errs.ErrMalformedProgram)
		}

		descs := make([]Descriptor, 0, len(doc.Descriptors))
		for i, yd := range doc.Descriptors {
			d, err := yd.descriptor()
			if err != nil {
				return nil, fmt.Errorf("description %s entry %d: %w", doc.Tag, i, err)
			}
			descs = append(descs, d)
		}

		p, err := New(doc.Tag, descs, funcs)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

func (yd yamlDescriptor) descriptor() (Descriptor, error) {
	switch {
	case yd.EndLoop:
		return EndLoop(), nil
	case yd.EndIf:
		return EndIf(), nil
	case yd.LoopConst != nil:
		return LoopConst(*yd.LoopConst), nil
	case yd.LoopFunc != "":
		return LoopFunc(yd.LoopFunc), nil
	case yd.Loop != "":
		return LoopField(yd.Loop, yd.Adjust), nil
	case yd.If != "":
		return If(yd.If, yd.Cond), nil
	}

	kind, ok := format.ParseFieldKind(yd.Type)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: unknown field type %q", errs.ErrMalformedProgram, yd.Type)
	}

	var length Length
	switch {
	case yd.Gobble:
		length = Rest()
	case yd.CondLen != "":
		length = FromField(yd.CondLen)
	case yd.ExprLen != "":
		length = FromPostfix(yd.ExprLen)
	case yd.Len != nil:
		length = Fixed(*yd.Len)
	default:
		return Descriptor{}, fmt.Errorf("%w: field %s has no length", errs.ErrMalformedProgram, yd.Tag)
	}

	return Sized(kind, yd.Tag, length, yd.Label), nil
}
