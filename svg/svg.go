// Package svg implements the default optimization passes for SVG content:
// whitespace and comment normalization, metadata stripping and optional
// removal of fill attributes. All passes are pure deletion or collapsing of
// bytes, never reordering, and are total: any byte sequence passes through.
package svg

import (
	"bytes"
	"io"
)

var (
	gtBytes    = []byte(">")
	voidBytes  = []byte("/>")
	piBytes    = []byte("?>")
	endBytes   = []byte("</")
	isBytes    = []byte("=")
	spaceBytes = []byte(" ")
)

// Minifier composes the default optimization passes in fixed order:
// Normalizer, Stripper and, when RemoveFill is set, FillRemover.
// Running it on its own output is a no-op.
type Minifier struct {
	RemoveFill bool
	Rules      *Rules   // metadata rules, nil means DefaultRules()
	RawText    []string // raw-text element names, nil means DefaultRawText
}

type pass interface {
	Optimize(w io.Writer, r io.Reader) error
}

// Optimize SVG content, it reads from r and writes to w.
func (o *Minifier) Optimize(w io.Writer, r io.Reader) error {
	passes := []pass{
		&Normalizer{RawText: o.RawText},
		&Stripper{Rules: o.Rules},
	}
	if o.RemoveFill {
		passes = append(passes, &FillRemover{})
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, p := range passes {
		out := bytes.NewBuffer(make([]byte, 0, len(b)))
		if err := p.Optimize(out, bytes.NewReader(b)); err != nil {
			return err
		}
		b = out.Bytes()
	}
	_, err = w.Write(b)
	return err
}

func writeAttr(w io.Writer, name, val []byte) error {
	if _, err := w.Write(spaceBytes); err != nil {
		return err
	}
	if _, err := w.Write(name); err != nil {
		return err
	}
	if val == nil {
		return nil
	}
	if _, err := w.Write(isBytes); err != nil {
		return err
	}
	_, err := w.Write(val)
	return err
}

func writeEndTag(w io.Writer, name []byte) error {
	if _, err := w.Write(endBytes); err != nil {
		return err
	}
	if _, err := w.Write(name); err != nil {
		return err
	}
	_, err := w.Write(gtBytes)
	return err
}
