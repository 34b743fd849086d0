package svg

import (
	"bytes"
	"io"

	"github.com/pasabanov/svgc/parse/xml"
)

var fillBytes = []byte("fill")

// FillRemover deletes fill attributes from element tags. Occurrences of
// "fill" inside text content, style or script bodies, comments or other
// attribute values are never attribute tokens and are left alone. The
// attribute is removed together with its adjoining whitespace.
type FillRemover struct{}

// Optimize SVG content, it reads from r and writes to w.
func (o *FillRemover) Optimize(w io.Writer, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	l := xml.NewLexer(b)
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() == io.EOF {
				return nil
			}
			return l.Err()
		case xml.AttributeToken:
			if bytes.Equal(l.Text(), fillBytes) {
				continue
			}
			if err := writeAttr(w, l.Text(), l.AttrVal()); err != nil {
				return err
			}
		case xml.StartTagCloseToken:
			if _, err := w.Write(gtBytes); err != nil {
				return err
			}
		case xml.StartTagCloseVoidToken:
			if _, err := w.Write(voidBytes); err != nil {
				return err
			}
		case xml.StartTagClosePIToken:
			if _, err := w.Write(piBytes); err != nil {
				return err
			}
		case xml.EndTagToken:
			if err := writeEndTag(w, l.Text()); err != nil {
				return err
			}
		default:
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
	}
}
