package svg

import (
	"io"

	"github.com/tdewolff/parse/v2"

	"github.com/pasabanov/svgc/parse/xml"
)

// DefaultRawText lists the elements whose text content is rendering
// significant and must be preserved byte for byte.
var DefaultRawText = []string{"style", "script", "text", "tspan"}

// Normalizer removes comments and collapses whitespace that has no rendering
// effect. Attribute values and text inside raw-text elements are never
// touched; everywhere else whitespace bordering markup is deleted and
// interior runs collapse to a single byte: a space, or a newline when the
// run contained one, so a tab or carriage return may be rewritten rather
// than merely deleted. The pass is total and idempotent.
type Normalizer struct {
	RawText []string // raw-text element names, nil means DefaultRawText
}

// Optimize SVG content, it reads from r and writes to w.
func (o *Normalizer) Optimize(w io.Writer, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	names := o.RawText
	if names == nil {
		names = DefaultRawText
	}
	rawText := make(map[string]bool, len(names))
	for _, name := range names {
		rawText[name] = true
	}

	// Text tokens outside raw-text elements accumulate into run so that text
	// separated only by removed comments collapses as one unit.
	var run []byte
	flush := func() error {
		text := parse.ReplaceMultipleWhitespace(parse.TrimWhitespace(run))
		run = run[:0]
		if len(text) == 0 {
			return nil
		}
		_, err := w.Write(text)
		return err
	}

	rawDepth := 0
	pendingRaw := false

	l := xml.NewLexer(b)
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() == io.EOF {
				return flush()
			}
			return l.Err()
		case xml.CommentToken:
			// dropped, adjacent text merges into one run
		case xml.TextToken:
			if rawDepth > 0 {
				if _, err := w.Write(data); err != nil {
					return err
				}
			} else {
				run = append(run, data...)
			}
		case xml.CDATAToken, xml.DOCTYPEToken:
			if err := flush(); err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		case xml.StartTagToken, xml.StartTagPIToken:
			if err := flush(); err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
			pendingRaw = tt == xml.StartTagToken && rawText[string(l.Text())]
		case xml.AttributeToken:
			if err := writeAttr(w, l.Text(), l.AttrVal()); err != nil {
				return err
			}
		case xml.StartTagCloseToken:
			if _, err := w.Write(gtBytes); err != nil {
				return err
			}
			if pendingRaw {
				rawDepth++
				pendingRaw = false
			}
		case xml.StartTagCloseVoidToken:
			if _, err := w.Write(voidBytes); err != nil {
				return err
			}
			pendingRaw = false
		case xml.StartTagClosePIToken:
			if _, err := w.Write(piBytes); err != nil {
				return err
			}
			pendingRaw = false
		case xml.EndTagToken:
			if err := flush(); err != nil {
				return err
			}
			if rawDepth > 0 && rawText[string(l.Text())] {
				rawDepth--
			}
			if err := writeEndTag(w, l.Text()); err != nil {
				return err
			}
		}
	}
}
