package svg

import (
	"bytes"
	"io"

	"github.com/tdewolff/parse/v2"

	"github.com/pasabanov/svgc/parse/xml"
)

var xmlBytes = []byte("xml")

// Rules describes which metadata is safe to delete unconditionally. The rule
// list is data, not logic: callers may extend or replace it. The zero value
// deletes nothing.
type Rules struct {
	Elements      []string // elements removed together with their entire subtree
	Namespaces    []string // editor namespace prefixes: declarations, attributes and elements are removed
	EmptyElements []string // elements removed when they carry no attributes and no content

	XMLProlog        bool // remove <?xml ... ?> processing instructions
	Doctype          bool // remove <!DOCTYPE ...> declarations
	UnusedNamespaces bool // remove xmlns:prefix declarations whose prefix occurs nowhere
	XMLSpace         bool // remove xml:space attributes when the document has no text content
}

// DefaultRules returns the rule set used by the default pipeline.
func DefaultRules() *Rules {
	return &Rules{
		Elements:      []string{"metadata"},
		Namespaces:    []string{"inkscape", "sodipodi"},
		EmptyElements: []string{"defs"},

		XMLProlog:        true,
		Doctype:          true,
		UnusedNamespaces: true,
		XMLSpace:         true,
	}
}

// Stripper deletes editor metadata, default declarations and empty container
// elements according to its rule set. Conditional rules (unused namespaces,
// xml:space) are decided by a pre-scan of the whole document. The pass is
// total and idempotent.
type Stripper struct {
	Rules *Rules // nil means DefaultRules()
}

// Optimize SVG content, it reads from r and writes to w.
func (o *Stripper) Optimize(w io.Writer, r io.Reader) error {
	rules := o.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	elements := toSet(rules.Elements)
	namespaces := toSet(rules.Namespaces)
	empties := toSet(rules.EmptyElements)

	// removing an element can leave a container empty and can drop the last
	// use of a namespace, so run to a fixed point
	for {
		out := bytes.NewBuffer(make([]byte, 0, len(b)))
		if err := rules.strip(out, b, elements, namespaces, empties); err != nil {
			return err
		}
		if bytes.Equal(out.Bytes(), b) {
			_, err = w.Write(b)
			return err
		}
		b = out.Bytes()
	}
}

func (rules *Rules) strip(w io.Writer, b []byte, elements, namespaces, empties map[string]bool) error {
	usedPrefix, hasText := scanDocument(b)

	l := xml.NewLexer(b)
	tb := NewTokenBuffer(l)
	for {
		t := tb.Shift()
		switch t.TokenType {
		case xml.ErrorToken:
			if l.Err() == io.EOF {
				return nil
			}
			return l.Err()
		case xml.DOCTYPEToken:
			if rules.Doctype {
				continue
			}
			if _, err := w.Write(t.Data); err != nil {
				return err
			}
		case xml.StartTagPIToken:
			if rules.XMLProlog && bytes.Equal(t.Text, xmlBytes) {
				skipTag(tb)
				continue
			}
			if _, err := w.Write(t.Data); err != nil {
				return err
			}
		case xml.StartTagToken:
			if elements[string(t.Text)] || namespaces[string(nsPrefix(t.Text))] {
				skipElement(tb)
				continue
			}
			if empties[string(t.Text)] {
				if n, ok := emptyElementAt(tb, t.Text); ok {
					for i := 0; i < n; i++ {
						tb.Shift()
					}
					continue
				}
			}
			if _, err := w.Write(t.Data); err != nil {
				return err
			}
		case xml.AttributeToken:
			if rules.dropAttr(t.Text, namespaces, usedPrefix, hasText) {
				continue
			}
			if err := writeAttr(w, t.Text, t.AttrVal); err != nil {
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
			if err := writeEndTag(w, t.Text); err != nil {
				return err
			}
		default:
			// text, CDATA and comments pass through verbatim
			if _, err := w.Write(t.Data); err != nil {
				return err
			}
		}
	}
}

// scanDocument collects the namespace prefixes in use and whether any text
// content exists, for the conditional rules.
func scanDocument(b []byte) (map[string]bool, bool) {
	usedPrefix := map[string]bool{}
	hasText := false

	l := xml.NewLexer(b)
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			return usedPrefix, hasText
		case xml.TextToken:
			if !parse.IsAllWhitespace(data) {
				hasText = true
			}
		case xml.CDATAToken:
			if !parse.IsAllWhitespace(l.Text()) {
				hasText = true
			}
		case xml.StartTagToken, xml.EndTagToken:
			if p := nsPrefix(l.Text()); p != nil {
				usedPrefix[string(p)] = true
			}
		case xml.AttributeToken:
			// xmlns:foo declares a prefix, it does not use it
			if p := nsPrefix(l.Text()); p != nil && string(p) != "xmlns" {
				usedPrefix[string(p)] = true
			}
		}
	}
}

func (rules *Rules) dropAttr(name []byte, namespaces, usedPrefix map[string]bool, hasText bool) bool {
	i := bytes.IndexByte(name, ':')
	if i < 0 {
		return false
	}
	prefix, local := string(name[:i]), string(name[i+1:])
	if prefix == "xmlns" {
		if namespaces[local] {
			return true
		}
		return rules.UnusedNamespaces && !usedPrefix[local]
	}
	if namespaces[prefix] {
		return true
	}
	return rules.XMLSpace && !hasText && prefix == "xml" && local == "space"
}

// skipTag consumes the remaining attributes and the closing token of the tag
// that was just shifted.
func skipTag(tb *TokenBuffer) {
	for {
		switch tb.Shift().TokenType {
		case xml.ErrorToken, xml.StartTagCloseToken, xml.StartTagCloseVoidToken, xml.StartTagClosePIToken:
			return
		}
	}
}

// skipElement consumes the remaining attributes of the tag that was just
// shifted and, unless it is self-closing, its entire subtree up to and
// including the matching end tag. Unterminated elements consume to the end
// of input.
func skipElement(tb *TokenBuffer) {
	depth := 0
	for {
		switch tb.Shift().TokenType {
		case xml.ErrorToken:
			return
		case xml.StartTagCloseVoidToken:
			if depth == 0 {
				return
			}
		case xml.StartTagCloseToken:
			depth++
		case xml.EndTagToken:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

// emptyElementAt reports whether the tag that was just shifted is an empty
// attribute-less element, and how many upcoming tokens it spans.
func emptyElementAt(tb *TokenBuffer, name []byte) (int, bool) {
	t := tb.Peek(0)
	if t.TokenType == xml.StartTagCloseVoidToken {
		return 1, true
	}
	if t.TokenType != xml.StartTagCloseToken {
		return 0, false
	}
	n := 2
	t = tb.Peek(1)
	if t.TokenType == xml.TextToken && parse.IsAllWhitespace(t.Data) {
		n++
		t = tb.Peek(2)
	}
	if t.TokenType == xml.EndTagToken && bytes.Equal(t.Text, name) {
		return n, true
	}
	return 0, false
}

func nsPrefix(name []byte) []byte {
	if i := bytes.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
