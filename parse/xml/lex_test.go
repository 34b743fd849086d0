package xml

import (
	"io"
	"testing"

	"github.com/tdewolff/test"
)

type TTs []TokenType

func TestTokens(t *testing.T) {
	var tokenTests = []struct {
		xml      string
		expected []TokenType
	}{
		{"", TTs{}},
		{"<svg/>", TTs{StartTagToken, StartTagCloseVoidToken}},
		{"<svg></svg>", TTs{StartTagToken, StartTagCloseToken, EndTagToken}},
		{"<svg>text</svg>", TTs{StartTagToken, StartTagCloseToken, TextToken, EndTagToken}},
		{"<svg width=\"100\" height='200'/>", TTs{StartTagToken, AttributeToken, AttributeToken, StartTagCloseVoidToken}},
		{"<svg disabled attr=value/>", TTs{StartTagToken, AttributeToken, AttributeToken, StartTagCloseVoidToken}},
		{"<?xml version=\"1.0\"?>", TTs{StartTagPIToken, AttributeToken, StartTagClosePIToken}},
		{"<!-- comment -->", TTs{CommentToken}},
		{"<!-- comment", TTs{CommentToken}},
		{"<!-- a -- b -->", TTs{CommentToken}},
		{"<!DOCTYPE svg SYSTEM \"about:legacy-compat\">", TTs{DOCTYPEToken}},
		{"<![CDATA[ test ]]>", TTs{CDATAToken}},
		{"<![CDATA[ test", TTs{CDATAToken}},
		{"text", TTs{TextToken}},
		{"<svg>a < b</svg>", TTs{StartTagToken, StartTagCloseToken, TextToken, EndTagToken}},
		{"< svg>", TTs{TextToken}},
		{"<svg\nwidth=\"100\"\n/>", TTs{StartTagToken, AttributeToken, StartTagCloseVoidToken}},
	}
	for _, tt := range tokenTests {
		t.Run(tt.xml, func(t *testing.T) {
			l := NewLexer([]byte(tt.xml))
			i := 0
			for {
				token, _ := l.Next()
				if token == ErrorToken {
					test.T(t, l.Err(), io.EOF)
					test.T(t, i, len(tt.expected), "when error occurred we must be at the end")
					break
				}
				test.That(t, i < len(tt.expected), "index", i, "must not exceed expected token types size", len(tt.expected))
				if i < len(tt.expected) {
					test.T(t, token, tt.expected[i], "token types must match")
				}
				i++
			}
		})
	}
}

func TestTags(t *testing.T) {
	var tagTests = []struct {
		xml      string
		expected string
	}{
		{"<svg>", "svg"},
		{"</svg>", "svg"},
		{"<svg/>", "svg"},
		{"<sodipodi:namedview>", "sodipodi:namedview"},
		{"<?xml?>", "xml"},
		{"<!DOCTYPE svg>", " svg"},
	}
	for _, tt := range tagTests {
		t.Run(tt.xml, func(t *testing.T) {
			l := NewLexer([]byte(tt.xml))
			for {
				token, _ := l.Next()
				if token == ErrorToken {
					test.T(t, l.Err(), io.EOF)
					test.Fail(t, "when error occurred we must be at the end")
					break
				} else if token == StartTagToken || token == StartTagPIToken || token == EndTagToken || token == DOCTYPEToken {
					test.String(t, string(l.Text()), tt.expected, "tags must match")
					break
				}
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	var attrTests = []struct {
		attr     string
		expected []string
	}{
		{"<svg width=\"100\"/>", []string{"width", `"100"`}},
		{"<svg height='50%'/>", []string{"height", `'50%'`}},
		{"<svg name=value>", []string{"name", "value"}},
		{"<svg disabled>", []string{"disabled", ""}},
		{"<path d = \"M0 0\"/>", []string{"d", `"M0 0"`}},
		{"<path d=\"M0 0  L1 1\"/>", []string{"d", `"M0 0  L1 1"`}},
		{"<use xlink:href=\"#a\"/>", []string{"xlink:href", `"#a"`}},
	}
	for _, tt := range attrTests {
		t.Run(tt.attr, func(t *testing.T) {
			l := NewLexer([]byte(tt.attr))
			i := 0
			for {
				token, _ := l.Next()
				if token == ErrorToken {
					test.T(t, l.Err(), io.EOF)
					break
				} else if token == AttributeToken {
					test.That(t, i+1 < len(tt.expected), "index", i+1, "must not exceed expected attributes size", len(tt.expected))
					if i+1 < len(tt.expected) {
						test.String(t, string(l.Text()), tt.expected[i], "attribute keys must match")
						test.String(t, string(l.AttrVal()), tt.expected[i+1], "attribute values must match")
						i += 2
					}
				}
			}
		})
	}
}

// The tokenizer never errors before the end of input, whatever the bytes.
func TestTotality(t *testing.T) {
	inputs := []string{
		"<",
		"<svg",
		"<svg attr",
		"<svg attr=",
		"<svg attr='unterminated",
		"</",
		"<!",
		"<!D",
		"\x00\xff<>",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			l := NewLexer([]byte(input))
			for {
				token, _ := l.Next()
				if token == ErrorToken {
					test.T(t, l.Err(), io.EOF)
					break
				}
			}
		})
	}
}
