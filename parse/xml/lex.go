// Package xml is a loss-less XML tokenizer for SVG content. It never fails
// on any byte sequence; malformed input tokenizes as text and the stream
// always terminates in an ErrorToken with io.EOF.
package xml

import (
	"bytes"
	"io"
	"strconv"

	"github.com/tdewolff/parse/v2"
)

// TokenType determines the type of token, eg. a start tag or a comment.
type TokenType uint32

// TokenType values.
const (
	ErrorToken TokenType = iota // extra token when errors occur
	CommentToken
	DOCTYPEToken
	CDATAToken
	StartTagToken
	StartTagPIToken
	StartTagCloseToken
	StartTagCloseVoidToken
	StartTagClosePIToken
	EndTagToken
	AttributeToken
	TextToken
)

// String returns the string representation of a TokenType.
func (tt TokenType) String() string {
	switch tt {
	case ErrorToken:
		return "Error"
	case CommentToken:
		return "Comment"
	case DOCTYPEToken:
		return "DOCTYPE"
	case CDATAToken:
		return "CDATA"
	case StartTagToken:
		return "StartTag"
	case StartTagPIToken:
		return "StartTagPI"
	case StartTagCloseToken:
		return "StartTagClose"
	case StartTagCloseVoidToken:
		return "StartTagCloseVoid"
	case StartTagClosePIToken:
		return "StartTagClosePI"
	case EndTagToken:
		return "EndTag"
	case AttributeToken:
		return "Attribute"
	case TextToken:
		return "Text"
	}
	return "Invalid(" + strconv.FormatUint(uint64(tt), 10) + ")"
}

var (
	commentStartBytes = []byte("<!--")
	commentEndBytes   = []byte("-->")
	cdataStartBytes   = []byte("<![CDATA[")
	cdataEndBytes     = []byte("]]>")
	doctypeBytes      = []byte("<!doctype")
)

// Lexer is the state for the lexer. It operates on a byte slice so that all
// returned token data are stable subslices of the input.
type Lexer struct {
	data []byte
	pos  int
	err  error

	inTag   bool
	text    []byte
	attrVal []byte
}

// NewLexer returns a new Lexer for a given byte slice.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Err returns the error of the lexer, io.EOF when the input is exhausted.
func (l *Lexer) Err() error {
	return l.err
}

// Text returns the name of the current tag or attribute, or the contents of
// a comment, CDATA section or DOCTYPE declaration.
func (l *Lexer) Text() []byte {
	return l.text
}

// AttrVal returns the value of the current attribute verbatim, including
// surrounding quotes when present. It is nil for attributes without a value.
func (l *Lexer) AttrVal() []byte {
	return l.attrVal
}

// Next returns the next token type and its raw data.
func (l *Lexer) Next() (TokenType, []byte) {
	l.text = nil
	l.attrVal = nil
	if l.pos >= len(l.data) {
		l.err = io.EOF
		l.inTag = false
		return ErrorToken, nil
	}
	if l.inTag {
		return l.attrToken()
	}
	if l.data[l.pos] == '<' && l.startsMarkup(l.pos) {
		return l.markupToken()
	}
	return l.textToken()
}

func (l *Lexer) peek(i int) byte {
	if l.pos+i < len(l.data) {
		return l.data[l.pos+i]
	}
	return 0
}

// startsMarkup returns whether the '<' at i opens a tag, comment, CDATA
// section or declaration. A '<' followed by whitespace or another '<' is
// plain text.
func (l *Lexer) startsMarkup(i int) bool {
	if i+1 >= len(l.data) {
		return false
	}
	c := l.data[i+1]
	if c == '/' || c == '!' || c == '?' {
		return true
	}
	return !parse.IsWhitespace(c) && c != '<' && c != '>'
}

func (l *Lexer) textToken() (TokenType, []byte) {
	start := l.pos
	l.pos++
	for l.pos < len(l.data) {
		if l.data[l.pos] == '<' && l.startsMarkup(l.pos) {
			break
		}
		l.pos++
	}
	return TextToken, l.data[start:l.pos]
}

func (l *Lexer) markupToken() (TokenType, []byte) {
	start := l.pos
	switch l.data[l.pos+1] {
	case '/':
		l.pos += 2
		nameStart := l.pos
		for l.pos < len(l.data) && !parse.IsWhitespace(l.data[l.pos]) && l.data[l.pos] != '>' {
			l.pos++
		}
		l.text = l.data[nameStart:l.pos]
		for l.pos < len(l.data) && l.data[l.pos] != '>' {
			l.pos++
		}
		if l.pos < len(l.data) {
			l.pos++
		}
		return EndTagToken, l.data[start:l.pos]
	case '!':
		if bytes.HasPrefix(l.data[l.pos:], commentStartBytes) {
			l.pos += len(commentStartBytes)
			if i := bytes.Index(l.data[l.pos:], commentEndBytes); i >= 0 {
				l.text = l.data[l.pos : l.pos+i]
				l.pos += i + len(commentEndBytes)
			} else {
				l.text = l.data[l.pos:]
				l.pos = len(l.data)
			}
			return CommentToken, l.data[start:l.pos]
		}
		if bytes.HasPrefix(l.data[l.pos:], cdataStartBytes) {
			l.pos += len(cdataStartBytes)
			if i := bytes.Index(l.data[l.pos:], cdataEndBytes); i >= 0 {
				l.text = l.data[l.pos : l.pos+i]
				l.pos += i + len(cdataEndBytes)
			} else {
				l.text = l.data[l.pos:]
				l.pos = len(l.data)
			}
			return CDATAToken, l.data[start:l.pos]
		}
		if len(l.data)-l.pos >= len(doctypeBytes) && parse.EqualFold(l.data[l.pos:l.pos+len(doctypeBytes)], doctypeBytes) {
			l.pos += len(doctypeBytes)
			textStart := l.pos
			for l.pos < len(l.data) && l.data[l.pos] != '>' {
				l.pos++
			}
			l.text = l.data[textStart:l.pos]
			if l.pos < len(l.data) {
				l.pos++
			}
			return DOCTYPEToken, l.data[start:l.pos]
		}
		// '<!' followed by anything else lexes as a start tag
		l.pos++
		l.text = l.moveName()
		l.inTag = true
		return StartTagToken, l.data[start:l.pos]
	case '?':
		l.pos += 2
		l.text = l.moveName()
		l.inTag = true
		return StartTagPIToken, l.data[start:l.pos]
	default:
		l.pos++
		l.text = l.moveName()
		l.inTag = true
		return StartTagToken, l.data[start:l.pos]
	}
}

// moveName consumes a tag or attribute name: everything up to whitespace,
// '=', '>' or a closing '/>' or '?>'.
func (l *Lexer) moveName() []byte {
	start := l.pos
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if parse.IsWhitespace(c) || c == '=' || c == '>' {
			break
		}
		if (c == '/' || c == '?') && l.peek(1) == '>' {
			break
		}
		l.pos++
	}
	return l.data[start:l.pos]
}

func (l *Lexer) attrToken() (TokenType, []byte) {
	start := l.pos
	for l.pos < len(l.data) && parse.IsWhitespace(l.data[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.data) {
		l.err = io.EOF
		l.inTag = false
		return ErrorToken, nil
	}
	c := l.data[l.pos]
	if c == '>' {
		l.pos++
		l.inTag = false
		return StartTagCloseToken, l.data[l.pos-1 : l.pos]
	}
	if c == '/' && l.peek(1) == '>' {
		l.pos += 2
		l.inTag = false
		return StartTagCloseVoidToken, l.data[l.pos-2 : l.pos]
	}
	if c == '?' && l.peek(1) == '>' {
		l.pos += 2
		l.inTag = false
		return StartTagClosePIToken, l.data[l.pos-2 : l.pos]
	}

	l.text = l.moveName()
	save := l.pos
	for l.pos < len(l.data) && parse.IsWhitespace(l.data[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '=' {
		l.pos++
		for l.pos < len(l.data) && parse.IsWhitespace(l.data[l.pos]) {
			l.pos++
		}
		valStart := l.pos
		if l.pos < len(l.data) {
			if q := l.data[l.pos]; q == '"' || q == '\'' {
				l.pos++
				for l.pos < len(l.data) && l.data[l.pos] != q {
					l.pos++
				}
				if l.pos < len(l.data) {
					l.pos++
				}
			} else {
				for l.pos < len(l.data) {
					c := l.data[l.pos]
					if parse.IsWhitespace(c) || c == '>' {
						break
					}
					if (c == '/' || c == '?') && l.peek(1) == '>' {
						break
					}
					l.pos++
				}
			}
		}
		l.attrVal = l.data[valStart:l.pos]
	} else {
		l.pos = save
		l.attrVal = nil
	}
	return AttributeToken, l.data[start:l.pos]
}
