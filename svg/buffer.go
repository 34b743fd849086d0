package svg

import (
	"github.com/pasabanov/svgc/parse/xml"
)

// Token is a single token unit with its name and attribute value.
type Token struct {
	xml.TokenType
	Data    []byte
	Text    []byte
	AttrVal []byte
}

// TokenBuffer is a buffer that allows for token look-ahead.
type TokenBuffer struct {
	l *xml.Lexer

	buf []Token
	pos int
}

// NewTokenBuffer returns a new TokenBuffer.
func NewTokenBuffer(l *xml.Lexer) *TokenBuffer {
	return &TokenBuffer{
		l:   l,
		buf: make([]Token, 0, 8),
	}
}

func (z *TokenBuffer) read(p []Token) int {
	for i := 0; i < len(p); i++ {
		tt, data := z.l.Next()
		// the lexer returns subslices of its input, no copying needed
		p[i] = Token{tt, data, z.l.Text(), z.l.AttrVal()}
		if tt == xml.ErrorToken {
			return i + 1
		}
	}
	return len(p)
}

// Peek returns the ith upcoming token and possibly does an allocation.
// Peeking past an error repeats the error token.
func (z *TokenBuffer) Peek(i int) *Token {
	end := z.pos + i
	if end >= len(z.buf) {
		if len(z.buf) > 0 && z.buf[len(z.buf)-1].TokenType == xml.ErrorToken {
			return &z.buf[len(z.buf)-1]
		}

		c := cap(z.buf)
		d := len(z.buf) - z.pos
		var buf []Token
		if 2*d > c {
			buf = make([]Token, d, 2*c)
		} else {
			buf = z.buf[:d]
		}
		copy(buf, z.buf[z.pos:])

		n := z.read(buf[d:cap(buf)])
		end -= z.pos
		z.pos, z.buf = 0, buf[:d+n]
		if end >= len(z.buf) {
			return &z.buf[len(z.buf)-1]
		}
	}
	return &z.buf[end]
}

// Shift returns the first token and advances position.
func (z *TokenBuffer) Shift() *Token {
	t := z.Peek(0)
	z.pos++
	return t
}
