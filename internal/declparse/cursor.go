package declparse

import (
	"fmt"
	"strings"
)

// cursor walks the declaration text. Every parsing step is a method taking
// the cursor and either advancing it or returning an *Error.
type cursor struct {
	text string
	pos  int
}

func (c *cursor) errorf(format string, a ...any) *Error {
	return &Error{
		Text:   c.text,
		Offset: c.pos,
		Msg:    fmt.Sprintf(format, a...),
	}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.text)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}

	return c.text[c.pos]
}

// ws skips insignificant whitespace.
func (c *cursor) ws() {
	for !c.eof() {
		switch c.text[c.pos] {
		case ' ', '\t', '\n', '\r':
			c.pos++
		default:
			return
		}
	}
}

// maybe consumes the given punctuation after optional whitespace and reports
// whether it was there.
func (c *cursor) maybe(punct byte) bool {
	c.ws()
	if c.peek() != punct {
		return false
	}
	c.pos++

	return true
}

// expect is like maybe but reports a missing punctuation as an error.
func (c *cursor) expect(punct byte) error {
	if c.maybe(punct) {
		return nil
	}

	if c.eof() {
		return c.errorf("expected %q, got end of text", punct)
	}
	return c.errorf("expected %q", punct)
}

// keyword consumes the given word when it stands on its own.
func (c *cursor) keyword(word string) bool {
	c.ws()
	if !strings.HasPrefix(c.text[c.pos:], word) {
		return false
	}

	end := c.pos + len(word)
	if end < len(c.text) && isIdentChar(c.text[end]) {
		return false
	}
	c.pos = end

	return true
}

// assignment consumes `word =`.
func (c *cursor) assignment(word string) bool {
	save := c.pos
	if c.keyword(word) && c.maybe('=') {
		return true
	}
	c.pos = save

	return false
}

func (c *cursor) ident() (string, error) {
	c.ws()
	start := c.pos
	if c.eof() || !isIdentStart(c.text[c.pos]) {
		return "", c.errorf("expected identifier")
	}

	for c.pos < len(c.text) && isIdentChar(c.text[c.pos]) {
		c.pos++
	}

	return c.text[start:c.pos], nil
}

// litstr parses a single or double quoted literal. There are no escapes.
func (c *cursor) litstr() (string, error) {
	c.ws()
	quote := c.peek()
	if quote != '\'' && quote != '"' {
		return "", c.errorf("expected string literal")
	}

	start := c.pos
	end := strings.IndexByte(c.text[start+1:], quote)
	if end < 0 {
		return "", c.errorf("unterminated string literal")
	}
	c.pos = start + 1 + end + 1

	return c.text[start+1 : start+1+end], nil
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// list parses a parenthesized comma separated list of items. An empty list
// is allowed.
func list[T any](c *cursor, item func(c *cursor) (T, error)) ([]T, error) {
	if err := c.expect('('); err != nil {
		return nil, err
	}

	var res []T
	if c.maybe(')') {
		return res, nil
	}

	for {
		v, err := item(c)
		if err != nil {
			return nil, err
		}
		res = append(res, v)

		if c.maybe(',') {
			continue
		}
		if err := c.expect(')'); err != nil {
			return nil, c.errorf("unterminated group: expected ',' or ')'")
		}

		return res, nil
	}
}
