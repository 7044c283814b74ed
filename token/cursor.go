package token

// Cursor wraps a Lexer with single-token lookahead. It is exclusively owned
// by the decode call that created it and holds no locking.
type Cursor struct {
	lex *Lexer
	cur Token
}

// NewCursor primes the cursor on the first token of the input.
func NewCursor(lex *Lexer) (*Cursor, error) {
	c := &Cursor{lex: lex}
	if err := c.Advance(); err != nil {
		return nil, err
	}
	return c, nil
}

// Current returns the token under the cursor.
func (c *Cursor) Current() Token { return c.cur }

// Kind returns the kind of the current token.
func (c *Cursor) Kind() Kind { return c.cur.Kind }

// Offset returns the byte offset of the current token.
func (c *Cursor) Offset() int { return c.cur.Offset }

// Label returns the source label for diagnostics.
func (c *Cursor) Label() string { return c.lex.Label() }

// Advance discards the current token and pulls the next one.
func (c *Cursor) Advance() error {
	tok, err := c.lex.Next()
	if err != nil {
		return err
	}
	c.cur = tok
	return nil
}

// Expect consumes the current token when it matches kind and fails with a
// ParseError otherwise.
func (c *Cursor) Expect(kind Kind) error {
	if c.cur.Kind != kind {
		return c.ParseError(kind.String())
	}
	return c.Advance()
}

// ParseError builds a ParseError for the current position.
func (c *Cursor) ParseError(expected string) error {
	return &ParseError{Label: c.lex.Label(), Offset: c.cur.Offset, Expected: expected, Actual: c.cur.Kind}
}

// ParseErrorf builds a ParseError with an explicit message.
func (c *Cursor) ParseErrorf(message string) error {
	return &ParseError{Label: c.lex.Label(), Offset: c.cur.Offset, Message: message}
}

// SkipValue consumes exactly one JSON value without materializing it, so the
// cursor stays synchronized when a value is discarded.
func (c *Cursor) SkipValue() error {
	switch c.cur.Kind {
	case KindString, KindNumber, KindTrue, KindFalse, KindNull:
		return c.Advance()
	case KindObjectOpen, KindArrayOpen:
		depth := 0
		for {
			switch c.cur.Kind {
			case KindObjectOpen, KindArrayOpen:
				depth++
			case KindObjectClose, KindArrayClose:
				depth--
			case KindEOF:
				return c.ParseErrorf("unexpected end of input")
			}
			if err := c.Advance(); err != nil {
				return err
			}
			if depth == 0 {
				return nil
			}
		}
	default:
		return c.ParseError("value")
	}
}
