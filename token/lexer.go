package token

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// Lexer scans a sequential byte source into JSON tokens. It keeps no
// lookahead of its own; Cursor layers the single-token lookahead on top.
type Lexer struct {
	rd      *bufio.Reader
	label   string
	offset  int
	eof     bool
	scratch []byte
}

// NewLexer returns a Lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{rd: bufio.NewReader(r), scratch: make([]byte, 0, 64)}
}

// SetLabel sets the source label used in diagnostics.
func (l *Lexer) SetLabel(label string) { l.label = label }

// Label returns the source label.
func (l *Lexer) Label() string { return l.label }

// Next scans and returns the next token. Once the end of input is reached
// it keeps returning a KindEOF token on every call.
func (l *Lexer) Next() (Token, error) {
	if l.eof {
		return Token{Kind: KindEOF, Offset: l.offset}, nil
	}
	c, err := l.skipWhitespace()
	if err != nil {
		if err == io.EOF {
			l.eof = true
			return Token{Kind: KindEOF, Offset: l.offset}, nil
		}
		return Token{}, err
	}
	start := l.offset - 1
	switch c {
	case '{':
		return Token{Kind: KindObjectOpen, Offset: start}, nil
	case '}':
		return Token{Kind: KindObjectClose, Offset: start}, nil
	case '[':
		return Token{Kind: KindArrayOpen, Offset: start}, nil
	case ']':
		return Token{Kind: KindArrayClose, Offset: start}, nil
	case ':':
		return Token{Kind: KindColon, Offset: start}, nil
	case ',':
		return Token{Kind: KindComma, Offset: start}, nil
	case '"':
		text, err := l.scanString(start)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindString, Text: text, Offset: start}, nil
	case 't':
		if err := l.scanLiteral("rue", start); err != nil {
			return Token{}, err
		}
		return Token{Kind: KindTrue, Offset: start}, nil
	case 'f':
		if err := l.scanLiteral("alse", start); err != nil {
			return Token{}, err
		}
		return Token{Kind: KindFalse, Offset: start}, nil
	case 'n':
		if err := l.scanLiteral("ull", start); err != nil {
			return Token{}, err
		}
		return Token{Kind: KindNull, Offset: start}, nil
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			text, err := l.scanNumber(c, start)
			if err != nil {
				return Token{}, err
			}
			return Token{Kind: KindNumber, Text: text, Offset: start}, nil
		}
		return Token{}, l.lexErrorf(start, "invalid character %q", c)
	}
}

func (l *Lexer) lexErrorf(offset int, format string, args ...interface{}) error {
	return &LexError{Label: l.label, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func (l *Lexer) readByte() (byte, error) {
	c, err := l.rd.ReadByte()
	if err != nil {
		return 0, err
	}
	l.offset++
	return c, nil
}

func (l *Lexer) unreadByte() {
	_ = l.rd.UnreadByte()
	l.offset--
}

func (l *Lexer) skipWhitespace() (byte, error) {
	for {
		c, err := l.readByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return c, nil
		}
	}
}

func (l *Lexer) scanLiteral(rest string, start int) error {
	for i := 0; i < len(rest); i++ {
		c, err := l.readByte()
		if err != nil || c != rest[i] {
			return l.lexErrorf(start, "invalid literal")
		}
	}
	return nil
}

// scanString consumes a string body after the opening quote and returns the
// unescaped text.
func (l *Lexer) scanString(start int) (string, error) {
	out := l.scratch[:0]
	for {
		c, err := l.readByte()
		if err != nil {
			return "", l.lexErrorf(start, "unterminated string")
		}
		switch {
		case c == '"':
			l.scratch = out[:0]
			return string(out), nil
		case c == '\\':
			out, err = l.scanEscape(out, start)
			if err != nil {
				return "", err
			}
		case c < 0x20:
			return "", l.lexErrorf(l.offset-1, "invalid control character in string")
		default:
			out = append(out, c)
		}
	}
}

func (l *Lexer) scanEscape(out []byte, start int) ([]byte, error) {
	c, err := l.readByte()
	if err != nil {
		return nil, l.lexErrorf(start, "unterminated string")
	}
	switch c {
	case '"', '\\', '/':
		return append(out, c), nil
	case 'b':
		return append(out, '\b'), nil
	case 'f':
		return append(out, '\f'), nil
	case 'n':
		return append(out, '\n'), nil
	case 'r':
		return append(out, '\r'), nil
	case 't':
		return append(out, '\t'), nil
	case 'u':
		r, err := l.scanHex4(start)
		if err != nil {
			return nil, err
		}
		if utf16.IsSurrogate(r) {
			// Expect a surrogate pair for valid supplementary code points.
			c1, err1 := l.readByte()
			c2, err2 := l.readByte()
			if err1 != nil || err2 != nil || c1 != '\\' || c2 != 'u' {
				return nil, l.lexErrorf(start, "invalid surrogate pair")
			}
			r2, err := l.scanHex4(start)
			if err != nil {
				return nil, err
			}
			decoded := utf16.DecodeRune(r, r2)
			if decoded == utf8.RuneError {
				return nil, l.lexErrorf(start, "invalid surrogate pair")
			}
			return utf8.AppendRune(out, decoded), nil
		}
		return utf8.AppendRune(out, r), nil
	default:
		return nil, l.lexErrorf(l.offset-1, "invalid escape character %q", c)
	}
}

func (l *Lexer) scanHex4(start int) (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		c, err := l.readByte()
		if err != nil {
			return 0, l.lexErrorf(start, "invalid unicode escape")
		}
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, l.lexErrorf(start, "invalid unicode escape")
		}
		v = (v << 4) | d
	}
	return v, nil
}

// scanNumber validates the JSON number grammar; the byte following the
// number stays unconsumed.
func (l *Lexer) scanNumber(first byte, start int) (string, error) {
	out := append(l.scratch[:0], first)
	c := first
	var err error
	if c == '-' {
		c, err = l.readByte()
		if err != nil {
			return "", l.lexErrorf(start, "malformed number")
		}
		if c < '0' || c > '9' {
			return "", l.lexErrorf(start, "malformed number")
		}
		out = append(out, c)
	}
	// Integer part: a lone zero or a non-zero digit run.
	if c != '0' {
		out, err = l.scanDigits(out, false)
		if err != nil {
			return "", l.lexErrorf(start, "malformed number")
		}
	}
	done, c := l.peekNumberByte()
	if done {
		l.scratch = out[:0]
		return string(out), nil
	}
	if c == '.' {
		out = append(out, c)
		out, err = l.scanDigits(out, true)
		if err != nil {
			return "", l.lexErrorf(start, "malformed number")
		}
		done, c = l.peekNumberByte()
		if done {
			l.scratch = out[:0]
			return string(out), nil
		}
	}
	if c == 'e' || c == 'E' {
		out = append(out, c)
		c, err = l.readByte()
		if err != nil {
			return "", l.lexErrorf(start, "malformed number")
		}
		if c == '+' || c == '-' {
			out = append(out, c)
			c, err = l.readByte()
			if err != nil {
				return "", l.lexErrorf(start, "malformed number")
			}
		}
		if c < '0' || c > '9' {
			return "", l.lexErrorf(start, "malformed number")
		}
		out = append(out, c)
		out, err = l.scanDigits(out, false)
		if err != nil {
			return "", l.lexErrorf(start, "malformed number")
		}
	} else {
		l.unreadByte()
	}
	l.scratch = out[:0]
	return string(out), nil
}

// scanDigits appends the following digit run; when consume is true the first
// byte must itself be a digit.
func (l *Lexer) scanDigits(out []byte, consume bool) ([]byte, error) {
	count := 0
	for {
		c, err := l.readByte()
		if err != nil {
			if consume && count == 0 {
				return nil, err
			}
			return out, nil
		}
		if c < '0' || c > '9' {
			l.unreadByte()
			if consume && count == 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return out, nil
		}
		out = append(out, c)
		count++
	}
}

// peekNumberByte reads one byte and reports whether the number ended there;
// the byte is left consumed only when it continues the number.
func (l *Lexer) peekNumberByte() (done bool, c byte) {
	c, err := l.readByte()
	if err != nil {
		return true, 0
	}
	if c == '.' || c == 'e' || c == 'E' {
		return false, c
	}
	l.unreadByte()
	return true, 0
}
