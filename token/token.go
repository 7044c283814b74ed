package token

// Kind identifies a lexical JSON token.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindObjectOpen
	KindObjectClose
	KindArrayOpen
	KindArrayClose
	KindColon
	KindComma
	KindString
	KindNumber
	KindTrue
	KindFalse
	KindNull
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindObjectOpen:
		return "'{'"
	case KindObjectClose:
		return "'}'"
	case KindArrayOpen:
		return "'['"
	case KindArrayClose:
		return "']'"
	case KindColon:
		return "':'"
	case KindComma:
		return "','"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindNull:
		return "null"
	case KindEOF:
		return "end of input"
	default:
		return "invalid"
	}
}

// Token is one lexical unit of JSON grammar. Text carries the already
// unescaped content for string tokens and the literal text for numbers;
// it is empty for structural tokens. Offset is the byte position of the
// token's first character in the input.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}
