package token

import (
	"errors"
	"strings"
	"testing"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	lex := NewLexer(strings.NewReader(input))
	var out []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		out = append(out, tok)
		if tok.Kind == KindEOF {
			return out
		}
	}
}

func TestLexer_Tokens(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      []Token
	}{
		{
			description: "object with scalar members",
			input:       `{"name":"joe","age":31}`,
			expect: []Token{
				{Kind: KindObjectOpen, Offset: 0},
				{Kind: KindString, Text: "name", Offset: 1},
				{Kind: KindColon, Offset: 7},
				{Kind: KindString, Text: "joe", Offset: 8},
				{Kind: KindComma, Offset: 13},
				{Kind: KindString, Text: "age", Offset: 14},
				{Kind: KindColon, Offset: 19},
				{Kind: KindNumber, Text: "31", Offset: 20},
				{Kind: KindObjectClose, Offset: 22},
				{Kind: KindEOF, Offset: 23},
			},
		},
		{
			description: "array with literals",
			input:       `[true, false, null]`,
			expect: []Token{
				{Kind: KindArrayOpen, Offset: 0},
				{Kind: KindTrue, Offset: 1},
				{Kind: KindComma, Offset: 5},
				{Kind: KindFalse, Offset: 7},
				{Kind: KindComma, Offset: 12},
				{Kind: KindNull, Offset: 14},
				{Kind: KindArrayClose, Offset: 18},
				{Kind: KindEOF, Offset: 19},
			},
		},
		{
			description: "whitespace between tokens",
			input:       "{\"a\": 1}",
			expect: []Token{
				{Kind: KindObjectOpen, Offset: 0},
				{Kind: KindString, Text: "a", Offset: 1},
				{Kind: KindColon, Offset: 4},
				{Kind: KindNumber, Text: "1", Offset: 6},
				{Kind: KindObjectClose, Offset: 7},
				{Kind: KindEOF, Offset: 8},
			},
		},
	}
	for _, testCase := range testCases {
		actual := lexAll(t, testCase.input)
		if len(actual) != len(testCase.expect) {
			t.Fatalf("%s: expected %d tokens, got %d: %#v", testCase.description, len(testCase.expect), len(actual), actual)
		}
		for i, tok := range actual {
			if tok != testCase.expect[i] {
				t.Fatalf("%s: token %d: expected %#v, got %#v", testCase.description, i, testCase.expect[i], tok)
			}
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	var testCases = []struct {
		input  string
		expect string
	}{
		{input: `0`, expect: "0"},
		{input: `-0`, expect: "-0"},
		{input: `42`, expect: "42"},
		{input: `-7`, expect: "-7"},
		{input: `1.5`, expect: "1.5"},
		{input: `-12.25e-3`, expect: "-12.25e-3"},
		{input: `2E+10`, expect: "2E+10"},
		{input: `9e2`, expect: "9e2"},
	}
	for _, testCase := range testCases {
		lex := NewLexer(strings.NewReader(testCase.input))
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", testCase.input, err)
		}
		if tok.Kind != KindNumber || tok.Text != testCase.expect {
			t.Fatalf("%s: expected number %q, got %v %q", testCase.input, testCase.expect, tok.Kind, tok.Text)
		}
		if tok, _ := lex.Next(); tok.Kind != KindEOF {
			t.Fatalf("%s: expected EOF after number, got %v", testCase.input, tok.Kind)
		}
	}
}

func TestLexer_StringUnescaping(t *testing.T) {
	var testCases = []struct {
		input  string
		expect string
	}{
		{input: `"plain"`, expect: "plain"},
		{input: `"A"`, expect: "A"},
		{input: `"a\nb\tc"`, expect: "a\nb\tc"},
		{input: `"\\\"\/"`, expect: `\"/`},
		{input: `"\b\f\r"`, expect: "\b\f\r"},
		{input: `"é"`, expect: "é"},
		{input: `"😀"`, expect: "😀"},
		{input: `"naïve"`, expect: "naïve"},
	}
	for _, testCase := range testCases {
		lex := NewLexer(strings.NewReader(testCase.input))
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", testCase.input, err)
		}
		if tok.Kind != KindString || tok.Text != testCase.expect {
			t.Fatalf("%s: expected %q, got %q", testCase.input, testCase.expect, tok.Text)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		fragment    string
	}{
		{description: "unterminated string", input: `"abc`, fragment: "unterminated string"},
		{description: "invalid escape", input: `"\x"`, fragment: "invalid escape character"},
		{description: "control character", input: "\"a\x01b\"", fragment: "invalid control character"},
		{description: "lone surrogate", input: `"\ud83d"`, fragment: "invalid surrogate pair"},
		{description: "short unicode escape", input: `"\u00"`, fragment: "invalid unicode escape"},
		{description: "truncated literal", input: `tru`, fragment: "invalid literal"},
		{description: "misspelled literal", input: `nul1`, fragment: "invalid literal"},
		{description: "lone minus", input: `-`, fragment: "malformed number"},
		{description: "dot without digits", input: `1.`, fragment: "malformed number"},
		{description: "exponent without digits", input: `1e`, fragment: "malformed number"},
		{description: "signed exponent without digits", input: `1e+`, fragment: "malformed number"},
		{description: "invalid character", input: `@`, fragment: "invalid character"},
	}
	for _, testCase := range testCases {
		lex := NewLexer(strings.NewReader(testCase.input))
		_, err := lex.Next()
		if err == nil {
			t.Fatalf("%s: expected error", testCase.description)
		}
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Fatalf("%s: expected LexError, got %T", testCase.description, err)
		}
		if !strings.Contains(err.Error(), testCase.fragment) {
			t.Fatalf("%s: expected %q in error, got %v", testCase.description, testCase.fragment, err)
		}
	}
}

func TestLexer_EOFIdempotent(t *testing.T) {
	lex := NewLexer(strings.NewReader(`true`))
	tok, err := lex.Next()
	if err != nil || tok.Kind != KindTrue {
		t.Fatalf("expected true token, got %v %v", tok.Kind, err)
	}
	for i := 0; i < 3; i++ {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("EOF read %d: unexpected error: %v", i, err)
		}
		if tok.Kind != KindEOF || tok.Offset != 4 {
			t.Fatalf("EOF read %d: expected EOF at 4, got %v at %d", i, tok.Kind, tok.Offset)
		}
	}
}

func TestLexer_Label(t *testing.T) {
	lex := NewLexer(strings.NewReader(`"abc`))
	lex.SetLabel("payload.json")
	_, err := lex.Next()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.HasPrefix(err.Error(), "payload.json: ") {
		t.Fatalf("expected label prefix, got %v", err)
	}
}
