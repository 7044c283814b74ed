package typedjson

import (
	"bytes"
	"io"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typedjson/decode"
	"github.com/viant/typedjson/encode"
	"github.com/viant/typedjson/token"
)

// Marshal returns the compact JSON encoding of v.
func Marshal(v interface{}, options ...Option) ([]byte, error) {
	opts := resolveOptions(options)
	return newEncodeEngine(opts).Marshal(v)
}

// Encode writes the compact JSON encoding of v to w.
func Encode(w io.Writer, v interface{}, options ...Option) error {
	opts := resolveOptions(options)
	return newEncodeEngine(opts).Encode(w, v)
}

// Unmarshal decodes data into dest; dest must be a non-nil pointer. Input
// following the value is rejected.
func Unmarshal(data []byte, dest interface{}, options ...Option) error {
	opts := resolveOptions(options)
	cur, err := newCursor(bytes.NewReader(data), opts)
	if err != nil {
		return err
	}
	if err := newDecodeEngine(opts).Decode(cur, dest); err != nil {
		return err
	}
	if cur.Kind() != token.KindEOF {
		return cur.ParseErrorf("unexpected trailing data")
	}
	return nil
}

// Decode reads exactly one JSON value from r into dest. The reader is not
// closed and may carry further data after the value.
func Decode(r io.Reader, dest interface{}, options ...Option) error {
	opts := resolveOptions(options)
	cur, err := newCursor(r, opts)
	if err != nil {
		return err
	}
	return newDecodeEngine(opts).Decode(cur, dest)
}

// DecodeAs reads exactly one JSON value from r as a T.
func DecodeAs[T any](r io.Reader, options ...Option) (T, error) {
	var out T
	err := Decode(r, &out, options...)
	return out, err
}

func newCursor(r io.Reader, opts Options) (*token.Cursor, error) {
	lex := token.NewLexer(r)
	if opts.SourceLabel != "" {
		lex.SetLabel(opts.SourceLabel)
	}
	return token.NewCursor(lex)
}

func newDecodeEngine(opts Options) *decode.Engine {
	return decode.New(
		decode.UnknownFieldPolicy(opts.UnknownFieldPolicy),
		decode.DuplicateKeyPolicy(opts.DuplicateKeyPolicy),
		decode.MalformedPolicy(opts.MalformedPolicy),
		opts.TimeLayout,
		string(opts.CaseFormat),
		compileName(opts.CaseFormat),
	)
}

func newEncodeEngine(opts Options) *encode.Engine {
	return encode.New(
		opts.OmitEmpty,
		opts.NilSlicePolicy == NilSliceAsEmptyArray,
		opts.TimeLayout,
		string(opts.CaseFormat),
		compileName(opts.CaseFormat),
	)
}

func compileName(caseFormat text.CaseFormat) func(string) string {
	if caseFormat == "" {
		return nil
	}
	return func(fieldName string) string {
		return caseFormatName(caseFormat, fieldName)
	}
}
