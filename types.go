// Package typedjson converts between JSON token streams and strongly typed
// Go values without materializing an intermediate tree on typed paths.
package typedjson

import (
	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
	"github.com/viant/typedjson/decode"
	"github.com/viant/typedjson/encode"
)

// UnknownFieldPolicy controls unknown key handling.
type UnknownFieldPolicy int

const (
	ErrorOnUnknown UnknownFieldPolicy = iota
	IgnoreUnknown
)

// DuplicateKeyPolicy controls duplicate object keys, record fields and set
// elements.
type DuplicateKeyPolicy int

const (
	ErrorOnDuplicate DuplicateKeyPolicy = iota
	LastWins
)

// MalformedPolicy controls tolerance for trailing commas in arrays and
// objects.
type MalformedPolicy int

const (
	FailFast MalformedPolicy = iota
	TolerateTrailingComma
)

// NilSlicePolicy controls marshal output for nil slices and sets.
type NilSlicePolicy int

const (
	NilSliceAsNull NilSlicePolicy = iota
	NilSliceAsEmptyArray
)

// TokenUnmarshaler lets a type decode itself from the token cursor.
type TokenUnmarshaler = decode.TokenUnmarshaler

// TokenMarshaler lets a type encode itself through the token writer.
type TokenMarshaler = encode.TokenMarshaler

// Option mutates runtime options.
type Option interface{ apply(*Options) }

// Options defines runtime behavior.
type Options struct {
	UnknownFieldPolicy UnknownFieldPolicy
	DuplicateKeyPolicy DuplicateKeyPolicy
	MalformedPolicy    MalformedPolicy

	CaseFormat     text.CaseFormat
	FormatTag      *format.Tag
	TimeLayout     string
	SourceLabel    string
	OmitEmpty      bool
	NilSlicePolicy NilSlicePolicy

	setCaseFormat bool
}
