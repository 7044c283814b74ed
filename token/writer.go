package token

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Writer emits the token representation of JSON values into a byte buffer,
// inserting commas and colons as the nesting requires. Output is compact.
type Writer struct {
	buf    []byte
	frames []writerFrame
}

type writerFrame struct {
	object bool
	count  int
	keyed  bool
}

// NewWriter returns a Writer appending to dst; dst may be nil.
func NewWriter(dst []byte) *Writer {
	return &Writer{buf: dst}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset rebinds the writer to dst and clears nesting state.
func (w *Writer) Reset(dst []byte) {
	w.buf = dst
	w.frames = w.frames[:0]
}

func (w *Writer) beforeValue() {
	if len(w.frames) == 0 {
		return
	}
	top := &w.frames[len(w.frames)-1]
	if top.object {
		top.keyed = false
		return
	}
	if top.count > 0 {
		w.buf = append(w.buf, ',')
	}
	top.count++
}

// Key writes an object member key followed by a colon.
func (w *Writer) Key(name string) {
	top := &w.frames[len(w.frames)-1]
	if top.count > 0 {
		w.buf = append(w.buf, ',')
	}
	top.count++
	top.keyed = true
	w.buf = appendString(w.buf, name)
	w.buf = append(w.buf, ':')
}

// BeginObject opens an object value.
func (w *Writer) BeginObject() {
	w.beforeValue()
	w.buf = append(w.buf, '{')
	w.frames = append(w.frames, writerFrame{object: true})
}

// EndObject closes the innermost object.
func (w *Writer) EndObject() {
	w.frames = w.frames[:len(w.frames)-1]
	w.buf = append(w.buf, '}')
}

// BeginArray opens an array value.
func (w *Writer) BeginArray() {
	w.beforeValue()
	w.buf = append(w.buf, '[')
	w.frames = append(w.frames, writerFrame{})
}

// EndArray closes the innermost array.
func (w *Writer) EndArray() {
	w.frames = w.frames[:len(w.frames)-1]
	w.buf = append(w.buf, ']')
}

// String writes a string value.
func (w *Writer) String(s string) {
	w.beforeValue()
	w.buf = appendString(w.buf, s)
}

// Int writes a signed integer value.
func (w *Writer) Int(v int64) {
	w.beforeValue()
	w.buf = strconv.AppendInt(w.buf, v, 10)
}

// Uint writes an unsigned integer value.
func (w *Writer) Uint(v uint64) {
	w.beforeValue()
	w.buf = strconv.AppendUint(w.buf, v, 10)
}

// Float writes a floating point value; NaN and infinities have no JSON
// representation and are rejected.
func (w *Writer) Float(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("unsupported float value: %v", v)
	}
	w.beforeValue()
	w.buf = strconv.AppendFloat(w.buf, v, 'g', -1, 64)
	return nil
}

// Float32 writes a single precision value using its shortest round-trip form.
func (w *Writer) Float32(v float32) error {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return fmt.Errorf("unsupported float value: %v", v)
	}
	w.beforeValue()
	w.buf = strconv.AppendFloat(w.buf, float64(v), 'g', -1, 32)
	return nil
}

// Bool writes a boolean value.
func (w *Writer) Bool(v bool) {
	w.beforeValue()
	if v {
		w.buf = append(w.buf, "true"...)
	} else {
		w.buf = append(w.buf, "false"...)
	}
}

// Null writes a null value.
func (w *Writer) Null() {
	w.beforeValue()
	w.buf = append(w.buf, "null"...)
}

// Raw writes pre-encoded JSON as one value; the caller owns its validity.
func (w *Writer) Raw(data []byte) {
	w.beforeValue()
	w.buf = append(w.buf, data...)
}

const hexDigits = "0123456789abcdef"

func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			if c < utf8.RuneSelf {
				i++
				continue
			}
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
