package typedjson

import (
	"io"

	"github.com/viant/typedjson/decode"
	"github.com/viant/typedjson/token"
)

// Stream decodes the elements of a top-level JSON array one at a time, in
// the bufio.Scanner idiom:
//
//	stream, err := typedjson.NewStream[Item](r)
//	for stream.Next() {
//	    item := stream.Value()
//	    ...
//	}
//	err = stream.Err()
//
// The stream owns its source: when r implements io.Closer it is closed on
// exhaustion, on the first error, and on Close, whichever comes first.
type Stream[T any] struct {
	cur       *token.Cursor
	engine    *decode.Engine
	malformed MalformedPolicy
	src       io.Reader
	value     T
	err       error
	done      bool
	first     bool
	closed    bool
}

// NewStream opens a stream over the JSON array carried by r. The opening
// bracket is consumed eagerly so malformed input fails here rather than on
// the first Next.
func NewStream[T any](r io.Reader, options ...Option) (*Stream[T], error) {
	opts := resolveOptions(options)
	s := &Stream[T]{
		engine:    newDecodeEngine(opts),
		malformed: opts.MalformedPolicy,
		src:       r,
		first:     true,
	}
	cur, err := newCursor(r, opts)
	if err != nil {
		s.release()
		return nil, err
	}
	if err := cur.Expect(token.KindArrayOpen); err != nil {
		s.release()
		return nil, err
	}
	s.cur = cur
	return s, nil
}

// Next advances to the next element, reporting whether one is available.
// After Next returns false the caller must consult Err.
func (s *Stream[T]) Next() bool {
	if s.done || s.err != nil || s.closed {
		return false
	}
	cur := s.cur
	if s.first {
		s.first = false
		if cur.Kind() == token.KindArrayClose {
			s.finish()
			return false
		}
	} else {
		switch cur.Kind() {
		case token.KindArrayClose:
			s.finish()
			return false
		case token.KindComma:
			if err := cur.Advance(); err != nil {
				s.fail(err)
				return false
			}
			if cur.Kind() == token.KindArrayClose {
				if s.malformed == TolerateTrailingComma {
					s.finish()
					return false
				}
				s.fail(cur.ParseError("value"))
				return false
			}
		case token.KindEOF:
			s.fail(cur.ParseErrorf("unexpected end of input in array"))
			return false
		default:
			s.fail(cur.ParseError("',' or ']'"))
			return false
		}
	}
	var value T
	if err := s.engine.Decode(cur, &value); err != nil {
		s.fail(err)
		return false
	}
	s.value = value
	return true
}

// Value returns the element decoded by the last successful Next.
func (s *Stream[T]) Value() T { return s.value }

// Err returns the first error encountered, nil after clean exhaustion.
func (s *Stream[T]) Err() error { return s.err }

// Close releases the underlying source. It is idempotent and safe to call
// at any point; abandoning a stream early without Close leaks the source.
func (s *Stream[T]) Close() error {
	s.done = true
	return s.release()
}

func (s *Stream[T]) finish() {
	s.done = true
	if err := s.release(); err != nil && s.err == nil {
		s.err = err
	}
}

func (s *Stream[T]) fail(err error) {
	if s.err == nil {
		s.err = err
	}
	s.release()
}

func (s *Stream[T]) release() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if closer, ok := s.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
