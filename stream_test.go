package typedjson

import (
	"io"
	"strings"
	"testing"
)

// closeRecorder counts Close calls so tests can assert the stream releases
// its source exactly once.
type closeRecorder struct {
	io.Reader
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

type item struct {
	ID   int
	Name string
}

func TestStream_Elements(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`[{"ID":1,"Name":"a"},{"ID":2,"Name":"b"}]`)}
	stream, err := NewStream[item](src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var collected []item
	for stream.Next() {
		collected = append(collected, stream.Value())
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(collected) != 2 || collected[0].ID != 1 || collected[1].Name != "b" {
		t.Fatalf("unexpected elements: %+v", collected)
	}
	if src.closed != 1 {
		t.Fatalf("expected source closed once on exhaustion, got %d", src.closed)
	}
	if stream.Next() {
		t.Fatalf("Next after exhaustion must keep returning false")
	}
}

func TestStream_EmptyArray(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`[]`)}
	stream, err := NewStream[int](src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stream.Next() {
		t.Fatalf("expected no elements")
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if src.closed != 1 {
		t.Fatalf("expected source closed, got %d", src.closed)
	}
}

func TestStream_EarlyClose(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`[1,2,3]`)}
	stream, err := NewStream[int](src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stream.Next() {
		t.Fatalf("expected first element: %v", stream.Err())
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if stream.Next() {
		t.Fatalf("Next after Close must return false")
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close must be idempotent: %v", err)
	}
	if src.closed != 1 {
		t.Fatalf("expected source closed once, got %d", src.closed)
	}
}

func TestStream_ElementError(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`[1,"two",3]`)}
	stream, err := NewStream[int](src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stream.Next() {
		t.Fatalf("expected first element: %v", stream.Err())
	}
	if stream.Next() {
		t.Fatalf("expected decode failure on second element")
	}
	if stream.Err() == nil {
		t.Fatalf("expected stream error")
	}
	if src.closed != 1 {
		t.Fatalf("expected source closed on error, got %d", src.closed)
	}
}

func TestStream_NotAnArray(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`{"a":1}`)}
	_, err := NewStream[int](src)
	if err == nil {
		t.Fatalf("expected error for non-array input")
	}
	if src.closed != 1 {
		t.Fatalf("expected source closed on open failure, got %d", src.closed)
	}
}

func TestStream_TrailingComma(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`[1,2,]`)}
	stream, err := NewStream[int](src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for stream.Next() {
		count++
	}
	if stream.Err() == nil {
		t.Fatalf("trailing comma must fail by default")
	}
	if src.closed != 1 {
		t.Fatalf("expected source closed on error, got %d", src.closed)
	}

	tolerant, err := NewStream[int](strings.NewReader(`[1,2,]`), WithMalformedPolicy(TolerateTrailingComma))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count = 0
	for tolerant.Next() {
		count++
	}
	if err := tolerant.Err(); err != nil {
		t.Fatalf("tolerant stream should accept trailing comma: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 elements, got %d", count)
	}
}

func TestStream_PlainReader(t *testing.T) {
	stream, err := NewStream[string](strings.NewReader(`["a","b"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out []string
	for stream.Next() {
		out = append(out, stream.Value())
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(out) != 2 || out[0] != "a" || out[1] != "b" {
		t.Fatalf("unexpected elements: %v", out)
	}
}
