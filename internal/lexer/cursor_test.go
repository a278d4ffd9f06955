package lexer

import (
	"testing"

	"hereafter/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF behaviour at end of input")
	}
}

func TestCursorMarkResetSpan(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	if sp := cursor.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Peek() != 'h' {
		t.Fatalf("Reset did not rewind, Peek = %q", cursor.Peek())
	}
	if !cursor.Eat('h') || cursor.Eat('x') {
		t.Fatal("Eat mismatch")
	}
}

func TestRangeCursorStopsAtLimit(t *testing.T) {
	cursor := NewRangeCursor(createFile("abcdef"), 2, 4)
	if cursor.Peek() != 'c' {
		t.Fatalf("Peek = %q, want c", cursor.Peek())
	}
	cursor.Bump()
	cursor.Bump()
	if !cursor.EOF() {
		t.Fatal("range cursor must stop at its limit")
	}
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatal("Peek2 past the limit must fail")
	}
}

func TestCursorMatchAndRunes(t *testing.T) {
	cursor := NewCursor(createFile(">>>=é "))
	if cursor.Match(">>>>") {
		t.Fatal("Match must not consume a longer literal")
	}
	if !cursor.Match(">>>=") || cursor.Off != 4 {
		t.Fatalf("Match(>>>=) left Off = %d", cursor.Off)
	}
	if r, size := cursor.PeekRune(); r != 'é' || size != 2 {
		t.Fatalf("PeekRune = %q/%d", r, size)
	}
	if cursor.BumpRune() != 'é' || cursor.BumpRune() != ' ' {
		t.Fatal("BumpRune sequence mismatch")
	}
	if _, size := cursor.PeekRune(); size != 0 || !cursor.EOF() {
		t.Fatal("expected EOF after the last rune")
	}
	if cursor.PeekAt(3) != 0 {
		t.Fatal("PeekAt past the end must be 0")
	}
}
