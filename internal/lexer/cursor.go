package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"hereafter/internal/source"
)

// Cursor is a byte position inside File bounded by Limit.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; template substitutions
	// are lexed through a cursor narrowed to the `${ ... }` range.
	Limit uint32
}

// NewCursor creates a cursor over the whole file.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f, Limit: contentLen(f)}
}

// NewRangeCursor creates a cursor limited to [start, end) of the file.
func NewRangeCursor(f *source.File, start, end uint32) Cursor {
	c := NewCursor(f)
	c.Limit = min(c.Limit, end)
	c.Off = start
	return c
}

func contentLen(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return n
}

// rest is the unread part of the window.
func (c *Cursor) rest() []byte {
	if c.Off >= c.Limit {
		return nil
	}
	return c.File.Content[c.Off:c.Limit]
}

// EOF проверяет, достигнут ли конец окна
func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek возвращает текущий байт или 0 в конце
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt смотрит на n байт вперёд, 0 за границей окна
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.Off++
		return true
	}
	return false
}

// Match consumes lit when the unread input starts with it.
func (c *Cursor) Match(lit string) bool {
	rest := c.rest()
	if len(rest) < len(lit) || !strings.HasPrefix(string(rest[:len(lit)]), lit) {
		return false
	}
	c.Off += uint32(len(lit)) // #nosec G115 -- operator literals are a few bytes
	return true
}

// PeekRune decodes the code point at the cursor; size is 0 at the end.
func (c *Cursor) PeekRune() (r rune, size int) {
	rest := c.rest()
	if len(rest) == 0 {
		return utf8.RuneError, 0
	}
	if rest[0] < utf8.RuneSelf {
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

// BumpRune consumes one code point.
func (c *Cursor) BumpRune() rune {
	r, size := c.PeekRune()
	c.Off += uint32(size) // #nosec G115 -- size <= utf8.UTFMax
	return r
}

// Mark запоминает позицию для SpanFrom и Reset
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers the bytes read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset возвращает курсор к метке
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
