package format

import (
	"bytes"
	"strings"

	"hereafter/internal/source"
)

// Writer accumulates output and copies source fragments. Copied text can be
// re-indented: lines that start with the original indentation of the copied
// node get the indentation of the position they are copied to.
type Writer struct {
	sf     *source.File
	unit   string
	buf    []byte
	indent string
	// atLineStart: следующий Write должен начаться с отступа
	atLineStart bool

	shiftFrom, shiftTo string
	shifting           bool
	// verbatim: диапазоны, внутри которых отступ не трогаем (шаблонные строки)
	verbatim []source.Span
}

// NewWriter creates a writer over sf.
func NewWriter(sf *source.File, opt Options) *Writer {
	opt = opt.withDefaults()
	unit := strings.Repeat(" ", opt.IndentWidth)
	if opt.UseTabs {
		unit = "\t"
	}
	size := 0
	if sf != nil {
		size = len(sf.Content)
	}
	return &Writer{
		sf:   sf,
		unit: unit,
		buf:  make([]byte, 0, size+size/8),
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	w.buf = append(w.buf, w.indent...)
	w.atLineStart = false
}

// WriteString writes s at the current indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Space writes a single space unless the output already ends with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line. Trailing blanks are trimmed.
func (w *Writer) Newline() {
	w.buf = bytes.TrimRight(w.buf, " \t")
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// BlankLine makes sure the output ends with an empty line.
func (w *Writer) BlankLine() {
	w.Newline()
	if len(w.buf) >= 2 && w.buf[len(w.buf)-2] != '\n' {
		w.buf = append(w.buf, '\n')
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indent += w.unit
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	w.indent = strings.TrimSuffix(w.indent, w.unit)
}

// LineIndent returns the leading whitespace of the line being written.
func (w *Writer) LineIndent() string {
	start := bytes.LastIndexByte(w.buf, '\n') + 1
	line := w.buf[start:]
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return string(line[:n])
}

// SetIndent replaces the indentation and returns the previous one.
func (w *Writer) SetIndent(indent string) string {
	prev := w.indent
	w.indent = indent
	return prev
}

// Truncate drops output written after offset n.
func (w *Writer) Truncate(n int) []byte {
	tail := append([]byte(nil), w.buf[n:]...)
	w.buf = w.buf[:n]
	return tail
}

// Append writes raw bytes with no indentation handling.
func (w *Writer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	w.buf = append(w.buf, p...)
	w.atLineStart = p[len(p)-1] == '\n'
}

// Shift re-indents subsequently copied lines from one indentation to
// another. It returns a function restoring the previous shift.
func (w *Writer) Shift(from, to string) (restore func()) {
	prevFrom, prevTo, prevOn := w.shiftFrom, w.shiftTo, w.shifting
	w.shiftFrom, w.shiftTo, w.shifting = from, to, from != to
	return func() {
		w.shiftFrom, w.shiftTo, w.shifting = prevFrom, prevTo, prevOn
	}
}

// CopyRange copies source bytes [start, end) to the output.
func (w *Writer) CopyRange(start, end int) {
	if w.sf == nil {
		return
	}
	start = max(start, 0)
	end = min(end, len(w.sf.Content))
	if start >= end {
		return
	}
	w.writeIndent()
	if !w.shifting {
		w.Append(w.sf.Content[start:end])
		return
	}
	pos := start
	for pos < end {
		nl := bytes.IndexByte(w.sf.Content[pos:end], '\n')
		if nl < 0 {
			w.Append(w.sf.Content[pos:end])
			return
		}
		lineEnd := pos + nl + 1
		w.Append(w.sf.Content[pos:lineEnd])
		pos = lineEnd
		if pos >= end || w.keepVerbatim(pos) {
			continue
		}
		rest := w.sf.Content[pos:end]
		if len(rest) > 0 && rest[0] == '\n' {
			continue
		}
		if bytes.HasPrefix(rest, []byte(w.shiftFrom)) {
			pos += len(w.shiftFrom)
			w.Append([]byte(w.shiftTo))
		}
	}
}

// CopySpan copies the text of sp.
func (w *Writer) CopySpan(sp source.Span) {
	if w.sf == nil || sp.File != w.sf.ID {
		return
	}
	w.CopyRange(int(sp.Start), int(sp.End))
}

func (w *Writer) keepVerbatim(off int) bool {
	for _, sp := range w.verbatim {
		if int(sp.Start) < off && off < int(sp.End) {
			return true
		}
	}
	return false
}

// sourceIndent returns the leading whitespace of the source line holding off.
func (w *Writer) sourceIndent(off uint32) string {
	if w.sf == nil {
		return ""
	}
	start := w.sf.LineStart(off)
	content := w.sf.Content
	n := start
	for n < off && (content[n] == ' ' || content[n] == '\t') {
		n++
	}
	return string(content[start:n])
}
