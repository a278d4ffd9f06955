package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hereafter/internal/diag"
	"hereafter/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	path := formatPath(f.Path, opts.PathMode, opts.BaseDir)

	fmt.Fprintf(w, "%s: %s %s\n",
		p.bold.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		p.severity(d.Severity).Sprintf("%s %s:", d.Severity, d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, f, d.Primary, int(opts.Context), p)

	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			p.note.Sprint("note:"),
			formatPath(nf.Path, opts.PathMode, opts.BaseDir), ns.Line, ns.Col,
			n.Msg,
		)
	}
}

// writeSnippet prints the primary line with its neighbours and a caret row.
func writeSnippet(w io.Writer, f *source.File, span source.Span, context int, p palette) {
	if f.Len() == 0 {
		return
	}
	start := f.LineCol(span.Start)
	end := f.LineCol(span.End)
	total := f.LineCol(f.Len()).Line

	first := max(int(start.Line)-context, 1)
	last := min(int(start.Line)+context, int(total))
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		// #nosec G115 -- ln is within [1, total]
		line := f.GetLine(uint32(ln))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), expandTabs(line))
		// #nosec G115 -- same range
		if uint32(ln) != start.Line {
			continue
		}
		pad := runewidth.StringWidth(expandTabs(prefix(line, start.Col-1)))
		var mark int
		if end.Line == start.Line {
			mark = runewidth.StringWidth(expandTabs(prefix(line, end.Col-1))) - pad
		} else {
			mark = runewidth.StringWidth(expandTabs(line)) - pad
		}
		caret := "^"
		if mark > 1 {
			caret += strings.Repeat("~", mark-1)
		}
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), p.caret.Sprint(caret))
	}
}

// prefix returns the first n bytes of line, clamped.
func prefix(line string, n uint32) string {
	if int(n) > len(line) {
		return line
	}
	return line[:n]
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
