package diagfmt

import (
	"bytes"
	"encoding/json"
	"io"

	"hereafter/internal/diag"
	"hereafter/internal/source"
)

// Range is a byte range with optional 1-based line/column positions.
type Range struct {
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteEntry is a secondary location of a diagnostic.
type NoteEntry struct {
	Message string `json:"message"`
	Range   Range  `json:"range"`
}

// Entry is one diagnostic of a file.
type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Range    Range       `json:"range"`
	Notes    []NoteEntry `json:"notes,omitempty"`
	// Timings carries the phase report of an OBS8001 diagnostic, compacted.
	Timings json.RawMessage `json:"timings,omitempty"`
}

// FileReport groups the diagnostics of one path in bag order.
type FileReport struct {
	Path        string  `json:"path"`
	Diagnostics []Entry `json:"diagnostics"`
}

// Summary counts what the report holds.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	// Omitted counts diagnostics cut by JSONOpts.Max or by a full bag.
	Omitted int `json:"omitted,omitempty"`
}

// Report is the root of `--format=json` output.
type Report struct {
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// Count returns the number of entries across all files.
func (r *Report) Count() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

func makeRange(span source.Span, fs *source.FileSet, opts JSONOpts) Range {
	r := Range{Start: span.Start, End: span.End}
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		r.StartLine, r.StartCol = start.Line, start.Col
		r.EndLine, r.EndCol = end.Line, end.Col
	}
	return r
}

// BuildReport groups bag by file without serializing it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && opts.Max < shown {
		shown = opts.Max
	}
	rep := Report{Files: []FileReport{}}
	rep.Summary.Omitted = len(items) - shown + bag.Dropped()

	byFile := make(map[source.FileID]int)
	for _, d := range items[:shown] {
		switch {
		case d.Severity >= diag.SevError:
			rep.Summary.Errors++
		case d.Severity == diag.SevWarning:
			rep.Summary.Warnings++
		default:
			rep.Summary.Infos++
		}

		idx, ok := byFile[d.Primary.File]
		if !ok {
			idx = len(rep.Files)
			byFile[d.Primary.File] = idx
			path := formatPath(fs.Get(d.Primary.File).Path, opts.PathMode, opts.BaseDir)
			rep.Files = append(rep.Files, FileReport{Path: path})
		}
		rep.Files[idx].Diagnostics = append(rep.Files[idx].Diagnostics, makeEntry(d, fs, opts))
	}
	return rep
}

func makeEntry(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) Entry {
	e := Entry{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Range:    makeRange(d.Primary, fs, opts),
	}
	// у OBS8001 единственная заметка это JSON с замерами
	if d.Code == diag.ObsTimings && len(d.Notes) == 1 {
		var buf bytes.Buffer
		if json.Compact(&buf, []byte(d.Notes[0].Msg)) == nil {
			e.Timings = json.RawMessage(buf.Bytes())
			return e
		}
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			e.Notes = append(e.Notes, NoteEntry{Message: n.Msg, Range: makeRange(n.Span, fs, opts)})
		}
	}
	return e
}

// JSON writes bag as an indented Report.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
