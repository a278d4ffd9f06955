package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"hereafter/internal/diag"
	"hereafter/internal/source"
)

func decodeReport(t *testing.T, data []byte) Report {
	t.Helper()
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, data)
	}
	return rep
}

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("dir/test.js", []byte("function main() {\n\tlet x = \"unterminated\n}"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 27, End: 40}, "Unterminated string literal"))

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	rep := decodeReport(t, buf.Bytes())
	if rep.Count() != 1 || rep.Summary.Errors != 1 {
		t.Fatalf("expected one error, got %+v", rep)
	}
	if rep.Files[0].Path != "test.js" {
		t.Errorf("path = %q, want test.js", rep.Files[0].Path)
	}
	d := rep.Files[0].Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" {
		t.Errorf("unexpected entry %+v", d)
	}
	if d.Range.Start != 27 || d.Range.End != 40 {
		t.Errorf("unexpected byte range %d-%d", d.Range.Start, d.Range.End)
	}
	if d.Range.StartLine != 2 || d.Range.StartCol != 10 {
		t.Errorf("expected 2:10, got %d:%d", d.Range.StartLine, d.Range.StartCol)
	}
}

func TestJSONGroupsByFile(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.js", []byte("goto(x);"))
	b := fs.AddVirtual("b.js", []byte("fromHere();"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.JmpGotoNotStmt, source.Span{File: a, Start: 0, End: 7}, "goto outside a function"))
	bag.Add(diag.New(diag.SevWarning, diag.CutNestedMarker, source.Span{File: b, Start: 0, End: 10}, "marker"))
	bag.Add(diag.NewError(diag.JmpUndefinedLabel, source.Span{File: a, Start: 5, End: 6}, "undefined label"))

	rep := BuildReport(bag, fs, JSONOpts{})
	if len(rep.Files) != 2 || rep.Files[0].Path != "a.js" || len(rep.Files[0].Diagnostics) != 2 {
		t.Fatalf("unexpected grouping %+v", rep.Files)
	}
	if rep.Summary.Errors != 2 || rep.Summary.Warnings != 1 {
		t.Fatalf("unexpected summary %+v", rep.Summary)
	}
}

func TestJSONNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("fromHere();\nfromHere();\n"))

	d := diag.New(diag.SevError, diag.CutDuplicateMarker, source.Span{File: fileID, Start: 12, End: 22}, "second marker")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 10}, "first marker here")
	bag := diag.NewBag(10)
	bag.Add(d)

	for _, include := range []bool{false, true} {
		notes := BuildReport(bag, fs, JSONOpts{IncludeNotes: include}).Files[0].Diagnostics[0].Notes
		if !include {
			if len(notes) != 0 {
				t.Fatalf("notes must be omitted, got %+v", notes)
			}
			continue
		}
		if len(notes) != 1 || notes[0].Message != "first marker here" {
			t.Fatalf("unexpected notes %+v", notes)
		}
		if notes[0].Range.Start != 0 || notes[0].Range.End != 10 {
			t.Fatalf("unexpected note range %+v", notes[0].Range)
		}
	}
}

func TestJSONTimingsPayload(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("t.js", []byte("let a;"))
	span := source.Span{File: fileID}
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, span, "timings").WithNote(span, "{\n  \"total_ms\": 1.5,\n  \"phases\": [\"parse\"]\n}"))
	const want = `{"total_ms":1.5,"phases":["parse"]}`

	if got := BuildReport(bag, fs, JSONOpts{}).Files[0].Diagnostics[0].Timings; string(got) != want {
		t.Fatalf("report timings = %s, want %s", got, want)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	e := decodeReport(t, buf.Bytes()).Files[0].Diagnostics[0]
	// индентированный вывод переформатирует RawMessage, сравниваем сжатое
	var got bytes.Buffer
	if err := json.Compact(&got, e.Timings); err != nil {
		t.Fatalf("timings are not JSON: %v", err)
	}
	if got.String() != want || len(e.Notes) != 0 {
		t.Fatalf("timings not inlined: %s %+v", got.String(), e)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("let x = 42"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevInfo, diag.LexInfo, source.Span{File: fileID, Start: 0, End: 3}, "Info message"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("positions must be omitted:\n%s", buf.String())
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("a; b; c;"))

	bag := diag.NewBag(10)
	for i := range uint32(3) {
		bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: i * 3, End: i*3 + 1}, "w"))
	}

	rep := BuildReport(bag, fs, JSONOpts{Max: 2})
	if rep.Count() != 2 || rep.Summary.Omitted != 1 {
		t.Fatalf("expected 2 shown and 1 omitted, got %d/%d", rep.Count(), rep.Summary.Omitted)
	}
}
