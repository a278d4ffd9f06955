package diag

import (
	"errors"
	"fmt"
	"testing"

	"hereafter/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportError(r, SynUnexpectedToken, source.Span{File: 0, Start: 10, End: 11}, "b").Emit()
	ReportWarning(r, CutNestedMarker, source.Span{File: 0, Start: 2, End: 3}, "a").Emit()
	ReportError(r, SynUnexpectedToken, source.Span{File: 0, Start: 20, End: 21}, "dropped").Emit()

	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
	bag.Sort()
	if got := bag.Items()[0].Message; got != "a" {
		t.Fatalf("first after sort = %q, want a", got)
	}
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, JmpDuplicateLabel, source.Span{}, "dup").
		WithNote(source.Span{Start: 1, End: 2}, "first declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if n := len(bag.Items()[0].Notes); n != 1 {
		t.Fatalf("notes = %d, want 1", n)
	}
}

func TestFatalUnwraps(t *testing.T) {
	d := NewError(CutDuplicateMarker, source.Span{Start: 4, End: 9}, "Multiple fromHere() calls")
	err := fmt.Errorf("transform a.js: %w", Fatal(d))
	got, ok := AsDiagnostic(err)
	if !ok || got.Code != CutDuplicateMarker {
		t.Fatalf("AsDiagnostic = %+v, %v", got, ok)
	}
	if _, ok := AsDiagnostic(errors.New("plain")); ok {
		t.Fatal("plain error must not unwrap into a diagnostic")
	}
	if want := "CUT4001: Multiple fromHere() calls"; Fatal(d).Error() != want {
		t.Fatalf("Error() = %q, want %q", Fatal(d).Error(), want)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(LexUnknownChar, SevError, sp, "x", nil)
	r.Report(LexUnknownChar, SevError, sp, "x", nil)
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("let a = 1;\ngoto(x);\n"))
	d := NewError(JmpUndefinedLabel, source.Span{File: id, Start: 11, End: 18}, "Undefined label variable 'x' used in goto()").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "labels are declared with label()")
	got := FormatShort([]Diagnostic{d}, fs, true)
	want := "note JMP5003 a.js:1:1 labels are declared with label()\n" +
		"error JMP5003 a.js:2:1 Undefined label variable 'x' used in goto()"
	if got != want {
		t.Fatalf("FormatShort:\n%s\nwant:\n%s", got, want)
	}
}

func TestBagForceAndWithout(t *testing.T) {
	bag := NewBag(1)
	bag.Add(NewError(JmpUndefinedLabel, source.Span{Start: 1, End: 2}, "undefined"))
	if bag.Add(New(SevInfo, ObsTimings, source.Span{}, "late")) {
		t.Fatal("Add must refuse past the limit")
	}
	if bag.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", bag.Dropped())
	}
	bag.Force(New(SevInfo, ObsTimings, source.Span{}, "timings"))
	if bag.Len() != 2 || bag.Cap() != 2 {
		t.Fatalf("Len/Cap = %d/%d, want 2/2", bag.Len(), bag.Cap())
	}
	if got := bag.Count(SevInfo); got != 2 {
		t.Fatalf("Count(info) = %d, want 2", got)
	}
	rest := bag.Without(ObsTimings)
	if rest.Len() != 1 || rest.Items()[0].Code != JmpUndefinedLabel {
		t.Fatalf("Without kept %v", rest.Items())
	}
	if bag.Len() != 2 {
		t.Fatal("Without must not modify the source bag")
	}
}
