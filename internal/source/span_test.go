package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files = %v, want %v", got, a)
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 0, Start: 0, End: 50}
	if !outer.Contains(Span{File: 0, Start: 10, End: 50}) {
		t.Fatal("expected inner span to be contained")
	}
	if outer.Contains(Span{File: 0, Start: 10, End: 51}) {
		t.Fatal("span past the end must not be contained")
	}
	if outer.Contains(Span{File: 1, Start: 1, End: 2}) {
		t.Fatal("span from another file must not be contained")
	}
	if p := outer.StartPoint(); !p.Empty() || p.Start != 0 {
		t.Fatalf("StartPoint = %v", p)
	}
}
