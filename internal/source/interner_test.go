package source

import (
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to empty string, got %q, ok=%v", s, ok)
	}
	id1 := interner.Intern("hello")
	if id1 == NoStringID {
		t.Fatal("Intern returned NoStringID for non-empty string")
	}
	if id2 := interner.Intern("hello"); id1 != id2 {
		t.Errorf("same string interned twice: %d != %d", id1, id2)
	}
	if s := interner.MustLookup(id1); s != "hello" {
		t.Errorf("Lookup = %q", s)
	}
	if _, ok := interner.Lookup(StringID(999)); ok {
		t.Error("Lookup of unknown ID must fail")
	}
}

func TestInternerNormalizesNFC(t *testing.T) {
	interner := NewInterner()
	composed := interner.Intern("caf\u00e9")
	decomposed := interner.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent names got different IDs: %d vs %d", composed, decomposed)
	}
	if got := interner.MustLookup(decomposed); got != "caf\u00e9" {
		t.Fatalf("stored form = %q, want composed form", got)
	}
}

func TestInternerConcurrent(t *testing.T) {
	interner := NewInterner()
	var wg sync.WaitGroup
	ids := make([]StringID, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = interner.Intern("shared")
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent Intern produced different IDs: %v", ids)
		}
	}
	if interner.Len() != 2 {
		t.Fatalf("Len = %d, want 2", interner.Len())
	}
}
