package testkit

import (
	"context"
	"testing"

	"hereafter/internal/diag"
	"hereafter/internal/parser"
	"hereafter/internal/source"
)

func TestCheckSpanInvariants(t *testing.T) {
	src := "import { fromHere } from 'fromHere';\n" +
		"function f(a, { b = 1 }) {\n" +
		"  const g = (x) => x * `${a}!`;\n" +
		"  class C { m() { return this; } }\n" +
		"  fromHere();\n" +
		"  return g(b);\n" +
		"}\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte(src))
	bag := diag.NewBag(16)
	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	if err := CheckSpanInvariants(b, fs.Get(id)); err != nil {
		t.Fatal(err)
	}

	// чужой файл ловится
	other := fs.Get(fs.AddVirtual("b.js", []byte(src)))
	if err := CheckSpanInvariants(b, other); err == nil {
		t.Fatalf("expected a file id mismatch")
	}
	if err := CheckSpanInvariants(nil, other); err == nil {
		t.Fatalf("expected an error for a nil builder")
	}
}
