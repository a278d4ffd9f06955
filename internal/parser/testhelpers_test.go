package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/lexer"
	"hereafter/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, *source.File, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	result := ParseFile(context.Background(), fs, lx, builder, Options{MaxErrors: 100, Reporter: reporter})
	if result.Bag == nil {
		result.Bag = bag
	}
	return builder, file, result.Bag
}

func mustParse(t *testing.T, input string) (*ast.Builder, *source.File) {
	t.Helper()
	b, file, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return b, file
}

func expectCode(t *testing.T, input string, code diag.Code) {
	t.Helper()
	_, _, bag := parseSource(t, input)
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected %s for %q, got %s", code.ID(), input, diagnosticsSummary(bag))
}

// onlyFunc возвращает тело единственной функции в файле.
func onlyFuncBody(t *testing.T, b *ast.Builder) []ast.StmtID {
	t.Helper()
	if len(b.File.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(b.File.Body))
	}
	fn, ok := b.Stmts.Func(b.File.Body[0])
	if !ok {
		t.Fatalf("expected function declaration, got %s", b.Stmts.Get(b.File.Body[0]).Kind)
	}
	body, ok := b.FuncBody(fn)
	if !ok {
		t.Fatalf("function has no block body")
	}
	return body
}

func stmtKinds(b *ast.Builder, ids []ast.StmtID) []ast.StmtKind {
	kinds := make([]ast.StmtKind, len(ids))
	for i, id := range ids {
		kinds[i] = b.Stmts.Get(id).Kind
	}
	return kinds
}
