package walk_test

import (
	"context"
	"slices"
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/parser"
	"hereafter/internal/source"
	"hereafter/internal/walk"
)

func parseSnippet(t *testing.T, input string) *ast.Builder {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("walk.js", []byte(input))
	bag := diag.NewBag(20)
	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 20, Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return b
}

func identNames(b *ast.Builder, root walk.Node, skipFuncs bool) []string {
	var names []string
	walk.Inspect(b, root, func(n walk.Node) walk.Action {
		if skipFuncs && n.Kind == walk.KindFunc {
			return walk.Skip
		}
		if id, ok := b.Exprs.Ident(n.Expr()); ok {
			names = append(names, b.Name(id.Name))
		}
		return walk.Continue
	})
	return names
}

func TestInspectPreOrder(t *testing.T) {
	b := parseSnippet(t, "a + b * c(d, e);")
	got := identNames(b, walk.Stmt(b.File.Body[0]), false)
	want := []string{"a", "b", "c", "d", "e"}
	if !slices.Equal(got, want) {
		t.Fatalf("idents = %v, want %v", got, want)
	}
}

func TestInspectSkipsSubtree(t *testing.T) {
	b := parseSnippet(t, "x; function f() { y; (() => z)(); } w;")
	var got []string
	for _, id := range b.File.Body {
		got = append(got, identNames(b, walk.Stmt(id), true)...)
	}
	if !slices.Equal(got, []string{"x", "w"}) {
		t.Fatalf("idents = %v", got)
	}
}

func TestInspectStop(t *testing.T) {
	b := parseSnippet(t, "a; b; c;")
	seen := 0
	ok := walk.InspectStmts(b, b.File.Body, func(n walk.Node) walk.Action {
		if _, isIdent := b.Exprs.Ident(n.Expr()); isIdent {
			seen++
			if seen == 2 {
				return walk.Stop
			}
		}
		return walk.Continue
	})
	if ok || seen != 2 {
		t.Fatalf("ok=%v seen=%d", ok, seen)
	}
}

func TestFunctionsPreOrder(t *testing.T) {
	b := parseSnippet(t, `function outer() {
  const inner = function () { return () => 1; };
  class K { m() {} }
}
const top = () => {};
`)
	fns := walk.FileFunctions(b)
	if len(fns) != 5 {
		t.Fatalf("functions = %d, want 5", len(fns))
	}
	if name := b.Name(b.Funcs.Get(fns[0]).Name); name != "outer" {
		t.Fatalf("first function = %q", name)
	}
	if !b.Funcs.Get(fns[2]).IsArrow || !b.Funcs.Get(fns[4]).IsArrow {
		t.Fatalf("arrows out of order")
	}
}

func TestTableDispatch(t *testing.T) {
	b := parseSnippet(t, `let [p = q] = r;
for (const k in obj) { if (k) { g(k); } }
`)
	var calls, binds int
	var stmts []ast.StmtKind
	table := walk.NewTable().
		OnExpr(func(ast.ExprID) walk.Action { calls++; return walk.Continue }, ast.ExprCall).
		OnPat(func(ast.PatID) walk.Action { binds++; return walk.Continue }, ast.PatIdent).
		OnStmt(func(id ast.StmtID) walk.Action {
			stmts = append(stmts, b.Stmts.Get(id).Kind)
			return walk.Continue
		}, ast.StmtVar, ast.StmtForIn, ast.StmtIf)
	if !table.WalkStmts(b, b.File.Body) {
		t.Fatalf("walk stopped")
	}
	if calls != 1 || binds != 2 {
		t.Fatalf("calls=%d binds=%d", calls, binds)
	}
	want := []ast.StmtKind{ast.StmtVar, ast.StmtForIn, ast.StmtIf}
	if !slices.Equal(stmts, want) {
		t.Fatalf("statements = %v", stmts)
	}
}

func TestNodeAccessorsGuardKind(t *testing.T) {
	n := walk.Expr(3)
	if n.Stmt().IsValid() || n.Expr() != 3 {
		t.Fatalf("accessors ignore node kind: %v", n)
	}
	if walk.Stmt(ast.NoStmtID).IsValid() {
		t.Fatalf("zero statement must be invalid")
	}
}
