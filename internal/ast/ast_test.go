package ast

import (
	"testing"

	"hereafter/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be empty")
	}
	id := a.Allocate(42)
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}
	if got := *a.Get(id); got != 42 {
		t.Fatalf("Get = %d", got)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range index must be nil")
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewIdent(source.Span{Start: 0, End: 1}, b.Strings.Intern("x"))
	stmt := b.Stmts.NewExpr(source.Span{Start: 0, End: 2}, x)

	if _, ok := b.Stmts.Var(stmt); ok {
		t.Fatalf("expression statement reported as var")
	}
	data, ok := b.Stmts.Expr(stmt)
	if !ok || data.Expr != x {
		t.Fatalf("Expr accessor = %+v, %v", data, ok)
	}
	if _, ok := b.Exprs.Call(x); ok {
		t.Fatalf("identifier reported as call")
	}
	ident, ok := b.Exprs.Ident(x)
	if !ok || b.Name(ident.Name) != "x" {
		t.Fatalf("ident = %+v, %v", ident, ok)
	}
}

func TestUnparenAndCalleeName(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	callee := b.Exprs.NewIdent(source.Span{}, b.Strings.Intern("fromHere"))
	call := b.Exprs.NewCall(source.Span{}, b.Exprs.NewParen(source.Span{}, callee), nil, false)
	wrapped := b.Exprs.NewParen(source.Span{}, b.Exprs.NewParen(source.Span{}, call))

	if got := b.Exprs.Unparen(wrapped); got != call {
		t.Fatalf("Unparen = %d, want %d", got, call)
	}
	name, ok := b.CalleeName(wrapped)
	if !ok || b.Name(name) != "fromHere" {
		t.Fatalf("CalleeName = %q, %v", b.Name(name), ok)
	}
}

func TestPatternNames(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	a := b.Pats.NewIdent(source.Span{}, b.Strings.Intern("a"))
	c := b.Pats.NewIdent(source.Span{}, b.Strings.Intern("c"))
	rest := b.Pats.NewIdent(source.Span{}, b.Strings.Intern("rest"))
	withDefault := b.Pats.NewDefault(source.Span{}, c, b.SynthNumber(1))
	obj := b.Pats.NewObject(source.Span{}, []PatProp{{Value: withDefault}}, NoPatID)
	arr := b.Pats.NewArray(source.Span{}, []PatID{a, NoPatID, obj}, rest)

	names := b.Pats.Names(arr, nil)
	want := []PatID{a, c, rest}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %d, want %d", i, names[i], want[i])
		}
	}
}

func TestSyntheticFlags(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	stmt := b.SynthLet("_gotoState", b.SynthString("start"))
	if !b.Stmts.Get(stmt).Flags.Dirty() {
		t.Fatalf("synthetic statement must be dirty")
	}
	orig := b.Stmts.NewBlock(source.Span{Start: 0, End: 2}, nil)
	if b.Stmts.Get(orig).Flags.Dirty() {
		t.Fatalf("parsed block must start clean")
	}
	b.Rewrap(orig, []StmtID{stmt})
	if got := b.Stmts.Get(orig).Flags; got&FlagRewritten == 0 {
		t.Fatalf("Rewrap must mark the block rewritten, flags=%b", got)
	}
}

func TestOperatorText(t *testing.T) {
	if AssignNullish.String() != "??=" {
		t.Fatalf("AssignNullish = %q", AssignNullish.String())
	}
	if OpExp.Precedence() <= OpMul.Precedence() || !OpExp.RightAssoc() {
		t.Fatalf("** must bind tighter than * and associate right")
	}
	if !UnaryTypeof.IsWord() || UnaryNot.IsWord() {
		t.Fatalf("IsWord mismatch")
	}
}
