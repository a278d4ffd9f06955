package parser

import (
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
)

func TestParseFunctionBody(t *testing.T) {
	b, file := mustParse(t, `function f() {
  const a = 1, b = 2;
  foo();
  fromHere();
  return a;
}`)
	body := onlyFuncBody(t, b)
	want := []ast.StmtKind{ast.StmtVar, ast.StmtExpr, ast.StmtExpr, ast.StmtReturn}
	got := stmtKinds(b, body)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
	decl, _ := b.Stmts.Var(body[0])
	if decl.Kind != ast.VarConst || len(decl.Decls) != 2 {
		t.Fatalf("decl = %+v", decl)
	}
	if text := file.Text(b.Stmts.Get(body[0]).Span); text != "const a = 1, b = 2;" {
		t.Fatalf("span text = %q", text)
	}
	if text := file.Text(decl.Decls[1].Span); text != "b = 2" {
		t.Fatalf("declarator span text = %q", text)
	}
}

func TestAutomaticSemicolons(t *testing.T) {
	b, _ := mustParse(t, `function f() {
  let x = 1
  x++
  return
  x
}`)
	body := onlyFuncBody(t, b)
	if len(body) != 4 {
		t.Fatalf("expected 4 statements, got %v", stmtKinds(b, body))
	}
	ret, _ := b.Stmts.Value(body[2])
	if ret.Value.IsValid() {
		t.Fatalf("return followed by newline must have no value")
	}
}

func TestMissingSemicolonIsError(t *testing.T) {
	expectCode(t, "let a = 1 let b = 2", diag.SynExpectSemicolon)
}

func TestControlFlowStatements(t *testing.T) {
	b, _ := mustParse(t, `function f(xs) {
  outer: for (let i = 0; i < 3; i++) {
    for (const x of xs) { if (x) continue outer; else break; }
  }
  for (k in obj) {}
  while (a) { do { a-- } while (a > 1) }
  switch (a) { case 1: b(); break; default: c() }
  try { risky() } catch (e) { handle(e) } finally { done() }
  throw new Error("x")
}`)
	body := onlyFuncBody(t, b)
	want := []ast.StmtKind{ast.StmtLabeled, ast.StmtForIn, ast.StmtWhile, ast.StmtSwitch, ast.StmtTry, ast.StmtThrow}
	got := stmtKinds(b, body)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
	forIn, _ := b.Stmts.ForIn(body[1])
	if forIn.Of || forIn.Kind != ast.VarNone {
		t.Fatalf("for-in = %+v", forIn)
	}
	sw, _ := b.Stmts.Switch(body[3])
	if len(sw.Cases) != 2 || sw.Cases[1].Test.IsValid() {
		t.Fatalf("switch cases = %+v", sw.Cases)
	}
}

func TestIllegalJumps(t *testing.T) {
	expectCode(t, "function f() { break; }", diag.SynIllegalBreak)
	expectCode(t, "function f() { switch (a) { case 1: continue; } }", diag.SynIllegalBreak)
	expectCode(t, "function f() { while (a) { break missing; } }", diag.SemUnknownLabel)
	expectCode(t, "return 1;", diag.SynIllegalReturn)
}

func TestImportsAndExports(t *testing.T) {
	b, _ := mustParse(t, `import def, { fromHere as cut, other } from "./cut.js";
import * as ns from "lib/cut";
import "side-effect";
export const answer = 42;
export default function () {}
export { answer as value };`)
	if len(b.File.Body) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(b.File.Body))
	}
	imp, _ := b.Stmts.Import(b.File.Body[0])
	if imp.Module != "./cut.js" || len(imp.Specs) != 3 {
		t.Fatalf("import = %+v", imp)
	}
	if imp.Specs[0].Kind != ast.ImportDefault || b.Name(imp.Specs[0].Local) != "def" {
		t.Fatalf("default spec = %+v", imp.Specs[0])
	}
	named := imp.Specs[1]
	if b.Name(named.Imported) != "fromHere" || b.Name(named.Local) != "cut" {
		t.Fatalf("named spec = %s as %s", b.Name(named.Imported), b.Name(named.Local))
	}
	ns, _ := b.Stmts.Import(b.File.Body[1])
	if ns.Specs[0].Kind != ast.ImportNamespace || b.Name(ns.Specs[0].Local) != "ns" {
		t.Fatalf("namespace spec = %+v", ns.Specs[0])
	}
	side, _ := b.Stmts.Import(b.File.Body[2])
	if len(side.Specs) != 0 {
		t.Fatalf("side-effect import has specs: %+v", side.Specs)
	}
	exp, _ := b.Stmts.Export(b.File.Body[3])
	if b.Stmts.Get(exp.Decl).Kind != ast.StmtVar {
		t.Fatalf("export decl kind = %s", b.Stmts.Get(exp.Decl).Kind)
	}
}

func TestImportOutsideTopLevel(t *testing.T) {
	expectCode(t, `function f() { import x from "y"; }`, diag.SynImportNotTopLevel)
}

func TestConstWithoutInit(t *testing.T) {
	expectCode(t, "const a;", diag.SynConstWithoutInit)
	mustParse(t, "for (const x of xs) {}")
}

func TestClassDeclaration(t *testing.T) {
	b, _ := mustParse(t, `class Point extends Base {
  static origin = new Point(0, 0);
  x = 0
  constructor(x) { super(); this.x = x; }
  get len() { return this.x }
  set len(v) { this.x = v }
  static make() { return new Point(1) }
}`)
	cls, ok := b.Stmts.Class(b.File.Body[0])
	if !ok {
		t.Fatalf("expected class declaration")
	}
	data := b.Classes.Get(cls)
	if b.Name(data.Name) != "Point" || !data.Super.IsValid() {
		t.Fatalf("class = %+v", data)
	}
	kinds := []ast.ClassMemberKind{ast.MemberField, ast.MemberField, ast.MemberMethod, ast.MemberGetter, ast.MemberSetter, ast.MemberMethod}
	if len(data.Members) != len(kinds) {
		t.Fatalf("members = %d, want %d", len(data.Members), len(kinds))
	}
	for i, k := range kinds {
		if data.Members[i].Kind != k {
			t.Fatalf("member %d kind = %d, want %d", i, data.Members[i].Kind, k)
		}
	}
	if !data.Members[0].Static || !data.Members[5].Static || data.Members[2].Static {
		t.Fatalf("static flags are wrong")
	}
}

func TestLeadingCommentsAttachToStatement(t *testing.T) {
	b, file := mustParse(t, `function f() {
  a(); // trailing
  // about b
  b();
}`)
	body := onlyFuncBody(t, b)
	if doc := b.Stmts.Get(body[0]).Doc; !doc.Empty() {
		t.Fatalf("first statement must have no doc, got %q", file.Text(doc))
	}
	doc := b.Stmts.Get(body[1]).Doc
	if got := file.Text(doc); got != "// about b\n  " {
		t.Fatalf("doc = %q", got)
	}
}

func TestErrorRecoveryContinues(t *testing.T) {
	b, _, bag := parseSource(t, "let = 1;\nlet ok = 2;\n")
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	if len(b.File.Body) != 1 {
		t.Fatalf("expected recovery to keep the second statement, got %d", len(b.File.Body))
	}
}
