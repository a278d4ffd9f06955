package symbols

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/sirkon/deepequal"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/parser"
	"hereafter/internal/source"
)

type resolved struct {
	b    *ast.Builder
	file *source.File
	res  Result
	bag  *diag.Bag
}

func resolveSource(t *testing.T, input string) resolved {
	t.Helper()

	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(input))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 100, Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	res := ResolveFile(b, ResolveOptions{Reporter: reporter})
	return resolved{b: b, file: fs.Get(id), res: res, bag: bag}
}

// refKinds возвращает виды символов для всех ссылок на name в порядке исходника.
func (r resolved) refKinds(name string) []string {
	type ref struct {
		off  uint32
		kind string
	}
	var refs []ref
	for expr, symID := range r.res.Refs {
		ident, ok := r.b.Exprs.Ident(expr)
		if !ok || r.b.Name(ident.Name) != name {
			continue
		}
		sym := r.res.Table.Symbols.Get(symID)
		kind := sym.Kind.String()
		if sym.Flags&SymbolFlagSelfName != 0 {
			kind += "/self"
		}
		refs = append(refs, ref{off: r.b.Exprs.Get(expr).Span.Start, kind: kind})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].off < refs[j].off })
	out := make([]string, len(refs))
	for i, rf := range refs {
		out[i] = rf.kind
	}
	return out
}

func (r resolved) globals() []string {
	var out []string
	for _, name := range r.res.Globals {
		out = append(out, r.b.Name(name))
	}
	sort.Strings(out)
	return out
}

func expectStrings(t *testing.T, name string, want, got []string) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, name, want, got)
		t.Fatalf("%s mismatch", name)
	}
}

func TestShadowing(t *testing.T) {
	r := resolveSource(t, `let x = 1;
function f(x) {
  {
    let x = 2;
    x;
  }
  return x;
}
x;
`)
	expectStrings(t, "x refs", []string{"let", "param", "let"}, r.refKinds("x"))
	if r.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", r.bag.Items())
	}
}

func TestVarHoisting(t *testing.T) {
	r := resolveSource(t, `function f() {
  use(v);
  if (c) {
    var v = 1;
  }
  return v;
}
`)
	expectStrings(t, "v refs", []string{"var", "var"}, r.refKinds("v"))
	expectStrings(t, "globals", []string{"c", "use"}, r.globals())

	fnStmt := r.b.File.Body[0]
	fn, _ := r.b.Stmts.Func(fnStmt)
	body, _ := r.b.FuncBody(fn)
	fnScope := r.res.FuncScopes[fn]
	name := r.b.Strings.Intern("v")
	symID, ok := r.res.Table.LookupIn(fnScope, name)
	if !ok {
		t.Fatalf("v is not declared in the function scope")
	}
	sym := r.res.Table.Symbols.Get(symID)
	if sym.Decl.TopStmt != body[1] {
		t.Fatalf("TopStmt = %d, want the if statement %d", sym.Decl.TopStmt, body[1])
	}
}

func TestFunctionDeclarationsHoist(t *testing.T) {
	r := resolveSource(t, `g();
function g() { return h(); }
function h() { return 1; }
`)
	expectStrings(t, "g refs", []string{"function"}, r.refKinds("g"))
	expectStrings(t, "h refs", []string{"function"}, r.refKinds("h"))
	if len(r.res.Globals) != 0 {
		t.Fatalf("unexpected globals: %v", r.globals())
	}
}

func TestRedeclaration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fail  bool
	}{
		{"var twice", "var a; var a;", false},
		{"function and var", "function f() {} var f;", false},
		{"let then var", "let a; var a;", true},
		{"const then let", "const a = 1; let a;", true},
		{"let in nested block", "let a; { let a; }", false},
		{"param and var", "function f(p) { var p; }", false},
		{"param and let", "function f(p) { let p; }", true},
		{"block let then var", "{ let a; } var a;", false},
		{"import and let", `import a from "m"; let a;`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolveSource(t, tt.input)
			found := false
			for _, d := range r.bag.Items() {
				if d.Code == diag.SemRedeclared {
					found = true
				}
			}
			if found != tt.fail {
				t.Fatalf("redeclared = %v, want %v (%v)", found, tt.fail, r.bag.Items())
			}
		})
	}
}

func TestImports(t *testing.T) {
	r := resolveSource(t, `import d, { x as y } from "m";
import * as ns from "n";
y(d, ns);
`)
	name := r.b.Strings.Intern("y")
	symID, ok := r.res.Table.LookupIn(r.res.ModuleScope, name)
	if !ok {
		t.Fatalf("y not declared")
	}
	sym := r.res.Table.Symbols.Get(symID)
	if sym.Kind != SymbolImport || sym.Import == nil {
		t.Fatalf("y: kind %s, import %v", sym.Kind, sym.Import)
	}
	if sym.Import.Module != "m" || r.b.Name(sym.Import.Imported) != "x" {
		t.Fatalf("y imported from %q as %q", sym.Import.Module, r.b.Name(sym.Import.Imported))
	}
	expectStrings(t, "ns refs", []string{"import"}, r.refKinds("ns"))
	expectStrings(t, "d refs", []string{"import"}, r.refKinds("d"))
}

func TestExports(t *testing.T) {
	r := resolveSource(t, `export function f() {}
export const a = 1, b = 2;
let c;
export { c as d };
`)
	var got []string
	for name, symID := range r.res.Exports {
		sym := r.res.Table.Symbols.Get(symID)
		if sym.Flags&SymbolFlagExported == 0 {
			t.Errorf("%s is not flagged exported", r.b.Name(name))
		}
		got = append(got, r.b.Name(name))
	}
	sort.Strings(got)
	expectStrings(t, "exports", []string{"a", "b", "d", "f"}, got)
}

func TestSelfNames(t *testing.T) {
	r := resolveSource(t, `const f = function g() { return g; };
const K = class C { make() { return new C(); } };
g;
`)
	expectStrings(t, "g refs", []string{"function/self"}, r.refKinds("g"))
	expectStrings(t, "C refs", []string{"class/self"}, r.refKinds("C"))
	expectStrings(t, "globals", []string{"g"}, r.globals())
}

func TestPatternRefs(t *testing.T) {
	r := resolveSource(t, `let a = 1, b = 2;
[a, b] = [b, a];
for (a of list) {}
`)
	if len(r.res.PatRefs) != 3 {
		t.Fatalf("PatRefs = %d entries, want 3", len(r.res.PatRefs))
	}
	for pat, symID := range r.res.PatRefs {
		if r.res.Table.Symbols.Get(symID).Kind != SymbolLet {
			t.Fatalf("pattern %d resolved to %s", pat, r.res.Table.Symbols.Get(symID).Kind)
		}
	}
}

func TestCatchAndBlockScopes(t *testing.T) {
	r := resolveSource(t, `try {
  risky();
} catch (e) {
  e;
}
for (let i = 0; i < 3; i++) {
  i;
}
switch (k) {
case 1:
  let s = 1;
  s;
}
`)
	expectStrings(t, "e refs", []string{"catch"}, r.refKinds("e"))
	expectStrings(t, "i refs", []string{"let", "let", "let"}, r.refKinds("i"))
	expectStrings(t, "s refs", []string{"let"}, r.refKinds("s"))
	expectStrings(t, "globals", []string{"k", "risky"}, r.globals())
}
