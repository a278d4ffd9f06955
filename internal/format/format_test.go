package format_test

import (
	"context"
	"errors"
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/format"
	"hereafter/internal/parser"
	"hereafter/internal/source"
)

func parse(t *testing.T, src string) (*ast.Builder, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(32)
	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 32, Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse %q: %d diagnostics, first: %s", src, bag.Len(), bag.Items()[0].Message)
	}
	return b, fs.Get(id)
}

// funcBody returns the body block of the first top-level function.
func funcBody(t *testing.T, b *ast.Builder) (ast.StmtID, []ast.StmtID) {
	t.Helper()
	fn, ok := b.Stmts.Func(b.File.Body[0])
	if !ok {
		t.Fatalf("first statement is not a function")
	}
	body := b.Funcs.Get(fn).Body
	data, _ := b.Stmts.Block(body)
	return body, data.Stmts
}

func TestEmitUntouchedIsIdentical(t *testing.T) {
	inputs := []string{
		"",
		"let a=1 ;   // spacing is kept\n",
		"function f(x) {\n\t// tabbed\n\treturn `a\n  ${x}\n`;\n}\n",
		"/* lead */\nconst { a, b: [c] } = obj;\nlabel: for (;;) break label;\n",
	}
	for _, src := range inputs {
		b, sf := parse(t, src)
		out, err := format.Emit(sf, b, format.Options{})
		if err != nil {
			t.Fatalf("emit %q: %v", src, err)
		}
		if string(out) != src {
			t.Fatalf("emit changed untouched source:\nwant %q\ngot  %q", src, out)
		}
	}
}

func TestEmitRewrittenBlockCopiesCleanChildren(t *testing.T) {
	src := "function f() {\n  const a = 1; // dropped\n  if (a) {\n    log(a);\n  }\n}\nf();\n"
	b, sf := parse(t, src)
	body, stmts := funcBody(t, b)
	b.Rewrap(body, stmts[1:])

	out, err := format.Emit(sf, b, format.Options{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "function f() {\n  if (a) {\n    log(a);\n  }\n}\nf();\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out)
	}
}

func TestEmitReindentsCopiedText(t *testing.T) {
	src := "function f() {\n  if (a) {\n    log(a);\n  }\n}\n"
	b, sf := parse(t, src)
	body, stmts := funcBody(t, b)
	b.Rewrap(body, []ast.StmtID{b.SynthBlock(stmts)})

	out, err := format.Emit(sf, b, format.Options{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "function f() {\n  {\n    if (a) {\n      log(a);\n    }\n  }\n}\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out)
	}
}

func TestEmitSyntheticStatements(t *testing.T) {
	src := "function f() {\n  g();\n}\n"
	b, sf := parse(t, src)
	body, stmts := funcBody(t, b)
	loop := b.SynthLabeled("_gotoLoop", b.SynthWhile(b.SynthBool(true), b.SynthBlock([]ast.StmtID{
		stmts[0],
		b.SynthBreak("_gotoLoop"),
	})))
	b.Rewrap(body, []ast.StmtID{
		b.SynthLet("_gotoState", b.SynthString("_a")),
		loop,
	})

	out, err := format.Emit(sf, b, format.Options{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "function f() {\n" +
		"  let _gotoState = \"_a\";\n" +
		"  _gotoLoop: while (true) {\n" +
		"    g();\n" +
		"    break _gotoLoop;\n" +
		"  }\n" +
		"}\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out)
	}
}

func TestEmitBlankLineOnlyBetweenNeighbours(t *testing.T) {
	src := "function f() {\n  a();\n\n  b();\n  fromHere();\n\n  c();\n}\n"
	b, sf := parse(t, src)
	body, stmts := funcBody(t, b)
	b.Rewrap(body, []ast.StmtID{stmts[0], stmts[1], stmts[3]})

	out, err := format.Emit(sf, b, format.Options{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "function f() {\n  a();\n\n  b();\n  c();\n}\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out)
	}
}

func TestEmitPadsRewrittenBlock(t *testing.T) {
	src := "function f() {\n  a();\n  b();\n  c();\n}\n"
	b, sf := parse(t, src)
	body, stmts := funcBody(t, b)
	b.Rewrap(body, stmts[2:])

	out, err := format.Emit(sf, b, format.Options{Pads: map[ast.StmtID]uint32{body: 5}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "function f() {\n  c();\n  ;\n  ;\n}\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out)
	}
}

func TestEmitPadOverrunIsFatal(t *testing.T) {
	src := "function f() {\n  a();\n  b();\n}\n"
	b, sf := parse(t, src)
	body, stmts := funcBody(t, b)
	b.Rewrap(body, stmts)

	_, err := format.Emit(sf, b, format.Options{Pads: map[ast.StmtID]uint32{body: 2}})
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("expected a diagnostic error, got %v", err)
	}
	if d.Code != diag.IntPaddingOverrun {
		t.Fatalf("expected %s, got %s", diag.IntPaddingOverrun.ID(), d.Code.ID())
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target int
		want   string
	}{
		{"exact", "{\n  a();\n}", 3, "{\n  a();\n}"},
		{"grow", "{\n  a();\n}", 5, "{\n  a();\n  ;\n  ;\n}"},
		{"empty", "{}", 3, "{\n  ;\n}"},
		{"empty two lines", "{}", 2, "{\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := format.Pad([]byte(tt.text), tt.target, "  ", "")
			if err != nil {
				t.Fatalf("pad: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := format.Pad([]byte("{\n}"), 1, "  ", ""); !errors.Is(err, format.ErrOverrun) {
		t.Fatalf("expected ErrOverrun, got %v", err)
	}
}

func TestReformat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "spacing",
			src:  "let x=1+2*3;if(x){foo( x )}else bar();",
			want: "let x = 1 + 2 * 3;\nif (x) {\n  foo(x);\n} else bar();\n",
		},
		{
			name: "docs and blank lines",
			src:  "// first\nconst a = [1,,2];\n\n\nconst o = {a, b: 2, ...c};\n",
			want: "// first\nconst a = [1, , 2];\n\nconst o = { a, b: 2, ...c };\n",
		},
		{
			name: "functions",
			src:  "function f(a, b = 1, ...r) { return () => ({}); }",
			want: "function f(a, b = 1, ...r) {\n  return () => ({});\n}\n",
		},
		{
			name: "switch",
			src:  "switch (s) { case 1: a(); break; default: b() }",
			want: "switch (s) {\n  case 1:\n    a();\n    break;\n  default:\n    b();\n}\n",
		},
		{
			name: "imports",
			src:  "import d, { a as b, c } from './m.js'; export { b as e };",
			want: "import d, { a as b, c } from './m.js';\nexport { b as e };\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sf := parse(t, tt.src)
			got, err := format.Reformat(sf, b, format.Options{})
			if err != nil {
				t.Fatalf("reformat: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("unexpected output:\nwant %q\ngot  %q", tt.want, got)
			}
		})
	}
}

func TestCheckRoundTrip(t *testing.T) {
	seeds := []string{
		"let a = 1;",
		"function g(x) { if (x) { return x ?? (y || z); } throw new Error('no'); }",
		"class A extends B { static n = 1; get v() { return this.n; } }",
		"for (const [k, v] of Object.entries(o)) { console.log(`${k}=${v}`); }",
		"try { a(); } catch (e) { b(e); } finally { c(); }",
	}
	for _, src := range seeds {
		fs := source.NewFileSet()
		sf := fs.Get(fs.AddVirtual("seed.js", []byte(src)))
		if ok, msg := format.CheckRoundTrip(context.Background(), sf, format.Options{}, 64); !ok {
			t.Fatalf("round-trip failed for %q: %s", src, msg)
		}
	}
}

func TestNumberAndQuote(t *testing.T) {
	numbers := map[float64]string{
		0:     "0",
		42:    "42",
		-3.5:  "-3.5",
		1e21:  "1e+21",
		1e-7:  "1e-7",
		0.001: "0.001",
	}
	for n, want := range numbers {
		if got := format.Number(n); got != want {
			t.Errorf("Number(%v) = %q, want %q", n, got, want)
		}
	}
	if got := format.Quote("a\"b\n\\"); got != `"a\"b\n\\"` {
		t.Errorf("Quote = %s", got)
	}
	if got := format.Quote("\x01"); got != `"\x01"` {
		t.Errorf("Quote control = %s", got)
	}
}
