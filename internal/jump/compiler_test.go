package jump_test

import (
	"context"
	"strings"
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/format"
	"hereafter/internal/interp"
	"hereafter/internal/jump"
	"hereafter/internal/parser"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/vocab"
)

type jumpRun struct {
	out     string
	results []jump.Result
	b       *ast.Builder
}

func parse(t *testing.T, src string) (*ast.Builder, *source.File, diag.Reporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 100, Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return b, fs.Get(id), reporter
}

func runJump(t *testing.T, src string, opts jump.Options) (jumpRun, error) {
	t.Helper()
	b, file, reporter := parse(t, src)
	res := symbols.ResolveFile(b, symbols.ResolveOptions{Reporter: reporter})
	cls := vocab.NewClassifier(b, &res, vocab.Default())
	results, err := jump.NewCompiler(b, &res, cls, opts, reporter).Run(context.Background())
	if err != nil {
		return jumpRun{b: b}, err
	}
	out, err := format.Emit(file, b, format.Options{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return jumpRun{out: string(out), results: results, b: b}, nil
}

func mustJump(t *testing.T, src string, opts jump.Options) jumpRun {
	t.Helper()
	run, err := runJump(t, src, opts)
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	return run
}

func expectCode(t *testing.T, err error, code diag.Code) diag.Diagnostic {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got success", code.ID())
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("expected a diagnostic, got %v", err)
	}
	if d.Code != code {
		t.Fatalf("expected %s, got %s: %s", code.ID(), d.Code.ID(), d.Message)
	}
	return d
}

func evaluate(t *testing.T, src string, direct bool) string {
	t.Helper()
	b, _, _ := parse(t, src)
	var out strings.Builder
	if err := interp.New(b, &out, interp.Options{Direct: direct}).Run(context.Background()); err != nil {
		t.Fatalf("evaluate (direct=%v): %v\nsource:\n%s", direct, err, src)
	}
	return out.String()
}

func TestNoLabelsIsNoop(t *testing.T) {
	src := "function f(a) {\n  if (a) return 1;\n  return 2;\n}\n"
	run := mustJump(t, src, jump.Options{})
	if len(run.results) != 0 {
		t.Fatalf("expected no compiled functions, got %d", len(run.results))
	}
	if run.out != src {
		t.Fatalf("output changed:\n%s", run.out)
	}
}

func TestCompiledShape(t *testing.T) {
	src := "function count() {\n" +
		"  let i = 0;\n" +
		"  let again = label();\n" +
		"  i++;\n" +
		"  if (i < 3) goto(again);\n" +
		"  return i;\n" +
		"}\n"
	run := mustJump(t, src, jump.Options{})
	if len(run.results) != 1 {
		t.Fatalf("expected one compiled function, got %d", len(run.results))
	}
	r := run.results[0]
	if r.StateVar != "_gotoState" || r.LoopLabel != "_gotoLoop" || r.ResultVar != "_gotoResult" {
		t.Fatalf("unexpected names %q %q %q", r.StateVar, r.LoopLabel, r.ResultVar)
	}
	if len(r.Segments) != 2 || r.Segments[0].State != jump.StateStart || r.Segments[1].State != "_again" {
		t.Fatalf("unexpected segments %+v", r.Segments)
	}
	if len(r.Hoisted) != 1 || run.b.Name(r.Hoisted[0]) != "i" {
		t.Fatalf("unexpected hoisted names %v", r.Hoisted)
	}
	for _, want := range []string{
		`let _gotoState = "start";`,
		`let _gotoResult;`,
		`let i;`,
		`_gotoLoop: while (true) {`,
		`switch (_gotoState) {`,
		`case "start":`,
		`i = 0;`,
		`_gotoState = "_again";`,
		`continue _gotoLoop;`,
		`if (i < 3) {`,
		`_gotoResult = i;`,
		`case "end":`,
		`break _gotoLoop;`,
		`return _gotoResult;`,
	} {
		if !strings.Contains(run.out, want) {
			t.Errorf("output lacks %q:\n%s", want, run.out)
		}
	}
	if strings.Contains(run.out, "label()") || strings.Contains(run.out, "goto(") {
		t.Fatalf("reserved calls survived:\n%s", run.out)
	}
}

func TestStateNamesAvoidCollisions(t *testing.T) {
	src := "function f(_gotoState) {\n" +
		"  let _gotoLoop = 1;\n" +
		"  let l = label();\n" +
		"  goto(l);\n" +
		"}\n"
	run := mustJump(t, src, jump.Options{})
	r := run.results[0]
	if r.StateVar != "_gotoState2" || r.LoopLabel != "_gotoLoop2" {
		t.Fatalf("names collide: %q %q", r.StateVar, r.LoopLabel)
	}
}

func TestLabelStatesStayApartFromReserved(t *testing.T) {
	src := "function f(n) {\n" +
		"  let start = label();\n" +
		"  n--;\n" +
		"  if (n > 0) goto(start);\n" +
		"  goto(end);\n" +
		"  let end = label();\n" +
		"  console.log(n);\n" +
		"}\n" +
		"f(2);\n"
	run := mustJump(t, src, jump.Options{})
	seen := map[string]bool{jump.StateStart: true, jump.StateEnd: true}
	for _, l := range run.results[0].Labels {
		if seen[l.State] {
			t.Fatalf("state %q collides", l.State)
		}
		seen[l.State] = true
	}
	if !seen["_start"] || !seen["_end"] {
		t.Fatalf("states = %v", seen)
	}
	if got := evaluate(t, run.out, false); got != "0\n" {
		t.Fatalf("compiled run = %q\n%s", got, run.out)
	}
}

// Each program runs once with label/goto as native control flow and
// once compiled; the console output must agree.
func TestRoundTripMatchesDirectExecution(t *testing.T) {
	programs := map[string]string{
		"backward loop": `function count() {
  let i = 0;
  let again = label();
  i++;
  if (i < 3) goto(again);
  return i;
}
console.log(count());`,

		"forward skip": `function f(flag) {
  console.log('start');
  if (flag) goto(tail);
  console.log('middle');
  let tail = label();
  console.log('tail', flag);
}
f(true);
f(false);`,

		"nested loops": `function search(grid, want) {
  let found = null;
  for (let r = 0; r < grid.length; r++) {
    for (let c = 0; c < grid[r].length; c++) {
      if (grid[r][c] === want) {
        found = [r, c];
        goto(done);
      }
    }
  }
  console.log('missing', want);
  return null;
  let done = label();
  console.log('found', want, found);
  return found;
}
const g = [[1, 2], [3, 4]];
console.log(search(g, 4), search(g, 9));`,

		"switch and finally": `function f(n) {
  const log = [];
  let top = label();
  try {
    switch (n % 3) {
      case 0:
        log.push('zero');
        break;
      default:
        log.push('other');
        n++;
        goto(top);
    }
  } finally {
    log.push('finally');
  }
  console.log(n, log.join(' '));
}
f(1);
f(3);`,

		"closures see hoisted bindings": `function f() {
  let fns = [];
  let n = 0;
  let loop = label();
  const k = n;
  fns.push(() => k);
  n++;
  if (n < 3) goto(loop);
  function report() { return fns.map((g) => g()).join(','); }
  return report();
}
console.log(f());`,

		"nested function with its own labels": `function outer() {
  function inner(x) {
    let l = label();
    x--;
    if (x > 0) goto(l);
    return x;
  }
  let again = label();
  const r = inner(3);
  console.log('inner', r);
  return r;
}
console.log(outer());`,

		"bare returns": `function f(x) {
  if (x) return;
  let l = label();
  console.log('after', x);
}
f(0);
f(1);`,
	}
	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			want := evaluate(t, src, true)
			run := mustJump(t, src, jump.Options{})
			got := evaluate(t, run.out, false)
			if got != want {
				t.Fatalf("compiled program diverges\ndirect:\n%s\ncompiled:\n%s\ncompiled source:\n%s", want, got, run.out)
			}
		})
	}
}

func TestFallthroughEnd(t *testing.T) {
	src := `function f() {
  console.log('start');
  let a = label();
  console.log('a');
  let b = label();
  console.log('b');
}
f();`
	run := mustJump(t, src, jump.Options{Fallthrough: jump.FallEnd})
	if got, want := evaluate(t, run.out, false), "start\na\n"; got != want {
		t.Fatalf("want %q, got %q\n%s", want, got, run.out)
	}
	run = mustJump(t, src, jump.Options{Fallthrough: jump.FallNext})
	if got, want := evaluate(t, run.out, false), "start\na\nb\n"; got != want {
		t.Fatalf("want %q, got %q\n%s", want, got, run.out)
	}
}

func TestDefaultFallthroughStopsAfterLabelRun(t *testing.T) {
	src := `function f() {
  console.log('s');
  let a = label();
  console.log('a');
  let b = label();
  console.log('b');
}
f();`
	run := mustJump(t, src, jump.Options{})
	if got, want := evaluate(t, run.out, false), "s\na\n"; got != want {
		t.Fatalf("want %q, got %q\n%s", want, got, run.out)
	}
	if got := evaluate(t, src, true); got != "s\na\n" {
		t.Fatalf("direct run = %q", got)
	}
	if strings.Contains(run.out, `_gotoState = "_b"`) {
		t.Fatalf("label a falls into b:\n%s", run.out)
	}
}

func TestValuedReturnRejected(t *testing.T) {
	src := "function f() {\n  let l = label();\n  return 1;\n}\n"
	_, err := runJump(t, src, jump.Options{Returns: jump.ReturnsReject})
	expectCode(t, err, diag.JmpValuedReturn)

	run := mustJump(t, src, jump.Options{Returns: jump.ReturnsThread})
	if run.results[0].ResultVar == "" {
		t.Fatalf("expected a result variable")
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{
			name: "duplicate label",
			src:  "function f() {\n  let a = label();\n  let a = label();\n}\n",
			code: diag.JmpDuplicateLabel,
		},
		{
			name: "goto without labels",
			src:  "function f() {\n  goto(x);\n}\n",
			code: diag.JmpNoLabels,
		},
		{
			name: "undefined label",
			src:  "function f() {\n  let a = label();\n  goto(b);\n}\n",
			code: diag.JmpUndefinedLabel,
		},
		{
			name: "goto as expression",
			src:  "function f() {\n  let a = label();\n  const r = goto(a);\n}\n",
			code: diag.JmpGotoNotStmt,
		},
		{
			name: "label value escapes",
			src:  "function f() {\n  let a = label();\n  console.log(a);\n}\n",
			code: diag.JmpLabelMisuse,
		},
		{
			name: "stray label call",
			src:  "function f() {\n  label();\n}\n",
			code: diag.JmpLabelMisuse,
		},
		{
			name: "nested label",
			src:  "function f(x) {\n  if (x) {\n    let a = label();\n  }\n}\n",
			code: diag.JmpNestedLabel,
		},
		{
			name: "goto arity",
			src:  "function f() {\n  let a = label();\n  goto(a, 1);\n}\n",
			code: diag.JmpGotoArity,
		},
		{
			name: "goto into another function",
			src:  "function f() {\n  let a = label();\n  function g() {\n    goto(a);\n  }\n}\n",
			code: diag.JmpNoLabels,
		},
		{
			name: "module level goto",
			src:  "goto(x);\n",
			code: diag.JmpGotoNotStmt,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runJump(t, tt.src, jump.Options{})
			expectCode(t, err, tt.code)
		})
	}
}

func TestDuplicateLabelPointsAtFirst(t *testing.T) {
	src := "function f() {\n  let a = label();\n  let a = label();\n}\n"
	_, err := runJump(t, src, jump.Options{})
	d := expectCode(t, err, diag.JmpDuplicateLabel)
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first declared here" {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
	if d.Notes[0].Span.Start >= d.Primary.Start {
		t.Fatalf("note should point before the duplicate")
	}
}

func TestParseOptions(t *testing.T) {
	if f, err := jump.ParseFallthrough("end"); err != nil || f != jump.FallEnd {
		t.Fatalf("ParseFallthrough(end) = %v, %v", f, err)
	}
	if f, err := jump.ParseFallthrough(""); err != nil || f != jump.FallEnd {
		t.Fatalf("ParseFallthrough(\"\") = %v, %v", f, err)
	}
	var zero jump.Options
	if zero.Fallthrough != jump.FallEnd || zero.Fallthrough.String() != "end" {
		t.Fatalf("zero Options fall through to %v", zero.Fallthrough)
	}
	if _, err := jump.ParseFallthrough("sideways"); err == nil {
		t.Fatalf("expected an error for an unknown policy")
	}
	if r, err := jump.ParseReturns(""); err != nil || r != jump.ReturnsThread {
		t.Fatalf("ParseReturns(\"\") = %v, %v", r, err)
	}
	if _, err := jump.ParseReturns("drop"); err == nil {
		t.Fatalf("expected an error for an unknown policy")
	}
}
