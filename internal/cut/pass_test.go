package cut_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"

	"hereafter/internal/ast"
	"hereafter/internal/cut"
	"hereafter/internal/diag"
	"hereafter/internal/format"
	"hereafter/internal/parser"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/vocab"
)

type cutRun struct {
	out     string
	results []cut.Result
	bag     *diag.Bag
	b       *ast.Builder
}

func runCut(t *testing.T, src string, opts cut.Options) (cutRun, error) {
	t.Helper()

	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 100, Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	file := fs.Get(id)
	res := symbols.ResolveFile(b, symbols.ResolveOptions{Reporter: reporter})
	cls := vocab.NewClassifier(b, &res, vocab.Default())

	results, err := cut.NewPass(b, file, &res, cls, opts, reporter).Run(context.Background())
	if err != nil {
		return cutRun{bag: bag, b: b}, err
	}

	fopts := format.Options{}
	if opts.Pad {
		fopts.Pads = make(map[ast.StmtID]uint32, len(results))
		for _, r := range results {
			fopts.Pads[r.Body] = r.Lines
		}
	}
	out, err := format.Emit(file, b, fopts)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return cutRun{out: string(out), results: results, bag: bag, b: b}, nil
}

func mustCut(t *testing.T, src string, opts cut.Options) cutRun {
	t.Helper()
	run, err := runCut(t, src, opts)
	if err != nil {
		t.Fatalf("cut: %v", err)
	}
	return run
}

func expectOutput(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestNoMarkerIsNoop(t *testing.T) {
	src := "function f() {\n  const a = 1;\n  foo();\n  return a;\n}\n"
	run := mustCut(t, src, cut.Options{})
	if len(run.results) != 0 {
		t.Fatalf("expected no rewritten functions, got %d", len(run.results))
	}
	expectOutput(t, src, run.out)
}

func TestLivenessKeepsReferencedDeclarations(t *testing.T) {
	src := "function f() {\n" +
		"  const a = 1;\n" +
		"  const b = 2;\n" +
		"  foo();\n" +
		"  fromHere();\n" +
		"  return a;\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  const a = 1;\n  return a;\n}\n", run.out)

	r := run.results[0]
	if r.Kept != 1 || r.Dropped != 2 {
		t.Fatalf("kept/dropped = %d/%d, want 1/2", r.Kept, r.Dropped)
	}
	if r.Lines != 7 {
		t.Fatalf("lines = %d, want 7", r.Lines)
	}
}

func TestCutLeavesNoBlankLineInPlaceOfMarker(t *testing.T) {
	src := "function f() {\n" +
		"  const a = 1;\n" +
		"\n" +
		"  const b = 2;\n" +
		"  foo();\n" +
		"\n" +
		"  fromHere();\n" +
		"\n" +
		"  return a + b;\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  const a = 1;\n\n  const b = 2;\n  return a + b;\n}\n", run.out)
}

func TestLivenessFollowsCallTargets(t *testing.T) {
	src := "function f() {\n" +
		"  function helper() { return 1; }\n" +
		"  class Unused {}\n" +
		"  let x;\n" +
		"  fromHere();\n" +
		"  x = helper();\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  function helper() { return 1; }\n  let x;\n  x = helper();\n}\n", run.out)
}

func TestLivenessIgnoresShadowedNames(t *testing.T) {
	src := "function f() {\n" +
		"  const a = 1;\n" +
		"  fromHere();\n" +
		"  {\n" +
		"    const a = 2;\n" +
		"    log(a);\n" +
		"  }\n" +
		"  [1].map((a) => a);\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  {\n    const a = 2;\n    log(a);\n  }\n  [1].map((a) => a);\n}\n", run.out)
}

func TestLivenessMarkerCalleeIsNotAReference(t *testing.T) {
	src := "function f() {\n" +
		"  const fromHere = () => {};\n" +
		"  fromHere();\n" +
		"  done();\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  done();\n}\n", run.out)
}

func TestLivenessTransitive(t *testing.T) {
	src := "function f() {\n" +
		"  const base = 1;\n" +
		"  const derived = base + 1;\n" +
		"  fromHere();\n" +
		"  return derived;\n" +
		"}\n"

	direct := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  const derived = base + 1;\n  return derived;\n}\n", direct.out)

	transitive := mustCut(t, src, cut.Options{Transitive: true})
	expectOutput(t, "function f() {\n  const base = 1;\n  const derived = base + 1;\n  return derived;\n}\n", transitive.out)
}

func TestMultiDeclaratorSplit(t *testing.T) {
	src := "function f() {\n" +
		"  // shared\n" +
		"  let a = 1, b = 2, { c, d } = obj;\n" +
		"  fromHere();\n" +
		"  use(b, d);\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  // shared\n  let b = 2, { c, d } = obj;\n  use(b, d);\n}\n", run.out)
}

func TestDestructuringAssignmentKeepsTarget(t *testing.T) {
	src := "function f() {\n" +
		"  let a, b;\n" +
		"  fromHere();\n" +
		"  [a] = g();\n" +
		"}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, "function f() {\n  let a;\n  [a] = g();\n}\n", run.out)
}

func TestPadKeepsLineCount(t *testing.T) {
	src := "function f() {\n" +
		"  const a = 1;\n" +
		"  const b = 2;\n" +
		"  fromHere();\n" +
		"  return a;\n" +
		"}\n" +
		"f();\n"
	run := mustCut(t, src, cut.Options{Pad: true})
	expectOutput(t, "function f() {\n  const a = 1;\n  return a;\n  ;\n  ;\n}\nf();\n", run.out)
}

func TestDuplicateMarker(t *testing.T) {
	src := "function f() {\n  fromHere();\n  a();\n  fromHere();\n}\n"
	_, err := runCut(t, src, cut.Options{})
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("expected a diagnostic error, got %v", err)
	}
	if d.Code != diag.CutDuplicateMarker {
		t.Fatalf("expected %s, got %s", diag.CutDuplicateMarker.ID(), d.Code.ID())
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first marker here" {
		t.Fatalf("expected a note pointing at the first marker, got %+v", d.Notes)
	}
}

func TestMarkerWithArgumentsIsNotAMarker(t *testing.T) {
	src := "function f() {\n  const a = 1;\n  fromHere(a);\n}\n"
	run := mustCut(t, src, cut.Options{})
	expectOutput(t, src, run.out)
	if run.bag.Len() == 0 {
		t.Fatalf("expected an informational diagnostic for the argument call")
	}
}

func TestNestedFunctions(t *testing.T) {
	src := "function outer() {\n" +
		"  const unused = 0;\n" +
		"  function inner() {\n" +
		"    const x = 1;\n" +
		"    fromHere();\n" +
		"    return 2;\n" +
		"  }\n" +
		"  fromHere();\n" +
		"  return inner();\n" +
		"}\n" +
		"function dropped() {}\n"
	run := mustCut(t, src, cut.Options{})
	want := "function outer() {\n" +
		"  function inner() {\n" +
		"    return 2;\n" +
		"  }\n" +
		"  return inner();\n" +
		"}\n" +
		"function dropped() {}\n"
	expectOutput(t, want, run.out)

	var funcs []string
	for _, r := range run.results {
		funcs = append(funcs, run.b.Name(run.b.Funcs.Get(r.Func).Name))
	}
	if want := []string{"outer", "inner"}; !reflect.DeepEqual(want, funcs) {
		deepequal.SideBySide(t, "rewritten functions", want, funcs)
		t.Fatalf("unexpected rewrite order")
	}
}

func TestCutIsIdempotent(t *testing.T) {
	src := "function f() {\n  const a = 1;\n  noise();\n  fromHere();\n  return a;\n}\n"
	first := mustCut(t, src, cut.Options{})
	second := mustCut(t, first.out, cut.Options{})
	if len(second.results) != 0 {
		t.Fatalf("second run rewrote %d functions", len(second.results))
	}
	expectOutput(t, first.out, second.out)
}
