package interp_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/interp"
	"hereafter/internal/parser"
	"hereafter/internal/source"
)

func parse(t *testing.T, src string) *ast.Builder {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(20)
	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 20, Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return b
}

func run(t *testing.T, src string, opts interp.Options) (string, error) {
	t.Helper()
	var out strings.Builder
	err := interp.New(parse(t, src), &out, opts).Run(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, src string, opts interp.Options) string {
	t.Helper()
	out, err := run(t, src, opts)
	if err != nil {
		t.Fatalf("run: %v\noutput so far:\n%s", err, out)
	}
	return out
}

func expectCode(t *testing.T, err error, code interp.ErrorCode) *interp.RuntimeError {
	t.Helper()
	var rerr *interp.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RuntimeError %s, got %v", code, err)
	}
	if rerr.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code, rerr.Code, rerr.Message)
	}
	return rerr
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic",
			src:  "console.log(1 + 2, 'a' + 1, 7 / 2, 2 ** 10, -7 % 3, 0.1 + 0.2);",
			want: "3 a1 3.5 1024 -1 0.30000000000000004\n",
		},
		{
			name: "inspect",
			src:  "console.log([1, 'x'], { a: 1, b: [2] }, null, undefined, true);",
			want: "[ 1, 'x' ] { a: 1, b: [ 2 ] } null undefined true\n",
		},
		{
			name: "typeof",
			src:  "function f() {}\nconsole.log(typeof missing, typeof 1, typeof 's', typeof null, typeof f);",
			want: "undefined number string object function\n",
		},
		{
			name: "closures",
			src: `function counter() {
  let n = 0;
  return () => ++n;
}
const c = counter();
c();
c();
console.log(c());`,
			want: "3\n",
		},
		{
			name: "recursion",
			src:  "function fib(n) { return n < 2 ? n : fib(n - 1) + fib(n - 2); }\nconsole.log(fib(15));",
			want: "610\n",
		},
		{
			name: "per-iteration let",
			src: `const fs = [];
for (let i = 0; i < 3; i++) fs.push(() => i);
console.log(fs.map((f) => f()).join(' '));`,
			want: "0 1 2\n",
		},
		{
			name: "labelled loops",
			src: `outer: for (let i = 0; i < 3; i++) {
  for (let j = 0; j < 3; j++) {
    if (j === 1) continue outer;
    if (i === 2) break outer;
    console.log(i, j);
  }
}`,
			want: "0 0\n1 0\n",
		},
		{
			name: "switch fallthrough",
			src: `function f(x) {
  const out = [];
  switch (x) {
    case 1:
      out.push('one');
    case 2:
      out.push('two');
      break;
    default:
      out.push('other');
  }
  return out.join(',');
}
console.log(f(1), f(2), f(3));`,
			want: "one,two two other\n",
		},
		{
			name: "try catch finally",
			src: `function f() {
  try {
    throw new Error('boom');
  } catch (e) {
    console.log('caught', e.message);
    return 1;
  } finally {
    console.log('finally');
  }
}
console.log(f());`,
			want: "caught boom\nfinally\n1\n",
		},
		{
			name: "destructuring",
			src: `const { a, b: [x, , y = 5], ...rest } = { a: 1, b: [2, 3], c: 4, d: 5 };
let p, q;
[p, q] = [q, p];
console.log(a, x, y, rest, p);`,
			want: "1 2 5 { c: 4, d: 5 } undefined\n",
		},
		{
			name: "var hoisting",
			src: `function f() {
  console.log(v, g());
  var v = 1;
  function g() { return 2; }
  return v;
}
console.log(f());`,
			want: "undefined 2\n1\n",
		},
		{
			name: "string methods",
			src:  "const s = ' Hello ';\nconsole.log(s.trim().toUpperCase(), 'a-b-c'.split('-').length, 'x'.padStart(3, '.'), 'abc'.slice(-2));",
			want: "HELLO 3 ..x bc\n",
		},
		{
			name: "template",
			src:  "const n = 2;\nconsole.log(`n=${n}, twice=${n * 2}`);",
			want: "n=2, twice=4\n",
		},
		{
			name: "new and this",
			src: `function Point(x) { this.x = x; }
const p = new Point(3);
console.log(p.x, p instanceof Point, new Error('e') instanceof Error);`,
			want: "3 true true\n",
		},
		{
			name: "reserved marker is a no-op",
			src:  "function f() {\n  fromHere();\n  console.log('still runs');\n}\nf();",
			want: "still runs\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.src, interp.Options{})
			if got != tt.want {
				t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestUncaughtException(t *testing.T) {
	_, err := run(t, "function f() { null.x; }\nf();", interp.Options{})
	rerr := expectCode(t, err, interp.ErrUncaught)
	if !strings.Contains(rerr.Message, "Cannot read properties of null (reading 'x')") {
		t.Fatalf("unexpected message %q", rerr.Message)
	}
	if len(rerr.Backtrace) != 1 || rerr.Backtrace[0].FuncName != "f" {
		t.Fatalf("unexpected backtrace %+v", rerr.Backtrace)
	}
}

func TestStepLimit(t *testing.T) {
	_, err := run(t, "while (true) {}", interp.Options{MaxSteps: 1000})
	expectCode(t, err, interp.ErrStepLimit)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out strings.Builder
	err := interp.New(parse(t, "while (true) {}"), &out, interp.Options{}).Run(ctx)
	expectCode(t, err, interp.ErrCancelled)
}

func TestClassesUnsupported(t *testing.T) {
	_, err := run(t, "class A {}", interp.Options{})
	expectCode(t, err, interp.ErrUnsupported)
}

func TestCall(t *testing.T) {
	var out strings.Builder
	in := interp.New(parse(t, "function add(a, b) { return a + b; }"), &out, interp.Options{})
	if err := in.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, err := in.Call(context.Background(), "add", interp.MakeNumber(2), interp.MakeNumber(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != interp.VKNumber || v.Num != 5 {
		t.Fatalf("add(2, 3) = %s", interp.Inspect(v))
	}
	_, err = in.Call(context.Background(), "missing")
	expectCode(t, err, interp.ErrNoFunction)
}

func TestDirectGoto(t *testing.T) {
	src := `function count() {
  let i = 0;
  let again = label();
  i++;
  if (i < 3) goto(again);
  goto(done);
  let done = label();
  console.log('i =', i);
  return i;
}
console.log(count());`
	got := mustRun(t, src, interp.Options{Direct: true})
	if want := "i = 3\n3\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestDirectLabelRunEndsAtNextLabel(t *testing.T) {
	src := `function f(jump) {
  console.log('s');
  if (jump) goto(b);
  let a = label();
  console.log('a');
  let b = label();
  console.log('b');
}
f(false);
f(true);`
	got := mustRun(t, src, interp.Options{Direct: true})
	if want := "s\na\ns\nb\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestDirectForwardGotoSkipsCode(t *testing.T) {
	src := `function f() {
  console.log('a');
  goto(end);
  console.log('skipped');
  let end = label();
  console.log('b');
}
f();`
	got := mustRun(t, src, interp.Options{Direct: true})
	if want := "a\nb\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestDirectGotoLeavesNestedLoops(t *testing.T) {
	src := `function f() {
  let n = 0;
  for (let i = 0; i < 10; i++) {
    while (true) {
      n++;
      if (n > 4) goto(out);
      break;
    }
  }
  let out = label();
  console.log(n);
}
f();`
	got := mustRun(t, src, interp.Options{Direct: true})
	if want := "5\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestGotoWithoutDirectIsUndefined(t *testing.T) {
	_, err := run(t, "function f() { let l = label(); }\nf();", interp.Options{})
	rerr := expectCode(t, err, interp.ErrUncaught)
	if !strings.Contains(rerr.Message, "label is not defined") {
		t.Fatalf("unexpected message %q", rerr.Message)
	}
}
