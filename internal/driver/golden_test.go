package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// goldenCase is one txtar archive under testdata/golden.
type goldenCase struct {
	name     string
	opts     Options
	input    []byte
	output   []byte
	contains []string
	errCode  string
}

func loadGolden(t *testing.T, path string) goldenCase {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	gc := goldenCase{name: strings.TrimSuffix(filepath.Base(path), ".txtar")}
	for _, line := range strings.Split(string(ar.Comment), "\n") {
		rest, ok := strings.CutPrefix(line, "options:")
		if !ok {
			continue
		}
		for _, opt := range strings.Fields(rest) {
			switch opt {
			case "pad":
				gc.opts.Cut.Pad = true
			case "transitive":
				gc.opts.Cut.Transitive = true
			case "skip-cut":
				gc.opts.SkipCut = true
			case "skip-jump":
				gc.opts.SkipJump = true
			default:
				t.Fatalf("%s: unknown option %q", path, opt)
			}
		}
	}
	for _, f := range ar.Files {
		switch f.Name {
		case "input.js":
			gc.input = f.Data
		case "output.js":
			gc.output = f.Data
		case "contains":
			for _, line := range strings.Split(strings.TrimSpace(string(f.Data)), "\n") {
				gc.contains = append(gc.contains, line)
			}
		case "error":
			gc.errCode = strings.TrimSpace(string(f.Data))
		default:
			t.Fatalf("%s: unexpected section %q", path, f.Name)
		}
	}
	if gc.input == nil {
		t.Fatalf("%s: missing input.js", path)
	}
	return gc
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "golden", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden cases")
	}
	for _, path := range paths {
		gc := loadGolden(t, path)
		t.Run(gc.name, func(t *testing.T) {
			_, res, err := TransformSource(context.Background(), "input.js", gc.input, gc.opts)
			if err != nil {
				t.Fatalf("transform: %v", err)
			}
			if gc.errCode != "" {
				if !res.Failed() {
					t.Fatalf("expected %s, got output:\n%s", gc.errCode, res.Output)
				}
				if got := res.Bag.Items()[0].Code.ID(); got != gc.errCode {
					t.Fatalf("expected %s, got %s", gc.errCode, got)
				}
				if res.Output != nil {
					t.Fatalf("failed file must not produce output")
				}
				return
			}
			if res.Failed() {
				t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
			}
			if gc.output != nil && !bytes.Equal(res.Output, gc.output) {
				t.Fatalf("output mismatch:\nwant:\n%s\ngot:\n%s", gc.output, res.Output)
			}
			for _, want := range gc.contains {
				if !bytes.Contains(res.Output, []byte(want)) {
					t.Errorf("output lacks %q:\n%s", want, res.Output)
				}
			}
			if res.Changed != !bytes.Equal(res.Output, gc.input) {
				t.Fatalf("Changed = %v disagrees with output", res.Changed)
			}
		})
	}
}

func TestCutIdempotent(t *testing.T) {
	src := []byte("function f() {\n" +
		"  const a = 1;\n" +
		"  let b = 2, c = 3;\n" +
		"  fromHere();\n" +
		"  return a + c;\n" +
		"}\n")
	for _, pad := range []bool{false, true} {
		opts := Options{}
		opts.Cut.Pad = pad
		_, first, err := TransformSource(context.Background(), "a.js", src, opts)
		if err != nil || first.Failed() {
			t.Fatalf("first pass: %v %v", err, first.Bag.Items())
		}
		if first.CutFuncs != 1 {
			t.Fatalf("pad=%v: first pass rewrote %d functions", pad, first.CutFuncs)
		}
		_, second, err := TransformSource(context.Background(), "a.js", first.Output, opts)
		if err != nil || second.Failed() {
			t.Fatalf("second pass: %v %v", err, second.Bag.Items())
		}
		if second.CutFuncs != 0 || second.Changed {
			t.Fatalf("pad=%v: second pass changed the file:\n%s", pad, second.Output)
		}
		if !bytes.Equal(first.Output, second.Output) {
			t.Fatalf("pad=%v: outputs differ", pad)
		}
	}
}

func TestTimingsDiagnostic(t *testing.T) {
	src := []byte("function f() {\n  fromHere();\n  g();\n}\n")
	_, res, err := TransformSource(context.Background(), "a.js", src, Options{Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Timing == nil || len(res.Timing.Phases) == 0 {
		t.Fatalf("expected phase timings")
	}
	items := res.Bag.Items()
	if len(items) == 0 || items[len(items)-1].Code.ID() != "OBS8001" {
		t.Fatalf("expected a timings diagnostic, got %v", items)
	}
	if res.Failed() {
		t.Fatalf("timings must not fail the file")
	}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}
