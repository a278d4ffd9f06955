package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := setupRoot()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTransformSingleFileToStdout(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "a.js", "function f() {\n  const x = 1;\n  fromHere();\n  go();\n}\n")

	out, _, err := execute(t, "transform", "a.js")
	if err != nil {
		t.Fatal(err)
	}
	if out != "function f() {\n  go();\n}\n" {
		t.Fatalf("stdout:\n%s", out)
	}
}

func TestTransformDirectoryIntoOut(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "src/a.js", "function f() {\n  const x = 1;\n  fromHere();\n  go(x);\n}\n")
	writeFile(t, "src/node_modules/skip.js", "fromHere();\n")

	if _, _, err := execute(t, "transform", "--quiet", "--out", "dist", "src"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join("dist", "a.js"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "function f() {\n  const x = 1;\n  go(x);\n}\n" {
		t.Fatalf("dist/a.js:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join("dist", "node_modules")); err == nil {
		t.Fatalf("excluded directory was transformed")
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "bad.js", "function f() {\n  let a = label();\n  goto(b);\n}\n")

	_, stderr, err := execute(t, "check", "bad.js")
	if !errors.Is(err, errDiagnostics) || exitCode(err) != 2 {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	for _, want := range []string{"JMP5003", "1 files: 0 would change, 1 failed"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("stderr lacks %q:\n%s", want, stderr)
		}
	}
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if _, _, err := execute(t, "init", "proj"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join("proj", "hereafter.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fromHere") {
		t.Fatalf("config lacks the default vocabulary:\n%s", data)
	}
	if _, _, err := execute(t, "init", "proj"); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init should refuse, got %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected an error")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Fatalf("explicit modes must win")
	}
}
