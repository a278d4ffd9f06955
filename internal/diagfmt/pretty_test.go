package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"hereafter/internal/diag"
	"hereafter/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let x = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.js", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 28},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute", mode: PathModeAbsolute, contains: "/home/user/project/src/test.js:1:9"},
		{name: "Relative", mode: PathModeRelative, contains: "src/test.js:1:9"},
		{name: "Basename", mode: PathModeBasename, contains: "test.js:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected %q in output, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1002: Unterminated string literal") {
				t.Errorf("expected header in output, got:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "test.js", expected: "test.js:1:9"},
		{name: "Long absolute path - basename", path: "/very/long/absolute/path/to/some/nested/directory/file.js", expected: " file.js:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fileID := fs.AddVirtual(tt.path, []byte("let x = 42\n"))
			bag := diag.NewBag(1)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 8, End: 10}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := " " + buf.String()
			if !strings.Contains(output, tt.expected) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyCaretsAndContext(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("function f() {\n\tgoto(nowhere);\n}\n")
	fileID := fs.AddVirtual("a.js", content)
	start := uint32(strings.Index(string(content), "nowhere"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.JmpUndefinedLabel, source.Span{File: fileID, Start: start, End: start + 7}, "undefined label nowhere"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")

	want := []string{
		"a.js:2:7: ERROR JMP5003: undefined label nowhere",
		"1 | function f() {",
		"2 |     goto(nowhere);",
		"  |          ^~~~~~~",
		"3 | }",
	}
	for i, w := range want {
		if i >= len(lines) || lines[i] != w {
			t.Fatalf("line %d: want %q, got output:\n%s", i, w, buf.String())
		}
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("let a = label();\nlet a = label();\n"))

	d := diag.New(diag.SevError, diag.JmpDuplicateLabel, source.Span{File: fileID, Start: 21, End: 22}, "duplicate label a")
	d = d.WithNote(source.Span{File: fileID, Start: 4, End: 5}, "first declared here")
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes must be hidden by default, got:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: test.js:1:5: first declared here") {
		t.Fatalf("expected note with location, got:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.js", []byte("x;\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 1}, "odd"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes:\n%q", colored.String())
	}
}
