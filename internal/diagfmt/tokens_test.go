package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"hereafter/internal/source"
	"hereafter/internal/token"
)

func sampleTokens(fs *source.FileSet) []token.Token {
	id := fs.AddVirtual("t.js", []byte("a\n// c\nb"))
	return []token.Token{
		{Kind: token.Ident, Text: "a", Span: source.Span{File: id, Start: 0, End: 1}},
		{Kind: token.Ident, Text: "b", Span: source.Span{File: id, Start: 7, End: 8}, Leading: []token.Trivia{
			{Kind: token.TriviaNewline},
			{Kind: token.TriviaLineComment, Text: "// c"},
			{Kind: token.TriviaNewline},
		}},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 8, End: 8}},
		{Kind: token.Ident, Text: "ignored"},
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, sampleTokens(fs)); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out) != 3 {
		t.Fatalf("tokens after EOF must be dropped, got %d", len(out))
	}
	if out[0].Newline || !out[1].Newline {
		t.Fatalf("newline flags = %v/%v", out[0].Newline, out[1].Newline)
	}
	if len(out[1].Comments) != 1 || out[1].Comments[0] != "// c" {
		t.Fatalf("comments = %v", out[1].Comments)
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, sampleTokens(fs), fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "⏎") || !strings.Contains(lines[1], "3:1-3:2") {
		t.Fatalf("second line = %q", lines[1])
	}
}
