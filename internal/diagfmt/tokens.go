package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hereafter/internal/source"
	"hereafter/internal/token"
)

// TokenOutput is one token of `hereafter tokenize --format=json`.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
	// Newline marks a line break before the token, the input of
	// automatic semicolon insertion.
	Newline  bool     `json:"newline,omitempty"`
	Comments []string `json:"comments,omitempty"`
}

// untilEOF trims tokens after the first EOF.
func untilEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

func comments(tok token.Token) []string {
	var out []string
	for _, tr := range tok.Leading {
		if tr.Kind == token.TriviaLineComment || tr.Kind == token.TriviaBlockComment {
			out = append(out, tr.Text)
		}
	}
	return out
}

// FormatTokensPretty prints one token per line with its position.
// A leading "⏎" marks tokens preceded by a line break.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var sb strings.Builder
	for i, tok := range untilEOF(tokens) {
		start, end := fs.Resolve(tok.Span)
		nl := " "
		if tok.NewlineBefore() {
			nl = "⏎"
		}
		fmt.Fprintf(&sb, "%4d %s %-16s %d:%d-%d:%d", i+1, nl, tok.Kind, start.Line, start.Col, end.Line, end.Col)
		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		if c := comments(tok); len(c) > 0 {
			fmt.Fprintf(&sb, "  // %d comment(s)", len(c))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	tokens = untilEOF(tokens)
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Newline:  tok.NewlineBefore(),
			Comments: comments(tok),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
