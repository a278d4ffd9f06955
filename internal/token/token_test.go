package token_test

import (
	"testing"

	"hereafter/internal/token"
)

func TestKeywordLookup(t *testing.T) {
	for word, want := range map[string]token.Kind{
		"function": token.KwFunction,
		"let":      token.KwLet,
		"typeof":   token.KwTypeof,
	} {
		got, ok := token.LookupKeyword(word)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v", word, got, ok)
		}
		if !got.IsKeyword() {
			t.Fatalf("%v must be a keyword", got)
		}
	}
	for _, word := range []string{"of", "from", "as", "fromHere", "goto", "label"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Fatalf("%q must stay an identifier", word)
		}
	}
}

func TestAssignOps(t *testing.T) {
	for _, k := range []token.Kind{token.Assign, token.PlusAssign, token.QuestionQAssign, token.UShrAssign} {
		if !k.IsAssignOp() {
			t.Fatalf("%v should be an assignment operator", k)
		}
	}
	for _, k := range []token.Kind{token.EqEq, token.FatArrow, token.Plus} {
		if k.IsAssignOp() {
			t.Fatalf("%v must not be an assignment operator", k)
		}
	}
}

func TestNewlineBefore(t *testing.T) {
	tok := token.Token{Kind: token.Ident, Leading: []token.Trivia{
		{Kind: token.TriviaSpace, Text: "  "},
		{Kind: token.TriviaBlockComment, Text: "/* a\nb */"},
	}}
	if !tok.NewlineBefore() {
		t.Fatal("multi-line block comment counts as a line terminator")
	}
	tok.Leading = []token.Trivia{{Kind: token.TriviaLineComment, Text: "// x"}}
	if tok.NewlineBefore() {
		t.Fatal("line comment alone does not include the newline")
	}
}

func TestKindString(t *testing.T) {
	if token.FatArrow.String() != "=>" || token.KwInstanceof.String() != "instanceof" {
		t.Fatalf("unexpected names: %s %s", token.FatArrow, token.KwInstanceof)
	}
}
