package lexer_test

import (
	"strings"
	"testing"

	"hereafter/internal/diag"
	"hereafter/internal/lexer"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

func makeTestLexer(src string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(100)
	return lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func collect(lx *lexer.Lexer) []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(src)
	toks := collect(lx)
	want = append(want, token.EOF)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %+v", src, bag.Items())
	}
	return toks
}

func TestLexMarkerStatement(t *testing.T) {
	toks := expectKinds(t, "const a = 1;\nfromHere();",
		token.KwConst, token.Ident, token.Assign, token.NumberLit, token.Semicolon,
		token.Ident, token.LParen, token.RParen, token.Semicolon)
	if toks[5].Text != "fromHere" {
		t.Fatalf("ident text = %q", toks[5].Text)
	}
	if !toks[5].NewlineBefore() {
		t.Fatal("fromHere is preceded by a newline")
	}
	if toks[1].NewlineBefore() {
		t.Fatal("a is not preceded by a newline")
	}
}

func TestLexOperatorsGreedy(t *testing.T) {
	expectKinds(t, "a >>>= b === c !== d ?? e ?. f ** g => h ...i",
		token.Ident, token.UShrAssign, token.Ident, token.EqEqEq, token.Ident, token.BangEqEq,
		token.Ident, token.QuestionQuestion, token.Ident, token.QuestionDot, token.Ident,
		token.StarStar, token.Ident, token.FatArrow, token.Ident, token.Ellipsis, token.Ident)
}

func TestLexOptionalChainVersusTernary(t *testing.T) {
	expectKinds(t, "a?.5:1",
		token.Ident, token.Question, token.NumberLit, token.Colon, token.NumberLit)
}

func TestLexNumbers(t *testing.T) {
	toks := expectKinds(t, "0 12 3.5 .25 1e9 2E-3 0xFF 0o17 0b101",
		token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit,
		token.NumberLit, token.NumberLit, token.NumberLit, token.NumberLit)
	if toks[6].Text != "0xFF" {
		t.Fatalf("hex text = %q", toks[6].Text)
	}
}

func TestLexStringsAndTemplates(t *testing.T) {
	toks := expectKinds(t, "'a\\'b' \"c\" `x ${ {a: `y${1}`}.a } z`",
		token.StringLit, token.StringLit, token.TemplateLit)
	if !strings.HasSuffix(toks[2].Text, "z`") {
		t.Fatalf("template text = %q", toks[2].Text)
	}
}

func TestLexCommentsAreTrivia(t *testing.T) {
	toks := expectKinds(t, "a /* one */ // two\n b", token.Ident, token.Ident)
	var kinds []token.TriviaKind
	for _, tr := range toks[1].Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaBlockComment, token.TriviaSpace,
		token.TriviaLineComment, token.TriviaNewline, token.TriviaSpace}
	if len(kinds) != len(want) {
		t.Fatalf("leading = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("leading = %v, want %v", kinds, want)
		}
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"'abc", diag.LexUnterminatedString},
		{"\"ab\ncd\"", diag.LexUnterminatedString},
		{"`abc ${x", diag.LexUnterminatedTemplate},
		{"/* never closed", diag.LexUnterminatedBlockComment},
		{"a # b", diag.LexUnknownChar},
		{"0x", diag.LexBadNumber},
		{"3in", diag.LexBadNumber},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.src)
		collect(lx)
		if bag.Len() == 0 {
			t.Fatalf("%q: expected diagnostic %s", tc.src, tc.code.ID())
		}
		if got := bag.Items()[0].Code; got != tc.code {
			t.Fatalf("%q: code = %s, want %s", tc.src, got.ID(), tc.code.ID())
		}
	}
}

func TestPeekSnapshotRestore(t *testing.T) {
	lx, _ := makeTestLexer("(a, b) => a")
	if lx.Peek().Kind != token.LParen {
		t.Fatal("Peek must see '('")
	}
	st := lx.Snapshot()
	for i := 0; i < 5; i++ {
		lx.Next()
	}
	if tok := lx.Next(); tok.Kind != token.FatArrow {
		t.Fatalf("token = %v, want =>", tok.Kind)
	}
	lx.Restore(st)
	if tok := lx.Next(); tok.Kind != token.LParen {
		t.Fatalf("after Restore token = %v, want (", tok.Kind)
	}
}

func TestRangeLexer(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.js", []byte("`a ${x + y} b`"))
	lx := lexer.NewRange(fs.Get(id), 5, 10, lexer.Options{})
	got := kinds(collect(lx))
	want := []token.Kind{token.Ident, token.Plus, token.Ident, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
