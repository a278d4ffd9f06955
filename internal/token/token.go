package token

import (
	"hereafter/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a number, string or template literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, TemplateLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is an identifier or a keyword.
// Property names after '.' and object keys accept both.
func (t Token) IsWord() bool { return t.Kind == Ident || t.Kind.IsKeyword() }

// NewlineBefore reports whether a line terminator separates this token
// from the previous one. Automatic semicolon insertion relies on it.
func (t Token) NewlineBefore() bool {
	for _, tr := range t.Leading {
		if tr.Kind == TriviaNewline {
			return true
		}
		if tr.Kind == TriviaBlockComment && containsNewline(tr.Text) {
			return true
		}
	}
	return false
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}
