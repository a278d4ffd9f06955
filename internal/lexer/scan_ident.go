package lexer

import (
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Token.Text: ровно исходный срез; нормализацию делает Interner.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.emit(token.Invalid, start)
	}
	if r == '\\' {
		// \uXXXX в идентификаторах не поддерживаем
		lx.cursor.Bump()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadEscape, tok.Span, "unicode escapes in identifiers are not supported")
		return tok
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+tok.Text)
			return tok
		}
		lx.bumpRune()
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) || lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
