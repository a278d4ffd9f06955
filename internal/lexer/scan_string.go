package lexer

import (
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

// scanString сканирует '...' или "...". Escape-последовательности декодирует парсер.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // открывающая кавычка
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == '\n' {
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanTemplate сканирует шаблон целиком, включая вложенные ${...}.
// Внутри подстановок отслеживаем скобки, строки и вложенные шаблоны.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`'
	if !lx.skipTemplateBody() {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedTemplate, tok.Span, "unterminated template literal")
		return tok
	}
	return lx.emit(token.TemplateLit, start)
}

// skipTemplateBody съедает всё до закрывающего '`'. Возвращает false на EOF.
func (lx *Lexer) skipTemplateBody() bool {
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '\\':
			lx.cursor.Bump()
		case '`':
			return true
		case '$':
			if lx.cursor.Peek() == '{' {
				lx.cursor.Bump()
				if !lx.skipSubstitution() {
					return false
				}
			}
		}
	}
	return false
}

func (lx *Lexer) skipSubstitution() bool {
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return true
			}
		case '"', '\'':
			for !lx.cursor.EOF() {
				c := lx.cursor.Bump()
				if c == '\\' {
					lx.cursor.Bump()
					continue
				}
				if c == b || c == '\n' {
					break
				}
			}
		case '`':
			if !lx.skipTemplateBody() {
				return false
			}
		}
	}
	return false
}
