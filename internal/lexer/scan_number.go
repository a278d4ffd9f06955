package lexer

import (
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

// scanNumber: 123, 1.5, .5, 1e10, 0x1F, 0o17, 0b101.
// Разделители '_' и BigInt-суффикс не поддерживаются.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		var digit func(byte) bool
		switch b1 {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = isOct
		case 'b', 'B':
			digit = isBin
		}
		if digit != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			n := 0
			for digit(lx.cursor.Peek()) && !lx.cursor.EOF() {
				lx.cursor.Bump()
				n++
			}
			tok := lx.emit(token.NumberLit, start)
			if n == 0 {
				lx.errLex(diag.LexBadNumber, tok.Span, "missing digits after radix prefix")
			}
			return lx.checkNumberEnd(tok)
		}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			tok := lx.emit(token.NumberLit, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "missing exponent digits")
			return tok
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.checkNumberEnd(lx.emit(token.NumberLit, start))
}

// число не может сразу переходить в идентификатор: 3in, 1x
func (lx *Lexer) checkNumberEnd(tok token.Token) token.Token {
	if b := lx.cursor.Peek(); !lx.cursor.EOF() && isIdentStartByte(b) {
		lx.errLex(diag.LexBadNumber, tok.Span, "identifier starts immediately after numeric literal")
	}
	return tok
}
