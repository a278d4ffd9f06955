package parser

import (
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// spanFrom: от начала start до конца последнего съеденного токена.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
}

// getDiagnosticSpan: возвращает лучший span для диагностики.
// На EOF указываем сразу за последним токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// eat съедает токен k, если он следующий.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// consumeSemicolon завершает оператор: явная ';' или автоматическая вставка
// перед '}', EOF и токеном на новой строке.
func (p *Parser) consumeSemicolon() bool {
	if p.eat(token.Semicolon) {
		return true
	}
	if p.canInsertSemicolon() {
		return true
	}
	p.err(diag.SynExpectSemicolon, "expected ';', got \""+p.lx.Peek().Text+"\"")
	return false
}

func (p *Parser) canInsertSemicolon() bool {
	tok := p.lx.Peek()
	return tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.NewlineBefore()
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter != nil {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		if !p.opts.Enough() || sev != diag.SevError {
			p.opts.Reporter.Report(code, sev, sp, msg, nil)
			return true
		}
		return false // достигли максимального количества ошибок
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	return false
}

// docSpan: комментарии, стоящие на отдельных строках перед токеном.
func docSpan(tok token.Token) source.Span {
	seenNewline := false
	for _, tr := range tok.Leading {
		switch tr.Kind {
		case token.TriviaNewline:
			seenNewline = true
		case token.TriviaLineComment, token.TriviaBlockComment:
			if seenNewline || tr.Span.Start == 0 {
				return source.Span{File: tok.Span.File, Start: tr.Span.Start, End: tok.Span.Start}
			}
		}
	}
	return source.Span{}
}
