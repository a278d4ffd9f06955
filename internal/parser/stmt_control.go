package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

// parseParenExpr: '(' expr ')'.
func (p *Parser) parseParenExpr() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoExprID, false
	}
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return ast.NoExprID, false
	}
	return expr, true
}

func (p *Parser) parseLoopBody() (ast.StmtID, bool) {
	p.fn.loops++
	p.fn.breakable++
	body, ok := p.parseStmt()
	p.fn.loops--
	p.fn.breakable--
	return body, ok
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if p.eat(token.KwElse) {
		els, ok = p.parseStmt()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(kw.Span), cond, then, els), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(p.spanFrom(kw.Span), cond, body), true
}

func (p *Parser) parseDoWhile() (ast.StmtID, bool) {
	kw := p.advance()
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	// после do-while ';' всегда необязательна
	p.eat(token.Semicolon)
	return p.arenas.Stmts.NewDoWhile(p.spanFrom(kw.Span), body, cond), true
}

// parseFor: классический for(;;), for-in и for-of.
func (p *Parser) parseFor() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for"); !ok {
		return ast.NoStmtID, false
	}

	init := ast.NoStmtID
	switch {
	case p.at(token.Semicolon):
	case p.atOr(token.KwVar, token.KwLet, token.KwConst):
		declTok := p.advance()
		kind := varKindOf(declTok.Kind)
		p.noIn = true
		decls, ok := p.parseDeclarators(kind, true)
		p.noIn = false
		if !ok {
			return ast.NoStmtID, false
		}
		if p.at(token.KwIn) || p.atWord("of") {
			if len(decls) != 1 || decls[0].Init.IsValid() {
				p.errAt(diag.SynBadPattern, decls[0].Span, "for-in/of head must declare a single binding without initializer")
			}
			return p.parseForInRest(kw, kind, decls[0].Target)
		}
		for _, d := range decls {
			if kind == ast.VarConst && !d.Init.IsValid() {
				p.errAt(diag.SynConstWithoutInit, d.Span, "missing initializer in const declaration")
			}
		}
		init = p.arenas.Stmts.NewVar(p.spanFrom(declTok.Span), kind, decls)
	default:
		start := p.lx.Peek().Span
		p.noIn = true
		expr, ok := p.parseExpr()
		p.noIn = false
		if !ok {
			return ast.NoStmtID, false
		}
		if p.at(token.KwIn) || p.atWord("of") {
			target, ok := p.exprToPattern(expr)
			if !ok {
				return ast.NoStmtID, false
			}
			return p.parseForInRest(kw, ast.VarNone, target)
		}
		init = p.arenas.Stmts.NewExpr(p.spanFrom(start), expr)
	}

	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for header"); !ok {
		return ast.NoStmtID, false
	}
	cond := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if cond, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for header"); !ok {
		return ast.NoStmtID, false
	}
	update := ast.NoExprID
	if !p.at(token.RParen) {
		var ok bool
		if update, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after for header"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(p.spanFrom(kw.Span), ast.ForData{
		Init:   init,
		Cond:   cond,
		Update: update,
		Body:   body,
	}), true
}

func (p *Parser) parseForInRest(kw token.Token, kind ast.VarKind, target ast.PatID) (ast.StmtID, bool) {
	of := !p.at(token.KwIn)
	p.advance() // in | of
	var (
		right ast.ExprID
		ok    bool
	)
	if of {
		right, ok = p.parseAssign()
	} else {
		right, ok = p.parseExpr()
	}
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after for header"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewForIn(p.spanFrom(kw.Span), ast.ForInData{
		Of:     of,
		Kind:   kind,
		Target: target,
		Right:  right,
		Body:   body,
	}), true
}

// parseTry: try { } catch (param) { } finally { }.
func (p *Parser) parseTry() (ast.StmtID, bool) {
	kw := p.advance()
	block, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.TryData{Block: block}
	if p.eat(token.KwCatch) {
		if p.eat(token.LParen) {
			if data.Param, ok = p.parseBindingTarget(); !ok {
				return ast.NoStmtID, false
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after catch parameter"); !ok {
				return ast.NoStmtID, false
			}
		}
		if data.Handler, ok = p.parseBlock(); !ok {
			return ast.NoStmtID, false
		}
	}
	if p.eat(token.KwFinally) {
		if data.Finalizer, ok = p.parseBlock(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !data.Handler.IsValid() && !data.Finalizer.IsValid() {
		p.err(diag.SynUnexpectedToken, "missing catch or finally after try")
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewTry(p.spanFrom(kw.Span), data), true
}

func (p *Parser) parseSwitch() (ast.StmtID, bool) {
	kw := p.advance()
	disc, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch"); !ok {
		return ast.NoStmtID, false
	}
	var cases []ast.SwitchCase
	seenDefault := false
	p.fn.breakable++
	defer func() { p.fn.breakable-- }()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.lx.Peek().Span
		test := ast.NoExprID
		switch {
		case p.eat(token.KwCase):
			if test, ok = p.parseExpr(); !ok {
				return ast.NoStmtID, false
			}
		case p.eat(token.KwDefault):
			if seenDefault {
				p.errAt(diag.SynUnexpectedToken, start, "more than one default clause in switch")
			}
			seenDefault = true
		default:
			p.err(diag.SynUnexpectedToken, "expected 'case' or 'default'")
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case"); !ok {
			return ast.NoStmtID, false
		}
		body := p.parseStmtList(token.RBrace, token.KwCase, token.KwDefault)
		cases = append(cases, ast.SwitchCase{Span: p.spanFrom(start), Test: test, Body: body})
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close switch"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewSwitch(p.spanFrom(kw.Span), disc, cases), true
}
