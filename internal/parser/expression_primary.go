package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

// parsePrimary: идентификаторы, литералы, скобки, массивы, объекты, function и class.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	exprs := p.arenas.Exprs
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return exprs.NewIdent(tok.Span, p.intern(tok.Text)), true
	case token.NumberLit:
		p.advance()
		return exprs.NewLit(tok.Span, ast.LitData{Kind: ast.LitNumber, Raw: tok.Text, Num: p.parseNumber(tok)}), true
	case token.StringLit:
		p.advance()
		return exprs.NewLit(tok.Span, ast.LitData{Kind: ast.LitString, Raw: tok.Text, Str: p.decodeString(tok)}), true
	case token.TemplateLit:
		p.advance()
		return p.parseTemplate(tok)
	case token.KwTrue, token.KwFalse:
		p.advance()
		return exprs.NewLit(tok.Span, ast.LitData{Kind: ast.LitBool, Raw: tok.Text, Bool: tok.Kind == token.KwTrue}), true
	case token.KwNull:
		p.advance()
		return exprs.NewLit(tok.Span, ast.LitData{Kind: ast.LitNull, Raw: tok.Text}), true
	case token.KwThis:
		p.advance()
		return exprs.NewThis(tok.Span), true
	case token.KwSuper:
		p.advance()
		return exprs.NewSuper(tok.Span), true
	case token.LParen:
		return p.parseParenthesized()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.KwFunction:
		fn, ok := p.parseFunction(false)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewFunc(p.spanFrom(tok.Span), fn, false), true
	case token.KwClass:
		cls, ok := p.parseClass(false)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewClass(p.spanFrom(tok.Span), cls), true
	case token.Invalid:
		// лексер уже сообщил об ошибке
		p.advance()
		return ast.NoExprID, false
	}
	p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
	return ast.NoExprID, false
}

func (p *Parser) parseParenthesized() (ast.ExprID, bool) {
	open := p.advance()
	savedNoIn := p.noIn
	p.noIn = false
	inner, ok := p.parseExpr()
	p.noIn = savedNoIn
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewParen(p.spanFrom(open.Span), inner), true
}

// parseArrayLiteral: элементы, дырки и ...spread.
func (p *Parser) parseArrayLiteral() (ast.ExprID, bool) {
	open := p.advance()
	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()
	var elems []ast.ExprID
	for !p.at(token.RBracket) {
		if p.eat(token.Comma) {
			elems = append(elems, ast.NoExprID)
			continue
		}
		elem, ok := p.parseSpreadOrAssign()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, elem)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewArray(p.spanFrom(open.Span), elems), true
}

// parseObjectLiteral: свойства, сокращения, методы, аксессоры и ...spread.
// `{ a = 1 }` принимается как покрывающая форма для деструктуризации.
func (p *Parser) parseObjectLiteral() (ast.ExprID, bool) {
	open := p.advance()
	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()
	var props []ast.Property
	for !p.at(token.RBrace) {
		prop, ok := p.parseProperty()
		if !ok {
			return ast.NoExprID, false
		}
		props = append(props, prop)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close object"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewObject(p.spanFrom(open.Span), props), true
}

func (p *Parser) parseProperty() (ast.Property, bool) {
	start := p.lx.Peek()
	if start.Kind == token.Ellipsis {
		p.advance()
		x, ok := p.parseAssign()
		if !ok {
			return ast.Property{}, false
		}
		return ast.Property{Kind: ast.PropSpread, Value: x, Span: p.spanFrom(start.Span)}, true
	}

	kind := ast.PropInit
	if (p.atWord("get") || p.atWord("set")) && !p.nextIs(token.LParen, token.Colon, token.Comma, token.RBrace, token.Assign) {
		if p.advance().Text == "get" {
			kind = ast.PropGet
		} else {
			kind = ast.PropSet
		}
	}
	keyTok := p.lx.Peek()
	key, ok := p.parsePropKey()
	if !ok {
		return ast.Property{}, false
	}

	switch {
	case p.at(token.LParen):
		if kind == ast.PropInit {
			kind = ast.PropMethod
		}
		fn, ok := p.parseMethod(key.Span)
		if !ok {
			return ast.Property{}, false
		}
		return ast.Property{Kind: kind, Key: key, Func: fn, Span: p.spanFrom(start.Span)}, true
	case kind != ast.PropInit:
		p.err(diag.SynUnexpectedToken, "expected '(' after accessor name")
		return ast.Property{}, false
	case p.eat(token.Colon):
		value, ok := p.parseAssign()
		if !ok {
			return ast.Property{}, false
		}
		return ast.Property{Kind: ast.PropInit, Key: key, Value: value, Span: p.spanFrom(start.Span)}, true
	case keyTok.Kind == token.Ident:
		ident := p.arenas.Exprs.NewIdent(keyTok.Span, p.intern(keyTok.Text))
		value := ident
		if p.eat(token.Assign) {
			def, ok := p.parseAssign()
			if !ok {
				return ast.Property{}, false
			}
			value = p.arenas.Exprs.NewAssign(p.spanFrom(keyTok.Span), ast.AssignData{Op: ast.AssignPlain, Target: ident, Value: def})
		}
		return ast.Property{Kind: ast.PropShorthand, Key: key, Value: value, Span: p.spanFrom(start.Span)}, true
	}
	p.err(diag.SynUnexpectedToken, "expected ':' after property name")
	return ast.Property{}, false
}
