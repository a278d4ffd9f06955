package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

// parseBindingTarget: идентификатор, [ ... ] или { ... } в объявлении.
func (p *Parser) parseBindingTarget() (ast.PatID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Pats.NewIdent(tok.Span, p.intern(tok.Text)), true
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	}
	p.err(diag.SynBadPattern, "expected binding name or pattern, got \""+tok.Text+"\"")
	return ast.NoPatID, false
}

// parseBindingElement: цель с необязательным `= default`.
func (p *Parser) parseBindingElement() (ast.PatID, bool) {
	target, ok := p.parseBindingTarget()
	if !ok {
		return ast.NoPatID, false
	}
	if !p.eat(token.Assign) {
		return target, true
	}
	def, ok := p.parseAssign()
	if !ok {
		return ast.NoPatID, false
	}
	span := p.spanFrom(p.arenas.Pats.Get(target).Span)
	return p.arenas.Pats.NewDefault(span, target, def), true
}

func (p *Parser) parseArrayPattern() (ast.PatID, bool) {
	open := p.advance()
	var elems []ast.PatID
	rest := ast.NoPatID
	for !p.at(token.RBracket) {
		if p.eat(token.Comma) {
			elems = append(elems, ast.NoPatID)
			continue
		}
		if p.eat(token.Ellipsis) {
			var ok bool
			if rest, ok = p.parseBindingTarget(); !ok {
				return ast.NoPatID, false
			}
			if !p.at(token.RBracket) {
				p.err(diag.SynRestMustBeLast, "rest element must be last")
				return ast.NoPatID, false
			}
			break
		}
		elem, ok := p.parseBindingElement()
		if !ok {
			return ast.NoPatID, false
		}
		elems = append(elems, elem)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close pattern"); !ok {
		return ast.NoPatID, false
	}
	return p.arenas.Pats.NewArray(p.spanFrom(open.Span), elems, rest), true
}

func (p *Parser) parseObjectPattern() (ast.PatID, bool) {
	open := p.advance()
	var props []ast.PatProp
	rest := ast.NoPatID
	for !p.at(token.RBrace) {
		if p.eat(token.Ellipsis) {
			tok := p.lx.Peek()
			if tok.Kind != token.Ident {
				p.err(diag.SynBadPattern, "object rest must be an identifier")
				return ast.NoPatID, false
			}
			p.advance()
			rest = p.arenas.Pats.NewIdent(tok.Span, p.intern(tok.Text))
			if !p.at(token.RBrace) {
				p.err(diag.SynRestMustBeLast, "rest element must be last")
				return ast.NoPatID, false
			}
			break
		}
		keyTok := p.lx.Peek()
		key, ok := p.parsePropKey()
		if !ok {
			return ast.NoPatID, false
		}
		prop := ast.PatProp{Key: key}
		if p.eat(token.Colon) {
			if prop.Value, ok = p.parseBindingElement(); !ok {
				return ast.NoPatID, false
			}
		} else {
			if keyTok.Kind != token.Ident {
				p.errAt(diag.SynBadPattern, key.Span, "expected ':' after property name in pattern")
				return ast.NoPatID, false
			}
			prop.Shorthand = true
			prop.Value = p.arenas.Pats.NewIdent(keyTok.Span, p.intern(keyTok.Text))
			if p.eat(token.Assign) {
				def, ok := p.parseAssign()
				if !ok {
					return ast.NoPatID, false
				}
				prop.Value = p.arenas.Pats.NewDefault(p.spanFrom(keyTok.Span), prop.Value, def)
			}
		}
		prop.Span = p.spanFrom(keyTok.Span)
		props = append(props, prop)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close pattern"); !ok {
		return ast.NoPatID, false
	}
	return p.arenas.Pats.NewObject(p.spanFrom(open.Span), props, rest), true
}

// exprToPattern переводит уже разобранное выражение в шаблон присваивания:
// `[a, b] = xs`, `({a, b: c.d} = obj)` и цели for-in/of.
func (p *Parser) exprToPattern(id ast.ExprID) (ast.PatID, bool) {
	exprs := p.arenas.Exprs
	pats := p.arenas.Pats
	ex := exprs.Get(id)
	switch ex.Kind {
	case ast.ExprIdent:
		ident, _ := exprs.Ident(id)
		return pats.NewIdent(ex.Span, ident.Name), true
	case ast.ExprMember, ast.ExprIndex:
		return pats.NewExpr(ex.Span, id), true
	case ast.ExprParen:
		inner := exprs.Unparen(id)
		if p.isSimpleTarget(inner) {
			return p.exprToPattern(inner)
		}
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		if data.Op != ast.AssignPlain {
			break
		}
		var target ast.PatID
		if data.Pattern.IsValid() {
			target = data.Pattern
		} else {
			var ok bool
			if target, ok = p.exprToPattern(data.Target); !ok {
				return ast.NoPatID, false
			}
		}
		return pats.NewDefault(ex.Span, target, data.Value), true
	case ast.ExprArray:
		data, _ := exprs.Array(id)
		var elems []ast.PatID
		rest := ast.NoPatID
		for i, el := range data.Elems {
			if !el.IsValid() {
				elems = append(elems, ast.NoPatID)
				continue
			}
			if exprs.Get(el).Kind == ast.ExprSpread {
				if i != len(data.Elems)-1 {
					p.errAt(diag.SynRestMustBeLast, exprs.Get(el).Span, "rest element must be last")
					return ast.NoPatID, false
				}
				x, _ := exprs.Wrapped(el)
				var ok bool
				if rest, ok = p.exprToPattern(x); !ok {
					return ast.NoPatID, false
				}
				continue
			}
			pat, ok := p.exprToPattern(el)
			if !ok {
				return ast.NoPatID, false
			}
			elems = append(elems, pat)
		}
		return pats.NewArray(ex.Span, elems, rest), true
	case ast.ExprObject:
		data, _ := exprs.Object(id)
		var props []ast.PatProp
		rest := ast.NoPatID
		for i, prop := range data.Props {
			switch prop.Kind {
			case ast.PropSpread:
				if i != len(data.Props)-1 {
					p.errAt(diag.SynRestMustBeLast, prop.Span, "rest element must be last")
					return ast.NoPatID, false
				}
				var ok bool
				if rest, ok = p.exprToPattern(prop.Value); !ok {
					return ast.NoPatID, false
				}
			case ast.PropInit, ast.PropShorthand:
				value, ok := p.exprToPattern(prop.Value)
				if !ok {
					return ast.NoPatID, false
				}
				props = append(props, ast.PatProp{
					Key:       prop.Key,
					Value:     value,
					Shorthand: prop.Kind == ast.PropShorthand,
					Span:      prop.Span,
				})
			default:
				p.errAt(diag.SynBadAssignTarget, prop.Span, "methods are not valid assignment targets")
				return ast.NoPatID, false
			}
		}
		return pats.NewObject(ex.Span, props, rest), true
	}
	p.errAt(diag.SynBadAssignTarget, ex.Span, "invalid assignment target")
	return ast.NoPatID, false
}
