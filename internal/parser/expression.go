package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений; включает оператор ','.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	first, ok := p.parseAssign()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	exprs := []ast.ExprID{first}
	for p.eat(token.Comma) {
		next, ok := p.parseAssign()
		if !ok {
			return ast.NoExprID, false
		}
		exprs = append(exprs, next)
	}
	return p.arenas.Exprs.NewSequence(p.spanFrom(start), exprs), true
}

// parseAssign: присваивание, стрелочные функции и всё, что ниже по приоритету.
func (p *Parser) parseAssign() (ast.ExprID, bool) {
	if p.isArrowStart() {
		return p.parseArrow()
	}
	start := p.lx.Peek().Span
	left, ok := p.parseConditional()
	if !ok {
		return ast.NoExprID, false
	}
	op, isAssign := assignOps[p.lx.Peek().Kind]
	if !isAssign {
		return left, true
	}
	opTok := p.advance()

	data := ast.AssignData{Op: op}
	leftExpr := p.arenas.Exprs.Get(left)
	switch p.arenas.Exprs.Get(p.arenas.Exprs.Unparen(left)).Kind {
	case ast.ExprIdent, ast.ExprMember, ast.ExprIndex:
		data.Target = left
	case ast.ExprArray, ast.ExprObject:
		if op != ast.AssignPlain || leftExpr.Kind == ast.ExprParen {
			p.errAt(diag.SynBadAssignTarget, leftExpr.Span, "invalid destructuring assignment target")
			return ast.NoExprID, false
		}
		pat, ok := p.exprToPattern(left)
		if !ok {
			return ast.NoExprID, false
		}
		data.Pattern = pat
	default:
		p.errAt(diag.SynBadAssignTarget, leftExpr.Span, "invalid left-hand side in assignment '"+opTok.Text+"'")
		return ast.NoExprID, false
	}

	value, ok := p.parseAssign()
	if !ok {
		return ast.NoExprID, false
	}
	data.Value = value
	return p.arenas.Exprs.NewAssign(p.spanFrom(start), data), true
}

// isArrowStart: `x =>` или `( ... ) =>`; скобки пролистываются без разбора.
func (p *Parser) isArrowStart() bool {
	tok := p.lx.Peek()
	if tok.Kind != token.Ident && tok.Kind != token.LParen {
		return false
	}
	st := p.lx.Snapshot()
	defer p.lx.Restore(st)

	p.lx.Next()
	if tok.Kind == token.LParen {
		depth := 1
		for depth > 0 {
			t := p.lx.Next()
			switch t.Kind {
			case token.EOF:
				return false
			case token.LParen, token.LBracket, token.LBrace:
				depth++
			case token.RParen, token.RBracket, token.RBrace:
				depth--
			}
		}
	}
	next := p.lx.Peek()
	return next.Kind == token.FatArrow && !next.NewlineBefore()
}

func (p *Parser) parseArrow() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	data := ast.FuncData{IsArrow: true}
	if p.at(token.Ident) {
		tok := p.advance()
		data.Params = []ast.PatID{p.arenas.Pats.NewIdent(tok.Span, p.intern(tok.Text))}
	} else if !p.parseParams(&data) {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>'"); !ok {
		return ast.NoExprID, false
	}
	if p.at(token.LBrace) {
		body, ok := p.parseFuncBody()
		if !ok {
			return ast.NoExprID, false
		}
		data.Body = body
	} else {
		saved := p.fn
		p.fn = funcCtx{inFunc: true}
		body, ok := p.parseAssign()
		p.fn = saved
		if !ok {
			return ast.NoExprID, false
		}
		data.ExprBody = body
	}
	data.Span = p.spanFrom(start)
	fn := p.arenas.Funcs.New(data)
	return p.arenas.Exprs.NewFunc(data.Span, fn, true), true
}

// parseConditional: cond ? then : else.
func (p *Parser) parseConditional() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	cond, ok := p.parseBinaryExpr(1)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.eat(token.Question) {
		return cond, true
	}
	savedNoIn := p.noIn
	p.noIn = false
	then, ok := p.parseAssign()
	p.noIn = savedNoIn
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseAssign()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewConditional(p.spanFrom(start), cond, then, els), true
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		op, prec := p.getBinaryOperator(p.lx.Peek().Kind)
		if prec < minPrec {
			break
		}
		p.advance()

		nextMinPrec := prec + 1
		if op.RightAssoc() {
			nextMinPrec = prec
		}

		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			return ast.NoExprID, false
		}

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.Exprs.NewBinary(leftSpan.Cover(rightSpan), op, left, right)
	}

	return left, true
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	type prefixOp struct {
		unary  ast.UnaryOp
		update ast.UpdateOp
		isUpd  bool
		span   source.Span
	}

	var prefixes []prefixOp
	for {
		tok := p.lx.Peek()
		if op, ok := unaryOps[tok.Kind]; ok {
			p.advance()
			prefixes = append(prefixes, prefixOp{unary: op, span: tok.Span})
			continue
		}
		if tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus {
			p.advance()
			upd := ast.UpdateInc
			if tok.Kind == token.MinusMinus {
				upd = ast.UpdateDec
			}
			prefixes = append(prefixes, prefixOp{update: upd, isUpd: true, span: tok.Span})
			continue
		}
		break
	}

	operand, ok := p.parsePostfixExpr()
	if !ok {
		if len(prefixes) > 0 {
			p.err(diag.SynExpectExpression, "expected operand after unary operator")
		}
		return ast.NoExprID, false
	}

	// применяем справа налево
	for i := len(prefixes) - 1; i >= 0; i-- {
		pre := prefixes[i]
		span := pre.span.Cover(p.arenas.Exprs.Get(operand).Span)
		if pre.isUpd {
			if !p.isSimpleTarget(operand) {
				p.errAt(diag.SynBadAssignTarget, span, "invalid operand for "+pre.update.String())
			}
			operand = p.arenas.Exprs.NewUpdate(span, pre.update, true, operand)
			continue
		}
		operand = p.arenas.Exprs.NewUnary(span, pre.unary, operand)
	}
	return operand, true
}

func (p *Parser) isSimpleTarget(id ast.ExprID) bool {
	switch p.arenas.Exprs.Get(p.arenas.Exprs.Unparen(id)).Kind {
	case ast.ExprIdent, ast.ExprMember, ast.ExprIndex:
		return true
	default:
		return false
	}
}

// parsePostfixExpr: LHS и постфиксные ++/-- на той же строке.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parseLeftHandSide()
	if !ok {
		return ast.NoExprID, false
	}
	tok := p.lx.Peek()
	if (tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus) && !tok.NewlineBefore() {
		p.advance()
		upd := ast.UpdateInc
		if tok.Kind == token.MinusMinus {
			upd = ast.UpdateDec
		}
		span := p.arenas.Exprs.Get(expr).Span.Cover(tok.Span)
		if !p.isSimpleTarget(expr) {
			p.errAt(diag.SynBadAssignTarget, span, "invalid operand for "+upd.String())
		}
		expr = p.arenas.Exprs.NewUpdate(span, upd, false, expr)
	}
	return expr, true
}

// parseLeftHandSide: primary или new, затем цепочка вызовов и обращений.
func (p *Parser) parseLeftHandSide() (ast.ExprID, bool) {
	var (
		expr ast.ExprID
		ok   bool
	)
	if p.at(token.KwNew) {
		expr, ok = p.parseNew()
	} else {
		expr, ok = p.parsePrimary()
	}
	if !ok {
		return ast.NoExprID, false
	}
	return p.parseCallTail(expr, true)
}

// parseNew: `new Callee(args)`; аргументы необязательны.
func (p *Parser) parseNew() (ast.ExprID, bool) {
	kw := p.advance()
	var (
		callee ast.ExprID
		ok     bool
	)
	if p.at(token.KwNew) {
		callee, ok = p.parseNew()
	} else {
		callee, ok = p.parsePrimary()
	}
	if !ok {
		return ast.NoExprID, false
	}
	if callee, ok = p.parseCallTail(callee, false); !ok {
		return ast.NoExprID, false
	}
	var args []ast.ExprID
	if p.at(token.LParen) {
		if args, ok = p.parseArgs(); !ok {
			return ast.NoExprID, false
		}
	}
	return p.arenas.Exprs.NewConstruct(p.spanFrom(kw.Span), callee, args), true
}

// parseCallTail: .name, ?.name, [index], (args).
func (p *Parser) parseCallTail(expr ast.ExprID, allowCall bool) (ast.ExprID, bool) {
	start := p.arenas.Exprs.Get(expr).Span
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.Dot:
			p.advance()
			member, ok := p.parseMemberName(expr, start, false)
			if !ok {
				return ast.NoExprID, false
			}
			expr = member
		case token.QuestionDot:
			if !allowCall {
				p.err(diag.SynUnexpectedToken, "optional chain is not allowed in new expression")
				return ast.NoExprID, false
			}
			p.advance()
			var ok bool
			switch {
			case p.at(token.LParen):
				var args []ast.ExprID
				if args, ok = p.parseArgs(); ok {
					expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args, true)
				}
			case p.at(token.LBracket):
				expr, ok = p.parseIndex(expr, start, true)
			default:
				expr, ok = p.parseMemberName(expr, start, true)
			}
			if !ok {
				return ast.NoExprID, false
			}
		case token.LBracket:
			var ok bool
			if expr, ok = p.parseIndex(expr, start, false); !ok {
				return ast.NoExprID, false
			}
		case token.LParen:
			if !allowCall {
				return expr, true
			}
			args, ok := p.parseArgs()
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args, false)
		default:
			return expr, true
		}
	}
}

func (p *Parser) parseMemberName(object ast.ExprID, start source.Span, optional bool) (ast.ExprID, bool) {
	tok := p.lx.Peek()
	if !tok.IsWord() {
		p.err(diag.SynExpectIdentifier, "expected property name after '.'")
		return ast.NoExprID, false
	}
	p.advance()
	return p.arenas.Exprs.NewMember(p.spanFrom(start), ast.MemberData{
		Object:   object,
		Prop:     p.intern(tok.Text),
		PropSpan: tok.Span,
		Optional: optional,
	}), true
}

func (p *Parser) parseIndex(object ast.ExprID, start source.Span, optional bool) (ast.ExprID, bool) {
	p.advance() // [
	savedNoIn := p.noIn
	p.noIn = false
	index, ok := p.parseExpr()
	p.noIn = savedNoIn
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewIndex(p.spanFrom(start), object, index, optional), true
}

// parseArgs: '(' [expr | ...expr] {, ...} ')', висячая запятая разрешена.
func (p *Parser) parseArgs() ([]ast.ExprID, bool) {
	p.advance() // (
	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()
	args := make([]ast.ExprID, 0, 2)
	for !p.at(token.RParen) {
		arg, ok := p.parseSpreadOrAssign()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after arguments"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseSpreadOrAssign() (ast.ExprID, bool) {
	if !p.at(token.Ellipsis) {
		return p.parseAssign()
	}
	dots := p.advance()
	x, ok := p.parseAssign()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewSpread(p.spanFrom(dots.Span), x), true
}
