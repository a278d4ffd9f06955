package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

func (p *Parser) parseFuncDecl() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	fn, ok := p.parseFunction(true)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFunc(p.spanFrom(start), fn), true
}

// parseFunction: `function name? (params) { body }`.
func (p *Parser) parseFunction(requireName bool) (ast.FuncID, bool) {
	kw := p.advance() // function
	data := ast.FuncData{}
	if p.at(token.Ident) {
		tok := p.advance()
		data.Name, data.NameSpan = p.intern(tok.Text), tok.Span
	} else if requireName {
		p.err(diag.SynExpectIdentifier, "function declaration requires a name")
		return ast.NoFuncID, false
	}
	if !p.parseParams(&data) {
		return ast.NoFuncID, false
	}
	body, ok := p.parseFuncBody()
	if !ok {
		return ast.NoFuncID, false
	}
	data.Body = body
	data.Span = p.spanFrom(kw.Span)
	return p.arenas.Funcs.New(data), true
}

// parseParams: '(' binding elements, необязательный ...rest ')'.
func (p *Parser) parseParams(data *ast.FuncData) bool {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' before parameters"); !ok {
		return false
	}
	for !p.at(token.RParen) {
		if p.at(token.Ellipsis) {
			p.advance()
			rest, ok := p.parseBindingTarget()
			if !ok {
				return false
			}
			data.Rest = rest
			if !p.at(token.RParen) {
				p.err(diag.SynRestMustBeLast, "rest parameter must be last")
				return false
			}
			break
		}
		param, ok := p.parseBindingElement()
		if !ok {
			return false
		}
		data.Params = append(data.Params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters")
	return ok
}

// parseFuncBody разбирает тело в новом контексте функции.
func (p *Parser) parseFuncBody() (ast.StmtID, bool) {
	saved, savedNoIn := p.fn, p.noIn
	p.fn = funcCtx{inFunc: true}
	p.noIn = false
	body, ok := p.parseBlock()
	p.fn, p.noIn = saved, savedNoIn
	return body, ok
}

func (p *Parser) parseClassDecl() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	cls, ok := p.parseClass(true)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewClass(p.spanFrom(start), cls), true
}

// parseClass: `class Name? (extends Expr)? { members }`.
func (p *Parser) parseClass(requireName bool) (ast.ClassID, bool) {
	kw := p.advance() // class
	data := ast.ClassData{}
	if p.at(token.Ident) {
		tok := p.advance()
		data.Name, data.NameSpan = p.intern(tok.Text), tok.Span
	} else if requireName {
		p.err(diag.SynExpectIdentifier, "class declaration requires a name")
		return ast.NoClassID, false
	}
	if p.eat(token.KwExtends) {
		super, ok := p.parseLeftHandSide()
		if !ok {
			return ast.NoClassID, false
		}
		data.Super = super
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open class body"); !ok {
		return ast.NoClassID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		member, ok := p.parseClassMember()
		if !ok {
			return ast.NoClassID, false
		}
		data.Members = append(data.Members, member)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close class body"); !ok {
		return ast.NoClassID, false
	}
	data.Span = p.spanFrom(kw.Span)
	return p.arenas.Classes.New(data), true
}

func (p *Parser) parseClassMember() (ast.ClassMember, bool) {
	start := p.lx.Peek().Span
	member := ast.ClassMember{Kind: ast.MemberMethod}
	if p.atWord("static") && !p.nextIs(token.LParen, token.Assign, token.Semicolon) {
		p.advance()
		member.Static = true
	}
	if (p.atWord("get") || p.atWord("set")) && !p.nextIs(token.LParen, token.Assign, token.Semicolon, token.RBrace) {
		if p.advance().Text == "get" {
			member.Kind = ast.MemberGetter
		} else {
			member.Kind = ast.MemberSetter
		}
	}
	key, ok := p.parsePropKey()
	if !ok {
		return member, false
	}
	member.Key = key
	if p.at(token.LParen) {
		fn, ok := p.parseMethod(key.Span)
		if !ok {
			return member, false
		}
		member.Func = fn
		member.Span = p.spanFrom(start)
		return member, true
	}
	if member.Kind != ast.MemberMethod {
		p.err(diag.SynUnexpectedToken, "expected '(' after accessor name")
		return member, false
	}
	member.Kind = ast.MemberField
	if p.eat(token.Assign) {
		saved := p.fn
		p.fn = funcCtx{inFunc: true}
		value, ok := p.parseAssign()
		p.fn = saved
		if !ok {
			return member, false
		}
		member.Value = value
	}
	if !p.consumeSemicolon() {
		return member, false
	}
	member.Span = p.spanFrom(start)
	return member, true
}

// nextIs смотрит на токен после текущего.
func (p *Parser) nextIs(kinds ...token.Kind) bool {
	st := p.lx.Snapshot()
	p.lx.Next()
	next := p.lx.Peek().Kind
	p.lx.Restore(st)
	for _, k := range kinds {
		if next == k {
			return true
		}
	}
	return false
}

// parseMethod: параметры и тело метода; имя уже разобрано.
func (p *Parser) parseMethod(start source.Span) (ast.FuncID, bool) {
	data := ast.FuncData{}
	if !p.parseParams(&data) {
		return ast.NoFuncID, false
	}
	body, ok := p.parseFuncBody()
	if !ok {
		return ast.NoFuncID, false
	}
	data.Body = body
	data.Span = p.spanFrom(start)
	return p.arenas.Funcs.New(data), true
}

// parsePropKey: имя свойства: слово, строка, число или [выражение].
func (p *Parser) parsePropKey() (ast.PropKey, bool) {
	tok := p.lx.Peek()
	switch {
	case tok.IsWord():
		p.advance()
		return ast.PropKey{Kind: ast.KeyIdent, Name: tok.Text, Raw: tok.Text, Span: tok.Span}, true
	case tok.Kind == token.StringLit:
		p.advance()
		return ast.PropKey{Kind: ast.KeyString, Name: p.decodeString(tok), Raw: tok.Text, Span: tok.Span}, true
	case tok.Kind == token.NumberLit:
		p.advance()
		num := p.parseNumber(tok)
		return ast.PropKey{Kind: ast.KeyNumber, Name: formatNumberKey(num), Raw: tok.Text, Span: tok.Span}, true
	case tok.Kind == token.LBracket:
		p.advance()
		savedNoIn := p.noIn
		p.noIn = false
		expr, ok := p.parseAssign()
		p.noIn = savedNoIn
		if !ok {
			return ast.PropKey{}, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after computed key"); !ok {
			return ast.PropKey{}, false
		}
		return ast.PropKey{Kind: ast.KeyComputed, Expr: expr, Span: p.spanFrom(tok.Span)}, true
	}
	p.err(diag.SynExpectIdentifier, "expected property name, got \""+tok.Text+"\"")
	return ast.PropKey{}, false
}

// parseImport: все формы import верхнего уровня.
func (p *Parser) parseImport() (ast.StmtID, bool) {
	kw := p.advance()
	var specs []ast.ImportSpec

	if !p.at(token.StringLit) {
		var ok bool
		if specs, ok = p.parseImportClause(); !ok {
			return ast.NoStmtID, false
		}
		if !p.atWord("from") {
			p.err(diag.SynUnexpectedToken, "expected 'from' after import clause")
			return ast.NoStmtID, false
		}
		p.advance()
	}

	modTok, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected module path string")
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.consumeSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewImport(p.spanFrom(kw.Span), ast.ImportData{
		Module:     p.decodeString(modTok),
		ModuleSpan: modTok.Span,
		Specs:      specs,
	}), true
}

// parseImportClause: default, * as ns и { a, b as c } перед from.
func (p *Parser) parseImportClause() ([]ast.ImportSpec, bool) {
	var specs []ast.ImportSpec
	if p.at(token.Ident) {
		tok := p.advance()
		specs = append(specs, ast.ImportSpec{
			Kind:     ast.ImportDefault,
			Imported: p.intern("default"),
			Local:    p.intern(tok.Text),
			Span:     tok.Span,
		})
		if !p.eat(token.Comma) {
			return specs, true
		}
	}
	switch {
	case p.at(token.Star):
		star := p.advance()
		if !p.atWord("as") {
			p.err(diag.SynUnexpectedToken, "expected 'as' after '*'")
			return nil, false
		}
		p.advance()
		local, _, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		specs = append(specs, ast.ImportSpec{Kind: ast.ImportNamespace, Local: local, Span: p.spanFrom(star.Span)})
	case p.eat(token.LBrace):
		for !p.at(token.RBrace) {
			tok := p.lx.Peek()
			if !tok.IsWord() && tok.Kind != token.StringLit {
				p.err(diag.SynExpectIdentifier, "expected imported name")
				return nil, false
			}
			p.advance()
			imported := tok.Text
			if tok.Kind == token.StringLit {
				imported = p.decodeString(tok)
			}
			local := imported
			if p.atWord("as") {
				p.advance()
				id, _, ok := p.parseIdent()
				if !ok {
					return nil, false
				}
				local = p.arenas.Name(id)
			} else if tok.Kind != token.Ident {
				p.errAt(diag.SynExpectIdentifier, tok.Span, "'"+imported+"' must be renamed with 'as'")
			}
			specs = append(specs, ast.ImportSpec{
				Kind:     ast.ImportNamed,
				Imported: p.intern(imported),
				Local:    p.intern(local),
				Span:     p.spanFrom(tok.Span),
			})
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after import list"); !ok {
			return nil, false
		}
	default:
		p.err(diag.SynUnexpectedToken, "expected import clause")
		return nil, false
	}
	return specs, true
}

// parseExport: export декларации, export default и список export { }.
func (p *Parser) parseExport() (ast.StmtID, bool) {
	kw := p.advance()
	data := ast.ExportData{}
	switch {
	case p.eat(token.KwDefault):
		var (
			expr ast.ExprID
			ok   bool
		)
		switch {
		case p.at(token.KwFunction):
			start := p.lx.Peek().Span
			fn, fok := p.parseFunction(false)
			if !fok {
				return ast.NoStmtID, false
			}
			expr, ok = p.arenas.Exprs.NewFunc(p.spanFrom(start), fn, false), true
		case p.at(token.KwClass):
			start := p.lx.Peek().Span
			cls, cok := p.parseClass(false)
			if !cok {
				return ast.NoStmtID, false
			}
			expr, ok = p.arenas.Exprs.NewClass(p.spanFrom(start), cls), true
		default:
			expr, ok = p.parseAssign()
			if ok && !p.consumeSemicolon() {
				return ast.NoStmtID, false
			}
		}
		if !ok {
			return ast.NoStmtID, false
		}
		data.Default = expr
	case p.atOr(token.KwVar, token.KwLet, token.KwConst):
		decl, ok := p.parseVarStmt()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Decl = decl
	case p.at(token.KwFunction):
		decl, ok := p.parseFuncDecl()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Decl = decl
	case p.at(token.KwClass):
		decl, ok := p.parseClassDecl()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Decl = decl
	case p.eat(token.LBrace):
		for !p.at(token.RBrace) {
			local, localSpan, ok := p.parseIdent()
			if !ok {
				return ast.NoStmtID, false
			}
			exported := local
			if p.atWord("as") {
				p.advance()
				tok := p.lx.Peek()
				if !tok.IsWord() {
					p.err(diag.SynExpectIdentifier, "expected exported name")
					return ast.NoStmtID, false
				}
				p.advance()
				exported = p.intern(tok.Text)
			}
			data.Specs = append(data.Specs, ast.ExportSpec{Local: local, Exported: exported, Span: p.spanFrom(localSpan)})
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after export list"); !ok {
			return ast.NoStmtID, false
		}
		if p.atWord("from") {
			p.err(diag.SynUnexpectedToken, "re-exports are not supported")
			return ast.NoStmtID, false
		}
		if !p.consumeSemicolon() {
			return ast.NoStmtID, false
		}
	default:
		p.err(diag.SynUnexpectedToken, "expected declaration after export")
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExport(p.spanFrom(kw.Span), data), true
}
