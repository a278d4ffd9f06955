package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

// parseStmt выбирает по первому токену нужный распознаватель оператора.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.lx.Peek()
	top := p.topLevel
	p.topLevel = false
	defer func() { p.topLevel = top }()

	var (
		id ast.StmtID
		ok bool
	)
	switch tok.Kind {
	case token.LBrace:
		id, ok = p.parseBlock()
	case token.Semicolon:
		p.advance()
		id, ok = p.arenas.Stmts.NewEmpty(tok.Span), true
	case token.KwVar, token.KwLet, token.KwConst:
		id, ok = p.parseVarStmt()
	case token.KwFunction:
		id, ok = p.parseFuncDecl()
	case token.KwClass:
		id, ok = p.parseClassDecl()
	case token.KwIf:
		id, ok = p.parseIf()
	case token.KwWhile:
		id, ok = p.parseWhile()
	case token.KwDo:
		id, ok = p.parseDoWhile()
	case token.KwFor:
		id, ok = p.parseFor()
	case token.KwReturn:
		id, ok = p.parseReturn()
	case token.KwBreak, token.KwContinue:
		id, ok = p.parseJump()
	case token.KwThrow:
		id, ok = p.parseThrow()
	case token.KwTry:
		id, ok = p.parseTry()
	case token.KwSwitch:
		id, ok = p.parseSwitch()
	case token.KwImport:
		if !top {
			p.err(diag.SynImportNotTopLevel, "import declarations may only appear at the top level")
			return ast.NoStmtID, false
		}
		id, ok = p.parseImport()
	case token.KwExport:
		if !top {
			p.err(diag.SynImportNotTopLevel, "export declarations may only appear at the top level")
			return ast.NoStmtID, false
		}
		id, ok = p.parseExport()
	case token.Ident:
		if p.isLabelStart() {
			id, ok = p.parseLabeled()
		} else {
			id, ok = p.parseExprStmt()
		}
	default:
		id, ok = p.parseExprStmt()
	}
	if ok {
		if doc := docSpan(tok); !doc.Empty() {
			p.arenas.Stmts.Get(id).Doc = doc
		}
	}
	return id, ok
}

// isLabelStart: Ident, за которым идёт ':'.
func (p *Parser) isLabelStart() bool {
	st := p.lx.Snapshot()
	p.lx.Next()
	isLabel := p.lx.Peek().Kind == token.Colon
	p.lx.Restore(st)
	return isLabel
}

// parseBlock: '{' stmts '}'.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID, false
	}
	stmts := p.parseStmtList(token.RBrace)
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(p.spanFrom(open.Span), stmts), true
}

// parseStmtList читает операторы до закрывающего токена (не съедая его).
func (p *Parser) parseStmtList(closers ...token.Kind) []ast.StmtID {
	var stmts []ast.StmtID
	for !p.at(token.EOF) && !p.atOr(closers...) {
		if p.opts.Enough() {
			break
		}
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.consumeSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(p.spanFrom(start), expr), true
}

func varKindOf(k token.Kind) ast.VarKind {
	switch k {
	case token.KwVar:
		return ast.VarVar
	case token.KwLet:
		return ast.VarLet
	case token.KwConst:
		return ast.VarConst
	default:
		return ast.VarNone
	}
}

// parseVarStmt: var/let/const с одним или несколькими деклараторами.
func (p *Parser) parseVarStmt() (ast.StmtID, bool) {
	kw := p.advance()
	kind := varKindOf(kw.Kind)
	decls, ok := p.parseDeclarators(kind, false)
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.consumeSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewVar(p.spanFrom(kw.Span), kind, decls), true
}

// parseDeclarators: список `target [= init]` через запятую.
// В заголовке for инициализатор const не обязателен: его проверит вызывающий.
func (p *Parser) parseDeclarators(kind ast.VarKind, inForHead bool) ([]ast.Declarator, bool) {
	var decls []ast.Declarator
	for {
		target, ok := p.parseBindingTarget()
		if !ok {
			return nil, false
		}
		targetSpan := p.arenas.Pats.Get(target).Span
		init := ast.NoExprID
		if p.eat(token.Assign) {
			init, ok = p.parseAssign()
			if !ok {
				return nil, false
			}
		} else if !inForHead {
			if kind == ast.VarConst {
				p.errAt(diag.SynConstWithoutInit, targetSpan, "missing initializer in const declaration")
			} else if p.arenas.Pats.Get(target).Kind != ast.PatIdent {
				p.errAt(diag.SynBadPattern, targetSpan, "destructuring declaration requires an initializer")
			}
		}
		decls = append(decls, ast.Declarator{Span: p.spanFrom(targetSpan), Target: target, Init: init})
		if !p.eat(token.Comma) {
			return decls, true
		}
	}
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	kw := p.advance()
	if !p.fn.inFunc {
		p.errAt(diag.SynIllegalReturn, kw.Span, "return outside of a function")
	}
	value := ast.NoExprID
	if !p.at(token.Semicolon) && !p.canInsertSemicolon() {
		var ok bool
		value, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.consumeSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(p.spanFrom(kw.Span), value), true
}

func (p *Parser) parseThrow() (ast.StmtID, bool) {
	kw := p.advance()
	if p.lx.Peek().NewlineBefore() {
		p.err(diag.SynExpectExpression, "illegal newline after throw")
		return ast.NoStmtID, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.consumeSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewThrow(p.spanFrom(kw.Span), value), true
}

// parseJump: break/continue с необязательной меткой на той же строке.
func (p *Parser) parseJump() (ast.StmtID, bool) {
	kw := p.advance()
	isBreak := kw.Kind == token.KwBreak
	label := source.NoStringID
	var labelSpan source.Span
	if p.at(token.Ident) && !p.lx.Peek().NewlineBefore() {
		tok := p.advance()
		label, labelSpan = p.intern(tok.Text), tok.Span
	}
	switch {
	case label != source.NoStringID:
		info, found := p.findLabel(label)
		if !found {
			p.errAt(diag.SemUnknownLabel, labelSpan, "undefined label '"+p.arenas.Name(label)+"'")
		} else if !isBreak && !info.isLoop {
			p.errAt(diag.SynIllegalBreak, labelSpan, "continue target '"+p.arenas.Name(label)+"' is not a loop")
		}
	case isBreak && p.fn.breakable == 0:
		p.errAt(diag.SynIllegalBreak, kw.Span, "break outside of a loop or switch")
	case !isBreak && p.fn.loops == 0:
		p.errAt(diag.SynIllegalBreak, kw.Span, "continue outside of a loop")
	}
	if !p.consumeSemicolon() {
		return ast.NoStmtID, false
	}
	if isBreak {
		return p.arenas.Stmts.NewBreak(p.spanFrom(kw.Span), label, labelSpan), true
	}
	return p.arenas.Stmts.NewContinue(p.spanFrom(kw.Span), label, labelSpan), true
}

func (p *Parser) findLabel(name source.StringID) (labelInfo, bool) {
	for i := len(p.fn.labels) - 1; i >= 0; i-- {
		if p.fn.labels[i].name == name {
			return p.fn.labels[i], true
		}
	}
	return labelInfo{}, false
}

// parseLabeled: `name: stmt`.
func (p *Parser) parseLabeled() (ast.StmtID, bool) {
	tok := p.advance()
	p.advance() // ':'
	name := p.intern(tok.Text)
	if _, dup := p.findLabel(name); dup {
		p.errAt(diag.SemRedeclared, tok.Span, "label '"+tok.Text+"' has already been declared")
	}
	isLoop := p.atOr(token.KwWhile, token.KwDo, token.KwFor)
	p.fn.labels = append(p.fn.labels, labelInfo{name: name, isLoop: isLoop})
	body, ok := p.parseStmt()
	p.fn.labels = p.fn.labels[:len(p.fn.labels)-1]
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLabeled(p.spanFrom(tok.Span), name, tok.Span, body), true
}
