package symbols

import (
	"hereafter/internal/ast"
)

func (fr *fileResolver) stmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	b := fr.builder
	stmts := b.Stmts
	st := stmts.Get(id)
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		scope := fr.resolver.Enter(ScopeBlock, ScopeOwner{Stmt: id}, st.Span)
		fr.declareLexical(data.Stmts, scope, false)
		for _, s := range data.Stmts {
			fr.stmt(s)
		}
		fr.resolver.Leave(scope)
	case ast.StmtExpr:
		data, _ := stmts.Expr(id)
		fr.expr(data.Expr)
	case ast.StmtVar:
		data, _ := stmts.Var(id)
		for _, d := range data.Decls {
			fr.patternExprs(d.Target)
			fr.expr(d.Init)
		}
	case ast.StmtFunc:
		fn, _ := stmts.Func(id)
		fr.function(fn, false)
	case ast.StmtClass:
		cls, _ := stmts.Class(id)
		fr.class(cls, false)
	case ast.StmtReturn, ast.StmtThrow:
		data, _ := stmts.Value(id)
		fr.expr(data.Value)
	case ast.StmtIf:
		data, _ := stmts.If(id)
		fr.expr(data.Cond)
		fr.stmt(data.Then)
		fr.stmt(data.Else)
	case ast.StmtWhile, ast.StmtDoWhile:
		data, _ := stmts.Loop(id)
		fr.expr(data.Cond)
		fr.stmt(data.Body)
	case ast.StmtFor:
		data, _ := stmts.For(id)
		scope := fr.resolver.Enter(ScopeBlock, ScopeOwner{Stmt: id}, st.Span)
		if data.Init.IsValid() {
			fr.declareLexical([]ast.StmtID{data.Init}, scope, false)
		}
		fr.stmt(data.Init)
		fr.expr(data.Cond)
		fr.expr(data.Update)
		fr.stmt(data.Body)
		fr.resolver.Leave(scope)
	case ast.StmtForIn:
		data, _ := stmts.ForIn(id)
		scope := fr.resolver.Enter(ScopeBlock, ScopeOwner{Stmt: id}, st.Span)
		switch data.Kind {
		case ast.VarLet, ast.VarConst:
			kind := SymbolLet
			if data.Kind == ast.VarConst {
				kind = SymbolConst
			}
			fr.declarePattern(data.Target, scope, kind, SymbolDecl{Stmt: id, TopStmt: fr.top})
			fr.patternExprs(data.Target)
		case ast.VarVar:
			fr.patternExprs(data.Target)
		default:
			fr.patternRefs(data.Target)
		}
		fr.expr(data.Right)
		fr.stmt(data.Body)
		fr.resolver.Leave(scope)
	case ast.StmtTry:
		data, _ := stmts.Try(id)
		fr.stmt(data.Block)
		if data.Handler.IsValid() {
			scope := fr.resolver.Enter(ScopeBlock, ScopeOwner{Stmt: id}, stmts.Get(data.Handler).Span)
			if data.Param.IsValid() {
				fr.declarePattern(data.Param, scope, SymbolCatchParam, SymbolDecl{Stmt: id, TopStmt: fr.top})
				fr.patternExprs(data.Param)
			}
			fr.stmt(data.Handler)
			fr.resolver.Leave(scope)
		}
		fr.stmt(data.Finalizer)
	case ast.StmtSwitch:
		data, _ := stmts.Switch(id)
		fr.expr(data.Disc)
		scope := fr.resolver.Enter(ScopeBlock, ScopeOwner{Stmt: id}, st.Span)
		for _, c := range data.Cases {
			fr.declareLexical(c.Body, scope, false)
		}
		for _, c := range data.Cases {
			fr.expr(c.Test)
			for _, s := range c.Body {
				fr.stmt(s)
			}
		}
		fr.resolver.Leave(scope)
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		fr.stmt(data.Body)
	case ast.StmtExport:
		data, _ := stmts.Export(id)
		fr.stmt(data.Decl)
		fr.expr(data.Default)
		for _, spec := range data.Specs {
			if sym, ok := fr.resolver.Lookup(spec.Local); ok {
				fr.result.Exports[spec.Exported] = sym
				fr.result.Table.Symbols.Get(sym).Flags |= SymbolFlagExported
			}
		}
		if data.Decl.IsValid() {
			fr.markExported(id)
		}
	}
}

// markExported помечает привязки модуля, объявленные внутри export-оператора.
func (fr *fileResolver) markExported(export ast.StmtID) {
	for _, symID := range fr.result.Table.Scopes.Get(fr.result.ModuleScope).Symbols {
		sym := fr.result.Table.Symbols.Get(symID)
		if sym.Decl.TopStmt != export {
			continue
		}
		sym.Flags |= SymbolFlagExported
		fr.result.Exports[sym.Name] = symID
	}
}

func (fr *fileResolver) function(fn ast.FuncID, selfName bool) {
	data := fr.builder.Funcs.Get(fn)
	if data == nil {
		return
	}
	scope := fr.resolver.Enter(ScopeFunction, ScopeOwner{Func: fn}, data.Span)
	fr.result.FuncScopes[fn] = scope
	if selfName && data.Name.IsValid() {
		fr.resolver.Declare(scope, Symbol{
			Name:  data.Name,
			Kind:  SymbolFunction,
			Span:  data.NameSpan,
			Flags: SymbolFlagSelfName,
			Decl:  SymbolDecl{Func: fn},
		})
	}
	for _, param := range data.Params {
		fr.declarePattern(param, scope, SymbolParam, SymbolDecl{Func: fn})
	}
	if data.Rest.IsValid() {
		fr.declarePattern(data.Rest, scope, SymbolParam, SymbolDecl{Func: fn})
	}
	for _, param := range data.Params {
		fr.patternExprs(param)
	}

	savedTop := fr.top
	fr.top = ast.NoStmtID
	if body, ok := fr.builder.FuncBody(fn); ok {
		fr.resolveBody(body, scope, true)
	} else {
		fr.expr(data.ExprBody)
	}
	fr.top = savedTop
	fr.resolver.Leave(scope)
}

func (fr *fileResolver) class(cls ast.ClassID, isExpr bool) {
	data := fr.builder.Classes.Get(cls)
	if data == nil {
		return
	}
	fr.expr(data.Super)
	scope := NoScopeID
	if isExpr && data.Name.IsValid() {
		scope = fr.resolver.Enter(ScopeClass, ScopeOwner{Class: cls}, data.Span)
		fr.resolver.Declare(scope, Symbol{
			Name:  data.Name,
			Kind:  SymbolClass,
			Span:  data.NameSpan,
			Flags: SymbolFlagSelfName,
			Decl:  SymbolDecl{Class: cls},
		})
	}
	for _, m := range data.Members {
		fr.propKey(m.Key)
		if m.Func.IsValid() {
			fr.function(m.Func, false)
		}
		fr.expr(m.Value)
	}
	if scope.IsValid() {
		fr.resolver.Leave(scope)
	}
}

func (fr *fileResolver) propKey(key ast.PropKey) {
	if key.Kind == ast.KeyComputed {
		fr.expr(key.Expr)
	}
}

func (fr *fileResolver) exprs(ids []ast.ExprID) {
	for _, id := range ids {
		fr.expr(id)
	}
}

func (fr *fileResolver) expr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	exprs := fr.builder.Exprs
	ex := exprs.Get(id)
	switch ex.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		if sym, ok := fr.resolver.Lookup(data.Name); ok {
			fr.result.Refs[id] = sym
		} else {
			fr.result.Globals[id] = data.Name
		}
	case ast.ExprTemplate:
		data, _ := exprs.Template(id)
		fr.exprs(data.Exprs)
	case ast.ExprArray:
		data, _ := exprs.Array(id)
		fr.exprs(data.Elems)
	case ast.ExprObject:
		data, _ := exprs.Object(id)
		for _, prop := range data.Props {
			fr.propKey(prop.Key)
			fr.expr(prop.Value)
			if prop.Func.IsValid() {
				fr.function(prop.Func, false)
			}
		}
	case ast.ExprFunc, ast.ExprArrow:
		fn, _ := exprs.Func(id)
		fr.function(fn, ex.Kind == ast.ExprFunc)
	case ast.ExprClass:
		cls, _ := exprs.Class(id)
		fr.class(cls, true)
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		fr.expr(data.Callee)
		fr.exprs(data.Args)
	case ast.ExprNew:
		data, _ := exprs.Construct(id)
		fr.expr(data.Callee)
		fr.exprs(data.Args)
	case ast.ExprMember:
		data, _ := exprs.Member(id)
		fr.expr(data.Object)
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		fr.expr(data.Object)
		fr.expr(data.Index)
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		fr.expr(data.X)
	case ast.ExprUpdate:
		data, _ := exprs.Update(id)
		fr.expr(data.X)
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		fr.expr(data.L)
		fr.expr(data.R)
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		fr.expr(data.Target)
		fr.patternRefs(data.Pattern)
		fr.expr(data.Value)
	case ast.ExprConditional:
		data, _ := exprs.Conditional(id)
		fr.expr(data.Cond)
		fr.expr(data.Then)
		fr.expr(data.Else)
	case ast.ExprSequence:
		data, _ := exprs.Sequence(id)
		fr.exprs(data.Exprs)
	case ast.ExprParen, ast.ExprSpread:
		x, _ := exprs.Wrapped(id)
		fr.expr(x)
	}
}

// patternExprs разрешает выражения внутри шаблона объявления:
// значения по умолчанию и вычисляемые ключи.
func (fr *fileResolver) patternExprs(id ast.PatID) {
	fr.walkPattern(id, false)
}

// patternRefs разрешает шаблон присваивания: его идентификаторы: ссылки.
func (fr *fileResolver) patternRefs(id ast.PatID) {
	fr.walkPattern(id, true)
}

func (fr *fileResolver) walkPattern(id ast.PatID, assign bool) {
	if !id.IsValid() {
		return
	}
	pats := fr.builder.Pats
	switch pats.Get(id).Kind {
	case ast.PatIdent:
		if !assign {
			return
		}
		data, _ := pats.Ident(id)
		if sym, ok := fr.resolver.Lookup(data.Name); ok {
			fr.result.PatRefs[id] = sym
		}
	case ast.PatArray:
		data, _ := pats.Array(id)
		for _, el := range data.Elems {
			fr.walkPattern(el, assign)
		}
		fr.walkPattern(data.Rest, assign)
	case ast.PatObject:
		data, _ := pats.Object(id)
		for _, prop := range data.Props {
			fr.propKey(prop.Key)
			fr.walkPattern(prop.Value, assign)
		}
		fr.walkPattern(data.Rest, assign)
	case ast.PatDefault:
		data, _ := pats.Default(id)
		fr.walkPattern(data.Target, assign)
		fr.expr(data.Default)
	case ast.PatExpr:
		data, _ := pats.Expr(id)
		fr.expr(data.Expr)
	}
}
