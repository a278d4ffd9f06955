package symbols

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
)

// ResolveOptions controls a resolve pass for a single AST file.
type ResolveOptions struct {
	Table    *Table
	Hints    Hints
	Reporter diag.Reporter
}

// Result captures resolve artefacts for one file.
type Result struct {
	Table       *Table
	ModuleScope ScopeID
	// Refs maps every resolved identifier expression to its symbol.
	Refs map[ast.ExprID]SymbolID
	// PatRefs maps identifier targets of destructuring assignments and
	// declaration-less for-in/of heads.
	PatRefs map[ast.PatID]SymbolID
	// Bindings maps declaring PatIdent nodes to the symbols they introduce.
	Bindings   map[ast.PatID]SymbolID
	FuncScopes map[ast.FuncID]ScopeID
	// Globals lists identifier expressions that resolved to nothing.
	Globals map[ast.ExprID]source.StringID
	Exports map[source.StringID]SymbolID
}

// ResolveFile walks the AST file and populates the symbol table.
func ResolveFile(builder *ast.Builder, opts ResolveOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, builder.Strings)
	}
	result := Result{
		Table:      table,
		Refs:       make(map[ast.ExprID]SymbolID),
		PatRefs:    make(map[ast.PatID]SymbolID),
		Bindings:   make(map[ast.PatID]SymbolID),
		FuncScopes: make(map[ast.FuncID]ScopeID),
		Globals:    make(map[ast.ExprID]source.StringID),
		Exports:    make(map[source.StringID]SymbolID),
	}

	resolver := NewResolver(table, NoScopeID, ResolverOptions{Reporter: opts.Reporter})
	result.ModuleScope = resolver.Enter(ScopeModule, ScopeOwner{}, builder.File.Span)

	fr := fileResolver{
		builder:  builder,
		result:   &result,
		resolver: resolver,
	}
	fr.resolveBody(builder.File.Body, result.ModuleScope, true)
	resolver.Leave(result.ModuleScope)
	return result
}

// Symbol returns the symbol an identifier expression resolved to.
func (r *Result) Symbol(expr ast.ExprID) (*Symbol, bool) {
	id, ok := r.Refs[expr]
	if !ok {
		return nil, false
	}
	return r.Table.Symbols.Get(id), true
}

type fileResolver struct {
	builder  *ast.Builder
	result   *Result
	resolver *Resolver
	top      ast.StmtID // текущий оператор верхнего уровня тела функции
}

// resolveBody обрабатывает список операторов тела функции или модуля:
// сначала поднимает var и лексические объявления, затем разрешает ссылки.
func (fr *fileResolver) resolveBody(stmts []ast.StmtID, scope ScopeID, functionBody bool) {
	if functionBody {
		for _, stmt := range stmts {
			fr.top = stmt
			fr.hoistVars(stmt, scope)
		}
	}
	fr.declareLexical(stmts, scope, functionBody)
	for _, stmt := range stmts {
		if functionBody {
			fr.top = stmt
		}
		fr.stmt(stmt)
	}
}

// declarePattern объявляет все имена шаблона.
func (fr *fileResolver) declarePattern(pat ast.PatID, scope ScopeID, kind SymbolKind, decl SymbolDecl) {
	for _, id := range fr.builder.Pats.Names(pat, nil) {
		ident, _ := fr.builder.Pats.Ident(id)
		d := decl
		d.Pat = id
		symID, _ := fr.resolver.Declare(scope, Symbol{
			Name: ident.Name,
			Kind: kind,
			Span: fr.builder.Pats.Get(id).Span,
			Decl: d,
		})
		if symID.IsValid() {
			fr.result.Bindings[id] = symID
		}
	}
}

// hoistVars поднимает var-объявления в область функции, не заходя во вложенные функции.
func (fr *fileResolver) hoistVars(id ast.StmtID, fnScope ScopeID) {
	stmts := fr.builder.Stmts
	st := stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtVar:
		data, _ := stmts.Var(id)
		if data.Kind != ast.VarVar {
			return
		}
		for _, d := range data.Decls {
			fr.declarePattern(d.Target, fnScope, SymbolVar, SymbolDecl{Stmt: id, TopStmt: fr.top})
		}
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		for _, s := range data.Stmts {
			fr.hoistVars(s, fnScope)
		}
	case ast.StmtIf:
		data, _ := stmts.If(id)
		fr.hoistVars(data.Then, fnScope)
		fr.hoistVars(data.Else, fnScope)
	case ast.StmtWhile, ast.StmtDoWhile:
		data, _ := stmts.Loop(id)
		fr.hoistVars(data.Body, fnScope)
	case ast.StmtFor:
		data, _ := stmts.For(id)
		fr.hoistVars(data.Init, fnScope)
		fr.hoistVars(data.Body, fnScope)
	case ast.StmtForIn:
		data, _ := stmts.ForIn(id)
		if data.Kind == ast.VarVar {
			fr.declarePattern(data.Target, fnScope, SymbolVar, SymbolDecl{Stmt: id, TopStmt: fr.top})
		}
		fr.hoistVars(data.Body, fnScope)
	case ast.StmtTry:
		data, _ := stmts.Try(id)
		fr.hoistVars(data.Block, fnScope)
		fr.hoistVars(data.Handler, fnScope)
		fr.hoistVars(data.Finalizer, fnScope)
	case ast.StmtSwitch:
		data, _ := stmts.Switch(id)
		for _, c := range data.Cases {
			for _, s := range c.Body {
				fr.hoistVars(s, fnScope)
			}
		}
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		fr.hoistVars(data.Body, fnScope)
	case ast.StmtExport:
		data, _ := stmts.Export(id)
		fr.hoistVars(data.Decl, fnScope)
	}
}

// declareLexical объявляет let/const/class/function и импорты списка операторов.
func (fr *fileResolver) declareLexical(list []ast.StmtID, scope ScopeID, functionBody bool) {
	stmts := fr.builder.Stmts
	for _, id := range list {
		top := fr.top
		if functionBody {
			top = id
		}
		fr.declareLexicalStmt(id, id, scope, top)
		if exp, ok := stmts.Export(id); ok && exp.Decl.IsValid() {
			fr.declareLexicalStmt(exp.Decl, id, scope, top)
		}
	}
}

func (fr *fileResolver) declareLexicalStmt(id, owner ast.StmtID, scope ScopeID, top ast.StmtID) {
	stmts := fr.builder.Stmts
	st := stmts.Get(id)
	switch st.Kind {
	case ast.StmtVar:
		data, _ := stmts.Var(id)
		kind := SymbolLet
		switch data.Kind {
		case ast.VarVar:
			return
		case ast.VarConst:
			kind = SymbolConst
		}
		for _, d := range data.Decls {
			fr.declarePattern(d.Target, scope, kind, SymbolDecl{Stmt: owner, TopStmt: top})
		}
	case ast.StmtFunc:
		fn, _ := stmts.Func(id)
		data := fr.builder.Funcs.Get(fn)
		fr.resolver.Declare(scope, Symbol{
			Name: data.Name,
			Kind: SymbolFunction,
			Span: data.NameSpan,
			Decl: SymbolDecl{Stmt: owner, Func: fn, TopStmt: top},
		})
	case ast.StmtClass:
		cls, _ := stmts.Class(id)
		data := fr.builder.Classes.Get(cls)
		fr.resolver.Declare(scope, Symbol{
			Name: data.Name,
			Kind: SymbolClass,
			Span: data.NameSpan,
			Decl: SymbolDecl{Stmt: owner, Class: cls, TopStmt: top},
		})
	case ast.StmtImport:
		data, _ := stmts.Import(id)
		for _, spec := range data.Specs {
			fr.resolver.Declare(scope, Symbol{
				Name: spec.Local,
				Kind: SymbolImport,
				Span: spec.Span,
				Decl: SymbolDecl{Stmt: owner, TopStmt: top},
				Import: &ImportInfo{
					Module:   data.Module,
					Kind:     spec.Kind,
					Imported: spec.Imported,
				},
			})
		}
	}
}
