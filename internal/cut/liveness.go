package cut

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/walk"
)

// Live is the set of names declared before the cut and used after it.
type Live struct {
	order []source.StringID
	set   map[source.StringID]struct{}
}

func newLive() *Live {
	return &Live{set: make(map[source.StringID]struct{})}
}

// Has reports whether name is live.
func (l *Live) Has(name source.StringID) bool {
	_, ok := l.set[name]
	return ok
}

// Names returns live names in discovery order.
func (l *Live) Names() []source.StringID { return l.order }

// Len returns the number of live names.
func (l *Live) Len() int { return len(l.order) }

func (l *Live) add(name source.StringID) bool {
	if l.Has(name) {
		return false
	}
	l.set[name] = struct{}{}
	l.order = append(l.order, name)
	return true
}

// analyzer collects references that make Before bindings live.
type analyzer struct {
	b       *ast.Builder
	res     *symbols.Result
	fnScope symbols.ScopeID
	before  map[ast.StmtID]struct{}
	live    *Live
	table   *walk.Table
}

func newAnalyzer(b *ast.Builder, res *symbols.Result, fnScope symbols.ScopeID, before []ast.StmtID) *analyzer {
	a := &analyzer{
		b:       b,
		res:     res,
		fnScope: fnScope,
		before:  make(map[ast.StmtID]struct{}, len(before)),
		live:    newLive(),
	}
	for _, id := range before {
		a.before[id] = struct{}{}
	}
	a.table = walk.NewTable().
		OnExpr(a.ident, ast.ExprIdent).
		OnExpr(a.call, ast.ExprCall).
		OnPat(a.patRef, ast.PatIdent)
	return a
}

// Analyze computes the live names for a split body. marker is excluded
// from the After walk, so its callee never keeps a same-named binding.
// With transitive set, references inside retained declarations are
// followed until nothing new becomes live.
func Analyze(b *ast.Builder, res *symbols.Result, fnScope symbols.ScopeID, before, after []ast.StmtID, marker ast.StmtID, transitive bool) *Live {
	a := newAnalyzer(b, res, fnScope, before)
	for _, id := range after {
		if id == marker {
			continue
		}
		a.table.Walk(b, walk.Stmt(id))
	}
	if !transitive {
		return a.live
	}
	for {
		n := a.live.Len()
		for _, id := range before {
			a.walkRetained(id)
		}
		if a.live.Len() == n {
			return a.live
		}
	}
}

// walkRetained visits what pruning would keep of a Before statement.
func (a *analyzer) walkRetained(id ast.StmtID) {
	stmts := a.b.Stmts
	switch stmts.Get(id).Kind {
	case ast.StmtVar:
		data, _ := stmts.Var(id)
		for _, d := range data.Decls {
			if declaratorLive(a.b, d, a.live) {
				a.table.Walk(a.b, walk.Pat(d.Target))
				a.table.Walk(a.b, walk.Expr(d.Init))
			}
		}
	case ast.StmtFunc, ast.StmtClass:
		if name, ok := declName(a.b, id); ok && a.live.Has(name) {
			a.table.Walk(a.b, walk.Stmt(id))
		}
	}
}

func (a *analyzer) ident(id ast.ExprID) walk.Action {
	if sym, ok := a.res.Refs[id]; ok {
		a.mark(sym)
	}
	return walk.Continue
}

// call помечает функцию, вызванную по имени, даже если callee завёрнут в скобки.
func (a *analyzer) call(id ast.ExprID) walk.Action {
	data, _ := a.b.Exprs.Call(id)
	callee := a.b.Exprs.Unparen(data.Callee)
	if sym, ok := a.res.Refs[callee]; ok {
		if s := a.res.Table.Symbols.Get(sym); s.Kind == symbols.SymbolFunction {
			a.mark(sym)
		}
	}
	return walk.Continue
}

// patRef учитывает цели деструктурирующих присваиваний; объявления
// в PatRefs не попадают.
func (a *analyzer) patRef(id ast.PatID) walk.Action {
	if sym, ok := a.res.PatRefs[id]; ok {
		a.mark(sym)
	}
	return walk.Continue
}

func (a *analyzer) mark(id symbols.SymbolID) {
	sym := a.res.Table.Symbols.Get(id)
	if sym == nil || sym.Scope != a.fnScope || sym.Kind == symbols.SymbolParam {
		return
	}
	if _, ok := a.before[sym.Decl.TopStmt]; !ok {
		return
	}
	a.live.add(sym.Name)
}
