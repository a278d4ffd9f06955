package jump

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
)

// hoister moves top-level declarations of a segmented body above the
// dispatch loop. Each switch arm is its own block scope, so a binding
// must outlive a single arm to be visible after a jump.
type hoister struct {
	b       *ast.Builder
	res     *symbols.Result
	fnScope symbols.ScopeID
	names   []source.StringID
	seen    map[source.StringID]struct{}
	funcs   []ast.StmtID
}

func newHoister(b *ast.Builder, res *symbols.Result, fnScope symbols.ScopeID) *hoister {
	return &hoister{b: b, res: res, fnScope: fnScope, seen: make(map[source.StringID]struct{})}
}

func (h *hoister) declare(name source.StringID) {
	if _, ok := h.seen[name]; ok {
		return
	}
	// параметр уже объявлен, второй let был бы ошибкой
	if id, ok := h.res.Table.Resolve(h.fnScope, name); ok {
		if sym := h.res.Table.Symbols.Get(id); sym != nil && sym.Kind == symbols.SymbolParam {
			return
		}
	}
	h.seen[name] = struct{}{}
	h.names = append(h.names, name)
}

// stmt returns what remains of a top-level statement in its segment.
func (h *hoister) stmt(id ast.StmtID) []ast.StmtID {
	b := h.b
	switch b.Stmts.Get(id).Kind {
	case ast.StmtVar:
		return h.varDecl(id)
	case ast.StmtFunc:
		h.funcs = append(h.funcs, id)
		return nil
	case ast.StmtClass:
		cls, _ := b.Stmts.Class(id)
		name := b.Classes.Get(cls).Name
		h.declare(name)
		assign := b.SynthAssign(b.SynthIdent(b.Name(name)), b.SynthClassExpr(cls))
		return []ast.StmtID{b.SynthExprStmt(assign)}
	}
	return []ast.StmtID{id}
}

// varDecl turns each declarator into an assignment. A let or const
// without initializer is reset to undefined, matching a fresh binding.
func (h *hoister) varDecl(id ast.StmtID) []ast.StmtID {
	b := h.b
	data, _ := b.Stmts.Var(id)
	var out []ast.StmtID
	for _, d := range data.Decls {
		for _, pat := range b.Pats.Names(d.Target, nil) {
			ident, _ := b.Pats.Ident(pat)
			h.declare(ident.Name)
		}
		var assign ast.ExprID
		switch {
		case d.Init.IsValid():
			if ident, ok := b.Pats.Ident(d.Target); ok {
				assign = b.SynthAssign(b.SynthIdent(b.Name(ident.Name)), d.Init)
			} else {
				assign = b.SynthAssignPattern(d.Target, d.Init)
			}
		case data.Kind != ast.VarVar:
			if ident, ok := b.Pats.Ident(d.Target); ok {
				assign = b.SynthAssign(b.SynthIdent(b.Name(ident.Name)), b.SynthUndefined())
			}
		}
		if assign.IsValid() {
			out = append(out, b.SynthExprStmt(assign))
		}
	}
	return out
}
