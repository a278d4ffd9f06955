package cut

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
)

// Prune keeps the live declarations of before in their original order.
// A variable statement loses its dead declarators; when some but not all
// survive, a rewritten statement of the same kind replaces it. Function
// and class declarations are kept whole when their name is live. Every
// other statement is dropped.
func Prune(b *ast.Builder, before []ast.StmtID, live *Live) []ast.StmtID {
	kept := make([]ast.StmtID, 0, live.Len())
	for _, id := range before {
		st := b.Stmts.Get(id)
		switch st.Kind {
		case ast.StmtVar:
			if out, ok := pruneVar(b, id, live); ok {
				kept = append(kept, out)
			}
		case ast.StmtFunc, ast.StmtClass:
			if name, ok := declName(b, id); ok && live.Has(name) {
				kept = append(kept, id)
			}
		}
	}
	return kept
}

func pruneVar(b *ast.Builder, id ast.StmtID, live *Live) (ast.StmtID, bool) {
	data, _ := b.Stmts.Var(id)
	decls := make([]ast.Declarator, 0, len(data.Decls))
	for _, d := range data.Decls {
		if declaratorLive(b, d, live) {
			decls = append(decls, d)
		}
	}
	switch len(decls) {
	case 0:
		return ast.NoStmtID, false
	case len(data.Decls):
		return id, true
	}
	st := b.Stmts.Get(id)
	out := b.Stmts.NewVar(st.Span, data.Kind, decls)
	b.Stmts.Get(out).Doc = st.Doc
	b.Stmts.MarkRewritten(out)
	return out, true
}

// declaratorLive reports whether any name bound by d is live.
func declaratorLive(b *ast.Builder, d ast.Declarator, live *Live) bool {
	for _, pat := range b.Pats.Names(d.Target, nil) {
		if ident, ok := b.Pats.Ident(pat); ok && live.Has(ident.Name) {
			return true
		}
	}
	return false
}

// declName returns the declared name of a function or class statement.
func declName(b *ast.Builder, id ast.StmtID) (source.StringID, bool) {
	if fn, ok := b.Stmts.Func(id); ok {
		data := b.Funcs.Get(fn)
		return data.Name, data.Name.IsValid()
	}
	if cls, ok := b.Stmts.Class(id); ok {
		data := b.Classes.Get(cls)
		return data.Name, data.Name.IsValid()
	}
	return source.NoStringID, false
}
