package walk

import (
	"hereafter/internal/ast"
)

type (
	StmtHandler func(id ast.StmtID) Action
	ExprHandler func(id ast.ExprID) Action
	PatHandler  func(id ast.PatID) Action
	FuncHandler func(id ast.FuncID) Action
)

// Table dispatches visited nodes to handlers registered per kind.
// Nodes without a handler are descended into.
type Table struct {
	stmts map[ast.StmtKind]StmtHandler
	exprs map[ast.ExprKind]ExprHandler
	pats  map[ast.PatKind]PatHandler
	funcs FuncHandler
}

// NewTable creates an empty visitor table.
func NewTable() *Table {
	return &Table{
		stmts: make(map[ast.StmtKind]StmtHandler),
		exprs: make(map[ast.ExprKind]ExprHandler),
		pats:  make(map[ast.PatKind]PatHandler),
	}
}

// OnStmt registers h for the given statement kinds.
func (t *Table) OnStmt(h StmtHandler, kinds ...ast.StmtKind) *Table {
	for _, k := range kinds {
		t.stmts[k] = h
	}
	return t
}

// OnExpr registers h for the given expression kinds.
func (t *Table) OnExpr(h ExprHandler, kinds ...ast.ExprKind) *Table {
	for _, k := range kinds {
		t.exprs[k] = h
	}
	return t
}

// OnPat registers h for the given pattern kinds.
func (t *Table) OnPat(h PatHandler, kinds ...ast.PatKind) *Table {
	for _, k := range kinds {
		t.pats[k] = h
	}
	return t
}

// OnFunc registers h for every function node.
func (t *Table) OnFunc(h FuncHandler) *Table {
	t.funcs = h
	return t
}

// Walk traverses root in pre-order dispatching through the table.
func (t *Table) Walk(b *ast.Builder, root Node) bool {
	return Inspect(b, root, func(n Node) Action {
		return t.dispatch(b, n)
	})
}

// WalkStmts traverses each statement of list.
func (t *Table) WalkStmts(b *ast.Builder, list []ast.StmtID) bool {
	return InspectStmts(b, list, func(n Node) Action {
		return t.dispatch(b, n)
	})
}

func (t *Table) dispatch(b *ast.Builder, n Node) Action {
	switch n.Kind {
	case KindStmt:
		if h := t.stmts[b.Stmts.Get(n.Stmt()).Kind]; h != nil {
			return h(n.Stmt())
		}
	case KindExpr:
		if h := t.exprs[b.Exprs.Get(n.Expr()).Kind]; h != nil {
			return h(n.Expr())
		}
	case KindPat:
		if h := t.pats[b.Pats.Get(n.Pat()).Kind]; h != nil {
			return h(n.Pat())
		}
	case KindFunc:
		if t.funcs != nil {
			return t.funcs(n.Func())
		}
	}
	return Continue
}
