package walk

import (
	"fmt"

	"hereafter/internal/ast"
)

// NodeKind tells which arena a Node points into.
type NodeKind uint8

const (
	KindNone NodeKind = iota
	KindStmt
	KindExpr
	KindPat
	KindFunc
	KindClass
)

// Node is a reference to any AST node.
type Node struct {
	Kind NodeKind
	ID   uint32
}

func Stmt(id ast.StmtID) Node   { return Node{Kind: KindStmt, ID: uint32(id)} }
func Expr(id ast.ExprID) Node   { return Node{Kind: KindExpr, ID: uint32(id)} }
func Pat(id ast.PatID) Node     { return Node{Kind: KindPat, ID: uint32(id)} }
func Func(id ast.FuncID) Node   { return Node{Kind: KindFunc, ID: uint32(id)} }
func Class(id ast.ClassID) Node { return Node{Kind: KindClass, ID: uint32(id)} }

func (n Node) IsValid() bool { return n.Kind != KindNone && n.ID != 0 }

func (n Node) Stmt() ast.StmtID   { return ast.StmtID(n.raw(KindStmt)) }
func (n Node) Expr() ast.ExprID   { return ast.ExprID(n.raw(KindExpr)) }
func (n Node) Pat() ast.PatID     { return ast.PatID(n.raw(KindPat)) }
func (n Node) Func() ast.FuncID   { return ast.FuncID(n.raw(KindFunc)) }
func (n Node) Class() ast.ClassID { return ast.ClassID(n.raw(KindClass)) }

func (n Node) raw(k NodeKind) uint32 {
	if n.Kind != k {
		return 0
	}
	return n.ID
}

func (n Node) String() string {
	switch n.Kind {
	case KindStmt:
		return fmt.Sprintf("stmt#%d", n.ID)
	case KindExpr:
		return fmt.Sprintf("expr#%d", n.ID)
	case KindPat:
		return fmt.Sprintf("pat#%d", n.ID)
	case KindFunc:
		return fmt.Sprintf("func#%d", n.ID)
	case KindClass:
		return fmt.Sprintf("class#%d", n.ID)
	default:
		return "none"
	}
}
