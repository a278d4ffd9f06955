package walk

import (
	"hereafter/internal/ast"
)

// Children appends the direct sub-nodes of n to dst in source order.
// Invalid child IDs (absent else branch, array holes) are skipped.
func Children(b *ast.Builder, n Node, dst []Node) []Node {
	c := collector{b: b, out: dst}
	switch n.Kind {
	case KindStmt:
		c.stmtChildren(n.Stmt())
	case KindExpr:
		c.exprChildren(n.Expr())
	case KindPat:
		c.patChildren(n.Pat())
	case KindFunc:
		c.funcChildren(n.Func())
	case KindClass:
		c.classChildren(n.Class())
	}
	return c.out
}

type collector struct {
	b   *ast.Builder
	out []Node
}

func (c *collector) stmt(id ast.StmtID) {
	if id.IsValid() {
		c.out = append(c.out, Stmt(id))
	}
}

func (c *collector) stmts(ids []ast.StmtID) {
	for _, id := range ids {
		c.stmt(id)
	}
}

func (c *collector) expr(id ast.ExprID) {
	if id.IsValid() {
		c.out = append(c.out, Expr(id))
	}
}

func (c *collector) exprs(ids []ast.ExprID) {
	for _, id := range ids {
		c.expr(id)
	}
}

func (c *collector) pat(id ast.PatID) {
	if id.IsValid() {
		c.out = append(c.out, Pat(id))
	}
}

func (c *collector) key(k ast.PropKey) {
	if k.Kind == ast.KeyComputed {
		c.expr(k.Expr)
	}
}

func (c *collector) fn(id ast.FuncID) {
	if id.IsValid() {
		c.out = append(c.out, Func(id))
	}
}

func (c *collector) stmtChildren(id ast.StmtID) {
	stmts := c.b.Stmts
	st := stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		c.stmts(data.Stmts)
	case ast.StmtExpr:
		data, _ := stmts.Expr(id)
		c.expr(data.Expr)
	case ast.StmtVar:
		data, _ := stmts.Var(id)
		for _, d := range data.Decls {
			c.pat(d.Target)
			c.expr(d.Init)
		}
	case ast.StmtFunc:
		fn, _ := stmts.Func(id)
		c.fn(fn)
	case ast.StmtClass:
		cls, _ := stmts.Class(id)
		c.out = append(c.out, Class(cls))
	case ast.StmtReturn, ast.StmtThrow:
		data, _ := stmts.Value(id)
		c.expr(data.Value)
	case ast.StmtIf:
		data, _ := stmts.If(id)
		c.expr(data.Cond)
		c.stmt(data.Then)
		c.stmt(data.Else)
	case ast.StmtWhile:
		data, _ := stmts.Loop(id)
		c.expr(data.Cond)
		c.stmt(data.Body)
	case ast.StmtDoWhile:
		data, _ := stmts.Loop(id)
		c.stmt(data.Body)
		c.expr(data.Cond)
	case ast.StmtFor:
		data, _ := stmts.For(id)
		c.stmt(data.Init)
		c.expr(data.Cond)
		c.expr(data.Update)
		c.stmt(data.Body)
	case ast.StmtForIn:
		data, _ := stmts.ForIn(id)
		c.pat(data.Target)
		c.expr(data.Right)
		c.stmt(data.Body)
	case ast.StmtTry:
		data, _ := stmts.Try(id)
		c.stmt(data.Block)
		c.pat(data.Param)
		c.stmt(data.Handler)
		c.stmt(data.Finalizer)
	case ast.StmtSwitch:
		data, _ := stmts.Switch(id)
		c.expr(data.Disc)
		for _, cs := range data.Cases {
			c.expr(cs.Test)
			c.stmts(cs.Body)
		}
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		c.stmt(data.Body)
	case ast.StmtExport:
		data, _ := stmts.Export(id)
		c.stmt(data.Decl)
		c.expr(data.Default)
	}
}

func (c *collector) exprChildren(id ast.ExprID) {
	exprs := c.b.Exprs
	ex := exprs.Get(id)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprTemplate:
		data, _ := exprs.Template(id)
		c.exprs(data.Exprs)
	case ast.ExprArray:
		data, _ := exprs.Array(id)
		c.exprs(data.Elems)
	case ast.ExprObject:
		data, _ := exprs.Object(id)
		for _, prop := range data.Props {
			c.key(prop.Key)
			c.expr(prop.Value)
			c.fn(prop.Func)
		}
	case ast.ExprFunc, ast.ExprArrow:
		fn, _ := exprs.Func(id)
		c.fn(fn)
	case ast.ExprClass:
		cls, _ := exprs.Class(id)
		c.out = append(c.out, Class(cls))
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		c.expr(data.Callee)
		c.exprs(data.Args)
	case ast.ExprNew:
		data, _ := exprs.Construct(id)
		c.expr(data.Callee)
		c.exprs(data.Args)
	case ast.ExprMember:
		data, _ := exprs.Member(id)
		c.expr(data.Object)
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		c.expr(data.Object)
		c.expr(data.Index)
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		c.expr(data.X)
	case ast.ExprUpdate:
		data, _ := exprs.Update(id)
		c.expr(data.X)
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		c.expr(data.L)
		c.expr(data.R)
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		c.expr(data.Target)
		c.pat(data.Pattern)
		c.expr(data.Value)
	case ast.ExprConditional:
		data, _ := exprs.Conditional(id)
		c.expr(data.Cond)
		c.expr(data.Then)
		c.expr(data.Else)
	case ast.ExprSequence:
		data, _ := exprs.Sequence(id)
		c.exprs(data.Exprs)
	case ast.ExprParen, ast.ExprSpread:
		x, _ := exprs.Wrapped(id)
		c.expr(x)
	}
}

func (c *collector) patChildren(id ast.PatID) {
	pats := c.b.Pats
	pt := pats.Get(id)
	if pt == nil {
		return
	}
	switch pt.Kind {
	case ast.PatArray:
		data, _ := pats.Array(id)
		for _, el := range data.Elems {
			c.pat(el)
		}
		c.pat(data.Rest)
	case ast.PatObject:
		data, _ := pats.Object(id)
		for _, prop := range data.Props {
			c.key(prop.Key)
			c.pat(prop.Value)
		}
		c.pat(data.Rest)
	case ast.PatDefault:
		data, _ := pats.Default(id)
		c.pat(data.Target)
		c.expr(data.Default)
	case ast.PatExpr:
		data, _ := pats.Expr(id)
		c.expr(data.Expr)
	}
}

func (c *collector) funcChildren(id ast.FuncID) {
	data := c.b.Funcs.Get(id)
	if data == nil {
		return
	}
	for _, p := range data.Params {
		c.pat(p)
	}
	c.pat(data.Rest)
	c.stmt(data.Body)
	c.expr(data.ExprBody)
}

func (c *collector) classChildren(id ast.ClassID) {
	data := c.b.Classes.Get(id)
	if data == nil {
		return
	}
	c.expr(data.Super)
	for _, m := range data.Members {
		c.key(m.Key)
		c.fn(m.Func)
		c.expr(m.Value)
	}
}
