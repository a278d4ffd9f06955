package ast

import (
	"hereafter/internal/source"
)

// Synthetic constructors. Nodes built here carry FlagSynthetic and an empty
// span, so the emitter always prints them structurally.

func (b *Builder) synthExpr(id ExprID) ExprID {
	b.Exprs.Get(id).Flags |= FlagSynthetic
	return id
}

func (b *Builder) synthStmt(id StmtID) StmtID {
	b.Stmts.Get(id).Flags |= FlagSynthetic
	return id
}

func (b *Builder) SynthIdent(name string) ExprID {
	return b.synthExpr(b.Exprs.NewIdent(source.Span{}, b.Strings.Intern(name)))
}

func (b *Builder) SynthString(s string) ExprID {
	return b.synthExpr(b.Exprs.NewLit(source.Span{}, LitData{Kind: LitString, Str: s}))
}

func (b *Builder) SynthNumber(n float64) ExprID {
	return b.synthExpr(b.Exprs.NewLit(source.Span{}, LitData{Kind: LitNumber, Num: n}))
}

func (b *Builder) SynthBool(v bool) ExprID {
	return b.synthExpr(b.Exprs.NewLit(source.Span{}, LitData{Kind: LitBool, Bool: v}))
}

func (b *Builder) SynthUndefined() ExprID {
	return b.synthExpr(b.Exprs.NewLit(source.Span{}, LitData{Kind: LitUndefined}))
}

func (b *Builder) SynthAssign(target, value ExprID) ExprID {
	return b.synthExpr(b.Exprs.NewAssign(source.Span{}, AssignData{Op: AssignPlain, Target: target, Value: value}))
}

// SynthAssignPattern builds a destructuring assignment `(pattern = value)`.
func (b *Builder) SynthAssignPattern(pattern PatID, value ExprID) ExprID {
	return b.synthExpr(b.Exprs.NewAssign(source.Span{}, AssignData{Op: AssignPlain, Pattern: pattern, Value: value}))
}

func (b *Builder) SynthClassExpr(cls ClassID) ExprID {
	return b.synthExpr(b.Exprs.NewClass(source.Span{}, cls))
}

func (b *Builder) SynthExprStmt(x ExprID) StmtID {
	return b.synthStmt(b.Stmts.NewExpr(source.Span{}, x))
}

func (b *Builder) SynthBlock(stmts []StmtID) StmtID {
	return b.synthStmt(b.Stmts.NewBlock(source.Span{}, stmts))
}

// SynthLet declares a single name, with init when it is valid.
func (b *Builder) SynthLet(name string, init ExprID) StmtID {
	target := b.Pats.NewIdent(source.Span{}, b.Strings.Intern(name))
	b.Pats.Get(target).Flags |= FlagSynthetic
	return b.synthStmt(b.Stmts.NewVar(source.Span{}, VarLet, []Declarator{{Target: target, Init: init}}))
}

// SynthLetNames declares several names with no initializers.
func (b *Builder) SynthLetNames(names []source.StringID) StmtID {
	decls := make([]Declarator, 0, len(names))
	for _, name := range names {
		target := b.Pats.NewIdent(source.Span{}, name)
		b.Pats.Get(target).Flags |= FlagSynthetic
		decls = append(decls, Declarator{Target: target})
	}
	return b.synthStmt(b.Stmts.NewVar(source.Span{}, VarLet, decls))
}

func (b *Builder) SynthReturn(value ExprID) StmtID {
	return b.synthStmt(b.Stmts.NewReturn(source.Span{}, value))
}

func (b *Builder) SynthBreak(label string) StmtID {
	return b.synthStmt(b.Stmts.NewBreak(source.Span{}, b.labelID(label), source.Span{}))
}

func (b *Builder) SynthContinue(label string) StmtID {
	return b.synthStmt(b.Stmts.NewContinue(source.Span{}, b.labelID(label), source.Span{}))
}

func (b *Builder) labelID(label string) source.StringID {
	if label == "" {
		return source.NoStringID
	}
	return b.Strings.Intern(label)
}

func (b *Builder) SynthWhile(cond ExprID, body StmtID) StmtID {
	return b.synthStmt(b.Stmts.NewWhile(source.Span{}, cond, body))
}

func (b *Builder) SynthLabeled(label string, body StmtID) StmtID {
	return b.synthStmt(b.Stmts.NewLabeled(source.Span{}, b.Strings.Intern(label), source.Span{}, body))
}

func (b *Builder) SynthSwitch(disc ExprID, cases []SwitchCase) StmtID {
	return b.synthStmt(b.Stmts.NewSwitch(source.Span{}, disc, cases))
}

// Rewrap replaces the statements of an original block and marks it rewritten.
func (b *Builder) Rewrap(block StmtID, stmts []StmtID) {
	data, ok := b.Stmts.Block(block)
	if !ok {
		return
	}
	data.Stmts = stmts
	b.Stmts.MarkRewritten(block)
}
