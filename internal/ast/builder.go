package ast

import (
	"hereafter/internal/source"
)

type Hints struct{ Stmts, Exprs, Pats uint }

// File is the root of one parsed program.
type File struct {
	Span source.Span
	Body []StmtID
}

type Builder struct {
	Stmts   *Stmts
	Exprs   *Exprs
	Pats    *Pats
	Funcs   *Funcs
	Classes *Classes
	Strings *source.Interner
	File    File
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Pats == 0 {
		hints.Pats = 1 << 6
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Pats:    NewPats(hints.Pats),
		Funcs:   NewFuncs(hints.Stmts / 16),
		Classes: NewClasses(hints.Stmts / 64),
		Strings: strings,
	}
}

// Name returns the interned text for id.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// FuncBody returns the statements of a block-bodied function.
func (b *Builder) FuncBody(fn FuncID) ([]StmtID, bool) {
	data := b.Funcs.Get(fn)
	if data == nil || !data.Body.IsValid() {
		return nil, false
	}
	block, ok := b.Stmts.Block(data.Body)
	if !ok {
		return nil, false
	}
	return block.Stmts, true
}

// CalleeName returns the identifier name of a call's callee, if it is a bare identifier.
func (b *Builder) CalleeName(call ExprID) (source.StringID, bool) {
	data, ok := b.Exprs.Call(b.Exprs.Unparen(call))
	if !ok {
		return source.NoStringID, false
	}
	ident, ok := b.Exprs.Ident(b.Exprs.Unparen(data.Callee))
	if !ok {
		return source.NoStringID, false
	}
	return ident.Name, true
}
