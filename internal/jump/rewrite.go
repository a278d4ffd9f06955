package jump

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
)

// rewriter replaces gotos and returns with state transitions. Nested
// functions keep their own returns.
type rewriter struct {
	c      *Compiler
	states map[ast.StmtID]string // goto -> состояние цели
	state  string
	loop   string
	result string // пусто, пока не встретился return со значением
	namer  *namer
	jumps  map[ast.StmtID]struct{}
	err    error
}

// transition builds `state = "<to>"; continue loop;`.
func (r *rewriter) transition(to string) []ast.StmtID {
	b := r.c.b
	set := b.SynthExprStmt(b.SynthAssign(b.SynthIdent(r.state), b.SynthString(to)))
	cont := b.SynthContinue(r.loop)
	r.jumps[cont] = struct{}{}
	return []ast.StmtID{set, cont}
}

// expand returns the replacement of a goto or return statement.
func (r *rewriter) expand(id ast.StmtID) ([]ast.StmtID, bool) {
	if to, ok := r.states[id]; ok {
		return r.transition(to), true
	}
	b := r.c.b
	data, ok := b.Stmts.Value(id)
	if !ok || b.Stmts.Get(id).Kind != ast.StmtReturn {
		r.children(id)
		return nil, false
	}
	if !data.Value.IsValid() {
		return r.transition(StateEnd), true
	}
	if r.c.opts.Returns == ReturnsReject {
		r.fail(fatal(diag.JmpValuedReturn, b.Stmts.Get(id).Span,
			"valued return in a label/goto function (returns policy is reject)"))
		return nil, false
	}
	if r.result == "" {
		r.result = r.namer.unique("_gotoResult")
	}
	store := b.SynthExprStmt(b.SynthAssign(b.SynthIdent(r.result), data.Value))
	return append([]ast.StmtID{store}, r.transition(StateEnd)...), true
}

func (r *rewriter) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// list rewrites a statement list and reports whether it changed.
func (r *rewriter) list(ids []ast.StmtID) ([]ast.StmtID, bool) {
	out := make([]ast.StmtID, 0, len(ids))
	changed := false
	for _, id := range ids {
		if repl, ok := r.expand(id); ok {
			out = append(out, repl...)
			changed = true
			continue
		}
		out = append(out, id)
	}
	return out, changed
}

// single rewrites a statement in a position that holds exactly one
// statement; a replacement is wrapped in a block.
func (r *rewriter) single(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	repl, ok := r.expand(id)
	if !ok {
		return
	}
	b := r.c.b
	b.Stmts.Replace(id, b.SynthBlock(repl))
}

// children rewrites the statements nested in id.
func (r *rewriter) children(id ast.StmtID) {
	b := r.c.b
	stmts := b.Stmts
	switch stmts.Get(id).Kind {
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		if next, changed := r.list(data.Stmts); changed {
			b.Rewrap(id, next)
		}
	case ast.StmtIf:
		data, _ := stmts.If(id)
		r.single(data.Then)
		r.single(data.Else)
	case ast.StmtWhile, ast.StmtDoWhile:
		data, _ := stmts.Loop(id)
		r.single(data.Body)
	case ast.StmtFor:
		data, _ := stmts.For(id)
		r.single(data.Body)
	case ast.StmtForIn:
		data, _ := stmts.ForIn(id)
		r.single(data.Body)
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		r.single(data.Body)
	case ast.StmtTry:
		data, _ := stmts.Try(id)
		r.children(data.Block)
		if data.Handler.IsValid() {
			r.children(data.Handler)
		}
		if data.Finalizer.IsValid() {
			r.children(data.Finalizer)
		}
	case ast.StmtSwitch:
		data, _ := stmts.Switch(id)
		for i := range data.Cases {
			if next, changed := r.list(data.Cases[i].Body); changed {
				data.Cases[i].Body = next
				stmts.MarkRewritten(id)
			}
		}
	}
}

// terminated reports whether control cannot run off the end of list.
func (r *rewriter) terminated(list []ast.StmtID) bool {
	if len(list) == 0 {
		return false
	}
	last := list[len(list)-1]
	if _, ok := r.jumps[last]; ok {
		return true
	}
	return r.c.b.Stmts.Get(last).Kind == ast.StmtThrow
}
