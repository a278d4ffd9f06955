// Package jump compiles label/goto pseudo-control flow into a dispatch
// loop:
//
//	let _gotoState = "start";
//	_gotoLoop: while (true) {
//	  switch (_gotoState) {
//	    case "start": ...
//	    case "_again": ...
//	    case "end": break _gotoLoop;
//	  }
//	}
//
// A label is a top-level `let again = label();`; `goto(again);` moves to
// the statements following that declaration.
package jump

import (
	"context"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/symbols"
	"hereafter/internal/vocab"
	"hereafter/internal/walk"
)

// Compiler runs the jump pass over the functions of one file.
type Compiler struct {
	b    *ast.Builder
	res  *symbols.Result
	cls  *vocab.Classifier
	opts Options
	rep  diag.Reporter
}

// NewCompiler prepares the pass for a parsed and resolved file.
func NewCompiler(b *ast.Builder, res *symbols.Result, cls *vocab.Classifier, opts Options, rep diag.Reporter) *Compiler {
	return &Compiler{b: b, res: res, cls: cls, opts: opts, rep: rep}
}

// Run compiles every function of the file that uses labels or gotos.
// The first error aborts the file.
func (c *Compiler) Run(ctx context.Context) ([]Result, error) {
	var out []Result
	for _, fn := range walk.FileFunctions(c.b) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, changed, err := c.Function(fn)
		if err != nil {
			return nil, err
		}
		if changed {
			out = append(out, res)
		}
	}
	if err := c.checkModule(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkModule rejects gotos and labels outside any function.
func (c *Compiler) checkModule() error {
	s := newScan()
	var err error
	walk.InspectStmts(c.b, c.b.File.Body, func(n walk.Node) walk.Action {
		if n.Kind == walk.KindFunc {
			return walk.Skip
		}
		if n.Kind == walk.KindExpr && c.b.Exprs.Get(n.Expr()).Kind == ast.ExprCall {
			err = c.checkCall(s, n.Expr())
		}
		if err != nil {
			return walk.Stop
		}
		return walk.Continue
	})
	return err
}

// Function compiles one function. It reports changed=false when the body
// uses neither labels nor gotos.
func (c *Compiler) Function(fn ast.FuncID) (Result, bool, error) {
	data := c.b.Funcs.Get(fn)
	body, ok := c.b.FuncBody(fn)
	if !ok {
		return Result{}, false, nil
	}

	s, err := c.scanBody(body)
	if err != nil {
		return Result{}, false, err
	}
	if err := c.validate(s, body); err != nil {
		return Result{}, false, err
	}
	if s.empty() {
		return Result{}, false, nil
	}

	nm := newNamer(c.b, fn)
	r := &rewriter{
		c:      c,
		states: make(map[ast.StmtID]string, len(s.gotos)),
		state:  nm.unique("_gotoState"),
		loop:   nm.unique("_gotoLoop"),
		namer:  nm,
		jumps:  make(map[ast.StmtID]struct{}),
	}
	for i := range s.labels {
		s.labels[i].State = "_" + c.b.Name(s.labels[i].Name)
	}
	for _, g := range s.gotos {
		r.states[g.Stmt] = s.labels[s.byName[g.Target]].State
	}

	segments := c.partition(s, body)
	h := newHoister(c.b, c.res, c.res.FuncScopes[fn])
	for i := range segments {
		var out []ast.StmtID
		for _, id := range segments[i].Stmts {
			for _, rest := range h.stmt(id) {
				if repl, ok := r.expand(rest); ok {
					out = append(out, repl...)
				} else {
					out = append(out, rest)
				}
			}
		}
		segments[i].Stmts = out
	}
	if r.err != nil {
		return Result{}, false, r.err
	}

	c.b.Rewrap(data.Body, c.assemble(r, h, segments))
	res := Result{
		Func:      fn,
		Body:      data.Body,
		Labels:    s.labels,
		Gotos:     s.gotos,
		Segments:  segments,
		Hoisted:   h.names,
		StateVar:  r.state,
		LoopLabel: r.loop,
		ResultVar: r.result,
	}
	return res, true, nil
}

// partition splits body at the label declarations, which are dropped.
func (c *Compiler) partition(s *scan, body []ast.StmtID) []Segment {
	segments := make([]Segment, 0, len(s.labels)+1)
	cur := Segment{State: StateStart}
	next := 0
	for _, id := range body {
		if next < len(s.labels) && s.labels[next].Decl == id {
			segments = append(segments, cur)
			cur = Segment{State: s.labels[next].State}
			next++
			continue
		}
		cur.Stmts = append(cur.Stmts, id)
	}
	return append(segments, cur)
}

// assemble builds the new body around the dispatch loop.
func (c *Compiler) assemble(r *rewriter, h *hoister, segments []Segment) []ast.StmtID {
	b := c.b
	out := []ast.StmtID{b.SynthLet(r.state, b.SynthString(StateStart))}
	if r.result != "" {
		out = append(out, b.SynthLet(r.result, ast.NoExprID))
	}
	if len(h.names) > 0 {
		out = append(out, b.SynthLetNames(h.names))
	}
	out = append(out, h.funcs...)

	cases := make([]ast.SwitchCase, 0, len(segments)+1)
	for i, seg := range segments {
		stmts := seg.Stmts
		if !r.terminated(stmts) {
			stmts = append(stmts, r.transition(c.fallTo(segments, i))...)
		}
		cases = append(cases, ast.SwitchCase{Test: b.SynthString(seg.State), Body: stmts})
	}
	cases = append(cases, ast.SwitchCase{
		Test: b.SynthString(StateEnd),
		Body: []ast.StmtID{b.SynthBreak(r.loop)},
	})

	dispatch := b.SynthSwitch(b.SynthIdent(r.state), cases)
	loop := b.SynthLabeled(r.loop, b.SynthWhile(b.SynthBool(true), b.SynthBlock([]ast.StmtID{dispatch})))
	out = append(out, loop)
	if r.result != "" {
		out = append(out, b.SynthReturn(b.SynthIdent(r.result)))
	}
	return out
}

// fallTo names the state entered when segment i runs off its end.
func (c *Compiler) fallTo(segments []Segment, i int) string {
	if i+1 >= len(segments) {
		return StateEnd
	}
	if i > 0 && c.opts.Fallthrough == FallEnd {
		return StateEnd
	}
	return segments[i+1].State
}
