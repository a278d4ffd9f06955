// Package cut implements the fromHere pass: everything above the marker
// statement of a function body goes away except the declarations that
// the code below the marker still needs.
package cut

import (
	"context"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/vocab"
	"hereafter/internal/walk"
)

// Options tune the pass.
type Options struct {
	// Pad asks the emitter to keep the line count of rewritten bodies.
	Pad bool
	// Transitive also keeps declarations needed by kept declarations.
	Transitive bool
}

// Result describes one rewritten function.
type Result struct {
	Func   ast.FuncID
	Body   ast.StmtID // блок тела, помеченный как переписанный
	Marker Marker
	Live   []source.StringID
	// Kept and Dropped count Before statements.
	Kept, Dropped int
	// Lines is the line count of the original body, the padding target.
	Lines uint32
}

// Pass runs the cut transform over the functions of one file.
type Pass struct {
	b    *ast.Builder
	file *source.File
	res  *symbols.Result
	cls  *vocab.Classifier
	opts Options
	rep  diag.Reporter
}

// NewPass prepares the pass for a parsed and resolved file.
func NewPass(b *ast.Builder, file *source.File, res *symbols.Result, cls *vocab.Classifier, opts Options, rep diag.Reporter) *Pass {
	return &Pass{b: b, file: file, res: res, cls: cls, opts: opts, rep: rep}
}

// Run rewrites every function of the file, outer functions first. A
// function dropped by its parent's rewrite is never visited. The first
// structural error aborts the file.
func (p *Pass) Run(ctx context.Context) ([]Result, error) {
	var out []Result
	var queue []ast.FuncID
	walk.InspectStmts(p.b, p.b.File.Body, outermost(&queue, ast.NoFuncID))
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fn := queue[0]
		queue = queue[1:]
		res, changed, err := p.Function(fn)
		if err != nil {
			return nil, err
		}
		if changed {
			out = append(out, res)
		}
		queue = append(innerFuncs(p.b, fn), queue...)
	}
	return out, nil
}

// Function rewrites one function. It reports changed=false when the body
// holds no marker.
func (p *Pass) Function(fn ast.FuncID) (Result, bool, error) {
	data := p.b.Funcs.Get(fn)
	body, ok := p.b.FuncBody(fn)
	if !ok {
		if call, hit := markerInExpr(p.b, p.cls, data.ExprBody); hit {
			diag.ReportInfo(p.rep, diag.CutNonBlockBody, p.b.Exprs.Get(call).Span,
				"function without a block body is skipped").Emit()
		}
		return Result{}, false, nil
	}

	strayMarkers(p.b, p.cls, body, p.rep)
	marker, found, err := Locate(p.b, p.cls, body)
	if err != nil || !found {
		return Result{}, false, err
	}

	before := body[:marker.Index]
	after := body[marker.Index+1:]
	live := Analyze(p.b, p.res, p.res.FuncScopes[fn], before, after, marker.Stmt, p.opts.Transitive)
	kept := Prune(p.b, before, live)

	next := make([]ast.StmtID, 0, len(kept)+len(after))
	next = append(next, kept...)
	next = append(next, after...)
	p.b.Rewrap(data.Body, next)

	res := Result{
		Func:    fn,
		Body:    data.Body,
		Marker:  marker,
		Live:    live.Names(),
		Kept:    len(kept),
		Dropped: len(before) - len(kept),
	}
	if p.file != nil {
		res.Lines = p.file.LineCount(p.b.Stmts.Get(data.Body).Span)
	}
	return res, true, nil
}

// outermost collects function nodes without descending into them.
// self is the function being scanned; it is entered rather than collected.
func outermost(dst *[]ast.FuncID, self ast.FuncID) func(walk.Node) walk.Action {
	return func(n walk.Node) walk.Action {
		if n.Kind != walk.KindFunc || n.Func() == self {
			return walk.Continue
		}
		*dst = append(*dst, n.Func())
		return walk.Skip
	}
}

// innerFuncs lists the functions directly nested in fn.
func innerFuncs(b *ast.Builder, fn ast.FuncID) []ast.FuncID {
	var out []ast.FuncID
	walk.Inspect(b, walk.Func(fn), outermost(&out, fn))
	return out
}
