// Package interp is a small tree-walking evaluator for the JavaScript
// subset the parser accepts. It exists to check that compiled label/goto
// code behaves like the direct reading of the same program: with Direct
// set, label() and goto() are builtins that jump inside the running
// function body.
package interp

import (
	"context"
	"io"

	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/vocab"
)

// Options configure an evaluator.
type Options struct {
	Vocabulary vocab.Vocabulary
	// Direct provides label() and goto() as native control flow.
	Direct bool
	// MaxSteps bounds executed statements; 0 means DefaultMaxSteps.
	MaxSteps int
}

// DefaultMaxSteps stops runaway loops.
const DefaultMaxSteps = 1_000_000

type callFrame struct {
	name string
	span source.Span
}

// Interp evaluates one parsed file.
type Interp struct {
	b       *ast.Builder
	out     io.Writer
	opts    Options
	globals *env
	module  *frame
	stack   []callFrame
	steps   int
	ctx     context.Context

	nameThis      source.StringID
	nameArguments source.StringID

	arrayMethods  map[string]Value
	stringMethods map[string]Value
	numberMethods map[string]Value
	hasOwn        Value
	errorCtors    map[string]*Object
}

// New prepares an evaluator writing console output to out.
func New(b *ast.Builder, out io.Writer, opts Options) *Interp {
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Vocabulary == (vocab.Vocabulary{}) {
		opts.Vocabulary = vocab.Default()
	}
	in := &Interp{
		b:             b,
		out:           out,
		opts:          opts,
		globals:       newEnv(nil, true),
		ctx:           context.Background(),
		nameThis:      b.Strings.Intern("this"),
		nameArguments: b.Strings.Intern("arguments"),
	}
	in.installGlobals()
	return in
}

// Run executes the top-level statements of the file.
func (in *Interp) Run(ctx context.Context) error {
	in.ctx = ctx
	in.module = &frame{}
	in.hoist(in.b.File.Body, in.globals, true)
	_, err := in.execBody(in.b.File.Body, in.globals, in.module)
	return in.uncaught(err)
}

// Call invokes a global function by name after Run.
func (in *Interp) Call(ctx context.Context, name string, args ...Value) (Value, error) {
	in.ctx = ctx
	b := in.globals.lookup(in.b.Strings.Intern(name))
	if b == nil || b.value.Kind != VKObject || !b.value.Obj.callable() {
		return Undefined(), in.makeError(ErrNoFunction, source.Span{}, "no function named "+name)
	}
	v, err := in.call(b.value, Undefined(), args, ast.NoExprID)
	return v, in.uncaught(err)
}

func (in *Interp) name(id source.StringID) string { return in.b.Name(id) }

func (in *Interp) exprSpan(id ast.ExprID) source.Span {
	if ex := in.b.Exprs.Get(id); ex != nil {
		return ex.Span
	}
	return source.Span{}
}

// step counts one executed statement.
func (in *Interp) step(span source.Span) error {
	in.steps++
	if in.steps > in.opts.MaxSteps {
		return in.makeError(ErrStepLimit, span, "step limit exceeded")
	}
	if in.steps&1023 == 0 {
		if err := in.ctx.Err(); err != nil {
			return in.makeError(ErrCancelled, span, err.Error())
		}
	}
	return nil
}
