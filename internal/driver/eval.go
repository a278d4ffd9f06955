package driver

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"hereafter/internal/diag"
	"hereafter/internal/interp"
	"hereafter/internal/source"
	"hereafter/internal/trace"
)

// EvalMode selects how label/goto run under the evaluator.
type EvalMode uint8

const (
	// EvalDirect gives label() and goto() native semantics.
	EvalDirect EvalMode = iota
	// EvalCompiled runs the jump pass first and evaluates its output.
	EvalCompiled
)

// EvalOptions configure Eval.
type EvalOptions struct {
	Mode      EvalMode
	Transform Options
	// Call names a global function to invoke after the top level ran.
	Call     string
	MaxSteps int
}

// EvalResult carries the diagnostics of a failed front end, or the value
// returned by the called function.
type EvalResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	// Source is the text that actually ran.
	Source []byte
	Value  interp.Value
}

// Eval runs src in the evaluator, writing console output to out. Front
// end problems end up in the result's Bag; runtime failures are returned
// as *interp.RuntimeError.
func Eval(ctx context.Context, name string, src []byte, out io.Writer, opts EvalOptions) (*EvalResult, error) {
	text := src
	if opts.Mode == EvalCompiled {
		topts := opts.Transform
		topts.SkipCut = true
		fs, res, err := TransformSource(ctx, name, src, topts)
		if err != nil {
			return nil, err
		}
		if res.Failed() {
			return &EvalResult{FileSet: fs, Bag: res.Bag}, nil
		}
		text = res.Output
	}

	pr, err := ParseSource(ctx, name, text, opts.Transform.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	res := &EvalResult{FileSet: pr.FileSet, Bag: pr.Bag, Source: text}
	if pr.Bag.HasErrors() {
		return res, nil
	}

	trace.Logger().Debug("eval",
		zap.String("file", name),
		zap.Bool("direct", opts.Mode == EvalDirect),
		zap.String("call", opts.Call),
	)
	in := interp.New(pr.Builder, out, interp.Options{
		Vocabulary: opts.Transform.Vocabulary,
		Direct:     opts.Mode == EvalDirect,
		MaxSteps:   opts.MaxSteps,
	})
	if err := in.Run(ctx); err != nil {
		return res, err
	}
	if opts.Call == "" {
		return res, nil
	}
	res.Value, err = in.Call(ctx, opts.Call)
	return res, err
}

// IsRuntimeError reports whether err came from the evaluated program.
func IsRuntimeError(err error) bool {
	var rerr *interp.RuntimeError
	return errors.As(err, &rerr)
}
