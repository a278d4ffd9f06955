package driver

import (
	"bytes"
	"context"
	"fmt"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"hereafter/internal/ast"
	"hereafter/internal/config"
	"hereafter/internal/cut"
	"hereafter/internal/diag"
	"hereafter/internal/format"
	"hereafter/internal/jump"
	"hereafter/internal/observ"
	"hereafter/internal/parser"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/trace"
	"hereafter/internal/vocab"
)

// DefaultMaxDiagnostics caps the diagnostics kept per file.
const DefaultMaxDiagnostics = 256

// Options configure the transform pipeline of one file.
type Options struct {
	Vocabulary vocab.Vocabulary
	Cut        cut.Options
	Jump       jump.Options
	// SkipCut and SkipJump disable a pass.
	SkipCut        bool
	SkipJump       bool
	MaxDiagnostics int
	// Format controls indentation of synthesized code.
	Format format.Options
	// Timings attaches an OBS8001 diagnostic with phase durations.
	Timings bool
}

// OptionsFromConfig maps project config to pipeline options.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	jopts, err := cfg.JumpOptions()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Vocabulary: cfg.Vocabulary,
		Cut:        cfg.CutOptions(),
		Jump:       jopts,
	}, nil
}

func (o Options) vocabulary() vocab.Vocabulary {
	if o.Vocabulary == (vocab.Vocabulary{}) {
		return vocab.Default()
	}
	return o.Vocabulary
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// FileResult is the outcome of transforming one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Output is the transformed text, nil when the file failed.
	Output  []byte
	Changed bool
	// CutFuncs and JumpFuncs count rewritten functions.
	CutFuncs  int
	JumpFuncs int
	// Cut and Jump are empty for results served from the cache.
	Cut    []cut.Result
	Jump   []jump.Result
	Bag    *diag.Bag
	Timing *observ.Report
	Cached bool
}

// Failed reports whether the file produced an error diagnostic.
func (r *FileResult) Failed() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// TransformSource runs the pipeline over an in-memory source.
func TransformSource(ctx context.Context, name string, src []byte, opts Options) (*source.FileSet, *FileResult, error) {
	fs := source.NewFileSet()
	id := fs.AddNormalized(name, src)
	res, err := Transform(ctx, fs, id, opts)
	return fs, res, err
}

// Transform runs parse, resolve, cut, jump and emit over one file of fs.
// Problems in the source end up in the result's Bag; the returned error
// is reserved for cancellation and plumbing failures.
func Transform(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*FileResult, error) {
	file := fs.Get(id)
	log := trace.Logger().With(zap.String("file", file.Path))
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer span.End("")

	timer := observ.NewTimer()
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := &diag.BagReporter{Bag: bag}
	res := &FileResult{Path: file.Path, FileID: id, Bag: bag}
	defer res.finish(timer, opts.Timings)

	maxErrors, err := safecast.Conv[uint](bag.Cap())
	if err != nil {
		return nil, err
	}

	phase := timer.Begin("parse")
	b, _ := parser.Parse(ctx, fs, id, nil, parser.Options{MaxErrors: maxErrors, Reporter: rep})
	timer.End(phase, "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bag.HasErrors() {
		log.Debug("parse failed", zap.Int("diagnostics", bag.Len()))
		return res, nil
	}

	phase = timer.Begin("resolve")
	syms := symbols.ResolveFile(b, symbols.ResolveOptions{Reporter: rep})
	cls := vocab.NewClassifier(b, &syms, opts.vocabulary())
	timer.End(phase, "")
	if bag.HasErrors() {
		return res, nil
	}

	if !opts.SkipCut {
		phase = timer.Begin("cut")
		res.Cut, err = cut.NewPass(b, file, &syms, cls, opts.Cut, rep).Run(ctx)
		timer.End(phase, fmt.Sprintf("%d functions", len(res.Cut)))
		if err != nil {
			return res.fail(err)
		}
		for _, r := range res.Cut {
			log.Debug("marker found",
				zap.String("function", funcName(b, r.Func)),
				zap.Strings("live", names(b, r.Live)),
				zap.Int("kept", r.Kept),
				zap.Int("dropped", r.Dropped),
			)
		}
	}

	if !opts.SkipJump {
		phase = timer.Begin("jump")
		res.Jump, err = jump.NewCompiler(b, &syms, cls, opts.Jump, rep).Run(ctx)
		timer.End(phase, fmt.Sprintf("%d functions", len(res.Jump)))
		if err != nil {
			return res.fail(err)
		}
		for _, r := range res.Jump {
			log.Debug("labels compiled",
				zap.String("function", funcName(b, r.Func)),
				zap.Int("labels", len(r.Labels)),
				zap.Int("gotos", len(r.Gotos)),
				zap.String("state", r.StateVar),
			)
		}
	}
	res.CutFuncs, res.JumpFuncs = len(res.Cut), len(res.Jump)

	phase = timer.Begin("emit")
	fopts := opts.Format
	fopts.Pads = padTargets(res.Cut, res.Jump, opts.Cut.Pad)
	out, err := format.Emit(file, b, fopts)
	timer.End(phase, "")
	if err != nil {
		if _, ok := diag.AsDiagnostic(err); !ok {
			err = diag.Fatal(diag.NewError(diag.IntEmitFailed, source.Span{File: id}, err.Error()))
		}
		return res.fail(err)
	}
	res.Output = out
	res.Changed = !bytes.Equal(out, file.Content)
	return res, nil
}

// padTargets lists the bodies whose line count must survive. A body the
// jump pass also rewrote grows by construction and is left unpadded.
func padTargets(cuts []cut.Result, jumps []jump.Result, pad bool) map[ast.StmtID]uint32 {
	if !pad || len(cuts) == 0 {
		return nil
	}
	jumped := make(map[ast.StmtID]struct{}, len(jumps))
	for _, j := range jumps {
		jumped[j.Body] = struct{}{}
	}
	out := make(map[ast.StmtID]uint32, len(cuts))
	for _, c := range cuts {
		if _, ok := jumped[c.Body]; ok {
			continue
		}
		out[c.Body] = c.Lines
	}
	return out
}

// fail records a pass error. Diagnostic errors stay in the bag, anything
// else is returned.
func (r *FileResult) fail(err error) (*FileResult, error) {
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		return nil, err
	}
	r.Bag.Add(d)
	r.Output = nil
	return r, nil
}

func (r *FileResult) finish(timer *observ.Timer, timings bool) {
	report := timer.Report()
	r.Timing = &report
	if timings {
		appendTimingDiagnostic(r.Bag, r.FileID, timingPayload{Kind: "file", Path: r.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}
}

func funcName(b *ast.Builder, fn ast.FuncID) string {
	if name := b.Name(b.Funcs.Get(fn).Name); name != "" {
		return name
	}
	return "<anonymous>"
}

func names(b *ast.Builder, ids []source.StringID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = b.Name(id)
	}
	return out
}
