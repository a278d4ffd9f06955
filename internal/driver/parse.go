package driver

import (
	"context"

	"fortio.org/safecast"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/parser"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
)

// ParseResult holds a parsed and resolved file.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Symbols *symbols.Result
	Bag     *diag.Bag
}

// Parse loads and parses one file. Name resolution runs only when parsing
// succeeded.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, fileID, maxDiagnostics)
}

// ParseSource parses an in-memory source.
func ParseSource(ctx context.Context, name string, src []byte, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	return parseLoaded(ctx, fs, fs.AddNormalized(name, src), maxDiagnostics)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, maxDiagnostics int) (*ParseResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiagnostics)
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	rep := &diag.BagReporter{Bag: bag}
	builder, _ := parser.Parse(ctx, fs, id, nil, parser.Options{Reporter: rep, MaxErrors: maxErrors})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ParseResult{
		FileSet: fs,
		File:    fs.Get(id),
		Builder: builder,
		Bag:     bag,
	}
	if !bag.HasErrors() {
		syms := symbols.ResolveFile(builder, symbols.ResolveOptions{Reporter: rep})
		res.Symbols = &syms
	}
	return res, nil
}
