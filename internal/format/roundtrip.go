package format

import (
	"bytes"
	"context"
	"slices"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/parser"
	"hereafter/internal/source"
)

// CheckRoundTrip reformats the file and re-parses the result, ensuring the
// top-level statement kinds are unchanged and a second Reformat is a no-op.
func CheckRoundTrip(ctx context.Context, sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	origBuilder, origFile := parseOnce(ctx, sf, origBag)
	if origBuilder == nil {
		return false, "fmt-check: initial parse failed"
	}
	if origBag.HasErrors() {
		return false, "fmt-check: initial parse has errors"
	}

	formatted, err := Reformat(origFile, origBuilder, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	newBag := diag.NewBag(maxDiag)
	newBuilder, rebuilt := parseOnce(ctx, &source.File{Path: sf.Path, Content: formatted}, newBag)
	if newBuilder == nil || newBag.HasErrors() {
		return false, "fmt-check: reparse failed"
	}

	if !slices.Equal(topKinds(origBuilder), topKinds(newBuilder)) {
		return false, "fmt-check: top-level statement kinds differ after round-trip"
	}

	again, err := Reformat(rebuilt, newBuilder, opt)
	if err != nil || !bytes.Equal(again, formatted) {
		return false, "fmt-check: formatting is not stable"
	}
	return true, "fmt-check: OK"
}

func parseOnce(ctx context.Context, sf *source.File, bag *diag.Bag) (*ast.Builder, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(sf.Path, sf.Content)
	opts := parser.Options{Reporter: &diag.BagReporter{Bag: bag}, MaxErrors: uint(bag.Cap())}
	b, _ := parser.Parse(ctx, fs, id, nil, opts)
	return b, fs.Get(id)
}

func topKinds(b *ast.Builder) []ast.StmtKind {
	kinds := make([]ast.StmtKind, 0, len(b.File.Body))
	for _, id := range b.File.Body {
		if st := b.Stmts.Get(id); st != nil {
			kinds = append(kinds, st.Kind)
		}
	}
	return kinds
}
