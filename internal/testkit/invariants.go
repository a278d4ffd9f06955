// Package testkit holds assertions shared by parser tests and fuzzers.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/walk"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) the file span lies within the content and belongs to sf
// 2) top-level statements are non-empty, inside the file span and in source order
// 3) every node of the tree has Start <= End within the content bounds
func CheckSpanInvariants(b *ast.Builder, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) file span sanity
	f := b.File
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	// 2) top-level statements
	var prevEnd uint32
	for i, id := range f.Body {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement for id=%d", id)
		}
		sp := st.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty statement span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("statement span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("statement span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("statement %v overlaps its predecessor ending at %d", sp, prevEnd)
		}
		prevEnd = sp.End
	}

	// 3) every node within bounds
	var bad error
	for _, id := range f.Body {
		walk.Inspect(b, walk.Stmt(id), func(n walk.Node) walk.Action {
			sp := spanOf(b, n)
			if sp.Start > sp.End || sp.End > lenContent {
				bad = fmt.Errorf("%v node span %v outside content of %d bytes", n.Kind, sp, lenContent)
				return walk.Stop
			}
			return walk.Continue
		})
		if bad != nil {
			return bad
		}
	}
	return nil
}

func spanOf(b *ast.Builder, n walk.Node) source.Span {
	switch n.Kind {
	case walk.KindStmt:
		if st := b.Stmts.Get(n.Stmt()); st != nil {
			return st.Span
		}
	case walk.KindExpr:
		if e := b.Exprs.Get(n.Expr()); e != nil {
			return e.Span
		}
	case walk.KindPat:
		if p := b.Pats.Get(n.Pat()); p != nil {
			return p.Span
		}
	case walk.KindFunc:
		if f := b.Funcs.Get(n.Func()); f != nil {
			return f.Span
		}
	case walk.KindClass:
		if c := b.Classes.Get(n.Class()); c != nil {
			return c.Span
		}
	}
	return source.Span{}
}
