package format

import (
	"errors"
	"fmt"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/walk"
)

// Options control printing.
type Options struct {
	IndentWidth int
	UseTabs     bool
	// Pads maps rewritten blocks to the line count they must keep.
	Pads map[ast.StmtID]uint32
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

type printer struct {
	b   *ast.Builder
	sf  *source.File
	w   *Writer
	opt Options
	// structural печатает все узлы заново, ничего не копируя
	structural bool
	err        error
}

func newPrinter(sf *source.File, b *ast.Builder, opt Options, structural bool) *printer {
	opt = opt.withDefaults()
	w := NewWriter(sf, opt)
	w.verbatim = templateSpans(b)
	return &printer{b: b, sf: sf, w: w, opt: opt, structural: structural}
}

// Emit prints the file, copying clean regions from sf verbatim.
func Emit(sf *source.File, b *ast.Builder, opt Options) ([]byte, error) {
	if sf == nil || b == nil {
		return nil, errors.New("format: nil file or builder")
	}
	p := newPrinter(sf, b, opt, false)
	roots := make([]walk.Node, 0, len(b.File.Body))
	for _, id := range b.File.Body {
		roots = append(roots, walk.Stmt(id))
	}
	p.splice(0, len(sf.Content), roots)
	if p.err != nil {
		return nil, p.err
	}
	return p.w.Bytes(), nil
}

// Reformat prints the whole file structurally. Comments survive only as
// statement docs.
func Reformat(sf *source.File, b *ast.Builder, opt Options) ([]byte, error) {
	if b == nil {
		return nil, errors.New("format: nil builder")
	}
	p := newPrinter(sf, b, opt, true)
	p.stmtList(b.File.Body, false)
	if p.err != nil {
		return nil, p.err
	}
	p.w.Newline()
	return p.w.Bytes(), nil
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// dirty reports whether a node must be printed structurally.
func (p *printer) dirty(n walk.Node) bool {
	if p.structural {
		return true
	}
	switch n.Kind {
	case walk.KindStmt:
		return p.b.Stmts.Get(n.Stmt()).Flags.Dirty()
	case walk.KindExpr:
		return p.b.Exprs.Get(n.Expr()).Flags.Dirty()
	case walk.KindPat:
		return p.b.Pats.Get(n.Pat()).Flags.Dirty()
	}
	return false
}

func (p *printer) span(n walk.Node) source.Span {
	switch n.Kind {
	case walk.KindStmt:
		return p.b.Stmts.Get(n.Stmt()).Span
	case walk.KindExpr:
		return p.b.Exprs.Get(n.Expr()).Span
	case walk.KindPat:
		return p.b.Pats.Get(n.Pat()).Span
	case walk.KindFunc:
		return p.b.Funcs.Get(n.Func()).Span
	case walk.KindClass:
		return p.b.Classes.Get(n.Class()).Span
	}
	return source.Span{}
}

// splice copies [start, end) from source, printing the outermost dirty
// nodes found under roots in their place.
func (p *printer) splice(start, end int, roots []walk.Node) {
	pos := start
	for _, root := range roots {
		walk.Inspect(p.b, root, func(n walk.Node) walk.Action {
			if !p.dirty(n) {
				return walk.Continue
			}
			sp := p.span(n)
			if int(sp.Start) < pos {
				p.fail(fmt.Errorf("format: %s overlaps already printed text", n))
				return walk.Stop
			}
			p.w.CopyRange(pos, int(sp.Start))
			saved := p.w.SetIndent(p.w.LineIndent())
			p.node(n)
			p.w.SetIndent(saved)
			pos = int(sp.End)
			return walk.Skip
		})
	}
	p.w.CopyRange(pos, end)
}

// clean copies a clean node verbatim, re-indented to the current line.
func (p *printer) clean(n walk.Node) {
	sp := p.span(n)
	from := p.w.sourceIndent(sp.Start)
	restore := p.w.Shift(from, p.w.indent)
	p.splice(int(sp.Start), int(sp.End), []walk.Node{n})
	restore()
}

// node prints n structurally.
func (p *printer) node(n walk.Node) {
	switch n.Kind {
	case walk.KindStmt:
		p.stmtBody(n.Stmt())
	case walk.KindExpr:
		p.exprBody(n.Expr(), precSeq)
	case walk.KindPat:
		p.patBody(n.Pat())
	}
}

// stmt prints a child statement: verbatim when clean.
func (p *printer) stmt(id ast.StmtID) {
	if n := walk.Stmt(id); p.dirty(n) {
		p.stmtBody(id)
	} else {
		p.clean(n)
	}
}

func (p *printer) pat(id ast.PatID) {
	if !id.IsValid() {
		return
	}
	if n := walk.Pat(id); p.dirty(n) {
		p.patBody(id)
	} else {
		p.clean(n)
	}
}

// expr prints a child expression at least at precedence min.
func (p *printer) expr(id ast.ExprID, min int) {
	if !id.IsValid() {
		return
	}
	wrap := exprPrec(p.b, id) < min
	if wrap {
		p.w.WriteString("(")
	}
	if n := walk.Expr(id); p.dirty(n) {
		p.exprBody(id, min)
	} else {
		p.clean(n)
	}
	if wrap {
		p.w.WriteString(")")
	}
}

func (p *printer) name(id source.StringID) string {
	return p.b.Name(id)
}

// templateSpans collects template literal spans; their lines keep their
// indentation when copied.
func templateSpans(b *ast.Builder) []source.Span {
	var out []source.Span
	for _, ex := range b.Exprs.Arena.Slice() {
		if ex.Kind == ast.ExprTemplate && !ex.Flags.Dirty() {
			out = append(out, ex.Span)
		}
	}
	return out
}

// overrun converts a padding failure to the invariant diagnostic.
func overrun(span source.Span, err error) error {
	return diag.Fatal(diag.NewError(diag.IntPaddingOverrun, span, err.Error()))
}
