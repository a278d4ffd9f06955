package cut

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/vocab"
	"hereafter/internal/walk"
)

// Marker is the located cut statement of a function body.
type Marker struct {
	Index int // позиция в списке операторов тела
	Stmt  ast.StmtID
	Call  ast.ExprID
}

// Locate scans the top-level statements of a body for the cut marker.
// It reports ok=false when there is none and a CUT4001 error when there
// is more than one.
func Locate(b *ast.Builder, cls *vocab.Classifier, body []ast.StmtID) (Marker, bool, error) {
	var (
		found Marker
		ok    bool
	)
	for i, id := range body {
		p := cls.Stmt(id)
		if p.Kind != vocab.PatternMarker {
			continue
		}
		if ok {
			d := diag.NewError(diag.CutDuplicateMarker, b.Stmts.Get(id).Span,
				"more than one "+cls.Vocabulary().CutName+"() marker in the same function").
				WithNote(b.Stmts.Get(found.Stmt).Span, "first marker here")
			return Marker{}, false, diag.Fatal(d)
		}
		found = Marker{Index: i, Stmt: id, Call: p.Call}
		ok = true
	}
	return found, ok, nil
}

// strayMarkers reports marker calls below the top level of a body and
// marker-named calls that take arguments. Nested functions are skipped:
// they are handled on their own.
func strayMarkers(b *ast.Builder, cls *vocab.Classifier, body []ast.StmtID, rep diag.Reporter) {
	name := cls.Vocabulary().CutName
	for _, top := range body {
		if cls.Stmt(top).Kind == vocab.PatternMarker {
			continue
		}
		walk.Inspect(b, walk.Stmt(top), func(n walk.Node) walk.Action {
			if n.Kind == walk.KindFunc {
				return walk.Skip
			}
			call := n.Expr()
			if !cls.IsReservedCall(call, vocab.RoleCut) {
				return walk.Continue
			}
			span := b.Exprs.Get(call).Span
			if cls.Call(call).Kind == vocab.PatternMarker {
				diag.ReportWarning(rep, diag.CutNestedMarker, span,
					name+"() below the top level of a function is not a cut point").Emit()
			} else {
				diag.ReportInfo(rep, diag.CutMarkerWithArgs, span,
					name+"() with arguments is an ordinary call").Emit()
			}
			return walk.Continue
		})
	}
}

// markerInExpr reports whether an expression body contains a marker call.
func markerInExpr(b *ast.Builder, cls *vocab.Classifier, x ast.ExprID) (ast.ExprID, bool) {
	var hit ast.ExprID
	walk.Inspect(b, walk.Expr(x), func(n walk.Node) walk.Action {
		if n.Kind == walk.KindFunc {
			return walk.Skip
		}
		if cls.Call(n.Expr()).Kind == vocab.PatternMarker {
			hit = n.Expr()
			return walk.Stop
		}
		return walk.Continue
	})
	return hit, hit.IsValid()
}
