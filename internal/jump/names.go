package jump

import (
	"strconv"

	"hereafter/internal/ast"
	"hereafter/internal/walk"
)

// namer hands out identifiers that do not clash with any name used
// inside the function.
type namer struct {
	used map[string]struct{}
}

func newNamer(b *ast.Builder, fn ast.FuncID) *namer {
	nm := &namer{used: make(map[string]struct{})}
	walk.Inspect(b, walk.Func(fn), func(n walk.Node) walk.Action {
		switch n.Kind {
		case walk.KindExpr:
			if ident, ok := b.Exprs.Ident(n.Expr()); ok {
				nm.used[b.Name(ident.Name)] = struct{}{}
			}
		case walk.KindPat:
			if ident, ok := b.Pats.Ident(n.Pat()); ok {
				nm.used[b.Name(ident.Name)] = struct{}{}
			}
		case walk.KindStmt:
			if data, ok := b.Stmts.LabeledStmt(n.Stmt()); ok {
				nm.used[b.Name(data.Label)] = struct{}{}
			}
		}
		return walk.Continue
	})
	return nm
}

// unique returns base or base followed by the smallest free number.
func (nm *namer) unique(base string) string {
	name := base
	for i := 2; ; i++ {
		if _, taken := nm.used[name]; !taken {
			break
		}
		name = base + strconv.Itoa(i)
	}
	nm.used[name] = struct{}{}
	return name
}
