package vocab

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
)

// PatternKind enumerates the recognised reserved shapes.
type PatternKind uint8

const (
	PatternNone PatternKind = iota
	// PatternMarker is `fromHere();` in statement position.
	PatternMarker
	// PatternLabel is `let l = label();` with a single identifier declarator.
	PatternLabel
	// PatternGoto is `goto(l);` with exactly one identifier argument.
	PatternGoto
)

func (k PatternKind) String() string {
	switch k {
	case PatternMarker:
		return "marker"
	case PatternLabel:
		return "label"
	case PatternGoto:
		return "goto"
	default:
		return "none"
	}
}

// Pattern is a recognised reserved shape.
type Pattern struct {
	Kind PatternKind
	Stmt ast.StmtID // оператор, если форма в позиции оператора
	Call ast.ExprID
	// Name is the label name for PatternLabel and the target for PatternGoto.
	Name     source.StringID
	NameSpan source.Span
	// Target is the identifier argument of a goto.
	Target ast.ExprID
}

// Classifier matches statements and calls against a vocabulary using
// resolved bindings, so a local alias or an unrelated import never
// masquerades as a reserved name.
type Classifier struct {
	b        *ast.Builder
	res      *symbols.Result
	vocab    Vocabulary
	names    [3]source.StringID
	dflt     source.StringID
	bindable map[symbols.SymbolKind]bool
}

// NewClassifier prepares a classifier for one resolved file.
func NewClassifier(b *ast.Builder, res *symbols.Result, v Vocabulary) *Classifier {
	c := &Classifier{
		b:     b,
		res:   res,
		vocab: v,
		dflt:  b.Strings.Intern("default"),
		bindable: map[symbols.SymbolKind]bool{
			symbols.SymbolVar:      true,
			symbols.SymbolLet:      true,
			symbols.SymbolConst:    true,
			symbols.SymbolFunction: true,
		},
	}
	for _, r := range []Role{RoleCut, RoleLabel, RoleGoto} {
		c.names[r] = b.Strings.Intern(v.name(r))
	}
	return c
}

// Vocabulary returns the reserved names in use.
func (c *Classifier) Vocabulary() Vocabulary { return c.vocab }

// Reduce strips parentheses and takes the last element of sequence
// expressions until neither applies.
func (c *Classifier) Reduce(id ast.ExprID) ast.ExprID {
	for {
		id = c.b.Exprs.Unparen(id)
		seq, ok := c.b.Exprs.Sequence(id)
		if !ok || len(seq.Exprs) == 0 {
			return id
		}
		id = seq.Exprs[len(seq.Exprs)-1]
	}
}

// Stmt classifies a statement.
func (c *Classifier) Stmt(id ast.StmtID) Pattern {
	if data, ok := c.b.Stmts.Expr(id); ok {
		p := c.Call(c.Reduce(data.Expr))
		if p.Kind == PatternLabel {
			return Pattern{}
		}
		p.Stmt = id
		return p
	}
	if data, ok := c.b.Stmts.Var(id); ok {
		return c.labelDecl(id, data)
	}
	return Pattern{}
}

func (c *Classifier) labelDecl(id ast.StmtID, data *ast.VarData) Pattern {
	if len(data.Decls) != 1 {
		return Pattern{}
	}
	d := data.Decls[0]
	target, ok := c.b.Pats.Ident(d.Target)
	if !ok || !d.Init.IsValid() {
		return Pattern{}
	}
	init := c.b.Exprs.Unparen(d.Init)
	call, ok := c.b.Exprs.Call(init)
	if !ok || len(call.Args) != 0 || !c.CalleeIs(call.Callee, RoleLabel) {
		return Pattern{}
	}
	return Pattern{
		Kind:     PatternLabel,
		Stmt:     id,
		Call:     init,
		Name:     target.Name,
		NameSpan: c.b.Pats.Get(d.Target).Span,
	}
}

// Call classifies a call expression found in any position. A label
// constructor call is reported as PatternLabel without a name.
func (c *Classifier) Call(id ast.ExprID) Pattern {
	call, ok := c.b.Exprs.Call(id)
	if !ok {
		return Pattern{}
	}
	switch {
	case len(call.Args) == 0 && c.CalleeIs(call.Callee, RoleCut):
		return Pattern{Kind: PatternMarker, Call: id}
	case len(call.Args) == 0 && c.CalleeIs(call.Callee, RoleLabel):
		return Pattern{Kind: PatternLabel, Call: id}
	case len(call.Args) == 1 && c.CalleeIs(call.Callee, RoleGoto):
		arg := c.b.Exprs.Unparen(call.Args[0])
		ident, ok := c.b.Exprs.Ident(arg)
		if !ok {
			return Pattern{}
		}
		return Pattern{
			Kind:     PatternGoto,
			Call:     id,
			Name:     ident.Name,
			NameSpan: c.b.Exprs.Get(arg).Span,
			Target:   arg,
		}
	}
	return Pattern{}
}

// IsReservedCall reports whether id calls a reserved callee of role
// regardless of its arguments.
func (c *Classifier) IsReservedCall(id ast.ExprID, role Role) bool {
	call, ok := c.b.Exprs.Call(id)
	return ok && c.CalleeIs(call.Callee, role)
}

// CalleeIs reports whether callee names the reserved function of role.
//
// An identifier matches when it is unbound and spelled like the reserved
// name, when it is a local function or variable of that name, or when it
// is an import from the role's module whose imported name is the reserved
// name (or default, except for the label constructor). A member access
// ns.name matches when ns is a namespace or default import of the module.
func (c *Classifier) CalleeIs(callee ast.ExprID, role Role) bool {
	callee = c.Reduce(callee)
	want := c.names[role]
	if ident, ok := c.b.Exprs.Ident(callee); ok {
		sym, bound := c.res.Symbol(callee)
		if !bound {
			return ident.Name == want
		}
		if sym.Kind == symbols.SymbolImport {
			return c.importMatches(sym, role, false)
		}
		return c.bindable[sym.Kind] && ident.Name == want
	}
	if member, ok := c.b.Exprs.Member(callee); ok {
		if member.Optional || member.Prop != want {
			return false
		}
		ns := c.b.Exprs.Unparen(member.Object)
		if _, isIdent := c.b.Exprs.Ident(ns); !isIdent {
			return false
		}
		sym, bound := c.res.Symbol(ns)
		return bound && sym.Kind == symbols.SymbolImport && c.importMatches(sym, role, true)
	}
	return false
}

func (c *Classifier) importMatches(sym *symbols.Symbol, role Role, viaMember bool) bool {
	imp := sym.Import
	if imp == nil || !ModuleMatches(imp.Module, c.vocab.module(role)) {
		return false
	}
	if viaMember {
		return imp.Kind == ast.ImportNamespace || imp.Kind == ast.ImportDefault
	}
	switch imp.Kind {
	case ast.ImportNamed:
		return imp.Imported == c.names[role] || (imp.Imported == c.dflt && role != RoleLabel)
	case ast.ImportDefault:
		return role != RoleLabel
	}
	return false
}
