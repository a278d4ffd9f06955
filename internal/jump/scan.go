package jump

import (
	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/vocab"
	"hereafter/internal/walk"
)

// scan holds the label and goto sites of one function body.
type scan struct {
	labels  []Label
	byName  map[source.StringID]int
	gotos   []Goto
	byStmt  map[ast.StmtID]int
	calls   map[ast.ExprID]struct{} // вызовы goto и label в допустимых позициях
	args    map[ast.ExprID]struct{} // аргументы goto
	symbols map[symbols.SymbolID]int
}

func newScan() *scan {
	return &scan{
		byName:  make(map[source.StringID]int),
		byStmt:  make(map[ast.StmtID]int),
		calls:   make(map[ast.ExprID]struct{}),
		args:    make(map[ast.ExprID]struct{}),
		symbols: make(map[symbols.SymbolID]int),
	}
}

func (s *scan) empty() bool { return len(s.labels) == 0 && len(s.gotos) == 0 }

// scanBody records labels declared at the top of body and gotos in
// statement position anywhere below it. Nested functions are not entered.
func (c *Compiler) scanBody(body []ast.StmtID) (*scan, error) {
	s := newScan()
	for i, id := range body {
		p := c.cls.Stmt(id)
		switch p.Kind {
		case vocab.PatternLabel:
			if err := c.addLabel(s, p, i); err != nil {
				return nil, err
			}
			continue
		case vocab.PatternGoto:
			s.addGoto(p)
			continue
		}

		var err error
		walk.Inspect(c.b, walk.Stmt(id), func(n walk.Node) walk.Action {
			switch n.Kind {
			case walk.KindFunc:
				return walk.Skip
			case walk.KindStmt:
				if n.Stmt() == id {
					return walk.Continue
				}
				p := c.cls.Stmt(n.Stmt())
				switch p.Kind {
				case vocab.PatternLabel:
					err = fatal(diag.JmpNestedLabel, c.b.Stmts.Get(n.Stmt()).Span,
						"label "+c.b.Name(p.Name)+" must be declared at the top level of the function body")
					return walk.Stop
				case vocab.PatternGoto:
					s.addGoto(p)
				}
			}
			return walk.Continue
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *Compiler) addLabel(s *scan, p vocab.Pattern, index int) error {
	if prev, dup := s.byName[p.Name]; dup {
		return diag.Fatal(diag.NewError(diag.JmpDuplicateLabel, p.NameSpan,
			"duplicate label variable '"+c.b.Name(p.Name)+"'").
			WithNote(s.labels[prev].NameSpan, "first declared here"))
	}
	s.byName[p.Name] = len(s.labels)
	s.calls[p.Call] = struct{}{}
	s.labels = append(s.labels, Label{
		Name:     p.Name,
		NameSpan: p.NameSpan,
		Decl:     p.Stmt,
		Next:     index + 1,
	})
	if data, ok := c.b.Stmts.Var(p.Stmt); ok {
		if sym, ok := c.res.Bindings[data.Decls[0].Target]; ok {
			s.symbols[sym] = len(s.labels) - 1
		}
	}
	return nil
}

func (s *scan) addGoto(p vocab.Pattern) {
	s.byStmt[p.Stmt] = len(s.gotos)
	s.calls[p.Call] = struct{}{}
	s.args[p.Target] = struct{}{}
	s.gotos = append(s.gotos, Goto{
		Stmt:       p.Stmt,
		Call:       p.Call,
		Target:     p.Name,
		TargetSpan: p.NameSpan,
	})
}

// validate checks the shapes the rewrite cannot express and the goto
// targets. Errors come in source order of the offending node.
func (c *Compiler) validate(s *scan, body []ast.StmtID) error {
	var err error
	walk.InspectStmts(c.b, body, func(n walk.Node) walk.Action {
		if n.Kind == walk.KindFunc {
			return walk.Skip
		}
		id := n.Expr()
		ex := c.b.Exprs.Get(id)
		if ex == nil {
			return walk.Continue
		}
		switch ex.Kind {
		case ast.ExprCall:
			err = c.checkCall(s, id)
		case ast.ExprIdent:
			err = c.checkLabelRef(s, id)
		}
		if err != nil {
			return walk.Stop
		}
		return walk.Continue
	})
	if err != nil {
		return err
	}

	if len(s.gotos) > 0 && len(s.labels) == 0 {
		g := s.gotos[0]
		return fatal(diag.JmpNoLabels, c.b.Exprs.Get(g.Call).Span,
			"goto() is used but the function declares no label variables")
	}
	for _, g := range s.gotos {
		if _, ok := s.byName[g.Target]; !ok {
			return fatal(diag.JmpUndefinedLabel, g.TargetSpan,
				"undefined label variable '"+c.b.Name(g.Target)+"' used in goto()")
		}
	}
	return nil
}

func (c *Compiler) checkCall(s *scan, id ast.ExprID) error {
	if _, ok := s.calls[id]; ok {
		return nil
	}
	span := c.b.Exprs.Get(id).Span
	v := c.cls.Vocabulary()
	switch {
	case c.cls.IsReservedCall(id, vocab.RoleGoto):
		if c.cls.Call(id).Kind == vocab.PatternGoto {
			return fatal(diag.JmpGotoNotStmt, span, v.GotoName+"() must be used as a statement")
		}
		return fatal(diag.JmpGotoArity, span, v.GotoName+"() expects exactly one label variable")
	case c.cls.IsReservedCall(id, vocab.RoleLabel):
		return fatal(diag.JmpLabelMisuse, span,
			v.LabelName+"() may only initialise a single top-level declaration")
	}
	return nil
}

func (c *Compiler) checkLabelRef(s *scan, id ast.ExprID) error {
	if _, ok := s.args[id]; ok {
		return nil
	}
	sym, ok := c.res.Refs[id]
	if !ok {
		return nil
	}
	idx, ok := s.symbols[sym]
	if !ok {
		return nil
	}
	l := s.labels[idx]
	return diag.Fatal(diag.NewError(diag.JmpLabelMisuse, c.b.Exprs.Get(id).Span,
		"label variable '"+c.b.Name(l.Name)+"' may only be used as a goto() target").
		WithNote(l.NameSpan, "declared here"))
}

func fatal(code diag.Code, span source.Span, msg string) error {
	return diag.Fatal(diag.NewError(code, span, msg))
}
