package format

import "hereafter/internal/ast"

// function prints a declaration, expression or arrow function.
func (p *printer) function(id ast.FuncID, arrow bool) {
	fn := p.b.Funcs.Get(id)
	if fn == nil {
		return
	}
	if !arrow {
		p.w.WriteString("function")
		if fn.Name.IsValid() {
			p.w.WriteString(" " + p.name(fn.Name))
		}
	}
	p.params(fn)
	if arrow {
		p.w.WriteString(" =>")
	}
	p.funcBody(fn)
}

func (p *printer) params(fn *ast.FuncData) {
	p.w.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.pat(param)
	}
	if fn.Rest.IsValid() {
		if len(fn.Params) > 0 {
			p.w.WriteString(", ")
		}
		p.w.WriteString("...")
		p.pat(fn.Rest)
	}
	p.w.WriteString(")")
}

func (p *printer) funcBody(fn *ast.FuncData) {
	p.w.WriteString(" ")
	if fn.Body.IsValid() {
		p.stmt(fn.Body)
		return
	}
	// `() => ({})`: объект в теле стрелки иначе читается как блок
	if p.b.Exprs.Get(leftmost(p.b, fn.ExprBody)).Kind == ast.ExprObject {
		p.w.WriteString("(")
		p.expr(fn.ExprBody, precSeq)
		p.w.WriteString(")")
		return
	}
	p.expr(fn.ExprBody, precAssign)
}

// method prints an object or class method after its modifiers.
func (p *printer) method(prefix string, key ast.PropKey, id ast.FuncID) {
	fn := p.b.Funcs.Get(id)
	p.w.WriteString(prefix)
	p.propKey(key)
	if fn == nil {
		p.w.WriteString("() {}")
		return
	}
	p.params(fn)
	p.funcBody(fn)
}

func (p *printer) class(id ast.ClassID) {
	cls := p.b.Classes.Get(id)
	if cls == nil {
		return
	}
	p.w.WriteString("class")
	if cls.Name.IsValid() {
		p.w.WriteString(" " + p.name(cls.Name))
	}
	if cls.Super.IsValid() {
		p.w.WriteString(" extends ")
		p.expr(cls.Super, precLHS)
	}
	if len(cls.Members) == 0 {
		p.w.WriteString(" {}")
		return
	}
	p.w.WriteString(" {")
	p.w.IndentPush()
	for _, m := range cls.Members {
		p.w.Newline()
		prefix := ""
		if m.Static {
			prefix = "static "
		}
		switch m.Kind {
		case ast.MemberMethod:
			p.method(prefix, m.Key, m.Func)
		case ast.MemberGetter:
			p.method(prefix+"get ", m.Key, m.Func)
		case ast.MemberSetter:
			p.method(prefix+"set ", m.Key, m.Func)
		case ast.MemberField:
			p.w.WriteString(prefix)
			p.propKey(m.Key)
			if m.Value.IsValid() {
				p.w.WriteString(" = ")
				p.expr(m.Value, precAssign)
			}
			p.w.WriteString(";")
		}
	}
	p.w.IndentPop()
	p.w.Newline()
	p.w.WriteString("}")
}

func (p *printer) patBody(id ast.PatID) {
	pats := p.b.Pats
	pt := pats.Get(id)
	switch pt.Kind {
	case ast.PatIdent:
		data, _ := pats.Ident(id)
		p.w.WriteString(p.name(data.Name))
	case ast.PatArray:
		data, _ := pats.Array(id)
		p.w.WriteString("[")
		for i, el := range data.Elems {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.pat(el)
		}
		if data.Rest.IsValid() {
			if len(data.Elems) > 0 {
				p.w.WriteString(", ")
			}
			p.w.WriteString("...")
			p.pat(data.Rest)
		} else if n := len(data.Elems); n > 0 && !data.Elems[n-1].IsValid() {
			p.w.WriteString(",")
		}
		p.w.WriteString("]")
	case ast.PatObject:
		data, _ := pats.Object(id)
		if len(data.Props) == 0 && !data.Rest.IsValid() {
			p.w.WriteString("{}")
			return
		}
		p.w.WriteString("{ ")
		for i, prop := range data.Props {
			if i > 0 {
				p.w.WriteString(", ")
			}
			if prop.Shorthand {
				p.pat(prop.Value)
				continue
			}
			p.propKey(prop.Key)
			p.w.WriteString(": ")
			p.pat(prop.Value)
		}
		if data.Rest.IsValid() {
			if len(data.Props) > 0 {
				p.w.WriteString(", ")
			}
			p.w.WriteString("...")
			p.pat(data.Rest)
		}
		p.w.WriteString(" }")
	case ast.PatDefault:
		data, _ := pats.Default(id)
		p.pat(data.Target)
		p.w.WriteString(" = ")
		p.expr(data.Default, precAssign)
	case ast.PatExpr:
		data, _ := pats.Expr(id)
		p.expr(data.Expr, precLHS)
	}
}
