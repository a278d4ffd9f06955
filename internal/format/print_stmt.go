package format

import (
	"bytes"
	"strconv"
	"strings"

	"hereafter/internal/ast"
	"hereafter/internal/source"
)

// stmtList prints statements one per line, each preceded by its doc
// comment. A blank line between two original statements is kept.
func (p *printer) stmtList(list []ast.StmtID, leadingNewline bool) {
	var prev *ast.Stmt
	for i, id := range list {
		st := p.b.Stmts.Get(id)
		if i > 0 || leadingNewline {
			p.w.Newline()
		}
		if prev != nil && p.blankBetween(prev, st) {
			p.w.BlankLine()
		}
		p.doc(st)
		p.stmt(id)
		prev = st
	}
}

func (p *printer) blankBetween(prev, next *ast.Stmt) bool {
	if p.sf == nil || prev.Span.Empty() || next.Span.Empty() {
		return false
	}
	start, end := prev.Span.End, next.Span.Start
	if !next.Doc.Empty() {
		end = next.Doc.Start
	}
	if prev.Span.File != p.sf.ID || next.Span.File != p.sf.ID || end <= start {
		return false
	}
	gap := p.sf.Content[start:end]
	// между ними был код (маркер, выброшенные операторы): не соседи
	if !onlyTrivia(gap) {
		return false
	}
	return bytes.Count(gap, []byte{'\n'}) >= 2
}

// onlyTrivia reports whether text holds nothing but whitespace and comments.
func onlyTrivia(text []byte) bool {
	for len(text) > 0 {
		switch {
		case text[0] == ' ' || text[0] == '\t' || text[0] == '\r' || text[0] == '\n':
			text = text[1:]
		case bytes.HasPrefix(text, []byte("//")):
			i := bytes.IndexByte(text, '\n')
			if i < 0 {
				return true
			}
			text = text[i:]
		case bytes.HasPrefix(text, []byte("/*")):
			i := bytes.Index(text[2:], []byte("*/"))
			if i < 0 {
				return false
			}
			text = text[i+4:]
		default:
			return false
		}
	}
	return true
}

// doc печатает комментарии перед оператором, сдвигая их отступ.
func (p *printer) doc(st *ast.Stmt) {
	if st.Doc.Empty() || p.sf == nil || st.Doc.File != p.sf.ID {
		return
	}
	text := p.sf.Content[st.Doc.Start:st.Doc.End]
	trimmed := bytes.TrimRight(text, " \t\r\n")
	if len(trimmed) == 0 {
		return
	}
	restore := p.w.Shift(p.w.sourceIndent(st.Doc.Start), p.w.indent)
	p.w.CopyRange(int(st.Doc.Start), int(st.Doc.Start)+len(trimmed))
	restore()
	p.w.Newline()
}

// block prints `{ ... }`, padding it to the recorded line count.
func (p *printer) block(id ast.StmtID, list []ast.StmtID) {
	start := p.w.Len()
	if len(list) == 0 {
		p.w.WriteString("{}")
	} else {
		p.w.WriteString("{")
		p.w.IndentPush()
		p.stmtList(list, true)
		p.w.IndentPop()
		p.w.Newline()
		p.w.WriteString("}")
	}

	target, ok := p.opt.Pads[id]
	if !ok {
		return
	}
	padded, err := Pad(p.w.Truncate(start), int(target), p.w.indent+p.w.unit, p.w.indent)
	if err != nil {
		p.fail(overrun(p.b.Stmts.Get(id).Span, err))
	}
	p.w.Append(padded)
}

// body prints a nested statement after a header like `if (x)`.
func (p *printer) body(id ast.StmtID) {
	p.w.Space()
	if p.b.Stmts.Get(id).Kind == ast.StmtBlock {
		p.stmt(id)
		return
	}
	p.w.IndentPush()
	p.stmt(id)
	p.w.IndentPop()
}

func (p *printer) stmtBody(id ast.StmtID) {
	stmts := p.b.Stmts
	st := stmts.Get(id)
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		p.block(id, data.Stmts)
	case ast.StmtExpr:
		data, _ := stmts.Expr(id)
		if needsStmtParens(p.b, data.Expr) {
			p.w.WriteString("(")
			p.expr(data.Expr, precSeq)
			p.w.WriteString(")")
		} else {
			p.expr(data.Expr, precSeq)
		}
		p.w.WriteString(";")
	case ast.StmtVar:
		p.varDecl(id)
		p.w.WriteString(";")
	case ast.StmtFunc:
		fn, _ := stmts.Func(id)
		p.function(fn, false)
	case ast.StmtClass:
		cls, _ := stmts.Class(id)
		p.class(cls)
	case ast.StmtReturn, ast.StmtThrow:
		data, _ := stmts.Value(id)
		if st.Kind == ast.StmtReturn {
			p.w.WriteString("return")
		} else {
			p.w.WriteString("throw")
		}
		if data.Value.IsValid() {
			p.w.WriteString(" ")
			p.expr(data.Value, precSeq)
		}
		p.w.WriteString(";")
	case ast.StmtIf:
		p.ifStmt(id)
	case ast.StmtWhile:
		data, _ := stmts.Loop(id)
		p.w.WriteString("while (")
		p.expr(data.Cond, precSeq)
		p.w.WriteString(")")
		p.body(data.Body)
	case ast.StmtDoWhile:
		data, _ := stmts.Loop(id)
		p.w.WriteString("do")
		p.body(data.Body)
		if stmts.Get(data.Body).Kind == ast.StmtBlock {
			p.w.WriteString(" ")
		} else {
			p.w.Newline()
		}
		p.w.WriteString("while (")
		p.expr(data.Cond, precSeq)
		p.w.WriteString(");")
	case ast.StmtFor:
		p.forStmt(id)
	case ast.StmtForIn:
		data, _ := stmts.ForIn(id)
		p.w.WriteString("for (")
		if data.Kind != ast.VarNone {
			p.w.WriteString(data.Kind.String() + " ")
		}
		p.pat(data.Target)
		if data.Of {
			p.w.WriteString(" of ")
			p.expr(data.Right, precAssign)
		} else {
			p.w.WriteString(" in ")
			p.expr(data.Right, precSeq)
		}
		p.w.WriteString(")")
		p.body(data.Body)
	case ast.StmtBreak, ast.StmtContinue:
		data, _ := stmts.Jump(id)
		if st.Kind == ast.StmtBreak {
			p.w.WriteString("break")
		} else {
			p.w.WriteString("continue")
		}
		if data.Label.IsValid() {
			p.w.WriteString(" " + p.name(data.Label))
		}
		p.w.WriteString(";")
	case ast.StmtTry:
		p.tryStmt(id)
	case ast.StmtSwitch:
		p.switchStmt(id)
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		p.w.WriteString(p.name(data.Label) + ":")
		p.w.Space()
		p.stmt(data.Body)
	case ast.StmtEmpty:
		p.w.WriteString(";")
	case ast.StmtImport:
		p.importStmt(id)
	case ast.StmtExport:
		p.exportStmt(id)
	}
}

// varDecl prints a declaration without the terminating semicolon.
func (p *printer) varDecl(id ast.StmtID) {
	data, _ := p.b.Stmts.Var(id)
	p.w.WriteString(data.Kind.String() + " ")
	for i, d := range data.Decls {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.pat(d.Target)
		if d.Init.IsValid() {
			p.w.WriteString(" = ")
			p.expr(d.Init, precAssign)
		}
	}
}

func (p *printer) ifStmt(id ast.StmtID) {
	data, _ := p.b.Stmts.If(id)
	p.w.WriteString("if (")
	p.expr(data.Cond, precSeq)
	p.w.WriteString(")")
	p.body(data.Then)
	if !data.Else.IsValid() {
		return
	}
	if p.b.Stmts.Get(data.Then).Kind == ast.StmtBlock {
		p.w.WriteString(" else")
	} else {
		p.w.Newline()
		p.w.WriteString("else")
	}
	if p.b.Stmts.Get(data.Else).Kind == ast.StmtIf {
		p.w.WriteString(" ")
		p.stmt(data.Else)
		return
	}
	p.body(data.Else)
}

func (p *printer) forStmt(id ast.StmtID) {
	data, _ := p.b.Stmts.For(id)
	p.w.WriteString("for (")
	if data.Init.IsValid() {
		if init, ok := p.b.Stmts.Expr(data.Init); ok {
			p.expr(init.Expr, precSeq)
		} else {
			p.varDecl(data.Init)
		}
	}
	p.w.WriteString(";")
	if data.Cond.IsValid() {
		p.w.WriteString(" ")
		p.expr(data.Cond, precSeq)
	}
	p.w.WriteString(";")
	if data.Update.IsValid() {
		p.w.WriteString(" ")
		p.expr(data.Update, precSeq)
	}
	p.w.WriteString(")")
	p.body(data.Body)
}

func (p *printer) tryStmt(id ast.StmtID) {
	data, _ := p.b.Stmts.Try(id)
	p.w.WriteString("try ")
	p.stmt(data.Block)
	if data.Handler.IsValid() {
		p.w.WriteString(" catch ")
		if data.Param.IsValid() {
			p.w.WriteString("(")
			p.pat(data.Param)
			p.w.WriteString(") ")
		}
		p.stmt(data.Handler)
	}
	if data.Finalizer.IsValid() {
		p.w.WriteString(" finally ")
		p.stmt(data.Finalizer)
	}
}

func (p *printer) switchStmt(id ast.StmtID) {
	data, _ := p.b.Stmts.Switch(id)
	p.w.WriteString("switch (")
	p.expr(data.Disc, precSeq)
	p.w.WriteString(") {")
	p.w.IndentPush()
	for _, c := range data.Cases {
		p.w.Newline()
		if c.Test.IsValid() {
			p.w.WriteString("case ")
			p.expr(c.Test, precSeq)
			p.w.WriteString(":")
		} else {
			p.w.WriteString("default:")
		}
		p.w.IndentPush()
		p.stmtList(c.Body, true)
		p.w.IndentPop()
	}
	p.w.IndentPop()
	p.w.Newline()
	p.w.WriteString("}")
}

func (p *printer) importStmt(id ast.StmtID) {
	data, _ := p.b.Stmts.Import(id)
	p.w.WriteString("import ")
	var named []string
	var head []string
	for _, spec := range data.Specs {
		local := p.name(spec.Local)
		switch spec.Kind {
		case ast.ImportDefault:
			head = append(head, local)
		case ast.ImportNamespace:
			head = append(head, "* as "+local)
		default:
			if imported := p.name(spec.Imported); imported != local {
				named = append(named, imported+" as "+local)
			} else {
				named = append(named, local)
			}
		}
	}
	if len(named) > 0 {
		head = append(head, "{ "+strings.Join(named, ", ")+" }")
	}
	if len(head) > 0 {
		p.w.WriteString(strings.Join(head, ", ") + " from ")
	}
	p.w.WriteString(p.moduleText(data) + ";")
}

func (p *printer) moduleText(data *ast.ImportData) string {
	if p.sf != nil && !data.ModuleSpan.Empty() && data.ModuleSpan.File == p.sf.ID {
		return string(p.sf.Content[data.ModuleSpan.Start:data.ModuleSpan.End])
	}
	return strconv.Quote(data.Module)
}

func (p *printer) exportStmt(id ast.StmtID) {
	data, _ := p.b.Stmts.Export(id)
	p.w.WriteString("export ")
	switch {
	case data.Decl.IsValid():
		p.stmt(data.Decl)
	case data.Default.IsValid():
		p.w.WriteString("default ")
		p.expr(data.Default, precAssign)
		if k := p.b.Exprs.Get(data.Default).Kind; k != ast.ExprFunc && k != ast.ExprClass {
			p.w.WriteString(";")
		}
	default:
		specs := make([]string, 0, len(data.Specs))
		for _, spec := range data.Specs {
			local, exported := p.name(spec.Local), p.name(spec.Exported)
			if local == exported {
				specs = append(specs, local)
			} else {
				specs = append(specs, local+" as "+exported)
			}
		}
		p.w.WriteString("{ " + strings.Join(specs, ", ") + " };")
	}
}

// spanText returns source text of sp or "" for synthetic spans.
func (p *printer) spanText(sp source.Span) string {
	if p.sf == nil || sp.Empty() || sp.File != p.sf.ID {
		return ""
	}
	return string(p.sf.Content[sp.Start:sp.End])
}
