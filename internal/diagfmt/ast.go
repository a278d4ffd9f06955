package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/walk"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the file as an indented tree.
func FormatASTPretty(w io.Writer, b *ast.Builder, fs *source.FileSet) error {
	fmt.Fprintf(w, "File (span: %s)\n", formatSpan(b.File.Span, fs))
	for i, id := range b.File.Body {
		formatNodePretty(w, b, walk.Stmt(id), fs, "", i == len(b.File.Body)-1)
	}
	return nil
}

func formatNodePretty(w io.Writer, b *ast.Builder, n walk.Node, fs *source.FileSet, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	typ, kind, text := describeNode(b, n)
	label := typ
	if kind != "" {
		label += " " + kind
	}
	if text != "" {
		label += fmt.Sprintf(" %q", text)
	}
	fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, branch, label, formatSpan(nodeSpan(b, n), fs))

	children := walk.Children(b, n, nil)
	for i, c := range children {
		formatNodePretty(w, b, c, fs, prefix+next, i == len(children)-1)
	}
}

// FormatASTJSON writes the tree as nested JSON objects.
func FormatASTJSON(w io.Writer, b *ast.Builder) error {
	output := ASTNodeOutput{Type: "File", Span: b.File.Span}
	for _, id := range b.File.Body {
		output.Children = append(output.Children, buildNodeJSON(b, walk.Stmt(id)))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func buildNodeJSON(b *ast.Builder, n walk.Node) ASTNodeOutput {
	typ, kind, text := describeNode(b, n)
	out := ASTNodeOutput{Type: typ, Kind: kind, Span: nodeSpan(b, n), Text: text}
	for _, c := range walk.Children(b, n, nil) {
		out.Children = append(out.Children, buildNodeJSON(b, c))
	}
	return out
}

// describeNode returns the node family, its kind and a short text such as
// a name, literal or operator.
func describeNode(b *ast.Builder, n walk.Node) (typ, kind, text string) {
	switch n.Kind {
	case walk.KindStmt:
		return "Stmt", b.Stmts.Get(n.Stmt()).Kind.String(), stmtText(b, n.Stmt())
	case walk.KindExpr:
		return "Expr", b.Exprs.Get(n.Expr()).Kind.String(), exprText(b, n.Expr())
	case walk.KindPat:
		return "Pat", patKindName(b.Pats.Get(n.Pat()).Kind), patText(b, n.Pat())
	case walk.KindFunc:
		fn := b.Funcs.Get(n.Func())
		return "Func", "", b.Name(fn.Name)
	case walk.KindClass:
		return "Class", "", b.Name(b.Classes.Get(n.Class()).Name)
	}
	return "None", "", ""
}

func stmtText(b *ast.Builder, id ast.StmtID) string {
	switch b.Stmts.Get(id).Kind {
	case ast.StmtVar:
		if v, ok := b.Stmts.Var(id); ok {
			return v.Kind.String()
		}
	case ast.StmtBreak, ast.StmtContinue:
		if j, ok := b.Stmts.Jump(id); ok {
			return b.Name(j.Label)
		}
	case ast.StmtLabeled:
		if l, ok := b.Stmts.LabeledStmt(id); ok {
			return b.Name(l.Label)
		}
	case ast.StmtForIn:
		if f, ok := b.Stmts.ForIn(id); ok && f.Of {
			return "of"
		}
		return "in"
	case ast.StmtImport:
		if imp, ok := b.Stmts.Import(id); ok {
			names := make([]string, 0, len(imp.Specs))
			for _, spec := range imp.Specs {
				names = append(names, b.Name(spec.Local))
			}
			return strings.Join(names, ",") + " from " + imp.Module
		}
	}
	return ""
}

func exprText(b *ast.Builder, id ast.ExprID) string {
	switch b.Exprs.Get(id).Kind {
	case ast.ExprIdent:
		if x, ok := b.Exprs.Ident(id); ok {
			return b.Name(x.Name)
		}
	case ast.ExprLit:
		if x, ok := b.Exprs.Lit(id); ok {
			return x.Raw
		}
	case ast.ExprMember:
		if x, ok := b.Exprs.Member(id); ok {
			return b.Name(x.Prop)
		}
	case ast.ExprUnary:
		if x, ok := b.Exprs.Unary(id); ok {
			return x.Op.String()
		}
	case ast.ExprUpdate:
		if x, ok := b.Exprs.Update(id); ok {
			return x.Op.String()
		}
	case ast.ExprBinary:
		if x, ok := b.Exprs.Binary(id); ok {
			return x.Op.String()
		}
	case ast.ExprAssign:
		if x, ok := b.Exprs.Assign(id); ok {
			return x.Op.String()
		}
	}
	return ""
}

func patText(b *ast.Builder, id ast.PatID) string {
	if x, ok := b.Pats.Ident(id); ok {
		return b.Name(x.Name)
	}
	return ""
}

func patKindName(k ast.PatKind) string {
	switch k {
	case ast.PatIdent:
		return "Ident"
	case ast.PatArray:
		return "Array"
	case ast.PatObject:
		return "Object"
	case ast.PatDefault:
		return "Default"
	case ast.PatExpr:
		return "Expr"
	}
	return "Invalid"
}

func nodeSpan(b *ast.Builder, n walk.Node) source.Span {
	switch n.Kind {
	case walk.KindStmt:
		return b.Stmts.Get(n.Stmt()).Span
	case walk.KindExpr:
		return b.Exprs.Get(n.Expr()).Span
	case walk.KindPat:
		return b.Pats.Get(n.Pat()).Span
	case walk.KindFunc:
		return b.Funcs.Get(n.Func()).Span
	case walk.KindClass:
		return b.Classes.Get(n.Class()).Span
	}
	return source.Span{}
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil {
		return fmt.Sprintf("%d-%d", span.Start, span.End)
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
