package parser

import (
	"testing"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
)

func firstExpr(t *testing.T, b *ast.Builder) ast.ExprID {
	t.Helper()
	data, ok := b.Stmts.Expr(b.File.Body[0])
	if !ok {
		t.Fatalf("expected expression statement, got %s", b.Stmts.Get(b.File.Body[0]).Kind)
	}
	return data.Expr
}

func TestBinaryPrecedence(t *testing.T) {
	b, _ := mustParse(t, "a + b * c ** d ** e;")
	root, ok := b.Exprs.Binary(firstExpr(t, b))
	if !ok || root.Op != ast.OpAdd {
		t.Fatalf("root = %+v", root)
	}
	mul, ok := b.Exprs.Binary(root.R)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("rhs = %+v", mul)
	}
	exp, ok := b.Exprs.Binary(mul.R)
	if !ok || exp.Op != ast.OpExp {
		t.Fatalf("exp = %+v", exp)
	}
	if inner, ok := b.Exprs.Binary(exp.R); !ok || inner.Op != ast.OpExp {
		t.Fatalf("** must associate to the right")
	}
}

func TestLogicalAndNullish(t *testing.T) {
	b, _ := mustParse(t, "a || b && c ?? d;")
	root, _ := b.Exprs.Binary(firstExpr(t, b))
	if root.Op != ast.OpNullish {
		t.Fatalf("root op = %s", root.Op)
	}
}

func TestArrowFunctions(t *testing.T) {
	b, _ := mustParse(t, "const f = (a, {b}, ...rest) => { return a; }, g = x => x * 2, h = () => ({});")
	decl, _ := b.Stmts.Var(b.File.Body[0])
	if len(decl.Decls) != 3 {
		t.Fatalf("decls = %d", len(decl.Decls))
	}
	fn, ok := b.Exprs.Func(decl.Decls[0].Init)
	if !ok {
		t.Fatalf("expected arrow function")
	}
	data := b.Funcs.Get(fn)
	if !data.IsArrow || len(data.Params) != 2 || !data.Rest.IsValid() || !data.Body.IsValid() {
		t.Fatalf("arrow = %+v", data)
	}
	g, _ := b.Exprs.Func(decl.Decls[1].Init)
	if !b.Funcs.Get(g).ExprBody.IsValid() {
		t.Fatalf("concise arrow must have an expression body")
	}
	h, _ := b.Exprs.Func(decl.Decls[2].Init)
	body := b.Funcs.Get(h).ExprBody
	if b.Exprs.Get(body).Kind != ast.ExprParen {
		t.Fatalf("h body kind = %s", b.Exprs.Get(body).Kind)
	}
}

func TestParenthesizedIsNotArrow(t *testing.T) {
	b, _ := mustParse(t, "(a, b);")
	if b.Exprs.Get(firstExpr(t, b)).Kind != ast.ExprParen {
		t.Fatalf("expected parenthesized sequence")
	}
}

func TestCallChains(t *testing.T) {
	b, _ := mustParse(t, "obj.method(1)[key]?.next?.(x, ...ys);")
	call, ok := b.Exprs.Call(firstExpr(t, b))
	if !ok || !call.Optional || len(call.Args) != 2 {
		t.Fatalf("outer call = %+v", call)
	}
	member, ok := b.Exprs.Member(call.Callee)
	if !ok || !member.Optional || b.Name(member.Prop) != "next" {
		t.Fatalf("member = %+v", member)
	}
	if _, ok := b.Exprs.Index(member.Object); !ok {
		t.Fatalf("expected index expression under optional member")
	}
}

func TestNewExpression(t *testing.T) {
	b, _ := mustParse(t, "new Foo.Bar(1).baz;")
	member, ok := b.Exprs.Member(firstExpr(t, b))
	if !ok || b.Name(member.Prop) != "baz" {
		t.Fatalf("outer = %+v", member)
	}
	construct, ok := b.Exprs.Construct(member.Object)
	if !ok || len(construct.Args) != 1 {
		t.Fatalf("new = %+v", construct)
	}
	if _, ok := b.Exprs.Member(construct.Callee); !ok {
		t.Fatalf("new callee must be Foo.Bar")
	}
}

func TestDestructuringAssignment(t *testing.T) {
	b, _ := mustParse(t, "[a, , b = 2, ...c] = xs; ({ x, y: z.w, q = 1, ...r } = obj);")
	assign, ok := b.Exprs.Assign(firstExpr(t, b))
	if !ok || !assign.Pattern.IsValid() {
		t.Fatalf("array assign = %+v", assign)
	}
	arr, _ := b.Pats.Array(assign.Pattern)
	if len(arr.Elems) != 3 || arr.Elems[1].IsValid() || !arr.Rest.IsValid() {
		t.Fatalf("array pattern = %+v", arr)
	}
	if b.Pats.Get(arr.Elems[2]).Kind != ast.PatDefault {
		t.Fatalf("expected default element")
	}

	stmt, _ := b.Stmts.Expr(b.File.Body[1])
	obj, ok := b.Exprs.Assign(b.Exprs.Unparen(stmt.Expr))
	if !ok {
		t.Fatalf("expected object assignment")
	}
	pat, _ := b.Pats.Object(obj.Pattern)
	if len(pat.Props) != 3 || !pat.Rest.IsValid() {
		t.Fatalf("object pattern = %+v", pat)
	}
	if b.Pats.Get(pat.Props[1].Value).Kind != ast.PatExpr {
		t.Fatalf("member target must become PatExpr")
	}
}

func TestBadAssignTarget(t *testing.T) {
	expectCode(t, "a + b = c;", diag.SynBadAssignTarget)
	expectCode(t, "f()++;", diag.SynBadAssignTarget)
}

func TestTemplateLiteral(t *testing.T) {
	b, _ := mustParse(t, "`a${x + 1}b${ `n${y}` }\\n`;")
	tpl, ok := b.Exprs.Template(firstExpr(t, b))
	if !ok {
		t.Fatalf("expected template")
	}
	if len(tpl.Exprs) != 2 || len(tpl.Quasis) != 3 {
		t.Fatalf("template = %+v", tpl)
	}
	if tpl.Quasis[0] != "a" || tpl.Quasis[2] != "\n" || tpl.Raws[2] != `\n` {
		t.Fatalf("quasis = %q raws = %q", tpl.Quasis, tpl.Raws)
	}
	if _, ok := b.Exprs.Binary(tpl.Exprs[0]); !ok {
		t.Fatalf("first substitution must be binary")
	}
	if _, ok := b.Exprs.Template(tpl.Exprs[1]); !ok {
		t.Fatalf("nested template must parse")
	}
}

func TestStringEscapes(t *testing.T) {
	b, _ := mustParse(t, `"a\tb\x41B\u{1F600}";`)
	lit, _ := b.Exprs.Lit(firstExpr(t, b))
	if lit.Str != "a\tbAB\U0001F600" {
		t.Fatalf("decoded = %q", lit.Str)
	}
}

func TestNumbers(t *testing.T) {
	cases := map[string]float64{
		"0x1F;":  31,
		"0o17;":  15,
		"0b101;": 5,
		"1.5e2;": 150,
		".5;":    0.5,
	}
	for src, want := range cases {
		b, _ := mustParse(t, src)
		lit, _ := b.Exprs.Lit(firstExpr(t, b))
		if lit.Num != want {
			t.Fatalf("%s = %v, want %v", src, lit.Num, want)
		}
	}
}

func TestObjectLiteral(t *testing.T) {
	b, _ := mustParse(t, `({ a, b: 1, "c d": 2, 3: 4, [k]: 5, m() {}, get g() { return 1 }, ...rest });`)
	stmt, _ := b.Stmts.Expr(b.File.Body[0])
	obj, ok := b.Exprs.Object(b.Exprs.Unparen(stmt.Expr))
	if !ok {
		t.Fatalf("expected object")
	}
	kinds := []ast.PropKind{ast.PropShorthand, ast.PropInit, ast.PropInit, ast.PropInit, ast.PropInit, ast.PropMethod, ast.PropGet, ast.PropSpread}
	if len(obj.Props) != len(kinds) {
		t.Fatalf("props = %d", len(obj.Props))
	}
	for i, k := range kinds {
		if obj.Props[i].Kind != k {
			t.Fatalf("prop %d kind = %d, want %d", i, obj.Props[i].Kind, k)
		}
	}
	if obj.Props[2].Key.Name != "c d" || obj.Props[3].Key.Name != "3" || obj.Props[4].Key.Kind != ast.KeyComputed {
		t.Fatalf("keys = %+v", obj.Props)
	}
}
