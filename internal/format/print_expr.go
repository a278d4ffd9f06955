package format

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"hereafter/internal/ast"
)

func (p *printer) exprBody(id ast.ExprID, min int) {
	exprs := p.b.Exprs
	ex := exprs.Get(id)
	switch ex.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		p.w.WriteString(p.name(data.Name))
	case ast.ExprLit:
		data, _ := exprs.Lit(id)
		p.w.WriteString(literal(data))
	case ast.ExprTemplate:
		p.template(id)
	case ast.ExprThis:
		p.w.WriteString("this")
	case ast.ExprSuper:
		p.w.WriteString("super")
	case ast.ExprArray:
		p.array(id)
	case ast.ExprObject:
		p.object(id)
	case ast.ExprFunc, ast.ExprArrow:
		fn, _ := exprs.Func(id)
		p.function(fn, ex.Kind == ast.ExprArrow)
	case ast.ExprClass:
		cls, _ := exprs.Class(id)
		p.class(cls)
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		p.expr(data.Callee, precLHS)
		if data.Optional {
			p.w.WriteString("?.")
		}
		p.args(data.Args)
	case ast.ExprNew:
		data, _ := exprs.Construct(id)
		p.w.WriteString("new ")
		if p.containsCall(data.Callee) {
			p.w.WriteString("(")
			p.expr(data.Callee, precSeq)
			p.w.WriteString(")")
		} else {
			p.expr(data.Callee, precLHS)
		}
		p.args(data.Args)
	case ast.ExprMember:
		data, _ := exprs.Member(id)
		p.memberObject(data.Object)
		if data.Optional {
			p.w.WriteString("?.")
		} else {
			p.w.WriteString(".")
		}
		p.w.WriteString(p.name(data.Prop))
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		p.expr(data.Object, precLHS)
		if data.Optional {
			p.w.WriteString("?.")
		}
		p.w.WriteString("[")
		p.expr(data.Index, precSeq)
		p.w.WriteString("]")
	case ast.ExprUnary:
		p.unary(id)
	case ast.ExprUpdate:
		data, _ := exprs.Update(id)
		if data.Prefix {
			p.w.WriteString(data.Op.String())
			p.expr(data.X, precUnary)
		} else {
			p.expr(data.X, precLHS)
			p.w.WriteString(data.Op.String())
		}
	case ast.ExprBinary:
		p.binary(id)
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		if data.Pattern.IsValid() {
			p.pat(data.Pattern)
		} else {
			p.expr(data.Target, precLHS)
		}
		p.w.WriteString(" " + data.Op.String() + " ")
		p.expr(data.Value, precAssign)
	case ast.ExprConditional:
		data, _ := exprs.Conditional(id)
		p.expr(data.Cond, precCond+1)
		p.w.WriteString(" ? ")
		p.expr(data.Then, precAssign)
		p.w.WriteString(" : ")
		p.expr(data.Else, precAssign)
	case ast.ExprSequence:
		data, _ := exprs.Sequence(id)
		for i, x := range data.Exprs {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.expr(x, precAssign)
		}
	case ast.ExprParen:
		x, _ := exprs.Wrapped(id)
		p.w.WriteString("(")
		p.expr(x, precSeq)
		p.w.WriteString(")")
	case ast.ExprSpread:
		x, _ := exprs.Wrapped(id)
		p.w.WriteString("...")
		p.expr(x, precAssign)
	}
}

func (p *printer) args(list []ast.ExprID) {
	p.w.WriteString("(")
	for i, x := range list {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.expr(x, precAssign)
	}
	p.w.WriteString(")")
}

// memberObject prints the object of `x.y`; an integer literal needs
// parentheses so its dot is not read as a decimal point.
func (p *printer) memberObject(id ast.ExprID) {
	if lit, ok := p.b.Exprs.Lit(id); ok && lit.Kind == ast.LitNumber {
		if text := literal(lit); !strings.ContainsAny(text, ".eExXoObB") {
			p.w.WriteString("(" + text + ")")
			return
		}
	}
	p.expr(id, precLHS)
}

func (p *printer) containsCall(id ast.ExprID) bool {
	for {
		ex := p.b.Exprs.Get(id)
		if ex == nil {
			return false
		}
		switch ex.Kind {
		case ast.ExprCall:
			return true
		case ast.ExprMember:
			data, _ := p.b.Exprs.Member(id)
			id = data.Object
		case ast.ExprIndex:
			data, _ := p.b.Exprs.Index(id)
			id = data.Object
		default:
			return false
		}
	}
}

func (p *printer) unary(id ast.ExprID) {
	data, _ := p.b.Exprs.Unary(id)
	op := data.Op.String()
	p.w.WriteString(op)
	if data.Op.IsWord() {
		p.w.WriteString(" ")
	} else if data.Op == ast.UnaryMinus || data.Op == ast.UnaryPlus {
		// `- -x` и `+ ++x` не должны склеиться
		if p.startsWithSign(data.X, op[0]) {
			p.w.WriteString(" ")
		}
	}
	p.expr(data.X, precUnary)
}

func (p *printer) startsWithSign(id ast.ExprID, sign byte) bool {
	ex := p.b.Exprs.Get(id)
	if ex == nil {
		return false
	}
	switch ex.Kind {
	case ast.ExprUnary:
		data, _ := p.b.Exprs.Unary(id)
		s := data.Op.String()
		return s[0] == sign
	case ast.ExprUpdate:
		data, _ := p.b.Exprs.Update(id)
		return data.Prefix && data.Op.String()[0] == sign
	case ast.ExprLit:
		data, _ := p.b.Exprs.Lit(id)
		text := literal(data)
		return text != "" && text[0] == sign
	}
	return false
}

func (p *printer) binary(id ast.ExprID) {
	data, _ := p.b.Exprs.Binary(id)
	prec := precBinary + data.Op.Precedence()
	leftMin, rightMin := prec, prec+1
	if data.Op.RightAssoc() {
		leftMin, rightMin = precPostfix, prec
	}
	p.operand(data.L, leftMin, data.Op)
	p.w.WriteString(" " + data.Op.String() + " ")
	p.operand(data.R, rightMin, data.Op)
}

// operand prints a binary operand. `??` cannot be mixed with `&&` or `||`
// without parentheses.
func (p *printer) operand(id ast.ExprID, min int, parent ast.BinaryOp) {
	if child, ok := p.b.Exprs.Binary(id); ok && mixesNullish(parent, child.Op) {
		p.w.WriteString("(")
		p.expr(id, precSeq)
		p.w.WriteString(")")
		return
	}
	p.expr(id, min)
}

func mixesNullish(a, b ast.BinaryOp) bool {
	logical := func(op ast.BinaryOp) bool { return op == ast.OpLogicalAnd || op == ast.OpLogicalOr }
	return (a == ast.OpNullish && logical(b)) || (b == ast.OpNullish && logical(a))
}

func (p *printer) array(id ast.ExprID) {
	data, _ := p.b.Exprs.Array(id)
	p.w.WriteString("[")
	for i, el := range data.Elems {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.expr(el, precAssign)
	}
	if n := len(data.Elems); n > 0 && !data.Elems[n-1].IsValid() {
		p.w.WriteString(",")
	}
	p.w.WriteString("]")
}

func (p *printer) object(id ast.ExprID) {
	data, _ := p.b.Exprs.Object(id)
	if len(data.Props) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{ ")
	for i, prop := range data.Props {
		if i > 0 {
			p.w.WriteString(", ")
		}
		switch prop.Kind {
		case ast.PropInit:
			p.propKey(prop.Key)
			p.w.WriteString(": ")
			p.expr(prop.Value, precAssign)
		case ast.PropShorthand:
			p.propKey(prop.Key)
		case ast.PropSpread:
			p.w.WriteString("...")
			p.expr(prop.Value, precAssign)
		case ast.PropMethod:
			p.method("", prop.Key, prop.Func)
		case ast.PropGet:
			p.method("get ", prop.Key, prop.Func)
		case ast.PropSet:
			p.method("set ", prop.Key, prop.Func)
		}
	}
	p.w.WriteString(" }")
}

func (p *printer) propKey(key ast.PropKey) {
	switch key.Kind {
	case ast.KeyComputed:
		p.w.WriteString("[")
		p.expr(key.Expr, precAssign)
		p.w.WriteString("]")
	case ast.KeyString:
		if key.Raw != "" {
			p.w.WriteString(key.Raw)
		} else {
			p.w.WriteString(Quote(key.Name))
		}
	default:
		if key.Raw != "" {
			p.w.WriteString(key.Raw)
		} else {
			p.w.WriteString(key.Name)
		}
	}
}

func (p *printer) template(id ast.ExprID) {
	data, _ := p.b.Exprs.Template(id)
	raws := data.Raws
	if len(raws) != len(data.Quasis) {
		raws = make([]string, len(data.Quasis))
		for i, q := range data.Quasis {
			raws[i] = templateEscape(q)
		}
	}
	p.w.WriteString("`")
	for i, raw := range raws {
		p.w.Append([]byte(raw))
		if i < len(data.Exprs) {
			p.w.Append([]byte("${"))
			p.expr(data.Exprs[i], precSeq)
			p.w.Append([]byte("}"))
		}
	}
	p.w.WriteString("`")
}

func literal(lit *ast.LitData) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	switch lit.Kind {
	case ast.LitString:
		return Quote(lit.Str)
	case ast.LitNumber:
		return Number(lit.Num)
	case ast.LitBool:
		return strconv.FormatBool(lit.Bool)
	case ast.LitNull:
		return "null"
	}
	return "undefined"
}

// Number formats n the way a JavaScript engine prints it.
func Number(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	// Go пишет 1e-07, в JS это 1e-7
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + string(sign) + exp
}

// Quote returns s as a double-quoted string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028', '\u2029':
			sb.WriteString(`\u` + strconv.FormatInt(int64(r), 16))
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\x`)
				if r < 0x10 {
					sb.WriteByte('0')
				}
				sb.WriteString(strconv.FormatInt(int64(r), 16))
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func templateEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	return r.Replace(s)
}
