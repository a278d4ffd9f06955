package interp

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"hereafter/internal/ast"
	"hereafter/internal/source"
)

const maxCallDepth = 2000

// closure is a user function together with its defining scope.
type closure struct {
	fn    ast.FuncID
	env   *env
	arrow bool
}

func (in *Interp) makeClosure(fn ast.FuncID, e *env) Value {
	data := in.b.Funcs.Get(fn)
	obj := newObject(ObjFunction)
	obj.Name = in.name(data.Name)
	scope := e
	if data.Name.IsValid() && !data.IsArrow {
		// имя функционального выражения видно внутри тела
		scope = newEnv(e, false)
		scope.define(data.Name, MakeObject(obj), false)
	}
	obj.Fn = &closure{fn: fn, env: scope, arrow: data.IsArrow}
	return MakeObject(obj)
}

func (in *Interp) eval(id ast.ExprID, e *env) (Value, error) {
	exprs := in.b.Exprs
	ex := exprs.Get(id)
	switch ex.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		b := e.lookup(data.Name)
		if b == nil {
			return Undefined(), in.referenceError(ex.Span, in.name(data.Name))
		}
		return b.value, nil
	case ast.ExprLit:
		data, _ := exprs.Lit(id)
		switch data.Kind {
		case ast.LitNumber:
			return MakeNumber(data.Num), nil
		case ast.LitString:
			return MakeString(data.Str), nil
		case ast.LitBool:
			return MakeBool(data.Bool), nil
		case ast.LitNull:
			return Null(), nil
		}
		return Undefined(), nil
	case ast.ExprTemplate:
		data, _ := exprs.Template(id)
		var sb strings.Builder
		for i, q := range data.Quasis {
			sb.WriteString(q)
			if i < len(data.Exprs) {
				v, err := in.eval(data.Exprs[i], e)
				if err != nil {
					return Undefined(), err
				}
				sb.WriteString(v.String())
			}
		}
		return MakeString(sb.String()), nil
	case ast.ExprThis:
		if b := e.lookup(in.nameThis); b != nil {
			return b.value, nil
		}
		return Undefined(), nil
	case ast.ExprArray:
		data, _ := exprs.Array(id)
		elems := make([]Value, 0, len(data.Elems))
		for _, el := range data.Elems {
			if !el.IsValid() {
				elems = append(elems, Undefined())
				continue
			}
			vs, err := in.evalSpread(el, e)
			if err != nil {
				return Undefined(), err
			}
			elems = append(elems, vs...)
		}
		return NewArray(elems), nil
	case ast.ExprObject:
		return in.evalObject(id, e)
	case ast.ExprFunc, ast.ExprArrow:
		fn, _ := exprs.Func(id)
		return in.makeClosure(fn, e), nil
	case ast.ExprCall:
		return in.evalCall(id, e)
	case ast.ExprNew:
		return in.evalNew(id, e)
	case ast.ExprMember, ast.ExprIndex:
		obj, key, short, err := in.member(id, e)
		if err != nil || short {
			return Undefined(), err
		}
		return in.getProp(obj, key, ex.Span)
	case ast.ExprUnary:
		return in.evalUnary(id, e)
	case ast.ExprUpdate:
		data, _ := exprs.Update(id)
		ref, err := in.reference(data.X, e)
		if err != nil {
			return Undefined(), err
		}
		cur, err := in.refGet(ref, e)
		if err != nil {
			return Undefined(), err
		}
		old := cur.Number()
		next := old + 1
		if data.Op == ast.UpdateDec {
			next = old - 1
		}
		if err := in.refSet(ref, MakeNumber(next), e); err != nil {
			return Undefined(), err
		}
		if data.Prefix {
			return MakeNumber(next), nil
		}
		return MakeNumber(old), nil
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		l, err := in.eval(data.L, e)
		if err != nil {
			return Undefined(), err
		}
		switch data.Op {
		case ast.OpLogicalAnd:
			if !l.Truthy() {
				return l, nil
			}
			return in.eval(data.R, e)
		case ast.OpLogicalOr:
			if l.Truthy() {
				return l, nil
			}
			return in.eval(data.R, e)
		case ast.OpNullish:
			if !l.nullish() {
				return l, nil
			}
			return in.eval(data.R, e)
		}
		r, err := in.eval(data.R, e)
		if err != nil {
			return Undefined(), err
		}
		return in.binaryOp(data.Op, l, r, ex.Span)
	case ast.ExprAssign:
		return in.evalAssign(id, e)
	case ast.ExprConditional:
		data, _ := exprs.Conditional(id)
		cond, err := in.eval(data.Cond, e)
		if err != nil {
			return Undefined(), err
		}
		if cond.Truthy() {
			return in.eval(data.Then, e)
		}
		return in.eval(data.Else, e)
	case ast.ExprSequence:
		data, _ := exprs.Sequence(id)
		v := Undefined()
		for _, x := range data.Exprs {
			var err error
			if v, err = in.eval(x, e); err != nil {
				return Undefined(), err
			}
		}
		return v, nil
	case ast.ExprParen:
		inner, _ := exprs.Wrapped(id)
		return in.eval(inner, e)
	case ast.ExprClass, ast.ExprSuper:
		return Undefined(), in.makeError(ErrUnsupported, ex.Span, "classes are not supported by the evaluator")
	}
	return Undefined(), in.makeError(ErrUnsupported, ex.Span, "unsupported expression "+ex.Kind.String())
}

// evalSpread evaluates an array element or argument; spreads expand.
func (in *Interp) evalSpread(id ast.ExprID, e *env) ([]Value, error) {
	if in.b.Exprs.Get(id).Kind != ast.ExprSpread {
		v, err := in.eval(id, e)
		return []Value{v}, err
	}
	inner, _ := in.b.Exprs.Wrapped(id)
	v, err := in.eval(inner, e)
	if err != nil {
		return nil, err
	}
	items, err := in.iterate(v, in.exprSpan(id))
	return slices.Clone(items), err
}

func (in *Interp) evalArgs(list []ast.ExprID, e *env) ([]Value, error) {
	args := make([]Value, 0, len(list))
	for _, a := range list {
		vs, err := in.evalSpread(a, e)
		if err != nil {
			return nil, err
		}
		args = append(args, vs...)
	}
	return args, nil
}

func (in *Interp) evalObject(id ast.ExprID, e *env) (Value, error) {
	data, _ := in.b.Exprs.Object(id)
	obj := newObject(ObjPlain)
	for _, prop := range data.Props {
		switch prop.Kind {
		case ast.PropSpread:
			v, err := in.eval(prop.Value, e)
			if err != nil {
				return Undefined(), err
			}
			if v.Kind == VKObject {
				for _, k := range v.Obj.Keys() {
					item, _ := in.getProp(v, k, prop.Span)
					obj.Set(k, item)
				}
			}
			continue
		case ast.PropGet, ast.PropSet:
			return Undefined(), in.makeError(ErrUnsupported, prop.Span, "accessors are not supported by the evaluator")
		}
		key, err := in.propKey(prop.Key, e)
		if err != nil {
			return Undefined(), err
		}
		var v Value
		if prop.Kind == ast.PropMethod {
			v = in.makeClosure(prop.Func, e)
		} else if v, err = in.eval(prop.Value, e); err != nil {
			return Undefined(), err
		}
		if v.Kind == VKObject && v.Obj.Kind == ObjFunction && v.Obj.Name == "" {
			v.Obj.Name = key
		}
		obj.Set(key, v)
	}
	return MakeObject(obj), nil
}

// member evaluates the object and key of a member or index expression.
// short reports an optional chain that hit null or undefined.
func (in *Interp) member(id ast.ExprID, e *env) (obj Value, key string, short bool, err error) {
	exprs := in.b.Exprs
	if data, ok := exprs.Member(id); ok {
		if obj, err = in.eval(data.Object, e); err != nil {
			return obj, "", false, err
		}
		if data.Optional && obj.nullish() {
			return obj, "", true, nil
		}
		return obj, in.name(data.Prop), false, nil
	}
	data, _ := exprs.Index(id)
	if obj, err = in.eval(data.Object, e); err != nil {
		return obj, "", false, err
	}
	if data.Optional && obj.nullish() {
		return obj, "", true, nil
	}
	idx, err := in.eval(data.Index, e)
	if err != nil {
		return obj, "", false, err
	}
	return obj, idx.String(), false, nil
}

func (in *Interp) evalCall(id ast.ExprID, e *env) (Value, error) {
	data, _ := in.b.Exprs.Call(id)
	callee := in.b.Exprs.Unparen(data.Callee)
	this := Undefined()
	var fn Value
	switch in.b.Exprs.Get(callee).Kind {
	case ast.ExprMember, ast.ExprIndex:
		obj, key, short, err := in.member(callee, e)
		if err != nil || short {
			return Undefined(), err
		}
		if fn, err = in.getProp(obj, key, in.exprSpan(callee)); err != nil {
			return Undefined(), err
		}
		this = obj
	default:
		var err error
		if fn, err = in.eval(callee, e); err != nil {
			return Undefined(), err
		}
	}
	if data.Optional && fn.nullish() {
		return Undefined(), nil
	}
	args, err := in.evalArgs(data.Args, e)
	if err != nil {
		return Undefined(), err
	}
	if fn.Kind != VKObject || !fn.Obj.callable() {
		return Undefined(), in.typeError(in.exprSpan(callee), "%s is not a function", in.calleeText(callee))
	}
	return in.call(fn, this, args, id)
}

// calleeText names a callee in error messages.
func (in *Interp) calleeText(id ast.ExprID) string {
	exprs := in.b.Exprs
	if data, ok := exprs.Ident(id); ok {
		return in.name(data.Name)
	}
	if data, ok := exprs.Member(id); ok {
		return in.calleeText(in.b.Exprs.Unparen(data.Object)) + "." + in.name(data.Prop)
	}
	return "expression"
}

func (in *Interp) call(fn Value, this Value, args []Value, call ast.ExprID) (Value, error) {
	span := in.exprSpan(call)
	if fn.Kind != VKObject || !fn.Obj.callable() {
		return Undefined(), in.typeError(span, "%s is not a function", in.describe(fn))
	}
	obj := fn.Obj
	if obj.Kind == ObjNative {
		return obj.Native(in, this, args, call)
	}
	if len(in.stack) >= maxCallDepth {
		return Undefined(), in.throwError("RangeError", span, "Maximum call stack size exceeded")
	}
	in.stack = append(in.stack, callFrame{name: obj.Name, span: span})
	defer func() { in.stack = in.stack[:len(in.stack)-1] }()

	cl := obj.Fn
	data := in.b.Funcs.Get(cl.fn)
	fenv := newEnv(cl.env, true)
	if !cl.arrow {
		fenv.define(in.nameThis, this, true)
		fenv.define(in.nameArguments, NewArray(slices.Clone(args)), false)
	}
	for i, p := range data.Params {
		v := Undefined()
		if i < len(args) {
			v = args[i]
		}
		if err := in.bindPattern(p, v, fenv, bindLet); err != nil {
			return Undefined(), err
		}
	}
	if data.Rest.IsValid() {
		var rest []Value
		if len(args) > len(data.Params) {
			rest = slices.Clone(args[len(data.Params):])
		}
		if err := in.bindPattern(data.Rest, NewArray(rest), fenv, bindLet); err != nil {
			return Undefined(), err
		}
	}
	if data.ExprBody.IsValid() {
		return in.eval(data.ExprBody, fenv)
	}

	body, _ := in.b.FuncBody(cl.fn)
	in.hoist(body, fenv, true)
	c, err := in.execBody(body, fenv, &frame{})
	if err != nil {
		return Undefined(), err
	}
	if c.kind == ctlReturn {
		return c.value, nil
	}
	return Undefined(), nil
}

func (in *Interp) evalNew(id ast.ExprID, e *env) (Value, error) {
	data, _ := in.b.Exprs.Construct(id)
	span := in.exprSpan(id)
	fn, err := in.eval(data.Callee, e)
	if err != nil {
		return Undefined(), err
	}
	args, err := in.evalArgs(data.Args, e)
	if err != nil {
		return Undefined(), err
	}
	if fn.Kind != VKObject || !fn.Obj.callable() || (fn.Obj.Fn != nil && fn.Obj.Fn.arrow) {
		return Undefined(), in.typeError(span, "%s is not a constructor", in.calleeText(in.b.Exprs.Unparen(data.Callee)))
	}
	if fn.Obj.Kind == ObjNative {
		v, err := fn.Obj.Native(in, Undefined(), args, id)
		if err == nil && v.Kind == VKObject && v.Obj.ctor == nil {
			v.Obj.ctor = fn.Obj
		}
		return v, err
	}
	obj := newObject(ObjPlain)
	obj.ctor = fn.Obj
	v, err := in.call(fn, MakeObject(obj), args, id)
	if err != nil {
		return Undefined(), err
	}
	if v.Kind == VKObject {
		return v, nil
	}
	return MakeObject(obj), nil
}

func (in *Interp) evalUnary(id ast.ExprID, e *env) (Value, error) {
	data, _ := in.b.Exprs.Unary(id)
	x := in.b.Exprs.Unparen(data.X)
	switch data.Op {
	case ast.UnaryTypeof:
		if ident, ok := in.b.Exprs.Ident(x); ok && e.lookup(ident.Name) == nil {
			return MakeString("undefined"), nil
		}
	case ast.UnaryDelete:
		kind := in.b.Exprs.Get(x).Kind
		if kind != ast.ExprMember && kind != ast.ExprIndex {
			return MakeBool(true), nil
		}
		obj, key, short, err := in.member(x, e)
		if err != nil || short {
			return MakeBool(true), err
		}
		if obj.Kind == VKObject {
			if i, ok := arrayIndex(key); ok && obj.Obj.Kind == ObjArray && i < len(obj.Obj.Elems) {
				obj.Obj.Elems[i] = Undefined()
			} else {
				obj.Obj.Delete(key)
			}
		}
		return MakeBool(true), nil
	}

	v, err := in.eval(x, e)
	if err != nil {
		return Undefined(), err
	}
	switch data.Op {
	case ast.UnaryPlus:
		return MakeNumber(v.Number()), nil
	case ast.UnaryMinus:
		return MakeNumber(-v.Number()), nil
	case ast.UnaryNot:
		return MakeBool(!v.Truthy()), nil
	case ast.UnaryBitNot:
		return MakeNumber(float64(^toInt32(v.Number()))), nil
	case ast.UnaryTypeof:
		return MakeString(v.TypeOf()), nil
	case ast.UnaryVoid:
		return Undefined(), nil
	}
	return Undefined(), in.makeError(ErrUnsupported, in.exprSpan(id), "unsupported operator "+data.Op.String())
}

// reference is an assignable place: a name or an object property.
type reference struct {
	name   source.StringID
	member bool
	obj    Value
	key    string
	span   source.Span
}

func (in *Interp) reference(id ast.ExprID, e *env) (reference, error) {
	id = in.b.Exprs.Unparen(id)
	span := in.exprSpan(id)
	if data, ok := in.b.Exprs.Ident(id); ok {
		return reference{name: data.Name, span: span}, nil
	}
	switch in.b.Exprs.Get(id).Kind {
	case ast.ExprMember, ast.ExprIndex:
		obj, key, _, err := in.member(id, e)
		return reference{member: true, obj: obj, key: key, span: span}, err
	}
	return reference{}, in.throwError("SyntaxError", span, "Invalid assignment target")
}

func (in *Interp) refGet(r reference, e *env) (Value, error) {
	if r.member {
		return in.getProp(r.obj, r.key, r.span)
	}
	b := e.lookup(r.name)
	if b == nil {
		return Undefined(), in.referenceError(r.span, in.name(r.name))
	}
	return b.value, nil
}

func (in *Interp) refSet(r reference, v Value, e *env) error {
	if r.member {
		return in.setProp(r.obj, r.key, v, r.span)
	}
	return in.assignName(r.name, v, e, r.span)
}

// assignTo stores v into an assignment target expression.
func (in *Interp) assignTo(target ast.ExprID, v Value, e *env) error {
	ref, err := in.reference(target, e)
	if err != nil {
		return err
	}
	return in.refSet(ref, v, e)
}

func (in *Interp) evalAssign(id ast.ExprID, e *env) (Value, error) {
	data, _ := in.b.Exprs.Assign(id)
	if data.Pattern.IsValid() {
		v, err := in.eval(data.Value, e)
		if err != nil {
			return Undefined(), err
		}
		return v, in.bindPattern(data.Pattern, v, e, bindAssign)
	}
	ref, err := in.reference(data.Target, e)
	if err != nil {
		return Undefined(), err
	}
	if data.Op == ast.AssignPlain {
		v, err := in.eval(data.Value, e)
		if err != nil {
			return Undefined(), err
		}
		return v, in.refSet(ref, v, e)
	}

	cur, err := in.refGet(ref, e)
	if err != nil {
		return Undefined(), err
	}
	if data.Op.Logical() {
		switch {
		case data.Op == ast.AssignAnd && !cur.Truthy(),
			data.Op == ast.AssignOr && cur.Truthy(),
			data.Op == ast.AssignNullish && !cur.nullish():
			return cur, nil
		}
		v, err := in.eval(data.Value, e)
		if err != nil {
			return Undefined(), err
		}
		return v, in.refSet(ref, v, e)
	}
	rhs, err := in.eval(data.Value, e)
	if err != nil {
		return Undefined(), err
	}
	v, err := in.binaryOp(data.Op.Binary(), cur, rhs, in.exprSpan(id))
	if err != nil {
		return Undefined(), err
	}
	return v, in.refSet(ref, v, e)
}

// arrayIndex parses a canonical non-negative integer key.
func arrayIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

func (in *Interp) getProp(v Value, key string, span source.Span) (Value, error) {
	switch v.Kind {
	case VKUndefined, VKNull:
		return Undefined(), in.typeError(span, "Cannot read properties of %s (reading '%s')", v.String(), key)
	case VKString:
		runes := []rune(v.Str)
		if key == "length" {
			return MakeNumber(float64(len(runes))), nil
		}
		if i, ok := arrayIndex(key); ok {
			if i < len(runes) {
				return MakeString(string(runes[i])), nil
			}
			return Undefined(), nil
		}
		return in.stringMethods[key], nil
	case VKNumber:
		return in.numberMethods[key], nil
	case VKBool:
		return Undefined(), nil
	}

	obj := v.Obj
	if obj.Kind == ObjArray {
		if key == "length" {
			return MakeNumber(float64(len(obj.Elems))), nil
		}
		if i, ok := arrayIndex(key); ok {
			if i < len(obj.Elems) {
				return obj.Elems[i], nil
			}
			return Undefined(), nil
		}
	}
	if p, ok := obj.Get(key); ok {
		return p, nil
	}
	switch {
	case obj.Kind == ObjArray:
		return in.arrayMethods[key], nil
	case obj.callable() && key == "name":
		return MakeString(obj.Name), nil
	case obj.Kind == ObjError && key == "stack":
		return MakeString(v.String()), nil
	case obj.Kind == ObjPlain && key == "hasOwnProperty":
		return in.hasOwn, nil
	}
	return Undefined(), nil
}

func (in *Interp) setProp(target Value, key string, v Value, span source.Span) error {
	if target.nullish() {
		return in.typeError(span, "Cannot set properties of %s (setting '%s')", target.String(), key)
	}
	if target.Kind != VKObject {
		return nil
	}
	obj := target.Obj
	if obj.Kind == ObjArray {
		if key == "length" {
			n := v.Number()
			if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
				return in.throwError("RangeError", span, "Invalid array length")
			}
			obj.Elems = resize(obj.Elems, int(n))
			return nil
		}
		if i, ok := arrayIndex(key); ok {
			if i >= len(obj.Elems) {
				obj.Elems = resize(obj.Elems, i+1)
			}
			obj.Elems[i] = v
			return nil
		}
	}
	obj.Set(key, v)
	return nil
}

func resize(elems []Value, n int) []Value {
	if n <= len(elems) {
		return elems[:n]
	}
	return append(elems, make([]Value, n-len(elems))...)
}

// describe renders a value for error messages.
func (in *Interp) describe(v Value) string {
	if v.Kind == VKString {
		return strconv.Quote(v.Str)
	}
	return Inspect(v)
}
