package interp

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"hereafter/internal/ast"
	"hereafter/internal/source"
)

func native(name string, fn NativeFunc) Value {
	obj := newObject(ObjNative)
	obj.Name = name
	obj.Native = fn
	return MakeObject(obj)
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined()
}

// relIndex clamps a slice-style index against n; negative counts from the end.
func relIndex(v Value, n, def int) int {
	if v.Kind == VKUndefined {
		return def
	}
	f := math.Trunc(v.Number())
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		f += float64(n)
		if f < 0 {
			return 0
		}
	case f > float64(n):
		return n
	}
	return int(f)
}

func (in *Interp) global(name string, v Value) {
	in.globals.define(in.b.Strings.Intern(name), v, false)
}

func (in *Interp) installGlobals() {
	in.global("undefined", Undefined())
	in.global("NaN", MakeNumber(math.NaN()))
	in.global("Infinity", MakeNumber(math.Inf(1)))

	console := newObject(ObjPlain)
	for _, name := range []string{"log", "info", "warn", "error"} {
		console.Set(name, native(name, consoleLog))
	}
	in.global("console", MakeObject(console))

	in.global("Math", MakeObject(mathObject()))
	in.global("String", native("String", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		if len(args) == 0 {
			return MakeString(""), nil
		}
		return MakeString(args[0].String()), nil
	}))
	in.global("Number", native("Number", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		if len(args) == 0 {
			return MakeNumber(0), nil
		}
		return MakeNumber(toPrimitive(args[0]).Number()), nil
	}))
	in.global("Boolean", native("Boolean", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		return MakeBool(arg(args, 0).Truthy()), nil
	}))
	in.global("parseInt", native("parseInt", builtinParseInt))
	in.global("parseFloat", native("parseFloat", builtinParseFloat))
	in.global("isNaN", native("isNaN", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		return MakeBool(math.IsNaN(arg(args, 0).Number())), nil
	}))

	array := native("Array", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		return NewArray(slices.Clone(args)), nil
	})
	array.Obj.Set("isArray", native("isArray", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		v := arg(args, 0)
		return MakeBool(v.Kind == VKObject && v.Obj.Kind == ObjArray), nil
	}))
	in.global("Array", array)
	in.global("Object", MakeObject(objectConstructor()))

	in.errorCtors = make(map[string]*Object)
	for _, name := range []string{"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError"} {
		ctor := native(name, errorConstructor(name))
		in.errorCtors[name] = ctor.Obj
		in.global(name, ctor)
	}

	v := in.opts.Vocabulary
	in.global(v.CutName, native(v.CutName, func(*Interp, Value, []Value, ast.ExprID) (Value, error) {
		return Undefined(), nil
	}))
	if in.opts.Direct {
		in.global(v.LabelName, native(v.LabelName, func(in *Interp, _ Value, _ []Value, call ast.ExprID) (Value, error) {
			return Undefined(), in.makeError(ErrUnsupported, in.exprSpan(call),
				v.LabelName+"() must initialise a let declaration in a function body")
		}))
		in.global(v.GotoName, native(v.GotoName, builtinGoto))
	}

	in.arrayMethods = arrayMethods()
	in.stringMethods = stringMethods()
	in.numberMethods = numberMethods()
	in.hasOwn = native("hasOwnProperty", func(_ *Interp, this Value, args []Value, _ ast.ExprID) (Value, error) {
		return MakeBool(this.Kind == VKObject && hasOwn(this.Obj, arg(args, 0).String())), nil
	})
}

func consoleLog(in *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Inspect(a)
	}
	if _, err := fmt.Fprintln(in.out, strings.Join(parts, " ")); err != nil {
		return Undefined(), err
	}
	return Undefined(), nil
}

func builtinGoto(in *Interp, _ Value, args []Value, call ast.ExprID) (Value, error) {
	target := arg(args, 0)
	if target.Kind != VKObject || target.Obj.Kind != ObjLabel {
		return Undefined(), in.typeError(in.exprSpan(call), "%s is not a label", in.describe(target))
	}
	return Undefined(), &gotoSignal{target: target.Obj.Label, span: in.exprSpan(call)}
}

func errorConstructor(name string) NativeFunc {
	return func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		obj := newObject(ObjError)
		obj.Set("name", MakeString(name))
		msg := ""
		if m := arg(args, 0); m.Kind != VKUndefined {
			msg = m.String()
		}
		obj.Set("message", MakeString(msg))
		return MakeObject(obj), nil
	}
}

func builtinParseInt(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
	s := strings.TrimSpace(arg(args, 0).String())
	radix := 10
	if r := arg(args, 1); r.Kind != VKUndefined {
		radix = int(r.Number())
	}
	sign := 1.0
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = -1, rest
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	if (radix == 16 || radix == 0) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s, radix = s[2:], 16
	}
	if radix == 0 {
		radix = 10
	}
	if radix < 2 || radix > 36 {
		return MakeNumber(math.NaN()), nil
	}
	end := 0
	for end < len(s) {
		d := digitValue(s[end])
		if d < 0 || d >= radix {
			break
		}
		end++
	}
	if end == 0 {
		return MakeNumber(math.NaN()), nil
	}
	n := 0.0
	for i := range end {
		n = n*float64(radix) + float64(digitValue(s[i]))
	}
	return MakeNumber(sign * n), nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

func builtinParseFloat(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
	s := strings.TrimSpace(arg(args, 0).String())
	// самый длинный префикс, который парсится как число
	for end := len(s); end > 0; end-- {
		if n, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return MakeNumber(n), nil
		}
	}
	if strings.HasPrefix(s, "Infinity") {
		return MakeNumber(math.Inf(1)), nil
	}
	return MakeNumber(math.NaN()), nil
}

func mathObject() *Object {
	m := newObject(ObjPlain)
	m.Set("PI", MakeNumber(math.Pi))
	m.Set("E", MakeNumber(math.E))
	unary := map[string]func(float64) float64{
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"abs":   math.Abs,
		"sqrt":  math.Sqrt,
		"trunc": math.Trunc,
		"round": func(x float64) float64 { return math.Floor(x + 0.5) },
		"sign": func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return x
		},
	}
	for _, name := range []string{"floor", "ceil", "abs", "sqrt", "trunc", "round", "sign"} {
		f := unary[name]
		m.Set(name, native(name, func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
			return MakeNumber(f(arg(args, 0).Number())), nil
		}))
	}
	m.Set("pow", native("pow", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		return MakeNumber(math.Pow(arg(args, 0).Number(), arg(args, 1).Number())), nil
	}))
	m.Set("max", native("max", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		return MakeNumber(fold(args, math.Inf(-1), math.Max)), nil
	}))
	m.Set("min", native("min", func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		return MakeNumber(fold(args, math.Inf(1), math.Min)), nil
	}))
	return m
}

func fold(args []Value, acc float64, f func(a, b float64) float64) float64 {
	for _, a := range args {
		acc = f(acc, a.Number())
	}
	return acc
}

func objectConstructor() *Object {
	ctor := newObject(ObjNative)
	ctor.Name = "Object"
	ctor.Native = func(_ *Interp, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		if v := arg(args, 0); v.Kind == VKObject {
			return v, nil
		}
		return MakeObject(newObject(ObjPlain)), nil
	}
	listing := func(name string, item func(in *Interp, obj Value, key string) (Value, error)) {
		ctor.Set(name, native(name, func(in *Interp, _ Value, args []Value, call ast.ExprID) (Value, error) {
			obj := arg(args, 0)
			if obj.nullish() {
				return Undefined(), in.typeError(in.exprSpan(call), "Cannot convert undefined or null to object")
			}
			var out []Value
			if obj.Kind == VKObject {
				for _, k := range obj.Obj.Keys() {
					v, err := item(in, obj, k)
					if err != nil {
						return Undefined(), err
					}
					out = append(out, v)
				}
			}
			return NewArray(out), nil
		}))
	}
	listing("keys", func(_ *Interp, _ Value, key string) (Value, error) {
		return MakeString(key), nil
	})
	listing("values", func(in *Interp, obj Value, key string) (Value, error) {
		return in.getProp(obj, key, source.Span{})
	})
	listing("entries", func(in *Interp, obj Value, key string) (Value, error) {
		v, err := in.getProp(obj, key, source.Span{})
		return NewArray([]Value{MakeString(key), v}), err
	})
	ctor.Set("assign", native("assign", func(in *Interp, _ Value, args []Value, call ast.ExprID) (Value, error) {
		target := arg(args, 0)
		if target.Kind != VKObject {
			return Undefined(), in.typeError(in.exprSpan(call), "Cannot convert undefined or null to object")
		}
		for _, src := range args[1:] {
			if src.Kind != VKObject {
				continue
			}
			for _, k := range src.Obj.Keys() {
				v, _ := in.getProp(src, k, in.exprSpan(call))
				if err := in.setProp(target, k, v, in.exprSpan(call)); err != nil {
					return Undefined(), err
				}
			}
		}
		return target, nil
	}))
	return ctor
}
