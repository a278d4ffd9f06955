package interp

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"hereafter/internal/ast"
)

type arrayFunc func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error)

func arrayMethod(name string, fn arrayFunc) Value {
	return native(name, func(in *Interp, this Value, args []Value, call ast.ExprID) (Value, error) {
		if this.Kind != VKObject || this.Obj.Kind != ObjArray {
			return Undefined(), in.typeError(in.exprSpan(call), "Array.prototype.%s called on a non-array", name)
		}
		return fn(in, this.Obj, this, args, call)
	})
}

// each calls the callback argument for every element until stop is true.
func (in *Interp) each(arr *Object, this Value, args []Value, call ast.ExprID, visit func(i int, el, res Value) (stop bool)) error {
	fn := arg(args, 0)
	if fn.Kind != VKObject || !fn.Obj.callable() {
		return in.typeError(in.exprSpan(call), "%s is not a function", in.describe(fn))
	}
	for i := 0; i < len(arr.Elems); i++ {
		el := arr.Elems[i]
		res, err := in.call(fn, Undefined(), []Value{el, MakeNumber(float64(i)), this}, call)
		if err != nil {
			return err
		}
		if visit(i, el, res) {
			return nil
		}
	}
	return nil
}

func arrayMethods() map[string]Value {
	m := map[string]Value{}
	add := func(name string, fn arrayFunc) { m[name] = arrayMethod(name, fn) }

	add("push", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		arr.Elems = append(arr.Elems, args...)
		return MakeNumber(float64(len(arr.Elems))), nil
	})
	add("pop", func(_ *Interp, arr *Object, _ Value, _ []Value, _ ast.ExprID) (Value, error) {
		if len(arr.Elems) == 0 {
			return Undefined(), nil
		}
		last := arr.Elems[len(arr.Elems)-1]
		arr.Elems = arr.Elems[:len(arr.Elems)-1]
		return last, nil
	})
	add("shift", func(_ *Interp, arr *Object, _ Value, _ []Value, _ ast.ExprID) (Value, error) {
		if len(arr.Elems) == 0 {
			return Undefined(), nil
		}
		first := arr.Elems[0]
		arr.Elems = slices.Delete(arr.Elems, 0, 1)
		return first, nil
	})
	add("unshift", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		arr.Elems = slices.Insert(arr.Elems, 0, args...)
		return MakeNumber(float64(len(arr.Elems))), nil
	})
	add("join", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		sep := ","
		if s := arg(args, 0); s.Kind != VKUndefined {
			sep = s.String()
		}
		parts := make([]string, len(arr.Elems))
		for i, el := range arr.Elems {
			if !el.nullish() {
				parts[i] = el.String()
			}
		}
		return MakeString(strings.Join(parts, sep)), nil
	})
	add("indexOf", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		for i, el := range arr.Elems {
			if strictEqual(el, arg(args, 0)) {
				return MakeNumber(float64(i)), nil
			}
		}
		return MakeNumber(-1), nil
	})
	add("includes", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		want := arg(args, 0)
		for _, el := range arr.Elems {
			if strictEqual(el, want) || (el.Kind == VKNumber && want.Kind == VKNumber && math.IsNaN(el.Num) && math.IsNaN(want.Num)) {
				return MakeBool(true), nil
			}
		}
		return MakeBool(false), nil
	})
	add("slice", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		n := len(arr.Elems)
		start, end := relIndex(arg(args, 0), n, 0), relIndex(arg(args, 1), n, n)
		if start >= end {
			return NewArray(nil), nil
		}
		return NewArray(slices.Clone(arr.Elems[start:end])), nil
	})
	add("concat", func(_ *Interp, arr *Object, _ Value, args []Value, _ ast.ExprID) (Value, error) {
		out := slices.Clone(arr.Elems)
		for _, a := range args {
			if a.Kind == VKObject && a.Obj.Kind == ObjArray {
				out = append(out, a.Obj.Elems...)
			} else {
				out = append(out, a)
			}
		}
		return NewArray(out), nil
	})
	add("reverse", func(_ *Interp, arr *Object, this Value, _ []Value, _ ast.ExprID) (Value, error) {
		slices.Reverse(arr.Elems)
		return this, nil
	})
	add("forEach", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		return Undefined(), in.each(arr, this, args, call, func(int, Value, Value) bool { return false })
	})
	add("map", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		out := make([]Value, 0, len(arr.Elems))
		err := in.each(arr, this, args, call, func(_ int, _, res Value) bool {
			out = append(out, res)
			return false
		})
		return NewArray(out), err
	})
	add("filter", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		var out []Value
		err := in.each(arr, this, args, call, func(_ int, el, res Value) bool {
			if res.Truthy() {
				out = append(out, el)
			}
			return false
		})
		return NewArray(out), err
	})
	add("find", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		found := Undefined()
		err := in.each(arr, this, args, call, func(_ int, el, res Value) bool {
			if res.Truthy() {
				found = el
				return true
			}
			return false
		})
		return found, err
	})
	add("some", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		hit := false
		err := in.each(arr, this, args, call, func(_ int, _, res Value) bool {
			hit = res.Truthy()
			return hit
		})
		return MakeBool(hit), err
	})
	add("every", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		all := true
		err := in.each(arr, this, args, call, func(_ int, _, res Value) bool {
			all = res.Truthy()
			return !all
		})
		return MakeBool(all), err
	})
	add("reduce", func(in *Interp, arr *Object, this Value, args []Value, call ast.ExprID) (Value, error) {
		fn := arg(args, 0)
		start := 0
		var acc Value
		switch {
		case len(args) > 1:
			acc = args[1]
		case len(arr.Elems) > 0:
			acc, start = arr.Elems[0], 1
		default:
			return Undefined(), in.typeError(in.exprSpan(call), "Reduce of empty array with no initial value")
		}
		for i := start; i < len(arr.Elems); i++ {
			var err error
			acc, err = in.call(fn, Undefined(), []Value{acc, arr.Elems[i], MakeNumber(float64(i)), this}, call)
			if err != nil {
				return Undefined(), err
			}
		}
		return acc, nil
	})
	return m
}

type stringFunc func(in *Interp, s string, args []Value, call ast.ExprID) (Value, error)

// Strings are indexed by code point.
func stringMethods() map[string]Value {
	m := map[string]Value{}
	add := func(name string, fn stringFunc) {
		m[name] = native(name, func(in *Interp, this Value, args []Value, call ast.ExprID) (Value, error) {
			return fn(in, this.String(), args, call)
		})
	}
	str := func(f func(string) string) stringFunc {
		return func(_ *Interp, s string, _ []Value, _ ast.ExprID) (Value, error) { return MakeString(f(s)), nil }
	}

	add("toUpperCase", str(strings.ToUpper))
	add("toLowerCase", str(strings.ToLower))
	add("trim", str(strings.TrimSpace))
	add("toString", str(func(s string) string { return s }))
	add("slice", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		runes := []rune(s)
		start, end := relIndex(arg(args, 0), len(runes), 0), relIndex(arg(args, 1), len(runes), len(runes))
		if start >= end {
			return MakeString(""), nil
		}
		return MakeString(string(runes[start:end])), nil
	})
	add("charAt", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		runes := []rune(s)
		i := int(arg(args, 0).Number())
		if i < 0 || i >= len(runes) {
			return MakeString(""), nil
		}
		return MakeString(string(runes[i])), nil
	})
	add("indexOf", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		i := strings.Index(s, arg(args, 0).String())
		if i < 0 {
			return MakeNumber(-1), nil
		}
		return MakeNumber(float64(len([]rune(s[:i])))), nil
	})
	add("includes", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		return MakeBool(strings.Contains(s, arg(args, 0).String())), nil
	})
	add("startsWith", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		return MakeBool(strings.HasPrefix(s, arg(args, 0).String())), nil
	})
	add("endsWith", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		return MakeBool(strings.HasSuffix(s, arg(args, 0).String())), nil
	})
	add("split", func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
		sep := arg(args, 0)
		if sep.Kind == VKUndefined {
			return NewArray([]Value{MakeString(s)}), nil
		}
		parts := strings.Split(s, sep.String())
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = MakeString(p)
		}
		return NewArray(out), nil
	})
	add("repeat", func(in *Interp, s string, args []Value, call ast.ExprID) (Value, error) {
		n := arg(args, 0).Number()
		if n < 0 || math.IsInf(n, 0) {
			return Undefined(), in.throwError("RangeError", in.exprSpan(call), "Invalid count value: "+MakeNumber(n).String())
		}
		return MakeString(strings.Repeat(s, int(n))), nil
	})
	pad := func(start bool) stringFunc {
		return func(_ *Interp, s string, args []Value, _ ast.ExprID) (Value, error) {
			width := int(arg(args, 0).Number())
			fill := " "
			if f := arg(args, 1); f.Kind != VKUndefined {
				fill = f.String()
			}
			missing := width - len([]rune(s))
			if missing <= 0 || fill == "" {
				return MakeString(s), nil
			}
			padding := []rune(strings.Repeat(fill, missing/len([]rune(fill))+1))[:missing]
			if start {
				return MakeString(string(padding) + s), nil
			}
			return MakeString(s + string(padding)), nil
		}
	}
	add("padStart", pad(true))
	add("padEnd", pad(false))
	return m
}

func numberMethods() map[string]Value {
	m := map[string]Value{}
	m["toFixed"] = native("toFixed", func(_ *Interp, this Value, args []Value, _ ast.ExprID) (Value, error) {
		digits := int(arg(args, 0).Number())
		return MakeString(strconv.FormatFloat(this.Number(), 'f', digits, 64)), nil
	})
	m["toString"] = native("toString", func(in *Interp, this Value, args []Value, call ast.ExprID) (Value, error) {
		radix := 10
		if r := arg(args, 0); r.Kind != VKUndefined {
			radix = int(r.Number())
		}
		if radix < 2 || radix > 36 {
			return Undefined(), in.throwError("RangeError", in.exprSpan(call), "toString() radix must be between 2 and 36")
		}
		n := this.Number()
		if radix == 10 || n != math.Trunc(n) || math.IsInf(n, 0) {
			return MakeString(this.String()), nil
		}
		return MakeString(strconv.FormatInt(int64(n), radix)), nil
	})
	return m
}
