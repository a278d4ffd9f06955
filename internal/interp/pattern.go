package interp

import (
	"slices"
	"strconv"

	"hereafter/internal/ast"
	"hereafter/internal/source"
)

type bindMode uint8

const (
	bindAssign bindMode = iota
	bindVar
	bindLet
	bindConst
)

// bindPattern destructures v into pat.
func (in *Interp) bindPattern(pat ast.PatID, v Value, e *env, mode bindMode) error {
	pt := in.b.Pats.Get(pat)
	switch pt.Kind {
	case ast.PatIdent:
		data, _ := in.b.Pats.Ident(pat)
		switch mode {
		case bindVar:
			e.funcScope().define(data.Name, v, false)
		case bindLet, bindConst:
			e.define(data.Name, v, mode == bindConst)
		default:
			return in.assignName(data.Name, v, e, pt.Span)
		}
		return nil

	case ast.PatDefault:
		data, _ := in.b.Pats.Default(pat)
		if v.Kind == VKUndefined {
			var err error
			if v, err = in.eval(data.Default, e); err != nil {
				return err
			}
			in.nameFunction(v, data.Target)
		}
		return in.bindPattern(data.Target, v, e, mode)

	case ast.PatArray:
		data, _ := in.b.Pats.Array(pat)
		items, err := in.iterate(v, pt.Span)
		if err != nil {
			return err
		}
		for i, el := range data.Elems {
			if !el.IsValid() {
				continue
			}
			item := Undefined()
			if i < len(items) {
				item = items[i]
			}
			if err := in.bindPattern(el, item, e, mode); err != nil {
				return err
			}
		}
		if data.Rest.IsValid() {
			var rest []Value
			if len(data.Elems) < len(items) {
				rest = slices.Clone(items[len(data.Elems):])
			}
			return in.bindPattern(data.Rest, NewArray(rest), e, mode)
		}
		return nil

	case ast.PatObject:
		data, _ := in.b.Pats.Object(pat)
		if v.Kind == VKUndefined || v.Kind == VKNull {
			return in.typeError(pt.Span, "Cannot destructure '%s' as it is %s.", v.String(), v.String())
		}
		used := make(map[string]bool, len(data.Props))
		for _, prop := range data.Props {
			key, err := in.propKey(prop.Key, e)
			if err != nil {
				return err
			}
			used[key] = true
			item, err := in.getProp(v, key, prop.Span)
			if err != nil {
				return err
			}
			if err := in.bindPattern(prop.Value, item, e, mode); err != nil {
				return err
			}
		}
		if data.Rest.IsValid() {
			rest := newObject(ObjPlain)
			if v.Kind == VKObject {
				for _, k := range v.Obj.Keys() {
					if !used[k] {
						item, _ := in.getProp(v, k, pt.Span)
						rest.Set(k, item)
					}
				}
			}
			return in.bindPattern(data.Rest, MakeObject(rest), e, mode)
		}
		return nil

	case ast.PatExpr:
		data, _ := in.b.Pats.Expr(pat)
		return in.assignTo(data.Expr, v, e)
	}
	return in.makeError(ErrUnsupported, pt.Span, "unsupported pattern")
}

// assignName writes an existing binding; unknown names become globals.
func (in *Interp) assignName(name source.StringID, v Value, e *env, span source.Span) error {
	b := e.lookup(name)
	if b == nil {
		in.globals.define(name, v, false)
		return nil
	}
	if b.constant {
		return in.typeError(span, "Assignment to constant variable.")
	}
	b.value = v
	return nil
}

// iterate lists the values a for-of loop or array pattern sees.
func (in *Interp) iterate(v Value, span source.Span) ([]Value, error) {
	switch {
	case v.Kind == VKString:
		out := make([]Value, 0, len(v.Str))
		for _, r := range v.Str {
			out = append(out, MakeString(string(r)))
		}
		return out, nil
	case v.Kind == VKObject && v.Obj.Kind == ObjArray:
		return v.Obj.Elems, nil
	}
	return nil, in.typeError(span, "%s is not iterable", in.describe(v))
}

// propKey evaluates a property key to its string form.
func (in *Interp) propKey(k ast.PropKey, e *env) (string, error) {
	if k.Kind != ast.KeyComputed {
		if k.Kind == ast.KeyNumber {
			if n, err := strconv.ParseFloat(k.Name, 64); err == nil {
				return MakeNumber(n).String(), nil
			}
		}
		return k.Name, nil
	}
	v, err := in.eval(k.Expr, e)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
