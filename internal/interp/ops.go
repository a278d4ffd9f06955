package interp

import (
	"math"

	"hereafter/internal/ast"
	"hereafter/internal/source"
)

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(f), 1<<32))))
}

func toUint32(f float64) uint32 { return uint32(toInt32(f)) }

// toPrimitive flattens objects to their string form.
func toPrimitive(v Value) Value {
	if v.Kind == VKObject {
		return MakeString(v.String())
	}
	return v
}

func (in *Interp) binaryOp(op ast.BinaryOp, l, r Value, span source.Span) (Value, error) {
	switch op {
	case ast.OpAdd:
		lp, rp := toPrimitive(l), toPrimitive(r)
		if lp.Kind == VKString || rp.Kind == VKString {
			return MakeString(lp.String() + rp.String()), nil
		}
		return MakeNumber(lp.Number() + rp.Number()), nil
	case ast.OpSub:
		return MakeNumber(l.Number() - r.Number()), nil
	case ast.OpMul:
		return MakeNumber(l.Number() * r.Number()), nil
	case ast.OpDiv:
		return MakeNumber(l.Number() / r.Number()), nil
	case ast.OpMod:
		return MakeNumber(math.Mod(l.Number(), r.Number())), nil
	case ast.OpExp:
		return MakeNumber(math.Pow(l.Number(), r.Number())), nil
	case ast.OpShl:
		return MakeNumber(float64(toInt32(l.Number()) << (toUint32(r.Number()) & 31))), nil
	case ast.OpShr:
		return MakeNumber(float64(toInt32(l.Number()) >> (toUint32(r.Number()) & 31))), nil
	case ast.OpUShr:
		return MakeNumber(float64(toUint32(l.Number()) >> (toUint32(r.Number()) & 31))), nil
	case ast.OpBitAnd:
		return MakeNumber(float64(toInt32(l.Number()) & toInt32(r.Number()))), nil
	case ast.OpBitOr:
		return MakeNumber(float64(toInt32(l.Number()) | toInt32(r.Number()))), nil
	case ast.OpBitXor:
		return MakeNumber(float64(toInt32(l.Number()) ^ toInt32(r.Number()))), nil
	case ast.OpEq:
		return MakeBool(looseEqual(l, r)), nil
	case ast.OpNotEq:
		return MakeBool(!looseEqual(l, r)), nil
	case ast.OpStrictEq:
		return MakeBool(strictEqual(l, r)), nil
	case ast.OpStrictNotEq:
		return MakeBool(!strictEqual(l, r)), nil
	case ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
		return MakeBool(compare(op, toPrimitive(l), toPrimitive(r))), nil
	case ast.OpIn:
		if r.Kind != VKObject {
			return Undefined(), in.typeError(span, "Cannot use 'in' operator to search for '%s' in %s", l.String(), r.String())
		}
		return MakeBool(hasOwn(r.Obj, l.String())), nil
	case ast.OpInstanceof:
		if r.Kind != VKObject || !r.Obj.callable() {
			return Undefined(), in.typeError(span, "Right-hand side of 'instanceof' is not callable")
		}
		return MakeBool(in.instanceOf(l, r.Obj)), nil
	}
	return Undefined(), in.makeError(ErrUnsupported, span, "unsupported operator "+op.String())
}

func compare(op ast.BinaryOp, l, r Value) bool {
	if l.Kind == VKString && r.Kind == VKString {
		switch op {
		case ast.OpLt:
			return l.Str < r.Str
		case ast.OpGt:
			return l.Str > r.Str
		case ast.OpLtEq:
			return l.Str <= r.Str
		default:
			return l.Str >= r.Str
		}
	}
	a, b := l.Number(), r.Number()
	switch op {
	case ast.OpLt:
		return a < b
	case ast.OpGt:
		return a > b
	case ast.OpLtEq:
		return a <= b
	default:
		return a >= b
	}
}

func strictEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case VKBool:
		return a.Bool == b.Bool
	case VKNumber:
		return a.Num == b.Num
	case VKString:
		return a.Str == b.Str
	case VKObject:
		return a.Obj == b.Obj
	}
	return true
}

func looseEqual(a, b Value) bool {
	switch {
	case a.Kind == b.Kind:
		return strictEqual(a, b)
	case a.nullish() || b.nullish():
		return a.nullish() && b.nullish()
	case a.Kind == VKObject:
		return looseEqual(toPrimitive(a), b)
	case b.Kind == VKObject:
		return looseEqual(a, toPrimitive(b))
	}
	return a.Number() == b.Number()
}

func hasOwn(obj *Object, key string) bool {
	if obj.Kind == ObjArray {
		if key == "length" {
			return true
		}
		if i, ok := arrayIndex(key); ok {
			return i < len(obj.Elems)
		}
	}
	_, ok := obj.Get(key)
	return ok
}

func (in *Interp) instanceOf(v Value, ctor *Object) bool {
	if v.Kind != VKObject {
		return false
	}
	switch {
	case v.Obj.ctor == ctor:
		return true
	case ctor == in.errorCtors["Error"]:
		return v.Obj.Kind == ObjError
	case ctor.Name == "Array" && ctor.Kind == ObjNative:
		return v.Obj.Kind == ObjArray
	case ctor.Name == "Object" && ctor.Kind == ObjNative:
		return true
	}
	return false
}
