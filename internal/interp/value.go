package interp

import (
	"math"
	"strconv"
	"strings"

	"hereafter/internal/ast"
	"hereafter/internal/format"
)

// ValueKind is the runtime kind of a value.
type ValueKind uint8

const (
	VKUndefined ValueKind = iota
	VKNull
	VKBool
	VKNumber
	VKString
	VKObject
)

func (k ValueKind) String() string {
	switch k {
	case VKNull:
		return "null"
	case VKBool:
		return "boolean"
	case VKNumber:
		return "number"
	case VKString:
		return "string"
	case VKObject:
		return "object"
	default:
		return "undefined"
	}
}

// Value is a JavaScript value. Objects, arrays and functions share VKObject.
type Value struct {
	Kind ValueKind
	Bool bool    // For VKBool
	Num  float64 // For VKNumber
	Str  string  // For VKString
	Obj  *Object // For VKObject
}

func Undefined() Value             { return Value{} }
func Null() Value                  { return Value{Kind: VKNull} }
func MakeBool(b bool) Value        { return Value{Kind: VKBool, Bool: b} }
func MakeNumber(n float64) Value   { return Value{Kind: VKNumber, Num: n} }
func MakeString(s string) Value    { return Value{Kind: VKString, Str: s} }
func MakeObject(obj *Object) Value { return Value{Kind: VKObject, Obj: obj} }

// ObjectKind distinguishes the object flavours the evaluator knows.
type ObjectKind uint8

const (
	ObjPlain ObjectKind = iota
	ObjArray
	ObjFunction
	ObjNative
	ObjLabel
	ObjError
)

// NativeFunc implements a builtin. call is the call site.
type NativeFunc func(in *Interp, this Value, args []Value, call ast.ExprID) (Value, error)

// Object is a heap value. Plain properties keep insertion order.
type Object struct {
	Kind   ObjectKind
	props  map[string]Value
	keys   []string
	Elems  []Value // For ObjArray
	Fn     *closure
	Native NativeFunc
	Name   string
	Label  *labelTarget // For ObjLabel
	ctor   *Object      // функция, создавшая объект через new
}

func newObject(kind ObjectKind) *Object {
	return &Object{Kind: kind, props: make(map[string]Value)}
}

// NewArray wraps elems in an array object.
func NewArray(elems []Value) Value {
	obj := newObject(ObjArray)
	obj.Elems = elems
	return MakeObject(obj)
}

// Get reads an own property.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.props[key]
	return v, ok
}

// Set writes an own property, appending new keys in order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = v
}

// Delete removes an own property.
func (o *Object) Delete(key string) bool {
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys lists own enumerable keys: array indices first, then properties.
func (o *Object) Keys() []string {
	out := make([]string, 0, len(o.Elems)+len(o.keys))
	for i := range o.Elems {
		out = append(out, strconv.Itoa(i))
	}
	return append(out, o.keys...)
}

func (o *Object) callable() bool {
	return o.Kind == ObjFunction || o.Kind == ObjNative
}

// Truthy implements ToBoolean.
func (v Value) Truthy() bool {
	switch v.Kind {
	case VKBool:
		return v.Bool
	case VKNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case VKString:
		return v.Str != ""
	case VKObject:
		return true
	}
	return false
}

func (v Value) nullish() bool {
	return v.Kind == VKUndefined || v.Kind == VKNull
}

// Number implements ToNumber for primitives; objects become NaN.
func (v Value) Number() float64 {
	switch v.Kind {
	case VKNull:
		return 0
	case VKBool:
		if v.Bool {
			return 1
		}
		return 0
	case VKNumber:
		return v.Num
	case VKString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	case VKObject:
		if v.Obj.Kind == ObjArray {
			switch len(v.Obj.Elems) {
			case 0:
				return 0
			case 1:
				return v.Obj.Elems[0].Number()
			}
		}
	}
	return math.NaN()
}

// String implements ToString.
func (v Value) String() string {
	switch v.Kind {
	case VKNull:
		return "null"
	case VKBool:
		return strconv.FormatBool(v.Bool)
	case VKNumber:
		return format.Number(v.Num)
	case VKString:
		return v.Str
	case VKObject:
		switch v.Obj.Kind {
		case ObjArray:
			parts := make([]string, len(v.Obj.Elems))
			for i, el := range v.Obj.Elems {
				if el.Kind != VKUndefined && el.Kind != VKNull {
					parts[i] = el.String()
				}
			}
			return strings.Join(parts, ",")
		case ObjFunction, ObjNative:
			return "function " + v.Obj.Name + "() { [code] }"
		case ObjError:
			name, _ := v.Obj.Get("name")
			msg, _ := v.Obj.Get("message")
			if msg.String() == "" {
				return name.String()
			}
			return name.String() + ": " + msg.String()
		case ObjLabel:
			return "[label " + v.Obj.Name + "]"
		}
		return "[object Object]"
	}
	return "undefined"
}

// TypeOf implements the typeof operator.
func (v Value) TypeOf() string {
	switch v.Kind {
	case VKNull:
		return "object"
	case VKObject:
		if v.Obj.callable() {
			return "function"
		}
		return "object"
	}
	return v.Kind.String()
}

// Inspect renders v the way console.log prints it.
func Inspect(v Value) string {
	var sb strings.Builder
	inspect(&sb, v, 0, false)
	return sb.String()
}

func inspect(sb *strings.Builder, v Value, depth int, nested bool) {
	switch v.Kind {
	case VKString:
		if nested {
			sb.WriteString("'" + strings.ReplaceAll(v.Str, "'", "\\'") + "'")
			return
		}
		sb.WriteString(v.Str)
		return
	case VKObject:
	default:
		sb.WriteString(v.String())
		return
	}

	obj := v.Obj
	switch obj.Kind {
	case ObjFunction, ObjNative:
		if obj.Name == "" {
			sb.WriteString("[Function (anonymous)]")
		} else {
			sb.WriteString("[Function: " + obj.Name + "]")
		}
		return
	case ObjError, ObjLabel:
		sb.WriteString(v.String())
		return
	}
	if depth > 2 {
		if obj.Kind == ObjArray {
			sb.WriteString("[Array]")
		} else {
			sb.WriteString("[Object]")
		}
		return
	}

	open, closing := "{", "}"
	if obj.Kind == ObjArray {
		open, closing = "[", "]"
	}
	if len(obj.Elems) == 0 && len(obj.keys) == 0 {
		sb.WriteString(open + closing)
		return
	}
	sb.WriteString(open + " ")
	first := true
	sep := func() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
	}
	for _, el := range obj.Elems {
		sep()
		inspect(sb, el, depth+1, true)
	}
	for _, k := range obj.keys {
		sep()
		sb.WriteString(k + ": ")
		inspect(sb, obj.props[k], depth+1, true)
	}
	sb.WriteString(" " + closing)
}
