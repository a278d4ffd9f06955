package ast

import "hereafter/internal/source"

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprLit
	ExprTemplate
	ExprThis
	ExprSuper
	ExprArray
	ExprObject
	ExprFunc
	ExprArrow
	ExprClass
	ExprCall
	ExprNew
	ExprMember
	ExprIndex
	ExprUnary
	ExprUpdate
	ExprBinary
	ExprAssign
	ExprConditional
	ExprSequence
	ExprParen
	ExprSpread
)

var exprKindNames = [...]string{
	ExprInvalid:     "Invalid",
	ExprIdent:       "Ident",
	ExprLit:         "Lit",
	ExprTemplate:    "Template",
	ExprThis:        "This",
	ExprSuper:       "Super",
	ExprArray:       "Array",
	ExprObject:      "Object",
	ExprFunc:        "Func",
	ExprArrow:       "Arrow",
	ExprClass:       "Class",
	ExprCall:        "Call",
	ExprNew:         "New",
	ExprMember:      "Member",
	ExprIndex:       "Index",
	ExprUnary:       "Unary",
	ExprUpdate:      "Update",
	ExprBinary:      "Binary",
	ExprAssign:      "Assign",
	ExprConditional: "Conditional",
	ExprSequence:    "Sequence",
	ExprParen:       "Paren",
	ExprSpread:      "Spread",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Flags   NodeFlags
	Payload PayloadID
}

type IdentData struct {
	Name source.StringID
}

type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
	LitBool
	LitNull
	LitUndefined // только синтетический, из `undefined` не строится
)

type LitData struct {
	Kind LitKind
	Raw  string // исходное написание
	Str  string
	Num  float64
	Bool bool
}

type TemplateData struct {
	Quasis []string // декодированные куски
	Raws   []string // как в исходнике
	Exprs  []ExprID // len(Exprs) == len(Quasis)-1
}

type ArrayData struct {
	Elems []ExprID // NoExprID на месте дырки
}

type PropKeyKind uint8

const (
	KeyIdent PropKeyKind = iota
	KeyString
	KeyNumber
	KeyComputed
)

type PropKey struct {
	Kind PropKeyKind
	Name string // для Ident/String/Number: текст ключа (строка уже декодирована)
	Raw  string
	Expr ExprID // для Computed
	Span source.Span
}

type PropKind uint8

const (
	PropInit PropKind = iota
	PropShorthand
	PropMethod
	PropGet
	PropSet
	PropSpread
)

type Property struct {
	Kind  PropKind
	Key   PropKey
	Value ExprID // Init, Shorthand (ident), Spread
	Func  FuncID // Method, Get, Set
	Span  source.Span
}

type ObjectData struct {
	Props []Property
}

type CallData struct {
	Callee   ExprID
	Args     []ExprID
	Optional bool // f?.()
}

type NewData struct {
	Callee ExprID
	Args   []ExprID
}

type MemberData struct {
	Object   ExprID
	Prop     source.StringID
	PropSpan source.Span
	Optional bool
}

type IndexData struct {
	Object   ExprID
	Index    ExprID
	Optional bool
}

type UnaryData struct {
	Op UnaryOp
	X  ExprID
}

type UpdateData struct {
	Op     UpdateOp
	Prefix bool
	X      ExprID
}

type BinaryData struct {
	Op BinaryOp
	L  ExprID
	R  ExprID
}

// AssignData has exactly one of Target or Pattern set.
// Pattern is used for destructuring assignment.
type AssignData struct {
	Op      AssignOp
	Target  ExprID
	Pattern PatID
	Value   ExprID
}

type ConditionalData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type SequenceData struct {
	Exprs []ExprID
}

// WrapData is shared by paren and spread.
type WrapData struct {
	X ExprID
}
