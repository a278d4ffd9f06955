package ast

import "hereafter/internal/source"

// FuncData describes a function declaration, expression, arrow or method.
// Arrow functions with an expression body set ExprBody instead of Body.
type FuncData struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []PatID
	Rest     PatID
	Body     StmtID
	ExprBody ExprID
	IsArrow  bool
	Span     source.Span
}

type ClassMemberKind uint8

const (
	MemberMethod ClassMemberKind = iota
	MemberGetter
	MemberSetter
	MemberField
)

type ClassMember struct {
	Kind   ClassMemberKind
	Static bool
	Key    PropKey
	Func   FuncID // для методов и аксессоров
	Value  ExprID // для полей, может отсутствовать
	Span   source.Span
}

type ClassData struct {
	Name     source.StringID
	NameSpan source.Span
	Super    ExprID
	Members  []ClassMember
	Span     source.Span
}

type Funcs struct {
	Arena *Arena[FuncData]
}

func NewFuncs(capHint uint) *Funcs {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Funcs{Arena: NewArena[FuncData](capHint)}
}

func (f *Funcs) New(data FuncData) FuncID {
	return FuncID(f.Arena.Allocate(data))
}

func (f *Funcs) Get(id FuncID) *FuncData {
	return f.Arena.Get(uint32(id))
}

type Classes struct {
	Arena *Arena[ClassData]
}

func NewClasses(capHint uint) *Classes {
	if capHint == 0 {
		capHint = 1 << 2
	}
	return &Classes{Arena: NewArena[ClassData](capHint)}
}

func (c *Classes) New(data ClassData) ClassID {
	return ClassID(c.Arena.Allocate(data))
}

func (c *Classes) Get(id ClassID) *ClassData {
	return c.Arena.Get(uint32(id))
}
