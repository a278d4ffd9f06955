package ast

import "hereafter/internal/source"

type PatKind uint8

const (
	PatInvalid PatKind = iota
	PatIdent
	PatArray
	PatObject
	PatDefault // target = default
	PatExpr    // member-цель в деструктурирующем присваивании
)

type Pat struct {
	Kind    PatKind
	Span    source.Span
	Flags   NodeFlags
	Payload PayloadID
}

type PatIdentData struct {
	Name source.StringID
}

type PatArrayData struct {
	Elems []PatID // NoPatID на месте дырки
	Rest  PatID
}

type PatProp struct {
	Key       PropKey
	Value     PatID
	Shorthand bool
	Span      source.Span
}

type PatObjectData struct {
	Props []PatProp
	Rest  PatID
}

type PatDefaultData struct {
	Target  PatID
	Default ExprID
}

type PatExprData struct {
	Expr ExprID
}

// Pats manages allocation of binding and assignment patterns.
type Pats struct {
	Arena    *Arena[Pat]
	Idents   *Arena[PatIdentData]
	Arrays   *Arena[PatArrayData]
	Objects  *Arena[PatObjectData]
	Defaults *Arena[PatDefaultData]
	Exprs    *Arena[PatExprData]
}

func NewPats(capHint uint) *Pats {
	if capHint == 0 {
		capHint = 1 << 6
	}
	small := capHint/8 + 1
	return &Pats{
		Arena:    NewArena[Pat](capHint),
		Idents:   NewArena[PatIdentData](capHint),
		Arrays:   NewArena[PatArrayData](small),
		Objects:  NewArena[PatObjectData](small),
		Defaults: NewArena[PatDefaultData](small),
		Exprs:    NewArena[PatExprData](small),
	}
}

func (p *Pats) New(kind PatKind, span source.Span, payload PayloadID) PatID {
	return PatID(p.Arena.Allocate(Pat{Kind: kind, Span: span, Payload: payload}))
}

func (p *Pats) Get(id PatID) *Pat {
	return p.Arena.Get(uint32(id))
}

func (p *Pats) payload(id PatID, kind PatKind) (uint32, bool) {
	pt := p.Get(id)
	if pt == nil || pt.Kind != kind {
		return 0, false
	}
	return uint32(pt.Payload), true
}

func (p *Pats) NewIdent(span source.Span, name source.StringID) PatID {
	payload := p.Idents.Allocate(PatIdentData{Name: name})
	return p.New(PatIdent, span, PayloadID(payload))
}

func (p *Pats) Ident(id PatID) (*PatIdentData, bool) {
	pl, ok := p.payload(id, PatIdent)
	if !ok {
		return nil, false
	}
	return p.Idents.Get(pl), true
}

func (p *Pats) NewArray(span source.Span, elems []PatID, rest PatID) PatID {
	payload := p.Arrays.Allocate(PatArrayData{Elems: elems, Rest: rest})
	return p.New(PatArray, span, PayloadID(payload))
}

func (p *Pats) Array(id PatID) (*PatArrayData, bool) {
	pl, ok := p.payload(id, PatArray)
	if !ok {
		return nil, false
	}
	return p.Arrays.Get(pl), true
}

func (p *Pats) NewObject(span source.Span, props []PatProp, rest PatID) PatID {
	payload := p.Objects.Allocate(PatObjectData{Props: props, Rest: rest})
	return p.New(PatObject, span, PayloadID(payload))
}

func (p *Pats) Object(id PatID) (*PatObjectData, bool) {
	pl, ok := p.payload(id, PatObject)
	if !ok {
		return nil, false
	}
	return p.Objects.Get(pl), true
}

func (p *Pats) NewDefault(span source.Span, target PatID, def ExprID) PatID {
	payload := p.Defaults.Allocate(PatDefaultData{Target: target, Default: def})
	return p.New(PatDefault, span, PayloadID(payload))
}

func (p *Pats) Default(id PatID) (*PatDefaultData, bool) {
	pl, ok := p.payload(id, PatDefault)
	if !ok {
		return nil, false
	}
	return p.Defaults.Get(pl), true
}

func (p *Pats) NewExpr(span source.Span, expr ExprID) PatID {
	payload := p.Exprs.Allocate(PatExprData{Expr: expr})
	return p.New(PatExpr, span, PayloadID(payload))
}

func (p *Pats) Expr(id PatID) (*PatExprData, bool) {
	pl, ok := p.payload(id, PatExpr)
	if !ok {
		return nil, false
	}
	return p.Exprs.Get(pl), true
}

// Names appends every identifier bound by the pattern, in source order.
func (p *Pats) Names(id PatID, dst []PatID) []PatID {
	pt := p.Get(id)
	if pt == nil {
		return dst
	}
	switch pt.Kind {
	case PatIdent:
		dst = append(dst, id)
	case PatArray:
		data := p.Arrays.Get(uint32(pt.Payload))
		for _, el := range data.Elems {
			dst = p.Names(el, dst)
		}
		dst = p.Names(data.Rest, dst)
	case PatObject:
		data := p.Objects.Get(uint32(pt.Payload))
		for _, prop := range data.Props {
			dst = p.Names(prop.Value, dst)
		}
		dst = p.Names(data.Rest, dst)
	case PatDefault:
		dst = p.Names(p.Defaults.Get(uint32(pt.Payload)).Target, dst)
	}
	return dst
}
