package ast

import "hereafter/internal/source"

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[IdentData]
	Lits         *Arena[LitData]
	Templates    *Arena[TemplateData]
	Arrays       *Arena[ArrayData]
	Objects      *Arena[ObjectData]
	Calls        *Arena[CallData]
	News         *Arena[NewData]
	Members      *Arena[MemberData]
	Indexes      *Arena[IndexData]
	Unaries      *Arena[UnaryData]
	Updates      *Arena[UpdateData]
	Binaries     *Arena[BinaryData]
	Assigns      *Arena[AssignData]
	Conditionals *Arena[ConditionalData]
	Sequences    *Arena[SequenceData]
	Wraps        *Arena[WrapData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[IdentData](capHint / 2),
		Lits:         NewArena[LitData](capHint / 4),
		Templates:    NewArena[TemplateData](small),
		Arrays:       NewArena[ArrayData](small),
		Objects:      NewArena[ObjectData](small),
		Calls:        NewArena[CallData](capHint / 4),
		News:         NewArena[NewData](small),
		Members:      NewArena[MemberData](capHint / 4),
		Indexes:      NewArena[IndexData](small),
		Unaries:      NewArena[UnaryData](small),
		Updates:      NewArena[UpdateData](small),
		Binaries:     NewArena[BinaryData](capHint / 4),
		Assigns:      NewArena[AssignData](small),
		Conditionals: NewArena[ConditionalData](small),
		Sequences:    NewArena[SequenceData](small),
		Wraps:        NewArena[WrapData](small),
	}
}

func (e *Exprs) New(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// MarkRewritten flags an original expression whose children changed.
func (e *Exprs) MarkRewritten(id ExprID) {
	if ex := e.Get(id); ex != nil {
		ex.Flags |= FlagRewritten
	}
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != kind {
		return 0, false
	}
	return uint32(ex.Payload), true
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(IdentData{Name: name})
	return e.New(ExprIdent, span, PayloadID(payload))
}

func (e *Exprs) Ident(id ExprID) (*IdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewLit(span source.Span, lit LitData) ExprID {
	payload := e.Lits.Allocate(lit)
	return e.New(ExprLit, span, PayloadID(payload))
}

func (e *Exprs) Lit(id ExprID) (*LitData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Lits.Get(p), true
}

func (e *Exprs) NewTemplate(span source.Span, data TemplateData) ExprID {
	payload := e.Templates.Allocate(data)
	return e.New(ExprTemplate, span, PayloadID(payload))
}

func (e *Exprs) Template(id ExprID) (*TemplateData, bool) {
	p, ok := e.payload(id, ExprTemplate)
	if !ok {
		return nil, false
	}
	return e.Templates.Get(p), true
}

func (e *Exprs) NewThis(span source.Span) ExprID {
	return e.New(ExprThis, span, NoPayloadID)
}

func (e *Exprs) NewSuper(span source.Span) ExprID {
	return e.New(ExprSuper, span, NoPayloadID)
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	payload := e.Arrays.Allocate(ArrayData{Elems: elems})
	return e.New(ExprArray, span, PayloadID(payload))
}

func (e *Exprs) Array(id ExprID) (*ArrayData, bool) {
	p, ok := e.payload(id, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Arrays.Get(p), true
}

func (e *Exprs) NewObject(span source.Span, props []Property) ExprID {
	payload := e.Objects.Allocate(ObjectData{Props: props})
	return e.New(ExprObject, span, PayloadID(payload))
}

func (e *Exprs) Object(id ExprID) (*ObjectData, bool) {
	p, ok := e.payload(id, ExprObject)
	if !ok {
		return nil, false
	}
	return e.Objects.Get(p), true
}

// NewFunc wraps a function expression; arrow functions use ExprArrow.
func (e *Exprs) NewFunc(span source.Span, fn FuncID, arrow bool) ExprID {
	kind := ExprFunc
	if arrow {
		kind = ExprArrow
	}
	return e.New(kind, span, PayloadID(fn))
}

// Func returns the function of a function or arrow expression.
func (e *Exprs) Func(id ExprID) (FuncID, bool) {
	ex := e.Get(id)
	if ex == nil || (ex.Kind != ExprFunc && ex.Kind != ExprArrow) {
		return NoFuncID, false
	}
	return FuncID(ex.Payload), true
}

func (e *Exprs) NewClass(span source.Span, cls ClassID) ExprID {
	return e.New(ExprClass, span, PayloadID(cls))
}

func (e *Exprs) Class(id ExprID) (ClassID, bool) {
	p, ok := e.payload(id, ExprClass)
	return ClassID(p), ok
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID, optional bool) ExprID {
	payload := e.Calls.Allocate(CallData{Callee: callee, Args: args, Optional: optional})
	return e.New(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewConstruct(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.News.Allocate(NewData{Callee: callee, Args: args})
	return e.New(ExprNew, span, PayloadID(payload))
}

func (e *Exprs) Construct(id ExprID) (*NewData, bool) {
	p, ok := e.payload(id, ExprNew)
	if !ok {
		return nil, false
	}
	return e.News.Get(p), true
}

func (e *Exprs) NewMember(span source.Span, data MemberData) ExprID {
	payload := e.Members.Allocate(data)
	return e.New(ExprMember, span, PayloadID(payload))
}

func (e *Exprs) Member(id ExprID) (*MemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, object, index ExprID, optional bool) ExprID {
	payload := e.Indexes.Allocate(IndexData{Object: object, Index: index, Optional: optional})
	return e.New(ExprIndex, span, PayloadID(payload))
}

func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indexes.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, x ExprID) ExprID {
	payload := e.Unaries.Allocate(UnaryData{Op: op, X: x})
	return e.New(ExprUnary, span, PayloadID(payload))
}

func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewUpdate(span source.Span, op UpdateOp, prefix bool, x ExprID) ExprID {
	payload := e.Updates.Allocate(UpdateData{Op: op, Prefix: prefix, X: x})
	return e.New(ExprUpdate, span, PayloadID(payload))
}

func (e *Exprs) Update(id ExprID) (*UpdateData, bool) {
	p, ok := e.payload(id, ExprUpdate)
	if !ok {
		return nil, false
	}
	return e.Updates.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, l, r ExprID) ExprID {
	payload := e.Binaries.Allocate(BinaryData{Op: op, L: l, R: r})
	return e.New(ExprBinary, span, PayloadID(payload))
}

func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewAssign(span source.Span, data AssignData) ExprID {
	payload := e.Assigns.Allocate(data)
	return e.New(ExprAssign, span, PayloadID(payload))
}

func (e *Exprs) Assign(id ExprID) (*AssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

func (e *Exprs) NewConditional(span source.Span, cond, then, els ExprID) ExprID {
	payload := e.Conditionals.Allocate(ConditionalData{Cond: cond, Then: then, Else: els})
	return e.New(ExprConditional, span, PayloadID(payload))
}

func (e *Exprs) Conditional(id ExprID) (*ConditionalData, bool) {
	p, ok := e.payload(id, ExprConditional)
	if !ok {
		return nil, false
	}
	return e.Conditionals.Get(p), true
}

func (e *Exprs) NewSequence(span source.Span, exprs []ExprID) ExprID {
	payload := e.Sequences.Allocate(SequenceData{Exprs: exprs})
	return e.New(ExprSequence, span, PayloadID(payload))
}

func (e *Exprs) Sequence(id ExprID) (*SequenceData, bool) {
	p, ok := e.payload(id, ExprSequence)
	if !ok {
		return nil, false
	}
	return e.Sequences.Get(p), true
}

func (e *Exprs) NewParen(span source.Span, x ExprID) ExprID {
	payload := e.Wraps.Allocate(WrapData{X: x})
	return e.New(ExprParen, span, PayloadID(payload))
}

func (e *Exprs) NewSpread(span source.Span, x ExprID) ExprID {
	payload := e.Wraps.Allocate(WrapData{X: x})
	return e.New(ExprSpread, span, PayloadID(payload))
}

// Wrapped returns the operand of a paren or spread expression.
func (e *Exprs) Wrapped(id ExprID) (ExprID, bool) {
	ex := e.Get(id)
	if ex == nil || (ex.Kind != ExprParen && ex.Kind != ExprSpread) {
		return NoExprID, false
	}
	return e.Wraps.Get(uint32(ex.Payload)).X, true
}

// Unparen strips any number of enclosing parentheses.
func (e *Exprs) Unparen(id ExprID) ExprID {
	for {
		ex := e.Get(id)
		if ex == nil || ex.Kind != ExprParen {
			return id
		}
		id = e.Wraps.Get(uint32(ex.Payload)).X
	}
}
