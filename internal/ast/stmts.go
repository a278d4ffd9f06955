package ast

import (
	"hereafter/internal/source"
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena    *Arena[Stmt]
	Blocks   *Arena[BlockData]
	Exprs    *Arena[ExprStmtData]
	Vars     *Arena[VarData]
	Values   *Arena[ValueData]
	Ifs      *Arena[IfData]
	Whiles   *Arena[WhileData]
	Fors     *Arena[ForData]
	ForIns   *Arena[ForInData]
	Jumps    *Arena[JumpData]
	Tries    *Arena[TryData]
	Switches *Arena[SwitchData]
	Labeled  *Arena[LabeledData]
	Imports  *Arena[ImportData]
	Exports  *Arena[ExportData]
}

// NewStmts creates a new Stmts with per-kind arenas preallocated using capHint as the initial capacity.
func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Blocks:   NewArena[BlockData](capHint / 2),
		Exprs:    NewArena[ExprStmtData](capHint / 2),
		Vars:     NewArena[VarData](capHint / 4),
		Values:   NewArena[ValueData](small),
		Ifs:      NewArena[IfData](small),
		Whiles:   NewArena[WhileData](small),
		Fors:     NewArena[ForData](small),
		ForIns:   NewArena[ForInData](small),
		Jumps:    NewArena[JumpData](small),
		Tries:    NewArena[TryData](small),
		Switches: NewArena[SwitchData](small),
		Labeled:  NewArena[LabeledData](small),
		Imports:  NewArena[ImportData](small),
		Exports:  NewArena[ExportData](small),
	}
}

func (s *Stmts) New(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// MarkRewritten flags an original statement whose children changed.
func (s *Stmts) MarkRewritten(id StmtID) {
	if st := s.Get(id); st != nil {
		st.Flags |= FlagRewritten
	}
}

// Replace turns id into a copy of with, keeping the original span and
// doc so the emitter prints the new content in place.
func (s *Stmts) Replace(id, with StmtID) {
	dst, src := s.Get(id), s.Get(with)
	if dst == nil || src == nil {
		return
	}
	dst.Kind = src.Kind
	dst.Payload = src.Payload
	dst.Flags |= FlagRewritten
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(BlockData{Stmts: stmts})
	return s.New(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) (*BlockData, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(p), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(ExprStmtData{Expr: expr})
	return s.New(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmtData, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(p), true
}

func (s *Stmts) NewVar(span source.Span, kind VarKind, decls []Declarator) StmtID {
	payload := s.Vars.Allocate(VarData{Kind: kind, Decls: decls})
	return s.New(StmtVar, span, PayloadID(payload))
}

func (s *Stmts) Var(id StmtID) (*VarData, bool) {
	p, ok := s.payload(id, StmtVar)
	if !ok {
		return nil, false
	}
	return s.Vars.Get(p), true
}

// NewFunc wraps a function declaration; the payload is the FuncID itself.
func (s *Stmts) NewFunc(span source.Span, fn FuncID) StmtID {
	return s.New(StmtFunc, span, PayloadID(fn))
}

func (s *Stmts) Func(id StmtID) (FuncID, bool) {
	p, ok := s.payload(id, StmtFunc)
	return FuncID(p), ok
}

// NewClass wraps a class declaration; the payload is the ClassID itself.
func (s *Stmts) NewClass(span source.Span, cls ClassID) StmtID {
	return s.New(StmtClass, span, PayloadID(cls))
}

func (s *Stmts) Class(id StmtID) (ClassID, bool) {
	p, ok := s.payload(id, StmtClass)
	return ClassID(p), ok
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Values.Allocate(ValueData{Value: value})
	return s.New(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) NewThrow(span source.Span, value ExprID) StmtID {
	payload := s.Values.Allocate(ValueData{Value: value})
	return s.New(StmtThrow, span, PayloadID(payload))
}

// Value returns the payload of a return or throw statement.
func (s *Stmts) Value(id StmtID) (*ValueData, bool) {
	st := s.Get(id)
	if st == nil || (st.Kind != StmtReturn && st.Kind != StmtThrow) {
		return nil, false
	}
	return s.Values.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(IfData{Cond: cond, Then: then, Else: els})
	return s.New(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) (*IfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(WhileData{Cond: cond, Body: body})
	return s.New(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) NewDoWhile(span source.Span, body StmtID, cond ExprID) StmtID {
	payload := s.Whiles.Allocate(WhileData{Cond: cond, Body: body})
	return s.New(StmtDoWhile, span, PayloadID(payload))
}

// Loop returns the payload of a while or do-while statement.
func (s *Stmts) Loop(id StmtID) (*WhileData, bool) {
	st := s.Get(id)
	if st == nil || (st.Kind != StmtWhile && st.Kind != StmtDoWhile) {
		return nil, false
	}
	return s.Whiles.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewFor(span source.Span, data ForData) StmtID {
	payload := s.Fors.Allocate(data)
	return s.New(StmtFor, span, PayloadID(payload))
}

func (s *Stmts) For(id StmtID) (*ForData, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewForIn(span source.Span, data ForInData) StmtID {
	payload := s.ForIns.Allocate(data)
	return s.New(StmtForIn, span, PayloadID(payload))
}

func (s *Stmts) ForIn(id StmtID) (*ForInData, bool) {
	p, ok := s.payload(id, StmtForIn)
	if !ok {
		return nil, false
	}
	return s.ForIns.Get(p), true
}

func (s *Stmts) NewBreak(span source.Span, label source.StringID, labelSpan source.Span) StmtID {
	payload := s.Jumps.Allocate(JumpData{Label: label, LabelSpan: labelSpan})
	return s.New(StmtBreak, span, PayloadID(payload))
}

func (s *Stmts) NewContinue(span source.Span, label source.StringID, labelSpan source.Span) StmtID {
	payload := s.Jumps.Allocate(JumpData{Label: label, LabelSpan: labelSpan})
	return s.New(StmtContinue, span, PayloadID(payload))
}

// Jump returns the payload of a break or continue statement.
func (s *Stmts) Jump(id StmtID) (*JumpData, bool) {
	st := s.Get(id)
	if st == nil || (st.Kind != StmtBreak && st.Kind != StmtContinue) {
		return nil, false
	}
	return s.Jumps.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewTry(span source.Span, data TryData) StmtID {
	payload := s.Tries.Allocate(data)
	return s.New(StmtTry, span, PayloadID(payload))
}

func (s *Stmts) Try(id StmtID) (*TryData, bool) {
	p, ok := s.payload(id, StmtTry)
	if !ok {
		return nil, false
	}
	return s.Tries.Get(p), true
}

func (s *Stmts) NewSwitch(span source.Span, disc ExprID, cases []SwitchCase) StmtID {
	payload := s.Switches.Allocate(SwitchData{Disc: disc, Cases: cases})
	return s.New(StmtSwitch, span, PayloadID(payload))
}

func (s *Stmts) Switch(id StmtID) (*SwitchData, bool) {
	p, ok := s.payload(id, StmtSwitch)
	if !ok {
		return nil, false
	}
	return s.Switches.Get(p), true
}

func (s *Stmts) NewLabeled(span source.Span, label source.StringID, labelSpan source.Span, body StmtID) StmtID {
	payload := s.Labeled.Allocate(LabeledData{Label: label, LabelSpan: labelSpan, Body: body})
	return s.New(StmtLabeled, span, PayloadID(payload))
}

func (s *Stmts) LabeledStmt(id StmtID) (*LabeledData, bool) {
	p, ok := s.payload(id, StmtLabeled)
	if !ok {
		return nil, false
	}
	return s.Labeled.Get(p), true
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return s.New(StmtEmpty, span, NoPayloadID)
}

func (s *Stmts) NewImport(span source.Span, data ImportData) StmtID {
	payload := s.Imports.Allocate(data)
	return s.New(StmtImport, span, PayloadID(payload))
}

func (s *Stmts) Import(id StmtID) (*ImportData, bool) {
	p, ok := s.payload(id, StmtImport)
	if !ok {
		return nil, false
	}
	return s.Imports.Get(p), true
}

func (s *Stmts) NewExport(span source.Span, data ExportData) StmtID {
	payload := s.Exports.Allocate(data)
	return s.New(StmtExport, span, PayloadID(payload))
}

func (s *Stmts) Export(id StmtID) (*ExportData, bool) {
	p, ok := s.payload(id, StmtExport)
	if !ok {
		return nil, false
	}
	return s.Exports.Get(p), true
}
