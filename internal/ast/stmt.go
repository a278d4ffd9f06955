package ast

import "hereafter/internal/source"

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtExpr
	StmtVar
	StmtFunc
	StmtClass
	StmtReturn
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtForIn // for-in и for-of (ForInData.Of)
	StmtBreak
	StmtContinue
	StmtThrow
	StmtTry
	StmtSwitch
	StmtLabeled
	StmtEmpty
	StmtImport
	StmtExport
)

var stmtKindNames = [...]string{
	StmtInvalid:  "Invalid",
	StmtBlock:    "Block",
	StmtExpr:     "Expr",
	StmtVar:      "Var",
	StmtFunc:     "Func",
	StmtClass:    "Class",
	StmtReturn:   "Return",
	StmtIf:       "If",
	StmtWhile:    "While",
	StmtDoWhile:  "DoWhile",
	StmtFor:      "For",
	StmtForIn:    "ForIn",
	StmtBreak:    "Break",
	StmtContinue: "Continue",
	StmtThrow:    "Throw",
	StmtTry:      "Try",
	StmtSwitch:   "Switch",
	StmtLabeled:  "Labeled",
	StmtEmpty:    "Empty",
	StmtImport:   "Import",
	StmtExport:   "Export",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Doc     source.Span // комментарии на строках перед оператором
	Flags   NodeFlags
	Payload PayloadID
}

type BlockData struct {
	Stmts []StmtID
}

type ExprStmtData struct {
	Expr ExprID
}

// VarKind is the declaration keyword.
type VarKind uint8

const (
	VarNone VarKind = iota // for (x of xs) без объявления
	VarVar
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarVar:
		return "var"
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	}
	return ""
}

type Declarator struct {
	Span   source.Span
	Target PatID
	Init   ExprID
}

type VarData struct {
	Kind  VarKind
	Decls []Declarator
}

// ValueData is shared by return and throw.
type ValueData struct {
	Value ExprID
}

type IfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// WhileData is shared by while and do-while.
type WhileData struct {
	Cond ExprID
	Body StmtID
}

type ForData struct {
	Init   StmtID // StmtVar или StmtExpr, может отсутствовать
	Cond   ExprID
	Update ExprID
	Body   StmtID
}

type ForInData struct {
	Of     bool
	Kind   VarKind
	Target PatID // при Kind == VarNone это цель присваивания
	Right  ExprID
	Body   StmtID
}

// JumpData is shared by break and continue.
type JumpData struct {
	Label     source.StringID
	LabelSpan source.Span
}

type TryData struct {
	Block     StmtID
	Param     PatID
	Handler   StmtID
	Finalizer StmtID
}

type SwitchCase struct {
	Span source.Span
	Test ExprID // NoExprID для default
	Body []StmtID
}

type SwitchData struct {
	Disc  ExprID
	Cases []SwitchCase
}

type LabeledData struct {
	Label     source.StringID
	LabelSpan source.Span
	Body      StmtID
}

type ImportSpecKind uint8

const (
	ImportNamed ImportSpecKind = iota
	ImportDefault
	ImportNamespace
)

type ImportSpec struct {
	Kind     ImportSpecKind
	Imported source.StringID // для ImportNamed; "default" для ImportDefault
	Local    source.StringID
	Span     source.Span
}

type ImportData struct {
	Module     string
	ModuleSpan source.Span
	Specs      []ImportSpec
}

type ExportSpec struct {
	Local    source.StringID
	Exported source.StringID
	Span     source.Span
}

type ExportData struct {
	Decl    StmtID // export <declaration>
	Default ExprID // export default <expr>
	Specs   []ExportSpec
}
