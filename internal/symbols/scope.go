package symbols

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // верхний уровень файла
	ScopeFunction           // параметры и тело функции
	ScopeBlock              // блок, заголовок for, catch
	ScopeClass              // имя именованного class-выражения
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClass:
		return "class"
	default:
		return "invalid"
	}
}

// ScopeOwner references the AST construct associated with the scope.
type ScopeOwner struct {
	Stmt  ast.StmtID
	Func  ast.FuncID
	Class ast.ClassID
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
