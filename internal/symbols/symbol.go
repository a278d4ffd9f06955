package symbols

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
)

// SymbolKind classifies how a name was introduced.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVar
	SymbolLet
	SymbolConst
	SymbolFunction
	SymbolClass
	SymbolParam
	SymbolCatchParam
	SymbolImport
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolLet:
		return "let"
	case SymbolConst:
		return "const"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolParam:
		return "param"
	case SymbolCatchParam:
		return "catch"
	case SymbolImport:
		return "import"
	default:
		return "invalid"
	}
}

// Lexical reports whether the binding follows let/const scoping rules.
func (k SymbolKind) Lexical() bool {
	return k == SymbolLet || k == SymbolConst || k == SymbolClass
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	// SymbolFlagSelfName marks the inner binding of a named function or class expression.
	SymbolFlagSelfName SymbolFlags = 1 << iota
	SymbolFlagExported
)

// SymbolDecl points at the AST origin of a declaration.
type SymbolDecl struct {
	Stmt  ast.StmtID // объявляющий оператор
	Pat   ast.PatID  // PatIdent привязки, если есть
	Func  ast.FuncID
	Class ast.ClassID
	// TopStmt: оператор верхнего уровня тела функции (или модуля),
	// внутри которого находится объявление.
	TopStmt ast.StmtID
}

// ImportInfo describes where an import binding comes from.
type ImportInfo struct {
	Module   string
	Kind     ast.ImportSpecKind
	Imported source.StringID
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name   source.StringID
	Kind   SymbolKind
	Scope  ScopeID
	Span   source.Span
	Flags  SymbolFlags
	Decl   SymbolDecl
	Import *ImportInfo
}
