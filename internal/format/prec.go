package format

import "hereafter/internal/ast"

// Уровни приоритета выражений; бинарные операторы занимают
// precBinary+Precedence().
const (
	precSeq     = 0
	precAssign  = 1
	precCond    = 2
	precBinary  = 2
	precUnary   = 15
	precPostfix = 16
	precLHS     = 17
	precPrimary = 18
)

func exprPrec(b *ast.Builder, id ast.ExprID) int {
	ex := b.Exprs.Get(id)
	if ex == nil {
		return precPrimary
	}
	switch ex.Kind {
	case ast.ExprSequence:
		return precSeq
	case ast.ExprAssign, ast.ExprArrow, ast.ExprSpread:
		return precAssign
	case ast.ExprConditional:
		return precCond
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return precBinary + data.Op.Precedence()
	case ast.ExprUnary:
		return precUnary
	case ast.ExprUpdate:
		data, _ := b.Exprs.Update(id)
		if data.Prefix {
			return precUnary
		}
		return precPostfix
	case ast.ExprCall, ast.ExprNew, ast.ExprMember, ast.ExprIndex:
		return precLHS
	default:
		return precPrimary
	}
}

// leftmost follows the chain of left operands to the expression that
// starts the printed text.
func leftmost(b *ast.Builder, id ast.ExprID) ast.ExprID {
	for {
		ex := b.Exprs.Get(id)
		if ex == nil {
			return id
		}
		var next ast.ExprID
		switch ex.Kind {
		case ast.ExprCall:
			data, _ := b.Exprs.Call(id)
			next = data.Callee
		case ast.ExprMember:
			data, _ := b.Exprs.Member(id)
			next = data.Object
		case ast.ExprIndex:
			data, _ := b.Exprs.Index(id)
			next = data.Object
		case ast.ExprBinary:
			data, _ := b.Exprs.Binary(id)
			next = data.L
		case ast.ExprAssign:
			data, _ := b.Exprs.Assign(id)
			next = data.Target
		case ast.ExprConditional:
			data, _ := b.Exprs.Conditional(id)
			next = data.Cond
		case ast.ExprSequence:
			data, _ := b.Exprs.Sequence(id)
			next = data.Exprs[0]
		case ast.ExprUpdate:
			data, _ := b.Exprs.Update(id)
			if data.Prefix {
				return id
			}
			next = data.X
		default:
			return id
		}
		if !next.IsValid() {
			return id
		}
		id = next
	}
}

// needsStmtParens reports whether an expression statement would be read
// as a declaration or block without parentheses.
func needsStmtParens(b *ast.Builder, id ast.ExprID) bool {
	if data, ok := b.Exprs.Assign(id); ok && data.Pattern.IsValid() {
		return b.Pats.Get(data.Pattern).Kind == ast.PatObject
	}
	switch b.Exprs.Get(leftmost(b, id)).Kind {
	case ast.ExprObject, ast.ExprFunc, ast.ExprClass:
		return true
	}
	return false
}
