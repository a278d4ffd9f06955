package parser

import (
	"hereafter/internal/ast"
	"hereafter/internal/token"
)

// binaryOps: токен бинарного оператора -> оператор AST.
// Приоритеты берутся из ast.BinaryOp.Precedence, их же использует печать.
var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:             ast.OpAdd,
	token.Minus:            ast.OpSub,
	token.Star:             ast.OpMul,
	token.Slash:            ast.OpDiv,
	token.Percent:          ast.OpMod,
	token.StarStar:         ast.OpExp,
	token.Shl:              ast.OpShl,
	token.Shr:              ast.OpShr,
	token.UShr:             ast.OpUShr,
	token.Amp:              ast.OpBitAnd,
	token.Pipe:             ast.OpBitOr,
	token.Caret:            ast.OpBitXor,
	token.EqEq:             ast.OpEq,
	token.BangEq:           ast.OpNotEq,
	token.EqEqEq:           ast.OpStrictEq,
	token.BangEqEq:         ast.OpStrictNotEq,
	token.Lt:               ast.OpLt,
	token.Gt:               ast.OpGt,
	token.LtEq:             ast.OpLtEq,
	token.GtEq:             ast.OpGtEq,
	token.KwIn:             ast.OpIn,
	token.KwInstanceof:     ast.OpInstanceof,
	token.AndAnd:           ast.OpLogicalAnd,
	token.OrOr:             ast.OpLogicalOr,
	token.QuestionQuestion: ast.OpNullish,
}

// getBinaryOperator возвращает оператор и его приоритет; -1 если токен не бинарный.
func (p *Parser) getBinaryOperator(kind token.Kind) (ast.BinaryOp, int) {
	if kind == token.KwIn && p.noIn {
		return ast.OpInvalid, -1
	}
	op, ok := binaryOps[kind]
	if !ok {
		return ast.OpInvalid, -1
	}
	return op, op.Precedence()
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Plus:     ast.UnaryPlus,
	token.Minus:    ast.UnaryMinus,
	token.Bang:     ast.UnaryNot,
	token.Tilde:    ast.UnaryBitNot,
	token.KwTypeof: ast.UnaryTypeof,
	token.KwVoid:   ast.UnaryVoid,
	token.KwDelete: ast.UnaryDelete,
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:          ast.AssignPlain,
	token.PlusAssign:      ast.AssignAdd,
	token.MinusAssign:     ast.AssignSub,
	token.StarAssign:      ast.AssignMul,
	token.StarStarAssign:  ast.AssignExp,
	token.SlashAssign:     ast.AssignDiv,
	token.PercentAssign:   ast.AssignMod,
	token.ShlAssign:       ast.AssignShl,
	token.ShrAssign:       ast.AssignShr,
	token.UShrAssign:      ast.AssignUShr,
	token.AmpAssign:       ast.AssignBitAnd,
	token.PipeAssign:      ast.AssignBitOr,
	token.CaretAssign:     ast.AssignBitXor,
	token.AndAndAssign:    ast.AssignAnd,
	token.OrOrAssign:      ast.AssignOr,
	token.QuestionQAssign: ast.AssignNullish,
}
