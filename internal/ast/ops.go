package ast

// BinaryOp covers arithmetic, comparison and logical operators.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpShl
	OpShr
	OpUShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpEq
	OpNotEq
	OpStrictEq
	OpStrictNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpIn
	OpInstanceof
	OpLogicalAnd
	OpLogicalOr
	OpNullish
)

var binaryOpText = [...]string{
	OpInvalid:     "?",
	OpAdd:         "+",
	OpSub:         "-",
	OpMul:         "*",
	OpDiv:         "/",
	OpMod:         "%",
	OpExp:         "**",
	OpShl:         "<<",
	OpShr:         ">>",
	OpUShr:        ">>>",
	OpBitAnd:      "&",
	OpBitOr:       "|",
	OpBitXor:      "^",
	OpEq:          "==",
	OpNotEq:       "!=",
	OpStrictEq:    "===",
	OpStrictNotEq: "!==",
	OpLt:          "<",
	OpGt:          ">",
	OpLtEq:        "<=",
	OpGtEq:        ">=",
	OpIn:          "in",
	OpInstanceof:  "instanceof",
	OpLogicalAnd:  "&&",
	OpLogicalOr:   "||",
	OpNullish:     "??",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// Precedence returns the binding power used by both the parser and the printer.
func (op BinaryOp) Precedence() int {
	switch op {
	case OpNullish:
		return 1
	case OpLogicalOr:
		return 2
	case OpLogicalAnd:
		return 3
	case OpBitOr:
		return 4
	case OpBitXor:
		return 5
	case OpBitAnd:
		return 6
	case OpEq, OpNotEq, OpStrictEq, OpStrictNotEq:
		return 7
	case OpLt, OpGt, OpLtEq, OpGtEq, OpIn, OpInstanceof:
		return 8
	case OpShl, OpShr, OpUShr:
		return 9
	case OpAdd, OpSub:
		return 10
	case OpMul, OpDiv, OpMod:
		return 11
	case OpExp:
		return 12
	}
	return 0
}

// RightAssoc reports whether the operator groups right to left.
func (op BinaryOp) RightAssoc() bool { return op == OpExp }

// UnaryOp is a prefix operator other than ++/--.
type UnaryOp uint8

const (
	UnaryInvalid UnaryOp = iota
	UnaryPlus
	UnaryMinus
	UnaryNot
	UnaryBitNot
	UnaryTypeof
	UnaryVoid
	UnaryDelete
)

var unaryOpText = [...]string{
	UnaryInvalid: "?",
	UnaryPlus:    "+",
	UnaryMinus:   "-",
	UnaryNot:     "!",
	UnaryBitNot:  "~",
	UnaryTypeof:  "typeof",
	UnaryVoid:    "void",
	UnaryDelete:  "delete",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpText) {
		return unaryOpText[op]
	}
	return "?"
}

// IsWord reports whether the operator is spelled as a keyword and needs a space.
func (op UnaryOp) IsWord() bool {
	return op == UnaryTypeof || op == UnaryVoid || op == UnaryDelete
}

// UpdateOp is ++ or --.
type UpdateOp uint8

const (
	UpdateInc UpdateOp = iota
	UpdateDec
)

func (op UpdateOp) String() string {
	if op == UpdateDec {
		return "--"
	}
	return "++"
}

// AssignOp is = or a compound assignment. The compound forms map onto BinaryOp.
type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignExp
	AssignDiv
	AssignMod
	AssignShl
	AssignShr
	AssignUShr
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignAnd
	AssignOr
	AssignNullish
)

var assignBinary = [...]BinaryOp{
	AssignPlain:   OpInvalid,
	AssignAdd:     OpAdd,
	AssignSub:     OpSub,
	AssignMul:     OpMul,
	AssignExp:     OpExp,
	AssignDiv:     OpDiv,
	AssignMod:     OpMod,
	AssignShl:     OpShl,
	AssignShr:     OpShr,
	AssignUShr:    OpUShr,
	AssignBitAnd:  OpBitAnd,
	AssignBitOr:   OpBitOr,
	AssignBitXor:  OpBitXor,
	AssignAnd:     OpLogicalAnd,
	AssignOr:      OpLogicalOr,
	AssignNullish: OpNullish,
}

// Binary returns the operator applied by a compound assignment.
func (op AssignOp) Binary() BinaryOp {
	if int(op) < len(assignBinary) {
		return assignBinary[op]
	}
	return OpInvalid
}

// Logical reports whether the assignment short-circuits (&&=, ||=, ??=).
func (op AssignOp) Logical() bool {
	return op == AssignAnd || op == AssignOr || op == AssignNullish
}

func (op AssignOp) String() string {
	if op == AssignPlain {
		return "="
	}
	return op.Binary().String() + "="
}
