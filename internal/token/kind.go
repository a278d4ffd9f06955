package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	NumberLit
	StringLit
	TemplateLit // `...${...}...` целиком, подстановки разбирает парсер

	// ключевые слова
	KwVar
	KwLet
	KwConst
	KwFunction
	KwClass
	KwExtends
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwIn
	KwBreak
	KwContinue
	KwThrow
	KwTry
	KwCatch
	KwFinally
	KwSwitch
	KwCase
	KwDefault
	KwNew
	KwDelete
	KwTypeof
	KwVoid
	KwInstanceof
	KwThis
	KwSuper
	KwNull
	KwTrue
	KwFalse
	KwImport
	KwExport

	// пунктуация
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]
	Semicolon        // ;
	Comma            // ,
	Dot              // .
	Ellipsis         // ...
	Question         // ?
	QuestionDot      // ?.
	QuestionQuestion // ??
	Colon            // :
	FatArrow         // =>

	// операторы
	Assign          // =
	Plus            // +
	Minus           // -
	Star            // *
	StarStar        // **
	Slash           // /
	Percent         // %
	PlusPlus        // ++
	MinusMinus      // --
	Shl             // <<
	Shr             // >>
	UShr            // >>>
	Amp             // &
	Pipe            // |
	Caret           // ^
	Tilde           // ~
	Bang            // !
	AndAnd          // &&
	OrOr            // ||
	EqEq            // ==
	BangEq          // !=
	EqEqEq          // ===
	BangEqEq        // !==
	Lt              // <
	Gt              // >
	LtEq            // <=
	GtEq            // >=
	PlusAssign      // +=
	MinusAssign     // -=
	StarAssign      // *=
	StarStarAssign  // **=
	SlashAssign     // /=
	PercentAssign   // %=
	ShlAssign       // <<=
	ShrAssign       // >>=
	UShrAssign      // >>>=
	AmpAssign       // &=
	PipeAssign      // |=
	CaretAssign     // ^=
	AndAndAssign    // &&=
	OrOrAssign      // ||=
	QuestionQAssign // ??=
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	NumberLit:        "NumberLit",
	StringLit:        "StringLit",
	TemplateLit:      "TemplateLit",
	KwVar:            "var",
	KwLet:            "let",
	KwConst:          "const",
	KwFunction:       "function",
	KwClass:          "class",
	KwExtends:        "extends",
	KwReturn:         "return",
	KwIf:             "if",
	KwElse:           "else",
	KwWhile:          "while",
	KwDo:             "do",
	KwFor:            "for",
	KwIn:             "in",
	KwBreak:          "break",
	KwContinue:       "continue",
	KwThrow:          "throw",
	KwTry:            "try",
	KwCatch:          "catch",
	KwFinally:        "finally",
	KwSwitch:         "switch",
	KwCase:           "case",
	KwDefault:        "default",
	KwNew:            "new",
	KwDelete:         "delete",
	KwTypeof:         "typeof",
	KwVoid:           "void",
	KwInstanceof:     "instanceof",
	KwThis:           "this",
	KwSuper:          "super",
	KwNull:           "null",
	KwTrue:           "true",
	KwFalse:          "false",
	KwImport:         "import",
	KwExport:         "export",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	Semicolon:        ";",
	Comma:            ",",
	Dot:              ".",
	Ellipsis:         "...",
	Question:         "?",
	QuestionDot:      "?.",
	QuestionQuestion: "??",
	Colon:            ":",
	FatArrow:         "=>",
	Assign:           "=",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	StarStar:         "**",
	Slash:            "/",
	Percent:          "%",
	PlusPlus:         "++",
	MinusMinus:       "--",
	Shl:              "<<",
	Shr:              ">>",
	UShr:             ">>>",
	Amp:              "&",
	Pipe:             "|",
	Caret:            "^",
	Tilde:            "~",
	Bang:             "!",
	AndAnd:           "&&",
	OrOr:             "||",
	EqEq:             "==",
	BangEq:           "!=",
	EqEqEq:           "===",
	BangEqEq:         "!==",
	Lt:               "<",
	Gt:               ">",
	LtEq:             "<=",
	GtEq:             ">=",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	StarStarAssign:   "**=",
	SlashAssign:      "/=",
	PercentAssign:    "%=",
	ShlAssign:        "<<=",
	ShrAssign:        ">>=",
	UShrAssign:       ">>>=",
	AmpAssign:        "&=",
	PipeAssign:       "|=",
	CaretAssign:      "^=",
	AndAndAssign:     "&&=",
	OrOrAssign:       "||=",
	QuestionQAssign:  "??=",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwVar && k <= KwExport
}

// IsAssignOp reports whether k is "=" or a compound assignment operator.
func (k Kind) IsAssignOp() bool {
	return k == Assign || (k >= PlusAssign && k <= QuestionQAssign)
}
