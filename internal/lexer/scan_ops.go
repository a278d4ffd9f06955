package lexer

import (
	"hereafter/internal/diag"
	"hereafter/internal/token"
)

// multiCharOps is ordered longest first so the scan is greedy.
var multiCharOps = []struct {
	lit  string
	kind token.Kind
}{
	{">>>=", token.UShrAssign},
	{">>>", token.UShr},
	{"===", token.EqEqEq},
	{"!==", token.BangEqEq},
	{"...", token.Ellipsis},
	{"**=", token.StarStarAssign},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"&&=", token.AndAndAssign},
	{"||=", token.OrOrAssign},
	{"??=", token.QuestionQAssign},
	{"=>", token.FatArrow},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"??", token.QuestionQuestion},
	{"**", token.StarStar},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	// "?." только если дальше не цифра: a?.5:1 это тернарник
	if lx.cursor.Peek() == '?' && lx.cursor.PeekAt(1) == '.' && !isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Match("?.")
		return lx.emit(token.QuestionDot, start)
	}
	for _, op := range multiCharOps {
		if lx.cursor.Match(op.lit) {
			return lx.emit(op.kind, start)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := singleCharOps[ch]; ok {
		return lx.emit(k, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteByte(ch))
	return tok
}

var singleCharOps = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'?': token.Question,
	':': token.Colon,
	'=': token.Assign,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'<': token.Lt,
	'>': token.Gt,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'~': token.Tilde,
	'!': token.Bang,
}

func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return "'" + string(rune(b)) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string([]byte{hex[b>>4], hex[b&0xf]})
}
