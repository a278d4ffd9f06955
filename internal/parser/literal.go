package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/lexer"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

// parseNumber переводит числовой литерал в float64.
func (p *Parser) parseNumber(tok token.Token) float64 {
	text := tok.Text
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			v, err := strconv.ParseUint(text, 0, 64)
			if err != nil {
				// больше uint64: точность теряется так же, как в рантайме
				return parseRadixFloat(text[2:], radixOf(text[1]))
			}
			return float64(v)
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !math.IsInf(v, 0) {
		p.errAt(diag.LexBadNumber, tok.Span, "malformed number '"+text+"'")
	}
	return v
}

func radixOf(prefix byte) int {
	switch prefix {
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	default:
		return 16
	}
}

func parseRadixFloat(digits string, base int) float64 {
	v := 0.0
	for i := 0; i < len(digits); i++ {
		d, err := strconv.ParseUint(digits[i:i+1], base, 8)
		if err != nil {
			break
		}
		v = v*float64(base) + float64(d)
	}
	return v
}

// formatNumberKey: каноническое имя числового ключа: 1.0 -> "1".
func formatNumberKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decodeString снимает кавычки и раскрывает escape-последовательности.
func (p *Parser) decodeString(tok token.Token) string {
	text := tok.Text
	if len(text) < 2 {
		return ""
	}
	return p.decodeEscapes(text[1:len(text)-1], tok.Span)
}

func (p *Parser) decodeEscapes(raw string, sp source.Span) string {
	if !strings.Contains(raw, "\\") {
		return raw
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := raw[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// продолжение строки
		case 'x':
			if i+2 < len(raw) {
				if v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8); err == nil {
					sb.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			p.errAt(diag.LexBadEscape, sp, "invalid hexadecimal escape sequence")
		case 'u':
			r, n, ok := decodeUnicodeEscape(raw[i+1:])
			if !ok {
				p.errAt(diag.LexBadEscape, sp, "invalid unicode escape sequence")
				continue
			}
			sb.WriteRune(r)
			i += n
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

// decodeUnicodeEscape разбирает XXXX или {X...} после \u.
func decodeUnicodeEscape(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(v), end + 1, true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), 4, true
}

// parseTemplate делит `...${e}...` на куски и разбирает подстановки
// отдельным лексером по диапазону внутри файла.
func (p *Parser) parseTemplate(tok token.Token) (ast.ExprID, bool) {
	text := tok.Text
	data := ast.TemplateData{}
	n := tok.Span.Len() - 1 // позиция закрывающей '`'
	segStart := uint32(1)
	ok := true
	for i := uint32(1); i < n; {
		switch {
		case text[i] == '\\':
			i += 2
		case text[i] == '$' && i+1 < n && text[i+1] == '{':
			raw := text[segStart:i]
			data.Raws = append(data.Raws, raw)
			data.Quasis = append(data.Quasis, p.decodeEscapes(raw, tok.Span))
			exprEnd := skipSubstitution(text, i+2)
			expr, exprOK := p.parseSubstitution(tok.Span.Start+i+2, tok.Span.Start+exprEnd)
			ok = ok && exprOK
			data.Exprs = append(data.Exprs, expr)
			i = exprEnd + 1
			segStart = i
		default:
			i++
		}
	}
	raw := text[segStart:n]
	data.Raws = append(data.Raws, raw)
	data.Quasis = append(data.Quasis, p.decodeEscapes(raw, tok.Span))
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewTemplate(tok.Span, data), true
}

// skipSubstitution возвращает позицию '}', закрывающей подстановку.
func skipSubstitution(text string, i uint32) uint32 {
	depth := 1
	n := uint32(len(text))
	for i < n {
		switch c := text[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'':
			for i++; i < n && text[i] != c && text[i] != '\n'; i++ {
				if text[i] == '\\' {
					i++
				}
			}
		case '`':
			i = skipTemplate(text, i+1)
		}
		i++
	}
	return n
}

// skipTemplate возвращает позицию закрывающей '`' вложенного шаблона.
func skipTemplate(text string, i uint32) uint32 {
	n := uint32(len(text))
	for i < n {
		switch text[i] {
		case '\\':
			i++
		case '`':
			return i
		case '$':
			if i+1 < n && text[i+1] == '{' {
				i = skipSubstitution(text, i+2)
			}
		}
		i++
	}
	return n
}

func (p *Parser) parseSubstitution(start, end uint32) (ast.ExprID, bool) {
	file := p.lx.File()
	sub := Parser{
		ctx:      p.ctx,
		lx:       lexer.NewRange(file, start, end, lexer.Options{Reporter: p.opts.Reporter}),
		arenas:   p.arenas,
		fs:       p.fs,
		opts:     p.opts,
		lastSpan: source.Span{File: file.ID, Start: start, End: start},
		fn:       p.fn,
	}
	if sub.at(token.EOF) {
		p.errAt(diag.SynBadTemplateExpr, source.Span{File: file.ID, Start: start, End: end}, "empty template substitution")
		return ast.NoExprID, false
	}
	expr, ok := sub.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if !sub.at(token.EOF) {
		sub.err(diag.SynBadTemplateExpr, "unexpected token in template substitution")
		return ast.NoExprID, false
	}
	return expr, true
}
