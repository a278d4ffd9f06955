package parser

import (
	"context"
	"slices"

	"hereafter/internal/ast"
	"hereafter/internal/diag"
	"hereafter/internal/lexer"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File *ast.File
	Bag  *diag.Bag
}

// контекст текущей функции: return, break, continue и метки проверяются по нему
type funcCtx struct {
	inFunc    bool
	loops     int
	breakable int // циклы и switch
	labels    []labelInfo
}

type labelInfo struct {
	name   source.StringID
	isLoop bool
}

// Parser: состояние парсера на один файл
type Parser struct {
	ctx      context.Context
	lx       *lexer.Lexer
	arenas   *ast.Builder
	fs       *source.FileSet
	opts     *Options
	lastSpan source.Span // span последнего съеденного токена
	fn       funcCtx
	noIn     bool // заголовок for: `in` не бинарный оператор
	topLevel bool
}

// ParseFile: входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		ctx:      ctx,
		lx:       lx,
		arenas:   arenas,
		fs:       fs,
		opts:     &opts,
		lastSpan: source.Span{File: lx.File().ID},
	}

	p.parseProgram()
	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File: &arenas.File,
		Bag:  bag,
	}
}

// Parse lexes and parses one file of fs into a fresh builder.
func Parse(ctx context.Context, fs *source.FileSet, id source.FileID, strings *source.Interner, opts Options) (*ast.Builder, Result) {
	file := fs.Get(id)
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	hint := uint(len(file.Content) / 8)
	b := ast.NewBuilder(ast.Hints{Stmts: hint / 4, Exprs: hint}, strings)
	return b, ParseFile(ctx, fs, lx, b, opts)
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// atWord проверяет контекстное слово (of, from, as, get, set, static).
func (p *Parser) atWord(word string) bool {
	tok := p.lx.Peek()
	return tok.Kind == token.Ident && tok.Text == word
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseProgram: основной цикл верхнего уровня: пока не EOF: parseStmt.
func (p *Parser) parseProgram() {
	p.topLevel = true
	start := p.lx.Peek().Span
	var body []ast.StmtID
	for !p.at(token.EOF) {
		if p.ctx != nil && p.ctx.Err() != nil {
			break
		}
		if p.opts.Enough() {
			break
		}
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		body = append(body, stmt)
	}
	p.arenas.File = ast.File{
		Span: source.Span{File: start.File, Start: 0, End: p.lx.Peek().Span.End},
		Body: body,
	}
}

// resyncStmt: восстановление после ошибки: прокручиваем до ';',
// до '}' ИЛИ до токена на новой строке, с которого может начаться оператор.
func (p *Parser) resyncStmt() {
	first := true
	for !p.at(token.EOF) {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.Semicolon:
			p.advance()
			return
		case tok.Kind == token.RBrace:
			if first {
				p.advance() // лишняя '}' на верхнем уровне
			}
			return
		case !first && tok.NewlineBefore() && isStmtStarter(tok.Kind):
			return
		}
		p.advance()
		first = false
	}
}

func isStmtStarter(k token.Kind) bool {
	switch k {
	case token.KwVar, token.KwLet, token.KwConst, token.KwFunction, token.KwClass,
		token.KwReturn, token.KwIf, token.KwWhile, token.KwDo, token.KwFor,
		token.KwBreak, token.KwContinue, token.KwThrow, token.KwTry, token.KwSwitch,
		token.KwImport, token.KwExport, token.Ident, token.LBrace:
		return true
	default:
		return false
	}
}

// parseIdent: утилита: ожидает Ident и интернирует его, возвращает source.StringID.
// На ошибке: репорт SynExpectIdentifier.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.lx.Peek().Text+"\"")
	return source.NoStringID, p.lx.Peek().Span, false
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Strings.Intern(s)
}
