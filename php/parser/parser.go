package parser

import (
	"fmt"
	"io"

	"github.com/jorgsowa/php-parser/php/ast"
)

// DefaultMaxDepth bounds how deeply expressions and statements may nest
// before the parser gives up on the rest of the input.
const DefaultMaxDepth = 512

type Option func(*Parser)

// WithFile records path on every diagnostic.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithErrorHandler installs fn to be called with each diagnostic as soon as
// it is recorded.
func WithErrorHandler(fn func(*Diagnostic)) Option {
	return func(p *Parser) {
		p.onError = fn
	}
}

// Result is the outcome of parsing one file. Program is never nil.
type Result struct {
	Program *ast.Program
	Errors  Diagnostics
	Source  []byte
	File    string
}

// Err returns the diagnostics joined into one error, or nil.
func (r *Result) Err() error {
	return r.Errors.Err()
}

type Parser struct {
	file     string
	maxDepth int
	onError  func(*Diagnostic)

	src        []byte
	tokens     []Token
	lexDiags   map[int][]*Diagnostic
	haltOffset int
	pos        int
	prevEnd    int

	nesting int
	scope   int
	bailed  bool
	diags   Diagnostics
}

func newParser(src []byte, opts ...Option) *Parser {
	p := &Parser{
		maxDepth: DefaultMaxDepth,
		src:      src,
		lexDiags: make(map[int][]*Diagnostic),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tokenize()
	return p
}

// Parse parses a complete PHP file. It always returns a tree; problems are
// reported in Result.Errors.
func Parse(src []byte, opts ...Option) *Result {
	p := newParser(src, opts...)
	prog := p.parseProgram()
	return &Result{Program: prog, Errors: p.diags, Source: src, File: p.file}
}

// ParseString is Parse for string input.
func ParseString(src string, opts ...Option) *Result {
	return Parse([]byte(src), opts...)
}

// ParseReader reads r to the end and parses it. The error is non-nil only
// when reading fails.
func ParseReader(r io.Reader, opts ...Option) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read php source: %w", err)
	}
	return Parse(src, opts...), nil
}

// expressionPrefix is the synthetic program header used to parse a bare
// expression with the full driver.
const expressionPrefix = "<?php "

// ParseExpression parses a single PHP expression written without an
// opening tag. Spans are relative to src.
func ParseExpression(src string, opts ...Option) (ast.Expr, Diagnostics) {
	return parseFragment(src, 0, opts...)
}

// parseFragment parses text as one expression and shifts every span and
// diagnostic so that offset 0 of text maps to base.
func parseFragment(text string, base int, opts ...Option) (ast.Expr, Diagnostics) {
	wrapped := expressionPrefix + text + ";"
	p := newParser([]byte(wrapped), opts...)
	delta := base - len(expressionPrefix)

	p.eat(TokenOpenTag)
	expr := p.parseExpr()
	if !p.check(TokenSemicolon) || p.peekN(1).Kind != TokenEOF {
		p.errorUnexpected()
	}
	p.pos = len(p.tokens) - 1
	p.drainLexerDiags()

	ast.Reoffset(expr, delta)
	for _, d := range p.diags {
		d.Span = shiftInto(d.Span, delta, base, base+len(text))
		if !d.OpenedAt.IsZero() {
			d.OpenedAt = shiftInto(d.OpenedAt, delta, base, base+len(text))
		}
	}
	return expr, p.diags
}

// shiftInto moves sp by delta and clamps it to [lo, hi] so diagnostics on
// the synthetic wrapper land on the fragment's edges.
func shiftInto(sp ast.Span, delta, lo, hi int) ast.Span {
	clamp := func(n int) int {
		return max(lo, min(hi, n))
	}
	return ast.NewSpan(clamp(sp.Start+delta), clamp(sp.End+delta))
}

func (p *Parser) tokenize() {
	l := NewLexer(p.src)
	seen := 0
	for {
		tok := l.NextToken()
		if ds := l.Diagnostics(); len(ds) > seen {
			p.lexDiags[len(p.tokens)] = append([]*Diagnostic(nil), ds[seen:]...)
			seen = len(ds)
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	p.haltOffset = l.HaltOffset()
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if ds, ok := p.lexDiags[p.pos]; ok {
		delete(p.lexDiags, p.pos)
		for _, d := range ds {
			p.report(d)
		}
	}
	if p.pos < len(p.tokens)-1 {
		p.pos++
		p.prevEnd = tok.Span.End
	}
	return tok
}

// drainLexerDiags reports lexer diagnostics attached to tokens the parser
// never consumed, in token order.
func (p *Parser) drainLexerDiags() {
	for i := range p.tokens {
		if ds, ok := p.lexDiags[i]; ok {
			delete(p.lexDiags, i)
			for _, d := range ds {
				p.report(d)
			}
		}
	}
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// eat consumes the current token if it has the given kind.
func (p *Parser) eat(kind TokenKind) (Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	return Token{}, false
}

func (p *Parser) expect(kind TokenKind) (Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorExpected(kind.String())
	return Token{}, false
}

// expectAfter is expect with a message naming the construct it follows.
func (p *Parser) expectAfter(kind TokenKind, after string) (Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.report(&Diagnostic{
		Kind:     ErrorExpectedAfter,
		Span:     p.peek().Span,
		Expected: kind.String(),
		Found:    p.peek().Kind,
		After:    after,
	})
	return Token{}, false
}

// expectSemicolon ends a statement. A `?>` counts as a semicolon and is left
// for the statement loop to consume.
func (p *Parser) expectSemicolon(after string) {
	if p.check(TokenCloseTag) {
		return
	}
	p.expectAfter(TokenSemicolon, after)
}

var openingDelimiters = map[TokenKind]string{
	TokenRParen:   "'('",
	TokenRBracket: "'['",
	TokenRBrace:   "'{'",
}

// expectClosing consumes the delimiter closing one opened at openedAt.
func (p *Parser) expectClosing(kind TokenKind, openedAt ast.Span) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	delim, ok := openingDelimiters[kind]
	if !ok {
		delim = kind.String()
	}
	p.report(&Diagnostic{
		Kind:      ErrorUnclosed,
		Span:      p.peek().Span,
		Found:     p.peek().Kind,
		Delimiter: delim,
		OpenedAt:  openedAt,
	})
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; when nothing was consumed it skips one token and reports false.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) text(tok Token) string {
	return tok.Span.Text(p.src)
}

// spanFrom covers everything consumed since start.
func (p *Parser) spanFrom(start int) ast.Span {
	return ast.NewSpan(start, p.prevEnd)
}

func (p *Parser) start() int {
	return p.peek().Span.Start
}

// here is a zero-width span at the current token.
func (p *Parser) here() ast.Span {
	s := p.peek().Span.Start
	return ast.NewSpan(s, s)
}

func (p *Parser) report(d *Diagnostic) {
	if p.bailed {
		return
	}
	if d.File == "" {
		d.File = p.file
	}
	p.diags = append(p.diags, d)
	if p.onError != nil {
		p.onError(d)
	}
}

func (p *Parser) errorExpected(what string) {
	tok := p.peek()
	p.report(&Diagnostic{Kind: ErrorExpected, Span: tok.Span, Expected: what, Found: tok.Kind})
}

func (p *Parser) errorUnexpected() {
	tok := p.peek()
	p.report(&Diagnostic{Kind: ErrorUnexpected, Span: tok.Span, Found: tok.Kind})
}

func (p *Parser) errorf(span ast.Span, format string, args ...any) {
	p.report(&Diagnostic{Kind: ErrorForbidden, Span: span, Message: fmt.Sprintf(format, args...)})
}

// enter guards recursion. Every call must be paired with leave. Once the
// limit is hit the rest of the input is skipped and later diagnostics are
// suppressed, so the tree stays shallow and the report stays short.
func (p *Parser) enter() bool {
	p.nesting++
	if p.nesting <= p.maxDepth {
		return true
	}
	if !p.bailed {
		p.errorf(p.peek().Span, "nesting too deep: more than %d levels", p.maxDepth)
		p.bailed = true
		p.pos = len(p.tokens) - 1
	}
	return false
}

func (p *Parser) leave() {
	p.nesting--
}

// isStatementBoundary reports whether kind is a token recovery stops in
// front of: a keyword that can only begin a statement or declaration, a
// closing brace, an attribute or a close tag.
func isStatementBoundary(kind TokenKind) bool {
	switch kind {
	case TokenIf, TokenWhile, TokenDo, TokenFor, TokenForeach, TokenFunction,
		TokenReturn, TokenEcho, TokenBreak, TokenContinue, TokenSwitch,
		TokenTry, TokenThrow, TokenGoto, TokenDeclare, TokenUnset, TokenGlobal,
		TokenClass, TokenAbstract, TokenFinal, TokenInterface, TokenTrait,
		TokenEnum, TokenNamespace, TokenUse, TokenHaltCompiler,
		TokenAttrOpen, TokenRBrace, TokenCloseTag:
		return true
	}
	return false
}

// synchronize skips tokens after an error. It stops in front of a statement
// boundary, or just past a semicolon.
func (p *Parser) synchronize() {
	for {
		switch kind := p.peek().Kind; {
		case kind == TokenEOF:
			return
		case kind == TokenSemicolon:
			p.advance()
			return
		case isStatementBoundary(kind):
			return
		}
		p.advance()
	}
}

func (p *Parser) parseProgram() *ast.Program {
	switch p.peek().Kind {
	case TokenInlineHTML, TokenOpenTag, TokenOpenTagEcho, TokenEOF:
	default:
		p.report(&Diagnostic{Kind: ErrorExpectedOpenTag, Span: p.peek().Span})
	}
	stmts := p.parseStatementList()
	p.drainLexerDiags()
	return &ast.Program{Base: ast.At(ast.NewSpan(0, len(p.src))), Stmts: stmts}
}
