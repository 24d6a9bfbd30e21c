package parser

import (
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

// errorName is the segment used when a name is missing.
const errorName = "<error>"

// isNameToken reports whether kind can be a segment of a qualified name.
func isNameToken(kind TokenKind) bool {
	return kind == TokenIdent || kind.IsKeyword()
}

// parseName parses `Foo`, `Foo\Bar`, `\Foo\Bar` or `namespace\Foo`.
// Keywords are accepted as segments; callers decide whether that is legal.
func (p *Parser) parseName() *ast.Name {
	start := p.start()
	name := &ast.Name{Kind: ast.NameUnqualified}
	switch {
	case p.check(TokenBackslash):
		p.advance()
		name.Kind = ast.NameFullyQualified
	case p.check(TokenNamespace) && p.peekN(1).Kind == TokenBackslash:
		p.advance()
		p.advance()
		name.Kind = ast.NameRelative
	}
	for {
		tok := p.peek()
		if !isNameToken(tok.Kind) {
			p.errorExpected("identifier")
			name.Parts = append(name.Parts, errorName)
			break
		}
		p.advance()
		name.Parts = append(name.Parts, p.text(tok))
		if !p.check(TokenBackslash) || !isNameToken(p.peekN(1).Kind) {
			break
		}
		p.advance()
	}
	if name.Kind == ast.NameUnqualified && len(name.Parts) > 1 {
		name.Kind = ast.NameQualified
	}
	name.Base = ast.At(p.spanFrom(start))
	return name
}

// parseIdentifier consumes an identifier or, when keywords is set, any
// keyword. It returns errorName after reporting when neither is present.
func (p *Parser) parseIdentifier(what string, keywords bool) (string, ast.Span) {
	tok := p.peek()
	if tok.Kind == TokenIdent || keywords && tok.Kind.IsKeyword() {
		p.advance()
		return p.text(tok), tok.Span
	}
	p.errorExpected(what)
	return errorName, p.here()
}

// reservedTypeNames may not name a class, interface, trait or enum.
var reservedTypeNames = map[string]bool{
	"array": true, "bool": true, "callable": true, "false": true,
	"float": true, "int": true, "iterable": true, "mixed": true,
	"never": true, "null": true, "object": true, "parent": true,
	"self": true, "static": true, "string": true, "true": true,
	"void": true,
}

// parseDeclName parses the name of a class-like declaration and rejects
// reserved type names.
func (p *Parser) parseDeclName(what string) string {
	tok := p.peek()
	if tok.Kind != TokenIdent && tok.Kind.IsKeyword() {
		// Keywords are never valid here, but consuming one keeps the rest
		// of the declaration parseable.
		p.advance()
		name := p.text(tok)
		p.errorf(tok.Span, "Cannot use '%s' as %s name as it is reserved", name, what)
		return name
	}
	name, span := p.parseIdentifier(what+" name", false)
	if reservedTypeNames[strings.ToLower(name)] {
		p.errorf(span, "Cannot use '%s' as %s name as it is reserved", name, what)
	}
	return name
}

// checkReservedName rejects reserved type names such as self or int used as
// a parent class or interface. Qualified names are never reserved.
func (p *Parser) checkReservedName(name *ast.Name, what string) {
	if name.Kind != ast.NameUnqualified || len(name.Parts) != 1 {
		return
	}
	if reservedTypeNames[strings.ToLower(name.Parts[0])] {
		p.errorf(name.Span(), "Cannot use '%s' as %s name as it is reserved", name.Parts[0], what)
	}
}

// couldBeTypeHint reports whether the current token can begin a type.
func (p *Parser) couldBeTypeHint() bool {
	switch p.peek().Kind {
	case TokenQuestion, TokenBackslash, TokenSelf, TokenParent, TokenStatic,
		TokenArray, TokenNull, TokenTrue, TokenFalse, TokenLParen, TokenIdent:
		return true
	case TokenNamespace:
		return p.peekN(1).Kind == TokenBackslash
	}
	return false
}

// parseTypeHint parses `T`, `?T`, `A|B`, `A&B` and DNF forms like
// `(A&B)|null`.
func (p *Parser) parseTypeHint() ast.TypeHint {
	start := p.start()
	if _, ok := p.eat(TokenQuestion); ok {
		inner := p.parseSimpleType()
		return &ast.NullableType{Base: ast.At(p.spanFrom(start)), Inner: inner}
	}

	first := p.parseTypeElement()
	switch {
	case p.check(TokenPipe):
		types := []ast.TypeHint{first}
		for p.check(TokenPipe) {
			progress := p.mustProgress()
			p.advance()
			types = append(types, p.parseTypeElement())
			if !progress() {
				break
			}
		}
		return &ast.UnionType{Base: ast.At(p.spanFrom(start)), Types: types}
	case p.ampersandStartsType():
		types := []ast.TypeHint{first}
		for p.ampersandStartsType() {
			p.advance()
			types = append(types, p.parseSimpleType())
		}
		return &ast.IntersectionType{Base: ast.At(p.spanFrom(start)), Types: types}
	}
	return first
}

// ampersandStartsType tells an intersection `A&B` from a by-reference
// parameter `A &$b`.
func (p *Parser) ampersandStartsType() bool {
	if !p.check(TokenAmp) {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenIdent, TokenBackslash, TokenSelf, TokenParent, TokenStatic,
		TokenNamespace, TokenArray:
		return true
	}
	return false
}

func (p *Parser) parseTypeElement() ast.TypeHint {
	if !p.check(TokenLParen) {
		return p.parseSimpleType()
	}
	start := p.start()
	open := p.advance()
	types := []ast.TypeHint{p.parseSimpleType()}
	for p.check(TokenAmp) {
		p.advance()
		types = append(types, p.parseSimpleType())
	}
	p.expectClosing(TokenRParen, open.Span)
	return &ast.IntersectionType{Base: ast.At(p.spanFrom(start)), Types: types}
}

func (p *Parser) parseSimpleType() ast.TypeHint {
	start := p.start()
	switch tok := p.peek(); tok.Kind {
	case TokenArray, TokenSelf, TokenParent, TokenStatic, TokenNull, TokenTrue, TokenFalse:
		p.advance()
		name := &ast.Name{Base: ast.At(tok.Span), Parts: []string{p.text(tok)}}
		return &ast.NamedType{Base: ast.At(tok.Span), Name: name}
	case TokenIdent, TokenBackslash:
		name := p.parseName()
		return &ast.NamedType{Base: ast.At(p.spanFrom(start)), Name: name}
	case TokenNamespace:
		if p.peekN(1).Kind == TokenBackslash {
			name := p.parseName()
			return &ast.NamedType{Base: ast.At(p.spanFrom(start)), Name: name}
		}
	}
	p.errorExpected("type")
	name := &ast.Name{Base: ast.At(p.here()), Parts: []string{errorName}}
	return &ast.NamedType{Base: ast.At(p.here()), Name: name}
}

// parseOptionalType parses a type when one can start here.
func (p *Parser) parseOptionalType() ast.TypeHint {
	if p.couldBeTypeHint() {
		return p.parseTypeHint()
	}
	return nil
}

// parseReturnType parses `: T` when present.
func (p *Parser) parseReturnType() ast.TypeHint {
	if _, ok := p.eat(TokenColon); !ok {
		return nil
	}
	return p.parseTypeHint()
}

// parseAttributes parses any number of `#[...]` groups.
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.check(TokenAttrOpen) {
		open := p.advance()
		for !p.check(TokenRBracket) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			start := p.start()
			name := p.parseName()
			var args []*ast.Arg
			if p.check(TokenLParen) {
				args, _ = p.parseArgList(false)
			}
			attrs = append(attrs, &ast.Attribute{Base: ast.At(p.spanFrom(start)), Name: name, Args: args})
			if _, ok := p.eat(TokenComma); !ok {
				break
			}
			if !progress() {
				break
			}
		}
		p.expectClosing(TokenRBracket, open.Span)
	}
	return attrs
}
