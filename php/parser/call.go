package parser

import "github.com/jorgsowa/php-parser/php/ast"

// parseArgList parses a parenthesized argument list at the current `(`.
// When callable is true the first-class callable marker `(...)` is accepted
// and reported through the second result.
func (p *Parser) parseArgList(callable bool) ([]*ast.Arg, bool) {
	open := p.advance()
	if p.check(TokenEllipsis) && p.peekN(1).Kind == TokenRParen {
		ellipsis := p.advance()
		p.advance()
		if !callable {
			p.errorf(ellipsis.Span, "Cannot create Closure for new expression")
		}
		return nil, true
	}

	var args []*ast.Arg
	named := false
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		arg := p.parseArg()
		switch {
		case arg.Name != "":
			named = true
		case named && !arg.Unpack:
			p.errorf(arg.Span(), "Cannot use positional argument after named argument")
		case named && arg.Unpack:
			p.errorf(arg.Span(), "Cannot use argument unpacking after named arguments")
		}
		args = append(args, arg)
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectClosing(TokenRParen, open.Span)
	return args, false
}

func (p *Parser) parseArg() *ast.Arg {
	start := p.start()
	arg := &ast.Arg{}
	switch tok := p.peek(); {
	case tok.Kind == TokenEllipsis:
		p.advance()
		arg.Unpack = true
	case tok.Kind == TokenAmp:
		p.advance()
		p.errorf(tok.Span, "Call-time pass-by-reference has been removed")
		arg.ByRef = true
	case isNameToken(tok.Kind) && p.peekN(1).Kind == TokenColon && p.peekN(2).Kind != TokenColon:
		p.advance()
		p.advance()
		arg.Name = p.text(tok)
	}
	arg.Value = p.parseExpr()
	arg.Base = ast.At(p.spanFrom(start))
	return arg
}

// parseArrayLiteral parses `[...]`, `array(...)` or, when list is set,
// `list(...)`. Empty slots are kept as nil items for destructuring.
func (p *Parser) parseArrayLiteral(list bool) ast.Expr {
	start := p.start()
	closing := TokenRBracket
	if !p.check(TokenLBracket) {
		p.advance()
		closing = TokenRParen
	}
	open := p.advance()

	arr := &ast.ArrayLit{List: list}
	for !p.check(closing) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenComma) {
			p.advance()
			arr.Items = append(arr.Items, nil)
			progress()
			continue
		}
		arr.Items = append(arr.Items, p.parseArrayItem(list))
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectClosing(closing, open.Span)
	arr.Base = ast.At(p.spanFrom(start))
	return arr
}

func (p *Parser) parseArrayItem(list bool) *ast.ArrayItem {
	start := p.start()
	item := &ast.ArrayItem{}
	if tok, ok := p.eat(TokenEllipsis); ok {
		if list {
			p.errorf(tok.Span, "Spread operator is not supported in assignments")
		}
		item.Unpack = true
		item.Value = p.parseExpr()
		item.Base = ast.At(p.spanFrom(start))
		return item
	}
	if _, ok := p.eat(TokenAmp); ok {
		item.ByRef = true
		item.Value = p.parseExpr()
		item.Base = ast.At(p.spanFrom(start))
		return item
	}

	value := p.parseExpr()
	if _, ok := p.eat(TokenDoubleArrow); ok {
		item.Key = value
		_, item.ByRef = p.eat(TokenAmp)
		value = p.parseExpr()
	}
	item.Value = value
	item.Base = ast.At(p.spanFrom(start))
	return item
}
