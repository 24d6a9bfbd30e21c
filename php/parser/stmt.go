package parser

import (
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

// parseStatementList parses statements until EOF or one of terminators.
func (p *Parser) parseStatementList(terminators ...TokenKind) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(TokenEOF) && !p.match(terminators...) {
		progress := p.mustProgress()
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		progress()
	}
	return stmts
}

// parseStatement parses one statement. It returns nil for tag transitions
// that produce no statement, such as `?><?php`.
func (p *Parser) parseStatement() ast.Stmt {
	defer p.leave()
	if !p.enter() {
		return &ast.ErrorStmt{Base: ast.At(p.here())}
	}

	tok := p.peek()
	start := tok.Span.Start
	next := p.peekN(1).Kind

	switch tok.Kind {
	case TokenCloseTag:
		p.advance()
		switch p.peek().Kind {
		case TokenInlineHTML:
			return p.parseInlineHTML()
		case TokenOpenTag:
			p.advance()
		}
		return nil
	case TokenOpenTag:
		p.advance()
		return nil
	case TokenInlineHTML:
		return p.parseInlineHTML()
	case TokenOpenTagEcho:
		p.advance()
		exprs := p.parseRequiredExprList(TokenSemicolon, TokenCloseTag)
		p.expectSemicolon("short echo tag")
		return &ast.Echo{Base: ast.At(p.spanFrom(start)), Exprs: exprs}

	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		p.advance()
		return &ast.Nop{Base: ast.At(tok.Span)}

	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenDo:
		return p.parseDoWhile()
	case TokenFor:
		return p.parseFor()
	case TokenForeach:
		return p.parseForeach()
	case TokenSwitch:
		return p.parseSwitch()
	case TokenBreak, TokenContinue:
		return p.parseBreak()
	case TokenReturn:
		p.advance()
		var value ast.Expr
		if !p.match(TokenSemicolon, TokenCloseTag, TokenEOF) {
			value = p.parseExpr()
		}
		p.expectSemicolon("return statement")
		return &ast.Return{Base: ast.At(p.spanFrom(start)), Value: value}
	case TokenEcho:
		p.advance()
		exprs := p.parseRequiredExprList(TokenSemicolon, TokenCloseTag)
		p.expectSemicolon("echo statement")
		return &ast.Echo{Base: ast.At(p.spanFrom(start)), Exprs: exprs}
	case TokenGlobal:
		p.advance()
		vars := p.parseRequiredExprList(TokenSemicolon, TokenCloseTag)
		p.expectSemicolon("global statement")
		return &ast.Global{Base: ast.At(p.spanFrom(start)), Vars: vars}
	case TokenUnset:
		p.advance()
		open, _ := p.expect(TokenLParen)
		vars := p.parseRequiredExprList(TokenRParen)
		p.expectClosing(TokenRParen, open.Span)
		p.expectSemicolon("unset statement")
		return &ast.Unset{Base: ast.At(p.spanFrom(start)), Vars: vars}
	case TokenStatic:
		if next == TokenVariable {
			return p.parseStaticVars()
		}
	case TokenTry:
		return p.parseTry()
	case TokenThrow:
		p.advance()
		e := p.parseExpr()
		p.expectSemicolon("throw statement")
		return &ast.ThrowStmt{Base: ast.At(p.spanFrom(start)), Expr: e}
	case TokenGoto:
		p.advance()
		label, _ := p.parseIdentifier("label", false)
		p.expectSemicolon("goto statement")
		return &ast.Goto{Base: ast.At(p.spanFrom(start)), Label: label}
	case TokenDeclare:
		return p.parseDeclare()
	case TokenHaltCompiler:
		if next == TokenLParen {
			return p.parseHaltCompiler()
		}

	case TokenFunction:
		if isNameToken(next) || next == TokenAmp && isNameToken(p.peekN(2).Kind) {
			return p.parseFunctionDecl(start, nil)
		}
	case TokenAbstract, TokenFinal, TokenClass:
		return p.parseClassDecl(start, nil)
	case TokenReadonly:
		if next == TokenClass || next == TokenFinal || next == TokenAbstract {
			return p.parseClassDecl(start, nil)
		}
	case TokenInterface:
		return p.parseInterfaceDecl(start, nil)
	case TokenTrait:
		return p.parseTraitDecl(start, nil)
	case TokenEnum:
		if next == TokenIdent || next.IsKeyword() && next != TokenExtends && next != TokenImplements {
			return p.parseEnumDecl(start, nil)
		}
	case TokenNamespace:
		if next != TokenBackslash {
			return p.parseNamespace()
		}
	case TokenUse:
		return p.parseUse()
	case TokenConst:
		return p.parseConst()
	case TokenAttrOpen:
		return p.parseAttributedStatement()

	case TokenIdent:
		if next == TokenColon {
			p.advance()
			p.advance()
			return &ast.Label{Base: ast.At(p.spanFrom(start)), Name: p.text(tok)}
		}

	case TokenRBrace, TokenRParen, TokenRBracket, TokenElse, TokenElseIf,
		TokenEndIf, TokenEndWhile, TokenEndFor, TokenEndForeach, TokenEndSwitch,
		TokenEndDeclare, TokenCase, TokenDefault, TokenCatch, TokenFinally:
		p.report(&Diagnostic{Kind: ErrorExpectedStatement, Span: tok.Span, Found: tok.Kind})
		p.advance()
		return &ast.ErrorStmt{Base: ast.At(tok.Span)}
	}

	return p.parseExprStmt()
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.start()
	saved := p.pos
	e := p.parseExpr()
	if p.pos == saved {
		p.synchronize()
		return &ast.ErrorStmt{Base: ast.At(p.spanFrom(start))}
	}
	p.expectSemicolon("expression")
	return &ast.ExprStmt{Base: ast.At(p.spanFrom(start)), Expr: e}
}

func (p *Parser) parseInlineHTML() ast.Stmt {
	tok := p.advance()
	stmt := &ast.InlineHTML{Base: ast.At(tok.Span), Value: p.text(tok)}
	p.eat(TokenOpenTag)
	return stmt
}

// parseExprList parses comma separated expressions up to one of end, which
// is not consumed.
func (p *Parser) parseExprList(end ...TokenKind) []ast.Expr {
	var list []ast.Expr
	for !p.check(TokenEOF) && !p.match(end...) {
		progress := p.mustProgress()
		list = append(list, p.parseExpr())
		if _, ok := p.eat(TokenComma); !ok {
			break
		}
		if !progress() {
			break
		}
	}
	return list
}

// parseRequiredExprList is parseExprList for lists that need at least one
// expression.
func (p *Parser) parseRequiredExprList(end ...TokenKind) []ast.Expr {
	list := p.parseExprList(end...)
	if len(list) == 0 {
		tok := p.peek()
		p.report(&Diagnostic{Kind: ErrorExpectedExpression, Span: tok.Span, Found: tok.Kind})
	}
	return list
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.start()
	open, ok := p.expect(TokenLBrace)
	if !ok {
		return &ast.Block{Base: ast.At(p.here())}
	}
	p.scope++
	stmts := p.parseStatementList(TokenRBrace)
	p.scope--
	p.expectClosing(TokenRBrace, open.Span)
	return &ast.Block{Base: ast.At(p.spanFrom(start)), Stmts: stmts}
}

// parseFunctionBody parses the braced body of a function, method or closure.
func (p *Parser) parseFunctionBody() *ast.Block {
	return p.parseBlock()
}

// parseBody parses the single statement or block controlled by an if, loop
// or declare.
func (p *Parser) parseBody() ast.Stmt {
	p.scope++
	defer func() { p.scope-- }()
	for {
		if p.check(TokenEOF) {
			p.report(&Diagnostic{Kind: ErrorExpectedStatement, Span: p.peek().Span, Found: TokenEOF})
			return &ast.ErrorStmt{Base: ast.At(p.here())}
		}
		progress := p.mustProgress()
		if s := p.parseStatement(); s != nil {
			return s
		}
		progress()
	}
}

// parseAltBody parses the statements of an alternative-syntax body, from
// after the `:` up to one of terminators.
func (p *Parser) parseAltBody(terminators ...TokenKind) *ast.Block {
	start := p.start()
	p.scope++
	stmts := p.parseStatementList(terminators...)
	p.scope--
	return &ast.Block{Base: ast.At(p.spanFrom(start)), Stmts: stmts}
}

// expectEnd consumes the `endX;` closing an alternative-syntax statement.
func (p *Parser) expectEnd(kind TokenKind) {
	if _, ok := p.expect(kind); ok {
		p.expectSemicolon(strings.Trim(kind.String(), "'"))
	}
}

// parseCondition parses a parenthesized condition after keyword.
func (p *Parser) parseCondition(keyword string) ast.Expr {
	open, ok := p.expectAfter(TokenLParen, keyword)
	cond := p.parseExpr()
	if ok {
		p.expectClosing(TokenRParen, open.Span)
	} else {
		p.eat(TokenRParen)
	}
	return cond
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.start()
	p.advance()
	cond := p.parseCondition("'if'")
	stmt := &ast.If{Cond: cond}

	if _, ok := p.eat(TokenColon); ok {
		stmt.Then = p.parseAltBody(TokenElseIf, TokenElse, TokenEndIf)
		for p.check(TokenElseIf) {
			branchStart := p.start()
			p.advance()
			c := p.parseCondition("'elseif'")
			p.expect(TokenColon)
			body := p.parseAltBody(TokenElseIf, TokenElse, TokenEndIf)
			stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Base: ast.At(p.spanFrom(branchStart)), Cond: c, Body: body})
		}
		if _, ok := p.eat(TokenElse); ok {
			p.expect(TokenColon)
			stmt.Else = p.parseAltBody(TokenEndIf)
		}
		p.expectEnd(TokenEndIf)
		stmt.Base = ast.At(p.spanFrom(start))
		return stmt
	}

	stmt.Then = p.parseBody()
	for p.check(TokenElseIf) {
		branchStart := p.start()
		p.advance()
		c := p.parseCondition("'elseif'")
		body := p.parseBody()
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Base: ast.At(p.spanFrom(branchStart)), Cond: c, Body: body})
	}
	if _, ok := p.eat(TokenElse); ok {
		stmt.Else = p.parseBody()
	}
	stmt.Base = ast.At(p.spanFrom(start))
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.start()
	p.advance()
	cond := p.parseCondition("'while'")
	var body ast.Stmt
	if _, ok := p.eat(TokenColon); ok {
		body = p.parseAltBody(TokenEndWhile)
		p.expectEnd(TokenEndWhile)
	} else {
		body = p.parseBody()
	}
	return &ast.While{Base: ast.At(p.spanFrom(start)), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.start()
	p.advance()
	body := p.parseBody()
	p.expectAfter(TokenWhile, "do body")
	cond := p.parseCondition("'while'")
	p.expectSemicolon("do-while statement")
	return &ast.DoWhile{Base: ast.At(p.spanFrom(start)), Body: body, Cond: cond}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.start()
	p.advance()
	open, _ := p.expectAfter(TokenLParen, "'for'")
	init := p.parseExprList(TokenSemicolon, TokenRParen)
	p.expect(TokenSemicolon)
	cond := p.parseExprList(TokenSemicolon, TokenRParen)
	p.expect(TokenSemicolon)
	update := p.parseExprList(TokenRParen)
	p.expectClosing(TokenRParen, open.Span)

	var body ast.Stmt
	if _, ok := p.eat(TokenColon); ok {
		body = p.parseAltBody(TokenEndFor)
		p.expectEnd(TokenEndFor)
	} else {
		body = p.parseBody()
	}
	return &ast.For{Base: ast.At(p.spanFrom(start)), Init: init, Cond: cond, Update: update, Body: body}
}

func (p *Parser) parseForeach() ast.Stmt {
	start := p.start()
	p.advance()
	open, _ := p.expectAfter(TokenLParen, "'foreach'")
	stmt := &ast.Foreach{Expr: p.parseExpr()}
	p.expectAfter(TokenAs, "foreach expression")

	_, byRef := p.eat(TokenAmp)
	value := p.parseExpr()
	if _, ok := p.eat(TokenDoubleArrow); ok {
		if byRef {
			p.errorf(value.Span(), "Key element cannot be a reference")
		}
		stmt.Key = value
		_, byRef = p.eat(TokenAmp)
		value = p.parseExpr()
	}
	stmt.Value = value
	stmt.ByRef = byRef
	p.expectClosing(TokenRParen, open.Span)

	if _, ok := p.eat(TokenColon); ok {
		stmt.Body = p.parseAltBody(TokenEndForeach)
		p.expectEnd(TokenEndForeach)
	} else {
		stmt.Body = p.parseBody()
	}
	stmt.Base = ast.At(p.spanFrom(start))
	return stmt
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.start()
	p.advance()
	subject := p.parseCondition("'switch'")

	var cases []*ast.Case
	if _, ok := p.eat(TokenColon); ok {
		p.eat(TokenSemicolon)
		// `switch ($a): ?>` may be followed directly by `<?php case`.
		if p.check(TokenCloseTag) && p.peekN(1).Kind == TokenOpenTag {
			p.advance()
			p.advance()
		}
		cases = p.parseCases(TokenEndSwitch)
		p.expectEnd(TokenEndSwitch)
	} else {
		open, ok := p.expect(TokenLBrace)
		p.eat(TokenSemicolon)
		cases = p.parseCases(TokenRBrace)
		if ok {
			p.expectClosing(TokenRBrace, open.Span)
		}
	}
	return &ast.Switch{Base: ast.At(p.spanFrom(start)), Subject: subject, Cases: cases}
}

func (p *Parser) parseCases(end TokenKind) []*ast.Case {
	var cases []*ast.Case
	p.scope++
	defer func() { p.scope-- }()
	for !p.check(end) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		start := p.start()
		var value ast.Expr
		switch {
		case p.check(TokenCase):
			p.advance()
			value = p.parseExpr()
		case p.check(TokenDefault):
			p.advance()
		default:
			p.errorExpected("'case' or 'default'")
			p.synchronize()
			progress()
			continue
		}
		if _, ok := p.eat(TokenColon); !ok {
			if _, ok := p.eat(TokenSemicolon); !ok {
				p.expectAfter(TokenColon, "case label")
			}
		}
		body := p.parseStatementList(TokenCase, TokenDefault, end)
		cases = append(cases, &ast.Case{Base: ast.At(p.spanFrom(start)), Value: value, Body: body})
		progress()
	}
	return cases
}

func (p *Parser) parseBreak() ast.Stmt {
	tok := p.advance()
	var level ast.Expr
	if !p.match(TokenSemicolon, TokenCloseTag, TokenEOF) {
		level = p.parseExpr()
	}
	if tok.Kind == TokenBreak {
		p.expectSemicolon("break statement")
		return &ast.Break{Base: ast.At(p.spanFrom(tok.Span.Start)), Level: level}
	}
	p.expectSemicolon("continue statement")
	return &ast.Continue{Base: ast.At(p.spanFrom(tok.Span.Start)), Level: level}
}

func (p *Parser) parseStaticVars() ast.Stmt {
	start := p.start()
	p.advance()
	var vars []*ast.StaticVar
	for {
		progress := p.mustProgress()
		varStart := p.start()
		name := errorName
		if tok, ok := p.expect(TokenVariable); ok {
			name = p.text(tok)[1:]
		}
		var def ast.Expr
		if _, ok := p.eat(TokenAssign); ok {
			def = p.parseExpr()
		}
		vars = append(vars, &ast.StaticVar{Base: ast.At(p.spanFrom(varStart)), Name: name, Default: def})
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectSemicolon("static declaration")
	return &ast.StaticStmt{Base: ast.At(p.spanFrom(start)), Vars: vars}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.start()
	tryTok := p.advance()
	stmt := &ast.Try{Body: p.parseBlock()}

	for p.check(TokenCatch) {
		catchStart := p.start()
		p.advance()
		open, _ := p.expectAfter(TokenLParen, "'catch'")
		c := &ast.Catch{}
		for {
			c.Types = append(c.Types, p.parseName())
			if _, ok := p.eat(TokenPipe); !ok {
				break
			}
		}
		if tok, ok := p.eat(TokenVariable); ok {
			c.Var = p.text(tok)[1:]
		}
		p.expectClosing(TokenRParen, open.Span)
		c.Body = p.parseBlock()
		c.Base = ast.At(p.spanFrom(catchStart))
		stmt.Catches = append(stmt.Catches, c)
	}
	if _, ok := p.eat(TokenFinally); ok {
		stmt.Finally = p.parseBlock()
	}
	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		p.errorf(tryTok.Span, "Cannot use try without catch or finally")
	}
	stmt.Base = ast.At(p.spanFrom(start))
	return stmt
}

func (p *Parser) parseDeclare() ast.Stmt {
	start := p.start()
	p.advance()
	open, _ := p.expectAfter(TokenLParen, "'declare'")
	var directives []*ast.DeclareDirective
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		dirStart := p.start()
		name, _ := p.parseIdentifier("directive name", false)
		p.expect(TokenAssign)
		value := p.parseExpr()
		directives = append(directives, &ast.DeclareDirective{Base: ast.At(p.spanFrom(dirStart)), Name: name, Value: value})
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectClosing(TokenRParen, open.Span)

	var body ast.Stmt
	switch {
	case p.check(TokenSemicolon), p.check(TokenCloseTag):
		p.eat(TokenSemicolon)
	case p.check(TokenColon):
		p.advance()
		body = p.parseAltBody(TokenEndDeclare)
		p.expectEnd(TokenEndDeclare)
	default:
		body = p.parseBody()
	}
	return &ast.Declare{Base: ast.At(p.spanFrom(start)), Directives: directives, Body: body}
}

// parseHaltCompiler parses `__halt_compiler();`. Everything after it is raw
// data, which the lexer has already declined to tokenize.
func (p *Parser) parseHaltCompiler() ast.Stmt {
	start := p.start()
	tok := p.advance()
	if p.scope > 0 {
		p.errorf(tok.Span, "__HALT_COMPILER() can only be used from the outermost scope")
	}
	p.expect(TokenLParen)
	p.expect(TokenRParen)
	if _, ok := p.eat(TokenSemicolon); !ok {
		if _, ok := p.eat(TokenCloseTag); !ok {
			p.expectAfter(TokenSemicolon, "__halt_compiler()")
		}
	}
	stmt := &ast.HaltCompiler{Base: ast.At(p.spanFrom(start))}
	if p.haltOffset >= 0 && p.check(TokenEOF) {
		stmt.Data = string(p.src[p.haltOffset:])
	}
	return stmt
}
