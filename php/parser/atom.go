package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

var castNames = map[string]ast.CastKind{
	"int":     ast.CastInt,
	"integer": ast.CastInt,
	"float":   ast.CastFloat,
	"double":  ast.CastFloat,
	"real":    ast.CastFloat,
	"string":  ast.CastString,
	"binary":  ast.CastString,
	"bool":    ast.CastBool,
	"boolean": ast.CastBool,
	"array":   ast.CastArray,
	"object":  ast.CastObject,
	"unset":   ast.CastUnset,
	"void":    ast.CastVoid,
}

var magicConsts = map[TokenKind]ast.MagicConstKind{
	TokenMagicClass:     ast.MagicClass,
	TokenMagicDir:       ast.MagicDir,
	TokenMagicFile:      ast.MagicFile,
	TokenMagicFunction:  ast.MagicFunction,
	TokenMagicLine:      ast.MagicLine,
	TokenMagicMethod:    ast.MagicMethod,
	TokenMagicNamespace: ast.MagicNamespace,
	TokenMagicTrait:     ast.MagicTrait,
	TokenMagicProperty:  ast.MagicProperty,
}

var includeKinds = map[TokenKind]ast.IncludeKind{
	TokenInclude:     ast.Include,
	TokenIncludeOnce: ast.IncludeOnce,
	TokenRequire:     ast.Require,
	TokenRequireOnce: ast.RequireOnce,
}

// parseAtom parses a primary expression or a prefix operator application.
func (p *Parser) parseAtom() ast.Expr {
	tok := p.peek()
	start := tok.Span.Start

	// Any keyword directly followed by `\` starts a qualified name.
	if tok.Kind.IsKeyword() && p.peekN(1).Kind == TokenBackslash && !p.isExpressionKeyword(tok.Kind) {
		name := p.parseName()
		return &ast.Identifier{Base: name.Base, Name: name.String()}
	}

	switch tok.Kind {
	case TokenVariable:
		p.advance()
		return &ast.Variable{Base: ast.At(tok.Span), Name: p.text(tok)[1:]}
	case TokenDollar:
		return p.parseDollar()

	case TokenIntLiteral, TokenHexLiteral, TokenBinLiteral, TokenOctLiteral:
		p.advance()
		return p.intLiteral(tok)
	case TokenFloatLiteral:
		p.advance()
		return p.floatLiteral(tok)
	case TokenInvalidNumber:
		p.advance()
		return &ast.IntLit{Base: ast.At(tok.Span)}

	case TokenSingleQuoted:
		p.advance()
		return &ast.StringLit{Base: ast.At(tok.Span), Value: decodeSingleQuoted(p.text(tok))}
	case TokenDoubleQuoted:
		p.advance()
		return p.doubleQuoted(tok)
	case TokenBacktick:
		p.advance()
		text := p.text(tok)
		parts := p.interpolate(text[1:len(text)-1], tok.Span.Start+1, '`', 0)
		return &ast.ShellExec{Base: ast.At(tok.Span), Parts: parts}
	case TokenHeredoc, TokenNowdoc:
		p.advance()
		return p.heredoc(tok)

	case TokenTrue, TokenFalse:
		p.advance()
		return &ast.BoolLit{Base: ast.At(tok.Span), Value: tok.Kind == TokenTrue}
	case TokenNull:
		p.advance()
		return &ast.NullLit{Base: ast.At(tok.Span)}

	case TokenLBracket:
		return p.parseArrayLiteral(false)
	case TokenArray:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseArrayLiteral(false)
		}
	case TokenList:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseArrayLiteral(true)
		}

	case TokenLParen:
		if kind, ok := p.castAhead(); ok {
			p.advance()
			p.advance()
			p.advance()
			operand := p.parseExprBP(PrefixBP)
			return &ast.Cast{Base: ast.At(p.spanFrom(start)), Kind: kind, Expr: operand}
		}
		p.advance()
		inner := p.parseExpr()
		p.expectClosing(TokenRParen, tok.Span)
		return &ast.Paren{Base: ast.At(p.spanFrom(start)), Expr: inner}

	case TokenMinus, TokenPlus, TokenBang, TokenTilde, TokenInc, TokenDec:
		op, bp, _ := PrefixOp(tok.Kind)
		p.advance()
		operand := p.parseExprBP(bp)
		return &ast.UnaryPrefix{Base: ast.At(p.spanFrom(start)), Op: op, Operand: operand}
	case TokenAt:
		p.advance()
		operand := p.parseExprBP(PrefixBP)
		return &ast.ErrorSuppress{Base: ast.At(p.spanFrom(start)), Expr: operand}

	case TokenNew:
		return p.parseNew()
	case TokenClone:
		return p.parseClone()
	case TokenPrint:
		p.advance()
		operand := p.parseExprBP(AssignmentBP)
		return &ast.Print{Base: ast.At(p.spanFrom(start)), Expr: operand}
	case TokenYield:
		return p.parseYield()
	case TokenThrow:
		p.advance()
		operand := p.parseExpr()
		return &ast.ThrowExpr{Base: ast.At(p.spanFrom(start)), Expr: operand}
	case TokenInclude, TokenIncludeOnce, TokenRequire, TokenRequireOnce:
		p.advance()
		operand := p.parseExprBP(AssignmentBP)
		return &ast.IncludeExpr{Base: ast.At(p.spanFrom(start)), Kind: includeKinds[tok.Kind], Expr: operand}
	case TokenIsset:
		return p.parseIsset()
	case TokenEmpty, TokenEval:
		p.advance()
		open, _ := p.expect(TokenLParen)
		inner := p.parseExpr()
		p.expectClosing(TokenRParen, open.Span)
		if tok.Kind == TokenEval {
			return &ast.Eval{Base: ast.At(p.spanFrom(start)), Expr: inner}
		}
		return &ast.Empty{Base: ast.At(p.spanFrom(start)), Expr: inner}
	case TokenExit, TokenDie:
		return p.parseExit()

	case TokenFunction:
		return p.parseClosure(start, false, nil)
	case TokenFn:
		return p.parseArrowFunction(start, false, nil)
	case TokenStatic:
		switch p.peekN(1).Kind {
		case TokenFunction:
			p.advance()
			return p.parseClosure(start, true, nil)
		case TokenFn:
			p.advance()
			return p.parseArrowFunction(start, true, nil)
		}
		p.advance()
		return &ast.Identifier{Base: ast.At(tok.Span), Name: p.text(tok)}
	case TokenAttrOpen:
		attrs := p.parseAttributes()
		static := false
		if _, ok := p.eat(TokenStatic); ok {
			static = true
		}
		switch p.peek().Kind {
		case TokenFunction:
			return p.parseClosure(start, static, attrs)
		case TokenFn:
			return p.parseArrowFunction(start, static, attrs)
		}
		p.errorExpected("closure after attributes")
		return p.errorExpr()
	case TokenMatch:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseMatch()
		}

	case TokenMagicClass, TokenMagicDir, TokenMagicFile, TokenMagicFunction, TokenMagicLine,
		TokenMagicMethod, TokenMagicNamespace, TokenMagicTrait, TokenMagicProperty:
		p.advance()
		return &ast.MagicConst{Base: ast.At(tok.Span), Kind: magicConsts[tok.Kind]}

	case TokenIdent, TokenBackslash:
		name := p.parseName()
		return &ast.Identifier{Base: name.Base, Name: name.String()}
	case TokenNamespace:
		if p.peekN(1).Kind == TokenBackslash {
			name := p.parseName()
			return &ast.Identifier{Base: name.Base, Name: name.String()}
		}
	}

	// Remaining keywords that cannot start an expression on their own name
	// functions and constants, as in `enum_exists()` spelled `readonly()`.
	if tok.Kind.IsKeyword() && !p.isExpressionKeyword(tok.Kind) && !isStatementBoundary(tok.Kind) && isContextualName(tok.Kind) {
		p.advance()
		return &ast.Identifier{Base: ast.At(tok.Span), Name: p.text(tok)}
	}

	p.report(&Diagnostic{Kind: ErrorExpectedExpression, Span: tok.Span, Found: tok.Kind})
	return p.errorExpr()
}

// isExpressionKeyword reports whether kind has its own expression syntax.
func (p *Parser) isExpressionKeyword(kind TokenKind) bool {
	switch kind {
	case TokenNew, TokenClone, TokenPrint, TokenYield, TokenThrow, TokenInclude,
		TokenIncludeOnce, TokenRequire, TokenRequireOnce, TokenIsset, TokenEmpty,
		TokenEval, TokenExit, TokenDie, TokenFunction, TokenFn, TokenStatic,
		TokenInstanceof, TokenArray, TokenList, TokenMatch, TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

// isContextualName reports whether a keyword also works as a plain name in
// expression position.
func isContextualName(kind TokenKind) bool {
	switch kind {
	case TokenEnum, TokenFrom, TokenReadonly, TokenSelf, TokenParent, TokenMatch,
		TokenArray, TokenList:
		return true
	}
	return false
}

// castAhead recognizes `(int)` style casts at the current `(`.
func (p *Parser) castAhead() (ast.CastKind, bool) {
	inner := p.peekN(1)
	if (inner.Kind != TokenIdent && inner.Kind != TokenArray) || p.peekN(2).Kind != TokenRParen {
		return 0, false
	}
	kind, ok := castNames[strings.ToLower(p.text(inner))]
	return kind, ok
}

func (p *Parser) intLiteral(tok Token) ast.Expr {
	text := strings.ReplaceAll(p.text(tok), "_", "")
	digits, base := text, 10
	switch tok.Kind {
	case TokenHexLiteral:
		digits, base = text[2:], 16
	case TokenBinLiteral:
		digits, base = text[2:], 2
	case TokenOctLiteral:
		digits, base = text[1:], 8
		if len(digits) > 0 && (digits[0] == 'o' || digits[0] == 'O') {
			digits = digits[1:]
		}
	}
	v, err := strconv.ParseInt(digits, base, 64)
	switch {
	case err == nil:
		return &ast.IntLit{Base: ast.At(tok.Span), Value: v}
	case errors.Is(err, strconv.ErrRange):
		// Integers past int64 become floats.
		n, ok := new(big.Int).SetString(digits, base)
		if ok {
			f, _ := new(big.Float).SetInt(n).Float64()
			return &ast.FloatLit{Base: ast.At(tok.Span), Value: f}
		}
	}
	p.errorf(tok.Span, "Invalid numeric literal")
	return &ast.IntLit{Base: ast.At(tok.Span)}
}

func (p *Parser) floatLiteral(tok Token) ast.Expr {
	text := strings.ReplaceAll(p.text(tok), "_", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.errorf(tok.Span, "Invalid numeric literal")
	}
	return &ast.FloatLit{Base: ast.At(tok.Span), Value: v}
}

// stringPrefix is 1 when a string literal has the `b` prefix.
func stringPrefix(text string) int {
	if len(text) > 0 && (text[0] == 'b' || text[0] == 'B') {
		return 1
	}
	return 0
}

func (p *Parser) doubleQuoted(tok Token) ast.Expr {
	text := p.text(tok)
	pre := stringPrefix(text)
	content := text[pre+1 : len(text)-1]
	if !hasInterpolation(content) {
		return &ast.StringLit{Base: ast.At(tok.Span), Value: decodeEscapes(content, '"')}
	}
	parts := p.interpolate(content, tok.Span.Start+pre+1, '"', 0)
	return &ast.InterpolatedString{Base: ast.At(tok.Span), Parts: parts}
}

func (p *Parser) heredoc(tok Token) ast.Expr {
	h := splitHeredoc(p.text(tok), tok.Span.Start)
	if h.Nowdoc {
		return &ast.Nowdoc{Base: ast.At(tok.Span), Label: h.Label, Value: stripIndent(h.Body, h.Indent, true)}
	}
	parts := p.interpolate(h.Body, h.Offset, 0, h.Indent)
	return &ast.Heredoc{Base: ast.At(tok.Span), Label: h.Label, Parts: parts}
}

// parseDollar parses `$$name`, `${expr}` and deeper nestings of `$`.
func (p *Parser) parseDollar() ast.Expr {
	start := p.start()
	p.advance()
	var inner ast.Expr
	switch tok := p.peek(); tok.Kind {
	case TokenLBrace:
		p.advance()
		inner = p.parseExpr()
		p.expectClosing(TokenRBrace, tok.Span)
	case TokenVariable:
		p.advance()
		inner = &ast.Variable{Base: ast.At(tok.Span), Name: p.text(tok)[1:]}
	case TokenDollar:
		inner = p.parseDollar()
	default:
		p.errorExpected("variable")
		inner = p.errorExpr()
	}
	return &ast.VariableVariable{Base: ast.At(p.spanFrom(start)), Inner: inner}
}

func (p *Parser) parseNew() ast.Expr {
	start := p.start()
	p.advance()

	if p.check(TokenClass) || p.check(TokenAttrOpen) || p.check(TokenReadonly) && p.peekN(1).Kind == TokenClass {
		attrs := p.parseAttributes()
		classStart := p.start()
		var mods ast.ClassModifiers
		if _, ok := p.eat(TokenReadonly); ok {
			mods.Readonly = true
		}
		p.expect(TokenClass)
		var args []*ast.Arg
		if p.check(TokenLParen) {
			args, _ = p.parseArgList(false)
		}
		decl := &ast.ClassDecl{Modifiers: mods, Attributes: attrs}
		p.parseClassTail(decl)
		decl.Base = ast.At(p.spanFrom(classStart))
		anon := &ast.AnonymousClass{Base: decl.Base, Decl: decl}
		return &ast.New{Base: ast.At(p.spanFrom(start)), Class: anon, Args: args}
	}

	class := p.parseClassReference()
	var args []*ast.Arg
	if p.check(TokenLParen) {
		args, _ = p.parseArgList(false)
	}
	return &ast.New{Base: ast.At(p.spanFrom(start)), Class: class, Args: args}
}

// parseClone handles both `clone $x` and the call form `clone($x, [...])`.
func (p *Parser) parseClone() ast.Expr {
	tok := p.advance()
	start := tok.Span.Start
	if p.check(TokenLParen) && p.callFormAhead() {
		args, _ := p.parseArgList(false)
		callee := &ast.Identifier{Base: ast.At(tok.Span), Name: p.text(tok)}
		return &ast.Call{Base: ast.At(p.spanFrom(start)), Func: callee, Args: args}
	}
	operand := p.parseExprBP(PrefixBP)
	return &ast.Clone{Base: ast.At(p.spanFrom(start)), Expr: operand}
}

// callFormAhead scans the parenthesized group at the current token and
// reports whether it is an argument list rather than a parenthesized
// expression: it has a top-level comma, a named argument or an unpack.
func (p *Parser) callFormAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch kind := p.tokens[i].Kind; kind {
		case TokenLParen, TokenLBracket, TokenLBrace, TokenAttrOpen:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			depth--
			if depth == 0 {
				return false
			}
		case TokenComma, TokenEllipsis:
			if depth == 1 {
				return true
			}
		case TokenColon:
			if depth == 1 && i == p.pos+2 && isNameToken(p.tokens[i-1].Kind) {
				return true
			}
		case TokenEOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseYield() ast.Expr {
	start := p.start()
	p.advance()
	if _, ok := p.eat(TokenFrom); ok {
		operand := p.parseExprBP(AssignmentBP)
		return &ast.YieldFrom{Base: ast.At(p.spanFrom(start)), Expr: operand}
	}
	switch p.peek().Kind {
	case TokenSemicolon, TokenRParen, TokenRBracket, TokenComma, TokenCloseTag, TokenEOF:
		return &ast.Yield{Base: ast.At(p.spanFrom(start))}
	}
	value := p.parseExprBP(AssignmentBP)
	var key ast.Expr
	if _, ok := p.eat(TokenDoubleArrow); ok {
		key = value
		value = p.parseExprBP(AssignmentBP)
	}
	return &ast.Yield{Base: ast.At(p.spanFrom(start)), Key: key, Value: value}
}

func (p *Parser) parseIsset() ast.Expr {
	start := p.start()
	p.advance()
	open, _ := p.expect(TokenLParen)
	var vars []ast.Expr
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		vars = append(vars, p.parseExpr())
		if _, ok := p.eat(TokenComma); !ok {
			break
		}
		if !progress() {
			break
		}
	}
	if len(vars) == 0 {
		p.report(&Diagnostic{Kind: ErrorExpectedExpression, Span: p.peek().Span, Found: p.peek().Kind})
	}
	p.expectClosing(TokenRParen, open.Span)
	return &ast.Isset{Base: ast.At(p.spanFrom(start)), Vars: vars}
}

func (p *Parser) parseExit() ast.Expr {
	start := p.start()
	p.advance()
	var operand ast.Expr
	if open, ok := p.eat(TokenLParen); ok {
		if !p.check(TokenRParen) {
			operand = p.parseExpr()
		}
		p.expectClosing(TokenRParen, open.Span)
	}
	return &ast.Exit{Base: ast.At(p.spanFrom(start)), Expr: operand}
}

func (p *Parser) parseClosure(start int, static bool, attrs []*ast.Attribute) ast.Expr {
	p.expect(TokenFunction)
	_, byRef := p.eat(TokenAmp)
	params := p.parseParams()

	var uses []*ast.ClosureUse
	if _, ok := p.eat(TokenUse); ok {
		open, _ := p.expect(TokenLParen)
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			useStart := p.start()
			_, ref := p.eat(TokenAmp)
			name := errorName
			if tok, ok := p.expect(TokenVariable); ok {
				name = p.text(tok)[1:]
			}
			uses = append(uses, &ast.ClosureUse{Base: ast.At(p.spanFrom(useStart)), Name: name, ByRef: ref})
			if _, ok := p.eat(TokenComma); !ok {
				break
			}
			if !progress() {
				break
			}
		}
		p.expectClosing(TokenRParen, open.Span)
	}

	ret := p.parseReturnType()
	body := p.parseFunctionBody()
	return &ast.Closure{
		Base:       ast.At(p.spanFrom(start)),
		Static:     static,
		ByRef:      byRef,
		Params:     params,
		Uses:       uses,
		ReturnType: ret,
		Body:       body,
		Attributes: attrs,
	}
}

func (p *Parser) parseArrowFunction(start int, static bool, attrs []*ast.Attribute) ast.Expr {
	p.expect(TokenFn)
	_, byRef := p.eat(TokenAmp)
	params := p.parseParams()
	ret := p.parseReturnType()
	p.expect(TokenDoubleArrow)
	body := p.parseExpr()
	return &ast.ArrowFunction{
		Base:       ast.At(p.spanFrom(start)),
		Static:     static,
		ByRef:      byRef,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Attributes: attrs,
	}
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.start()
	p.advance()
	open, _ := p.expect(TokenLParen)
	subject := p.parseExpr()
	p.expectClosing(TokenRParen, open.Span)

	brace, _ := p.expect(TokenLBrace)
	var arms []*ast.MatchArm
	seenDefault := false
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		armStart := p.start()
		var conds []ast.Expr
		if def, ok := p.eat(TokenDefault); ok {
			if seenDefault {
				p.errorf(def.Span, "Match expressions may only contain one default arm")
			}
			seenDefault = true
			p.eat(TokenComma)
		} else {
			for !p.check(TokenDoubleArrow) && !p.check(TokenEOF) {
				condProgress := p.mustProgress()
				conds = append(conds, p.parseExpr())
				if _, ok := p.eat(TokenComma); !ok {
					break
				}
				if !condProgress() {
					break
				}
			}
		}
		p.expect(TokenDoubleArrow)
		body := p.parseExpr()
		arms = append(arms, &ast.MatchArm{Base: ast.At(p.spanFrom(armStart)), Conds: conds, Body: body})
		if _, ok := p.eat(TokenComma); !ok {
			break
		}
		if !progress() {
			break
		}
	}
	p.expectClosing(TokenRBrace, brace.Span)
	return &ast.Match{Base: ast.At(p.spanFrom(start)), Subject: subject, Arms: arms}
}
