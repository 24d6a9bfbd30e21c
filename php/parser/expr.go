package parser

import "github.com/jorgsowa/php-parser/php/ast"

func (p *Parser) parseExpr() ast.Expr {
	return p.parseExprBP(bpLowest)
}

// parseExprBP parses an expression whose operators all bind at least as
// tightly as minBP.
func (p *Parser) parseExprBP(minBP int) ast.Expr {
	defer p.leave()
	if !p.enter() {
		return p.errorExpr()
	}
	return p.continueExpr(p.parseAtom(), minBP)
}

// continueExpr applies operators to an already parsed left operand.
func (p *Parser) continueExpr(left ast.Expr, minBP int) ast.Expr {
	for {
		next, ok := p.parseOperator(left, minBP)
		if !ok {
			return left
		}
		left = next
	}
}

// errorExpr is a zero-width placeholder at the current token.
func (p *Parser) errorExpr() *ast.ErrorExpr {
	return &ast.ErrorExpr{Base: ast.At(p.here())}
}

// parseOperator extends left by one operator. The cases are tried in a
// fixed order: postfix increments, assignment, ternary, member and static
// access, indexing, calls, null coalescing, then the binary table.
func (p *Parser) parseOperator(left ast.Expr, minBP int) (ast.Expr, bool) {
	tok := p.peek()
	start := left.Span().Start

	switch kind := tok.Kind; {
	case kind == TokenInc || kind == TokenDec:
		if PostfixIncBP < minBP {
			return nil, false
		}
		p.advance()
		op := ast.PostIncrement
		if kind == TokenDec {
			op = ast.PostDecrement
		}
		return &ast.UnaryPostfix{Base: ast.At(p.spanFrom(start)), Operand: left, Op: op}, true

	case kind.IsAssignment():
		// A variable on the left binds the assignment even under a tighter
		// operator, so `!$a = f()` is `!($a = f())`.
		if AssignmentBP < minBP && !isAssignable(left) {
			return nil, false
		}
		p.advance()
		byRef := false
		if kind == TokenAssign && p.check(TokenAmp) {
			p.advance()
			byRef = true
		}
		value := p.parseExprBP(AssignmentBP)
		return &ast.Assign{
			Base:   ast.At(p.spanFrom(start)),
			Target: left,
			Op:     assignTable[kind],
			Value:  value,
			ByRef:  byRef,
		}, true

	case kind == TokenQuestion:
		if TernaryBP < minBP {
			return nil, false
		}
		return p.parseTernary(left), true

	case kind == TokenArrow || kind == TokenNullsafeArrow:
		if PostfixChainBP < minBP {
			return nil, false
		}
		return p.parseMemberAccess(left), true

	case kind == TokenDoubleColon:
		if PostfixChainBP < minBP {
			return nil, false
		}
		return p.parseStaticAccess(left), true

	case kind == TokenLBracket || kind == TokenLBrace && isDereferencable(left):
		if PostfixChainBP < minBP {
			return nil, false
		}
		closing := TokenRBracket
		if kind == TokenLBrace {
			closing = TokenRBrace
		}
		open := p.advance()
		var index ast.Expr
		if !p.check(closing) {
			index = p.parseExpr()
		}
		p.expectClosing(closing, open.Span)
		return &ast.ArrayAccess{Base: ast.At(p.spanFrom(start)), Array: left, Index: index}, true

	case kind == TokenLParen:
		if PostfixChainBP < minBP {
			return nil, false
		}
		args, callable := p.parseArgList(true)
		if callable {
			return &ast.CallableCreate{
				Base:   ast.At(p.spanFrom(start)),
				Kind:   ast.CallableFunction,
				Target: left,
			}, true
		}
		return &ast.Call{Base: ast.At(p.spanFrom(start)), Func: left, Args: args}, true

	case kind == TokenCoalesce:
		lbp, rbp := CoalesceBP()
		if lbp < minBP {
			return nil, false
		}
		p.advance()
		right := p.parseExprBP(rbp)
		return &ast.NullCoalesce{Base: ast.At(p.spanFrom(start)), Left: left, Right: right}, true
	}

	lbp, rbp, ok := InfixBP(tok.Kind)
	if !ok || lbp < minBP {
		return nil, false
	}
	if nonAssociative(lbp) && tok.Kind != TokenInstanceof {
		if prev, ok := left.(*ast.Binary); ok && prev.Op != ast.Instanceof {
			if l, _, _ := InfixBP(binaryTokens[prev.Op]); l == lbp {
				p.errorUnexpected()
			}
		}
	}
	p.advance()
	var right ast.Expr
	if tok.Kind == TokenInstanceof {
		right = p.parseClassReference()
	} else {
		right = p.parseExprBP(rbp)
	}
	return &ast.Binary{
		Base:  ast.At(p.spanFrom(start)),
		Left:  left,
		Op:    infixTable[tok.Kind].op,
		Right: right,
	}, true
}

// binaryTokens maps a binary operator back to its token.
var binaryTokens = func() map[ast.BinaryOp]TokenKind {
	m := make(map[ast.BinaryOp]TokenKind, len(infixTable))
	for kind, op := range infixTable {
		m[op.op] = kind
	}
	return m
}()

func (p *Parser) parseTernary(cond ast.Expr) ast.Expr {
	start := cond.Span().Start
	question := p.advance()
	var then ast.Expr
	if !p.check(TokenColon) {
		then = p.parseExpr()
	}
	p.expect(TokenColon)
	els := p.parseExprBP(TernaryBP + 1)

	// Nesting without parentheses is only unambiguous when every level is
	// the short form.
	if prev, ok := cond.(*ast.Ternary); ok && (prev.Then != nil || then != nil) {
		p.errorf(question.Span, "Unparenthesized `a ? b : c ? d : e` is not supported")
	}
	return &ast.Ternary{Base: ast.At(p.spanFrom(start)), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseMemberAccess(object ast.Expr) ast.Expr {
	start := object.Span().Start
	nullSafe := p.advance().Kind == TokenNullsafeArrow
	member := p.parseMemberName()
	if !p.check(TokenLParen) {
		return &ast.PropertyAccess{
			Base:     ast.At(p.spanFrom(start)),
			Object:   object,
			Property: member,
			NullSafe: nullSafe,
		}
	}
	args, callable := p.parseArgList(true)
	if callable {
		return &ast.CallableCreate{
			Base:     ast.At(p.spanFrom(start)),
			Kind:     ast.CallableMethod,
			Target:   object,
			Method:   member,
			NullSafe: nullSafe,
		}
	}
	return &ast.MethodCall{
		Base:     ast.At(p.spanFrom(start)),
		Object:   object,
		Method:   member,
		Args:     args,
		NullSafe: nullSafe,
	}
}

// parseMemberName parses what follows `->`: a name (keywords included), a
// variable, `$$x`, or a braced expression.
func (p *Parser) parseMemberName() ast.Expr {
	tok := p.peek()
	switch {
	case tok.Kind == TokenVariable:
		p.advance()
		return &ast.Variable{Base: ast.At(tok.Span), Name: p.text(tok)[1:]}
	case tok.Kind == TokenDollar:
		return p.parseDollar()
	case tok.Kind == TokenLBrace:
		p.advance()
		inner := p.parseExpr()
		p.expectClosing(TokenRBrace, tok.Span)
		return inner
	case isNameToken(tok.Kind):
		p.advance()
		return &ast.Identifier{Base: ast.At(tok.Span), Name: p.text(tok)}
	}
	p.errorExpected("member name")
	return p.errorExpr()
}

func (p *Parser) parseStaticAccess(class ast.Expr) ast.Expr {
	start := class.Span().Start
	p.advance()

	var member ast.Expr
	isProperty := false
	switch tok := p.peek(); {
	case tok.Kind == TokenVariable:
		p.advance()
		member = &ast.Variable{Base: ast.At(tok.Span), Name: p.text(tok)[1:]}
		isProperty = true
	case tok.Kind == TokenDollar:
		member = p.parseDollar()
		isProperty = true
	case tok.Kind == TokenLBrace:
		p.advance()
		member = p.parseExpr()
		p.expectClosing(TokenRBrace, tok.Span)
	case isNameToken(tok.Kind):
		p.advance()
		member = &ast.Identifier{Base: ast.At(tok.Span), Name: p.text(tok)}
	default:
		p.errorExpected("identifier")
		member = p.errorExpr()
	}

	if p.check(TokenLParen) {
		args, callable := p.parseArgList(true)
		if callable {
			return &ast.CallableCreate{
				Base:   ast.At(p.spanFrom(start)),
				Kind:   ast.CallableStaticMethod,
				Target: class,
				Method: member,
			}
		}
		return &ast.StaticMethodCall{Base: ast.At(p.spanFrom(start)), Class: class, Method: member, Args: args}
	}
	if isProperty {
		return &ast.StaticPropertyAccess{Base: ast.At(p.spanFrom(start)), Class: class, Property: member}
	}
	return &ast.ClassConstAccess{Base: ast.At(p.spanFrom(start)), Class: class, Name: member}
}

// isAssignable reports whether e can appear on the left of `=`.
func isAssignable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Variable, *ast.VariableVariable, *ast.ArrayAccess,
		*ast.PropertyAccess, *ast.StaticPropertyAccess:
		return true
	case *ast.ArrayLit:
		return e.List
	}
	return false
}

// isDereferencable reports whether e may be followed by the legacy `{}`
// offset syntax.
func isDereferencable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Variable, *ast.VariableVariable, *ast.ArrayAccess,
		*ast.PropertyAccess, *ast.StaticPropertyAccess:
		return true
	}
	return false
}

// parseClassReference parses the right side of `instanceof` and the class
// of `new`: a name, `static`, or a variable with property and index access
// but no calls.
func (p *Parser) parseClassReference() ast.Expr {
	tok := p.peek()
	start := tok.Span.Start
	var class ast.Expr
	switch tok.Kind {
	case TokenStatic, TokenSelf, TokenParent:
		p.advance()
		return &ast.Identifier{Base: ast.At(tok.Span), Name: p.text(tok)}
	case TokenIdent, TokenBackslash, TokenNamespace:
		name := p.parseName()
		return &ast.Identifier{Base: name.Base, Name: name.String()}
	case TokenVariable:
		p.advance()
		class = &ast.Variable{Base: ast.At(tok.Span), Name: p.text(tok)[1:]}
	case TokenDollar:
		class = p.parseDollar()
	case TokenLParen:
		p.advance()
		inner := p.parseExpr()
		p.expectClosing(TokenRParen, tok.Span)
		return &ast.Paren{Base: ast.At(p.spanFrom(start)), Expr: inner}
	default:
		if isNameToken(tok.Kind) {
			name := p.parseName()
			return &ast.Identifier{Base: name.Base, Name: name.String()}
		}
		p.errorExpected("class name")
		return p.errorExpr()
	}

	for {
		switch tok := p.peek(); {
		case tok.Kind == TokenArrow || tok.Kind == TokenNullsafeArrow:
			p.advance()
			member := p.parseMemberName()
			class = &ast.PropertyAccess{
				Base:     ast.At(p.spanFrom(start)),
				Object:   class,
				Property: member,
				NullSafe: tok.Kind == TokenNullsafeArrow,
			}
		case tok.Kind == TokenDoubleColon && p.peekN(1).Kind == TokenVariable:
			p.advance()
			v := p.advance()
			class = &ast.StaticPropertyAccess{
				Base:     ast.At(p.spanFrom(start)),
				Class:    class,
				Property: &ast.Variable{Base: ast.At(v.Span), Name: p.text(v)[1:]},
			}
		case tok.Kind == TokenLBracket:
			p.advance()
			var index ast.Expr
			if !p.check(TokenRBracket) {
				index = p.parseExpr()
			}
			p.expectClosing(TokenRBracket, tok.Span)
			class = &ast.ArrayAccess{Base: ast.At(p.spanFrom(start)), Array: class, Index: index}
		default:
			return class
		}
	}
}
