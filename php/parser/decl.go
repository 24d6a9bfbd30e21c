package parser

import (
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

// parseAttributedStatement parses `#[...]` followed by a declaration, or by
// a closure used as an expression statement.
func (p *Parser) parseAttributedStatement() ast.Stmt {
	start := p.start()
	attrs := p.parseAttributes()
	next := p.peekN(1).Kind
	switch p.peek().Kind {
	case TokenFunction:
		if isNameToken(next) || next == TokenAmp && isNameToken(p.peekN(2).Kind) {
			return p.parseFunctionDecl(start, attrs)
		}
	case TokenAbstract, TokenFinal, TokenClass:
		return p.parseClassDecl(start, attrs)
	case TokenReadonly:
		if next == TokenClass || next == TokenFinal || next == TokenAbstract {
			return p.parseClassDecl(start, attrs)
		}
	case TokenInterface:
		return p.parseInterfaceDecl(start, attrs)
	case TokenTrait:
		return p.parseTraitDecl(start, attrs)
	case TokenEnum:
		return p.parseEnumDecl(start, attrs)
	case TokenConst:
		p.errorf(ast.NewSpan(start, p.prevEnd), "Cannot apply attributes to a global constant declaration")
		return p.parseConst()
	}
	// `#[A] function () {}` and `#[A] fn () => 1` begin expression
	// statements; the closure owns the attributes.
	static := false
	if p.check(TokenStatic) && (next == TokenFunction || next == TokenFn) {
		p.advance()
		static = true
	}
	var e ast.Expr
	switch p.peek().Kind {
	case TokenFunction:
		e = p.parseClosure(start, static, attrs)
	case TokenFn:
		e = p.parseArrowFunction(start, static, attrs)
	default:
		p.errorExpected("declaration after attributes")
		p.synchronize()
		return &ast.ErrorStmt{Base: ast.At(p.spanFrom(start))}
	}
	e = p.continueExpr(e, bpLowest)
	p.expectSemicolon("expression")
	return &ast.ExprStmt{Base: ast.At(p.spanFrom(start)), Expr: e}
}

func (p *Parser) parseFunctionDecl(start int, attrs []*ast.Attribute) ast.Stmt {
	p.advance()
	_, byRef := p.eat(TokenAmp)
	name, _ := p.parseIdentifier("function name", true)
	params := p.parseParams()
	ret := p.parseReturnType()
	body := p.parseFunctionBody()
	return &ast.FunctionDecl{
		Base:       ast.At(p.spanFrom(start)),
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		ByRef:      byRef,
		Attributes: attrs,
	}
}

// parseClassModifiers parses `abstract`, `final` and `readonly` before
// `class`, reporting repeats and contradictions.
func (p *Parser) parseClassModifiers() ast.ClassModifiers {
	var mods ast.ClassModifiers
	for {
		tok := p.peek()
		var seen *bool
		switch tok.Kind {
		case TokenAbstract:
			seen = &mods.Abstract
		case TokenFinal:
			seen = &mods.Final
		case TokenReadonly:
			seen = &mods.Readonly
		default:
			if mods.Abstract && mods.Final {
				p.errorf(tok.Span, "Cannot use the final modifier on an abstract class")
			}
			return mods
		}
		p.advance()
		if *seen {
			p.errorf(tok.Span, "Multiple %s modifiers are not allowed", strings.ToLower(p.text(tok)))
		}
		*seen = true
	}
}

func (p *Parser) parseClassDecl(start int, attrs []*ast.Attribute) ast.Stmt {
	mods := p.parseClassModifiers()
	p.expect(TokenClass)
	decl := &ast.ClassDecl{
		Name:       p.parseDeclName("class"),
		Modifiers:  mods,
		Attributes: attrs,
	}
	p.parseClassTail(decl)
	decl.Base = ast.At(p.spanFrom(start))
	return decl
}

// parseClassTail parses the extends and implements clauses and the body of
// a named or anonymous class.
func (p *Parser) parseClassTail(decl *ast.ClassDecl) {
	if _, ok := p.eat(TokenExtends); ok {
		decl.Extends = p.parseName()
		p.checkReservedName(decl.Extends, "class")
	}
	if _, ok := p.eat(TokenImplements); ok {
		decl.Implements = p.parseNameList("interface")
	}
	for _, m := range p.parseMembers(memberOfClass) {
		if cm, ok := m.(ast.ClassMember); ok {
			decl.Members = append(decl.Members, cm)
		}
	}
}

// parseNameList parses comma separated names of what (class or interface)
// and rejects reserved ones.
func (p *Parser) parseNameList(what string) []*ast.Name {
	var names []*ast.Name
	for {
		progress := p.mustProgress()
		name := p.parseName()
		p.checkReservedName(name, what)
		names = append(names, name)
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			return names
		}
	}
}

func (p *Parser) parseInterfaceDecl(start int, attrs []*ast.Attribute) ast.Stmt {
	p.advance()
	decl := &ast.InterfaceDecl{Name: p.parseDeclName("interface"), Attributes: attrs}
	if _, ok := p.eat(TokenExtends); ok {
		decl.Extends = p.parseNameList("interface")
	}
	for _, m := range p.parseMembers(memberOfInterface) {
		if cm, ok := m.(ast.ClassMember); ok {
			decl.Members = append(decl.Members, cm)
		}
	}
	decl.Base = ast.At(p.spanFrom(start))
	return decl
}

func (p *Parser) parseTraitDecl(start int, attrs []*ast.Attribute) ast.Stmt {
	p.advance()
	decl := &ast.TraitDecl{Name: p.parseDeclName("trait"), Attributes: attrs}
	for _, m := range p.parseMembers(memberOfTrait) {
		if cm, ok := m.(ast.ClassMember); ok {
			decl.Members = append(decl.Members, cm)
		}
	}
	decl.Base = ast.At(p.spanFrom(start))
	return decl
}

func (p *Parser) parseEnumDecl(start int, attrs []*ast.Attribute) ast.Stmt {
	p.advance()
	decl := &ast.EnumDecl{Name: p.parseDeclName("enum"), Attributes: attrs}
	if _, ok := p.eat(TokenColon); ok {
		decl.BackingType = p.parseTypeHint()
	}
	if _, ok := p.eat(TokenImplements); ok {
		decl.Implements = p.parseNameList("interface")
	}
	for _, m := range p.parseMembers(memberOfEnum) {
		if em, ok := m.(ast.EnumMember); ok {
			decl.Members = append(decl.Members, em)
		}
	}
	decl.Base = ast.At(p.spanFrom(start))
	return decl
}

func (p *Parser) parseNamespace() ast.Stmt {
	start := p.start()
	tok := p.advance()
	if p.scope > 0 {
		p.errorf(tok.Span, "Namespace declarations cannot be nested")
	}
	stmt := &ast.Namespace{}
	if !p.check(TokenLBrace) {
		stmt.Name = p.parseName()
	}
	if p.check(TokenLBrace) {
		stmt.Body = p.parseBlock()
	} else {
		if stmt.Name == nil {
			p.errorExpected("namespace name")
		}
		p.expectSemicolon("namespace declaration")
	}
	stmt.Base = ast.At(p.spanFrom(start))
	return stmt
}

// useKind parses an optional `function` or `const` after `use`.
func (p *Parser) useKind() (ast.UseKind, bool) {
	switch p.peek().Kind {
	case TokenFunction:
		p.advance()
		return ast.UseFunction, true
	case TokenConst:
		p.advance()
		return ast.UseConst, true
	}
	return ast.UseNormal, false
}

func (p *Parser) parseUse() ast.Stmt {
	start := p.start()
	p.advance()
	kind, _ := p.useKind()
	stmt := &ast.Use{Kind: kind}
	for {
		progress := p.mustProgress()
		itemStart := p.start()
		name := p.parseName()
		if p.check(TokenBackslash) && p.peekN(1).Kind == TokenLBrace {
			p.advance()
			stmt.Items = append(stmt.Items, p.parseGroupUse(name, kind)...)
		} else {
			item := &ast.UseItem{Name: name, Kind: kind}
			item.Alias = p.parseUseAlias()
			item.Base = ast.At(p.spanFrom(itemStart))
			stmt.Items = append(stmt.Items, item)
		}
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectSemicolon("use declaration")
	stmt.Base = ast.At(p.spanFrom(start))
	return stmt
}

func (p *Parser) parseUseAlias() string {
	if _, ok := p.eat(TokenAs); !ok {
		return ""
	}
	alias, _ := p.parseIdentifier("alias", false)
	return alias
}

// parseGroupUse parses `{A, function b, const C as D}` after `Prefix\`.
func (p *Parser) parseGroupUse(prefix *ast.Name, kind ast.UseKind) []*ast.UseItem {
	open := p.advance()
	var items []*ast.UseItem
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		itemStart := p.start()
		itemKind := kind
		if k, ok := p.useKind(); ok {
			if kind != ast.UseNormal {
				p.errorf(p.spanFrom(itemStart), "Cannot mix use kinds in a typed group use")
			}
			itemKind = k
		}
		part := p.parseName()
		name := &ast.Name{
			Base:  part.Base,
			Parts: append(append([]string(nil), prefix.Parts...), part.Parts...),
			Kind:  prefix.Kind,
		}
		if name.Kind == ast.NameUnqualified {
			name.Kind = ast.NameQualified
		}
		item := &ast.UseItem{Name: name, Kind: itemKind}
		item.Alias = p.parseUseAlias()
		item.Base = ast.At(p.spanFrom(itemStart))
		items = append(items, item)
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	if len(items) == 0 {
		p.errorf(p.peek().Span, "Group use declaration must contain at least one name")
	}
	p.expectClosing(TokenRBrace, open.Span)
	return items
}

func (p *Parser) parseConst() ast.Stmt {
	start := p.start()
	p.advance()
	stmt := &ast.ConstStmt{}
	for {
		progress := p.mustProgress()
		itemStart := p.start()
		name, _ := p.parseIdentifier("constant name", true)
		p.expect(TokenAssign)
		value := p.parseExpr()
		stmt.Items = append(stmt.Items, &ast.ConstItem{Base: ast.At(p.spanFrom(itemStart)), Name: name, Value: value})
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectSemicolon("const declaration")
	stmt.Base = ast.At(p.spanFrom(start))
	return stmt
}

// parseParams parses a parenthesized parameter list, including promoted
// constructor parameters with their modifiers and hooks.
func (p *Parser) parseParams() []*ast.Param {
	open, ok := p.expect(TokenLParen)
	if !ok {
		return nil
	}
	var params []*ast.Param
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		params = append(params, p.parseParam())
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectClosing(TokenRParen, open.Span)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	start := p.start()
	param := &ast.Param{Attributes: p.parseAttributes()}

	mods := p.parseMemberModifiers()
	param.Visibility = mods.visibility
	param.SetVisibility = mods.setVisibility
	param.Readonly = mods.readonly
	for _, bad := range []struct {
		set  bool
		name string
	}{{mods.static, "static"}, {mods.abstract, "abstract"}, {mods.final, "final"}} {
		if bad.set {
			p.errorf(mods.span, "Cannot use the %s modifier on a parameter", bad.name)
		}
	}

	if !p.match(TokenAmp, TokenEllipsis, TokenVariable) {
		param.Type = p.parseTypeHint()
	}
	_, param.ByRef = p.eat(TokenAmp)
	_, param.Variadic = p.eat(TokenEllipsis)
	param.Name = errorName
	if tok, ok := p.expect(TokenVariable); ok {
		param.Name = p.text(tok)[1:]
	}
	if _, ok := p.eat(TokenAssign); ok {
		param.Default = p.parseExpr()
	}
	if p.check(TokenLBrace) {
		param.Hooks = p.parsePropertyHooks()
	}
	if param.Promoted() && param.Variadic {
		p.errorf(p.spanFrom(start), "Cannot declare variadic promoted property")
	}
	param.Base = ast.At(p.spanFrom(start))
	return param
}
