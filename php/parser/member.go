package parser

import (
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

type memberContext int

const (
	memberOfClass memberContext = iota
	memberOfInterface
	memberOfTrait
	memberOfEnum
)

// memberModifiers collects the modifiers in front of a member or promoted
// parameter. span covers all of them.
type memberModifiers struct {
	visibility    ast.Visibility
	setVisibility ast.Visibility
	static        bool
	abstract      bool
	final         bool
	readonly      bool
	isVar         bool
	any           bool
	span          ast.Span
}

var visibilities = map[TokenKind]ast.Visibility{
	TokenPublic:    ast.Public,
	TokenProtected: ast.Protected,
	TokenPrivate:   ast.Private,
}

// parseMemberModifiers consumes modifiers in any order and reports repeats.
// `var` is compared by text since it is not a keyword token.
func (p *Parser) parseMemberModifiers() memberModifiers {
	var m memberModifiers
	start := p.start()
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenPublic, TokenProtected, TokenPrivate:
			p.advance()
			vis := visibilities[tok.Kind]
			if p.check(TokenLParen) && p.peekN(1).Kind == TokenIdent &&
				strings.EqualFold(p.text(p.peekN(1)), "set") && p.peekN(2).Kind == TokenRParen {
				p.advance()
				p.advance()
				p.advance()
				if m.setVisibility != ast.VisibilityNone {
					p.errorf(p.spanFrom(tok.Span.Start), "Multiple access type modifiers are not allowed")
				}
				m.setVisibility = vis
				break
			}
			if m.visibility != ast.VisibilityNone {
				p.errorf(tok.Span, "Multiple access type modifiers are not allowed")
			}
			m.visibility = vis
		case TokenStatic:
			p.flagModifier(&m.static, tok)
		case TokenAbstract:
			p.flagModifier(&m.abstract, tok)
		case TokenFinal:
			p.flagModifier(&m.final, tok)
		case TokenReadonly:
			p.flagModifier(&m.readonly, tok)
		case TokenIdent:
			if !strings.EqualFold(p.text(tok), "var") || p.peekN(1).Kind == TokenLParen {
				return p.finishModifiers(m, start)
			}
			p.advance()
			m.isVar = true
		default:
			return p.finishModifiers(m, start)
		}
		m.any = true
	}
}

func (p *Parser) flagModifier(seen *bool, tok Token) {
	p.advance()
	if *seen {
		p.errorf(tok.Span, "Multiple %s modifiers are not allowed", strings.ToLower(p.text(tok)))
	}
	*seen = true
}

func (p *Parser) finishModifiers(m memberModifiers, start int) memberModifiers {
	m.span = p.spanFrom(start)
	if m.abstract && m.final {
		p.errorf(m.span, "Cannot use the final modifier on an abstract class member")
	}
	return m
}

// parseMembers parses a braced class-like body. The result holds class and
// enum members; callers keep the kinds their declaration allows.
func (p *Parser) parseMembers(ctx memberContext) []ast.Node {
	open, ok := p.expect(TokenLBrace)
	if !ok {
		return nil
	}
	p.scope++
	defer func() { p.scope-- }()

	var members []ast.Node
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		members = append(members, p.parseMember(ctx)...)
		progress()
	}
	p.expectClosing(TokenRBrace, open.Span)
	return members
}

// isMemberStart reports whether kind can begin a class member; recovery
// inside a class body stops in front of one.
func (p *Parser) isMemberStart(kind TokenKind) bool {
	switch kind {
	case TokenFunction, TokenConst, TokenPublic, TokenProtected, TokenPrivate,
		TokenStatic, TokenAbstract, TokenFinal, TokenReadonly, TokenCase,
		TokenUse, TokenAttrOpen, TokenRBrace:
		return true
	case TokenIdent:
		return strings.EqualFold(p.text(p.peek()), "var")
	}
	return false
}

// skipMember discards tokens up to the next member or past a `;`.
func (p *Parser) skipMember() {
	for !p.check(TokenEOF) {
		if _, ok := p.eat(TokenSemicolon); ok {
			return
		}
		if p.isMemberStart(p.peek().Kind) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseMember(ctx memberContext) []ast.Node {
	start := p.start()
	if _, ok := p.eat(TokenSemicolon); ok {
		return nil
	}
	attrs := p.parseAttributes()

	switch p.peek().Kind {
	case TokenUse:
		if len(attrs) > 0 {
			p.errorf(p.spanFrom(start), "Cannot apply attributes to a trait use")
		}
		return []ast.Node{p.parseTraitUse()}
	case TokenCase:
		c := p.parseEnumCase(start, attrs)
		if ctx != memberOfEnum {
			p.errorf(c.Span(), "Case can only be used in enums")
			return nil
		}
		return []ast.Node{c}
	}

	mods := p.parseMemberModifiers()
	switch {
	case p.check(TokenConst):
		return p.parseClassConsts(start, mods, attrs)
	case p.check(TokenFunction):
		return []ast.Node{p.parseMethod(start, mods, attrs, ctx)}
	case p.check(TokenVariable) || mods.any && p.couldBeTypeHint():
		if ctx == memberOfInterface && len(p.peekHooks()) == 0 {
			p.errorf(p.peek().Span, "Interfaces may only include hooked properties")
		}
		if ctx == memberOfEnum {
			p.errorf(p.peek().Span, "Enums may not include properties")
		}
		return p.parseProperties(start, mods, attrs)
	}

	p.errorExpected("class member")
	p.skipMember()
	return nil
}

// peekHooks is non-empty when the property declaration ahead ends in a hook
// block; it does not consume anything.
func (p *Parser) peekHooks() []Token {
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case TokenLBrace:
			return p.tokens[i : i+1]
		case TokenSemicolon, TokenRBrace, TokenEOF:
			return nil
		}
	}
	return nil
}

func (p *Parser) parseClassConsts(start int, mods memberModifiers, attrs []*ast.Attribute) []ast.Node {
	constTok := p.advance()
	for _, bad := range []struct {
		set  bool
		name string
	}{{mods.static, "static"}, {mods.abstract, "abstract"}, {mods.readonly, "readonly"}, {mods.isVar, "var"}} {
		if bad.set {
			p.errorf(mods.span, "Cannot use '%s' as constant modifier", bad.name)
		}
	}

	// A type is present when the token after the first name is not `=`.
	var typ ast.TypeHint
	if !(isNameToken(p.peek().Kind) && p.peekN(1).Kind == TokenAssign) {
		typ = p.parseTypeHint()
	}

	var consts []ast.Node
	for {
		progress := p.mustProgress()
		cstart := p.start()
		if len(consts) == 0 {
			cstart = start
		}
		name, span := p.parseIdentifier("constant name", true)
		if strings.EqualFold(name, "class") {
			p.errorf(span, "A class constant must not be called 'class'; it is reserved for class name fetching")
		}
		p.expect(TokenAssign)
		value := p.parseExpr()
		consts = append(consts, &ast.ClassConst{
			Base:       ast.At(p.spanFrom(cstart)),
			Name:       name,
			Visibility: mods.visibility,
			Final:      mods.final,
			Type:       typ,
			Value:      value,
			Attributes: attrs,
		})
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	if len(attrs) > 0 && len(consts) > 1 {
		p.errorf(constTok.Span, "Cannot apply attributes to multiple constants at once")
	}
	p.expectSemicolon("class constant")
	return consts
}

func (p *Parser) parseMethod(start int, mods memberModifiers, attrs []*ast.Attribute, ctx memberContext) ast.Node {
	p.advance()
	if mods.readonly {
		p.errorf(mods.span, "Cannot use 'readonly' as method modifier")
	}
	if mods.isVar {
		p.errorf(mods.span, "Cannot use 'var' as method modifier")
	}
	_, byRef := p.eat(TokenAmp)
	name, nameSpan := p.parseIdentifier("method name", true)
	m := &ast.Method{
		Name:       name,
		Visibility: mods.visibility,
		Static:     mods.static,
		Abstract:   mods.abstract,
		Final:      mods.final,
		ByRef:      byRef,
		Params:     p.parseParams(),
		ReturnType: p.parseReturnType(),
		Attributes: attrs,
	}
	if _, ok := p.eat(TokenSemicolon); !ok {
		if p.check(TokenLBrace) {
			m.Body = p.parseFunctionBody()
		} else {
			p.expectAfter(TokenSemicolon, "method declaration")
		}
	}

	switch {
	case m.Body != nil && (mods.abstract || ctx == memberOfInterface):
		p.errorf(nameSpan, "Abstract function %s() cannot contain body", name)
	case m.Body == nil && !mods.abstract && ctx != memberOfInterface:
		p.errorf(nameSpan, "Non-abstract method %s() must contain body", name)
	}
	m.Base = ast.At(p.spanFrom(start))
	return m
}

func (p *Parser) parseProperties(start int, mods memberModifiers, attrs []*ast.Attribute) []ast.Node {
	var typ ast.TypeHint
	if !p.check(TokenVariable) {
		typ = p.parseTypeHint()
	}
	if typ == nil && !mods.any {
		p.errorExpected("property modifier")
	}

	var props []ast.Node
	for {
		progress := p.mustProgress()
		propStart := p.start()
		if len(props) == 0 {
			propStart = start
		}
		prop := &ast.Property{
			Name:          errorName,
			Visibility:    mods.visibility,
			SetVisibility: mods.setVisibility,
			Static:        mods.static,
			Readonly:      mods.readonly,
			Final:         mods.final,
			Abstract:      mods.abstract,
			Type:          typ,
			Attributes:    attrs,
		}
		if tok, ok := p.expect(TokenVariable); ok {
			prop.Name = p.text(tok)[1:]
		}
		if _, ok := p.eat(TokenAssign); ok {
			prop.Default = p.parseExpr()
		}
		if p.check(TokenLBrace) {
			prop.Hooks = p.parsePropertyHooks()
			prop.Base = ast.At(p.spanFrom(propStart))
			props = append(props, prop)
			if len(props) > 1 {
				p.errorf(prop.Span(), "Cannot use hooks in a property group")
			}
			return props
		}
		prop.Base = ast.At(p.spanFrom(propStart))
		props = append(props, prop)
		if _, ok := p.eat(TokenComma); !ok || !progress() {
			break
		}
	}
	p.expectSemicolon("property declaration")
	return props
}

// parsePropertyHooks parses `{ get ...; set(...) {...} }`.
func (p *Parser) parsePropertyHooks() []*ast.PropertyHook {
	open := p.advance()
	var hooks []*ast.PropertyHook
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if h := p.parsePropertyHook(); h != nil {
			hooks = append(hooks, h)
		}
		progress()
	}
	if len(hooks) == 0 {
		p.errorf(open.Span, "Property hook list must not be empty")
	}
	p.expectClosing(TokenRBrace, open.Span)
	return hooks
}

func (p *Parser) parsePropertyHook() *ast.PropertyHook {
	start := p.start()
	hook := &ast.PropertyHook{Attributes: p.parseAttributes()}
	for p.check(TokenFinal) {
		if hook.Final {
			p.errorf(p.peek().Span, "Multiple final modifiers are not allowed")
		}
		p.advance()
		hook.Final = true
	}
	_, hook.ByRef = p.eat(TokenAmp)

	tok := p.peek()
	if tok.Kind != TokenIdent {
		p.errorExpected("'get' or 'set'")
		p.skipMember()
		return nil
	}
	p.advance()
	switch name := strings.ToLower(p.text(tok)); name {
	case "get":
		hook.Kind = ast.HookGet
	case "set":
		hook.Kind = ast.HookSet
	default:
		p.errorf(tok.Span, "Unknown hook \"%s\" for property", p.text(tok))
	}
	if p.check(TokenLParen) {
		hook.Params = p.parseParams()
	}

	switch {
	case p.check(TokenSemicolon):
		p.advance()
	case p.check(TokenDoubleArrow):
		p.advance()
		hook.Expr = p.parseExpr()
		p.expectSemicolon("property hook")
	case p.check(TokenLBrace):
		hook.Body = p.parseFunctionBody()
	default:
		p.expectAfter(TokenSemicolon, "property hook")
	}
	hook.Base = ast.At(p.spanFrom(start))
	return hook
}

func (p *Parser) parseEnumCase(start int, attrs []*ast.Attribute) *ast.EnumCase {
	p.advance()
	name, span := p.parseIdentifier("case name", true)
	if strings.EqualFold(name, "class") {
		p.errorf(span, "Cannot use 'class' as enum case name as it is reserved")
	}
	c := &ast.EnumCase{Name: name, Attributes: attrs}
	if _, ok := p.eat(TokenAssign); ok {
		c.Value = p.parseExpr()
	}
	p.expectSemicolon("enum case")
	c.Base = ast.At(p.spanFrom(start))
	return c
}

func (p *Parser) parseTraitUse() *ast.TraitUse {
	start := p.start()
	p.advance()
	use := &ast.TraitUse{Traits: p.parseNameList("trait")}
	if open, ok := p.eat(TokenLBrace); ok {
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			if a := p.parseAdaptation(); a != nil {
				use.Adaptations = append(use.Adaptations, a)
			}
			progress()
		}
		p.expectClosing(TokenRBrace, open.Span)
	} else {
		p.expectSemicolon("trait use")
	}
	use.Base = ast.At(p.spanFrom(start))
	return use
}

// parseAdaptation parses `[T::]m insteadof A, B;` or `[T::]m as [vis] [alias];`.
// `insteadof` is compared by text since it is not a keyword token.
func (p *Parser) parseAdaptation() ast.Adaptation {
	start := p.start()
	var trait *ast.Name
	var method string
	ref := p.parseName()
	if _, ok := p.eat(TokenDoubleColon); ok {
		trait = ref
		method, _ = p.parseIdentifier("method name", true)
	} else {
		method = ref.String()
	}

	if tok := p.peek(); tok.Kind == TokenIdent && strings.EqualFold(p.text(tok), "insteadof") {
		p.advance()
		if trait == nil {
			p.errorf(ref.Span(), "Trait method reference in insteadof must be qualified")
		}
		rule := &ast.TraitPrecedence{Trait: trait, Method: method, InsteadOf: p.parseNameList("trait")}
		p.expectSemicolon("trait adaptation")
		rule.Base = ast.At(p.spanFrom(start))
		return rule
	}

	if _, ok := p.expect(TokenAs); !ok {
		p.skipMember()
		return nil
	}
	alias := &ast.TraitAlias{Trait: trait, Method: method}
	if vis, ok := visibilities[p.peek().Kind]; ok {
		p.advance()
		alias.Visibility = vis
	}
	if !p.check(TokenSemicolon) {
		alias.Alias, _ = p.parseIdentifier("alias", true)
	}
	if alias.Visibility == ast.VisibilityNone && alias.Alias == "" {
		p.errorExpected("visibility or alias")
	}
	p.expectSemicolon("trait adaptation")
	alias.Base = ast.At(p.spanFrom(start))
	return alias
}
