package parser

import (
	"bytes"
	"fmt"

	"github.com/jorgsowa/php-parser/php/ast"
)

type lexMode int

const (
	modeMarkup lexMode = iota
	modeCode
)

// haltState follows the `__halt_compiler ( ) ;` sequence. Once complete the
// lexer reports EOF and leaves the remaining bytes untouched.
type haltState int

const (
	haltNone haltState = iota
	haltKeyword
	haltOpen
	haltClose
	haltDone
)

// Lexer turns PHP source into tokens. It starts in markup mode unless the
// source (after an optional shebang line) begins with an open tag, and flips
// between markup and code at open and close tags.
type Lexer struct {
	input []byte
	pos   int
	mode  lexMode
	halt  haltState
	prev  TokenKind
	diags []*Diagnostic
}

func NewLexer(input []byte) *Lexer {
	l := &Lexer{input: input, prev: TokenEOF}
	if bytes.HasPrefix(input, []byte("#!")) {
		if nl := bytes.IndexByte(input, '\n'); nl >= 0 {
			l.pos = nl + 1
		} else {
			l.pos = len(input)
		}
	}
	if openTagLen(input[l.pos:]) > 0 {
		l.mode = modeCode
	}
	return l
}

// Diagnostics returns problems found so far, such as invalid numeric
// literals and unterminated strings.
func (l *Lexer) Diagnostics() []*Diagnostic {
	return l.diags
}

// HaltOffset returns the offset of the raw data following a complete
// `__halt_compiler();` sequence, or -1.
func (l *Lexer) HaltOffset() int {
	if l.halt != haltDone {
		return -1
	}
	return l.pos
}

// Tokenize lexes the whole input, including the final EOF token.
func Tokenize(input []byte) ([]Token, []*Diagnostic) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, l.diags
		}
	}
}

func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	l.trackHalt(tok.Kind)
	l.prev = tok.Kind
	return tok
}

func (l *Lexer) nextToken() Token {
	if l.halt == haltDone || l.pos >= len(l.input) {
		return l.eof()
	}
	if l.mode == modeMarkup {
		return l.scanMarkup()
	}
	return l.scanCode()
}

func (l *Lexer) trackHalt(kind TokenKind) {
	switch {
	case kind == TokenHaltCompiler && !isMemberAccess(l.prev) && l.prev != TokenFunction:
		l.halt = haltKeyword
	case l.halt == haltKeyword && kind == TokenLParen:
		l.halt = haltOpen
	case l.halt == haltOpen && kind == TokenRParen:
		l.halt = haltClose
	case l.halt == haltClose && (kind == TokenSemicolon || kind == TokenCloseTag):
		l.halt = haltDone
	case l.halt != haltDone:
		l.halt = haltNone
	}
}

func isMemberAccess(kind TokenKind) bool {
	return kind == TokenArrow || kind == TokenNullsafeArrow || kind == TokenDoubleColon
}

func (l *Lexer) eof() Token {
	return Token{Kind: TokenEOF, Span: ast.NewSpan(len(l.input), len(l.input))}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{Kind: kind, Span: ast.NewSpan(start, l.pos)}
}

func (l *Lexer) errorf(kind ErrorKind, span ast.Span, format string, args ...any) {
	l.diags = append(l.diags, &Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

// openTagLen returns the length of the open tag at the start of b, or 0.
// `<?php` must be followed by whitespace or the end of input.
func openTagLen(b []byte) int {
	if bytes.HasPrefix(b, []byte("<?=")) {
		return 3
	}
	if len(b) >= 5 && b[0] == '<' && b[1] == '?' && bytes.EqualFold(b[2:5], []byte("php")) {
		if len(b) == 5 || isSpace(b[5]) {
			return 5
		}
	}
	return 0
}

func (l *Lexer) scanMarkup() Token {
	start := l.pos
	for i := l.pos; i < len(l.input); i++ {
		if l.input[i] == '<' && openTagLen(l.input[i:]) > 0 {
			if i > start {
				l.pos = i
				l.mode = modeCode
				return l.token(TokenInlineHTML, start)
			}
			return l.scanOpenTag()
		}
	}
	l.pos = len(l.input)
	return l.token(TokenInlineHTML, start)
}

func (l *Lexer) scanOpenTag() Token {
	start := l.pos
	n := openTagLen(l.input[l.pos:])
	l.pos += n
	l.mode = modeCode
	if n == 3 {
		return l.token(TokenOpenTagEcho, start)
	}
	return l.token(TokenOpenTag, start)
}

func (l *Lexer) scanCode() Token {
	for {
		if !l.skipTrivia() {
			// Unclosed block comment swallows the rest of the file.
			l.pos = len(l.input)
			return l.eof()
		}
		if l.pos >= len(l.input) {
			return l.eof()
		}
		if l.peek() == '<' && openTagLen(l.input[l.pos:]) > 0 {
			return l.scanOpenTag()
		}
		if tok, ok := l.scanToken(); ok {
			return tok
		}
	}
}

// skipTrivia skips whitespace and comments. It returns false when a block
// comment is left unclosed.
func (l *Lexer) skipTrivia() bool {
	for l.pos < len(l.input) {
		c := l.peek()
		switch {
		case isSpace(c):
			l.pos++
		case c == '#' && l.peekN(1) != '[':
			l.skipLineComment()
		case c == '/' && l.peekN(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peekN(1) == '*':
			end := bytes.Index(l.input[l.pos+2:], []byte("*/"))
			if end < 0 {
				return false
			}
			l.pos += 2 + end + 2
		default:
			return true
		}
	}
	return true
}

// skipLineComment stops before a newline or a close tag.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) {
		c := l.peek()
		if c == '\n' || c == '\r' {
			return
		}
		if c == '?' && l.peekN(1) == '>' {
			return
		}
		l.pos++
	}
}

func (l *Lexer) scanToken() (Token, bool) {
	start := l.pos
	c := l.peek()

	switch {
	case c == '$':
		if isNameStart(l.peekN(1)) {
			l.pos++
			l.scanName()
			return l.token(TokenVariable, start), true
		}
		l.pos++
		return l.token(TokenDollar, start), true
	case (c == 'b' || c == 'B') && (l.peekN(1) == '\'' || l.peekN(1) == '"'):
		l.pos++
		return l.scanString(start, l.peek())
	case (c == 'b' || c == 'B') && l.peekN(1) == '<' && l.peekN(2) == '<' && l.peekN(3) == '<':
		if tok, ok := l.scanHeredoc(start, 1); ok {
			return tok, true
		}
		l.scanName()
		return l.token(LookupKeyword(string(l.input[start:l.pos])), start), true
	case isNameStart(c):
		l.scanName()
		return l.token(LookupKeyword(string(l.input[start:l.pos])), start), true
	case isDigit(c) || (c == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(), true
	case c == '\'' || c == '"' || c == '`':
		return l.scanString(start, c)
	case c == '<' && l.peekN(1) == '<' && l.peekN(2) == '<':
		if tok, ok := l.scanHeredoc(start, 0); ok {
			return tok, true
		}
	}

	if tok, ok := l.scanOperator(); ok {
		return tok, true
	}

	l.pos++
	l.errorf(ErrorForbidden, ast.NewSpan(start, l.pos), "unexpected character %q", c)
	return Token{}, false
}

func (l *Lexer) scanName() {
	for l.pos < len(l.input) && isNameChar(l.input[l.pos]) {
		l.pos++
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// scanDigits consumes digits accepted by ok, allowing single underscores
// between them. It returns false if no digit was consumed.
func (l *Lexer) scanDigits(ok func(byte) bool) bool {
	if !ok(l.peek()) {
		return false
	}
	l.pos++
	for {
		switch {
		case ok(l.peek()):
			l.pos++
		case l.peek() == '_' && ok(l.peekN(1)):
			l.pos += 2
		default:
			return true
		}
	}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	kind := TokenIntLiteral

	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			radix := l.peekN(1) | 0x20
			if l.peekN(2) == '_' {
				l.pos += 2
				return l.invalidNumber(start)
			}
			digit := isHexDigit
			kind = TokenHexLiteral
			if radix == 'b' {
				digit, kind = func(c byte) bool { return c == '0' || c == '1' }, TokenBinLiteral
			} else if radix == 'o' {
				digit, kind = func(c byte) bool { return c >= '0' && c <= '7' }, TokenOctLiteral
			}
			l.pos += 2
			if !l.scanDigits(digit) {
				// `0x` without digits lexes as `0` followed by a name.
				l.pos = start + 1
				return l.token(TokenIntLiteral, start)
			}
			return l.finishNumber(kind, start)
		}
	}

	if l.peek() != '.' {
		l.scanDigits(isDigit)
		if l.input[start] == '0' && l.pos-start > 1 {
			kind = TokenOctLiteral
		}
	}
	if l.peek() == '.' && l.peekN(1) != '.' {
		kind = TokenFloatLiteral
		l.pos++
		l.scanDigits(isDigit)
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		n := 1
		if s := l.peekN(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(l.peekN(n)) {
			kind = TokenFloatLiteral
			l.pos += n
			l.scanDigits(isDigit)
		}
	}
	return l.finishNumber(kind, start)
}

func (l *Lexer) finishNumber(kind TokenKind, start int) Token {
	if l.peek() == '_' {
		return l.invalidNumber(start)
	}
	return l.token(kind, start)
}

// invalidNumber consumes the greedy tail of a malformed literal: letters,
// digits, underscores, dots, and a sign directly after an exponent marker.
func (l *Lexer) invalidNumber(start int) Token {
	for l.pos < len(l.input) {
		c := l.peek()
		if c == '+' || c == '-' {
			if prev := l.input[l.pos-1]; prev != 'e' && prev != 'E' {
				break
			}
		} else if !isAlnum(c) && c != '_' && c != '.' {
			break
		}
		l.pos++
	}
	tok := l.token(TokenInvalidNumber, start)
	l.errorf(ErrorForbidden, tok.Span, "Invalid numeric literal")
	return tok
}

// scanString scans a quoted literal whose opening quote is at l.pos. Double
// quotes and backticks skip over `{$...}` and `${...}` interpolations so that
// quotes nested inside them do not end the literal.
func (l *Lexer) scanString(start int, quote byte) (Token, bool) {
	l.pos++
	interpolates := quote != '\''
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
		case c == quote:
			l.pos++
			switch quote {
			case '\'':
				return l.token(TokenSingleQuoted, start), true
			case '"':
				return l.token(TokenDoubleQuoted, start), true
			}
			return l.token(TokenBacktick, start), true
		case interpolates && ((c == '{' && l.peekN(1) == '$') || (c == '$' && l.peekN(1) == '{')):
			if c == '$' {
				l.pos++
			}
			end := skipBraced(l.input, l.pos)
			if end < 0 {
				l.pos = len(l.input)
			} else {
				l.pos = end
			}
		default:
			l.pos++
		}
	}
	l.pos = len(l.input)
	l.errorf(ErrorUnterminatedString, ast.NewSpan(start, l.pos), "unterminated string literal")
	return l.eof(), true
}

// skipBraced returns the offset just past the `}` matching the `{` at
// open, skipping quoted strings, or -1 when the braces never balance.
func skipBraced(b []byte, open int) int {
	depth := 0
	for i := open; i < len(b); i++ {
		switch c := b[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\'', '"':
			i = skipQuoted(b, i)
			if i < 0 {
				return -1
			}
		}
	}
	return -1
}

// skipQuoted returns the offset of the quote closing the string opened at i.
func skipQuoted(b []byte, i int) int {
	quote := b[i]
	for j := i + 1; j < len(b); j++ {
		switch b[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return -1
}

type operator struct {
	text string
	kind TokenKind
}

// operators is ordered longest first within each leading byte.
var operators = []operator{
	{"<<=", TokenShlAssign},
	{"<=>", TokenSpaceship},
	{"<<", TokenShl},
	{"<=", TokenLessEqual},
	{"<>", TokenNotEqual},
	{"<", TokenLess},
	{">>=", TokenShrAssign},
	{">>", TokenShr},
	{">=", TokenGreaterEqual},
	{">", TokenGreater},
	{"===", TokenIdentical},
	{"==", TokenEqual},
	{"=>", TokenDoubleArrow},
	{"=", TokenAssign},
	{"!==", TokenNotIdentical},
	{"!=", TokenNotEqual},
	{"!", TokenBang},
	{"**=", TokenPowAssign},
	{"**", TokenStarStar},
	{"*=", TokenMulAssign},
	{"*", TokenStar},
	{"+=", TokenPlusAssign},
	{"++", TokenInc},
	{"+", TokenPlus},
	{"-=", TokenMinusAssign},
	{"--", TokenDec},
	{"->", TokenArrow},
	{"-", TokenMinus},
	{"/=", TokenDivAssign},
	{"/", TokenSlash},
	{"%=", TokenModAssign},
	{"%", TokenPercent},
	{"...", TokenEllipsis},
	{".=", TokenConcatAssign},
	{".", TokenDot},
	{"&&", TokenAndAnd},
	{"&=", TokenAndAssign},
	{"&", TokenAmp},
	{"||", TokenOrOr},
	{"|=", TokenOrAssign},
	{"|>", TokenPipeArrow},
	{"|", TokenPipe},
	{"^=", TokenXorAssign},
	{"^", TokenCaret},
	{"~", TokenTilde},
	{"??=", TokenCoalesceAssign},
	{"??", TokenCoalesce},
	{"?->", TokenNullsafeArrow},
	{"?", TokenQuestion},
	{"::", TokenDoubleColon},
	{":", TokenColon},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{";", TokenSemicolon},
	{",", TokenComma},
	{`\`, TokenBackslash},
	{"@", TokenAt},
	{"#[", TokenAttrOpen},
}

func (l *Lexer) scanOperator() (Token, bool) {
	start := l.pos
	if l.hasPrefix("?>") {
		l.pos += 2
		// The close tag owns one directly following newline.
		if l.hasPrefix("\r\n") {
			l.pos += 2
		} else if l.peek() == '\n' {
			l.pos++
		}
		l.mode = modeMarkup
		return l.token(TokenCloseTag, start), true
	}
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.pos += len(op.text)
			return l.token(op.kind, start), true
		}
	}
	return Token{}, false
}
