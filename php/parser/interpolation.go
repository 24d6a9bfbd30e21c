package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jorgsowa/php-parser/php/ast"
)

// hasInterpolation reports whether s contains `$name`, `${` or `{$` outside
// an escape. Strings without any are decoded directly.
func hasInterpolation(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
		case '$':
			if isNameStart(s[i+1]) || s[i+1] == '{' {
				return true
			}
		case '{':
			if s[i+1] == '$' {
				return true
			}
		}
	}
	return false
}

// interpolator splits the body of a double-quoted string, backtick string or
// heredoc into literal runs and embedded expressions.
type interpolator struct {
	p      *Parser
	s      string
	base   int
	quote  byte
	indent int
	parts  []ast.Expr
	lit    int
}

// interpolate scans content, whose first byte sits at offset base in the
// source. quote is the enclosing delimiter, or 0 for heredocs; indent is the
// heredoc indentation removed from every line before escapes are decoded.
func (p *Parser) interpolate(content string, base int, quote byte, indent int) []ast.Expr {
	in := &interpolator{p: p, s: content, base: base, quote: quote, indent: indent}
	in.scan()
	return in.parts
}

func (in *interpolator) scan() {
	s := in.s
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\':
			i += 2
		case s[i] == '{' && i+1 < len(s) && s[i+1] == '$':
			i = in.complex(i)
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			i = in.dollarBrace(i)
		case s[i] == '$' && i+1 < len(s) && isNameStart(s[i+1]):
			i = in.simple(i)
		default:
			i++
		}
	}
	in.flush(len(s))
}

// flush emits the literal run ending at end.
func (in *interpolator) flush(end int) {
	if end > len(in.s) {
		end = len(in.s)
	}
	if end <= in.lit {
		return
	}
	raw := in.s[in.lit:end]
	if in.indent > 0 {
		raw = stripIndent(raw, in.indent, in.lit == 0 || in.s[in.lit-1] == '\n')
	}
	if raw != "" {
		in.parts = append(in.parts, &ast.StringLit{
			Base:  ast.At(ast.NewSpan(in.base+in.lit, in.base+end)),
			Value: decodeEscapes(raw, in.quote),
		})
	}
	in.lit = end
}

func (in *interpolator) span(start, end int) ast.Span {
	return ast.NewSpan(in.base+start, in.base+end)
}

func (in *interpolator) emit(e ast.Expr, end int) int {
	in.parts = append(in.parts, e)
	in.lit = end
	return end
}

// simple handles `$name`, `$name[key]`, `$name->prop` and `$name?->prop`.
func (in *interpolator) simple(i int) int {
	in.flush(i)
	s := in.s
	j := i + 1
	for j < len(s) && isNameChar(s[j]) {
		j++
	}
	var e ast.Expr = &ast.Variable{Base: ast.At(in.span(i, j)), Name: s[i+1 : j]}

	switch {
	case j < len(s) && s[j] == '[':
		if key, end, ok := in.simpleKey(j + 1); ok {
			return in.emit(&ast.ArrayAccess{Base: ast.At(in.span(i, end)), Array: e, Index: key}, end)
		}
	case strings.HasPrefix(s[j:], "->") || strings.HasPrefix(s[j:], "?->"):
		arrow := 2
		if s[j] == '?' {
			arrow = 3
		}
		k := j + arrow
		if k < len(s) && isNameStart(s[k]) {
			end := k
			for end < len(s) && isNameChar(s[end]) {
				end++
			}
			prop := &ast.Identifier{Base: ast.At(in.span(k, end)), Name: s[k:end]}
			return in.emit(&ast.PropertyAccess{
				Base:     ast.At(in.span(i, end)),
				Object:   e,
				Property: prop,
				NullSafe: arrow == 3,
			}, end)
		}
	}
	return in.emit(e, j)
}

// simpleKey parses the key of `$a[key]` starting after the `[`: an integer,
// a variable or a bare word. It returns the offset past the `]`.
func (in *interpolator) simpleKey(k int) (ast.Expr, int, bool) {
	s := in.s
	start := k
	switch {
	case k < len(s) && s[k] == '$':
		k++
		if k >= len(s) || !isNameStart(s[k]) {
			return nil, 0, false
		}
		for k < len(s) && isNameChar(s[k]) {
			k++
		}
		if k >= len(s) || s[k] != ']' {
			return nil, 0, false
		}
		return &ast.Variable{Base: ast.At(in.span(start, k)), Name: s[start+1 : k]}, k + 1, true
	case k < len(s) && (isDigit(s[k]) || s[k] == '-'):
		if s[k] == '-' {
			k++
		}
		digits := k
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k == digits || k >= len(s) || s[k] != ']' {
			return nil, 0, false
		}
		text := s[start:k]
		if v, err := strconv.ParseInt(text, 10, 64); err == nil && (text == "0" || text[0] != '0' && !strings.HasPrefix(text, "-0")) {
			return &ast.IntLit{Base: ast.At(in.span(start, k)), Value: v}, k + 1, true
		}
		// Leading zeros and overflow keep the key a string, as PHP does.
		return &ast.StringLit{Base: ast.At(in.span(start, k)), Value: text}, k + 1, true
	case k < len(s) && isNameStart(s[k]):
		for k < len(s) && isNameChar(s[k]) {
			k++
		}
		if k >= len(s) || s[k] != ']' {
			return nil, 0, false
		}
		return &ast.StringLit{Base: ast.At(in.span(start, k)), Value: s[start:k]}, k + 1, true
	}
	return nil, 0, false
}

// complex handles `{$expr}` by parsing the text between the braces.
func (in *interpolator) complex(i int) int {
	end := skipBraced([]byte(in.s), i)
	if end < 0 {
		in.p.report(&Diagnostic{
			Kind:      ErrorUnclosed,
			Span:      in.span(len(in.s), len(in.s)),
			Delimiter: "'{'",
			OpenedAt:  in.span(i, i+1),
		})
		return len(in.s)
	}
	in.flush(i)
	e := in.p.parseEmbedded(in.s[i+1:end-1], in.base+i+1)
	return in.emit(e, end)
}

// dollarBrace handles `${name}`, `${name[expr]}` and `${expr}`.
func (in *interpolator) dollarBrace(i int) int {
	end := skipBraced([]byte(in.s), i+1)
	if end < 0 {
		in.p.report(&Diagnostic{
			Kind:      ErrorUnclosed,
			Span:      in.span(len(in.s), len(in.s)),
			Delimiter: "'${'",
			OpenedAt:  in.span(i, i+2),
		})
		return len(in.s)
	}
	in.flush(i)
	inner := in.s[i+2 : end-1]
	whole := ast.At(in.span(i, end))

	if isPlainName(inner) {
		return in.emit(&ast.Variable{Base: whole, Name: inner}, end)
	}
	e := in.p.parseEmbedded(inner, in.base+i+2)
	if access, ok := e.(*ast.ArrayAccess); ok {
		if id, ok := access.Array.(*ast.Identifier); ok && isPlainName(id.Name) {
			access.Array = &ast.Variable{Base: id.Base, Name: id.Name}
			access.Base = whole
			return in.emit(access, end)
		}
	}
	return in.emit(&ast.VariableVariable{Base: whole, Inner: e}, end)
}

func isPlainName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// parseEmbedded parses an expression embedded in a string and merges its
// diagnostics, already shifted to source offsets, into p's.
func (p *Parser) parseEmbedded(text string, base int) ast.Expr {
	opts := []Option{WithMaxDepth(max(1, p.maxDepth-p.nesting)), WithFile(p.file)}
	e, diags := parseFragment(text, base, opts...)
	for _, d := range diags {
		p.report(d)
	}
	return e
}

// decodeSingleQuoted returns the value of a single-quoted literal including
// its quotes and optional `b` prefix. Only `\\` and `\'` are escapes.
func decodeSingleQuoted(text string) string {
	pre := stringPrefix(text)
	body := text[pre+1 : len(text)-1]
	if strings.IndexByte(body, '\\') < 0 {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '\\' || body[i+1] == '\'') {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

var simpleEscapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'e':  0x1b,
	'f':  '\f',
	'\\': '\\',
	'$':  '$',
}

// decodeEscapes decodes the escapes of a double-quoted, backtick or heredoc
// body. quote is the enclosing delimiter, which may itself be escaped; 0
// means a heredoc. Unknown escapes are kept verbatim.
func decodeEscapes(s string, quote byte) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		if r, ok := simpleEscapes[next]; ok {
			b.WriteByte(r)
			i++
			continue
		}
		switch {
		case next == quote && quote != 0:
			b.WriteByte(next)
			i++
		case next == 'x' && i+2 < len(s) && isHexDigit(s[i+2]):
			j := i + 2
			for j < len(s) && j < i+4 && isHexDigit(s[j]) {
				j++
			}
			v, _ := strconv.ParseUint(s[i+2:j], 16, 8)
			b.WriteByte(byte(v))
			i = j - 1
		case next >= '0' && next <= '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i+1:j], 8, 16)
			b.WriteByte(byte(v))
			i = j - 1
		case next == 'u' && i+2 < len(s) && s[i+2] == '{':
			end := strings.IndexByte(s[i+3:], '}')
			if end <= 0 {
				b.WriteByte(c)
				continue
			}
			v, err := strconv.ParseUint(s[i+3:i+3+end], 16, 32)
			if err != nil || v > utf8.MaxRune {
				b.WriteByte(c)
				continue
			}
			b.WriteRune(rune(v))
			i += 3 + end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
