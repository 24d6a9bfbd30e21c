package parser

import (
	"bytes"
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

// scanHeredoc scans `<<<LABEL`, `<<<"LABEL"` or `<<<'LABEL'` at l.pos+prefix.
// It returns false without consuming input when no label follows the
// marker. An unterminated body is reported and consumes the rest of the file.
func (l *Lexer) scanHeredoc(start, prefix int) (Token, bool) {
	i := l.pos + prefix + 3
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}

	nowdoc := false
	var label []byte
	switch {
	case i < len(l.input) && (l.input[i] == '\'' || l.input[i] == '"'):
		quote := l.input[i]
		end := i + 1
		for end < len(l.input) && isNameChar(l.input[end]) {
			end++
		}
		if end >= len(l.input) || l.input[end] != quote || end == i+1 {
			return Token{}, false
		}
		label = l.input[i+1 : end]
		nowdoc = quote == '\''
		i = end + 1
	case i < len(l.input) && isNameStart(l.input[i]):
		end := i
		for end < len(l.input) && isNameChar(l.input[end]) {
			end++
		}
		label = l.input[i:end]
		i = end
	default:
		return Token{}, false
	}

	nl := bytes.IndexByte(l.input[i:], '\n')
	if nl < 0 {
		return l.unterminatedHeredoc(start), true
	}
	body := i + nl + 1

	for line := body; line < len(l.input); {
		lineEnd := bytes.IndexByte(l.input[line:], '\n')
		if lineEnd < 0 {
			lineEnd = len(l.input)
		} else {
			lineEnd += line
		}
		if end, ok := closingLabel(l.input[line:lineEnd], label); ok {
			l.pos = line + end
			if nowdoc {
				return l.token(TokenNowdoc, start), true
			}
			return l.token(TokenHeredoc, start), true
		}
		line = lineEnd + 1
	}
	return l.unterminatedHeredoc(start), true
}

func (l *Lexer) unterminatedHeredoc(start int) Token {
	l.pos = len(l.input)
	l.errorf(ErrorUnterminatedString, ast.NewSpan(start, l.pos), "unterminated string literal")
	return l.eof()
}

// closingLabel reports whether line closes a heredoc: after leading spaces
// and tabs it starts with label, followed by the end of the line, by
// trailing whitespace only, or directly by punctuation such as `;`, `,` or
// `)`. A label followed by a name character, or by a space and more text,
// is body text. It returns the offset just past the label.
func closingLabel(line, label []byte) (int, bool) {
	indent := 0
	for indent < len(line) && (line[indent] == ' ' || line[indent] == '\t') {
		indent++
	}
	rest := line[indent:]
	if !bytes.HasPrefix(rest, label) {
		return 0, false
	}
	after := rest[len(label):]
	switch {
	case len(after) == 0:
	case isNameChar(after[0]):
		return 0, false
	case isBlank(after[0]) && len(bytes.TrimSpace(after)) > 0:
		return 0, false
	}
	return indent + len(label), true
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

// heredocBody describes the pieces of a heredoc or nowdoc token.
type heredocBody struct {
	Label  string
	Nowdoc bool
	// Body is the raw text between the opening line and the closing line,
	// without the final newline; Offset is its position in the source.
	Body   string
	Offset int
	// Indent is the number of whitespace bytes before the closing label;
	// that many are stripped from the start of every body line.
	Indent int
}

// splitHeredoc decomposes the text of a TokenHeredoc or TokenNowdoc that
// starts at offset base.
func splitHeredoc(text string, base int) heredocBody {
	var h heredocBody
	i := 0
	if i < len(text) && (text[i] == 'b' || text[i] == 'B') {
		i++
	}
	i += 3
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i < len(text) && (text[i] == '\'' || text[i] == '"') {
		h.Nowdoc = text[i] == '\''
		i++
	}
	labelStart := i
	for i < len(text) && isNameChar(text[i]) {
		i++
	}
	h.Label = text[labelStart:i]

	nl := strings.IndexByte(text[i:], '\n')
	if nl < 0 {
		return h
	}
	bodyStart := i + nl + 1

	closeStart := len(text) - len(h.Label)
	lineStart := closeStart
	for lineStart > bodyStart && (text[lineStart-1] == ' ' || text[lineStart-1] == '\t') {
		lineStart--
	}
	h.Indent = closeStart - lineStart

	bodyEnd := lineStart
	if bodyEnd > bodyStart {
		// Drop the newline (and carriage return) ending the last body line.
		bodyEnd--
		if bodyEnd > bodyStart && text[bodyEnd-1] == '\r' {
			bodyEnd--
		}
	}
	if bodyEnd < bodyStart {
		bodyEnd = bodyStart
	}
	h.Body = text[bodyStart:bodyEnd]
	h.Offset = base + bodyStart
	return h
}

// stripIndent removes up to indent leading spaces or tabs from every line of
// s. atLineStart tells whether s itself begins at the start of a line.
func stripIndent(s string, indent int, atLineStart bool) string {
	if indent == 0 {
		return s
	}
	var b bytes.Buffer
	b.Grow(len(s))
	lineStart := atLineStart
	for i := 0; i < len(s); {
		if lineStart {
			n := 0
			for n < indent && i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
				n++
			}
			lineStart = false
			continue
		}
		b.WriteByte(s[i])
		if s[i] == '\n' {
			lineStart = true
		}
		i++
	}
	return b.String()
}
