package parser

import (
	"errors"
	"testing"
)

func kinds(input string) []TokenKind {
	tokens, _ := Tokenize([]byte(input))
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"<html>", []TokenKind{TokenInlineHTML, TokenEOF}},
		{"<?php", []TokenKind{TokenOpenTag, TokenEOF}},
		{"<?phpx", []TokenKind{TokenInlineHTML, TokenEOF}},
		{"a <?phpinfo(); ?>", []TokenKind{TokenInlineHTML, TokenEOF}},
		{"<?php\n$a;", []TokenKind{TokenOpenTag, TokenVariable, TokenSemicolon, TokenEOF}},
		{"<?PHP echo 1;", []TokenKind{TokenOpenTag, TokenEcho, TokenIntLiteral, TokenSemicolon, TokenEOF}},
		{"<?= $a ?>", []TokenKind{TokenOpenTagEcho, TokenVariable, TokenCloseTag, TokenEOF}},
		{"<?php $a = $$b;", []TokenKind{TokenOpenTag, TokenVariable, TokenAssign, TokenDollar, TokenVariable, TokenSemicolon, TokenEOF}},
		{"<?php 1 0x1F 0b101 0o17 017 1.5 .5 1e3 1_000", []TokenKind{
			TokenOpenTag, TokenIntLiteral, TokenHexLiteral, TokenBinLiteral, TokenOctLiteral,
			TokenOctLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenIntLiteral, TokenEOF,
		}},
		{`<?php 'a' "b" b'c' ` + "`ls`", []TokenKind{TokenOpenTag, TokenSingleQuoted, TokenDoubleQuoted, TokenSingleQuoted, TokenBacktick, TokenEOF}},
		{"<?php ?-> ?? ??= ** **= <=> ... :: |> #[", []TokenKind{
			TokenOpenTag, TokenNullsafeArrow, TokenCoalesce, TokenCoalesceAssign, TokenStarStar,
			TokenPowAssign, TokenSpaceship, TokenEllipsis, TokenDoubleColon, TokenPipeArrow, TokenAttrOpen, TokenEOF,
		}},
		{"<?php FUNCTION Foo fn", []TokenKind{TokenOpenTag, TokenFunction, TokenIdent, TokenFn, TokenEOF}},
		{"<?php __CLASS__ __dir__", []TokenKind{TokenOpenTag, TokenMagicClass, TokenMagicDir, TokenEOF}},
		{"<?php // comment\n$a; # hash\n/* block */ $b;", []TokenKind{
			TokenOpenTag, TokenVariable, TokenSemicolon, TokenVariable, TokenSemicolon, TokenEOF,
		}},
		{"#!/usr/bin/env php\n<?php exit;", []TokenKind{TokenOpenTag, TokenExit, TokenSemicolon, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := kinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerModeSwitch(t *testing.T) {
	src := "<html><?php echo 1; ?>\n<p>tail</p>"
	tokens, diags := Tokenize([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	want := []struct {
		kind TokenKind
		text string
	}{
		{TokenInlineHTML, "<html>"},
		{TokenOpenTag, "<?php"},
		{TokenEcho, "echo"},
		{TokenIntLiteral, "1"},
		{TokenSemicolon, ";"},
		{TokenCloseTag, "?>\n"},
		{TokenInlineHTML, "<p>tail</p>"},
		{TokenEOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	covered := 0
	for i, tok := range tokens {
		text := tok.Span.Text([]byte(src))
		if tok.Kind != want[i].kind || text != want[i].text {
			t.Errorf("token %d: got %v %q, want %v %q", i, tok.Kind, text, want[i].kind, want[i].text)
		}
		if tok.Kind == TokenInlineHTML || tok.Kind == TokenOpenTag || tok.Kind == TokenCloseTag {
			covered += tok.Span.Len()
		}
	}
	// Markup and tags are contiguous around the code: no byte lost or doubled.
	if got := tokens[6].Span.Start; got != tokens[5].Span.End {
		t.Errorf("markup starts at %d, close tag ends at %d", got, tokens[5].Span.End)
	}
	if covered != len("<html>")+len("<?php")+len("?>\n")+len("<p>tail</p>") {
		t.Errorf("markup and tags cover %d bytes", covered)
	}
}

func TestLineCommentEndsAtCloseTag(t *testing.T) {
	got := kinds("<?php // note ?>after")
	want := []TokenKind{TokenOpenTag, TokenCloseTag, TokenInlineHTML, TokenEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInvalidNumericLiterals(t *testing.T) {
	tests := []string{"1__000", "1_", "0x_1F", "1_e5", "0b_1"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens, diags := Tokenize([]byte("<?php " + input))
			if tokens[1].Kind != TokenInvalidNumber {
				t.Errorf("got %v, want invalid numeric literal", tokens[1].Kind)
			}
			if tokens[1].Span.Text([]byte("<?php "+input)) != input {
				t.Errorf("token does not cover the whole literal: %v", tokens[1].Span)
			}
			if len(diags) != 1 || !errors.Is(diags[0], ErrForbidden) {
				t.Errorf("got diagnostics %v, want one forbidden", diags)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	for _, input := range []string{`<?php "abc`, `<?php 'abc`, "<?php <<<EOT\nbody"} {
		tokens, diags := Tokenize([]byte(input))
		if last := tokens[len(tokens)-1]; last.Kind != TokenEOF {
			t.Errorf("%q: last token %v, want EOF", input, last.Kind)
		}
		if len(diags) != 1 || !errors.Is(diags[0], ErrUnterminatedString) {
			t.Errorf("%q: got %v, want one unterminated string", input, diags)
		}
	}
}

func TestStringSkipsNestedQuotes(t *testing.T) {
	src := `<?php "a {$x["k"]} b";`
	tokens, diags := Tokenize([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[1].Kind != TokenDoubleQuoted || tokens[1].Span.Text([]byte(src)) != `"a {$x["k"]} b"` {
		t.Errorf("got %v %q", tokens[1].Kind, tokens[1].Span.Text([]byte(src)))
	}
}

func TestHaltCompiler(t *testing.T) {
	src := "<?php foo(); __halt_compiler(); raw <?php data"
	l := NewLexer([]byte(src))
	var got []TokenKind
	for {
		tok := l.NextToken()
		got = append(got, tok.Kind)
		if tok.Kind == TokenEOF {
			break
		}
	}
	if n := len(got); n != 10 {
		t.Errorf("got %d tokens %v, want 10", n, got)
	}
	if off := l.HaltOffset(); src[off:] != " raw <?php data" {
		t.Errorf("halt offset %d leaves %q", off, src[off:])
	}

	// A method named __halt_compiler does not stop the lexer.
	l = NewLexer([]byte("<?php $a->__halt_compiler(); $b;"))
	for l.NextToken().Kind != TokenEOF {
	}
	if l.HaltOffset() != -1 {
		t.Errorf("got halt offset %d, want -1", l.HaltOffset())
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenKind
	}{
		{"class", TokenClass},
		{"CLASS", TokenClass},
		{"readonly", TokenReadonly},
		{"__halt_compiler", TokenHaltCompiler},
		{"Foo", TokenIdent},
		{"insteadof", TokenIdent},
	}
	for _, tt := range tests {
		if got := LookupKeyword(tt.ident); got != tt.want {
			t.Errorf("LookupKeyword(%q): got %v, want %v", tt.ident, got, tt.want)
		}
	}
}
