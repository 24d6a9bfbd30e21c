package parser

import (
	"errors"
	"testing"

	"github.com/jorgsowa/php-parser/php/ast"
)

func TestInterpolation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"Hello $name!"`, `(interp "Hello " $name "!")`},
		{`"$a[0] $a[k] $a[$i] $a[-1]"`, `(interp ([] $a 0) " " ([] $a "k") " " ([] $a $i) " " ([] $a -1))`},
		{`"$a[01]"`, `(interp ([] $a "01"))`},
		{`"$o->p->q"`, `(interp (-> $o p) "->q")`},
		{`"$o?->p"`, `(interp (?-> $o p))`},
		{`"$a["`, `(interp $a "[")`},
		{`"{$a->b()['c']}"`, `(interp ([] (call (-> $a b)) "c"))`},
		{`"x{$a}y"`, `(interp "x" $a "y")`},
		{`"${name}"`, `(interp $name)`},
		{`"${arr['k']}"`, `(interp ([] $arr "k"))`},
		{`"${$x}"`, `(interp $$x)`},
		{`"say \"$x\""`, `(interp "say \"" $x "\"")`},
		{`"\$a \{$b}"`, `(interp "$a \\{" $b "}")`},
		{`"{ $a }"`, `(interp "{ " $a " }")`},
		{`"$"`, `"$"`},
		{`"a {$x["k"]} b"`, `(interp "a " ([] $x "k") " b")`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInterpolationSpans(t *testing.T) {
	src := `<?php echo "ab $name {$obj->prop} ${var}";`
	res := ParseString(src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Err())
	}
	str := res.Program.Stmts[0].(*ast.Echo).Exprs[0].(*ast.InterpolatedString)
	want := []string{"ab ", "$name", " ", "$obj->prop", " ", "${var}"}
	if len(str.Parts) != len(want) {
		t.Fatalf("got %d parts, want %d", len(str.Parts), len(want))
	}
	for i, part := range str.Parts {
		if got := part.Span().Text(res.Source); got != want[i] {
			t.Errorf("part %d: got %q, want %q", i, got, want[i])
		}
	}
	prop := str.Parts[3].(*ast.PropertyAccess)
	if got := prop.Property.Span().Text(res.Source); got != "prop" {
		t.Errorf("property span: got %q", got)
	}
}

func TestInterpolationDiagnosticsMerged(t *testing.T) {
	src := `<?php $s = "x {$a + } y";`
	res := ParseString(src, WithFile("embed.php"))
	if len(res.Errors) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(res.Errors), res.Err())
	}
	d := res.Errors[0]
	if !errors.Is(d, ErrExpectedExpression) {
		t.Errorf("got %v, want expected expression", d.Kind)
	}
	if d.File != "embed.php" {
		t.Errorf("file: got %q", d.File)
	}
	lit := ast.NewSpan(11, 24)
	if d.Span.Start < lit.Start || d.Span.End > lit.End {
		t.Errorf("span %v outside the string literal %v", d.Span, lit)
	}
}

func TestHeredoc(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "interpolated",
			input: "<<<EOT\nHello $name\nEOT",
			want:  `(heredoc "Hello " $name)`,
		},
		{
			name:  "quoted label",
			input: "<<<\"EOT\"\n{$a}\nEOT",
			want:  `(heredoc $a)`,
		},
		{
			name:  "indented closing label",
			input: "<<<EOT\n    Hello $name\n      indented\n    EOT",
			want:  `(heredoc "Hello " $name "\n  indented")`,
		},
		{
			name:  "escapes",
			input: "<<<EOT\nplain\\tx \"q\"\nEOT",
			want:  `(heredoc "plain\tx \"q\"")`,
		},
		{
			name:  "label prefix inside body",
			input: "<<<EOT\nEOTX\nEOT",
			want:  `(heredoc "EOTX")`,
		},
		{
			name:  "label then text inside body",
			input: "<<<EOT\nEOT is here\nEOT",
			want:  `(heredoc "EOT is here")`,
		},
		{
			name:  "empty",
			input: "<<<EOT\nEOT",
			want:  `(heredoc)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNowdoc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<<<'EOT'\na $b {$c}\nEOT", "a $b {$c}"},
		{"<<<'EOT'\n  one\n    two\n  EOT", "one\n  two"},
		{"<<<'EOT'\nback\\slash\nEOT", "back\\slash"},
	}
	for _, tt := range tests {
		e := mustParseExpr(t, tt.input)
		doc, ok := e.(*ast.Nowdoc)
		if !ok {
			t.Errorf("%q: got %T, want *ast.Nowdoc", tt.input, e)
			continue
		}
		if doc.Value != tt.want || doc.Label != "EOT" {
			t.Errorf("%q: got %q (label %q), want %q", tt.input, doc.Value, doc.Label, tt.want)
		}
	}
}

func TestHeredocInStatement(t *testing.T) {
	src := "<?php\nfoo(<<<EOT\n  a\n  EOT, 2);\n$x = 1;\n"
	res := ParseString(src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Err())
	}
	if len(res.Program.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(res.Program.Stmts))
	}
	call := res.Program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Call)
	if got := sexp(call); got != `(call foo (heredoc "a") 2)` {
		t.Errorf("got %s", got)
	}
}

func TestHeredocLabelLineInBody(t *testing.T) {
	res := ParseString("<?php $x = <<<EOT\nEOT is here\nEOT;\n")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Err())
	}
	if len(res.Program.Stmts) != 1 {
		t.Errorf("got %d statements, want 1", len(res.Program.Stmts))
	}
}

func TestClosingLabel(t *testing.T) {
	tests := []struct {
		line string
		end  int
		ok   bool
	}{
		{"EOT", 3, true},
		{"EOT;", 3, true},
		{"  EOT;  ", 5, true},
		{"EOT \r", 3, true},
		{"EOT, 2);", 3, true},
		{"\tEOT)", 4, true},
		{"EOT is here", 0, false},
		{"EOT ; more", 0, false},
		{"EOTX", 0, false},
		{"EOT_1;", 0, false},
		{"xEOT", 0, false},
	}
	for _, tt := range tests {
		end, ok := closingLabel([]byte(tt.line), []byte("EOT"))
		if end != tt.end || ok != tt.ok {
			t.Errorf("%q: got (%d, %v), want (%d, %v)", tt.line, end, ok, tt.end, tt.ok)
		}
	}
}

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		input string
		quote byte
		want  string
	}{
		{`a\nb`, '"', "a\nb"},
		{`\e\f\v\r`, '"', "\x1b\f\v\r"},
		{`\\ \$`, '"', `\ $`},
		{`\"`, '"', `"`},
		{`\"`, '`', `\"`},
		{"\\`", '`', "`"},
		{`\"`, 0, `\"`},
		{`\x4`, '"', "\x04"},
		{`\x`, '"', `\x`},
		{`\0`, '"', "\x00"},
		{`\400`, '"', "\x00"},
		{`\u{41}\u{e9}`, '"', "Aé"},
		{`\u{}`, '"', `\u{}`},
		{`\u{110000}`, '"', `\u{110000}`},
		{`end\`, '"', `end\`},
	}
	for _, tt := range tests {
		if got := decodeEscapes(tt.input, tt.quote); got != tt.want {
			t.Errorf("decodeEscapes(%q, %q): got %q, want %q", tt.input, tt.quote, got, tt.want)
		}
	}
}
