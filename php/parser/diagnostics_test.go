package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/jorgsowa/php-parser/php/ast"
)

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		input   string
		kind    error
		message string
	}{
		{"<?php 1 + ;", ErrExpectedExpression, "expected expression"},
		{"<?php echo ;", ErrExpectedExpression, "expected expression"},
		{"<?php global ;", ErrExpectedExpression, "expected expression"},
		{"<?php unset();", ErrExpectedExpression, "expected expression"},
		{"<?= ?>", ErrExpectedExpression, "expected expression"},
		{"<?php f(1, 2;", ErrUnclosed, "unclosed '('"},
		{"<?php echo 1", ErrExpectedAfter, "after echo statement"},
		{"<?php }", ErrExpectedStatement, "expected statement"},
		{`<?php "abc`, ErrUnterminatedString, "unterminated string literal"},
		{"<?php 1__0;", ErrForbidden, "Invalid numeric literal"},
		{"<?php $a == $b == $c;", ErrUnexpected, "unexpected token"},
		{"<?php $a < $b > $c;", ErrUnexpected, "unexpected token"},
		{"<?php $a ? 1 : 2 ? 3 : 4;", ErrForbidden, "Unparenthesized"},
		{"<?php try {}", ErrForbidden, "Cannot use try without catch or finally"},
		{"<?php foreach ($a as &$k => $v) {}", ErrForbidden, "Key element cannot be a reference"},
		{"<?php f(a: 1, 2);", ErrForbidden, "Cannot use positional argument after named argument"},
		{"<?php f(a: 1, ...$b);", ErrForbidden, "Cannot use argument unpacking after named arguments"},
		{"<?php f(&$a);", ErrForbidden, "Call-time pass-by-reference has been removed"},
		{"<?php list(...$a) = $b;", ErrForbidden, "Spread operator is not supported in assignments"},
		{"<?php new A(...);", ErrForbidden, "Cannot create Closure for new expression"},
		{"<?php match ($a) { default => 1, default => 2 };", ErrForbidden, "only contain one default arm"},
		{"<?php abstract final class A {}", ErrForbidden, "Cannot use the final modifier on an abstract class"},
		{"<?php final final class A {}", ErrForbidden, "Multiple final modifiers are not allowed"},
		{"<?php class self {}", ErrForbidden, "Cannot use 'self' as class name as it is reserved"},
		{"<?php class A extends self {}", ErrForbidden, "Cannot use 'self' as class name as it is reserved"},
		{"<?php class A extends parent {}", ErrForbidden, "Cannot use 'parent' as class name as it is reserved"},
		{"<?php class A extends static {}", ErrForbidden, "Cannot use 'static' as class name as it is reserved"},
		{"<?php class A implements self {}", ErrForbidden, "Cannot use 'self' as interface name as it is reserved"},
		{"<?php class A implements B, static {}", ErrForbidden, "Cannot use 'static' as interface name as it is reserved"},
		{"<?php interface I extends parent {}", ErrForbidden, "Cannot use 'parent' as interface name as it is reserved"},
		{"<?php enum E implements self {}", ErrForbidden, "Cannot use 'self' as interface name as it is reserved"},
		{"<?php $o = new class extends int {};", ErrForbidden, "Cannot use 'int' as class name as it is reserved"},
		{"<?php interface Mixed {}", ErrForbidden, "Cannot use 'Mixed' as interface name as it is reserved"},
		{"<?php class A { public public $x; }", ErrForbidden, "Multiple access type modifiers are not allowed"},
		{"<?php class A { static static $x; }", ErrForbidden, "Multiple static modifiers are not allowed"},
		{"<?php class A { abstract final function f(); }", ErrForbidden, "Cannot use the final modifier on an abstract class member"},
		{"<?php class A { abstract function f() {} }", ErrForbidden, "Abstract function f() cannot contain body"},
		{"<?php class A { function f(); }", ErrForbidden, "Non-abstract method f() must contain body"},
		{"<?php class A { readonly function f() {} }", ErrForbidden, "Cannot use 'readonly' as method modifier"},
		{"<?php class A { static const X = 1; }", ErrForbidden, "Cannot use 'static' as constant modifier"},
		{"<?php class A { const class = 1; }", ErrForbidden, "reserved for class name fetching"},
		{"<?php class A { #[X] const A = 1, B = 2; }", ErrForbidden, "Cannot apply attributes to multiple constants at once"},
		{"<?php class A { #[X] use T; }", ErrForbidden, "Cannot apply attributes to a trait use"},
		{"<?php class A { case X; }", ErrForbidden, "Case can only be used in enums"},
		{"<?php enum E { public $x; }", ErrForbidden, "Enums may not include properties"},
		{"<?php enum E { case class; }", ErrForbidden, "Cannot use 'class' as enum case name"},
		{"<?php interface I { public $x; }", ErrForbidden, "Interfaces may only include hooked properties"},
		{"<?php class A { public $a, $b { get; } }", ErrForbidden, "Cannot use hooks in a property group"},
		{"<?php class A { public $x {} }", ErrForbidden, "Property hook list must not be empty"},
		{"<?php class A { public $x { foo; } }", ErrForbidden, `Unknown hook "foo" for property`},
		{"<?php class A { public $x { final final get; } }", ErrForbidden, "Multiple final modifiers are not allowed"},
		{"<?php class A { function } }", ErrExpected, "expected function name"},
		{"<?php class A { use T { m insteadof B; } }", ErrForbidden, "must be qualified"},
		{"<?php class A { use T { m as; } }", ErrExpected, "expected visibility or alias"},
		{"<?php function f(public ...$a) {}", ErrForbidden, "Cannot declare variadic promoted property"},
		{"<?php function f(static $a) {}", ErrForbidden, "Cannot use the static modifier on a parameter"},
		{"<?php function f() { namespace A; }", ErrForbidden, "Namespace declarations cannot be nested"},
		{"<?php if (1) { __halt_compiler(); }", ErrForbidden, "can only be used from the outermost scope"},
		{"<?php use A\\{};", ErrForbidden, "Group use declaration must contain at least one name"},
		{"<?php use function A\\{const B};", ErrForbidden, "Cannot mix use kinds"},
		{"<?php #[A] const X = 1;", ErrForbidden, "Cannot apply attributes to a global constant declaration"},
		{"<?php #[A] $x;", ErrExpected, "declaration after attributes"},
		{"<?php switch ($a) { echo 1; }", ErrExpected, "'case' or 'default'"},
		{"<?php if ($a) { f();", ErrUnclosed, "unclosed '{'"},
		{"<?php if ($a): f();", ErrExpected, "found end of file"},
		{"<?php do {} ($a);", ErrExpectedAfter, "after do body"},
		{"<?php $a->;", ErrExpected, "expected member name"},
		{"<?php $a instanceof ;", ErrExpected, "expected class name"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := ParseString(tt.input)
			if len(res.Errors) == 0 {
				t.Fatal("no diagnostics")
			}
			for _, d := range res.Errors {
				if errors.Is(d, tt.kind) && strings.Contains(d.Error(), tt.message) {
					return
				}
			}
			t.Errorf("no %v diagnostic containing %q in:\n%v", tt.kind, tt.message, res.Err())
		})
	}
}

func TestDiagnosticStrings(t *testing.T) {
	tests := []struct {
		d    *Diagnostic
		want string
	}{
		{&Diagnostic{Kind: ErrorExpected, Expected: "';'", Found: TokenRBrace}, "expected ';', found '}'"},
		{&Diagnostic{Kind: ErrorUnexpected, Found: TokenComma}, "unexpected token ','"},
		{&Diagnostic{Kind: ErrorExpectedAfter, Expected: "';'", After: "echo statement"}, "expected ';' after echo statement"},
		{&Diagnostic{Kind: ErrorUnclosed, Delimiter: "'('", OpenedAt: ast.NewSpan(4, 5)}, "unclosed '(' opened at 4..5"},
		{&Diagnostic{Kind: ErrorForbidden, Message: "Cannot do that"}, "Cannot do that"},
		{&Diagnostic{Kind: ErrorExpectedOpenTag}, "expected opening PHP tag"},
	}
	for _, tt := range tests {
		if got := tt.d.Error(); got != tt.want {
			t.Errorf("%v: got %q, want %q", tt.d.Kind, got, tt.want)
		}
	}
	if got := ErrorKind(99).String(); got != "Unknown" {
		t.Errorf("out of range kind: got %q", got)
	}
	if (&Diagnostic{Kind: ErrorKind(-1)}).Unwrap() != nil {
		t.Error("out of range kind unwraps to a sentinel")
	}
}

func TestDiagnosticsErr(t *testing.T) {
	if ParseString("<?php $a;").Err() != nil {
		t.Error("clean parse returned an error")
	}
	err := ParseString("<?php 1 + ; }").Err()
	if !errors.Is(err, ErrExpectedExpression) || !errors.Is(err, ErrExpectedStatement) {
		t.Errorf("joined error lost a kind: %v", err)
	}
	var d *Diagnostic
	if !errors.As(err, &d) {
		t.Error("joined error does not expose a *Diagnostic")
	}
}

func TestDiagnosticsOrderedBySource(t *testing.T) {
	res := ParseString(`<?php
$a = ;
$b = "x {$c + } y";
$d = 1__2;
`)
	if len(res.Errors) != 3 {
		t.Fatalf("got %d diagnostics: %v", len(res.Errors), res.Err())
	}
	for i := 1; i < len(res.Errors); i++ {
		if res.Errors[i].Span.Start < res.Errors[i-1].Span.Start {
			t.Errorf("diagnostic %d at %v precedes %v", i, res.Errors[i].Span, res.Errors[i-1].Span)
		}
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<?php $a = ; $b = 2;", "ExprStmt ExprStmt"},
		{"<?php ) $a;", "ErrorStmt ExprStmt"},
		{"<?php $a = [1, 2; echo 3;", "ExprStmt Echo"},
		{"<?php function f( { } echo 1;", "FunctionDecl Echo"},
		{"<?php class A { public function f() { $x = ; } public $y; } echo 1;", "ClassDecl Echo"},
		{"<?php while ($a echo 1;", "While"},
		{"<?php foo bar; baz();", "ExprStmt ExprStmt ExprStmt"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := ParseString(tt.input)
			if len(res.Errors) == 0 {
				t.Error("expected diagnostics")
			}
			if got := stmtKinds(res.Program.Stmts); got != tt.want {
				t.Errorf("got %q, want %q\n%v", got, tt.want, res.Err())
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	var seen []*Diagnostic
	res := ParseString("<?php 1 + ; 2 + ;", WithErrorHandler(func(d *Diagnostic) {
		seen = append(seen, d)
	}), WithFile("a.php"))
	if len(seen) != len(res.Errors) || len(seen) != 2 {
		t.Fatalf("handler saw %d, result has %d", len(seen), len(res.Errors))
	}
	for i := range seen {
		if seen[i] != res.Errors[i] || seen[i].File != "a.php" {
			t.Errorf("diagnostic %d: %v in %q", i, seen[i], seen[i].File)
		}
	}
}

func TestNestingLimit(t *testing.T) {
	deep := "<?php $a = " + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100) + "; $b = 2;"
	if res := ParseString(deep); len(res.Errors) != 0 {
		t.Fatalf("default limit rejected 100 levels: %v", res.Err())
	}

	res := ParseString(deep, WithMaxDepth(20))
	if len(res.Errors) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1: %v", len(res.Errors), res.Err())
	}
	if !strings.Contains(res.Errors[0].Error(), "nesting too deep") {
		t.Errorf("got %v", res.Errors[0])
	}

	blocks := "<?php " + strings.Repeat("{", 10000) + strings.Repeat("}", 10000)
	res = ParseString(blocks)
	if len(res.Errors) != 1 {
		t.Errorf("got %d diagnostics for deeply nested blocks", len(res.Errors))
	}
}

func TestNeverPanics(t *testing.T) {
	inputs := []string{
		"<?php (",
		"<?php [",
		"<?php {",
		"<?php fn(",
		"<?php class",
		"<?php class A extends",
		"<?php $a->b->",
		"<?php new",
		"<?php match",
		"<?php \"{$",
		"<?php \"${",
		"<?php <<<",
		"<?php <<<EOT\n{$a",
		"<?php #[",
		"<?php function f(): ",
		"<?php use A\\{",
		"<?php $a ? : ",
		"<?php static fn",
		"<?php ?><?php ?><?=",
		"<?php declare(",
		"<?php enum E: ",
		"<?php __halt_compiler",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			res := ParseString(input)
			if res.Program == nil {
				t.Fatal("nil program")
			}
			if len(res.Errors) == 0 {
				t.Error("truncated input parsed cleanly")
			}
		})
	}
}

func TestQualifiedReservedNamesAllowed(t *testing.T) {
	for _, input := range []string{
		`<?php class A extends Lib\Int {}`,
		`<?php class A implements \Lib\Mixed {}`,
		`<?php class A extends Selfish implements Statics {}`,
	} {
		if res := ParseString(input); len(res.Errors) != 0 {
			t.Errorf("%s: %v", input, res.Err())
		}
	}
}
