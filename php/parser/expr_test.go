package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jorgsowa/php-parser/php/ast"
)

// sexp renders an expression fully parenthesized. Paren nodes are dropped so
// the output shows the grouping the parser actually chose.
func sexp(e ast.Node) string {
	switch e := e.(type) {
	case nil:
		return "_"
	case *ast.IntLit:
		return fmt.Sprint(e.Value)
	case *ast.FloatLit:
		return fmt.Sprint(e.Value)
	case *ast.StringLit:
		return fmt.Sprintf("%q", e.Value)
	case *ast.BoolLit:
		return fmt.Sprint(e.Value)
	case *ast.NullLit:
		return "null"
	case *ast.Variable:
		return "$" + e.Name
	case *ast.VariableVariable:
		return "$" + sexp(e.Inner)
	case *ast.Identifier:
		return e.Name
	case *ast.Paren:
		return sexp(e.Expr)
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", e.Op.Symbol(), sexp(e.Left), sexp(e.Right))
	case *ast.Assign:
		op := e.Op.Symbol()
		if e.ByRef {
			op += "&"
		}
		return fmt.Sprintf("(%s %s %s)", op, sexp(e.Target), sexp(e.Value))
	case *ast.UnaryPrefix:
		return fmt.Sprintf("(%s %s)", e.Op.Symbol(), sexp(e.Operand))
	case *ast.UnaryPostfix:
		return fmt.Sprintf("(%s %s)", sexp(e.Operand), e.Op.Symbol())
	case *ast.Ternary:
		if e.Then == nil {
			return fmt.Sprintf("(?: %s %s)", sexp(e.Cond), sexp(e.Else))
		}
		return fmt.Sprintf("(? %s %s %s)", sexp(e.Cond), sexp(e.Then), sexp(e.Else))
	case *ast.NullCoalesce:
		return fmt.Sprintf("(?? %s %s)", sexp(e.Left), sexp(e.Right))
	case *ast.Cast:
		return fmt.Sprintf("(cast:%s %s)", e.Kind, sexp(e.Expr))
	case *ast.ErrorSuppress:
		return fmt.Sprintf("(@ %s)", sexp(e.Expr))
	case *ast.Clone:
		return fmt.Sprintf("(clone %s)", sexp(e.Expr))
	case *ast.Print:
		return fmt.Sprintf("(print %s)", sexp(e.Expr))
	case *ast.New:
		return fmt.Sprintf("(new %s%s)", sexp(e.Class), args(e.Args))
	case *ast.Call:
		return fmt.Sprintf("(call %s%s)", sexp(e.Func), args(e.Args))
	case *ast.PropertyAccess:
		arrow := "->"
		if e.NullSafe {
			arrow = "?->"
		}
		return fmt.Sprintf("(%s %s %s)", arrow, sexp(e.Object), sexp(e.Property))
	case *ast.MethodCall:
		arrow := "->"
		if e.NullSafe {
			arrow = "?->"
		}
		return fmt.Sprintf("(call (%s %s %s)%s)", arrow, sexp(e.Object), sexp(e.Method), args(e.Args))
	case *ast.StaticPropertyAccess:
		return fmt.Sprintf("(:: %s %s)", sexp(e.Class), sexp(e.Property))
	case *ast.ClassConstAccess:
		return fmt.Sprintf("(:: %s %s)", sexp(e.Class), sexp(e.Name))
	case *ast.StaticMethodCall:
		return fmt.Sprintf("(call (:: %s %s)%s)", sexp(e.Class), sexp(e.Method), args(e.Args))
	case *ast.CallableCreate:
		if e.Method != nil {
			return fmt.Sprintf("(callable %s %s)", sexp(e.Target), sexp(e.Method))
		}
		return fmt.Sprintf("(callable %s)", sexp(e.Target))
	case *ast.ArrayAccess:
		return fmt.Sprintf("([] %s %s)", sexp(e.Array), sexp(e.Index))
	case *ast.ArrayLit:
		var b strings.Builder
		b.WriteString("(array")
		if e.List {
			b.WriteString(":list")
		}
		for _, item := range e.Items {
			b.WriteByte(' ')
			b.WriteString(sexp(item))
		}
		b.WriteByte(')')
		return b.String()
	case *ast.ArrayItem:
		if e == nil {
			return "_"
		}
		s := sexp(e.Value)
		if e.ByRef {
			s = "&" + s
		}
		if e.Unpack {
			s = "..." + s
		}
		if e.Key != nil {
			s = fmt.Sprintf("(=> %s %s)", sexp(e.Key), s)
		}
		return s
	case *ast.InterpolatedString:
		return interp("interp", e.Parts)
	case *ast.Heredoc:
		return interp("heredoc", e.Parts)
	case *ast.ShellExec:
		return interp("shell", e.Parts)
	case *ast.ErrorExpr:
		return "<error>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*ast.")
}

func args(list []*ast.Arg) string {
	var b strings.Builder
	for _, a := range list {
		b.WriteByte(' ')
		if a.Name != "" {
			b.WriteString(a.Name + ":")
		}
		if a.Unpack {
			b.WriteString("...")
		}
		b.WriteString(sexp(a.Value))
	}
	return b.String()
}

func interp(tag string, parts []ast.Expr) string {
	var b strings.Builder
	b.WriteString("(" + tag)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(sexp(p))
	}
	b.WriteByte(')')
	return b.String()
}

func mustParseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, diags := ParseExpression(src)
	if len(diags) != 0 {
		t.Fatalf("%s: unexpected diagnostics: %v", src, diags.Err())
	}
	return e
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"2 ** 3 ** 2", "(** 2 (** 3 2))"},
		{"-2 ** 2", "(- (** 2 2))"},
		{"-$a * 3", "(* (- $a) 3)"},
		{"$a = $b = $c", "(= $a (= $b $c))"},
		{"$a += $b ??= 1", "(+= $a (??= $b 1))"},
		{"$a ?: $b ?: $c", "(?: (?: $a $b) $c)"},
		{"$a ?? $b ?? $c", "(?? $a (?? $b $c))"},
		{"$a < $b . $c", "(< $a (. $b $c))"},
		{"$a . $b + $c", "(. $a (+ $b $c))"},
		{"$a << 1 + 2", "(<< $a (+ 1 2))"},
		{"$a && $b || $c", "(|| (&& $a $b) $c)"},
		{"$a || $b && $c", "(|| $a (&& $b $c))"},
		{"$a | $b ^ $c & $d", "(| $a (^ $b (& $c $d)))"},
		{"$a == $b && $c != $d", "(&& (== $a $b) (!= $c $d))"},
		{"$a = 1 and 2", "(and (= $a 1) 2)"},
		{"$a or $b xor $c and $d", "(or $a (xor $b (and $c $d)))"},
		{"!$a = f()", "(! (= $a (call f)))"},
		{"$a ? $b : $c", "(? $a $b $c)"},
		{"$a ? $b = 1 : $c", "(? $a (= $b 1) $c)"},
		{"$a ?? $b ? 1 : 2", "(? (?? $a $b) 1 2)"},
		{"$i++ + ++$j", "(+ ($i ++) (++ $j))"},
		{"$x instanceof Foo && $y", "(&& (instanceof $x Foo) $y)"},
		{"$a->b()[0] + 1", "(+ ([] (call (-> $a b)) 0) 1)"},
		{"(int) $a + 1", "(+ (cast:Int $a) 1)"},
		{"(integer) $a", "(cast:Int $a)"},
		{"(double) $a", "(cast:Float $a)"},
		{"@$a['k'] ?? 0", `(?? (@ ([] $a "k")) 0)`},
		{"clone $a->b", "(clone (-> $a b))"},
		{"$x |> trim(...) |> strlen(...)", "(|> (|> $x (callable trim)) (callable strlen))"},
		{"$a <=> $b", "(<=> $a $b)"},
		{"$a =& $b", "(=& $a $b)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPostfixChains(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$a?->b->c", "(-> (?-> $a b) c)"},
		{"$a->$b", "(-> $a $b)"},
		{"$a->{'x'}", `(-> $a "x")`},
		{"$a->list", "(-> $a list)"},
		{"Foo::bar()", "(call (:: Foo bar))"},
		{"Foo::$bar", "(:: Foo $bar)"},
		{"Foo::BAR", "(:: Foo BAR)"},
		{"Foo::class", "(:: Foo class)"},
		{"static::create()", "(call (:: static create))"},
		{"$obj::CONST", "(:: $obj CONST)"},
		{"Foo::bar(...)", "(callable Foo bar)"},
		{"$o->m(...)", "(callable $o m)"},
		{"strlen(...)", "(callable strlen)"},
		{"$f()()", "(call (call $f))"},
		{"$a[]", "([] $a _)"},
		{"$a{0}", "([] $a 0)"},
		{"\\Foo\\bar($x)", "(call \\Foo\\bar $x)"},
		{"namespace\\f()", "(call namespace\\f)"},
		{"f(...$rest, a: 1)", "(call f ...$rest a:1)"},
		{"f(...$a, ...$b)", "(call f ...$a ...$b)"},
		{"new Foo", "(new Foo)"},
		{"new Foo(1)->bar()", "(call (-> (new Foo 1) bar))"},
		{"new $cls['k']", `(new ([] $cls "k"))`},
		{"new static", "(new static)"},
		{"$$a", "$$a"},
		{"${'a' . 'b'}", `$(. "a" "b")`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"0x1F", "31"},
		{"0b101", "5"},
		{"0o17", "15"},
		{"017", "15"},
		{"1_000_000", "1000000"},
		{"1.5e3", "1500"},
		{".5", "0.5"},
		{"9223372036854775808", "9.223372036854776e+18"},
		{"0xFFFFFFFFFFFFFFFF", "1.8446744073709552e+19"},
		{`'it\'s \n'`, `"it's \\n"`},
		{`"tab\tend"`, `"tab\tend"`},
		{`"\x41\101\u{1F600}"`, `"AA😀"`},
		{`"\q"`, `"\\q"`},
		{`b"bytes"`, `"bytes"`},
		{"true", "true"},
		{"NULL", "null"},
		{"[1, 'a' => 2, ...$c]", `(array 1 (=> "a" 2) ...$c)`},
		{"array(1, &$b)", "(array 1 &$b)"},
		{"[1, 2,]", "(array 1 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDestructuring(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[$a, $b] = $c", "(= (array $a $b) $c)"},
		{"[, $b] = $c", "(= (array _ $b) $c)"},
		{"list($a, list($b)) = $c", "(= (array:list $a (array:list $b)) $c)"},
		{"['x' => $a] = $c", `(= (array (=> "x" $a)) $c)`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExpressionKinds(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"isset($a, $b['x'])", "Isset"},
		{"empty($a)", "Empty"},
		{"eval('1;')", "Eval"},
		{"exit", "Exit"},
		{"die('x')", "Exit"},
		{"include 'a.php'", "IncludeExpr"},
		{"require_once __DIR__ . '/a.php'", "IncludeExpr"},
		{"__LINE__", "MagicConst"},
		{"print 'x'", `(print "x")`},
		{"yield", "Yield"},
		{"yield $k => $v", "Yield"},
		{"yield from gen()", "YieldFrom"},
		{"throw new E()", "ThrowExpr"},
		{"function ($x) use (&$y): int { return 1; }", "Closure"},
		{"static function () {}", "Closure"},
		{"fn($x) => $x * 2", "ArrowFunction"},
		{"static fn &($x) => $x", "ArrowFunction"},
		{"#[Pure] fn() => 1", "ArrowFunction"},
		{"match ($x) { 1, 2 => 'a', default => 'b', }", "Match"},
		{"new class(1) extends Base implements I { public $p; }", "(new AnonymousClass 1)"},
		{"new readonly class {}", "(new AnonymousClass)"},
		{"clone($a, ['x' => 1])", `(call clone $a (array (=> "x" 1)))`},
		{"clone ($a)", "(clone $a)"},
		{"`ls $dir`", `(shell "ls " $dir)`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexp(mustParseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExpressionSpans(t *testing.T) {
	src := "$a + foo($b, 12)"
	e := mustParseExpr(t, src)
	ast.Inspect(e, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		sp := n.Span()
		if sp.Start < 0 || sp.End > len(src) || sp.Start > sp.End {
			t.Errorf("%T span %v out of range", n, sp)
		}
		return true
	})
	call := e.(*ast.Binary).Right.(*ast.Call)
	if got := call.Span().Text([]byte(src)); got != "foo($b, 12)" {
		t.Errorf("call text: got %q", got)
	}
	if got := call.Args[1].Span().Text([]byte(src)); got != "12" {
		t.Errorf("arg text: got %q", got)
	}
}

// Slicing the source by a node's span and reparsing the slice yields the
// same structure.
func TestSpanRoundTrip(t *testing.T) {
	src := `<?php $x = foo($a + 1, [$b => "v {$c->d}"]) ?? Bar::baz(...);`
	res := ParseString(src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Err())
	}
	checked := 0
	literalRuns := map[ast.Node]bool{}
	ast.Inspect(res.Program, func(n ast.Node) bool {
		if s, ok := n.(*ast.InterpolatedString); ok {
			for _, part := range s.Parts {
				if _, ok := part.(*ast.StringLit); ok {
					literalRuns[part] = true
				}
			}
		}
		e, ok := n.(ast.Expr)
		if !ok || literalRuns[n] {
			return true
		}
		text := e.Span().Text(res.Source)
		again, diags := ParseExpression(text)
		if len(diags) != 0 {
			t.Errorf("reparse %q: %v", text, diags.Err())
			return true
		}
		if sexp(again) != sexp(e) {
			t.Errorf("reparse %q: got %s, want %s", text, sexp(again), sexp(e))
		}
		checked++
		return true
	})
	if checked < 10 {
		t.Errorf("only %d expressions checked", checked)
	}
}
