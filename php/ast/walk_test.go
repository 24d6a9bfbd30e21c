package ast

import (
	"reflect"
	"testing"
)

// sample builds `$a = f($b, 1 + 2);` with hand-made spans.
func sample() *Program {
	return &Program{
		Base: At(NewSpan(0, 18)),
		Stmts: []Stmt{&ExprStmt{
			Base: At(NewSpan(0, 18)),
			Expr: &Assign{
				Base:   At(NewSpan(0, 17)),
				Target: &Variable{Base: At(NewSpan(0, 2)), Name: "a"},
				Value: &Call{
					Base: At(NewSpan(5, 17)),
					Func: &Identifier{Base: At(NewSpan(5, 6)), Name: "f"},
					Args: []*Arg{
						{Base: At(NewSpan(7, 9)), Value: &Variable{Base: At(NewSpan(7, 9)), Name: "b"}},
						{Base: At(NewSpan(11, 16)), Value: &Binary{
							Base:  At(NewSpan(11, 16)),
							Left:  &IntLit{Base: At(NewSpan(11, 12)), Value: 1},
							Op:    Add,
							Right: &IntLit{Base: At(NewSpan(15, 16)), Value: 2},
						}},
					},
				},
			},
		}},
	}
}

func TestInspectOrder(t *testing.T) {
	var got []string
	Inspect(sample(), func(n Node) bool {
		if n != nil {
			got = append(got, reflect.TypeOf(n).Elem().Name())
		}
		return true
	})
	want := []string{
		"Program", "ExprStmt", "Assign", "Variable", "Call", "Identifier",
		"Arg", "Variable", "Arg", "Binary", "IntLit", "IntLit",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInspectPrune(t *testing.T) {
	count := 0
	Inspect(sample(), func(n Node) bool {
		if n == nil {
			return false
		}
		count++
		_, isCall := n.(*Call)
		return !isCall
	})
	// Program, ExprStmt, Assign, Variable, Call.
	if count != 5 {
		t.Errorf("got %d nodes, want 5", count)
	}
}

type countingVisitor struct {
	depth, max int
}

func (v *countingVisitor) Visit(n Node) Visitor {
	if n == nil {
		v.depth--
		return nil
	}
	v.depth++
	if v.depth > v.max {
		v.max = v.depth
	}
	return v
}

func TestWalkBalancesNilVisits(t *testing.T) {
	v := &countingVisitor{}
	Walk(v, sample())
	if v.depth != 0 {
		t.Errorf("got depth %d after walk, want 0", v.depth)
	}
	// Program > ExprStmt > Assign > Call > Arg > Binary > IntLit
	if v.max != 7 {
		t.Errorf("got max depth %d, want 7", v.max)
	}
}

func TestReoffset(t *testing.T) {
	prog := sample()
	Reoffset(prog, 100)
	Inspect(prog, func(n Node) bool {
		if n != nil && n.Span().Start < 100 {
			t.Errorf("%T not shifted: %v", n, n.Span())
		}
		return true
	})
	call := prog.Stmts[0].(*ExprStmt).Expr.(*Assign).Value.(*Call)
	if got, want := call.Span(), NewSpan(105, 117); got != want {
		t.Errorf("call span: got %v, want %v", got, want)
	}
}
