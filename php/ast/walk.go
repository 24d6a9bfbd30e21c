package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a syntax tree in depth-first order. Every child node,
// including names, type hints, arguments and attributes, is visited.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(v, n.Stmts)

	// Names and types
	case *Name:
		// leaf
	case *NamedType:
		walkName(v, n.Name)
	case *NullableType:
		walkType(v, n.Inner)
	case *UnionType:
		for _, t := range n.Types {
			walkType(v, t)
		}
	case *IntersectionType:
		for _, t := range n.Types {
			walkType(v, t)
		}
	case *Arg:
		walkExpr(v, n.Value)
	case *Attribute:
		walkName(v, n.Name)
		walkArgs(v, n.Args)
	case *Param:
		walkAttrs(v, n.Attributes)
		walkType(v, n.Type)
		walkExpr(v, n.Default)
		walkHooks(v, n.Hooks)

	// Statements
	case *ExprStmt:
		walkExpr(v, n.Expr)
	case *Echo:
		walkExprs(v, n.Exprs)
	case *Return:
		walkExpr(v, n.Value)
	case *Block:
		walkStmts(v, n.Stmts)
	case *If:
		walkExpr(v, n.Cond)
		walkStmt(v, n.Then)
		for _, e := range n.ElseIfs {
			Walk(v, e)
		}
		walkStmt(v, n.Else)
	case *ElseIf:
		walkExpr(v, n.Cond)
		walkStmt(v, n.Body)
	case *While:
		walkExpr(v, n.Cond)
		walkStmt(v, n.Body)
	case *DoWhile:
		walkStmt(v, n.Body)
		walkExpr(v, n.Cond)
	case *For:
		walkExprs(v, n.Init)
		walkExprs(v, n.Cond)
		walkExprs(v, n.Update)
		walkStmt(v, n.Body)
	case *Foreach:
		walkExpr(v, n.Expr)
		walkExpr(v, n.Key)
		walkExpr(v, n.Value)
		walkStmt(v, n.Body)
	case *Break:
		walkExpr(v, n.Level)
	case *Continue:
		walkExpr(v, n.Level)
	case *Switch:
		walkExpr(v, n.Subject)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *Case:
		walkExpr(v, n.Value)
		walkStmts(v, n.Body)
	case *Declare:
		for _, d := range n.Directives {
			Walk(v, d)
		}
		walkStmt(v, n.Body)
	case *DeclareDirective:
		walkExpr(v, n.Value)
	case *Unset:
		walkExprs(v, n.Vars)
	case *ThrowStmt:
		walkExpr(v, n.Expr)
	case *Try:
		walkBlock(v, n.Body)
		for _, c := range n.Catches {
			Walk(v, c)
		}
		walkBlock(v, n.Finally)
	case *Catch:
		walkNames(v, n.Types)
		walkBlock(v, n.Body)
	case *Global:
		walkExprs(v, n.Vars)
	case *FunctionDecl:
		walkAttrs(v, n.Attributes)
		walkParams(v, n.Params)
		walkType(v, n.ReturnType)
		walkBlock(v, n.Body)
	case *ClassDecl:
		walkAttrs(v, n.Attributes)
		walkName(v, n.Extends)
		walkNames(v, n.Implements)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *InterfaceDecl:
		walkAttrs(v, n.Attributes)
		walkNames(v, n.Extends)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *TraitDecl:
		walkAttrs(v, n.Attributes)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *EnumDecl:
		walkAttrs(v, n.Attributes)
		walkType(v, n.BackingType)
		walkNames(v, n.Implements)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *Namespace:
		walkName(v, n.Name)
		walkBlock(v, n.Body)
	case *Use:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *UseItem:
		walkName(v, n.Name)
	case *ConstStmt:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *ConstItem:
		walkExpr(v, n.Value)
	case *StaticStmt:
		for _, sv := range n.Vars {
			Walk(v, sv)
		}
	case *StaticVar:
		walkExpr(v, n.Default)
	case *Goto, *Label, *HaltCompiler, *Nop, *InlineHTML, *ErrorStmt:
		// leaves

	// Class members
	case *Property:
		walkAttrs(v, n.Attributes)
		walkType(v, n.Type)
		walkExpr(v, n.Default)
		walkHooks(v, n.Hooks)
	case *PropertyHook:
		walkAttrs(v, n.Attributes)
		walkParams(v, n.Params)
		walkBlock(v, n.Body)
		walkExpr(v, n.Expr)
	case *Method:
		walkAttrs(v, n.Attributes)
		walkParams(v, n.Params)
		walkType(v, n.ReturnType)
		walkBlock(v, n.Body)
	case *ClassConst:
		walkAttrs(v, n.Attributes)
		walkType(v, n.Type)
		walkExpr(v, n.Value)
	case *TraitUse:
		walkNames(v, n.Traits)
		for _, a := range n.Adaptations {
			Walk(v, a)
		}
	case *TraitPrecedence:
		walkName(v, n.Trait)
		walkNames(v, n.InsteadOf)
	case *TraitAlias:
		walkName(v, n.Trait)
	case *EnumCase:
		walkAttrs(v, n.Attributes)
		walkExpr(v, n.Value)

	// Expressions
	case *InterpolatedString:
		walkExprs(v, n.Parts)
	case *Heredoc:
		walkExprs(v, n.Parts)
	case *ShellExec:
		walkExprs(v, n.Parts)
	case *VariableVariable:
		walkExpr(v, n.Inner)
	case *Assign:
		walkExpr(v, n.Target)
		walkExpr(v, n.Value)
	case *Binary:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *UnaryPrefix:
		walkExpr(v, n.Operand)
	case *UnaryPostfix:
		walkExpr(v, n.Operand)
	case *Ternary:
		walkExpr(v, n.Cond)
		walkExpr(v, n.Then)
		walkExpr(v, n.Else)
	case *NullCoalesce:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *Call:
		walkExpr(v, n.Func)
		walkArgs(v, n.Args)
	case *ArrayLit:
		for _, item := range n.Items {
			if item != nil {
				Walk(v, item)
			}
		}
	case *ArrayItem:
		walkExpr(v, n.Key)
		walkExpr(v, n.Value)
	case *ArrayAccess:
		walkExpr(v, n.Array)
		walkExpr(v, n.Index)
	case *Print:
		walkExpr(v, n.Expr)
	case *Paren:
		walkExpr(v, n.Expr)
	case *Cast:
		walkExpr(v, n.Expr)
	case *ErrorSuppress:
		walkExpr(v, n.Expr)
	case *Isset:
		walkExprs(v, n.Vars)
	case *Empty:
		walkExpr(v, n.Expr)
	case *IncludeExpr:
		walkExpr(v, n.Expr)
	case *Eval:
		walkExpr(v, n.Expr)
	case *Exit:
		walkExpr(v, n.Expr)
	case *Clone:
		walkExpr(v, n.Expr)
	case *New:
		walkExpr(v, n.Class)
		walkArgs(v, n.Args)
	case *AnonymousClass:
		if n.Decl != nil {
			Walk(v, n.Decl)
		}
	case *PropertyAccess:
		walkExpr(v, n.Object)
		walkExpr(v, n.Property)
	case *MethodCall:
		walkExpr(v, n.Object)
		walkExpr(v, n.Method)
		walkArgs(v, n.Args)
	case *StaticPropertyAccess:
		walkExpr(v, n.Class)
		walkExpr(v, n.Property)
	case *StaticMethodCall:
		walkExpr(v, n.Class)
		walkExpr(v, n.Method)
		walkArgs(v, n.Args)
	case *ClassConstAccess:
		walkExpr(v, n.Class)
		walkExpr(v, n.Name)
	case *Closure:
		walkAttrs(v, n.Attributes)
		walkParams(v, n.Params)
		for _, u := range n.Uses {
			Walk(v, u)
		}
		walkType(v, n.ReturnType)
		walkBlock(v, n.Body)
	case *ArrowFunction:
		walkAttrs(v, n.Attributes)
		walkParams(v, n.Params)
		walkType(v, n.ReturnType)
		walkExpr(v, n.Body)
	case *Match:
		walkExpr(v, n.Subject)
		for _, arm := range n.Arms {
			Walk(v, arm)
		}
	case *MatchArm:
		walkExprs(v, n.Conds)
		walkExpr(v, n.Body)
	case *ThrowExpr:
		walkExpr(v, n.Expr)
	case *Yield:
		walkExpr(v, n.Key)
		walkExpr(v, n.Value)
	case *YieldFrom:
		walkExpr(v, n.Expr)
	case *CallableCreate:
		walkExpr(v, n.Target)
		walkExpr(v, n.Method)
	case *IntLit, *FloatLit, *StringLit, *Nowdoc, *BoolLit, *NullLit, *Variable,
		*Identifier, *MagicConst, *ClosureUse, *ErrorExpr:
		// leaves

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a tree in depth-first order, calling f for each node and
// then f(nil) after its children. Children are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Reoffset shifts the span of every node in the subtree by delta.
func Reoffset(node Node, delta int) {
	if delta == 0 {
		return
	}
	Inspect(node, func(n Node) bool {
		if n != nil {
			n.SetSpan(n.Span().Shift(delta))
		}
		return true
	})
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, e := range list {
		walkExpr(v, e)
	}
}

func walkStmt(v Visitor, s Stmt) {
	if s != nil {
		Walk(v, s)
	}
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		walkStmt(v, s)
	}
}

func walkBlock(v Visitor, b *Block) {
	if b != nil {
		Walk(v, b)
	}
}

func walkType(v Visitor, t TypeHint) {
	if t != nil {
		Walk(v, t)
	}
}

func walkName(v Visitor, n *Name) {
	if n != nil {
		Walk(v, n)
	}
}

func walkNames(v Visitor, list []*Name) {
	for _, n := range list {
		walkName(v, n)
	}
}

func walkArgs(v Visitor, list []*Arg) {
	for _, a := range list {
		Walk(v, a)
	}
}

func walkAttrs(v Visitor, list []*Attribute) {
	for _, a := range list {
		Walk(v, a)
	}
}

func walkParams(v Visitor, list []*Param) {
	for _, p := range list {
		Walk(v, p)
	}
}

func walkHooks(v Visitor, list []*PropertyHook) {
	for _, h := range list {
		Walk(v, h)
	}
}
