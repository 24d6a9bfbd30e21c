// Package ast declares the syntax tree produced by the PHP parser.
//
// Every node embeds Base, which carries its byte span. Nodes are grouped by
// the marker interfaces Expr, Stmt, ClassMember, EnumMember, TypeHint and
// Adaptation; the tree is strictly owned top-down with no shared nodes.
package ast

import "strings"

// Node is implemented by every syntax tree node.
type Node interface {
	Span() Span
	SetSpan(Span)
}

// Base carries the span shared by all nodes.
type Base struct {
	Loc Span
}

func (b *Base) Span() Span        { return b.Loc }
func (b *Base) SetSpan(span Span) { b.Loc = span }

// At returns a Base located at span.
func At(span Span) Base { return Base{Loc: span} }

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type ClassMember interface {
	Node
	classMemberNode()
}

type EnumMember interface {
	Node
	enumMemberNode()
}

type TypeHint interface {
	Node
	typeHintNode()
}

// Adaptation is a rule inside a trait use block.
type Adaptation interface {
	Node
	adaptationNode()
}

// Program is the root of a parsed file.
type Program struct {
	Base
	Stmts []Stmt
}

// Name is a possibly qualified class, function or constant name.
type Name struct {
	Base
	Parts []string
	Kind  NameKind
}

func (n *Name) String() string {
	joined := strings.Join(n.Parts, `\`)
	switch n.Kind {
	case NameFullyQualified:
		return `\` + joined
	case NameRelative:
		return `namespace\` + joined
	}
	return joined
}

// Last returns the final segment of the name.
func (n *Name) Last() string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

type NamedType struct {
	Base
	Name *Name
}

type NullableType struct {
	Base
	Inner TypeHint
}

type UnionType struct {
	Base
	Types []TypeHint
}

type IntersectionType struct {
	Base
	Types []TypeHint
}

func (*NamedType) typeHintNode()        {}
func (*NullableType) typeHintNode()     {}
func (*UnionType) typeHintNode()        {}
func (*IntersectionType) typeHintNode() {}

// Arg is a call argument. Name is set for named arguments.
type Arg struct {
	Base
	Name   string
	Value  Expr
	Unpack bool
	ByRef  bool
}

type Attribute struct {
	Base
	Name *Name
	Args []*Arg
}

type Param struct {
	Base
	Name          string
	Type          TypeHint
	Default       Expr
	ByRef         bool
	Variadic      bool
	Visibility    Visibility
	SetVisibility Visibility
	Readonly      bool
	Attributes    []*Attribute
	Hooks         []*PropertyHook
}

// Promoted reports whether the parameter declares a constructor-promoted property.
func (p *Param) Promoted() bool {
	return p.Visibility != VisibilityNone || p.SetVisibility != VisibilityNone || p.Readonly
}
