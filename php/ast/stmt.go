package ast

type ExprStmt struct {
	Base
	Expr Expr
}

type Echo struct {
	Base
	Exprs []Expr
}

type Return struct {
	Base
	Value Expr
}

type Block struct {
	Base
	Stmts []Stmt
}

type If struct {
	Base
	Cond    Expr
	Then    Stmt
	ElseIfs []*ElseIf
	Else    Stmt
}

type ElseIf struct {
	Base
	Cond Expr
	Body Stmt
}

type While struct {
	Base
	Cond Expr
	Body Stmt
}

type DoWhile struct {
	Base
	Body Stmt
	Cond Expr
}

type For struct {
	Base
	Init   []Expr
	Cond   []Expr
	Update []Expr
	Body   Stmt
}

type Foreach struct {
	Base
	Expr  Expr
	Key   Expr
	Value Expr
	ByRef bool
	Body  Stmt
}

type Break struct {
	Base
	Level Expr
}

type Continue struct {
	Base
	Level Expr
}

type Switch struct {
	Base
	Subject Expr
	Cases   []*Case
}

// Case is a switch arm; Value is nil for default.
type Case struct {
	Base
	Value Expr
	Body  []Stmt
}

type Goto struct {
	Base
	Label string
}

type Label struct {
	Base
	Name string
}

type Declare struct {
	Base
	Directives []*DeclareDirective
	Body       Stmt
}

type DeclareDirective struct {
	Base
	Name  string
	Value Expr
}

type Unset struct {
	Base
	Vars []Expr
}

type ThrowStmt struct {
	Base
	Expr Expr
}

type Try struct {
	Base
	Body    *Block
	Catches []*Catch
	Finally *Block
}

type Catch struct {
	Base
	Types []*Name
	Var   string
	Body  *Block
}

type Global struct {
	Base
	Vars []Expr
}

type FunctionDecl struct {
	Base
	Name       string
	Params     []*Param
	ReturnType TypeHint
	Body       *Block
	ByRef      bool
	Attributes []*Attribute
}

type ClassModifiers struct {
	Abstract bool
	Final    bool
	Readonly bool
}

// ClassDecl is a named class, or the body of an anonymous class when Name is empty.
type ClassDecl struct {
	Base
	Name       string
	Modifiers  ClassModifiers
	Extends    *Name
	Implements []*Name
	Members    []ClassMember
	Attributes []*Attribute
}

type InterfaceDecl struct {
	Base
	Name       string
	Extends    []*Name
	Members    []ClassMember
	Attributes []*Attribute
}

type TraitDecl struct {
	Base
	Name       string
	Members    []ClassMember
	Attributes []*Attribute
}

type EnumDecl struct {
	Base
	Name        string
	BackingType TypeHint
	Implements  []*Name
	Members     []EnumMember
	Attributes  []*Attribute
}

// Namespace is braced when Body is non-nil; Name is nil for the global namespace.
type Namespace struct {
	Base
	Name *Name
	Body *Block
}

type Use struct {
	Base
	Kind  UseKind
	Items []*UseItem
}

// UseItem carries its effective kind, which a group item may override.
type UseItem struct {
	Base
	Name  *Name
	Alias string
	Kind  UseKind
}

type ConstStmt struct {
	Base
	Items []*ConstItem
}

type ConstItem struct {
	Base
	Name  string
	Value Expr
}

type StaticStmt struct {
	Base
	Vars []*StaticVar
}

type StaticVar struct {
	Base
	Name    string
	Default Expr
}

// HaltCompiler holds the raw bytes following __halt_compiler();.
type HaltCompiler struct {
	Base
	Data string
}

type Nop struct {
	Base
}

type InlineHTML struct {
	Base
	Value string
}

// ErrorStmt stands in for a statement that could not be parsed.
type ErrorStmt struct {
	Base
}

func (*ExprStmt) stmtNode()      {}
func (*Echo) stmtNode()          {}
func (*Return) stmtNode()        {}
func (*Block) stmtNode()         {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*DoWhile) stmtNode()       {}
func (*For) stmtNode()           {}
func (*Foreach) stmtNode()       {}
func (*Break) stmtNode()         {}
func (*Continue) stmtNode()      {}
func (*Switch) stmtNode()        {}
func (*Goto) stmtNode()          {}
func (*Label) stmtNode()         {}
func (*Declare) stmtNode()       {}
func (*Unset) stmtNode()         {}
func (*ThrowStmt) stmtNode()     {}
func (*Try) stmtNode()           {}
func (*Global) stmtNode()        {}
func (*FunctionDecl) stmtNode()  {}
func (*ClassDecl) stmtNode()     {}
func (*InterfaceDecl) stmtNode() {}
func (*TraitDecl) stmtNode()     {}
func (*EnumDecl) stmtNode()      {}
func (*Namespace) stmtNode()     {}
func (*Use) stmtNode()           {}
func (*ConstStmt) stmtNode()     {}
func (*StaticStmt) stmtNode()    {}
func (*HaltCompiler) stmtNode()  {}
func (*Nop) stmtNode()           {}
func (*InlineHTML) stmtNode()    {}
func (*ErrorStmt) stmtNode()     {}
