package ast

type IntLit struct {
	Base
	Value int64
}

type FloatLit struct {
	Base
	Value float64
}

// StringLit is a string with escapes decoded. It also represents the literal
// runs between embedded expressions of an interpolated string.
type StringLit struct {
	Base
	Value string
}

// InterpolatedString parts are StringLit runs and embedded expressions.
type InterpolatedString struct {
	Base
	Parts []Expr
}

type Heredoc struct {
	Base
	Label string
	Parts []Expr
}

type Nowdoc struct {
	Base
	Label string
	Value string
}

type ShellExec struct {
	Base
	Parts []Expr
}

type BoolLit struct {
	Base
	Value bool
}

type NullLit struct {
	Base
}

// Variable is `$name`; Name excludes the dollar sign.
type Variable struct {
	Base
	Name string
}

// VariableVariable is `$$x` or `${expr}`.
type VariableVariable struct {
	Base
	Inner Expr
}

// Identifier is a bare or qualified name used as an expression. Name holds the
// name as written, including any leading backslash.
type Identifier struct {
	Base
	Name string
}

type Assign struct {
	Base
	Target Expr
	Op     AssignOp
	Value  Expr
	ByRef  bool
}

type Binary struct {
	Base
	Left  Expr
	Op    BinaryOp
	Right Expr
}

type UnaryPrefix struct {
	Base
	Op      UnaryOp
	Operand Expr
}

type UnaryPostfix struct {
	Base
	Operand Expr
	Op      UnaryOp
}

// Ternary has a nil Then for the short form `a ?: b`.
type Ternary struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

type NullCoalesce struct {
	Base
	Left  Expr
	Right Expr
}

type Call struct {
	Base
	Func Expr
	Args []*Arg
}

// ArrayLit holds nil entries for skipped list slots such as `[, $b]`.
// List is set for the `list(...)` spelling.
type ArrayLit struct {
	Base
	Items []*ArrayItem
	List  bool
}

type ArrayItem struct {
	Base
	Key    Expr
	Value  Expr
	Unpack bool
	ByRef  bool
}

// ArrayAccess has a nil Index for the append form `$a[]`.
type ArrayAccess struct {
	Base
	Array Expr
	Index Expr
}

type Print struct {
	Base
	Expr Expr
}

type Paren struct {
	Base
	Expr Expr
}

type Cast struct {
	Base
	Kind CastKind
	Expr Expr
}

type ErrorSuppress struct {
	Base
	Expr Expr
}

type Isset struct {
	Base
	Vars []Expr
}

type Empty struct {
	Base
	Expr Expr
}

type IncludeExpr struct {
	Base
	Kind IncludeKind
	Expr Expr
}

type Eval struct {
	Base
	Expr Expr
}

type Exit struct {
	Base
	Expr Expr
}

type MagicConst struct {
	Base
	Kind MagicConstKind
}

type Clone struct {
	Base
	Expr Expr
}

// New instantiates Class, which is a name, a dynamic expression or an
// AnonymousClass.
type New struct {
	Base
	Class Expr
	Args  []*Arg
}

type AnonymousClass struct {
	Base
	Decl *ClassDecl
}

// PropertyAccess is `$o->p`, or `$o?->p` when NullSafe is set.
type PropertyAccess struct {
	Base
	Object   Expr
	Property Expr
	NullSafe bool
}

type MethodCall struct {
	Base
	Object   Expr
	Method   Expr
	Args     []*Arg
	NullSafe bool
}

// StaticPropertyAccess is `C::$p`; Property is a Variable or a dynamic form.
type StaticPropertyAccess struct {
	Base
	Class    Expr
	Property Expr
}

type StaticMethodCall struct {
	Base
	Class  Expr
	Method Expr
	Args   []*Arg
}

// ClassConstAccess is `C::NAME`, `C::class` or the dynamic `C::{expr}`.
type ClassConstAccess struct {
	Base
	Class Expr
	Name  Expr
}

type Closure struct {
	Base
	Static     bool
	ByRef      bool
	Params     []*Param
	Uses       []*ClosureUse
	ReturnType TypeHint
	Body       *Block
	Attributes []*Attribute
}

type ClosureUse struct {
	Base
	Name  string
	ByRef bool
}

type ArrowFunction struct {
	Base
	Static     bool
	ByRef      bool
	Params     []*Param
	ReturnType TypeHint
	Body       Expr
	Attributes []*Attribute
}

type Match struct {
	Base
	Subject Expr
	Arms    []*MatchArm
}

// MatchArm has nil Conds for the default arm.
type MatchArm struct {
	Base
	Conds []Expr
	Body  Expr
}

type ThrowExpr struct {
	Base
	Expr Expr
}

type Yield struct {
	Base
	Key   Expr
	Value Expr
}

type YieldFrom struct {
	Base
	Expr Expr
}

// CallableCreate is first-class callable syntax such as `f(...)`,
// `$o->m(...)` or `C::m(...)`. Target is the function, object or class.
type CallableCreate struct {
	Base
	Kind     CallableKind
	Target   Expr
	Method   Expr
	NullSafe bool
}

// ErrorExpr stands in for an expression that could not be parsed.
type ErrorExpr struct {
	Base
}

func (*IntLit) exprNode()               {}
func (*FloatLit) exprNode()             {}
func (*StringLit) exprNode()            {}
func (*InterpolatedString) exprNode()   {}
func (*Heredoc) exprNode()              {}
func (*Nowdoc) exprNode()               {}
func (*ShellExec) exprNode()            {}
func (*BoolLit) exprNode()              {}
func (*NullLit) exprNode()              {}
func (*Variable) exprNode()             {}
func (*VariableVariable) exprNode()     {}
func (*Identifier) exprNode()           {}
func (*Assign) exprNode()               {}
func (*Binary) exprNode()               {}
func (*UnaryPrefix) exprNode()          {}
func (*UnaryPostfix) exprNode()         {}
func (*Ternary) exprNode()              {}
func (*NullCoalesce) exprNode()         {}
func (*Call) exprNode()                 {}
func (*ArrayLit) exprNode()             {}
func (*ArrayAccess) exprNode()          {}
func (*Print) exprNode()                {}
func (*Paren) exprNode()                {}
func (*Cast) exprNode()                 {}
func (*ErrorSuppress) exprNode()        {}
func (*Isset) exprNode()                {}
func (*Empty) exprNode()                {}
func (*IncludeExpr) exprNode()          {}
func (*Eval) exprNode()                 {}
func (*Exit) exprNode()                 {}
func (*MagicConst) exprNode()           {}
func (*Clone) exprNode()                {}
func (*New) exprNode()                  {}
func (*AnonymousClass) exprNode()       {}
func (*PropertyAccess) exprNode()       {}
func (*MethodCall) exprNode()           {}
func (*StaticPropertyAccess) exprNode() {}
func (*StaticMethodCall) exprNode()     {}
func (*ClassConstAccess) exprNode()     {}
func (*Closure) exprNode()              {}
func (*ArrowFunction) exprNode()        {}
func (*Match) exprNode()                {}
func (*ThrowExpr) exprNode()            {}
func (*Yield) exprNode()                {}
func (*YieldFrom) exprNode()            {}
func (*CallableCreate) exprNode()       {}
func (*ErrorExpr) exprNode()            {}
