package ast

// Property is one declared property; `public $a, $b;` yields two.
type Property struct {
	Base
	Name          string
	Visibility    Visibility
	SetVisibility Visibility
	Static        bool
	Readonly      bool
	Final         bool
	Abstract      bool
	Type          TypeHint
	Default       Expr
	Attributes    []*Attribute
	Hooks         []*PropertyHook
}

// PropertyHook is a get or set accessor. A hook with neither Body nor Expr
// is abstract (`get;`).
type PropertyHook struct {
	Base
	Kind       HookKind
	Final      bool
	ByRef      bool
	Params     []*Param
	Body       *Block
	Expr       Expr
	Attributes []*Attribute
}

func (h *PropertyHook) IsAbstract() bool { return h.Body == nil && h.Expr == nil }

type Method struct {
	Base
	Name       string
	Visibility Visibility
	Static     bool
	Abstract   bool
	Final      bool
	ByRef      bool
	Params     []*Param
	ReturnType TypeHint
	Body       *Block
	Attributes []*Attribute
}

// ClassConst is one class constant; `const A = 1, B = 2;` yields two.
type ClassConst struct {
	Base
	Name       string
	Visibility Visibility
	Final      bool
	Type       TypeHint
	Value      Expr
	Attributes []*Attribute
}

type TraitUse struct {
	Base
	Traits      []*Name
	Adaptations []Adaptation
}

// TraitPrecedence is `A::m insteadof B, C;`.
type TraitPrecedence struct {
	Base
	Trait     *Name
	Method    string
	InsteadOf []*Name
}

// TraitAlias is `[A::]m as [visibility] [alias];`.
type TraitAlias struct {
	Base
	Trait      *Name
	Method     string
	Visibility Visibility
	Alias      string
}

type EnumCase struct {
	Base
	Name       string
	Value      Expr
	Attributes []*Attribute
}

func (*Property) classMemberNode()   {}
func (*Method) classMemberNode()     {}
func (*ClassConst) classMemberNode() {}
func (*TraitUse) classMemberNode()   {}

func (*EnumCase) enumMemberNode()   {}
func (*Method) enumMemberNode()     {}
func (*ClassConst) enumMemberNode() {}
func (*TraitUse) enumMemberNode()   {}

func (*TraitPrecedence) adaptationNode() {}
func (*TraitAlias) adaptationNode()      {}
