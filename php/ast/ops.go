package ast

type NameKind int

const (
	NameUnqualified NameKind = iota
	NameQualified
	NameFullyQualified
	NameRelative
)

var nameKindNames = [...]string{"Unqualified", "Qualified", "FullyQualified", "Relative"}

func (k NameKind) String() string { return enumName(nameKindNames[:], int(k)) }

type Visibility int

const (
	VisibilityNone Visibility = iota
	Public
	Protected
	Private
)

var visibilityNames = [...]string{"None", "Public", "Protected", "Private"}

func (v Visibility) String() string { return enumName(visibilityNames[:], int(v)) }

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Concat
	Equal
	NotEqual
	Identical
	NotIdentical
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
	Spaceship
	BooleanAnd
	BooleanOr
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	ShiftLeft
	ShiftRight
	LogicalAnd
	LogicalOr
	LogicalXor
	Instanceof
	Pipe
)

var binaryOpNames = [...]string{
	"Add", "Sub", "Mul", "Div", "Mod", "Pow", "Concat",
	"Equal", "NotEqual", "Identical", "NotIdentical",
	"Less", "Greater", "LessOrEqual", "GreaterOrEqual", "Spaceship",
	"BooleanAnd", "BooleanOr", "BitwiseAnd", "BitwiseOr", "BitwiseXor",
	"ShiftLeft", "ShiftRight", "LogicalAnd", "LogicalOr", "LogicalXor",
	"Instanceof", "Pipe",
}

var binaryOpSymbols = [...]string{
	"+", "-", "*", "/", "%", "**", ".",
	"==", "!=", "===", "!==",
	"<", ">", "<=", ">=", "<=>",
	"&&", "||", "&", "|", "^",
	"<<", ">>", "and", "or", "xor",
	"instanceof", "|>",
}

func (op BinaryOp) String() string { return enumName(binaryOpNames[:], int(op)) }

// Symbol returns the operator as written in source.
func (op BinaryOp) Symbol() string { return enumName(binaryOpSymbols[:], int(op)) }

type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignPow
	AssignConcat
	AssignBitwiseAnd
	AssignBitwiseOr
	AssignBitwiseXor
	AssignShiftLeft
	AssignShiftRight
	AssignCoalesce
)

var assignOpNames = [...]string{
	"Assign", "Plus", "Minus", "Mul", "Div", "Mod", "Pow", "Concat",
	"BitwiseAnd", "BitwiseOr", "BitwiseXor", "ShiftLeft", "ShiftRight", "Coalesce",
}

var assignOpSymbols = [...]string{
	"=", "+=", "-=", "*=", "/=", "%=", "**=", ".=",
	"&=", "|=", "^=", "<<=", ">>=", "??=",
}

func (op AssignOp) String() string { return enumName(assignOpNames[:], int(op)) }
func (op AssignOp) Symbol() string { return enumName(assignOpSymbols[:], int(op)) }

type UnaryOp int

const (
	Negate UnaryOp = iota
	Plus
	BooleanNot
	BitwiseNot
	PreIncrement
	PreDecrement
	PostIncrement
	PostDecrement
)

var unaryOpNames = [...]string{
	"Negate", "Plus", "BooleanNot", "BitwiseNot",
	"PreIncrement", "PreDecrement", "PostIncrement", "PostDecrement",
}

var unaryOpSymbols = [...]string{"-", "+", "!", "~", "++", "--", "++", "--"}

func (op UnaryOp) String() string { return enumName(unaryOpNames[:], int(op)) }
func (op UnaryOp) Symbol() string { return enumName(unaryOpSymbols[:], int(op)) }

type CastKind int

const (
	CastInt CastKind = iota
	CastFloat
	CastString
	CastBool
	CastArray
	CastObject
	CastUnset
	CastVoid
)

var castKindNames = [...]string{"Int", "Float", "String", "Bool", "Array", "Object", "Unset", "Void"}

func (k CastKind) String() string { return enumName(castKindNames[:], int(k)) }

type IncludeKind int

const (
	Include IncludeKind = iota
	IncludeOnce
	Require
	RequireOnce
)

var includeKindNames = [...]string{"Include", "IncludeOnce", "Require", "RequireOnce"}

func (k IncludeKind) String() string { return enumName(includeKindNames[:], int(k)) }

type MagicConstKind int

const (
	MagicClass MagicConstKind = iota
	MagicDir
	MagicFile
	MagicFunction
	MagicLine
	MagicMethod
	MagicNamespace
	MagicTrait
	MagicProperty
)

var magicConstNames = [...]string{
	"Class", "Dir", "File", "Function", "Line", "Method", "Namespace", "Trait", "Property",
}

func (k MagicConstKind) String() string { return enumName(magicConstNames[:], int(k)) }

type UseKind int

const (
	UseNormal UseKind = iota
	UseFunction
	UseConst
)

var useKindNames = [...]string{"Normal", "Function", "Const"}

func (k UseKind) String() string { return enumName(useKindNames[:], int(k)) }

type HookKind int

const (
	HookGet HookKind = iota
	HookSet
)

var hookKindNames = [...]string{"Get", "Set"}

func (k HookKind) String() string { return enumName(hookKindNames[:], int(k)) }

type CallableKind int

const (
	CallableFunction CallableKind = iota
	CallableMethod
	CallableStaticMethod
)

var callableKindNames = [...]string{"Function", "Method", "StaticMethod"}

func (k CallableKind) String() string { return enumName(callableKindNames[:], int(k)) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "Unknown"
	}
	return names[i]
}
