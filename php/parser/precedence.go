package parser

import "github.com/jorgsowa/php-parser/php/ast"

// Binding powers, lowest to highest. Left-associative operators bind their
// right operand at left+1; right-associative ones at left-1. Assignment and
// the ternary are handled by the expression loop itself and are listed here
// only so the ladder has a single definition.
const (
	bpLowest = 0

	bpLogicalOr  = 1
	bpLogicalXor = 3
	bpLogicalAnd = 5

	// AssignmentBP is the minimum binding power of an assignment target and
	// the binding power its right-hand side is parsed at.
	AssignmentBP = 8

	// TernaryBP gates `?`; the else branch is parsed at TernaryBP+1.
	TernaryBP = 10

	bpCoalesce    = 14
	bpBooleanOr   = 15
	bpBooleanAnd  = 17
	bpBitwiseOr   = 19
	bpBitwiseXor  = 21
	bpBitwiseAnd  = 23
	bpEquality    = 25
	bpComparison  = 27
	bpPipe        = 29
	bpConcat      = 31
	bpShift       = 33
	bpAdditive    = 35
	bpMultiplying = 37
	bpPow         = 40

	// PrefixBP is the binding power of unary operators, casts, `@`, `clone`
	// and `new`-less prefix forms.
	PrefixBP = 41

	// PostfixIncBP gates postfix `++` and `--`.
	PostfixIncBP = 43

	// PostfixChainBP gates member access, static access, indexing and calls.
	// It is above every other operator so `$a->b()[0] + 1` absorbs the whole
	// chain before the `+`.
	PostfixChainBP = 44
)

type infixOp struct {
	left, right int
	op          ast.BinaryOp
}

// nonAssociative reports whether operators at binding power bp cannot be
// chained without parentheses (`a == b == c`).
func nonAssociative(bp int) bool {
	return bp == bpEquality || bp == bpComparison
}

var infixTable = map[TokenKind]infixOp{
	TokenOr:           {bpLogicalOr, bpLogicalOr + 1, ast.LogicalOr},
	TokenXor:          {bpLogicalXor, bpLogicalXor + 1, ast.LogicalXor},
	TokenAnd:          {bpLogicalAnd, bpLogicalAnd + 1, ast.LogicalAnd},
	TokenOrOr:         {bpBooleanOr, bpBooleanOr + 1, ast.BooleanOr},
	TokenAndAnd:       {bpBooleanAnd, bpBooleanAnd + 1, ast.BooleanAnd},
	TokenPipe:         {bpBitwiseOr, bpBitwiseOr + 1, ast.BitwiseOr},
	TokenCaret:        {bpBitwiseXor, bpBitwiseXor + 1, ast.BitwiseXor},
	TokenAmp:          {bpBitwiseAnd, bpBitwiseAnd + 1, ast.BitwiseAnd},
	TokenEqual:        {bpEquality, bpEquality + 1, ast.Equal},
	TokenNotEqual:     {bpEquality, bpEquality + 1, ast.NotEqual},
	TokenIdentical:    {bpEquality, bpEquality + 1, ast.Identical},
	TokenNotIdentical: {bpEquality, bpEquality + 1, ast.NotIdentical},
	TokenSpaceship:    {bpEquality, bpEquality + 1, ast.Spaceship},
	TokenLess:         {bpComparison, bpComparison + 1, ast.Less},
	TokenGreater:      {bpComparison, bpComparison + 1, ast.Greater},
	TokenLessEqual:    {bpComparison, bpComparison + 1, ast.LessOrEqual},
	TokenGreaterEqual: {bpComparison, bpComparison + 1, ast.GreaterOrEqual},
	TokenInstanceof:   {bpComparison, bpComparison + 1, ast.Instanceof},
	TokenPipeArrow:    {bpPipe, bpPipe + 1, ast.Pipe},
	TokenDot:          {bpConcat, bpConcat + 1, ast.Concat},
	TokenShl:          {bpShift, bpShift + 1, ast.ShiftLeft},
	TokenShr:          {bpShift, bpShift + 1, ast.ShiftRight},
	TokenPlus:         {bpAdditive, bpAdditive + 1, ast.Add},
	TokenMinus:        {bpAdditive, bpAdditive + 1, ast.Sub},
	TokenStar:         {bpMultiplying, bpMultiplying + 1, ast.Mul},
	TokenSlash:        {bpMultiplying, bpMultiplying + 1, ast.Div},
	TokenPercent:      {bpMultiplying, bpMultiplying + 1, ast.Mod},
	TokenStarStar:     {bpPow, bpPow - 1, ast.Pow},
}

// InfixBP returns the left and right binding powers of a binary operator.
func InfixBP(kind TokenKind) (left, right int, ok bool) {
	op, ok := infixTable[kind]
	return op.left, op.right, ok
}

// CoalesceBP returns the binding powers of `??`, which is right-associative
// and builds its own node rather than a Binary.
func CoalesceBP() (left, right int) {
	return bpCoalesce, bpCoalesce - 1
}

var prefixTable = map[TokenKind]ast.UnaryOp{
	TokenMinus: ast.Negate,
	TokenPlus:  ast.Plus,
	TokenBang:  ast.BooleanNot,
	TokenTilde: ast.BitwiseNot,
	TokenInc:   ast.PreIncrement,
	TokenDec:   ast.PreDecrement,
}

// PrefixOp returns the unary operator for kind and the binding power its
// operand is parsed at. `**` still binds inside the operand, so `-2 ** 2` is
// `-(2 ** 2)`.
func PrefixOp(kind TokenKind) (ast.UnaryOp, int, bool) {
	op, ok := prefixTable[kind]
	return op, bpPow, ok
}

// PostfixBP returns the left binding power of a postfix operator.
func PostfixBP(kind TokenKind) (int, bool) {
	switch kind {
	case TokenInc, TokenDec:
		return PostfixIncBP, true
	case TokenArrow, TokenNullsafeArrow, TokenDoubleColon, TokenLBracket, TokenLBrace, TokenLParen:
		return PostfixChainBP, true
	}
	return 0, false
}

var assignTable = map[TokenKind]ast.AssignOp{
	TokenAssign:         ast.AssignPlain,
	TokenPlusAssign:     ast.AssignAdd,
	TokenMinusAssign:    ast.AssignSub,
	TokenMulAssign:      ast.AssignMul,
	TokenDivAssign:      ast.AssignDiv,
	TokenModAssign:      ast.AssignMod,
	TokenPowAssign:      ast.AssignPow,
	TokenConcatAssign:   ast.AssignConcat,
	TokenAndAssign:      ast.AssignBitwiseAnd,
	TokenOrAssign:       ast.AssignBitwiseOr,
	TokenXorAssign:      ast.AssignBitwiseXor,
	TokenShlAssign:      ast.AssignShiftLeft,
	TokenShrAssign:      ast.AssignShiftRight,
	TokenCoalesceAssign: ast.AssignCoalesce,
}
