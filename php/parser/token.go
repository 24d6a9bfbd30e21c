package parser

import (
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

// Token is a kind plus its byte range. Tokens own no text; slice the source
// with Span to recover it.
type Token struct {
	Kind TokenKind
	Span ast.Span
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenInlineHTML
	TokenOpenTag
	TokenOpenTagEcho
	TokenCloseTag

	// Literals
	TokenIntLiteral
	TokenHexLiteral
	TokenBinLiteral
	TokenOctLiteral
	TokenFloatLiteral
	TokenInvalidNumber
	TokenSingleQuoted
	TokenDoubleQuoted
	TokenBacktick
	TokenHeredoc
	TokenNowdoc
	TokenVariable
	TokenDollar
	TokenIdent

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenStarStar
	TokenDot
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenMulAssign
	TokenDivAssign
	TokenModAssign
	TokenPowAssign
	TokenConcatAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenCoalesceAssign
	TokenEqual
	TokenNotEqual
	TokenIdentical
	TokenNotIdentical
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual
	TokenSpaceship
	TokenAndAnd
	TokenOrOr
	TokenBang
	TokenAmp
	TokenPipe
	TokenCaret
	TokenTilde
	TokenShl
	TokenShr
	TokenInc
	TokenDec
	TokenQuestion
	TokenCoalesce
	TokenColon
	TokenDoubleArrow
	TokenPipeArrow

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenSemicolon
	TokenComma
	TokenDoubleColon
	TokenArrow
	TokenNullsafeArrow
	TokenBackslash
	TokenAt
	TokenAttrOpen
	TokenEllipsis

	keywordBegin

	// Keywords
	TokenAbstract
	TokenAnd
	TokenArray
	TokenAs
	TokenBreak
	TokenCase
	TokenCatch
	TokenClass
	TokenClone
	TokenConst
	TokenContinue
	TokenDeclare
	TokenDefault
	TokenDie
	TokenDo
	TokenEcho
	TokenElse
	TokenElseIf
	TokenEmpty
	TokenEndDeclare
	TokenEndFor
	TokenEndForeach
	TokenEndIf
	TokenEndSwitch
	TokenEndWhile
	TokenEnum
	TokenEval
	TokenExit
	TokenExtends
	TokenFalse
	TokenFinal
	TokenFinally
	TokenFn
	TokenFor
	TokenForeach
	TokenFrom
	TokenFunction
	TokenGlobal
	TokenGoto
	TokenIf
	TokenImplements
	TokenInclude
	TokenIncludeOnce
	TokenInstanceof
	TokenInterface
	TokenIsset
	TokenList
	TokenMatch
	TokenNamespace
	TokenNew
	TokenNull
	TokenOr
	TokenParent
	TokenPrint
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReadonly
	TokenRequire
	TokenRequireOnce
	TokenReturn
	TokenSelf
	TokenStatic
	TokenSwitch
	TokenThrow
	TokenTrait
	TokenTrue
	TokenTry
	TokenUnset
	TokenUse
	TokenWhile
	TokenXor
	TokenYield
	TokenHaltCompiler

	// Magic constants
	TokenMagicClass
	TokenMagicDir
	TokenMagicFile
	TokenMagicFunction
	TokenMagicLine
	TokenMagicMethod
	TokenMagicNamespace
	TokenMagicTrait
	TokenMagicProperty

	keywordEnd
)

var keywords = map[string]TokenKind{
	"abstract":        TokenAbstract,
	"and":             TokenAnd,
	"array":           TokenArray,
	"as":              TokenAs,
	"break":           TokenBreak,
	"case":            TokenCase,
	"catch":           TokenCatch,
	"class":           TokenClass,
	"clone":           TokenClone,
	"const":           TokenConst,
	"continue":        TokenContinue,
	"declare":         TokenDeclare,
	"default":         TokenDefault,
	"die":             TokenDie,
	"do":              TokenDo,
	"echo":            TokenEcho,
	"else":            TokenElse,
	"elseif":          TokenElseIf,
	"empty":           TokenEmpty,
	"enddeclare":      TokenEndDeclare,
	"endfor":          TokenEndFor,
	"endforeach":      TokenEndForeach,
	"endif":           TokenEndIf,
	"endswitch":       TokenEndSwitch,
	"endwhile":        TokenEndWhile,
	"enum":            TokenEnum,
	"eval":            TokenEval,
	"exit":            TokenExit,
	"extends":         TokenExtends,
	"false":           TokenFalse,
	"final":           TokenFinal,
	"finally":         TokenFinally,
	"fn":              TokenFn,
	"for":             TokenFor,
	"foreach":         TokenForeach,
	"from":            TokenFrom,
	"function":        TokenFunction,
	"global":          TokenGlobal,
	"goto":            TokenGoto,
	"if":              TokenIf,
	"implements":      TokenImplements,
	"include":         TokenInclude,
	"include_once":    TokenIncludeOnce,
	"instanceof":      TokenInstanceof,
	"interface":       TokenInterface,
	"isset":           TokenIsset,
	"list":            TokenList,
	"match":           TokenMatch,
	"namespace":       TokenNamespace,
	"new":             TokenNew,
	"null":            TokenNull,
	"or":              TokenOr,
	"parent":          TokenParent,
	"print":           TokenPrint,
	"private":         TokenPrivate,
	"protected":       TokenProtected,
	"public":          TokenPublic,
	"readonly":        TokenReadonly,
	"require":         TokenRequire,
	"require_once":    TokenRequireOnce,
	"return":          TokenReturn,
	"self":            TokenSelf,
	"static":          TokenStatic,
	"switch":          TokenSwitch,
	"throw":           TokenThrow,
	"trait":           TokenTrait,
	"true":            TokenTrue,
	"try":             TokenTry,
	"unset":           TokenUnset,
	"use":             TokenUse,
	"while":           TokenWhile,
	"xor":             TokenXor,
	"yield":           TokenYield,
	"__halt_compiler": TokenHaltCompiler,
	"__class__":       TokenMagicClass,
	"__dir__":         TokenMagicDir,
	"__file__":        TokenMagicFile,
	"__function__":    TokenMagicFunction,
	"__line__":        TokenMagicLine,
	"__method__":      TokenMagicMethod,
	"__namespace__":   TokenMagicNamespace,
	"__trait__":       TokenMagicTrait,
	"__property__":    TokenMagicProperty,
}

// LookupKeyword resolves an identifier case-insensitively. Identifiers that
// are not keywords return TokenIdent.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}
	return TokenIdent
}

// IsKeyword reports whether k is a reserved or semi-reserved word. Keywords
// may still name members, constants and named arguments.
func (k TokenKind) IsKeyword() bool {
	return k > keywordBegin && k < keywordEnd
}

func (k TokenKind) IsAssignment() bool {
	return k >= TokenAssign && k <= TokenCoalesceAssign
}

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "end of file",
	TokenInlineHTML:    "inline HTML",
	TokenOpenTag:       "'<?php'",
	TokenOpenTagEcho:   "'<?='",
	TokenCloseTag:      "'?>'",
	TokenIntLiteral:    "integer",
	TokenHexLiteral:    "hex integer",
	TokenBinLiteral:    "binary integer",
	TokenOctLiteral:    "octal integer",
	TokenFloatLiteral:  "float",
	TokenInvalidNumber: "invalid numeric literal",
	TokenSingleQuoted:  "string",
	TokenDoubleQuoted:  "string",
	TokenBacktick:      "backtick string",
	TokenHeredoc:       "heredoc",
	TokenNowdoc:        "nowdoc",
	TokenVariable:      "variable",
	TokenDollar:        "'$'",
	TokenIdent:         "identifier",

	TokenPlus:           "'+'",
	TokenMinus:          "'-'",
	TokenStar:           "'*'",
	TokenSlash:          "'/'",
	TokenPercent:        "'%'",
	TokenStarStar:       "'**'",
	TokenDot:            "'.'",
	TokenAssign:         "'='",
	TokenPlusAssign:     "'+='",
	TokenMinusAssign:    "'-='",
	TokenMulAssign:      "'*='",
	TokenDivAssign:      "'/='",
	TokenModAssign:      "'%='",
	TokenPowAssign:      "'**='",
	TokenConcatAssign:   "'.='",
	TokenAndAssign:      "'&='",
	TokenOrAssign:       "'|='",
	TokenXorAssign:      "'^='",
	TokenShlAssign:      "'<<='",
	TokenShrAssign:      "'>>='",
	TokenCoalesceAssign: "'??='",
	TokenEqual:          "'=='",
	TokenNotEqual:       "'!='",
	TokenIdentical:      "'==='",
	TokenNotIdentical:   "'!=='",
	TokenLess:           "'<'",
	TokenGreater:        "'>'",
	TokenLessEqual:      "'<='",
	TokenGreaterEqual:   "'>='",
	TokenSpaceship:      "'<=>'",
	TokenAndAnd:         "'&&'",
	TokenOrOr:           "'||'",
	TokenBang:           "'!'",
	TokenAmp:            "'&'",
	TokenPipe:           "'|'",
	TokenCaret:          "'^'",
	TokenTilde:          "'~'",
	TokenShl:            "'<<'",
	TokenShr:            "'>>'",
	TokenInc:            "'++'",
	TokenDec:            "'--'",
	TokenQuestion:       "'?'",
	TokenCoalesce:       "'??'",
	TokenColon:          "':'",
	TokenDoubleArrow:    "'=>'",
	TokenPipeArrow:      "'|>'",

	TokenLParen:        "'('",
	TokenRParen:        "')'",
	TokenLBracket:      "'['",
	TokenRBracket:      "']'",
	TokenLBrace:        "'{'",
	TokenRBrace:        "'}'",
	TokenSemicolon:     "';'",
	TokenComma:         "','",
	TokenDoubleColon:   "'::'",
	TokenArrow:         "'->'",
	TokenNullsafeArrow: "'?->'",
	TokenBackslash:     `'\'`,
	TokenAt:            "'@'",
	TokenAttrOpen:      "'#['",
	TokenEllipsis:      "'...'",
}

func init() {
	for word, kind := range keywords {
		tokenKindNames[kind] = "'" + word + "'"
	}
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}
