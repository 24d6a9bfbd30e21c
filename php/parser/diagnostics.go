package parser

import (
	"errors"
	"fmt"

	"github.com/jorgsowa/php-parser/php/ast"
)

// ErrorKind classifies a Diagnostic. The set is closed.
type ErrorKind int

const (
	ErrorExpected ErrorKind = iota
	ErrorUnexpected
	ErrorExpectedExpression
	ErrorExpectedStatement
	ErrorExpectedOpenTag
	ErrorUnterminatedString
	ErrorExpectedAfter
	ErrorUnclosed
	ErrorForbidden
)

var errorKindNames = [...]string{
	"Expected",
	"Unexpected",
	"ExpectedExpression",
	"ExpectedStatement",
	"ExpectedOpenTag",
	"UnterminatedString",
	"ExpectedAfter",
	"UnclosedDelimiter",
	"Forbidden",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return "Unknown"
	}
	return errorKindNames[k]
}

// Sentinels returned by Diagnostic.Unwrap, one per ErrorKind.
var (
	ErrExpected           = errors.New("expected token")
	ErrUnexpected         = errors.New("unexpected token")
	ErrExpectedExpression = errors.New("expected expression")
	ErrExpectedStatement  = errors.New("expected statement")
	ErrExpectedOpenTag    = errors.New("expected opening PHP tag")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrExpectedAfter      = errors.New("expected token after construct")
	ErrUnclosed           = errors.New("unclosed delimiter")
	ErrForbidden          = errors.New("forbidden construct")
)

var kindSentinels = [...]error{
	ErrExpected,
	ErrUnexpected,
	ErrExpectedExpression,
	ErrExpectedStatement,
	ErrExpectedOpenTag,
	ErrUnterminatedString,
	ErrExpectedAfter,
	ErrUnclosed,
	ErrForbidden,
}

// Diagnostic is one problem found while lexing or parsing. Which fields are
// meaningful depends on Kind.
type Diagnostic struct {
	Kind ErrorKind
	Span ast.Span
	File string

	Expected  string
	Found     TokenKind
	After     string
	Delimiter string
	OpenedAt  ast.Span
	Message   string
}

func (d *Diagnostic) Error() string {
	switch d.Kind {
	case ErrorExpected:
		return fmt.Sprintf("expected %s, found %s", d.Expected, d.Found)
	case ErrorUnexpected:
		return fmt.Sprintf("unexpected token %s", d.Found)
	case ErrorExpectedExpression:
		return "expected expression"
	case ErrorExpectedStatement:
		return "expected statement"
	case ErrorExpectedOpenTag:
		return "expected opening PHP tag"
	case ErrorUnterminatedString:
		return "unterminated string literal"
	case ErrorExpectedAfter:
		return fmt.Sprintf("expected %s after %s", d.Expected, d.After)
	case ErrorUnclosed:
		return fmt.Sprintf("unclosed %s opened at %s", d.Delimiter, d.OpenedAt)
	}
	return d.Message
}

func (d *Diagnostic) Unwrap() error {
	if d.Kind < 0 || int(d.Kind) >= len(kindSentinels) {
		return nil
	}
	return kindSentinels[d.Kind]
}

// Diagnostics is an ordered list of problems.
type Diagnostics []*Diagnostic

// Err returns the list as a joined error, or nil when it is empty.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}
