// Package parser provides a recovering, full-fidelity parser for PHP source
// code.
//
// # Overview
//
// A parse always runs to completion. It returns a syntax tree covering the
// whole file together with every diagnostic found on the way; malformed input
// yields Error nodes at the broken positions rather than a failed parse. The
// package is meant for editor tooling, linters and formatters where broken
// files are the common case.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│  (string)   │     │  ([]Token)  │     │ (ast.Node)  │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │   Lexer     │     │ Diagnostics │
//	                    │ diagnostics │────▶│ + Recovery  │
//	                    └─────────────┘     └─────────────┘
//
// The lexer switches between markup and code at `<?php`, `<?=` and `?>`.
// Statements are parsed by recursive descent; expressions by a Pratt loop
// driven by the binding powers in precedence.go. Double-quoted strings,
// backtick strings and heredocs are split into literal runs and embedded
// expressions; each embedded expression is parsed as a standalone fragment
// whose spans are shifted back to source offsets.
//
// # Usage
//
//	res := parser.ParseString(src, parser.WithFile("index.php"))
//	for _, d := range res.Errors {
//	    fmt.Println(d)
//	}
//	ast.Inspect(res.Program, func(n ast.Node) bool {
//	    ...
//	})
//
// # Error Recovery
//
// Problems never abort the parse. A missing token is reported and treated as
// present; an unparseable expression becomes an ast.ErrorExpr; an
// unparseable statement becomes an ast.ErrorStmt and the parser skips to the
// next statement boundary. Every diagnostic unwraps to a sentinel such as
// ErrUnclosed so callers can classify them with errors.Is.
//
// Nesting is bounded by WithMaxDepth. Past the limit one diagnostic is
// recorded and the rest of the file is skipped.
package parser
