package format

import (
	"encoding/json"
	"io"

	"github.com/jorgsowa/php-parser/php/ast"
	"github.com/jorgsowa/php-parser/php/parser"
)

// ASTJSONEncoder writes the syntax tree and the diagnostics of a parse as
// one JSON document.
type ASTJSONEncoder struct {
	w    io.Writer
	opts options
	res  *parser.Result
}

func NewASTJSONEncoder(w io.Writer, opts ...Option) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, opts: newOptions(opts)}
}

func (e *ASTJSONEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

type astJSONDocument struct {
	File        string           `json:"file,omitempty"`
	Program     json.RawMessage  `json:"program"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	program, err := ast.MarshalJSON(e.res.Program)
	if err != nil {
		return nil, err
	}
	var idx *ast.LineIndex
	if e.opts.positions {
		idx = ast.NewLineIndex(e.res.Source)
	}
	return json.MarshalIndent(astJSONDocument{
		File:        e.res.File,
		Program:     program,
		Diagnostics: buildDiagnostics(e.res, idx),
	}, "", "  ")
}
