package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
	"github.com/jorgsowa/php-parser/php/parser"
)

// LineEncoder writes one diagnostic per line as `file:line:col: message`.
// A clean parse produces no output.
type LineEncoder struct {
	w   io.Writer
	res *parser.Result
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	idx := ast.NewLineIndex(e.res.Source)
	name := e.res.File
	if name == "" {
		name = "<stdin>"
	}
	for _, d := range e.res.Errors {
		pos := idx.Position(d.Span.Start)
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", name, pos.Line, pos.Column, d.Error())
	}
	return []byte(sb.String()), nil
}

// TokenEncoder lists the token stream, one token per line:
// kind, byte span (or line:col with positions) and quoted text, tab separated.
type TokenEncoder struct {
	w    io.Writer
	opts options
	res  *parser.Result
}

func NewTokenEncoder(w io.Writer, opts ...Option) *TokenEncoder {
	return &TokenEncoder{w: w, opts: newOptions(opts)}
}

func (e *TokenEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	tokens, _ := parser.Tokenize(e.res.Source)
	idx := ast.NewLineIndex(e.res.Source)
	for _, tok := range tokens {
		where := tok.Span.String()
		if e.opts.positions {
			where = idx.Position(tok.Span.Start).String()
		}
		fmt.Fprintf(&sb, "%s\t%s\t%q\n", tok.Kind, where, tok.Span.Text(e.res.Source))
	}
	return []byte(sb.String()), nil
}
