package format

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/jorgsowa/php-parser/php/ast"
	"github.com/jorgsowa/php-parser/php/parser"
)

// SExprEncoder prints the syntax tree as a fully parenthesized
// s-expression: `(Kind span :field value ...)`. Nil, empty and false
// fields are omitted and nested nodes are indented two spaces per level.
type SExprEncoder struct {
	w    io.Writer
	opts options
	res  *parser.Result
}

func NewSExprEncoder(w io.Writer, opts ...Option) *SExprEncoder {
	return &SExprEncoder{w: w, opts: newOptions(opts)}
}

func (e *SExprEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SExprEncoder) MarshalText() ([]byte, error) {
	p := sexpPrinter{}
	if e.opts.positions {
		p.lines = ast.NewLineIndex(e.res.Source)
	}
	p.value(reflect.ValueOf(e.res.Program), 0)
	p.sb.WriteByte('\n')
	return []byte(p.sb.String()), nil
}

var (
	nodeType     = reflect.TypeOf((*ast.Node)(nil)).Elem()
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	spanType     = reflect.TypeOf(ast.Span{})
	baseType     = reflect.TypeOf(ast.Base{})
)

type sexpPrinter struct {
	sb    strings.Builder
	lines *ast.LineIndex
}

func (p *sexpPrinter) newline(depth int) {
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat("  ", depth))
}

func (p *sexpPrinter) value(v reflect.Value, depth int) {
	switch v.Kind() {
	case reflect.Invalid:
		p.sb.WriteString("nil")
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			p.sb.WriteString("nil")
			return
		}
		if v.Kind() == reflect.Pointer && v.Type().Implements(nodeType) {
			p.node(v, depth)
			return
		}
		p.value(v.Elem(), depth)
	case reflect.Struct:
		if v.Type() == spanType {
			p.span(v.Interface().(ast.Span))
			return
		}
		p.sb.WriteByte('(')
		p.fields(v, depth+1, true)
		p.sb.WriteByte(')')
	case reflect.Slice:
		p.sb.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 && !isNode(v.Index(i)) {
				p.sb.WriteByte(' ')
			}
			p.value(v.Index(i), depth)
		}
		p.sb.WriteByte(']')
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type().Implements(stringerType) {
			p.sb.WriteString(v.Interface().(fmt.Stringer).String())
			return
		}
		p.sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsInf(f, 1):
			p.sb.WriteString("INF")
		case math.IsInf(f, -1):
			p.sb.WriteString("-INF")
		case math.IsNaN(f):
			p.sb.WriteString("NAN")
		default:
			p.sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	case reflect.Bool:
		p.sb.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.String:
		p.sb.WriteString(strconv.Quote(v.String()))
	default:
		fmt.Fprint(&p.sb, v.Interface())
	}
}

func (p *sexpPrinter) node(v reflect.Value, depth int) {
	if depth > 0 {
		p.newline(depth)
	}
	elem := v.Elem()
	p.sb.WriteByte('(')
	p.sb.WriteString(elem.Type().Name())
	p.sb.WriteByte(' ')
	p.span(v.Interface().(ast.Node).Span())
	p.fields(elem, depth+1, false)
	p.sb.WriteByte(')')
}

func (p *sexpPrinter) fields(v reflect.Value, depth int, first bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == baseType {
			continue
		}
		fv := v.Field(i)
		if omit(fv) {
			continue
		}
		if !first {
			p.sb.WriteByte(' ')
		}
		first = false
		p.sb.WriteByte(':')
		p.sb.WriteString(strcase.ToKebab(f.Name))
		if !isNode(fv) {
			p.sb.WriteByte(' ')
		}
		p.value(fv, depth)
	}
}

// isNode reports whether v holds a non-nil node, which the printer starts
// on a fresh line.
func isNode(v reflect.Value) bool {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	return v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Implements(nodeType)
}

func omit(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	case reflect.Slice:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.String:
		return v.Len() == 0
	}
	return false
}

func (p *sexpPrinter) span(s ast.Span) {
	if p.lines != nil {
		p.sb.WriteString(p.lines.Position(s.Start).String())
		p.sb.WriteByte('-')
		p.sb.WriteString(p.lines.Position(s.End).String())
		return
	}
	p.sb.WriteString(s.String())
}
