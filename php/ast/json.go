package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"sync"

	"github.com/iancoleman/strcase"
)

// FprintJSON writes node as indented JSON. Every node becomes an object whose
// first keys are "kind" (the Go type name) and "span", followed by the node's
// fields in declaration order under snake_case keys. Enumerations are written
// by name, so the output is stable across runs and suitable for diffing.
func FprintJSON(w io.Writer, node Node) error {
	data, err := MarshalJSON(node)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// MarshalJSON encodes node in the FprintJSON format.
func MarshalJSON(node Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsonEncoder{buf: &buf}
	enc.value(reflect.ValueOf(node))
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indent ast json: %w", err)
	}
	return out.Bytes(), nil
}

var (
	nodeType     = reflect.TypeOf((*Node)(nil)).Elem()
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	spanType     = reflect.TypeOf(Span{})
	baseType     = reflect.TypeOf(Base{})
)

type jsonField struct {
	index int
	key   string
}

var fieldCache sync.Map // reflect.Type -> []jsonField

func fieldsOf(t reflect.Type) []jsonField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]jsonField)
	}
	var fields []jsonField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == baseType {
			continue
		}
		fields = append(fields, jsonField{index: i, key: strcase.ToSnake(f.Name)})
	}
	fieldCache.Store(t, fields)
	return fields
}

type jsonEncoder struct {
	buf *bytes.Buffer
}

func (e *jsonEncoder) value(v reflect.Value) {
	switch v.Kind() {
	case reflect.Invalid:
		e.buf.WriteString("null")
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			e.buf.WriteString("null")
			return
		}
		if v.Kind() == reflect.Pointer && v.Type().Implements(nodeType) {
			e.node(v)
			return
		}
		e.value(v.Elem())
	case reflect.Struct:
		if v.Type() == spanType {
			e.span(v.Interface().(Span))
			return
		}
		e.buf.WriteByte('{')
		e.fields(v, false)
		e.buf.WriteByte('}')
	case reflect.Slice:
		e.buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.value(v.Index(i))
		}
		e.buf.WriteByte(']')
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type().Implements(stringerType) {
			e.str(v.Interface().(fmt.Stringer).String())
			return
		}
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsInf(f, 1):
			e.str("INF")
		case math.IsInf(f, -1):
			e.str("-INF")
		case math.IsNaN(f):
			e.str("NAN")
		default:
			e.buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.String:
		e.str(v.String())
	default:
		e.str(fmt.Sprint(v.Interface()))
	}
}

func (e *jsonEncoder) node(v reflect.Value) {
	n := v.Interface().(Node)
	elem := v.Elem()
	e.buf.WriteString(`{"kind":`)
	e.str(elem.Type().Name())
	e.buf.WriteString(`,"span":`)
	e.span(n.Span())
	e.fields(elem, true)
	e.buf.WriteByte('}')
}

func (e *jsonEncoder) fields(v reflect.Value, leadingComma bool) {
	for i, f := range fieldsOf(v.Type()) {
		if i > 0 || leadingComma {
			e.buf.WriteByte(',')
		}
		e.str(f.key)
		e.buf.WriteByte(':')
		e.value(v.Field(f.index))
	}
}

func (e *jsonEncoder) span(s Span) {
	fmt.Fprintf(e.buf, `{"start":%d,"end":%d}`, s.Start, s.End)
}

func (e *jsonEncoder) str(s string) {
	data, _ := json.Marshal(s)
	e.buf.Write(data)
}
