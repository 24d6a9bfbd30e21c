package codebase

import (
	"strings"

	"github.com/jorgsowa/php-parser/php/ast"
)

type SymbolKind int

const (
	SymbolNamespace SymbolKind = iota
	SymbolClass
	SymbolInterface
	SymbolTrait
	SymbolEnum
	SymbolFunction
	SymbolMethod
	SymbolProperty
	SymbolConstant
	SymbolEnumCase
)

var symbolKindNames = [...]string{
	"namespace", "class", "interface", "trait", "enum",
	"function", "method", "property", "constant", "case",
}

func (k SymbolKind) String() string {
	if k < 0 || int(k) >= len(symbolKindNames) {
		return "unknown"
	}
	return symbolKindNames[k]
}

// Symbol is one entry of a file outline. Path names the file that
// declares it.
type Symbol struct {
	Path      string
	Name      string
	Kind      SymbolKind
	Namespace string
	Detail    string
	Span      ast.Span
	Children  []*Symbol
}

// QualifiedName prefixes the name with its namespace.
func (s *Symbol) QualifiedName() string {
	if s.Namespace == "" || s.Kind == SymbolNamespace {
		return s.Name
	}
	return s.Namespace + `\` + s.Name
}

// Outline lists the declarations of a program. Declarations after an
// unbraced namespace statement are top-level symbols carrying that
// namespace; a braced namespace holds its declarations as children.
func Outline(prog *ast.Program) []*Symbol {
	o := &outliner{}
	return o.stmts(prog.Stmts)
}

type outliner struct {
	namespace string
}

func (o *outliner) stmts(stmts []ast.Stmt) []*Symbol {
	var out []*Symbol
	for _, s := range stmts {
		out = append(out, o.stmt(s)...)
	}
	return out
}

func (o *outliner) stmt(s ast.Stmt) []*Symbol {
	switch s := s.(type) {
	case *ast.Namespace:
		name := ""
		if s.Name != nil {
			name = s.Name.String()
		}
		o.namespace = name
		sym := &Symbol{Name: name, Kind: SymbolNamespace, Span: s.Span()}
		if sym.Name == "" {
			sym.Name = "(global)"
		}
		if s.Body != nil {
			sym.Children = o.stmts(s.Body.Stmts)
			o.namespace = ""
		}
		return []*Symbol{sym}
	case *ast.Block:
		return o.stmts(s.Stmts)
	case *ast.If:
		// Conditionally declared functions and classes.
		out := o.stmt(s.Then)
		for _, ei := range s.ElseIfs {
			out = append(out, o.stmt(ei.Body)...)
		}
		if s.Else != nil {
			out = append(out, o.stmt(s.Else)...)
		}
		return out
	case *ast.FunctionDecl:
		return []*Symbol{o.symbol(s.Name, SymbolFunction, s.Span(), signature(s.Params, s.ReturnType))}
	case *ast.ClassDecl:
		sym := o.symbol(s.Name, SymbolClass, s.Span(), classDetail(s))
		sym.Children = members(s.Members)
		return []*Symbol{sym}
	case *ast.InterfaceDecl:
		sym := o.symbol(s.Name, SymbolInterface, s.Span(), "")
		sym.Children = members(s.Members)
		return []*Symbol{sym}
	case *ast.TraitDecl:
		sym := o.symbol(s.Name, SymbolTrait, s.Span(), "")
		sym.Children = members(s.Members)
		return []*Symbol{sym}
	case *ast.EnumDecl:
		detail := ""
		if s.BackingType != nil {
			detail = ": " + typeString(s.BackingType)
		}
		sym := o.symbol(s.Name, SymbolEnum, s.Span(), detail)
		for _, m := range s.Members {
			if c, ok := m.(*ast.EnumCase); ok {
				sym.Children = append(sym.Children, &Symbol{Name: c.Name, Kind: SymbolEnumCase, Span: c.Span()})
				continue
			}
			if cm, ok := m.(ast.ClassMember); ok {
				sym.Children = append(sym.Children, members([]ast.ClassMember{cm})...)
			}
		}
		return []*Symbol{sym}
	case *ast.ConstStmt:
		var out []*Symbol
		for _, item := range s.Items {
			out = append(out, o.symbol(item.Name, SymbolConstant, item.Span(), ""))
		}
		return out
	}
	return nil
}

func (o *outliner) symbol(name string, kind SymbolKind, span ast.Span, detail string) *Symbol {
	return &Symbol{Name: name, Kind: kind, Namespace: o.namespace, Detail: detail, Span: span}
}

func members(list []ast.ClassMember) []*Symbol {
	var out []*Symbol
	for _, m := range list {
		switch m := m.(type) {
		case *ast.Method:
			detail := signature(m.Params, m.ReturnType)
			if m.Static {
				detail = "static " + detail
			}
			out = append(out, &Symbol{Name: m.Name, Kind: SymbolMethod, Detail: detail, Span: m.Span()})
			for _, p := range m.Params {
				if p.Promoted() {
					out = append(out, &Symbol{Name: "$" + p.Name, Kind: SymbolProperty, Detail: typeString(p.Type), Span: p.Span()})
				}
			}
		case *ast.Property:
			out = append(out, &Symbol{Name: "$" + m.Name, Kind: SymbolProperty, Detail: typeString(m.Type), Span: m.Span()})
		case *ast.ClassConst:
			out = append(out, &Symbol{Name: m.Name, Kind: SymbolConstant, Span: m.Span()})
		}
	}
	return out
}

func classDetail(c *ast.ClassDecl) string {
	var parts []string
	if c.Extends != nil {
		parts = append(parts, "extends "+c.Extends.String())
	}
	if len(c.Implements) > 0 {
		names := make([]string, len(c.Implements))
		for i, n := range c.Implements {
			names[i] = n.String()
		}
		parts = append(parts, "implements "+strings.Join(names, ", "))
	}
	return strings.Join(parts, " ")
}

func signature(params []*ast.Param, ret ast.TypeHint) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Type != nil {
			b.WriteString(typeString(p.Type))
			b.WriteByte(' ')
		}
		if p.ByRef {
			b.WriteByte('&')
		}
		if p.Variadic {
			b.WriteString("...")
		}
		b.WriteString("$" + p.Name)
	}
	b.WriteByte(')')
	if ret != nil {
		b.WriteString(": " + typeString(ret))
	}
	return b.String()
}

func typeString(t ast.TypeHint) string {
	switch t := t.(type) {
	case *ast.NamedType:
		return t.Name.String()
	case *ast.NullableType:
		return "?" + typeString(t.Inner)
	case *ast.UnionType:
		return joinTypes(t.Types, "|")
	case *ast.IntersectionType:
		return joinTypes(t.Types, "&")
	}
	return ""
}

func joinTypes(types []ast.TypeHint, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		s := typeString(t)
		if _, ok := t.(*ast.IntersectionType); ok && sep == "|" {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}
