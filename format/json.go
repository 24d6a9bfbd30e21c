package format

import (
	"github.com/jorgsowa/php-parser/php/ast"
	"github.com/jorgsowa/php-parser/php/parser"
)

type jsonSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonDiagnostic struct {
	Kind     string        `json:"kind"`
	Message  string        `json:"message"`
	Span     jsonSpan      `json:"span"`
	Start    *jsonPosition `json:"start,omitempty"`
	End      *jsonPosition `json:"end,omitempty"`
	OpenedAt *jsonSpan     `json:"opened_at,omitempty"`
}

func toJSONSpan(s ast.Span) jsonSpan {
	return jsonSpan{Start: s.Start, End: s.End}
}

func toJSONPosition(idx *ast.LineIndex, offset int) *jsonPosition {
	p := idx.Position(offset)
	return &jsonPosition{Line: p.Line, Column: p.Column}
}

func buildDiagnostics(res *parser.Result, idx *ast.LineIndex) []jsonDiagnostic {
	out := make([]jsonDiagnostic, len(res.Errors))
	for i, d := range res.Errors {
		jd := jsonDiagnostic{
			Kind:    d.Kind.String(),
			Message: d.Error(),
			Span:    toJSONSpan(d.Span),
		}
		if idx != nil {
			jd.Start = toJSONPosition(idx, d.Span.Start)
			jd.End = toJSONPosition(idx, d.Span.End)
		}
		if d.Kind == parser.ErrorUnclosed {
			opened := toJSONSpan(d.OpenedAt)
			jd.OpenedAt = &opened
		}
		out[i] = jd
	}
	return out
}
