package ast

import (
	"fmt"
	"sort"
)

// Span is a half-open [Start, End) byte range into the parsed source.
type Span struct {
	Start int
	End   int
}

// NoSpan marks synthesized nodes that have no source text.
var NoSpan = Span{}

func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, End: end}
}

// Merge returns the smallest span containing both s and o.
func (s Span) Merge(o Span) Span {
	start, end := s.Start, s.End
	if o.Start < start {
		start = o.Start
	}
	if o.End > end {
		end = o.End
	}
	return Span{Start: start, End: end}
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) IsZero() bool { return s == NoSpan }

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// Text slices src by the span, clamping to the bounds of src.
func (s Span) Text(src []byte) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start >= end {
		return ""
	}
	return string(src[start:end])
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position is a 1-based line and column. Columns count bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex maps byte offsets to line/column positions. Spans never store
// lines; consumers build an index once per source and query it.
type LineIndex struct {
	starts []int
}

func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

func (li *LineIndex) Position(offset int) Position {
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line + 1, Column: offset - li.starts[line] + 1}
}

// Offset is the inverse of Position. Out-of-range lines clamp to the last line.
func (li *LineIndex) Offset(pos Position) int {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	if line >= len(li.starts) {
		line = len(li.starts) - 1
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	return li.starts[line] + col
}

func (li *LineIndex) Lines() int { return len(li.starts) }
