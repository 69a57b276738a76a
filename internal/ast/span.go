package ast

import (
	"fmt"
	"strings"
)

// Span is an immutable source-location record. It carries the full text
// of the line(s) it covers plus a (start, end) line and column range, so
// a diagnostic can be rendered without re-reading the source file.
type Span struct {
	LineText  string
	LineStart int
	LineEnd   int
	ColStart  int
	ColEnd    int
}

// NoSpan is the empty span used for synthesized nodes (built-ins, the
// root scope's implicit declarations) that have no source position.
var NoSpan = Span{}

// IsZero reports whether this is a synthesized, position-less span.
func (s Span) IsZero() bool {
	return s.LineText == "" && s.LineStart == 0 && s.LineEnd == 0
}

// Snippet renders the "At file:line:col" header, the offending line, and
// a caret run under [ColStart, ColEnd). file is the process-wide source
// filename (see config.FileName).
func (s Span) Snippet(file string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "At %s:%d:%d\n\n", file, s.LineStart, s.ColStart)
	b.WriteString(s.LineText)
	b.WriteByte('\n')

	width := s.ColEnd - s.ColStart
	if width < 1 {
		width = 1
	}
	if s.ColStart > 1 {
		b.WriteString(strings.Repeat(" ", s.ColStart-1))
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}
