// Package position provides the source provenance carried by bound nodes.
// Lowering never inspects a span structurally; it only copies spans from the
// node being rewritten onto the nodes synthesized in its place.
package position

import (
	"fmt"
	"path/filepath"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the provenance token of a bound node. The zero Span marks a
// compiler-synthesized node with no source counterpart.
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// None is the span of synthesized nodes.
var None = Span{}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// IsSynthesized reports whether the span carries no source location.
func (s Span) IsSynthesized() bool {
	return s == None
}

// String returns a string representation of the span
func (s Span) String() string {
	if s.IsSynthesized() {
		return "<synthesized>"
	}

	if s.Start.Filename != "" {
		filename := filepath.Base(s.Start.Filename)
		if s.Start.Line == s.End.Line {
			return fmt.Sprintf("%s:%d:%d-%d", filename, s.Start.Line, s.Start.Column, s.End.Column)
		}
		return fmt.Sprintf("%s:%d:%d-%d:%d", filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
	}

	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Before reports whether p comes earlier in its file than q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	if p.Column != q.Column {
		return p.Column < q.Column
	}
	return p.Offset < q.Offset
}

// Union returns the smallest span covering s and other. Spans in different
// files do not combine; s is returned.
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	if s.Start.Filename != other.Start.Filename {
		return s
	}

	start, end := s.Start, s.End
	if other.Start.Before(start) {
		start = other.Start
	}
	if end.Before(other.End) {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Line builds a single-line span; it is mostly useful to tests and decoders.
func Line(filename string, line, startCol, endCol int) Span {
	return Span{
		Start: Position{Filename: filename, Line: line, Column: startCol},
		End:   Position{Filename: filename, Line: line, Column: endCol, Offset: endCol - startCol},
	}
}
