package classify

import "strings"

// Class is a bit set describing the classification of a text position.
// The zero value means plain code.
type Class uint8

// Classification bits.
const (
	ClassComment Class = 1 << iota
	ClassString
)

// ClassNone marks plain code.
const ClassNone Class = 0

// Has returns true if all bits of other are set.
func (c Class) Has(other Class) bool {
	return c&other == other
}

// IsComment returns true if the position is inside a comment.
func (c Class) IsComment() bool {
	return c&ClassComment != 0
}

// IsString returns true if the position is inside a string literal.
func (c Class) IsString() bool {
	return c&ClassString != 0
}

// String returns the string representation of the class.
func (c Class) String() string {
	if c == ClassNone {
		return "none"
	}
	var parts []string
	if c.IsComment() {
		parts = append(parts, "comment")
	}
	if c.IsString() {
		parts = append(parts, "string")
	}
	return strings.Join(parts, "|")
}

// Span is a classified run of bytes within a single line.
// Start is inclusive, End exclusive; both are byte columns.
type Span struct {
	Start int
	End   int
	Class Class
}

// Contains returns true if the column is within the span.
func (s Span) Contains(col int) bool {
	return col >= s.Start && col < s.End
}
