package match

import (
	"github.com/dshills/matchkit/internal/textbuf"
)

// Region is a normalized byte span for selection or deletion. Start is
// inclusive, End exclusive, Start <= End. Inner records which adjustment
// produced it: inner regions exclude the lines carrying the delimiters,
// outer regions include them.
type Region struct {
	Start textbuf.Offset
	End   textbuf.Offset
	Inner bool
}

// Len returns the region length in bytes.
func (r Region) Len() textbuf.Offset {
	return r.End - r.Start
}

// IsEmpty reports whether the region spans no bytes.
func (r Region) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether other lies entirely within r.
func (r Region) Contains(other Region) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Region computes the span between the cursor's structural element and
// its counterpart, for the caller to select or delete. The jump runs in
// character-selecting mode so forward matches extend one past the
// matched rune; a backward jump symmetrically extends End one past the
// rune the cursor sat on, leaving both ends just after included content.
func (e *Engine) Region(env *Env, count int, inner bool) (Region, bool) {
	prevMode := env.CharSelecting
	env.CharSelecting = true
	defer func() { env.CharSelecting = prevMode }()

	begin := env.Cursor.Position()
	dest, ok := e.OperateOnItem(env, count, func(t Tag) {
		begin = t.Start()
	})
	if !ok {
		return Region{}, false
	}

	start, end := begin, dest
	if start > end {
		start = dest
		end = begin
		if _, size := env.Doc.RuneAt(end); size > 0 {
			end += textbuf.Offset(size)
		}
	}

	doc := env.Doc
	if inner {
		// Drop the opening token's line and, unless the grammar keeps
		// the closing line as content, the closing token's line.
		openEnd := doc.LineEndAt(start)
		if openEnd < doc.Len() {
			start = openEnd + 1
		} else {
			start = openEnd
		}
		if !env.Opts.KeepClosingLine[env.Grammar] && end > 0 {
			closeStart := doc.LineStartAt(end - 1)
			if closeStart > 0 {
				end = closeStart - 1
			}
		}
		if end < start {
			end = start
		}
	} else {
		// A span whose first content is preceded only by indentation
		// absorbs that indentation.
		lineStart := doc.LineStartAt(start)
		if isBlank(doc.TextRange(lineStart, start)) {
			start = lineStart
		}
	}

	return Region{Start: start, End: end, Inner: inner}, true
}

// isBlank reports whether s contains only spaces and tabs.
func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}
