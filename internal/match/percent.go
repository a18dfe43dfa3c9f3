package match

import (
	"github.com/dshills/matchkit/internal/textbuf"
)

// largeDocThreshold is the document size above which the percentage
// computation switches to the coarse per-hundredth formula, trading
// granularity for immunity to overflow on very large documents. The two
// formulas agree exactly at the threshold.
const largeDocThreshold = 80000

// JumpToPercentage moves the cursor to the offset p percent into the
// document, then to the first non-blank character of that line, and
// reports the final position. Arguments outside [1, 100] clamp silently.
func (e *Engine) JumpToPercentage(env *Env, p int) textbuf.Offset {
	if p < 1 {
		p = 1
	}
	if p > 100 {
		p = 100
	}

	doc := env.Doc
	size := doc.Len()

	var off textbuf.Offset
	if size <= largeDocThreshold {
		off = textbuf.Offset(p) * size / 100
	} else {
		off = textbuf.Offset(p) * (size / 100)
	}
	if off < 0 {
		off = 0
	}
	if off > size {
		off = size
	}

	off = firstNonBlank(doc, off)
	env.Cursor.SetPosition(off)
	return off
}

// firstNonBlank returns the offset of the first non-blank character on
// the line containing off, or the line start when the line is blank.
func firstNonBlank(doc Document, off textbuf.Offset) textbuf.Offset {
	start := doc.LineStartAt(off)
	end := doc.LineEndAt(off)

	pos := start
	for pos < end {
		r, size := doc.RuneAt(pos)
		if size == 0 {
			break
		}
		if r != ' ' && r != '\t' {
			return pos
		}
		pos += textbuf.Offset(size)
	}
	return start
}
