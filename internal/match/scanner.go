package match

import (
	"github.com/dshills/matchkit/internal/classify"
	"github.com/dshills/matchkit/internal/textbuf"
)

// lineEndGuard is the byte distance from the end of a line at or inside
// which matching is suppressed for suppression-listed grammars. Trailing
// content after a string literal confuses classification at the last
// column, so the scanner declines there instead of risking a wrong jump.
const lineEndGuard = 1

// counterpartOf returns the counterpart delimiter and scan direction for
// a bracket rune. Quote characters are handled separately because open
// and close use the same glyph.
func counterpartOf(r rune) (rune, bool, bool) {
	switch r {
	case '(':
		return ')', true, true
	case ')':
		return '(', false, true
	case '[':
		return ']', true, true
	case ']':
		return '[', false, true
	case '{':
		return '}', true, true
	case '}':
		return '{', false, true
	}
	return 0, false, false
}

// IsDelimiter reports whether r is in the delimiter pair table.
func IsDelimiter(r rune) bool {
	_, _, ok := counterpartOf(r)
	return ok
}

// IsQuote reports whether r is a designated quote character.
func IsQuote(r rune) bool {
	switch r {
	case '"', '\'', '`':
		return true
	}
	return false
}

// LineEndSuppressed reports whether matching must be declined at pos
// because the grammar is suppression-listed and the cursor sits at the
// final column of its line.
func LineEndSuppressed(env *Env, pos textbuf.Offset) bool {
	if !env.Opts.LineEndSuppress[env.Grammar] {
		return false
	}
	return pos >= env.Doc.LineEndAt(pos)-lineEndGuard
}

// ScanDelimiter locates the counterpart of the bracket or quote under the
// cursor and returns the adjusted destination offset. It does not move
// the cursor; callers apply the motion on success.
func ScanDelimiter(env *Env) (textbuf.Offset, bool) {
	pos := env.Cursor.Position()
	if LineEndSuppressed(env, pos) {
		return 0, false
	}

	r, size := env.Doc.RuneAt(pos)
	if size == 0 {
		return 0, false
	}

	if counterpart, forward, ok := counterpartOf(r); ok {
		var m textbuf.Offset
		var found bool
		switch cl := env.Classifier.ClassAt(pos); {
		case cl.IsComment():
			m, found = scanSameClass(env, pos, r, counterpart, forward, classify.ClassComment)
		case cl.IsString():
			m, found = scanSameClass(env, pos, r, counterpart, forward, classify.ClassString)
		default:
			m, found = scanBalanced(env, pos, r, counterpart, forward)
		}
		if !found {
			return 0, false
		}
		return adjustMatch(env, m, forward), true
	}

	if IsQuote(r) {
		m, forward, found := scanQuote(env, pos, r)
		if !found {
			return 0, false
		}
		return adjustMatch(env, m, forward), true
	}

	return 0, false
}

// adjustMatch applies the directional off-by-one correction: forward
// matches resolve one past the matched rune in character-selecting mode
// and exactly on it otherwise; backward matches resolve exactly on it.
// Both ends of a region then read as "just after the included content".
func adjustMatch(env *Env, m textbuf.Offset, forward bool) textbuf.Offset {
	if forward && env.CharSelecting {
		if _, size := env.Doc.RuneAt(m); size > 0 {
			return m + textbuf.Offset(size)
		}
	}
	return m
}

// scanBalanced walks from the rune adjacent to start in the given
// direction, tracking nesting depth: occurrences of same deepen it,
// occurrences of counterpart close it. Positions classified as comment or
// string never participate in the count. Returns the offset where depth
// reaches zero, or failure on imbalance.
func scanBalanced(env *Env, start textbuf.Offset, same, counterpart rune, forward bool) (textbuf.Offset, bool) {
	doc := env.Doc
	depth := 1

	if forward {
		_, size := doc.RuneAt(start)
		pos := start + textbuf.Offset(size)
		for pos < doc.Len() {
			r, size := doc.RuneAt(pos)
			if size == 0 {
				break
			}
			if cl := env.Classifier.ClassAt(pos); !cl.IsComment() && !cl.IsString() {
				switch r {
				case same:
					depth++
				case counterpart:
					depth--
					if depth == 0 {
						return pos, true
					}
				}
			}
			pos += textbuf.Offset(size)
		}
		return 0, false
	}

	pos := start
	for pos > 0 {
		r, size := doc.RuneBefore(pos)
		if size == 0 {
			break
		}
		pos -= textbuf.Offset(size)
		if cl := env.Classifier.ClassAt(pos); cl.IsComment() || cl.IsString() {
			continue
		}
		switch r {
		case same:
			depth++
		case counterpart:
			depth--
			if depth == 0 {
				return pos, true
			}
		}
	}
	return 0, false
}

// scanSameClass is the linear walk used when the starting delimiter is
// itself inside a comment or string: it counts occurrences of same (+1)
// and counterpart (-1) rune by rune in the scan direction, considering
// only positions carrying the wanted classification, and ends where the
// level reaches zero. Reaching the buffer boundary first is a failure.
// The walk includes the starting position, so the level opens at one.
func scanSameClass(env *Env, start textbuf.Offset, same, counterpart rune, forward bool, want classify.Class) (textbuf.Offset, bool) {
	doc := env.Doc
	level := 0

	if forward {
		pos := start
		for pos < doc.Len() {
			r, size := doc.RuneAt(pos)
			if size == 0 {
				break
			}
			if env.Classifier.ClassAt(pos).Has(want) {
				switch r {
				case same:
					level++
				case counterpart:
					level--
					if level == 0 {
						return pos, true
					}
				}
			}
			pos += textbuf.Offset(size)
		}
		return 0, false
	}

	pos := start
	for {
		r, size := doc.RuneAt(pos)
		if size != 0 && env.Classifier.ClassAt(pos).Has(want) {
			switch r {
			case same:
				level++
			case counterpart:
				level--
				if level == 0 {
					return pos, true
				}
			}
		}
		if pos <= 0 {
			break
		}
		_, prevSize := doc.RuneBefore(pos)
		if prevSize == 0 {
			break
		}
		pos -= textbuf.Offset(prevSize)
	}
	return 0, false
}

// scanQuote resolves the counterpart of the quote rune under the cursor.
// Classification infers the direction: string content following the
// cursor means the quote opens a literal, content preceding it means it
// closes one. The walk lands on the first identical quote rune at which
// the string classification ends in the scan direction, not on a raw
// occurrence count, so escaped quotes inside the literal are passed over.
// Returns the match offset, the scan direction, and success.
func scanQuote(env *Env, pos textbuf.Offset, q rune) (textbuf.Offset, bool, bool) {
	doc := env.Doc
	_, size := doc.RuneAt(pos)
	after := pos + textbuf.Offset(size)

	stringAfter := after < doc.Len() && env.Classifier.ClassAt(after).IsString()
	stringBefore := false
	if _, ps := doc.RuneBefore(pos); ps > 0 {
		stringBefore = env.Classifier.ClassAt(pos - textbuf.Offset(ps)).IsString()
	}

	switch {
	case stringAfter:
		// Opening quote: forward to the quote the string ends at.
		p := after
		for p < doc.Len() {
			r, s := doc.RuneAt(p)
			if s == 0 {
				break
			}
			next := p + textbuf.Offset(s)
			if r == q && env.Classifier.ClassAt(p).IsString() &&
				(next >= doc.Len() || !env.Classifier.ClassAt(next).IsString()) {
				return p, true, true
			}
			p = next
		}

	case stringBefore:
		// Closing quote: backward to the quote the string begins at.
		p := pos
		for p > 0 {
			_, s := doc.RuneBefore(p)
			if s == 0 {
				break
			}
			p -= textbuf.Offset(s)
			r, _ := doc.RuneAt(p)
			if r != q || !env.Classifier.ClassAt(p).IsString() {
				continue
			}
			_, ps := doc.RuneBefore(p)
			if ps == 0 || !env.Classifier.ClassAt(p-textbuf.Offset(ps)).IsString() {
				return p, false, true
			}
		}
	}
	return 0, false, false
}
