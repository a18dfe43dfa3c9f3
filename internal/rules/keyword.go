package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/textbuf"
)

// ErrEmptyRow reports a keyword row without both open and close words.
var ErrEmptyRow = errors.New("keyword row missing open or close words")

// Row declares one family of block keywords for a grammar: words that
// open a block, optional words that continue it at the same depth, and
// words that close it.
type Row struct {
	Open   []string
	Middle []string
	Close  []string
}

const (
	kindOpen = iota
	kindMiddle
	kindClose
)

// compiledRow holds the line-anchored patterns for one Row. Only
// keywords leading a line count; postfix forms ("return if x") never
// open or close a block.
type compiledRow struct {
	open   *regexp.Regexp
	middle *regexp.Regexp
	close  *regexp.Regexp
}

// keywordTag records the keyword occurrence a jump starts from.
type keywordTag struct {
	row   int
	kind  int
	start textbuf.Offset
	end   textbuf.Offset
}

func (t keywordTag) Start() textbuf.Offset { return t.start }

// KeywordRule matches block keywords across lines: an opening keyword
// jumps forward to the block's next middle or its close, a middle jumps
// onward, a closing keyword jumps back to its opener. Nesting is tracked
// per row.
type KeywordRule struct {
	rows []compiledRow
}

// NewKeywordRule compiles the rows. Every row needs at least one open
// and one close word; middles are optional.
func NewKeywordRule(rows []Row) (*KeywordRule, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("compile keyword rule: %w", ErrEmptyRow)
	}
	compiled := make([]compiledRow, 0, len(rows))
	for i, row := range rows {
		if len(row.Open) == 0 || len(row.Close) == 0 {
			return nil, fmt.Errorf("compile keyword row %d: %w", i, ErrEmptyRow)
		}
		compiled = append(compiled, compiledRow{
			open:   compileWords(row.Open),
			middle: compileWords(row.Middle),
			close:  compileWords(row.Close),
		})
	}
	return &KeywordRule{rows: compiled}, nil
}

// compileWords builds the line-anchored alternation for a word set, or
// nil for an empty set.
func compileWords(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`^\s*(` + strings.Join(quoted, "|") + `)\b`)
}

// GetTag reports the row keyword leading the cursor's line when the
// cursor sits on it or before it. Keyword lines inside comments or
// strings are not recognized.
func (r *KeywordRule) GetTag(env *match.Env) match.Tag {
	pos := env.Cursor.Position()
	tag, ok := r.matchLine(env, env.Doc.LineStartAt(pos))
	if !ok || pos >= tag.end {
		return nil
	}
	return tag
}

// Jump resolves the tag's counterpart count times and moves the cursor
// to the last landing. In character-selecting mode a net-forward jump
// lands one past the keyword so the region includes it.
func (r *KeywordRule) Jump(env *match.Env, tag match.Tag, count int) (textbuf.Offset, bool) {
	t, ok := tag.(keywordTag)
	if !ok {
		return 0, false
	}
	if count < 1 {
		count = 1
	}

	cur := t
	for i := 0; i < count; i++ {
		next, ok := r.resolve(env, cur)
		if !ok {
			return 0, false
		}
		cur = next
	}

	dest := cur.start
	if env.CharSelecting && cur.start > t.start {
		dest = cur.end
	}
	env.Cursor.SetPosition(dest)
	return dest, true
}

// resolve finds the counterpart of one keyword occurrence.
func (r *KeywordRule) resolve(env *match.Env, t keywordTag) (keywordTag, bool) {
	if t.kind == kindClose {
		return r.scanBackward(env, t)
	}
	return r.scanForward(env, t)
}

// scanForward walks the following lines for the next same-depth middle
// or the block's close. Opens of the same row deepen the nesting; their
// closes shallow it again.
func (r *KeywordRule) scanForward(env *match.Env, t keywordTag) (keywordTag, bool) {
	depth := 0
	for lineStart := nextLineStart(env.Doc, t.start); lineStart >= 0; lineStart = nextLineStart(env.Doc, lineStart) {
		k, ok := r.matchRowLine(env, lineStart, t.row)
		if !ok {
			continue
		}
		switch k.kind {
		case kindOpen:
			depth++
		case kindMiddle:
			if depth == 0 {
				return k, true
			}
		case kindClose:
			if depth == 0 {
				return k, true
			}
			depth--
		}
	}
	return keywordTag{}, false
}

// scanBackward walks the preceding lines for the opener of the block a
// close terminates. Middles never stop a backward scan.
func (r *KeywordRule) scanBackward(env *match.Env, t keywordTag) (keywordTag, bool) {
	depth := 0
	for lineStart := prevLineStart(env.Doc, t.start); lineStart >= 0; lineStart = prevLineStart(env.Doc, lineStart) {
		k, ok := r.matchRowLine(env, lineStart, t.row)
		if !ok {
			continue
		}
		switch k.kind {
		case kindClose:
			depth++
		case kindOpen:
			if depth == 0 {
				return k, true
			}
			depth--
		}
	}
	return keywordTag{}, false
}

// matchLine tries every row against the line at lineStart and returns
// the first keyword occurrence.
func (r *KeywordRule) matchLine(env *match.Env, lineStart textbuf.Offset) (keywordTag, bool) {
	for row := range r.rows {
		if k, ok := r.matchRowLine(env, lineStart, row); ok {
			return k, true
		}
	}
	return keywordTag{}, false
}

// matchRowLine matches one row's patterns against the line at lineStart.
// A keyword occurrence classified as comment or string disqualifies the
// line.
func (r *KeywordRule) matchRowLine(env *match.Env, lineStart textbuf.Offset, row int) (keywordTag, bool) {
	text := env.Doc.TextRange(lineStart, env.Doc.LineEndAt(lineStart))
	cr := r.rows[row]

	for _, cand := range []struct {
		kind int
		re   *regexp.Regexp
	}{
		{kindOpen, cr.open},
		{kindMiddle, cr.middle},
		{kindClose, cr.close},
	} {
		if cand.re == nil {
			continue
		}
		loc := cand.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		start := lineStart + textbuf.Offset(loc[2])
		if cl := env.Classifier.ClassAt(start); cl.IsComment() || cl.IsString() {
			return keywordTag{}, false
		}
		return keywordTag{
			row:   row,
			kind:  cand.kind,
			start: start,
			end:   lineStart + textbuf.Offset(loc[3]),
		}, true
	}
	return keywordTag{}, false
}

// nextLineStart returns the start of the line after the one containing
// pos, or -1 at the last line.
func nextLineStart(doc match.Document, pos textbuf.Offset) textbuf.Offset {
	end := doc.LineEndAt(pos)
	if end >= doc.Len() {
		return -1
	}
	return end + 1
}

// prevLineStart returns the start of the line before the one containing
// pos, or -1 at the first line.
func prevLineStart(doc match.Document, pos textbuf.Offset) textbuf.Offset {
	start := doc.LineStartAt(pos)
	if start <= 0 {
		return -1
	}
	return doc.LineStartAt(start - 1)
}
