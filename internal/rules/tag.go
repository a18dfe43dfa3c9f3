package rules

import (
	"regexp"
	"strings"

	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/textbuf"
)

// elementPattern matches one markup element: optional closing slash,
// name, attributes, optional self-closing slash. Declarations and
// comments fail the name position and are never candidates.
var elementPattern = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9:_.-]*)([^<>]*?)(/?)>`)

// voidElements are HTML elements that never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// elementTag records the markup element a jump starts from. start sits
// on the '<', end one past the '>'.
type elementTag struct {
	name    string
	closing bool
	start   textbuf.Offset
	end     textbuf.Offset
}

func (t elementTag) Start() textbuf.Offset { return t.start }

// TagRule matches markup elements: an opening tag jumps to the closing
// tag of the same name at the same nesting depth and back. Self-closing
// and void elements are not matchable.
type TagRule struct{}

// NewTagRule returns the stateless markup tag rule.
func NewTagRule() *TagRule {
	return &TagRule{}
}

// GetTag reports the element on the cursor's line that contains the
// cursor or follows it. Commented elements, quoted elements, and
// self-closing forms are passed over.
func (r *TagRule) GetTag(env *match.Env) match.Tag {
	pos := env.Cursor.Position()
	lineStart := env.Doc.LineStartAt(pos)
	text := env.Doc.TextRange(lineStart, env.Doc.LineEndAt(pos))

	for _, loc := range elementPattern.FindAllStringSubmatchIndex(text, -1) {
		start := lineStart + textbuf.Offset(loc[0])
		end := lineStart + textbuf.Offset(loc[1])
		if end <= pos {
			continue
		}
		name := text[loc[4]:loc[5]]
		if loc[9] > loc[8] || voidElements[strings.ToLower(name)] {
			continue
		}
		if cl := env.Classifier.ClassAt(start); cl.IsComment() || cl.IsString() {
			continue
		}
		return elementTag{
			name:    name,
			closing: loc[3] > loc[2],
			start:   start,
			end:     end,
		}
	}
	return nil
}

// Jump resolves the element's counterpart count times and moves the
// cursor to the last landing. Selecting forward lands one past the
// counterpart's '>'.
func (r *TagRule) Jump(env *match.Env, tag match.Tag, count int) (textbuf.Offset, bool) {
	t, ok := tag.(elementTag)
	if !ok {
		return 0, false
	}
	if count < 1 {
		count = 1
	}

	re := nameElementPattern(t.name)
	cur := t
	for i := 0; i < count; i++ {
		next, ok := r.resolve(env, re, cur)
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

// nameElementPattern builds the occurrence pattern for one element name,
// case-insensitive to pair <DIV> with </div>.
func nameElementPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<(/?)` + regexp.QuoteMeta(name) + `\b([^<>]*?)(/?)>`)
}

// resolve finds the same-depth counterpart of one element occurrence by
// walking every occurrence of its name in the document.
func (r *TagRule) resolve(env *match.Env, re *regexp.Regexp, t elementTag) (elementTag, bool) {
	doc := env.Doc
	text := doc.TextRange(0, doc.Len())

	matches := re.FindAllStringSubmatchIndex(text, -1)
	self := -1
	for i, loc := range matches {
		if textbuf.Offset(loc[0]) == t.start {
			self = i
			break
		}
	}
	if self < 0 {
		return elementTag{}, false
	}

	occurrence := func(loc []int) (elementTag, bool) {
		start := textbuf.Offset(loc[0])
		if cl := env.Classifier.ClassAt(start); cl.IsComment() || cl.IsString() {
			return elementTag{}, false
		}
		if loc[7] > loc[6] {
			return elementTag{}, false
		}
		return elementTag{
			name:    t.name,
			closing: loc[3] > loc[2],
			start:   start,
			end:     textbuf.Offset(loc[1]),
		}, true
	}

	depth := 0
	if t.closing {
		for i := self - 1; i >= 0; i-- {
			occ, ok := occurrence(matches[i])
			if !ok {
				continue
			}
			if occ.closing {
				depth++
				continue
			}
			if depth == 0 {
				return occ, true
			}
			depth--
		}
		return elementTag{}, false
	}

	for i := self + 1; i < len(matches); i++ {
		occ, ok := occurrence(matches[i])
		if !ok {
			continue
		}
		if !occ.closing {
			depth++
			continue
		}
		if depth == 0 {
			return occ, true
		}
		depth--
	}
	return elementTag{}, false
}
