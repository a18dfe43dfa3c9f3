package rules

import (
	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/textbuf"
)

// SimpleRule matches the bracket or quote under the cursor through the
// core delimiter scanner. It recognizes nothing else, leaving keywords
// and tags to the rules registered ahead of it.
type SimpleRule struct{}

// NewSimpleRule returns the stateless simple rule.
func NewSimpleRule() *SimpleRule {
	return &SimpleRule{}
}

// GetTag reports the cursor position when it sits on a delimiter, unless
// the grammar's line-end suppression applies there.
func (r *SimpleRule) GetTag(env *match.Env) match.Tag {
	pos := env.Cursor.Position()
	if match.LineEndSuppressed(env, pos) {
		return nil
	}
	c, size := env.Doc.RuneAt(pos)
	if size == 0 {
		return nil
	}
	if !match.IsDelimiter(c) && !match.IsQuote(c) {
		return nil
	}
	return match.PosTag(pos)
}

// Jump delegates to the delimiter scanner. The count is ignored; a
// bracket has exactly one counterpart.
func (r *SimpleRule) Jump(env *match.Env, tag match.Tag, count int) (textbuf.Offset, bool) {
	dest, ok := match.ScanDelimiter(env)
	if !ok {
		return 0, false
	}
	env.Cursor.SetPosition(dest)
	return dest, true
}
