package match

import (
	"github.com/dshills/matchkit/internal/classify"
	"github.com/dshills/matchkit/internal/textbuf"
)

// Document is the read surface of the text buffer the engine scans.
// Satisfied by *textbuf.Buffer.
type Document interface {
	Len() textbuf.Offset
	RuneAt(offset textbuf.Offset) (rune, int)
	RuneBefore(offset textbuf.Offset) (rune, int)
	LineStartAt(offset textbuf.Offset) textbuf.Offset
	LineEndAt(offset textbuf.Offset) textbuf.Offset
	TextRange(start, end textbuf.Offset) string
}

// Cursor is the mutable position the engine moves. Satisfied by
// *textbuf.Cursor.
type Cursor interface {
	Position() textbuf.Offset
	SetPosition(offset textbuf.Offset)
}

// Classifier answers whether an offset lies inside a comment or string
// literal. Satisfied by *classify.Context.
type Classifier interface {
	ClassAt(offset textbuf.Offset) classify.Class
}

// Env carries the collaborators for one navigation call. The engine and
// rules read the document and classifier, and move the cursor; nothing is
// retained once the call returns.
type Env struct {
	Doc        Document
	Cursor     Cursor
	Classifier Classifier

	// Grammar selects the rule list and per-grammar policies.
	Grammar string

	// CharSelecting marks character-selecting invocations (select and
	// delete). Forward matches then land one past the matched rune so the
	// resulting region includes it.
	CharSelecting bool

	// Opts is the engine configuration in effect for this call.
	Opts Options
}

// Tag is the opaque descriptor a rule returns from GetTag and receives
// back in its own Jump. The engine never inspects a Tag beyond Start,
// which reports where the matched element begins; the region resolver
// marks that offset before the cursor moves.
type Tag interface {
	Start() textbuf.Offset
}

// PosTag is the minimal Tag: a bare offset. The engine synthesizes one at
// the cursor position for the scanner fallback.
type PosTag textbuf.Offset

// Start returns the tagged offset.
func (t PosTag) Start() textbuf.Offset { return textbuf.Offset(t) }

// Rule is one grammar-specific matcher in a registry list.
//
// GetTag inspects the document around the cursor and returns a Tag when
// the rule recognizes a structural element there, or nil. It must not
// move the cursor or mutate the document.
//
// Jump performs the motion count times (count >= 1; a rule may jump once
// and ignore the rest), moving the cursor as its primary side effect, and
// returns the final destination. A false result reports failure.
type Rule interface {
	GetTag(env *Env) Tag
	Jump(env *Env, tag Tag, count int) (textbuf.Offset, bool)
}
