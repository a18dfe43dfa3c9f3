package app

import (
	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/textbuf"
)

// Status classifies a command outcome for the front ends.
type Status int

const (
	// StatusOK means the command completed.
	StatusOK Status = iota

	// StatusNoMatch means no structural counterpart was found and
	// nothing changed.
	StatusNoMatch

	// StatusError means the command could not run.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoMatch:
		return "no match"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result reports one command invocation. Position is the cursor after
// the command; Region is set by Select and Delete; Deleted carries the
// text Delete removed.
type Result struct {
	Status   Status
	Position textbuf.Offset
	Region   match.Region
	Deleted  string
	Err      error
}

// Failed reports whether the command had no effect.
func (r Result) Failed() bool {
	return r.Status != StatusOK
}

// Jump moves the cursor to the counterpart of the item at or after the
// cursor. A positive count repeats the jump, or, when percentage jumps
// are enabled, goes to count percent of the document instead. Failure
// leaves the cursor unmoved.
func (s *Session) Jump(doc *Document, count int) Result {
	if doc == nil {
		return Result{Status: StatusError, Err: ErrNoDocument}
	}

	env := s.env(doc)
	pos, ok := s.engine.JumpItem(env, count)
	if !ok {
		return Result{Status: StatusNoMatch, Position: doc.Cursor.Position(), Err: ErrNoMatch}
	}

	s.log.Debug("jump %s: -> %d", doc.Name, pos)
	return Result{Status: StatusOK, Position: pos}
}

// Counterpart reports where an item jump from the current position
// would land, without moving the cursor. The viewer uses it to
// highlight the matching element under the cursor.
func (s *Session) Counterpart(doc *Document) (textbuf.Offset, bool) {
	if doc == nil {
		return 0, false
	}

	env := s.env(doc)
	saved := doc.Cursor.Position()
	pos, ok := s.engine.OperateOnItem(env, 1, nil)
	doc.Cursor.SetPosition(saved)
	if !ok {
		return 0, false
	}
	return pos, true
}

// JumpPercent places the cursor at p percent of the document regardless
// of the percentage-jump toggle. Out-of-range arguments clamp silently.
func (s *Session) JumpPercent(doc *Document, p int) Result {
	if doc == nil {
		return Result{Status: StatusError, Err: ErrNoDocument}
	}

	env := s.env(doc)
	pos := s.engine.JumpToPercentage(env, p)
	s.log.Debug("percent %s: %d%% -> %d", doc.Name, p, pos)
	return Result{Status: StatusOK, Position: pos}
}

// Select computes the region between the item and its counterpart. The
// cursor lands on the far end of the match; the caller applies the
// selection. Failure leaves the cursor unmoved.
func (s *Session) Select(doc *Document, count int, inner bool) Result {
	if doc == nil {
		return Result{Status: StatusError, Err: ErrNoDocument}
	}

	env := s.env(doc)
	region, ok := s.engine.Region(env, count, inner)
	if !ok {
		return Result{Status: StatusNoMatch, Position: doc.Cursor.Position(), Err: ErrNoMatch}
	}

	s.log.Debug("select %s: [%d, %d) inner=%v", doc.Name, region.Start, region.End, inner)
	return Result{Status: StatusOK, Position: doc.Cursor.Position(), Region: region}
}

// Delete removes the region between the item and its counterpart and
// leaves the cursor at the start of the removed span. The removed text
// is reported for the caller's undo or clipboard handling.
func (s *Session) Delete(doc *Document, count int, inner bool) Result {
	res := s.Select(doc, count, inner)
	if res.Failed() {
		return res
	}

	text, err := doc.Buffer.Delete(res.Region.Start, res.Region.End)
	if err != nil {
		return Result{Status: StatusError, Position: doc.Cursor.Position(), Err: err}
	}
	doc.Cursor.SetPosition(res.Region.Start)

	s.log.Debug("delete %s: %d bytes at %d", doc.Name, len(text), res.Region.Start)
	return Result{
		Status:   StatusOK,
		Position: doc.Cursor.Position(),
		Region:   res.Region,
		Deleted:  text,
	}
}
