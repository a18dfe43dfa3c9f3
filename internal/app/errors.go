package app

import "errors"

// Session and command errors.
var (
	// ErrNoMatch reports a navigation call that found no structural
	// counterpart. The cursor is unchanged.
	ErrNoMatch = errors.New("no match found")

	// ErrNoDocument indicates a command ran without an open document.
	ErrNoDocument = errors.New("no open document")

	// ErrBadExpression reports a batch expression that could not be
	// parsed.
	ErrBadExpression = errors.New("bad batch expression")
)
