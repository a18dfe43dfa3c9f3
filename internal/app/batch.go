package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/matchkit/internal/textbuf"
)

// RunExpr executes one batch expression against doc and returns a
// printable result line. Recognized forms:
//
//	jump:OFFSET[:COUNT]
//	percent:P
//	select:OFFSET:inner|outer[:COUNT]
//	delete:OFFSET:inner|outer[:COUNT]
//
// Offsets are 0-based bytes into the document. Jump prints the landing
// offset; select and delete print the region as "START END". A failed
// navigation returns the failure for the caller's exit status.
func (s *Session) RunExpr(doc *Document, expr string) (string, error) {
	if doc == nil {
		return "", ErrNoDocument
	}

	parts := strings.Split(expr, ":")
	op, args := parts[0], parts[1:]

	switch op {
	case "jump":
		off, count, err := offsetAndCount(expr, args)
		if err != nil {
			return "", err
		}
		doc.Cursor.SetPosition(off)
		res := s.Jump(doc, count)
		if res.Failed() {
			return "", res.Err
		}
		return strconv.FormatInt(res.Position, 10), nil

	case "percent":
		if len(args) != 1 {
			return "", badExpr(expr)
		}
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return "", badExpr(expr)
		}
		res := s.JumpPercent(doc, p)
		if res.Failed() {
			return "", res.Err
		}
		return strconv.FormatInt(res.Position, 10), nil

	case "select", "delete":
		if len(args) < 2 {
			return "", badExpr(expr)
		}
		inner, err := parseScope(expr, args[1])
		if err != nil {
			return "", err
		}
		rest := append([]string{args[0]}, args[2:]...)
		off, count, err := offsetAndCount(expr, rest)
		if err != nil {
			return "", err
		}
		doc.Cursor.SetPosition(off)

		var res Result
		if op == "select" {
			res = s.Select(doc, count, inner)
		} else {
			res = s.Delete(doc, count, inner)
		}
		if res.Failed() {
			return "", res.Err
		}
		return fmt.Sprintf("%d %d", res.Region.Start, res.Region.End), nil

	default:
		return "", badExpr(expr)
	}
}

// offsetAndCount parses an offset argument with an optional trailing
// repeat count.
func offsetAndCount(expr string, args []string) (textbuf.Offset, int, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, badExpr(expr)
	}
	off, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || off < 0 {
		return 0, 0, badExpr(expr)
	}
	count := 0
	if len(args) == 2 {
		count, err = strconv.Atoi(args[1])
		if err != nil || count < 0 {
			return 0, 0, badExpr(expr)
		}
	}
	return off, count, nil
}

// parseScope maps the inner|outer token of a region expression.
func parseScope(expr, scope string) (bool, error) {
	switch scope {
	case "inner":
		return true, nil
	case "outer":
		return false, nil
	default:
		return false, badExpr(expr)
	}
}

func badExpr(expr string) error {
	return fmt.Errorf("%w: %q", ErrBadExpression, expr)
}
