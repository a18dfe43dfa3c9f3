package app

import (
	"errors"
	"testing"
)

func TestJumpRoundTrip(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "(abc)", "go")

	res := s.Jump(doc, 0)
	if res.Failed() {
		t.Fatalf("jump failed: %+v", res)
	}
	if res.Position != 4 {
		t.Errorf("position %d, want 4", res.Position)
	}
	if doc.Cursor.Position() != 4 {
		t.Errorf("cursor %d, want 4", doc.Cursor.Position())
	}

	res = s.Jump(doc, 0)
	if res.Failed() || res.Position != 0 {
		t.Errorf("return jump = %+v, want position 0", res)
	}
}

func TestJumpNoMatchLeavesCursor(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "plain words", "text")
	doc.Cursor.SetPosition(3)

	res := s.Jump(doc, 0)
	if res.Status != StatusNoMatch {
		t.Fatalf("status %v, want no match", res.Status)
	}
	if !errors.Is(res.Err, ErrNoMatch) {
		t.Errorf("err %v, want ErrNoMatch", res.Err)
	}
	if res.Position != 3 || doc.Cursor.Position() != 3 {
		t.Errorf("cursor moved: result %d, cursor %d", res.Position, doc.Cursor.Position())
	}
}

func TestCommandsRequireDocument(t *testing.T) {
	s := newTestSession(t)

	for name, res := range map[string]Result{
		"jump":    s.Jump(nil, 0),
		"percent": s.JumpPercent(nil, 50),
		"select":  s.Select(nil, 0, false),
		"delete":  s.Delete(nil, 0, false),
	} {
		if res.Status != StatusError || !errors.Is(res.Err, ErrNoDocument) {
			t.Errorf("%s without document = %+v", name, res)
		}
	}
}

func TestJumpPercent(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "abcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\n", "text")

	res := s.JumpPercent(doc, 50)
	if res.Failed() || res.Position != 50 {
		t.Errorf("50%% = %+v, want position 50", res)
	}

	// Out-of-range arguments clamp instead of failing.
	res = s.JumpPercent(doc, 500)
	if res.Failed() || res.Position != 100 {
		t.Errorf("500%% = %+v, want position 100", res)
	}
	res = s.JumpPercent(doc, -3)
	if res.Failed() || res.Position != 0 {
		t.Errorf("-3%% = %+v, want position 0", res)
	}
}

func TestSelectOuterAndInner(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "{\n  foo\n}", "go")

	res := s.Select(doc, 0, false)
	if res.Failed() {
		t.Fatalf("outer select failed: %+v", res)
	}
	outer := res.Region
	if outer.Start != 0 || outer.End != 9 {
		t.Errorf("outer region [%d, %d), want [0, 9)", outer.Start, outer.End)
	}

	doc.Cursor.SetPosition(0)
	res = s.Select(doc, 0, true)
	if res.Failed() {
		t.Fatalf("inner select failed: %+v", res)
	}
	inner := res.Region
	if inner.Start != 2 || inner.End != 7 {
		t.Errorf("inner region [%d, %d), want [2, 7)", inner.Start, inner.End)
	}
	if !outer.Contains(inner) {
		t.Error("outer region must contain inner region")
	}

	// Selection never edits the buffer.
	if doc.Buffer.Text() != "{\n  foo\n}" {
		t.Errorf("buffer changed: %q", doc.Buffer.Text())
	}
}

func TestSelectNoMatchLeavesCursor(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "nothing here", "text")
	doc.Cursor.SetPosition(5)

	res := s.Select(doc, 0, false)
	if res.Status != StatusNoMatch || doc.Cursor.Position() != 5 {
		t.Errorf("select = %+v, cursor %d", res, doc.Cursor.Position())
	}
}

func TestDeleteInner(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "{\n  foo\n}", "go")

	res := s.Delete(doc, 0, true)
	if res.Failed() {
		t.Fatalf("delete failed: %+v", res)
	}
	if res.Deleted != "  foo" {
		t.Errorf("deleted %q, want %q", res.Deleted, "  foo")
	}
	if doc.Buffer.Text() != "{\n\n}" {
		t.Errorf("buffer %q, want %q", doc.Buffer.Text(), "{\n\n}")
	}
	if res.Position != 2 || doc.Cursor.Position() != 2 {
		t.Errorf("cursor at %d, want 2", doc.Cursor.Position())
	}
}

func TestDeleteOuter(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "f(x)", "go")
	doc.Cursor.SetPosition(1)

	res := s.Delete(doc, 0, false)
	if res.Failed() {
		t.Fatalf("delete failed: %+v", res)
	}
	if res.Deleted != "(x)" {
		t.Errorf("deleted %q, want (x)", res.Deleted)
	}
	if doc.Buffer.Text() != "f" {
		t.Errorf("buffer %q, want f", doc.Buffer.Text())
	}
}

func TestDeleteNoMatchKeepsBuffer(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "plain", "text")
	doc.Cursor.SetPosition(2)

	res := s.Delete(doc, 0, false)
	if res.Status != StatusNoMatch {
		t.Fatalf("status %v, want no match", res.Status)
	}
	if doc.Buffer.Text() != "plain" {
		t.Errorf("buffer changed: %q", doc.Buffer.Text())
	}
	if doc.Cursor.Position() != 2 {
		t.Errorf("cursor moved to %d", doc.Cursor.Position())
	}
}

func TestDeleteReclassifiesFollowingQueries(t *testing.T) {
	s := newTestSession(t)

	// Deleting the comment leader un-comments the bracket, so a later
	// jump must see it as code.
	doc := s.OpenString("scratch", "// (a)\n(b)", "go")
	doc.Cursor.SetPosition(3)

	res := s.Jump(doc, 0)
	if res.Failed() || res.Position != 5 {
		t.Fatalf("comment-local jump = %+v, want position 5", res)
	}

	if _, err := doc.Buffer.Delete(0, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	doc.Cursor.SetPosition(0)

	res = s.Jump(doc, 0)
	if res.Failed() || res.Position != 2 {
		t.Errorf("post-edit jump = %+v, want position 2", res)
	}
}

func TestCounterpartLeavesCursor(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "(abc)", "go")

	pos, ok := s.Counterpart(doc)
	if !ok || pos != 4 {
		t.Fatalf("Counterpart = %d, %v, want 4, true", pos, ok)
	}
	if got := doc.Cursor.Position(); got != 0 {
		t.Errorf("cursor moved to %d, want 0", got)
	}

	plain := s.OpenString("notes", "plain words", "text")
	if _, ok := s.Counterpart(plain); ok {
		t.Error("Counterpart inside plain text reported a match")
	}

	if _, ok := s.Counterpart(nil); ok {
		t.Error("Counterpart without a document reported a match")
	}
}
