package app

import (
	"errors"
	"testing"

	"github.com/dshills/matchkit/internal/config"
)

func TestRunExprJump(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "(abc)", "go")

	out, err := s.RunExpr(doc, "jump:0")
	if err != nil {
		t.Fatalf("jump:0: %v", err)
	}
	if out != "4" {
		t.Errorf("output %q, want 4", out)
	}
}

func TestRunExprJumpWithCount(t *testing.T) {
	cfg := config.Default()
	cfg.PercentageJump = false
	s, err := NewSession(cfg, NullLogger)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	doc := s.OpenString("scratch", "(abc)", "go")
	out, err := s.RunExpr(doc, "jump:0:3")
	if err != nil {
		t.Fatalf("jump:0:3: %v", err)
	}
	// The bracket scanner has one counterpart; the count is satisfied
	// by the single jump.
	if out != "4" {
		t.Errorf("output %q, want 4", out)
	}
}

func TestRunExprPercent(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "abcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\nabcdefghi\n", "text")

	out, err := s.RunExpr(doc, "percent:50")
	if err != nil {
		t.Fatalf("percent:50: %v", err)
	}
	if out != "50" {
		t.Errorf("output %q, want 50", out)
	}
}

func TestRunExprSelect(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "{\n  foo\n}", "go")

	out, err := s.RunExpr(doc, "select:0:inner")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if out != "2 7" {
		t.Errorf("output %q, want \"2 7\"", out)
	}

	out, err = s.RunExpr(doc, "select:0:outer")
	if err != nil {
		t.Fatalf("select outer: %v", err)
	}
	if out != "0 9" {
		t.Errorf("output %q, want \"0 9\"", out)
	}
}

func TestRunExprDelete(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "{\n  foo\n}", "go")

	out, err := s.RunExpr(doc, "delete:0:inner")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out != "2 7" {
		t.Errorf("output %q, want \"2 7\"", out)
	}
	if doc.Buffer.Text() != "{\n\n}" {
		t.Errorf("buffer %q after delete", doc.Buffer.Text())
	}
}

func TestRunExprBadExpressions(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "(a)", "go")

	for _, expr := range []string{
		"",
		"fly:1",
		"jump",
		"jump:x",
		"jump:-1",
		"jump:0:1:2",
		"percent",
		"percent:many",
		"select:0",
		"select:0:sideways",
		"delete:0:inner:x",
	} {
		if _, err := s.RunExpr(doc, expr); !errors.Is(err, ErrBadExpression) {
			t.Errorf("RunExpr(%q) err = %v, want ErrBadExpression", expr, err)
		}
	}
}

func TestRunExprNoMatch(t *testing.T) {
	s := newTestSession(t)
	doc := s.OpenString("scratch", "plain", "text")

	if _, err := s.RunExpr(doc, "jump:1"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("err %v, want ErrNoMatch", err)
	}
}

func TestRunExprNilDocument(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.RunExpr(nil, "jump:0"); !errors.Is(err, ErrNoDocument) {
		t.Errorf("err %v, want ErrNoDocument", err)
	}
}
