package textbuf

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// Construction Tests

func TestNewBufferEmpty(t *testing.T) {
	b := NewBuffer()
	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got len %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("empty buffer should have 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromString(t *testing.T) {
	b := NewBufferFromString("hello\nworld")
	if b.Len() != 11 {
		t.Errorf("expected len 11, got %d", b.Len())
	}
	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("one\ntwo\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Text() != "one\ntwo\n" {
		t.Errorf("unexpected text %q", b.Text())
	}
}

func TestLineEndingNormalization(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc\nd")
	if b.Text() != "a\nb\nc\nd" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
	if b.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", b.LineCount())
	}
}

// Read Tests

func TestTextRange(t *testing.T) {
	b := NewBufferFromString("hello world")

	if got := b.TextRange(0, 5); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
	if got := b.TextRange(6, 11); got != "world" {
		t.Errorf("expected %q, got %q", "world", got)
	}
	if got := b.TextRange(-3, 100); got != "hello world" {
		t.Errorf("out-of-range should clamp, got %q", got)
	}
	if got := b.TextRange(5, 2); got != "" {
		t.Errorf("reversed range should be empty, got %q", got)
	}
}

func TestByteAt(t *testing.T) {
	b := NewBufferFromString("ab")

	if got, ok := b.ByteAt(1); !ok || got != 'b' {
		t.Errorf("ByteAt(1) = (%q, %v)", got, ok)
	}
	if _, ok := b.ByteAt(2); ok {
		t.Error("ByteAt past end should report false")
	}
	if _, ok := b.ByteAt(-1); ok {
		t.Error("ByteAt(-1) should report false")
	}
}

func TestIsEmpty(t *testing.T) {
	if !NewBuffer().IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if NewBufferFromString("x").IsEmpty() {
		t.Error("non-empty buffer reported empty")
	}
}

func TestRuneAt(t *testing.T) {
	b := NewBufferFromString("aβc")

	r, size := b.RuneAt(0)
	if r != 'a' || size != 1 {
		t.Errorf("expected ('a', 1), got (%q, %d)", r, size)
	}

	r, size = b.RuneAt(1)
	if r != 'β' || size != 2 {
		t.Errorf("expected ('β', 2), got (%q, %d)", r, size)
	}

	r, size = b.RuneAt(100)
	if r != utf8.RuneError || size != 0 {
		t.Errorf("out of range should return (RuneError, 0), got (%q, %d)", r, size)
	}
}

func TestRuneBefore(t *testing.T) {
	b := NewBufferFromString("aβc")

	r, size := b.RuneBefore(3)
	if r != 'β' || size != 2 {
		t.Errorf("expected ('β', 2), got (%q, %d)", r, size)
	}

	r, size = b.RuneBefore(0)
	if r != utf8.RuneError || size != 0 {
		t.Errorf("start of buffer should return (RuneError, 0), got (%q, %d)", r, size)
	}
}

// Line Tests

func TestLineIndex(t *testing.T) {
	b := NewBufferFromString("ab\ncd\nef")

	tests := []struct {
		offset Offset
		line   int
	}{
		{0, 0},
		{1, 0},
		{2, 0}, // newline belongs to the line it terminates
		{3, 1},
		{5, 1},
		{6, 2},
		{8, 2},  // end of buffer
		{99, 2}, // clamped
		{-1, 0},
	}

	for _, tt := range tests {
		if got := b.LineIndex(tt.offset); got != tt.line {
			t.Errorf("LineIndex(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}
}

func TestLineStartEndOffsets(t *testing.T) {
	b := NewBufferFromString("ab\ncd\nef")

	if got := b.LineStartOffset(1); got != 3 {
		t.Errorf("LineStartOffset(1) = %d, want 3", got)
	}
	if got := b.LineEndOffset(0); got != 2 {
		t.Errorf("LineEndOffset(0) = %d, want 2", got)
	}
	if got := b.LineEndOffset(2); got != 8 {
		t.Errorf("last line should end at buffer length, got %d", got)
	}
}

func TestLineStartEndAt(t *testing.T) {
	b := NewBufferFromString("ab\ncd\nef")

	if got := b.LineStartAt(4); got != 3 {
		t.Errorf("LineStartAt(4) = %d, want 3", got)
	}
	if got := b.LineEndAt(4); got != 5 {
		t.Errorf("LineEndAt(4) = %d, want 5", got)
	}
	if got := b.LineEndAt(0); got != 2 {
		t.Errorf("LineEndAt(0) = %d, want 2", got)
	}
}

func TestLineText(t *testing.T) {
	b := NewBufferFromString("ab\ncd\nef")

	if got := b.LineText(1); got != "cd" {
		t.Errorf("LineText(1) = %q, want %q", got, "cd")
	}
	if got := b.LineText(5); got != "" {
		t.Errorf("out-of-range line should be empty, got %q", got)
	}
}

// Conversion Tests

func TestOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("ab\ncd")

	p := b.OffsetToPoint(4)
	if p.Line != 1 || p.Column != 1 {
		t.Errorf("expected (1:1), got %s", p)
	}
}

func TestPointToOffset(t *testing.T) {
	b := NewBufferFromString("ab\ncd")

	if got := b.PointToOffset(Point{Line: 1, Column: 1}); got != 4 {
		t.Errorf("expected offset 4, got %d", got)
	}
	// Column past line end clamps to the line end.
	if got := b.PointToOffset(Point{Line: 0, Column: 50}); got != 2 {
		t.Errorf("expected clamped offset 2, got %d", got)
	}
}

// Write Tests

func TestInsert(t *testing.T) {
	b := NewBufferFromString("hello world")
	rev := b.RevisionID()

	end, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 6 {
		t.Errorf("expected end 6, got %d", end)
	}
	if b.Text() != "hello, world" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.RevisionID() == rev {
		t.Error("insert should bump the revision")
	}
}

func TestInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("ab")
	if _, err := b.Insert(10, "x"); err != ErrOffsetOutOfRange {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")

	removed, err := b.Delete(4, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != "two\n" {
		t.Errorf("expected removed %q, got %q", "two\n", removed)
	}
	if b.Text() != "one\nthree" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines after delete, got %d", b.LineCount())
	}
}

func TestDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("abc")
	if _, err := b.Delete(2, 1); err != ErrRangeInvalid {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if _, err := b.Delete(0, 10); err != ErrRangeInvalid {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}
