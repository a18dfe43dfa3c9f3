package classify

import (
	"strings"
	"testing"

	"github.com/dshills/matchkit/internal/textbuf"
)

func TestContextClassAt(t *testing.T) {
	buf := textbuf.NewBufferFromString("x := 1 // note\ny := \"s\"\n")
	ctx := NewContext(buf, GoGrammar())

	tests := []struct {
		offset textbuf.Offset
		want   Class
	}{
		{0, ClassNone},
		{7, ClassComment},
		{12, ClassComment},
		{15, ClassNone}, // y on the second line
		{20, ClassString},
		{21, ClassString},
		{23, ClassNone}, // newline after the string
	}

	for _, tt := range tests {
		if got := ctx.ClassAt(tt.offset); got != tt.want {
			t.Errorf("ClassAt(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestContextBlockCommentAcrossLines(t *testing.T) {
	buf := textbuf.NewBufferFromString("a /* one\ntwo\nthree */ b\n")
	ctx := NewContext(buf, GoGrammar())

	if got := ctx.ClassAt(0); got != ClassNone {
		t.Errorf("code before comment should be unclassified, got %v", got)
	}
	// "two" on the middle line, queried first to force state computation
	// for the preceding lines.
	if got := ctx.ClassAt(10); !got.IsComment() {
		t.Errorf("middle line should classify as comment, got %v", got)
	}
	if got := ctx.ClassAt(19); !got.IsComment() {
		t.Errorf("closing line should classify as comment, got %v", got)
	}
	if got := ctx.ClassAt(22); got != ClassNone {
		t.Errorf("code after comment should be unclassified, got %v", got)
	}
}

func TestContextMultilineString(t *testing.T) {
	buf := textbuf.NewBufferFromString("s := `one\ntwo`\nx := 1\n")
	ctx := NewContext(buf, GoGrammar())

	if got := ctx.ClassAt(6); !got.IsString() {
		t.Errorf("raw string open should classify as string, got %v", got)
	}
	if got := ctx.ClassAt(11); !got.IsString() {
		t.Errorf("second string line should classify as string, got %v", got)
	}
	if got := ctx.ClassAt(15); got != ClassNone {
		t.Errorf("code after string should be unclassified, got %v", got)
	}
}

func TestContextInvalidatesOnEdit(t *testing.T) {
	buf := textbuf.NewBufferFromString("x // c\n")
	ctx := NewContext(buf, GoGrammar())

	if got := ctx.ClassAt(5); !got.IsComment() {
		t.Fatalf("expected comment before edit, got %v", got)
	}

	// Remove the comment leader; the same offset is now code.
	if _, err := buf.Delete(2, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ctx.ClassAt(2); got != ClassNone {
		t.Errorf("expected code after edit, got %v", got)
	}
}

func TestContextNilGrammar(t *testing.T) {
	buf := textbuf.NewBufferFromString("// not a comment here\n")
	ctx := NewContext(buf, nil)

	if got := ctx.ClassAt(0); got != ClassNone {
		t.Errorf("plain text grammar should classify nothing, got %v", got)
	}
}

func TestContextSpansForLine(t *testing.T) {
	buf := textbuf.NewBufferFromString("a \"s\" // c\n")
	ctx := NewContext(buf, GoGrammar())

	spans := ctx.SpansForLine(0)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if !spans[0].Class.IsString() || spans[0].Start != 2 || spans[0].End != 5 {
		t.Errorf("unexpected string span %+v", spans[0])
	}
	if !spans[1].Class.IsComment() || spans[1].Start != 6 {
		t.Errorf("unexpected comment span %+v", spans[1])
	}

	if spans := ctx.SpansForLine(99); spans != nil {
		t.Errorf("out-of-range line should have no spans, got %v", spans)
	}
}

func TestContextDeepQueryLexesPrecedingLines(t *testing.T) {
	// A block comment opened on line 0 must still classify on a far
	// line queried cold.
	var sb strings.Builder
	sb.WriteString("/* open\n")
	for i := 0; i < 40; i++ {
		sb.WriteString("inside\n")
	}
	sb.WriteString("*/ done\n")
	buf := textbuf.NewBufferFromString(sb.String())
	ctx := NewContext(buf, GoGrammar())

	off := buf.LineStartOffset(20)
	if got := ctx.ClassAt(off); !got.IsComment() {
		t.Errorf("line 20 should classify as comment, got %v", got)
	}
	closer := buf.LineStartOffset(41)
	if got := ctx.ClassAt(closer + 3); got != ClassNone {
		t.Errorf("text after the closer should be unclassified, got %v", got)
	}
}
