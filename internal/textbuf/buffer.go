package textbuf

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Offset represents a byte position in the buffer.
// This is the fundamental position type, directly indexing into the text.
type Offset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed. Column is measured in bytes from the
// start of the line.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Buffer holds document text with a line start index.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineStarts []Offset // offset of each line's first byte; always starts with 0
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	b := &Buffer{revisionID: NewRevisionID()}
	b.reindex()
	return b
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewBufferFromString(s string) *Buffer {
	b := &Buffer{
		text:       normalizeLineEndings(s),
		revisionID: NewRevisionID(),
	}
	b.reindex()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read all content first so CRLF sequences split across read
	// boundaries normalize correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// reindex rebuilds the line start index. Caller must hold the write lock
// (or have exclusive access during construction).
func (b *Buffer) reindex() {
	starts := b.lineStarts[:0]
	starts = append(starts, 0)
	for i := 0; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			starts = append(starts, Offset(i)+1)
		}
	}
	b.lineStarts = starts
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end Offset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := Offset(len(b.text))
	start = clampOffset(start, n)
	end = clampOffset(end, n)
	if start >= end {
		return ""
	}
	return b.text[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Offset(len(b.text))
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// ByteAt returns the byte at the given offset.
func (b *Buffer) ByteAt(offset Offset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= Offset(len(b.text)) {
		return 0, false
	}
	return b.text[offset], true
}

// RuneAt returns the rune starting at the given byte offset and its size.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset Offset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= Offset(len(b.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(b.text[offset:])
}

// RuneBefore returns the rune ending at the given byte offset and its size.
// Returns utf8.RuneError and size 0 if no rune precedes the offset.
func (b *Buffer) RuneBefore(offset Offset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset <= 0 || offset > Offset(len(b.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRuneInString(b.text[:offset])
}

// Line Operations

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineIndex returns the 0-based line containing the given offset.
// Offsets past the end of the buffer report the last line. The newline
// byte belongs to the line it terminates.
func (b *Buffer) LineIndex(offset Offset) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineIndexLocked(offset)
}

func (b *Buffer) lineIndexLocked(offset Offset) int {
	if offset <= 0 {
		return 0
	}
	// First line start greater than offset; the line is the one before it.
	i := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	})
	return i - 1
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line int) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStartLocked(line)
}

func (b *Buffer) lineStartLocked(line int) Offset {
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return Offset(len(b.text))
	}
	return b.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line, before its
// newline. The last line ends at the buffer length.
func (b *Buffer) LineEndOffset(line int) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEndLocked(line)
}

func (b *Buffer) lineEndLocked(line int) Offset {
	if line < 0 {
		return 0
	}
	if line+1 >= len(b.lineStarts) {
		return Offset(len(b.text))
	}
	return b.lineStarts[line+1] - 1
}

// LineText returns the text of a specific line, without its newline.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line < 0 || line >= len(b.lineStarts) {
		return ""
	}
	return b.text[b.lineStartLocked(line):b.lineEndLocked(line)]
}

// LineStartAt returns the start offset of the line containing offset.
func (b *Buffer) LineStartAt(offset Offset) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStartLocked(b.lineIndexLocked(offset))
}

// LineEndAt returns the end offset (before the newline) of the line
// containing offset.
func (b *Buffer) LineEndAt(offset Offset) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEndLocked(b.lineIndexLocked(offset))
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset Offset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset = clampOffset(offset, Offset(len(b.text)))
	line := b.lineIndexLocked(offset)
	return Point{Line: line, Column: int(offset - b.lineStartLocked(line))}
}

// PointToOffset converts line/column to a byte offset, clamping the column
// to the line's length.
func (b *Buffer) PointToOffset(p Point) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(b.lineStarts) {
		return Offset(len(b.text))
	}
	start := b.lineStartLocked(p.Line)
	end := b.lineEndLocked(p.Line)
	off := start + Offset(p.Column)
	if off > end {
		off = end
	}
	if off < start {
		off = start
	}
	return off
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > Offset(len(b.text)) {
		return 0, ErrOffsetOutOfRange
	}

	text = normalizeLineEndings(text)
	b.text = b.text[:offset] + text + b.text[offset:]
	b.reindex()
	b.revisionID = NewRevisionID()

	return offset + Offset(len(text)), nil
}

// Delete removes text in the given range and returns the removed text.
func (b *Buffer) Delete(start, end Offset) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > Offset(len(b.text)) {
		return "", ErrRangeInvalid
	}

	removed := b.text[start:end]
	b.text = b.text[:start] + b.text[end:]
	b.reindex()
	b.revisionID = NewRevisionID()

	return removed, nil
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// clampOffset clamps an offset into [0, max].
func clampOffset(offset, max Offset) Offset {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
