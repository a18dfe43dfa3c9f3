package classify

import (
	"sync"

	"github.com/dshills/matchkit/internal/textbuf"
)

// Context binds a grammar to a buffer and answers classification
// queries. Lines are lexed on demand with the state carried across line
// boundaries, so block comments and multi-line strings classify
// correctly; results are cached per line and dropped when the buffer
// revision changes.
//
// A Context is an immutable view during a navigation call. The lock only
// guards the cache against the surrounding application's concurrency.
type Context struct {
	mu       sync.Mutex
	buf      *textbuf.Buffer
	grammar  *Grammar
	revision textbuf.RevisionID
	spans    map[int][]Span
	states   map[int]lexState
}

// NewContext creates a classification context for a buffer. A nil
// grammar classifies everything as plain text.
func NewContext(buf *textbuf.Buffer, grammar *Grammar) *Context {
	if grammar == nil {
		grammar = TextGrammar()
	}
	return &Context{
		buf:      buf,
		grammar:  grammar,
		revision: buf.RevisionID(),
		spans:    make(map[int][]Span),
		states:   make(map[int]lexState),
	}
}

// Grammar returns the grammar this context lexes with.
func (c *Context) Grammar() *Grammar {
	return c.grammar
}

// ClassAt returns the classification of the byte at the given offset.
func (c *Context) ClassAt(offset textbuf.Offset) Class {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureRevision()

	line := c.buf.LineIndex(offset)
	col := int(offset - c.buf.LineStartOffset(line))
	for _, s := range c.spansFor(line) {
		if s.Contains(col) {
			return s.Class
		}
	}
	return ClassNone
}

// SpansForLine returns the classified spans of a line, in order.
func (c *Context) SpansForLine(line int) []Span {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureRevision()
	return c.spansFor(line)
}

// Invalidate drops all cached classification, forcing a re-lex on the
// next query even when the buffer revision is unchanged.
func (c *Context) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.spans = make(map[int][]Span)
	c.states = make(map[int]lexState)
}

// ensureRevision resets the cache when the buffer has been edited since
// the last query. Caller must hold the lock.
func (c *Context) ensureRevision() {
	if rev := c.buf.RevisionID(); rev != c.revision {
		c.revision = rev
		c.spans = make(map[int][]Span)
		c.states = make(map[int]lexState)
	}
}

// spansFor returns the spans of a line, lexing it (and any preceding
// unlexed lines, for the carried state) on a cache miss. Caller must
// hold the lock.
func (c *Context) spansFor(line int) []Span {
	if line < 0 || line >= c.buf.LineCount() {
		return nil
	}
	if spans, ok := c.spans[line]; ok {
		return spans
	}

	spans, end := c.grammar.ScanLine(c.buf.LineText(line), c.stateBefore(line))
	c.spans[line] = spans
	c.states[line] = end
	return spans
}

// stateBefore computes the lexer state carried into a line: walk back to
// the nearest line with a cached end state, then lex forward from there.
func (c *Context) stateBefore(line int) lexState {
	if line == 0 {
		return stateNormal
	}
	if s, ok := c.states[line-1]; ok {
		return s
	}

	start := 0
	state := stateNormal
	for l := line - 1; l > 0; l-- {
		if s, ok := c.states[l-1]; ok {
			start = l
			state = s
			break
		}
	}
	for l := start; l < line; l++ {
		spans, end := c.grammar.ScanLine(c.buf.LineText(l), state)
		c.spans[l] = spans
		c.states[l] = end
		state = end
	}
	return state
}
