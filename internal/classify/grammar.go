package classify

import (
	"sort"
	"strings"
	"sync"
)

// BlockComment is a delimited comment that may span lines.
type BlockComment struct {
	Start string
	End   string
}

// Quote describes one string literal form.
type Quote struct {
	// Delim opens and closes the literal.
	Delim string

	// Escape, when nonzero, makes the following byte literal inside the
	// string. Zero disables escape handling (raw strings).
	Escape byte

	// Multiline strings continue onto following lines when unterminated.
	// Single-line strings end at the line boundary instead.
	Multiline bool
}

// Grammar describes how a language spells comments and strings.
// Build one with New and the Add methods, then register it.
type Grammar struct {
	ID            string
	Extensions    []string
	LineComments  []string
	BlockComments []BlockComment
	Quotes        []Quote
}

// New creates a grammar with the given id and file extensions.
func New(id string, extensions ...string) *Grammar {
	return &Grammar{ID: id, Extensions: extensions}
}

// AddLineComment adds line comment leaders.
func (g *Grammar) AddLineComment(prefixes ...string) *Grammar {
	g.LineComments = append(g.LineComments, prefixes...)
	return g
}

// AddBlockComment adds a block comment form.
func (g *Grammar) AddBlockComment(start, end string) *Grammar {
	g.BlockComments = append(g.BlockComments, BlockComment{Start: start, End: end})
	return g
}

// AddQuote adds a single-line string form.
func (g *Grammar) AddQuote(delim string, escape byte) *Grammar {
	g.Quotes = append(g.Quotes, Quote{Delim: delim, Escape: escape})
	g.sortQuotes()
	return g
}

// AddMultilineQuote adds a string form that continues across lines.
func (g *Grammar) AddMultilineQuote(delim string, escape byte) *Grammar {
	g.Quotes = append(g.Quotes, Quote{Delim: delim, Escape: escape, Multiline: true})
	g.sortQuotes()
	return g
}

// sortQuotes keeps longer delimiters first so that a triple quote wins
// over the single quote it starts with.
func (g *Grammar) sortQuotes() {
	sort.SliceStable(g.Quotes, func(i, j int) bool {
		return len(g.Quotes[i].Delim) > len(g.Quotes[j].Delim)
	})
}

// lexState carries the lexer condition across line boundaries.
// The low byte is the kind; the high bits index the active construct.
type lexState uint32

const (
	stateNormal lexState = iota
	stateBlockComment
	stateString
)

func makeState(kind lexState, index int) lexState {
	return kind | lexState(index)<<8
}

func (s lexState) kind() lexState {
	return s & 0xff
}

func (s lexState) index() int {
	return int(s >> 8)
}

// ScanLine classifies a single line, given the state left by the previous
// line. It returns the classified spans in order and the state at the end
// of the line.
func (g *Grammar) ScanLine(line string, prev lexState) ([]Span, lexState) {
	var spans []Span
	i := 0

	// Finish a construct carried over from the previous line.
	switch prev.kind() {
	case stateBlockComment:
		bc := g.BlockComments[prev.index()]
		idx := strings.Index(line, bc.End)
		if idx < 0 {
			return []Span{{Start: 0, End: len(line), Class: ClassComment}}, prev
		}
		end := idx + len(bc.End)
		spans = append(spans, Span{Start: 0, End: end, Class: ClassComment})
		i = end
	case stateString:
		q := g.Quotes[prev.index()]
		end, closed := findQuoteEnd(line, 0, q)
		if !closed {
			return []Span{{Start: 0, End: len(line), Class: ClassString}}, prev
		}
		spans = append(spans, Span{Start: 0, End: end, Class: ClassString})
		i = end
	}

	for i < len(line) {
		// Block comment first: lua's --[[ begins with the -- line
		// comment leader, and the longer form wins at a shared column.
		if bi, ok := g.blockCommentAt(line, i); ok {
			bc := g.BlockComments[bi]
			idx := strings.Index(line[i+len(bc.Start):], bc.End)
			if idx < 0 {
				spans = append(spans, Span{Start: i, End: len(line), Class: ClassComment})
				return spans, makeState(stateBlockComment, bi)
			}
			end := i + len(bc.Start) + idx + len(bc.End)
			spans = append(spans, Span{Start: i, End: end, Class: ClassComment})
			i = end
			continue
		}

		if g.lineCommentAt(line, i) {
			spans = append(spans, Span{Start: i, End: len(line), Class: ClassComment})
			return spans, stateNormal
		}

		if qi, ok := g.quoteAt(line, i); ok {
			q := g.Quotes[qi]
			end, closed := findQuoteEnd(line, i+len(q.Delim), q)
			if !closed {
				spans = append(spans, Span{Start: i, End: len(line), Class: ClassString})
				if q.Multiline {
					return spans, makeState(stateString, qi)
				}
				// Unterminated single-line string ends at the line.
				return spans, stateNormal
			}
			spans = append(spans, Span{Start: i, End: end, Class: ClassString})
			i = end
			continue
		}

		i++
	}

	return spans, stateNormal
}

// lineCommentAt reports whether a line comment starts at column i.
func (g *Grammar) lineCommentAt(line string, i int) bool {
	for _, lc := range g.LineComments {
		if strings.HasPrefix(line[i:], lc) {
			return true
		}
	}
	return false
}

// blockCommentAt reports the block comment form starting at column i.
func (g *Grammar) blockCommentAt(line string, i int) (int, bool) {
	for bi, bc := range g.BlockComments {
		if strings.HasPrefix(line[i:], bc.Start) {
			return bi, true
		}
	}
	return 0, false
}

// quoteAt reports the quote form whose delimiter starts at column i.
// Quotes are sorted longest-delimiter first.
func (g *Grammar) quoteAt(line string, i int) (int, bool) {
	for qi, q := range g.Quotes {
		if strings.HasPrefix(line[i:], q.Delim) {
			return qi, true
		}
	}
	return 0, false
}

// findQuoteEnd returns the column just past the closing delimiter,
// searching from the given column.
func findQuoteEnd(line string, from int, q Quote) (int, bool) {
	i := from
	for i < len(line) {
		if q.Escape != 0 && line[i] == q.Escape && i+1 < len(line) {
			i += 2
			continue
		}
		if strings.HasPrefix(line[i:], q.Delim) {
			return i + len(q.Delim), true
		}
		i++
	}
	return 0, false
}

// Built-in grammars

// GoGrammar returns the grammar for Go.
func GoGrammar() *Grammar {
	g := New("go", ".go")
	g.AddLineComment("//")
	g.AddBlockComment("/*", "*/")
	g.AddQuote(`"`, '\\')
	g.AddQuote(`'`, '\\')
	g.AddMultilineQuote("`", 0)
	return g
}

// CGrammar returns the grammar for C-family languages.
func CGrammar() *Grammar {
	g := New("c", ".c", ".h", ".cc", ".cpp", ".hpp", ".java", ".js", ".ts")
	g.AddLineComment("//")
	g.AddBlockComment("/*", "*/")
	g.AddQuote(`"`, '\\')
	g.AddQuote(`'`, '\\')
	return g
}

// PythonGrammar returns the grammar for Python.
func PythonGrammar() *Grammar {
	g := New("python", ".py", ".pyw")
	g.AddLineComment("#")
	g.AddMultilineQuote(`"""`, '\\')
	g.AddMultilineQuote(`'''`, '\\')
	g.AddQuote(`"`, '\\')
	g.AddQuote(`'`, '\\')
	return g
}

// RubyGrammar returns the grammar for Ruby.
func RubyGrammar() *Grammar {
	g := New("ruby", ".rb", ".rake", ".gemspec")
	g.AddLineComment("#")
	g.AddQuote(`"`, '\\')
	g.AddQuote(`'`, '\\')
	return g
}

// LuaGrammar returns the grammar for Lua.
func LuaGrammar() *Grammar {
	g := New("lua", ".lua")
	g.AddBlockComment("--[[", "]]")
	g.AddLineComment("--")
	g.AddQuote(`"`, '\\')
	g.AddQuote(`'`, '\\')
	return g
}

// ShellGrammar returns the grammar for POSIX shells.
func ShellGrammar() *Grammar {
	g := New("sh", ".sh", ".bash", ".zsh")
	g.AddLineComment("#")
	g.AddQuote(`"`, '\\')
	// Single-quoted shell strings have no escapes.
	g.AddQuote(`'`, 0)
	return g
}

// LispGrammar returns the grammar for Lisp dialects.
func LispGrammar() *Grammar {
	g := New("lisp", ".el", ".lisp", ".scm", ".clj")
	g.AddLineComment(";")
	g.AddQuote(`"`, '\\')
	return g
}

// VimGrammar returns the grammar for Vim script.
// The double quote doubles as the comment leader, so only single-quoted
// strings are classified.
func VimGrammar() *Grammar {
	g := New("vim", ".vim")
	g.AddLineComment(`"`)
	g.AddQuote(`'`, 0)
	return g
}

// MarkupGrammar returns the grammar for HTML and XML.
func MarkupGrammar() *Grammar {
	g := New("html", ".html", ".htm", ".xml", ".xhtml", ".svg")
	g.AddBlockComment("<!--", "-->")
	g.AddQuote(`"`, 0)
	g.AddQuote(`'`, 0)
	return g
}

// TextGrammar returns the fallback grammar with no comment or string forms.
func TextGrammar() *Grammar {
	return New("text")
}

// Registry maps grammar ids and file extensions to grammars.
type Registry struct {
	mu          sync.RWMutex
	byID        map[string]*Grammar
	byExtension map[string]*Grammar
}

// NewRegistry creates an empty grammar registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:        make(map[string]*Grammar),
		byExtension: make(map[string]*Grammar),
	}
}

// Register adds a grammar to the registry. Re-registering an id replaces it.
func (r *Registry) Register(g *Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[g.ID] = g
	for _, ext := range g.Extensions {
		r.byExtension[ext] = g
	}
}

// ByID returns the grammar with the given id.
func (r *Registry) ByID(id string) (*Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[id]
	return g, ok
}

// ByExtension returns the grammar for a file extension.
func (r *Registry) ByExtension(ext string) (*Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	g, ok := r.byExtension[ext]
	return g, ok
}

// IDs returns all registered grammar ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegisterBuiltins registers all built-in grammars.
func RegisterBuiltins(r *Registry) {
	r.Register(GoGrammar())
	r.Register(CGrammar())
	r.Register(PythonGrammar())
	r.Register(RubyGrammar())
	r.Register(LuaGrammar())
	r.Register(ShellGrammar())
	r.Register(LispGrammar())
	r.Register(VimGrammar())
	r.Register(MarkupGrammar())
	r.Register(TextGrammar())
}

// DefaultRegistry returns a registry with all built-in grammars.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}
