package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/matchkit/internal/classify"
	"github.com/dshills/matchkit/internal/config"
	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/rules"
	"github.com/dshills/matchkit/internal/rules/luarule"
	"github.com/dshills/matchkit/internal/rules/pack"
	"github.com/dshills/matchkit/internal/textbuf"
)

// Document is one open file bound to a navigation environment: the
// buffer, its cursor, and the classification context for its grammar.
type Document struct {
	// Path is the file path, empty for in-memory documents.
	Path string

	// Name is the display name.
	Name string

	// Grammar is the grammar id the rules and classifier use.
	Grammar string

	Buffer *textbuf.Buffer
	Cursor *textbuf.Cursor

	context *classify.Context
}

// Classifier returns the document's classification context.
func (d *Document) Classifier() *classify.Context {
	return d.context
}

// Session owns the engine, the rule and grammar registries, the active
// configuration, and the open documents for one run.
type Session struct {
	id       string
	log      *Logger
	grammars *classify.Registry
	rules    *match.Registry
	engine   *match.Engine

	mu     sync.Mutex
	cfg    config.Config
	opts   match.Options
	active *Document
	docs   []*Document

	scripts []*luarule.LuaRule
}

// NewSession builds a session from configuration. Rules layer in order:
// built-ins first, then user rule packs, then user scripts, each
// replacing or outranking the previous for the grammars it names. A
// pack or script that fails to load is skipped with a warning.
func NewSession(cfg config.Config, log *Logger) (*Session, error) {
	if log == nil {
		log = NullLogger
	}

	s := &Session{
		id:       uuid.NewString(),
		log:      log,
		grammars: classify.DefaultRegistry(),
		rules:    match.NewRegistry(),
		cfg:      cfg,
		opts:     MatchOptions(cfg),
	}

	if err := rules.RegisterBuiltins(s.rules); err != nil {
		return nil, fmt.Errorf("registering built-in rules: %w", err)
	}

	for _, path := range cfg.RulePacks {
		rows, err := pack.Load(path)
		if err != nil {
			log.Warn("rule pack %s: %v", path, err)
			continue
		}
		if err := pack.Apply(s.rules, rows); err != nil {
			log.Warn("rule pack %s: %v", path, err)
		}
	}

	for _, path := range cfg.LuaRules {
		rule, err := luarule.Load(path, log)
		if err != nil {
			log.Warn("%v", err)
			continue
		}
		luarule.Register(s.rules, rule)
		s.scripts = append(s.scripts, rule)
	}

	s.engine = match.NewEngine(s.rules)
	log.Info("session %s: %d grammars, %d scripts", s.id, len(s.rules.Grammars()), len(s.scripts))
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Logger returns the session logger.
func (s *Session) Logger() *Logger { return s.log }

// Engine returns the navigation engine.
func (s *Session) Engine() *match.Engine { return s.engine }

// Rules returns the session's rule registry.
func (s *Session) Rules() *match.Registry { return s.rules }

// Config returns the configuration currently in effect.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Reload applies a changed configuration. Navigation policies and the
// log level take effect immediately; rule packs and scripts load at
// startup only, so the rule registry stays as built.
func (s *Session) Reload(cfg config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.opts = MatchOptions(cfg)
	s.mu.Unlock()

	s.log.SetLevel(ParseLogLevel(cfg.LogLevel))
	s.log.Info("configuration reloaded")
}

// Open reads a file into a new document, detects its grammar from the
// extension, and makes it the active document.
func (s *Session) Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return s.newDocument(path, filepath.Base(path), string(data), s.DetectGrammar(path)), nil
}

// OpenString creates a document from text already in memory; batch mode
// and tests use it. An empty grammar falls back to plain text.
func (s *Session) OpenString(name, text, grammar string) *Document {
	if grammar == "" {
		grammar = "text"
	}
	return s.newDocument("", name, text, grammar)
}

func (s *Session) newDocument(path, name, text, grammar string) *Document {
	g, ok := s.grammars.ByID(grammar)
	if !ok {
		s.log.Warn("unknown grammar %q for %s, treating as text", grammar, name)
		g, _ = s.grammars.ByID("text")
		grammar = "text"
	}

	buf := textbuf.NewBufferFromString(text)
	doc := &Document{
		Path:    path,
		Name:    name,
		Grammar: grammar,
		Buffer:  buf,
		Cursor:  textbuf.NewCursor(buf),
		context: classify.NewContext(buf, g),
	}

	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.active = doc
	s.mu.Unlock()

	s.log.Debug("opened %s as %s (%d bytes)", name, grammar, buf.Len())
	return doc
}

// Active returns the document commands operate on, or nil when nothing
// is open.
func (s *Session) Active() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActive switches the document commands operate on.
func (s *Session) SetActive(doc *Document) {
	s.mu.Lock()
	s.active = doc
	s.mu.Unlock()
}

// Documents returns the open documents in open order.
func (s *Session) Documents() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// DetectGrammar maps a file path to a grammar id by extension, falling
// back to plain text.
func (s *Session) DetectGrammar(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if g, ok := s.grammars.ByExtension(ext); ok {
		return g.ID
	}
	return "text"
}

// Close releases the loaded script states. The session must not be used
// afterward.
func (s *Session) Close() {
	for _, r := range s.scripts {
		r.Close()
	}
	s.scripts = nil
}

// env assembles the per-call environment for a document. Nothing in it
// is retained once the call returns.
func (s *Session) env(doc *Document) *match.Env {
	s.mu.Lock()
	opts := s.opts
	s.mu.Unlock()

	return &match.Env{
		Doc:        doc.Buffer,
		Cursor:     doc.Cursor,
		Classifier: doc.context,
		Grammar:    doc.Grammar,
		Opts:       opts,
	}
}

// MatchOptions projects the configuration onto the engine's option set.
func MatchOptions(cfg config.Config) match.Options {
	return match.Options{
		PercentageJump:  cfg.PercentageJump,
		AlwaysSimple:    cfg.AlwaysSimpleJump,
		SimpleOnly:      toSet(cfg.SimpleOnlyGrammars),
		LineEndSuppress: toSet(cfg.LineEndSuppressGrammars),
		KeepClosingLine: toSet(cfg.KeepClosingLineGrammars),
	}
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
