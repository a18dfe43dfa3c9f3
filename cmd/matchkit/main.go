// Package main is the entry point for the matchkit viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/matchkit/internal/app"
	"github.com/dshills/matchkit/internal/classify"
	"github.com/dshills/matchkit/internal/config"
	"github.com/dshills/matchkit/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	ConfigPath string
	Grammar    string
	LogLevel   string
	LogFile    string
	Exprs      []string
	Files      []string
}

// exprList collects repeated -run flags.
type exprList []string

func (e *exprList) String() string { return strings.Join(*e, ",") }

func (e *exprList) Set(v string) error {
	*e = append(*e, v)
	return nil
}

func run() int {
	opts := parseFlags()

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	log, cleanup, err := newLogger(cfg.LogLevel, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	session, err := app.NewSession(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer session.Close()

	if len(opts.Files) > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one file\n")
		return 1
	}
	doc, err := openDocument(session, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(opts.Exprs) > 0 {
		return runBatch(session, doc, opts.Exprs)
	}
	return runUI(session, doc, opts)
}

// openDocument opens the requested file, or an empty scratch buffer
// when none was given. A -grammar override bypasses extension
// detection.
func openDocument(s *app.Session, opts options) (*app.Document, error) {
	if len(opts.Files) == 0 {
		grammar := opts.Grammar
		if grammar == "" {
			grammar = "text"
		}
		return s.OpenString("scratch", "", grammar), nil
	}

	path := opts.Files[0]
	if opts.Grammar != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return s.OpenString(filepath.Base(path), string(data), opts.Grammar), nil
	}
	return s.Open(path)
}

// runBatch executes each -run expression in order, printing results to
// stdout. Any failed expression turns the exit status nonzero.
func runBatch(s *app.Session, doc *app.Document, exprs []string) int {
	code := 0
	for _, expr := range exprs {
		out, err := s.RunExpr(doc, expr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", expr, err)
			code = 1
			continue
		}
		fmt.Println(out)
	}
	return code
}

func runUI(s *app.Session, doc *app.Document, opts options) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	// Restore the terminal when a signal lands outside the event loop.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		screen.Fini()
		os.Exit(1)
	}()

	if w := watchConfig(s, opts.ConfigPath); w != nil {
		defer w.Close()
	}

	term.New(s, doc, screen).Run()
	return 0
}

// watchConfig reloads the session when the config file changes on disk.
func watchConfig(s *app.Session, path string) *config.Watcher {
	if path == "" {
		return nil
	}

	w, err := config.NewWatcher(path, config.DefaultDebounce, s.Logger(), func(p string) {
		cfg, err := config.Load(p)
		if err != nil {
			s.Logger().Warn("config reload: %v", err)
			return
		}
		s.Reload(cfg)
	})
	if err != nil {
		s.Logger().Warn("config watcher: %v", err)
		return nil
	}
	return w
}

// newLogger builds the process logger. Interactive runs keep the
// terminal clean: without -log-file, logging is disabled once the TUI
// starts.
func newLogger(level string, opts options) (*app.Logger, func(), error) {
	lvl := app.ParseLogLevel(level)

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log := app.NewLogger(app.LoggerConfig{Level: lvl, Output: f, Prefix: "matchkit"})
		return log, func() { f.Close() }, nil
	}

	if len(opts.Exprs) == 0 {
		return app.NullLogger, func() {}, nil
	}

	log := app.NewLogger(app.LoggerConfig{Level: lvl, Prefix: "matchkit"})
	return log, func() {}, nil
}

func parseFlags() options {
	var opts options
	var exprs exprList
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Grammar, "grammar", "", "Grammar id override for opened files")
	flag.StringVar(&opts.Grammar, "g", "", "Grammar id override (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.Var(&exprs, "run", "Batch expression to run instead of the TUI (repeatable)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Matchkit - structural pair navigation\n\n")
		fmt.Fprintf(os.Stderr, "Usage: matchkit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nGrammars: %s\n", strings.Join(classify.DefaultRegistry().IDs(), ", "))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  matchkit main.go                      View a file\n")
		fmt.Fprintf(os.Stderr, "  matchkit -g ruby script               Force a grammar\n")
		fmt.Fprintf(os.Stderr, "  matchkit -run jump:120 main.go        Print where a jump lands\n")
		fmt.Fprintf(os.Stderr, "  matchkit -run select:0:inner main.go  Print the inner region\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Matchkit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
			// Valid
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	opts.Exprs = exprs
	opts.Files = flag.Args()
	return opts
}
