package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

// Validation errors.
var (
	ErrBadShortcut = errors.New("shortcut must be a single character")
	ErrBadLogLevel = errors.New("log_level must be debug, info, warn, or error")
)

// Config holds every user-tunable setting. The zero value is not usable;
// start from Default.
type Config struct {
	// Shortcut is the key that triggers the item jump, normally "%".
	Shortcut string `toml:"shortcut"`

	// PercentageJump interprets a numeric argument to the shortcut as a
	// percentage of the document rather than a repeat count.
	PercentageJump bool `toml:"percentage_jump"`

	// AlwaysSimpleJump bypasses grammar rules everywhere and matches
	// with the delimiter scanner only.
	AlwaysSimpleJump bool `toml:"always_simple_jump"`

	// SimpleOnlyGrammars bypasses grammar rules for the listed grammar
	// ids only.
	SimpleOnlyGrammars []string `toml:"simple_only_grammars"`

	// LineEndSuppressGrammars lists grammars where a cursor on the final
	// column of a line never matches.
	LineEndSuppressGrammars []string `toml:"line_end_suppress_grammars"`

	// KeepClosingLineGrammars lists grammars whose inner region keeps
	// the line carrying the closing token.
	KeepClosingLineGrammars []string `toml:"keep_closing_line_grammars"`

	// RulePacks are paths to JSON keyword-rule packs loaded at startup.
	RulePacks []string `toml:"rule_packs"`

	// LuaRules are paths to rule scripts loaded at startup.
	LuaRules []string `toml:"lua_rules"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		Shortcut:                "%",
		PercentageJump:          true,
		LineEndSuppressGrammars: []string{"sh"},
		KeepClosingLineGrammars: []string{"python"},
		LogLevel:                "info",
	}
}

// Load reads configuration from a TOML file. A missing file yields the
// defaults; any other failure reports an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// Parse decodes configuration from TOML bytes over the defaults.
func Parse(data []byte) (Config, error) {
	return parse("<memory>", data)
}

func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return Config{}, perr
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Validate checks settings that cannot be represented by type alone.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Shortcut) != 1 {
		return fmt.Errorf("%w, got %q", ErrBadShortcut, c.Shortcut)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w, got %q", ErrBadLogLevel, c.LogLevel)
	}
	return nil
}

// ParseError reports a configuration file that could not be decoded or
// validated.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
