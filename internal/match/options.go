package match

// Options captures the engine-facing configuration. Callers build one
// per session (typically from the config file) and stamp it onto each
// Env; the engine itself holds no settings.
type Options struct {
	// PercentageJump selects the percentage interpretation of a numeric
	// argument to JumpItem. When false a numeric argument repeats the
	// item jump instead.
	PercentageJump bool

	// AlwaysSimple bypasses grammar rules entirely and always uses the
	// built-in delimiter scanner.
	AlwaysSimple bool

	// SimpleOnly forces the delimiter scanner for individual grammars
	// whose rule modules are unreliable.
	SimpleOnly map[string]bool

	// LineEndSuppress lists grammars where matching is suppressed when
	// the cursor sits on the final column of a line. Comment and string
	// classification at that position is unreliable for these grammars,
	// so declining is safer than a wrong jump.
	LineEndSuppress map[string]bool

	// KeepClosingLine lists grammars whose inner region keeps the line
	// carrying the closing token, because that line is itself content.
	KeepClosingLine map[string]bool
}

// DefaultOptions returns the documented default configuration.
func DefaultOptions() Options {
	return Options{
		PercentageJump:  true,
		LineEndSuppress: map[string]bool{"sh": true},
		KeepClosingLine: map[string]bool{"python": true},
	}
}
