package match

import (
	"github.com/dshills/matchkit/internal/textbuf"
)

// Engine dispatches navigation calls across the registered rules and the
// built-in delimiter scanner.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over the given rule registry.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Engine{registry: registry}
}

// Registry returns the engine's rule registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// OperateOnItem runs one navigation call: rules for the grammar are tried
// in registration order, the first recognition wins, and the delimiter
// scanner gets a second chance when none recognize anything.
//
// preJump, when non-nil, receives the accepted tag before the cursor
// moves; the region resolver uses it to mark the span's start. Exactly
// one rule's Jump executes per call. Later rules still get their GetTag
// call for module bookkeeping, but never Jump. Once a rule's tag is
// accepted, its jump result is final - a failed jump fails the call
// without falling back to the scanner.
func (e *Engine) OperateOnItem(env *Env, count int, preJump func(Tag)) (textbuf.Offset, bool) {
	if count < 1 {
		count = 1
	}

	rules := e.registry.Lookup(env.Grammar)
	if env.Opts.AlwaysSimple || env.Opts.SimpleOnly[env.Grammar] {
		rules = nil
	}

	var dest textbuf.Offset
	var jumped, accepted bool
	for _, rule := range rules {
		tag := rule.GetTag(env)
		if tag == nil || accepted {
			continue
		}
		accepted = true
		if preJump != nil {
			preJump(tag)
		}
		dest, jumped = rule.Jump(env, tag, count)
	}
	if accepted {
		return dest, jumped
	}

	// Second chance: the generic scanner runs even for grammars with no
	// registered rules, so bracket and quote matching always work.
	if preJump != nil {
		preJump(PosTag(env.Cursor.Position()))
	}
	dest, ok := ScanDelimiter(env)
	if !ok {
		return 0, false
	}
	env.Cursor.SetPosition(dest)
	return dest, true
}

// JumpItem is the entry point for the jump command. A positive numeric
// argument selects the percentage motion when that mode is enabled;
// otherwise the argument (zero means none supplied) repeats the item
// jump. Reports the final cursor position.
func (e *Engine) JumpItem(env *Env, count int) (textbuf.Offset, bool) {
	if count > 0 && env.Opts.PercentageJump {
		return e.JumpToPercentage(env, count), true
	}
	return e.OperateOnItem(env, count, nil)
}
