package luarule

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/textbuf"
)

// Errors returned when loading a rule script.
var (
	// ErrMissingHooks reports a script that does not define both the
	// get_tag and jump functions.
	ErrMissingHooks = errors.New("script must define get_tag and jump")

	// ErrNoGrammar reports a script without a usable grammar global.
	ErrNoGrammar = errors.New("script must set grammar to a string or a list of strings")
)

// Logger receives script failure reports. Satisfied by *app.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// LuaRule adapts one user script to the match.Rule interface. Each rule
// owns a private sandboxed state, so one failing script cannot corrupt
// another.
//
// IMPORTANT: gopher-lua states are not goroutine-safe. A LuaRule must be
// driven from a single goroutine; the one-navigation-at-a-time engine
// model already guarantees this.
type LuaRule struct {
	name     string
	grammars []string
	state    *lua.LState
	log      Logger

	// env is the navigation call currently on the Go stack. The buf
	// module reads the document through it; GetTag and Jump stamp it
	// before entering Lua and clear it after.
	env *match.Env
}

// Load reads a script from disk and compiles it. The rule is named after
// the file, minus its extension.
func Load(path string, log Logger) (*LuaRule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lua rule: %w", err)
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return New(name, string(code), log)
}

// New compiles a rule script in a fresh sandboxed state. The script body
// runs once here to define its hooks and declare its grammars.
func New(name, code string, log Logger) (*LuaRule, error) {
	if log == nil {
		log = nopLogger{}
	}
	r := &LuaRule{name: name, log: log}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	r.state = L

	// Safe libraries only; io, os, debug, and package stay closed.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base exports loaders that could pull in arbitrary code.
	for _, g := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(g, lua.LNil)
	}

	r.installBuf(L)

	if err := r.protect(func() error { return L.DoString(code) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua rule %s: %w", name, err)
	}

	for _, hook := range []string{"get_tag", "jump"} {
		if L.GetGlobal(hook).Type() != lua.LTFunction {
			L.Close()
			return nil, fmt.Errorf("lua rule %s: %w", name, ErrMissingHooks)
		}
	}

	grammars, err := readGrammars(L)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("lua rule %s: %w", name, err)
	}
	r.grammars = grammars

	return r, nil
}

// readGrammars interprets the script's grammar global.
func readGrammars(L *lua.LState) ([]string, error) {
	switch v := L.GetGlobal("grammar").(type) {
	case lua.LString:
		return []string{string(v)}, nil
	case *lua.LTable:
		var ids []string
		for i := 1; i <= v.Len(); i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				return nil, ErrNoGrammar
			}
			ids = append(ids, string(s))
		}
		if len(ids) == 0 {
			return nil, ErrNoGrammar
		}
		return ids, nil
	default:
		return nil, ErrNoGrammar
	}
}

// Name returns the rule's script name.
func (r *LuaRule) Name() string { return r.name }

// Grammars returns the grammar ids the script declared.
func (r *LuaRule) Grammars() []string {
	ids := make([]string, len(r.grammars))
	copy(ids, r.grammars)
	return ids
}

// Close releases the Lua state. The rule must not be used afterward.
func (r *LuaRule) Close() {
	r.state.Close()
}

// Register places the rule ahead of any rules already registered for its
// declared grammars. User scripts outrank built-ins; the scanner fallback
// still runs when a script declines.
func Register(reg *match.Registry, rule *LuaRule) {
	for _, id := range rule.Grammars() {
		list := append([]match.Rule{rule}, reg.Lookup(id)...)
		reg.Register(id, list)
	}
}

// luaTag carries the script's tag value back into its own jump call. The
// engine only reads Start.
type luaTag struct {
	start textbuf.Offset
	value lua.LValue
}

// Start returns where the tagged element begins.
func (t luaTag) Start() textbuf.Offset { return t.start }

// GetTag calls the script's get_tag hook. A nil or false result declines.
// A number tags that 1-based offset; a table tags its start field when one
// is present; anything else tags the cursor. Script errors log and
// decline, leaving the other rules and the scanner fallback to run.
func (r *LuaRule) GetTag(env *match.Env) match.Tag {
	r.env = env
	defer func() { r.env = nil }()

	ret, err := r.call("get_tag")
	if err != nil {
		r.log.Warn("lua rule %s: get_tag: %v", r.name, err)
		return nil
	}

	start := env.Cursor.Position()
	switch v := ret.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		if !bool(v) {
			return nil
		}
	case lua.LNumber:
		start = textbuf.Offset(v) - 1
	case *lua.LTable:
		if n, ok := v.RawGetString("start").(lua.LNumber); ok {
			start = textbuf.Offset(n) - 1
		}
	}
	return luaTag{start: start, value: ret}
}

// Jump calls the script's jump hook with the tag value the script itself
// produced and the repeat count. The hook returns the 1-based destination
// or nil on failure. Script errors log and fail the jump.
func (r *LuaRule) Jump(env *match.Env, tag match.Tag, count int) (textbuf.Offset, bool) {
	lt, ok := tag.(luaTag)
	if !ok {
		// Only tags produced by this rule's GetTag are meaningful.
		return 0, false
	}

	r.env = env
	defer func() { r.env = nil }()

	ret, err := r.call("jump", lt.value, lua.LNumber(count))
	if err != nil {
		r.log.Warn("lua rule %s: jump: %v", r.name, err)
		return 0, false
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false
	}

	dest := textbuf.Offset(n) - 1
	if dest < 0 {
		dest = 0
	}
	if max := env.Doc.Len(); dest > max {
		dest = max
	}
	env.Cursor.SetPosition(dest)
	return dest, true
}

// call invokes a global hook, shielding the host from both Lua errors and
// panics raised through the bridge.
func (r *LuaRule) call(fn string, args ...lua.LValue) (ret lua.LValue, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ret, err = lua.LNil, fmt.Errorf("lua panic: %v", rec)
		}
	}()

	err = r.state.CallByParam(lua.P{
		Fn:      r.state.GetGlobal(fn),
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return lua.LNil, err
	}
	ret = r.state.Get(-1)
	r.state.Pop(1)
	return ret, nil
}

// protect runs fn with panic recovery.
func (r *LuaRule) protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// installBuf publishes the document bridge as a global buf table. All
// offsets cross the bridge 1-based; text_range includes both ends.
func (r *LuaRule) installBuf(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "len", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		L.Push(lua.LNumber(env.Doc.Len()))
		return 1
	}))

	L.SetField(mod, "char_at", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		ch, size := env.Doc.RuneAt(textbuf.Offset(L.CheckInt64(1)) - 1)
		if size == 0 {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(string(ch)))
		return 1
	}))

	L.SetField(mod, "line_start", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		L.Push(lua.LNumber(env.Doc.LineStartAt(textbuf.Offset(L.CheckInt64(1))-1) + 1))
		return 1
	}))

	L.SetField(mod, "line_end", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		// The exclusive end of line content is also the 1-based offset
		// of the last content byte. Empty lines report line_end one
		// below line_start.
		L.Push(lua.LNumber(env.Doc.LineEndAt(textbuf.Offset(L.CheckInt64(1)) - 1)))
		return 1
	}))

	L.SetField(mod, "text_range", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		i := textbuf.Offset(L.CheckInt64(1))
		j := textbuf.Offset(L.CheckInt64(2))
		L.Push(lua.LString(env.Doc.TextRange(i-1, j)))
		return 1
	}))

	L.SetField(mod, "cursor", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		L.Push(lua.LNumber(env.Cursor.Position() + 1))
		return 1
	}))

	L.SetField(mod, "set_cursor", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		dest := textbuf.Offset(L.CheckInt64(1)) - 1
		if dest < 0 {
			dest = 0
		}
		if max := env.Doc.Len(); dest > max {
			dest = max
		}
		env.Cursor.SetPosition(dest)
		return 0
	}))

	L.SetField(mod, "grammar", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		L.Push(lua.LString(env.Grammar))
		return 1
	}))

	L.SetField(mod, "is_comment", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		off := textbuf.Offset(L.CheckInt64(1)) - 1
		L.Push(lua.LBool(env.Classifier.ClassAt(off).IsComment()))
		return 1
	}))

	L.SetField(mod, "is_string", L.NewFunction(func(L *lua.LState) int {
		env := r.activeEnv(L)
		off := textbuf.Offset(L.CheckInt64(1)) - 1
		L.Push(lua.LBool(env.Classifier.ClassAt(off).IsString()))
		return 1
	}))

	L.SetGlobal("buf", mod)
}

// activeEnv returns the environment of the navigation call on the stack,
// raising a Lua error when a script touches buf outside a hook call.
func (r *LuaRule) activeEnv(L *lua.LState) *match.Env {
	if r.env == nil {
		L.RaiseError("buf is only available inside get_tag and jump")
	}
	return r.env
}
