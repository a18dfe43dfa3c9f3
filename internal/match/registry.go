package match

import (
	"sort"
	"sync"
)

// Registry associates a grammar id with an ordered list of rules. It is
// built once at startup and read-only afterward; the lock exists because
// the surrounding application (config reload, UI loop) is concurrent even
// though the engine itself is not.
type Registry struct {
	mu    sync.RWMutex
	rules map[string][]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string][]Rule)}
}

// Register associates rules with a grammar id, replacing any existing
// list. Re-registration is idempotent; the later registration wins.
func (r *Registry) Register(grammarID string, rules []Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rules) == 0 {
		delete(r.rules, grammarID)
		return
	}
	list := make([]Rule, len(rules))
	copy(list, rules)
	r.rules[grammarID] = list
}

// Lookup returns the ordered rule list for a grammar id, or nil when the
// grammar has none registered.
func (r *Registry) Lookup(grammarID string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[grammarID]
}

// Grammars returns the registered grammar ids, sorted.
func (r *Registry) Grammars() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
