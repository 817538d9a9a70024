package machine

import "sync"

// GlobalEnv is the shared, read-mostly-after-startup table of global
// bindings, such as the prelude functions. A script's top-level Defs are
// locals of the top-level compile scope and are not stored here. It is
// safe for concurrent reads; writes (AddFunction, Set) are expected to
// happen during prelude setup and
// top-level evaluation, serialized by the same mutex readers use, matching
// spec §5's "global table is read-mostly after program start" model.
type GlobalEnv struct {
	mu   sync.RWMutex
	vars map[string]Value
}

// NewGlobalEnv returns an empty global environment.
func NewGlobalEnv() *GlobalEnv {
	return &GlobalEnv{vars: make(map[string]Value)}
}

// AddFunction registers a builtin under name. This is the Prelude contract
// mentioned in spec §6: every builtin the prelude package exposes goes
// through this single entry point.
func (g *GlobalEnv) AddFunction(name string, fn Callable) {
	g.Set(name, fn)
}

// Get looks up a global by name.
func (g *GlobalEnv) Get(name string) (Value, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vars[name]
	return v, ok
}

// Set creates or overwrites a global binding.
func (g *GlobalEnv) Set(name string, v Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vars[name] = v
}
