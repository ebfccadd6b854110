package input

import "sync"

// Registry is the root command map Commands are registered into at
// editor construction (spec §4.K: "Commands are registered at editor
// construction into the root map"). It is also the direct input to
// NewMapMode's bindings.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: map[string]Command{}}
}

// Register binds sequence (a space-separated key.Event token string,
// e.g. "g g") to cmd, replacing any existing binding.
func (r *Registry) Register(sequence string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[sequence] = cmd
}

// Lookup returns the command bound to sequence, if any.
func (r *Registry) Lookup(sequence string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[sequence]
	return cmd, ok
}

// Bindings returns a snapshot suitable for NewMapMode.
func (r *Registry) Bindings() map[string]Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}
