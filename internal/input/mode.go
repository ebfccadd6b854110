package input

import "github.com/alefore/edge-sub003/internal/input/key"

// InputMode is a polymorphic consumer of keyboard events (spec §4.K).
// ProcessInput reports whether the event was consumed; a mode that
// returns false lets a wrapping mode (RepeatMode) or the editor's
// default handling see the event instead.
type InputMode interface {
	ProcessInput(ev key.Event, ctx *Context) bool
}

// Command is registered into a MapMode's bindings (spec's "Commands are
// registered at editor construction into the root map").
type Command interface {
	Description() string
	Category() string
	ProcessInput(ev key.Event, ctx *Context) error
}
