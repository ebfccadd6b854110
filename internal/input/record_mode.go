package input

import (
	"fmt"
	"sync"

	"github.com/alefore/edge-sub003/internal/input/key"
)

// Registers stores recorded macros keyed by a lowercase letter or
// digit register name, grounded on keystorm's internal/input/macro
// Recorder/register validation (spec.md's module K supplement: "start/
// stop capturing keystrokes into a named register, replay via
// repetition", named in SPEC_FULL.md against
// original_source/src/advanced_mode.cc and record_command.cc).
type Registers struct {
	mu        sync.Mutex
	registers map[rune][]key.Event
}

func NewRegisters() *Registers {
	return &Registers{registers: map[rune][]key.Event{}}
}

// IsValidRegister reports whether r names a usable register: a
// lowercase letter or digit.
func IsValidRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func (r *Registers) Set(name rune, events []key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]key.Event, len(events))
	copy(saved, events)
	r.registers[name] = saved
}

func (r *Registers) Get(name rune) []key.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.registers[name]
	out := make([]key.Event, len(events))
	copy(out, events)
	return out
}

// RecordMode wraps Inner, forwarding every keystroke to it while also
// appending it to the register named at construction. A RecordMode is
// one-shot in the sense that the caller is expected to call Stop (via
// the editor's own key binding for the record-toggle command) to end
// the recording and restore Inner as the active mode; RecordMode itself
// never pops back on its own, since there's no single key that
// universally means "stop recording" across bindings.
type RecordMode struct {
	Inner     InputMode
	Registers *Registers
	Register  rune

	events []key.Event
}

// NewRecordMode begins recording into register, wrapping inner so every
// consumed keystroke keeps being handled normally.
func NewRecordMode(inner InputMode, registers *Registers, register rune) (*RecordMode, error) {
	if !IsValidRegister(register) {
		return nil, fmt.Errorf("input: invalid macro register %q", register)
	}
	return &RecordMode{Inner: inner, Registers: registers, Register: register}, nil
}

func (m *RecordMode) ProcessInput(ev key.Event, ctx *Context) bool {
	consumed := m.Inner.ProcessInput(ev, ctx)
	if consumed {
		m.events = append(m.events, ev)
	}
	return consumed
}

// Stop ends the recording, saves it to the register, and returns the
// wrapped mode to resume as active.
func (m *RecordMode) Stop() InputMode {
	m.Registers.Set(m.Register, m.events)
	return m.Inner
}

// Replay feeds a previously recorded register's events through target,
// Modifiers.Repetitions times (spec supplement's "replay via
// repetition").
func Replay(registers *Registers, register rune, reps int, target InputMode, ctx *Context) {
	if reps < 1 {
		reps = 1
	}
	events := registers.Get(register)
	for i := 0; i < reps; i++ {
		for _, ev := range events {
			target.ProcessInput(ev, ctx)
		}
	}
}
