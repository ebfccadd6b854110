// Package defaultmode builds the normal-mode InputMode an edge process
// installs for every buffer at construction (spec §4.K "Commands are
// registered at editor construction into the root map"). The key
// table itself is grounded on original_source/src/command_mode.cc's
// GetCommandModeMap: structure-selector keys (w, e, B, !, c) set the
// sticky Modifiers.Structure field rather than acting immediately,
// movement/delete/undo commands read whatever Structure, Direction,
// and Repetitions are currently set, and an admin prefix ("a" followed
// by a second key) reaches save/close/quit. Commands that consume a
// one-shot choice reset it via modifiers.Modifiers.ResetSoft before
// returning, exactly as command_mode.cc's commands call
// editor_state->ResetModifiers() after applying.
package defaultmode
