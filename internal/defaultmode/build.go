package defaultmode

import (
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// Keymap bundles the constructed normal-mode InputMode alongside the
// registry it was built from, so a help command or cmd/edge can still
// list bindings after Build returns.
type Keymap struct {
	Mode     input.InputMode
	Registry *input.Registry
}

// Build registers every command this package defines into a fresh
// Registry, keyed on the same tokens original_source/src/command_mode.cc's
// GetCommandModeMap uses, then wraps the resulting MapMode in a
// RepeatMode so leading digit runs feed Modifiers.Repetitions before
// ever reaching the trie (spec §4.K).
func Build() *Keymap {
	pb := &pasteBuffer{}
	ins := &input.InsertMode{LineSuffixSuperfluous: " \t"}

	reg := input.NewRegistry()

	reg.Register("h", &moveCommand{desc: "moves backwards", direction: modifiers.Backwards})
	reg.Register("l", &moveCommand{desc: "moves forwards", direction: modifiers.Forwards})
	reg.Register("Left", &moveCommand{desc: "moves backwards", direction: modifiers.Backwards})
	reg.Register("Right", &moveCommand{desc: "moves forwards", direction: modifiers.Forwards})

	reg.Register("j", &lineMoveCommand{desc: "moves down a line", direction: modifiers.Forwards})
	reg.Register("k", &lineMoveCommand{desc: "moves up a line", direction: modifiers.Backwards})
	reg.Register("Down", &lineMoveCommand{desc: "moves down a line", direction: modifiers.Forwards})
	reg.Register("Up", &lineMoveCommand{desc: "moves up a line", direction: modifiers.Backwards})

	reg.Register("PgDn", &pageMoveCommand{desc: "moves down a page", direction: modifiers.Forwards})
	reg.Register("PgUp", &pageMoveCommand{desc: "moves up a page", direction: modifiers.Backwards})

	reg.Register("w", &structureCommand{desc: "selects structure: word", structure: modifiers.StructureWord})
	reg.Register("e", &structureCommand{desc: "selects structure: line", structure: modifiers.StructureLine})
	reg.Register("E", &structureCommand{desc: "selects structure: page", structure: modifiers.StructurePage})
	reg.Register("F", &structureCommand{desc: "selects structure: search", structure: modifiers.StructureSearch})
	reg.Register("c", &structureCommand{desc: "selects structure: cursor", structure: modifiers.StructureCursor})
	reg.Register("B", &structureCommand{desc: "selects structure: buffer", structure: modifiers.StructureBuffer})
	reg.Register("!", &structureCommand{desc: "selects structure: mark", structure: modifiers.StructureMark})

	reg.Register("r", &reverseDirectionCommand{})

	reg.Register("d", &deleteCommand{pb: pb})
	reg.Register("p", &pasteCommand{pb: pb})
	reg.Register("~", &switchCaseCommand{})
	reg.Register("u", &historyCommand{})

	reg.Register("i", &insertModeCommand{desc: "enters insert mode", ins: ins})
	reg.Register("f", &findModeCommand{})

	reg.Register("a w", &saveCommand{})
	reg.Register("a d", &closeBufferCommand{})
	reg.Register("a q", &quitCommand{})

	mapMode := input.NewMapMode(reg.Bindings(), nil)
	return &Keymap{Mode: input.NewRepeatMode(mapMode), Registry: reg}
}
