package defaultmode

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/history"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/input/key"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// moveCommand moves the cursor one Modifiers.Structure unit in a fixed
// direction, honoring whatever Structure and Repetitions are currently
// sticky (spec §4.E.6), then resets the one-shot fields.
type moveCommand struct {
	desc      string
	direction modifiers.Direction
}

func (c *moveCommand) Description() string { return c.desc }
func (c *moveCommand) Category() string    { return "movement" }

func (c *moveCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.ApplyTransformation(&transform.Move{
		Modifiers: ctx.Modifiers.WithDirection(c.direction),
	})
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	return nil
}

// lineMoveCommand forces StructureLine regardless of the sticky
// structure, for keys dedicated to line-at-a-time motion (j/k, arrows).
type lineMoveCommand struct {
	desc      string
	direction modifiers.Direction
}

func (c *lineMoveCommand) Description() string { return c.desc }
func (c *lineMoveCommand) Category() string    { return "movement" }

func (c *lineMoveCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.ApplyTransformation(&transform.Move{
		Modifiers: ctx.Modifiers.WithStructure(modifiers.StructureLine).WithDirection(c.direction),
	})
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	return nil
}

// pageMoveCommand forces StructurePage, for PageUp/PageDown.
type pageMoveCommand struct {
	desc      string
	direction modifiers.Direction
}

func (c *pageMoveCommand) Description() string { return c.desc }
func (c *pageMoveCommand) Category() string    { return "movement" }

func (c *pageMoveCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.ApplyTransformation(&transform.Move{
		Modifiers: ctx.Modifiers.WithStructure(modifiers.StructurePage).WithDirection(c.direction),
	})
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	return nil
}

// structureCommand sets the sticky Structure modifier without applying
// any transformation, matching command_mode.cc's SetStructureCommand:
// a later key (move, delete, switch-case) reads it.
type structureCommand struct {
	desc      string
	structure modifiers.Structure
}

func (c *structureCommand) Description() string { return c.desc }
func (c *structureCommand) Category() string    { return "modifier" }

func (c *structureCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Modifiers = ctx.Modifiers.WithStructure(c.structure)
	return nil
}

// reverseDirectionCommand flips the sticky Direction field, matching
// command_mode.cc's ReverseDirectionCommand (used to turn undo into
// redo: "u" walks past/future depending on the current direction).
type reverseDirectionCommand struct{}

func (c *reverseDirectionCommand) Description() string { return "reverses the direction of the next command" }
func (c *reverseDirectionCommand) Category() string    { return "modifier" }

func (c *reverseDirectionCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Modifiers = ctx.Modifiers.WithDirection(ctx.Modifiers.Direction.Reverse())
	return nil
}

// deleteCommand removes the Modifiers.Structure-scoped span at the
// cursor, copying it into the shared paste buffer (spec §4.E.5).
type deleteCommand struct {
	pb *pasteBuffer
}

func (c *deleteCommand) Description() string { return "deletes the current item (char, word, line, ...)" }
func (c *deleteCommand) Category() string    { return "editing" }

func (c *deleteCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	m := ctx.Modifiers
	m.DeleteType = modifiers.DeleteContents
	m.CopyToPasteBuffer = true
	r := ctx.Editor.ApplyTransformation(&transform.Delete{Modifiers: m})
	if r.DeleteBuffer != nil {
		c.pb.set(r.DeleteBuffer)
	}
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	return nil
}

// pasteBuffer holds the most recently deleted span, shared between
// deleteCommand and pasteCommand (spec's "paste buffer").
type pasteBuffer struct {
	contents *content.Content
}

func (p *pasteBuffer) set(c *content.Content) { p.contents = c.Copy() }

// pasteCommand inserts the shared paste buffer's contents at the
// cursor, matching command_mode.cc's Paste command.
type pasteCommand struct {
	pb *pasteBuffer
}

func (c *pasteCommand) Description() string { return "pastes the last deleted text" }
func (c *pasteCommand) Category() string    { return "editing" }

func (c *pasteCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	if c.pb.contents == nil {
		return nil
	}
	reps := ctx.Modifiers.Repetitions
	if reps < 1 {
		reps = 1
	}
	ctx.Editor.ApplyTransformation(&transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents:      c.pb.contents,
		Repetitions:   reps,
		FinalPosition: transform.FinalPositionEnd,
	}})
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	return nil
}

// switchCaseCommand flips the case of the Modifiers.Structure-scoped
// span at the cursor.
type switchCaseCommand struct{}

func (c *switchCaseCommand) Description() string { return "switches the case of the current character" }
func (c *switchCaseCommand) Category() string    { return "editing" }

func (c *switchCaseCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.ApplyTransformation(&transform.SwitchCase{Modifiers: ctx.Modifiers})
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	return nil
}

// historyCommand implements "u": direction Forwards undoes, Backwards
// (after reverseDirectionCommand) redoes, matching
// OpenBuffer::Undo reading editor_state->direction() to choose which
// stack is the source.
type historyCommand struct{}

func (c *historyCommand) Description() string { return "undoes (or, direction-reversed, redoes) the last change" }
func (c *historyCommand) Category() string    { return "history" }

func (c *historyCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	reps := ctx.Modifiers.Repetitions
	if reps < 1 {
		reps = 1
	}
	var err error
	if ctx.Modifiers.Direction == modifiers.Forwards {
		_, err = ctx.Editor.Undo(history.SkipIrrelevant, reps)
	} else {
		_, err = ctx.Editor.Redo(history.SkipIrrelevant, reps)
	}
	ctx.Modifiers = ctx.Modifiers.ResetSoft()
	if err == history.ErrNothingToUndo || err == history.ErrNothingToRedo {
		return nil
	}
	return err
}

// insertModeCommand installs ins as the active mode without moving the
// cursor (vim's "i").
type insertModeCommand struct {
	desc string
	ins  input.InputMode
}

func (c *insertModeCommand) Description() string { return c.desc }
func (c *insertModeCommand) Category() string    { return "mode" }

func (c *insertModeCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.SetMode(c.ins)
	return nil
}

// saveCommand writes the current buffer's content to its path and
// clears the dirty flag, matching command_mode.cc's SaveBufferCommand.
type saveCommand struct{}

func (c *saveCommand) Description() string { return "saves the current buffer" }
func (c *saveCommand) Category() string    { return "admin" }

func (c *saveCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	return saveBuffer(ctx.Editor.CurrentBuffer())
}

// closeBufferCommand closes the current buffer, saving first if dirty.
type closeBufferCommand struct{}

func (c *closeBufferCommand) Description() string { return "closes the current buffer" }
func (c *closeBufferCommand) Category() string    { return "admin" }

func (c *closeBufferCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	buf := ctx.Editor.CurrentBuffer()
	return ctx.Editor.CloseBuffer(ctx.Editor.CurrentBufferName(), func() error {
		return saveBuffer(buf)
	})
}

// findModeCommand enters find-mode ("f"), seeking the next keystroke's
// rune in the sticky Direction (original_source's EnterFindMode calls
// NewFindMode() with no argument because its FindMode reads
// editor_state->direction() itself; this port's FindMode freezes
// direction at construction instead, so the direction is read here,
// at dispatch time, rather than inside FindMode).
type findModeCommand struct{}

func (c *findModeCommand) Description() string { return "finds occurrences of a character" }
func (c *findModeCommand) Category() string    { return "movement" }

func (c *findModeCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.SetMode(input.NewFindMode(ctx.Modifiers.Direction))
	return nil
}

// quitCommand requests a clean process exit.
type quitCommand struct{}

func (c *quitCommand) Description() string { return "quits" }
func (c *quitCommand) Category() string    { return "admin" }

func (c *quitCommand) ProcessInput(ev key.Event, ctx *input.Context) error {
	ctx.Editor.RequestExit(0)
	return nil
}
