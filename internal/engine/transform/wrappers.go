package transform

import "github.com/alefore/edge-sub003/internal/modifiers"

// ModifiersCarrier is implemented by transformations whose Apply is driven
// by a full modifiers.Modifiers bundle (Move, Delete, SwitchCase).
// SetRepetitions/WithDirection/WithStructure use it to actually swap out
// one field of Inner's modifiers for the duration of a single Apply call,
// rather than merely relabeling Inner.
type ModifiersCarrier interface {
	Transformation
	GetModifiers() modifiers.Modifiers
	SetModifiers(modifiers.Modifiers)
}

// withOverride runs fn against inner with its modifiers temporarily
// replaced by override's result, restoring the original afterward (spec
// §4.E.9: "temporarily override the editor's modifiers for t's application
// and restore them on return"). Transformations that don't implement
// ModifiersCarrier (InsertBuffer, DeleteCharacters, ...) are not
// overridden: inner.Apply runs unchanged.
func withOverride(inner Transformation, r *Result, override func(modifiers.Modifiers) modifiers.Modifiers) {
	mc, ok := inner.(ModifiersCarrier)
	if !ok {
		inner.Apply(r)
		return
	}
	prior := mc.GetModifiers()
	mc.SetModifiers(override(prior))
	mc.Apply(r)
	mc.SetModifiers(prior)
}

// SetRepetitions wraps Inner, running it with Modifiers.Repetitions
// overridden to Repetitions for this one Apply call.
type SetRepetitions struct {
	Repetitions int
	Inner       Transformation
}

func (t *SetRepetitions) Clone() Transformation {
	return &SetRepetitions{Repetitions: t.Repetitions, Inner: t.Inner.Clone()}
}

func (t *SetRepetitions) Apply(r *Result) {
	withOverride(t.Inner, r, func(m modifiers.Modifiers) modifiers.Modifiers {
		return m.WithRepetitions(t.Repetitions)
	})
}

// WithDirection wraps Inner, running it with Modifiers.Direction
// overridden to Direction for this one Apply call.
type WithDirection struct {
	Direction modifiers.Direction
	Inner     Transformation
}

func (t *WithDirection) Clone() Transformation {
	return &WithDirection{Direction: t.Direction, Inner: t.Inner.Clone()}
}

func (t *WithDirection) Apply(r *Result) {
	withOverride(t.Inner, r, func(m modifiers.Modifiers) modifiers.Modifiers {
		return m.WithDirection(t.Direction)
	})
}

// WithStructure wraps Inner, running it with Modifiers.Structure (and
// Modifiers.StructureRange) overridden for this one Apply call.
type WithStructure struct {
	Structure modifiers.Structure
	Range     modifiers.StructureRange
	Inner     Transformation
}

func (t *WithStructure) Clone() Transformation {
	return &WithStructure{Structure: t.Structure, Range: t.Range, Inner: t.Inner.Clone()}
}

func (t *WithStructure) Apply(r *Result) {
	withOverride(t.Inner, r, func(m modifiers.Modifiers) modifiers.Modifiers {
		m = m.WithStructure(t.Structure)
		m.StructureRange = t.Range
		return m
	})
}

// ApplyRepetitions runs Inner n times in sequence (spec's "repeat the whole
// transformation, not just its structural unit" composition, as opposed to
// SetRepetitions which hands a repetition count to a single Apply call).
// Used when a command's repeat count must re-run side effects like
// undo-stack pushes n separate times rather than letting Inner interpret
// the count itself.
type ApplyRepetitions struct {
	Repetitions int
	Inner       Transformation
}

func (t *ApplyRepetitions) Clone() Transformation {
	return &ApplyRepetitions{Repetitions: t.Repetitions, Inner: t.Inner.Clone()}
}

func (t *ApplyRepetitions) Apply(r *Result) {
	n := t.Repetitions
	if n < 1 {
		n = 1
	}
	success, progress, modified := true, false, false
	// Each Inner.Apply pushes its own undo directly onto r.UndoStack, which
	// prepends; running n applications in forward order therefore leaves
	// r.UndoStack holding the n inverses in reverse-of-application order
	// with no extra bookkeeping here (same reasoning as
	// TransformationStack.Apply).
	for i := 0; i < n; i++ {
		t.Inner.Apply(r)
		success = success && r.Success
		progress = progress || r.MadeProgress
		modified = modified || r.ModifiedBuffer
		if !r.MadeProgress {
			break
		}
	}
	r.Success = success
	r.MadeProgress = progress
	r.ModifiedBuffer = modified
}
