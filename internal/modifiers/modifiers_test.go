package modifiers

import (
	"testing"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

func TestResetSoftKeepsStructureAndDirection(t *testing.T) {
	m := Default().WithStructure(StructureWord).WithDirection(Backwards).WithRepetitions(4)
	m.DeleteType = PreserveContents

	soft := m.ResetSoft()
	if soft.Structure != StructureWord || soft.Direction != Backwards {
		t.Fatalf("expected structure/direction to stick, got %+v", soft)
	}
	if soft.Repetitions != 1 || soft.DeleteType != DeleteContents {
		t.Fatalf("expected transient fields reset, got %+v", soft)
	}
}

func TestResetHardRestoresEverything(t *testing.T) {
	m := Default().WithStructure(StructureWord).WithDirection(Backwards)
	hard := m.ResetHard()
	if hard.Structure != StructureChar || hard.Direction != Forwards {
		t.Fatalf("expected full reset, got %+v", hard)
	}
}

func TestWithRepetitionsClampsToOne(t *testing.T) {
	m := Default().WithRepetitions(-5)
	if m.Repetitions != 1 {
		t.Fatalf("expected clamp to 1, got %d", m.Repetitions)
	}
}

// TestFindPartialRangeDeleteWordBackwards exercises scenario S2: deleting
// one word backwards from the middle of "beta " in "alpha beta gamma"
// should yield exactly the range covering "beta".
func TestFindPartialRangeDeleteWordBackwards(t *testing.T) {
	c := content.FromString("alpha beta gamma")
	m := Default().WithStructure(StructureWord).WithDirection(Backwards)

	r := FindPartialRange(c, m, position.LineColumn{Line: 0, Column: 10})

	want := position.NewRange(
		position.LineColumn{Line: 0, Column: 6},
		position.LineColumn{Line: 0, Column: 10},
	)
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestFindPartialRangeDeleteWordForwards(t *testing.T) {
	c := content.FromString("quick brown fox")
	m := Default().WithStructure(StructureWord)

	r := FindPartialRange(c, m, position.LineColumn{Line: 0, Column: 0})

	want := position.NewRange(
		position.LineColumn{Line: 0, Column: 0},
		position.LineColumn{Line: 0, Column: 5},
	)
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestFindPartialRangeSingleCharacterForwards(t *testing.T) {
	c := content.FromString("abc")
	m := Default()

	r := FindPartialRange(c, m, position.LineColumn{Line: 0, Column: 1})

	want := position.NewRange(
		position.LineColumn{Line: 0, Column: 1},
		position.LineColumn{Line: 0, Column: 2},
	)
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

// TestFindPartialRangeInvariant checks the universal invariant that the
// returned range is always correctly ordered, across every structure and
// direction combination, including positions sitting on separators.
func TestFindPartialRangeInvariant(t *testing.T) {
	c := content.FromString("alpha beta gamma")
	structures := []Structure{StructureChar, StructureWord, StructureLine, StructureSymbol}
	directions := []Direction{Forwards, Backwards}

	for _, s := range structures {
		for _, d := range directions {
			for col := 0; col <= 17; col++ {
				m := Default().WithStructure(s).WithDirection(d)
				r := FindPartialRange(c, m, position.LineColumn{Line: 0, Column: col})
				if r.End.Less(r.Begin) {
					t.Fatalf("structure=%v direction=%v col=%d: begin %+v > end %+v", s, d, col, r.Begin, r.End)
				}
			}
		}
	}
}

func TestFindPartialRangeRepetitionsExtendsRange(t *testing.T) {
	c := content.FromString("alpha beta gamma")
	m := Default().WithStructure(StructureWord).WithRepetitions(2)

	r := FindPartialRange(c, m, position.LineColumn{Line: 0, Column: 0})

	// Two repetitions forward from "alpha" should reach past "beta" too.
	if r.End.Column <= 5 {
		t.Fatalf("expected range to extend past the first word, got %+v", r)
	}
}
