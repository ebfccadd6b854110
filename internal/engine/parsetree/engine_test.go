package parsetree

import (
	"testing"
	"time"

	"github.com/alefore/edge-sub003/internal/engine/content"
)

func waitForUpdate(t *testing.T, updated chan struct{}) {
	t.Helper()
	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for parse to publish")
	}
}

func TestEngineParsesOnUpdateContents(t *testing.T) {
	updated := make(chan struct{}, 1)
	e := NewEngine(TextParser{}, 10, func() { updated <- struct{}{} })
	defer e.Close()

	c := content.FromString("alpha\n\nbeta gamma")
	e.UpdateContents(c)
	waitForUpdate(t, updated)

	tree := e.Tree()
	if tree == nil || len(tree.Children) != 2 {
		t.Fatalf("expected 2 paragraph nodes, got %+v", tree)
	}
}

func TestEngineSimplifiedTreeRespectsDepth(t *testing.T) {
	updated := make(chan struct{}, 1)
	e := NewEngine(TextParser{}, 1, func() { updated <- struct{}{} })
	defer e.Close()

	c := content.FromString("alpha beta\ngamma delta")
	e.UpdateContents(c)
	waitForUpdate(t, updated)

	simplified := e.SimplifiedTree()
	if len(simplified.Children) == 0 {
		t.Fatal("expected paragraph-level structure to survive depth 1")
	}
	for _, child := range simplified.Children {
		if len(child.Children) != 0 {
			t.Fatalf("expected leaf-level detail pruned at depth 1, got %+v", child)
		}
	}
}

func TestNullParserStartsNoWorker(t *testing.T) {
	e := NewEngine(NullParser{}, 5, nil)
	defer e.Close()
	if e.running {
		t.Fatal("expected NullParser not to start a worker")
	}
}

func TestSetParserJoinsAndRestartsWorker(t *testing.T) {
	updated := make(chan struct{}, 1)
	e := NewEngine(TextParser{}, 5, func() { updated <- struct{}{} })
	defer e.Close()

	e.SetParser(NullParser{})
	if e.running {
		t.Fatal("expected worker to be joined after switching to NullParser")
	}

	e.SetParser(TextParser{})
	if !e.running {
		t.Fatal("expected worker to restart after switching away from NullParser")
	}

	c := content.FromString("hello")
	e.UpdateContents(c)
	waitForUpdate(t, updated)
	if e.Tree() == nil {
		t.Fatal("expected a tree after restart")
	}
}

func TestSimplifyTruncatesAtDepthZero(t *testing.T) {
	full := TextParser{}.Parse([]string{"a", "", "b"})
	simplified := Simplify(full, 0)
	if len(simplified.Children) != 0 {
		t.Fatalf("expected depth 0 to drop all children, got %+v", simplified)
	}
	if simplified.Range != full.Range {
		t.Fatalf("expected range preserved, got %+v vs %+v", simplified.Range, full.Range)
	}
}
