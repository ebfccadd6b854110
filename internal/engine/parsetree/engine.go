package parsetree

import (
	"strings"
	"sync"

	"github.com/alefore/edge-sub003/internal/engine/content"
)

// Engine runs the single background worker per buffer described by
// spec §4.D: it waits for either pending contents or shutdown, parses
// outside any lock, and publishes both the full and simplified trees.
//
// A channel-based wait replaces the condition variable of the original
// implementation; Go's select over a signal channel and a shutdown
// channel is the idiomatic equivalent.
type Engine struct {
	mu sync.Mutex

	parser    Parser
	treeDepth int
	pending   []string

	tree       *Node
	simplified *Node

	onUpdate func()

	signal   chan struct{}
	shutdown chan struct{}
	done     chan struct{}
	running  bool
}

// NewEngine constructs an Engine with the given initial parser and
// zoom depth. onUpdate, if non-nil, is called (not holding the lock)
// after every successful parse, to trigger a redraw.
func NewEngine(parser Parser, treeDepth int, onUpdate func()) *Engine {
	e := &Engine{
		parser:    parser,
		treeDepth: treeDepth,
		onUpdate:  onUpdate,
		signal:    make(chan struct{}, 1),
	}
	if !parser.IsNull() {
		e.startLocked()
	}
	return e
}

// UpdateContents snapshots c's lines and marks them pending for the
// worker to parse. Safe to call from any goroutine.
func (e *Engine) UpdateContents(c *content.Content) {
	lines := strings.Split(c.String(), "\n")

	e.mu.Lock()
	e.pending = lines
	e.mu.Unlock()

	select {
	case e.signal <- struct{}{}:
	default:
		// A parse is already pending; the worker will pick up the
		// latest snapshot when it next runs.
	}
}

// SetParser swaps the active parser. Per spec §4.D, swapping to
// NullParser joins the worker thread; swapping away from it restarts one.
func (e *Engine) SetParser(p Parser) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.parser = p
	switch {
	case p.IsNull() && e.running:
		e.stopLocked()
	case !p.IsNull() && !e.running:
		e.startLocked()
	}
}

// SetTreeDepth changes the zoom depth used for the simplified tree.
func (e *Engine) SetTreeDepth(depth int) {
	e.mu.Lock()
	e.treeDepth = depth
	e.mu.Unlock()
}

// Tree returns the most recently published full parse tree (nil if
// nothing has been parsed yet).
func (e *Engine) Tree() *Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree
}

// SimplifiedTree returns the most recently published simplified tree.
func (e *Engine) SimplifiedTree() *Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.simplified
}

// Close shuts down the worker (if running) and waits for it to exit.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.stopLocked()
	}
}

func (e *Engine) startLocked() {
	e.shutdown = make(chan struct{})
	e.done = make(chan struct{})
	e.running = true
	go e.run(e.shutdown, e.done)
}

func (e *Engine) stopLocked() {
	close(e.shutdown)
	done := e.done
	e.running = false
	e.mu.Unlock()
	<-done
	e.mu.Lock()
}

func (e *Engine) run(shutdown, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-shutdown:
			return
		case <-e.signal:
			e.parseOnce()
		}
	}
}

func (e *Engine) parseOnce() {
	e.mu.Lock()
	lines := e.pending
	parser := e.parser
	depth := e.treeDepth
	e.mu.Unlock()

	if lines == nil {
		return
	}
	full := parser.Parse(lines)
	simplified := Simplify(full, depth)

	e.mu.Lock()
	e.tree = full
	e.simplified = simplified
	e.mu.Unlock()

	if e.onUpdate != nil {
		e.onUpdate()
	}
}
