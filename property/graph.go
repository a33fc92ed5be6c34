package property

import (
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
)

// Logic errors in authored bindings, reported through the Graph's
// OnErrorFunc or panicked when no handler is installed.
var (
	// ErrCycle is reported when a binding, directly or transitively, reads
	// the property it computes.
	ErrCycle = errors.New("binding cycle")
	// ErrSelfWrite is reported when a property is written while its own
	// binding is being evaluated.
	ErrSelfWrite = errors.New("write during own binding evaluation")
	// ErrAliasCycle is reported when a two-way alias write walks back into a
	// cell it already visited.
	ErrAliasCycle = errors.New("two-way alias cycle")
)

type OnErrorFunc func(err error)

// Graph is the dependency graph for one UI context. Every Property, Tracker
// and ChangeTracker belongs to exactly one Graph, and all reads, writes and
// dirty propagation happen synchronously on the goroutine that owns it.
// There is no locking: a Graph must never be shared across goroutines.
type Graph struct {
	// trackers currently evaluating; reads are attributed to the top entry.
	// A nil entry pauses tracking (see Untracked).
	evalStack []*node

	batchDepth    int
	queuedChanges []*node
	draining      bool

	deferDepth    int
	deferredTasks []func()

	// cells visited by the current two-way alias write walk
	writeVisited mapset.Set[*node]

	onError OnErrorFunc
	names   map[nameID]string
}

// NewGraph creates an empty graph. onError may be nil, in which case logic
// errors (cyclic bindings, self-writes) panic instead of being reported.
func NewGraph(onError OnErrorFunc) *Graph {
	return &Graph{
		onError:      onError,
		writeVisited: mapset.NewThreadUnsafeSet[*node](),
		names:        map[nameID]string{},
	}
}

// fail reports a logic error. Without a handler the graph's invariants can
// no longer be trusted, so it panics.
func (g *Graph) fail(err error) {
	if g.onError != nil {
		g.onError(err)
		return
	}
	panic(err)
}

func (g *Graph) pushEval(n *node) {
	g.evalStack = append(g.evalStack, n)
}

func (g *Graph) popEval() {
	g.evalStack = g.evalStack[:len(g.evalStack)-1]
}

func (g *Graph) activeTracker() *node {
	if len(g.evalStack) == 0 {
		return nil
	}
	return g.evalStack[len(g.evalStack)-1]
}

func (g *Graph) onStack(n *node) bool {
	for _, e := range g.evalStack {
		if e == n {
			return true
		}
	}
	return false
}

// Tracking reports whether a tracker is currently evaluating, i.e. whether
// property reads are being recorded as dependency edges.
func (g *Graph) Tracking() bool { return g.activeTracker() != nil }

// Untracked runs fn without attributing property reads to the currently
// evaluating tracker.
func (g *Graph) Untracked(fn func()) {
	g.pushEval(nil)
	defer g.popEval()
	fn()
}

// StartBatch suspends change-tracker notification until the matching
// EndBatch. Dirty marking still happens immediately.
func (g *Graph) StartBatch() { g.batchDepth++ }

func (g *Graph) EndBatch() {
	g.batchDepth--
	if g.batchDepth == 0 {
		g.processChanges()
	}
}

// Batch coalesces change-tracker notifications across several writes: a
// tracker touched by multiple writes inside fn is notified once.
func (g *Graph) Batch(fn func()) {
	g.StartBatch()
	defer g.EndBatch()
	fn()
}

func (g *Graph) queueChange(n *node) {
	g.queuedChanges = append(g.queuedChanges, n)
}

// afterPropagate runs queued change trackers once the outermost write
// completes. Writes performed by the handlers themselves are drained by the
// same loop.
func (g *Graph) afterPropagate() {
	if g.batchDepth == 0 && !g.draining {
		g.processChanges()
	}
}

func (g *Graph) processChanges() {
	if g.draining {
		return
	}
	g.draining = true
	defer func() { g.draining = false }()
	for len(g.queuedChanges) > 0 {
		n := g.queuedChanges[0]
		g.queuedChanges = g.queuedChanges[1:]
		if n.ref != nil {
			n.ref.runChange()
		}
	}
}

// WithDeferredScope marks the dynamic extent of component construction (or
// any other work that must not be interleaved with deferred side effects).
// DeferTask calls inside it are queued; nested scopes defer to the outermost
// one, which drains the queue in FIFO order. The depth stays raised while
// draining, so a task enqueued by a running task joins the back of the queue
// instead of re-entering synchronously.
func (g *Graph) WithDeferredScope(fn func()) {
	g.deferDepth++
	defer func() {
		if g.deferDepth > 1 {
			g.deferDepth--
			return
		}
		for len(g.deferredTasks) > 0 {
			task := g.deferredTasks[0]
			g.deferredTasks = g.deferredTasks[1:]
			task()
		}
		g.deferDepth--
	}()
	fn()
}

// DeferTask runs fn immediately unless a deferred scope is active, in which
// case it is queued until the outermost scope completes.
func (g *Graph) DeferTask(fn func()) {
	if g.deferDepth > 0 {
		g.deferredTasks = append(g.deferredTasks, fn)
		return
	}
	fn()
}

// enterWrite records n as visited by the current alias write walk. It
// returns false when n was already visited, i.e. the aliases form a loop.
func (g *Graph) enterWrite(n *node) bool {
	if g.writeVisited.Contains(n) {
		return false
	}
	g.writeVisited.Add(n)
	return true
}

func (g *Graph) leaveWrite(n *node) { g.writeVisited.Remove(n) }
