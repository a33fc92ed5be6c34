package property

// Tracker evaluates a closure while recording every property it reads, and
// turns dirty when any of them changes afterwards. Unlike a Property it
// holds no value of its own; callers re-run Evaluate when IsDirty reports
// true. Layout and rendering loops use trackers to know which subtrees need
// another pass.
type Tracker struct {
	n node
}

func NewTracker(g *Graph) *Tracker {
	return NewNamedTracker(g, "")
}

func NewNamedTracker(g *Graph, name string) *Tracker {
	t := &Tracker{n: node{graph: g, kind: kindTracker, dirty: true, name: g.internName(name)}}
	return t
}

// NewTrackerWithDirtyHandler creates a tracker whose handler runs at the
// moment it transitions from clean to dirty, once per wave. Render loops use
// it to schedule a redraw instead of polling IsDirty.
func NewTrackerWithDirtyHandler(g *Graph, onDirty func()) *Tracker {
	t := NewTracker(g)
	t.n.onDirty = onDirty
	return t
}

// IsDirty reports whether any tracked dependency changed since the last
// Evaluate. A tracker that has never run is dirty.
func (t *Tracker) IsDirty() bool {
	return t.n.dirty
}

// SetDirty forces the tracker dirty without any dependency changing.
func (t *Tracker) SetDirty() {
	t.n.dirty = true
}

// Evaluate runs fn with dependency tracking: previous edges are discarded
// and the properties fn reads become the new dependency set. The tracker
// comes back clean.
func (t *Tracker) Evaluate(fn func()) {
	g := t.n.graph
	t.n.unwatchAll()
	g.pushEval(&t.n)
	defer g.popEval()
	fn()
	t.n.dirty = false
}

// EvaluateIfDirty runs fn only when the tracker is dirty and reports whether
// it ran.
func (t *Tracker) EvaluateIfDirty(fn func()) bool {
	if !t.n.dirty {
		return false
	}
	t.Evaluate(fn)
	return true
}

// Destroy removes the tracker from every dependency list. It must not be
// evaluated afterwards.
func (t *Tracker) Destroy() {
	t.n.unwatchAll()
}
