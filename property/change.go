package property

// ChangeTracker eagerly watches a tracked expression and invokes a callback
// when its result changes. Where bindings are lazy (nothing happens until
// somebody reads), a change tracker is queued for re-evaluation as soon as a
// dependency is written; the queue drains after the write completes, or at
// the end of the outermost batch when one is open.
type ChangeTracker[T comparable] struct {
	n      node
	eval   func() T
	notify func(T)
	value  T
}

// NewChangeTracker evaluates fn once to capture the baseline value and the
// initial dependency set. notify fires on every subsequent evaluation whose
// result differs from the previous one.
func NewChangeTracker[T comparable](g *Graph, fn func() T, notify func(T)) *ChangeTracker[T] {
	ct := &ChangeTracker[T]{eval: fn, notify: notify}
	ct.n = node{graph: g, kind: kindChange, ref: ct}
	ct.value = ct.evaluate()
	return ct
}

// evaluate runs the expression under tracking and returns its result.
func (ct *ChangeTracker[T]) evaluate() T {
	g := ct.n.graph
	ct.n.unwatchAll()
	g.pushEval(&ct.n)
	defer g.popEval()
	v := ct.eval()
	ct.n.dirty = false
	return v
}

// runChange is called from the graph's change queue.
func (ct *ChangeTracker[T]) runChange() {
	if !ct.n.dirty {
		return
	}
	old := ct.value
	ct.value = ct.evaluate()
	if ct.value != old {
		ct.notify(ct.value)
	}
}

// Value returns the result of the last evaluation.
func (ct *ChangeTracker[T]) Value() T {
	return ct.value
}

// Destroy removes the tracker from every dependency list; the callback will
// not fire again. A queued notification that has not drained yet is
// suppressed by the clean dirty flag.
func (ct *ChangeTracker[T]) Destroy() {
	ct.n.unwatchAll()
	ct.n.dirty = false
}
