package property

type nodeKind uint8

const (
	// kindBinding is a property binding: lazy, recomputed on the next Get.
	kindBinding nodeKind = iota
	// kindTracker is an evaluation scope polled externally (Tracker).
	kindTracker
	// kindChange is an eager tracker whose callback is queued and run when
	// the outermost write completes (ChangeTracker).
	kindChange
)

// depList holds the trackers that read a property during their last
// successful evaluation.
type depList struct {
	nodes []*node
}

func (l *depList) add(n *node) { l.nodes = append(l.nodes, n) }

// remove unlinks n; calling it for a node that is not in the list is a
// no-op. Order is not meaningful, so swap-remove keeps it O(n) scan, O(1)
// splice.
func (l *depList) remove(n *node) {
	for i, e := range l.nodes {
		if e == n {
			last := len(l.nodes) - 1
			l.nodes[i] = l.nodes[last]
			l.nodes[last] = nil
			l.nodes = l.nodes[:last]
			return
		}
	}
}

type changeRunner interface{ runChange() }

// node is the type-erased tracker shared by property bindings, Trackers and
// ChangeTrackers.
type node struct {
	graph *Graph
	kind  nodeKind
	dirty bool
	name  nameID

	// watching holds the dependency lists this node currently sits in; it is
	// cleared and rebuilt on every evaluation, so edges always reflect the
	// last run and conditionals never leave stale dependencies behind.
	watching []*depList

	// dependents points at the owning property's dependency list so dirty
	// marking can recurse. Binding nodes only.
	dependents *depList

	// onDirty runs at the moment the node transitions to dirty (once per
	// wave), not when it is lazily re-evaluated.
	onDirty func()

	// ref points back at the owning ChangeTracker for queued notification.
	ref changeRunner
}

// watch registers n in l unless it is already there. Bindings read few
// properties, so the linear scan is fine.
func (n *node) watch(l *depList) {
	for _, w := range n.watching {
		if w == l {
			return
		}
	}
	n.watching = append(n.watching, l)
	l.add(n)
}

// unwatchAll removes n from every list it sits in.
func (n *node) unwatchAll() {
	for i, l := range n.watching {
		l.remove(n)
		n.watching[i] = nil
	}
	n.watching = n.watching[:0]
}

// unwatch drops a single list from n's watch set without touching the list
// itself; used when the list's owner is being destroyed.
func (n *node) unwatch(l *depList) {
	for i, w := range n.watching {
		if w == l {
			last := len(n.watching) - 1
			n.watching[i] = n.watching[last]
			n.watching[last] = nil
			n.watching = n.watching[:last]
			return
		}
	}
}

// markDirty marks every tracker in l dirty, recursing through binding nodes
// into their own dependents. The dirty flag doubles as the visited marker: a
// node that is already dirty had its dependents marked when it first became
// dirty, so the walk stops there and a whole wave is O(edges) even across
// diamonds. Iteration runs over a snapshot because notified trackers may
// unlink themselves (or others) from the list mid-walk.
func (g *Graph) markDirty(l *depList) {
	if len(l.nodes) == 0 {
		return
	}
	snapshot := make([]*node, len(l.nodes))
	copy(snapshot, l.nodes)
	for _, n := range snapshot {
		if n.dirty {
			continue
		}
		n.dirty = true
		if n.onDirty != nil {
			n.onDirty()
		}
		switch n.kind {
		case kindBinding:
			if n.dependents != nil {
				g.markDirty(n.dependents)
			}
		case kindChange:
			g.queueChange(n)
		}
	}
}
