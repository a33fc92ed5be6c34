// Package model bridges row-based data to the property graph. A view over a
// model has two distinct needs: eager structural callbacks (a list view must
// splice rows in and out, not rebuild) and lazy dependency tracking (a
// binding that read row 3 must go dirty when row 3 changes). Notify serves
// both from one change report: it walks an explicit peer list for the
// callbacks and marks two synthetic hook properties for the graph.
package model

import (
	"sort"

	"github.com/loomui/loom/property"
)

// ChangeListener receives structural change callbacks from a model. Indexes
// refer to positions after the change for additions and before it for
// removals.
type ChangeListener interface {
	RowChanged(row int)
	RowAdded(index, count int)
	RowRemoved(index, count int)
	Reset()
}

// Peer is the registration handle tying a ChangeListener to a Notify.
type Peer struct {
	listener ChangeListener
}

func NewPeer(l ChangeListener) *Peer {
	return &Peer{listener: l}
}

// Tracker is the dependency-tracking side of a model, used by bindings that
// read model data and want to be invalidated when it changes.
type Tracker interface {
	// TrackRowCountChanges registers the evaluating binding as a dependent
	// of the model's structure (row additions, removals, resets).
	TrackRowCountChanges()
	// TrackRowDataChanges registers the evaluating binding as a dependent of
	// one row's content. Outside a tracking scope it does nothing.
	TrackRowDataChanges(row int)
	AttachPeer(p *Peer)
	DetachPeer(p *Peer)
}

// Model is the row-based data source views consume. Implementations call
// the corresponding Notify method after every mutation; Tracker exposes that
// Notify to consumers.
type Model[T any] interface {
	RowCount() int
	// RowData reports false for out-of-range rows.
	RowData(row int) (T, bool)
	SetRowData(row int, value T)
	Tracker() Tracker
}

// Notify fans a model change out to the attached peers and to the
// dependency graph. Model implementations embed or own one and call its
// change methods after mutating their data.
type Notify struct {
	graph *property.Graph
	peers []*Peer

	// synthetic hook properties; they carry no value, their dependency
	// lists are the whole point
	rowCount *property.Property[struct{}]
	rowData  *property.Property[struct{}]

	// rows some binding read since rowData was last marked, sorted and
	// deduplicated; a change to any other row skips the graph walk
	trackedRows []int
}

func NewNotify(g *property.Graph) *Notify {
	return &Notify{
		graph:    g,
		rowCount: property.NewNamed(g, struct{}{}, "model.rowCount"),
		rowData:  property.NewNamed(g, struct{}{}, "model.rowData"),
	}
}

// RowChanged reports that one row's content changed. The graph is only
// touched when some binding tracked that row; peers are notified always.
func (n *Notify) RowChanged(row int) {
	if n.isRowTracked(row) {
		n.markRowDataDirty()
	}
	for _, p := range n.snapshotPeers() {
		p.listener.RowChanged(row)
	}
}

// RowAdded reports count rows inserted at index.
func (n *Notify) RowAdded(index, count int) {
	n.markStructureDirty()
	for _, p := range n.snapshotPeers() {
		p.listener.RowAdded(index, count)
	}
}

// RowRemoved reports count rows removed at index.
func (n *Notify) RowRemoved(index, count int) {
	n.markStructureDirty()
	for _, p := range n.snapshotPeers() {
		p.listener.RowRemoved(index, count)
	}
}

// Reset reports that the whole content changed.
func (n *Notify) Reset() {
	n.markStructureDirty()
	for _, p := range n.snapshotPeers() {
		p.listener.Reset()
	}
}

// snapshotPeers copies the peer list so a callback detaching peers does not
// disturb the walk that is notifying it.
func (n *Notify) snapshotPeers() []*Peer {
	if len(n.peers) == 0 {
		return nil
	}
	out := make([]*Peer, len(n.peers))
	copy(out, n.peers)
	return out
}

// markStructureDirty invalidates both hooks: a structural change shifts row
// indexes, so per-row interest is void too.
func (n *Notify) markStructureDirty() {
	n.rowCount.MarkDirty()
	n.markRowDataDirty()
}

// markRowDataDirty clears the tracked rows so interest is re-registered by
// whoever re-evaluates.
func (n *Notify) markRowDataDirty() {
	n.trackedRows = n.trackedRows[:0]
	n.rowData.MarkDirty()
}

func (n *Notify) isRowTracked(row int) bool {
	i := sort.SearchInts(n.trackedRows, row)
	return i < len(n.trackedRows) && n.trackedRows[i] == row
}

func (n *Notify) TrackRowCountChanges() {
	n.rowCount.Get()
}

func (n *Notify) TrackRowDataChanges(row int) {
	if !n.graph.Tracking() {
		return
	}
	i := sort.SearchInts(n.trackedRows, row)
	if i == len(n.trackedRows) || n.trackedRows[i] != row {
		n.trackedRows = append(n.trackedRows, 0)
		copy(n.trackedRows[i+1:], n.trackedRows[i:])
		n.trackedRows[i] = row
	}
	n.rowData.Get()
}

func (n *Notify) AttachPeer(p *Peer) {
	n.peers = append(n.peers, p)
}

func (n *Notify) DetachPeer(p *Peer) {
	for i, e := range n.peers {
		if e == p {
			n.peers = append(n.peers[:i], n.peers[i+1:]...)
			return
		}
	}
}

// RowDataTracked reads a row and registers the evaluating binding as a
// dependent of it, so the binding re-runs when exactly that row changes.
func RowDataTracked[T any](m Model[T], row int) (T, bool) {
	m.Tracker().TrackRowDataChanges(row)
	return m.RowData(row)
}

// RowCountTracked reads the row count and registers the evaluating binding
// as a dependent of the model's structure.
func RowCountTracked[T any](m Model[T]) int {
	m.Tracker().TrackRowCountChanges()
	return m.RowCount()
}
