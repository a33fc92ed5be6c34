package model

import "github.com/loomui/loom/property"

type instanceState uint8

const (
	stateClean instanceState = iota
	stateDirty
	stateNew
)

type instance[V any] struct {
	state instanceState
	view  V
}

// Repeater maintains one view instance per model row. It attaches to the
// model as a peer and turns the callbacks into per-instance dirty states, so
// a refresh touches only the rows that actually changed: a removed row is
// spliced out, an added row created, a changed row updated in place.
//
// V is whatever the caller considers a row's view; the Repeater only creates
// and updates it through the supplied callbacks.
type Repeater[T, V any] struct {
	graph *property.Graph

	// modelTracker guards the model-resolving closure, which may read
	// properties (e.g. a conditional choosing between two models).
	modelTracker *property.Tracker
	// isDirty doubles as the hook outer render trackers depend on: reading
	// it from EnsureUpdated inside a render pass re-runs the pass when any
	// row changes.
	isDirty *property.Property[bool]

	model     Model[T]
	peer      *Peer
	instances []instance[V]

	create func(row int, data T) V
	update func(view V, row int, data T)
}

func NewRepeater[T, V any](g *property.Graph, create func(row int, data T) V, update func(view V, row int, data T)) *Repeater[T, V] {
	r := &Repeater[T, V]{
		graph:        g,
		modelTracker: property.NewTracker(g),
		isDirty:      property.New(g, false),
		create:       create,
		update:       update,
	}
	r.peer = NewPeer((*repeaterListener[T, V])(r))
	return r
}

// EnsureUpdated brings the instances in sync with the model. resolveModel
// runs under the repeater's tracker, so when a property it reads changes the
// model is re-resolved on the next call. Instance creation and updates run
// inside a deferred scope: side effects the view constructors queue with
// DeferTask happen after the whole refresh.
func (r *Repeater[T, V]) EnsureUpdated(resolveModel func() Model[T]) {
	r.modelTracker.EvaluateIfDirty(func() {
		m := resolveModel()
		if m == r.model {
			return
		}
		if r.model != nil {
			r.model.Tracker().DetachPeer(r.peer)
		}
		r.model = m
		if m != nil {
			m.Tracker().AttachPeer(r.peer)
		}
		r.instances = r.instances[:0]
		if m != nil {
			for i := 0; i < m.RowCount(); i++ {
				r.instances = append(r.instances, instance[V]{state: stateNew})
			}
		}
		r.isDirty.Set(true)
	})
	if r.isDirty.Get() {
		r.graph.WithDeferredScope(r.refresh)
	}
}

func (r *Repeater[T, V]) refresh() {
	count := 0
	if r.model != nil {
		count = r.model.RowCount()
	}
	for len(r.instances) < count {
		r.instances = append(r.instances, instance[V]{state: stateNew})
	}
	r.instances = r.instances[:count]
	for i := range r.instances {
		inst := &r.instances[i]
		if inst.state == stateClean {
			continue
		}
		data, ok := r.model.RowData(i)
		if !ok {
			continue
		}
		if inst.state == stateNew {
			inst.view = r.create(i, data)
		} else {
			r.update(inst.view, i, data)
		}
		inst.state = stateClean
	}
	r.isDirty.Set(false)
}

// Len returns the number of live instances.
func (r *Repeater[T, V]) Len() int {
	return len(r.instances)
}

// ForEach visits the live instances in row order.
func (r *Repeater[T, V]) ForEach(fn func(row int, view V)) {
	for i := range r.instances {
		fn(i, r.instances[i].view)
	}
}

// Destroy detaches from the model and drops the tracking state.
func (r *Repeater[T, V]) Destroy() {
	if r.model != nil {
		r.model.Tracker().DetachPeer(r.peer)
		r.model = nil
	}
	r.modelTracker.Destroy()
	r.instances = nil
}

// repeaterListener is the Repeater's ChangeListener identity; a separate
// type keeps the callback methods off the public Repeater API.
type repeaterListener[T, V any] Repeater[T, V]

func (l *repeaterListener[T, V]) repeater() *Repeater[T, V] { return (*Repeater[T, V])(l) }

func (l *repeaterListener[T, V]) RowChanged(row int) {
	r := l.repeater()
	if row < 0 || row >= len(r.instances) {
		return
	}
	if r.instances[row].state == stateClean {
		r.instances[row].state = stateDirty
	}
	r.isDirty.Set(true)
}

func (l *repeaterListener[T, V]) RowAdded(index, count int) {
	r := l.repeater()
	if count <= 0 || index < 0 || index > len(r.instances) {
		return
	}
	fresh := make([]instance[V], count)
	for i := range fresh {
		fresh[i].state = stateNew
	}
	r.instances = append(r.instances[:index], append(fresh, r.instances[index:]...)...)
	// rows after the insertion point shifted, their data is stale
	r.markFrom(index + count)
	r.isDirty.Set(true)
}

func (l *repeaterListener[T, V]) RowRemoved(index, count int) {
	r := l.repeater()
	if count <= 0 || index < 0 || index+count > len(r.instances) {
		return
	}
	r.instances = append(r.instances[:index], r.instances[index+count:]...)
	r.markFrom(index)
	r.isDirty.Set(true)
}

func (l *repeaterListener[T, V]) Reset() {
	r := l.repeater()
	r.markFrom(0)
	r.isDirty.Set(true)
}

func (r *Repeater[T, V]) markFrom(index int) {
	for i := index; i < len(r.instances); i++ {
		if r.instances[i].state == stateClean {
			r.instances[i].state = stateDirty
		}
	}
}
