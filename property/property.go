package property

import "fmt"

// Property is a reactive cell holding a value of type T. The value is either
// plain (assigned with Set) or produced by a binding installed with
// SetBinding. A read inside another binding's evaluation records a
// dependency edge, so invalidation is fully automatic: component authors
// never declare "A depends on B", it is discovered by running the binding
// and observing which properties it reads.
//
// A Property belongs to the Graph it was created on and, like the Graph,
// must only be used from the goroutine that owns it.
type Property[T comparable] struct {
	graph    *Graph
	value    T
	deps     depList
	binding  *bindingState[T]
	name     nameID
	constant bool
}

// bindingState pairs the evaluation closure with the tracker node that
// represents it in dependency lists.
type bindingState[T comparable] struct {
	node node
	// eval produces the next value from the previous one and reports whether
	// the binding stays installed; animated bindings remove themselves when
	// the animation finishes.
	eval func(old T) (T, bool)
	// interceptSet, when non-nil and returning true, consumes a Set call
	// instead of dropping the binding. Two-way aliases forward the write to
	// the shared cell this way.
	interceptSet func(v T) bool
	// interceptSetBinding, when non-nil and returning true, consumes a
	// binding replacement; two-way aliases re-seat it on the shared cell.
	interceptSetBinding func(b *bindingState[T]) bool
}

func New[T comparable](g *Graph, value T) *Property[T] {
	return &Property[T]{graph: g, value: value}
}

// NewNamed creates a property with a diagnostic name that shows up in cycle
// and self-write errors.
func NewNamed[T comparable](g *Graph, value T, name string) *Property[T] {
	return &Property[T]{graph: g, value: value, name: g.internName(name)}
}

// Get returns the current value, re-evaluating a dirty binding first. When
// called while another tracker is evaluating, that tracker is recorded as a
// dependent of this property.
func (p *Property[T]) Get() T {
	p.update()
	if p.constant {
		return p.value
	}
	if top := p.graph.activeTracker(); top != nil && (p.binding == nil || top != &p.binding.node) {
		top.watch(&p.deps)
	}
	return p.value
}

// GetUntracked returns the current value without registering a dependency.
// Bindings use it for properties they deliberately do not want to be
// re-evaluated for.
func (p *Property[T]) GetUntracked() T {
	p.update()
	return p.value
}

// update re-evaluates a dirty binding inside a fresh tracking scope: the old
// dependency edges are cleared, the binding node is pushed on the evaluation
// stack, and every property the closure reads registers itself.
func (p *Property[T]) update() {
	b := p.binding
	if b == nil || !b.node.dirty {
		return
	}
	g := p.graph
	if g.onStack(&b.node) {
		// the binding is reading the property it computes; returning the
		// stale value beats handing out a half-updated one
		g.fail(fmt.Errorf("property %s: %w", g.nameOf(p.name), ErrCycle))
		return
	}
	b.node.unwatchAll()
	g.pushEval(&b.node)
	defer g.popEval() // keep the stack usable if the binding panics
	value, keep := b.eval(p.value)
	b.node.dirty = false
	p.value = value
	if !keep && p.binding == b {
		p.dropBinding()
	}
}

// Set assigns a plain value, dropping any binding (unless the binding
// intercepts the write, as two-way aliases do). Dependents are marked dirty
// only when the value actually changes.
func (p *Property[T]) Set(value T) {
	g := p.graph
	if b := p.binding; b != nil {
		if g.onStack(&b.node) {
			g.fail(fmt.Errorf("property %s: %w", g.nameOf(p.name), ErrSelfWrite))
			return
		}
		if b.interceptSet != nil {
			if !g.enterWrite(&b.node) {
				g.fail(fmt.Errorf("property %s: %w", g.nameOf(p.name), ErrAliasCycle))
				return
			}
			intercepted := func() bool {
				defer g.leaveWrite(&b.node)
				return b.interceptSet(value)
			}()
			if intercepted {
				return
			}
		}
		p.dropBinding()
	}
	if p.value != value {
		p.value = value
		g.markDirty(&p.deps)
		g.afterPropagate()
	}
}

// SetBinding installs a computed binding. The closure runs lazily on the
// next Get; properties it reads become dependencies, re-discovered on every
// evaluation.
func (p *Property[T]) SetBinding(fn func() T) {
	p.SetDynamicBinding(func(T) (T, bool) { return fn(), true }, nil)
}

// SetDynamicBinding installs the full-control binding form: the closure
// receives the previous value and reports whether the binding stays
// installed. onDirty, when non-nil, runs at the moment the binding is marked
// dirty rather than when it is lazily re-evaluated; state tracking uses this
// to timestamp the triggering write.
func (p *Property[T]) SetDynamicBinding(fn func(old T) (T, bool), onDirty func()) {
	p.installBinding(&bindingState[T]{eval: fn, node: node{onDirty: onDirty}})
}

func (p *Property[T]) installBinding(b *bindingState[T]) {
	g := p.graph
	if old := p.binding; old != nil && old.interceptSetBinding != nil {
		if old.interceptSetBinding(b) {
			return
		}
	}
	p.dropBinding()
	b.node.graph = g
	b.node.kind = kindBinding
	b.node.dirty = true
	b.node.name = p.name
	b.node.dependents = &p.deps
	p.binding = b
	g.markDirty(&p.deps)
	g.afterPropagate()
}

// dropBinding removes the binding and every dependency edge it recorded.
func (p *Property[T]) dropBinding() {
	b := p.binding
	if b == nil {
		return
	}
	p.binding = nil
	b.node.unwatchAll()
}

// MarkDirty forces dependents to re-evaluate: the binding (if any) is marked
// stale and every tracker depending on this property is dirtied, without the
// value changing. Timers and animations use this to invalidate
// time-dependent properties once per tick; the model bridge uses it on its
// synthetic hook properties.
func (p *Property[T]) MarkDirty() {
	if b := p.binding; b != nil && !b.node.dirty {
		b.node.dirty = true
		if b.node.onDirty != nil {
			b.node.onDirty()
		}
	}
	p.graph.markDirty(&p.deps)
	p.graph.afterPropagate()
}

// SetConstant declares that the property will never change again: reads stop
// recording dependency edges, so bindings reading it carry fewer edges and
// are never re-evaluated for its sake. The caller must not write the
// property or install a binding afterwards.
func (p *Property[T]) SetConstant() {
	p.constant = true
}

// IsDirty reports whether the cached value is stale, i.e. the next Get will
// re-evaluate the binding.
func (p *Property[T]) IsDirty() bool {
	return p.binding != nil && p.binding.node.dirty
}

// Destroy unlinks the property from every dependency list it participates
// in, both as tracker (its binding's edges) and as tracked (other trackers'
// edges into it). The property must not be used afterwards.
func (p *Property[T]) Destroy() {
	p.dropBinding()
	for _, n := range p.deps.nodes {
		n.unwatch(&p.deps)
	}
	p.deps.nodes = nil
}
