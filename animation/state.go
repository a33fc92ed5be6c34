package animation

import "github.com/loomui/loom/property"

// StateInfo is the value of a state property: the current state, the one
// before it, and the clock tick at which the change happened. Transitions
// key off it to know what to animate from and how long ago the switch was.
type StateInfo struct {
	Current    int
	Previous   int
	ChangeTick uint64
}

// SetStateBinding installs fn as the state computation for p. The change
// tick is captured when a dependency write dirties the binding, not when the
// binding is lazily re-evaluated later, so it reflects when the state
// actually changed.
func SetStateBinding(p *property.Property[StateInfo], fn func() int, d *Driver) {
	var (
		pending    uint64
		hasPending bool
	)
	p.SetDynamicBinding(func(old StateInfo) (StateInfo, bool) {
		tick := d.now()
		if hasPending {
			tick = pending
			hasPending = false
		}
		s := fn()
		if s == old.Current {
			return old, true
		}
		return StateInfo{Current: s, Previous: old.Current, ChangeTick: tick}, true
	}, func() {
		pending = d.now()
		hasPending = true
	})
}
