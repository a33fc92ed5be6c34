// Package animation integrates time with the property graph. A Driver owns
// a tick-counter property; animated bindings read it, so advancing the tick
// dirties exactly the properties that are mid-animation and nothing else.
// The event loop drives it: call UpdateAnimations once per frame, redraw,
// then keep scheduling frames while HasActiveAnimations reports true.
package animation

import "github.com/loomui/loom/property"

type Driver struct {
	graph *property.Graph
	tick  *property.Property[uint64]
	// active is reset by UpdateAnimations and set again by every animated
	// binding that evaluates and has not finished, so after a redraw it
	// answers "is anything still moving".
	active bool
}

func NewDriver(g *property.Graph) *Driver {
	return &Driver{
		graph: g,
		tick:  property.NewNamed(g, uint64(0), "animation.tick"),
	}
}

// Tick returns the current animation time in milliseconds. Reading it inside
// a binding makes the binding re-evaluate on every UpdateAnimations call.
func (d *Driver) Tick() uint64 {
	return d.tick.Get()
}

// UpdateAnimations advances the animation clock, dirtying every binding that
// read the tick. nowMillis must be monotonic.
func (d *Driver) UpdateAnimations(nowMillis uint64) {
	d.active = false
	d.tick.Set(nowMillis)
}

// HasActiveAnimations reports whether any animated binding evaluated since
// the last UpdateAnimations and is still running.
func (d *Driver) HasActiveAnimations() bool {
	return d.active
}

func (d *Driver) now() uint64 {
	return d.tick.GetUntracked()
}

func (d *Driver) markActive() {
	d.active = true
}
