package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomui/loom/property"
)

func TestInterpolate(t *testing.T) {
	assert.Equal(t, 100, Interpolate(100, 200, 0))
	assert.Equal(t, 150, Interpolate(100, 200, 0.5))
	assert.Equal(t, 200, Interpolate(100, 200, 1))
	assert.Equal(t, 75.0, Interpolate(100.0, 50.0, 0.5))
}

func TestEasing(t *testing.T) {
	assert.Equal(t, 0.5, Linear(0.5))
	assert.Equal(t, 0.25, EaseInQuad(0.5))
	assert.Equal(t, 0.75, EaseOutQuad(0.5))
}

func TestSetAnimatedValue(t *testing.T) {
	t.Run("interpolates and removes the binding at the end", func(t *testing.T) {
		g := property.NewGraph(nil)
		d := NewDriver(g)
		p := property.New(g, 100)

		SetAnimatedValue(p, 200, Animation{Duration: 1000}, d)

		assert.Equal(t, 100, p.Get())
		assert.True(t, d.HasActiveAnimations())

		d.UpdateAnimations(500)
		assert.Equal(t, 150, p.Get())
		assert.True(t, d.HasActiveAnimations())

		d.UpdateAnimations(1000)
		assert.Equal(t, 200, p.Get())
		assert.False(t, d.HasActiveAnimations())

		// the binding removed itself, further ticks change nothing
		d.UpdateAnimations(2000)
		assert.False(t, p.IsDirty())
		assert.Equal(t, 200, p.Get())
	})

	t.Run("dependents follow the interpolation", func(t *testing.T) {
		g := property.NewGraph(nil)
		d := NewDriver(g)
		p := property.New(g, 0)
		double := property.New(g, 0)
		double.SetBinding(func() int { return p.Get() * 2 })

		SetAnimatedValue(p, 100, Animation{Duration: 100}, d)

		assert.Equal(t, 0, double.Get())
		d.UpdateAnimations(50)
		assert.Equal(t, 100, double.Get())
		d.UpdateAnimations(100)
		assert.Equal(t, 200, double.Get())
	})

	t.Run("delay holds the starting value", func(t *testing.T) {
		g := property.NewGraph(nil)
		d := NewDriver(g)
		p := property.New(g, 10)

		SetAnimatedValue(p, 20, Animation{Duration: 100, Delay: 100}, d)

		d.UpdateAnimations(50)
		assert.Equal(t, 10, p.Get())
		d.UpdateAnimations(150)
		assert.Equal(t, 15, p.Get())
		d.UpdateAnimations(200)
		assert.Equal(t, 20, p.Get())
	})

	t.Run("loop count repeats the run", func(t *testing.T) {
		g := property.NewGraph(nil)
		d := NewDriver(g)
		p := property.New(g, 0)

		// two extra repetitions, three runs total
		SetAnimatedValue(p, 100, Animation{Duration: 100, LoopCount: 2}, d)

		d.UpdateAnimations(50)
		assert.Equal(t, 50, p.Get())
		d.UpdateAnimations(150)
		assert.Equal(t, 50, p.Get())
		d.UpdateAnimations(250)
		assert.Equal(t, 50, p.Get())
		assert.True(t, d.HasActiveAnimations())

		d.UpdateAnimations(300)
		assert.Equal(t, 100, p.Get())
		assert.False(t, d.HasActiveAnimations())
	})
}

func TestSetAnimatedBinding(t *testing.T) {
	g := property.NewGraph(nil)
	d := NewDriver(g)

	target := property.New(g, 100)
	p := property.New(g, 0)
	SetAnimatedBinding(p, func() int { return target.Get() }, Animation{Duration: 1000}, d)

	// first evaluation adopts the value without animating
	assert.Equal(t, 100, p.Get())
	assert.False(t, d.HasActiveAnimations())

	target.Set(200)
	assert.Equal(t, 100, p.Get())
	assert.True(t, d.HasActiveAnimations())

	d.UpdateAnimations(500)
	assert.Equal(t, 150, p.Get())

	d.UpdateAnimations(1000)
	assert.Equal(t, 200, p.Get())
	assert.False(t, d.HasActiveAnimations())

	// the binding survives the run and animates the next change too
	target.Set(300)
	assert.Equal(t, 200, p.Get())
	d.UpdateAnimations(1500)
	assert.Equal(t, 250, p.Get())
	d.UpdateAnimations(2000)
	assert.Equal(t, 300, p.Get())
}

func TestSetStateBinding(t *testing.T) {
	g := property.NewGraph(nil)
	d := NewDriver(g)

	cond := property.New(g, 0)
	state := property.New(g, StateInfo{})
	SetStateBinding(state, func() int { return cond.Get() }, d)

	s := state.Get()
	assert.Equal(t, 0, s.Current)

	d.UpdateAnimations(100)
	cond.Set(2)
	d.UpdateAnimations(350)

	s = state.Get()
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 0, s.Previous)
	assert.Equal(t, uint64(100), s.ChangeTick)

	cond.Set(5)
	s = state.Get()
	assert.Equal(t, 5, s.Current)
	assert.Equal(t, 2, s.Previous)
	assert.Equal(t, uint64(350), s.ChangeTick)
}
