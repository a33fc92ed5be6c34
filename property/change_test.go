package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeTracker(t *testing.T) {
	t.Run("fires after the write completes", func(t *testing.T) {
		g := NewGraph(nil)
		prop := New(g, 1)

		var seen []int
		NewChangeTracker(g, func() int { return prop.Get() }, func(v int) {
			seen = append(seen, v)
		})
		assert.Empty(t, seen)

		prop.Set(2)
		assert.Equal(t, []int{2}, seen)

		prop.Set(3)
		assert.Equal(t, []int{2, 3}, seen)
	})

	t.Run("unchanged result does not fire", func(t *testing.T) {
		g := NewGraph(nil)
		prop := New(g, 4)

		fired := 0
		NewChangeTracker(g, func() int { return prop.Get() / 2 }, func(int) {
			fired++
		})

		// 4/2 and 5/2 both truncate to 2
		prop.Set(5)
		assert.Equal(t, 0, fired)

		prop.Set(6)
		assert.Equal(t, 1, fired)
	})

	t.Run("watches through bindings", func(t *testing.T) {
		g := NewGraph(nil)
		base := New(g, 1)
		derived := New(g, 0)
		derived.SetBinding(func() int { return base.Get() * 10 })

		var seen []int
		ct := NewChangeTracker(g, func() int { return derived.Get() }, func(v int) {
			seen = append(seen, v)
		})
		assert.Equal(t, 10, ct.Value())

		base.Set(2)
		assert.Equal(t, []int{20}, seen)
		assert.Equal(t, 20, ct.Value())
	})

	t.Run("batch coalesces notifications", func(t *testing.T) {
		g := NewGraph(nil)
		a := New(g, 1)
		b := New(g, 1)

		fired := 0
		ct := NewChangeTracker(g, func() int { return a.Get() + b.Get() }, func(int) {
			fired++
		})

		g.Batch(func() {
			a.Set(2)
			b.Set(3)
			assert.Equal(t, 0, fired)
		})
		assert.Equal(t, 1, fired)
		assert.Equal(t, 5, ct.Value())
	})

	t.Run("batch whose writes cancel out", func(t *testing.T) {
		g := NewGraph(nil)
		prop := New(g, 1)

		fired := 0
		NewChangeTracker(g, func() int { return prop.Get() }, func(int) {
			fired++
		})

		g.Batch(func() {
			prop.Set(2)
			prop.Set(1)
		})
		assert.Equal(t, 0, fired)
	})

	t.Run("handler writes drain in the same wave", func(t *testing.T) {
		g := NewGraph(nil)
		a := New(g, 1)
		b := New(g, 0)

		var bSeen []int
		NewChangeTracker(g, func() int { return b.Get() }, func(v int) {
			bSeen = append(bSeen, v)
		})
		NewChangeTracker(g, func() int { return a.Get() }, func(v int) {
			b.Set(v * 100)
		})

		a.Set(2)
		assert.Equal(t, []int{200}, bSeen)
	})

	t.Run("destroy suppresses queued notification", func(t *testing.T) {
		g := NewGraph(nil)
		prop := New(g, 1)

		fired := 0
		ct := NewChangeTracker(g, func() int { return prop.Get() }, func(int) {
			fired++
		})

		g.Batch(func() {
			prop.Set(2)
			ct.Destroy()
		})
		assert.Equal(t, 0, fired)

		prop.Set(3)
		assert.Equal(t, 0, fired)
	})
}

func TestGraphDeferredScope(t *testing.T) {
	t.Run("tasks run after the outermost scope", func(t *testing.T) {
		g := NewGraph(nil)
		var order []string

		g.WithDeferredScope(func() {
			order = append(order, "outer start")
			g.DeferTask(func() { order = append(order, "task 1") })
			g.WithDeferredScope(func() {
				g.DeferTask(func() { order = append(order, "task 2") })
				order = append(order, "inner")
			})
			order = append(order, "outer end")
		})

		assert.Equal(t, []string{"outer start", "inner", "outer end", "task 1", "task 2"}, order)
	})

	t.Run("tasks queued while draining still run", func(t *testing.T) {
		g := NewGraph(nil)
		var order []string

		g.WithDeferredScope(func() {
			g.DeferTask(func() {
				order = append(order, "first")
				g.DeferTask(func() { order = append(order, "second") })
			})
		})

		assert.Equal(t, []string{"first", "second"}, order)
	})

	// a task enqueued mid-drain goes to the back of the queue; it must not
	// run inline inside the task that enqueued it or overtake its siblings
	t.Run("tasks enqueued while draining keep queue order", func(t *testing.T) {
		g := NewGraph(nil)
		var order []string

		g.WithDeferredScope(func() {
			g.DeferTask(func() {
				order = append(order, "first start")
				g.DeferTask(func() { order = append(order, "first child") })
				order = append(order, "first end")
			})
			g.DeferTask(func() { order = append(order, "second") })
		})

		assert.Equal(t, []string{"first start", "first end", "second", "first child"}, order)
	})

	t.Run("no scope means immediate", func(t *testing.T) {
		g := NewGraph(nil)
		ran := false
		g.DeferTask(func() { ran = true })
		assert.True(t, ran)
	})
}
