package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkTwoWay(t *testing.T) {
	t.Run("writes flow both ways", func(t *testing.T) {
		g := NewGraph(nil)
		p1 := New(g, "hello")
		p2 := New(g, "world")

		LinkTwoWay(p1, p2)
		// the link adopts the second property's state
		assert.Equal(t, "world", p1.Get())
		assert.Equal(t, "world", p2.Get())

		p1.Set("from p1")
		assert.Equal(t, "from p1", p1.Get())
		assert.Equal(t, "from p1", p2.Get())

		p2.Set("from p2")
		assert.Equal(t, "from p2", p1.Get())
		assert.Equal(t, "from p2", p2.Get())
	})

	t.Run("link preserves the second property's binding", func(t *testing.T) {
		g := NewGraph(nil)
		src := New(g, 1)
		p1 := New(g, 0)
		p2 := New(g, 0)
		p2.SetBinding(func() int { return src.Get() * 10 })

		LinkTwoWay(p1, p2)
		assert.Equal(t, 10, p1.Get())
		assert.Equal(t, 10, p2.Get())

		src.Set(2)
		assert.Equal(t, 20, p1.Get())
		assert.Equal(t, 20, p2.Get())

		// a write replaces the shared binding for both ends
		p1.Set(7)
		assert.Equal(t, 7, p2.Get())
		src.Set(3)
		assert.Equal(t, 7, p1.Get())
	})

	t.Run("binding installed after the link is shared", func(t *testing.T) {
		g := NewGraph(nil)
		src := New(g, 5)
		p1 := New(g, 0)
		p2 := New(g, 0)
		LinkTwoWay(p1, p2)

		p2.SetBinding(func() int { return src.Get() })
		assert.Equal(t, 5, p1.Get())

		src.Set(6)
		assert.Equal(t, 6, p1.Get())
		assert.Equal(t, 6, p2.Get())
	})

	t.Run("dependents of both ends see changes", func(t *testing.T) {
		g := NewGraph(nil)
		p1 := New(g, 1)
		p2 := New(g, 2)
		LinkTwoWay(p1, p2)

		callCount := 0
		sum := New(g, 0)
		sum.SetBinding(func() int {
			callCount++
			return p1.Get() + p2.Get()
		})

		assert.Equal(t, 4, sum.Get())
		p1.Set(10)
		assert.Equal(t, 20, sum.Get())
		assert.Equal(t, 2, callCount)
	})

	/*
	   a == b == c
	*/
	t.Run("chained links are transitive", func(t *testing.T) {
		g := NewGraph(nil)
		a := New(g, 1)
		b := New(g, 2)
		c := New(g, 3)

		LinkTwoWay(a, b)
		LinkTwoWay(b, c)

		assert.Equal(t, 3, a.Get())
		assert.Equal(t, 3, b.Get())
		assert.Equal(t, 3, c.Get())

		a.Set(11)
		assert.Equal(t, 11, b.Get())
		assert.Equal(t, 11, c.Get())

		c.Set(12)
		assert.Equal(t, 12, a.Get())
		assert.Equal(t, 12, b.Get())
	})

	t.Run("self link reports alias cycle", func(t *testing.T) {
		var errs []error
		g := NewGraph(func(err error) { errs = append(errs, err) })

		p := NewNamed(g, 1, "selfie")
		LinkTwoWay(p, p)

		p.Set(2)
		assert.NotEmpty(t, errs)
	})
}
