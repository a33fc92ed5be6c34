package property

// LinkTwoWay keeps two properties permanently equal. It works by creating a
// hidden common cell holding p2's state (value or binding) and installing an
// alias binding on both properties that forwards reads, writes and binding
// replacements to it. Chaining links is transitive: linking a-b and then b-c
// re-seats the earlier alias onto the newest common cell, so all three
// properties end up sharing one.
func LinkTwoWay[T comparable](p1, p2 *Property[T]) {
	g := p2.graph
	common := &Property[T]{graph: g, value: p2.GetUntracked(), name: p2.name}
	if b := p2.binding; b != nil {
		// steal p2's binding: dirtiness now flows into the common cell's
		// dependents, which the two alias bindings are about to join
		p2.binding = nil
		b.node.dependents = &common.deps
		common.binding = b
	}
	p1.installBinding(aliasBinding(common))
	p2.installBinding(aliasBinding(common))
}

// aliasBinding builds the forwarding binding both ends of a two-way link
// share. Evaluating it reads the common cell (registering the alias as a
// dependent); setting the linked property writes through; installing a new
// binding on the linked property re-seats it on the common cell.
func aliasBinding[T comparable](common *Property[T]) *bindingState[T] {
	return &bindingState[T]{
		eval: func(T) (T, bool) {
			return common.Get(), true
		},
		interceptSet: func(v T) bool {
			common.Set(v)
			return true
		},
		interceptSetBinding: func(b *bindingState[T]) bool {
			common.installBinding(b)
			return true
		},
	}
}
