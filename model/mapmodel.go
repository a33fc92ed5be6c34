package model

// MapModel projects another model through a row transformation. It stores
// nothing itself: reads go through to the source on demand and its tracker
// is the source's tracker, so change notifications forward for free.
type MapModel[T, U any] struct {
	source Model[T]
	fn     func(T) U
}

func NewMapModel[T, U any](source Model[T], fn func(T) U) *MapModel[T, U] {
	return &MapModel[T, U]{source: source, fn: fn}
}

func (m *MapModel[T, U]) RowCount() int {
	return m.source.RowCount()
}

func (m *MapModel[T, U]) RowData(row int) (U, bool) {
	v, ok := m.source.RowData(row)
	if !ok {
		var zero U
		return zero, false
	}
	return m.fn(v), true
}

// SetRowData is not supported: the projection is one-way.
func (m *MapModel[T, U]) SetRowData(int, U) {}

func (m *MapModel[T, U]) Tracker() Tracker {
	return m.source.Tracker()
}
