package model

import "github.com/loomui/loom/property"

// VecModel is the slice-backed Model. Every mutation goes through a method
// so the change is reported exactly once.
type VecModel[T any] struct {
	notify *Notify
	rows   []T
}

func NewVecModel[T any](g *property.Graph, rows ...T) *VecModel[T] {
	return &VecModel[T]{notify: NewNotify(g), rows: rows}
}

func (m *VecModel[T]) RowCount() int {
	return len(m.rows)
}

func (m *VecModel[T]) RowData(row int) (T, bool) {
	if row < 0 || row >= len(m.rows) {
		var zero T
		return zero, false
	}
	return m.rows[row], true
}

func (m *VecModel[T]) SetRowData(row int, value T) {
	if row < 0 || row >= len(m.rows) {
		return
	}
	m.rows[row] = value
	m.notify.RowChanged(row)
}

func (m *VecModel[T]) Tracker() Tracker {
	return m.notify
}

func (m *VecModel[T]) Push(value T) {
	m.rows = append(m.rows, value)
	m.notify.RowAdded(len(m.rows)-1, 1)
}

func (m *VecModel[T]) Insert(index int, value T) {
	m.rows = append(m.rows, value)
	copy(m.rows[index+1:], m.rows[index:])
	m.rows[index] = value
	m.notify.RowAdded(index, 1)
}

// Remove deletes the row at index and returns it.
func (m *VecModel[T]) Remove(index int) T {
	v := m.rows[index]
	m.rows = append(m.rows[:index], m.rows[index+1:]...)
	m.notify.RowRemoved(index, 1)
	return v
}

func (m *VecModel[T]) Extend(values ...T) {
	if len(values) == 0 {
		return
	}
	index := len(m.rows)
	m.rows = append(m.rows, values...)
	m.notify.RowAdded(index, len(values))
}

// SetVec replaces the whole content.
func (m *VecModel[T]) SetVec(rows []T) {
	m.rows = rows
	m.notify.Reset()
}
