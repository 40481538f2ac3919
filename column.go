package legion

import (
	"fmt"
	"reflect"
)

// ComponentStorage is the type-erased capability a chunk holds per component
// type: swap-removal and length, nothing more. Concrete columns are created
// through constructor closures registered on a ChunkBuilder, so the chunk can
// keep differently-typed columns in one map without knowing their element
// types. The storage itself performs no synchronization; the chunk gates all
// access through its borrow counters.
type ComponentStorage interface {
	// Remove swap-removes the given row: the last element replaces it and
	// the length shrinks by one. Precondition: row < Len().
	Remove(row int)
	Len() int
}

type column[T any] struct {
	data []T
}

func newColumn[T any](capacity int) *column[T] {
	return &column[T]{data: make([]T, 0, capacity)}
}

func (c *column[T]) Remove(row int) {
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	c.data = c.data[:last]
}

func (c *column[T]) Len() int {
	return len(c.data)
}

func (c *column[T]) push(value T) {
	c.data = append(c.data, value)
}

// columnOf recovers the concrete column behind a stored capability. A
// mismatch means the chunk's column map was corrupted upstream and is fatal.
func columnOf[T any](store ComponentStorage, key reflect.Type) *column[T] {
	col, ok := store.(*column[T])
	if !ok {
		panic(fmt.Sprintf("legion: column for %v holds %T, expected column of %v", key, store, key))
	}
	return col
}

// BorrowedSlice is a shared (read-only) view over one chunk column. The view
// is valid until Release; callers must not retain the underlying slice past
// that point.
type BorrowedSlice[T any] struct {
	data   []T
	borrow *Borrow
}

func (s BorrowedSlice[T]) Len() int {
	return len(s.data)
}

func (s BorrowedSlice[T]) Get(row int) T {
	return s.data[row]
}

// Slice exposes the raw column for dense iteration. Mutating it violates the
// shared borrow.
func (s BorrowedSlice[T]) Slice() []T {
	return s.data
}

func (s BorrowedSlice[T]) Release() {
	s.borrow.Release()
}

// BorrowedMutSlice is an exclusive (writable) view over one chunk column,
// valid until Release.
type BorrowedMutSlice[T any] struct {
	data   []T
	borrow *Borrow
}

func (s BorrowedMutSlice[T]) Len() int {
	return len(s.data)
}

func (s BorrowedMutSlice[T]) At(row int) *T {
	return &s.data[row]
}

func (s BorrowedMutSlice[T]) Set(row int, value T) {
	s.data[row] = value
}

func (s BorrowedMutSlice[T]) Slice() []T {
	return s.data
}

func (s BorrowedMutSlice[T]) Release() {
	s.borrow.Release()
}
