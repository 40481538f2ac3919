package legion

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Chunk is a fixed-capacity columnar block: one entity per row, one dense
// array per component type, one shared slot per shared-value type, and one
// borrow counter per component type. Capacity is fixed at construction.
//
// Structural mutation (PushEntity, Remove) is not synchronized; the owning
// storage serializes it. Column access through EntityData/EntityDataMut is
// arbitrated per component type by the borrow counters.
type Chunk struct {
	capacity   int
	entities   []Entity
	components map[reflect.Type]ComponentStorage
	shared     map[reflect.Type]SharedStorage
	borrows    map[reflect.Type]*atomic.Int64
}

func (c *Chunk) Len() int {
	return len(c.entities)
}

func (c *Chunk) Capacity() int {
	return c.capacity
}

func (c *Chunk) IsFull() bool {
	return len(c.entities) == c.capacity
}

// Entities exposes the raw entity array. It is not borrow-tracked; only the
// owning storage should touch it, under its own structural discipline.
func (c *Chunk) Entities() []Entity {
	return c.entities
}

// PushEntity appends a row for the entity and returns its row index. The
// caller appends the matching component values through the component source
// that configured this chunk; the entity array and every column must grow in
// lock-step.
func (c *Chunk) PushEntity(e Entity) (int, error) {
	if c.IsFull() {
		return 0, ChunkFullError{Capacity: c.capacity}
	}
	c.entities = append(c.entities, e)
	return len(c.entities) - 1, nil
}

// Remove swap-removes the row from the entity array and from every column in
// lock-step. It returns the entity that now occupies the row, or false if
// the removed row was the last one and nothing moved. The caller owns fixing
// up the relocated entity's location.
//
// Precondition: row < Len(). This fast path does not bounds-check; wrappers
// exposed to external callers must.
func (c *Chunk) Remove(row int) (Entity, bool) {
	last := len(c.entities) - 1
	c.entities[row] = c.entities[last]
	c.entities = c.entities[:last]
	for _, store := range c.components {
		store.Remove(row)
	}
	if row < len(c.entities) {
		return c.entities[row], true
	}
	return 0, false
}

// Validate asserts that every column's length equals the entity array's
// length. A mismatch means structural mutation skipped a column and the
// chunk can no longer be trusted, so it panics rather than report.
func (c *Chunk) Validate() {
	for key, store := range c.components {
		if store.Len() != len(c.entities) {
			panic(fmt.Sprintf(
				"legion: imbalanced chunk: column %v has %d rows, entity array has %d",
				key, store.Len(), len(c.entities),
			))
		}
	}
}

// HasComponentKey reports whether the chunk stores a column for the type key.
func (c *Chunk) HasComponentKey(key reflect.Type) bool {
	_, ok := c.components[key]
	return ok
}

// EntityData returns a shared view over the column for component type T.
// The second result is false when the chunk does not declare T; the error is
// a BorrowConflictError when the column is exclusively borrowed. Callers
// release the view when done, typically via defer.
func EntityData[T any](c *Chunk) (BorrowedSlice[T], bool, error) {
	key := reflect.TypeFor[T]()
	store, ok := c.components[key]
	if !ok {
		return BorrowedSlice[T]{}, false, nil
	}
	borrow, acquired := acquireRead(c.borrows[key])
	if !acquired {
		return BorrowedSlice[T]{}, true, BorrowConflictError{Component: key}
	}
	col := columnOf[T](store, key)
	return BorrowedSlice[T]{data: col.data, borrow: borrow}, true, nil
}

// EntityDataMut returns an exclusive view over the column for component type
// T. Acquisition fails immediately when any reader or another writer holds
// the column; it never waits.
func EntityDataMut[T any](c *Chunk) (BorrowedMutSlice[T], bool, error) {
	key := reflect.TypeFor[T]()
	store, ok := c.components[key]
	if !ok {
		return BorrowedMutSlice[T]{}, false, nil
	}
	borrow, acquired := acquireWrite(c.borrows[key])
	if !acquired {
		return BorrowedMutSlice[T]{}, true, BorrowConflictError{Component: key, Write: true}
	}
	col := columnOf[T](store, key)
	return BorrowedMutSlice[T]{data: col.data, borrow: borrow}, true, nil
}
