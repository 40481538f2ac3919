package legion

import (
	"fmt"
	"reflect"
)

// SharedStorage is the type-erased capability a chunk holds per shared-value
// type. A shared value is stored once per chunk and applies to every row.
// Shared slots are read-only after chunk construction; unlike per-row
// columns they carry no borrow arbitration, and accessors return copies so
// concurrent readers can never alias a mutation.
type SharedStorage interface {
	sharedStorage()
}

type sharedStore[T any] struct {
	value T
}

func (s *sharedStore[T]) sharedStorage() {}

// SharedComponent returns the chunk's shared value for type T, or false if
// the chunk does not declare T. The value is returned by copy; shared slots
// cannot be mutated after the chunk is built.
func SharedComponent[T any](c *Chunk) (T, bool) {
	key := reflect.TypeFor[T]()
	store, ok := c.shared[key]
	if !ok {
		var zero T
		return zero, false
	}
	concrete, ok := store.(*sharedStore[T])
	if !ok {
		panic(fmt.Sprintf("legion: shared slot for %v holds %T, expected store of %v", key, store, key))
	}
	return concrete.value, true
}

// SharedValue pairs a shared-data type with a required value. It acts both
// as the match predicate against an existing chunk's slot and as the
// registration source when a new chunk is built, so it satisfies SharedData
// and SharedDataSet on its own.
type SharedValue[T comparable] struct {
	key   reflect.Type
	value T
}

func FactoryNewShared[T comparable](value T) SharedValue[T] {
	return SharedValue[T]{
		key:   reflect.TypeFor[T](),
		value: value,
	}
}

func (s SharedValue[T]) Key() reflect.Type {
	return s.key
}

func (s SharedValue[T]) Value() T {
	return s.value
}

// IsChunkMatch reports whether the chunk holds this exact shared value.
// Matching is by value, not merely by type: chunks of one archetype always
// agree on shared types but may differ in the values themselves.
func (s SharedValue[T]) IsChunkMatch(c *Chunk) bool {
	held, ok := SharedComponent[T](c)
	return ok && held == s.value
}

func (s SharedValue[T]) ConfigureChunk(b *ChunkBuilder) {
	b.registerShared(s.key, &sharedStore[T]{value: s.value})
}

type sharedSet struct {
	values []SharedData
}

// SharedValues combines shared values into a single signature usable with
// Archetype.GetOrCreateChunk. An empty signature matches any chunk.
func SharedValues(values ...SharedData) SharedDataSet {
	return sharedSet{values: values}
}

func (s sharedSet) IsChunkMatch(c *Chunk) bool {
	for _, value := range s.values {
		if !value.IsChunkMatch(c) {
			return false
		}
	}
	return true
}

func (s sharedSet) ConfigureChunk(b *ChunkBuilder) {
	for _, value := range s.values {
		value.ConfigureChunk(b)
	}
}
