package legion

import (
	"reflect"
	"sync/atomic"
)

type componentSpec struct {
	key       reflect.Type
	size      uintptr
	construct func(capacity int) ComponentStorage
}

// ChunkBuilder accumulates the component and shared-value registrations for
// one chunk, then builds it with all columns pre-sized to the computed
// capacity. A builder is single-use; Archetype.GetOrCreateChunk creates a
// fresh one per allocation.
type ChunkBuilder struct {
	budget     int
	components []componentSpec
	shared     map[reflect.Type]SharedStorage
}

func NewChunkBuilder() *ChunkBuilder {
	return &ChunkBuilder{
		budget: Config.ChunkBudget(),
		shared: make(map[reflect.Type]SharedStorage),
	}
}

// RegisterComponent declares a column of T for the chunk under construction.
// Registration order affects column storage order only, never capacity.
func RegisterComponent[T any](b *ChunkBuilder) {
	key := reflect.TypeFor[T]()
	b.register(key, key.Size(), func(capacity int) ComponentStorage {
		return newColumn[T](capacity)
	})
}

func (b *ChunkBuilder) register(key reflect.Type, size uintptr, construct func(int) ComponentStorage) {
	// Duplicate registrations collapse: one column per type
	for _, spec := range b.components {
		if spec.key == key {
			return
		}
	}
	b.components = append(b.components, componentSpec{
		key:       key,
		size:      size,
		construct: construct,
	})
}

func (b *ChunkBuilder) registerShared(key reflect.Type, store SharedStorage) {
	b.shared[key] = store
}

// Capacity computes the row capacity the built chunk will have:
// max(1, budget / largest registered component size). Capping the chunk at a
// fixed byte budget keeps per-chunk memory predictable while guaranteeing at
// least one row even for oversized components. With no sized components the
// capacity is driven by the budget alone.
func (b *ChunkBuilder) Capacity() int {
	maxSize := 0
	for _, spec := range b.components {
		if int(spec.size) > maxSize {
			maxSize = int(spec.size)
		}
	}
	if maxSize == 0 {
		maxSize = b.budget
	}
	capacity := b.budget / maxSize
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}

// Build constructs the chunk with the entity array and every registered
// column pre-sized to capacity, and one zeroed borrow counter per component
// type.
func (b *ChunkBuilder) Build() *Chunk {
	capacity := b.Capacity()
	components := make(map[reflect.Type]ComponentStorage, len(b.components))
	borrows := make(map[reflect.Type]*atomic.Int64, len(b.components))
	for _, spec := range b.components {
		components[spec.key] = spec.construct(capacity)
		borrows[spec.key] = &atomic.Int64{}
	}
	return &Chunk{
		capacity:   capacity,
		entities:   make([]Entity, 0, capacity),
		components: components,
		shared:     b.shared,
		borrows:    borrows,
	}
}
