package legion

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/rs/zerolog"
)

// Archetype owns the chunks sharing one exact component/shared-type
// signature. Every chunk it holds declares the same column set and the same
// shared-value type set; chunks are appended on demand and never removed.
type Archetype struct {
	id            ArchetypeID
	logger        zerolog.Logger
	components    map[reflect.Type]struct{}
	shared        map[reflect.Type]struct{}
	componentMask mask.Mask
	sharedMask    mask.Mask
	chunks        []*Chunk
}

func newArchetype(
	id ArchetypeID,
	logger zerolog.Logger,
	componentKeys []reflect.Type,
	sharedKeys []reflect.Type,
	componentMask mask.Mask,
	sharedMask mask.Mask,
) *Archetype {
	components := make(map[reflect.Type]struct{}, len(componentKeys))
	for _, key := range componentKeys {
		components[key] = struct{}{}
	}
	shared := make(map[reflect.Type]struct{}, len(sharedKeys))
	for _, key := range sharedKeys {
		shared[key] = struct{}{}
	}
	return &Archetype{
		id:            id,
		logger:        logger.With().Uint32("archetype_id", uint32(id)).Logger(),
		components:    components,
		shared:        shared,
		componentMask: componentMask,
		sharedMask:    sharedMask,
	}
}

func (a *Archetype) ID() ArchetypeID {
	return a.id
}

func (a *Archetype) ComponentMask() mask.Mask {
	return a.componentMask
}

func (a *Archetype) SharedMask() mask.Mask {
	return a.sharedMask
}

// Chunk is a bounds-checked lookup; it returns false for out-of-range ids.
func (a *Archetype) Chunk(id ChunkID) (*Chunk, bool) {
	if int(id) >= len(a.chunks) {
		return nil, false
	}
	return a.chunks[id], true
}

func (a *Archetype) ChunkCount() int {
	return len(a.chunks)
}

func (a *Archetype) Chunks() iter.Seq[*Chunk] {
	return func(yield func(*Chunk) bool) {
		for _, chunk := range a.chunks {
			if !yield(chunk) {
				return
			}
		}
	}
}

// HasComponentKey reports signature membership for a component type key.
func (a *Archetype) HasComponentKey(key reflect.Type) bool {
	_, ok := a.components[key]
	return ok
}

// HasSharedKey reports signature membership for a shared-value type key.
func (a *Archetype) HasSharedKey(key reflect.Type) bool {
	_, ok := a.shared[key]
	return ok
}

// HasComponent reports whether archetype a declares component type T.
func HasComponent[T any](a *Archetype) bool {
	return a.HasComponentKey(reflect.TypeFor[T]())
}

// HasShared reports whether archetype a declares shared-value type T.
func HasShared[T any](a *Archetype) bool {
	return a.HasSharedKey(reflect.TypeFor[T]())
}

// GetOrCreateChunk returns the first chunk, in insertion order, that has
// spare capacity and whose shared values match the required signature. When
// none fits, the shared signature and component source configure a fresh
// builder and the built chunk is appended. First-fit keeps selection
// deterministic; density is the caller's tradeoff.
func (a *Archetype) GetOrCreateChunk(shared SharedDataSet, components ComponentSource) (ChunkID, *Chunk) {
	for i, chunk := range a.chunks {
		if !chunk.IsFull() && shared.IsChunkMatch(chunk) {
			return ChunkID(i), chunk
		}
	}

	builder := NewChunkBuilder()
	shared.ConfigureChunk(builder)
	components.ConfigureChunk(builder)
	chunk := builder.Build()
	a.chunks = append(a.chunks, chunk)

	chunkID := ChunkID(len(a.chunks) - 1)
	a.logger.Debug().
		Uint32("chunk_id", uint32(chunkID)).
		Int("capacity", chunk.Capacity()).
		Msg("allocated chunk")

	return chunkID, chunk
}
