package legion

import (
	"iter"
	"reflect"
)

// Entity is the opaque identifier occupying one row of a chunk. The core
// only stores and returns it; allocation lives in the storage layer (or any
// outer world that supplies its own values).
type Entity uint64

// ChunkID addresses a chunk within its archetype's chunk list.
type ChunkID uint32

// ArchetypeID addresses an archetype within a storage.
type ArchetypeID uint32

// Component is the capability a per-row data type exposes: a stable type
// identity, its byte size for capacity computation, and registration into a
// chunk builder. Handles are created with FactoryNewComponent.
type Component interface {
	Key() reflect.Type
	Size() uintptr
	ConfigureChunk(*ChunkBuilder)
	pushDefault(*Chunk)
}

// SharedData is the capability a per-chunk value exposes: type identity,
// a value-match predicate against an existing chunk, and registration into a
// chunk builder. Handles are created with FactoryNewShared.
type SharedData interface {
	Key() reflect.Type
	IsChunkMatch(*Chunk) bool
	ConfigureChunk(*ChunkBuilder)
}

// SharedDataSet is the shared-value signature a caller requires from a
// chunk. It is the seam through which outer layers drive chunk selection
// without the core knowing their concrete types.
type SharedDataSet interface {
	IsChunkMatch(*Chunk) bool
	ConfigureChunk(*ChunkBuilder)
}

// ComponentSource registers a component set into a new chunk's builder and
// pushes one row of values per inserted entity.
type ComponentSource interface {
	ConfigureChunk(*ChunkBuilder)
	PushComponents(*Chunk)
}

// Storage is the world-level surface over archetypes: entity allocation,
// location tracking, and the lock/queue discipline for structural changes
// during iteration. Structural operations are not internally synchronized;
// callers serialize them.
type Storage interface {
	NewEntities(n int, components ...Component) ([]Entity, error)
	NewEntitiesWithShared(n int, shared []SharedData, components ...Component) ([]Entity, error)
	EnqueueNewEntities(n int, components ...Component) error
	DestroyEntities(entities ...Entity) error
	EnqueueDestroyEntities(entities ...Entity) error
	Locate(Entity) (EntityLocation, bool)
	EntityCount() int
	Archetype(ArchetypeID) (*Archetype, bool)
	Archetypes() iter.Seq[*Archetype]
	RowIndexFor(Component) (uint32, bool)
	Locked() bool
	Lock()
	Unlock()
	Validate()
}

// EntityLocation is an entity's current position. Rows are not stable across
// removals: a swap-remove relocates the last row, and the storage fixes its
// index up accordingly.
type EntityLocation struct {
	Archetype *Archetype
	ChunkID   ChunkID
	Chunk     *Chunk
	Row       int
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(archetype *Archetype, storage Storage) bool
}
