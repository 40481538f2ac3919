package legion

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rs/zerolog"
)

var _ Storage = &storage{}

type storage struct {
	locked     bool
	logger     zerolog.Logger
	schema     *Schema
	archetypes *archetypes
	opQueue    opQueue
	allocator  entityAllocator
	locations  map[Entity]location
}

// archetypeKey is the full signature an archetype is grouped under:
// component types and shared-value types, as schema masks.
type archetypeKey struct {
	components mask.Mask
	shared     mask.Mask
}

type archetypes struct {
	nextID          ArchetypeID
	asSlice         []*Archetype
	idsGroupedByKey map[archetypeKey]ArchetypeID
}

func newStorage(logger zerolog.Logger) Storage {
	return &storage{
		logger: logger,
		schema: newSchema(),
		archetypes: &archetypes{
			nextID:          1,
			idsGroupedByKey: make(map[archetypeKey]ArchetypeID),
		},
		opQueue:   newOpQueue(),
		allocator: newEntityAllocator(),
		locations: make(map[Entity]location),
	}
}

func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	return sto.newEntities(n, nil, components)
}

func (sto *storage) NewEntitiesWithShared(n int, shared []SharedData, components ...Component) ([]Entity, error) {
	return sto.newEntities(n, shared, components)
}

func (sto *storage) newEntities(n int, shared []SharedData, components []Component) ([]Entity, error) {
	if sto.locked {
		return nil, LockedStorageError{}
	}

	arch, err := sto.getOrCreateArchetype(shared, components)
	if err != nil {
		return nil, err
	}

	sharedSet := SharedValues(shared...)
	source := Components(components...)

	entities := make([]Entity, n)
	for i := range n {
		chunkID, chunk := arch.GetOrCreateChunk(sharedSet, source)
		e := sto.allocator.allocate()
		row, err := chunk.PushEntity(e)
		if err != nil {
			return nil, fmt.Errorf("failed to push entity into chunk: %w", err)
		}
		source.PushComponents(chunk)

		entities[i] = e
		sto.locations[e] = location{arch: arch.ID(), chunk: chunkID, row: row}
	}
	return entities, nil
}

func (sto *storage) getOrCreateArchetype(shared []SharedData, components []Component) (*Archetype, error) {
	componentKeys := make([]reflect.Type, len(components))
	for i, component := range components {
		componentKeys[i] = component.Key()
	}
	sharedKeys := make([]reflect.Type, len(shared))
	for i, value := range shared {
		sharedKeys[i] = value.Key()
	}

	componentMask, err := sto.schema.maskFor(componentKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to register components: %w", err)
	}
	sharedMask, err := sto.schema.maskFor(sharedKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to register shared values: %w", err)
	}

	key := archetypeKey{components: componentMask, shared: sharedMask}
	if id, found := sto.archetypes.idsGroupedByKey[key]; found {
		return sto.archetypes.asSlice[id-1], nil
	}

	created := newArchetype(
		sto.archetypes.nextID,
		sto.logger,
		componentKeys,
		sharedKeys,
		componentMask,
		sharedMask,
	)
	sto.archetypes.asSlice = append(sto.archetypes.asSlice, created)
	sto.archetypes.idsGroupedByKey[key] = sto.archetypes.nextID
	sto.archetypes.nextID++

	sto.logger.Debug().
		Uint32("archetype_id", uint32(created.ID())).
		Int("components", len(componentKeys)).
		Int("shared", len(sharedKeys)).
		Msg("created archetype")

	return created, nil
}

func (sto *storage) DestroyEntities(entities ...Entity) error {
	if sto.locked {
		return LockedStorageError{}
	}
	for _, e := range entities {
		loc, ok := sto.locations[e]
		if !ok {
			continue
		}
		arch := sto.archetypes.asSlice[loc.arch-1]
		chunk, ok := arch.Chunk(loc.chunk)
		if !ok {
			return fmt.Errorf("failed to destroy entity %d: chunk %d missing", e, loc.chunk)
		}
		if loc.row >= chunk.Len() {
			return fmt.Errorf("failed to destroy entity %d: %w", e, RowOutOfRangeError{Row: loc.row, Len: chunk.Len()})
		}

		moved, relocated := chunk.Remove(loc.row)
		delete(sto.locations, e)
		if relocated {
			sto.locations[moved] = location{arch: loc.arch, chunk: loc.chunk, row: loc.row}
		}
	}
	return nil
}

func (sto *storage) Locate(e Entity) (EntityLocation, bool) {
	loc, ok := sto.locations[e]
	if !ok {
		return EntityLocation{}, false
	}
	arch := sto.archetypes.asSlice[loc.arch-1]
	chunk, _ := arch.Chunk(loc.chunk)
	return EntityLocation{
		Archetype: arch,
		ChunkID:   loc.chunk,
		Chunk:     chunk,
		Row:       loc.row,
	}, true
}

func (sto *storage) EntityCount() int {
	return len(sto.locations)
}

func (sto *storage) Archetype(id ArchetypeID) (*Archetype, bool) {
	if id < 1 || int(id) > len(sto.archetypes.asSlice) {
		return nil, false
	}
	return sto.archetypes.asSlice[id-1], true
}

func (sto *storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, arch := range sto.archetypes.asSlice {
			if !yield(arch) {
				return
			}
		}
	}
}

func (sto *storage) RowIndexFor(c Component) (uint32, bool) {
	return sto.schema.Lookup(c.Key())
}

func (sto *storage) Locked() bool {
	return sto.locked
}

func (sto *storage) Lock() {
	sto.locked = true
}

func (sto *storage) Unlock() {
	sto.locked = false
	if err := sto.processOperationQueue(); err != nil {
		panic(err)
	}
}

// Validate walks every chunk of every archetype and asserts column/entity
// alignment. Integrity check, not a hot-path operation.
func (sto *storage) Validate() {
	for _, arch := range sto.archetypes.asSlice {
		for _, chunk := range iter_util.Collect(arch.Chunks()) {
			chunk.Validate()
		}
	}
}

func (sto *storage) EnqueueNewEntities(n int, components ...Component) error {
	if !sto.locked {
		if _, err := sto.NewEntities(n, components...); err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	sto.opQueue.createOps = append(sto.opQueue.createOps, operation{
		amount: n,
		comps:  components,
	})
	return nil
}

func (sto *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !sto.locked {
		return sto.DestroyEntities(entities...)
	}
	sto.opQueue.EnqueueDestroy(entities)
	return nil
}
