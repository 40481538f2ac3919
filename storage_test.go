package legion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArchetypeGrouping tests that entity creation groups archetypes by
// signature, not by registration order
func TestArchetypeGrouping(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	tests := []struct {
		name                string
		firstComponents     []Component
		secondComponents    []Component
		expectSameArchetype bool
	}{
		{
			name:                "Identical components",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{posComp, velComp},
			expectSameArchetype: true,
		},
		{
			name:                "Different order",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{velComp, posComp},
			expectSameArchetype: true, // Signatures are sets, not sequences
		},
		{
			name:                "Different components",
			firstComponents:     []Component{posComp},
			secondComponents:    []Component{velComp},
			expectSameArchetype: false,
		},
		{
			name:                "Subset components",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{posComp},
			expectSameArchetype: false,
		},
		{
			name:                "Superset components",
			firstComponents:     []Component{posComp},
			secondComponents:    []Component{posComp, velComp, healthComp},
			expectSameArchetype: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := Factory.NewStorage()

			first, err := storage.NewEntities(1, tt.firstComponents...)
			require.NoError(t, err)
			second, err := storage.NewEntities(1, tt.secondComponents...)
			require.NoError(t, err)

			firstLoc, ok := storage.Locate(first[0])
			require.True(t, ok)
			secondLoc, ok := storage.Locate(second[0])
			require.True(t, ok)

			sameArchetype := firstLoc.Archetype.ID() == secondLoc.Archetype.ID()
			assert.Equal(t, tt.expectSameArchetype, sameArchetype)
		})
	}
}

// TestDuplicateComponentHandles tests that repeating a handle in a create
// call keeps columns in lock-step with the entity array
func TestDuplicateComponentHandles(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	storage := Factory.NewStorage()

	entities, err := storage.NewEntities(1, posComp, posComp)
	require.NoError(t, err)
	require.NotPanics(t, storage.Validate)
	assert.Equal(t, 1, storage.EntityCount())

	loc, ok := storage.Locate(entities[0])
	require.True(t, ok)
	assert.Equal(t, 1, loc.Chunk.Len())
	posComp.Get(loc.Chunk, loc.Row).X = 3

	// Duplicates collapse to the same archetype as the plain signature
	more, err := storage.NewEntities(2, posComp, velComp, posComp, velComp)
	require.NoError(t, err)
	require.NotPanics(t, storage.Validate)
	plain, err := storage.NewEntities(1, posComp, velComp)
	require.NoError(t, err)
	moreLoc, _ := storage.Locate(more[0])
	plainLoc, _ := storage.Locate(plain[0])
	assert.Equal(t, moreLoc.Archetype.ID(), plainLoc.Archetype.ID())

	require.NoError(t, storage.DestroyEntities(entities[0]))
	require.NotPanics(t, storage.Validate)
}

func TestSharedTypesSplitArchetypes(t *testing.T) {
	position := FactoryNewComponent[Position]()
	team := FactoryNewShared(TeamID{Value: 1})
	storage := Factory.NewStorage()

	plain, err := storage.NewEntities(1, position)
	require.NoError(t, err)
	tagged, err := storage.NewEntitiesWithShared(1, []SharedData{team}, position)
	require.NoError(t, err)

	plainLoc, _ := storage.Locate(plain[0])
	taggedLoc, _ := storage.Locate(tagged[0])
	assert.NotEqual(t, plainLoc.Archetype.ID(), taggedLoc.Archetype.ID(),
		"shared types are part of the archetype signature")

	held, ok := SharedComponent[TeamID](taggedLoc.Chunk)
	require.True(t, ok)
	assert.Equal(t, 1, held.Value)
}

// TestEntityDestruction tests swap-remove relocation bookkeeping: after a
// destroy, every surviving entity's location still points at its own data
func TestEntityDestruction(t *testing.T) {
	healthComp := FactoryNewComponent[Health]()
	storage := Factory.NewStorage()

	entities, err := storage.NewEntities(10, healthComp)
	require.NoError(t, err)

	// Tag each entity's component with its own id
	for _, e := range entities {
		loc, ok := storage.Locate(e)
		require.True(t, ok)
		healthComp.Get(loc.Chunk, loc.Row).Current = int(e)
	}

	err = storage.DestroyEntities(entities[0], entities[2], entities[4], entities[6], entities[8])
	require.NoError(t, err)
	assert.Equal(t, 5, storage.EntityCount())
	storage.Validate()

	// Destroyed entities are gone
	for _, e := range []Entity{entities[0], entities[2], entities[4]} {
		_, ok := storage.Locate(e)
		assert.False(t, ok)
	}

	// Survivors relocated by the swap-removes still resolve to their data
	for _, e := range []Entity{entities[1], entities[3], entities[5], entities[7], entities[9]} {
		loc, ok := storage.Locate(e)
		require.True(t, ok)
		assert.Equal(t, int(e), healthComp.Get(loc.Chunk, loc.Row).Current)
	}

	// Destroying an unknown entity is a no-op
	err = storage.DestroyEntities(entities[0])
	require.NoError(t, err)
	assert.Equal(t, 5, storage.EntityCount())
}

// TestStorageLocking tests the storage locking mechanism
func TestStorageLocking(t *testing.T) {
	posComp := FactoryNewComponent[Position]()

	tests := []struct {
		name    string
		prepare func(Storage)
		operate func(Storage) error
		wantErr error
	}{
		{
			name:    "create while unlocked",
			prepare: func(s Storage) {},
			operate: func(s Storage) error {
				_, err := s.NewEntities(1, posComp)
				return err
			},
			wantErr: nil,
		},
		{
			name:    "create while locked",
			prepare: func(s Storage) { s.Lock() },
			operate: func(s Storage) error {
				_, err := s.NewEntities(1, posComp)
				return err
			},
			wantErr: LockedStorageError{},
		},
		{
			name:    "destroy while locked",
			prepare: func(s Storage) { s.Lock() },
			operate: func(s Storage) error {
				return s.DestroyEntities(Entity(1))
			},
			wantErr: LockedStorageError{},
		},
		{
			name: "unlock restores direct operations",
			prepare: func(s Storage) {
				s.Lock()
				s.Unlock()
			},
			operate: func(s Storage) error {
				_, err := s.NewEntities(1, posComp)
				return err
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := Factory.NewStorage()
			tt.prepare(storage)
			err := tt.operate(storage)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEnqueuedOperationsDrainOnUnlock(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	storage := Factory.NewStorage()

	seed, err := storage.NewEntities(3, posComp)
	require.NoError(t, err)

	storage.Lock()
	require.NoError(t, storage.EnqueueNewEntities(2, posComp))
	require.NoError(t, storage.EnqueueDestroyEntities(seed[0]))
	// Double-enqueue of the same entity collapses to one destroy
	require.NoError(t, storage.EnqueueDestroyEntities(seed[0]))
	assert.Equal(t, 3, storage.EntityCount(), "queued ops must not apply while locked")

	storage.Unlock()
	assert.Equal(t, 4, storage.EntityCount())
	storage.Validate()

	_, ok := storage.Locate(seed[0])
	assert.False(t, ok)
}

func TestEnqueueFallsThroughWhenUnlocked(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	storage := Factory.NewStorage()

	require.NoError(t, storage.EnqueueNewEntities(2, posComp))
	assert.Equal(t, 2, storage.EntityCount())

	entities := make([]Entity, 0, 2)
	for arch := range storage.Archetypes() {
		for chunk := range arch.Chunks() {
			entities = append(entities, chunk.Entities()...)
		}
	}
	require.NoError(t, storage.EnqueueDestroyEntities(entities...))
	assert.Equal(t, 0, storage.EntityCount())
}

func TestRowIndexFor(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	storage := Factory.NewStorage()

	_, ok := storage.RowIndexFor(posComp)
	assert.False(t, ok, "unregistered component has no row index")

	_, err := storage.NewEntities(1, posComp)
	require.NoError(t, err)
	bit, ok := storage.RowIndexFor(posComp)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), bit)
	_, ok = storage.RowIndexFor(velComp)
	assert.False(t, ok)
}

func TestArchetypeLookupBounds(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	storage := Factory.NewStorage()
	_, err := storage.NewEntities(1, posComp)
	require.NoError(t, err)

	_, ok := storage.Archetype(1)
	assert.True(t, ok)
	_, ok = storage.Archetype(0)
	assert.False(t, ok)
	_, ok = storage.Archetype(2)
	assert.False(t, ok)
}
