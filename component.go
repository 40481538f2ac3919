package legion

import "reflect"

// ComponentType is the typed handle for a component: a stable type key plus
// the per-element byte size used for chunk capacity computation. It is both
// a Component (registrable into builders, usable in queries) and a
// ComponentSource for a single type.
type ComponentType[T any] struct {
	key  reflect.Type
	size uintptr
}

// FactoryNewComponent creates the handle for component type T. Handles for
// the same T are interchangeable; the reflect type is the identity.
func FactoryNewComponent[T any]() ComponentType[T] {
	key := reflect.TypeFor[T]()
	return ComponentType[T]{
		key:  key,
		size: key.Size(),
	}
}

func (ct ComponentType[T]) Key() reflect.Type {
	return ct.key
}

func (ct ComponentType[T]) Size() uintptr {
	return ct.size
}

func (ct ComponentType[T]) ConfigureChunk(b *ChunkBuilder) {
	RegisterComponent[T](b)
}

// pushDefault appends one zero-valued row to the chunk's column for T,
// keeping it in lock-step with a just-pushed entity.
func (ct ComponentType[T]) pushDefault(c *Chunk) {
	columnOf[T](c.components[ct.key], ct.key).push(*new(T))
}

func (ct ComponentType[T]) PushComponents(c *Chunk) {
	ct.pushDefault(c)
}

// Check reports whether the chunk declares this component type.
func (ct ComponentType[T]) Check(c *Chunk) bool {
	return c.HasComponentKey(ct.key)
}

// Get returns a pointer to the component value at the given row. This is the
// unchecked fast path: it bypasses borrow tracking and panics if the chunk
// does not declare T. Systems coordinating through the cursor's storage lock
// use it for dense iteration; concurrent column access goes through
// EntityData/EntityDataMut instead.
func (ct ComponentType[T]) Get(c *Chunk, row int) *T {
	return &columnOf[T](c.components[ct.key], ct.key).data[row]
}

// GetFromCursor returns a pointer to the component value at the cursor's
// current row. Same access discipline as Get.
func (ct ComponentType[T]) GetFromCursor(cursor *Cursor) *T {
	return ct.Get(cursor.Chunk(), cursor.Row())
}

// GetFromCursorSafe checks for the component before accessing it, returning
// false when the cursor's chunk does not declare T.
func (ct ComponentType[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !ct.Check(cursor.Chunk()) {
		return false, nil
	}
	return true, ct.GetFromCursor(cursor)
}

type componentSet struct {
	components []Component
}

// Components combines component handles into a single source usable with
// Archetype.GetOrCreateChunk and the storage layer. Duplicate handles for
// one type collapse to the first occurrence: a chunk holds one column per
// type, so pushing per duplicate would grow that column out of lock-step
// with the entity array.
func Components(components ...Component) ComponentSource {
	deduped := make([]Component, 0, len(components))
	seen := make(map[reflect.Type]struct{}, len(components))
	for _, component := range components {
		if _, ok := seen[component.Key()]; ok {
			continue
		}
		seen[component.Key()] = struct{}{}
		deduped = append(deduped, component)
	}
	return componentSet{components: deduped}
}

func (cs componentSet) ConfigureChunk(b *ChunkBuilder) {
	for _, component := range cs.components {
		component.ConfigureChunk(b)
	}
}

func (cs componentSet) PushComponents(c *Chunk) {
	for _, component := range cs.components {
		component.pushDefault(c)
	}
}
