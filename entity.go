package legion

// location is the storage-internal record of where an entity's row lives.
// Rows move under swap-removal, so locations are fixed up whenever a removal
// reports a relocated entity.
type location struct {
	arch  ArchetypeID
	chunk ChunkID
	row   int
}

// entityAllocator hands out entity values. Ids start at 1 so the zero Entity
// never names a live row, and are never reused; generation tagging is left
// to outer callers.
type entityAllocator struct {
	next Entity
}

func newEntityAllocator() entityAllocator {
	return entityAllocator{next: 1}
}

func (a *entityAllocator) allocate() Entity {
	e := a.next
	a.next++
	return e
}
