package legion

import "iter"

// Cursor iterates the rows of every archetype matching a query, walking
// archetypes, then chunks, then rows. Initialization locks the storage so
// structural changes queue up instead of invalidating rows mid-iteration;
// exhausting the cursor (or calling Reset) unlocks it and drains the queue.
type Cursor struct {
	query   QueryNode
	storage Storage

	// Current iteration state
	matched     []*Archetype
	archIndex   int
	chunkIndex  int
	current     *Chunk
	row         int
	initialized bool
}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

// Next advances to the next row, returning false once iteration is done.
// After false the cursor is reset and reusable.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.current != nil && c.row+1 < c.current.Len() {
		c.row++
		return true
	}
	if c.advanceChunk() {
		return true
	}
	c.Reset()
	return false
}

// advanceChunk moves to the next non-empty chunk, crossing archetype
// boundaries as needed.
func (c *Cursor) advanceChunk() bool {
	for c.archIndex < len(c.matched) {
		arch := c.matched[c.archIndex]
		for c.chunkIndex+1 < arch.ChunkCount() {
			c.chunkIndex++
			chunk, _ := arch.Chunk(ChunkID(c.chunkIndex))
			if chunk.Len() > 0 {
				c.current = chunk
				c.row = 0
				return true
			}
		}
		c.archIndex++
		c.chunkIndex = -1
	}
	return false
}

// Entity returns the entity at the current row.
func (c *Cursor) Entity() Entity {
	return c.current.Entities()[c.row]
}

// Chunk returns the chunk holding the current row.
func (c *Cursor) Chunk() *Chunk {
	return c.current
}

// Row returns the current row index within Chunk.
func (c *Cursor) Row() int {
	return c.row
}

// Archetype returns the archetype holding the current chunk.
func (c *Cursor) Archetype() *Archetype {
	return c.matched[c.archIndex]
}

// Entities yields every matching (entity, chunk) pair. Breaking out of the
// range resets the cursor.
func (c *Cursor) Entities() iter.Seq2[Entity, *Chunk] {
	return func(yield func(Entity, *Chunk) bool) {
		for c.Next() {
			if !yield(c.Entity(), c.current) {
				c.Reset()
				return
			}
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.matched = make([]*Archetype, 0)
	for _, arch := range c.storage.(*storage).archetypes.asSlice {
		if c.query.Evaluate(arch, c.storage) {
			c.matched = append(c.matched, arch)
		}
	}
	c.archIndex = 0
	c.chunkIndex = -1
	c.current = nil
	c.row = -1
	c.initialized = true
	c.storage.Lock()
}

// Reset clears iteration state and unlocks the storage, draining any
// operations queued during iteration.
func (c *Cursor) Reset() {
	c.matched = nil
	c.archIndex = 0
	c.chunkIndex = -1
	c.current = nil
	c.row = -1
	c.initialized = false
	c.storage.Unlock()
}

// TotalMatched counts the rows the cursor will visit from its current
// snapshot of matching archetypes.
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.initialize()
	}
	total := 0
	for _, arch := range c.matched {
		for chunk := range arch.Chunks() {
			total += chunk.Len()
		}
	}
	return total
}
