/*
Package legion provides chunked, columnar storage for entity/component data.

Entities sharing an identical set of component types are grouped into
archetypes. Each archetype owns a list of fixed-capacity chunks, and each
chunk stores one dense array per component type, so systems iterate
cache-friendly columns instead of scattered objects. Access to a column is
arbitrated at runtime by an atomic reader/writer counter: many concurrent
readers, or exactly one writer, never both.

Core Concepts:

  - Entity: an opaque identifier occupying one row of a chunk.
  - Component: per-row data, one column array slot per entity.
  - Shared value: per-chunk data shared by every row in that chunk.
  - Chunk: a fixed-capacity columnar block, sized against a byte budget.
  - Archetype: the chunks sharing one component/shared-type signature.

Basic Usage:

	storage := legion.Factory.NewStorage()

	// Define components
	position := legion.FactoryNewComponent[Position]()
	velocity := legion.FactoryNewComponent[Velocity]()

	// Create entities
	entities, _ := storage.NewEntities(100, position, velocity)

	// Query entities and process them
	query := legion.Factory.NewQuery()
	queryNode := query.And(position, velocity)
	cursor := legion.Factory.NewCursor(queryNode, storage)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

	// Borrow-tracked column access for concurrent systems
	loc, _ := storage.Locate(entities[0])
	view, ok, err := legion.EntityDataMut[Position](loc.Chunk)
	if ok && err == nil {
		defer view.Release()
		view.At(loc.Row).X = 10
	}

Structural changes (creating and destroying entities) are not internally
synchronized; callers serialize them. Column reads and writes are arbitrated
per component type, so different systems may access disjoint component types
on the same chunk concurrently.
*/
package legion
