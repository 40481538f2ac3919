package legion

import "fmt"

// Structural changes requested while the storage is locked (a cursor is
// iterating) are queued here and drained on Unlock, creates before destroys.

type operation struct {
	amount   int
	comps    []Component
	entities []Entity
}

type opQueue struct {
	createOps      []operation
	destroyOps     []operation
	pendingDestroy map[Entity]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Entity]struct{}),
	}
}

func (q *opQueue) EnqueueDestroy(entities []Entity) {
	// Filter out already queued entities
	var fresh []Entity
	for _, e := range entities {
		if _, exists := q.pendingDestroy[e]; !exists {
			fresh = append(fresh, e)
			q.pendingDestroy[e] = struct{}{}
		}
	}
	if len(fresh) > 0 {
		q.destroyOps = append(q.destroyOps, operation{entities: fresh})
	}
}

func (sto *storage) processOperationQueue() error {
	if len(sto.opQueue.createOps) == 0 && len(sto.opQueue.destroyOps) == 0 {
		return nil
	}

	for _, op := range sto.opQueue.createOps {
		if _, err := sto.NewEntities(op.amount, op.comps...); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}

	for _, op := range sto.opQueue.destroyOps {
		if err := sto.DestroyEntities(op.entities...); err != nil {
			return fmt.Errorf("failed to process queued entity destruction: %w", err)
		}
	}

	sto.opQueue.createOps = sto.opQueue.createOps[:0]
	sto.opQueue.destroyOps = sto.opQueue.destroyOps[:0]
	clear(sto.opQueue.pendingDestroy)
	return nil
}
