package legion

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []Component
	shared     []SharedData
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []Component, shared []SharedData) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
		shared:     shared,
	}
}

// buildMasks resolves the node's items to signature masks. A type the
// storage has never registered exists in no archetype; known reports whether
// every item resolved.
func buildMasks(sto Storage, components []Component, shared []SharedData) (compMask, sharedMask mask.Mask, known bool) {
	known = true
	for _, comp := range components {
		bit, ok := sto.RowIndexFor(comp)
		if !ok {
			known = false
			continue
		}
		compMask.Mark(bit)
	}
	schema := sto.(*storage).schema
	for _, value := range shared {
		bit, ok := schema.Lookup(value.Key())
		if !ok {
			known = false
			continue
		}
		sharedMask.Mark(bit)
	}
	return compMask, sharedMask, known
}

func (n *compositeNode) Evaluate(archetype *Archetype, storage Storage) bool {
	nodeMask, nodeShared, known := buildMasks(storage, n.components, n.shared)

	switch n.op {
	case OpAnd:
		if !known {
			return false
		}
		if !archetype.ComponentMask().ContainsAll(nodeMask) ||
			!archetype.SharedMask().ContainsAll(nodeShared) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype, storage) {
				return false
			}
		}
		return true

	case OpOr:
		if archetype.ComponentMask().ContainsAny(nodeMask) ||
			archetype.SharedMask().ContainsAny(nodeShared) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return false
			}
		}
		return archetype.ComponentMask().ContainsNone(nodeMask) &&
			archetype.SharedMask().ContainsNone(nodeShared)
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	components, shared, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, components, shared)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	components, shared, children := q.processItems(items...)
	node := newCompositeNode(OpOr, components, shared)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	components, shared, children := q.processItems(items...)
	node := newCompositeNode(OpNot, components, shared)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) ([]Component, []SharedData, []QueryNode) {
	components := make([]Component, 0)
	shared := make([]SharedData, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v)
		case []Component:
			components = append(components, v...)
		case SharedData:
			shared = append(shared, v)
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, shared, children
}

func (q *query) Evaluate(archetype *Archetype, storage Storage) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype, storage)
}
