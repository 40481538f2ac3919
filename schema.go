package legion

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// maxSchemaTypes bounds the registry so every registered type maps to a
// distinct signature mask bit.
const maxSchemaTypes = 64

// Schema assigns a stable mask bit to every component and shared-value type
// a storage has seen. Archetype signatures and query evaluation are mask
// math over these bits; chunk internals key by the reflect type directly.
type Schema struct {
	indices map[reflect.Type]uint32
	types   []reflect.Type
}

func newSchema() *Schema {
	return &Schema{indices: make(map[reflect.Type]uint32)}
}

// Register returns the bit for the type key, assigning the next free one on
// first sight. Registration is idempotent.
func (s *Schema) Register(key reflect.Type) (uint32, error) {
	if bit, ok := s.indices[key]; ok {
		return bit, nil
	}
	if len(s.types) >= maxSchemaTypes {
		return 0, SchemaFullError{Limit: maxSchemaTypes}
	}
	bit := uint32(len(s.types))
	s.indices[key] = bit
	s.types = append(s.types, key)
	return bit, nil
}

// Lookup returns the bit for an already-registered type key.
func (s *Schema) Lookup(key reflect.Type) (uint32, bool) {
	bit, ok := s.indices[key]
	return bit, ok
}

func (s *Schema) Count() int {
	return len(s.types)
}

// maskFor registers every key and marks its bit.
func (s *Schema) maskFor(keys []reflect.Type) (mask.Mask, error) {
	var m mask.Mask
	for _, key := range keys {
		bit, err := s.Register(key)
		if err != nil {
			return m, err
		}
		m.Mark(bit)
	}
	return m, nil
}
