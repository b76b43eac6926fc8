package federation

import (
	"encoding/json"
	"sync"
)

// ObjectSchema is the superstructure schema built up while searching with a
// join query: one array-typed property per data type, keyed the same way the
// combined query's augmented resolves are. Search workers from different
// tables may race to create the same property, so insertion is an atomic
// get-or-create.
type ObjectSchema struct {
	mu         sync.Mutex
	properties map[string]interface{}
}

// NewObjectSchema creates an empty superstructure schema.
func NewObjectSchema() *ObjectSchema {
	return &ObjectSchema{properties: make(map[string]interface{})}
}

// EnsureProperty sets the schema for a property unless one exists already.
// Returns true when the property was inserted.
func (s *ObjectSchema) EnsureProperty(name string, schema interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[name]; ok {
		return false
	}
	s.properties[name] = schema
	return true
}

// Property returns the schema recorded for a property.
func (s *ObjectSchema) Property(name string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.properties[name]
	return v, ok
}

// Len returns the number of recorded properties.
func (s *ObjectSchema) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.properties)
}

// MarshalJSON emits the schema as {"type": "object", "properties": {...}}.
func (s *ObjectSchema) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return json.Marshal(map[string]interface{}{
		"type":       "object",
		"properties": s.properties,
	})
}
