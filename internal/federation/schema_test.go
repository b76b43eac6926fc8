package federation

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePropertyKeepsFirstWriter(t *testing.T) {
	schema := NewObjectSchema()

	assert.True(t, schema.EnsureProperty("a", map[string]interface{}{"type": "array"}))
	assert.False(t, schema.EnsureProperty("a", map[string]interface{}{"type": "string"}))

	prop, ok := schema.Property("a")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"type": "array"}, prop)
	assert.Equal(t, 1, schema.Len())
}

func TestEnsurePropertyConcurrent(t *testing.T) {
	schema := NewObjectSchema()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		inserted int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if schema.EnsureProperty("shared", i) {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, schema.Len())
}

func TestObjectSchemaMarshal(t *testing.T) {
	schema := NewObjectSchema()
	schema.EnsureProperty("variant", map[string]interface{}{"type": "array"})

	doc, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type": "object", "properties": {"variant": {"type": "array"}}}`,
		string(doc))
}
