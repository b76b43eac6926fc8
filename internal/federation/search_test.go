package federation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractResultsPrivate(t *testing.T) {
	results, err := extractResults(map[string]interface{}{
		"results": []interface{}{"r1", "r2"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"r1", "r2"}, results)

	_, err = extractResults([]interface{}{"r1"}, true)
	assert.Error(t, err)

	_, err = extractResults(map[string]interface{}{"count": float64(2)}, true)
	assert.Error(t, err)
}

func TestExtractResultsPublic(t *testing.T) {
	// A truthy public response contributes a single marker result.
	results, err := extractResults(true, false)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{true}, results)

	results, err = extractResults(false, false)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = extractResults(nil, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTruthy(t *testing.T) {
	assert.True(t, truthy(true))
	assert.True(t, truthy(float64(1)))
	assert.True(t, truthy("x"))
	assert.True(t, truthy([]interface{}{1}))
	assert.True(t, truthy(map[string]interface{}{"k": "v"}))

	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(float64(0)))
	assert.False(t, truthy(""))
	assert.False(t, truthy([]interface{}{}))
	assert.False(t, truthy(map[string]interface{}{}))
}

func TestRunPoolCompletesAllTasks(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[int]bool{}
	)

	tasks := make([]func(), 16)
	for i := range tasks {
		i := i
		tasks[i] = func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}
	}

	require.NoError(t, runPool(3, tasks))
	assert.Len(t, seen, 16)
}
