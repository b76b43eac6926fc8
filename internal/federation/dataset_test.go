package federation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataset(t *testing.T) {
	dataset, err := ParseDataset([]byte(`{
		"table_ownership": [
			{"service_artifact": "metadata", "table_id": "t1"}
		],
		"linked_field_sets": [
			{"fields": {"phenopacket": ["subject", "id"], "experiment": ["biosample"]}}
		]
	}`))
	require.NoError(t, err)

	require.Len(t, dataset.TableOwnership, 1)
	assert.Equal(t, "metadata", dataset.TableOwnership[0].ServiceArtifact)
	assert.Equal(t, "t1", dataset.TableOwnership[0].TableID)

	require.Len(t, dataset.LinkedFieldSets, 1)
	fields := dataset.LinkedFieldSets[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "phenopacket", fields[0].DataType)
	assert.Equal(t, []string{"subject", "id"}, fields[0].Field)
}

func TestParseDatasetRejectsMalformedDocument(t *testing.T) {
	_, err := ParseDataset([]byte(`{"table_ownership": "nope"}`))
	assert.Error(t, err)
}

func TestUsefulLinkedFieldSets(t *testing.T) {
	dataset, err := ParseDataset([]byte(`{
		"table_ownership": [],
		"linked_field_sets": [
			{"fields": {"a": ["x"]}},
			{"fields": {"a": ["x"], "b": ["y"]}},
			{"fields": {}}
		]
	}`))
	require.NoError(t, err)

	// Single-field and empty sets cannot constrain a join.
	useful := dataset.UsefulLinkedFieldSets()
	require.Len(t, useful, 1)
	assert.Len(t, useful[0], 2)
}

func TestTableRecordFromValue(t *testing.T) {
	record, err := tableRecordFromValue(map[string]interface{}{
		"data_type": "variant",
		"schema":    map[string]interface{}{"type": "object"},
		"id":        "t9",
	})
	require.NoError(t, err)
	assert.Equal(t, "variant", record.DataType)
	assert.Equal(t, "t9", record.ID)

	_, err = tableRecordFromValue(map[string]interface{}{"id": "t9"})
	assert.Error(t, err)

	_, err = tableRecordFromValue(map[string]interface{}{"data_type": "variant"})
	assert.Error(t, err)

	_, err = tableRecordFromValue([]interface{}{"not", "an", "object"})
	assert.Error(t, err)
}
