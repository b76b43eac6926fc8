// Package federation implements federated dataset search: it discovers which
// peer-hosted tables make up a dataset, synthesizes a cross-data-type join
// query from the dataset's linked field sets, and fans the search out over
// every relevant table.
package federation

import (
	"encoding/json"
	"fmt"

	"github.com/dbsmedya/fedsearch/internal/query"
)

// TableOwnership identifies a table by its owning service artifact and the
// table's identifier within that service. Supplied by the caller; never
// mutated.
type TableOwnership struct {
	ServiceArtifact string `json:"service_artifact"`
	TableID         string `json:"table_id"`
}

// LinkedFieldSetEntry wraps a linked field set in the dataset wire shape.
type LinkedFieldSetEntry struct {
	Fields query.LinkedFieldSet `json:"fields"`
}

// Dataset describes one logical dataset: the tables it spans and the linked
// field sets declaring which fields join records across data types.
type Dataset struct {
	TableOwnership  []TableOwnership      `json:"table_ownership"`
	LinkedFieldSets []LinkedFieldSetEntry `json:"linked_field_sets"`
}

// ParseDataset decodes a dataset description document.
func ParseDataset(data []byte) (*Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &d, nil
}

// UsefulLinkedFieldSets returns the dataset's linked field sets with two or
// more fields; smaller sets cannot constrain a join.
func (d *Dataset) UsefulLinkedFieldSets() []query.LinkedFieldSet {
	var out []query.LinkedFieldSet
	for _, entry := range d.LinkedFieldSets {
		if len(entry.Fields) > 1 {
			out = append(out, entry.Fields)
		}
	}
	return out
}

// TableRecord is a table's metadata as served by its owning service. Created
// during discovery and read-only afterwards.
type TableRecord struct {
	DataType string      `json:"data_type"`
	Schema   interface{} `json:"schema"`
	ID       string      `json:"id"`
}

// tableRecordFromValue extracts a table record from a decoded peer response.
func tableRecordFromValue(v interface{}) (*TableRecord, error) {
	doc, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("table record must be a JSON object, got %T", v)
	}

	dataType, _ := doc["data_type"].(string)
	if dataType == "" {
		return nil, fmt.Errorf("table record is missing data_type")
	}
	id, _ := doc["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("table record is missing id")
	}

	return &TableRecord{
		DataType: dataType,
		Schema:   doc["schema"],
		ID:       id,
	}, nil
}

// tablePair joins a caller-supplied ownership with the record discovered for
// it.
type tablePair struct {
	Ownership TableOwnership
	Record    *TableRecord
}

// TableError records a per-table discovery or search failure. Failures never
// abort the batch; they are surfaced here instead.
type TableError struct {
	ServiceArtifact string `json:"service_artifact"`
	TableID         string `json:"table_id"`
	Stage           string `json:"stage"`
	Message         string `json:"error"`
}

// Stages reported in TableError.
const (
	StageDiscovery = "discovery"
	StageSearch    = "search"
)
