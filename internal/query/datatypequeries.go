package query

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// DataTypeQueries maps data types to their queries, preserving insertion
// order. Combination and exclusion logic iterate it in that order, so the
// composite join query is reproducible for a given request document.
type DataTypeQueries struct {
	m *orderedmap.OrderedMap[string, Node]
}

// NewDataTypeQueries creates an empty query map.
func NewDataTypeQueries() *DataTypeQueries {
	return &DataTypeQueries{m: orderedmap.NewOrderedMap[string, Node]()}
}

// Set assigns the query for a data type, keeping first-insertion order.
func (d *DataTypeQueries) Set(dataType string, q Node) {
	d.m.Set(dataType, q)
}

// Get returns the query for a data type.
func (d *DataTypeQueries) Get(dataType string) (Node, bool) {
	return d.m.Get(dataType)
}

// Has reports whether a data type is being queried.
func (d *DataTypeQueries) Has(dataType string) bool {
	_, ok := d.m.Get(dataType)
	return ok
}

// Len returns the number of queried data types.
func (d *DataTypeQueries) Len() int {
	return d.m.Len()
}

// Keys returns the data types in insertion order.
func (d *DataTypeQueries) Keys() []string {
	return d.m.Keys()
}

// ParseDataTypeQueries decodes a JSON object of data type to query, keeping
// the document's key order. encoding/json map decoding would lose it.
func ParseDataTypeQueries(data []byte) (*DataTypeQueries, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode data type queries: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("data type queries must be a JSON object")
	}

	out := NewDataTypeQueries()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode data type queries: %w", err)
		}
		dataType := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode query for %q: %w", dataType, err)
		}
		q, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid query for %q: %w", dataType, err)
		}
		out.Set(dataType, q)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode data type queries: %w", err)
	}
	return out, nil
}

// MarshalJSON emits the map as a JSON object in insertion order.
func (d *DataTypeQueries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dataType := range d.m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(dataType)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		q, _ := d.m.Get(dataType)
		val, err := json.Marshal(ToValue(q))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the map with ParseDataTypeQueries.
func (d *DataTypeQueries) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDataTypeQueries(data)
	if err != nil {
		return err
	}
	d.m = parsed.m
	return nil
}
