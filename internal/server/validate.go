package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// searchRequestSchema constrains the dataset-search request shape before the
// body is interpreted. The join query and the per-data-type queries are left
// open: their grammar is enforced by the query parser, which gives better
// errors than a schema can.
const searchRequestSchema = `{
	"type": "object",
	"required": ["dataset", "data_type_queries"],
	"properties": {
		"dataset": {
			"type": "object",
			"required": ["table_ownership", "linked_field_sets"],
			"properties": {
				"table_ownership": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["service_artifact", "table_id"],
						"properties": {
							"service_artifact": {"type": "string", "minLength": 1},
							"table_id": {"type": "string", "minLength": 1}
						}
					}
				},
				"linked_field_sets": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["fields"],
						"properties": {
							"fields": {"type": "object"}
						}
					}
				}
			}
		},
		"data_type_queries": {"type": "object", "minProperties": 1}
	}
}`

var compiledSearchRequestSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(searchRequestSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid search request schema: %v", err))
	}
	compiledSearchRequestSchema = schema
}

// validateSearchRequest checks a raw dataset-search body against the request
// schema and flattens any violations into one error.
func validateSearchRequest(body []byte) error {
	result, err := compiledSearchRequestSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("request body must be valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid search request: %s", strings.Join(msgs, "; "))
}
