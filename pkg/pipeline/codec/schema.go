package codec

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema is the JSON Schema every imported document must satisfy. The four top-level
// keys are required and may not be null. Entity kinds are checked later against model kinds.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pipeline_name", "sources", "transformations", "sinks"],
  "properties": {
    "pipeline_name": {"type": "string"},
    "description": {"type": ["string", "null"]},
    "sources": {"type": "array", "items": {"$ref": "#/definitions/source"}},
    "transformations": {"type": "array", "items": {"$ref": "#/definitions/transformation"}},
    "sinks": {"type": "array", "items": {"$ref": "#/definitions/sink"}}
  },
  "definitions": {
    "column": {
      "type": "object",
      "properties": {
        "column_name": {"type": "string"},
        "data_type": {"type": "string"},
        "nullable": {"type": "boolean"}
      }
    },
    "source": {
      "type": "object",
      "required": ["id", "name", "type"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string"},
        "type": {"type": "string"},
        "config": {"type": "object"},
        "schema": {"type": "array", "items": {"$ref": "#/definitions/column"}}
      }
    },
    "transformation": {
      "type": "object",
      "required": ["id", "name", "type"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string"},
        "type": {"type": "string"},
        "input_dataset": {"type": "string"},
        "output_dataset": {"type": "string"},
        "config": {"type": "object"},
        "schema": {"type": "array", "items": {"$ref": "#/definitions/column"}}
      }
    },
    "sink": {
      "type": "object",
      "required": ["id", "name", "type"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string"},
        "type": {"type": "string"},
        "input_dataset": {"type": "string"},
        "config": {"type": "object"}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
		if schemaErr != nil {
			schemaErr = errors.Wrap(schemaErr, "unable to load document schema")
		}
	})

	return schema, schemaErr
}

// checkShape validates a decoded JSON value against documentSchema.
func checkShape(raw any) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return &SchemaError{Msg: err.Error()}
	}

	if result.Valid() {
		return nil
	}

	resultErrors := result.Errors()
	details := make([]string, 0, len(resultErrors))
	for _, re := range resultErrors {
		details = append(details, re.String())
	}

	first := resultErrors[0]

	return &SchemaError{
		Field:   first.Field(),
		Msg:     first.Description(),
		Details: details,
	}
}
