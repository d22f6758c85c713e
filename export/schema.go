package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// outlineSchema is the published contract for outline documents. Levels
// are integers by contract; a document with fractional levels is
// malformed no matter how it was produced.
const outlineSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "outline"],
  "additionalProperties": false,
  "properties": {
    "title": {"type": "string"},
    "outline": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "level", "page"],
        "additionalProperties": false,
        "properties": {
          "text": {"type": "string", "minLength": 1},
          "level": {"type": "integer", "minimum": 1},
          "page": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("outline.schema.json", strings.NewReader(outlineSchema)); err != nil {
		panic(fmt.Sprintf("add outline schema: %v", err))
	}
	s, err := c.Compile("outline.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile outline schema: %v", err))
	}
	return s
}

// ValidateJSON checks that data conforms to the outline contract.
func ValidateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse outline document: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("validate outline document: %w", err)
	}
	return nil
}

// Schema returns the JSON Schema text for the outline contract.
func Schema() string {
	return outlineSchema
}
