package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// packSchema is the structural contract for JSON-form packs. YAML packs go
// through the same Go-side validation after decoding; the schema catches
// shape errors in machine-produced JSON packs before any decoding happens.
const packSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "questions", "bands"],
  "properties": {
    "version": { "type": "string" },
    "weight_scale": { "enum": ["unit", "percent", "twenty"] },
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "lens", "options"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "lens": { "type": "string" },
          "text": { "type": "string" },
          "options": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["id", "weight"],
              "properties": {
                "id": { "type": "string", "minLength": 1 },
                "label": { "type": "string" },
                "weight": { "type": "number" }
              }
            }
          }
        }
      }
    },
    "rules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "option", "value"],
        "properties": {
          "question": { "type": "string" },
          "option": { "type": "string" },
          "value": { "type": "number" }
        }
      }
    },
    "bands": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["min", "max", "label", "slug"],
        "properties": {
          "min": { "type": "integer" },
          "max": { "type": "integer" },
          "label": { "type": "string" },
          "slug": { "type": "string" },
          "message": { "type": "string" }
        }
      }
    },
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "lens"],
        "properties": {
          "id": { "type": "string" },
          "title": { "type": "string" },
          "lens": { "type": "string" },
          "summary": { "type": "string" },
          "steps": { "type": "array", "maxItems": 6, "items": { "type": "string" } },
          "eligibility": { "type": "object" }
        }
      }
    },
    "insights": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "lens", "kind", "text"]
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func compiledPackSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		const url = "https://hearthguard.schemas.local/pack.schema.json"
		if err := c.AddResource(url, strings.NewReader(packSchema)); err != nil {
			compileSchemaError = fmt.Errorf("pack schema load: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile(url)
	})
	return compiledSchema, compileSchemaError
}

func validateJSONPack(data []byte) error {
	schema, err := compiledPackSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	return nil
}
