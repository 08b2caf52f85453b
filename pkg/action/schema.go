package action

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema describes the structure of Request.Data. Required fields are
// checked after decoding so they yield specific errors.
const payloadSchema = `{
	"type": "object",
	"properties": {
		"actionRunId": {"type": ["string", "null"]},
		"idList": {
			"type": ["array", "null"],
			"items": {"type": "string"}
		},
		"userLocale": {"type": ["string", "null"]}
	},
	"additionalProperties": true
}`

func compilePayloadSchema() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(payloadSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile payload schema: %w", err)
	}

	return schema, nil
}

// validateStructure checks data against the payload schema. A non-JSON
// document is reported as an error, never a panic.
func validateStructure(schema *gojsonschema.Schema, data string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}

		return fmt.Errorf("schema validation failed: %s", strings.Join(violations, "; "))
	}

	return nil
}
