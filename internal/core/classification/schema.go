package classification

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

const departmentSchema = `{
	"type": "object",
	"required": ["department"],
	"properties": {
		"department": {"type": "string"}
	}
}`

func listSchema(key string) string {
	return `{
	"type": "object",
	"required": ["` + key + `"],
	"properties": {
		"` + key + `": {"type": "array"}
	}
}`
}

type completionSchemas struct {
	department  *jsonschema.Schema
	keyPoints   *jsonschema.Schema
	actionItems *jsonschema.Schema
}

func compileSchemas() completionSchemas {
	return completionSchemas{
		department:  jsonschema.MustCompileString("department.json", departmentSchema),
		keyPoints:   jsonschema.MustCompileString("key_points.json", listSchema(keyPointsKey)),
		actionItems: jsonschema.MustCompileString("action_items.json", listSchema(actionItemsKey)),
	}
}

// decodeValidated pulls the JSON object out of a completion, checks it
// against schema and decodes it into out.
func decodeValidated(raw string, schema *jsonschema.Schema, out any) error {
	var doc any
	if err := DecodeJSONObject(raw, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return domain.WrapError(domain.ErrMalformedCompletion, "validate completion json", err)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return domain.WrapError(domain.ErrMalformedCompletion, "re-encode completion json", err)
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		return domain.WrapError(domain.ErrMalformedCompletion, "decode completion json", err)
	}
	return nil
}
