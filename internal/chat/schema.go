package chat

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// intentSchema bounds what the classifier may return before it is
// unmarshalled. "fields" accepts any array or scalar because models
// ignore the array instruction often enough; scalars are wrapped and
// items stringified during decoding.
const intentSchema = `{
  "type": "object",
  "required": ["intent"],
  "properties": {
    "intent": {"type": "string", "minLength": 1},
    "id": {"type": "integer"},
    "page": {"type": "integer"},
    "query": {"type": "string"},
    "city": {"type": "string"},
    "company": {"type": "string"},
    "type": {"type": "string"},
    "salary_min": {"type": "integer"},
    "salary_max": {"type": "integer"},
    "exp_min": {"type": "integer"},
    "exp_max": {"type": "integer"},
    "remote": {"type": "boolean"},
    "posted_within_days": {"type": "integer"},
    "fields": {
      "anyOf": [
        {"type": "array"},
        {"type": "string"},
        {"type": "number"},
        {"type": "boolean"},
        {"type": "null"}
      ]
    }
  }
}`

var intentSchemaLoader = gojsonschema.NewStringLoader(intentSchema)

// validateIntentJSON checks a classifier response against the intent
// schema. Any failure means classification failed, not that the
// request failed.
func validateIntentJSON(raw string) error {
	result, err := gojsonschema.Validate(intentSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("intent schema validation: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("intent does not match schema: %v", result.Errors())
	}
	return nil
}
