package llm

import (
	"github.com/studyhub/assignment-scanner/constants"
)

// BuildAssignmentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass it to the model as a structured output constraint and
// also use it locally to validate the (coerced) response.
func BuildAssignmentJSONSchema() map[string]any {
	props := map[string]any{
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"deadline":    map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"subject":     map[string]any{"type": "string", "minLength": 1},
		"priority": map[string]any{
			"type": "string",
			"enum": constants.Priorities,
		},
		"submission_type": map[string]any{
			"type": "string",
			"enum": constants.SubmissionTypes,
		},
		"instructions": map[string]any{"type": "string"},
		"requirements": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"points":     map[string]any{"type": "integer", "minimum": 0},
		"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{},
	}
}
