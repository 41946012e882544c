package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coerceToMap(t *testing.T, in string) map[string]any {
	t.Helper()
	out, _, err := CoerceFields([]byte(in))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"title":"x"}`, `{"title":"x"}`},
		{"json fence", "```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"bare fence", "```\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"fence with padding", "  ```json\n{}\n```  ", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestCoerceTextFields(t *testing.T) {
	m := coerceToMap(t, `{"title":"  Lab   Report ","subject":"   ","description":"line one\n\nline two"}`)

	assert.Equal(t, "Lab Report", m["title"])
	assert.NotContains(t, m, "subject")
	assert.Equal(t, "line one line two", m["description"])
}

func TestCoerceDeadline(t *testing.T) {
	m := coerceToMap(t, `{"deadline":"21/3/2025"}`)
	assert.Equal(t, "2025-03-21", m["deadline"])

	m = coerceToMap(t, `{"deadline":"2025-04-01"}`)
	assert.Equal(t, "2025-04-01", m["deadline"])

	m = coerceToMap(t, `{"deadline":"soonish"}`)
	assert.NotContains(t, m, "deadline")

	m = coerceToMap(t, `{"deadline":42}`)
	assert.NotContains(t, m, "deadline")
}

func TestCoerceEnums(t *testing.T) {
	m := coerceToMap(t, `{"priority":"high","submission_type":"exam"}`)
	assert.Equal(t, "high", m["priority"])
	assert.Equal(t, "exam", m["submission_type"])

	m = coerceToMap(t, `{"priority":"URGENT","submission_type":"quiz"}`)
	assert.NotContains(t, m, "priority")
	assert.NotContains(t, m, "submission_type")
}

func TestCoerceRequirements(t *testing.T) {
	m := coerceToMap(t, `{"requirements":["  one ","two"]}`)
	assert.Equal(t, []any{"one", "two"}, m["requirements"])

	// Mixed content collapses to an empty list.
	m = coerceToMap(t, `{"requirements":["one",2,"three"]}`)
	assert.Equal(t, []any{}, m["requirements"])

	m = coerceToMap(t, `{"requirements":"do the thing"}`)
	assert.Equal(t, []any{}, m["requirements"])
}

func TestCoercePoints(t *testing.T) {
	m := coerceToMap(t, `{"points":25}`)
	assert.Equal(t, float64(25), m["points"])

	m = coerceToMap(t, `{"points":"20 points"}`)
	assert.Equal(t, float64(20), m["points"])

	m = coerceToMap(t, `{"points":"a lot"}`)
	assert.NotContains(t, m, "points")
}

func TestCoerceConfidence(t *testing.T) {
	m := coerceToMap(t, `{"confidence":0.85}`)
	assert.Equal(t, 0.85, m["confidence"])

	m = coerceToMap(t, `{"confidence":7}`)
	assert.Equal(t, float64(1), m["confidence"])

	m = coerceToMap(t, `{"confidence":-1}`)
	assert.Equal(t, float64(0), m["confidence"])

	m = coerceToMap(t, `{}`)
	assert.Equal(t, 0.5, m["confidence"])
}

func TestCoerceRemovesUnknownKeys(t *testing.T) {
	m := coerceToMap(t, `{"title":"x","reasoning":"because","extra":1}`)
	assert.NotContains(t, m, "reasoning")
	assert.NotContains(t, m, "extra")
}

func TestCoerceRejectsNonJSON(t *testing.T) {
	_, _, err := CoerceFields([]byte("I could not find any assignment details."))
	assert.Error(t, err)
}

func TestCoercedOutputValidatesAgainstSchema(t *testing.T) {
	schema := BuildAssignmentJSONSchema()

	inputs := []string{
		`{"title":"Lab Report","deadline":"21/3/2025","priority":"bogus","points":"10 pts","requirements":["a",1]}`,
		`{"unknown":"x"}`,
		`{"title":"  ","confidence":99}`,
	}
	for _, in := range inputs {
		cleaned, _, err := CoerceFields([]byte(in))
		require.NoError(t, err, "input %s", in)
		assert.NoError(t, ValidateJSONAgainstSchema(schema, cleaned), "input %s", in)
	}
}

func TestSchemaRejectsBadShapes(t *testing.T) {
	schema := BuildAssignmentJSONSchema()

	bad := []string{
		`{"deadline":"tomorrow"}`,
		`{"priority":"urgent"}`,
		`{"points":"ten"}`,
		`{"confidence":2}`,
		`{"someting_else":true}`,
	}
	for _, in := range bad {
		assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(in)), "input %s", in)
	}
}

func TestToRecordAppliesDefaults(t *testing.T) {
	rec := AssignmentFields{Title: "X", ModelConfidence: 0.9}.ToRecord("ai")

	assert.Equal(t, "medium", rec.Priority)
	assert.Equal(t, "assignment", rec.SubmissionType)
	assert.Equal(t, []string{}, rec.Requirements)
	assert.Equal(t, "ai", rec.Method)
	assert.Equal(t, float32(0.9), rec.Confidence)
}
