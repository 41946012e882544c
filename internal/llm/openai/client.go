package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/assignment-scanner/internal/llm"
)

// ExtractFields implements llm.FieldExtractor over text-only chat/completions.
// The response is fence-stripped, coerced field by field, and validated
// against the assignment schema before it is accepted.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.AssignmentFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	if !c.Configured() {
		return llm.AssignmentFields{}, nil, fmt.Errorf("openai api key is not configured")
	}

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.Text),
		"subject_hints", len(req.SubjectHints),
	)

	schema := llm.BuildAssignmentJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(req)},
			{"role": "user", "content": llm.BuildUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, _, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.AssignmentFields{}, raw, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.AssignmentFields{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.AssignmentFields{}, raw, fmt.Errorf("no choices in openai response")
	}

	content := llm.StripCodeFence(cc.Choices[0].Message.Content)

	cleaned, adjusted, err := llm.CoerceFields([]byte(content))
	if err != nil {
		c.log.Error("llm.extract.coerce_failed",
			"req_id", rid, "error", err, "content_bytes", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.AssignmentFields{}, []byte(content), fmt.Errorf("coerce fields: %w", err)
	}
	if len(adjusted) > 0 {
		c.log.Warn("llm.extract.fields_adjusted", "req_id", rid, "adjusted", adjusted)
	}

	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.AssignmentFields{}, cleaned, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.AssignmentFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return llm.AssignmentFields{}, cleaned, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"title", out.Title,
		"deadline", out.Deadline,
		"subject", out.Subject,
		"confidence", out.ModelConfidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
