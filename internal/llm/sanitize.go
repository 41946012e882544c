package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/studyhub/assignment-scanner/internal/reconcile"
)

var (
	reFence      = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	reWhitespace = regexp.MustCompile(`\s+`)
	reDigits     = regexp.MustCompile(`\d+`)
)

// StripCodeFence removes a markdown code fence wrapping the model output, if
// present. Models occasionally fence their JSON despite instructions not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := reFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// CoerceFields validates and coerces every field of a raw model response
// independently before acceptance:
//   - text fields trimmed and whitespace-collapsed; empty -> dropped
//   - deadline kept only if ISO or re-parseable, reformatted to ISO
//   - priority/submission_type kept only as exact enum literals, else dropped
//     (defaults are applied when mapping onto the record)
//   - requirements kept only as a list of non-empty strings, else []
//   - points coerced to an integer by stripping non-digit characters
//   - confidence clamped to [0,1], defaulting to 0.5 if absent
//
// Unknown keys are removed. Returns the cleaned JSON plus the list of
// adjustments made.
func CoerceFields(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("coerce: decode: %w", err)
	}

	var adjusted []string
	drop := func(k, why string) {
		delete(m, k)
		adjusted = append(adjusted, k+"("+why+")")
	}

	// Plain text fields.
	for _, k := range []string{"title", "description", "subject", "instructions"} {
		v, ok := m[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			drop(k, "type")
			continue
		}
		s = collapseWhitespace(s)
		if s == "" {
			drop(k, "empty")
		} else {
			m[k] = s
		}
	}

	// Deadline: accept ISO or anything re-parseable, reformatted to ISO.
	if v, ok := m["deadline"]; ok {
		s, ok := v.(string)
		if !ok {
			drop("deadline", "type")
		} else if iso, ok := reconcile.NormalizeDeadline(s); ok {
			if iso != s {
				adjusted = append(adjusted, "deadline(reformatted)")
			}
			m["deadline"] = iso
		} else {
			drop("deadline", "unparseable")
		}
	}

	// Enums: only the exact literals survive.
	coerceEnum(m, "priority", []string{"high", "medium", "low"}, drop)
	coerceEnum(m, "submission_type", []string{"assignment", "tutorial", "project", "exam"}, drop)

	// Requirements: list of non-empty strings or nothing at all.
	if v, ok := m["requirements"]; ok {
		list, ok := v.([]any)
		if !ok {
			m["requirements"] = []string{}
			adjusted = append(adjusted, "requirements(type)")
		} else {
			out := make([]string, 0, len(list))
			valid := true
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					valid = false
					break
				}
				s = collapseWhitespace(s)
				if s == "" {
					valid = false
					break
				}
				out = append(out, s)
			}
			if !valid {
				m["requirements"] = []string{}
				adjusted = append(adjusted, "requirements(mixed)")
			} else {
				m["requirements"] = out
			}
		}
	}

	// Points: integer from whatever digit noise the model produced.
	if v, ok := m["points"]; ok {
		switch t := v.(type) {
		case float64:
			m["points"] = int(t)
		case string:
			if d := reDigits.FindString(t); d != "" {
				n, _ := strconv.Atoi(d)
				m["points"] = n
				adjusted = append(adjusted, "points(parsed)")
			} else {
				drop("points", "unparseable")
			}
		default:
			drop("points", "type")
		}
	}

	// Confidence: clamp into [0,1]; absent means a neutral 0.5.
	if v, ok := m["confidence"]; ok {
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) {
			m["confidence"] = 0.5
			adjusted = append(adjusted, "confidence(type)")
		} else if f < 0 {
			m["confidence"] = 0.0
			adjusted = append(adjusted, "confidence(clamped)")
		} else if f > 1 {
			m["confidence"] = 1.0
			adjusted = append(adjusted, "confidence(clamped)")
		}
	} else {
		m["confidence"] = 0.5
	}

	// Remove unknown keys (strict additionalProperties friendliness).
	allowed := map[string]struct{}{
		"title": {}, "description": {}, "deadline": {}, "subject": {},
		"priority": {}, "submission_type": {}, "instructions": {},
		"requirements": {}, "points": {}, "confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			drop(k, "unknown")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, adjusted, fmt.Errorf("coerce: encode: %w", err)
	}
	return out, adjusted, nil
}

func coerceEnum(m map[string]any, key string, allowed []string, drop func(k, why string)) {
	v, ok := m[key]
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		drop(key, "type")
		return
	}
	for _, a := range allowed {
		if s == a {
			return
		}
	}
	drop(key, "enum")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
