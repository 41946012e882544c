package llm

import (
	"strings"
)

// MaxPromptChars bounds how much document text is sent to the model, keeping
// requests inside the context budget.
const MaxPromptChars = 6000

// BuildSystemPrompt composes the system message with the field rules and the
// caller's known-subject hints.
func BuildSystemPrompt(req ExtractRequest) string {
	var subjectLine string
	if len(req.SubjectHints) > 0 {
		subjectLine = "The student already has these subjects: " + strings.Join(req.SubjectHints, ", ") + ". " +
			"If the document mentions one of them (by name or course code), use that exact subject name."
	} else {
		subjectLine = "For 'subject', use the course or subject name as written in the document."
	}

	parts := []string{
		"You are an assignment document parser. Return ONLY a JSON object that matches the provided JSON Schema.",
		"No prose, no markdown fencing.",
		"Use ISO-8601 dates (YYYY-MM-DD) for 'deadline'.",
		"'priority' must be exactly one of: high, medium, low.",
		"'submission_type' must be exactly one of: assignment, tutorial, project, exam.",
		subjectLine,
		"'requirements' is a list of the concrete deliverables or instructions, one string each.",
		"'points' is the total marks as an integer.",
		"'confidence' is your overall certainty in [0,1].",
		"Never output null. If a field is not present in the document, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the (truncated) document text plus a filename hint.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.FilenameHint); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nDocument text:\n")
	text := req.Text
	if len(text) > MaxPromptChars {
		b.WriteString(text[:MaxPromptChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
