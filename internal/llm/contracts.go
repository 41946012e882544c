package llm

import (
	"context"

	"github.com/studyhub/assignment-scanner/constants"
	"github.com/studyhub/assignment-scanner/internal/entity"
)

// AssignmentFields is the normalized shape we want from the model.
type AssignmentFields struct {
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Deadline        string   `json:"deadline,omitempty"` // YYYY-MM-DD after coercion
	Subject         string   `json:"subject,omitempty"`
	Priority        string   `json:"priority,omitempty"`        // high | medium | low
	SubmissionType  string   `json:"submission_type,omitempty"` // assignment | tutorial | project | exam
	Instructions    string   `json:"instructions,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	Points          *int     `json:"points,omitempty"`
	ModelConfidence float32  `json:"confidence,omitempty"` // 0..1
}

// ExtractRequest carries the document text plus caller hints.
type ExtractRequest struct {
	Text         string   // full document text; prompts truncate it
	SubjectHints []string // known subject names/codes to steer the model
	FilenameHint string
}

// FieldExtractor is the interface the pipeline depends on for Stage 2.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (AssignmentFields, []byte /*rawJSON*/, error)
}

// ToRecord maps extracted fields onto a draft record, filling enum defaults.
func (f AssignmentFields) ToRecord(method string) entity.ExtractedRecord {
	priority, _ := constants.CanonicalPriority(f.Priority)
	subType, _ := constants.CanonicalSubmissionType(f.SubmissionType)
	reqs := f.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return entity.ExtractedRecord{
		Title:          f.Title,
		Description:    f.Description,
		Deadline:       f.Deadline,
		Subject:        f.Subject,
		Priority:       priority,
		SubmissionType: subType,
		Instructions:   f.Instructions,
		Requirements:   reqs,
		Points:         f.Points,
		Confidence:     f.ModelConfidence,
		Method:         method,
	}
}
