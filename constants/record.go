package constants

import "strings"

// Priority levels for an extracted record.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Submission types for an extracted record.
const (
	TypeAssignment = "assignment"
	TypeTutorial   = "tutorial"
	TypeProject    = "project"
	TypeExam       = "exam"
)

// DefaultTitle is used when no title could be extracted from the document.
const DefaultTitle = "Untitled Assignment"

// Required field names that may appear in MissingFields.
const (
	FieldSubject  = "subject"
	FieldDeadline = "deadline"
)

// Priorities holds the allowed priority values in severity order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// SubmissionTypes holds the allowed submission type values.
var SubmissionTypes = []string{TypeAssignment, TypeTutorial, TypeProject, TypeExam}

// CanonicalPriority maps a label to an allowed priority value.
// Unknown labels fall back to medium.
func CanonicalPriority(label string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	default:
		return PriorityMedium, false
	}
}

// CanonicalSubmissionType maps a label to an allowed submission type.
// Unknown labels fall back to assignment.
func CanonicalSubmissionType(label string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case TypeAssignment:
		return TypeAssignment, true
	case TypeTutorial:
		return TypeTutorial, true
	case TypeProject:
		return TypeProject, true
	case TypeExam:
		return TypeExam, true
	default:
		return TypeAssignment, false
	}
}
