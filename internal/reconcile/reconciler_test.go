package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/assignment-scanner/constants"
	"github.com/studyhub/assignment-scanner/internal/entity"
)

var catalog = []entity.SubjectCatalogEntry{
	{ID: "1", Name: "Mathematics", Code: "MATH101"},
	{ID: "2", Name: "Physics", Code: "PHYS201"},
}

func TestFinalizeResolvedRecord(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title:          "Lab Report",
		Deadline:       "2025-04-01",
		Subject:        "Physics",
		Priority:       constants.PriorityHigh,
		SubmissionType: constants.TypeAssignment,
		Requirements:   []string{},
		Confidence:     0.9,
	}

	NewReconciler(nil).Finalize(&rec, catalog)

	assert.Equal(t, "2025-04-01", rec.Deadline)
	assert.Equal(t, "Physics", rec.Subject)
	assert.Empty(t, rec.MissingFields)
}

func TestFinalizeIdempotent(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title:          "Lab Report",
		Deadline:       "2025-04-01",
		Subject:        "Physics",
		Priority:       constants.PriorityMedium,
		SubmissionType: constants.TypeExam,
		Requirements:   []string{"bring a calculator"},
		Confidence:     0.8,
	}

	r := NewReconciler(nil)
	r.Finalize(&rec, catalog)
	first := rec
	r.Finalize(&rec, catalog)

	assert.Equal(t, first, rec)
}

func TestFinalizeFlagsMissingDeadline(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title:   "Essay",
		Subject: "Physics",
	}

	NewReconciler(nil).Finalize(&rec, catalog)

	assert.Contains(t, rec.MissingFields, constants.FieldDeadline)
	assert.NotContains(t, rec.MissingFields, constants.FieldSubject)
	assert.Equal(t, constants.PriorityMedium, rec.Priority)
}

func TestFinalizeDropsAmbiguousDeadline(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title:    "Essay",
		Deadline: "sometime next week",
		Subject:  "Physics",
	}

	NewReconciler(nil).Finalize(&rec, catalog)

	assert.Empty(t, rec.Deadline)
	assert.Contains(t, rec.MissingFields, constants.FieldDeadline)
}

func TestFinalizeFlagsUnknownSubject(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title:    "Essay",
		Deadline: "2025-04-01",
		Subject:  "Underwater Basket Weaving",
	}

	NewReconciler(nil).Finalize(&rec, catalog)

	assert.Contains(t, rec.MissingFields, constants.FieldSubject)
	// The candidate stays on the record as a hint for the completion form.
	assert.Equal(t, "Underwater Basket Weaving", rec.Subject)
}

func TestFinalizeDefaultsAndClamping(t *testing.T) {
	rec := entity.ExtractedRecord{Confidence: 1.7}
	NewReconciler(nil).Finalize(&rec, catalog)

	assert.Equal(t, constants.DefaultTitle, rec.Title)
	assert.Equal(t, constants.PriorityMedium, rec.Priority)
	assert.Equal(t, constants.TypeAssignment, rec.SubmissionType)
	assert.NotNil(t, rec.Requirements)
	assert.Equal(t, float32(1.0), rec.Confidence)

	rec2 := entity.ExtractedRecord{Confidence: -0.2}
	NewReconciler(nil).Finalize(&rec2, catalog)
	assert.Equal(t, float32(0.0), rec2.Confidence)
}

func TestCompleteMergesOnlyFlaggedFields(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title: "Essay",
	}
	r := NewReconciler(nil)
	r.Finalize(&rec, catalog)
	require.ElementsMatch(t, []string{constants.FieldSubject, constants.FieldDeadline}, rec.MissingFields)

	r.Complete(&rec, map[string]string{
		"subject":  "Mathematics",
		"deadline": "21/3/2025",
		"title":    "should be ignored",
	})

	assert.Equal(t, "Essay", rec.Title)
	assert.Equal(t, "Mathematics", rec.Subject)
	assert.Equal(t, "2025-03-21", rec.Deadline)
	assert.Empty(t, rec.MissingFields)
}

func TestCompleteKeepsFlagOnInvalidDeadline(t *testing.T) {
	rec := entity.ExtractedRecord{Title: "Essay", Subject: "Physics"}
	r := NewReconciler(nil)
	r.Finalize(&rec, catalog)
	require.Equal(t, []string{constants.FieldDeadline}, rec.MissingFields)

	r.Complete(&rec, map[string]string{"deadline": "whenever"})

	assert.Empty(t, rec.Deadline)
	assert.Equal(t, []string{constants.FieldDeadline}, rec.MissingFields)
}

func TestCompleteOnResolvedRecordIsNoOp(t *testing.T) {
	rec := entity.ExtractedRecord{
		Title:         "Essay",
		Deadline:      "2025-04-01",
		Subject:       "Physics",
		MissingFields: []string{},
	}
	before := rec

	NewReconciler(nil).Complete(&rec, map[string]string{"deadline": "1/1/2030"})

	assert.Equal(t, before, rec)
}
