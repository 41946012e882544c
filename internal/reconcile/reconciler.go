// Package reconcile normalizes the draft record's deadline, decides which
// required fields are still unresolved, and merges human-supplied values for
// exactly those fields before final acceptance.
package reconcile

import (
	"log/slog"

	"github.com/studyhub/assignment-scanner/constants"
	"github.com/studyhub/assignment-scanner/internal/entity"
	"github.com/studyhub/assignment-scanner/internal/subjects"
)

type Reconciler struct {
	log *slog.Logger
}

func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{log: logger}
}

// Finalize turns a draft record into the final output: the deadline is
// normalized or dropped, missing required fields are flagged, and the
// remaining invariants (non-empty title, clamped confidence, enum defaults)
// are enforced. Running it again on a fully resolved record is a no-op.
func (r *Reconciler) Finalize(rec *entity.ExtractedRecord, catalog []entity.SubjectCatalogEntry) {
	rec.ClearMissing()

	if rec.Title == "" {
		rec.Title = constants.DefaultTitle
	}
	if rec.Priority == "" {
		rec.Priority = constants.PriorityMedium
	}
	if rec.SubmissionType == "" {
		rec.SubmissionType = constants.TypeAssignment
	}
	if rec.Requirements == nil {
		rec.Requirements = []string{}
	}
	rec.Confidence = clamp01(rec.Confidence)

	if iso, ok := NormalizeDeadline(rec.Deadline); ok {
		rec.Deadline = iso
	} else {
		if rec.Deadline != "" {
			r.log.Debug("reconcile.deadline_dropped", "raw", rec.Deadline)
		}
		rec.Deadline = ""
		rec.FlagMissing(constants.FieldDeadline)
	}

	// A candidate subject that matches no catalog entry still needs the
	// user's confirmation; the flag routes it to the completion form.
	if !subjects.IsKnown(rec.Subject, catalog) {
		rec.FlagMissing(constants.FieldSubject)
	}

	if rec.MissingFields == nil {
		rec.MissingFields = []string{}
	}
}

// Complete merges human-supplied values for the currently flagged missing
// fields into the record and clears the flags. Fields that were not flagged
// are left untouched; nothing is re-derived.
func (r *Reconciler) Complete(rec *entity.ExtractedRecord, supplied map[string]string) {
	remaining := make([]string, 0, len(rec.MissingFields))
	for _, field := range rec.MissingFields {
		value, ok := supplied[field]
		if !ok {
			remaining = append(remaining, field)
			continue
		}
		switch field {
		case constants.FieldSubject:
			rec.Subject = value
		case constants.FieldDeadline:
			if iso, ok := NormalizeDeadline(value); ok {
				rec.Deadline = iso
			} else {
				// Still not a usable date; keep it flagged rather than
				// storing an ambiguous string.
				r.log.Warn("reconcile.completion_deadline_invalid", "raw", value)
				remaining = append(remaining, field)
			}
		}
	}
	rec.MissingFields = remaining
	if rec.MissingFields == nil {
		rec.MissingFields = []string{}
	}
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
