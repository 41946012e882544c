package entity

// SubjectCatalogEntry is one subject already known to the caller. The catalog
// is supplied fresh per extraction call and never owned by the pipeline.
type SubjectCatalogEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ExtractedRecord is the pipeline's output: a structured assignment/exam
// record assembled from a single uploaded document.
type ExtractedRecord struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Deadline       string   `json:"deadline,omitempty"` // YYYY-MM-DD or empty
	Subject        string   `json:"subject,omitempty"`  // resolved subject name
	Priority       string   `json:"priority"`
	SubmissionType string   `json:"submission_type"`
	Instructions   string   `json:"instructions,omitempty"`
	Requirements   []string `json:"requirements"`
	Points         *int     `json:"points,omitempty"`
	Confidence     float32  `json:"confidence"`      // always in [0,1]
	Method         string   `json:"method"`          // "ai" | "heuristic"
	MissingFields  []string `json:"missing_fields"`  // subset of {subject, deadline}
}

// IsMissing reports whether the named field is flagged as missing.
func (r *ExtractedRecord) IsMissing(field string) bool {
	for _, f := range r.MissingFields {
		if f == field {
			return true
		}
	}
	return false
}

// FlagMissing adds the named field to MissingFields if not already present.
func (r *ExtractedRecord) FlagMissing(field string) {
	if !r.IsMissing(field) {
		r.MissingFields = append(r.MissingFields, field)
	}
}

// ClearMissing empties the MissingFields list.
func (r *ExtractedRecord) ClearMissing() {
	r.MissingFields = nil
}
