// Package subjects matches free-text subject mentions against the caller's
// catalog of known subjects, so the pipeline refines toward subjects the
// student already has instead of inventing new ones from noisy text.
package subjects

import (
	"sort"
	"strings"

	"github.com/studyhub/assignment-scanner/internal/entity"
)

// Scores awarded per kind of evidence. Longer names and codes outrank
// shorter ones when both literally appear in the document.
const (
	scoreNameInText   = 100
	scoreCodeInText   = 80
	scoreGuessOverlap = 120
)

// Resolve picks the best catalog subject for the document. It returns the
// top-scoring entry's name when any entry scores positively; otherwise the
// raw guess is passed through unchanged (possibly empty). The catalog is
// authoritative over free-text extraction, and the scoring has no
// randomness: equal scores keep catalog order.
func Resolve(text, guess string, catalog []entity.SubjectCatalogEntry) string {
	type scored struct {
		idx   int
		score int
		name  string
	}

	textLower := strings.ToLower(text)
	guessLower := strings.ToLower(strings.TrimSpace(guess))

	var candidates []scored
	for i, entry := range catalog {
		score := 0
		nameLower := strings.ToLower(entry.Name)
		codeLower := strings.ToLower(entry.Code)

		if nameLower != "" && strings.Contains(textLower, nameLower) {
			score += scoreNameInText + len(entry.Name)
		}
		if codeLower != "" && strings.Contains(textLower, codeLower) {
			score += scoreCodeInText + len(entry.Code)
		}
		if guessLower != "" && overlaps(guessLower, nameLower, codeLower) {
			score += scoreGuessOverlap
		}

		if score > 0 {
			candidates = append(candidates, scored{idx: i, score: score, name: entry.Name})
		}
	}

	if len(candidates) == 0 {
		return strings.TrimSpace(guess)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	return candidates[0].name
}

// IsKnown reports whether the candidate subject loosely matches any catalog
// entry: a bidirectional, case-insensitive substring test against each
// entry's name and code. An unknown candidate means the user should pick a
// real subject rather than the system silently creating one.
func IsKnown(candidate string, catalog []entity.SubjectCatalogEntry) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	if c == "" {
		return false
	}
	for _, entry := range catalog {
		if overlaps(c, strings.ToLower(entry.Name), strings.ToLower(entry.Code)) {
			return true
		}
	}
	return false
}

// overlaps is the bidirectional substring test against a name and a code.
func overlaps(candidate, name, code string) bool {
	if name != "" && (strings.Contains(name, candidate) || strings.Contains(candidate, name)) {
		return true
	}
	if code != "" && (strings.Contains(code, candidate) || strings.Contains(candidate, code)) {
		return true
	}
	return false
}
