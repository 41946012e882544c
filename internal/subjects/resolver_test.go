package subjects

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyhub/assignment-scanner/internal/entity"
)

var catalog = []entity.SubjectCatalogEntry{
	{ID: "1", Name: "Mathematics", Code: "MATH101"},
	{ID: "2", Name: "Physics", Code: "PHYS201"},
	{ID: "3", Name: "Chemistry", Code: "CHEM110"},
}

func TestResolvePrefersCatalogOverGuess(t *testing.T) {
	// Bidirectional substring: "Math" is contained in "Mathematics".
	got := Resolve("Complete exercises 1-10.", "Math", catalog)
	assert.Equal(t, "Mathematics", got)
}

func TestResolveAdoptsTopEntryWithoutGuess(t *testing.T) {
	got := Resolve("PHYS201 midterm covers chapters 3-5.", "", catalog)
	assert.Equal(t, "Physics", got)
}

func TestResolveNameInTextOutranksCode(t *testing.T) {
	text := "Chemistry lab due Friday. See MATH101 notes for formatting."
	// Name hit scores 100+len, code hit 80+len.
	got := Resolve(text, "", catalog)
	assert.Equal(t, "Chemistry", got)
}

func TestResolveKeepsGuessWhenNothingScores(t *testing.T) {
	got := Resolve("General study tips.", "Philosophy", catalog)
	assert.Equal(t, "Philosophy", got)
}

func TestResolveEmptyAllAround(t *testing.T) {
	got := Resolve("General study tips.", "", catalog)
	assert.Equal(t, "", got)
}

func TestResolveTieKeepsCatalogOrder(t *testing.T) {
	tied := []entity.SubjectCatalogEntry{
		{ID: "1", Name: "Biology"},
		{ID: "2", Name: "Zoology"},
	}
	// Both names have equal length and both appear in the text.
	got := Resolve("Biology and Zoology share a lab.", "", tied)
	assert.Equal(t, "Biology", got)
}

func TestResolveDeterministic(t *testing.T) {
	text := "Physics assignment on MATH101 material."
	first := Resolve(text, "Phys", catalog)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Resolve(text, "Phys", catalog))
	}
}

func TestIsKnown(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"exact name", "Physics", true},
		{"case insensitive", "physics", true},
		{"candidate inside name", "Math", true},
		{"name inside candidate", "Advanced Physics", true},
		{"code match", "MATH101", true},
		{"code case insensitive", "math101", true},
		{"unknown", "Philosophy", false},
		{"empty", "", false},
		{"whitespace", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsKnown(tt.candidate, catalog))
		})
	}
}

func TestIsKnownEmptyCatalog(t *testing.T) {
	assert.False(t, IsKnown("Physics", nil))
}
