package export

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/studyhub/assignment-scanner/internal/entity"
)

func TestReviewXLSX(t *testing.T) {
	points := 20
	rows := []ReviewRow{
		{
			Path: "/uploads/sheet.pdf",
			Record: entity.ExtractedRecord{
				Title:          "Wave Mechanics Problem Set",
				Subject:        "Physics",
				Deadline:       "2099-05-30",
				Priority:       "low",
				SubmissionType: "assignment",
				Points:         &points,
				Confidence:     0.7,
				Method:         "heuristic",
				MissingFields:  []string{},
			},
		},
		{
			Path: "/uploads/photo.jpg",
			Record: entity.ExtractedRecord{
				Title:         "Untitled Assignment",
				Confidence:    0.42,
				Method:        "ai",
				MissingFields: []string{"subject", "deadline"},
			},
		},
	}

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	out, err := svc.ReviewXLSX(rows)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Assignments"

	get := func(cell string) string {
		v, gerr := f.GetCellValue(sheet, cell)
		require.NoError(t, gerr)
		return v
	}

	assert.Equal(t, "Title", get("A1"))
	assert.Equal(t, "Missing Fields", get("I1"))
	assert.Equal(t, "Source File", get("J1"))

	assert.Equal(t, "Wave Mechanics Problem Set", get("A2"))
	assert.Equal(t, "Physics", get("B2"))
	assert.Equal(t, "2099-05-30", get("C2"))
	assert.Equal(t, "20", get("F2"))
	assert.Equal(t, "0.70", get("G2"))
	assert.Equal(t, "heuristic", get("H2"))
	assert.Equal(t, "", get("I2"))
	assert.Equal(t, "/uploads/sheet.pdf", get("J2"))

	assert.Equal(t, "Untitled Assignment", get("A3"))
	assert.Equal(t, "", get("F3"))
	assert.Equal(t, "subject, deadline", get("I3"))
}

func TestReviewXLSXEmpty(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.ReviewXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows("Assignments")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
}
