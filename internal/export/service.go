// Package export produces an XLSX review workbook from extracted records, so
// a batch of uploads can be checked and completed in one place.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/studyhub/assignment-scanner/internal/entity"
)

// ReviewRow pairs a processed file with its extracted record.
type ReviewRow struct {
	Path   string
	Record entity.ExtractedRecord
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReviewXLSX returns an XLSX workbook (as bytes) with one row per processed
// document, including the fields still missing so reviewers can close gaps.
func (s *Service) ReviewXLSX(rows []ReviewRow) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Assignments"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Title",
		"Subject",
		"Deadline",
		"Priority",
		"Type",
		"Points",
		"Confidence",
		"Method",
		"Missing Fields",
		"Source File",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowNum := 2
	for _, row := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}

		rec := row.Record
		write(1, rec.Title)
		write(2, rec.Subject)
		write(3, rec.Deadline)
		write(4, rec.Priority)
		write(5, rec.SubmissionType)
		if rec.Points != nil {
			write(6, *rec.Points)
		} else {
			write(6, "")
		}
		write(7, fmt.Sprintf("%.2f", rec.Confidence))
		write(8, rec.Method)
		write(9, strings.Join(rec.MissingFields, ", "))
		write(10, row.Path)

		rowNum++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // title
	_ = f.SetColWidth(sheet, "B", "B", 22) // subject
	_ = f.SetColWidth(sheet, "C", "E", 12) // deadline/priority/type
	_ = f.SetColWidth(sheet, "I", "I", 18) // missing
	_ = f.SetColWidth(sheet, "J", "J", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
