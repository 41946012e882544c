// Package pipeline orchestrates one extraction call: file -> text ->
// structured draft -> subject resolution -> reconciled record. Each call is
// independent; the only shared resource is the injected text extractor.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/assignment-scanner/internal/entity"
	"github.com/studyhub/assignment-scanner/internal/extract"
	"github.com/studyhub/assignment-scanner/internal/llm"
	"github.com/studyhub/assignment-scanner/internal/reconcile"
	"github.com/studyhub/assignment-scanner/internal/subjects"
)

// Extraction methods recorded on the output so callers and tests can tell
// the AI path from the local fallback unambiguously.
const (
	MethodAI        = "ai"
	MethodHeuristic = "heuristic"
)

type Pipeline struct {
	Logger     *slog.Logger
	Text       extract.TextExtractor
	AI         llm.FieldExtractor // may be nil: no credential configured
	Fallback   llm.FieldExtractor // deterministic local extractor
	Reconciler *reconcile.Reconciler
}

func New(logger *slog.Logger, text extract.TextExtractor, ai, fallback llm.FieldExtractor) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Logger:     logger,
		Text:       text,
		AI:         ai,
		Fallback:   fallback,
		Reconciler: reconcile.NewReconciler(logger),
	}
}

// Run executes the full document intelligence pipeline for one upload.
// Text-extraction failures are terminal; AI-extraction failures are absorbed
// and routed to the fallback so the user always gets something to review.
func (p *Pipeline) Run(ctx context.Context, path string, catalog []entity.SubjectCatalogEntry) (entity.ExtractedRecord, error) {
	rid := uuid.New().String()
	start := time.Now()

	textRes, err := p.Text.Extract(ctx, path)
	if err != nil {
		p.Logger.Error("pipeline.extract_text.failed", "req_id", rid, "path", path, "error", err)
		return entity.ExtractedRecord{}, fmt.Errorf("extract text: %w", err)
	}
	p.Logger.Info("pipeline.extract_text.ok",
		"req_id", rid,
		"method", textRes.Method,
		"pages", textRes.Pages,
		"bytes", len(textRes.Text),
		"confidence", textRes.Confidence,
	)

	req := llm.ExtractRequest{
		Text:         textRes.Text,
		SubjectHints: subjectHints(catalog),
		FilenameHint: filepath.Base(path),
	}

	fields, method := p.extractFields(ctx, rid, req)
	rec := fields.ToRecord(method)

	rec.Subject = subjects.Resolve(textRes.Text, rec.Subject, catalog)
	p.Reconciler.Finalize(&rec, catalog)

	p.Logger.Info("pipeline.run.ok",
		"req_id", rid,
		"method", rec.Method,
		"title", rec.Title,
		"subject", rec.Subject,
		"deadline", rec.Deadline,
		"missing", rec.MissingFields,
		"confidence", rec.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// Complete re-enters the reconciler with user-supplied values for the
// flagged missing fields and returns the updated record.
func (p *Pipeline) Complete(rec entity.ExtractedRecord, supplied map[string]string) entity.ExtractedRecord {
	p.Reconciler.Complete(&rec, supplied)
	return rec
}

// extractFields tries the AI extractor first and silently falls back to the
// deterministic path when the model is unavailable, errors, or returns an
// unusable response.
func (p *Pipeline) extractFields(ctx context.Context, rid string, req llm.ExtractRequest) (llm.AssignmentFields, string) {
	if p.AI != nil {
		fields, _, err := p.AI.ExtractFields(ctx, req)
		if err == nil {
			return fields, MethodAI
		}
		p.Logger.Warn("pipeline.ai_extract.fallback", "req_id", rid, "error", err)
	}

	fields, _, err := p.Fallback.ExtractFields(ctx, req)
	if err != nil {
		// The heuristic path cannot fail today; guard anyway.
		p.Logger.Error("pipeline.heuristic_extract.failed", "req_id", rid, "error", err)
		return llm.AssignmentFields{}, MethodHeuristic
	}
	return fields, MethodHeuristic
}

// subjectHints flattens the catalog into name/code strings for the prompt.
func subjectHints(catalog []entity.SubjectCatalogEntry) []string {
	hints := make([]string, 0, len(catalog))
	for _, s := range catalog {
		h := s.Name
		if s.Code != "" {
			h += " (" + s.Code + ")"
		}
		hints = append(hints, h)
	}
	return hints
}
