package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/studyhub/assignment-scanner/internal/common"
	"github.com/studyhub/assignment-scanner/internal/entity"
	"github.com/studyhub/assignment-scanner/internal/extract"
	"github.com/studyhub/assignment-scanner/internal/heuristic"
	"github.com/studyhub/assignment-scanner/internal/llm"
	"github.com/studyhub/assignment-scanner/internal/llm/openai"
	"github.com/studyhub/assignment-scanner/internal/ocr"
	"github.com/studyhub/assignment-scanner/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: scanparse <document> [subjects.json]")
		os.Exit(2)
	}
	docPath := os.Args[1]

	var catalog []entity.SubjectCatalogEntry
	if len(os.Args) >= 3 {
		var err error
		catalog, err = loadCatalog(os.Args[2])
		if err != nil {
			logger.Error("load subject catalog", "path", os.Args[2], "error", err)
			os.Exit(1)
		}
	}

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	p := buildPipeline(cfg, logger)
	rec, err := p.Run(ctx, docPath, catalog)
	if err != nil {
		appErr := classify(err)
		logger.Error("extraction failed", "path", docPath, "code", appErr.Code, "error", appErr)
		if appErr.Code == common.CodeInvalidInput {
			os.Exit(2)
		}
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		logger.Error("encode record", "error", common.NewAppError(common.CodeInternal, "encode record", err))
		os.Exit(1)
	}
}

func buildPipeline(cfg *common.Config, logger *slog.Logger) *pipeline.Pipeline {
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)

	var ai llm.FieldExtractor
	if cfg.LLM.APIKey != "" {
		ai = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}

	return pipeline.New(logger, extract.NewOCRAdapter(ocrx), ai, heuristic.NewExtractor(logger))
}

// classify maps pipeline failures onto stable application error codes.
// Rejected uploads (wrong type, too big) are the caller's fault and exit
// differently from processing failures.
func classify(err error) *common.AppError {
	switch {
	case errors.Is(err, ocr.ErrUnsupportedType), errors.Is(err, ocr.ErrFileTooLarge):
		return common.NewAppError(common.CodeInvalidInput, "document rejected", err)
	default:
		return common.NewAppError(common.CodeExtraction, "could not process document", err)
	}
}

func loadCatalog(path string) ([]entity.SubjectCatalogEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var catalog []entity.SubjectCatalogEntry
	if err := json.Unmarshal(b, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
