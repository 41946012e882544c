package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/studyhub/assignment-scanner/constants"
	"github.com/studyhub/assignment-scanner/internal/common"
	"github.com/studyhub/assignment-scanner/internal/entity"
	"github.com/studyhub/assignment-scanner/internal/export"
	"github.com/studyhub/assignment-scanner/internal/extract"
	"github.com/studyhub/assignment-scanner/internal/heuristic"
	"github.com/studyhub/assignment-scanner/internal/llm"
	"github.com/studyhub/assignment-scanner/internal/llm/openai"
	"github.com/studyhub/assignment-scanner/internal/ocr"
	"github.com/studyhub/assignment-scanner/internal/pipeline"
)

// scan-batch walks a directory of uploaded documents, runs the extraction
// pipeline on each supported file, and writes an XLSX review workbook.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 3 {
		logger.Error("usage: scan-batch <dir> <out.xlsx> [subjects.json]")
		os.Exit(2)
	}
	dir, outPath := os.Args[1], os.Args[2]

	var catalog []entity.SubjectCatalogEntry
	if len(os.Args) >= 4 {
		b, err := os.ReadFile(os.Args[3])
		if err != nil {
			logger.Error("read subject catalog", "path", os.Args[3], "error", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(b, &catalog); err != nil {
			logger.Error("parse subject catalog", "path", os.Args[3], "error", err)
			os.Exit(1)
		}
	}

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

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

	p := pipeline.New(logger, extract.NewOCRAdapter(ocrx), ai, heuristic.NewExtractor(logger))

	var rows []export.ReviewRow
	start := time.Now()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if constants.MapExtToFormat(filepath.Ext(path)) == "" {
			return nil
		}

		rec, rerr := p.Run(ctx, path, catalog)
		if rerr != nil {
			logger.Warn("batch.file_skipped", "path", path, "error", rerr)
			return nil
		}
		rows = append(rows, export.ReviewRow{Path: path, Record: rec})
		return nil
	})
	if err != nil {
		logger.Error("walk directory", "dir", dir, "error", err)
		os.Exit(1)
	}

	xlsx, err := export.NewService(logger).ReviewXLSX(rows)
	if err != nil {
		logger.Error("build review workbook", "error", common.WrapError(err, "review workbook"))
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, xlsx, 0o644); err != nil {
		logger.Error("write workbook", "path", outPath, "error", common.WrapError(err, "write workbook"))
		os.Exit(1)
	}

	logger.Info("batch.ok",
		"files", len(rows),
		"out", outPath,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
