package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/studyhub/assignment-scanner/constants"
)

// Terminal errors surfaced to the caller before or during extraction.
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit for the whole-document OCR fallback

	TessdataDir string
	PSM         int // e.g., 6 is good for a uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
}

// ExtractionResult summarizes one text-extraction run.
type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// RecognitionResult is the output of a single OCR pass over one image.
type RecognitionResult struct {
	Text       string
	Confidence float32 // 0..1, mean tesseract word confidence
	Duration   time.Duration
}

// Extractor turns an uploaded document into plain text, trying progressively
// more expensive strategies. It is a plain value meant to be constructed once
// by the host and injected into the pipeline; it holds no global state.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract validates the file and picks a strategy based on its content type.
// Validation failures are returned before any extraction work begins.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()

	format, err := e.validate(path)
	if err != nil {
		e.logger.Error("ocr.validate.rejected", "path", path, "error", err)
		return ExtractionResult{}, err
	}

	e.logger.Debug("ocr.extract.start", "path", path, "format", format)
	switch format {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		return ExtractionResult{}, fmt.Errorf("%w: %q", ErrUnsupportedType, format)
	}
}

// validate checks the size ceiling and the content-sniffed MIME type against
// the allow-list. Returns the pipeline format on success.
func (e *Extractor) validate(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}

	format := constants.MapMIMEToFormat(mt.String())
	if format == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	limit := int64(constants.MaxImageBytes)
	if format == constants.PDF {
		limit = constants.MaxPDFBytes
	}
	if st.Size() > limit {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, st.Size(), limit)
	}
	return format, nil
}
