package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/studyhub/assignment-scanner/constants"
)

// extractPDF tries the cheap, lossless text layer first. A blank text layer
// means a scanned document: rasterize page 1 and OCR it. A text-layer error
// means a damaged or unparseable file: OCR the whole document as a last
// resort before giving up.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	text, pages, layerErr := pdfTextLayer(path)
	if layerErr == nil {
		if strings.TrimSpace(text) != "" {
			return ExtractionResult{
				Text:       Normalize(text),
				Pages:      pages,
				SourceType: constants.PDF,
				Method:     "pdf-text",
				Language:   e.cfg.TesseractLang,
				Confidence: 1.0,
			}, nil
		}

		// Text layer present but empty: scanned document.
		e.logger.Info("ocr.pdf.empty_text_layer", "path", path, "pages", pages)
		res, err := e.ocrFirstPage(ctx, path)
		if err != nil {
			return ExtractionResult{SourceType: constants.PDF}, fmt.Errorf("pdf ocr fallback: %w", err)
		}
		return ExtractionResult{
			Text:       Normalize(res.Text),
			Pages:      1,
			SourceType: constants.PDF,
			Method:     "pdf-ocr",
			Language:   e.cfg.TesseractLang,
			Confidence: blendConfidence(res.Confidence, heuristicConfidence(res.Text)),
		}, nil
	}

	// Parser failure: try OCR over the original file before surfacing anything.
	e.logger.Warn("ocr.pdf.text_layer_failed", "path", path, "error", layerErr)
	text, pages, warns, ocrErr := e.ocrWholePDF(ctx, path)
	if ocrErr != nil {
		return ExtractionResult{SourceType: constants.PDF, Warnings: warns},
			fmt.Errorf("pdf extraction failed: text layer: %v; ocr: %w", layerErr, ocrErr)
	}
	return ExtractionResult{
		Text:       Normalize(text),
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: heuristicConfidence(text),
	}, nil
}

// pdfTextLayer extracts the embedded text layer page by page, concatenating
// pages with a newline separator. ledongthuc/pdf panics on some malformed
// files, so the recover maps those to ordinary errors.
func pdfTextLayer(path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var b strings.Builder
	pages = r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			return "", pages, fmt.Errorf("page %d: %w", i, perr)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), pages, nil
}

// ocrFirstPage rasterizes only page 1 at the configured DPI and runs OCR on
// it. The high DPI acts as the fixed upscale that helps tesseract accuracy.
func (e *Extractor) ocrFirstPage(ctx context.Context, path string) (RecognitionResult, error) {
	tmpDir, err := os.MkdirTemp("", "as-pp-*")
	if err != nil {
		return RecognitionResult{}, err
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f 1 -l 1 -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", "1", "-l", "1", "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("render page 1: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return RecognitionResult{}, fmt.Errorf("pdftoppm produced no image")
	}
	return e.Recognize(ctx, matches[0])
}

// ocrWholePDF rasterizes every page and OCRs them in order. Used only when
// the text-layer parser failed outright.
func (e *Extractor) ocrWholePDF(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "as-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, fmt.Errorf("rasterize pdf: %w", err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		res, rerr := e.Recognize(ctx, img)
		if rerr != nil {
			warns = append(warns, rerr.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(res.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", len(matches), warns, fmt.Errorf("ocr produced no text")
	}
	return b.String(), len(matches), warns, nil
}
