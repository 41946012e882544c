package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/studyhub/assignment-scanner/constants"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	res, err := e.Recognize(ctx, path)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE}, err
	}

	return ExtractionResult{
		Text:       Normalize(res.Text),
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Confidence: blendConfidence(res.Confidence, heuristicConfidence(res.Text)),
	}, nil
}

// Recognize runs a single OCR pass over one image file. The confidence is
// tesseract's mean word confidence rescaled from its native 0-100 range.
// Failures carry a user-actionable hint.
func (e *Extractor) Recognize(ctx context.Context, path string) (RecognitionResult, error) {
	start := time.Now()

	txt, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("%w; try again with a clearer image", err)
	}

	conf, cerr := e.tesseractTSVConfidence(ctx, path)
	if cerr != nil {
		e.logger.Warn("ocr.recognize.confidence_unavailable", "path", path, "error", cerr)
		conf = 0
	}

	return RecognitionResult{
		Text:       txt,
		Confidence: conf,
		Duration:   time.Since(start),
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}

	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns the mean word
// confidence in 0..1.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string) (float32, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	// conf column is the last; header line includes "conf"
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-1]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, perr := strconv.ParseFloat(confStr, 64); perr == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	mean := sum / n // 0..100
	return float32(mean / 100.0), nil
}

// blendConfidence weights the engine's own score higher when it is available.
func blendConfidence(ocrConf, heurConf float32) float32 {
	var conf float32
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	} else {
		conf = heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
