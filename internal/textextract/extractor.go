package textextract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shipper-lite/backend/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// Extractor picks a strategy based on file extension: PDFs go through
// pdftotext, plain text is read directly, images carry no text layer.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("textextract.start", "path", path, "ext", ext)

	switch ext {
	case "pdf":
		return e.extractPDF(ctx, path, start)
	case "txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return Result{Duration: time.Since(start)}, fmt.Errorf("read text file: %w", err)
		}
		return Result{Text: string(b), Pages: 1, Method: "plain-text", Duration: time.Since(start)}, nil
	case "png", "jpg", "jpeg":
		// No OCR stage here; downstream treats empty text as a scanned image.
		return Result{
			Method:   "image",
			Duration: time.Since(start),
			Warnings: []string{"image input has no text layer"},
		}, nil
	default:
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string, start time.Time) (Result, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{Duration: time.Since(start), Warnings: []string{string(errb)}},
			fmt.Errorf("pdftotext: %w", err)
	}
	text := string(out)
	// A form-feed \f is used as page separator by default.
	return Result{
		Text:     text,
		Pages:    1 + strings.Count(text, "\f"),
		Method:   "pdf-text",
		Duration: time.Since(start),
	}, nil
}
