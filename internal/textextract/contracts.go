package textextract

import (
	"context"
	"time"
)

// TextExtractor turns a document file into plain text. Implementations stop
// at the text layer: unreadable or image-only input yields empty text, and
// the extraction core's guard clause takes it from there.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "plain-text" | "image"
	Duration time.Duration
	Warnings []string
}
