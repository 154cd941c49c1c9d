package constants

import "strings"

// AllowedContentTypes holds the accepted upload MIME types. Images are
// accepted at the boundary but yield no text layer, so they fall through to
// the scanned-image path during extraction.
var AllowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"text/plain":      {},
}

// AllowedExtensions holds the file extensions the text extractor recognizes.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
