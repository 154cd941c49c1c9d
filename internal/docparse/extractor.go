package docparse

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
)

// MinReadableChars is the guard threshold: input whose trimmed length falls
// below it is treated as a scanned image with no text layer.
const MinReadableChars = 50

// ScannedImageMessage is the sentinel value carried by the "_error" field on
// the unreadable-input path.
const ScannedImageMessage = "PDF appears to be scanned image."

// Confidence weights per heuristic.
const (
	ConfInvoiceNumber float32 = 0.9
	ConfDate          float32 = 0.85
	ConfPartyName     float32 = 0.85
	ConfPartyAddress  float32 = 0.8
	ConfHSCode        float32 = 0.9
	ConfDescription   float32 = 0.8
	ConfItemCount     float32 = 0.9
	ConfTotalValue    float32 = 0.85
)

var (
	reInvoiceNoLabel = regexp.MustCompile(`(?i)Invoice\s*(?:No|Number|#)[:\s]*$`)
	reInvoiceNoRef   = regexp.MustCompile(`(?i)EXP-\d{4}-\d+`)
	reDateLabel      = regexp.MustCompile(`(?i)^Date[:\s]*$`)
	reISODate        = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	reTotalLabel     = regexp.MustCompile(`(?i)^TOTAL[:\s]*$`)
	reUSDAmount      = regexp.MustCompile(`USD\s+([\d,]+\.?\d*)`)
	reTrailingAmount = regexp.MustCompile(`([\d,]+\.\d{2})$`)
)

// Extractor recovers structured fields from normalized document text.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract runs every field heuristic over the raw text and returns the
// ordered field list. It never fails: heuristics that find nothing simply
// omit their field, and unreadable input degrades to the "_error" sentinel.
// The terminal "_document_type" entry is always present with confidence 1.0.
func (e *Extractor) Extract(text string, docType constants.DocumentType) []entity.ExtractedField {
	if len(strings.TrimSpace(text)) < MinReadableChars {
		e.logger.Warn("docparse.unreadable", "document_type", docType, "trimmed_chars", len(strings.TrimSpace(text)))
		return []entity.ExtractedField{
			{Name: entity.FieldError, Value: ScannedImageMessage, Confidence: 1.0},
			{Name: entity.FieldDocumentType, Value: string(docType), Confidence: 1.0},
		}
	}

	lines := NormalizeLines(text)
	fields := make([]entity.ExtractedField, 0, 12)
	add := func(name, value string, confidence float32) {
		if value != "" {
			fields = append(fields, entity.ExtractedField{Name: name, Value: value, Confidence: confidence})
		}
	}

	add("invoice_no", extractInvoiceNumber(lines), ConfInvoiceNumber)

	dateField := "date"
	if docType == constants.Invoice {
		dateField = "invoice_date"
	}
	add(dateField, extractDate(lines), ConfDate)

	parties := extractParties(lines)
	add("shipper_name", parties.ShipperName, ConfPartyName)
	add("shipper_address", parties.ShipperAddress, ConfPartyAddress)
	add("consignee_name", parties.ConsigneeName, ConfPartyName)
	add("consignee_address", parties.ConsigneeAddress, ConfPartyAddress)

	if docType == constants.Invoice {
		if items := extractInvoiceItems(lines); len(items) > 0 {
			add("hs_code", items[0].HSCode, ConfHSCode)
			add("product_description", items[0].Description, ConfDescription)
			add("item_count", strconv.Itoa(len(items)), ConfItemCount)
		}
		add("invoice_value", extractTotalValue(lines), ConfTotalValue)
	} else {
		if n := len(extractPackingItems(lines)); n > 0 {
			add("item_count", strconv.Itoa(n), ConfItemCount)
		}
	}

	fields = append(fields, entity.ExtractedField{Name: entity.FieldDocumentType, Value: string(docType), Confidence: 1.0})

	e.logger.Debug("docparse.extract",
		"document_type", docType, "lines", len(lines), "fields", len(fields))
	return fields
}

// extractInvoiceNumber looks for an "Invoice No/Number/#" label line and
// takes the following line as the value. Falls back to scanning for an
// EXP-dddd-d+ reference anywhere in the text.
func extractInvoiceNumber(lines []string) string {
	for i, line := range lines {
		if reInvoiceNoLabel.MatchString(line) && i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1])
		}
	}
	for _, line := range lines {
		if m := reInvoiceNoRef.FindString(line); m != "" {
			return strings.ToUpper(m)
		}
	}
	return ""
}

// extractDate takes the line after a bare "Date:" label, or the first ISO
// date appearing anywhere, whichever comes first in document order.
func extractDate(lines []string) string {
	for i, line := range lines {
		if reDateLabel.MatchString(line) && i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1])
		}
		if m := reISODate.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// extractTotalValue finds a bare "TOTAL" label and scans the next two lines
// for a USD-prefixed or trailing decimal amount, stripping thousands
// separators.
func extractTotalValue(lines []string) string {
	for i, line := range lines {
		if !reTotalLabel.MatchString(line) {
			continue
		}
		for j := i + 1; j < len(lines) && j < i+3; j++ {
			if m := reUSDAmount.FindStringSubmatch(lines[j]); m != nil {
				return strings.ReplaceAll(m[1], ",", "")
			}
			if m := reTrailingAmount.FindStringSubmatch(lines[j]); m != nil {
				return strings.ReplaceAll(m[1], ",", "")
			}
		}
	}
	return ""
}
