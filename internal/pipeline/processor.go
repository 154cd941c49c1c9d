package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/docparse"
	"github.com/shipper-lite/backend/internal/entity"
	"github.com/shipper-lite/backend/internal/report"
	"github.com/shipper-lite/backend/internal/rules"
	"github.com/shipper-lite/backend/internal/textextract"
)

// Processor runs the full check for one invoice/packing-list pair:
// text extraction, field extraction, per-document and cross-document
// validation, report assembly.
type Processor struct {
	Logger  *slog.Logger
	Text    textextract.TextExtractor
	Fields  *docparse.Extractor
	Rules   *rules.Engine
	Reports *report.Generator
}

func NewProcessor(text textextract.TextExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:  logger,
		Text:    text,
		Fields:  docparse.NewExtractor(logger),
		Rules:   rules.NewEngine(logger),
		Reports: report.NewGenerator(logger),
	}
}

// CheckResult carries everything the transport and storage layers need.
type CheckResult struct {
	InvoiceFields     []entity.ExtractedField
	PackingListFields []entity.ExtractedField
	Validations       []entity.ValidationResult
	Report            entity.ComplianceReport
}

// CheckFiles extracts text from both documents and runs CheckText. Extractor
// failures are contained at this boundary: they become empty text, which the
// field extractor's scanned-image guard turns into the "_error" sentinel.
func (p *Processor) CheckFiles(ctx context.Context, id uuid.UUID, invoicePath, packingListPath string) CheckResult {
	return p.CheckText(id, p.extractText(ctx, invoicePath), p.extractText(ctx, packingListPath))
}

func (p *Processor) extractText(ctx context.Context, path string) string {
	res, err := p.Text.Extract(ctx, path)
	if err != nil {
		p.Logger.Warn("check.textextract_failed", "path", path, "error", err)
		return ""
	}
	return res.Text
}

// CheckText runs extraction and validation over already-extracted text.
// Pure with respect to its inputs; safe for concurrent use.
func (p *Processor) CheckText(id uuid.UUID, invoiceText, packingListText string) CheckResult {
	p.Logger.Info("check.start", "document_id", id)

	invoiceFields := p.Fields.Extract(invoiceText, constants.Invoice)
	packingFields := p.Fields.Extract(packingListText, constants.PackingList)

	validations := p.Rules.Validate(invoiceFields)
	validations = append(validations, p.Rules.Validate(packingFields)...)
	validations = append(validations, p.Rules.ValidateCrossDocument(invoiceFields, packingFields)...)

	allFields := make([]entity.ExtractedField, 0, len(invoiceFields)+len(packingFields))
	allFields = append(allFields, invoiceFields...)
	allFields = append(allFields, packingFields...)

	rep := p.Reports.Generate(id, allFields, validations)

	p.Logger.Info("check.ok",
		"document_id", id,
		"invoice_fields", len(invoiceFields),
		"packing_list_fields", len(packingFields),
		"validations", len(validations),
		"overall_status", rep.OverallStatus)

	return CheckResult{
		InvoiceFields:     invoiceFields,
		PackingListFields: packingFields,
		Validations:       validations,
		Report:            rep,
	}
}
