package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shipper-lite/backend/internal/entity"
)

// fixInstructions maps a failing validation field to operator guidance, in
// Chinese for the exporter-facing report. Failing fields absent from the map
// simply produce no instruction line. Process-wide static configuration; do
// not mutate.
var fixInstructions = map[string]string{
	"hs_code":             "请在发票和装箱单上添加6-10位的HS编码",
	"invoice_value":       "请填写发票总金额及币种（如：USD 10,000）",
	"shipper_name":        "请填写完整的发货人（出口商）名称",
	"consignee_name":      "请填写完整的收货人（进口商）名称",
	"consignee_address":   "请填写完整的收货人地址，包括城市、国家和邮编",
	"product_description": "请提供更详细的产品描述，避免使用\"goods\"、\"products\"等笼统词汇",
	"invoice_date":        "请填写发票日期",
	"item_count_mismatch": "请核对发票和装箱单的品项数量是否一致",
}

// Generator assembles compliance reports from extraction and validation
// output.
type Generator struct {
	logger *slog.Logger
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate computes the overall status (fail if any validation failed) and
// the fix-instruction list for the failing fields.
func (g *Generator) Generate(documentID uuid.UUID, fields []entity.ExtractedField, validations []entity.ValidationResult) entity.ComplianceReport {
	failed := 0
	instructions := make([]string, 0, len(validations))
	for _, v := range validations {
		if v.Passed {
			continue
		}
		failed++
		if text, ok := fixInstructions[v.FieldName]; ok {
			instructions = append(instructions, fmt.Sprintf("• %s: %s", v.FieldName, text))
		}
	}

	status := entity.StatusPass
	if failed > 0 {
		status = entity.StatusFail
	}

	g.logger.Info("report.generate",
		"document_id", documentID, "validations", len(validations),
		"failed", failed, "overall_status", status)

	return entity.ComplianceReport{
		DocumentID:      documentID,
		OverallStatus:   status,
		CreatedAt:       time.Now().UTC(),
		ExtractedFields: fields,
		Validations:     validations,
		FixInstructions: instructions,
	}
}
