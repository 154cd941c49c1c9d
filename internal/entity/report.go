package entity

import (
	"time"

	"github.com/google/uuid"
)

// Overall report status values.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// ComplianceReport is the full outcome of checking a document pair.
type ComplianceReport struct {
	DocumentID      uuid.UUID          `json:"document_id"`
	OverallStatus   string             `json:"overall_status"`
	CreatedAt       time.Time          `json:"created_at"`
	ExtractedFields []ExtractedField   `json:"extracted_fields"`
	Validations     []ValidationResult `json:"validations"`
	FixInstructions []string           `json:"fix_instructions"`
}
