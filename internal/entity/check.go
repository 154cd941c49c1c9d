package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipper-lite/backend/constants"
)

// DocumentCheck represents one uploaded invoice/packing-list pair and its
// processing outcome, for data transfer between layers.
type DocumentCheck struct {
	ID                  uuid.UUID                  `json:"id"`
	Status              constants.ProcessingStatus `json:"status"`
	InvoiceFilename     string                     `json:"invoice_filename"`
	PackingListFilename string                     `json:"packing_list_filename"`
	InvoiceFields       []ExtractedField           `json:"invoice_fields,omitempty"`
	PackingListFields   []ExtractedField           `json:"packing_list_fields,omitempty"`
	Report              *ComplianceReport          `json:"report,omitempty"`
	ErrorMessage        string                     `json:"error_message,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}
