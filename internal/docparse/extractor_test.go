package docparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
)

const sampleInvoiceText = `
COMMERCIAL INVOICE
Invoice No:
EXP-2024-001
Date:
2024-03-15
Shipper:
Shenzhen Textile Co., Ltd.
88 Industrial Road
Shenzhen, Guangdong 518000
China
Consignee:
Hamburg Imports GmbH
Warehouse 7, Hafenstrasse 12
20457 Hamburg
Germany
Item
No.
Description
HS Code
Qty
Unit Price
Amount
1
Blue cotton T-shirts, size M
610910
500
2.10
1050.00
2
Red cotton T-shirts, size L
610910
500
2.10
1050.00
TOTAL:
USD 2,100.00
`

func fieldByName(t *testing.T, fields []entity.ExtractedField, name string) entity.ExtractedField {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in %v", name, fields)
	return entity.ExtractedField{}
}

func hasField(fields []entity.ExtractedField, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func TestExtract_ScannedImageGuard(t *testing.T) {
	e := NewExtractor(nil)

	for _, text := range []string{"", "   \n \n", "INVOICE\nshort"} {
		fields := e.Extract(text, constants.Invoice)
		require.Len(t, fields, 2, "text %q", text)
		assert.Equal(t, entity.FieldError, fields[0].Name)
		assert.Equal(t, ScannedImageMessage, fields[0].Value)
		assert.Equal(t, float32(1.0), fields[0].Confidence)
		assert.Equal(t, entity.FieldDocumentType, fields[1].Name)
		assert.Equal(t, "invoice", fields[1].Value)
	}
}

func TestExtract_Invoice(t *testing.T) {
	e := NewExtractor(nil)
	fields := e.Extract(sampleInvoiceText, constants.Invoice)

	assert.Equal(t, "EXP-2024-001", fieldByName(t, fields, "invoice_no").Value)
	assert.Equal(t, "2024-03-15", fieldByName(t, fields, "invoice_date").Value)
	assert.Equal(t, "Shenzhen Textile Co., Ltd.", fieldByName(t, fields, "shipper_name").Value)
	assert.Equal(t, "88 Industrial Road, Shenzhen, Guangdong 518000, China",
		fieldByName(t, fields, "shipper_address").Value)
	assert.Equal(t, "Hamburg Imports GmbH", fieldByName(t, fields, "consignee_name").Value)
	assert.Equal(t, "Warehouse 7, Hafenstrasse 12, 20457 Hamburg, Germany",
		fieldByName(t, fields, "consignee_address").Value)
	assert.Equal(t, "610910", fieldByName(t, fields, "hs_code").Value)
	assert.Equal(t, "Blue cotton T-shirts, size M", fieldByName(t, fields, "product_description").Value)
	assert.Equal(t, "2", fieldByName(t, fields, "item_count").Value)
	assert.Equal(t, "2100.00", fieldByName(t, fields, "invoice_value").Value)

	// terminal document type tag
	last := fields[len(fields)-1]
	assert.Equal(t, entity.FieldDocumentType, last.Name)
	assert.Equal(t, "invoice", last.Value)
	assert.Equal(t, float32(1.0), last.Confidence)
}

// Every extracted field has a confidence in [0,1] and a non-empty value;
// absent fields are omitted, never emitted empty.
func TestExtract_FieldInvariants(t *testing.T) {
	e := NewExtractor(nil)
	texts := []string{sampleInvoiceText, "just some long enough but meaningless document text body"}

	for _, text := range texts {
		for _, dt := range []constants.DocumentType{constants.Invoice, constants.PackingList} {
			for _, f := range e.Extract(text, dt) {
				assert.NotEmpty(t, f.Value, "field %s", f.Name)
				assert.GreaterOrEqual(t, f.Confidence, float32(0))
				assert.LessOrEqual(t, f.Confidence, float32(1))
			}
		}
	}
}

func TestExtract_PackingListDateFieldName(t *testing.T) {
	text := `
PACKING LIST
Date:
2024-03-16
Some filler content to clear the readable-length threshold easily.
`
	e := NewExtractor(nil)
	fields := e.Extract(text, constants.PackingList)

	assert.Equal(t, "2024-03-16", fieldByName(t, fields, "date").Value)
	assert.False(t, hasField(fields, "invoice_date"))
	assert.False(t, hasField(fields, "invoice_value"), "total extraction is invoice-only")
}

func TestExtractInvoiceNumber(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "label then value",
			lines: []string{"Invoice Number:", "INV-778"},
			want:  "INV-778",
		},
		{
			name:  "hash label",
			lines: []string{"Invoice #", "A-1"},
			want:  "A-1",
		},
		{
			name:  "label with trailing text does not match",
			lines: []string{"Invoice No: INV-778 (copy)", "next"},
			want:  "",
		},
		{
			name:  "exp reference fallback uppercased",
			lines: []string{"ref exp-2024-17 on file"},
			want:  "EXP-2024-17",
		},
		{
			name:  "label on final line falls back",
			lines: []string{"exp-2024-9", "Invoice No:"},
			want:  "EXP-2024-9",
		},
		{
			name:  "nothing found",
			lines: []string{"no numbers here"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractInvoiceNumber(tt.lines); got != tt.want {
				t.Errorf("extractInvoiceNumber(%v) = %q, want %q", tt.lines, got, tt.want)
			}
		})
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"label then value", []string{"Date:", "March 15, 2024"}, "March 15, 2024"},
		{"iso scan", []string{"Issued", "on 2024-03-15 in Shenzhen"}, "2024-03-15"},
		{"first hit in document order wins", []string{"2023-12-31 carryover", "Date:", "2024-01-01"}, "2023-12-31"},
		{"none", []string{"no date here"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDate(tt.lines); got != tt.want {
				t.Errorf("extractDate(%v) = %q, want %q", tt.lines, got, tt.want)
			}
		})
	}
}

func TestExtractTotalValue(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"usd amount", []string{"TOTAL:", "USD 12,500.00"}, "12500.00"},
		{"trailing decimal", []string{"TOTAL", "items", "9,876.54"}, "9876.54"},
		{"window is two lines", []string{"TOTAL:", "x", "y", "1,000.00"}, ""},
		{"label with trailing text ignored", []string{"TOTAL DUE", "USD 5.00"}, ""},
		{"no label", []string{"USD 5.00"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTotalValue(tt.lines); got != tt.want {
				t.Errorf("extractTotalValue(%v) = %q, want %q", tt.lines, got, tt.want)
			}
		})
	}
}

func TestMinReadableChars(t *testing.T) {
	// 50 trimmed characters is the readable threshold; one below is not.
	e := NewExtractor(nil)

	atThreshold := strings.Repeat("a", MinReadableChars)
	fields := e.Extract(atThreshold, constants.Invoice)
	assert.False(t, hasField(fields, entity.FieldError))

	belowThreshold := strings.Repeat("a", MinReadableChars-1)
	fields = e.Extract(belowThreshold, constants.Invoice)
	assert.True(t, hasField(fields, entity.FieldError))
}
