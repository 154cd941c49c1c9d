package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipper-lite/backend/internal/entity"
	"github.com/shipper-lite/backend/internal/textextract"
)

// stubExtractor serves canned text per path.
type stubExtractor struct {
	texts map[string]string
	err   error
}

func (s *stubExtractor) Extract(_ context.Context, path string) (textextract.Result, error) {
	if s.err != nil {
		return textextract.Result{}, s.err
	}
	return textextract.Result{Text: s.texts[path], Method: "stub"}, nil
}

const invoiceText = `
COMMERCIAL INVOICE
Invoice No:
EXP-2024-001
Date:
2024-03-15
Shipper:
Shenzhen Textile Co., Ltd.
88 Industrial Road
Shenzhen, Guangdong 518000
Consignee:
Hamburg Imports GmbH
Warehouse 7, Hafenstrasse 12
20457 Hamburg
Description
HS Code
1
Blue cotton T-shirts, size M
610910
500
2.10
2
Red cotton T-shirts, size L
610910
500
2.10
TOTAL:
USD 2,100.00
`

const packingListText = `
PACKING LIST
Invoice No:
EXP-2024-001
Date:
2024-03-15
Shipper:
Shenzhen Textile Co., Ltd.
88 Industrial Road
Shenzhen, Guangdong 518000
Consignee:
Hamburg Imports GmbH
Warehouse 7, Hafenstrasse 12
20457 Hamburg
Description
1
Blue cotton T-shirts
610910
10
500
250.00
2
Red cotton T-shirts
610910
10
500
250.00
`

func TestCheckText_CompliantPair(t *testing.T) {
	p := NewProcessor(&stubExtractor{}, nil)
	id := uuid.New()

	res := p.CheckText(id, invoiceText, packingListText)

	assert.Equal(t, id, res.Report.DocumentID)
	assert.Equal(t, entity.StatusPass, res.Report.OverallStatus, "validations: %+v", res.Validations)
	assert.NotEmpty(t, res.InvoiceFields)
	assert.NotEmpty(t, res.PackingListFields)
	assert.Len(t, res.Report.ExtractedFields, len(res.InvoiceFields)+len(res.PackingListFields))

	var crossChecks int
	for _, v := range res.Validations {
		switch v.FieldName {
		case "invoice_number_match", "item_count_match", "shipper_consistency", "consignee_consistency":
			crossChecks++
			assert.True(t, v.Passed, "%s: %s", v.FieldName, v.ErrorMessage)
		}
	}
	assert.Equal(t, 4, crossChecks)
}

func TestCheckText_MismatchedCounts(t *testing.T) {
	p := NewProcessor(&stubExtractor{}, nil)

	// drop the packing list's second item row
	shortPacking := strings.Replace(packingListText, "2\nRed cotton T-shirts\n610910\n10\n500\n250.00\n", "", 1)
	res := p.CheckText(uuid.New(), invoiceText, shortPacking)

	assert.Equal(t, entity.StatusFail, res.Report.OverallStatus)
	var found bool
	for _, v := range res.Validations {
		if v.FieldName == "item_count_match" {
			found = true
			assert.False(t, v.Passed)
			assert.Equal(t, "Item count mismatch: invoice has 2, packing list has 1", v.ErrorMessage)
		}
	}
	assert.True(t, found)
}

func TestCheckFiles(t *testing.T) {
	stub := &stubExtractor{texts: map[string]string{
		"/tmp/inv.txt":  invoiceText,
		"/tmp/pack.txt": packingListText,
	}}
	p := NewProcessor(stub, nil)

	res := p.CheckFiles(context.Background(), uuid.New(), "/tmp/inv.txt", "/tmp/pack.txt")
	assert.Equal(t, entity.StatusPass, res.Report.OverallStatus)
}

// Extraction failures degrade to the scanned-image sentinel instead of
// erroring out.
func TestCheckFiles_ExtractorFailure(t *testing.T) {
	p := NewProcessor(&stubExtractor{err: errors.New("pdftotext: not found")}, nil)

	res := p.CheckFiles(context.Background(), uuid.New(), "/tmp/inv.pdf", "/tmp/pack.pdf")

	require.NotEmpty(t, res.InvoiceFields)
	assert.Equal(t, entity.FieldError, res.InvoiceFields[0].Name)
	assert.Equal(t, "PDF appears to be scanned image.", res.InvoiceFields[0].Value)
	assert.Equal(t, entity.StatusFail, res.Report.OverallStatus)
}
