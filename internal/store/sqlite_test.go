package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "checks.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	check := &entity.DocumentCheck{
		ID:                  uuid.New(),
		Status:              constants.StatusProcessing,
		InvoiceFilename:     "invoice.pdf",
		PackingListFilename: "packing.pdf",
	}
	require.NoError(t, s.Create(ctx, check))

	got, err := s.Get(ctx, check.ID)
	require.NoError(t, err)
	assert.Equal(t, check.ID, got.ID)
	assert.Equal(t, constants.StatusProcessing, got.Status)
	assert.Equal(t, "invoice.pdf", got.InvoiceFilename)
	assert.Equal(t, "packing.pdf", got.PackingListFilename)
	assert.Nil(t, got.Report)

	check.Status = constants.StatusCompleted
	check.InvoiceFields = []entity.ExtractedField{
		{Name: "invoice_no", Value: "EXP-2024-001", Confidence: 0.9},
	}
	check.Report = &entity.ComplianceReport{
		DocumentID:    check.ID,
		OverallStatus: entity.StatusFail,
		CreatedAt:     time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Validations: []entity.ValidationResult{
			{FieldName: "hs_code", Passed: false, ErrorMessage: "HS code missing or invalid (must be 6-10 digits)"},
		},
		FixInstructions: []string{"• hs_code: 请在发票和装箱单上添加6-10位的HS编码"},
	}
	require.NoError(t, s.Update(ctx, check))

	got, err = s.Get(ctx, check.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, got.Status)
	require.Len(t, got.InvoiceFields, 1)
	assert.Equal(t, "invoice_no", got.InvoiceFields[0].Name)
	require.NotNil(t, got.Report)
	assert.Equal(t, entity.StatusFail, got.Report.OverallStatus)
	require.Len(t, got.Report.Validations, 1)
	assert.Equal(t, "hs_code", got.Report.Validations[0].FieldName)
	assert.Equal(t, []string{"• hs_code: 请在发票和装箱单上添加6-10位的HS编码"}, got.Report.FixInstructions)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	_, err := s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(ctx, &entity.DocumentCheck{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ErrorMessageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	check := &entity.DocumentCheck{
		ID:           uuid.New(),
		Status:       constants.StatusFailed,
		ErrorMessage: "unsupported file extension",
	}
	require.NoError(t, s.Create(ctx, check))

	got, err := s.Get(ctx, check.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusFailed, got.Status)
	assert.Equal(t, "unsupported file extension", got.ErrorMessage)
}
