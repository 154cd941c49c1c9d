package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS document_checks (
	id                    TEXT PRIMARY KEY,
	status                TEXT NOT NULL,
	invoice_filename      TEXT NOT NULL DEFAULT '',
	packing_list_filename TEXT NOT NULL DEFAULT '',
	invoice_fields        TEXT,
	packing_list_fields   TEXT,
	report                TEXT,
	error_message         TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMP NOT NULL,
	updated_at            TIMESTAMP NOT NULL
);
`

// SQLiteStore persists document checks in a local SQLite database. Field
// lists and reports are stored as JSON columns.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, check *entity.DocumentCheck) error {
	now := time.Now().UTC()
	check.CreatedAt = now
	check.UpdatedAt = now

	invoiceFields, packingFields, report, err := marshalCheck(check)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO document_checks
			(id, status, invoice_filename, packing_list_filename,
			 invoice_fields, packing_list_fields, report, error_message,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		check.ID.String(), string(check.Status),
		check.InvoiceFilename, check.PackingListFilename,
		invoiceFields, packingFields, report, check.ErrorMessage,
		check.CreatedAt, check.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("document_check insert failed", "id", check.ID, "error", err)
		return fmt.Errorf("insert document check: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*entity.DocumentCheck, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, invoice_filename, packing_list_filename,
		       invoice_fields, packing_list_fields, report, error_message,
		       created_at, updated_at
		FROM document_checks WHERE id = ?`, id.String())

	var (
		check                                entity.DocumentCheck
		idStr, status                        string
		invoiceFields, packingFields, report sql.NullString
	)
	err := row.Scan(&idStr, &status, &check.InvoiceFilename, &check.PackingListFilename,
		&invoiceFields, &packingFields, &report, &check.ErrorMessage,
		&check.CreatedAt, &check.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document check: %w", err)
	}

	if check.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse stored id: %w", err)
	}
	check.Status = constants.ProcessingStatus(status)
	if err := unmarshalCheck(&check, invoiceFields.String, packingFields.String, report.String); err != nil {
		return nil, err
	}
	return &check, nil
}

func (s *SQLiteStore) Update(ctx context.Context, check *entity.DocumentCheck) error {
	check.UpdatedAt = time.Now().UTC()

	invoiceFields, packingFields, report, err := marshalCheck(check)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE document_checks
		SET status = ?, invoice_fields = ?, packing_list_fields = ?,
		    report = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		string(check.Status), invoiceFields, packingFields,
		report, check.ErrorMessage, check.UpdatedAt, check.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update document check: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func marshalCheck(check *entity.DocumentCheck) (invoiceFields, packingFields, report []byte, err error) {
	if invoiceFields, err = json.Marshal(check.InvoiceFields); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal invoice fields: %w", err)
	}
	if packingFields, err = json.Marshal(check.PackingListFields); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal packing list fields: %w", err)
	}
	if check.Report != nil {
		if report, err = json.Marshal(check.Report); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal report: %w", err)
		}
	}
	return invoiceFields, packingFields, report, nil
}

func unmarshalCheck(check *entity.DocumentCheck, invoiceFields, packingFields, report string) error {
	if invoiceFields != "" {
		if err := json.Unmarshal([]byte(invoiceFields), &check.InvoiceFields); err != nil {
			return fmt.Errorf("unmarshal invoice fields: %w", err)
		}
	}
	if packingFields != "" {
		if err := json.Unmarshal([]byte(packingFields), &check.PackingListFields); err != nil {
			return fmt.Errorf("unmarshal packing list fields: %w", err)
		}
	}
	if report != "" {
		check.Report = &entity.ComplianceReport{}
		if err := json.Unmarshal([]byte(report), check.Report); err != nil {
			return fmt.Errorf("unmarshal report: %w", err)
		}
	}
	return nil
}
