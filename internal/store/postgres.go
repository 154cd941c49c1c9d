package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
)

// PostgresConfig holds pool settings for the Postgres-backed store.
type PostgresConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS document_checks (
	id                    UUID PRIMARY KEY,
	status                TEXT NOT NULL,
	invoice_filename      TEXT NOT NULL DEFAULT '',
	packing_list_filename TEXT NOT NULL DEFAULT '',
	invoice_fields        JSONB,
	packing_list_fields   JSONB,
	report                JSONB,
	error_message         TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists document checks in Postgres via a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates the pool, pings it, and ensures the schema exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "dsn", cfg.DSN)

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "shipper-lite"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// HealthCheck pings the pool, bounded by timeout when non-zero.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Create(ctx context.Context, check *entity.DocumentCheck) error {
	now := time.Now().UTC()
	check.CreatedAt = now
	check.UpdatedAt = now

	invoiceFields, packingFields, report, err := marshalCheck(check)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO document_checks
			(id, status, invoice_filename, packing_list_filename,
			 invoice_fields, packing_list_fields, report, error_message,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		check.ID, string(check.Status),
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

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*entity.DocumentCheck, error) {
	var (
		check                                entity.DocumentCheck
		status                               string
		invoiceFields, packingFields, report []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, status, invoice_filename, packing_list_filename,
		       invoice_fields, packing_list_fields, report, error_message,
		       created_at, updated_at
		FROM document_checks WHERE id = $1`, id).
		Scan(&check.ID, &status, &check.InvoiceFilename, &check.PackingListFilename,
			&invoiceFields, &packingFields, &report, &check.ErrorMessage,
			&check.CreatedAt, &check.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document check: %w", err)
	}

	check.Status = constants.ProcessingStatus(status)
	if len(invoiceFields) > 0 {
		if err := json.Unmarshal(invoiceFields, &check.InvoiceFields); err != nil {
			return nil, fmt.Errorf("unmarshal invoice fields: %w", err)
		}
	}
	if len(packingFields) > 0 {
		if err := json.Unmarshal(packingFields, &check.PackingListFields); err != nil {
			return nil, fmt.Errorf("unmarshal packing list fields: %w", err)
		}
	}
	if len(report) > 0 {
		check.Report = &entity.ComplianceReport{}
		if err := json.Unmarshal(report, check.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
	}
	return &check, nil
}

func (s *PostgresStore) Update(ctx context.Context, check *entity.DocumentCheck) error {
	check.UpdatedAt = time.Now().UTC()

	invoiceFields, packingFields, report, err := marshalCheck(check)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE document_checks
		SET status = $1, invoice_fields = $2, packing_list_fields = $3,
		    report = $4, error_message = $5, updated_at = $6
		WHERE id = $7`,
		string(check.Status), invoiceFields, packingFields,
		report, check.ErrorMessage, check.UpdatedAt, check.ID,
	)
	if err != nil {
		return fmt.Errorf("update document check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
