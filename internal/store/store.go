package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shipper-lite/backend/internal/entity"
)

// ErrNotFound is returned when no document check exists for an ID.
var ErrNotFound = errors.New("document check not found")

// DocumentStore persists document checks and their reports.
type DocumentStore interface {
	Create(ctx context.Context, check *entity.DocumentCheck) error
	Get(ctx context.Context, id uuid.UUID) (*entity.DocumentCheck, error)
	Update(ctx context.Context, check *entity.DocumentCheck) error
	Close() error
}
