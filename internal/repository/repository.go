package repository

import (
	"context"
	"database/sql"
	"time"

	"picow_telemetry/internal/models"
)

// EventRepo persists diagnostic events. Readings themselves are never stored.
type EventRepo interface {
	Append(ctx context.Context, e models.DiagnosticEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.DiagnosticEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
