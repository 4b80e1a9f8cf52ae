package repository

import (
	"context"
	"database/sql"
	"time"

	"cup_controller/internal/models"
)

// EventRepo is the append-only audit log of commands and cycle transitions.
type EventRepo interface {
	Append(ctx context.Context, e models.CupEvent) error
	List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.CupEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
