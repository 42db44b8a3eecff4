package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repositories use. pgx.Tx and
// pgxmock pools satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	ClassTemplateRepository *ClassTemplateRepository
	ClassInstanceRepository *ClassInstanceRepository
	BookingRepository       *BookingRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		ClassTemplateRepository: NewClassTemplateRepository(db),
		ClassInstanceRepository: NewClassInstanceRepository(db),
		BookingRepository:       NewBookingRepository(db),
	}
}
