package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/dberrors"
	"github.com/yigit/classbook/internal/pkg/logger"
)

// Constraints guarding one booking per (user, instance)
const (
	BookingPrimaryKey      = "bookings_pkey"
	BookingUserInstanceKey = "bookings_user_instance_key"
)

// BookingRepository stores bookings. Rows are insert-only.
type BookingRepository struct {
	db DBTX
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// ScanBooking scans a booking row
func ScanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var duration int32
	err := row.Scan(
		&b.ID, &b.UserID, &b.ClassInstanceID, &b.ClassName, &b.Date,
		&b.Teacher, &b.Time, &duration, &b.PricePerClass, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Duration = int(duration)
	return &b, nil
}

// ListByUser returns the user's bookings, latest occurrence first
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	sqlStr, args, err := squirrel.Select(
		"id", "user_id", "class_instance_id", "class_name", "date",
		"teacher", "time", "duration", "price_per_class", "created_at",
	).From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list bookings SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := ScanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// Create inserts the booking in a single statement and fills CreatedAt.
// A unique violation on either booking constraint is ErrAlreadyBooked.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	sqlStr, args, err := squirrel.Insert("bookings").
		Columns("id", "user_id", "class_instance_id", "class_name", "date", "teacher", "time", "duration", "price_per_class").
		Values(b.ID, b.UserID, b.ClassInstanceID, b.ClassName, b.Date, b.Teacher, b.Time, b.Duration, b.PricePerClass).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create booking SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&b.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, BookingPrimaryKey, BookingUserInstanceKey) {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyBooked, b.ID)
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}
