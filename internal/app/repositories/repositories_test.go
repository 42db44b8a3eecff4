package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
)

func text(s string) pgtype.Text      { return pgtype.Text{String: s, Valid: true} }
func int4(n int32) pgtype.Int4       { return pgtype.Int4{Int32: n, Valid: true} }
func float8(f float64) pgtype.Float8 { return pgtype.Float8{Float64: f, Valid: true} }
func tstz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func templateRows() *pgxmock.Rows {
	return pgxmock.NewRows(classTemplateColumns)
}

func TestClassTemplateRepository_GetByIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewClassTemplateRepository(mock)

	rows := templateRows().
		AddRow("1", int4(12), text("Monday"), text("Slow flow"), int4(60), float8(10), text("09:00"), text("Hatha")).
		AddRow("2", int4(8), text("Tuesday"), nil, int4(45), nil, text("18:30"), text("Yin")).
		AddRow("3", int4(0), text("Friday"), nil, int4(45), float8(5), text("07:00"), text("Vinyasa"))

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_templates WHERE id IN ($1,$2,$3,$4)")).
		WithArgs("1", "2", "3", "4").
		WillReturnRows(rows)

	got, err := repo.GetByIDs(context.Background(), []string{"1", "2", "3", "4"})
	require.NoError(t, err)

	// 2 has no price, 3 has zero capacity, 4 does not exist
	require.Len(t, got, 1)
	assert.Equal(t, models.ClassTemplate{
		ID: "1", Capacity: 12, DayOfWeek: "Monday", Description: "Slow flow",
		Duration: 60, PricePerClass: 10, Time: "09:00", TypeOfClass: "Hatha",
	}, got["1"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassTemplateRepository_GetByIDsEmpty(t *testing.T) {
	mock := newMock(t)

	got, err := NewClassTemplateRepository(mock).GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassTemplateRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewClassTemplateRepository(mock)

	mock.ExpectQuery("FROM class_templates WHERE id").WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUnresolvedReference)

	mock.ExpectQuery("FROM class_templates WHERE id").WithArgs("1").
		WillReturnRows(templateRows().
			AddRow("1", int4(12), text("Monday"), nil, int4(60), float8(10), text("9:00"), text("Hatha")))
	_, err = repo.GetByID(context.Background(), "1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRecord)

	mock.ExpectQuery("FROM class_templates WHERE id").WithArgs("1").
		WillReturnError(errors.New("connection reset"))
	_, err = repo.GetByID(context.Background(), "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnresolvedReference)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassInstanceRepository_ListAll(t *testing.T) {
	mock := newMock(t)
	repo := NewClassInstanceRepository(mock)
	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_instances ORDER BY date ASC, id ASC")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "template_id", "date", "teacher", "comments"}).
			AddRow("a", text("1"), tstz(monday), text("Ana"), nil).
			AddRow("b", nil, tstz(monday), text("Bo"), nil).
			AddRow("c", text("2"), nil, text("Cy"), text("bring a mat")))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, &models.ClassInstance{ID: "a", TemplateID: "1", Date: monday, Teacher: "Ana"}, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassInstanceRepository_ListAllQueryError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("FROM class_instances").WillReturnError(errors.New("timeout"))
	_, err := NewClassInstanceRepository(mock).ListAll(context.Background())
	assert.ErrorContains(t, err, "timeout")
}

func TestClassInstanceRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("FROM class_instances WHERE id").WithArgs("zz").WillReturnError(pgx.ErrNoRows)
	_, err := NewClassInstanceRepository(mock).GetByID(context.Background(), "zz")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}

func TestBookingRepository_ListByUser(t *testing.T) {
	mock := newMock(t)
	date := time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC)
	created := date.Add(-48 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id = $1 ORDER BY date DESC")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "class_instance_id", "class_name", "date",
			"teacher", "time", "duration", "price_per_class", "created_at",
		}).AddRow("u1:a", "u1", "a", "Hatha", date, "Ana", "18:00", int32(60), 12.5, created))

	got, err := NewBookingRepository(mock).ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ClassInstanceID)
	assert.Equal(t, 60, got[0].Duration)
	assert.Equal(t, created, got[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)
	b := &models.Booking{
		ID: "u1:a", UserID: "u1", ClassInstanceID: "a", ClassName: "Hatha",
		Date: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Teacher: "Ana", Time: "09:00", Duration: 60, PricePerClass: 10,
	}
	created := time.Date(2023, 12, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(b.ID, b.UserID, b.ClassInstanceID, b.ClassName, b.Date, b.Teacher, b.Time, b.Duration, b.PricePerClass).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, created, b.CreatedAt)

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(b.ID, b.UserID, b.ClassInstanceID, b.ClassName, b.Date, b.Teacher, b.Time, b.Duration, b.PricePerClass).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: BookingUserInstanceKey})
	assert.ErrorIs(t, repo.Create(context.Background(), b), apperrors.ErrAlreadyBooked)

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(b.ID, b.UserID, b.ClassInstanceID, b.ClassName, b.Date, b.Teacher, b.Time, b.Duration, b.PricePerClass).
		WillReturnError(errors.New("disk full"))
	err := repo.Create(context.Background(), b)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyBooked)

	assert.NoError(t, mock.ExpectationsWereMet())
}
