package services

import (
	"context"
	"fmt"

	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Services defined in this package:
// - CatalogService: joins class instances with their templates
// - Apply: the pure day/time filter and price sort over combined classes
// - BookingService: duplicate-checked booking with a per-user booked cache
// - ViewState / Sessions: per browsing session selection and last result

// TemplateStore is the read side of class templates
type TemplateStore interface {
	GetByID(ctx context.Context, id string) (*models.ClassTemplate, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.ClassTemplate, error)
}

// InstanceStore is the read side of class instances
type InstanceStore interface {
	ListAll(ctx context.Context) ([]*models.ClassInstance, error)
	GetByID(ctx context.Context, id string) (*models.ClassInstance, error)
}

// BookingStore lists and inserts bookings
type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
}

// EventPublisher announces committed bookings
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *models.Booking) error
}

var tracer = otel.Tracer("github.com/yigit/classbook/internal/app/services")

// storeUnavailable converts a failed store call. Context errors stay matchable.
func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, op, err)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
