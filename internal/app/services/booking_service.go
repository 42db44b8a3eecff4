package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"go.opentelemetry.io/otel/attribute"
)

// BookingService checks and commits bookings and keeps each user's booked set
type BookingService interface {
	// ListBookings reads the user's booked instance ids from the store and
	// merges them into the cache.
	ListBookings(ctx context.Context, userID string) (map[string]struct{}, error)
	// UserBookings returns the user's bookings with their snapshots
	UserBookings(ctx context.Context, userID string) ([]*models.Booking, error)
	// Book books class for userID. See Outcome for the error kinds.
	Book(ctx context.Context, userID string, class models.CombinedClassInfo) (*models.Booking, error)
	// BookedSet returns a copy of the cached set without touching the store
	BookedSet(userID string) map[string]struct{}
	// Prune drops the cached set of every user keep rejects and returns how
	// many were dropped. The next ListBookings reloads them from the store.
	Prune(keep func(userID string) bool) int
}

type bookingServiceImpl struct {
	store     BookingStore
	publisher EventPublisher
	logger    zerolog.Logger

	mu     sync.Mutex
	booked map[string]map[string]struct{}
}

// NewBookingService creates a new BookingService. publisher may be nil.
func NewBookingService(store BookingStore, publisher EventPublisher, logger zerolog.Logger) BookingService {
	return &bookingServiceImpl{
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("component", "booking").Logger(),
		booked:    make(map[string]map[string]struct{}),
	}
}

func (s *bookingServiceImpl) UserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	bookings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeUnavailable("list bookings", err)
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ClassInstanceID)
	}
	s.remember(userID, ids...)
	return bookings, nil
}

func (s *bookingServiceImpl) ListBookings(ctx context.Context, userID string) (map[string]struct{}, error) {
	if _, err := s.UserBookings(ctx, userID); err != nil {
		return nil, err
	}
	return s.BookedSet(userID), nil
}

func (s *bookingServiceImpl) Book(ctx context.Context, userID string, class models.CombinedClassInfo) (*models.Booking, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	ctx, span := tracer.Start(ctx, "BookingService.Book")
	defer span.End()
	span.SetAttributes(attribute.String("class.id", class.ID))

	booked, err := s.ListBookings(ctx, userID)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	if _, ok := booked[class.ID]; ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyBooked, class.ID)
	}

	booking := models.NewBooking(userID, class)
	if err := s.store.Create(ctx, booking); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyBooked) {
			// another session won the insert
			s.remember(userID, class.ID)
			return nil, err
		}
		err = fmt.Errorf("%w: %w", apperrors.ErrWriteFailed, err)
		recordSpanError(span, err)
		s.logger.Error().Err(err).Str("userId", userID).Str("classId", class.ID).Msg("Booking insert failed")
		return nil, err
	}

	s.remember(userID, class.ID)
	s.logger.Info().Str("bookingId", booking.ID).Msg("Booking committed")

	if s.publisher != nil {
		if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
			s.logger.Warn().Err(err).Str("bookingId", booking.ID).Msg("Could not publish booking event")
		}
	}
	return booking, nil
}

func (s *bookingServiceImpl) BookedSet(userID string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(s.booked[userID]))
	for id := range s.booked[userID] {
		set[id] = struct{}{}
	}
	return set
}

func (s *bookingServiceImpl) Prune(keep func(userID string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for userID := range s.booked {
		if keep(userID) {
			continue
		}
		delete(s.booked, userID)
		dropped++
	}
	return dropped
}

// remember adds ids to the user's cached set. Bookings are never removed, so
// merging is always safe against a concurrent refresh.
func (s *bookingServiceImpl) remember(userID string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.booked[userID]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		s.booked[userID] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

// Outcome is the user-facing result of a booking attempt
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeAlreadyBooked    Outcome = "already-booked"
	OutcomeNotAuthenticated Outcome = "not-authenticated"
	OutcomeFailure          Outcome = "failure"
)

// OutcomeOf maps the error returned by Book to its outcome
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, apperrors.ErrAlreadyBooked):
		return OutcomeAlreadyBooked
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return OutcomeNotAuthenticated
	default:
		return OutcomeFailure
	}
}
