package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/yigit/classbook/internal/app/models"
)

// EventTypeBookingCreated is the event_type of BookingCreatedEvent
const EventTypeBookingCreated = "booking.created"

// BookingCreatedEvent is published once per committed booking
type BookingCreatedEvent struct {
	EventID         uuid.UUID `json:"event_id"`
	EventType       string    `json:"event_type"`
	BookingID       string    `json:"booking_id"`
	UserID          string    `json:"user_id"`
	ClassInstanceID string    `json:"class_instance_id"`
	ClassName       string    `json:"class_name"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Teacher         string    `json:"teacher"`
	BookedAt        time.Time `json:"booked_at"`
}

// NewBookingCreatedEvent builds the event for b with a fresh event id
func NewBookingCreatedEvent(b *models.Booking) BookingCreatedEvent {
	bookedAt := b.CreatedAt
	if bookedAt.IsZero() {
		bookedAt = time.Now().UTC()
	}
	return BookingCreatedEvent{
		EventID:         uuid.New(),
		EventType:       EventTypeBookingCreated,
		BookingID:       b.ID,
		UserID:          b.UserID,
		ClassInstanceID: b.ClassInstanceID,
		ClassName:       b.ClassName,
		Date:            b.Date,
		Time:            b.Time,
		Teacher:         b.Teacher,
		BookedAt:        bookedAt,
	}
}

// Conn is the part of *nats.Conn the publisher uses
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NatsPublisher publishes booking events to NATS
type NatsPublisher struct {
	conn    Conn
	subject string
	logger  zerolog.Logger
}

// NewNatsPublisher connects to url. Reconnects are handled by the client.
func NewNatsPublisher(url, subject string, logger zerolog.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("classbook"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return NewNatsPublisherWithConn(nc, subject, logger), nil
}

// NewNatsPublisherWithConn wraps an existing connection
func NewNatsPublisherWithConn(conn Conn, subject string, logger zerolog.Logger) *NatsPublisher {
	return &NatsPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

// PublishBookingCreated sends the booking.created event
func (p *NatsPublisher) PublishBookingCreated(_ context.Context, b *models.Booking) error {
	event := NewBookingCreatedEvent(b)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}

	p.logger.Debug().
		Str("subject", p.subject).
		Str("eventId", event.EventID.String()).
		Str("bookingId", b.ID).
		Msg("Published booking event")
	return nil
}

// Close drains pending messages and closes the connection
func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}

// LogPublisher only logs events. Used when no NATS url is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

// PublishBookingCreated logs the event
func (p *LogPublisher) PublishBookingCreated(_ context.Context, b *models.Booking) error {
	event := NewBookingCreatedEvent(b)
	p.logger.Info().
		Str("eventType", event.EventType).
		Str("eventId", event.EventID.String()).
		Str("bookingId", event.BookingID).
		Msg("Booking event (no broker configured)")
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error {
	return nil
}
