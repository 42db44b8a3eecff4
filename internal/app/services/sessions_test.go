package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"github.com/yigit/classbook/internal/pkg/logger"
)

func newSessions(idle time.Duration) *Sessions {
	return NewSessions(
		&fakeCatalog{items: catalogItems()},
		NewBookingService(newFakeBookingStore(), nil, logger.Nop()),
		ViewStateConfig{LoadTimeout: time.Second, Logger: logger.Nop()},
		idle,
	)
}

func TestSessions_Get(t *testing.T) {
	s := newSessions(time.Minute)

	user := s.Get("", "u1")
	assert.Same(t, user, s.Get("other-header", "u1"))
	assert.Equal(t, "u1", user.cfg.UserID)

	anon := s.Get("tab-1", "")
	assert.Same(t, anon, s.Get("tab-1", ""))
	assert.NotSame(t, anon, s.Get("tab-2", ""))
	assert.Empty(t, anon.cfg.UserID)

	assert.NotSame(t, s.Get("", ""), s.Get("", ""))
	assert.Equal(t, 3, s.Len())
}

func TestSessions_SelectionSurvivesRequests(t *testing.T) {
	s := newSessions(time.Minute)

	_, err := s.Get("tab-1", "").SetDay(context.Background(), weekday(time.Wednesday))
	require.NoError(t, err)

	view, err := s.Get("tab-1", "").Reload(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "w", view.Items[0].ID)
}

func TestSessions_Evict(t *testing.T) {
	s := newSessions(time.Minute)
	s.Get("tab-1", "")
	s.Get("", "u1")

	assert.Zero(t, s.Evict(time.Now()))
	assert.Equal(t, 2, s.Evict(time.Now().Add(2*time.Minute)))
	assert.Zero(t, s.Len())
}

func TestSessions_EvictDropsBookedSets(t *testing.T) {
	store := newFakeBookingStore()
	bookings := NewBookingService(store, nil, logger.Nop())
	s := NewSessions(&fakeCatalog{items: catalogItems()}, bookings,
		ViewStateConfig{LoadTimeout: time.Second, Logger: logger.Nop()}, time.Minute)

	s.Get("", "u1")
	_, err := bookings.Book(context.Background(), "u1", combined("a", monday, "09:00", 10))
	require.NoError(t, err)
	_, err = bookings.Book(context.Background(), "u2", combined("a", monday, "09:00", 10))
	require.NoError(t, err)

	// u2 has no session, so only u1's set survives a sweep
	assert.Zero(t, s.Evict(time.Now()))
	assert.Contains(t, bookings.BookedSet("u1"), "a")
	assert.Empty(t, bookings.BookedSet("u2"))

	assert.Equal(t, 1, s.Evict(time.Now().Add(2*time.Minute)))
	assert.Empty(t, bookings.BookedSet("u1"))

	// the store still blocks a second booking
	_, err = bookings.Book(context.Background(), "u1", combined("a", monday, "09:00", 10))
	assert.ErrorIs(t, err, apperrors.ErrAlreadyBooked)
	writes, _ := store.count()
	assert.Equal(t, 2, writes)
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	s := newSessions(time.Nanosecond)
	s.Get("tab-1", "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
