package services

import (
	"context"
	"sync"
	"time"
)

// Sessions keeps one ViewState per browsing session and drops idle ones
type Sessions struct {
	catalog  CatalogService
	bookings BookingService
	cfg      ViewStateConfig
	idle     time.Duration

	mu    sync.Mutex
	views map[string]*ViewState
}

// NewSessions creates an empty registry. cfg.UserID is ignored; each session
// carries its own identity.
func NewSessions(catalog CatalogService, bookings BookingService, cfg ViewStateConfig, idle time.Duration) *Sessions {
	return &Sessions{
		catalog:  catalog,
		bookings: bookings,
		cfg:      cfg,
		idle:     idle,
		views:    make(map[string]*ViewState),
	}
}

// Get returns the ViewState for a session. Authenticated users share one
// session per user id. Anonymous callers without a session key get a fresh,
// unregistered ViewState.
func (s *Sessions) Get(sessionKey, userID string) *ViewState {
	key := ""
	switch {
	case userID != "":
		key = "user:" + userID
	case sessionKey != "":
		key = "session:" + sessionKey
	default:
		return s.newView("")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.views[key]; ok {
		return v
	}
	v := s.newView(userID)
	s.views[key] = v
	return v
}

func (s *Sessions) newView(userID string) *ViewState {
	cfg := s.cfg
	cfg.UserID = userID
	return NewViewState(s.catalog, s.bookings, cfg)
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Evict removes sessions unused since before now minus the idle timeout and
// returns how many were dropped. Cached booked sets of users left without a
// session go with them.
func (s *Sessions) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, v := range s.views {
		if now.Sub(v.idleSince()) < s.idle {
			continue
		}
		v.Close()
		delete(s.views, key)
		evicted++
	}

	s.bookings.Prune(func(userID string) bool {
		_, live := s.views["user:"+userID]
		return live
	})
	return evicted
}

// Run evicts idle sessions every interval until ctx is done
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Evict(now); n > 0 {
				s.cfg.Logger.Debug().Int("evicted", n).Int("remaining", s.Len()).Msg("Evicted idle browsing sessions")
			}
		}
	}
}
