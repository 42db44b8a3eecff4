package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
)

// Status of the last catalog load
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// DefaultLoadTimeout bounds a load when no timeout is configured
const DefaultLoadTimeout = 5 * time.Second

// Selection is the filter and sort chosen in a browsing session
type Selection struct {
	Day  *time.Weekday
	Time *models.TimeOfDay
	Sort models.SortOrder
}

// ViewItem is a combined class with the session user's booked flag
type ViewItem struct {
	models.CombinedClassInfo
	Booked bool
}

// View is what the presentation layer renders
type View struct {
	Items      []ViewItem
	Selection  Selection
	Status     Status
	Generation uint64
	Err        error
}

// ViewStateConfig configures a ViewState
type ViewStateConfig struct {
	// UserID is empty for anonymous sessions
	UserID      string
	Location    *time.Location
	LoadTimeout time.Duration
	Logger      zerolog.Logger
}

// ViewState holds one session's selection and last materialized list. Every
// change reloads the catalog; only the newest load may update the state.
type ViewState struct {
	catalog  CatalogService
	bookings BookingService
	cfg      ViewStateConfig
	logger   zerolog.Logger

	mu         sync.Mutex
	selection  Selection
	items      []models.CombinedClassInfo
	status     Status
	lastErr    error
	generation uint64
	cancel     context.CancelFunc
	lastUsed   time.Time
}

// NewViewState creates an idle ViewState
func NewViewState(catalog CatalogService, bookings BookingService, cfg ViewStateConfig) *ViewState {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ViewState{
		catalog:  catalog,
		bookings: bookings,
		cfg:      cfg,
		logger:   cfg.Logger.With().Str("component", "view_state").Logger(),
		status:   StatusIdle,
		lastUsed: time.Now(),
	}
}

// Select replaces the whole selection and reloads
func (v *ViewState) Select(ctx context.Context, sel Selection) (View, error) {
	return v.reload(ctx, func(s *Selection) { *s = sel })
}

// SetDay changes the day filter; nil clears it
func (v *ViewState) SetDay(ctx context.Context, day *time.Weekday) (View, error) {
	return v.reload(ctx, func(s *Selection) { s.Day = day })
}

// SetTime changes the time filter; nil clears it
func (v *ViewState) SetTime(ctx context.Context, t *models.TimeOfDay) (View, error) {
	return v.reload(ctx, func(s *Selection) { s.Time = t })
}

// SetSort changes the price order
func (v *ViewState) SetSort(ctx context.Context, order models.SortOrder) (View, error) {
	return v.reload(ctx, func(s *Selection) { s.Sort = order })
}

// Reload re-runs the current selection
func (v *ViewState) Reload(ctx context.Context) (View, error) {
	return v.reload(ctx, nil)
}

// Snapshot returns the current state with booked flags from the cached set
func (v *ViewState) Snapshot() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()
	return v.snapshotLocked()
}

// Close cancels an in-flight load
func (v *ViewState) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *ViewState) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUsed
}

type loadResult struct {
	items []models.CombinedClassInfo
	err   error
}

func (v *ViewState) reload(ctx context.Context, update func(*Selection)) (View, error) {
	v.mu.Lock()
	if update != nil {
		update(&v.selection)
	}
	sel := v.selection
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	gen := v.generation
	loadCtx, cancel := context.WithTimeout(ctx, v.cfg.LoadTimeout)
	v.cancel = cancel
	v.status = StatusLoading
	v.lastUsed = time.Now()
	v.mu.Unlock()
	defer cancel()

	done := make(chan loadResult, 1)
	go func() {
		items, err := v.load(loadCtx, sel)
		done <- loadResult{items: items, err: err}
	}()

	var res loadResult
	select {
	case res = <-done:
	case <-loadCtx.Done():
		res.err = fmt.Errorf("%w: catalog load: %w", apperrors.ErrStoreUnavailable, loadCtx.Err())
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		v.logger.Debug().Uint64("generation", gen).Uint64("current", v.generation).Msg("Discarding superseded load")
		return v.snapshotLocked(), nil
	}

	v.cancel = nil
	if res.err != nil {
		v.status = StatusFailed
		v.lastErr = res.err
		v.logger.Warn().Err(res.err).Uint64("generation", gen).Msg("Catalog load failed")
		return v.snapshotLocked(), res.err
	}

	v.items = res.items
	v.status = StatusReady
	v.lastErr = nil
	return v.snapshotLocked(), nil
}

// load aggregates the catalog while refreshing the booked set. A booked set
// failure is logged and the classes are shown unbooked.
func (v *ViewState) load(ctx context.Context, sel Selection) ([]models.CombinedClassInfo, error) {
	var combined []models.CombinedClassInfo

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		combined, err = v.catalog.Aggregate(gctx)
		return err
	})
	if v.cfg.UserID != "" {
		g.Go(func() error {
			if _, err := v.bookings.ListBookings(gctx, v.cfg.UserID); err != nil {
				v.logger.Warn().Err(err).Str("userId", v.cfg.UserID).Msg("Could not refresh booked classes")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Apply(combined, Filter{
		Day:      sel.Day,
		Time:     sel.Time,
		Sort:     sel.Sort,
		Location: v.cfg.Location,
	}), nil
}

func (v *ViewState) snapshotLocked() View {
	var booked map[string]struct{}
	if v.cfg.UserID != "" {
		booked = v.bookings.BookedSet(v.cfg.UserID)
	}

	items := make([]ViewItem, len(v.items))
	for i, c := range v.items {
		_, ok := booked[c.ID]
		items[i] = ViewItem{CombinedClassInfo: c, Booked: ok}
	}
	return View{
		Items:      items,
		Selection:  v.selection,
		Status:     v.status,
		Generation: v.generation,
		Err:        v.lastErr,
	}
}
