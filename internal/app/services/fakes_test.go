package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yigit/classbook/internal/app/models"
	"github.com/yigit/classbook/internal/pkg/apperrors"
)

// 2024-01-01 is a Monday
var (
	monday    = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tuesday   = monday.AddDate(0, 0, 1)
	wednesday = monday.AddDate(0, 0, 2)
)

type fakeTemplates struct {
	mu        sync.Mutex
	templates map[string]models.ClassTemplate
	err       error
	batches   [][]string
}

func (f *fakeTemplates) GetByID(_ context.Context, id string) (*models.ClassTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	tpl, ok := f.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnresolvedReference, id)
	}
	return &tpl, nil
}

func (f *fakeTemplates) GetByIDs(_ context.Context, ids []string) (map[string]models.ClassTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]models.ClassTemplate)
	for _, id := range ids {
		if tpl, ok := f.templates[id]; ok {
			out[id] = tpl
		}
	}
	return out, nil
}

type fakeInstances struct {
	instances []*models.ClassInstance
	err       error
}

func (f *fakeInstances) ListAll(context.Context) ([]*models.ClassInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.instances, nil
}

func (f *fakeInstances) GetByID(_ context.Context, id string) (*models.ClassInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, inst := range f.instances {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrClassNotFound, id)
}

// fakeBookingStore enforces one row per booking id like the unique constraint.
type fakeBookingStore struct {
	mu        sync.Mutex
	rows      map[string]*models.Booking
	writes    int
	lists     int
	listErr   error
	createErr error
	// listGate, when set, holds every ListByUser call until all expected callers arrive
	listGate *sync.WaitGroup
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{rows: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID string) ([]*models.Booking, error) {
	if f.listGate != nil {
		f.listGate.Done()
		f.listGate.Wait()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Booking
	for _, b := range f.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.rows[b.ID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyBooked, b.ID)
	}
	b.CreatedAt = time.Now()
	f.rows[b.ID] = b
	f.writes++
	return nil
}

func (f *fakeBookingStore) count() (writes, rows int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes, len(f.rows)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.Booking
	err       error
}

func (f *fakePublisher) PublishBookingCreated(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, b)
	return f.err
}

// fakeCatalog lets tests hold individual Aggregate calls
type fakeCatalog struct {
	mu      sync.Mutex
	calls   int
	items   []models.CombinedClassInfo
	err     error
	holds   map[int]chan struct{}
	entered chan int
}

func (f *fakeCatalog) Aggregate(ctx context.Context) ([]models.CombinedClassInfo, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	hold := f.holds[call]
	items, err := f.items, f.err
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- call
	}
	if hold != nil {
		<-hold
	}
	return items, err
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*models.CombinedClassInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrClassNotFound
}

func combined(id string, date time.Time, clock string, price float64) models.CombinedClassInfo {
	return models.CombinedClassInfo{
		ID:            id,
		Date:          date,
		Teacher:       "Ana",
		Capacity:      10,
		DayOfWeek:     date.Weekday().String(),
		Duration:      60,
		PricePerClass: price,
		Time:          clock,
		TypeOfClass:   "Hatha",
	}
}
