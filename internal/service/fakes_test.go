package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// --- Settings store ---

type fakeSettingsStore struct {
	mu       sync.Mutex
	settings *domain.PricingSettings
	getErr   error
	saveErr  error
	gets     int
	saved    []domain.PricingSettings
}

func (f *fakeSettingsStore) GetSettings(_ context.Context) (*domain.PricingSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.settings == nil {
		return nil, &domain.ErrNotFound{Resource: "pricing_settings", ID: "1"}
	}
	out := *f.settings
	return &out, nil
}

func (f *fakeSettingsStore) SaveSettings(_ context.Context, s *domain.PricingSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	out := *s
	f.settings = &out
	f.saved = append(f.saved, out)
	return nil
}

// --- Cache ---

type mapCache[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

func newMapCache[T any]() *mapCache[T] {
	return &mapCache[T]{items: make(map[string]T)}
}

func (c *mapCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *mapCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// --- Geocoder ---

type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]domain.Coordinates
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*domain.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.coords[address]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "address", ID: address}
	}
	return &c, nil
}

// --- Availability ---

type fakeAvailability struct {
	free  bool
	err   error
	dates []time.Time
}

func (f *fakeAvailability) IsAvailable(_ context.Context, date time.Time) (bool, error) {
	f.dates = append(f.dates, date)
	return f.free, f.err
}

// --- Messaging ---

type fakeSender struct {
	to, body string
	err      error
}

func (f *fakeSender) SendText(_ context.Context, to, body string) (string, error) {
	f.to, f.body = to, body
	if f.err != nil {
		return "", f.err
	}
	return "wamid.TEST", nil
}

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

// --- Drafts ---

type fakeDraftStore struct {
	mu     sync.Mutex
	drafts map[string]domain.Draft
	err    error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]domain.Draft)}
}

func (f *fakeDraftStore) GetDraft(_ context.Context, id string) (*domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	return &d, nil
}

func (f *fakeDraftStore) SaveDraft(_ context.Context, d *domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.drafts[d.ID] = *d
	return nil
}

func (f *fakeDraftStore) DeleteDraft(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, id)
	return nil
}
