// Package memory provides in-process stores used when no external backend
// is configured. State is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// SettingsStore keeps the pricing settings in memory.
type SettingsStore struct {
	mu       sync.RWMutex
	settings domain.PricingSettings
}

// NewSettingsStore creates a store seeded with the given defaults.
func NewSettingsStore(defaults domain.PricingSettings) *SettingsStore {
	return &SettingsStore{settings: defaults}
}

// GetSettings returns a copy of the current settings.
func (s *SettingsStore) GetSettings(_ context.Context) (*domain.PricingSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.settings
	return &out, nil
}

// SaveSettings replaces the current settings.
func (s *SettingsStore) SaveSettings(_ context.Context, settings *domain.PricingSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = *settings
	if s.settings.UpdatedAt.IsZero() {
		s.settings.UpdatedAt = time.Now().UTC()
	}
	return nil
}
