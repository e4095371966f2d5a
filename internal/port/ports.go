// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// SettingsStore persists the admin-editable pricing rates.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*domain.PricingSettings, error)
	SaveSettings(ctx context.Context, settings *domain.PricingSettings) error
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinates, error)
}

// AvailabilityChecker tells whether the production calendar is free on a date.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, date time.Time) (bool, error)
}

// MessageSender delivers a text message to a phone number (WhatsApp).
type MessageSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Notifier alerts the business owner about a confirmed quote.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DraftStore keeps in-progress configurator sessions.
type DraftStore interface {
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	SaveDraft(ctx context.Context, draft *domain.Draft) error
	DeleteDraft(ctx context.Context, id string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
