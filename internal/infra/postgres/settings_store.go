package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("postgres")

const (
	selectSettings = `SELECT photo_unit_price, video_unit_price, price_per_km, updated_at
FROM pricing_settings WHERE id = 1`

	upsertSettings = `INSERT INTO pricing_settings (id, photo_unit_price, video_unit_price, price_per_km, updated_at)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    photo_unit_price = EXCLUDED.photo_unit_price,
    video_unit_price = EXCLUDED.video_unit_price,
    price_per_km     = EXCLUDED.price_per_km,
    updated_at       = EXCLUDED.updated_at`
)

// SettingsStore implements port.SettingsStore on the single-row
// pricing_settings table.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a settings store.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetSettings returns the stored settings, or ErrNotFound before the first save.
func (s *SettingsStore) GetSettings(ctx context.Context) (*domain.PricingSettings, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetSettings")
	defer span.End()

	var out domain.PricingSettings
	err := s.db.QueryRowContext(ctx, selectSettings).Scan(
		&out.PhotoUnitPrice,
		&out.VideoUnitPrice,
		&out.PricePerKm,
		&out.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "pricing_settings", ID: "1"}
	}
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "postgres/settings", Err: err}
	}
	return &out, nil
}

// SaveSettings upserts the settings row.
func (s *SettingsStore) SaveSettings(ctx context.Context, settings *domain.PricingSettings) error {
	ctx, span := tracer.Start(ctx, "Postgres.SaveSettings")
	defer span.End()

	updatedAt := settings.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, upsertSettings,
		settings.PhotoUnitPrice,
		settings.VideoUnitPrice,
		settings.PricePerKm,
		updatedAt,
	); err != nil {
		return &domain.ErrExternalService{Service: "postgres/settings", Err: fmt.Errorf("upsert: %w", err)}
	}
	return nil
}
