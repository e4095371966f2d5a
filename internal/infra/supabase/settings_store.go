package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"
)

const settingsTable = "pricing_settings"

// supabaseSettings maps the pricing_settings columns.
type supabaseSettings struct {
	ID             int       `json:"id"`
	PhotoUnitPrice float64   `json:"photo_unit_price"`
	VideoUnitPrice float64   `json:"video_unit_price"`
	PricePerKm     float64   `json:"price_per_km"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetSettings fetches the single settings row (id=1).
func (c *Client) GetSettings(ctx context.Context) (*domain.PricingSettings, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSettings")
	defer span.End()

	var settings *domain.PricingSettings

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.send(ctx, http.MethodGet, settingsTable+"?id=eq.1&limit=1", nil, preferRows)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				settings = nil
				return nil
			}

			var rows []supabaseSettings
			if err := json.Unmarshal(body, &rows); err != nil {
				return resilience.Permanent(fmt.Errorf("failed to decode settings: %w", err))
			}
			if len(rows) == 0 {
				settings = nil
				return nil
			}

			r := rows[0]
			settings = &domain.PricingSettings{
				PhotoUnitPrice: r.PhotoUnitPrice,
				VideoUnitPrice: r.VideoUnitPrice,
				PricePerKm:     r.PricePerKm,
				UpdatedAt:      r.UpdatedAt,
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/settings", Err: err}
	}
	if settings == nil {
		return nil, &domain.ErrNotFound{Resource: "pricing_settings", ID: "1"}
	}
	return settings, nil
}

// SaveSettings upserts the settings row.
func (c *Client) SaveSettings(ctx context.Context, settings *domain.PricingSettings) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveSettings")
	defer span.End()

	updatedAt := settings.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			_, err := c.send(ctx, http.MethodPost, settingsTable, map[string]any{
				"id":               1,
				"photo_unit_price": settings.PhotoUnitPrice,
				"video_unit_price": settings.VideoUnitPrice,
				"price_per_km":     settings.PricePerKm,
				"updated_at":       updatedAt.Format(time.RFC3339),
			}, preferUpsert)
			return err
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/settings", Err: err}
	}
	return nil
}
