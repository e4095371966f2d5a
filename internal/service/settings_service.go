package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var settingsTracer = otel.Tracer("service/settings")

const settingsCacheKey = "pricing_settings"

// SettingsService serves the admin-editable rates with a read-through cache.
type SettingsService struct {
	store    port.SettingsStore
	cache    port.Cache[*domain.PricingSettings]
	defaults domain.PricingSettings
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSettingsService creates the settings service. defaults are served
// when the store is empty or unreachable.
func NewSettingsService(
	store port.SettingsStore,
	cache port.Cache[*domain.PricingSettings],
	defaults domain.PricingSettings,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		store:    store,
		cache:    cache,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
	}
}

// Get returns the current settings. It never fails: a store error degrades
// to the configured defaults.
func (s *SettingsService) Get(ctx context.Context) *domain.PricingSettings {
	ctx, span := settingsTracer.Start(ctx, "SettingsService.Get")
	defer span.End()

	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		s.metrics.IncrCacheHit("settings")
		out := *cached
		return &out
	}
	s.metrics.IncrCacheMiss("settings")

	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		var nf *domain.ErrNotFound
		if !errors.As(err, &nf) {
			s.logger.Warn("settings store unavailable, using defaults", zap.Error(err))
			s.metrics.IncrExternalError("settings")
			out := s.defaults
			return &out
		}
		stored = &domain.PricingSettings{
			PhotoUnitPrice: s.defaults.PhotoUnitPrice,
			VideoUnitPrice: s.defaults.VideoUnitPrice,
			PricePerKm:     s.defaults.PricePerKm,
		}
	}

	s.cache.Set(settingsCacheKey, stored)
	out := *stored
	return &out
}

// Update validates and persists a partial update, then drops the cache.
func (s *SettingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.PricingSettings, error) {
	ctx, span := settingsTracer.Start(ctx, "SettingsService.Update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	current := s.Get(ctx)
	next := req.Apply(*current)
	next.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveSettings(ctx, &next); err != nil {
		s.metrics.IncrExternalError("settings")
		return nil, fmt.Errorf("save settings: %w", err)
	}
	s.cache.Delete(settingsCacheKey)

	s.logger.Info("pricing settings updated",
		zap.Float64("photo_unit_price", next.PhotoUnitPrice),
		zap.Float64("video_unit_price", next.VideoUnitPrice),
		zap.Float64("price_per_km", next.PricePerKm),
	)
	return &next, nil
}
