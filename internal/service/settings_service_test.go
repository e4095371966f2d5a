package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var defaultSettings = domain.PricingSettings{PhotoUnitPrice: 25, VideoUnitPrice: 150, PricePerKm: 1.5}

func newSettingsService(store *fakeSettingsStore) *service.SettingsService {
	return service.NewSettingsService(store, newMapCache[*domain.PricingSettings](), defaultSettings, observability.NewMetrics(), zap.NewNop())
}

func ptr(v float64) *float64 { return &v }

func TestSettingsService_GetCachesStoreValue(t *testing.T) {
	store := &fakeSettingsStore{settings: &domain.PricingSettings{PhotoUnitPrice: 30, VideoUnitPrice: 170, PricePerKm: 2}}
	svc := newSettingsService(store)

	first := svc.Get(context.Background())
	second := svc.Get(context.Background())

	assert.Equal(t, 30.0, first.PhotoUnitPrice)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.gets)
}

func TestSettingsService_EmptyStoreUsesDefaults(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{})

	got := svc.Get(context.Background())
	assert.Equal(t, 25.0, got.PhotoUnitPrice)
	assert.Equal(t, 150.0, got.VideoUnitPrice)
	assert.Equal(t, 1.5, got.PricePerKm)
}

func TestSettingsService_StoreFailureDegradesToDefaults(t *testing.T) {
	store := &fakeSettingsStore{getErr: &domain.ErrExternalService{Service: "supabase", Err: errors.New("down")}}
	svc := newSettingsService(store)

	got := svc.Get(context.Background())
	assert.Equal(t, defaultSettings.PhotoUnitPrice, got.PhotoUnitPrice)

	// failures are not cached
	svc.Get(context.Background())
	assert.Equal(t, 2, store.gets)
}

func TestSettingsService_UpdateMergesAndInvalidates(t *testing.T) {
	store := &fakeSettingsStore{settings: &domain.PricingSettings{PhotoUnitPrice: 30, VideoUnitPrice: 170, PricePerKm: 2}}
	svc := newSettingsService(store)
	_ = svc.Get(context.Background())

	updated, err := svc.Update(context.Background(), &domain.UpdateSettingsRequest{PricePerKm: ptr(2.5)})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.PhotoUnitPrice)
	assert.Equal(t, 2.5, updated.PricePerKm)
	assert.False(t, updated.UpdatedAt.IsZero())

	assert.Equal(t, 2.5, svc.Get(context.Background()).PricePerKm)
	require.Len(t, store.saved, 1)
}

func TestSettingsService_UpdateRejectsNegativeRates(t *testing.T) {
	store := &fakeSettingsStore{}
	svc := newSettingsService(store)

	_, err := svc.Update(context.Background(), &domain.UpdateSettingsRequest{PhotoUnitPrice: ptr(-1)})

	var ve *domain.ErrValidation
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "photoUnitPrice", ve.Field)
	assert.Empty(t, store.saved)
}

func TestSettingsService_UpdateStoreError(t *testing.T) {
	svc := newSettingsService(&fakeSettingsStore{saveErr: errors.New("read-only")})

	_, err := svc.Update(context.Background(), &domain.UpdateSettingsRequest{PhotoUnitPrice: ptr(10)})
	assert.Error(t, err)
}
