package supabase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(srv *httptest.Server, name string) *supabase.Client {
	return supabase.NewClient(srv.Client(), srv.URL, "anon", "service-role",
		resilience.NewCircuitBreaker(name),
		resilience.Config{MaxRetries: 1, InitialBackoff: 5 * time.Millisecond},
		zap.NewNop(),
	)
}

func TestGetSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/pricing_settings", r.URL.Path)
		assert.Equal(t, "eq.1", r.URL.Query().Get("id"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-role", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":1,"photo_unit_price":28,"video_unit_price":160,"price_per_km":1.8,"updated_at":"2026-02-10T10:00:00Z"}]`))
	}))
	defer srv.Close()

	got, err := newClient(srv, "sb-get").GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 28.0, got.PhotoUnitPrice)
	assert.Equal(t, 160.0, got.VideoUnitPrice)
	assert.Equal(t, 1.8, got.PricePerKm)
	assert.Equal(t, time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC), got.UpdatedAt.UTC())
}

func TestGetSettings_EmptyTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newClient(srv, "sb-empty").GetSettings(context.Background())
	var nf *domain.ErrNotFound
	assert.True(t, errors.As(err, &nf), "got %v", err)
}

func TestGetSettings_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv, "sb-500").GetSettings(context.Background())
	var ext *domain.ErrExternalService
	assert.True(t, errors.As(err, &ext), "got %v", err)
}

func TestSaveSettings_Upserts(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := newClient(srv, "sb-save").SaveSettings(context.Background(), &domain.PricingSettings{
		PhotoUnitPrice: 30, VideoUnitPrice: 170, PricePerKm: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, 30.0, body["photo_unit_price"])
	assert.Equal(t, 2.0, body["price_per_km"])
	assert.NotEmpty(t, body["updated_at"])
}
