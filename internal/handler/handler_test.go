package handler_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/handler"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/cache"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/memory"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "painel-123"

type staticGeocoder map[string]domain.Coordinates

func (g staticGeocoder) Geocode(_ context.Context, address string) (*domain.Coordinates, error) {
	c, ok := g[address]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "address", ID: address}
	}
	return &c, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	defaults := domain.PricingSettings{PhotoUnitPrice: 25, VideoUnitPrice: 150, PricePerKm: 1.5}

	settingsCache := cache.New[*domain.PricingSettings](time.Minute)
	distanceCache := cache.New[*domain.DistanceResult](time.Minute)
	drafts := memory.NewDraftStore(time.Minute)
	t.Cleanup(func() {
		settingsCache.Close()
		distanceCache.Close()
		drafts.Close()
	})

	settings := service.NewSettingsService(memory.NewSettingsStore(defaults), settingsCache, defaults, metrics, logger)
	distance := service.NewDistanceService(
		staticGeocoder{"Santos, SP": {Latitude: -23.9608, Longitude: -46.3336}},
		distanceCache,
		domain.Coordinates{Latitude: -23.5505, Longitude: -46.6333},
		1.3, metrics, logger,
	)
	quotes := service.NewQuoteService(service.QuoteServiceDeps{
		Engine:           service.NewPricingEngine(domain.DefaultPriceTable()),
		Settings:         settings,
		Distance:         distance,
		BusinessWhatsApp: "5511988887777",
		Metrics:          metrics,
		Logger:           logger,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return handler.NewRouter(handler.Services{
		Quotes:    quotes,
		Distance:  distance,
		Settings:  settings,
		Drafts:    service.NewDraftService(drafts, logger),
		AdminAuth: service.NewAdminAuthService(string(hash), "jwt-secret", time.Hour, logger),
	}, metrics, logger)
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// --- Catalog & pricing ---

func TestCatalog(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	catalog := decode[domain.Catalog](t, rec)
	assert.Len(t, catalog.Categories, 6)
	assert.Equal(t, 250.0, catalog.DronePrice)
	assert.Equal(t, 600.0, catalog.RealTimePrice)
	assert.Equal(t, "Casamento Civil", catalog.Rules[domain.CategoryWedding][domain.ServiceWeddingBase].Label)
}

func TestPricingCalculate_ExplicitContext(t *testing.T) {
	body := map[string]any{
		"selection": map[string]any{"category": "wedding", "serviceId": "wedding_base", "hours": 2, "selectionMode": "duration"},
		"context":   map[string]any{"distance": 10, "pricePerKm": 1.5},
	}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/pricing/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.PricingResult](t, rec)
	assert.Equal(t, 680.0, result.TotalPrice)
	assert.Equal(t, "BRL", result.Currency)
}

func TestPricingCalculate_DefaultsToSettings(t *testing.T) {
	body := map[string]any{
		"selection": map[string]any{"category": "commercial", "serviceId": "comm_photo", "qty": 20},
	}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/pricing/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.PricingResult](t, rec)
	assert.Equal(t, 500.0, result.TotalPrice)
}

func TestPricingCalculate_PartialContextKeepsSettingsRates(t *testing.T) {
	body := map[string]any{
		"selection": map[string]any{"category": "commercial", "serviceId": "comm_photo", "qty": 20},
		"context":   map[string]any{"distance": 10},
	}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/pricing/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.PricingResult](t, rec)
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, 500.0, result.Breakdown[0].Value)
	assert.Equal(t, 30.0, result.Breakdown[1].Value)
	assert.Equal(t, 530.0, result.TotalPrice)
}

func TestPricingCalculate_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/pricing/calculate", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Quotes ---

func TestCalculateQuote_WithDistance(t *testing.T) {
	body := domain.QuoteRequest{
		Selection: domain.QuoteSelection{Category: domain.CategorySocial, ServiceID: domain.ServiceBirthday, Hours: 5},
		Event:     domain.EventDetails{Address: "Santos, SP"},
	}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/quotes/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	quote := decode[domain.QuoteResponse](t, rec)
	assert.NotEmpty(t, quote.QuoteID)
	assert.Greater(t, quote.DistanceKm, 0)
	require.Len(t, quote.Result.Breakdown, 3)
	assert.Equal(t, 1150.0+float64(quote.DistanceKm)*3, quote.Result.TotalPrice)
}

func TestCalculateQuote_UnknownCategory(t *testing.T) {
	body := map[string]any{"selection": map[string]any{"category": "concert"}}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/quotes/calculate", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmQuote(t *testing.T) {
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 16)...)
	body := domain.ConfirmRequest{
		QuoteRequest: domain.QuoteRequest{
			Selection: domain.QuoteSelection{Category: domain.CategoryCommercial, ServiceID: domain.ServiceCommPhoto, Qty: 20},
			Contact:   domain.ContactInfo{Name: "Carla", Phone: "11 94444-3333"},
			QuickMode: true,
		},
		Signature: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/quotes/confirm", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	conf := decode[domain.Confirmation](t, rec)
	assert.Equal(t, 500.0, conf.Quote.Result.TotalPrice)
	assert.Contains(t, conf.WhatsAppURL, "https://wa.me/5511988887777?text=")
	assert.False(t, conf.Delivered)
}

func TestConfirmQuote_BadSignature(t *testing.T) {
	body := domain.ConfirmRequest{
		QuoteRequest: domain.QuoteRequest{
			Selection: domain.QuoteSelection{Category: domain.CategoryCustom},
			Contact:   domain.ContactInfo{Name: "Carla", Phone: "11 94444-3333"},
		},
		Signature: "data:image/png;base64,AAAA",
	}
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/quotes/confirm", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[map[string]string](t, rec)
	assert.Equal(t, "signature", resp["field"])
}

// --- Distance ---

func TestDistance(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/v1/distance?address=Santos,%20SP", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Greater(t, decode[domain.DistanceResult](t, rec).DistanceKm, 50)

	rec = do(t, router, http.MethodGet, "/v1/distance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/v1/distance?address=Atlantida", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Drafts ---

func TestDraftsLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/drafts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	draft := decode[domain.Draft](t, rec)

	sel := domain.QuoteSelection{Category: domain.CategoryStudio, ServiceID: domain.ServiceStudioVideo, Hours: 4}
	rec = do(t, router, http.MethodPut, "/v1/drafts/"+draft.ID, sel)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/v1/drafts/"+draft.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CategoryStudio, decode[domain.Draft](t, rec).Selection.Category)

	rec = do(t, router, http.MethodDelete, "/v1/drafts/"+draft.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/v1/drafts/"+draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Admin ---

func TestAdminSettingsFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/admin/login", domain.AdminLoginRequest{Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPut, "/v1/admin/settings", map[string]any{"pricePerKm": 3})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/v1/admin/login", domain.AdminLoginRequest{Password: adminPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[domain.AdminLoginResponse](t, rec).AccessToken

	rec = do(t, router, http.MethodPut, "/v1/admin/settings", map[string]any{"pricePerKm": -1}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/v1/admin/settings", map[string]any{"pricePerKm": 3}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decode[domain.PricingSettings](t, rec)
	assert.Equal(t, 3.0, settings.PricePerKm)
	assert.Equal(t, 25.0, settings.PhotoUnitPrice)
}

func TestQuoteMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := domain.QuoteRequest{Selection: domain.QuoteSelection{Category: domain.CategoryCustom}, QuickMode: true}
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/v1/quotes/calculate", body).Code)

	rec := do(t, router, http.MethodGet, "/v1/metrics/quotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := decode[domain.QuoteMetrics](t, rec)
	assert.Equal(t, int64(1), snapshot.TotalQuotes)
	assert.Equal(t, int64(1), snapshot.QuotesByCategory["custom"])
}
