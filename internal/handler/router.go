package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger is a dependency whose reachability is reported by /healthz and /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Services are the application services behind the API. A nil service
// makes its routes answer 503.
type Services struct {
	Quotes    *service.QuoteService
	Distance  *service.DistanceService
	Settings  *service.SettingsService
	Drafts    *service.DraftService
	AdminAuth *service.AdminAuthService

	// Probes are checked by /healthz and /readyz, keyed by dependency name.
	Probes map[string]Pinger
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the quote configurator frontend.
func NewRouter(svcs Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.AccessLog(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Probes))
	r.Get("/readyz", readyzHandler(svcs.Probes, logger))
	r.Handle("/metrics", metrics.Handler())

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 📋 Catálogo e cálculo
		// GET  /v1/catalog
		// POST /v1/pricing/calculate
		// =============================================
		withService(r, svcs.Quotes != nil, "orçamentos", func(r chi.Router) {
			r.Get("/catalog", catalogHandler(svcs.Quotes))
			r.Post("/pricing/calculate", pricingCalculateHandler(svcs.Quotes, svcs.Settings, logger))

			// =============================================
			// 2. 🧾 Orçamento
			// POST /v1/quotes/calculate
			// POST /v1/quotes/confirm
			// =============================================
			r.Post("/quotes/calculate", calculateQuoteHandler(svcs.Quotes, logger))
			r.Post("/quotes/confirm", confirmQuoteHandler(svcs.Quotes, logger))
		})

		// =============================================
		// 3. 📍 Distância
		// GET /v1/distance?address=
		// =============================================
		withService(r, svcs.Distance != nil, "cálculo de distância", func(r chi.Router) {
			r.Get("/distance", distanceHandler(svcs.Distance, logger))
		})

		// =============================================
		// 4. ⚙️ Configurações públicas
		// GET /v1/settings
		// =============================================
		withService(r, svcs.Settings != nil, "configurações", func(r chi.Router) {
			r.Get("/settings", getSettingsHandler(svcs.Settings))
		})

		// =============================================
		// 5. 💾 Rascunhos do configurador
		// =============================================
		withService(r, svcs.Drafts != nil, "rascunhos", func(r chi.Router) {
			r.Post("/drafts", createDraftHandler(svcs.Drafts, logger))
			r.Get("/drafts/{draftId}", getDraftHandler(svcs.Drafts, logger))
			r.Put("/drafts/{draftId}", saveDraftHandler(svcs.Drafts, logger))
			r.Delete("/drafts/{draftId}", deleteDraftHandler(svcs.Drafts, logger))
		})

		// =============================================
		// 6. 📊 Métricas
		// GET /v1/metrics/quotes
		// =============================================
		r.Get("/metrics/quotes", quoteMetricsHandler(metrics))

		// =============================================
		// 7. 🔐 Administração
		// =============================================
		r.Route("/admin", func(r chi.Router) {
			if svcs.AdminAuth == nil || !svcs.AdminAuth.Enabled() || svcs.Settings == nil {
				r.Handle("/*", unavailableHandler("painel administrativo"))
				return
			}
			// Public routes
			r.Post("/login", adminLoginHandler(svcs.AdminAuth, logger))

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(svcs.AdminAuth, logger))
				r.Put("/settings", updateSettingsHandler(svcs.Settings, logger))
			})
		})
	})

	return r
}

// withService mounts routes when the backing service is configured, and a
// 503 catch-all for the same paths otherwise.
func withService(r chi.Router, enabled bool, feature string, routes func(r chi.Router)) {
	r.Group(func(r chi.Router) {
		if !enabled {
			r.Use(func(http.Handler) http.Handler { return unavailableHandler(feature) })
		}
		routes(r)
	})
}

func unavailableHandler(feature string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusServiceUnavailable, (&domain.ErrUnavailable{Feature: feature}).Error())
	})
}

// ============================================================
// Operational: GET /healthz, GET /readyz
// ============================================================

func healthzHandler(probes map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "quote-bfa", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		for name, p := range probes {
			start := time.Now()
			err := p.Ping(ctx)
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: name, Status: status, LatencyMs: time.Since(start).Milliseconds(), LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler(probes map[string]Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, p := range probes {
			if err := p.Ping(ctx); err != nil {
				logger.Warn("readiness probe failed", zap.String("dependency", name), zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "dependency": name})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// ============================================================
// Métricas: GET /v1/metrics/quotes
// ============================================================

func quoteMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetQuoteSnapshot())
	}
}
