package handler

import (
	"net/http"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// 1. Catálogo: GET /v1/catalog
// ============================================================

func catalogHandler(svc *service.QuoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/catalog")
		defer span.End()

		w.Header().Set("Cache-Control", "public, max-age=300")
		writeJSON(w, http.StatusOK, svc.Engine().Table().Catalog())
	}
}

// ============================================================
// 1b. Cálculo direto: POST /v1/pricing/calculate
// ============================================================

// pricingCalculateHandler exposes the bare engine. Rates missing from the
// supplied context are filled from the current settings.
func pricingCalculateHandler(svc *service.QuoteService, settings *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/pricing/calculate")
		defer span.End()

		var req domain.PricingRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var base domain.PricingContext
		if settings != nil {
			base = settings.Get(ctx).Context(0, false)
		}
		pctx := req.Context.Over(base)
		span.SetAttributes(attribute.String("quote.category", string(req.Selection.Category)))

		result := svc.Engine().CalculateSelection(req.Selection, pctx)
		logger.Debug("pricing calculated",
			zap.String("category", string(req.Selection.Category)),
			zap.Float64("total", result.TotalPrice),
		)
		writeJSON(w, http.StatusOK, result)
	}
}

// ============================================================
// 2. Orçamento: POST /v1/quotes/calculate
// ============================================================

func calculateQuoteHandler(svc *service.QuoteService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/quotes/calculate")
		defer span.End()

		var req domain.QuoteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Selection.Category != "" && !req.Selection.Category.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "categoria desconhecida", Field: "selection.category"})
			return
		}

		quote, err := svc.Calculate(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, quote)
	}
}

// ============================================================
// 2b. Confirmação: POST /v1/quotes/confirm
// ============================================================

func confirmQuoteHandler(svc *service.QuoteService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/quotes/confirm")
		defer span.End()

		var req domain.ConfirmRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		confirmation, err := svc.Confirm(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("quote.id", confirmation.QuoteID))
		writeJSON(w, http.StatusCreated, confirmation)
	}
}

// ============================================================
// 3. Distância: GET /v1/distance?address=
// ============================================================

func distanceHandler(svc *service.DistanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/distance")
		defer span.End()

		result, err := svc.Distance(ctx, r.URL.Query().Get("address"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
