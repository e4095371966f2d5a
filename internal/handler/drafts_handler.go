package handler

import (
	"net/http"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// 5. Rascunhos: /v1/drafts
// ============================================================

func createDraftHandler(svc *service.DraftService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts")
		defer span.End()

		draft, err := svc.Create(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("draft.id", draft.ID))
		writeJSON(w, http.StatusCreated, draft)
	}
}

func getDraftHandler(svc *service.DraftService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/drafts/{draftId}")
		defer span.End()

		draft, err := svc.Get(ctx, chi.URLParam(r, "draftId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, draft)
	}
}

func saveDraftHandler(svc *service.DraftService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/drafts/{draftId}")
		defer span.End()

		var sel domain.QuoteSelection
		if err := decodeJSON(w, r, &sel); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		draft, err := svc.Save(ctx, chi.URLParam(r, "draftId"), sel)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, draft)
	}
}

func deleteDraftHandler(svc *service.DraftService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/drafts/{draftId}")
		defer span.End()

		draftID := chi.URLParam(r, "draftId")
		if err := svc.Delete(ctx, draftID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Rascunho removido", ID: draftID})
	}
}
