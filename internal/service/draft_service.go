package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/port"

	"github.com/rs/xid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var draftTracer = otel.Tracer("service/drafts")

// DraftService keeps the configurator state between steps, so a client can
// reload the page without losing the selection.
type DraftService struct {
	store  port.DraftStore
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftService creates the draft service.
func NewDraftService(store port.DraftStore, logger *zap.Logger) *DraftService {
	return &DraftService{store: store, logger: logger, now: time.Now}
}

// Create starts a draft at the configurator's initial selection.
func (s *DraftService) Create(ctx context.Context) (*domain.Draft, error) {
	ctx, span := draftTracer.Start(ctx, "DraftService.Create")
	defer span.End()

	now := s.now().UTC()
	draft := &domain.Draft{
		ID:        xid.New().String(),
		Selection: domain.DefaultSelection(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	s.logger.Debug("draft created", zap.String("draft_id", draft.ID))
	return draft, nil
}

// Get loads a draft. Unknown or expired ids return ErrNotFound.
func (s *DraftService) Get(ctx context.Context, id string) (*domain.Draft, error) {
	ctx, span := draftTracer.Start(ctx, "DraftService.Get")
	defer span.End()

	if _, err := xid.FromString(id); err != nil {
		return nil, &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	return s.store.GetDraft(ctx, id)
}

// Save replaces the draft selection and refreshes its TTL.
func (s *DraftService) Save(ctx context.Context, id string, sel domain.QuoteSelection) (*domain.Draft, error) {
	ctx, span := draftTracer.Start(ctx, "DraftService.Save")
	defer span.End()

	draft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sel.Category != "" && !sel.Category.Valid() {
		return nil, &domain.ErrValidation{Field: "category", Message: "categoria desconhecida"}
	}

	draft.Selection = sel.Normalize()
	draft.UpdatedAt = s.now().UTC()
	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// Delete removes a draft, typically after confirmation.
func (s *DraftService) Delete(ctx context.Context, id string) error {
	ctx, span := draftTracer.Start(ctx, "DraftService.Delete")
	defer span.End()

	if _, err := xid.FromString(id); err != nil {
		return &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	return s.store.DeleteDraft(ctx, id)
}
