// quote_service.go orquestra o orçamento completo: configurações,
// distância e agenda em paralelo, depois o PricingEngine.

package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/quote")

const (
	signaturePrefix   = "data:image/png;base64,"
	maxSignatureBytes = 512 << 10
	minPhoneDigits    = 10
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// AlwaysAvailable is the AvailabilityChecker used when no calendar is configured.
type AlwaysAvailable struct{}

func (AlwaysAvailable) IsAvailable(context.Context, time.Time) (bool, error) { return true, nil }

// QuoteService prices configurator requests and confirms signed quotes.
type QuoteService struct {
	engine           *PricingEngine
	settings         *SettingsService
	distance         *DistanceService
	availability     port.AvailabilityChecker
	sender           port.MessageSender
	notifier         port.Notifier
	businessWhatsApp string
	metrics          *observability.Metrics
	logger           *zap.Logger
	now              func() time.Time
}

// QuoteServiceDeps groups the QuoteService collaborators. Availability,
// Sender and Notifier are optional.
type QuoteServiceDeps struct {
	Engine           *PricingEngine
	Settings         *SettingsService
	Distance         *DistanceService
	Availability     port.AvailabilityChecker
	Sender           port.MessageSender
	Notifier         port.Notifier
	BusinessWhatsApp string
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewQuoteService creates the quote service with all dependencies injected.
func NewQuoteService(deps QuoteServiceDeps) *QuoteService {
	availability := deps.Availability
	if availability == nil {
		availability = AlwaysAvailable{}
	}
	return &QuoteService{
		engine:           deps.Engine,
		settings:         deps.Settings,
		distance:         deps.Distance,
		availability:     availability,
		sender:           deps.Sender,
		notifier:         deps.Notifier,
		businessWhatsApp: deps.BusinessWhatsApp,
		metrics:          deps.Metrics,
		logger:           deps.Logger,
		now:              time.Now,
	}
}

// Engine returns the pricing engine.
func (s *QuoteService) Engine() *PricingEngine {
	return s.engine
}

// ============================================================
// Calculate: POST /v1/quotes/calculate
// ============================================================

// Calculate prices a configurator request. Settings, distance and
// availability are fetched concurrently; a failing collaborator degrades
// (distance 0, availability unknown) instead of failing the quote.
func (s *QuoteService) Calculate(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	ctx, span := tracer.Start(ctx, "QuoteService.Calculate")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("quote.calculate", time.Since(start))
	}()

	quote, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuote(quote.Selection.Category, quote.Result.TotalPrice)

	s.logger.Info("quote calculated",
		zap.String("quote_id", quote.QuoteID),
		zap.String("category", string(quote.Selection.Category)),
		zap.Float64("total", quote.Result.TotalPrice),
		zap.Int("distance_km", quote.DistanceKm),
		zap.String("availability", string(quote.Availability)),
	)
	return quote, nil
}

// price gathers the collaborators and runs the engine. Quote counters are
// left to the caller.
func (s *QuoteService) price(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	ctx, span := tracer.Start(ctx, "QuoteService.price")
	defer span.End()

	sel := req.Selection.Normalize()
	span.SetAttributes(
		attribute.String("quote.category", string(sel.Category)),
		attribute.String("quote.service_id", string(sel.ServiceID)),
		attribute.Bool("quote.quick_mode", req.QuickMode),
	)

	var (
		settings     *domain.PricingSettings
		distanceKm   int
		availability = domain.AvailabilityUnknown
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		settings = s.settings.Get(gCtx)
		return nil
	})

	if !req.QuickMode && strings.TrimSpace(req.Event.Address) != "" && s.distance != nil {
		g.Go(func() error {
			d, err := s.distance.Distance(gCtx, req.Event.Address)
			if err != nil {
				s.logger.Warn("distance lookup failed, freight left open",
					zap.String("address", req.Event.Address),
					zap.Error(err),
				)
				return nil
			}
			distanceKm = d.DistanceKm
			return nil
		})
	}

	if date, ok := req.Event.ParsedDate(); ok {
		g.Go(func() error {
			free, err := s.availability.IsAvailable(gCtx, date)
			if err != nil {
				s.logger.Warn("availability check failed",
					zap.String("date", req.Event.Date),
					zap.Error(err),
				)
				s.metrics.IncrExternalError("calendar")
				return nil
			}
			if free {
				availability = domain.AvailabilityAvailable
			} else {
				availability = domain.AvailabilityUnavailable
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	pctx := settings.Context(float64(distanceKm), req.QuickMode)
	result := s.engine.CalculateSelection(sel, pctx)

	return &domain.QuoteResponse{
		QuoteID:      uuid.New().String(),
		Selection:    sel,
		Result:       result,
		DistanceKm:   distanceKm,
		Availability: availability,
		CalculatedAt: s.now().UTC(),
	}, nil
}

// ============================================================
// Confirm: POST /v1/quotes/confirm
// ============================================================

// Confirm validates a signed quote, re-prices it server-side and hands the
// summary to the studio. Delivery is best-effort; nothing is stored.
func (s *QuoteService) Confirm(ctx context.Context, req *domain.ConfirmRequest) (*domain.Confirmation, error) {
	ctx, span := tracer.Start(ctx, "QuoteService.Confirm")
	defer span.End()

	if err := validateContact(req.Contact); err != nil {
		return nil, err
	}
	if req.Selection.State() == nil {
		return nil, &domain.ErrValidation{Field: "selection.category", Message: "selecione uma categoria"}
	}
	png, err := decodeSignature(req.Signature)
	if err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, &req.QuoteRequest)
	if err != nil {
		return nil, fmt.Errorf("price quote: %w", err)
	}

	message := BuildWhatsAppMessage(&req.QuoteRequest, quote)
	sum := sha256.Sum256(png)

	confirmation := &domain.Confirmation{
		QuoteID:              quote.QuoteID,
		Quote:                *quote,
		Message:              message,
		WhatsAppURL:          WhatsAppLink(s.businessWhatsApp, message),
		SignatureFingerprint: hex.EncodeToString(sum[:]),
		ConfirmedAt:          s.now().UTC(),
	}

	if s.sender != nil {
		id, err := s.sender.SendText(ctx, DigitsOnly(req.Contact.Phone), message)
		if err != nil {
			s.logger.Warn("whatsapp delivery failed",
				zap.String("quote_id", quote.QuoteID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("whatsapp")
		} else {
			confirmation.Delivered = true
			s.logger.Info("whatsapp message sent",
				zap.String("quote_id", quote.QuoteID),
				zap.String("message_id", id),
			)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, message); err != nil {
			s.logger.Warn("owner notification failed",
				zap.String("quote_id", quote.QuoteID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("telegram")
		}
	}

	s.metrics.IncrConfirmation()
	s.logger.Info("quote confirmed",
		zap.String("quote_id", quote.QuoteID),
		zap.String("signature_sha256", confirmation.SignatureFingerprint),
		zap.Bool("delivered", confirmation.Delivered),
	)

	return confirmation, nil
}

func validateContact(c domain.ContactInfo) error {
	if strings.TrimSpace(c.Name) == "" {
		return &domain.ErrValidation{Field: "contact.name", Message: "nome é obrigatório"}
	}
	if len(DigitsOnly(c.Phone)) < minPhoneDigits {
		return &domain.ErrValidation{Field: "contact.phone", Message: "telefone inválido"}
	}
	return nil
}

// decodeSignature checks the signature pad output and returns the PNG bytes.
func decodeSignature(sig string) ([]byte, error) {
	if !strings.HasPrefix(sig, signaturePrefix) {
		return nil, &domain.ErrValidation{Field: "signature", Message: "assinatura deve ser uma imagem PNG"}
	}
	encoded := strings.TrimPrefix(sig, signaturePrefix)
	if base64.StdEncoding.DecodedLen(len(encoded)) > maxSignatureBytes+2 {
		return nil, &domain.ErrValidation{Field: "signature", Message: "assinatura muito grande"}
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "signature", Message: "assinatura corrompida"}
	}
	if len(raw) > maxSignatureBytes {
		return nil, &domain.ErrValidation{Field: "signature", Message: "assinatura muito grande"}
	}
	if len(raw) < len(pngMagic) || string(raw[:len(pngMagic)]) != string(pngMagic) {
		return nil, &domain.ErrValidation{Field: "signature", Message: "assinatura deve ser uma imagem PNG"}
	}
	return raw, nil
}
