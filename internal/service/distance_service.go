package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var distanceTracer = otel.Tracer("service/distance")

const earthRadiusKm = 6371.0

// DistanceService estimates the road distance from the studio to an event
// address: great-circle distance times a tortuosity factor.
type DistanceService struct {
	geocoder   port.Geocoder
	cache      port.Cache[*domain.DistanceResult]
	origin     domain.Coordinates
	tortuosity float64
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewDistanceService creates the distance service.
func NewDistanceService(
	geocoder port.Geocoder,
	cache port.Cache[*domain.DistanceResult],
	origin domain.Coordinates,
	tortuosity float64,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DistanceService {
	if tortuosity < 1 {
		tortuosity = 1
	}
	return &DistanceService{
		geocoder:   geocoder,
		cache:      cache,
		origin:     origin,
		tortuosity: tortuosity,
		metrics:    metrics,
		logger:     logger,
	}
}

// Distance geocodes address and returns the estimated one-way distance.
func (s *DistanceService) Distance(ctx context.Context, address string) (*domain.DistanceResult, error) {
	ctx, span := distanceTracer.Start(ctx, "DistanceService.Distance")
	defer span.End()

	key := normalizeAddress(address)
	if key == "" {
		return nil, &domain.ErrValidation{Field: "address", Message: "endereço é obrigatório"}
	}
	span.SetAttributes(attribute.String("distance.address", key))

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("distance")
		s.metrics.IncrDistanceLookup("cached")
		out := *cached
		return &out, nil
	}
	s.metrics.IncrCacheMiss("distance")

	dest, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.metrics.IncrDistanceLookup("error")
		var ext *domain.ErrExternalService
		if errors.As(err, &ext) {
			s.metrics.IncrExternalError("geocoder")
		}
		return nil, fmt.Errorf("geocode: %w", err)
	}

	straight := Haversine(s.origin, *dest)
	result := &domain.DistanceResult{
		Address:     strings.TrimSpace(address),
		Destination: *dest,
		StraightKm:  math.Round(straight*10) / 10,
		DistanceKm:  int(math.Round(straight * s.tortuosity)),
	}

	s.cache.Set(key, result)
	s.metrics.IncrDistanceLookup("ok")
	s.logger.Debug("distance resolved",
		zap.String("address", result.Address),
		zap.Int("distance_km", result.DistanceKm),
	)

	out := *result
	return &out, nil
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
