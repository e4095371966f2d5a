package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// NominatimClient geocodes addresses with the OpenStreetMap search API.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
}

// NewNominatimClient creates a new NominatimClient. Nominatim's usage policy
// requires an identifying User-Agent; in-flight lookups are capped at
// cfg.MaxConcurrency.
func NewNominatimClient(httpClient *http.Client, baseURL, userAgent string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *NominatimClient {
	return &NominatimClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to coordinates with retry, circuit breaker, and tracing.
func (c *NominatimClient) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	ctx, span := tracer.Start(ctx, "NominatimClient.Geocode")
	defer span.End()
	span.SetAttributes(attribute.String("geocode.address", address))

	var coords *domain.Coordinates

	err := c.bulkhead.Do(ctx, func() error {
		_, err := c.cb.Execute(func() (any, error) {
			return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
				q := url.Values{}
				q.Set("q", address)
				q.Set("format", "json")
				q.Set("limit", "1")
				q.Set("countrycodes", "br")

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
				if err != nil {
					return resilience.Permanent(err)
				}
				req.Header.Set("User-Agent", c.userAgent)
				req.Header.Set("Accept", "application/json")

				resp, err := c.httpClient.Do(req)
				if err != nil {
					return err
				}
				defer resp.Body.Close()

				if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return resilience.Permanent(fmt.Errorf("geocoder returned status %d", resp.StatusCode))
				}
				if resp.StatusCode != http.StatusOK {
					return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
				}

				var places []nominatimPlace
				if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
					return resilience.Permanent(fmt.Errorf("failed to decode geocoder response: %w", err))
				}
				if len(places) == 0 {
					coords = nil
					return nil
				}

				lat, err := strconv.ParseFloat(places[0].Lat, 64)
				if err != nil {
					return resilience.Permanent(fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err))
				}
				lon, err := strconv.ParseFloat(places[0].Lon, 64)
				if err != nil {
					return resilience.Permanent(fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err))
				}
				coords = &domain.Coordinates{Latitude: lat, Longitude: lon}
				return nil
			})
		})
		return err
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "geocoder", Err: err}
	}
	if coords == nil {
		return nil, &domain.ErrNotFound{Resource: "address", ID: address}
	}

	return coords, nil
}
