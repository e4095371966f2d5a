// Package supabase stores the admin pricing settings in a hosted
// Supabase project through its PostgREST endpoint.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

const (
	preferRows   = "return=representation"
	preferUpsert = "resolution=merge-duplicates,return=minimal"
)

// Client talks to the PostgREST API of a Supabase project.
type Client struct {
	httpClient *http.Client
	restURL    string
	anonKey    string
	serviceKey string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

func NewClient(httpClient *http.Client, baseURL, anonKey, serviceKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		restURL:    baseURL + "/rest/v1/",
		anonKey:    anonKey,
		serviceKey: serviceKey,
		cb:         cb,
		cfg:        cfg,
		logger:     logger.With(zap.String("backend", "supabase")),
	}
}

// Ping issues the cheapest query against the settings table.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodGet, settingsTable+"?select=id&limit=1", nil, preferRows)
	return err
}

// send performs one PostgREST call. A nil payload sends no body. Empty
// results (404/204) come back as a nil slice without error.
func (c *Client) send(ctx context.Context, method, resource string, payload any, prefer string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, resilience.Permanent(fmt.Errorf("encode %s payload: %w", resource, err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.restURL+resource, reader)
	if err != nil {
		return nil, resilience.Permanent(err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", prefer)

	log := c.logger.With(zap.String("method", method), zap.String("resource", resource))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("postgrest call failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", resource, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode >= 300:
		log.Warn("postgrest rejected call", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, statusError(resp.StatusCode, body)
	}

	log.Debug("postgrest call ok", zap.Int("status", resp.StatusCode))
	return body, nil
}

// statusError marks 4xx responses except 429 as permanent so the retry loop
// gives up on them.
func statusError(status int, body []byte) error {
	err := fmt.Errorf("postgrest status %d: %s", status, body)
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return resilience.Permanent(err)
	}
	return err
}
