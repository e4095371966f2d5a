package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// CalendarClient checks the production calendar through the Google
// Calendar freeBusy endpoint.
type CalendarClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	calendarID string
	location   *time.Location
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewCalendarClient creates a new CalendarClient. Days are evaluated in loc.
func NewCalendarClient(httpClient *http.Client, baseURL, apiKey, calendarID string, loc *time.Location, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *CalendarClient {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		calendarID: calendarID,
		location:   loc,
		cb:         cb,
		cfg:        cfg,
	}
}

type freeBusyRequest struct {
	TimeMin  string         `json:"timeMin"`
	TimeMax  string         `json:"timeMax"`
	TimeZone string         `json:"timeZone"`
	Items    []freeBusyItem `json:"items"`
}

type freeBusyItem struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"busy"`
		Errors []struct {
			Domain string `json:"domain"`
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"calendars"`
}

// IsAvailable reports whether the calendar has no busy block on the given day.
func (c *CalendarClient) IsAvailable(ctx context.Context, date time.Time) (bool, error) {
	ctx, span := tracer.Start(ctx, "CalendarClient.IsAvailable")
	defer span.End()
	span.SetAttributes(attribute.String("calendar.date", date.Format(domain.EventDateLayout)))

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.location)
	end := start.AddDate(0, 0, 1)

	var available bool

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			payload, err := json.Marshal(freeBusyRequest{
				TimeMin:  start.Format(time.RFC3339),
				TimeMax:  end.Format(time.RFC3339),
				TimeZone: c.location.String(),
				Items:    []freeBusyItem{{ID: c.calendarID}},
			})
			if err != nil {
				return resilience.Permanent(err)
			}

			endpoint := fmt.Sprintf("%s/freeBusy?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
			if err != nil {
				return resilience.Permanent(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return resilience.Permanent(fmt.Errorf("calendar API returned status %d", resp.StatusCode))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("calendar API returned status %d", resp.StatusCode)
			}

			var out freeBusyResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return resilience.Permanent(fmt.Errorf("failed to decode freeBusy response: %w", err))
			}

			cal, ok := out.Calendars[c.calendarID]
			if !ok {
				return resilience.Permanent(fmt.Errorf("calendar %s missing from response", c.calendarID))
			}
			if len(cal.Errors) > 0 {
				return resilience.Permanent(fmt.Errorf("calendar error: %s", cal.Errors[0].Reason))
			}
			available = len(cal.Busy) == 0
			return nil
		})
	})

	if err != nil {
		return false, &domain.ErrExternalService{Service: "calendar", Err: err}
	}
	return available, nil
}
