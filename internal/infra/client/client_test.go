package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/client"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = resilience.Config{MaxRetries: 2, InitialBackoff: 5 * time.Millisecond}

// --- Nominatim ---

func TestNominatim_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Rua Augusta, São Paulo", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "quote-bfa-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"-23.5558","lon":"-46.6623","display_name":"Rua Augusta"}]`))
	}))
	defer srv.Close()

	c := client.NewNominatimClient(srv.Client(), srv.URL, "quote-bfa-test", resilience.NewCircuitBreaker("geo-test"), testCfg)
	coords, err := c.Geocode(context.Background(), "Rua Augusta, São Paulo")

	require.NoError(t, err)
	assert.InDelta(t, -23.5558, coords.Latitude, 1e-9)
	assert.InDelta(t, -46.6623, coords.Longitude, 1e-9)
}

func TestNominatim_NoResultsIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := client.NewNominatimClient(srv.Client(), srv.URL, "ua", resilience.NewCircuitBreaker("geo-empty"), testCfg)
	_, err := c.Geocode(context.Background(), "lugar nenhum")

	var nf *domain.ErrNotFound
	assert.True(t, errors.As(err, &nf), "got %v", err)
}

func TestNominatim_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	}))
	defer srv.Close()

	c := client.NewNominatimClient(srv.Client(), srv.URL, "ua", resilience.NewCircuitBreaker("geo-retry"), testCfg)
	coords, err := c.Geocode(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, &domain.Coordinates{Latitude: 1, Longitude: 2}, coords)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNominatim_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := client.NewNominatimClient(srv.Client(), srv.URL, "ua", resilience.NewCircuitBreaker("geo-403"), testCfg)
	_, err := c.Geocode(context.Background(), "x")

	var ext *domain.ErrExternalService
	assert.True(t, errors.As(err, &ext))
	assert.Equal(t, "geocoder", ext.Service)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// --- Calendar ---

func calendarServer(t *testing.T, busy bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/freeBusy", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var body struct {
			TimeMin string `json:"timeMin"`
			TimeMax string `json:"timeMax"`
			Items   []struct {
				ID string `json:"id"`
			} `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-11-21T00:00:00-03:00", body.TimeMin)
		assert.Equal(t, "2026-11-22T00:00:00-03:00", body.TimeMax)
		require.Len(t, body.Items, 1)

		busyBlocks := `[]`
		if busy {
			busyBlocks = `[{"start":"2026-11-21T15:00:00Z","end":"2026-11-21T23:00:00Z"}]`
		}
		_, _ = w.Write([]byte(`{"calendars":{"` + body.Items[0].ID + `":{"busy":` + busyBlocks + `}}}`))
	}))
}

func TestCalendar_IsAvailable(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	date := time.Date(2026, 11, 21, 0, 0, 0, 0, time.UTC)

	for _, busy := range []bool{false, true} {
		srv := calendarServer(t, busy)
		c := client.NewCalendarClient(srv.Client(), srv.URL, "secret", "agenda@studio", loc, resilience.NewCircuitBreaker("cal"), testCfg)

		available, err := c.IsAvailable(context.Background(), date)
		require.NoError(t, err)
		assert.Equal(t, !busy, available)
		srv.Close()
	}
}

func TestCalendar_UnknownCalendarIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"calendars":{}}`))
	}))
	defer srv.Close()

	c := client.NewCalendarClient(srv.Client(), srv.URL, "k", "missing", nil, resilience.NewCircuitBreaker("cal-missing"), testCfg)
	_, err := c.IsAvailable(context.Background(), time.Now())

	var ext *domain.ErrExternalService
	assert.True(t, errors.As(err, &ext))
}

// --- WhatsApp ---

func TestWhatsApp_SendText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var msg map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "whatsapp", msg["messaging_product"])
		assert.Equal(t, "text", msg["type"])
		assert.Equal(t, "5511999999999", msg["to"])
		assert.Equal(t, "Olá!", msg["text"].(map[string]any)["body"])

		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer srv.Close()

	s := client.NewWhatsAppCloudSender(srv.Client(), srv.URL, "token", "12345", resilience.NewCircuitBreaker("wa"), testCfg)
	id, err := s.SendText(context.Background(), "5511999999999", "Olá!")

	require.NoError(t, err)
	assert.Equal(t, "wamid.ABC", id)
}

func TestWhatsApp_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer srv.Close()

	s := client.NewWhatsAppCloudSender(srv.Client(), srv.URL, "token", "1", resilience.NewCircuitBreaker("wa-err"), testCfg)
	_, err := s.SendText(context.Background(), "1", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid parameter")
}

// --- Telegram ---

type fakeTelegram struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegram_Notify(t *testing.T) {
	bot := &fakeTelegram{}
	n := client.NewTelegramNotifier(bot, 4242)

	require.NoError(t, n.Notify(context.Background(), "Novo orçamento confirmado"))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(4242), msg.ChatID)
	assert.Equal(t, "Novo orçamento confirmado", msg.Text)
}

func TestTelegram_NotifyError(t *testing.T) {
	n := client.NewTelegramNotifier(&fakeTelegram{err: errors.New("chat not found")}, 1)

	err := n.Notify(context.Background(), "x")
	var ext *domain.ErrExternalService
	assert.True(t, errors.As(err, &ext))
	assert.Equal(t, "telegram", ext.Service)
}
