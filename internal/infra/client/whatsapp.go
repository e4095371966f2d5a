package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
)

// WhatsAppCloudSender sends messages via WhatsApp Cloud API
type WhatsAppCloudSender struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
	cb            *gobreaker.CircuitBreaker
	cfg           resilience.Config
}

// NewWhatsAppCloudSender creates a new WhatsApp sender.
func NewWhatsAppCloudSender(httpClient *http.Client, baseURL, accessToken, phoneNumberID string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *WhatsAppCloudSender {
	return &WhatsAppCloudSender{
		httpClient:    httpClient,
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		cb:            cb,
		cfg:           cfg,
	}
}

type whatsAppTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type whatsAppResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText sends a text message and returns the WhatsApp message id.
func (w *WhatsAppCloudSender) SendText(ctx context.Context, to, body string) (string, error) {
	ctx, span := tracer.Start(ctx, "WhatsAppCloudSender.SendText")
	defer span.End()

	message := whatsAppTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	message.Text.PreviewURL = true
	message.Text.Body = body

	payload, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	var messageID string

	_, err = w.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, w.cfg, func() error {
			endpoint := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
			if err != nil {
				return resilience.Permanent(err)
			}
			req.Header.Set("Authorization", "Bearer "+w.accessToken)
			req.Header.Set("Content-Type", "application/json")

			resp, err := w.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			var out whatsAppResponse
			_ = json.Unmarshal(raw, &out)

			if resp.StatusCode != http.StatusOK {
				reason := string(raw)
				if out.Error != nil {
					reason = out.Error.Message
				}
				err := fmt.Errorf("WhatsApp API returned status %d: %s", resp.StatusCode, reason)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return resilience.Permanent(err)
				}
				return err
			}
			if len(out.Messages) == 0 {
				return resilience.Permanent(fmt.Errorf("no message ID in response"))
			}
			messageID = out.Messages[0].ID
			return nil
		})
	})

	if err != nil {
		return "", &domain.ErrExternalService{Service: "whatsapp", Err: err}
	}
	return messageID, nil
}
