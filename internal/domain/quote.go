package domain

import (
	"strings"
	"time"
)

// ============================================================
// Orçamento: POST /v1/quotes/calculate
// ============================================================

// ContactInfo is who the quote is for.
type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// EventDetails describes when and where the job happens.
type EventDetails struct {
	Date    string `json:"date,omitempty"` // YYYY-MM-DD
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// EventDateLayout is the accepted EventDetails.Date format.
const EventDateLayout = "2006-01-02"

// ParsedDate returns the event date, or false when absent or malformed.
func (e EventDetails) ParsedDate() (time.Time, bool) {
	if strings.TrimSpace(e.Date) == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(EventDateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// QuoteRequest is the full configurator payload.
type QuoteRequest struct {
	Selection QuoteSelection `json:"selection"`
	Contact   ContactInfo    `json:"contact"`
	Event     EventDetails   `json:"event"`
	QuickMode bool           `json:"quickMode"`
}

// Availability of the requested date in the production calendar.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityUnknown     Availability = "unknown"
)

// QuoteResponse is the priced quote returned to the UI.
type QuoteResponse struct {
	QuoteID      string         `json:"quoteId"`
	Selection    QuoteSelection `json:"selection"`
	Result       PricingResult  `json:"result"`
	DistanceKm   int            `json:"distanceKm"`
	Availability Availability   `json:"availability"`
	CalculatedAt time.Time      `json:"calculatedAt"`
}

// ============================================================
// Confirmação: POST /v1/quotes/confirm
// ============================================================

// ConfirmRequest is a signed quote. Signature is a PNG data URL captured by
// the signature pad.
type ConfirmRequest struct {
	QuoteRequest
	Signature string `json:"signature"`
}

// Confirmation is returned after signing. Nothing is stored server-side.
type Confirmation struct {
	QuoteID              string        `json:"quoteId"`
	Quote                QuoteResponse `json:"quote"`
	Message              string        `json:"message"`
	WhatsAppURL          string        `json:"whatsappUrl"`
	SignatureFingerprint string        `json:"signatureFingerprint"`
	Delivered            bool          `json:"delivered"`
	ConfirmedAt          time.Time     `json:"confirmedAt"`
}

// PricingRequest is the body of POST /v1/pricing/calculate, the raw engine
// call. A nil Context means "use the current settings, no distance".
type PricingRequest struct {
	Selection QuoteSelection       `json:"selection"`
	Context   *PricingContextInput `json:"context,omitempty"`
}

// PricingContextInput is a PricingContext as sent by a client. Rates left
// out of the JSON stay nil and are taken from the current settings.
type PricingContextInput struct {
	PhotoUnitPrice *float64 `json:"photoUnitPrice,omitempty"`
	VideoUnitPrice *float64 `json:"videoUnitPrice,omitempty"`
	PricePerKm     *float64 `json:"pricePerKm,omitempty"`
	Distance       float64  `json:"distance"`
	IsQuickMode    bool     `json:"isQuickMode"`
}

// Over layers the supplied fields on top of base. A nil input returns base
// unchanged.
func (in *PricingContextInput) Over(base PricingContext) PricingContext {
	if in == nil {
		return base
	}
	out := base
	out.Distance = in.Distance
	out.IsQuickMode = in.IsQuickMode
	if in.PhotoUnitPrice != nil {
		out.PhotoUnitPrice = *in.PhotoUnitPrice
	}
	if in.VideoUnitPrice != nil {
		out.VideoUnitPrice = *in.VideoUnitPrice
	}
	if in.PricePerKm != nil {
		out.PricePerKm = *in.PricePerKm
	}
	return out
}
