package domain

import (
	"math"
	"time"
)

// PricingSettings are the admin-editable rates fed into every PricingContext.
type PricingSettings struct {
	PhotoUnitPrice float64   `json:"photoUnitPrice"`
	VideoUnitPrice float64   `json:"videoUnitPrice"`
	PricePerKm     float64   `json:"pricePerKm"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// UpdateSettingsRequest is the body of PUT /v1/admin/settings. Nil fields
// keep their current value.
type UpdateSettingsRequest struct {
	PhotoUnitPrice *float64 `json:"photoUnitPrice"`
	VideoUnitPrice *float64 `json:"videoUnitPrice"`
	PricePerKm     *float64 `json:"pricePerKm"`
}

// Validate rejects negative or non-finite rates.
func (r *UpdateSettingsRequest) Validate() error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"photoUnitPrice", r.PhotoUnitPrice},
		{"videoUnitPrice", r.VideoUnitPrice},
		{"pricePerKm", r.PricePerKm},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if math.IsNaN(*f.value) || math.IsInf(*f.value, 0) || *f.value < 0 {
			return &ErrValidation{Field: f.name, Message: "deve ser um número maior ou igual a zero"}
		}
	}
	return nil
}

// Apply returns s with the non-nil fields of r applied.
func (r *UpdateSettingsRequest) Apply(s PricingSettings) PricingSettings {
	if r.PhotoUnitPrice != nil {
		s.PhotoUnitPrice = *r.PhotoUnitPrice
	}
	if r.VideoUnitPrice != nil {
		s.VideoUnitPrice = *r.VideoUnitPrice
	}
	if r.PricePerKm != nil {
		s.PricePerKm = *r.PricePerKm
	}
	return s
}

// Context builds the pricing context for one calculation.
func (s PricingSettings) Context(distanceKm float64, quickMode bool) PricingContext {
	return PricingContext{
		PhotoUnitPrice: s.PhotoUnitPrice,
		VideoUnitPrice: s.VideoUnitPrice,
		PricePerKm:     s.PricePerKm,
		Distance:       distanceKm,
		IsQuickMode:    quickMode,
	}
}
