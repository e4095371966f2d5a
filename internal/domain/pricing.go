package domain

// ============================================================
// Catálogo: categorias, serviços e modos de cobrança
// ============================================================

// ServiceCategory selects the pricing strategy and decides which addons and
// freight rules apply.
type ServiceCategory string

const (
	CategoryWedding         ServiceCategory = "wedding"
	CategorySocial          ServiceCategory = "social"
	CategoryCommercial      ServiceCategory = "commercial"
	CategoryStudio          ServiceCategory = "studio"
	CategoryVideoProduction ServiceCategory = "video_production"
	CategoryCustom          ServiceCategory = "custom"
)

// Categories lists every known category in catalogue order.
var Categories = []ServiceCategory{
	CategoryWedding,
	CategorySocial,
	CategoryCommercial,
	CategoryStudio,
	CategoryVideoProduction,
	CategoryCustom,
}

// Valid reports whether c is a known category.
func (c ServiceCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ServiceID identifies an offering inside a category.
type ServiceID string

const (
	ServiceWeddingBase     ServiceID = "wedding_base"
	ServiceWeddingEssence  ServiceID = "wedding_essence"
	ServiceWeddingPremium  ServiceID = "wedding_premium"
	ServiceWeddingRealTime ServiceID = "realtime"

	ServiceGraduation ServiceID = "graduation"
	ServiceBirthday   ServiceID = "birthday"
	ServiceFifteen    ServiceID = "fifteen"
	ServiceBaptism    ServiceID = "baptism"

	ServiceCommPhoto ServiceID = "comm_photo"
	ServiceCommVideo ServiceID = "comm_video"
	ServiceCommCombo ServiceID = "comm_combo"

	ServiceStudioPhoto ServiceID = "studio_photo"
	ServiceStudioVideo ServiceID = "studio_video"

	ServiceEditOnly  ServiceID = "edit_only"
	ServiceCamCap    ServiceID = "cam_cap"
	ServiceMobileCap ServiceID = "mobile_cap"
	ServiceDrone     ServiceID = "drone"

	ServiceCustomProject ServiceID = "custom_project"
)

// SelectionMode says whether a service is billed by hours or by units.
type SelectionMode string

const (
	ModeDuration SelectionMode = "duration"
	ModeQuantity SelectionMode = "quantity"
)

// ============================================================
// Resultado do cálculo
// ============================================================

// LineType classifies a breakdown line.
type LineType string

const (
	LineBase    LineType = "base"
	LineAddon   LineType = "addon"
	LineFreight LineType = "freight"
)

// CurrencyBRL is the only currency quotes are priced in.
const CurrencyBRL = "BRL"

// PriceBreakdownItem is one rendered line of a quote. Value may be zero.
type PriceBreakdownItem struct {
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Type  LineType `json:"type"`
}

// PricingResult is the engine output. TotalPrice always equals the sum of
// Breakdown values, and Breakdown is ordered base, addons, freight.
type PricingResult struct {
	TotalPrice float64              `json:"totalPrice"`
	Breakdown  []PriceBreakdownItem `json:"breakdown"`
	Currency   string               `json:"currency"`
}

// NewPricingResult returns an empty result in the default currency.
func NewPricingResult() *PricingResult {
	return &PricingResult{
		Breakdown: []PriceBreakdownItem{},
		Currency:  CurrencyBRL,
	}
}

// Add appends a line and keeps TotalPrice in step with it.
func (r *PricingResult) Add(label string, value float64, lineType LineType) {
	r.Breakdown = append(r.Breakdown, PriceBreakdownItem{Label: label, Value: value, Type: lineType})
	r.TotalPrice += value
}

// HasLine reports whether any line has the given type.
func (r *PricingResult) HasLine(lineType LineType) bool {
	for _, item := range r.Breakdown {
		if item.Type == lineType {
			return true
		}
	}
	return false
}

// PricingContext is the per-calculation snapshot of admin rates and the
// computed trip distance. Distance <= 0 means "unknown", never "zero km".
type PricingContext struct {
	PhotoUnitPrice float64 `json:"photoUnitPrice"`
	VideoUnitPrice float64 `json:"videoUnitPrice"`
	Distance       float64 `json:"distance"`
	PricePerKm     float64 `json:"pricePerKm"`
	IsQuickMode    bool    `json:"isQuickMode"`
}
