package domain

// ============================================================
// QuoteState: seleção do cliente, uma variante por categoria
// ============================================================
//
// Cada categoria tem seu próprio tipo, com o tipo de serviço correspondente.
// Assim não existe combinação (categoria, serviço) trocada: um WeddingQuote
// só aceita WeddingService. Um QuoteState nil é o estado inicial do
// configurador, antes do cliente escolher uma categoria.

// QuoteState is implemented only by the category variants below.
type QuoteState interface {
	Category() ServiceCategory
	Service() ServiceID
	Extras() Addons
	isQuoteState()
}

// Addons are the cross-category toggles. Every variant carries them; the
// adjustment pass decides whether they are billable for the category.
type Addons struct {
	Drone    bool `json:"addDrone"`
	RealTime bool `json:"addRealTime"`
}

// Extras returns the addon toggles.
func (a Addons) Extras() Addons { return a }

type (
	WeddingService    ServiceID
	SocialService     ServiceID
	CommercialService ServiceID
	StudioService     ServiceID
	VideoService      ServiceID
)

// WeddingQuote is a wedding coverage selection.
type WeddingQuote struct {
	ServiceID WeddingService
	Hours     int
	Mode      SelectionMode
	Addons
}

func (WeddingQuote) Category() ServiceCategory { return CategoryWedding }
func (q WeddingQuote) Service() ServiceID { return ServiceID(q.ServiceID) }
func (WeddingQuote) isQuoteState() {}

// SocialQuote covers birthdays, fifteenth birthdays, baptisms and graduations.
type SocialQuote struct {
	ServiceID SocialService
	Hours     int
	Qty       int
	Mode      SelectionMode
	Addons
}

func (SocialQuote) Category() ServiceCategory { return CategorySocial }
func (q SocialQuote) Service() ServiceID { return ServiceID(q.ServiceID) }
func (SocialQuote) isQuoteState() {}

// CommercialQuote is billed per photo or per video, except the combo.
type CommercialQuote struct {
	ServiceID CommercialService
	Qty       int
	Addons
}

func (CommercialQuote) Category() ServiceCategory { return CategoryCommercial }
func (q CommercialQuote) Service() ServiceID { return ServiceID(q.ServiceID) }
func (CommercialQuote) isQuoteState() {}

// StudioQuote is an in-studio session, by hours or by units.
type StudioQuote struct {
	ServiceID StudioService
	Hours     int
	Qty       int
	Mode      SelectionMode
	Addons
}

func (StudioQuote) Category() ServiceCategory { return CategoryStudio }
func (q StudioQuote) Service() ServiceID { return ServiceID(q.ServiceID) }
func (StudioQuote) isQuoteState() {}

// VideoProductionQuote covers editing, capture and drone jobs.
type VideoProductionQuote struct {
	ServiceID VideoService
	Qty       int
	Addons
}

func (VideoProductionQuote) Category() ServiceCategory { return CategoryVideoProduction }
func (q VideoProductionQuote) Service() ServiceID { return ServiceID(q.ServiceID) }
func (VideoProductionQuote) isQuoteState() {}

// CustomQuote is a project priced by negotiation.
type CustomQuote struct {
	Addons
}

func (CustomQuote) Category() ServiceCategory { return CategoryCustom }
func (CustomQuote) Service() ServiceID { return ServiceCustomProject }
func (CustomQuote) isQuoteState() {}

// ============================================================
// QuoteSelection: formato JSON trocado com o frontend
// ============================================================

// MinHours is the minimum coverage block.
const MinHours = 2

// QuoteSelection is the flat wire shape the configurator UI sends.
type QuoteSelection struct {
	Category      ServiceCategory `json:"category"`
	ServiceID     ServiceID       `json:"serviceId"`
	Hours         int             `json:"hours"`
	Qty           int             `json:"qty"`
	AddDrone      bool            `json:"addDrone"`
	AddRealTime   bool            `json:"addRealTime"`
	SelectionMode SelectionMode   `json:"selectionMode"`
}

// DefaultSelection is the state the configurator opens with.
func DefaultSelection() QuoteSelection {
	return QuoteSelection{
		Hours:         MinHours,
		SelectionMode: ModeDuration,
	}
}

// Normalize raises hours to the minimum block and clamps negative quantities.
func (s QuoteSelection) Normalize() QuoteSelection {
	if s.Hours < MinHours {
		s.Hours = MinHours
	}
	if s.Qty < 0 {
		s.Qty = 0
	}
	if s.SelectionMode != ModeQuantity {
		s.SelectionMode = ModeDuration
	}
	return s
}

// State converts the selection into its category variant. It returns nil
// when no known category is selected.
func (s QuoteSelection) State() QuoteState {
	s = s.Normalize()
	addons := Addons{Drone: s.AddDrone, RealTime: s.AddRealTime}

	switch s.Category {
	case CategoryWedding:
		return WeddingQuote{ServiceID: WeddingService(s.ServiceID), Hours: s.Hours, Mode: s.SelectionMode, Addons: addons}
	case CategorySocial:
		return SocialQuote{ServiceID: SocialService(s.ServiceID), Hours: s.Hours, Qty: s.Qty, Mode: s.SelectionMode, Addons: addons}
	case CategoryCommercial:
		return CommercialQuote{ServiceID: CommercialService(s.ServiceID), Qty: s.Qty, Addons: addons}
	case CategoryStudio:
		return StudioQuote{ServiceID: StudioService(s.ServiceID), Hours: s.Hours, Qty: s.Qty, Mode: s.SelectionMode, Addons: addons}
	case CategoryVideoProduction:
		return VideoProductionQuote{ServiceID: VideoService(s.ServiceID), Qty: s.Qty, Addons: addons}
	case CategoryCustom:
		return CustomQuote{Addons: addons}
	default:
		return nil
	}
}
