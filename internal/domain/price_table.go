package domain

// ============================================================
// Tabela de preços
// ============================================================

// PriceRule is one catalogue entry. Only the numeric fields meaningful for
// the service are set; Label and Description are presentation text.
type PriceRule struct {
	Label         string  `json:"label"`
	Description   string  `json:"description,omitempty"`
	Base          float64 `json:"base,omitempty"`
	HoursIncluded int     `json:"hoursIncluded,omitempty"`
	HourPrice     float64 `json:"hourPrice,omitempty"`
	Unit          float64 `json:"unit,omitempty"`
	Fixed         float64 `json:"fixed,omitempty"`
	VideoBase     float64 `json:"videoBase,omitempty"`
}

// Rates are the category-level constants that are not tied to one service.
type Rates struct {
	WeddingHoursIncluded int     `json:"weddingHoursIncluded"`
	WeddingExtraHour     float64 `json:"weddingExtraHour"`
	StudioSessionBase    float64 `json:"studioSessionBase"`
	StudioHoursIncluded  int     `json:"studioHoursIncluded"`
	StudioExtraHour      float64 `json:"studioExtraHour"`
}

// DefaultRates returns the standard overage rates.
func DefaultRates() Rates {
	return Rates{
		WeddingHoursIncluded: 2,
		WeddingExtraHour:     250,
		StudioSessionBase:    350,
		StudioHoursIncluded:  2,
		StudioExtraHour:      200,
	}
}

// PriceTable is the immutable catalogue handed to the pricing engine.
// Build it with NewPriceTable or DefaultPriceTable; the rules are copied on
// the way in and on the way out.
type PriceTable struct {
	rules map[ServiceCategory]map[ServiceID]PriceRule
	rates Rates
}

// PriceTableData is the serialisable form of a PriceTable.
type PriceTableData struct {
	Rules map[ServiceCategory]map[ServiceID]PriceRule `json:"rules"`
	Rates Rates                                       `json:"rates"`
}

// NewPriceTable builds a table from raw data.
func NewPriceTable(data PriceTableData) *PriceTable {
	rules := make(map[ServiceCategory]map[ServiceID]PriceRule, len(data.Rules))
	for category, services := range data.Rules {
		inner := make(map[ServiceID]PriceRule, len(services))
		for id, rule := range services {
			inner[id] = rule
		}
		rules[category] = inner
	}
	return &PriceTable{rules: rules, rates: data.Rates}
}

// Rule looks up the rule for a service inside a category.
func (t *PriceTable) Rule(category ServiceCategory, id ServiceID) (PriceRule, bool) {
	if t == nil {
		return PriceRule{}, false
	}
	rule, ok := t.rules[category][id]
	return rule, ok
}

// Rates returns the category-level constants.
func (t *PriceTable) Rates() Rates {
	if t == nil {
		return Rates{}
	}
	return t.rates
}

// DronePrice is the drone addon price. It is the video_production drone
// entry, so both stay in step.
func (t *PriceTable) DronePrice() float64 {
	rule, _ := t.Rule(CategoryVideoProduction, ServiceDrone)
	return rule.Fixed
}

// RealTimePrice is the real-time photos addon price, taken from the
// wedding realtime entry.
func (t *PriceTable) RealTimePrice() float64 {
	rule, _ := t.Rule(CategoryWedding, ServiceWeddingRealTime)
	return rule.Fixed
}

// Data returns a deep copy of the table, used by the catalogue endpoint.
func (t *PriceTable) Data() PriceTableData {
	if t == nil {
		return PriceTableData{Rules: map[ServiceCategory]map[ServiceID]PriceRule{}}
	}
	out := PriceTableData{
		Rules: make(map[ServiceCategory]map[ServiceID]PriceRule, len(t.rules)),
		Rates: t.rates,
	}
	for category, services := range t.rules {
		inner := make(map[ServiceID]PriceRule, len(services))
		for id, rule := range services {
			inner[id] = rule
		}
		out.Rules[category] = inner
	}
	return out
}

// DefaultPriceTable returns the standard catalogue.
func DefaultPriceTable() *PriceTable {
	return NewPriceTable(DefaultPriceTableData())
}

// DefaultPriceTableData returns the raw standard catalogue.
func DefaultPriceTableData() PriceTableData {
	return PriceTableData{
		Rates: DefaultRates(),
		Rules: map[ServiceCategory]map[ServiceID]PriceRule{
			CategoryWedding: {
				ServiceWeddingBase: {
					Label:       "Casamento Civil",
					Description: "Cerimônia civil, 2h de cobertura, 150 fotos tratadas",
					Base:        650,
				},
				ServiceWeddingEssence: {
					Label:       "Casamento Essência",
					Description: "Making of, cerimônia e recepção, 400 fotos tratadas",
					Base:        1750,
				},
				ServiceWeddingPremium: {
					Label:       "Casamento Premium",
					Description: "Cobertura completa, álbum impresso e vídeo highlight",
					Base:        2900,
				},
				ServiceWeddingRealTime: {
					Label:       "Fotos em tempo real",
					Description: "Entrega das fotos durante o evento",
					Fixed:       600,
				},
			},
			CategorySocial: {
				ServiceGraduation: {
					Label:       "Formatura",
					Description: "Colação e baile, fotos tratadas em galeria online",
					Base:        900,
				},
				ServiceBirthday: {
					Label:         "Aniversário",
					Description:   "2h de cobertura, fotos tratadas em galeria online",
					Base:          400,
					HoursIncluded: 2,
					HourPrice:     250,
					Unit:          25,
				},
				ServiceFifteen: {
					Label:         "Festa de 15 anos",
					Description:   "4h de cobertura, ensaio pré-festa incluso",
					Base:          900,
					HoursIncluded: 4,
					HourPrice:     250,
					Unit:          25,
				},
				ServiceBaptism: {
					Label:         "Batizado",
					Description:   "Cerimônia e recepção, 2h de cobertura",
					Base:          350,
					HoursIncluded: 2,
					HourPrice:     250,
					Unit:          25,
				},
			},
			CategoryCommercial: {
				ServiceCommPhoto: {
					Label:       "Fotos comerciais",
					Description: "Produtos, equipe ou ambiente, por foto tratada",
					Unit:        25,
				},
				ServiceCommVideo: {
					Label:       "Vídeos comerciais",
					Description: "Reels e vídeos curtos, por vídeo editado",
					Unit:        180,
				},
				ServiceCommCombo: {
					Label:       "Combo 10 fotos + 1 reel",
					Description: "Pacote de entrada para redes sociais",
					VideoBase:   490,
				},
			},
			CategoryStudio: {
				ServiceStudioPhoto: {
					Label:       "Ensaio em estúdio",
					Description: "Fotos tratadas, cobradas por unidade",
					Unit:        25,
				},
				ServiceStudioVideo: {
					Label:       "Gravação em estúdio",
					Description: "Diária de estúdio com iluminação",
					Base:        300,
				},
			},
			CategoryVideoProduction: {
				ServiceEditOnly: {
					Label:       "Edição de vídeo",
					Description: "Edição do material enviado pelo cliente, por vídeo",
					Unit:        150,
				},
				ServiceCamCap: {
					Label:       "Captação com câmera",
					Description: "Captação profissional, até 4h",
					Fixed:       450,
				},
				ServiceMobileCap: {
					Label:       "Captação mobile",
					Description: "Captação com celular e estabilizador, até 3h",
					Fixed:       300,
				},
				ServiceDrone: {
					Label:       "Imagens aéreas (drone)",
					Description: "Voo com drone, fotos e vídeo aéreo",
					Fixed:       250,
				},
			},
			CategoryCustom: {
				ServiceCustomProject: {
					Label:       "Projeto personalizado (sob consulta)",
					Description: "Escopo e valor definidos em conversa",
				},
			},
		},
	}
}

// Catalog is the GET /v1/catalog payload the selection UI renders from.
type Catalog struct {
	Categories    []ServiceCategory                           `json:"categories"`
	Rules         map[ServiceCategory]map[ServiceID]PriceRule `json:"rules"`
	Rates         Rates                                       `json:"rates"`
	DronePrice    float64                                     `json:"dronePrice"`
	RealTimePrice float64                                     `json:"realTimePrice"`
	Currency      string                                      `json:"currency"`
}

// Catalog returns the table in its UI shape.
func (t *PriceTable) Catalog() Catalog {
	data := t.Data()
	return Catalog{
		Categories:    append([]ServiceCategory(nil), Categories...),
		Rules:         data.Rules,
		Rates:         data.Rates,
		DronePrice:    t.DronePrice(),
		RealTimePrice: t.RealTimePrice(),
		Currency:      CurrencyBRL,
	}
}
