package service

import "github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

// CommercialStrategy bills photos and videos per unit at the admin rates.
// The combo is a flat price and ignores the quantity.
type CommercialStrategy struct {
	table *domain.PriceTable
}

func NewCommercialStrategy(table *domain.PriceTable) *CommercialStrategy {
	return &CommercialStrategy{table: table}
}

func (s *CommercialStrategy) CanHandle(category domain.ServiceCategory) bool {
	return category == domain.CategoryCommercial
}

func (s *CommercialStrategy) Price(state domain.QuoteState, pctx domain.PricingContext) *domain.PricingResult {
	result := domain.NewPricingResult()
	q, ok := state.(domain.CommercialQuote)
	if !ok {
		return result
	}

	rule, found := s.table.Rule(domain.CategoryCommercial, q.Service())
	if !found {
		return addUnresolved(result)
	}

	switch q.Service() {
	case domain.ServiceCommPhoto:
		result.Add(unitsLabel(rule.Label, q.Qty, "fotos"), float64(q.Qty)*pctx.PhotoUnitPrice, domain.LineBase)
	case domain.ServiceCommVideo:
		result.Add(unitsLabel(rule.Label, q.Qty, "vídeos"), float64(q.Qty)*pctx.VideoUnitPrice, domain.LineBase)
	case domain.ServiceCommCombo:
		// TODO: confirm with the business whether the combo should scale with qty.
		result.Add(rule.Label, rule.VideoBase, domain.LineBase)
	default:
		return addUnresolved(result)
	}
	return result
}
