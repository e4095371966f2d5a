package service

import "github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

// WeddingStrategy charges the package base plus a flat hourly overage
// beyond the included block when billed by duration.
type WeddingStrategy struct {
	table *domain.PriceTable
}

func NewWeddingStrategy(table *domain.PriceTable) *WeddingStrategy {
	return &WeddingStrategy{table: table}
}

func (s *WeddingStrategy) CanHandle(category domain.ServiceCategory) bool {
	return category == domain.CategoryWedding
}

func (s *WeddingStrategy) Price(state domain.QuoteState, _ domain.PricingContext) *domain.PricingResult {
	result := domain.NewPricingResult()
	q, ok := state.(domain.WeddingQuote)
	if !ok {
		return result
	}

	rule, found := s.table.Rule(domain.CategoryWedding, q.Service())
	if !found {
		return addUnresolved(result)
	}
	result.Add(rule.Label, rule.Base, domain.LineBase)

	rates := s.table.Rates()
	if q.Mode == domain.ModeDuration && q.Hours > rates.WeddingHoursIncluded {
		extra := q.Hours - rates.WeddingHoursIncluded
		result.Add(extraHoursLabel(extra), float64(extra)*rates.WeddingExtraHour, domain.LineAddon)
	}
	return result
}
