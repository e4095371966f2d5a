package service

import "github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

// VideoProductionStrategy emits exactly one base line: editing is billed
// per video, captures and drone flights are fixed.
type VideoProductionStrategy struct {
	table *domain.PriceTable
}

func NewVideoProductionStrategy(table *domain.PriceTable) *VideoProductionStrategy {
	return &VideoProductionStrategy{table: table}
}

func (s *VideoProductionStrategy) CanHandle(category domain.ServiceCategory) bool {
	return category == domain.CategoryVideoProduction
}

func (s *VideoProductionStrategy) Price(state domain.QuoteState, _ domain.PricingContext) *domain.PricingResult {
	result := domain.NewPricingResult()
	q, ok := state.(domain.VideoProductionQuote)
	if !ok {
		return result
	}

	rule, found := s.table.Rule(domain.CategoryVideoProduction, q.Service())
	if !found {
		return addUnresolved(result)
	}

	switch q.Service() {
	case domain.ServiceEditOnly:
		result.Add(unitsLabel(rule.Label, q.Qty, "vídeos"), float64(q.Qty)*rule.Unit, domain.LineBase)
	case domain.ServiceCamCap, domain.ServiceMobileCap, domain.ServiceDrone:
		result.Add(rule.Label, rule.Fixed, domain.LineBase)
	default:
		return addUnresolved(result)
	}
	return result
}
