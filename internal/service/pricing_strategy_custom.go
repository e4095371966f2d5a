package service

import "github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

const customProjectLabel = "Projeto personalizado (sob consulta)"

// CustomStrategy always emits a single zero line. Zero here means "price to
// be negotiated"; the label carries that meaning to the UI.
type CustomStrategy struct {
	table *domain.PriceTable
}

func NewCustomStrategy(table *domain.PriceTable) *CustomStrategy {
	return &CustomStrategy{table: table}
}

func (s *CustomStrategy) CanHandle(category domain.ServiceCategory) bool {
	return category == domain.CategoryCustom
}

func (s *CustomStrategy) Price(_ domain.QuoteState, _ domain.PricingContext) *domain.PricingResult {
	result := domain.NewPricingResult()
	label := customProjectLabel
	if rule, ok := s.table.Rule(domain.CategoryCustom, domain.ServiceCustomProject); ok && rule.Label != "" {
		label = rule.Label
	}
	result.Add(label, 0, domain.LineBase)
	return result
}
