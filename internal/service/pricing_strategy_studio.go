package service

import (
	"fmt"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// StudioStrategy prices in-studio work. By quantity, photos follow the admin
// rate and anything else is the studio_video day rate. By duration, it is a
// fixed session with its own hourly overage.
type StudioStrategy struct {
	table *domain.PriceTable
}

func NewStudioStrategy(table *domain.PriceTable) *StudioStrategy {
	return &StudioStrategy{table: table}
}

func (s *StudioStrategy) CanHandle(category domain.ServiceCategory) bool {
	return category == domain.CategoryStudio
}

func (s *StudioStrategy) Price(state domain.QuoteState, pctx domain.PricingContext) *domain.PricingResult {
	result := domain.NewPricingResult()
	q, ok := state.(domain.StudioQuote)
	if !ok {
		return result
	}

	if q.Mode == domain.ModeQuantity {
		if q.Service() == domain.ServiceStudioPhoto {
			rule, found := s.table.Rule(domain.CategoryStudio, domain.ServiceStudioPhoto)
			if !found {
				return addUnresolved(result)
			}
			result.Add(unitsLabel(rule.Label, q.Qty, "fotos"), float64(q.Qty)*pctx.PhotoUnitPrice, domain.LineBase)
			return result
		}

		rule, found := s.table.Rule(domain.CategoryStudio, domain.ServiceStudioVideo)
		if !found {
			return addUnresolved(result)
		}
		result.Add(rule.Label, rule.Base, domain.LineBase)
		return result
	}

	rates := s.table.Rates()
	result.Add(fmt.Sprintf("Sessão em estúdio (%dh)", rates.StudioHoursIncluded), rates.StudioSessionBase, domain.LineBase)
	if q.Hours > rates.StudioHoursIncluded {
		extra := q.Hours - rates.StudioHoursIncluded
		result.Add(extraHoursLabel(extra), float64(extra)*rates.StudioExtraHour, domain.LineAddon)
	}
	return result
}
