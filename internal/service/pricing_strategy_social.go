package service

import "github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

// SocialStrategy prices social events. Graduations are flat. Birthdays,
// fifteenth birthdays and baptisms are billed by duration against their own
// included hours, or per photo at the live admin rate in quantity mode.
type SocialStrategy struct {
	table *domain.PriceTable
}

func NewSocialStrategy(table *domain.PriceTable) *SocialStrategy {
	return &SocialStrategy{table: table}
}

func (s *SocialStrategy) CanHandle(category domain.ServiceCategory) bool {
	return category == domain.CategorySocial
}

func (s *SocialStrategy) Price(state domain.QuoteState, pctx domain.PricingContext) *domain.PricingResult {
	result := domain.NewPricingResult()
	q, ok := state.(domain.SocialQuote)
	if !ok {
		return result
	}

	rule, found := s.table.Rule(domain.CategorySocial, q.Service())
	if !found {
		return addUnresolved(result)
	}

	if q.Service() == domain.ServiceGraduation {
		result.Add(rule.Label, rule.Base, domain.LineBase)
		return result
	}

	if q.Mode == domain.ModeQuantity {
		// Per-photo pricing always follows the admin rate, not rule.Unit.
		result.Add(unitsLabel(rule.Label, q.Qty, "fotos"), float64(q.Qty)*pctx.PhotoUnitPrice, domain.LineBase)
		return result
	}

	result.Add(rule.Label, rule.Base, domain.LineBase)
	if q.Hours > rule.HoursIncluded {
		extra := q.Hours - rule.HoursIncluded
		result.Add(extraHoursLabel(extra), float64(extra)*rule.HourPrice, domain.LineAddon)
	}
	return result
}
