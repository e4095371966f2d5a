package service

import (
	"fmt"
	"strconv"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

const (
	droneAddonLabel    = "Drone"
	realTimeAddonLabel = "Fotos em tempo real"

	freightLabel        = "Deslocamento"
	freightPendingLabel = "Deslocamento (a combinar)"
)

// applyAdjustments appends the cross-category lines to a base result in a
// fixed order: drone, real-time photos, freight. Base lines are untouched.
func (e *PricingEngine) applyAdjustments(result *domain.PricingResult, state domain.QuoteState, pctx domain.PricingContext) {
	category := state.Category()
	addons := state.Extras()

	if addonsEligible(category) {
		if addons.Drone {
			result.Add(droneAddonLabel, e.table.DronePrice(), domain.LineAddon)
		}
		if addons.RealTime {
			result.Add(realTimeAddonLabel, e.table.RealTimePrice(), domain.LineAddon)
		}
	}

	if freightExempt(category, state.Service()) {
		return
	}

	switch {
	case pctx.Distance > 0:
		label := fmt.Sprintf("%s (%s km ida e volta)", freightLabel, strconv.FormatFloat(pctx.Distance, 'f', -1, 64))
		result.Add(label, pctx.Distance*2*pctx.PricePerKm, domain.LineFreight)
	case pctx.IsQuickMode:
		result.Add(freightPendingLabel, 0, domain.LineFreight)
	default:
		result.Add(freightLabel, 0, domain.LineFreight)
	}
}

// addonsEligible lists the categories that bill drone and real-time addons.
func addonsEligible(category domain.ServiceCategory) bool {
	switch category {
	case domain.CategoryWedding, domain.CategorySocial, domain.CategoryCommercial:
		return true
	default:
		return false
	}
}

// freightExempt reports quotes that get no freight line at all.
func freightExempt(category domain.ServiceCategory, id domain.ServiceID) bool {
	return category == domain.CategoryStudio || id == domain.ServiceEditOnly
}
