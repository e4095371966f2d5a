package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// LoadPriceTable returns the default catalogue, overlaid with the JSON file
// at path when one is given. Rules in the file replace the default rule for
// the same (category, service); rates replace the defaults when non-zero.
func LoadPriceTable(path string) (*domain.PriceTable, error) {
	data := domain.DefaultPriceTableData()
	if path == "" {
		return domain.NewPriceTable(data), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}

	var override domain.PriceTableData
	if err := json.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("decode price table %s: %w", path, err)
	}

	for category, services := range override.Rules {
		if !category.Valid() {
			return nil, fmt.Errorf("price table %s: unknown category %q", path, category)
		}
		if data.Rules[category] == nil {
			data.Rules[category] = map[domain.ServiceID]domain.PriceRule{}
		}
		for id, rule := range services {
			data.Rules[category][id] = rule
		}
	}

	rates := override.Rates
	if rates.WeddingHoursIncluded > 0 {
		data.Rates.WeddingHoursIncluded = rates.WeddingHoursIncluded
	}
	if rates.WeddingExtraHour > 0 {
		data.Rates.WeddingExtraHour = rates.WeddingExtraHour
	}
	if rates.StudioSessionBase > 0 {
		data.Rates.StudioSessionBase = rates.StudioSessionBase
	}
	if rates.StudioHoursIncluded > 0 {
		data.Rates.StudioHoursIncluded = rates.StudioHoursIncluded
	}
	if rates.StudioExtraHour > 0 {
		data.Rates.StudioExtraHour = rates.StudioExtraHour
	}

	return domain.NewPriceTable(data), nil
}
