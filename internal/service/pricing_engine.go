// Package service implementa, em pricing_engine.go, o motor de preços do
// configurador de orçamentos.
//
// ============================================================
// CÁLCULO DE PREÇO: 2 Etapas
// ============================================================
//
//	Etapa 1, preço base da categoria:
//	  → uma PricingStrategy por categoria (casamento, social, comercial,
//	    estúdio, produção de vídeo, personalizado)
//
//	Etapa 2, ajustes globais (pricing_adjustments.go):
//	  → drone, fotos em tempo real e deslocamento, nessa ordem
//
// O motor não tem estado nem efeitos colaterais. Nunca retorna erro: uma
// seleção incompleta ou desconhecida vira linha zerada ou resultado vazio,
// porque o configurador chama o cálculo a cada interação do cliente.
package service

import (
	"fmt"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// PricingStrategy prices the base tier of one category. It must not add
// drone, real-time or freight lines; the adjustment pass owns those.
type PricingStrategy interface {
	// CanHandle reports whether the strategy prices the given category.
	CanHandle(category domain.ServiceCategory) bool

	// Price returns a fresh result holding only base and extra-hour lines.
	Price(state domain.QuoteState, pctx domain.PricingContext) *domain.PricingResult
}

// PricingEngine routes a QuoteState to its category strategy and applies
// the global adjustments. Safe for concurrent use.
type PricingEngine struct {
	table      *domain.PriceTable
	strategies []PricingStrategy
}

// NewPricingEngine creates the engine with one strategy per category.
func NewPricingEngine(table *domain.PriceTable) *PricingEngine {
	return &PricingEngine{
		table: table,
		strategies: []PricingStrategy{
			NewWeddingStrategy(table),
			NewSocialStrategy(table),
			NewCommercialStrategy(table),
			NewStudioStrategy(table),
			NewVideoProductionStrategy(table),
			NewCustomStrategy(table),
		},
	}
}

// Table returns the catalogue the engine prices from.
func (e *PricingEngine) Table() *domain.PriceTable {
	return e.table
}

// Calculate prices a selection. A nil state, the configurator's initial
// state, yields a zero total with an empty breakdown. So does any state
// that is not one of the six category values, pointers to them included.
func (e *PricingEngine) Calculate(state domain.QuoteState, pctx domain.PricingContext) domain.PricingResult {
	switch state.(type) {
	case domain.WeddingQuote, domain.SocialQuote, domain.CommercialQuote,
		domain.StudioQuote, domain.VideoProductionQuote, domain.CustomQuote:
	default:
		return *domain.NewPricingResult()
	}

	strategy := e.strategyFor(state.Category())
	if strategy == nil {
		return *domain.NewPricingResult()
	}

	result := strategy.Price(state, pctx)
	e.applyAdjustments(result, state, pctx)
	return *result
}

// CalculateSelection prices the flat wire shape sent by the UI.
func (e *PricingEngine) CalculateSelection(sel domain.QuoteSelection, pctx domain.PricingContext) domain.PricingResult {
	return e.Calculate(sel.State(), pctx)
}

func (e *PricingEngine) strategyFor(category domain.ServiceCategory) PricingStrategy {
	for _, s := range e.strategies {
		if s.CanHandle(category) {
			return s
		}
	}
	return nil
}

// ============================================================
// Helpers compartilhados pelas strategies
// ============================================================

// addUnresolved appends the zero-valued, unlabeled base line used when a
// service has no rule in the table.
func addUnresolved(result *domain.PricingResult) *domain.PricingResult {
	result.Add("", 0, domain.LineBase)
	return result
}

func extraHoursLabel(hours int) string {
	return fmt.Sprintf("Horas extras (%dh)", hours)
}

func unitsLabel(label string, qty int, unit string) string {
	return fmt.Sprintf("%s (%d %s)", label, qty, unit)
}
