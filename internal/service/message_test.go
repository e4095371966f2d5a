package service_test

import (
	"testing"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{30, "R$ 30,00"},
		{1150, "R$ 1.150,00"},
		{2600.5, "R$ 2.600,50"},
		{1234567.891, "R$ 1.234.567,89"},
		{-45.1, "-R$ 45,10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.FormatBRL(tt.in), "%v", tt.in)
	}
}

func TestBuildWhatsAppMessage(t *testing.T) {
	req := &domain.QuoteRequest{
		Contact: domain.ContactInfo{Name: "Bruno", Phone: "11 95555-4444", Email: "b@example.com"},
		Event:   domain.EventDetails{Date: "2026-05-09", Address: "Salão Azul", Notes: "Chegar cedo"},
	}
	quote := &domain.QuoteResponse{
		QuoteID:      "q-1",
		Selection:    domain.QuoteSelection{Category: domain.CategorySocial},
		Availability: domain.AvailabilityUnavailable,
		Result: domain.PricingResult{
			TotalPrice: 1150,
			Currency:   domain.CurrencyBRL,
			Breakdown: []domain.PriceBreakdownItem{
				{Label: "Aniversário", Value: 400, Type: domain.LineBase},
				{Label: "Horas extras (3h)", Value: 750, Type: domain.LineAddon},
				{Label: "Deslocamento", Value: 0, Type: domain.LineFreight},
			},
		},
	}

	msg := service.BuildWhatsAppMessage(req, quote)

	for _, want := range []string{
		"Código: q-1",
		"Cliente: Bruno",
		"E-mail: b@example.com",
		"Categoria: Evento social",
		"Data: 09/05/2026",
		"Local: Salão Azul",
		"• Horas extras (3h): R$ 750,00",
		"• Deslocamento: R$ 0,00",
		"*Total: R$ 1.150,00*",
		"já tem compromisso",
		"Observações: Chegar cedo",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511999990000?text=Ol%C3%A1+mundo", service.WhatsAppLink("+55 11 99999-0000", "Olá mundo"))
}
