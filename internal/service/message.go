package service

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
)

// ============================================================
// Mensagem de WhatsApp do orçamento confirmado
// ============================================================

var categoryNames = map[domain.ServiceCategory]string{
	domain.CategoryWedding:         "Casamento",
	domain.CategorySocial:          "Evento social",
	domain.CategoryCommercial:      "Comercial",
	domain.CategoryStudio:          "Estúdio",
	domain.CategoryVideoProduction: "Produção de vídeo",
	domain.CategoryCustom:          "Projeto personalizado",
}

// BuildWhatsAppMessage renders the plain-text summary sent to the studio
// and to the client after a quote is signed.
func BuildWhatsAppMessage(req *domain.QuoteRequest, quote *domain.QuoteResponse) string {
	var b strings.Builder

	b.WriteString("*Orçamento confirmado*\n")
	fmt.Fprintf(&b, "Código: %s\n\n", quote.QuoteID)

	fmt.Fprintf(&b, "Cliente: %s\n", req.Contact.Name)
	fmt.Fprintf(&b, "Telefone: %s\n", req.Contact.Phone)
	if req.Contact.Email != "" {
		fmt.Fprintf(&b, "E-mail: %s\n", req.Contact.Email)
	}

	if name, ok := categoryNames[quote.Selection.Category]; ok {
		fmt.Fprintf(&b, "Categoria: %s\n", name)
	}
	if req.Event.Date != "" {
		fmt.Fprintf(&b, "Data: %s\n", formatEventDate(req.Event))
	}
	if req.Event.Address != "" {
		fmt.Fprintf(&b, "Local: %s\n", req.Event.Address)
	}

	b.WriteString("\n*Itens*\n")
	for _, item := range quote.Result.Breakdown {
		label := item.Label
		if label == "" {
			label = "Serviço"
		}
		fmt.Fprintf(&b, "• %s: %s\n", label, FormatBRL(item.Value))
	}
	fmt.Fprintf(&b, "\n*Total: %s*\n", FormatBRL(quote.Result.TotalPrice))

	if quote.Availability == domain.AvailabilityUnavailable {
		b.WriteString("\nAtenção: a data escolhida já tem compromisso na agenda.\n")
	}
	if req.Event.Notes != "" {
		fmt.Fprintf(&b, "\nObservações: %s\n", req.Event.Notes)
	}

	return strings.TrimRight(b.String(), "\n")
}

// WhatsAppLink builds the wa.me deep link that opens a chat with phone
// prefilled with text.
func WhatsAppLink(phone, text string) string {
	q := url.Values{}
	q.Set("text", text)
	return fmt.Sprintf("https://wa.me/%s?%s", DigitsOnly(phone), q.Encode())
}

// FormatBRL formats v as Brazilian reais, e.g. R$ 1.150,00.
func FormatBRL(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if neg && cents > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), frac)
}

// DigitsOnly strips everything but 0-9.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatEventDate(e domain.EventDetails) string {
	if t, ok := e.ParsedDate(); ok {
		return t.Format("02/01/2006")
	}
	return e.Date
}
