package observability_test

import (
	"testing"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"

	"github.com/stretchr/testify/assert"
)

func TestGetQuoteSnapshot_CountsByCategory(t *testing.T) {
	m := observability.NewMetrics()
	m.RecordQuote(domain.CategoryWedding, 680)
	m.RecordQuote(domain.CategoryWedding, 1150)
	m.RecordQuote("", 0)
	m.IncrConfirmation()

	snapshot := m.GetQuoteSnapshot()
	assert.Equal(t, int64(3), snapshot.TotalQuotes)
	assert.Equal(t, int64(2), snapshot.QuotesByCategory["wedding"])
	assert.Equal(t, int64(1), snapshot.Confirmations)
}

func TestGetQuoteSnapshot_LeavesCategoriesUntouched(t *testing.T) {
	original := domain.Categories
	t.Cleanup(func() { domain.Categories = original })

	// Give the shared slice spare capacity so an in-place append would land
	// in its backing array.
	roomy := make([]domain.ServiceCategory, len(original), len(original)+1)
	copy(roomy, original)
	domain.Categories = roomy

	observability.NewMetrics().GetQuoteSnapshot()

	assert.Equal(t, original, domain.Categories)
	assert.Equal(t, domain.ServiceCategory(""), roomy[:len(roomy)+1][len(roomy)])
}
