package observability

import (
	"net/http"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	quotesTotal     *prometheus.CounterVec
	quoteTotalValue *prometheus.HistogramVec
	confirmations   prometheus.Counter
	distanceLookups *prometheus.CounterVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quote_bfa_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		quotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_bfa_quotes_total",
				Help: "Quotes calculated, by service category.",
			},
			[]string{"category"},
		),
		quoteTotalValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quote_bfa_quote_value_brl",
				Help:    "Distribution of quoted totals in BRL.",
				Buckets: []float64{0, 250, 500, 1000, 1500, 2500, 4000, 6000},
			},
			[]string{"category"},
		),
		confirmations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "quote_bfa_confirmations_total",
				Help: "Signed quote confirmations.",
			},
		),
		distanceLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_bfa_distance_lookups_total",
				Help: "Distance lookups by outcome.",
			},
			[]string{"result"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_bfa_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_bfa_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_bfa_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// Handler exposes the private registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordQuote counts a calculated quote and its total.
func (m *Metrics) RecordQuote(category domain.ServiceCategory, total float64) {
	label := string(category)
	if label == "" {
		label = "none"
	}
	m.quotesTotal.WithLabelValues(label).Inc()
	m.quoteTotalValue.WithLabelValues(label).Observe(total)
}

// IncrConfirmation counts a signed quote.
func (m *Metrics) IncrConfirmation() {
	m.confirmations.Inc()
}

// IncrDistanceLookup counts a distance lookup by outcome (ok, error, cached).
func (m *Metrics) IncrDistanceLookup(result string) {
	m.distanceLookups.WithLabelValues(result).Inc()
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// GetQuoteSnapshot returns the counters behind GET /v1/metrics/quotes.
func (m *Metrics) GetQuoteSnapshot() *domain.QuoteMetrics {
	byCategory := make(map[string]int64)
	var total float64
	categories := append(append([]domain.ServiceCategory(nil), domain.Categories...), "none")
	for _, category := range categories {
		v := getCounterValue(m.quotesTotal.WithLabelValues(string(category)))
		if v > 0 {
			byCategory[string(category)] = int64(v)
		}
		total += v
	}

	var lookups float64
	for _, result := range []string{"ok", "error", "cached"} {
		lookups += getCounterValue(m.distanceLookups.WithLabelValues(result))
	}

	var hits, misses, externalErrors float64
	for _, cache := range []string{"settings", "distance"} {
		hits += getCounterValue(m.cacheHits.WithLabelValues(cache))
		misses += getCounterValue(m.cacheMisses.WithLabelValues(cache))
	}
	for _, svc := range []string{"settings", "geocoder", "calendar", "whatsapp", "telegram", "drafts"} {
		externalErrors += getCounterValue(m.externalErrors.WithLabelValues(svc))
	}

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.QuoteMetrics{
		TotalQuotes:      int64(total),
		QuotesByCategory: byCategory,
		Confirmations:    int64(getCounterValue(m.confirmations)),
		DistanceLookups:  int64(lookups),
		CacheHitRate:     hitRate,
		ExternalErrors:   int64(externalErrors),
		Period:           "all_time",
	}
}

// getCounterValue extracts the current float64 value from a counter.
func getCounterValue(counter prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
