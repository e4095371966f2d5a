package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// QuoteMetrics is returned by GET /v1/metrics/quotes.
type QuoteMetrics struct {
	TotalQuotes      int64            `json:"totalQuotes"`
	QuotesByCategory map[string]int64 `json:"quotesByCategory"`
	Confirmations    int64            `json:"confirmations"`
	DistanceLookups  int64            `json:"distanceLookups"`
	CacheHitRate     float64          `json:"cacheHitRate"`
	ExternalErrors   int64            `json:"externalErrors"`
	Period           string           `json:"period"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
