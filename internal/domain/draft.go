package domain

import "time"

// Draft is an in-progress configurator session. It lives only until the
// flow completes or its TTL expires.
type Draft struct {
	ID        string         `json:"id"`
	Selection QuoteSelection `json:"selection"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
