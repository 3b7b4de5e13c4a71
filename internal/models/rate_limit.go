package models

import "time"

// RateLimitCounter holds the request count for one key in one minute-aligned window.
type RateLimitCounter struct {
	APIKeyHash   string    `db:"api_key_hash"`
	WindowStart  time.Time `db:"window_start"`
	RequestCount int       `db:"request_count"`
}

// RateLimitDecision is the limiter's verdict for one request.
type RateLimitDecision struct {
	Allowed      bool
	Limit        int
	Remaining    int
	ResetSeconds int
}
