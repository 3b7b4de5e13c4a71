package service

import "time"

// ExpirationNever is the token for shares that do not expire.
const ExpirationNever = "never"

var expirationWindows = map[string]time.Duration{
	"1h": time.Hour,
	"1d": 24 * time.Hour,
	"1w": 7 * 24 * time.Hour,
	"1m": 30 * 24 * time.Hour,
	"3m": 90 * 24 * time.Hour,
	"1y": 365 * 24 * time.Hour,
}

// ResolveExpiration maps an expiration token onto an absolute time.
// "never" and unrecognized tokens yield nil.
func ResolveExpiration(token string, now time.Time) *time.Time {
	window, ok := expirationWindows[token]
	if !ok {
		return nil
	}
	at := now.UTC().Add(window)
	return &at
}
