// Package ratelimit tracks the catalog API's rate limit window from the
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset response
// headers and gates outgoing requests on it.
package ratelimit

import (
	"time"
)

// RedisKeyState is where the last observed window is stored.
const RedisKeyState = "artic:rate_limit:state"

// Response headers read by the tracker.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// WarningRatio is the fraction of the window below which requests are throttled.
const WarningRatio = 0.10

// MaxStateAge is how long a stored window is trusted without a fresh response.
const MaxStateAge = 5 * time.Minute

// State is the last observed rate limit window.
type State struct {
	// Limit is the number of requests allowed per window (0 when unknown).
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the window.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets.
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was observed.
	LastUpdate time.Time `json:"last_update"`
}

// IsStale returns true if the state is older than maxAge.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// Exhausted reports whether no requests remain in a window that has not yet reset.
func (s *State) Exhausted() bool {
	return s.Remaining <= 0 && s.TimeUntilReset() > 0
}

// NeedsThrottling reports whether fewer than WarningRatio of a window that
// has not yet reset remains.
func (s *State) NeedsThrottling() bool {
	if s.Limit <= 0 || s.Exhausted() || s.TimeUntilReset() == 0 {
		return false
	}
	return float64(s.Remaining) < float64(s.Limit)*WarningRatio
}

// TimeUntilReset returns the duration until the window resets, or 0 if it already has.
func (s *State) TimeUntilReset() time.Duration {
	d := time.Until(s.ResetAt)
	if d < 0 {
		return 0
	}
	return d
}
