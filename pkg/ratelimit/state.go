// Package ratelimit tracks the ClickUp request quota observed in response
// headers and gates outgoing requests so the client stays inside the window.
// It monitors X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset;
// there is no out-of-band quota query.
package ratelimit

import (
	"time"
)

// State is the tracker's belief about the current rate limit window.
// One State lives inside each Tracker; it is never shared between clients.
type State struct {
	// Remaining is the number of requests left in the current window.
	// Never negative.
	Remaining int `json:"remaining"`

	// Limit is the last known window size. Remaining is reset to this value
	// once the window has rolled over.
	Limit int `json:"limit"`

	// ResetAt is when the service resets the window. Zero when unknown.
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when a response last carried quota headers.
	LastUpdate time.Time `json:"last_update"`
}

// NeedsWait reports whether a request at now must wait for the window to
// reset: the remaining budget is at or below buffer and the reset instant
// is still in the future.
func (s *State) NeedsWait(now time.Time, buffer int) bool {
	return s.Remaining <= buffer && now.Before(s.ResetAt)
}

// TimeUntilReset returns the duration from now until the window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset(now time.Time) time.Duration {
	d := s.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// clamp keeps Remaining non-negative.
func (s *State) clamp() {
	if s.Remaining < 0 {
		s.Remaining = 0
	}
}

// refresh treats the window as rolled over.
func (s *State) refresh() {
	s.Remaining = s.Limit
}
