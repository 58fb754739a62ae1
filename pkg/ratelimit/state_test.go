package ratelimit

import (
	"testing"
	"time"
)

func TestState_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		state    *State
		maxAge   time.Duration
		expected bool
	}{
		{
			name:     "fresh state",
			state:    &State{LastUpdate: time.Now()},
			maxAge:   5 * time.Minute,
			expected: false,
		},
		{
			name:     "stale state",
			state:    &State{LastUpdate: time.Now().Add(-10 * time.Minute)},
			maxAge:   5 * time.Minute,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsStale(tt.maxAge); got != tt.expected {
				t.Errorf("IsStale() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_Exhausted(t *testing.T) {
	tests := []struct {
		name     string
		state    *State
		expected bool
	}{
		{
			name:     "remaining requests",
			state:    &State{Limit: 60, Remaining: 10, ResetAt: time.Now().Add(time.Minute)},
			expected: false,
		},
		{
			name:     "none remaining before reset",
			state:    &State{Limit: 60, Remaining: 0, ResetAt: time.Now().Add(time.Minute)},
			expected: true,
		},
		{
			name:     "none remaining after reset",
			state:    &State{Limit: 60, Remaining: 0, ResetAt: time.Now().Add(-time.Second)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Exhausted(); got != tt.expected {
				t.Errorf("Exhausted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_NeedsThrottling(t *testing.T) {
	reset := time.Now().Add(time.Minute)

	tests := []struct {
		name     string
		state    *State
		expected bool
	}{
		{name: "healthy", state: &State{Limit: 60, Remaining: 30, ResetAt: reset}, expected: false},
		{name: "below ratio", state: &State{Limit: 60, Remaining: 5, ResetAt: reset}, expected: true},
		{name: "at ratio", state: &State{Limit: 60, Remaining: 6, ResetAt: reset}, expected: false},
		{name: "exhausted is blocked not throttled", state: &State{Limit: 60, Remaining: 0, ResetAt: reset}, expected: false},
		{name: "unknown limit", state: &State{Remaining: 1, ResetAt: reset}, expected: false},
		{name: "low window already reset", state: &State{Limit: 60, Remaining: 2, ResetAt: time.Now().Add(-time.Second)}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.NeedsThrottling(); got != tt.expected {
				t.Errorf("NeedsThrottling() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_TimeUntilReset(t *testing.T) {
	past := &State{ResetAt: time.Now().Add(-time.Minute)}
	if got := past.TimeUntilReset(); got != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0", got)
	}

	future := &State{ResetAt: time.Now().Add(30 * time.Second)}
	if got := future.TimeUntilReset(); got <= 29*time.Second || got > 30*time.Second {
		t.Errorf("TimeUntilReset() = %v, want about 30s", got)
	}
}
