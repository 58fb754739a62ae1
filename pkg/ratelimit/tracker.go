package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultThrottleDelay is the pause applied to each request while throttling.
const DefaultThrottleDelay = 1 * time.Second

var (
	rateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artic_rate_limit_remaining",
		Help: "Requests remaining in the current rate limit window",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_rate_limit_blocks_total",
		Help: "Total number of requests blocked because the rate limit window was exhausted",
	})

	rateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_rate_limit_throttles_total",
		Help: "Total number of requests delayed because the rate limit window was nearly exhausted",
	})
)

// Tracker stores the observed window in Redis and gates requests on it.
type Tracker struct {
	redis         *redis.Client
	logger        zerolog.Logger
	throttleDelay time.Duration
}

// NewTracker creates a new rate limit tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:         redisClient,
		logger:        logger,
		throttleDelay: DefaultThrottleDelay,
	}
}

// SetThrottleDelay overrides the throttling pause (for testing).
func (t *Tracker) SetThrottleDelay(d time.Duration) {
	t.throttleDelay = d
}

// ParseHeaders extracts a State from response headers. ok is false when
// the response carries no rate limit headers.
func ParseHeaders(headers http.Header) (state *State, ok bool, err error) {
	remainStr := headers.Get(HeaderRemaining)
	if remainStr == "" {
		return nil, false, nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s header: %w", HeaderRemaining, err)
	}

	limit := 0
	if limitStr := headers.Get(HeaderLimit); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil {
			return nil, false, fmt.Errorf("parse %s header: %w", HeaderLimit, err)
		}
	}

	resetSeconds := 0
	if resetStr := headers.Get(HeaderReset); resetStr != "" {
		if resetSeconds, err = strconv.Atoi(resetStr); err != nil {
			return nil, false, fmt.Errorf("parse %s header: %w", HeaderReset, err)
		}
	}

	now := time.Now()
	return &State{
		Limit:      limit,
		Remaining:  remain,
		ResetAt:    now.Add(time.Duration(resetSeconds) * time.Second),
		LastUpdate: now,
	}, true, nil
}

// State returns the stored window. It returns an unrestricted state when
// none is stored, or when the stored one is older than MaxStateAge or its
// window has already reset.
func (t *Tracker) State(ctx context.Context) (*State, error) {
	data, err := t.redis.Get(ctx, RedisKeyState).Bytes()
	if errors.Is(err, redis.Nil) {
		t.logger.Debug().Msg("No rate limit state stored, assuming unrestricted")
		return unrestricted(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rate limit state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode rate limit state: %w", err)
	}
	if state.IsStale(MaxStateAge) || state.TimeUntilReset() == 0 {
		t.logger.Debug().
			Time("last_update", state.LastUpdate).
			Time("reset_at", state.ResetAt).
			Msg("Stored rate limit window expired, assuming unrestricted")
		return unrestricted(), nil
	}
	return &state, nil
}

func unrestricted() *State {
	return &State{Remaining: 1, LastUpdate: time.Now()}
}

// UpdateFromHeaders records the window reported by a response.
func (t *Tracker) UpdateFromHeaders(ctx context.Context, headers http.Header) error {
	state, ok, err := ParseHeaders(headers)
	if err != nil || !ok {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal rate limit state: %w", err)
	}

	// Keep the state a little past the reset so an exhausted window is still seen.
	ttl := state.TimeUntilReset() + time.Minute
	if err := t.redis.Set(ctx, RedisKeyState, data, ttl).Err(); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}

	rateLimitRemaining.Set(float64(state.Remaining))

	switch {
	case state.Exhausted():
		t.logger.Error().
			Int("remaining", state.Remaining).
			Time("reset_at", state.ResetAt).
			Msg("Rate limit window exhausted - requests will be blocked")
	case state.NeedsThrottling():
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Int("limit", state.Limit).
			Msg("Rate limit window low - requests will be throttled")
	default:
		t.logger.Debug().
			Int("remaining", state.Remaining).
			Int("limit", state.Limit).
			Msg("Rate limit state updated")
	}

	return nil
}

// Allow reports whether a request may be sent. It returns false when the
// window is exhausted and pauses before returning true when throttling.
func (t *Tracker) Allow(ctx context.Context) (bool, error) {
	state, err := t.State(ctx)
	if err != nil {
		return false, err
	}

	if state.Exhausted() {
		t.logger.Error().
			Dur("wait_duration", state.TimeUntilReset()).
			Msg("Rate limit exhausted - blocking request")
		rateLimitBlocksTotal.Inc()
		return false, nil
	}

	if state.NeedsThrottling() {
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Msg("Rate limit low - throttling request")
		rateLimitThrottlesTotal.Inc()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(t.throttleDelay):
		}
	}

	return true, nil
}
