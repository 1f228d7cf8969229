package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Sternrassler/clickup-client/pkg/clock"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for rate limit tracking.
var (
	clickupRateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clickup_rate_limit_remaining",
		Help: "Requests remaining in the current ClickUp rate limit window",
	})

	clickupRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clickup_rate_limit_waits_total",
		Help: "Total number of requests that waited for the rate limit window to reset",
	})

	clickupRateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clickup_rate_limit_wait_seconds",
		Help:    "Time spent waiting for the rate limit window to reset",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60},
	})

	clickupRateLimitObserveErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clickup_rate_limit_observe_errors_total",
		Help: "Total number of responses with unparseable rate limit headers",
	})
)

// ErrPacerRefused is returned by Acquire when the client-side pacer cannot
// admit a request before the context deadline, while the context itself is
// still live.
var ErrPacerRefused = errors.New("rate limit pacer refused request")

// Defaults for Config.
const (
	// DefaultSafetyBuffer keeps a few requests in reserve to absorb clock skew
	// between the client and the service.
	DefaultSafetyBuffer = 5

	// DefaultWindowSize is the per-minute quota of the smallest ClickUp plan.
	DefaultWindowSize = 100
)

// Config holds tracker configuration.
type Config struct {
	// SafetyBuffer: requests wait for the reset once Remaining <= SafetyBuffer.
	SafetyBuffer int

	// WindowSize is the assumed window size until X-RateLimit-Limit is seen.
	WindowSize int

	// RequestsPerSecond optionally paces requests client-side on top of the
	// header-driven window. Zero disables pacing.
	RequestsPerSecond float64
}

// DefaultConfig returns the tracker defaults.
func DefaultConfig() Config {
	return Config{
		SafetyBuffer: DefaultSafetyBuffer,
		WindowSize:   DefaultWindowSize,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SafetyBuffer, validation.Min(0)),
		validation.Field(&c.WindowSize, validation.Required, validation.Min(1)),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
	)
}

// Tracker owns the State for one client and serializes every read that
// informs a wait decision and every write from Observe behind one mutex.
type Tracker struct {
	mu     sync.Mutex
	state  State
	config Config
	clock  clock.Clock
	pacer  *rate.Limiter
	logger zerolog.Logger
}

// NewTracker creates a new rate limit tracker. A nil clock uses the real clock.
func NewTracker(cfg Config, clk clock.Clock, logger zerolog.Logger) *Tracker {
	if clk == nil {
		clk = clock.Real{}
	}

	t := &Tracker{
		state: State{
			Remaining: cfg.WindowSize,
			Limit:     cfg.WindowSize,
		},
		config: cfg,
		clock:  clk,
		logger: logger,
	}

	if cfg.RequestsPerSecond > 0 {
		t.pacer = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	clickupRateLimitRemaining.Set(float64(cfg.WindowSize))
	return t
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Observe updates the state from response headers. Headers that are absent
// leave the corresponding fields unchanged. If any present header fails to
// parse, nothing is updated and an error is returned.
func (t *Tracker) Observe(h http.Header) error {
	limitStr := h.Get(HeaderLimit)
	remainStr := h.Get(HeaderRemaining)
	resetStr := h.Get(HeaderReset)
	if limitStr == "" && remainStr == "" && resetStr == "" {
		return nil
	}

	now := t.clock.Now()

	var (
		limit, remain int
		resetAt       time.Time
		err           error
	)
	if limitStr != "" {
		if limit, err = parseCount(HeaderLimit, limitStr); err != nil {
			clickupRateLimitObserveErrorsTotal.Inc()
			return err
		}
	}
	if remainStr != "" {
		if remain, err = parseCount(HeaderRemaining, remainStr); err != nil {
			clickupRateLimitObserveErrorsTotal.Inc()
			return err
		}
	}
	if resetStr != "" {
		if resetAt, err = parseReset(resetStr, now); err != nil {
			clickupRateLimitObserveErrorsTotal.Inc()
			return err
		}
	}

	t.mu.Lock()
	if limitStr != "" && limit > 0 {
		t.state.Limit = limit
	}
	if remainStr != "" {
		t.state.Remaining = remain
	}
	if resetStr != "" {
		t.state.ResetAt = resetAt
	}
	t.state.clamp()
	t.state.LastUpdate = now
	snapshot := t.state
	t.mu.Unlock()

	clickupRateLimitRemaining.Set(float64(snapshot.Remaining))

	t.logger.Debug().
		Int("remaining", snapshot.Remaining).
		Int("limit", snapshot.Limit).
		Time("reset_at", snapshot.ResetAt).
		Msg("Rate limit state updated")

	return nil
}

// Acquire reserves budget for one request. When the remaining count is at or
// below the safety buffer and the reset instant is in the future it sleeps
// until the reset, then treats the window as refreshed. The check and the
// decrement happen under the same lock, so two callers racing for the last
// request cannot both pass. Cancelling ctx while waiting leaves the state
// untouched and returns the context error.
func (t *Tracker) Acquire(ctx context.Context) error {
	if t.pacer != nil {
		if err := t.pacer.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: %v", ErrPacerRefused, err)
		}
	}

	for {
		t.mu.Lock()
		now := t.clock.Now()

		if t.state.NeedsWait(now, t.config.SafetyBuffer) {
			wait := t.state.TimeUntilReset(now)
			remaining := t.state.Remaining
			resetAt := t.state.ResetAt
			t.mu.Unlock()

			t.logger.Info().
				Int("remaining", remaining).
				Time("reset_at", resetAt).
				Dur("delay", wait).
				Msg("Rate limit budget low, waiting for window reset")

			clickupRateLimitWaitsTotal.Inc()
			clickupRateLimitWaitSeconds.Observe(wait.Seconds())

			if err := t.clock.Sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if t.state.Remaining <= t.config.SafetyBuffer {
			t.state.refresh()
			t.logger.Debug().
				Int("remaining", t.state.Remaining).
				Msg("Rate limit window refreshed")
		}

		t.state.Remaining--
		t.state.clamp()
		remaining := t.state.Remaining
		t.mu.Unlock()

		clickupRateLimitRemaining.Set(float64(remaining))
		return nil
	}
}
