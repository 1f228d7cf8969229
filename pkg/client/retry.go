package client

import (
	"math"
	"math/rand/v2"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	clickupRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clickup_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	clickupRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clickup_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	clickupRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clickup_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of physical requests per call,
	// including the initial one.
	MaxAttempts int

	// RetryEnabled controls whether a 429 is retried. Server and network
	// failures are retried either way.
	RetryEnabled bool

	// BaseDelay is the first backoff step and the upper bound of the jitter.
	BaseDelay time.Duration

	// MaxDelay caps every computed backoff.
	MaxDelay time.Duration

	// RateLimitMargin is added to a Retry-After hint.
	RateLimitMargin time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		RetryEnabled:    true,
		BaseDelay:       1 * time.Second,
		MaxDelay:        30 * time.Second,
		RateLimitMargin: 250 * time.Millisecond,
	}
}

// Validate checks the retry configuration.
func (c RetryConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.BaseDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxDelay,
			validation.When(c.BaseDelay > 0, validation.Required),
			validation.Min(c.BaseDelay),
		),
		validation.Field(&c.RateLimitMargin, validation.Min(time.Duration(0))),
	)
}

// Outcome is what one physical attempt produced.
type Outcome struct {
	// StatusCode is zero when no response was obtained.
	StatusCode int

	// Err is the transport error, if any.
	Err error

	// RetryAfter is the service's wait hint; valid when HasRetryAfter.
	RetryAfter    time.Duration
	HasRetryAfter bool
}

// Class classifies the outcome.
func (o Outcome) Class() ErrorClass {
	if o.Err != nil {
		return ErrorClassNetwork
	}
	return ClassifyStatus(o.StatusCode)
}

// Decision is the policy's verdict on one outcome.
type Decision struct {
	Class ErrorClass

	// Retry is true when the caller should wait Delay and send again.
	Retry bool
	Delay time.Duration

	// Exhausted is true when a retryable outcome gave up because
	// MaxAttempts was reached.
	Exhausted bool
}

// RetryPolicy decides whether and how long to wait before the next attempt.
// It is stateless apart from its jitter source and safe for concurrent use.
type RetryPolicy struct {
	config RetryConfig
	jitter func(max time.Duration) time.Duration
}

// NewRetryPolicy creates a policy with uniform random jitter.
func NewRetryPolicy(cfg RetryConfig) *RetryPolicy {
	return &RetryPolicy{
		config: cfg,
		jitter: randomJitter,
	}
}

// randomJitter returns a uniform value in [0, max).
func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}

// Config returns the policy's configuration.
func (p *RetryPolicy) Config() RetryConfig {
	return p.config
}

// Decide evaluates the outcome of attempt number attempt (1-based).
func (p *RetryPolicy) Decide(o Outcome, attempt int) Decision {
	class := o.Class()
	d := Decision{Class: class}

	switch {
	case class == ErrorClassNone:
		return d
	case !class.Retryable():
		return d
	case class == ErrorClassRateLimit && !p.config.RetryEnabled:
		return d
	case attempt >= p.config.MaxAttempts:
		d.Exhausted = true
		return d
	}

	d.Retry = true
	if class == ErrorClassRateLimit && o.HasRetryAfter {
		d.Delay = o.RetryAfter + p.config.RateLimitMargin
		if d.Delay < o.RetryAfter {
			d.Delay = time.Duration(math.MaxInt64)
		}
	} else {
		d.Delay = p.Backoff(attempt)
	}
	return d
}

// Backoff returns the capped, jittered exponential delay after the given
// failed attempt: min(MaxDelay, BaseDelay*2^(attempt-1) + jitter) with
// jitter uniform in [0, BaseDelay). Successive values never decrease.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	base, max := p.config.BaseDelay, p.config.MaxDelay
	if attempt < 1 {
		attempt = 1
	}

	shift := uint(attempt - 1)
	exp := max
	if shift < 62 && base <= max>>shift {
		exp = base << shift
	}

	delay := exp + p.jitter(base)
	if delay > max || delay < 0 {
		delay = max
	}
	return delay
}
