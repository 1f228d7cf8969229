// Package client provides the core ClickUp HTTP client with rate limiting,
// retries, optional response caching and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/Sternrassler/clickup-client/pkg/cache"
	"github.com/Sternrassler/clickup-client/pkg/clock"
	"github.com/Sternrassler/clickup-client/pkg/logging"
	"github.com/Sternrassler/clickup-client/pkg/ratelimit"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Prometheus metrics for ClickUp client operations.
var (
	clickupRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clickup_requests_total",
		Help: "Total ClickUp requests by endpoint and status",
	}, []string{"endpoint", "status"})

	clickupRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clickup_request_duration_seconds",
		Help:    "ClickUp call duration in seconds by endpoint, including retries and waits",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})

	clickupErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clickup_errors_total",
		Help: "Total ClickUp attempt failures by class",
	}, []string{"class"})
)

// Defaults for Config.
const (
	DefaultBaseURL    = "https://api.clickup.com/api"
	DefaultAPIVersion = "v2"
	DefaultUserAgent  = "clickup-client-go/1.0"
)

// Header names set on every request.
const (
	headerRequestID = "X-Request-ID"
)

var apiVersionPattern = regexp.MustCompile(`^v[0-9]+$`)

// Client is the main ClickUp client. It is safe for concurrent use; all
// calls share one rate limit tracker.
type Client struct {
	transport   Transport
	rateLimiter *ratelimit.Tracker
	retry       *RetryPolicy
	cache       *cache.Manager
	clock       clock.Clock
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Token is a personal API token ("pk_..."), sent verbatim as Authorization.
	Token string

	// TokenSource supplies OAuth2 access tokens; it takes precedence over
	// Token and is sent as "<type> <access token>".
	TokenSource oauth2.TokenSource

	// BaseURL is the API root without version.
	BaseURL string

	// APIVersion is the default version segment ("v2"); requests may override it.
	APIVersion string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout bounds one physical request on the default transport.
	Timeout time.Duration

	// Transport overrides the default net/http transport.
	Transport Transport

	// Retry configures the retry policy.
	Retry RetryConfig

	// RateLimit configures the rate limit tracker.
	RateLimit ratelimit.Config

	// Redis enables the GET response cache when non-nil.
	Redis *redis.Client

	// CacheTTL is how long cached GET responses live.
	CacheTTL time.Duration

	// Logger overrides the default component logger.
	Logger *zerolog.Logger

	// Clock overrides the real clock (tests).
	Clock clock.Clock
}

// DefaultConfig returns a safe default configuration for a personal token.
func DefaultConfig(token string) Config {
	return Config{
		Token:      token,
		BaseURL:    DefaultBaseURL,
		APIVersion: DefaultAPIVersion,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
		Retry:      DefaultRetryConfig(),
		RateLimit:  ratelimit.DefaultConfig(),
		CacheTTL:   cache.DefaultTTL,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Token, validation.When(c.TokenSource == nil,
			validation.Required.Error("token or token source is required"))),
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.APIVersion, validation.Required, validation.Match(apiVersionPattern)),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Retry),
		validation.Field(&c.RateLimit),
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
	)
}

// New creates a new ClickUp client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	logger := logging.NewLogger("clickup-client")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	transport := cfg.Transport
	if transport == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		transport = NewHTTPTransport(&http.Client{Timeout: timeout})
	}

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return &Client{
		transport:   transport,
		rateLimiter: ratelimit.NewTracker(cfg.RateLimit, clk, logger.With().Str("component", "ratelimit").Logger()),
		retry:       NewRetryPolicy(cfg.Retry),
		cache:       cacheManager,
		clock:       clk,
		config:      cfg,
		logger:      logger,
	}, nil
}

// retryState tracks one logical call across its physical attempts.
type retryState struct {
	requestID string
	started   time.Time
	attempt   int
	lastClass ErrorClass
}

// Do executes a call: it waits for rate limit budget, sends, classifies the
// outcome and retries transient failures until success or a terminal error.
// A 2xx response is returned as-is; every other terminal outcome is an error
// (an *APIError for service and network failures).
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, configError("nil request")
	}

	// PREPARING
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target, err := req.target(c.config.APIVersion)
	if err != nil {
		return nil, err
	}
	out, auth, err := c.prepare(req, target)
	if err != nil {
		return nil, err
	}

	endpoint := req.Path()
	state := &retryState{requestID: uuid.NewString(), started: c.clock.Now()}
	out.Header.Set(headerRequestID, state.requestID)

	logger := logging.ForRequest(c.logger, state.requestID, req.Method(), endpoint)

	startTime := time.Now()
	defer func() {
		clickupRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	var cacheKey cache.CacheKey
	useCache := c.cache != nil && req.Method() == http.MethodGet && !req.noCache
	if useCache {
		cacheKey = cache.CacheKey{
			Method:      req.Method(),
			Path:        target,
			QueryParams: req.query,
			Credential:  cache.Fingerprint(auth),
		}
		if resp := c.lookupCache(ctx, cacheKey, endpoint, logger); resp != nil {
			return resp, nil
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}

		// WAITING_FOR_BUDGET
		if err := c.rateLimiter.Acquire(ctx); err != nil {
			if errors.Is(err, ratelimit.ErrPacerRefused) {
				logger.Warn().Err(err).Msg("Rate limit pacer refused request")
				return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
			}
			logger.Debug().Err(err).Msg("Cancelled while waiting for rate limit budget")
			return nil, cancelled(err)
		}

		// SENDING
		state.attempt++
		logger.Debug().Int("attempt", state.attempt).Msg("Executing ClickUp request")
		resp, sendErr := c.transport.Do(ctx, out)

		// EVALUATING
		if sendErr != nil && ctx.Err() != nil {
			return nil, cancelled(ctx.Err())
		}
		if errors.Is(sendErr, ErrConfiguration) {
			logger.Warn().Err(sendErr).Msg("Transport rejected request")
			return nil, sendErr
		}
		if sendErr == nil && resp == nil {
			sendErr = errors.New("transport returned no response")
		}

		outcome := c.evaluate(resp, sendErr, logger)
		decision := c.retry.Decide(outcome, state.attempt)
		clickupRequestsTotal.WithLabelValues(endpoint, statusLabel(outcome)).Inc()

		if decision.Class == ErrorClassNone {
			if state.attempt > 1 {
				logger.Info().
					Int("attempt", state.attempt).
					Str("error_class", string(state.lastClass)).
					Msg("Request succeeded after retry")
			}
			if useCache && cache.Cacheable(req.Method(), resp.StatusCode) {
				c.storeCache(ctx, cacheKey, resp, logger)
			}
			return resp, nil
		}

		state.lastClass = decision.Class
		clickupErrorsTotal.WithLabelValues(string(decision.Class)).Inc()

		if !decision.Retry {
			return nil, c.fail(req, state, outcome, decision, resp, logger)
		}

		// WAITING_TO_RETRY
		clickupRetriesTotal.WithLabelValues(string(decision.Class)).Inc()
		clickupRetryBackoffSeconds.WithLabelValues(string(decision.Class)).Observe(decision.Delay.Seconds())

		logger.Warn().
			Int("attempt", state.attempt).
			Int("status", outcome.StatusCode).
			Str("error_class", string(decision.Class)).
			Dur("delay", decision.Delay).
			AnErr("error", sendErr).
			Msg("Retrying request after backoff")

		if err := c.clock.Sleep(ctx, decision.Delay); err != nil {
			logger.Warn().
				Int("attempt", state.attempt).
				Str("error_class", string(decision.Class)).
				Msg("Context cancelled during retry backoff")
			return nil, cancelled(err)
		}
	}
}

// DoJSON executes req and decodes a 2xx JSON body into out. An empty body
// (e.g. 204 No Content) leaves out untouched.
func (c *Client) DoJSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// prepare builds the physical request shared by every attempt.
func (c *Client) prepare(req *Request, target string) (*OutboundRequest, string, error) {
	var body []byte
	if req.body != nil {
		var err error
		if body, err = json.Marshal(req.body); err != nil {
			return nil, "", configError("encode request body: %v", err)
		}
	}

	auth, err := c.authorization()
	if err != nil {
		return nil, "", err
	}

	header := make(http.Header)
	for k, v := range req.headers {
		header[k] = append([]string(nil), v...)
	}
	header.Set("Authorization", auth)
	header.Set("User-Agent", c.config.UserAgent)
	header.Set("Accept", "application/json")
	if body != nil {
		header.Set("Content-Type", "application/json")
	}

	return &OutboundRequest{
		Method: req.Method(),
		URL:    req.buildURL(c.config.BaseURL, target),
		Header: header,
		Body:   body,
	}, auth, nil
}

// authorization returns the Authorization header value.
func (c *Client) authorization() (string, error) {
	if c.config.TokenSource == nil {
		return c.config.Token, nil
	}

	tok, err := c.config.TokenSource.Token()
	if err != nil {
		return "", &APIError{
			Class:   ErrorClassAuthentication,
			Message: "obtain oauth2 token",
			Err:     err,
		}
	}
	return tok.Type() + " " + tok.AccessToken, nil
}

// evaluate feeds the response headers to the tracker and turns the attempt
// into an Outcome.
func (c *Client) evaluate(resp *Response, sendErr error, logger zerolog.Logger) Outcome {
	if sendErr != nil {
		return Outcome{Err: sendErr}
	}

	if err := c.rateLimiter.Observe(resp.Header); err != nil {
		logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
	}

	outcome := Outcome{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusTooManyRequests {
		outcome.RetryAfter, outcome.HasRetryAfter = ratelimit.RetryAfter(resp.Header, c.clock.Now())
	}
	return outcome
}

// fail builds the terminal error for a call.
func (c *Client) fail(req *Request, state *retryState, outcome Outcome, decision Decision, resp *Response, logger zerolog.Logger) error {
	apiErr := &APIError{
		Class:      decision.Class,
		Method:     req.Method(),
		Endpoint:   req.Path(),
		StatusCode: outcome.StatusCode,
		Attempts:   state.attempt,
		Exhausted:  decision.Exhausted,
		Err:        outcome.Err,
	}
	if resp != nil {
		apiErr.parseErrorBody(resp.StatusCode, resp.Body)
	}
	if outcome.HasRetryAfter {
		apiErr.RetryAfter = outcome.RetryAfter
	}

	event := logger.Warn()
	if decision.Exhausted {
		clickupRetryExhaustedTotal.WithLabelValues(string(decision.Class)).Inc()
		event = logger.Error()
	}
	event.
		Int("attempt", state.attempt).
		Int("status", outcome.StatusCode).
		Str("error_class", string(decision.Class)).
		Bool("exhausted", decision.Exhausted).
		Dur("elapsed", c.clock.Now().Sub(state.started)).
		AnErr("error", outcome.Err).
		Msg("ClickUp request failed")

	return apiErr
}

// lookupCache returns a cached response, or nil on a miss or cache error.
func (c *Client) lookupCache(ctx context.Context, key cache.CacheKey, endpoint string, logger zerolog.Logger) *Response {
	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache get error")
		}
		return nil
	}

	logger.Debug().Dur("ttl", entry.TTL()).Msg("Serving response from cache")
	clickupRequestsTotal.WithLabelValues(endpoint, "cache").Inc()
	return &Response{
		StatusCode: entry.StatusCode,
		Header:     entry.Headers,
		Body:       entry.Data,
		Cached:     true,
	}
}

func (c *Client) storeCache(ctx context.Context, key cache.CacheKey, resp *Response, logger zerolog.Logger) {
	entry := cache.NewEntry(resp.StatusCode, resp.Header, resp.Body, c.cache.TTL())
	if err := c.cache.Set(ctx, key, entry); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache response")
		return
	}
	logger.Debug().Dur("ttl", entry.TTL()).Msg("Cached response")
}

// statusLabel is the status label for clickup_requests_total.
func statusLabel(o Outcome) string {
	if o.Err != nil {
		return "network_error"
	}
	return strconv.Itoa(o.StatusCode)
}

// Close releases idle connections held by the default transport.
func (c *Client) Close() error {
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// SetTransport replaces the transport (for testing).
func (c *Client) SetTransport(t Transport) {
	c.transport = t
}

// RateLimiter returns the client's rate limit tracker.
func (c *Client) RateLimiter() *ratelimit.Tracker {
	return c.rateLimiter
}

// GetCache returns the cache manager, or nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}

// Logger returns the client's component logger.
func (c *Client) Logger() zerolog.Logger {
	return c.logger
}
