// Package testutil provides testing utilities for the ClickUp client.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock ClickUp endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is what the mock saw for one request.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// MockClickUp is a configurable mock ClickUp API server for testing.
// Handlers are keyed by URL path (e.g. "/api/v2/team").
type MockClickUp struct {
	server    *httptest.Server
	mu        sync.RWMutex
	handlers  map[string]func(w http.ResponseWriter, r *http.Request)
	sequences map[string][]MockResponse
	requests  []RecordedRequest
}

// NewMockClickUp creates a new mock ClickUp server.
func NewMockClickUp() *MockClickUp {
	mock := &MockClickUp{
		handlers:  make(map[string]func(w http.ResponseWriter, r *http.Request)),
		sequences: make(map[string][]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})

		// Sequences are consumed front to back; the last response repeats.
		if seq, ok := mock.sequences[r.URL.Path]; ok && len(seq) > 0 {
			resp := seq[0]
			if len(seq) > 1 {
				mock.sequences[r.URL.Path] = seq[1:]
			}
			mock.mu.Unlock()
			writeResponse(w, resp)
			return
		}

		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the base URL to configure as the client's BaseURL.
func (m *MockClickUp) URL() string {
	return m.server.URL + "/api"
}

// Close shuts down the mock server.
func (m *MockClickUp) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockClickUp) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockClickUp) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockClickUp) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetSequence configures responses served in order for a path.
func (m *MockClickUp) SetSequence(path string, resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequences[path] = resps
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockClickUp) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns a copy of every recorded request.
func (m *MockClickUp) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or the zero value.
func (m *MockClickUp) LastRequest() RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// defaultHandler answers unknown routes the way ClickUp does.
func (m *MockClickUp) defaultHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, NewNotFoundResponse())
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// quotaHeaders uses a relative reset so the headers work with fake clocks.
func quotaHeaders(remaining, resetIn int) map[string]string {
	return map[string]string{
		"X-RateLimit-Limit":     "100",
		"X-RateLimit-Remaining": strconv.Itoa(remaining),
		"X-RateLimit-Reset":     strconv.Itoa(resetIn),
		"Content-Type":          "application/json",
	}
}

// NewHealthyResponse creates a standard 200 OK response with quota headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers:    quotaHeaders(99, 60),
	}
}

// NewNoContentResponse creates a 204 response.
func NewNoContentResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNoContent,
		Headers:    quotaHeaders(99, 60),
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response with an
// exhausted window. A positive retryAfter sets Retry-After and resets the
// window after the same number of seconds.
func NewRateLimitResponse(retryAfter int) MockResponse {
	h := quotaHeaders(0, 60)
	if retryAfter > 0 {
		h["Retry-After"] = strconv.Itoa(retryAfter)
		h["X-RateLimit-Reset"] = strconv.Itoa(retryAfter)
	}
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"err":"Rate limit reached","ECODE":"APP_002"}`,
		Headers:    h,
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"err":"Internal server error","ECODE":"APP_001"}`,
		Headers:    quotaHeaders(95, 60),
	}
}

// NewNotFoundResponse creates a 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"err":"Route not found","ECODE":"APP_001"}`,
		Headers:    quotaHeaders(98, 60),
	}
}

// NewUnauthorizedResponse creates a 401 response.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"err":"Token invalid","ECODE":"OAUTH_025"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
