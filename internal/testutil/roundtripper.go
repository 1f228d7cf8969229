package testutil

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// ScriptedRoundTripper replays a fixed script of outcomes without a network.
// Each step is either a response or a transport error. Once the script is
// exhausted the last step repeats.
type ScriptedRoundTripper struct {
	mu       sync.Mutex
	steps    []ScriptStep
	requests []*http.Request
}

// ScriptStep is one scripted outcome.
type ScriptStep struct {
	Response MockResponse
	Err      error
}

// NewScriptedRoundTripper creates a round tripper for the given steps.
func NewScriptedRoundTripper(steps ...ScriptStep) *ScriptedRoundTripper {
	return &ScriptedRoundTripper{steps: steps}
}

// Respond is shorthand for a response step.
func Respond(resp MockResponse) ScriptStep {
	return ScriptStep{Response: resp}
}

// Fail is shorthand for a transport error step.
func Fail(err error) ScriptStep {
	return ScriptStep{Err: err}
}

// RoundTrip implements http.RoundTripper.
func (s *ScriptedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.steps) {
		idx = len(s.steps) - 1
	}
	step := s.steps[idx]
	s.mu.Unlock()

	if step.Err != nil {
		return nil, step.Err
	}

	header := make(http.Header)
	for k, v := range step.Response.Headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: step.Response.StatusCode,
		Header:     header,
		Body:       io.NopCloser(bytes.NewBufferString(step.Response.Body)),
		Request:    req,
	}, nil
}

// Calls returns the number of requests seen.
func (s *ScriptedRoundTripper) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the requests seen, in order.
func (s *ScriptedRoundTripper) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Request, len(s.requests))
	copy(out, s.requests)
	return out
}
