package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/clickup-client/internal/testutil"
	"github.com/Sternrassler/clickup-client/pkg/clock"
	"github.com/rs/zerolog"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const testBaseURL = "https://api.clickup.test/api"

// newTestClient wires a client to a scripted round tripper and a fake clock.
func newTestClient(t *testing.T, rt http.RoundTripper, mutate ...func(*Config)) (*Client, *clock.Fake) {
	t.Helper()

	fake := clock.NewFake(testStart)
	nop := zerolog.Nop()

	cfg := DefaultConfig("pk_test_token")
	cfg.BaseURL = testBaseURL
	cfg.Clock = fake
	cfg.Logger = &nop
	cfg.Transport = NewHTTPTransport(&http.Client{Transport: rt})
	for _, m := range mutate {
		m(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, fake
}

// plain builds a response without rate limit headers.
func plain(status int, body string) testutil.ScriptStep {
	return testutil.Respond(testutil.MockResponse{
		StatusCode: status,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
