package clickup

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/clickup-client/internal/testutil"
	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/clock"
)

// newTestAPI starts a mock server and returns an API wired to it with a
// fake clock, so retries never really sleep.
func newTestAPI(t *testing.T) (*API, *testutil.MockClickUp) {
	t.Helper()

	mock := testutil.NewMockClickUp()
	t.Cleanup(mock.Close)

	nop := zerolog.Nop()
	cfg := client.DefaultConfig("pk_test_token")
	cfg.BaseURL = mock.URL()
	cfg.Logger = &nop
	cfg.Clock = clock.NewFake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return NewAPI(c), mock
}

// path returns the mock route for a v2 endpoint.
func path(p string) string {
	return "/api/v2/" + p
}

// decodeBody unmarshals a recorded request body into a generic map.
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func jsonHandler(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Remaining", "90")
		w.Header().Set("X-RateLimit-Reset", "60")
		w.Write([]byte(body))
	}
}
