//go:build integration

package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/clickup-client/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newIntegrationClient(t *testing.T, mock *testutil.MockClickUp, redisClient *redis.Client, token string) *Client {
	t.Helper()

	nop := zerolog.Nop()
	cfg := DefaultConfig(token)
	cfg.BaseURL = mock.URL()
	cfg.Redis = redisClient
	cfg.CacheTTL = time.Minute
	cfg.Logger = &nop

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestIntegration_CachedGet(t *testing.T) {
	redisClient := testutil.StartRedis(t)
	mock := testutil.NewMockClickUp()
	defer mock.Close()

	mock.SetResponse("/api/v2/team", testutil.NewHealthyResponse(`{"teams":[{"id":"1","name":"Acme"}]}`))

	c := newIntegrationClient(t, mock, redisClient, "pk_integration")
	ctx := context.Background()

	first, err := c.Do(ctx, NewRequest(http.MethodGet, "team"))
	if err != nil {
		t.Fatalf("first Do() error = %v", err)
	}
	if first.Cached {
		t.Error("first response should come from the network")
	}

	second, err := c.Do(ctx, NewRequest(http.MethodGet, "team"))
	if err != nil {
		t.Fatalf("second Do() error = %v", err)
	}
	if !second.Cached {
		t.Error("second response should come from the cache")
	}
	if string(second.Body) != string(first.Body) {
		t.Errorf("cached body = %s, want %s", second.Body, first.Body)
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}

	if _, err := c.Do(ctx, NewRequest(http.MethodGet, "team").WithoutCache()); err != nil {
		t.Fatalf("uncached Do() error = %v", err)
	}
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("WithoutCache should reach the server, saw %d requests", got)
	}
}

func TestIntegration_CacheIsPerCredential(t *testing.T) {
	redisClient := testutil.StartRedis(t)
	mock := testutil.NewMockClickUp()
	defer mock.Close()

	mock.SetResponse("/api/v2/user", testutil.NewHealthyResponse(`{"user":{"id":1}}`))

	ctx := context.Background()
	alice := newIntegrationClient(t, mock, redisClient, "pk_alice")
	bob := newIntegrationClient(t, mock, redisClient, "pk_bob")

	if _, err := alice.Do(ctx, NewRequest(http.MethodGet, "user")); err != nil {
		t.Fatalf("alice Do() error = %v", err)
	}
	resp, err := bob.Do(ctx, NewRequest(http.MethodGet, "user"))
	if err != nil {
		t.Fatalf("bob Do() error = %v", err)
	}
	if resp.Cached {
		t.Error("a different token must not read another token's cache entry")
	}
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestIntegration_MutationsBypassCache(t *testing.T) {
	redisClient := testutil.StartRedis(t)
	mock := testutil.NewMockClickUp()
	defer mock.Close()

	mock.SetResponse("/api/v2/list/901/task", testutil.NewHealthyResponse(`{"id":"t1"}`))

	c := newIntegrationClient(t, mock, redisClient, "pk_integration")
	ctx := context.Background()

	req := NewRequest(http.MethodPost, "list/{list_id}/task").
		WithPathParam("list_id", "901").
		WithBody(map[string]string{"name": "x"})

	for i := 0; i < 2; i++ {
		resp, err := c.Do(ctx, req)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if resp.Cached {
			t.Error("POST responses must never be cached")
		}
	}
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestIntegration_RetryAgainstServer(t *testing.T) {
	mock := testutil.NewMockClickUp()
	defer mock.Close()

	mock.SetSequence("/api/v2/team",
		testutil.NewServerErrorResponse(),
		testutil.NewHealthyResponse(`{"teams":[]}`),
	)

	nop := zerolog.Nop()
	cfg := DefaultConfig("pk_integration")
	cfg.BaseURL = mock.URL()
	cfg.Retry.BaseDelay = 10 * time.Millisecond
	cfg.Retry.MaxDelay = 50 * time.Millisecond
	cfg.Logger = &nop

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := c.Do(context.Background(), NewRequest(http.MethodGet, "team"))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if string(resp.Body) != `{"teams":[]}` {
		t.Errorf("body = %s", resp.Body)
	}
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
	if got := c.RateLimiter().Snapshot().Remaining; got != 99 {
		t.Errorf("Remaining = %d, want 99 from headers", got)
	}
}
