package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/clickup-client/pkg/clock"
	"github.com/rs/zerolog"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker(cfg Config) (*Tracker, *clock.Fake) {
	fake := clock.NewFake(testStart)
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return NewTracker(cfg, fake, logger), fake
}

func headers(remain, reset string) http.Header {
	h := http.Header{}
	if remain != "" {
		h.Set(HeaderRemaining, remain)
	}
	if reset != "" {
		h.Set(HeaderReset, reset)
	}
	return h
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		shouldError bool
	}{
		{name: "defaults", config: DefaultConfig()},
		{name: "zero buffer", config: Config{SafetyBuffer: 0, WindowSize: 10}},
		{name: "negative buffer", config: Config{SafetyBuffer: -1, WindowSize: 10}, shouldError: true},
		{name: "missing window", config: Config{SafetyBuffer: 5}, shouldError: true},
		{name: "negative pacing", config: Config{WindowSize: 10, RequestsPerSecond: -1}, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.shouldError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewTracker_InitialState(t *testing.T) {
	tracker, _ := newTestTracker(DefaultConfig())

	state := tracker.Snapshot()
	if state.Remaining != DefaultWindowSize {
		t.Errorf("Remaining = %d, want %d", state.Remaining, DefaultWindowSize)
	}
	if state.Limit != DefaultWindowSize {
		t.Errorf("Limit = %d, want %d", state.Limit, DefaultWindowSize)
	}
	if !state.ResetAt.IsZero() {
		t.Errorf("ResetAt = %v, want zero", state.ResetAt)
	}
}

func TestObserve_ValidHeaders(t *testing.T) {
	tests := []struct {
		name           string
		limitHeader    string
		remainHeader   string
		resetHeader    string
		expectedLimit  int
		expectedRemain int
		expectedReset  time.Time
	}{
		{
			name:           "full set with epoch reset",
			limitHeader:    "100",
			remainHeader:   "42",
			resetHeader:    strconv.FormatInt(testStart.Add(30*time.Second).Unix(), 10),
			expectedLimit:  100,
			expectedRemain: 42,
			expectedReset:  testStart.Add(30 * time.Second),
		},
		{
			name:           "relative reset",
			remainHeader:   "10",
			resetHeader:    "45",
			expectedLimit:  DefaultWindowSize,
			expectedRemain: 10,
			expectedReset:  testStart.Add(45 * time.Second),
		},
		{
			name:           "larger plan window",
			limitHeader:    "1000",
			remainHeader:   "999",
			resetHeader:    "60",
			expectedLimit:  1000,
			expectedRemain: 999,
			expectedReset:  testStart.Add(60 * time.Second),
		},
		{
			name:           "negative remaining clamps",
			remainHeader:   "-2",
			resetHeader:    "10",
			expectedLimit:  DefaultWindowSize,
			expectedRemain: 0,
			expectedReset:  testStart.Add(10 * time.Second),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTestTracker(DefaultConfig())

			h := headers(tt.remainHeader, tt.resetHeader)
			if tt.limitHeader != "" {
				h.Set(HeaderLimit, tt.limitHeader)
			}

			if err := tracker.Observe(h); err != nil {
				t.Fatalf("Observe() error = %v", err)
			}

			state := tracker.Snapshot()
			if state.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", state.Limit, tt.expectedLimit)
			}
			if state.Remaining != tt.expectedRemain {
				t.Errorf("Remaining = %d, want %d", state.Remaining, tt.expectedRemain)
			}
			if !state.ResetAt.Equal(tt.expectedReset) {
				t.Errorf("ResetAt = %v, want %v", state.ResetAt, tt.expectedReset)
			}
			if !state.LastUpdate.Equal(testStart) {
				t.Errorf("LastUpdate = %v, want %v", state.LastUpdate, testStart)
			}
		})
	}
}

func TestObserve_InvalidHeaders(t *testing.T) {
	tests := []struct {
		name         string
		remainHeader string
		resetHeader  string
		shouldError  bool
	}{
		{name: "missing remain header", remainHeader: "", resetHeader: "60", shouldError: false},
		{name: "invalid remain header", remainHeader: "invalid", resetHeader: "60", shouldError: true},
		{name: "invalid reset header", remainHeader: "100", resetHeader: "invalid", shouldError: true},
		{name: "both headers missing", remainHeader: "", resetHeader: "", shouldError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTestTracker(DefaultConfig())

			err := tracker.Observe(headers(tt.remainHeader, tt.resetHeader))

			if tt.shouldError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestObserve_InvalidHeaderLeavesStateUnchanged(t *testing.T) {
	tracker, _ := newTestTracker(DefaultConfig())
	if err := tracker.Observe(headers("40", "30")); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	before := tracker.Snapshot()

	if err := tracker.Observe(headers("7", "not-a-number")); err == nil {
		t.Fatal("Expected error for invalid reset header")
	}

	if after := tracker.Snapshot(); after != before {
		t.Errorf("state changed on parse failure: before %+v, after %+v", before, after)
	}
}

func TestObserve_AbsentHeadersKeepPriorState(t *testing.T) {
	tracker, _ := newTestTracker(DefaultConfig())
	if err := tracker.Observe(headers("12", "30")); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	before := tracker.Snapshot()

	if err := tracker.Observe(http.Header{"Content-Type": []string{"application/json"}}); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	if after := tracker.Snapshot(); after != before {
		t.Errorf("state changed without quota headers: before %+v, after %+v", before, after)
	}
}

func TestAcquire_HealthyDoesNotWait(t *testing.T) {
	tracker, fake := newTestTracker(DefaultConfig())

	if err := tracker.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if fake.Slept() != 0 {
		t.Errorf("Acquire() slept %v, want 0", fake.Slept())
	}
	if got := tracker.Snapshot().Remaining; got != DefaultWindowSize-1 {
		t.Errorf("Remaining = %d, want %d", got, DefaultWindowSize-1)
	}
}

func TestAcquire_WaitsUntilReset(t *testing.T) {
	tracker, fake := newTestTracker(DefaultConfig())

	resetAt := testStart.Add(20 * time.Second)
	if err := tracker.Observe(headers("0", strconv.FormatInt(resetAt.Unix(), 10))); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	if err := tracker.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if now := fake.Now(); now.Before(resetAt) {
		t.Errorf("Acquire() returned at %v, before reset %v", now, resetAt)
	}
	if got := fake.Slept(); got != 20*time.Second {
		t.Errorf("Acquire() slept %v, want 20s", got)
	}

	// Window refreshed to the last known size, minus this request.
	if got := tracker.Snapshot().Remaining; got != DefaultWindowSize-1 {
		t.Errorf("Remaining after refresh = %d, want %d", got, DefaultWindowSize-1)
	}
}

func TestAcquire_ResetPassedProceedsImmediately(t *testing.T) {
	tracker, fake := newTestTracker(DefaultConfig())

	if err := tracker.Observe(headers("2", "10")); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	fake.Advance(11 * time.Second)

	if err := tracker.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if fake.Slept() != 0 {
		t.Errorf("Acquire() slept %v, want 0", fake.Slept())
	}
	if got := tracker.Snapshot().Remaining; got != DefaultWindowSize-1 {
		t.Errorf("Remaining = %d, want %d", got, DefaultWindowSize-1)
	}
}

func TestAcquire_ContextCancelledKeepsState(t *testing.T) {
	tracker, _ := newTestTracker(DefaultConfig())
	if err := tracker.Observe(headers("1", "30")); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	before := tracker.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tracker.Acquire(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Acquire() error = %v, want context.Canceled", err)
	}

	if after := tracker.Snapshot(); after != before {
		t.Errorf("cancelled Acquire changed state: before %+v, after %+v", before, after)
	}
}

func TestAcquire_LastBudgetGoesToOneCaller(t *testing.T) {
	tracker, fake := newTestTracker(Config{SafetyBuffer: 5, WindowSize: 100})
	if err := tracker.Observe(headers("6", "30")); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tracker.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// One caller consumed the single request above the buffer, the other
	// had to wait for the window reset.
	sleeps := fake.Sleeps()
	if len(sleeps) != 1 {
		t.Fatalf("expected exactly one waiter, got sleeps %v", sleeps)
	}
	if sleeps[0] != 30*time.Second {
		t.Errorf("waiter slept %v, want 30s", sleeps[0])
	}
}

func TestAcquire_RemainingNeverNegative(t *testing.T) {
	tracker, _ := newTestTracker(Config{SafetyBuffer: 0, WindowSize: 3})

	for i := 0; i < 10; i++ {
		if err := tracker.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if got := tracker.Snapshot().Remaining; got < 0 {
			t.Fatalf("Remaining = %d after %d acquisitions", got, i+1)
		}
	}
}

func TestAcquire_Pacer(t *testing.T) {
	tracker, _ := newTestTracker(Config{SafetyBuffer: 0, WindowSize: 100, RequestsPerSecond: 50})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := tracker.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
	}

	// Burst of one: the second and third request each wait ~20ms.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("three paced acquisitions took %v, want >= 30ms", elapsed)
	}
}

func TestAcquire_PacerDeadlineIsNotCancellation(t *testing.T) {
	tracker, _ := newTestTracker(Config{SafetyBuffer: 0, WindowSize: 100, RequestsPerSecond: 0.001})

	if err := tracker.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := tracker.Acquire(ctx)
	if !errors.Is(err, ErrPacerRefused) {
		t.Fatalf("Acquire() error = %v, want ErrPacerRefused", err)
	}
	if ctx.Err() != nil {
		t.Error("context should still be live")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		t.Errorf("pacer refusal must not look like a context error: %v", err)
	}
}

func TestAcquire_PacerCancelled(t *testing.T) {
	tracker, _ := newTestTracker(Config{SafetyBuffer: 0, WindowSize: 100, RequestsPerSecond: 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tracker.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() error = %v, want context.Canceled", err)
	}
}
