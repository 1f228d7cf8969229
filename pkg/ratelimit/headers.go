package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Response headers carrying quota information.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// epochThreshold separates absolute unix timestamps from relative
// seconds-until-reset values in the reset header.
const epochThreshold = 1_000_000_000

// maxSeconds is the largest seconds value a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// seconds converts a non-negative seconds value to a Duration, saturating
// instead of overflowing.
func seconds(v float64) time.Duration {
	if v >= maxSeconds {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(v * float64(time.Second))
}

// parseCount parses a non-negative integer header. Negative values clamp to 0.
func parseCount(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s header: %w", name, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// parseReset converts the reset header into an absolute instant. Values at
// or above epochThreshold are unix seconds; smaller values are relative to now.
func parseReset(value string, now time.Time) (time.Time, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s header: %w", HeaderReset, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= maxSeconds {
		return time.Time{}, fmt.Errorf("parse %s header: invalid value %q", HeaderReset, value)
	}

	if v >= epochThreshold {
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))), nil
	}
	return now.Add(seconds(v)), nil
}

// RetryAfter extracts the service-supplied wait hint from a Retry-After header.
// Both delta-seconds and HTTP-date forms are accepted. The boolean is false
// when the header is absent or unparseable.
func RetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	raw := strings.TrimSpace(h.Get(HeaderRetryAfter))
	if raw == "" {
		return 0, false
	}

	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, false
		}
		return seconds(secs), true
	}

	if at, err := http.ParseTime(raw); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}
