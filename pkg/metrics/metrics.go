// Package metrics provides the Prometheus registry used by the ClickUp client.
// All metrics are defined in their respective packages (client, cache, ratelimit)
// to maintain modularity and avoid circular dependencies.
//
// This package documents the catalogue and reads it back for reporting.
package metrics

import (
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Registry is the default Prometheus registry used by the ClickUp client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry holds.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// Prefix is shared by every metric the client registers.
const Prefix = "clickup_"

// Sample is one series value. Histograms contribute a _count and a _sum sample.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// LabelString renders the labels as k=v pairs sorted by key.
func (s Sample) LabelString() string {
	keys := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + s.Labels[k]
	}
	return strings.Join(parts, ",")
}

// Snapshot gathers every client metric from g, sorted by name and labels.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, Prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, samples(name, mf.GetType(), m, labels)...)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].LabelString() < out[j].LabelString()
	})
	return out, nil
}

func samples(name string, typ dto.MetricType, m *dto.Metric, labels map[string]string) []Sample {
	switch typ {
	case dto.MetricType_COUNTER:
		return []Sample{{Name: name, Labels: labels, Value: m.GetCounter().GetValue()}}
	case dto.MetricType_GAUGE:
		return []Sample{{Name: name, Labels: labels, Value: m.GetGauge().GetValue()}}
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return []Sample{
			{Name: name + "_count", Labels: labels, Value: float64(h.GetSampleCount())},
			{Name: name + "_sum", Labels: labels, Value: h.GetSampleSum()},
		}
	default:
		return nil
	}
}

// Handler serves Gatherer in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - clickup_rate_limit_remaining (Gauge): Requests remaining in the current window
//   - clickup_rate_limit_waits_total (Counter): Acquires that waited for a window reset
//   - clickup_rate_limit_wait_seconds (Histogram): Time spent waiting for budget
//   - clickup_rate_limit_observe_errors_total (Counter): Responses with unparseable rate limit headers
//
// Cache Metrics (pkg/cache):
//   - clickup_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - clickup_cache_misses_total (Counter): Cache misses
//   - clickup_cache_writes_total (Counter): Responses stored
//   - clickup_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - clickup_requests_total{endpoint, status} (Counter): Physical requests by endpoint and HTTP status
//   - clickup_request_duration_seconds{endpoint} (Histogram): Logical call duration by endpoint
//   - clickup_errors_total{class} (Counter): Terminal errors by class
//
// Retry Metrics (pkg/client):
//   - clickup_retries_total{error_class} (Counter): Retry attempts by error class
//   - clickup_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - clickup_retry_exhausted_total{error_class} (Counter): Calls that exhausted max attempts
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(clickup_cache_hits_total[5m])) /
//   (sum(rate(clickup_cache_hits_total[5m])) + sum(rate(clickup_cache_misses_total[5m])))
//
//   # Budget Nearly Spent
//   clickup_rate_limit_remaining < 10
//
//   # Retry Ratio
//   sum(rate(clickup_retries_total[5m])) / sum(rate(clickup_requests_total[5m]))
//
//   # P95 Call Latency
//   histogram_quantile(0.95, rate(clickup_request_duration_seconds_bucket[5m]))
