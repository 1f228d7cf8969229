package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sternrassler/clickup-client/pkg/clickup"
	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/metrics"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON:
		return f, nil
	case "":
		return formatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// render writes value as indented JSON or the rows as a table.
func render(w io.Writer, f format, value any, header []string, rows [][]any) error {
	if f == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	h := make(table.Row, len(header))
	for i, col := range header {
		h[i] = col
	}
	t.AppendHeader(h)
	for _, r := range rows {
		t.AppendRow(table.Row(r))
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d rows", len(rows))})
	t.Render()
	return nil
}

func priorityLabel(p *clickup.TaskPriority) string {
	if p == nil {
		return "-"
	}
	return p.Priority
}

func dateLabel(ts clickup.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Time.Format(time.DateOnly)
}

// printStats renders the rate limit window and the client metrics.
func printStats(w io.Writer, c *client.Client) error {
	state := c.RateLimiter().Snapshot()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Rate limit")
	t.AppendHeader(table.Row{"Remaining", "Limit", "Reset"})
	reset := "-"
	if !state.ResetAt.IsZero() {
		reset = state.ResetAt.Format(time.RFC3339)
	}
	t.AppendRow(table.Row{state.Remaining, state.Limit, reset})
	t.Render()

	samples, err := metrics.Snapshot(metrics.Gatherer)
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	m := table.NewWriter()
	m.SetOutputMirror(w)
	m.SetStyle(table.StyleRounded)
	m.SetTitle("Metrics")
	m.AppendHeader(table.Row{"Metric", "Labels", "Value"})
	for _, s := range samples {
		if s.Value == 0 {
			continue
		}
		m.AppendRow(table.Row{s.Name, s.LabelString(), s.Value})
	}
	m.Render()
	return nil
}
