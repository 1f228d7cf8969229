package clickup

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// TimeEntryQuery filters a time entry listing. Without dates the API
// returns the last 30 days for the authenticated user.
type TimeEntryQuery struct {
	StartDate            time.Time
	EndDate              time.Time
	Assignees            []int64
	IncludeTaskTags      bool
	IncludeLocationNames bool

	// At most one location filter may be set.
	SpaceID  string
	FolderID string
	ListID   string
	TaskID   string
}

var errMultipleLocationFilters = errors.New("only one of space, folder, list or task filter may be set")

// Validate checks the query.
func (q TimeEntryQuery) Validate() error {
	err := validation.ValidateStruct(&q,
		validation.Field(&q.EndDate, validation.By(after(q.StartDate))),
	)
	if err != nil {
		return err
	}
	set := 0
	for _, id := range []string{q.SpaceID, q.FolderID, q.ListID, q.TaskID} {
		if id != "" {
			set++
		}
	}
	if set > 1 {
		return errMultipleLocationFilters
	}
	return nil
}

func (q TimeEntryQuery) apply(req *client.Request) *client.Request {
	req = withMillis(req, "start_date", q.StartDate)
	req = withMillis(req, "end_date", q.EndDate)
	if len(q.Assignees) > 0 {
		ids := make([]string, len(q.Assignees))
		for i, id := range q.Assignees {
			ids[i] = strconv.FormatInt(id, 10)
		}
		req = req.WithQuery("assignee", strings.Join(ids, ","))
	}
	if q.IncludeTaskTags {
		req = req.WithQueryBool("include_task_tags", true)
	}
	if q.IncludeLocationNames {
		req = req.WithQueryBool("include_location_names", true)
	}
	return req.WithQuery("space_id", q.SpaceID).
		WithQuery("folder_id", q.FolderID).
		WithQuery("list_id", q.ListID).
		WithQuery("task_id", q.TaskID)
}

// TimerStart starts a timer, optionally against a task.
type TimerStart struct {
	TaskID      string `json:"tid,omitempty"`
	Description string `json:"description,omitempty"`
	Billable    bool   `json:"billable,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// StartTimer starts a timer for the authenticated user. The returned entry
// is running until StopTimer.
func (w WorkspaceScope) StartTimer(ctx context.Context, in TimerStart) (*TimeEntry, error) {
	var resp struct {
		Data TimeEntry `json:"data"`
	}
	req := w.request(http.MethodPost, "team/{team_id}/time_entries/start").WithBody(in)
	if err := w.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// StopTimer stops the authenticated user's running timer and returns the
// finished entry.
func (w WorkspaceScope) StopTimer(ctx context.Context) (*TimeEntry, error) {
	var resp struct {
		Data TimeEntry `json:"data"`
	}
	if err := w.api.do(ctx, w.request(http.MethodPost, "team/{team_id}/time_entries/stop"), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// RunningTimer returns the running entry of assignee, or of the
// authenticated user when assignee is 0. It returns nil when no timer runs.
func (w WorkspaceScope) RunningTimer(ctx context.Context, assignee int64) (*TimeEntry, error) {
	var resp struct {
		Data *TimeEntry `json:"data"`
	}
	req := w.request(http.MethodGet, "team/{team_id}/time_entries/current").WithoutCache()
	if assignee != 0 {
		req = req.WithQueryInt("assignee", assignee)
	}
	if err := w.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return nil, nil
	}
	return resp.Data, nil
}
