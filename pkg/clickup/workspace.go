package clickup

import (
	"context"
	"net/http"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// WorkspaceScope addresses one workspace. Scopes are values; deriving a
// child scope never changes the parent.
type WorkspaceScope struct {
	api *API
	id  string
}

// ID returns the workspace ID.
func (w WorkspaceScope) ID() string { return w.id }

// Space returns a scope for a space in this workspace.
func (w WorkspaceScope) Space(id string) SpaceScope {
	return SpaceScope{api: w.api, id: id}
}

// Goal returns a scope for a goal in this workspace.
func (w WorkspaceScope) Goal(id string) GoalScope {
	return GoalScope{api: w.api, id: id}
}

func (w WorkspaceScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("team_id", w.id)
}

// Get fetches the workspace.
func (w WorkspaceScope) Get(ctx context.Context) (*Workspace, error) {
	var resp struct {
		Team Workspace `json:"team"`
	}
	if err := w.api.do(ctx, w.request(http.MethodGet, "team/{team_id}"), &resp); err != nil {
		return nil, err
	}
	return &resp.Team, nil
}

// Spaces lists the workspace's spaces.
func (w WorkspaceScope) Spaces(ctx context.Context, archived bool) ([]Space, error) {
	var resp struct {
		Spaces []Space `json:"spaces"`
	}
	req := w.request(http.MethodGet, "team/{team_id}/space").WithQueryBool("archived", archived)
	if err := w.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Spaces, nil
}

// Goals lists the workspace's goals.
func (w WorkspaceScope) Goals(ctx context.Context, includeCompleted bool) ([]Goal, error) {
	var resp struct {
		Goals []Goal `json:"goals"`
	}
	req := w.request(http.MethodGet, "team/{team_id}/goal").WithQueryBool("include_completed", includeCompleted)
	if err := w.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Goals, nil
}

// Webhooks lists the webhooks registered by the credential in this workspace.
func (w WorkspaceScope) Webhooks(ctx context.Context) ([]Webhook, error) {
	var resp struct {
		Webhooks []Webhook `json:"webhooks"`
	}
	if err := w.api.do(ctx, w.request(http.MethodGet, "team/{team_id}/webhook"), &resp); err != nil {
		return nil, err
	}
	return resp.Webhooks, nil
}

// CreateWebhook registers a webhook. The returned value carries the signing
// secret, which the API only reveals here.
func (w WorkspaceScope) CreateWebhook(ctx context.Context, in WebhookCreate) (*Webhook, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("webhook", err)
	}
	var resp struct {
		ID      string  `json:"id"`
		Webhook Webhook `json:"webhook"`
	}
	req := w.request(http.MethodPost, "team/{team_id}/webhook").WithBody(in)
	if err := w.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Webhook.ID == "" {
		resp.Webhook.ID = resp.ID
	}
	return &resp.Webhook, nil
}

// TimeEntries lists time entries matching q.
func (w WorkspaceScope) TimeEntries(ctx context.Context, q TimeEntryQuery) ([]TimeEntry, error) {
	if err := q.Validate(); err != nil {
		return nil, invalid("time entry query", err)
	}
	var resp struct {
		Data []TimeEntry `json:"data"`
	}
	req := q.apply(w.request(http.MethodGet, "team/{team_id}/time_entries"))
	if err := w.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
