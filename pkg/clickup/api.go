package clickup

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/pagination"
)

// API maps ClickUp resources onto a dispatcher. Every call goes through
// the client, so all of them share its rate limit budget, retry policy and
// cache.
type API struct {
	client *client.Client
	logger zerolog.Logger
}

// NewAPI creates the resource layer over c.
func NewAPI(c *client.Client) *API {
	return &API{
		client: c,
		logger: c.Logger().With().Str("component", "pagination").Logger(),
	}
}

// Client returns the underlying dispatcher.
func (a *API) Client() *client.Client {
	return a.client
}

// User returns the user the credential belongs to.
func (a *API) User(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := a.client.DoJSON(ctx, client.NewRequest(http.MethodGet, "user"), &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Workspaces lists the workspaces the credential can access.
func (a *API) Workspaces(ctx context.Context) ([]Workspace, error) {
	var resp struct {
		Teams []Workspace `json:"teams"`
	}
	if err := a.client.DoJSON(ctx, client.NewRequest(http.MethodGet, "team"), &resp); err != nil {
		return nil, err
	}
	return resp.Teams, nil
}

// Workspace scopes calls to one workspace.
func (a *API) Workspace(id string) WorkspaceScope {
	return WorkspaceScope{api: a, id: id}
}

// Space scopes calls to one space.
func (a *API) Space(id string) SpaceScope {
	return SpaceScope{api: a, id: id}
}

// Folder scopes calls to one folder.
func (a *API) Folder(id string) FolderScope {
	return FolderScope{api: a, id: id}
}

// List scopes calls to one list.
func (a *API) List(id string) ListScope {
	return ListScope{api: a, id: id}
}

// Task scopes calls to one task.
func (a *API) Task(id string) TaskScope {
	return TaskScope{api: a, id: id}
}

// Goal scopes calls to one goal.
func (a *API) Goal(id string) GoalScope {
	return GoalScope{api: a, id: id}
}

// Webhook scopes calls to one webhook.
func (a *API) Webhook(id string) WebhookScope {
	return WebhookScope{api: a, id: id}
}

// Checklist scopes calls to one checklist.
func (a *API) Checklist(id string) ChecklistScope {
	return ChecklistScope{api: a, id: id}
}

// View scopes calls to one view.
func (a *API) View(id string) ViewScope {
	return ViewScope{api: a, id: id}
}

func (a *API) do(ctx context.Context, req *client.Request, out any) error {
	return a.client.DoJSON(ctx, req, out)
}

func (a *API) pageLogger() pagination.Option {
	return pagination.WithLogger(a.logger)
}

// invalid wraps a validation failure so it matches client.ErrConfiguration.
func invalid(what string, err error) error {
	return fmt.Errorf("%w: invalid %s: %v", client.ErrConfiguration, what, err)
}

var errEmptyUpdate = errors.New("at least one field must be set")

// anySet reports whether at least one optional field carries a value.
func anySet(set ...bool) bool {
	for _, ok := range set {
		if ok {
			return true
		}
	}
	return false
}

// requiredTimestamp rejects an unset Timestamp.
var requiredTimestamp = validation.By(func(value any) error {
	if ts, _ := value.(Timestamp); ts.IsZero() {
		return validation.ErrRequired
	}
	return nil
})
