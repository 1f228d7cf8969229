package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// GoalCreate is the payload for a new goal.
type GoalCreate struct {
	Name           string    `json:"name"`
	DueDate        Timestamp `json:"due_date"`
	Description    string    `json:"description"`
	MultipleOwners bool      `json:"multiple_owners"`
	Owners         []int64   `json:"owners"`
	Color          string    `json:"color,omitempty"`
}

// Validate checks the payload.
func (c GoalCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.DueDate, requiredTimestamp),
		validation.Field(&c.Color, is.HexColor),
	)
}

// GoalUpdate is a partial goal update; nil fields are left unchanged.
type GoalUpdate struct {
	Name         *string    `json:"name,omitempty"`
	DueDate      *Timestamp `json:"due_date,omitempty"`
	Description  *string    `json:"description,omitempty"`
	AddOwners    []int64    `json:"add_owners,omitempty"`
	RemoveOwners []int64    `json:"rem_owners,omitempty"`
	Color        *string    `json:"color,omitempty"`
}

// Validate checks the update.
func (u GoalUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty),
		validation.Field(&u.Color, is.HexColor),
	)
}

// CreateGoal adds a goal to the workspace.
func (w WorkspaceScope) CreateGoal(ctx context.Context, in GoalCreate) (*Goal, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("goal", err)
	}
	if in.Owners == nil {
		in.Owners = []int64{}
	}
	var resp struct {
		Goal Goal `json:"goal"`
	}
	if err := w.api.do(ctx, w.request(http.MethodPost, "team/{team_id}/goal").WithBody(in), &resp); err != nil {
		return nil, err
	}
	if resp.Goal.TeamID == "" {
		resp.Goal.TeamID = w.id
	}
	return &resp.Goal, nil
}

// GoalScope addresses one goal.
type GoalScope struct {
	api *API
	id  string
}

// ID returns the goal ID.
func (g GoalScope) ID() string { return g.id }

func (g GoalScope) request(method string) *client.Request {
	return client.NewRequest(method, "goal/{goal_id}").WithPathParam("goal_id", g.id)
}

// Get fetches the goal.
func (g GoalScope) Get(ctx context.Context) (*Goal, error) {
	var resp struct {
		Goal Goal `json:"goal"`
	}
	if err := g.api.do(ctx, g.request(http.MethodGet), &resp); err != nil {
		return nil, err
	}
	return &resp.Goal, nil
}

// Update applies a partial update and returns the updated goal.
func (g GoalScope) Update(ctx context.Context, in GoalUpdate) (*Goal, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("goal update", err)
	}
	var resp struct {
		Goal Goal `json:"goal"`
	}
	if err := g.api.do(ctx, g.request(http.MethodPut).WithBody(in), &resp); err != nil {
		return nil, err
	}
	return &resp.Goal, nil
}

// Delete removes the goal.
func (g GoalScope) Delete(ctx context.Context) error {
	return g.api.do(ctx, g.request(http.MethodDelete), nil)
}
