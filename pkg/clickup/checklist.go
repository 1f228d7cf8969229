package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// ChecklistUpdate renames a checklist or moves it; Position 0 is the top.
type ChecklistUpdate struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// Validate checks the update.
func (u ChecklistUpdate) Validate() error {
	if !anySet(u.Name != nil, u.Position != nil) {
		return errEmptyUpdate
	}
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty),
		validation.Field(&u.Position, validation.Min(0)),
	)
}

// ChecklistItemCreate is the payload for a new checklist item.
type ChecklistItemCreate struct {
	Name     string `json:"name"`
	Assignee int64  `json:"assignee,omitempty"`
}

// Validate checks the payload.
func (c ChecklistItemCreate) Validate() error {
	return validation.ValidateStruct(&c, validation.Field(&c.Name, validation.Required))
}

// ChecklistItemUpdate is a partial item update; nil fields are left unchanged.
type ChecklistItemUpdate struct {
	Name     *string `json:"name,omitempty"`
	Resolved *bool   `json:"resolved,omitempty"`
	Assignee *int64  `json:"assignee,omitempty"`
	Parent   *string `json:"parent,omitempty"`
}

// Validate checks the update.
func (u ChecklistItemUpdate) Validate() error {
	if !anySet(u.Name != nil, u.Resolved != nil, u.Assignee != nil, u.Parent != nil) {
		return errEmptyUpdate
	}
	return validation.ValidateStruct(&u, validation.Field(&u.Name, validation.NilOrNotEmpty))
}

// CreateChecklist adds a checklist to the task.
func (t TaskScope) CreateChecklist(ctx context.Context, name string) (*Checklist, error) {
	if err := validation.Validate(name, validation.Required); err != nil {
		return nil, invalid("checklist name", err)
	}
	body := struct {
		Name string `json:"name"`
	}{name}
	return decodeChecklist(ctx, t.api, t.request(http.MethodPost, "task/{task_id}/checklist").WithBody(body))
}

// ChecklistScope addresses one checklist.
type ChecklistScope struct {
	api *API
	id  string
}

// ID returns the checklist ID.
func (c ChecklistScope) ID() string { return c.id }

func (c ChecklistScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("checklist_id", c.id)
}

func (c ChecklistScope) itemRequest(method, itemID string) *client.Request {
	return c.request(method, "checklist/{checklist_id}/checklist_item/{item_id}").WithPathParam("item_id", itemID)
}

// Update renames or moves the checklist.
func (c ChecklistScope) Update(ctx context.Context, in ChecklistUpdate) (*Checklist, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("checklist update", err)
	}
	return decodeChecklist(ctx, c.api, c.request(http.MethodPut, "checklist/{checklist_id}").WithBody(in))
}

// Delete removes the checklist with all its items.
func (c ChecklistScope) Delete(ctx context.Context) error {
	return c.api.do(ctx, c.request(http.MethodDelete, "checklist/{checklist_id}"), nil)
}

// AddItem appends an item and returns the updated checklist.
func (c ChecklistScope) AddItem(ctx context.Context, in ChecklistItemCreate) (*Checklist, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("checklist item", err)
	}
	req := c.request(http.MethodPost, "checklist/{checklist_id}/checklist_item").WithBody(in)
	return decodeChecklist(ctx, c.api, req)
}

// UpdateItem changes an item and returns the updated checklist.
func (c ChecklistScope) UpdateItem(ctx context.Context, itemID string, in ChecklistItemUpdate) (*Checklist, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("checklist item update", err)
	}
	return decodeChecklist(ctx, c.api, c.itemRequest(http.MethodPut, itemID).WithBody(in))
}

// DeleteItem removes an item from the checklist.
func (c ChecklistScope) DeleteItem(ctx context.Context, itemID string) error {
	return c.api.do(ctx, c.itemRequest(http.MethodDelete, itemID), nil)
}

func decodeChecklist(ctx context.Context, api *API, req *client.Request) (*Checklist, error) {
	var resp struct {
		Checklist Checklist `json:"checklist"`
	}
	if err := api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Checklist, nil
}
