package clickup

import (
	"context"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// GuestInvite invites a guest by email. Guests require an Enterprise plan.
type GuestInvite struct {
	Email               string `json:"email"`
	CanEditTags         bool   `json:"can_edit_tags"`
	CanSeeTimeSpent     bool   `json:"can_see_time_spent"`
	CanSeeTimeEstimated bool   `json:"can_see_time_estimated"`
	CanCreateViews      bool   `json:"can_create_views"`
	CustomRoleID        int64  `json:"custom_role_id,omitempty"`
}

// Validate checks the payload.
func (g GuestInvite) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Email, validation.Required, is.EmailFormat),
	)
}

// GuestEdit changes a guest's name or permissions.
type GuestEdit struct {
	Username            *string `json:"username,omitempty"`
	CanEditTags         *bool   `json:"can_edit_tags,omitempty"`
	CanSeeTimeSpent     *bool   `json:"can_see_time_spent,omitempty"`
	CanSeeTimeEstimated *bool   `json:"can_see_time_estimated,omitempty"`
	CanCreateViews      *bool   `json:"can_create_views,omitempty"`
	CustomRoleID        *int64  `json:"custom_role_id,omitempty"`
}

// Validate checks the edit.
func (g GuestEdit) Validate() error {
	if !anySet(g.Username != nil, g.CanEditTags != nil, g.CanSeeTimeSpent != nil,
		g.CanSeeTimeEstimated != nil, g.CanCreateViews != nil, g.CustomRoleID != nil) {
		return errEmptyUpdate
	}
	return validation.ValidateStruct(&g, validation.Field(&g.Username, validation.NilOrNotEmpty))
}

// guestResponse accepts the guest under either key the API has used.
type guestResponse struct {
	User  *Guest `json:"user"`
	Guest *Guest `json:"guest"`
}

func (r guestResponse) guest() *Guest {
	switch {
	case r.Guest != nil:
		return r.Guest
	case r.User != nil:
		return r.User
	default:
		return &Guest{}
	}
}

func (w WorkspaceScope) guestRequest(method string, id int64) *client.Request {
	return w.request(method, "team/{team_id}/guest/{guest_id}").
		WithPathParam("guest_id", strconv.FormatInt(id, 10))
}

// InviteGuest invites a guest to the workspace.
func (w WorkspaceScope) InviteGuest(ctx context.Context, in GuestInvite) (*Guest, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("guest invite", err)
	}
	var resp guestResponse
	if err := w.api.do(ctx, w.request(http.MethodPost, "team/{team_id}/guest").WithBody(in), &resp); err != nil {
		return nil, err
	}
	return resp.guest(), nil
}

// Guest fetches a guest of the workspace.
func (w WorkspaceScope) Guest(ctx context.Context, id int64) (*Guest, error) {
	var resp guestResponse
	if err := w.api.do(ctx, w.guestRequest(http.MethodGet, id), &resp); err != nil {
		return nil, err
	}
	return resp.guest(), nil
}

// EditGuest changes a guest and returns the result.
func (w WorkspaceScope) EditGuest(ctx context.Context, id int64, in GuestEdit) (*Guest, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("guest edit", err)
	}
	var resp guestResponse
	if err := w.api.do(ctx, w.guestRequest(http.MethodPut, id).WithBody(in), &resp); err != nil {
		return nil, err
	}
	return resp.guest(), nil
}

// RemoveGuest removes a guest from the workspace.
func (w WorkspaceScope) RemoveGuest(ctx context.Context, id int64) error {
	return w.api.do(ctx, w.guestRequest(http.MethodDelete, id), nil)
}
