package clickup

import (
	"context"
	"errors"
	"net/http"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

var errNilFieldValue = errors.New("value must not be nil; use RemoveField to clear a field")

func (a *API) fields(ctx context.Context, req *client.Request) ([]CustomField, error) {
	var resp struct {
		Fields []CustomField `json:"fields"`
	}
	if err := a.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

// Fields lists the custom fields created at workspace level.
func (w WorkspaceScope) Fields(ctx context.Context) ([]CustomField, error) {
	return w.api.fields(ctx, w.request(http.MethodGet, "team/{team_id}/field"))
}

// Fields lists the custom fields created at space level.
func (s SpaceScope) Fields(ctx context.Context) ([]CustomField, error) {
	return s.api.fields(ctx, s.request(http.MethodGet, "space/{space_id}/field"))
}

// Fields lists the custom fields created at folder level.
func (f FolderScope) Fields(ctx context.Context) ([]CustomField, error) {
	return f.api.fields(ctx, f.request(http.MethodGet, "folder/{folder_id}/field"))
}

// Fields lists every custom field usable by tasks in the list, including
// those inherited from its folder, space and workspace.
func (l ListScope) Fields(ctx context.Context) ([]CustomField, error) {
	return l.api.fields(ctx, l.request(http.MethodGet, "list/{list_id}/field"))
}

func (t TaskScope) fieldRequest(method, fieldID string) *client.Request {
	return t.request(method, "task/{task_id}/field/{field_id}").WithPathParam("field_id", fieldID)
}

// SetField sets a custom field on the task. The shape of value depends on
// the field type: a string for text fields, a number for numbers, a list of
// IDs for labels.
func (t TaskScope) SetField(ctx context.Context, fieldID string, value any) error {
	if value == nil {
		return invalid("custom field value", errNilFieldValue)
	}
	body := struct {
		Value any `json:"value"`
	}{value}
	return t.api.do(ctx, t.fieldRequest(http.MethodPost, fieldID).WithBody(body), nil)
}

// RemoveField clears a custom field on the task.
func (t TaskScope) RemoveField(ctx context.Context, fieldID string) error {
	return t.api.do(ctx, t.fieldRequest(http.MethodDelete, fieldID), nil)
}
