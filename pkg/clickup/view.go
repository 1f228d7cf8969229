package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/pagination"
)

// View types accepted when creating a view.
const (
	ViewList         = "list"
	ViewBoard        = "board"
	ViewCalendar     = "calendar"
	ViewTable        = "table"
	ViewTimeline     = "timeline"
	ViewWorkload     = "workload"
	ViewActivity     = "activity"
	ViewMap          = "map"
	ViewConversation = "conversation"
	ViewGantt        = "gantt"
)

var viewTypes = []any{
	ViewList, ViewBoard, ViewCalendar, ViewTable, ViewTimeline,
	ViewWorkload, ViewActivity, ViewMap, ViewConversation, ViewGantt,
}

// ViewCreate is the payload for a new view. The settings objects are passed
// through as-is.
type ViewCreate struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Grouping map[string]any `json:"grouping,omitempty"`
	Divide   map[string]any `json:"divide,omitempty"`
	Sorting  map[string]any `json:"sorting,omitempty"`
	Filters  map[string]any `json:"filters,omitempty"`
	Columns  map[string]any `json:"columns,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Validate checks the payload.
func (c ViewCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Type, validation.Required, validation.In(viewTypes...)),
	)
}

// ViewUpdate is a partial view update; nil fields are left unchanged.
type ViewUpdate struct {
	Name     *string        `json:"name,omitempty"`
	Grouping map[string]any `json:"grouping,omitempty"`
	Divide   map[string]any `json:"divide,omitempty"`
	Sorting  map[string]any `json:"sorting,omitempty"`
	Filters  map[string]any `json:"filters,omitempty"`
	Columns  map[string]any `json:"columns,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Validate checks the update.
func (u ViewUpdate) Validate() error {
	return validation.ValidateStruct(&u, validation.Field(&u.Name, validation.NilOrNotEmpty))
}

func (a *API) views(ctx context.Context, req *client.Request) ([]View, error) {
	var resp struct {
		Views []View `json:"views"`
	}
	if err := a.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Views, nil
}

func (a *API) createView(ctx context.Context, req *client.Request, in ViewCreate) (*View, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("view", err)
	}
	var resp struct {
		View View `json:"view"`
	}
	if err := a.do(ctx, req.WithBody(in), &resp); err != nil {
		return nil, err
	}
	return &resp.View, nil
}

// Views lists the workspace's Everything-level views.
func (w WorkspaceScope) Views(ctx context.Context) ([]View, error) {
	return w.api.views(ctx, w.request(http.MethodGet, "team/{team_id}/view"))
}

// CreateView adds an Everything-level view.
func (w WorkspaceScope) CreateView(ctx context.Context, in ViewCreate) (*View, error) {
	return w.api.createView(ctx, w.request(http.MethodPost, "team/{team_id}/view"), in)
}

// Views lists the space's views.
func (s SpaceScope) Views(ctx context.Context) ([]View, error) {
	return s.api.views(ctx, s.request(http.MethodGet, "space/{space_id}/view"))
}

// CreateView adds a view to the space.
func (s SpaceScope) CreateView(ctx context.Context, in ViewCreate) (*View, error) {
	return s.api.createView(ctx, s.request(http.MethodPost, "space/{space_id}/view"), in)
}

// Views lists the folder's views.
func (f FolderScope) Views(ctx context.Context) ([]View, error) {
	return f.api.views(ctx, f.request(http.MethodGet, "folder/{folder_id}/view"))
}

// CreateView adds a view to the folder.
func (f FolderScope) CreateView(ctx context.Context, in ViewCreate) (*View, error) {
	return f.api.createView(ctx, f.request(http.MethodPost, "folder/{folder_id}/view"), in)
}

// Views lists the list's views. Required views are not included.
func (l ListScope) Views(ctx context.Context) ([]View, error) {
	return l.api.views(ctx, l.request(http.MethodGet, "list/{list_id}/view"))
}

// CreateView adds a view to the list.
func (l ListScope) CreateView(ctx context.Context, in ViewCreate) (*View, error) {
	return l.api.createView(ctx, l.request(http.MethodPost, "list/{list_id}/view"), in)
}

// ViewScope addresses one view.
type ViewScope struct {
	api *API
	id  string
}

// ID returns the view ID.
func (v ViewScope) ID() string { return v.id }

func (v ViewScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("view_id", v.id)
}

// Get fetches the view.
func (v ViewScope) Get(ctx context.Context) (*View, error) {
	var resp struct {
		View View `json:"view"`
	}
	if err := v.api.do(ctx, v.request(http.MethodGet, "view/{view_id}"), &resp); err != nil {
		return nil, err
	}
	return &resp.View, nil
}

// Update applies a partial update and returns the updated view.
func (v ViewScope) Update(ctx context.Context, in ViewUpdate) (*View, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("view update", err)
	}
	var resp struct {
		View View `json:"view"`
	}
	if err := v.api.do(ctx, v.request(http.MethodPut, "view/{view_id}").WithBody(in), &resp); err != nil {
		return nil, err
	}
	return &resp.View, nil
}

// Delete removes the view.
func (v ViewScope) Delete(ctx context.Context) error {
	return v.api.do(ctx, v.request(http.MethodDelete, "view/{view_id}"), nil)
}

// Tasks returns a lazy iterator over the tasks visible in the view,
// starting at page 0.
func (v ViewScope) Tasks() *pagination.Iterator[Task] {
	base := v.request(http.MethodGet, "view/{view_id}/task")

	fetch := func(ctx context.Context, p pagination.Params) (pagination.Page[Task], error) {
		var resp taskPage
		if err := v.api.do(ctx, base.WithQueryInt("page", int64(p.Page)), &resp); err != nil {
			return pagination.Page[Task]{}, err
		}
		return pagination.NextPageNumber(resp.Tasks, p, resp.more()), nil
	}
	return pagination.New(fetch, pagination.Params{}, v.api.pageLogger())
}
