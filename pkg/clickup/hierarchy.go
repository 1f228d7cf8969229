package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// SpaceCreate is the payload for a new space. Features maps a ClickUp
// feature name (e.g. "due_dates") to its settings object.
type SpaceCreate struct {
	Name              string         `json:"name"`
	Private           bool           `json:"private"`
	AdminCanManage    bool           `json:"admin_can_manage"`
	MultipleAssignees bool           `json:"multiple_assignees"`
	Color             string         `json:"color,omitempty"`
	Features          map[string]any `json:"features,omitempty"`
}

// Validate checks the payload.
func (c SpaceCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Color, is.HexColor),
	)
}

// SpaceUpdate is a partial space update; nil fields are left unchanged.
type SpaceUpdate struct {
	Name              *string        `json:"name,omitempty"`
	Color             *string        `json:"color,omitempty"`
	Private           *bool          `json:"private,omitempty"`
	AdminCanManage    *bool          `json:"admin_can_manage,omitempty"`
	MultipleAssignees *bool          `json:"multiple_assignees,omitempty"`
	Features          map[string]any `json:"features,omitempty"`
}

// Validate checks the update.
func (u SpaceUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty),
		validation.Field(&u.Color, is.HexColor),
	)
}

// FolderCreate is the payload for a new folder.
type FolderCreate struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Validate checks the payload.
func (c FolderCreate) Validate() error {
	return validation.ValidateStruct(&c, validation.Field(&c.Name, validation.Required))
}

// FolderUpdate renames or hides a folder.
type FolderUpdate struct {
	Name   *string `json:"name,omitempty"`
	Hidden *bool   `json:"hidden,omitempty"`
}

// Validate checks the update.
func (u FolderUpdate) Validate() error {
	if !anySet(u.Name != nil, u.Hidden != nil) {
		return errEmptyUpdate
	}
	return validation.ValidateStruct(&u, validation.Field(&u.Name, validation.NilOrNotEmpty))
}

// CreateSpace adds a space to the workspace.
func (w WorkspaceScope) CreateSpace(ctx context.Context, in SpaceCreate) (*Space, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("space", err)
	}
	var space Space
	if err := w.api.do(ctx, w.request(http.MethodPost, "team/{team_id}/space").WithBody(in), &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// SpaceScope addresses one space.
type SpaceScope struct {
	api *API
	id  string
}

// ID returns the space ID.
func (s SpaceScope) ID() string { return s.id }

// Folder returns a scope for a folder in this space.
func (s SpaceScope) Folder(id string) FolderScope {
	return FolderScope{api: s.api, id: id}
}

// List returns a scope for a folderless list in this space.
func (s SpaceScope) List(id string) ListScope {
	return ListScope{api: s.api, id: id}
}

func (s SpaceScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("space_id", s.id)
}

// Get fetches the space.
func (s SpaceScope) Get(ctx context.Context) (*Space, error) {
	var space Space
	if err := s.api.do(ctx, s.request(http.MethodGet, "space/{space_id}"), &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// Folders lists the space's folders.
func (s SpaceScope) Folders(ctx context.Context, archived bool) ([]Folder, error) {
	var resp struct {
		Folders []Folder `json:"folders"`
	}
	req := s.request(http.MethodGet, "space/{space_id}/folder").WithQueryBool("archived", archived)
	if err := s.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// FolderlessLists lists the lists that live directly in the space.
func (s SpaceScope) FolderlessLists(ctx context.Context, archived bool) ([]List, error) {
	var resp struct {
		Lists []List `json:"lists"`
	}
	req := s.request(http.MethodGet, "space/{space_id}/list").WithQueryBool("archived", archived)
	if err := s.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// Update applies a partial update and returns the updated space.
func (s SpaceScope) Update(ctx context.Context, in SpaceUpdate) (*Space, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("space update", err)
	}
	var space Space
	if err := s.api.do(ctx, s.request(http.MethodPut, "space/{space_id}").WithBody(in), &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// Delete removes the space and everything in it.
func (s SpaceScope) Delete(ctx context.Context) error {
	return s.api.do(ctx, s.request(http.MethodDelete, "space/{space_id}"), nil)
}

// CreateFolder adds a folder to the space.
func (s SpaceScope) CreateFolder(ctx context.Context, in FolderCreate) (*Folder, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("folder", err)
	}
	var folder Folder
	if err := s.api.do(ctx, s.request(http.MethodPost, "space/{space_id}/folder").WithBody(in), &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// CreateList adds a folderless list to the space.
func (s SpaceScope) CreateList(ctx context.Context, in ListCreate) (*List, error) {
	return createList(ctx, s.api, s.request(http.MethodPost, "space/{space_id}/list"), in)
}

// FolderScope addresses one folder.
type FolderScope struct {
	api *API
	id  string
}

// ID returns the folder ID.
func (f FolderScope) ID() string { return f.id }

// List returns a scope for a list in this folder.
func (f FolderScope) List(id string) ListScope {
	return ListScope{api: f.api, id: id}
}

func (f FolderScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("folder_id", f.id)
}

// Get fetches the folder.
func (f FolderScope) Get(ctx context.Context) (*Folder, error) {
	var folder Folder
	if err := f.api.do(ctx, f.request(http.MethodGet, "folder/{folder_id}"), &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// Lists lists the folder's lists.
func (f FolderScope) Lists(ctx context.Context, archived bool) ([]List, error) {
	var resp struct {
		Lists []List `json:"lists"`
	}
	req := f.request(http.MethodGet, "folder/{folder_id}/list").WithQueryBool("archived", archived)
	if err := f.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// Update renames or hides the folder.
func (f FolderScope) Update(ctx context.Context, in FolderUpdate) (*Folder, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("folder update", err)
	}
	var folder Folder
	if err := f.api.do(ctx, f.request(http.MethodPut, "folder/{folder_id}").WithBody(in), &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// Delete removes the folder.
func (f FolderScope) Delete(ctx context.Context) error {
	return f.api.do(ctx, f.request(http.MethodDelete, "folder/{folder_id}"), nil)
}

// CreateList adds a list to the folder.
func (f FolderScope) CreateList(ctx context.Context, in ListCreate) (*List, error) {
	return createList(ctx, f.api, f.request(http.MethodPost, "folder/{folder_id}/list"), in)
}
