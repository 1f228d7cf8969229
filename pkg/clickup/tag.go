package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// TagCreate is the payload for a new space tag.
type TagCreate struct {
	Name string `json:"name"`
	Fg   string `json:"tag_fg,omitempty"`
	Bg   string `json:"tag_bg,omitempty"`
}

// Validate checks the payload.
func (c TagCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Fg, is.HexColor),
		validation.Field(&c.Bg, is.HexColor),
	)
}

// TagEdit renames or recolors a space tag.
type TagEdit struct {
	Name *string `json:"name,omitempty"`
	Fg   *string `json:"tag_fg,omitempty"`
	Bg   *string `json:"tag_bg,omitempty"`
}

// Validate checks the edit.
func (e TagEdit) Validate() error {
	if !anySet(e.Name != nil, e.Fg != nil, e.Bg != nil) {
		return errEmptyUpdate
	}
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.NilOrNotEmpty),
		validation.Field(&e.Fg, is.HexColor),
		validation.Field(&e.Bg, is.HexColor),
	)
}

// tagBody wraps a tag payload the way the tag endpoints expect it.
type tagBody struct {
	Tag any `json:"tag"`
}

func (s SpaceScope) tagRequest(method, name string) *client.Request {
	return s.request(method, "space/{space_id}/tag/{tag_name}").WithPathParam("tag_name", name)
}

// Tags lists the tags defined in the space.
func (s SpaceScope) Tags(ctx context.Context) ([]Tag, error) {
	var resp struct {
		Tags []Tag `json:"tags"`
	}
	if err := s.api.do(ctx, s.request(http.MethodGet, "space/{space_id}/tag"), &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// CreateTag defines a tag in the space.
func (s SpaceScope) CreateTag(ctx context.Context, in TagCreate) error {
	if err := in.Validate(); err != nil {
		return invalid("tag", err)
	}
	return s.api.do(ctx, s.request(http.MethodPost, "space/{space_id}/tag").WithBody(tagBody{in}), nil)
}

// EditTag changes the tag currently called name.
func (s SpaceScope) EditTag(ctx context.Context, name string, in TagEdit) error {
	if err := in.Validate(); err != nil {
		return invalid("tag edit", err)
	}
	return s.api.do(ctx, s.tagRequest(http.MethodPut, name).WithBody(tagBody{in}), nil)
}

// DeleteTag removes the tag from the space and from every task using it.
func (s SpaceScope) DeleteTag(ctx context.Context, name string) error {
	return s.api.do(ctx, s.tagRequest(http.MethodDelete, name), nil)
}

// AddTag labels the task with an existing space tag.
func (t TaskScope) AddTag(ctx context.Context, name string) error {
	req := t.request(http.MethodPost, "task/{task_id}/tag/{tag_name}").WithPathParam("tag_name", name)
	return t.api.do(ctx, req, nil)
}

// RemoveTag removes a tag from the task.
func (t TaskScope) RemoveTag(ctx context.Context, name string) error {
	req := t.request(http.MethodDelete, "task/{task_id}/tag/{tag_name}").WithPathParam("tag_name", name)
	return t.api.do(ctx, req, nil)
}
