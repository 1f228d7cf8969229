package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// AssigneeChanges adds and removes assignees in one update.
type AssigneeChanges struct {
	Add    []int64 `json:"add,omitempty"`
	Remove []int64 `json:"rem,omitempty"`
}

// TaskUpdate is a partial task update; nil fields are left unchanged.
type TaskUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Priority    *Priority        `json:"priority,omitempty"`
	DueDate     *Timestamp       `json:"due_date,omitempty"`
	StartDate   *Timestamp       `json:"start_date,omitempty"`
	Archived    *bool            `json:"archived,omitempty"`
	Parent      *string          `json:"parent,omitempty"`
	Assignees   *AssigneeChanges `json:"assignees,omitempty"`
}

// Validate checks the update.
func (u TaskUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty),
		validation.Field(&u.Status, validation.NilOrNotEmpty),
		validation.Field(&u.Priority, validation.Min(PriorityUrgent), validation.Max(PriorityLow)),
	)
}

// CommentCreate is the payload for a new comment.
type CommentCreate struct {
	CommentText string `json:"comment_text"`
	Assignee    int64  `json:"assignee,omitempty"`
	NotifyAll   bool   `json:"notify_all"`
}

// Validate checks the payload.
func (c CommentCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CommentText, validation.Required),
	)
}

// TaskScope addresses one task.
type TaskScope struct {
	api *API
	id  string
}

// ID returns the task ID.
func (t TaskScope) ID() string { return t.id }

func (t TaskScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("task_id", t.id)
}

// Get fetches the task.
func (t TaskScope) Get(ctx context.Context) (*Task, error) {
	var task Task
	if err := t.api.do(ctx, t.request(http.MethodGet, "task/{task_id}"), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update and returns the updated task.
func (t TaskScope) Update(ctx context.Context, in TaskUpdate) (*Task, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("task update", err)
	}
	var task Task
	if err := t.api.do(ctx, t.request(http.MethodPut, "task/{task_id}").WithBody(in), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the task.
func (t TaskScope) Delete(ctx context.Context) error {
	return t.api.do(ctx, t.request(http.MethodDelete, "task/{task_id}"), nil)
}

// Comments lists the task's comments, newest first.
func (t TaskScope) Comments(ctx context.Context) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := t.api.do(ctx, t.request(http.MethodGet, "task/{task_id}/comment"), &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// AddComment posts a comment on the task.
func (t TaskScope) AddComment(ctx context.Context, in CommentCreate) (*CreatedComment, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("comment", err)
	}
	var created CreatedComment
	if err := t.api.do(ctx, t.request(http.MethodPost, "task/{task_id}/comment").WithBody(in), &created); err != nil {
		return nil, err
	}
	return &created, nil
}
