package clickup

import (
	"context"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/pagination"
)

// Task ordering fields accepted by the task listing.
const (
	OrderByID      = "id"
	OrderByCreated = "created"
	OrderByUpdated = "updated"
	OrderByDueDate = "due_date"
)

// TaskQuery filters a task listing. Zero values mean "not filtered".
type TaskQuery struct {
	Archived      bool
	IncludeClosed bool
	Subtasks      bool
	OrderBy       string
	Reverse       bool
	Statuses      []string
	Assignees     []string
	Tags          []string
	DueDateGT     time.Time
	DueDateLT     time.Time
	DateUpdatedGT time.Time
	DateUpdatedLT time.Time

	// Page is the first page to fetch (0-based).
	Page int
}

// Validate checks the query.
func (q TaskQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.OrderBy, validation.In(OrderByID, OrderByCreated, OrderByUpdated, OrderByDueDate)),
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.DueDateLT, validation.By(after(q.DueDateGT))),
		validation.Field(&q.DateUpdatedLT, validation.By(after(q.DateUpdatedGT))),
	)
}

// after rejects an upper bound that is not later than lower when both are set.
func after(lower time.Time) validation.RuleFunc {
	return func(value any) error {
		upper, _ := value.(time.Time)
		if upper.IsZero() || lower.IsZero() || upper.After(lower) {
			return nil
		}
		return validation.NewError("validation_time_range", "must be after the lower bound")
	}
}

func (q TaskQuery) apply(req *client.Request) *client.Request {
	req = req.WithQueryBool("archived", q.Archived)
	if q.IncludeClosed {
		req = req.WithQueryBool("include_closed", true)
	}
	if q.Subtasks {
		req = req.WithQueryBool("subtasks", true)
	}
	if q.Reverse {
		req = req.WithQueryBool("reverse", true)
	}
	req = req.WithQuery("order_by", q.OrderBy).
		WithQuery("statuses[]", q.Statuses...).
		WithQuery("assignees[]", q.Assignees...).
		WithQuery("tags[]", q.Tags...)
	req = withMillis(req, "due_date_gt", q.DueDateGT)
	req = withMillis(req, "due_date_lt", q.DueDateLT)
	req = withMillis(req, "date_updated_gt", q.DateUpdatedGT)
	return withMillis(req, "date_updated_lt", q.DateUpdatedLT)
}

func withMillis(req *client.Request, key string, t time.Time) *client.Request {
	if t.IsZero() {
		return req
	}
	return req.WithQueryInt(key, t.UnixMilli())
}

// taskPage is one page of the task listing. Newer responses carry
// last_page, older ones has_more; a page with neither ends the listing.
type taskPage struct {
	Tasks    []Task `json:"tasks"`
	LastPage *bool  `json:"last_page"`
	HasMore  *bool  `json:"has_more"`
}

func (p taskPage) more() bool {
	switch {
	case p.HasMore != nil:
		return *p.HasMore
	case p.LastPage != nil:
		return !*p.LastPage
	default:
		return false
	}
}

// TaskCreate is the payload for a new task.
type TaskCreate struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Assignees    []int64    `json:"assignees,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Status       string     `json:"status,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *Timestamp `json:"due_date,omitempty"`
	StartDate    *Timestamp `json:"start_date,omitempty"`
	TimeEstimate int64      `json:"time_estimate,omitempty"`
	Parent       string     `json:"parent,omitempty"`
	NotifyAll    bool       `json:"notify_all,omitempty"`
}

// Validate checks the payload.
func (t TaskCreate) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Priority, validation.Min(PriorityUrgent), validation.Max(PriorityLow)),
		validation.Field(&t.TimeEstimate, validation.Min(int64(0))),
	)
}

// ListCreate is the payload for a new list.
type ListCreate struct {
	Name     string     `json:"name"`
	Content  string     `json:"content,omitempty"`
	DueDate  *Timestamp `json:"due_date,omitempty"`
	Priority *Priority  `json:"priority,omitempty"`
	Assignee int64      `json:"assignee,omitempty"`
	Status   string     `json:"status,omitempty"`
}

// Validate checks the payload.
func (c ListCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Priority, validation.Min(PriorityUrgent), validation.Max(PriorityLow)),
	)
}

// ListUpdate is a partial list update; nil fields are left unchanged.
type ListUpdate struct {
	Name        *string    `json:"name,omitempty"`
	Content     *string    `json:"content,omitempty"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	DueDateTime *bool      `json:"due_date_time,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Assignee    *int64     `json:"assignee,omitempty"`
	UnsetStatus *bool      `json:"unset_status,omitempty"`
}

// Validate checks the update.
func (u ListUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty),
		validation.Field(&u.Priority, validation.Min(PriorityUrgent), validation.Max(PriorityLow)),
	)
}

func createList(ctx context.Context, api *API, req *client.Request, in ListCreate) (*List, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("list", err)
	}
	var list List
	if err := api.do(ctx, req.WithBody(in), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListScope addresses one list.
type ListScope struct {
	api *API
	id  string
}

// ID returns the list ID.
func (l ListScope) ID() string { return l.id }

// Task returns a scope for a task in this list.
func (l ListScope) Task(id string) TaskScope {
	return TaskScope{api: l.api, id: id}
}

func (l ListScope) request(method, path string) *client.Request {
	return client.NewRequest(method, path).WithPathParam("list_id", l.id)
}

// Get fetches the list.
func (l ListScope) Get(ctx context.Context) (*List, error) {
	var list List
	if err := l.api.do(ctx, l.request(http.MethodGet, "list/{list_id}"), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Update applies a partial update and returns the updated list.
func (l ListScope) Update(ctx context.Context, in ListUpdate) (*List, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("list update", err)
	}
	var list List
	if err := l.api.do(ctx, l.request(http.MethodPut, "list/{list_id}").WithBody(in), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Delete removes the list.
func (l ListScope) Delete(ctx context.Context) error {
	return l.api.do(ctx, l.request(http.MethodDelete, "list/{list_id}"), nil)
}

// AddTask makes a task from another list also appear in this one.
func (l ListScope) AddTask(ctx context.Context, taskID string) error {
	req := l.request(http.MethodPost, "list/{list_id}/task/{task_id}").WithPathParam("task_id", taskID)
	return l.api.do(ctx, req, nil)
}

// RemoveTask undoes AddTask. A task cannot be removed from its home list.
func (l ListScope) RemoveTask(ctx context.Context, taskID string) error {
	req := l.request(http.MethodDelete, "list/{list_id}/task/{task_id}").WithPathParam("task_id", taskID)
	return l.api.do(ctx, req, nil)
}

// Tasks returns a lazy iterator over the list's tasks. Pages are fetched
// on demand, starting at q.Page. An invalid query surfaces as the
// iterator's error on the first advance.
func (l ListScope) Tasks(q TaskQuery) *pagination.Iterator[Task] {
	queryErr := q.Validate()
	base := q.apply(l.request(http.MethodGet, "list/{list_id}/task"))

	fetch := func(ctx context.Context, p pagination.Params) (pagination.Page[Task], error) {
		if queryErr != nil {
			return pagination.Page[Task]{}, invalid("task query", queryErr)
		}
		var resp taskPage
		if err := l.api.do(ctx, base.WithQueryInt("page", int64(p.Page)), &resp); err != nil {
			return pagination.Page[Task]{}, err
		}
		return pagination.NextPageNumber(resp.Tasks, p, resp.more()), nil
	}
	return pagination.New(fetch, pagination.Params{Page: q.Page}, l.api.pageLogger())
}

// CreateTask adds a task to the list.
func (l ListScope) CreateTask(ctx context.Context, in TaskCreate) (*Task, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("task", err)
	}
	var task Task
	if err := l.api.do(ctx, l.request(http.MethodPost, "list/{list_id}/task").WithBody(in), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Comments lists the list's comments, newest first.
func (l ListScope) Comments(ctx context.Context) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := l.api.do(ctx, l.request(http.MethodGet, "list/{list_id}/comment"), &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}
