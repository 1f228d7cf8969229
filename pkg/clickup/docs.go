package clickup

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/pagination"
)

const docsAPIVersion = "v3"

// DocQuery filters the docs listing.
type DocQuery struct {
	DocID      string
	Creator    int64
	Deleted    bool
	Archived   bool
	ParentID   string
	ParentType string

	// Limit is the page size, 10 to 100; zero uses 50.
	Limit int
}

// Validate checks the query.
func (q DocQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Limit, validation.Min(10), validation.Max(100)),
	)
}

func (q DocQuery) apply(req *client.Request) *client.Request {
	limit := q.Limit
	if limit == 0 {
		limit = 50
	}
	req = req.WithQueryBool("deleted", q.Deleted).
		WithQueryBool("archived", q.Archived).
		WithQueryInt("limit", int64(limit)).
		WithQuery("id", q.DocID).
		WithQuery("parent_id", q.ParentID).
		WithQuery("parent_type", q.ParentType)
	if q.Creator != 0 {
		req = req.WithQueryInt("creator", q.Creator)
	}
	return req
}

type docPage struct {
	Docs       []Doc  `json:"docs"`
	NextCursor string `json:"next_cursor"`
}

// Docs returns a lazy iterator over the workspace's docs. The listing is
// cursor based and served by the v3 API.
func (w WorkspaceScope) Docs(q DocQuery) *pagination.Iterator[Doc] {
	queryErr := q.Validate()
	base := q.apply(client.NewRequest(http.MethodGet, "workspaces/{workspace_id}/docs").
		WithPathParam("workspace_id", w.id).
		WithAPIVersion(docsAPIVersion))

	fetch := func(ctx context.Context, p pagination.Params) (pagination.Page[Doc], error) {
		if queryErr != nil {
			return pagination.Page[Doc]{}, invalid("doc query", queryErr)
		}
		var resp docPage
		if err := w.api.do(ctx, base.WithQuery("next_cursor", p.Cursor), &resp); err != nil {
			return pagination.Page[Doc]{}, err
		}
		return pagination.NextCursor(resp.Docs, resp.NextCursor), nil
	}
	return pagination.New(fetch, pagination.Params{}, w.api.pageLogger())
}
