package clickup

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/clickup-client/internal/testutil"
	"github.com/Sternrassler/clickup-client/pkg/client"
)

const taskJSON = `{
	"id": "9hx",
	"custom_id": "ENG-12",
	"name": "Ship it",
	"status": {"status": "in progress", "type": "custom"},
	"date_created": "1567780450202",
	"date_closed": null,
	"creator": {"id": 183, "username": "John"},
	"assignees": [{"id": 184, "username": "Jane"}],
	"tags": [{"name": "backend"}],
	"priority": {"id": "1", "priority": "urgent", "color": "#f50000"},
	"list": {"id": "124"},
	"folder": {"id": "457"},
	"space": {"id": "790"},
	"url": "https://app.clickup.com/t/9hx"
}`

func TestTask_Get(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("task/9hx"), testutil.NewHealthyResponse(taskJSON))

	task, err := api.Task("9hx").Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ENG-12", task.CustomID)
	assert.Equal(t, "in progress", task.Status.Status)
	assert.Equal(t, int64(1567780450202), task.DateCreated.Millis())
	assert.True(t, task.DateClosed.IsZero())
	assert.Equal(t, "John", task.Creator.Username)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, int64(184), task.Assignees[0].ID)
	require.NotNil(t, task.Priority)
	assert.Equal(t, "urgent", task.Priority.Priority)
	assert.Equal(t, "790", task.Space.ID)
}

func TestTask_Update(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("task/9hx"), testutil.NewHealthyResponse(taskJSON))

	name := "Ship it today"
	archived := false
	_, err := api.Task("9hx").Update(context.Background(), TaskUpdate{
		Name:      &name,
		Archived:  &archived,
		Assignees: &AssigneeChanges{Add: []int64{185}, Remove: []int64{184}},
	})
	require.NoError(t, err)

	req := mock.LastRequest()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.JSONEq(t, `{"name":"Ship it today","archived":false,"assignees":{"add":[185],"rem":[184]}}`, string(req.Body))
}

func TestTask_UpdateValidation(t *testing.T) {
	api, mock := newTestAPI(t)

	empty := ""
	_, err := api.Task("9hx").Update(context.Background(), TaskUpdate{Name: &empty})
	assert.ErrorIs(t, err, client.ErrConfiguration)
	assert.Zero(t, mock.GetRequestCount())
}

func TestTask_Delete(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("task/9hx"), testutil.NewNoContentResponse())

	require.NoError(t, api.Task("9hx").Delete(context.Background()))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
	assert.Empty(t, mock.LastRequest().Body)
}

func TestTask_DeleteRetriesServerError(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetSequence(path("task/9hx"), testutil.NewServerErrorResponse(), testutil.NewNoContentResponse())

	require.NoError(t, api.Task("9hx").Delete(context.Background()))
	assert.Equal(t, 2, mock.GetRequestCount())
}

func TestTask_Comments(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("task/9hx/comment"), testutil.NewHealthyResponse(
		`{"comments":[{"id":458,"comment_text":"first","user":{"id":1,"username":"a"},"resolved":true}]}`))

	comments, err := api.Task("9hx").Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "458", comments[0].ID.String())
	assert.True(t, comments[0].Resolved)
}

func TestTask_AddComment(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("task/9hx/comment"), testutil.NewHealthyResponse(`{"id":458,"hist_id":"26508","date":1568036964079}`))

	created, err := api.Task("9hx").AddComment(context.Background(), CommentCreate{CommentText: "Done", NotifyAll: true})
	require.NoError(t, err)
	assert.Equal(t, StringID("458"), created.ID)
	assert.Equal(t, "26508", created.HistID)
	assert.Equal(t, int64(1568036964079), created.Date.Millis())

	assert.JSONEq(t, `{"comment_text":"Done","notify_all":true}`, string(mock.LastRequest().Body))
}

func TestTask_AddCommentValidation(t *testing.T) {
	api, mock := newTestAPI(t)

	_, err := api.Task("9hx").AddComment(context.Background(), CommentCreate{})
	assert.ErrorIs(t, err, client.ErrConfiguration)
	assert.Zero(t, mock.GetRequestCount())
}
