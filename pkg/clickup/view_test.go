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

func TestViews_AtEveryLevel(t *testing.T) {
	api, mock := newTestAPI(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		route string
		call  func() ([]View, error)
	}{
		{"workspace", "team/9011/view", func() ([]View, error) { return api.Workspace("9011").Views(ctx) }},
		{"space", "space/790/view", func() ([]View, error) { return api.Space("790").Views(ctx) }},
		{"folder", "folder/457/view", func() ([]View, error) { return api.Folder("457").Views(ctx) }},
		{"list", "list/124/view", func() ([]View, error) { return api.List("124").Views(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.SetResponse(path(tt.route), testutil.NewHealthyResponse(
				`{"views":[{"id":"3c-105","name":"Board","type":"board","parent":{"id":"124","type":6},"protected":false}],"required_views":{}}`))

			views, err := tt.call()
			require.NoError(t, err)
			require.Len(t, views, 1)
			assert.Equal(t, ViewBoard, views[0].Type)
			assert.Equal(t, 6, views[0].Parent.Type)
		})
	}
}

func TestList_CreateView(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("list/124/view"), testutil.NewHealthyResponse(`{"view":{"id":"3c-106","name":"Sprint","type":"table"}}`))

	view, err := api.List("124").CreateView(context.Background(), ViewCreate{
		Name:     "Sprint",
		Type:     ViewTable,
		Grouping: map[string]any{"field": "status"},
	})
	require.NoError(t, err)
	assert.Equal(t, "3c-106", view.ID)
	assert.JSONEq(t, `{"name":"Sprint","type":"table","grouping":{"field":"status"}}`, string(mock.LastRequest().Body))
}

func TestView_GetUpdateDelete(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("view/3c-106"), testutil.NewHealthyResponse(`{"view":{"id":"3c-106","name":"Sprint 2","type":"table"}}`))

	ctx := context.Background()
	view := api.View("3c-106")

	got, err := view.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", got.Name)

	name := "Sprint 2"
	_, err = view.Update(ctx, ViewUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, mock.LastRequest().Method)
	assert.JSONEq(t, `{"name":"Sprint 2"}`, string(mock.LastRequest().Body))

	require.NoError(t, view.Delete(ctx))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
}

func TestView_TasksPaginates(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetHandler(path("view/3c-106/task"), func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "0":
			jsonHandler(`{"tasks":[{"id":"a1"},{"id":"a2"}],"last_page":false}`)(w, r)
		case "1":
			jsonHandler(`{"tasks":[{"id":"a3"}],"last_page":true}`)(w, r)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	it := api.View("3c-106").Tasks()
	tasks, err := it.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "a3", tasks[2].ID)
	assert.Equal(t, 2, mock.GetRequestCount())
}

func TestViewCreate_Validate(t *testing.T) {
	api, mock := newTestAPI(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ViewCreate
	}{
		{"missing name", ViewCreate{Type: ViewList}},
		{"missing type", ViewCreate{Name: "x"}},
		{"unknown type", ViewCreate{Name: "x", Type: "kanban"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := api.Space("790").CreateView(ctx, tt.in)
			assert.ErrorIs(t, err, client.ErrConfiguration)
		})
	}
	assert.Zero(t, mock.GetRequestCount())
}
