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

func TestSpace_GetFoldersAndLists(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("space/790"), testutil.NewHealthyResponse(`{"id":"790","name":"Engineering","archived":false}`))
	mock.SetResponse(path("space/790/folder"), testutil.NewHealthyResponse(
		`{"folders":[{"id":"457","name":"Backend","task_count":"20","space":{"id":"790"},"lists":[{"id":"124","name":"API"}]}]}`))
	mock.SetResponse(path("space/790/list"), testutil.NewHealthyResponse(`{"lists":[{"id":"125","name":"Inbox","task_count":3}]}`))

	ctx := context.Background()
	space := api.Workspace("9011").Space("790")

	got, err := space.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)

	folders, err := space.Folders(ctx, false)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, Count(20), folders[0].TaskCount)
	assert.Equal(t, "790", folders[0].Space.ID)
	require.Len(t, folders[0].Lists, 1)
	assert.Equal(t, "API", folders[0].Lists[0].Name)

	lists, err := space.FolderlessLists(ctx, true)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, Count(3), lists[0].TaskCount)
	assert.Equal(t, "archived=true", mock.LastRequest().Query)
}

func TestFolder_GetAndLists(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("folder/457"), testutil.NewHealthyResponse(`{"id":"457","name":"Backend","hidden":false}`))
	mock.SetResponse(path("folder/457/list"), testutil.NewHealthyResponse(
		`{"lists":[{"id":"124","name":"API","due_date":"1567780450202","folder":{"id":"457","name":"Backend"}}]}`))

	ctx := context.Background()
	folder := api.Folder("457")

	got, err := folder.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Backend", got.Name)

	lists, err := folder.Lists(ctx, false)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.NotNil(t, lists[0].Folder)
	assert.Equal(t, "Backend", lists[0].Folder.Name)
	assert.Equal(t, int64(1567780450202), lists[0].DueDate.Millis())
	assert.True(t, lists[0].StartDate.IsZero())
}

func TestList_Get(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("list/124"), testutil.NewHealthyResponse(
		`{"id":"124","name":"API","priority":{"priority":"high","color":"#ffcc00"},"status":{"status":"red","color":"#e50000"}}`))

	list, err := api.List("124").Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list.Priority)
	assert.Equal(t, "high", list.Priority.Priority)
	require.NotNil(t, list.Status)
	assert.Equal(t, "red", list.Status.Status)
}

func TestList_NotFound(t *testing.T) {
	api, mock := newTestAPI(t)

	_, err := api.List("missing").Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrNotFound)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "APP_001", apiErr.ECode)
	assert.Equal(t, 1, mock.GetRequestCount())
}

func TestWorkspace_CreateSpace(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("team/9011/space"), testutil.NewHealthyResponse(`{"id":"790","name":"Engineering","multiple_assignees":true}`))

	space, err := api.Workspace("9011").CreateSpace(context.Background(), SpaceCreate{
		Name:              "Engineering",
		MultipleAssignees: true,
		Color:             "#7B68EE",
	})
	require.NoError(t, err)
	assert.Equal(t, "790", space.ID)

	req := mock.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{"name":"Engineering","private":false,"admin_can_manage":false,"multiple_assignees":true,"color":"#7B68EE"}`, string(req.Body))
}

func TestSpace_UpdateAndDelete(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("space/790"), testutil.NewHealthyResponse(`{"id":"790","name":"Platform","private":true}`))

	ctx := context.Background()
	space := api.Space("790")

	name, private := "Platform", true
	got, err := space.Update(ctx, SpaceUpdate{Name: &name, Private: &private})
	require.NoError(t, err)
	assert.True(t, got.Private)
	assert.Equal(t, http.MethodPut, mock.LastRequest().Method)
	assert.JSONEq(t, `{"name":"Platform","private":true}`, string(mock.LastRequest().Body))

	require.NoError(t, space.Delete(ctx))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
}

func TestSpace_CreateFolderAndList(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("space/790/folder"), testutil.NewHealthyResponse(`{"id":"457","name":"Backend"}`))
	mock.SetResponse(path("space/790/list"), testutil.NewHealthyResponse(`{"id":"125","name":"Inbox"}`))

	ctx := context.Background()
	space := api.Space("790")

	folder, err := space.CreateFolder(ctx, FolderCreate{Name: "Backend"})
	require.NoError(t, err)
	assert.Equal(t, "457", folder.ID)
	assert.JSONEq(t, `{"name":"Backend"}`, string(mock.LastRequest().Body))

	high := PriorityHigh
	list, err := space.CreateList(ctx, ListCreate{Name: "Inbox", Priority: &high, Assignee: 183})
	require.NoError(t, err)
	assert.Equal(t, "125", list.ID)
	assert.JSONEq(t, `{"name":"Inbox","priority":2,"assignee":183}`, string(mock.LastRequest().Body))
}

func TestFolder_Mutations(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("folder/457"), testutil.NewHealthyResponse(`{"id":"457","name":"Core","hidden":true}`))
	mock.SetResponse(path("folder/457/list"), testutil.NewHealthyResponse(`{"id":"126","name":"Sprint 1"}`))

	ctx := context.Background()
	folder := api.Folder("457")

	hidden := true
	got, err := folder.Update(ctx, FolderUpdate{Hidden: &hidden})
	require.NoError(t, err)
	assert.True(t, got.Hidden)
	assert.JSONEq(t, `{"hidden":true}`, string(mock.LastRequest().Body))

	list, err := folder.CreateList(ctx, ListCreate{Name: "Sprint 1"})
	require.NoError(t, err)
	assert.Equal(t, "126", list.ID)
	assert.Equal(t, path("folder/457/list"), mock.LastRequest().Path)

	require.NoError(t, folder.Delete(ctx))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
}

func TestList_Mutations(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("list/124"), testutil.NewHealthyResponse(`{"id":"124","name":"API v2"}`))
	mock.SetResponse(path("list/124/task/9hx"), testutil.NewHealthyResponse(`{}`))

	ctx := context.Background()
	list := api.List("124")

	name, unset := "API v2", true
	got, err := list.Update(ctx, ListUpdate{Name: &name, UnsetStatus: &unset})
	require.NoError(t, err)
	assert.Equal(t, "API v2", got.Name)
	assert.JSONEq(t, `{"name":"API v2","unset_status":true}`, string(mock.LastRequest().Body))

	require.NoError(t, list.AddTask(ctx, "9hx"))
	assert.Equal(t, http.MethodPost, mock.LastRequest().Method)
	require.NoError(t, list.RemoveTask(ctx, "9hx"))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
	assert.Equal(t, path("list/124/task/9hx"), mock.LastRequest().Path)

	require.NoError(t, list.Delete(ctx))
	assert.Equal(t, path("list/124"), mock.LastRequest().Path)
}

func TestHierarchyMutations_InvalidInput(t *testing.T) {
	api, mock := newTestAPI(t)
	ctx := context.Background()

	empty := ""
	low := Priority(7)
	calls := []struct {
		name string
		call func() error
	}{
		{"space without name", func() error { _, err := api.Workspace("9011").CreateSpace(ctx, SpaceCreate{}); return err }},
		{"space bad color", func() error {
			_, err := api.Workspace("9011").CreateSpace(ctx, SpaceCreate{Name: "x", Color: "red"})
			return err
		}},
		{"space empty rename", func() error { _, err := api.Space("790").Update(ctx, SpaceUpdate{Name: &empty}); return err }},
		{"folder without name", func() error { _, err := api.Space("790").CreateFolder(ctx, FolderCreate{}); return err }},
		{"empty folder update", func() error { _, err := api.Folder("457").Update(ctx, FolderUpdate{}); return err }},
		{"list without name", func() error { _, err := api.Folder("457").CreateList(ctx, ListCreate{}); return err }},
		{"list bad priority", func() error { _, err := api.List("124").Update(ctx, ListUpdate{Priority: &low}); return err }},
		{"missing task id", func() error { return api.List("124").AddTask(ctx, "") }},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), client.ErrConfiguration)
		})
	}
	assert.Equal(t, 0, mock.GetRequestCount())
}
