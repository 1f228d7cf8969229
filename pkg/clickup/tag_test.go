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

func TestSpace_Tags(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("space/790/tag"), testutil.NewHealthyResponse(
		`{"tags":[{"name":"backend","tag_fg":"#ffffff","tag_bg":"#2ecd6f","creator":183}]}`))

	tags, err := api.Space("790").Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "backend", tags[0].Name)
	assert.Equal(t, "#2ecd6f", tags[0].TagBg)
}

func TestSpace_CreateTag(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("space/790/tag"), testutil.NewHealthyResponse(`{}`))

	err := api.Space("790").CreateTag(context.Background(), TagCreate{Name: "backend", Fg: "#fff", Bg: "#2ecd6f"})
	require.NoError(t, err)

	req := mock.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{"tag":{"name":"backend","tag_fg":"#fff","tag_bg":"#2ecd6f"}}`, string(req.Body))
}

func TestSpace_EditAndDeleteTagEscapesName(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("space/790/tag/needs review"), testutil.NewHealthyResponse(`{}`))

	ctx := context.Background()
	bg := "#e50000"
	require.NoError(t, api.Space("790").EditTag(ctx, "needs review", TagEdit{Bg: &bg}))

	req := mock.LastRequest()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, path("space/790/tag/needs review"), req.Path)
	assert.JSONEq(t, `{"tag":{"tag_bg":"#e50000"}}`, string(req.Body))

	require.NoError(t, api.Space("790").DeleteTag(ctx, "needs review"))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
}

func TestTask_AddAndRemoveTag(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.SetResponse(path("task/9hx/tag/backend"), testutil.NewHealthyResponse(`{}`))

	ctx := context.Background()
	require.NoError(t, api.Task("9hx").AddTag(ctx, "backend"))
	assert.Equal(t, http.MethodPost, mock.LastRequest().Method)

	require.NoError(t, api.Task("9hx").RemoveTag(ctx, "backend"))
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
	assert.Equal(t, 2, mock.GetRequestCount())
}

func TestTag_InvalidInput(t *testing.T) {
	api, mock := newTestAPI(t)
	ctx := context.Background()
	empty := ""

	tests := []struct {
		name string
		call func() error
	}{
		{"missing name", func() error { return api.Space("790").CreateTag(ctx, TagCreate{}) }},
		{"bad color", func() error { return api.Space("790").CreateTag(ctx, TagCreate{Name: "x", Bg: "green"}) }},
		{"empty edit", func() error { return api.Space("790").EditTag(ctx, "x", TagEdit{}) }},
		{"empty rename", func() error { return api.Space("790").EditTag(ctx, "x", TagEdit{Name: &empty}) }},
		{"missing tag name", func() error { return api.Task("9hx").AddTag(ctx, "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), client.ErrConfiguration)
		})
	}
	assert.Zero(t, mock.GetRequestCount())
}
