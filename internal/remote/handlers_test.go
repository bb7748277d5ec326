package remote

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

func setupTestServer(t *testing.T) (*Server, *slideshow.Controller) {
	t.Helper()
	ctrl, err := slideshow.New(slideshow.Options{
		Steps: []slideshow.Step{
			{ID: "one", Title: "One", Active: "a.go", Files: []slideshow.File{{Name: "a.go"}}},
			{ID: "two", Title: "Two", Active: "a.go", Files: []slideshow.File{{Name: "a.go"}, {Name: "b.go"}}},
			{ID: "three", Title: "Three", Active: "b.go", Files: []slideshow.File{{Name: "a.go"}, {Name: "b.go"}}},
		},
	})
	require.NoError(t, err)
	return New(Direct(ctrl)), ctrl
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func decodeStatus(t *testing.T, result *mcp.CallToolResult) slideshow.Snapshot {
	t.Helper()
	require.False(t, result.IsError, extractText(result))
	var snap slideshow.Snapshot
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &snap))
	return snap
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := setupTestServer(t)

	result, err := srv.handleStatus(context.Background(), call("slide-status", nil))
	require.NoError(t, err)
	snap := decodeStatus(t, result)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, 3, snap.Total)
	assert.True(t, snap.AtStart)
	assert.Equal(t, []string{"a.go"}, snap.Files)
}

func TestHandleGoto(t *testing.T) {
	srv, ctrl := setupTestServer(t)

	tests := []struct {
		name  string
		index any
		want  int
	}{
		{"in range", float64(1), 1},
		{"clamped high", float64(42), 2},
		{"clamped low", float64(-3), 0},
		{"huge", 1e20, 2},
		{"huge negative", -1e20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.handleGoto(context.Background(), call("slide-goto", map[string]any{"index": tt.index}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeStatus(t, result).Index)
			assert.Equal(t, tt.want, ctrl.Index())
		})
	}
}

func TestHandleGoto_InvalidArguments(t *testing.T) {
	srv, ctrl := setupTestServer(t)

	for _, args := range []map[string]any{
		nil,
		{},
		{"index": "two"},
		{"index": 1.5},
	} {
		result, err := srv.handleGoto(context.Background(), call("slide-goto", args))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	}
	assert.Equal(t, 0, ctrl.Index())
}

func TestHandleNextPrev(t *testing.T) {
	srv, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleNext(ctx, call("slide-next", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, decodeStatus(t, result).Index)

	result, err = srv.handleNext(ctx, call("slide-next", nil))
	require.NoError(t, err)
	snap := decodeStatus(t, result)
	assert.Equal(t, 2, snap.Index)
	assert.True(t, snap.AtEnd)

	result, err = srv.handleNext(ctx, call("slide-next", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, decodeStatus(t, result).Index, "no wrap without loop")

	result, err = srv.handlePrev(ctx, call("slide-prev", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, decodeStatus(t, result).Index)
}

func TestHandleSelectFile(t *testing.T) {
	srv, ctrl := setupTestServer(t)
	ctx := context.Background()
	ctrl.JumpTo(1)

	result, err := srv.handleSelectFile(ctx, call("slide-select-file", map[string]any{"filename": "b.go"}))
	require.NoError(t, err)
	snap := decodeStatus(t, result)
	assert.Equal(t, "b.go", snap.ActiveFile)
	assert.Equal(t, 1, snap.Index)

	result, err = srv.handleSelectFile(ctx, call("slide-select-file", map[string]any{"filename": "c.go"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.True(t, strings.Contains(extractText(result), "c.go"))

	result, err = srv.handleSelectFile(ctx, call("slide-select-file", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_StartStop(t *testing.T) {
	srv, _ := setupTestServer(t)

	port, err := srv.Start(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, port)
	assert.Contains(t, srv.URL(), "/mcp")

	_, err = srv.Start(context.Background())
	assert.Error(t, err, "second start is rejected")

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}
