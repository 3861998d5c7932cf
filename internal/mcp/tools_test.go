package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ainori-ai/mlagent"
	"github.com/ainori-ai/mlagent/api"
	"github.com/ainori-ai/mlagent/internal/testutil"
)

// scriptedAgent records the last facade call and replays canned replies.
type scriptedAgent struct {
	method string
	args   []any

	payload string
	id      int64
	version uint32
	state   mlagent.PipelineState
	err     error
}

func (a *scriptedAgent) record(method string, args ...any) {
	a.method = method
	a.args = args
}

func (a *scriptedAgent) SetPipelineDescription(ctx context.Context, name, description string) error {
	a.record("SetPipelineDescription", name, description)
	return a.err
}

func (a *scriptedAgent) GetPipelineDescription(ctx context.Context, name string) (string, error) {
	a.record("GetPipelineDescription", name)
	return a.payload, a.err
}

func (a *scriptedAgent) DeletePipeline(ctx context.Context, name string) error {
	a.record("DeletePipeline", name)
	return a.err
}

func (a *scriptedAgent) LaunchPipeline(ctx context.Context, name string) (int64, error) {
	a.record("LaunchPipeline", name)
	return a.id, a.err
}

func (a *scriptedAgent) StartPipeline(ctx context.Context, id int64) error {
	a.record("StartPipeline", id)
	return a.err
}

func (a *scriptedAgent) StopPipeline(ctx context.Context, id int64) error {
	a.record("StopPipeline", id)
	return a.err
}

func (a *scriptedAgent) DestroyPipeline(ctx context.Context, id int64) error {
	a.record("DestroyPipeline", id)
	return a.err
}

func (a *scriptedAgent) GetPipelineState(ctx context.Context, id int64) (mlagent.PipelineState, error) {
	a.record("GetPipelineState", id)
	return a.state, a.err
}

func (a *scriptedAgent) RegisterModel(ctx context.Context, req mlagent.RegisterModelRequest) (uint32, error) {
	a.record("RegisterModel", req)
	return a.version, a.err
}

func (a *scriptedAgent) UpdateModelDescription(ctx context.Context, name string, version uint32, description string) error {
	a.record("UpdateModelDescription", name, version, description)
	return a.err
}

func (a *scriptedAgent) ActivateModel(ctx context.Context, name string, version uint32) error {
	a.record("ActivateModel", name, version)
	return a.err
}

func (a *scriptedAgent) GetModel(ctx context.Context, name string, version uint32) (string, error) {
	a.record("GetModel", name, version)
	return a.payload, a.err
}

func (a *scriptedAgent) GetActivatedModel(ctx context.Context, name string) (string, error) {
	a.record("GetActivatedModel", name)
	return a.payload, a.err
}

func (a *scriptedAgent) ListModels(ctx context.Context, name string) (string, error) {
	a.record("ListModels", name)
	return a.payload, a.err
}

func (a *scriptedAgent) DeleteModel(ctx context.Context, name string, version uint32, force bool) error {
	a.record("DeleteModel", name, version, force)
	return a.err
}

func (a *scriptedAgent) AddResource(ctx context.Context, req mlagent.AddResourceRequest) error {
	a.record("AddResource", req)
	return a.err
}

func (a *scriptedAgent) DeleteResource(ctx context.Context, name string) error {
	a.record("DeleteResource", name)
	return a.err
}

func (a *scriptedAgent) GetResource(ctx context.Context, name string) (string, error) {
	a.record("GetResource", name)
	return a.payload, a.err
}

func newTestServer(agent *scriptedAgent) *Server {
	return New(agent, testutil.TestLogger(), "test")
}

// toolRequest builds a CallToolRequest for the named tool.
func toolRequest(name string, args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// parseToolText extracts the first TextContent text from a CallToolResult.
func parseToolText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no TextContent found in tool result")
	return ""
}

// ---------- pipeline tool tests ----------

func TestHandlePipelineSet(t *testing.T) {
	agent := &scriptedAgent{}
	srv := newTestServer(agent)

	result, err := srv.handlePipelineSet(context.Background(), toolRequest("mlagent_pipeline_set", map[string]any{
		"name":        "cam",
		"description": "videotestsrc ! fakesink",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "expected success: %s", parseToolText(t, result))

	assert.Equal(t, "SetPipelineDescription", agent.method)
	assert.Equal(t, []any{"cam", "videotestsrc ! fakesink"}, agent.args)

	var resp struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
	assert.Equal(t, "stored", resp.Status)
}

func TestHandlePipelineSet_MissingArguments(t *testing.T) {
	agent := &scriptedAgent{}
	srv := newTestServer(agent)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing name", args: map[string]any{"description": "d"}},
		{name: "missing description", args: map[string]any{"name": "cam"}},
		{name: "empty", args: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.handlePipelineSet(context.Background(), toolRequest("mlagent_pipeline_set", tt.args))
			require.NoError(t, err, "handler should not return go error, only tool error")
			require.True(t, result.IsError)
			assert.Contains(t, parseToolText(t, result), "required")
			assert.Empty(t, agent.method, "agent must not be called on bad arguments")
		})
	}
}

func TestHandlePipelineLaunch(t *testing.T) {
	agent := &scriptedAgent{id: 4711}
	srv := newTestServer(agent)

	result, err := srv.handlePipelineLaunch(context.Background(), toolRequest("mlagent_pipeline_launch", map[string]any{
		"name": "cam",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
	assert.Equal(t, int64(4711), resp.ID)
	assert.Equal(t, "launched", resp.Status)
}

func TestHandlePipelineState(t *testing.T) {
	agent := &scriptedAgent{state: mlagent.StatePlaying}
	srv := newTestServer(agent)

	result, err := srv.handlePipelineState(context.Background(), toolRequest("mlagent_pipeline_state", map[string]any{
		"id": 4711,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, []any{int64(4711)}, agent.args)

	var resp struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
	assert.Equal(t, "playing", resp.State)
}

func TestHandlePipelineStop_RemoteFailure(t *testing.T) {
	agent := &scriptedAgent{err: &mlagent.RemoteError{Facet: "Pipeline", Method: "StopPipeline", Code: -22}}
	srv := newTestServer(agent)

	result, err := srv.handlePipelineStop(context.Background(), toolRequest("mlagent_pipeline_stop", map[string]any{
		"id": 9,
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "status -22")
}

// ---------- model tool tests ----------

func TestHandleModelRegister(t *testing.T) {
	agent := &scriptedAgent{version: 3}
	srv := newTestServer(agent)

	result, err := srv.handleModelRegister(context.Background(), toolRequest("mlagent_model_register", map[string]any{
		"name":     "det",
		"path":     "/opt/models/det.tflite",
		"activate": true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "expected success: %s", parseToolText(t, result))

	require.Equal(t, "RegisterModel", agent.method)
	req, ok := agent.args[0].(mlagent.RegisterModelRequest)
	require.True(t, ok)
	assert.Equal(t, "det", req.Name)
	assert.Equal(t, "/opt/models/det.tflite", req.Path)
	assert.True(t, req.Activate)
	assert.Empty(t, req.Description)
	assert.Empty(t, req.AppInfo)

	var resp struct {
		Version uint32 `json:"version"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
	assert.Equal(t, uint32(3), resp.Version)
	assert.Equal(t, "registered", resp.Status)
}

func TestHandleModelRegister_MissingPath(t *testing.T) {
	agent := &scriptedAgent{}
	srv := newTestServer(agent)

	result, err := srv.handleModelRegister(context.Background(), toolRequest("mlagent_model_register", map[string]any{
		"name": "det",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "name and path are required")
	assert.Empty(t, agent.method)
}

func TestHandleModelGet_ReturnsPayloadVerbatim(t *testing.T) {
	payload := `{"name":"det","version":1,"path":"/opt/models/det.tflite","app_info":"{}"}`
	agent := &scriptedAgent{payload: payload}
	srv := newTestServer(agent)

	result, err := srv.handleModelGet(context.Background(), toolRequest("mlagent_model_get", map[string]any{
		"name":    "det",
		"version": 1,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, []any{"det", uint32(1)}, agent.args)
	assert.Equal(t, payload, parseToolText(t, result))
}

func TestHandleModelDelete_ForwardsVersionAndForce(t *testing.T) {
	agent := &scriptedAgent{}
	srv := newTestServer(agent)

	result, err := srv.handleModelDelete(context.Background(), toolRequest("mlagent_model_delete", map[string]any{
		"name":    "det",
		"version": 2,
		"force":   true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "DeleteModel", agent.method)
	assert.Equal(t, []any{"det", uint32(2), true}, agent.args)
}

// ---------- resource tool tests ----------

func TestHandleResourceAdd(t *testing.T) {
	agent := &scriptedAgent{}
	srv := newTestServer(agent)

	result, err := srv.handleResourceAdd(context.Background(), toolRequest("mlagent_resource_add", map[string]any{
		"name":        "labels",
		"path":        "/opt/res/labels.txt",
		"description": "coco labels",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Equal(t, "AddResource", agent.method)
	req, ok := agent.args[0].(mlagent.AddResourceRequest)
	require.True(t, ok)
	assert.Equal(t, "labels", req.Name)
	assert.Equal(t, "/opt/res/labels.txt", req.Path)
	assert.Equal(t, "coco labels", req.Description)
}

func TestHandleResourceGet_UnavailableAgent(t *testing.T) {
	agent := &scriptedAgent{err: mlagent.ErrAgentUnavailable}
	srv := newTestServer(agent)

	result, err := srv.handleResourceGet(context.Background(), toolRequest("mlagent_resource_get", map[string]any{
		"name": "labels",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "get resource")
}

// ---------- resource (MCP) handler tests ----------

func TestHandleInterfaceResource(t *testing.T) {
	srv := newTestServer(&scriptedAgent{})

	contents, err := srv.handleInterface(context.Background(), mcplib.ReadResourceRequest{
		Params: mcplib.ReadResourceParams{
			URI: "mlagent://interface",
		},
	})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	trc, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok, "expected TextResourceContents")
	assert.Equal(t, "mlagent://interface", trc.URI)
	assert.Equal(t, "application/xml", trc.MIMEType)
	assert.Equal(t, string(api.IntrospectXML), trc.Text)
}

func TestHandleModelResource(t *testing.T) {
	payload := `[{"name":"det","version":1,"path":"/opt/models/det.tflite","app_info":"{}"}]`
	agent := &scriptedAgent{payload: payload}
	srv := newTestServer(agent)

	contents, err := srv.handleModelResource(context.Background(), mcplib.ReadResourceRequest{
		Params: mcplib.ReadResourceParams{
			URI: "mlagent://model/det",
		},
	})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	assert.Equal(t, "ListModels", agent.method)
	assert.Equal(t, []any{"det"}, agent.args)

	trc, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", trc.MIMEType)
	assert.Equal(t, payload, trc.Text)
}

func TestHandleModelResource_InvalidURI(t *testing.T) {
	srv := newTestServer(&scriptedAgent{})

	tests := []string{
		"mlagent://model/",
		"mlagent://model/a/b",
		"mlagent://other/det",
	}
	for _, uri := range tests {
		_, err := srv.handleModelResource(context.Background(), mcplib.ReadResourceRequest{
			Params: mcplib.ReadResourceParams{
				URI: uri,
			},
		})
		assert.Error(t, err, "uri %s should be rejected", uri)
	}
}

func TestHandleResourceResource(t *testing.T) {
	payload := `[{"name":"labels","path":"/opt/res/labels.txt","app_info":"{}"}]`
	agent := &scriptedAgent{payload: payload}
	srv := newTestServer(agent)

	contents, err := srv.handleResourceResource(context.Background(), mcplib.ReadResourceRequest{
		Params: mcplib.ReadResourceParams{
			URI: "mlagent://resource/labels",
		},
	})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	assert.Equal(t, "GetResource", agent.method)
	assert.Equal(t, []any{"labels"}, agent.args)
}
