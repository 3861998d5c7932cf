package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ainori-ai/mlagent"
)

func (s *Server) registerTools() {
	// Pipeline facet.
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_set",
			mcplib.WithDescription("Register a pipeline description under a name, overwriting any previous one"),
			mcplib.WithString("name", mcplib.Description("Pipeline name"), mcplib.Required()),
			mcplib.WithString("description", mcplib.Description("Pipeline description to store"), mcplib.Required()),
		),
		s.handlePipelineSet,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_get",
			mcplib.WithDescription("Fetch the pipeline description registered under a name"),
			mcplib.WithString("name", mcplib.Description("Pipeline name"), mcplib.Required()),
		),
		s.handlePipelineGet,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_delete",
			mcplib.WithDescription("Remove the pipeline description registered under a name"),
			mcplib.WithString("name", mcplib.Description("Pipeline name"), mcplib.Required()),
		),
		s.handlePipelineDelete,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_launch",
			mcplib.WithDescription("Construct a runnable pipeline from a registered description and return its instance id"),
			mcplib.WithString("name", mcplib.Description("Pipeline name"), mcplib.Required()),
		),
		s.handlePipelineLaunch,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_start",
			mcplib.WithDescription("Start a launched pipeline"),
			mcplib.WithNumber("id", mcplib.Description("Pipeline instance id"), mcplib.Required()),
		),
		s.handlePipelineStart,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_stop",
			mcplib.WithDescription("Stop a launched pipeline; it stays launched and can be started again"),
			mcplib.WithNumber("id", mcplib.Description("Pipeline instance id"), mcplib.Required()),
		),
		s.handlePipelineStop,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_destroy",
			mcplib.WithDescription("Tear down a launched pipeline and release its resources"),
			mcplib.WithNumber("id", mcplib.Description("Pipeline instance id"), mcplib.Required()),
		),
		s.handlePipelineDestroy,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_pipeline_state",
			mcplib.WithDescription("Report the current state of a launched pipeline"),
			mcplib.WithNumber("id", mcplib.Description("Pipeline instance id"), mcplib.Required()),
		),
		s.handlePipelineState,
	)

	// Model facet.
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_register",
			mcplib.WithDescription("Register a model file under a name; the agent assigns and returns a version"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
			mcplib.WithString("path", mcplib.Description("Absolute path of the model file"), mcplib.Required()),
			mcplib.WithBoolean("activate", mcplib.Description("Activate this version immediately")),
			mcplib.WithString("description", mcplib.Description("Free-form model description")),
			mcplib.WithString("app_info", mcplib.Description("Packaging context of the model file")),
		),
		s.handleModelRegister,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_update_description",
			mcplib.WithDescription("Replace the description of a registered model version"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
			mcplib.WithNumber("version", mcplib.Description("Model version"), mcplib.Required()),
			mcplib.WithString("description", mcplib.Description("New description"), mcplib.Required()),
		),
		s.handleModelUpdateDescription,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_activate",
			mcplib.WithDescription("Mark a version as the active version of a model"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
			mcplib.WithNumber("version", mcplib.Description("Model version"), mcplib.Required()),
		),
		s.handleModelActivate,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_get",
			mcplib.WithDescription("Fetch the JSON record of a registered model version, with resolved paths"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
			mcplib.WithNumber("version", mcplib.Description("Model version"), mcplib.Required()),
		),
		s.handleModelGet,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_get_activated",
			mcplib.WithDescription("Fetch the JSON record of the active version of a model, with resolved paths"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
		),
		s.handleModelGetActivated,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_list",
			mcplib.WithDescription("List every registered version of a model as a JSON array, with resolved paths"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
		),
		s.handleModelList,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_model_delete",
			mcplib.WithDescription("Remove a model version; version 0 removes every version of the name"),
			mcplib.WithString("name", mcplib.Description("Model name"), mcplib.Required()),
			mcplib.WithNumber("version", mcplib.Description("Model version; 0 removes all versions")),
			mcplib.WithBoolean("force", mcplib.Description("Remove even if active or in use")),
		),
		s.handleModelDelete,
	)

	// Resource facet.
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_resource_add",
			mcplib.WithDescription("Register a resource file under a name; adding appends rather than replaces"),
			mcplib.WithString("name", mcplib.Description("Resource name"), mcplib.Required()),
			mcplib.WithString("path", mcplib.Description("Absolute path of the resource file"), mcplib.Required()),
			mcplib.WithString("description", mcplib.Description("Free-form resource description")),
			mcplib.WithString("app_info", mcplib.Description("Packaging context of the resource file")),
		),
		s.handleResourceAdd,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_resource_delete",
			mcplib.WithDescription("Remove every path registered under a resource name"),
			mcplib.WithString("name", mcplib.Description("Resource name"), mcplib.Required()),
		),
		s.handleResourceDelete,
	)
	s.mcpServer.AddTool(
		mcplib.NewTool("mlagent_resource_get",
			mcplib.WithDescription("Fetch the JSON records registered under a resource name, with resolved paths"),
			mcplib.WithString("name", mcplib.Description("Resource name"), mcplib.Required()),
		),
		s.handleResourceGet,
	)
}

// rawResult returns an already-JSON payload as tool output without
// re-encoding it.
func rawResult(payload string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: payload},
		},
	}
}

func (s *Server) handlePipelineSet(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	description := request.GetString("description", "")
	if name == "" || description == "" {
		return errorResult("name and description are required"), nil
	}

	if err := s.agent.SetPipelineDescription(ctx, name, description); err != nil {
		return callError("set pipeline", err), nil
	}
	return textResult(map[string]any{"name": name, "status": "stored"}), nil
}

func (s *Server) handlePipelineGet(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	description, err := s.agent.GetPipelineDescription(ctx, name)
	if err != nil {
		return callError("get pipeline", err), nil
	}
	return textResult(map[string]any{"name": name, "description": description}), nil
}

func (s *Server) handlePipelineDelete(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	if err := s.agent.DeletePipeline(ctx, name); err != nil {
		return callError("delete pipeline", err), nil
	}
	return textResult(map[string]any{"name": name, "status": "deleted"}), nil
}

func (s *Server) handlePipelineLaunch(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	id, err := s.agent.LaunchPipeline(ctx, name)
	if err != nil {
		return callError("launch pipeline", err), nil
	}
	return textResult(map[string]any{"name": name, "id": id, "status": "launched"}), nil
}

func (s *Server) handlePipelineStart(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := int64(request.GetInt("id", 0))

	if err := s.agent.StartPipeline(ctx, id); err != nil {
		return callError("start pipeline", err), nil
	}
	return textResult(map[string]any{"id": id, "status": "started"}), nil
}

func (s *Server) handlePipelineStop(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := int64(request.GetInt("id", 0))

	if err := s.agent.StopPipeline(ctx, id); err != nil {
		return callError("stop pipeline", err), nil
	}
	return textResult(map[string]any{"id": id, "status": "stopped"}), nil
}

func (s *Server) handlePipelineDestroy(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := int64(request.GetInt("id", 0))

	if err := s.agent.DestroyPipeline(ctx, id); err != nil {
		return callError("destroy pipeline", err), nil
	}
	return textResult(map[string]any{"id": id, "status": "destroyed"}), nil
}

func (s *Server) handlePipelineState(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := int64(request.GetInt("id", 0))

	state, err := s.agent.GetPipelineState(ctx, id)
	if err != nil {
		return callError("get pipeline state", err), nil
	}
	return textResult(map[string]any{"id": id, "state": state.String()}), nil
}

func (s *Server) handleModelRegister(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	path := request.GetString("path", "")
	if name == "" || path == "" {
		return errorResult("name and path are required"), nil
	}

	version, err := s.agent.RegisterModel(ctx, mlagent.RegisterModelRequest{
		Name:        name,
		Path:        path,
		Activate:    request.GetBool("activate", false),
		Description: request.GetString("description", ""),
		AppInfo:     request.GetString("app_info", ""),
	})
	if err != nil {
		return callError("register model", err), nil
	}
	return textResult(map[string]any{"name": name, "version": version, "status": "registered"}), nil
}

func (s *Server) handleModelUpdateDescription(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	description := request.GetString("description", "")
	if name == "" || description == "" {
		return errorResult("name and description are required"), nil
	}
	version := uint32(request.GetInt("version", 0))

	if err := s.agent.UpdateModelDescription(ctx, name, version, description); err != nil {
		return callError("update model description", err), nil
	}
	return textResult(map[string]any{"name": name, "version": version, "status": "updated"}), nil
}

func (s *Server) handleModelActivate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}
	version := uint32(request.GetInt("version", 0))

	if err := s.agent.ActivateModel(ctx, name, version); err != nil {
		return callError("activate model", err), nil
	}
	return textResult(map[string]any{"name": name, "version": version, "status": "activated"}), nil
}

func (s *Server) handleModelGet(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}
	version := uint32(request.GetInt("version", 0))

	payload, err := s.agent.GetModel(ctx, name, version)
	if err != nil {
		return callError("get model", err), nil
	}
	return rawResult(payload), nil
}

func (s *Server) handleModelGetActivated(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	payload, err := s.agent.GetActivatedModel(ctx, name)
	if err != nil {
		return callError("get activated model", err), nil
	}
	return rawResult(payload), nil
}

func (s *Server) handleModelList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	payload, err := s.agent.ListModels(ctx, name)
	if err != nil {
		return callError("list models", err), nil
	}
	return rawResult(payload), nil
}

func (s *Server) handleModelDelete(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}
	version := uint32(request.GetInt("version", 0))
	force := request.GetBool("force", false)

	if err := s.agent.DeleteModel(ctx, name, version, force); err != nil {
		return callError("delete model", err), nil
	}
	return textResult(map[string]any{"name": name, "version": version, "status": "deleted"}), nil
}

func (s *Server) handleResourceAdd(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	path := request.GetString("path", "")
	if name == "" || path == "" {
		return errorResult("name and path are required"), nil
	}

	err := s.agent.AddResource(ctx, mlagent.AddResourceRequest{
		Name:        name,
		Path:        path,
		Description: request.GetString("description", ""),
		AppInfo:     request.GetString("app_info", ""),
	})
	if err != nil {
		return callError("add resource", err), nil
	}
	return textResult(map[string]any{"name": name, "status": "added"}), nil
}

func (s *Server) handleResourceDelete(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	if err := s.agent.DeleteResource(ctx, name); err != nil {
		return callError("delete resource", err), nil
	}
	return textResult(map[string]any{"name": name, "status": "deleted"}), nil
}

func (s *Server) handleResourceGet(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	payload, err := s.agent.GetResource(ctx, name)
	if err != nil {
		return callError("get resource", err), nil
	}
	return rawResult(payload), nil
}
