// Package mcp implements the Model Context Protocol server for the ML agent.
//
// The MCP server exposes the agent's pipeline, model, and resource
// operations as tools, letting MCP-compatible AI agents drive on-device
// ML workloads through the same facade the CLI uses.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ainori-ai/mlagent"
	"github.com/ainori-ai/mlagent/api"
)

// Agent is the facade surface the MCP tools invoke. *mlagent.Client
// satisfies it; tests substitute a scripted double.
type Agent interface {
	SetPipelineDescription(ctx context.Context, name, description string) error
	GetPipelineDescription(ctx context.Context, name string) (string, error)
	DeletePipeline(ctx context.Context, name string) error
	LaunchPipeline(ctx context.Context, name string) (int64, error)
	StartPipeline(ctx context.Context, id int64) error
	StopPipeline(ctx context.Context, id int64) error
	DestroyPipeline(ctx context.Context, id int64) error
	GetPipelineState(ctx context.Context, id int64) (mlagent.PipelineState, error)
	RegisterModel(ctx context.Context, req mlagent.RegisterModelRequest) (uint32, error)
	UpdateModelDescription(ctx context.Context, name string, version uint32, description string) error
	ActivateModel(ctx context.Context, name string, version uint32) error
	GetModel(ctx context.Context, name string, version uint32) (string, error)
	GetActivatedModel(ctx context.Context, name string) (string, error)
	ListModels(ctx context.Context, name string) (string, error)
	DeleteModel(ctx context.Context, name string, version uint32, force bool) error
	AddResource(ctx context.Context, req mlagent.AddResourceRequest) error
	DeleteResource(ctx context.Context, name string) error
	GetResource(ctx context.Context, name string) (string, error)
}

// Server wraps the MCP server around the agent facade.
type Server struct {
	mcpServer *mcpserver.MCPServer
	agent     Agent
	logger    *slog.Logger
}

// New creates and configures a new MCP server with all resources and tools.
func New(agent Agent, logger *slog.Logger, version string) *Server {
	s := &Server{
		agent:  agent,
		logger: logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"mlagent",
		version,
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithToolCapabilities(true),
	)

	s.registerResources()
	s.registerTools()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

func (s *Server) registerResources() {
	// mlagent://interface: the agent's remote interface description.
	s.mcpServer.AddResource(
		mcplib.NewResource(
			"mlagent://interface",
			"Agent Interface",
			mcplib.WithResourceDescription("D-Bus interface description of the agent's three facets"),
			mcplib.WithMIMEType("application/xml"),
		),
		s.handleInterface,
	)

	// mlagent://model/{name}: every registered version of a model.
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"mlagent://model/{name}",
			"Model Versions",
			mcplib.WithTemplateDescription("All registered versions of a model, with resolved paths"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.handleModelResource,
	)

	// mlagent://resource/{name}: files registered under a resource name.
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"mlagent://resource/{name}",
			"Resource Files",
			mcplib.WithTemplateDescription("Files registered under a shared resource name, with resolved paths"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.handleResourceResource,
	)
}

func (s *Server) handleInterface(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      "mlagent://interface",
			MIMEType: "application/xml",
			Text:     string(api.IntrospectXML),
		},
	}, nil
}

func (s *Server) handleModelResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	name, err := templateName(request.Params.URI, "mlagent://model/")
	if err != nil {
		return nil, err
	}

	payload, err := s.agent.ListModels(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("mcp: list models: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     payload,
		},
	}, nil
}

func (s *Server) handleResourceResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	name, err := templateName(request.Params.URI, "mlagent://resource/")
	if err != nil {
		return nil, err
	}

	payload, err := s.agent.GetResource(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("mcp: get resource: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     payload,
		},
	}, nil
}

// templateName extracts the {name} segment of a templated resource URI.
func templateName(uri, prefix string) (string, error) {
	name := strings.TrimPrefix(uri, prefix)
	if name == "" || name == uri || strings.Contains(name, "/") {
		return "", fmt.Errorf("mcp: invalid resource URI: %s", uri)
	}
	return name, nil
}

// errorResult wraps a human-readable failure so the calling agent sees a
// tool error instead of a protocol error.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

// callError renders a facade error for a tool result, keeping the agent's
// own status code visible when the failure was remote.
func callError(action string, err error) *mcplib.CallToolResult {
	if code, ok := mlagent.RemoteCode(err); ok {
		return errorResult(fmt.Sprintf("%s: agent rejected the call with status %d", action, code))
	}
	return errorResult(fmt.Sprintf("%s: %v", action, err))
}

func textResult(v any) *mcplib.CallToolResult {
	data, _ := json.Marshal(v)
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}
}
