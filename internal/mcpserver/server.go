// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes component scanning to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/kitscan/internal/scanner"
	"github.com/starford/kitscan/internal/scanservice"
	"github.com/starford/kitscan/internal/storage"
)

// FormatURI is the resource URI of the component format description.
const FormatURI = "kitscan://component-format"

// Server wraps the MCP server with scanning tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *scanservice.Service
}

// New creates a new MCP server with all tools registered.
func New(store storage.Provider, svc *scanservice.Service, version string) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"kitscan",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_components",
		mcp.WithDescription("Scan the project's .claude/ tree and return commands, agents, "+
			"skills, and workflows as JSON."),
		mcp.WithString("type",
			mcp.Description("Category to scan"),
			mcp.Enum("all", "commands", "agents", "skills", "workflows"),
		),
		mcp.WithBoolean("scenarios", mcp.Description("Also generate test scenarios for commands")),
	), s.scanComponents)

	s.mcp.AddTool(mcp.NewTool("generate_scenarios",
		mcp.WithDescription("Generate test scenarios for every command whose name matches a known trigger."),
	), s.generateScenarios)

	s.mcp.AddTool(mcp.NewTool("read_component",
		mcp.WithDescription("Read the raw Markdown of a component file."),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Path relative to the project root, as returned by scan_components")),
	), s.readComponent)

	s.mcp.AddTool(mcp.NewTool("scan_history",
		mcp.WithDescription("List recorded scans, newest first. Requires a configured catalog."),
		mcp.WithNumber("limit", mcp.Description("Maximum records (default 20)")),
	), s.scanHistory)

	s.mcp.AddTool(mcp.NewTool("get_component_format",
		mcp.WithDescription("Returns the component layout and header block format the scanner understands."),
	), s.getComponentFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Component Format",
			mcp.WithResourceDescription("Directory layout and header block format of components."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) scanComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	selector := req.GetString("type", "all")
	withScenarios := req.GetBool("scenarios", false)

	res, err := s.svc.Scan(ctx, selector, withScenarios)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) generateScenarios(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenarios, err := s.svc.Scenarios(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"scenarios": scenarios})
}

func (s *Server) readComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !strings.HasSuffix(p, scanner.Extension) {
		return mcp.NewToolResultError(fmt.Sprintf("not a component file: %s", p)), nil
	}
	data, err := s.store.Read(p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", p)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) scanHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	recs, err := s.svc.History(ctx, limit)
	if err != nil {
		if errors.Is(err, scanservice.ErrRecordingDisabled) {
			return mcp.NewToolResultError("no catalog configured; set catalog.path and use --record"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"scans": recs})
}

func (s *Server) getComponentFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ComponentFormat), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     ComponentFormat,
		},
	}, nil
}
