// Package mcp exposes a Mealie client as Model Context Protocol tools and
// resources.
//
// NewServer registers every tool and resource with an mcp-go server. Run
// serves stdio; RunHTTP serves the streamable HTTP transport. ListTools,
// CallTool and ReadResource give direct access for embedding and tests.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Server wraps the MCP server with Mealie tools and resources.
type Server struct {
	client    *mealie.Client
	mcpServer *server.MCPServer
	logger    zerolog.Logger
	version   string

	tools     []toolDef
	toolIndex map[string]toolDef
	resources []resourceDef
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolInfo represents a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// handlerFunc does the work of one tool. The returned value is encoded as
// JSON; a returned error becomes the {"error": ...} envelope.
type handlerFunc func(ctx context.Context, args map[string]any) (any, error)

type toolDef struct {
	tool   mcp.Tool
	handle handlerFunc
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool failures.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// NewServer creates a new MCP server with every Mealie tool and resource
// registered.
func NewServer(client *mealie.Client, opts ...ServerOption) *Server {
	s := &Server{
		client:    client,
		logger:    zerolog.Nop(),
		version:   mealie.Version,
		toolIndex: map[string]toolDef{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		"mealie",
		s.version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithRecovery(),
	)

	s.register(s.utilityTools()...)
	s.register(s.recipeTools()...)
	s.register(s.organizerTools()...)
	s.register(s.foodTools()...)
	s.register(s.unitTools()...)
	s.register(s.mealPlanTools()...)
	s.register(s.mealPlanRuleTools()...)
	s.register(s.shoppingTools()...)
	s.register(s.parserTools()...)
	s.register(s.cookbookTools()...)
	s.register(s.ratingTools()...)
	s.register(s.sharingTools()...)
	s.register(s.commentTools()...)
	s.register(s.timelineTools()...)
	s.register(s.webhookTools()...)
	s.register(s.notificationTools()...)
	s.register(s.recipeActionTools()...)
	s.registerResources()

	return s
}

// Run starts the MCP server on stdin and stdout.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// RunHTTP serves the MCP streamable HTTP transport on addr.
func (s *Server) RunHTTP(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("serving streamable http")
	return server.NewStreamableHTTPServer(s.mcpServer).Start(addr)
}

// HandleMessage processes a raw JSON-RPC message and returns a response.
// This is primarily for testing the MCP protocol layer.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns all registered tools in registration order.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, 0, len(s.tools))
	for _, def := range s.tools {
		out = append(out, ToolInfo{Name: def.tool.Name, Description: def.tool.Description})
	}
	return out
}

// CallTool executes a tool by name with the given arguments.
// This is used for testing and direct invocation.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	def, ok := s.toolIndex[name]
	if !ok {
		return &ToolResult{Content: fmt.Sprintf("unknown tool: %s", name), IsError: true}, nil
	}
	return s.invoke(ctx, def, args), nil
}

func (s *Server) register(defs ...toolDef) {
	for _, def := range defs {
		def := def
		if _, dup := s.toolIndex[def.tool.Name]; dup {
			panic("mcp: tool registered twice: " + def.tool.Name)
		}
		s.tools = append(s.tools, def)
		s.toolIndex[def.tool.Name] = def
		s.mcpServer.AddTool(def.tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return toMCPResult(s.invoke(ctx, def, req.GetArguments())), nil
		})
	}
}

// invoke runs a handler and encodes its outcome. Failures, panics included,
// never surface as protocol errors.
func (s *Server) invoke(ctx context.Context, def toolDef, args map[string]any) (res *ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("tool", def.tool.Name).Msg("tool panicked")
			res = &ToolResult{Content: errorJSON(fmt.Errorf("internal error: %v", r)), IsError: true}
		}
	}()
	if args == nil {
		args = map[string]any{}
	}
	if err := rejectSentinel(def.tool, args); err != nil {
		s.logger.Warn().Err(err).Str("tool", def.tool.Name).Msg("tool failed")
		return &ToolResult{Content: errorJSON(err), IsError: true}
	}
	result, err := def.handle(ctx, args)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", def.tool.Name).Msg("tool failed")
		return &ToolResult{Content: errorJSON(err), IsError: true}
	}
	content, err := encode(result)
	if err != nil {
		return &ToolResult{Content: errorJSON(err), IsError: true}
	}
	return &ToolResult{Content: content}
}

func toMCPResult(r *ToolResult) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: r.Content,
			},
		},
	}
	if r.IsError {
		result.IsError = true
	}
	return result
}

func encode(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func errorJSON(err error) string {
	data, _ := json.Marshal(map[string]string{"error": mealie.Message(err)})
	return string(data)
}

// deleted is the payload returned by delete tools.
func deleted(kind, id string) map[string]any {
	return map[string]any{"success": true, "message": fmt.Sprintf("%s %s deleted", kind, id)}
}
