package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/archestra-ai/secure-agent/tool"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerOption changes how a server introduces itself to clients.
type ServerOption func(*mcp.Implementation)

// WithName sets the server name.
func WithName(name string) ServerOption { return func(i *mcp.Implementation) { i.Name = name } }

// WithVersion sets the server version.
func WithVersion(v string) ServerOption { return func(i *mcp.Implementation) { i.Version = v } }

// NewServer publishes every tool of registry. The tool list is read once;
// tools registered later are not served.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	info := mcp.Implementation{Name: "secure-agent-tools", Version: "1.0.0"}
	for _, opt := range opts {
		opt(&info)
	}

	published := registry.Tools()
	entries := make([]server.ServerTool, 0, len(published))
	for _, t := range published {
		entries = append(entries, server.ServerTool{
			Tool:    ToMCPTool(t),
			Handler: dispatch(registry, t.Name),
		})
	}

	s := server.NewMCPServer(info.Name, info.Version, server.WithToolCapabilities(true))
	s.AddTools(entries...)
	return s
}

// dispatch runs name through registry. Every failure, including a tool that
// disappeared from the registry, is sent to the client as an error result.
func dispatch(registry *tool.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := ai.ToolCall{Name: name, Arguments: "{}"}
		if raw := req.GetRawArguments(); raw != nil {
			data, err := json.Marshal(raw)
			if err != nil {
				return toCallResult(tool.ErrorResult(call, err)), nil
			}
			call.Arguments = string(data)
		}

		slog.DebugContext(ctx, "mcp tool call", "tool", name)
		res, err := registry.Execute(ctx, call)
		if err != nil {
			res = tool.ErrorResult(call, err)
		}
		return toCallResult(res), nil
	}
}

// ServeStdio serves registry on stdin and stdout until stdin closes.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
