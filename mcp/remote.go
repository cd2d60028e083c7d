package mcp

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/archestra-ai/secure-agent/tool"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

var clientInfo = mcp.Implementation{Name: "secure-agent", Version: "1.0.0"}

// RemoteRegistry offers the tools of an MCP server to an agent. The tool
// list is fetched on connect and again on Refresh. It is safe for concurrent
// use.
type RemoteRegistry struct {
	client *client.Client

	mu    sync.RWMutex
	tools []ai.Tool // by name
}

// NewRemoteRegistry runs command as a stdio MCP server and connects to it.
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: launch %s: %w", command, err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistryFromClient opens a session on c and fetches its tools.
// c is closed if any of that fails.
func NewRemoteRegistryFromClient(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	r := &RemoteRegistry{client: c}
	if err := r.connect(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

func (r *RemoteRegistry) connect(ctx context.Context) error {
	if err := r.client.Start(ctx); err != nil {
		return fmt.Errorf("mcp: start: %w", err)
	}

	var hello mcp.InitializeRequest
	hello.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	hello.Params.ClientInfo = clientInfo
	if _, err := r.client.Initialize(ctx, hello); err != nil {
		return fmt.Errorf("mcp: initialize: %w", err)
	}

	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("mcp: list tools: %w", err)
	}
	return nil
}

// Close ends the session.
func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh replaces the cached tool list with the server's current one.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	listed, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	tools := make([]ai.Tool, len(listed.Tools))
	for i, t := range listed.Tools {
		tools[i] = FromMCPTool(t)
	}
	slices.SortFunc(tools, byName)

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

func byName(a, b ai.Tool) int { return cmp.Compare(a.Name, b.Name) }

// Tools returns the cached tools sorted by name.
func (r *RemoteRegistry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tools)
}

// Len returns the number of cached tools.
func (r *RemoteRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

func (r *RemoteRegistry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := slices.BinarySearchFunc(r.tools, name, func(t ai.Tool, name string) int {
		return cmp.Compare(t.Name, name)
	})
	return found
}

// Execute runs call on the server. A name the server did not list is an
// error; a failed round trip is an error result for the model.
func (r *RemoteRegistry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	if !r.has(call.Name) {
		return ai.ToolResult{}, fmt.Errorf("%w: %s", tool.ErrToolNotFound, call.Name)
	}

	res, err := r.client.CallTool(ctx, toCallRequest(call))
	if err != nil {
		return tool.ErrorResult(call, err), nil
	}
	return fromCallResult(call.ID, res), nil
}

// Registrations mounts the cached tools into a local tool.Registry. A
// remote error result surfaces as the handler's error.
func (r *RemoteRegistry) Registrations() []tool.Registration {
	var regs []tool.Registration
	for _, t := range r.Tools() {
		regs = append(regs, tool.Registration{Tool: t, Handler: r.forward})
	}
	return regs
}

func (r *RemoteRegistry) forward(ctx context.Context, call ai.ToolCall) (string, error) {
	res, err := r.Execute(ctx, call)
	switch {
	case err != nil:
		return "", err
	case res.IsError:
		return "", errors.New(res.Content)
	}
	return res.Content, nil
}
