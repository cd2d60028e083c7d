package mcp

import (
	"encoding/json"
	"strings"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCPTool publishes t with its parameter schema as the raw input schema.
// A tool without parameters takes an empty object.
func ToMCPTool(t ai.Tool) mcp.Tool {
	if len(t.Parameters) == 0 {
		t.Parameters = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// FromMCPTool describes a server tool to the model.
func FromMCPTool(remote mcp.Tool) ai.Tool {
	params := json.RawMessage(remote.RawInputSchema)
	if len(params) == 0 {
		params, _ = json.Marshal(remote.InputSchema)
	}
	return ai.Tool{Name: remote.Name, Description: remote.Description, Parameters: params}
}

// toCallRequest forwards call to a server. Arguments that do not parse as
// JSON are sent as a plain string and left for the server to refuse.
func toCallRequest(call ai.ToolCall) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = call.Name
	if call.Arguments == "" {
		return req
	}

	var args any
	if json.Unmarshal([]byte(call.Arguments), &args) != nil {
		args = call.Arguments
	}
	req.Params.Arguments = args
	return req
}

// fromCallResult answers callID with the text of a server result, one line
// per content part. Non-text parts and structured content appear as JSON.
func fromCallResult(callID string, res *mcp.CallToolResult) ai.ToolResult {
	answer := ai.ToolResult{ToolCallID: callID, IsError: true}
	if res == nil {
		return answer
	}

	lines := make([]string, 0, len(res.Content)+1)
	for _, part := range res.Content {
		lines = appendText(lines, part)
	}
	if res.StructuredContent != nil {
		lines = appendText(lines, res.StructuredContent)
	}

	answer.Content = strings.Join(lines, "\n")
	answer.IsError = res.IsError
	return answer
}

func appendText(lines []string, part any) []string {
	switch p := part.(type) {
	case mcp.TextContent:
		return append(lines, p.Text)
	case *mcp.TextContent:
		return append(lines, p.Text)
	}
	if data, err := json.Marshal(part); err == nil {
		lines = append(lines, string(data))
	}
	return lines
}

// toCallResult returns a registry answer to an MCP client.
func toCallResult(res ai.ToolResult) *mcp.CallToolResult {
	if !res.IsError {
		return mcp.NewToolResultText(res.Content)
	}
	return mcp.NewToolResultError(res.Content)
}
