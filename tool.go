package secureagent

import "encoding/json"

// Tool describes a function the model may call. Parameters is a JSON Schema
// object, usually produced by SchemaFor.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolCall is the model asking for a tool. Arguments is the JSON object the
// model wrote, unvalidated.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult answers the ToolCall with the same ID.
//
// IsError marks calls that never produced a tool answer: undecodable
// arguments, an unknown tool or a refused call. A tool that ran and
// reported a failure inside its payload is not an error here.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// ToolChoice is the tool_choice mode sent with a request.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"     // the model decides
	ToolChoiceNone     ToolChoice = "none"     // text only
	ToolChoiceRequired ToolChoice = "required" // at least one call
)
