package secureagent

import "context"

// ChatProvider sends a conversation to a model.
type ChatProvider interface {
	// Chat waits for the whole model turn.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// ChatStream returns the turn as it is generated. Failures before the
	// request is sent are returned directly; later ones arrive as a
	// StreamEvent with Err set. The channel is closed after Done or Err.
	ChatStream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}

// StreamEvent is one item of a streamed turn: a text Delta, the final
// Response with Done set, or Err.
type StreamEvent struct {
	Delta    string
	Done     bool
	Response *Response
	Err      error
}

// Response is a finished model turn.
type Response struct {
	Content      string     `json:"content,omitempty"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        Usage      `json:"usage"`
}

// HasToolCalls reports whether the turn asked for tools. A nil response
// asks for nothing.
func (r *Response) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

// Usage counts billed tokens.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add sums two counts, e.g. across the steps of an agent run.
func (u Usage) Add(o Usage) Usage {
	u.InputTokens += o.InputTokens
	u.OutputTokens += o.OutputTokens
	return u
}
