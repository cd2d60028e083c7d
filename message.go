package secureagent

import "github.com/google/uuid"

// Role is the author of a conversation turn.
type Role string

// Conversation roles, named as the chat-completions API names them.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of a conversation. An assistant turn may request tool
// calls; the tool turn that follows it carries one result per call.
type Message struct {
	ID          string       `json:"id,omitempty"`
	Role        Role         `json:"role"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// NewSystemMessage wraps standing instructions for the model.
func NewSystemMessage(instructions string) Message {
	return Message{Role: RoleSystem, Content: instructions}
}

// NewUserMessage wraps a task or question from the user.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage records a model turn under id so it can be replayed
// in the next request together with the tool calls it made.
func NewAssistantMessage(id string, resp *Response) Message {
	msg := Message{ID: id, Role: RoleAssistant}
	if resp != nil {
		msg.Content = resp.Content
		msg.ToolCalls = resp.ToolCalls
	}
	return msg
}

// NewToolResultMessage answers the calls of the preceding assistant turn.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{Role: RoleTool, ToolResults: results}
}

// GenerateMessageID returns a fresh "msg-" prefixed identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.NewString()
}
