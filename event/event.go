// Package event defines what an agent run reports while it executes.
package event

import (
	"context"
	"time"

	ai "github.com/archestra-ai/secure-agent"
)

// Type names an event.
type Type string

// Run lifecycle. A run starts with RunStart and ends with exactly one of
// RunEnd or RunError.
const (
	RunStart Type = "run_start"
	RunEnd   Type = "run_end"   // Message holds the termination reason
	RunError Type = "run_error" // Error holds the cause
)

// A step is one model call plus the tool calls it asked for.
const (
	StepStart Type = "step_start"
	StepEnd   Type = "step_end" // Response holds the model turn
)

// Model text, sent only for turns that produced text.
const (
	MessageStart Type = "message_start"
	MessageDelta Type = "message_delta" // Delta holds the next chunk
	MessageEnd   Type = "message_end"
)

// Tool calls. Each call reports Start, then either Rejected or Executing
// followed by any Output, and finally Result.
const (
	ToolCallStart     Type = "tool_call_start"
	ToolCallRejected  Type = "tool_call_rejected" // Message holds the reason
	ToolCallExecuting Type = "tool_call_executing"
	ToolCallOutput    Type = "tool_call_output" // Delta holds console text the tool printed
	ToolCallResult    Type = "tool_call_result"
)

// Event is one observation of a run. Fields that do not apply to Type are
// left zero.
type Event struct {
	Type  Type
	RunID string
	Step  int // 1-based, 0 before the first step

	MessageID string
	Delta     string
	Response  *ai.Response

	ToolCall   *ai.ToolCall
	ToolResult *ai.ToolResult

	Message string
	Error   error

	Timestamp time.Time
}

// Emit stamps e and sends it on ch. It blocks until the event is received or
// ctx is done, and reports whether the event was sent.
func Emit(ctx context.Context, ch chan<- Event, e Event) bool {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// NewChannel returns the buffered channel a run sends its events on.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
