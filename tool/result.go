package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	ai "github.com/archestra-ai/secure-agent"
)

// Result is the JSON object a workspace tool returns to the model. It holds
// either a success payload or a single "error" key.
type Result map[string]any

// errorResult reports err to the model instead of failing the call.
func errorResult(err error) Result {
	return Result{"error": err.Error()}
}

// IsError reports whether the result carries an error.
func (r Result) IsError() bool {
	_, ok := r["error"]
	return ok
}

// ErrorResult answers call with {"error": err}, flagged as an error.
func ErrorResult(call ai.ToolCall, err error) ai.ToolResult {
	content, _ := json.Marshal(errorResult(err))
	return ai.ToolResult{ToolCallID: call.ID, Content: string(content), IsError: true}
}

// resultFunc adapts a handler that always produces a Result.
func resultFunc[T any](fn func(ctx context.Context, args T) Result) TypedHandler[T] {
	return func(ctx context.Context, args T) (string, error) {
		out, err := json.Marshal(fn(ctx, args))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

type outputKey struct{}

// ContextWithOutput directs the console lines of tool calls made with ctx
// to w instead of the writer the tools were built with. An agent uses it to
// deliver tool output in order with the rest of a run.
func ContextWithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// Reporter prints the console trace of tool activity. Each line is written
// with a single Write, and concurrent calls do not interleave.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewReporter creates a Reporter writing to w. A nil writer discards output.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

// Call prints a "[TOOL CALL]" line.
func (r *Reporter) Call(ctx context.Context, format string, args ...any) {
	r.line(ctx, "[TOOL CALL] ", format, args...)
}

// Result prints a "[TOOL RESULT]" line.
func (r *Reporter) Result(ctx context.Context, format string, args ...any) {
	r.line(ctx, "[TOOL RESULT] ", format, args...)
}

// Error prints a "[TOOL ERROR]" line.
func (r *Reporter) Error(ctx context.Context, format string, args ...any) {
	r.line(ctx, "[TOOL ERROR] ", format, args...)
}

func (r *Reporter) line(ctx context.Context, prefix, format string, args ...any) {
	w := r.w
	if cw, ok := ctx.Value(outputKey{}).(io.Writer); ok && cw != nil {
		w = cw
	}

	text := prefix + fmt.Sprintf(format, args...) + "\n"
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(w, text)
}
