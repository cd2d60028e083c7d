package agent

import (
	"context"
	"slices"
	"time"

	ai "github.com/archestra-ai/secure-agent"
)

// ApproverFunc decides whether a tool call may run. The reason for a refusal
// is sent back to the model as the call's result.
type ApproverFunc func(ctx context.Context, call ai.ToolCall) (approved bool, reason string)

// StopFunc ends a run after step when it returns true.
type StopFunc func(step int, response *ai.Response) bool

// Defaults set by ApplyOptions.
const (
	DefaultMaxSteps       = 10
	DefaultHandlerTimeout = 30 * time.Second
)

// Options configures a run.
type Options struct {
	Instructions      string        // sent first, as a system message
	MaxSteps          int           // model calls per run, 0 for no limit
	Timeout           time.Duration // whole run, 0 for none
	HandlerTimeout    time.Duration // each tool call, 0 for none
	ParallelToolCalls bool

	Approver         ApproverFunc // nil allows every call
	ApprovalRequired []string     // tools that need approval, empty for all
	StopPredicate    StopFunc

	ChatOptions []ai.Option // passed to every model call
}

// Option configures a run.
type Option func(*Options)

// WithInstructions sets the system instructions.
func WithInstructions(s string) Option { return func(o *Options) { o.Instructions = s } }

// WithMaxSteps limits the number of model calls. 0 removes the limit.
func WithMaxSteps(n int) Option { return func(o *Options) { o.MaxSteps = n } }

// WithTimeout bounds the whole run.
func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

// WithHandlerTimeout bounds each tool call. 0 removes the bound.
func WithHandlerTimeout(d time.Duration) Option { return func(o *Options) { o.HandlerTimeout = d } }

// WithParallelToolCalls runs the tool calls of one step concurrently.
func WithParallelToolCalls(on bool) Option { return func(o *Options) { o.ParallelToolCalls = on } }

// WithApprover gates tool calls through fn.
func WithApprover(fn ApproverFunc) Option { return func(o *Options) { o.Approver = fn } }

// WithApprovalRequired limits the approver to the named tools.
func WithApprovalRequired(tools ...string) Option {
	return func(o *Options) { o.ApprovalRequired = tools }
}

// WithStopPredicate ends the run after any step for which fn returns true.
func WithStopPredicate(fn StopFunc) Option { return func(o *Options) { o.StopPredicate = fn } }

// WithChatOptions passes opts to every model call.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) { o.ChatOptions = append(o.ChatOptions, opts...) }
}

// WithModel overrides the provider's model for the run.
func WithModel(model ai.Model) Option { return WithChatOptions(ai.WithModel(model)) }

// ApplyOptions builds Options from the defaults and opts.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps:          DefaultMaxSteps,
		HandlerTimeout:    DefaultHandlerTimeout,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DenyTools refuses the named tools with reason and allows the rest. It is
// the in-process counterpart of a proxy policy that blocks a tool outright.
func DenyTools(reason string, names ...string) ApproverFunc {
	return func(_ context.Context, call ai.ToolCall) (bool, string) {
		if slices.Contains(names, call.Name) {
			return false, reason
		}
		return true, ""
	}
}

func (o *Options) requiresApproval(name string) bool {
	if o.Approver == nil {
		return false
	}
	return len(o.ApprovalRequired) == 0 || slices.Contains(o.ApprovalRequired, name)
}

// initialMessages returns a fresh copy of the conversation a run starts from.
func (o *Options) initialMessages(messages []ai.Message) []ai.Message {
	if o.Instructions == "" {
		return slices.Clone(messages)
	}
	return append([]ai.Message{ai.NewSystemMessage(o.Instructions)}, messages...)
}
