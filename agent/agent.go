package agent

import (
	"context"
	"errors"
	"slices"
	"sync"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/archestra-ai/secure-agent/event"
	"github.com/archestra-ai/secure-agent/tool"
	"github.com/google/uuid"
)

// Agent runs tool-calling conversations against a model.
type Agent struct {
	provider ai.ChatProvider
	registry *tool.Registry
}

// New creates an Agent. A nil registry offers the model no tools.
func New(provider ai.ChatProvider, registry *tool.Registry) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{provider: provider, registry: registry}
}

// Run drives a run to its end. The returned error is the cause of a run
// that ended with TerminationError.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	c := newCollector(ApplyOptions(opts...).initialMessages(messages))
	for e := range a.RunStream(ctx, messages, opts...) {
		c.observe(e)
	}
	return c.result()
}

// RunStream starts a run and returns its events. The channel is closed after
// RunEnd or RunError and must be drained: the run waits for the consumer
// rather than dropping events.
func (a *Agent) RunStream(ctx context.Context, messages []ai.Message, opts ...Option) <-chan Event {
	r := &run{
		agent:   a,
		id:      uuid.NewString(),
		out:     event.NewChannel(),
		options: ApplyOptions(opts...),
	}
	go r.loop(ctx, messages)
	return r.out
}

type run struct {
	agent   *Agent
	id      string
	out     chan Event
	options *Options
}

func (r *run) emit(ctx context.Context, e Event) bool {
	e.RunID = r.id
	return event.Emit(ctx, r.out, e)
}

// end sends the terminal event, even once ctx is done.
func (r *run) end(ctx context.Context, e Event) {
	r.emit(context.WithoutCancel(ctx), e)
}

func (r *run) stop(ctx context.Context, step int, last *ai.Response, reason TerminationReason) {
	r.end(ctx, Event{Type: event.RunEnd, Step: step, Response: last, Message: string(reason)})
}

func (r *run) loop(ctx context.Context, messages []ai.Message) {
	defer close(r.out)

	if d := r.options.Timeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	r.emit(ctx, Event{Type: event.RunStart})

	conversation := r.options.initialMessages(messages)
	chatOpts := slices.Concat([]ai.Option{ai.WithTools(r.agent.registry.Tools())}, r.options.ChatOptions)

	var last *ai.Response
	for step := 1; ; step++ {
		if reason := r.limitReached(ctx, step); reason != "" {
			r.stop(ctx, step-1, last, reason)
			return
		}

		r.emit(ctx, Event{Type: event.StepStart, Step: step})

		id := ai.GenerateMessageID()
		resp, err := r.callModel(ctx, conversation, chatOpts, step, id)
		if err != nil {
			if reason := contextReason(ctx); reason != "" {
				r.stop(ctx, step, last, reason)
			} else {
				r.end(ctx, Event{Type: event.RunError, Step: step, Error: err})
			}
			return
		}
		last = resp

		r.emit(ctx, Event{Type: event.StepEnd, Step: step, MessageID: id, Response: resp})

		switch {
		case r.options.StopPredicate != nil && r.options.StopPredicate(step, resp):
			r.stop(ctx, step, resp, TerminationCustom)
			return
		case !resp.HasToolCalls():
			r.stop(ctx, step, resp, TerminationComplete)
			return
		}

		results, refusedAll := r.runTools(ctx, resp.ToolCalls, step)
		conversation = append(conversation,
			ai.NewAssistantMessage(id, resp),
			ai.NewToolResultMessage(results...),
		)
		if refusedAll {
			r.stop(ctx, step, resp, TerminationRejected)
			return
		}
	}
}

// callModel streams one model turn, forwarding its text as message events.
func (r *run) callModel(ctx context.Context, conversation []ai.Message, opts []ai.Option, step int, id string) (*ai.Response, error) {
	stream, err := r.agent.provider.ChatStream(ctx, conversation, opts...)
	if err != nil {
		return nil, err
	}

	var resp *ai.Response
	started := false
	for ev := range stream {
		if ev.Err != nil {
			return nil, ev.Err
		}
		if ev.Done {
			resp = ev.Response
			continue
		}
		if ev.Delta == "" {
			continue
		}
		if !started {
			started = true
			if !r.emit(ctx, Event{Type: event.MessageStart, Step: step, MessageID: id}) {
				return nil, ctx.Err()
			}
		}
		if !r.emit(ctx, Event{Type: event.MessageDelta, Step: step, MessageID: id, Delta: ev.Delta}) {
			return nil, ctx.Err()
		}
	}

	switch {
	case resp != nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, ErrNoResponse
	}

	if started {
		r.emit(ctx, Event{Type: event.MessageEnd, Step: step, MessageID: id, Response: resp})
	}
	return resp, nil
}

// runTools answers every call of a step, in the order the model made them.
// refusedAll reports that the approver refused each one.
func (r *run) runTools(ctx context.Context, calls []ai.ToolCall, step int) (results []ai.ToolResult, refusedAll bool) {
	results = make([]ai.ToolResult, len(calls))
	var allowed []int

	for i, call := range calls {
		r.emit(ctx, Event{Type: event.ToolCallStart, Step: step, ToolCall: &call})

		if reason, refused := r.refusal(ctx, call); refused {
			results[i] = tool.ErrorResult(call, errors.New(reason))
			r.emit(ctx, Event{Type: event.ToolCallRejected, Step: step, ToolCall: &call, Message: reason})
			r.emit(ctx, Event{Type: event.ToolCallResult, Step: step, ToolCall: &call, ToolResult: &results[i]})
			continue
		}
		allowed = append(allowed, i)
	}

	if len(allowed) == 0 {
		return results, true
	}

	if !r.options.ParallelToolCalls || len(allowed) == 1 {
		for _, i := range allowed {
			results[i] = r.execute(ctx, calls[i], step)
		}
		return results, false
	}

	var wg sync.WaitGroup
	for _, i := range allowed {
		wg.Go(func() { results[i] = r.execute(ctx, calls[i], step) })
	}
	wg.Wait()
	return results, false
}

func (r *run) refusal(ctx context.Context, call ai.ToolCall) (string, bool) {
	if !r.options.requiresApproval(call.Name) {
		return "", false
	}
	if ok, reason := r.options.Approver(ctx, call); !ok {
		if reason == "" {
			reason = "Tool call rejected"
		}
		return reason, true
	}
	return "", false
}

func (r *run) execute(ctx context.Context, call ai.ToolCall, step int) ai.ToolResult {
	r.emit(ctx, Event{Type: event.ToolCallExecuting, Step: step, ToolCall: &call})

	callCtx := tool.ContextWithOutput(ctx, &toolOutput{ctx: ctx, run: r, step: step, call: &call})
	if d := r.options.HandlerTimeout; d > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, d)
		defer cancel()
	}

	result, err := r.agent.registry.Execute(callCtx, call)
	if err != nil {
		// Unknown tool: answer it so the model can choose another.
		result = tool.ErrorResult(call, err)
	}

	r.emit(ctx, Event{Type: event.ToolCallResult, Step: step, ToolCall: &call, ToolResult: &result})
	return result
}

// toolOutput carries what a tool prints into the event stream as
// ToolCallOutput events, so a consumer sees it after the model text that
// led to the call.
type toolOutput struct {
	ctx  context.Context
	run  *run
	step int
	call *ai.ToolCall
}

func (w *toolOutput) Write(p []byte) (int, error) {
	e := Event{Type: event.ToolCallOutput, Step: w.step, ToolCall: w.call, Delta: string(p)}
	if !w.run.emit(w.ctx, e) {
		return 0, w.ctx.Err()
	}
	return len(p), nil
}

func (r *run) limitReached(ctx context.Context, step int) TerminationReason {
	if reason := contextReason(ctx); reason != "" {
		return reason
	}
	if r.options.MaxSteps > 0 && step > r.options.MaxSteps {
		return TerminationMaxSteps
	}
	return ""
}

// contextReason maps a finished context to a termination reason.
func contextReason(ctx context.Context) TerminationReason {
	switch err := ctx.Err(); {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return TerminationTimeout
	default:
		return TerminationCancelled
	}
}
