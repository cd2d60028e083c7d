package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/archestra-ai/secure-agent/event"
	"github.com/archestra-ai/secure-agent/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider implements ai.ChatProvider for testing.
type mockProvider struct {
	mu        sync.Mutex
	responses []mockResponse
	callCount int
	requests  [][]ai.Message
	options   []*ai.Options
}

type mockResponse struct {
	content   string
	toolCalls []ai.ToolCall
	err       error
}

func (m *mockProvider) next(messages []ai.Message, opts []ai.Option) (mockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, messages)
	m.options = append(m.options, ai.ApplyOptions(opts...))
	if m.callCount >= len(m.responses) {
		return mockResponse{content: "No more responses"}, false
	}
	resp := m.responses[m.callCount]
	m.callCount++
	return resp, true
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp, _ := m.next(messages, opts)
	if resp.err != nil {
		return nil, resp.err
	}
	return &ai.Response{
		Content:   resp.content,
		ToolCalls: resp.toolCalls,
		Usage:     ai.Usage{InputTokens: 10, OutputTokens: 20},
	}, nil
}

func (m *mockProvider) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	resp, _ := m.next(messages, opts)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		if resp.err != nil {
			ch <- ai.StreamEvent{Err: resp.err}
			return
		}
		// Stream the content one rune at a time.
		for _, c := range resp.content {
			select {
			case <-ctx.Done():
				ch <- ai.StreamEvent{Err: ctx.Err()}
				return
			case ch <- ai.StreamEvent{Delta: string(c)}:
			}
		}
		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:   resp.content,
				ToolCalls: resp.toolCalls,
				Usage:     ai.Usage{InputTokens: 10, OutputTokens: 20},
			},
		}
	}()

	return ch, nil
}

func okHandler(result string) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		return result, nil
	}
}

func register(r *tool.Registry, t ai.Tool, h tool.Handler) {
	r.Add(tool.Registration{Tool: t, Handler: h})
}

func userMessages(content string) []ai.Message {
	return []ai.Message{ai.NewUserMessage(content)}
}

// --- Options Tests ---

func TestApplyOptions(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		opts := ApplyOptions()

		assert.Equal(t, 10, opts.MaxSteps)
		assert.Equal(t, 30*time.Second, opts.HandlerTimeout)
		assert.True(t, opts.ParallelToolCalls)
		assert.Empty(t, opts.Instructions)
	})

	t.Run("applies custom options", func(t *testing.T) {
		opts := ApplyOptions(
			WithInstructions("Be helpful."),
			WithMaxSteps(5),
			WithTimeout(time.Minute),
			WithHandlerTimeout(10*time.Second),
			WithParallelToolCalls(false),
			WithModel(testModel("gpt-4o-mini")),
		)

		assert.Equal(t, "Be helpful.", opts.Instructions)
		assert.Equal(t, 5, opts.MaxSteps)
		assert.Equal(t, time.Minute, opts.Timeout)
		assert.Equal(t, 10*time.Second, opts.HandlerTimeout)
		assert.False(t, opts.ParallelToolCalls)
		assert.Len(t, opts.ChatOptions, 1)
	})
}

type testModel string

func (m testModel) String() string { return string(m) }

func TestDenyTools(t *testing.T) {
	approve := DenyTools("blocked", "send_email")

	ok, reason := approve(context.Background(), ai.ToolCall{Name: "send_email"})
	assert.False(t, ok)
	assert.Equal(t, "blocked", reason)

	ok, _ = approve(context.Background(), ai.ToolCall{Name: "read_file"})
	assert.True(t, ok)
}

// --- Agent Tests ---

func TestAgent_Run_SimpleConversation(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "Hello! How can I help you?"},
		},
	}

	agent := New(provider, tool.NewRegistry())

	result, err := agent.Run(context.Background(), userMessages("Hi"))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, TerminationComplete, result.Termination)
	assert.Equal(t, "Hello! How can I help you?", result.Response.Content)
	assert.Equal(t, ai.Usage{InputTokens: 10, OutputTokens: 20}, result.TotalUsage)
	assert.NotEmpty(t, result.RunID)
}

func TestAgent_Run_Instructions(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{{content: "ok"}}}
	agent := New(provider, nil)

	result, err := agent.Run(context.Background(), userMessages("Hi"),
		WithInstructions("Be helpful and thorough. Complete all requested tasks."),
	)
	require.NoError(t, err)

	sent := provider.requests[0]
	require.Len(t, sent, 2)
	assert.Equal(t, ai.RoleSystem, sent[0].Role)
	assert.Equal(t, "Be helpful and thorough. Complete all requested tasks.", sent[0].Content)
	assert.Equal(t, ai.RoleUser, sent[1].Role)

	msgs := result.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, ai.RoleSystem, msgs[0].Role)
	assert.Equal(t, ai.RoleAssistant, msgs[2].Role)
}

func TestAgent_Run_WithToolCalls(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{
				content: "Let me read that.",
				toolCalls: []ai.ToolCall{
					{ID: "call_1", Name: "read_file", Arguments: `{"file_path":"notes.txt"}`},
				},
			},
			{content: "The file says hello."},
		},
	}

	registry := tool.NewRegistry()
	register(registry, 
		ai.Tool{Name: "read_file", Description: "Read a file", Parameters: json.RawMessage(`{"type":"object"}`)},
		okHandler(`{"content":"hello"}`),
	)

	agent := New(provider, registry)

	result, err := agent.Run(context.Background(), userMessages("Read notes.txt"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, TerminationComplete, result.Termination)
	assert.Equal(t, "The file says hello.", result.Response.Content)
	assert.Equal(t, ai.Usage{InputTokens: 20, OutputTokens: 40}, result.TotalUsage)

	// user, assistant+tool call, tool result, final assistant
	msgs := result.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, ai.RoleAssistant, msgs[1].Role)
	assert.Len(t, msgs[1].ToolCalls, 1)
	assert.Equal(t, ai.RoleTool, msgs[2].Role)
	assert.Equal(t, []ai.ToolResult{{ToolCallID: "call_1", Content: `{"content":"hello"}`}}, msgs[2].ToolResults)
	assert.Equal(t, "The file says hello.", msgs[3].Content)

	// The second model call sees the tool result.
	second := provider.requests[1]
	require.Len(t, second, 3)
	assert.Equal(t, ai.RoleTool, second[2].Role)

	// Tools are advertised on every call.
	for _, o := range provider.options {
		require.Len(t, o.Tools, 1)
		assert.Equal(t, "read_file", o.Tools[0].Name)
	}
}

func TestAgent_Run_UnknownTool(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{toolCalls: []ai.ToolCall{{ID: "c1", Name: "delete_repo", Arguments: "{}"}}},
			{content: "Sorry, I can't do that."},
		},
	}

	agent := New(provider, tool.NewRegistry())

	result, err := agent.Run(context.Background(), userMessages("Go"))

	require.NoError(t, err)
	assert.Equal(t, TerminationComplete, result.Termination)

	toolMsg := result.Messages()[2]
	require.Len(t, toolMsg.ToolResults, 1)
	assert.True(t, toolMsg.ToolResults[0].IsError)
	assert.JSONEq(t, `{"error":"tool not found: delete_repo"}`, toolMsg.ToolResults[0].Content)
}

func TestAgent_Run_MaxSteps(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "Step 1", toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
			{content: "Step 2", toolCalls: []ai.ToolCall{{ID: "c2", Name: "tool1", Arguments: "{}"}}},
			{content: "Step 3", toolCalls: []ai.ToolCall{{ID: "c3", Name: "tool1", Arguments: "{}"}}},
			{content: "Step 4"},
		},
	}

	registry := tool.NewRegistry()
	register(registry, ai.Tool{Name: "tool1"}, okHandler("ok"))

	agent := New(provider, registry)

	result, err := agent.Run(context.Background(), userMessages("Go"), WithMaxSteps(2))

	require.NoError(t, err)
	assert.Equal(t, TerminationMaxSteps, result.Termination)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, 2, provider.calls())
	assert.Equal(t, "Step 2", result.Response.Content)
}

func TestAgent_Run_Timeout(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "Processing...", toolCalls: []ai.ToolCall{{ID: "c1", Name: "slow_tool", Arguments: "{}"}}},
		},
	}

	registry := tool.NewRegistry()
	register(registry, 
		ai.Tool{Name: "slow_tool"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		},
	)

	agent := New(provider, registry)

	result, err := agent.Run(context.Background(), userMessages("Go"), WithTimeout(50*time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, TerminationTimeout, result.Termination)
}

func TestAgent_Run_HandlerTimeout(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{toolCalls: []ai.ToolCall{{ID: "c1", Name: "slow_tool", Arguments: "{}"}}},
			{content: "Gave up on the tool."},
		},
	}

	registry := tool.NewRegistry()
	register(registry, 
		ai.Tool{Name: "slow_tool"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	)

	agent := New(provider, registry)

	result, err := agent.Run(context.Background(), userMessages("Go"), WithHandlerTimeout(20*time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, TerminationComplete, result.Termination)
	toolResult := result.Messages()[2].ToolResults[0]
	assert.True(t, toolResult.IsError)
	assert.Contains(t, toolResult.Content, "deadline exceeded")
}

func TestAgent_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &mockProvider{
		responses: []mockResponse{
			{toolCalls: []ai.ToolCall{{ID: "c1", Name: "interrupt", Arguments: "{}"}}},
			{content: "never reached"},
		},
	}

	registry := tool.NewRegistry()
	register(registry, 
		ai.Tool{Name: "interrupt"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			cancel()
			return "ok", nil
		},
	)

	agent := New(provider, registry)

	result, err := agent.Run(ctx, userMessages("Go"))

	require.NoError(t, err)
	assert.Equal(t, TerminationCancelled, result.Termination)
	assert.Equal(t, 1, provider.calls())
}

func TestAgent_Run_ProviderError(t *testing.T) {
	apiErr := ai.NewError(ai.ErrorPermanent, 401, "invalid api key", nil)
	provider := &mockProvider{
		responses: []mockResponse{{err: apiErr}},
	}

	agent := New(provider, nil)

	result, err := agent.Run(context.Background(), userMessages("Go"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.True(t, ai.IsPermanent(err))
	assert.Equal(t, TerminationError, result.Termination)
}

func TestAgent_Run_CustomStopPredicate(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "Step 1", toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
		},
	}

	agent := New(provider, tool.NewRegistry())

	result, err := agent.Run(context.Background(), userMessages("Go"),
		WithStopPredicate(func(step int, response *ai.Response) bool {
			return response.Content == "Step 1"
		}))

	require.NoError(t, err)
	assert.Equal(t, TerminationCustom, result.Termination)
}

func TestAgent_Run_Approval(t *testing.T) {
	t.Run("approved tool executes", func(t *testing.T) {
		provider := &mockProvider{
			responses: []mockResponse{
				{content: "Calling tool", toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
				{content: "Done"},
			},
		}

		registry := tool.NewRegistry()
		register(registry, ai.Tool{Name: "tool1"}, okHandler("result"))

		agent := New(provider, registry)

		result, err := agent.Run(context.Background(), userMessages("Go"),
			WithApprover(func(ctx context.Context, call ai.ToolCall) (bool, string) {
				return true, ""
			}))

		require.NoError(t, err)
		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, 2, result.Steps)
	})

	t.Run("rejected tool stops agent", func(t *testing.T) {
		var executed atomic.Bool
		provider := &mockProvider{
			responses: []mockResponse{
				{content: "Calling tool", toolCalls: []ai.ToolCall{{ID: "c1", Name: "send_email", Arguments: "{}"}}},
			},
		}

		registry := tool.NewRegistry()
		register(registry, ai.Tool{Name: "send_email"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			executed.Store(true)
			return "sent", nil
		})

		agent := New(provider, registry)

		result, err := agent.Run(context.Background(), userMessages("Go"),
			WithApprover(DenyTools("Dangerous operation", "send_email")))

		require.NoError(t, err)
		assert.Equal(t, TerminationRejected, result.Termination)
		assert.False(t, executed.Load())

		toolMsg := result.Messages()[2]
		assert.Equal(t, []ai.ToolResult{{ToolCallID: "c1", Content: `{"error":"Dangerous operation"}`, IsError: true}}, toolMsg.ToolResults)
	})

	t.Run("partial rejection continues", func(t *testing.T) {
		provider := &mockProvider{
			responses: []mockResponse{
				{toolCalls: []ai.ToolCall{
					{ID: "c1", Name: "read_file", Arguments: "{}"},
					{ID: "c2", Name: "send_email", Arguments: "{}"},
				}},
				{content: "Done"},
			},
		}

		registry := tool.NewRegistry()
		register(registry, ai.Tool{Name: "read_file"}, okHandler("contents"))
		register(registry, ai.Tool{Name: "send_email"}, okHandler("sent"))

		agent := New(provider, registry)

		result, err := agent.Run(context.Background(), userMessages("Go"),
			WithApprover(DenyTools("", "send_email")))

		require.NoError(t, err)
		assert.Equal(t, TerminationComplete, result.Termination)

		results := result.Messages()[2].ToolResults
		require.Len(t, results, 2)
		assert.Equal(t, ai.ToolResult{ToolCallID: "c1", Content: "contents"}, results[0])
		assert.Equal(t, ai.ToolResult{ToolCallID: "c2", Content: `{"error":"Tool call rejected"}`, IsError: true}, results[1])
	})

	t.Run("approval required only for specific tools", func(t *testing.T) {
		var approverCalled int32
		provider := &mockProvider{
			responses: []mockResponse{
				{content: "Calling safe", toolCalls: []ai.ToolCall{{ID: "c1", Name: "safe_tool", Arguments: "{}"}}},
				{content: "Calling dangerous", toolCalls: []ai.ToolCall{{ID: "c2", Name: "dangerous_tool", Arguments: "{}"}}},
				{content: "Done"},
			},
		}

		registry := tool.NewRegistry()
		register(registry, ai.Tool{Name: "safe_tool"}, okHandler("ok"))
		register(registry, ai.Tool{Name: "dangerous_tool"}, okHandler("ok"))

		agent := New(provider, registry)

		result, err := agent.Run(context.Background(), userMessages("Go"),
			WithApprover(func(ctx context.Context, call ai.ToolCall) (bool, string) {
				atomic.AddInt32(&approverCalled, 1)
				return true, ""
			}),
			WithApprovalRequired("dangerous_tool"),
		)

		require.NoError(t, err)
		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, int32(1), atomic.LoadInt32(&approverCalled))
	})
}

func TestAgent_RunStream_Events(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "Calling tool", toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
			{content: "Done"},
		},
	}

	registry := tool.NewRegistry()
	register(registry, ai.Tool{Name: "tool1"}, okHandler("result"))

	agent := New(provider, registry)

	var types []event.Type
	var text strings.Builder
	runIDs := map[string]bool{}
	for e := range agent.RunStream(context.Background(), userMessages("Go")) {
		types = append(types, e.Type)
		runIDs[e.RunID] = true
		if e.Type == event.MessageDelta {
			text.WriteString(e.Delta)
		}
	}

	require.NotEmpty(t, types)
	assert.Equal(t, event.RunStart, types[0])
	assert.Equal(t, event.RunEnd, types[len(types)-1])
	assert.Contains(t, types, event.StepStart)
	assert.Contains(t, types, event.MessageStart)
	assert.Contains(t, types, event.MessageEnd)
	assert.Contains(t, types, event.StepEnd)
	assert.Contains(t, types, event.ToolCallStart)
	assert.Contains(t, types, event.ToolCallExecuting)
	assert.Contains(t, types, event.ToolCallResult)
	assert.Equal(t, "Calling toolDone", text.String())
	assert.Len(t, runIDs, 1)
}

func TestAgent_RunStream_DeliversEveryDelta(t *testing.T) {
	// More deltas than the event channel buffers.
	content := strings.Repeat("x", 500)
	provider := &mockProvider{responses: []mockResponse{{content: content}}}

	agent := New(provider, nil)

	var got strings.Builder
	for e := range agent.RunStream(context.Background(), userMessages("Go")) {
		if e.Type == event.MessageDelta {
			time.Sleep(time.Microsecond)
			got.WriteString(e.Delta)
		}
	}

	assert.Equal(t, content, got.String())
}

func TestAgent_ParallelToolCalls(t *testing.T) {
	var running, peak int32

	provider := &mockProvider{
		responses: []mockResponse{
			{
				content: "Calling tools",
				toolCalls: []ai.ToolCall{
					{ID: "c1", Name: "tool1", Arguments: "{}"},
					{ID: "c2", Name: "tool2", Arguments: "{}"},
					{ID: "c3", Name: "tool3", Arguments: "{}"},
				},
			},
			{content: "Done"},
		},
	}

	registry := tool.NewRegistry()
	for _, name := range []string{"tool1", "tool2", "tool3"} {
		toolName := name
		register(registry, 
			ai.Tool{Name: toolName},
			func(ctx context.Context, call ai.ToolCall) (string, error) {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return toolName, nil
			},
		)
	}

	agent := New(provider, registry)

	result, err := agent.Run(context.Background(), userMessages("Go"), WithParallelToolCalls(true))

	require.NoError(t, err)
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))

	// Results keep the order of the model's calls.
	results := result.Messages()[2].ToolResults
	require.Len(t, results, 3)
	for i, want := range []string{"tool1", "tool2", "tool3"} {
		assert.Equal(t, want, results[i].Content)
	}
}

func TestAgent_SequentialToolCalls(t *testing.T) {
	var order []string
	var mu sync.Mutex

	provider := &mockProvider{
		responses: []mockResponse{
			{toolCalls: []ai.ToolCall{
				{ID: "c1", Name: "first", Arguments: "{}"},
				{ID: "c2", Name: "second", Arguments: "{}"},
			}},
			{content: "Done"},
		},
	}

	registry := tool.NewRegistry()
	for _, name := range []string{"first", "second"} {
		toolName := name
		register(registry, ai.Tool{Name: toolName}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			mu.Lock()
			order = append(order, toolName)
			mu.Unlock()
			return "ok", nil
		})
	}

	agent := New(provider, registry)

	_, err := agent.Run(context.Background(), userMessages("Go"), WithParallelToolCalls(false))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestErrNoResponse(t *testing.T) {
	agent := New(emptyStreamProvider{}, nil)

	result, err := agent.Run(context.Background(), userMessages("Go"))

	assert.True(t, errors.Is(err, ErrNoResponse))
	assert.Equal(t, TerminationError, result.Termination)
}

// emptyStreamProvider closes its stream without a final response.
type emptyStreamProvider struct{}

func (emptyStreamProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return nil, ErrNoResponse
}

func (emptyStreamProvider) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	ch := make(chan ai.StreamEvent)
	close(ch)
	return ch, nil
}

func TestAgent_RunStream_ToolOutput(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "Sending now.", toolCalls: []ai.ToolCall{{ID: "c1", Name: "send_email", Arguments: "{}"}}},
			{content: "Sent."},
		},
	}

	registry := tool.NewRegistry()
	register(registry, ai.Tool{Name: "send_email"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
		rep := tool.NewReporter(nil)
		rep.Call(ctx, "Sending email to: %s", "bob@example.com")
		return `{"status":"sent"}`, nil
	})

	agent := New(provider, registry)

	var transcript strings.Builder
	var output []Event
	for e := range agent.RunStream(context.Background(), userMessages("Go")) {
		switch e.Type {
		case event.MessageDelta:
			transcript.WriteString(e.Delta)
		case event.ToolCallOutput:
			transcript.WriteString(e.Delta)
			output = append(output, e)
		}
	}

	assert.Equal(t, "Sending now.[TOOL CALL] Sending email to: bob@example.com\nSent.", transcript.String())
	require.Len(t, output, 1)
	assert.Equal(t, 1, output[0].Step)
	require.NotNil(t, output[0].ToolCall)
	assert.Equal(t, "c1", output[0].ToolCall.ID)
}

func TestResult_LastMessages(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
			{content: "Done"},
		},
	}

	registry := tool.NewRegistry()
	register(registry, ai.Tool{Name: "tool1"}, okHandler("ok"))

	result, err := New(provider, registry).Run(context.Background(), userMessages("Go"))
	require.NoError(t, err)

	last := result.LastMessages(2)
	require.Len(t, last, 2)
	assert.Equal(t, ai.RoleTool, last[0].Role)
	assert.Equal(t, "Done", last[1].Content)

	assert.Len(t, result.LastMessages(10), 4)
	assert.Nil(t, result.LastMessages(0))

	// The result owns its history.
	last[1].Content = "changed"
	assert.Equal(t, "Done", result.Messages()[3].Content)
}
