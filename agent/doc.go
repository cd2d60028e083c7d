// Package agent runs an autonomous tool-calling loop on top of an
// ai.ChatProvider.
//
// Each step streams one model call. If the response requests tools, they are
// executed through a tool.Registry, the results are appended to the
// conversation, and the loop continues. A response without tool calls ends
// the run.
//
//	registry := tool.NewRegistry().Add(tool.Workspace()...)
//	a := agent.New(client, registry)
//
//	result, err := a.Run(ctx, []ai.Message{ai.NewUserMessage(task)},
//	    agent.WithInstructions("Be helpful and thorough."),
//	    agent.WithMaxSteps(5),
//	)
//
// # Streaming Events
//
// RunStream returns a channel of events. Every event is delivered; a slow
// consumer slows the run down rather than losing text. The channel must be
// drained until it is closed.
//
// Console lines printed by a tool.Reporter during a call arrive as
// ToolCallOutput events, between the model text that asked for the call and
// the text that follows it.
//
//	for e := range a.RunStream(ctx, messages) {
//	    switch e.Type {
//	    case event.MessageDelta, event.ToolCallOutput:
//	        fmt.Print(e.Delta)
//	    case event.RunEnd:
//	        fmt.Println()
//	    }
//	}
//
// # Tool Approval
//
// WithApprover gates tool execution. A refused call is reported to the model
// as an error result; if every call of a step is refused the run stops with
// TerminationRejected.
//
//	agent.WithApprover(agent.DenyTools("blocked by policy", "send_email"))
//
// # Termination
//
//   - The model responds without tool calls (TerminationComplete)
//   - MaxSteps is reached (TerminationMaxSteps)
//   - Timeout is exceeded (TerminationTimeout)
//   - Context is cancelled (TerminationCancelled)
//   - StopPredicate returns true (TerminationCustom)
//   - All tool calls are rejected (TerminationRejected)
//   - An error occurs (TerminationError)
package agent
