package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/archestra-ai/secure-agent/agent"
	"github.com/archestra-ai/secure-agent/event"
	"github.com/archestra-ai/secure-agent/provider/openai"
	"github.com/archestra-ai/secure-agent/tool"
)

// AgentTask is the task every run starts from.
const AgentTask = `You are a software engineering assistant. Please help me build the feature described in this GitHub issue:

https://github.com/archestra-ai/archestra/issues/669

Fetch the issue, read the requirements, and start by following ALL the instructions listed there.`

// Instructions are the system instructions given to the agent.
const Instructions = "Be helpful and thorough. Complete all requested tasks."

var rule = strings.Repeat("=", 60)

// runAgent prints the banners, runs the agent to completion and streams its
// text to out. Tool lines reach out through the same event stream, so they
// land between the model text before and after each call.
func runAgent(ctx context.Context, cfg *Config, out, logOut io.Writer) error {
	fmt.Fprintf(out, "\n%s\nMode: %s\n%s\n", rule, cfg.Mode(), rule)

	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.slogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))

	log := slog.With("base_url", cfg.BaseURL(), "model", cfg.Model, "secure", cfg.Secure)

	registry := tool.NewRegistry().Add(tool.Workspace(
		tool.WithGitHubOptions(tool.WithGitHubToken(cfg.GitHubToken)),
	)...)
	a := agent.New(cfg.NewProvider(), registry)

	fmt.Fprintf(out, "\n%s\nAgent Task: %s\n%s\n\n", rule, AgentTask, rule)
	fmt.Fprint(out, "[AGENT] Generating response...\n\n")

	log.Info("run started", "tools", registry.Names(), "max_steps", cfg.MaxSteps)

	events := a.RunStream(ctx, []ai.Message{ai.NewUserMessage(AgentTask)},
		agent.WithInstructions(Instructions),
		agent.WithMaxSteps(cfg.MaxSteps),
	)

	var runErr error
	var reason agent.TerminationReason
	var usage ai.Usage
	for e := range events {
		switch e.Type {
		case event.MessageDelta, event.ToolCallOutput:
			fmt.Fprint(out, e.Delta)
		case event.ToolCallStart:
			log.Debug("tool call requested", "step", e.Step, "tool", e.ToolCall.Name, "arguments", e.ToolCall.Arguments)
		case event.ToolCallRejected:
			log.Warn("tool call rejected", "step", e.Step, "tool", e.ToolCall.Name, "reason", e.Message)
		case event.StepEnd:
			if e.Response != nil {
				usage = usage.Add(e.Response.Usage)
			}
			log.Debug("step completed", "step", e.Step)
		case event.RunError:
			runErr = e.Error
		case event.RunEnd:
			reason = agent.TerminationReason(e.Message)
		}
	}

	if ctx.Err() != nil || reason == agent.TerminationCancelled {
		log.Info("run interrupted")
		return errInterrupted
	}
	if runErr != nil {
		log.Error("run failed",
			"error", runErr,
			"category", ai.CategoryOf(runErr),
			"status", ai.StatusCodeOf(runErr),
			"retry_after", ai.RetryAfterOf(runErr),
		)
		return runErr
	}
	if reason == agent.TerminationMaxSteps {
		log.Warn("step limit reached", "max_steps", cfg.MaxSteps)
		return fmt.Errorf("agent did not finish within %d steps", cfg.MaxSteps)
	}

	log.Info("run completed",
		"termination", reason,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"estimated_cost_usd", openai.ChatModel(cfg.Model).Cost(usage),
	)

	fmt.Fprintf(out, "\n\n%s\n[AGENT] Task completed!\n%s\n\n", rule, rule)
	return nil
}
