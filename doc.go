// Package secureagent is a small LLM agent runtime used to demonstrate how an
// autonomous, tool-calling agent behaves with and without a security proxy in
// front of the model provider.
//
// The root package holds the provider-neutral types shared by every other
// package: conversation [Message] values, [Tool] definitions and calls,
// streaming [StreamEvent] values, request [Option] values and categorized
// errors. Callers usually import it under the short name ai:
//
//	import ai "github.com/archestra-ai/secure-agent"
//
// # Providers
//
// A [ChatProvider] sends a conversation to a model and returns either a
// complete [Response] or a channel of [StreamEvent] values. The OpenAI
// implementation lives in [github.com/archestra-ai/secure-agent/provider/openai]
// and can be pointed at any OpenAI-compatible base URL, which is how traffic is
// routed through a proxy.
//
// # Tools and agents
//
// Tools are registered in a [github.com/archestra-ai/secure-agent/tool.Registry]
// and driven by [github.com/archestra-ai/secure-agent/agent.Agent], which loops
// over model calls and tool executions until the model stops asking for tools:
//
//	registry := tool.NewRegistry().Add(tool.Workspace()...)
//	a := agent.New(openai.New(apiKey), registry)
//	result, err := a.Run(ctx, []ai.Message{
//	    {Role: ai.RoleUser, Content: "Summarize README.md"},
//	})
package secureagent
