package openai

import (
	ai "github.com/archestra-ai/secure-agent"
	"github.com/openai/openai-go"
)

// response reads the first choice of a completion, streamed or not.
func response(choices []openai.ChatCompletionChoice, usage openai.CompletionUsage) (*ai.Response, error) {
	if len(choices) == 0 {
		return nil, ai.ErrNoChoices
	}
	first := choices[0]

	resp := &ai.Response{
		Content:      first.Message.Content,
		FinishReason: string(first.FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(usage.PromptTokens),
			OutputTokens: int(usage.CompletionTokens),
		},
	}
	for _, tc := range first.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ai.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp, nil
}
