package openai

import (
	"encoding/json"
	"fmt"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// request builds the completion parameters for one model call.
func (c *Client) request(messages []ai.Message, opts *ai.Options) (openai.ChatCompletionNewParams, error) {
	var params openai.ChatCompletionNewParams

	params.Model = c.model.String()
	if opts.Model != nil {
		params.Model = opts.Model.String()
	}

	var err error
	if params.Messages, err = wireMessages(messages); err != nil {
		return params, err
	}

	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}

	if len(opts.Tools) == 0 {
		return params, nil
	}
	if params.Tools, err = wireTools(opts.Tools); err != nil {
		return params, err
	}
	if opts.ToolChoice != "" {
		params.ToolChoice.OfAuto = openai.String(string(opts.ToolChoice))
	}
	return params, nil
}

// wireMessages maps a conversation onto chat completion messages. Turns
// with nothing to say are dropped, and a tool turn becomes one message per
// result.
func wireMessages(messages []ai.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	wire := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case ai.RoleSystem, ai.RoleUser:
			if m.Content == "" {
				continue
			}
			if m.Role == ai.RoleSystem {
				wire = append(wire, openai.SystemMessage(m.Content))
			} else {
				wire = append(wire, openai.UserMessage(m.Content))
			}

		case ai.RoleAssistant:
			if m.Content == "" && len(m.ToolCalls) == 0 {
				continue
			}
			wire = append(wire, openai.ChatCompletionMessageParamUnion{OfAssistant: assistantTurn(m)})

		case ai.RoleTool:
			for _, r := range m.ToolResults {
				if r.ToolCallID == "" {
					return nil, fmt.Errorf("openai: tool result without a call id")
				}
				wire = append(wire, openai.ToolMessage(r.Content, r.ToolCallID))
			}

		default:
			return nil, fmt.Errorf("openai: cannot send a %q message", m.Role)
		}
	}
	return wire, nil
}

func assistantTurn(m ai.Message) *openai.ChatCompletionAssistantMessageParam {
	turn := new(openai.ChatCompletionAssistantMessageParam)
	if m.Content != "" {
		turn.Content.OfString = openai.String(m.Content)
	}
	for _, call := range m.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
	}
	return turn
}

// wireTools declares tools as functions. A schema that is not a JSON
// object fails the request rather than reaching the API.
func wireTools(tools []ai.Tool) ([]openai.ChatCompletionToolParam, error) {
	wire := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		fn := shared.FunctionDefinitionParam{Name: t.Name, Description: openai.String(t.Description)}
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &fn.Parameters); err != nil {
				return nil, fmt.Errorf("openai: tool %s has an invalid parameter schema: %w", t.Name, err)
			}
		}
		wire = append(wire, openai.ChatCompletionToolParam{Function: fn})
	}
	return wire, nil
}
