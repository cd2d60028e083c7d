package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	ai "github.com/archestra-ai/secure-agent"
)

// Handler serves one tool call and returns the text handed to the model.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler serves a call whose arguments were decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Registration pairs a tool definition with the handler serving it.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func binds fn as the tool name, with a parameter schema generated from
// the tags of T. Empty arguments decode to the zero T.
//
//	tool.Func("read_file", "Read the contents of a file.", readFile)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  ai.MustSchemaFor[T](),
		},
		Handler: func(ctx context.Context, call ai.ToolCall) (string, error) {
			args, err := decodeArgs[T](name, call.Arguments)
			if err != nil {
				return "", err
			}
			return fn(ctx, args)
		},
	}
}

func decodeArgs[T any](name, raw string) (T, error) {
	var args T
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return args, fmt.Errorf("%w for %s: %w", ErrInvalidArguments, name, err)
	}
	return args, nil
}
