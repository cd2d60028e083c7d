package tool

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	ai "github.com/archestra-ai/secure-agent"
)

// Registry is the set of tools an agent offers the model.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Registration)}
}

// Register adds regs in order and stops at the first name already taken.
func (r *Registry) Register(regs ...Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range regs {
		if _, taken := r.byName[reg.Tool.Name]; taken {
			return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, reg.Tool.Name)
		}
		r.byName[reg.Tool.Name] = reg
	}
	return nil
}

// Add is Register for tool sets fixed in code. It panics on a duplicate
// name and returns r for chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	if err := r.Register(regs...); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the registration serving name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byName[name]
	return reg, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}

// Tools returns the definitions in name order, so every step of a run
// offers the model an identical tool list.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.byName))
	for _, name := range slices.Sorted(maps.Keys(r.byName)) {
		tools = append(tools, r.byName[name].Tool)
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Execute serves call. A failing handler is answered with an error result
// so the model can react; only an unknown name is returned as an error.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	reg, ok := r.Lookup(call.Name)
	if !ok {
		return ai.ToolResult{}, fmt.Errorf("%w: %s", ErrToolNotFound, call.Name)
	}

	content, err := reg.Handler(ctx, call)
	if err != nil {
		return ErrorResult(call, err), nil
	}
	return ai.ToolResult{ToolCallID: call.ID, Content: content}, nil
}
