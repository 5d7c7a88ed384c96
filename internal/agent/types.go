package agent

import (
	"context"
	"encoding/json"

	"ai-writing-assistant/pkg/llmprovider"
)

// Tool represents an agent capability that can be called by the model.
type Tool interface {
	// Name returns the tool name (used in function calling).
	Name() string

	// Description returns what the tool does (for the model).
	Description() string

	// Parameters returns the JSON schema for tool arguments.
	Parameters() map[string]interface{}

	// Execute runs the tool with the model-emitted raw JSON arguments and
	// returns the result serialized for the conversation.
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry manages available tools.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	if _, ok := r.tools[tool.Name()]; !ok {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Definitions converts the registered tools to the canonical tool format
// offered to the model, in registration order.
func (r *Registry) Definitions() []llmprovider.Tool {
	defs := make([]llmprovider.Tool, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, llmprovider.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return defs
}
