package llmprovider

import "context"

// Canonical message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Adapter translates the canonical request/response shape to one vendor's API.
type Adapter interface {
	// Generate sends exactly one completion call to the vendor.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// SupportsModel reports whether the model id is on the adapter's allow-list.
	SupportsModel(model string) bool

	// DefaultModel returns the adapter's configured fallback model.
	DefaultModel() string

	// Models returns the adapter's static model allow-list.
	Models() []string
}

// Message is a single turn in a conversation. Order is chronological; a tool
// result must immediately follow the assistant turn that requested it.
type Message struct {
	Role       string
	Content    string
	ToolCallID string
}

// Request is a normalized generation request.
type Request struct {
	Messages    []Message
	Model       string
	Temperature float64
	MaxTokens   int
	Tools       []Tool
}

// Tool declares a callable capability offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema
}

// ToolCall is a model-emitted request to invoke a tool. Arguments is raw JSON
// text; callers must parse and validate it before execution.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Response is a normalized generation response. A response carrying tool calls
// is never a final answer; Content may be empty in that case.
type Response struct {
	Content   string
	Usage     Usage
	ToolCalls []ToolCall
}

// Usage tracks token consumption for one vendor call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AdapterConfig configures a single vendor adapter.
type AdapterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}
