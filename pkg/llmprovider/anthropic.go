package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicDefaultModel   = "claude-3-5-sonnet-20241022"
	anthropicVersion        = "2023-06-01"

	// The messages API rejects requests without max_tokens.
	anthropicDefaultMaxTokens = 512
)

var anthropicModels = []string{
	"claude-3-5-sonnet-20241022",
	"claude-3-opus-20240229",
	"claude-3-sonnet-20240229",
	"claude-3-haiku-20240307",
}

// AnthropicAdapter calls the Anthropic messages API. The API takes no system
// role and no tool results, so the system prompt is folded into the first user
// turn and tool messages are dropped. Tool calls are never returned.
type AnthropicAdapter struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewAnthropicAdapter creates an Anthropic adapter from the given config.
func NewAnthropicAdapter(cfg AdapterConfig) *AnthropicAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = anthropicDefaultModel
	}
	return &AnthropicAdapter{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate implements Adapter.
func (a *AnthropicAdapter) Generate(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.defaultModel
	}

	var systemContent string
	messages := make([]anthropicMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemContent = msg.Content
		case RoleTool:
			// No tool result channel in this API.
		default:
			messages = append(messages, anthropicMessage{Role: msg.Role, Content: msg.Content})
		}
	}

	// Fold the system prompt into the first user turn.
	if systemContent != "" && len(messages) > 0 && messages[0].Role == RoleUser {
		messages[0].Content = systemContent + "\n\n" + messages[0].Content
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	anthropicReq := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Messages:    messages,
		Temperature: temperatureOrDefault(req.Temperature),
	}

	body, err := json.Marshal(anthropicReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{Provider: "anthropic", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("anthropic: failed to decode response: %w", err)
	}

	if len(result.Content) == 0 {
		return nil, fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	return &Response{
		Content: result.Content[0].Text,
		Usage: Usage{
			PromptTokens:     result.Usage.InputTokens,
			CompletionTokens: result.Usage.OutputTokens,
			TotalTokens:      result.Usage.InputTokens + result.Usage.OutputTokens,
		},
	}, nil
}

// SupportsModel implements Adapter.
func (a *AnthropicAdapter) SupportsModel(model string) bool {
	return containsModel(anthropicModels, model)
}

// DefaultModel implements Adapter.
func (a *AnthropicAdapter) DefaultModel() string {
	return a.defaultModel
}

// Models implements Adapter.
func (a *AnthropicAdapter) Models() []string {
	return anthropicModels
}
