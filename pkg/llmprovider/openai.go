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
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o"

	defaultTemperature = 0.7
)

var openAIModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4-turbo",
	"gpt-4",
	"gpt-3.5-turbo",
	"gpt-3.5-turbo-16k",
}

// OpenAIAdapter calls the OpenAI chat completions API. It has native
// function-calling support, so tool calls are passed through both ways.
type OpenAIAdapter struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewOpenAIAdapter creates an OpenAI adapter from the given config.
func NewOpenAIAdapter(cfg AdapterConfig) *OpenAIAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = openAIDefaultModel
	}
	return &OpenAIAdapter{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate implements Adapter.
func (a *OpenAIAdapter) Generate(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.defaultModel
	}

	ccReq := chatCompletionRequest{
		Model:       model,
		Messages:    toChatCompletionMessages(req.Messages, true),
		Temperature: temperatureOrDefault(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Tools:       toChatCompletionTools(req.Tools),
		Stream:      false,
	}

	ccResp, err := postChatCompletion(ctx, a.httpClient, "openai", a.baseURL, a.apiKey, nil, ccReq)
	if err != nil {
		return nil, err
	}

	if len(ccResp.Choices) == 0 {
		return nil, fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	return fromChatCompletionResponse(ccResp), nil
}

// SupportsModel implements Adapter.
func (a *OpenAIAdapter) SupportsModel(model string) bool {
	return containsModel(openAIModels, model)
}

// DefaultModel implements Adapter.
func (a *OpenAIAdapter) DefaultModel() string {
	return a.defaultModel
}

// Models implements Adapter.
func (a *OpenAIAdapter) Models() []string {
	return openAIModels
}

// --- OpenAI-compatible chat completions wire format, shared with the Llama
// and OpenRouter adapters which speak the same protocol. ---

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
	Tools       []chatCompletionTool    `json:"tools,omitempty"`
	Stream      bool                    `json:"stream"`
}

type chatCompletionMessage struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

type chatCompletionTool struct {
	Type     string                 `json:"type"`
	Function chatCompletionFunction `json:"function"`
}

type chatCompletionFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
	Usage   chatCompletionUsage    `json:"usage"`
}

type chatCompletionChoice struct {
	Message struct {
		Content   string                   `json:"content"`
		ToolCalls []chatCompletionToolCall `json:"tool_calls"`
	} `json:"message"`
}

type chatCompletionToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatCompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// toChatCompletionMessages converts canonical messages; when includeTool is
// false, tool-role messages are dropped (vendors without function calling).
func toChatCompletionMessages(msgs []Message, includeTool bool) []chatCompletionMessage {
	out := make([]chatCompletionMessage, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == RoleTool && !includeTool {
			continue
		}
		ccMsg := chatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
		if msg.Role == RoleTool {
			ccMsg.ToolCallID = msg.ToolCallID
		}
		out = append(out, ccMsg)
	}
	return out
}

func toChatCompletionTools(tools []Tool) []chatCompletionTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]chatCompletionTool, len(tools))
	for i, t := range tools {
		out[i] = chatCompletionTool{
			Type: "function",
			Function: chatCompletionFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return out
}

func fromChatCompletionResponse(resp *chatCompletionResponse) *Response {
	message := resp.Choices[0].Message

	var toolCalls []ToolCall
	for _, tc := range message.ToolCalls {
		toolCalls = append(toolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return &Response{
		Content: message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		ToolCalls: toolCalls,
	}
}

// postChatCompletion sends one chat completions call and decodes the result.
func postChatCompletion(ctx context.Context, client *http.Client, provider, baseURL, apiKey string, extraHeaders map[string]string, req chatCompletionRequest) (*chatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", provider, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", provider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	for k, v := range extraHeaders {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to call API: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", provider, err)
	}

	return &result, nil
}

func temperatureOrDefault(t float64) float64 {
	if t == 0 {
		return defaultTemperature
	}
	return t
}

func containsModel(models []string, model string) bool {
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}
