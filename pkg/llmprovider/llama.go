package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	llamaDefaultBaseURL = "https://openrouter.ai/api/v1"
	llamaDefaultModel   = "meta-llama/llama-3-8b-instruct"
)

var llamaModels = []string{
	"meta-llama/llama-3-8b-instruct",
	"meta-llama/llama-3-70b-instruct",
	"meta-llama/llama-3.1-8b-instruct",
	"meta-llama/llama-3.1-70b-instruct",
}

// LlamaAdapter calls Llama models through an OpenAI-compatible endpoint.
// Tool messages are dropped and tool calls are never returned.
type LlamaAdapter struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewLlamaAdapter creates a Llama adapter from the given config.
func NewLlamaAdapter(cfg AdapterConfig) *LlamaAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = llamaDefaultBaseURL
	}
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = llamaDefaultModel
	}
	return &LlamaAdapter{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate implements Adapter.
func (a *LlamaAdapter) Generate(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.defaultModel
	}

	ccReq := chatCompletionRequest{
		Model:       model,
		Messages:    toChatCompletionMessages(req.Messages, false),
		Temperature: temperatureOrDefault(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	headers := map[string]string{
		"HTTP-Referer": refererURL,
		"X-Title":      refererTitle,
	}

	ccResp, err := postChatCompletion(ctx, a.httpClient, "llama", a.baseURL, a.apiKey, headers, ccReq)
	if err != nil {
		return nil, err
	}

	if len(ccResp.Choices) == 0 {
		return nil, fmt.Errorf("llama: %w", ErrEmptyResponse)
	}

	resp := fromChatCompletionResponse(ccResp)
	resp.ToolCalls = nil
	return resp, nil
}

// SupportsModel implements Adapter.
func (a *LlamaAdapter) SupportsModel(model string) bool {
	return containsModel(llamaModels, model)
}

// DefaultModel implements Adapter.
func (a *LlamaAdapter) DefaultModel() string {
	return a.defaultModel
}

// Models implements Adapter.
func (a *LlamaAdapter) Models() []string {
	return llamaModels
}
