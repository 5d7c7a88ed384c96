package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	openRouterDefaultBaseURL = "https://openrouter.ai/api/v1"
	openRouterDefaultModel   = "openai/gpt-4o"

	refererURL   = "https://ai-writing-assistant.app"
	refererTitle = "AI Writing Assistant"
)

var openRouterModels = []string{
	"openai/gpt-4o",
	"openai/gpt-4o-mini",
	"openai/gpt-4-turbo",
	"openai/gpt-4",
	"openai/gpt-3.5-turbo",
	"anthropic/claude-3-opus",
	"anthropic/claude-3-sonnet",
	"anthropic/claude-3-haiku",
	"anthropic/claude-3.5-sonnet",
	"google/gemini-pro",
	"meta-llama/llama-3.1-70b-instruct",
	"meta-llama/llama-3.1-8b-instruct",
	"openrouter:claude-3.5-sonnet",
	"openrouter:llama-3.1-70b",
}

// openRouterAliases maps UI-facing shorthand model names to OpenRouter's ids.
var openRouterAliases = map[string]string{
	"openrouter:claude-3.5-sonnet": "anthropic/claude-3.5-sonnet",
	"openrouter:llama-3.1-70b":     "meta-llama/llama-3.1-70b-instruct",
}

// OpenRouterAdapter calls the OpenRouter chat completions API, which speaks
// the OpenAI protocol including native function calling.
type OpenRouterAdapter struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewOpenRouterAdapter creates an OpenRouter adapter from the given config.
func NewOpenRouterAdapter(cfg AdapterConfig) *OpenRouterAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterDefaultBaseURL
	}
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = openRouterDefaultModel
	}
	return &OpenRouterAdapter{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate implements Adapter.
func (a *OpenRouterAdapter) Generate(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.defaultModel
	}
	if mapped, ok := openRouterAliases[model]; ok {
		model = mapped
	}

	ccReq := chatCompletionRequest{
		Model:       model,
		Messages:    toChatCompletionMessages(req.Messages, true),
		Temperature: temperatureOrDefault(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Tools:       toChatCompletionTools(req.Tools),
		Stream:      false,
	}

	headers := map[string]string{
		"HTTP-Referer": refererURL,
		"X-Title":      refererTitle,
	}

	ccResp, err := postChatCompletion(ctx, a.httpClient, "openrouter", a.baseURL, a.apiKey, headers, ccReq)
	if err != nil {
		return nil, err
	}

	if len(ccResp.Choices) == 0 {
		return nil, fmt.Errorf("openrouter: %w", ErrEmptyResponse)
	}

	return fromChatCompletionResponse(ccResp), nil
}

// SupportsModel implements Adapter.
func (a *OpenRouterAdapter) SupportsModel(model string) bool {
	return containsModel(openRouterModels, model)
}

// DefaultModel implements Adapter.
func (a *OpenRouterAdapter) DefaultModel() string {
	return a.defaultModel
}

// Models implements Adapter.
func (a *OpenRouterAdapter) Models() []string {
	return openRouterModels
}
