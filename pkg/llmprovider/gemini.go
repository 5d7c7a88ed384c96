package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel   = "gemini-1.5-flash"
)

var geminiModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-1.0-pro",
	"gemini-1.0-pro-vision",
}

// GeminiAdapter calls the Gemini generateContent API. The whole conversation
// is flattened into a single text part with role prefixes. Tool calls are
// never returned.
type GeminiAdapter struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewGeminiAdapter creates a Gemini adapter from the given config.
func NewGeminiAdapter(cfg AdapterConfig) *GeminiAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = geminiDefaultModel
	}
	return &GeminiAdapter{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate implements Adapter.
func (a *GeminiAdapter) Generate(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.defaultModel
	}

	geminiReq := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: flattenTranscript(req.Messages)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     temperatureOrDefault(req.Temperature),
			MaxOutputTokens: req.MaxTokens,
		},
	}

	body, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{Provider: "gemini", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	return &Response{
		Content: result.Candidates[0].Content.Parts[0].Text,
		Usage: Usage{
			PromptTokens:     result.UsageMetadata.PromptTokenCount,
			CompletionTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      result.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// flattenTranscript joins the conversation into one prefixed text block.
func flattenTranscript(msgs []Message) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			parts = append(parts, "System: "+msg.Content)
		case RoleUser:
			parts = append(parts, "User: "+msg.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+msg.Content)
		default:
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// SupportsModel implements Adapter.
func (a *GeminiAdapter) SupportsModel(model string) bool {
	return containsModel(geminiModels, model)
}

// DefaultModel implements Adapter.
func (a *GeminiAdapter) DefaultModel() string {
	return a.defaultModel
}

// Models implements Adapter.
func (a *GeminiAdapter) Models() []string {
	return geminiModels
}
