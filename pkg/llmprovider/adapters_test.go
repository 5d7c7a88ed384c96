package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIAdapter_Generate(t *testing.T) {
	var gotReq chatCompletionRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"content": "hello"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	adapter := NewOpenAIAdapter(AdapterConfig{APIKey: "sk-test", BaseURL: server.URL})

	resp, err := adapter.Generate(context.Background(), &Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
		},
		Tools: []Tool{{Name: "web_search", Description: "search", Parameters: map[string]interface{}{"type": "object"}}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if resp.Content != "hello" {
		t.Errorf("Expected content 'hello', got: %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("Expected 15 total tokens, got: %d", resp.Usage.TotalTokens)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Expected bearer auth, got: %s", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("Expected default model gpt-4o, got: %s", gotReq.Model)
	}
	if gotReq.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got: %v", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 {
		t.Errorf("Expected 2 wire messages, got: %d", len(gotReq.Messages))
	}
	if len(gotReq.Tools) != 1 || gotReq.Tools[0].Function.Name != "web_search" {
		t.Errorf("Expected web_search tool on the wire, got: %+v", gotReq.Tools)
	}
}

func TestOpenAIAdapter_ToolCallsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {
				"content": "",
				"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "web_search", "arguments": "{\"query\":\"go\"}"}}]
			}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	adapter := NewOpenAIAdapter(AdapterConfig{APIKey: "sk-test", BaseURL: server.URL})

	resp, err := adapter.Generate(context.Background(), &Request{Messages: []Message{{Role: RoleUser, Content: "search"}}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got: %d", len(resp.ToolCalls))
	}
	tc := resp.ToolCalls[0]
	if tc.ID != "call_1" || tc.Name != "web_search" || tc.Arguments != `{"query":"go"}` {
		t.Errorf("Unexpected tool call: %+v", tc)
	}
}

func TestOpenAIAdapter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	adapter := NewOpenAIAdapter(AdapterConfig{APIKey: "sk-test", BaseURL: server.URL})

	_, err := adapter.Generate(context.Background(), &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err == nil {
		t.Fatal("Expected error on 429, got nil")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got: %v", err)
	}
	if provErr.Provider != "openai" || provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Unexpected ProviderError: %+v", provErr)
	}
	if !strings.Contains(provErr.Body, "rate limited") {
		t.Errorf("Expected body preserved, got: %s", provErr.Body)
	}
}

func TestOpenAIAdapter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [], "usage": {}}`))
	}))
	defer server.Close()

	adapter := NewOpenAIAdapter(AdapterConfig{APIKey: "sk-test", BaseURL: server.URL})

	_, err := adapter.Generate(context.Background(), &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Expected ErrEmptyResponse, got: %v", err)
	}
}

func TestAnthropicAdapter_SystemFolding(t *testing.T) {
	var gotReq anthropicRequest
	var gotAPIKey, gotVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [{"type": "text", "text": "folded reply"}],
			"usage": {"input_tokens": 7, "output_tokens": 4}
		}`))
	}))
	defer server.Close()

	adapter := NewAnthropicAdapter(AdapterConfig{APIKey: "sk-ant", BaseURL: server.URL})

	resp, err := adapter.Generate(context.Background(), &Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleTool, Content: "tool output", ToolCallID: "call_1"},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotAPIKey != "sk-ant" {
		t.Errorf("Expected x-api-key header, got: %s", gotAPIKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("Expected anthropic-version 2023-06-01, got: %s", gotVersion)
	}
	if gotReq.MaxTokens != 512 {
		t.Errorf("Expected default max_tokens 512, got: %d", gotReq.MaxTokens)
	}

	// System folded into the first user turn, tool message dropped.
	if len(gotReq.Messages) != 1 {
		t.Fatalf("Expected 1 wire message, got: %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != RoleUser || gotReq.Messages[0].Content != "be brief\n\nhi" {
		t.Errorf("Unexpected folded message: %+v", gotReq.Messages[0])
	}

	if resp.Content != "folded reply" {
		t.Errorf("Expected content 'folded reply', got: %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 11 {
		t.Errorf("Expected total tokens 7+4=11, got: %d", resp.Usage.TotalTokens)
	}
	if len(resp.ToolCalls) != 0 {
		t.Errorf("Expected no tool calls, got: %v", resp.ToolCalls)
	}
}

func TestGeminiAdapter_FlattensTranscript(t *testing.T) {
	var gotReq geminiRequest
	var gotURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "gemini reply"}]}}],
			"usageMetadata": {"promptTokenCount": 20, "candidatesTokenCount": 9, "totalTokenCount": 29}
		}`))
	}))
	defer server.Close()

	adapter := NewGeminiAdapter(AdapterConfig{APIKey: "gm-key", BaseURL: server.URL})

	resp, err := adapter.Generate(context.Background(), &Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(gotURL, "/models/gemini-1.5-flash:generateContent") {
		t.Errorf("Unexpected URL: %s", gotURL)
	}
	if !strings.Contains(gotURL, "key=gm-key") {
		t.Errorf("Expected API key in query, got: %s", gotURL)
	}

	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatalf("Expected a single flattened part, got: %+v", gotReq.Contents)
	}
	want := "System: be brief\n\nUser: hi\n\nAssistant: hello"
	if gotReq.Contents[0].Parts[0].Text != want {
		t.Errorf("Unexpected flattened transcript:\n%s", gotReq.Contents[0].Parts[0].Text)
	}

	if resp.Content != "gemini reply" {
		t.Errorf("Expected content 'gemini reply', got: %s", resp.Content)
	}
	if resp.Usage.PromptTokens != 20 || resp.Usage.CompletionTokens != 9 || resp.Usage.TotalTokens != 29 {
		t.Errorf("Unexpected usage: %+v", resp.Usage)
	}
}

func TestLlamaAdapter_DropsToolTraffic(t *testing.T) {
	var gotReq chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {
				"content": "llama reply",
				"tool_calls": [{"id": "call_x", "type": "function", "function": {"name": "web_search", "arguments": "{}"}}]
			}}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
		}`))
	}))
	defer server.Close()

	adapter := NewLlamaAdapter(AdapterConfig{APIKey: "lk", BaseURL: server.URL})

	resp, err := adapter.Generate(context.Background(), &Request{
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleTool, Content: "tool output", ToolCallID: "call_1"},
		},
		Tools: []Tool{{Name: "web_search"}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(gotReq.Messages) != 1 {
		t.Errorf("Expected tool turns dropped on the wire, got: %+v", gotReq.Messages)
	}
	if len(gotReq.Tools) != 0 {
		t.Errorf("Expected no tools on the wire, got: %+v", gotReq.Tools)
	}
	if gotReq.Model != "meta-llama/llama-3-8b-instruct" {
		t.Errorf("Expected default llama model, got: %s", gotReq.Model)
	}
	if len(resp.ToolCalls) != 0 {
		t.Errorf("Expected returned tool calls stripped, got: %v", resp.ToolCalls)
	}
	if resp.Content != "llama reply" {
		t.Errorf("Expected content 'llama reply', got: %s", resp.Content)
	}
}

func TestOpenRouterAdapter_AliasAndHeaders(t *testing.T) {
	var gotReq chatCompletionRequest
	var gotReferer, gotTitle string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"content": "routed"}}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`))
	}))
	defer server.Close()

	adapter := NewOpenRouterAdapter(AdapterConfig{APIKey: "or-key", BaseURL: server.URL})

	_, err := adapter.Generate(context.Background(), &Request{
		Model:    "openrouter:claude-3.5-sonnet",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotReq.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("Expected alias resolved to anthropic/claude-3.5-sonnet, got: %s", gotReq.Model)
	}
	if gotReferer == "" || gotTitle == "" {
		t.Errorf("Expected attribution headers, got referer=%q title=%q", gotReferer, gotTitle)
	}
}
