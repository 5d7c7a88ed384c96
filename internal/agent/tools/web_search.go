// Package tools holds the agent's callable capabilities.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-writing-assistant/internal/agent"
	"ai-writing-assistant/pkg/log"
	"ai-writing-assistant/pkg/tavily"
)

// WebSearchTool searches the web through the Tavily API. Search failures are
// reported in-band as JSON error payloads so the agent loop keeps going.
type WebSearchTool struct {
	search tavily.ISearch // nil when no API key is configured
	l      log.Logger
}

// NewWebSearchTool creates the web search tool. Pass a nil search client when
// no search credential is configured; the tool then degrades gracefully.
func NewWebSearchTool(search tavily.ISearch, l log.Logger) agent.Tool {
	return &WebSearchTool{search: search, l: l}
}

func (t *WebSearchTool) Name() string {
	return "web_search"
}

func (t *WebSearchTool) Description() string {
	return "Search the web for current information, news, facts, or research on any topic"
}

func (t *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query to find information about",
			},
		},
		"required": []string{"query"},
	}
}

type webSearchArgs struct {
	Query string `json:"query"`
}

// Execute implements agent.Tool. The only hard error is malformed arguments;
// everything downstream degrades to a JSON error payload result.
func (t *WebSearchTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var parsed webSearchArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("invalid web_search arguments: %w", err)
	}
	if parsed.Query == "" {
		return "", fmt.Errorf("web_search requires a query")
	}

	if t.search == nil {
		return jsonError("Web search is not available. API key not configured.", ""), nil
	}

	t.l.Infof(ctx, "performing web search for: %q", parsed.Query)

	result, err := t.search.Search(ctx, parsed.Query)
	if err != nil {
		var apiErr *tavily.APIError
		if errors.As(err, &apiErr) {
			t.l.Errorf(ctx, "web search failed for %q: %s", parsed.Query, apiErr.Body)
			return jsonError(fmt.Sprintf("Search failed with status: %d", apiErr.StatusCode), apiErr.Body), nil
		}
		t.l.Errorf(ctx, "web search errored for %q: %v", parsed.Query, err)
		return jsonError("An exception occurred during the search.", err.Error()), nil
	}

	return result, nil
}

func jsonError(message, details string) string {
	payload := map[string]string{"error": message}
	if details != "" {
		payload["details"] = details
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return `{"error":"search unavailable"}`
	}
	return string(out)
}
