// Package tavily is a minimal client for the Tavily web search API.
package tavily

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
	// DefaultAPIURL is the default Tavily API endpoint.
	DefaultAPIURL = "https://api.tavily.com"

	// Fixed search parameters used by the agent's web_search tool.
	searchDepth = "advanced"
	maxResults  = 5
)

// ISearch defines the interface for the search client.
type ISearch interface {
	// Search runs one search and returns the raw JSON response body.
	Search(ctx context.Context, query string) (string, error)
}

// APIError is a non-success response from the search API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavily API error %d: %s", e.StatusCode, e.Body)
}

// Client is the Tavily HTTP client.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Tavily client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetAPIURL overrides the API URL for testing purposes.
func (c *Client) SetAPIURL(u string) {
	c.apiURL = u
}

type searchRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

// Search implements ISearch. The response body is passed through verbatim so
// the caller can feed it to the model unchanged.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	payload := searchRequest{
		Query:             query,
		SearchDepth:       searchDepth,
		MaxResults:        maxResults,
		IncludeAnswer:     true,
		IncludeRawContent: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("tavily: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/search", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("tavily: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("tavily: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("tavily: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return string(raw), nil
}
