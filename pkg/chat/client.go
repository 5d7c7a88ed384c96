// Package chat is a server-side client for the chat service the agent writes
// into: message creation, partial updates, and indicator events on channels.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Client is the interface consumed by the agent. Implementations are safe for
// concurrent use.
type Client interface {
	// SendMessage creates a message in the channel and returns it with its
	// server identity (id, cid) populated.
	SendMessage(ctx context.Context, channelCID, text string, aiGenerated bool) (*Message, error)

	// SendEvent broadcasts an out-of-band event on the channel.
	SendEvent(ctx context.Context, event Event) error

	// PartialUpdateMessage sets the given fields on an existing message.
	PartialUpdateMessage(ctx context.Context, messageID string, set map[string]interface{}) error
}

// HTTPClient talks to the chat service REST API.
type HTTPClient struct {
	apiKey     string
	apiSecret  string
	apiURL     string
	botUserID  string
	httpClient *http.Client
}

// NewClient creates a chat service client.
func NewClient(apiKey, apiSecret, baseURL, botUserID string) *HTTPClient {
	return &HTTPClient{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		apiURL:     baseURL,
		botUserID:  botUserID,
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the API URL for testing purposes.
func (c *HTTPClient) SetAPIURL(u string) {
	c.apiURL = u
}

// SendMessage implements Client. Message ids are generated client-side so the
// caller can reference the message before the call returns.
func (c *HTTPClient) SendMessage(ctx context.Context, channelCID, text string, aiGenerated bool) (*Message, error) {
	payload := sendMessageRequest{
		Message: Message{
			ID:          uuid.NewString(),
			Text:        text,
			UserID:      c.botUserID,
			AIGenerated: aiGenerated,
		},
	}

	endpoint := fmt.Sprintf("%s/channels/%s/message", c.apiURL, url.PathEscape(channelCID))

	var result sendMessageResponse
	if err := c.post(ctx, endpoint, payload, &result); err != nil {
		return nil, fmt.Errorf("chat: failed to send message: %w", err)
	}
	if result.Message.CID == "" {
		result.Message.CID = channelCID
	}
	return &result.Message, nil
}

// SendEvent implements Client.
func (c *HTTPClient) SendEvent(ctx context.Context, event Event) error {
	endpoint := fmt.Sprintf("%s/channels/%s/event", c.apiURL, url.PathEscape(event.CID))
	if err := c.post(ctx, endpoint, sendEventRequest{Event: event}, nil); err != nil {
		return fmt.Errorf("chat: failed to send event: %w", err)
	}
	return nil
}

// PartialUpdateMessage implements Client.
func (c *HTTPClient) PartialUpdateMessage(ctx context.Context, messageID string, set map[string]interface{}) error {
	endpoint := fmt.Sprintf("%s/messages/%s", c.apiURL, url.PathEscape(messageID))
	if err := c.put(ctx, endpoint, partialUpdateRequest{Set: set}, nil); err != nil {
		return fmt.Errorf("chat: failed to update message: %w", err)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	return c.call(ctx, http.MethodPost, endpoint, payload, out)
}

func (c *HTTPClient) put(ctx context.Context, endpoint string, payload, out interface{}) error {
	return c.call(ctx, http.MethodPut, endpoint, payload, out)
}

func (c *HTTPClient) call(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint+"?api_key="+url.QueryEscape(c.apiKey), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiSecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
