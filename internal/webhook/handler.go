package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-writing-assistant/pkg/chat"
	pkgResponse "ai-writing-assistant/pkg/response"
)

// HandleChatWebhook processes outbound webhooks from the chat service.
// The request is acknowledged immediately and the agent runs in a background
// goroutine; the chat service expects a response within a few seconds while a
// full generation can take far longer.
func (h *Handler) HandleChatWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "webhook: failed to read body: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	signature := c.GetHeader("X-Signature")
	if err := h.security.ValidateSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "webhook: signature verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event chat.MessageEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.l.Errorf(ctx, "webhook: failed to parse event: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	if event.Type != chat.EventMessageNew {
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "unsupported event type"})
		return
	}

	if err := h.security.CheckRateLimit(event.CID); err != nil {
		h.l.Warnf(ctx, "webhook: rate limit exceeded: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	// Process in a goroutine detached from the request context, which gets
	// cancelled as soon as the ack is written.
	go h.agent.HandleMessage(context.Background(), &event)

	pkgResponse.OK(c, gin.H{"status": "accepted"})
}
