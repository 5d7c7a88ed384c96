package webhook

import (
	"context"

	"ai-writing-assistant/pkg/chat"
	pkgLog "ai-writing-assistant/pkg/log"
)

// MessageHandler consumes validated new-message events.
type MessageHandler interface {
	HandleMessage(ctx context.Context, event *chat.MessageEvent)
}

// Handler is the ingress for the chat service's outbound webhooks.
type Handler struct {
	agent    MessageHandler
	security *SecurityValidator
	l        pkgLog.Logger
}

func NewHandler(agent MessageHandler, securityConfig SecurityConfig, l pkgLog.Logger) *Handler {
	return &Handler{
		agent:    agent,
		security: NewSecurityValidator(securityConfig),
		l:        l,
	}
}
