package chat

// Webhook / channel event types.
const (
	EventMessageNew = "message.new"

	EventTypeIndicatorUpdate = "ai_indicator.update"
	EventTypeIndicatorClear  = "ai_indicator.clear"
	EventTypeIndicatorStop   = "ai_indicator.stop"
)

// AI processing states carried by ai_indicator.update events.
const (
	AIStateThinking        = "AI_STATE_THINKING"
	AIStateGenerating      = "AI_STATE_GENERATING"
	AIStateExternalSources = "AI_STATE_EXTERNAL_SOURCES"
	AIStateError           = "AI_STATE_ERROR"
)

// Message is a chat channel message.
type Message struct {
	ID          string                 `json:"id"`
	CID         string                 `json:"cid"`
	Text        string                 `json:"text"`
	UserID      string                 `json:"user_id,omitempty"`
	AIGenerated bool                   `json:"ai_generated,omitempty"`
	Custom      map[string]interface{} `json:"custom,omitempty"`
}

// Event is an out-of-band channel event, used for AI indicator signals.
type Event struct {
	Type      string `json:"type"`
	AIState   string `json:"ai_state,omitempty"`
	CID       string `json:"cid"`
	MessageID string `json:"message_id"`
}

// MessageEvent is the webhook payload delivered when channel activity occurs.
type MessageEvent struct {
	Type    string   `json:"type"`
	CID     string   `json:"cid"`
	Message *Message `json:"message,omitempty"`
}

type sendMessageRequest struct {
	Message Message `json:"message"`
}

type sendMessageResponse struct {
	Message Message `json:"message"`
}

type sendEventRequest struct {
	Event Event `json:"event"`
}

type partialUpdateRequest struct {
	Set map[string]interface{} `json:"set"`
}
