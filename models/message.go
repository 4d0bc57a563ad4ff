package models

import "time"

// ============================================================================
// MESSAGES
// ============================================================================

// Message content types.
const (
	ContentTypeText   = "text"
	ContentTypeImage  = "image"
	ContentTypeSystem = "system"
)

// System event kinds, persisted at synthesis time so renderers classify by
// field lookup instead of scanning message text.
const (
	EventNegotiation = "negotiation"
	EventSuccess     = "success"
	EventIncomplete  = "incomplete"
	EventDeclined    = "declined"
)

type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	// SenderID is nil for system-generated messages.
	SenderID    *string   `json:"sender_id,omitempty"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	SystemEvent string    `json:"system_event,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsSystem reports whether the message was synthesized by the lifecycle logic.
func (m *Message) IsSystem() bool {
	return m.SenderID == nil
}

type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
	// NextCursor is the id of the oldest message in this page; pass it as
	// ?before= to load older history.
	NextCursor string `json:"next_cursor,omitempty"`
}

type PostMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	ContentType string `json:"content_type" binding:"omitempty,oneof=text image"`
}
