package models

import "time"

// ============================================================================
// CONVERSATIONS
// ============================================================================

// Conversation is the per-viewer summary of a collaboration's message thread.
// Partner fields are resolved relative to the viewer; CollaborationStatus is a
// read-through mirror written only by the lifecycle service.
type Conversation struct {
	ID                  string     `json:"id"`
	CollaborationID     string     `json:"collaboration_id"`
	PartnerName         string     `json:"partner_name"`
	PartnerAvatar       string     `json:"partner_avatar,omitempty"`
	LastMessageContent  string     `json:"last_message_content,omitempty"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`
	UnreadCount         int        `json:"unread_count"`
	MyRole              string     `json:"my_role"`
	CollaborationStatus string     `json:"collaboration_status"`
	Archived            bool       `json:"archived"`
	CreatedAt           time.Time  `json:"created_at"`
}

// IsArchivedStatus reports whether a collaboration status freezes its
// conversation. Archived threads stay readable but are partitioned out of the
// active list.
func IsArchivedStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}
