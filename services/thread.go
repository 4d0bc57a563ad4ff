package services

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/staylink/collab-api/models"
	"github.com/staylink/collab-api/utils"
)

// ThreadService owns conversation summaries and the per-collaboration message
// log. It never changes collaboration status; messages are purely additive.
type ThreadService struct {
	db *sql.DB
}

func NewThreadService(db *sql.DB) *ThreadService {
	return &ThreadService{db: db}
}

const imagePreview = "📷 Photo"

// ============================================================================
// CONVERSATIONS
// ============================================================================

// ListConversations returns the viewer's conversation summaries, partitioned
// by the archived flag. A conversation is archived iff its collaboration
// reached a terminal-for-messaging status (completed, cancelled, rejected).
func (s *ThreadService) ListConversations(ctx context.Context, viewerID, viewerRole string, archived bool) ([]models.Conversation, error) {
	partnerJoin := "c.creator_id"
	unreadColumn := "conv.hotel_unread"
	if viewerRole == models.RoleCreator {
		partnerJoin = "c.hotel_id"
		unreadColumn = "conv.creator_unread"
	}

	statusCondition := "conv.collaboration_status NOT IN ('completed', 'cancelled', 'rejected')"
	if archived {
		statusCondition = "conv.collaboration_status IN ('completed', 'cancelled', 'rejected')"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT conv.id, conv.collaboration_id, conv.collaboration_status,
		       COALESCE(conv.last_message_content, ''), conv.last_message_at,
		       `+unreadColumn+`, conv.created_at,
		       p.name, COALESCE(p.avatar, '')
		FROM conversations conv
		JOIN collaborations c ON conv.collaboration_id = c.id
		JOIN users p ON `+partnerJoin+` = p.id
		WHERE (c.hotel_id = $1 OR c.creator_id = $1) AND `+statusCondition+`
		ORDER BY conv.last_message_at DESC NULLS LAST, conv.created_at DESC
	`, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var conv models.Conversation
		var lastAt sql.NullTime
		err := rows.Scan(
			&conv.ID, &conv.CollaborationID, &conv.CollaborationStatus,
			&conv.LastMessageContent, &lastAt,
			&conv.UnreadCount, &conv.CreatedAt,
			&conv.PartnerName, &conv.PartnerAvatar,
		)
		if err != nil {
			return nil, err
		}
		conv.LastMessageAt = nullTimePtr(lastAt)
		conv.MyRole = viewerRole
		conv.Archived = models.IsArchivedStatus(conv.CollaborationStatus)
		conv.LastMessageContent = decryptPreview(conv.LastMessageContent)
		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

// MarkRead zeroes the viewer's unread counter for a collaboration's thread.
func (s *ThreadService) MarkRead(ctx context.Context, collabID, viewerID string) error {
	viewerRole, err := s.viewerRoleFor(ctx, collabID, viewerID)
	if err != nil {
		return err
	}

	column := "hotel_unread"
	if viewerRole == models.RoleCreator {
		column = "creator_unread"
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE conversations SET `+column+` = 0, updated_at = NOW() WHERE collaboration_id = $1
	`, collabID)
	return err
}

// ============================================================================
// MESSAGES
// ============================================================================

const defaultPageSize = 30
const maxPageSize = 100

// ListMessages returns a reverse-chronological page of the thread. Pass the
// returned cursor as before to load older history; HasMore is true while
// older messages remain. An unknown cursor id is NotFound, never an empty
// page.
func (s *ThreadService) ListMessages(ctx context.Context, collabID, viewerID, before string, limit int) (*models.MessagePage, error) {
	if _, err := s.viewerRoleFor(ctx, collabID, viewerID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.content_type, m.content,
		       COALESCE(m.system_event, ''), m.created_at
		FROM messages m
		JOIN conversations conv ON m.conversation_id = conv.id
		WHERE conv.collaboration_id = $1`
	args := []interface{}{collabID}

	if before != "" {
		var cursorAt time.Time
		err := s.db.QueryRowContext(ctx, `
			SELECT created_at FROM messages WHERE id = $1
		`, before).Scan(&cursorAt)
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "message", ID: before}
		}
		if err != nil {
			return nil, err
		}
		query += ` AND (m.created_at, m.id) < ($2, $3)`
		args = append(args, cursorAt, before)
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC LIMIT ` + strconv.Itoa(limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		var senderID sql.NullString
		err := rows.Scan(&m.ID, &m.ConversationID, &senderID, &m.ContentType, &m.Content, &m.SystemEvent, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		if senderID.Valid {
			v := senderID.String
			m.SenderID = &v
		}
		if !m.IsSystem() && m.ContentType == models.ContentTypeText {
			m.Content = decryptPreview(m.Content)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := &models.MessagePage{Messages: messages}
	if len(messages) > limit {
		page.Messages = messages[:limit]
		page.HasMore = true
	}
	if n := len(page.Messages); n > 0 {
		page.NextCursor = page.Messages[n-1].ID
	}

	return page, nil
}

// PostMessage appends a text or image message to the thread. Archived
// conversations are read-only.
func (s *ThreadService) PostMessage(ctx context.Context, collabID, viewerID string, req models.PostMessageRequest) (*models.Message, error) {
	viewerRole, err := s.viewerRoleFor(ctx, collabID, viewerID)
	if err != nil {
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = models.ContentTypeText
	}

	message := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    &viewerID,
		ContentType: contentType,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var conversationID, mirroredStatus string
		err := tx.QueryRowContext(ctx, `
			SELECT id, collaboration_status FROM conversations WHERE collaboration_id = $1 FOR UPDATE
		`, collabID).Scan(&conversationID, &mirroredStatus)
		if err == sql.ErrNoRows {
			return &models.NotFoundError{Resource: "conversation", ID: collabID}
		}
		if err != nil {
			return err
		}

		if models.IsArchivedStatus(mirroredStatus) {
			return &models.InvalidStateTransitionError{Status: mirroredStatus, Operation: "send a message"}
		}
		message.ConversationID = conversationID

		stored := req.Content
		preview := req.Content
		if contentType == models.ContentTypeText {
			encrypted, err := utils.EncryptContent(req.Content)
			if err != nil {
				return err
			}
			stored = encrypted
			preview = encrypted
		} else {
			preview = imagePreview
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO messages (id, conversation_id, sender_id, content_type, content, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, message.ID, conversationID, viewerID, contentType, stored, message.CreatedAt)
		if err != nil {
			return err
		}

		unreadColumn := counterpartyUnreadColumn(viewerRole)
		_, err = tx.ExecContext(ctx, `
			UPDATE conversations
			SET last_message_content = $1, last_message_at = $2, `+unreadColumn+` = `+unreadColumn+` + 1, updated_at = $2
			WHERE id = $3
		`, preview, message.CreatedAt, conversationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func (s *ThreadService) viewerRoleFor(ctx context.Context, collabID, viewerID string) (string, error) {
	var hotelID, creatorID string
	err := s.db.QueryRowContext(ctx, `
		SELECT hotel_id, creator_id FROM collaborations WHERE id = $1
	`, collabID).Scan(&hotelID, &creatorID)
	if err == sql.ErrNoRows {
		return "", &models.NotFoundError{Resource: "collaboration", ID: collabID}
	}
	if err != nil {
		return "", err
	}

	switch viewerID {
	case hotelID:
		return models.RoleHotel, nil
	case creatorID:
		return models.RoleCreator, nil
	}
	return "", &models.NotFoundError{Resource: "collaboration", ID: collabID}
}

// decryptPreview decrypts stored message content, falling back to the raw
// value for system messages and pre-encryption rows.
func decryptPreview(content string) string {
	if content == "" {
		return content
	}
	plaintext, err := utils.DecryptContent(content)
	if err != nil {
		return content
	}
	return plaintext
}

