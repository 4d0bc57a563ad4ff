package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staylink/collab-api/models"
)

func newThreadMock(t *testing.T) (*ThreadService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewThreadService(db), mock
}

func expectMembership(mock sqlmock.Sqlmock, collabID, hotelID, creatorID string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT hotel_id, creator_id FROM collaborations WHERE id = $1")).
		WithArgs(collabID).
		WillReturnRows(sqlmock.NewRows([]string{"hotel_id", "creator_id"}).AddRow(hotelID, creatorID))
}

var messageColumns = []string{"id", "conversation_id", "sender_id", "content_type", "content", "system_event", "created_at"}

func TestListMessagesUnknownCursor(t *testing.T) {
	svc, mock := newThreadMock(t)
	expectMembership(mock, "collab-1", "hotel-1", "creator-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM messages WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.ListMessages(context.Background(), "collab-1", "hotel-1", "missing", 10)

	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "message", notFound.Resource)
	assert.Equal(t, "missing", notFound.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessagesNonMember(t *testing.T) {
	svc, mock := newThreadMock(t)
	expectMembership(mock, "collab-1", "hotel-1", "creator-1")

	_, err := svc.ListMessages(context.Background(), "collab-1", "stranger", "", 10)

	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "collaboration", notFound.Resource)
}

func TestListMessagesPaging(t *testing.T) {
	svc, mock := newThreadMock(t)
	expectMembership(mock, "collab-1", "hotel-1", "creator-1")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(messageColumns)
	for i := 0; i < 3; i++ {
		rows.AddRow(fmt.Sprintf("m%d", 3-i), "conv-1", "hotel-1", "text", "hello", "", base.Add(-time.Duration(i)*time.Minute))
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT m.id, m.conversation_id, m.sender_id")).
		WithArgs("collab-1").
		WillReturnRows(rows)

	page, err := svc.ListMessages(context.Background(), "collab-1", "hotel-1", "", 2)
	require.NoError(t, err)

	assert.True(t, page.HasMore, "a full page plus one means older history remains")
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "m3", page.Messages[0].ID)
	assert.Equal(t, "m2", page.Messages[1].ID)
	assert.Equal(t, "m2", page.NextCursor, "cursor is the oldest message of the page")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessagesWithCursor(t *testing.T) {
	svc, mock := newThreadMock(t)
	expectMembership(mock, "collab-1", "hotel-1", "creator-1")

	cursorAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM messages WHERE id = $1")).
		WithArgs("m5").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(cursorAt))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT m.id, m.conversation_id, m.sender_id")).
		WithArgs("collab-1", cursorAt, "m5").
		WillReturnRows(sqlmock.NewRows(messageColumns))

	page, err := svc.ListMessages(context.Background(), "collab-1", "creator-1", "m5", 10)
	require.NoError(t, err)

	assert.False(t, page.HasMore)
	assert.Empty(t, page.Messages)
	assert.NoError(t, mock.ExpectationsWereMet())
}
