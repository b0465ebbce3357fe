package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/carbon-chat/carbon/internal/models"
)

// CreateMessage appends a message to the chat's log. The seq column is
// allocated by the database, so concurrent appends to one chat get distinct,
// totally ordered positions.
func (s *SQLStore) CreateMessage(ctx context.Context, chatID, authorID, content, replyID string) (*models.Message, error) {
	msg := &models.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		AuthorID:  authorID,
		Content:   content,
		ReplyID:   replyID,
		CreatedAt: time.Now().UTC(),
	}

	var reply sql.NullString
	if replyID != "" {
		reply = sql.NullString{String: replyID, Valid: true}
	}

	query := s.rebind("INSERT INTO messages (id, chat_id, author_id, content, reply_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if s.driverName == "postgres" {
		query += " RETURNING seq"
		if err := s.db.QueryRowContext(ctx, query, msg.ID, msg.ChatID, msg.AuthorID, msg.Content, reply, msg.CreatedAt).Scan(&msg.Seq); err != nil {
			return nil, err
		}
		return msg, nil
	}

	result, err := s.db.ExecContext(ctx, query, msg.ID, msg.ChatID, msg.AuthorID, msg.Content, reply, msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	msg.Seq, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetChatMessages returns the chat's messages oldest first.
func (s *SQLStore) GetChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	query := s.rebind(`
		SELECT seq, id, chat_id, author_id, content, COALESCE(reply_id, ''), created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY seq ASC
	`)
	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.Seq, &m.ID, &m.ChatID, &m.AuthorID, &m.Content, &m.ReplyID, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
