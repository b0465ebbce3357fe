package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carbon-chat/carbon/internal/errs"
	"github.com/carbon-chat/carbon/internal/models"
)

// CreateChat inserts the chat and its creator's membership in one
// transaction, so no chat is ever visible without a member.
func (s *SQLStore) CreateChat(ctx context.Context, name, creatorID string) (*models.Chat, error) {
	chat := &models.Chat{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := s.rebind("INSERT INTO chats (id, name, creator_id, created_at) VALUES (?, ?, ?, ?)")
	if _, err := tx.ExecContext(ctx, query, chat.ID, chat.Name, chat.CreatorID, chat.CreatedAt); err != nil {
		return nil, err
	}

	query = s.rebind("INSERT INTO members (chat_id, user_id) VALUES (?, ?)")
	if _, err := tx.ExecContext(ctx, query, chat.ID, creatorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *SQLStore) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	var chat models.Chat
	query := s.rebind("SELECT id, name, creator_id, created_at FROM chats WHERE id = ?")
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(&chat.ID, &chat.Name, &chat.CreatorID, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: chat", errs.ErrNotFound)
		}
		return nil, err
	}
	return &chat, nil
}

func (s *SQLStore) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM members WHERE chat_id = ? AND user_id = ?)")
	err := s.db.QueryRowContext(ctx, query, chatID, userID).Scan(&exists)
	return exists, err
}

// GetUserChats returns the chats userID belongs to, in creation order.
func (s *SQLStore) GetUserChats(ctx context.Context, userID string) ([]models.Chat, error) {
	query := s.rebind(`
		SELECT c.id, c.name, c.creator_id, c.created_at
		FROM chats c
		JOIN members m ON c.id = m.chat_id
		WHERE m.user_id = ?
		ORDER BY c.seq ASC
	`)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatorID, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (s *SQLStore) GetChatMembers(ctx context.Context, chatID string) ([]models.User, error) {
	query := s.rebind(`
		SELECT u.id, u.username, u.icon, u.created_at
		FROM users u
		JOIN members m ON u.id = m.user_id
		WHERE m.chat_id = ?
		ORDER BY u.username ASC
	`)
	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Icon, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
