// Package store defines the storage boundary. Handlers depend on this
// interface only, so the SQL implementation can be swapped without touching
// business logic.
package store

import (
	"context"
	"time"

	"github.com/carbon-chat/carbon/internal/models"
)

type Store interface {
	// User operations
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Session operations
	CreateSession(ctx context.Context, userID string, expiresAt time.Time) (*models.Session, error)
	GetSession(ctx context.Context, code string) (*models.Session, error)
	DeleteUserSessions(ctx context.Context, userID, exceptCode string) error

	// Chat operations
	CreateChat(ctx context.Context, name, creatorID string) (*models.Chat, error)
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)
	IsMember(ctx context.Context, chatID, userID string) (bool, error)
	GetUserChats(ctx context.Context, userID string) ([]models.Chat, error)
	GetChatMembers(ctx context.Context, chatID string) ([]models.User, error)

	// Message operations
	CreateMessage(ctx context.Context, chatID, authorID, content, replyID string) (*models.Message, error)
	GetChatMessages(ctx context.Context, chatID string) ([]models.Message, error)
}
