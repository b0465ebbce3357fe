package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carbon-chat/carbon/internal/errs"
	"github.com/carbon-chat/carbon/internal/models"
	"github.com/carbon-chat/carbon/internal/token"
)

func (s *SQLStore) CreateSession(ctx context.Context, userID string, expiresAt time.Time) (*models.Session, error) {
	code, err := token.NewCode()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Code:      code,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}

	query := s.rebind("INSERT INTO sessions (code, user_id, expires_at) VALUES (?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, session.Code, session.UserID, session.ExpiresAt); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLStore) GetSession(ctx context.Context, code string) (*models.Session, error) {
	var session models.Session
	query := s.rebind("SELECT code, user_id, expires_at FROM sessions WHERE code = ?")
	err := s.db.QueryRowContext(ctx, query, code).Scan(&session.Code, &session.UserID, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: session", errs.ErrNotFound)
		}
		return nil, err
	}
	return &session, nil
}

// DeleteUserSessions revokes every session belonging to userID except the one
// identified by exceptCode. Pass an empty exceptCode to revoke all of them.
func (s *SQLStore) DeleteUserSessions(ctx context.Context, userID, exceptCode string) error {
	query := s.rebind("DELETE FROM sessions WHERE user_id = ? AND code <> ?")
	_, err := s.db.ExecContext(ctx, query, userID, exceptCode)
	return err
}
