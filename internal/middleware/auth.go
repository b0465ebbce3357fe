package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carbon-chat/carbon/internal/errs"
	"github.com/carbon-chat/carbon/internal/store"
)

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	sessionCodeKey contextKey = "session_code"
)

// UserID returns the authenticated user's id, or "" outside an authenticated
// request.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// SessionCode returns the bearer code the current request authenticated with.
func SessionCode(ctx context.Context) string {
	code, _ := ctx.Value(sessionCodeKey).(string)
	return code
}

// Auth validates the bearer token and rejects the request before any handler
// runs. On success the user id and session code are placed on the context.
func Auth(s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code, err := bearerCode(r)
			if err != nil {
				errs.Write(w, err)
				return
			}

			session, err := s.GetSession(r.Context(), code)
			if err != nil {
				// An unknown code and a storage failure look the same to the
				// client; neither may reach a handler.
				errs.Write(w, fmt.Errorf("%w: invalid token", errs.ErrUnauthenticated))
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				errs.Write(w, fmt.Errorf("%w: token expired", errs.ErrUnauthenticated))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
			ctx = context.WithValue(ctx, sessionCodeKey, session.Code)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerCode(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		// Browser WebSocket clients cannot set headers.
		if t := r.URL.Query().Get("token"); t != "" {
			return t, nil
		}
		return "", fmt.Errorf("%w: missing authorization", errs.ErrUnauthenticated)
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("%w: malformed authorization header", errs.ErrUnauthenticated)
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}
