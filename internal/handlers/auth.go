package handlers

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/carbon-chat/carbon/internal/errs"
	"github.com/carbon-chat/carbon/internal/middleware"
	"github.com/carbon-chat/carbon/internal/store"
)

type AuthHandler struct {
	Store      store.Store
	SessionTTL time.Duration
	BcryptCost int
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type updatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// sessionResponse is the body of both /register and /auth: the new user's id
// plus the freshly issued bearer code.
type sessionResponse struct {
	UserID    string    `json:"userId"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *AuthHandler) cost() int {
	if h.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return h.BcryptCost
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cost())
	if err != nil {
		errs.Write(w, err)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req.Username, string(hash))
	if err != nil {
		errs.Write(w, err)
		return
	}

	session, err := h.Store.CreateSession(r.Context(), user.ID, time.Now().Add(h.SessionTTL))
	if err != nil {
		errs.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		UserID:    user.ID,
		Code:      session.Code,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		// Unknown username and wrong password are indistinguishable.
		errs.Write(w, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthenticated))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		errs.Write(w, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthenticated))
		return
	}

	session, err := h.Store.CreateSession(r.Context(), user.ID, time.Now().Add(h.SessionTTL))
	if err != nil {
		errs.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		UserID:    user.ID,
		Code:      session.Code,
		ExpiresAt: session.ExpiresAt,
	})
}

// UpdatePassword rehashes the caller's password and revokes every other
// session they hold. The session that made this call stays valid.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	userID := middleware.UserID(r.Context())

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cost())
	if err != nil {
		errs.Write(w, err)
		return
	}

	if err := h.Store.UpdatePassword(r.Context(), userID, string(hash)); err != nil {
		errs.Write(w, err)
		return
	}

	if err := h.Store.DeleteUserSessions(r.Context(), userID, middleware.SessionCode(r.Context())); err != nil {
		errs.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
