package handlers

import (
	"fmt"
	"net/http"

	"github.com/carbon-chat/carbon/internal/errs"
	"github.com/carbon-chat/carbon/internal/middleware"
	"github.com/carbon-chat/carbon/internal/models"
	"github.com/carbon-chat/carbon/internal/store"
)

// Broadcaster pushes a stored message to connected WebSocket clients. It is
// optional; a nil Hub simply skips push delivery.
type Broadcaster interface {
	Broadcast(msg models.Message)
}

type ChatHandler struct {
	Store store.Store
	Hub   Broadcaster
}

type createChatRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

type createChatMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required"`
	Content string `json:"content" validate:"required,max=4096"`
	ReplyID string `json:"replyId"`
}

type chatIDRequest struct {
	ChatID string `json:"chatId" validate:"required"`
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	chat, err := h.Store.CreateChat(r.Context(), req.Name, middleware.UserID(r.Context()))
	if err != nil {
		errs.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"chatId": chat.ID})
}

func (h *ChatHandler) CreateChatMessage(w http.ResponseWriter, r *http.Request) {
	var req createChatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	callerID := middleware.UserID(r.Context())
	if err := h.requireMembership(r, req.ChatID, callerID); err != nil {
		errs.Write(w, err)
		return
	}

	msg, err := h.Store.CreateMessage(r.Context(), req.ChatID, callerID, req.Content, req.ReplyID)
	if err != nil {
		errs.Write(w, err)
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(*msg)
	}

	writeJSON(w, http.StatusOK, map[string]string{"messageId": msg.ID})
}

func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	var req chatIDRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	if err := h.requireMembership(r, req.ChatID, middleware.UserID(r.Context())); err != nil {
		errs.Write(w, err)
		return
	}

	messages, err := h.Store.GetChatMessages(r.Context(), req.ChatID)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) GetInvolvedChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Store.GetUserChats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		errs.Write(w, err)
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChatUsers(w http.ResponseWriter, r *http.Request) {
	var req chatIDRequest
	if err := decodeJSON(r, &req); err != nil {
		errs.Write(w, err)
		return
	}

	if err := h.requireMembership(r, req.ChatID, middleware.UserID(r.Context())); err != nil {
		errs.Write(w, err)
		return
	}

	users, err := h.Store.GetChatMembers(r.Context(), req.ChatID)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// requireMembership distinguishes a chat that does not exist (404) from one
// the caller is simply not a member of (403). Membership is the visibility
// boundary for every chat-scoped read and write.
func (h *ChatHandler) requireMembership(r *http.Request, chatID, userID string) error {
	if _, err := h.Store.GetChat(r.Context(), chatID); err != nil {
		return err
	}
	member, err := h.Store.IsMember(r.Context(), chatID, userID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: not a chat member", errs.ErrForbidden)
	}
	return nil
}
