// Package ws pushes stored chat messages to connected clients. Delivery here
// is best-effort; the HTTP log is the source of truth.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/carbon-chat/carbon/internal/models"
	"github.com/carbon-chat/carbon/internal/store"
)

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages already persisted by the HTTP handler, awaiting fan-out.
	broadcast chan models.Message

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	store  store.Store
	logger *slog.Logger
}

func NewHub(store store.Store, logger *slog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan models.Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		store:      store,
		logger:     logger,
	}
}

// Broadcast queues a stored message for fan-out to connected members. When
// the queue is full the push is dropped; clients recover via getChatMessages.
func (h *Hub) Broadcast(msg models.Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("ws broadcast queue full, dropping push", "chatId", msg.ChatID)
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			payload, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("ws marshal failed", "error", err)
				continue
			}

			for client := range h.clients {
				// Membership gates delivery exactly like the read endpoints.
				member, err := h.store.IsMember(ctx, message.ChatID, client.userID)
				if err != nil {
					h.logger.Error("ws membership check failed", "error", err)
					continue
				}
				if !member {
					continue
				}
				select {
				case client.send <- payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
