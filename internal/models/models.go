package models

import "time"

// DefaultIcon is assigned to every new account until an icon upload flow exists.
const DefaultIcon = "https://static.thenounproject.com/png/5034901-200.png"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session binds an opaque bearer code to a user. Codes are stored server-side
// so they can be revoked; multiple sessions per user may be live at once.
type Session struct {
	Code      string    `json:"code"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Chat struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Message struct {
	ID string `json:"id"`
	// Seq is the append position within the messages table; it never goes
	// over the wire but fixes the total order of GetChatMessages.
	Seq       int64     `json:"-"`
	ChatID    string    `json:"chatId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	ReplyID   string    `json:"replyId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
