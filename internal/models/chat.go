package models

import "time"

type Message struct {
	ID             int        `json:"id"`
	ChatUUID       string     `json:"chat_uuid"`
	ChatID         int        `json:"chat_id"`
	UserIDFrom     int        `json:"user_id_from"`
	SenderUsername string     `json:"sender_username"`
	Content        string     `json:"content"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// PrivateMessage wraps a chat message with the viewer-relative ownership
// flag the server computes per recipient.
type PrivateMessage struct {
	Message     Message `json:"message"`
	IsCreatedBy bool    `json:"isCreatedBy"`
}
