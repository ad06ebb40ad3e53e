// Package models defines the wire types shared between the REST endpoints
// and the push channel. Field tags follow the server's JSON exactly.
package models

import "time"

type User struct {
	ID             int        `json:"id"`
	UUID           string     `json:"uuid"`
	Age            string     `json:"age"`
	Gender         string     `json:"gender"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	LastTimeOnline time.Time  `json:"lastTimeOnline"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// ChatRef mirrors the server's nullable string encoding (sql.NullString
// marshalled verbatim). Valid is false for peers without an existing chat.
type ChatRef struct {
	String string `json:"String"`
	Valid  bool   `json:"Valid"`
}

// ChatUser is one roster row: the peer plus chat/presence metadata.
type ChatUser struct {
	User         User    `json:"user"`
	Username     string  `json:"username"`
	UserUUID     string  `json:"userUuid"`
	LastActivity ChatRef `json:"lastActivity"`
	ChatUUID     ChatRef `json:"chatUUID"`
	IsOnline     bool    `json:"isOnline"`
}

// Interactive reports whether the roster row can open a chat: the peer is
// online or a chat already exists. Anything else renders as information only.
func (cu ChatUser) Interactive() bool {
	return cu.IsOnline || cu.ChatUUID.Valid
}
