// Package protocol defines the JSON frames exchanged with the forum server
// over the websocket: server pushes tagged by msgType, and the small outbound
// typing notices the client emits back.
package protocol

import (
	"encoding/json"

	"agora/internal/models"
	"agora/internal/utils"
)

// Server push tags. Every frame carries exactly one of these in msgType.
const (
	MsgListOfChat    = "listOfChat"
	MsgUpdateClients = "updateClients"
	MsgSendMessage   = "sendMessage"
	MsgShowMessages  = "showMessages"
	MsgPost          = "post"
	MsgComment       = "comment"
	MsgTyping        = "typing"
	MsgStoppedTyping = "stopped_typing"
)

// Event is the server push envelope. Only the fields relevant to the frame's
// msgType are populated; the rest decode to zero values.
type Event struct {
	MsgType string `json:"msgType"`
	Updated bool   `json:"updated"`

	// UUID identifies the acting user: the sender of a private message, the
	// reactor on a post or comment, the peer whose typing state changed.
	UUID string `json:"uuid"`

	// IsLikeAction marks post/comment frames caused by a reaction toggle
	// rather than new content.
	IsLikeAction    bool `json:"isLikeAction"`
	NumberOfReplies int  `json:"numberOfReplies"`

	Post    *models.Post    `json:"post,omitempty"`
	Comment *models.Comment `json:"comment,omitempty"`

	ChattedUsers   []models.ChatUser `json:"chattedUsers,omitempty"`
	UnchattedUsers []models.ChatUser `json:"unchattedUsers,omitempty"`

	PrivateMessage *models.PrivateMessage `json:"privateMessage,omitempty"`

	// The server misspells this key; it is part of the wire contract.
	ReceiverUserUUID string `json:"reciverUserUUID"`
	ReceiverUserName string `json:"receiverUserName"`

	PrivateMessages []models.PrivateMessage `json:"privateMessages,omitempty"`

	// Notification is set on relayed private messages so the receiver can
	// surface a banner when the chat is not open.
	Notification bool `json:"notification"`

	// AllMessagesGot reports that the full requested page came back, i.e.
	// older messages may still exist. A short page means the history is
	// exhausted. The name follows the wire key.
	AllMessagesGot bool `json:"allMessagesGot"`

	// UserFrom carries the peer uuid on typing relay frames.
	UserFrom string `json:"userFrom"`
}

// DecodeEvent parses a raw push frame. Frames without a msgType are rejected
// so the dispatcher never routes on an empty tag.
func DecodeEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, utils.RequestError("malformed push frame").WithDetails(err.Error())
	}
	if ev.MsgType == "" {
		return nil, utils.ValidationError("push frame missing msgType")
	}
	return &ev, nil
}

// Outbound typing notice tags.
const (
	NoticeTyping        = "typing"
	NoticeStoppedTyping = "stopped_typing"
)

// TypingNotice is the only frame the client writes to the websocket.
type TypingNotice struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}
