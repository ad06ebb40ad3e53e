package client

import "agora/internal/models"

// ReactionView is the rendered state of one reaction pair: the counters the
// server reported plus whether the viewer's own like/dislike is highlighted.
type ReactionView struct {
	Likes         int
	Dislikes      int
	LikeActive    bool
	DislikeActive bool
}

// ReactionTarget names a post or a comment on the feed surface.
type ReactionTarget struct {
	Kind string // "post" or "comment"
	ID   int
}

// Conversation is everything the chat surface needs for a full re-render.
// Messages are oldest first, ready to draw top to bottom.
type Conversation struct {
	PeerUUID string
	PeerName string
	ChatUUID string
	Messages []models.PrivateMessage
	Draft    string

	// ScrollOffset restores the reader's position after a pagination
	// re-render. Zero means pinned to the newest message.
	ScrollOffset int
}

// FeedSurface is the forum feed as the client core sees it. Implementations
// are called from the UI goroutine only; the core marshals through Queue.
type FeedSurface interface {
	PrependPost(p models.Post)
	AddComment(c models.Comment, numberOfReplies int)

	// Reactions returns the currently rendered state of a target, false if
	// the target is not on screen.
	Reactions(t ReactionTarget) (ReactionView, bool)
	SetReactions(t ReactionTarget, view ReactionView)
}

// ChatSurface renders the open conversation.
type ChatSurface interface {
	ShowConversation(conv Conversation)

	// AppendMessage adds one message on the newest side of the open
	// conversation.
	AppendMessage(pm models.PrivateMessage)

	DraftText() string
	ScrollOffset() int
}

// RosterSurface renders the user list with its typing indicators.
type RosterSurface interface {
	ShowRoster(chatted, unchatted []models.ChatUser)
	SetTyping(peerUUID string, typing bool)
}

// Notifier surfaces banners and errors outside the main panes.
type Notifier interface {
	// NewMessage announces a private message for a chat that is not open.
	NewMessage(sender string)
	Error(title, message string)
}

// Surfaces bundles the UI entry points handed to the client core. Queue
// schedules a function onto the UI goroutine.
type Surfaces struct {
	Feed     FeedSurface
	Chat     ChatSurface
	Roster   RosterSurface
	Notifier Notifier
	Queue    func(func())
}
