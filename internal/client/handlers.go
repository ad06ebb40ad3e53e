package client

import (
	"agora/internal/protocol"
)

// routes wires every push tag to its handler. Registration happens once at
// construction; the dispatcher itself is fed from the read goroutine.
func (cli *Client) routes() {
	cli.Dispatcher.Handle(protocol.MsgListOfChat, cli.handleListOfChat)
	cli.Dispatcher.Handle(protocol.MsgUpdateClients, cli.handleUpdateClients)
	cli.Dispatcher.Handle(protocol.MsgSendMessage, func(ev *protocol.Event) {
		cli.Chat.HandleIncoming(cli.ctx, ev)
	})
	cli.Dispatcher.Handle(protocol.MsgShowMessages, func(ev *protocol.Event) {
		cli.Chat.HandleShowMessages(cli.ctx, ev)
	})
	cli.Dispatcher.Handle(protocol.MsgPost, cli.handlePost)
	cli.Dispatcher.Handle(protocol.MsgComment, cli.handleComment)
	cli.Dispatcher.Handle(protocol.MsgTyping, func(ev *protocol.Event) {
		cli.Typing.Typing(ev.UserFrom)
	})
	cli.Dispatcher.Handle(protocol.MsgStoppedTyping, func(ev *protocol.Event) {
		cli.Typing.Stopped(ev.UserFrom)
	})
}

// handleListOfChat replaces the roster with the server's snapshot. The
// re-render starts all typing indicators off, so pending idle timers are
// dropped rather than left to fire against rows that no longer exist.
func (cli *Client) handleListOfChat(ev *protocol.Event) {
	cli.Roster.Update(ev.ChattedUsers, ev.UnchattedUsers)
	cli.Typing.Reset()
	chatted, unchatted := cli.Roster.Snapshot()
	cli.Surfaces.Queue(func() {
		cli.Surfaces.Roster.ShowRoster(chatted, unchatted)
	})
}

// handleUpdateClients re-requests the roster. The fresh list arrives as a
// listOfChat frame.
func (cli *Client) handleUpdateClients(*protocol.Event) {
	go func() {
		if err := cli.API.UsersList(cli.ctx); err != nil {
			cli.authCheck(err)
		}
	}()
}

// handlePost applies a forum push: a reaction update for a post already on
// screen, or a brand-new post for the top of the feed.
func (cli *Client) handlePost(ev *protocol.Event) {
	if ev.Post == nil {
		return
	}
	post := *ev.Post
	target := ReactionTarget{Kind: "post", ID: post.ID}

	if ev.Updated {
		cli.Surfaces.Queue(func() {
			cur, ok := cli.Surfaces.Feed.Reactions(target)
			if !ok {
				// Updates never insert. A post absent from the feed may be
				// excluded by the category filter; the next fetch carries
				// its current counters anyway.
				return
			}
			next := Reconcile(cur, post.NumberOfLikes, post.NumberOfDislikes,
				ev.IsLikeAction, post.Liked, post.Disliked)
			cli.Surfaces.Feed.SetReactions(target, next)
		})
		return
	}
	cli.Surfaces.Queue(func() {
		cli.Surfaces.Feed.PrependPost(post)
	})
}

// handleComment is the comment counterpart of handlePost. New comments also
// carry the parent's fresh reply count.
func (cli *Client) handleComment(ev *protocol.Event) {
	if ev.Comment == nil {
		return
	}
	comment := *ev.Comment
	target := ReactionTarget{Kind: "comment", ID: comment.ID}

	if ev.Updated {
		cli.Surfaces.Queue(func() {
			cur, ok := cli.Surfaces.Feed.Reactions(target)
			if !ok {
				return
			}
			next := Reconcile(cur, comment.NumberOfLikes, comment.NumberOfDislikes,
				ev.IsLikeAction, comment.Liked, comment.Disliked)
			cli.Surfaces.Feed.SetReactions(target, next)
		})
		return
	}
	replies := ev.NumberOfReplies
	cli.Surfaces.Queue(func() {
		cli.Surfaces.Feed.AddComment(comment, replies)
	})
}
