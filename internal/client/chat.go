package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agora/internal/api"
	"agora/internal/models"
	"agora/internal/protocol"
	"agora/internal/storage"
	"agora/internal/utils"
)

// loadOlderPace is the minimum gap between history fetches triggered by
// scrolling.
const loadOlderPace = 1000 * time.Millisecond

// chatAPI is the slice of the REST client the controller needs.
type chatAPI interface {
	ShowMessages(ctx context.Context, userUUID, chatUUID string, numberOfMessages int) error
	SendMessage(ctx context.Context, userUUID, chatUUID, content string) error
	UsersList(ctx context.Context) error
}

// typingSender is the slice of the push channel the controller needs.
type typingSender interface {
	SendTyping(from, to string) error
	SendStoppedTyping(from, to string) error
}

// draftStore persists composer text per peer between chat switches and runs.
type draftStore interface {
	SaveDraft(ctx context.Context, peerUUID, content string) error
	GetDraft(ctx context.Context, peerUUID string) (string, error)
	DeleteDraft(ctx context.Context, peerUUID string) error
}

// ChatController owns the conversation lifecycle: opening chats, paging
// history, sending messages, and folding pushed messages into the open view.
// History never arrives on the HTTP response; every fetch comes back as a
// showMessages push frame, so the controller is driven from both the UI and
// the dispatcher.
type ChatController struct {
	api      chatAPI
	typing   typingSender
	drafts   draftStore
	session  *Session
	surfaces *Surfaces
	log      *utils.RemoteLogger

	// authLost fires when the server reports the session gone.
	authLost func()

	mu           sync.Mutex
	fetchPending bool
	gated        bool
	pace         time.Duration

	// pendingScroll holds the reader's position captured when an older-page
	// fetch was requested, consumed by the next full re-render.
	pendingScroll int

	// seen dedupes pushed messages for the open chat. Pushed messages
	// carry no stable id on this wire, so identity is content-derived.
	seen map[string]struct{}
}

func NewChatController(apiClient chatAPI, typing typingSender, drafts draftStore, session *Session, surfaces *Surfaces, log *utils.RemoteLogger, authLost func()) *ChatController {
	return &ChatController{
		api:      apiClient,
		typing:   typing,
		drafts:   drafts,
		session:  session,
		surfaces: surfaces,
		log:      log,
		authLost: authLost,
		pace:     loadOlderPace,
		seen:     make(map[string]struct{}),
	}
}

// SetTypingSender swaps the push channel after a reconnect.
func (cc *ChatController) SetTypingSender(t typingSender) {
	cc.mu.Lock()
	cc.typing = t
	cc.mu.Unlock()
}

func (cc *ChatController) sender() typingSender {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.typing
}

// OpenChat is the roster-click entry point. It resets paging to one page and
// asks the server for the newest messages; the page itself arrives later as
// a push frame.
func (cc *ChatController) OpenChat(ctx context.Context, peerUUID, chatUUID string) {
	cc.session.ResetPaging()

	cc.mu.Lock()
	cc.fetchPending = true
	cc.pendingScroll = 0
	cc.mu.Unlock()

	go func() {
		err := cc.api.ShowMessages(ctx, peerUUID, chatUUID, cc.session.Current().PageSize)
		if err != nil {
			cc.mu.Lock()
			cc.fetchPending = false
			cc.mu.Unlock()
			cc.fail("Opening chat failed", err)
		}
	}()
}

// MaybeLoadOlder is called when the reader scrolls to the oldest visible
// message. It grows the page and refetches, at most once per pace interval,
// and never while a fetch is already in flight or the history is exhausted.
func (cc *ChatController) MaybeLoadOlder(ctx context.Context) {
	cur := cc.session.Current()
	if cur.ChatUUID == "" || !cur.MorePages {
		return
	}

	cc.mu.Lock()
	if cc.gated || cc.fetchPending {
		cc.mu.Unlock()
		return
	}
	cc.gated = true
	cc.fetchPending = true
	if cc.surfaces.Chat != nil {
		cc.pendingScroll = cc.surfaces.Chat.ScrollOffset()
	}
	pace := cc.pace
	cc.mu.Unlock()

	time.AfterFunc(pace, func() {
		cc.mu.Lock()
		cc.gated = false
		cc.mu.Unlock()
	})

	size := cc.session.GrowPage()
	go func() {
		err := cc.api.ShowMessages(ctx, cur.PeerUUID, cur.ChatUUID, size)
		if err != nil {
			cc.mu.Lock()
			cc.fetchPending = false
			cc.mu.Unlock()
			cc.fail("Loading history failed", err)
		}
	}()
}

// HandleShowMessages applies a history frame: the full conversation for one
// peer, newest first on the wire. Called from the dispatch goroutine.
func (cc *ChatController) HandleShowMessages(ctx context.Context, ev *protocol.Event) {
	// The frame names the viewer; this is the only place the client learns
	// its own uuid.
	cc.session.SetUserUUID(ev.UUID)

	newPeer := ev.ReceiverUserUUID
	chatUUID := ""
	if len(ev.PrivateMessages) > 0 {
		chatUUID = ev.PrivateMessages[0].Message.ChatUUID
	}

	prev := cc.session.Current()
	samePeer := prev.PeerUUID == newPeer

	draft := ""
	if samePeer {
		if cc.surfaces.Chat != nil {
			draft = cc.surfaces.Chat.DraftText()
		}
	} else {
		// Let the previous peer's indicator go dark before the view moves
		// on, and park whatever was typed for later.
		if prev.PeerUUID != "" {
			if s := cc.sender(); s != nil {
				if err := s.SendStoppedTyping(cc.session.UserUUID(), prev.PeerUUID); err != nil && cc.log != nil {
					cc.log.Logf("chat: stopped_typing flush: %v", err)
				}
			}
			if cc.surfaces.Chat != nil && cc.drafts != nil {
				if err := cc.drafts.SaveDraft(ctx, prev.PeerUUID, cc.surfaces.Chat.DraftText()); err != nil && cc.log != nil {
					cc.log.Logf("chat: save draft: %v", err)
				}
			}
		}
		if cc.drafts != nil {
			stored, err := cc.drafts.GetDraft(ctx, newPeer)
			if err != nil && !errors.Is(err, storage.ErrNoRows) && cc.log != nil {
				cc.log.Logf("chat: load draft: %v", err)
			}
			draft = stored
		}
	}

	// Wire order is newest first; the view wants oldest at the top.
	msgs := make([]models.PrivateMessage, len(ev.PrivateMessages))
	for i, pm := range ev.PrivateMessages {
		msgs[len(msgs)-1-i] = pm
	}

	cc.mu.Lock()
	cc.fetchPending = false
	scroll := cc.pendingScroll
	cc.pendingScroll = 0
	if !samePeer {
		scroll = 0
	}
	cc.seen = make(map[string]struct{}, len(msgs))
	for _, pm := range msgs {
		cc.seen[messageKey(pm.Message)] = struct{}{}
	}
	cc.mu.Unlock()

	cur := Current{
		PeerUUID:  newPeer,
		PeerName:  ev.ReceiverUserName,
		ChatUUID:  chatUUID,
		PageSize:  prev.PageSize,
		MorePages: ev.AllMessagesGot,
	}
	if !samePeer {
		cur.PageSize = defaultPageSize
	}
	cc.session.SetCurrent(cur)

	conv := Conversation{
		PeerUUID:     newPeer,
		PeerName:     ev.ReceiverUserName,
		ChatUUID:     chatUUID,
		Messages:     msgs,
		Draft:        draft,
		ScrollOffset: scroll,
	}
	cc.surfaces.Queue(func() {
		cc.surfaces.Chat.ShowConversation(conv)
	})
}

// HandleIncoming applies a pushed private message: either the echo of the
// viewer's own send or a message from a peer. Called from the dispatch
// goroutine.
func (cc *ChatController) HandleIncoming(ctx context.Context, ev *protocol.Event) {
	if ev.PrivateMessage == nil {
		return
	}
	pm := *ev.PrivateMessage
	cur := cc.session.Current()

	// Every message can reshuffle roster ordering and last-activity, so
	// re-request the list.
	go func() {
		if err := cc.api.UsersList(ctx); err != nil {
			cc.authCheck(err)
		}
	}()

	open := cur.ChatUUID != "" && cur.ChatUUID == pm.Message.ChatUUID
	if !open && cur.ChatUUID == "" && cur.PeerUUID != "" {
		// Brand-new chat: the first message arrives before any history
		// frame carried a chat uuid. Match on the peer instead.
		open = cur.PeerUUID == ev.UUID || cur.PeerUUID == ev.ReceiverUserUUID
	}

	if !open {
		if ev.Notification && !pm.IsCreatedBy {
			cc.surfaces.Queue(func() {
				cc.surfaces.Notifier.NewMessage(pm.Message.SenderUsername)
			})
		}
		return
	}

	key := messageKey(pm.Message)
	cc.mu.Lock()
	if _, dup := cc.seen[key]; dup {
		cc.mu.Unlock()
		return
	}
	cc.seen[key] = struct{}{}
	cc.mu.Unlock()

	if cur.ChatUUID == "" && pm.Message.ChatUUID != "" {
		cur.ChatUUID = pm.Message.ChatUUID
		cc.session.SetCurrent(cur)
	}

	cc.surfaces.Queue(func() {
		cc.surfaces.Chat.AppendMessage(pm)
	})
}

// ComposerChanged mirrors the composer state to the peer: any text means
// typing, a blank composer means stopped.
func (cc *ChatController) ComposerChanged(text string) {
	cur := cc.session.Current()
	if cur.PeerUUID == "" {
		return
	}
	s := cc.sender()
	if s == nil {
		return
	}
	var err error
	if strings.TrimSpace(text) == "" {
		err = s.SendStoppedTyping(cc.session.UserUUID(), cur.PeerUUID)
	} else {
		err = s.SendTyping(cc.session.UserUUID(), cur.PeerUUID)
	}
	if err != nil && cc.log != nil {
		cc.log.Logf("chat: typing notice: %v", err)
	}
}

// Send submits the composer text. The message itself comes back as a push
// frame; on success only the draft is cleared here.
func (cc *ChatController) Send(ctx context.Context, text string) error {
	content := strings.TrimSpace(text)
	if content == "" {
		return utils.ValidationError("message content is empty")
	}
	cur := cc.session.Current()
	if cur.PeerUUID == "" {
		return utils.ValidationError("no chat is open")
	}

	if err := cc.api.SendMessage(ctx, cur.PeerUUID, cur.ChatUUID, content); err != nil {
		cc.authCheck(err)
		return err
	}

	if s := cc.sender(); s != nil {
		if err := s.SendStoppedTyping(cc.session.UserUUID(), cur.PeerUUID); err != nil && cc.log != nil {
			cc.log.Logf("chat: typing notice: %v", err)
		}
	}
	if cc.drafts != nil {
		if err := cc.drafts.DeleteDraft(ctx, cur.PeerUUID); err != nil && cc.log != nil {
			cc.log.Logf("chat: clear draft: %v", err)
		}
	}
	return nil
}

// FlushTyping sends a final stopped_typing for the open chat and saves the
// draft. Used when the chat view is left for the feed, the profile, or
// logout.
func (cc *ChatController) FlushTyping(ctx context.Context) {
	cur := cc.session.Current()
	if cur.PeerUUID == "" {
		return
	}
	if s := cc.sender(); s != nil {
		if err := s.SendStoppedTyping(cc.session.UserUUID(), cur.PeerUUID); err != nil && cc.log != nil {
			cc.log.Logf("chat: stopped_typing flush: %v", err)
		}
	}
	if cc.surfaces.Chat != nil && cc.drafts != nil {
		if err := cc.drafts.SaveDraft(ctx, cur.PeerUUID, cc.surfaces.Chat.DraftText()); err != nil && cc.log != nil {
			cc.log.Logf("chat: save draft: %v", err)
		}
	}
}

// Close leaves the open chat for another surface. Beyond the typing flush
// and the draft park, it forgets the current conversation, so later pushed
// messages for this chat raise notifications again instead of landing on a
// surface nobody is looking at.
func (cc *ChatController) Close(ctx context.Context) {
	cc.FlushTyping(ctx)

	cur := cc.session.Current()
	if cur.PeerUUID == "" && cur.ChatUUID == "" {
		return
	}
	cc.session.SetCurrent(Current{PageSize: defaultPageSize})

	cc.mu.Lock()
	cc.fetchPending = false
	cc.pendingScroll = 0
	cc.seen = make(map[string]struct{})
	cc.mu.Unlock()
}

func (cc *ChatController) fail(title string, err error) {
	if cc.authCheck(err) {
		return
	}
	if cc.log != nil {
		cc.log.Logf("chat: %s: %v", strings.ToLower(title), err)
	}
	cc.surfaces.Queue(func() {
		cc.surfaces.Notifier.Error(title, err.Error())
	})
}

func (cc *ChatController) authCheck(err error) bool {
	if errors.Is(err, api.ErrNotLoggedIn) {
		if cc.authLost != nil {
			cc.authLost()
		}
		return true
	}
	return false
}

// messageKey derives a stable identity for a pushed message. The push wire
// strips database ids from relayed messages, so equality is judged on where,
// who, when and what.
func messageKey(m models.Message) string {
	return fmt.Sprintf("%s|%s|%d|%s", m.ChatUUID, m.SenderUsername, m.CreatedAt.UnixNano(), m.Content)
}
