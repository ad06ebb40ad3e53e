package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agora/internal/api"
	"agora/internal/models"
	"agora/internal/protocol"
	"agora/internal/utils"
)

func pmsg(chatUUID, sender, content string, at time.Time, own bool) models.PrivateMessage {
	return models.PrivateMessage{
		Message: models.Message{
			ChatUUID:       chatUUID,
			SenderUsername: sender,
			Content:        content,
			CreatedAt:      at,
		},
		IsCreatedBy: own,
	}
}

func showFrame(self, peer, peerName string, more bool, msgs ...models.PrivateMessage) *protocol.Event {
	return &protocol.Event{
		MsgType:          protocol.MsgShowMessages,
		UUID:             self,
		ReceiverUserUUID: peer,
		ReceiverUserName: peerName,
		PrivateMessages:  msgs,
		AllMessagesGot:   more,
	}
}

func msgFrame(senderUUID, receiverUUID string, pm models.PrivateMessage, notification bool) *protocol.Event {
	return &protocol.Event{
		MsgType:          protocol.MsgSendMessage,
		UUID:             senderUUID,
		ReceiverUserUUID: receiverUUID,
		PrivateMessage:   &pm,
		Notification:     notification,
	}
}

type chatFixture struct {
	cc       *ChatController
	api      *fakeChatAPI
	sender   *fakeSender
	drafts   *fakeDrafts
	session  *Session
	chat     *fakeChatSurface
	notifier *fakeNotifier
	authLost *bool
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	surfaces, _, chatSurface, _, notifier := testSurfaces()
	fakeAPI := newFakeChatAPI()
	sender := &fakeSender{}
	drafts := newFakeDrafts()
	session := NewSession()
	authLost := false

	cc := NewChatController(fakeAPI, sender, drafts, session, surfaces, nil, func() {
		authLost = true
	})
	cc.pace = 30 * time.Millisecond

	return &chatFixture{
		cc: cc, api: fakeAPI, sender: sender, drafts: drafts,
		session: session, chat: chatSurface, notifier: notifier,
		authLost: &authLost,
	}
}

func (f *chatFixture) waitShow(t *testing.T) showCall {
	t.Helper()
	select {
	case call := <-f.api.showed:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ShowMessages call")
		return showCall{}
	}
}

func TestOpenChatAsksForOnePage(t *testing.T) {
	f := newChatFixture(t)
	f.session.GrowPage()
	f.session.GrowPage() // simulate earlier paging in another chat

	f.cc.OpenChat(context.Background(), "peer-1", "chat-1")
	call := f.waitShow(t)
	require.Equal(t, "peer-1", call.UserUUID)
	require.Equal(t, "chat-1", call.ChatUUID)
	require.Equal(t, defaultPageSize, call.Number)
}

func TestHandleShowMessagesReversesWireOrder(t *testing.T) {
	f := newChatFixture(t)
	now := time.Now()
	frame := showFrame("me", "peer-1", "alice", false,
		pmsg("chat-1", "alice", "third", now, false),
		pmsg("chat-1", "me", "second", now.Add(-time.Minute), true),
		pmsg("chat-1", "alice", "first", now.Add(-2*time.Minute), false),
	)

	f.cc.HandleShowMessages(context.Background(), frame)

	conv := <-f.chat.shown
	require.Equal(t, []string{"first", "second", "third"},
		[]string{conv.Messages[0].Message.Content, conv.Messages[1].Message.Content, conv.Messages[2].Message.Content})

	require.Equal(t, "me", f.session.UserUUID())
	cur := f.session.Current()
	require.Equal(t, "peer-1", cur.PeerUUID)
	require.Equal(t, "alice", cur.PeerName)
	require.Equal(t, "chat-1", cur.ChatUUID)
	require.False(t, cur.MorePages)
}

func TestDraftKeptForSamePeer(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	<-f.chat.shown

	f.chat.setDraft("half a thought")
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))

	conv := <-f.chat.shown
	require.Equal(t, "half a thought", conv.Draft)
}

func TestSwitchingPeersParksDraftAndFlushesTyping(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	<-f.chat.shown
	f.chat.setDraft("for alice")

	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-2", "bob", false))
	conv := <-f.chat.shown

	require.Empty(t, conv.Draft, "no stored draft for the new peer")
	require.Contains(t, f.sender.notices(), "stopped:me>peer-1")

	// Switching back restores what was parked.
	f.chat.setDraft("")
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	conv = <-f.chat.shown
	require.Equal(t, "for alice", conv.Draft)
}

func TestTypingFlushHappensBeforeRender(t *testing.T) {
	var mu sync.Mutex
	var order []string

	surfaces, _, chatSurface, _, _ := testSurfaces()
	queue := surfaces.Queue
	surfaces.Queue = func(fn func()) {
		mu.Lock()
		order = append(order, "render")
		mu.Unlock()
		queue(fn)
	}
	sender := &fakeSender{}
	session := NewSession()
	cc := NewChatController(newFakeChatAPI(), nil, newFakeDrafts(), session, surfaces, nil, nil)
	cc.SetTypingSender(senderFunc(func(op string) {
		mu.Lock()
		order = append(order, op)
		mu.Unlock()
		sender.record(op)
	}))

	cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	<-chatSurface.shown
	cc.HandleShowMessages(context.Background(), showFrame("me", "peer-2", "bob", false))
	<-chatSurface.shown

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"render", "stopped:me>peer-1", "render"}, order)
}

// senderFunc adapts a recording func to the typing sender interface.
type senderFunc func(op string)

func (s senderFunc) SendTyping(from, to string) error {
	s("typing:" + from + ">" + to)
	return nil
}

func (s senderFunc) SendStoppedTyping(from, to string) error {
	s("stopped:" + from + ">" + to)
	return nil
}

func TestMaybeLoadOlderGrowsPageAndGates(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", true,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	<-f.chat.shown
	f.chat.setScroll(120)

	ctx := context.Background()
	f.cc.MaybeLoadOlder(ctx)
	call := f.waitShow(t)
	require.Equal(t, 2*defaultPageSize, call.Number)
	require.Equal(t, "chat-1", call.ChatUUID)

	// A second trigger inside the pace window is swallowed.
	f.cc.MaybeLoadOlder(ctx)
	require.Len(t, f.api.showCalls(), 1)

	// The page lands, the window passes, paging continues.
	f.cc.HandleShowMessages(ctx, showFrame("me", "peer-1", "alice", true,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	<-f.chat.shown
	time.Sleep(60 * time.Millisecond)

	f.cc.MaybeLoadOlder(ctx)
	call = f.waitShow(t)
	require.Equal(t, 3*defaultPageSize, call.Number)
}

func TestMaybeLoadOlderRestoresScrollPosition(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", true,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	<-f.chat.shown
	f.chat.setScroll(120)

	f.cc.MaybeLoadOlder(context.Background())
	f.waitShow(t)

	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	conv := <-f.chat.shown
	require.Equal(t, 120, conv.ScrollOffset)
}

func TestNoPagingWhenHistoryExhausted(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	<-f.chat.shown

	f.cc.MaybeLoadOlder(context.Background())
	require.Empty(t, f.api.showCalls())
}

func TestIncomingAppendsToOpenChatOnce(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	<-f.chat.shown

	pm := pmsg("chat-1", "alice", "are you there?", time.Now(), false)
	frame := msgFrame("peer-1", "me", pm, true)
	f.cc.HandleIncoming(context.Background(), frame)
	f.cc.HandleIncoming(context.Background(), frame)

	require.Len(t, f.chat.appendedMessages(), 1, "duplicate frame must not render twice")
	require.Empty(t, f.notifier.notified(), "open chat never raises a banner")
}

func TestIncomingNotifiesWhenChatNotOpen(t *testing.T) {
	f := newChatFixture(t)

	pm := pmsg("chat-9", "carol", "ping", time.Now(), false)
	f.cc.HandleIncoming(context.Background(), msgFrame("peer-9", "me", pm, true))

	require.Empty(t, f.chat.appendedMessages())
	require.Equal(t, []string{"carol"}, f.notifier.notified())
}

func TestCloseChatFlushesAndForgetsConversation(t *testing.T) {
	f := newChatFixture(t)
	old := pmsg("chat-1", "alice", "hello", time.Now(), false)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false, old))
	<-f.chat.shown
	f.chat.setDraft("half a thought")

	f.cc.Close(context.Background())

	require.Equal(t, []string{"stopped:me>peer-1"}, f.sender.notices())
	draft, err := f.drafts.GetDraft(context.Background(), "peer-1")
	require.NoError(t, err)
	require.Equal(t, "half a thought", draft)
	require.Empty(t, f.session.Current().PeerUUID)
	require.Empty(t, f.session.Current().ChatUUID)
	require.Equal(t, defaultPageSize, f.session.Current().PageSize)
}

func TestMessageAfterLeavingChatRaisesNotification(t *testing.T) {
	f := newChatFixture(t)
	old := pmsg("chat-1", "alice", "hello", time.Now(), false)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false, old))
	<-f.chat.shown

	f.cc.Close(context.Background())

	pm := pmsg("chat-1", "alice", "still there?", time.Now(), false)
	f.cc.HandleIncoming(context.Background(), msgFrame("peer-1", "me", pm, true))

	require.Empty(t, f.chat.appendedMessages())
	require.Equal(t, []string{"alice"}, f.notifier.notified())
}

func TestCloseWithoutOpenChatIsNoop(t *testing.T) {
	f := newChatFixture(t)

	f.cc.Close(context.Background())

	require.Empty(t, f.sender.notices())
	require.Empty(t, f.drafts.drafts)
}

func TestIncomingAdoptsChatUUIDForBrandNewChat(t *testing.T) {
	f := newChatFixture(t)
	// History for a peer with no prior chat: no messages, no chat uuid.
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	<-f.chat.shown
	require.Empty(t, f.session.Current().ChatUUID)

	pm := pmsg("chat-new", "alice", "first ever", time.Now(), false)
	f.cc.HandleIncoming(context.Background(), msgFrame("peer-1", "me", pm, true))

	require.Len(t, f.chat.appendedMessages(), 1)
	require.Equal(t, "chat-new", f.session.Current().ChatUUID)
}

func TestSendValidatesTrimsAndClearsDraft(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	err := f.cc.Send(ctx, "   ")
	require.True(t, utils.IsValidationError(err))

	f.cc.HandleShowMessages(ctx, showFrame("me", "peer-1", "alice", false,
		pmsg("chat-1", "alice", "hello", time.Now(), false)))
	<-f.chat.shown
	require.NoError(t, f.drafts.SaveDraft(ctx, "peer-1", "  hi there  "))

	require.NoError(t, f.cc.Send(ctx, "  hi there  "))
	require.Equal(t, []string{"hi there"}, f.api.sends)

	_, err = f.drafts.GetDraft(ctx, "peer-1")
	require.Error(t, err, "draft is gone after a successful send")
	require.Contains(t, f.sender.notices(), "stopped:me>peer-1")
}

func TestSendAuthLossForcesLogout(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	<-f.chat.shown

	f.api.sendErr = api.ErrNotLoggedIn
	err := f.cc.Send(context.Background(), "hello")
	require.Error(t, err)
	require.True(t, *f.authLost)
}

func TestComposerChangedMirrorsState(t *testing.T) {
	f := newChatFixture(t)
	f.cc.HandleShowMessages(context.Background(), showFrame("me", "peer-1", "alice", false))
	<-f.chat.shown

	f.cc.ComposerChanged("h")
	f.cc.ComposerChanged("he")
	f.cc.ComposerChanged("")

	require.Equal(t, []string{
		"typing:me>peer-1",
		"typing:me>peer-1",
		"stopped:me>peer-1",
	}, f.sender.notices())
}

func TestComposerChangedWithoutOpenChatIsNoop(t *testing.T) {
	f := newChatFixture(t)
	f.cc.ComposerChanged("hello")
	require.Empty(t, f.sender.notices())
}
