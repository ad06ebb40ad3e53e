package client

import (
	"context"
	"sync"

	"agora/internal/models"
	"agora/internal/storage"
)

// showCall records one ShowMessages request.
type showCall struct {
	UserUUID string
	ChatUUID string
	Number   int
}

type fakeChatAPI struct {
	mu        sync.Mutex
	shows     []showCall
	sends     []string
	userLists int
	showErr   error
	sendErr   error

	showed chan showCall
}

func newFakeChatAPI() *fakeChatAPI {
	return &fakeChatAPI{showed: make(chan showCall, 8)}
}

func (f *fakeChatAPI) ShowMessages(_ context.Context, userUUID, chatUUID string, n int) error {
	f.mu.Lock()
	call := showCall{UserUUID: userUUID, ChatUUID: chatUUID, Number: n}
	f.shows = append(f.shows, call)
	err := f.showErr
	f.mu.Unlock()
	f.showed <- call
	return err
}

func (f *fakeChatAPI) SendMessage(_ context.Context, _, _ string, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sends = append(f.sends, content)
	return nil
}

func (f *fakeChatAPI) UsersList(context.Context) error {
	f.mu.Lock()
	f.userLists++
	f.mu.Unlock()
	return nil
}

func (f *fakeChatAPI) showCalls() []showCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]showCall(nil), f.shows...)
}

// fakeSender records outgoing typing notices in order.
type fakeSender struct {
	mu  sync.Mutex
	ops []string
}

func (f *fakeSender) SendTyping(from, to string) error {
	f.record("typing:" + from + ">" + to)
	return nil
}

func (f *fakeSender) SendStoppedTyping(from, to string) error {
	f.record("stopped:" + from + ">" + to)
	return nil
}

func (f *fakeSender) record(op string) {
	f.mu.Lock()
	f.ops = append(f.ops, op)
	f.mu.Unlock()
}

func (f *fakeSender) notices() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

type fakeDrafts struct {
	mu     sync.Mutex
	drafts map[string]string
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: make(map[string]string)}
}

func (f *fakeDrafts) SaveDraft(_ context.Context, peerUUID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if content == "" {
		delete(f.drafts, peerUUID)
		return nil
	}
	f.drafts[peerUUID] = content
	return nil
}

func (f *fakeDrafts) GetDraft(_ context.Context, peerUUID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.drafts[peerUUID]; ok {
		return d, nil
	}
	return "", storage.ErrNoRows
}

func (f *fakeDrafts) DeleteDraft(_ context.Context, peerUUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, peerUUID)
	return nil
}

// fakeChatSurface renders into memory.
type fakeChatSurface struct {
	mu       sync.Mutex
	conv     Conversation
	appended []models.PrivateMessage
	draft    string
	scroll   int
	shown    chan Conversation
}

func newFakeChatSurface() *fakeChatSurface {
	return &fakeChatSurface{shown: make(chan Conversation, 8)}
}

func (f *fakeChatSurface) ShowConversation(conv Conversation) {
	f.mu.Lock()
	f.conv = conv
	f.draft = conv.Draft
	f.appended = nil
	f.mu.Unlock()
	f.shown <- conv
}

func (f *fakeChatSurface) AppendMessage(pm models.PrivateMessage) {
	f.mu.Lock()
	f.appended = append(f.appended, pm)
	f.mu.Unlock()
}

func (f *fakeChatSurface) DraftText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *fakeChatSurface) ScrollOffset() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scroll
}

func (f *fakeChatSurface) setDraft(text string) {
	f.mu.Lock()
	f.draft = text
	f.mu.Unlock()
}

func (f *fakeChatSurface) setScroll(n int) {
	f.mu.Lock()
	f.scroll = n
	f.mu.Unlock()
}

func (f *fakeChatSurface) appendedMessages() []models.PrivateMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PrivateMessage(nil), f.appended...)
}

var _ FeedSurface = (*fakeFeed)(nil)

type fakeFeed struct {
	mu        sync.Mutex
	posts     []models.Post
	comments  []models.Comment
	reactions map[ReactionTarget]ReactionView
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{reactions: make(map[ReactionTarget]ReactionView)}
}

func (f *fakeFeed) PrependPost(p models.Post) {
	f.mu.Lock()
	f.posts = append([]models.Post{p}, f.posts...)
	f.reactions[ReactionTarget{Kind: "post", ID: p.ID}] = ReactionView{
		Likes: p.NumberOfLikes, Dislikes: p.NumberOfDislikes,
	}
	f.mu.Unlock()
}

func (f *fakeFeed) AddComment(c models.Comment, _ int) {
	f.mu.Lock()
	f.comments = append(f.comments, c)
	f.reactions[ReactionTarget{Kind: "comment", ID: c.ID}] = ReactionView{
		Likes: c.NumberOfLikes, Dislikes: c.NumberOfDislikes,
	}
	f.mu.Unlock()
}

func (f *fakeFeed) Reactions(t ReactionTarget) (ReactionView, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.reactions[t]
	return v, ok
}

func (f *fakeFeed) SetReactions(t ReactionTarget, view ReactionView) {
	f.mu.Lock()
	f.reactions[t] = view
	f.mu.Unlock()
}

type fakeRoster struct {
	mu        sync.Mutex
	chatted   []models.ChatUser
	unchatted []models.ChatUser
	typing    map[string]bool
}

func newFakeRosterSurface() *fakeRoster {
	return &fakeRoster{typing: make(map[string]bool)}
}

func (f *fakeRoster) ShowRoster(chatted, unchatted []models.ChatUser) {
	f.mu.Lock()
	f.chatted = chatted
	f.unchatted = unchatted
	f.mu.Unlock()
}

func (f *fakeRoster) SetTyping(peerUUID string, typing bool) {
	f.mu.Lock()
	f.typing[peerUUID] = typing
	f.mu.Unlock()
}

func (f *fakeRoster) typingState(peerUUID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.typing[peerUUID]
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (f *fakeNotifier) NewMessage(sender string) {
	f.mu.Lock()
	f.messages = append(f.messages, sender)
	f.mu.Unlock()
}

func (f *fakeNotifier) Error(title, message string) {
	f.mu.Lock()
	f.errors = append(f.errors, title+": "+message)
	f.mu.Unlock()
}

func (f *fakeNotifier) notified() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

// testSurfaces bundles the fakes with a synchronous queue.
func testSurfaces() (*Surfaces, *fakeFeed, *fakeChatSurface, *fakeRoster, *fakeNotifier) {
	feed := newFakeFeed()
	chat := newFakeChatSurface()
	roster := newFakeRosterSurface()
	notifier := &fakeNotifier{}
	s := &Surfaces{
		Feed:     feed,
		Chat:     chat,
		Roster:   roster,
		Notifier: notifier,
		Queue:    func(f func()) { f() },
	}
	return s, feed, chat, roster, notifier
}
