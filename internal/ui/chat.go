package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"agora/internal/client"
	"agora/internal/models"
	"agora/internal/utils"
)

// ChatScreen is the messaging pane: the roster on the left, the open
// conversation on the right. It implements both client.ChatSurface and
// client.RosterSurface.
type ChatScreen struct {
	*UI
	Layout *tview.Flex

	rosterList *tview.List
	messages   *tview.TextView
	composer   *tview.TextArea
	chatTitle  *tview.TextView

	// rosterIndex maps list rows to roster entries; section headers map to
	// an empty uuid.
	rosterIndex []models.ChatUser
	chatted     []models.ChatUser
	unchatted   []models.ChatUser
	typingPeers map[string]bool

	conv client.Conversation

	// draftMu guards draftCache: the client core reads the draft from its
	// dispatch goroutine while the UI goroutine owns the widget itself.
	draftMu    sync.Mutex
	draftCache string
}

func (c *ChatScreen) Init() {
	c.typingPeers = make(map[string]bool)

	c.rosterList = tview.NewList()
	c.rosterList.ShowSecondaryText(true).
		SetSelectedBackgroundColor(c.Theme.GetColor("foreground-dark")).
		SetSelectedTextColor(c.Theme.GetColor("primary"))
	c.rosterList.SetBorder(true).
		SetTitle("[ Users ]").
		SetTitleColor(c.Theme.GetColor("primary")).
		SetBorderColor(c.Theme.GetColor("border")).
		SetBackgroundColor(c.Theme.GetColor("background"))
	c.rosterList.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		c.rosterClicked(index)
	})

	c.chatTitle = tview.NewTextView()
	c.chatTitle.SetTextColor(c.Theme.GetColor("primary")).
		SetTextAlign(tview.AlignCenter)

	c.messages = tview.NewTextView()
	c.messages.SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	c.messages.SetBorder(true).
		SetBorderColor(c.Theme.GetColor("border")).
		SetBackgroundColor(c.Theme.GetColor("background"))
	c.messages.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Reaching the top asks for an older page; the controller decides
		// whether anything actually happens.
		if event.Key() == tcell.KeyUp || event.Key() == tcell.KeyPgUp {
			row, _ := c.messages.GetScrollOffset()
			if row == 0 {
				c.Handlers.LoadOlder()
			}
		}
		return event
	})

	c.composer = tview.NewTextArea().
		SetPlaceholder("Write a message...")
	c.composer.SetTextStyle(tcell.StyleDefault.
		Background(c.Theme.GetColor("background")).
		Foreground(c.Theme.GetColor("foreground")))
	c.composer.SetChangedFunc(func() {
		text := c.composer.GetText()
		c.setDraftCache(text)
		c.Handlers.ComposerChanged(text)
	})
	c.composer.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter && event.Modifiers()&tcell.ModShift == 0 {
			c.send()
			return nil
		}
		return event
	})

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.chatTitle, 1, 0, false).
		AddItem(c.messages, 0, 1, false).
		AddItem(c.composer, 4, 0, true)

	c.Layout = tview.NewFlex().
		AddItem(c.rosterList, 30, 0, true).
		AddItem(right, 0, 1, false)
}

func (c *ChatScreen) rosterClicked(index int) {
	if index < 0 || index >= len(c.rosterIndex) {
		return
	}
	user := c.rosterIndex[index]
	if user.UserUUID == "" || !user.Interactive() {
		return
	}
	chatUUID := ""
	if user.ChatUUID.Valid {
		chatUUID = user.ChatUUID.String
	}
	c.Handlers.OpenChat(user.UserUUID, chatUUID)
}

func (c *ChatScreen) send() {
	text := c.composer.GetText()
	go func() {
		if err := c.Handlers.SendMessage(text); err != nil {
			c.Queue(func() { c.ShowError("Send", err.Error()) })
			return
		}
		c.Queue(func() { c.composer.SetText("", false) })
	}()
}

// ShowRoster implements client.RosterSurface: a full re-render of both
// partitions, all typing indicators off.
func (c *ChatScreen) ShowRoster(chatted, unchatted []models.ChatUser) {
	c.chatted = chatted
	c.unchatted = unchatted
	c.typingPeers = make(map[string]bool)
	c.renderRoster()
}

func (c *ChatScreen) renderRoster() {
	current := c.rosterList.GetCurrentItem()
	c.rosterList.Clear()
	c.rosterIndex = c.rosterIndex[:0]

	addSection := func(title string, users []models.ChatUser) {
		c.rosterList.AddItem(fmt.Sprintf("[::b]%s[-:-:-]", title), "", 0, nil)
		c.rosterIndex = append(c.rosterIndex, models.ChatUser{})
		for _, u := range users {
			c.rosterList.AddItem(c.rosterRow(u), c.rosterDetail(u), 0, nil)
			c.rosterIndex = append(c.rosterIndex, u)
		}
	}
	addSection("Existing chats", c.chatted)
	addSection("No chat yet", c.unchatted)

	if current >= 0 && current < c.rosterList.GetItemCount() {
		c.rosterList.SetCurrentItem(current)
	}
}

func (c *ChatScreen) rosterRow(u models.ChatUser) string {
	var b strings.Builder
	b.WriteString(u.Username)
	if u.IsOnline {
		b.WriteString(" [green]online[-]")
	}
	if c.typingPeers[u.UserUUID] {
		b.WriteString(" [yellow]typing...[-]")
	}
	return b.String()
}

// rosterDetail is the tooltip line: name, age, gender, last seen.
func (c *ChatScreen) rosterDetail(u models.ChatUser) string {
	lastSeen := "now"
	if !u.IsOnline {
		lastSeen = utils.FormatDate(u.User.LastTimeOnline)
	}
	return fmt.Sprintf("  %s %s, %s, age %s, seen %s",
		u.User.FirstName, u.User.LastName, u.User.Gender, u.User.Age, lastSeen)
}

// SetTyping implements client.RosterSurface.
func (c *ChatScreen) SetTyping(peerUUID string, typing bool) {
	if c.typingPeers[peerUUID] == typing {
		return
	}
	c.typingPeers[peerUUID] = typing
	for i, u := range c.rosterIndex {
		if u.UserUUID == peerUUID {
			c.rosterList.SetItemText(i, c.rosterRow(u), c.rosterDetail(u))
			return
		}
	}
}

// ShowConversation implements client.ChatSurface: a full re-render of the
// open chat.
func (c *ChatScreen) ShowConversation(conv client.Conversation) {
	c.conv = conv
	c.chatTitle.SetText("Chat with " + conv.PeerName)
	c.messages.SetText(renderMessages(conv.Messages))
	if conv.ScrollOffset > 0 {
		c.messages.ScrollTo(conv.ScrollOffset, 0)
	} else {
		c.messages.ScrollToEnd()
	}
	c.composer.SetText(conv.Draft, true)
	c.setDraftCache(conv.Draft)
	c.App.SetFocus(c.composer)
}

func (c *ChatScreen) setDraftCache(text string) {
	c.draftMu.Lock()
	c.draftCache = text
	c.draftMu.Unlock()
}

func renderMessages(msgs []models.PrivateMessage) string {
	var b strings.Builder
	for _, pm := range msgs {
		writeMessage(&b, pm)
	}
	return b.String()
}

func writeMessage(b *strings.Builder, pm models.PrivateMessage) {
	color := "-"
	if pm.IsCreatedBy {
		color = "aqua"
	}
	fmt.Fprintf(b, "[%s::b]%s[-:-:-] [gray]%s[-]\n%s\n\n",
		color, pm.Message.SenderUsername, utils.FormatDate(pm.Message.CreatedAt), pm.Message.Content)
}

// AppendMessage implements client.ChatSurface: one new message on the
// newest side.
func (c *ChatScreen) AppendMessage(pm models.PrivateMessage) {
	c.conv.Messages = append(c.conv.Messages, pm)
	var b strings.Builder
	writeMessage(&b, pm)
	fmt.Fprint(c.messages, b.String())
	c.messages.ScrollToEnd()
}

// DraftText implements client.ChatSurface. It reads the cached copy so the
// dispatch goroutine never touches the widget.
func (c *ChatScreen) DraftText() string {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	return c.draftCache
}

// ScrollOffset implements client.ChatSurface.
func (c *ChatScreen) ScrollOffset() int {
	row, _ := c.messages.GetScrollOffset()
	return row
}

// Reset wipes the pane for logout.
func (c *ChatScreen) Reset() {
	c.chatted = nil
	c.unchatted = nil
	c.rosterIndex = nil
	c.typingPeers = make(map[string]bool)
	c.conv = client.Conversation{}
	c.rosterList.Clear()
	c.messages.SetText("")
	c.chatTitle.SetText("")
	c.composer.SetText("", false)
	c.setDraftCache("")
}
