package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"agora/internal/models"
)

// MainScreen is the logged-in surface: a header bar and a body that swaps
// between the forum feed, the chat view and the profile.
type MainScreen struct {
	*UI
	Layout *tview.Flex

	Feed *FeedScreen
	Chat *ChatScreen

	body     *tview.Pages
	loggedAs *tview.TextView
	profile  *tview.TextView
}

func (m *MainScreen) Init() {
	m.Feed = &FeedScreen{UI: m.UI}
	m.Feed.Init()
	m.Chat = &ChatScreen{UI: m.UI}
	m.Chat.Init()

	m.profile = tview.NewTextView()
	m.profile.SetDynamicColors(true).
		SetBorder(true).
		SetTitle("[ Profile ]").
		SetTitleColor(m.Theme.GetColor("primary")).
		SetBorderColor(m.Theme.GetColor("border")).
		SetBackgroundColor(m.Theme.GetColor("background"))

	m.body = tview.NewPages().
		AddPage("feed", m.Feed.Layout, true, true).
		AddPage("chat", m.Chat.Layout, true, false).
		AddPage("profile", m.profile, true, false)

	m.loggedAs = tview.NewTextView()
	m.loggedAs.SetTextColor(m.Theme.GetColor("foreground-dark")).
		SetTextAlign(tview.AlignRight)

	forumBtn := m.headerButton("Forum", func() {
		go m.Handlers.CloseChat()
		m.body.SwitchToPage("feed")
		m.App.SetFocus(m.Feed.List)
	})
	chatsBtn := m.headerButton("Chats", func() {
		m.body.SwitchToPage("chat")
		m.App.SetFocus(m.Chat.rosterList)
	})
	profileBtn := m.headerButton("Profile", m.openProfile)
	logoutBtn := m.headerButton("Logout", func() {
		go m.Handlers.Logout()
	})

	header := tview.NewFlex().
		AddItem(forumBtn, 9, 0, false).
		AddItem(chatsBtn, 9, 0, false).
		AddItem(profileBtn, 11, 0, false).
		AddItem(logoutBtn, 10, 0, false).
		AddItem(m.loggedAs, 0, 1, false)

	m.Layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(m.body, 0, 1, true)
}

func (m *MainScreen) headerButton(label string, onSelect func()) *tview.Button {
	btn := tview.NewButton(label)
	btn.SetSelectedFunc(onSelect).
		SetLabelColor(m.Theme.GetColor("foreground")).
		SetBackgroundColor(m.Theme.GetColor("background"))
	return btn
}

func (m *MainScreen) openProfile() {
	go func() {
		user, err := m.Handlers.MyProfile()
		if err != nil {
			m.Queue(func() { m.ShowError("Profile", err.Error()) })
			return
		}
		m.Queue(func() {
			m.profile.SetText(renderProfile(user))
			m.body.SwitchToPage("profile")
		})
	}()
}

func renderProfile(u *models.User) string {
	return fmt.Sprintf(
		"[::b]%s[-:-:-]\n\nFirst name: %s\nLast name:  %s\nAge:        %s\nGender:     %s\nE-mail:     %s\n",
		u.Username, u.FirstName, u.LastName, u.Age, u.Gender, u.Email)
}

func (m *MainScreen) SetUsername(username string) {
	m.loggedAs.SetText("Logged in as " + username + " ")
	m.Feed.Reload()
}

// Reset wipes all rendered state for logout.
func (m *MainScreen) Reset() {
	m.Feed.Reset()
	m.Chat.Reset()
	m.profile.SetText("")
	m.body.SwitchToPage("feed")
}
