// Package ui renders the forum client as a terminal application. It owns
// the tview event loop; the client core pushes updates in through the
// surface implementations, always marshalled via QueueUpdateDraw.
package ui

import (
	"github.com/rivo/tview"

	"agora/internal/api"
	"agora/internal/client"
	"agora/internal/models"
)

// Handlers are the UI's callbacks into the client core, wired at startup.
type Handlers struct {
	Login    func(usernameOrEmail, password string) error
	Register func(form api.RegisterForm) error
	Logout   func()

	OpenChat        func(peerUUID, chatUUID string)
	CloseChat       func()
	SendMessage     func(text string) error
	ComposerChanged func(text string)
	LoadOlder       func()

	FetchPosts func(categoryID int) ([]models.Post, error)
	Categories func() ([]models.Category, error)
	CreatePost func(title, content string, categoryIDs []int) error
	Replies    func(parentID int, parentType string) ([]models.Comment, error)
	AddReply   func(parentID int, parentType, content string) error
	React      func(t client.ReactionTarget, like bool) error
	MyProfile  func() (*models.User, error)
}

type UIConfig struct {
	Theme    *Theme
	Handlers Handlers
}

type UI struct {
	App      *tview.Application
	Pages    *tview.Pages
	Theme    *Theme
	Handlers Handlers

	Login *LoginScreen
	Main  *MainScreen
}

func NewUI(cfg *UIConfig) *UI {
	theme := cfg.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	ui := &UI{
		App:      tview.NewApplication().EnableMouse(true),
		Theme:    theme,
		Handlers: cfg.Handlers,
	}

	ui.Login = &LoginScreen{UI: ui}
	ui.Login.Init()
	ui.Main = &MainScreen{UI: ui}
	ui.Main.Init()

	ui.Pages = tview.NewPages().
		AddPage("login", ui.Login.Layout, true, true).
		AddPage("main", ui.Main.Layout, true, false)

	ui.App.SetRoot(ui.Pages, true).SetFocus(ui.Pages)
	return ui
}

// Surfaces bundles this UI for the client core.
func (ui *UI) Surfaces() *client.Surfaces {
	return &client.Surfaces{
		Feed:     ui.Main.Feed,
		Chat:     ui.Main.Chat,
		Roster:   ui.Main.Chat,
		Notifier: ui,
		Queue:    ui.Queue,
	}
}

// Queue schedules fn on the UI goroutine. Calling it from inside an event
// handler would deadlock tview, so the core only uses it from its own
// goroutines.
func (ui *UI) Queue(fn func()) {
	ui.App.QueueUpdateDraw(fn)
}

// ShowMain switches from the login page to the forum.
func (ui *UI) ShowMain(username string) {
	ui.Main.SetUsername(username)
	ui.Pages.SwitchToPage("main")
	ui.App.SetFocus(ui.Main.Feed.List)
}

// ShowLogin returns to the login page, wiping the main screen's state.
func (ui *UI) ShowLogin() {
	ui.Main.Reset()
	ui.Pages.SwitchToPage("login")
	ui.App.SetFocus(ui.Login.form)
}

func (ui *UI) Run() error {
	return ui.App.Run()
}

func (ui *UI) Stop() {
	ui.App.Stop()
}
