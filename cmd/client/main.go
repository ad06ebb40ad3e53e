package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"agora/internal/api"
	"agora/internal/client"
	"agora/internal/models"
	"agora/internal/storage"
	"agora/internal/ui"
	"agora/internal/utils"
)

// envOr reads an environment variable with a fallback, so flags, .env and
// the defaults layer in that order.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Missing .env is fine; the defaults point at a local server.
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("AGORA_SERVER", "http://localhost:8080"), "forum server base URL")
	wsURL := flag.String("ws", envOr("AGORA_WS", "ws://localhost:8080/ws"), "push endpoint URL")
	dbPath := flag.String("db", envOr("AGORA_DB", ""), "state database path (defaults to ~/.agora/agora.db)")
	themePath := flag.String("theme", envOr("AGORA_THEME", ""), "YAML theme file")
	logPort, _ := strconv.Atoi(envOr("AGORA_LOG_PORT", "0"))
	flag.IntVar(&logPort, "logport", logPort, "TCP port for the debug log stream, 0 disables")
	flag.Parse()

	rl, err := utils.NewRemoteLogger(logPort)
	if err != nil {
		log.Printf("remote logger unavailable: %v", err)
	}

	theme := ui.DefaultTheme()
	if *themePath != "" {
		theme, err = ui.LoadTheme(*themePath)
		if err != nil {
			log.Fatalf("loading theme: %v", err)
		}
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("opening state database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	apiClient := api.NewClient(*serverURL, rl)

	var cli *client.Client
	var term *ui.UI

	term = ui.NewUI(&ui.UIConfig{
		Theme: theme,
		Handlers: ui.Handlers{
			Login:    func(user, pass string) error { return cli.Login(user, pass) },
			Register: func(form api.RegisterForm) error { return cli.Register(form) },
			Logout:   func() { cli.Logout() },

			OpenChat: func(peerUUID, chatUUID string) {
				cli.Chat.OpenChat(ctx, peerUUID, chatUUID)
			},
			CloseChat: func() { cli.Chat.Close(ctx) },
			SendMessage:     func(text string) error { return cli.Chat.Send(ctx, text) },
			ComposerChanged: func(text string) { go cli.Chat.ComposerChanged(text) },
			LoadOlder:       func() { cli.Chat.MaybeLoadOlder(ctx) },

			FetchPosts: func(categoryID int) ([]models.Post, error) { return cli.FetchPosts(categoryID) },
			Categories: func() ([]models.Category, error) { return cli.Categories() },
			CreatePost: func(title, content string, categoryIDs []int) error {
				return cli.CreatePost(title, content, categoryIDs)
			},
			Replies: func(parentID int, parentType string) ([]models.Comment, error) {
				return cli.Replies(parentID, parentType)
			},
			AddReply: func(parentID int, parentType, content string) error {
				return cli.AddReply(parentID, parentType, content)
			},
			React:     func(t client.ReactionTarget, like bool) error { return cli.React(t, like) },
			MyProfile: func() (*models.User, error) { return cli.MyProfile() },
		},
	})

	cli = client.New(ctx, client.Config{
		API:      apiClient,
		Store:    store,
		Surfaces: term.Surfaces(),
		Log:      rl,
		WSURL:    *wsURL,
		LoggedOut: func() {
			term.ShowLogin()
		},
	})

	// A saved session skips the login form when the server still honors it.
	go func() {
		ok, err := cli.Resume()
		if err != nil && rl != nil {
			rl.Logf("main: resume: %v", err)
		}
		if ok {
			term.Queue(func() { term.ShowMain(cli.Session.Username()) })
		}
	}()

	if err := term.Run(); err != nil {
		log.Fatalf("running UI: %v", err)
	}
}
