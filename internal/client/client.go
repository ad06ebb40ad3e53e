// Package client is the core of the forum client: it owns the session, the
// roster, the open conversation and the push dispatch, and drives the UI
// through the Surfaces bundle. All server state is authoritative; the core
// never invents counters or ordering locally.
package client

import (
	"context"
	"errors"
	"sync"

	"agora/internal/api"
	"agora/internal/push"
	"agora/internal/storage"
	"agora/internal/utils"
)

// Config carries the dependencies for a Client.
type Config struct {
	API      *api.Client
	Store    *storage.Store
	Surfaces *Surfaces
	Log      *utils.RemoteLogger

	// WSURL is the push endpoint, e.g. "ws://localhost:8080/ws".
	WSURL string

	// LoggedOut is called on the UI goroutine after any logout, forced or
	// voluntary.
	LoggedOut func()
}

type Client struct {
	API        *api.Client
	Store      *storage.Store
	Session    *Session
	Roster     *Roster
	Typing     *TypingTracker
	Chat       *ChatController
	Dispatcher *Dispatcher
	Surfaces   *Surfaces
	Log        *utils.RemoteLogger

	wsURL     string
	loggedOut func()
	ctx       context.Context

	mu   sync.Mutex
	conn *push.Channel

	logoutOnce *sync.Once
}

func New(ctx context.Context, cfg Config) *Client {
	cli := &Client{
		API:        cfg.API,
		Store:      cfg.Store,
		Session:    NewSession(),
		Roster:     NewRoster(),
		Dispatcher: NewDispatcher(cfg.Log),
		Surfaces:   cfg.Surfaces,
		Log:        cfg.Log,
		wsURL:      cfg.WSURL,
		loggedOut:  cfg.LoggedOut,
		ctx:        ctx,
		logoutOnce: &sync.Once{},
	}
	cli.Typing = NewTypingTracker(0, func(peerUUID string, typing bool) {
		cli.Surfaces.Queue(func() {
			cli.Surfaces.Roster.SetTyping(peerUUID, typing)
		})
	}, cli.Roster.HasPeer)
	var drafts draftStore
	if cfg.Store != nil {
		drafts = cfg.Store
	}
	cli.Chat = NewChatController(cfg.API, nil, drafts, cli.Session, cfg.Surfaces, cfg.Log, cli.ForceLogout)
	cli.routes()
	return cli
}

// Login authenticates and brings the realtime layer up. The credential is
// persisted so the next run can resume without a password.
func (cli *Client) Login(usernameOrEmail, password string) error {
	creds, err := cli.API.Login(cli.ctx, usernameOrEmail, password)
	if err != nil {
		return err
	}
	return cli.start(creds.Token, creds.Username)
}

// Register creates an account. The caller logs in afterwards, matching the
// server's two-step flow.
func (cli *Client) Register(form api.RegisterForm) error {
	return cli.API.Register(cli.ctx, form)
}

// Resume tries the credential saved by a previous run. It returns false,
// without error, when there is nothing to resume or the server no longer
// accepts the token.
func (cli *Client) Resume() (bool, error) {
	saved, err := cli.Store.GetSession(cli.ctx)
	if errors.Is(err, storage.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cli.API.SetToken(saved.Token)
	st, err := cli.API.SessionCheck(cli.ctx)
	if err != nil || !st.LoggedIn {
		cli.API.SetToken("")
		_ = cli.Store.ClearSession(cli.ctx)
		return false, nil
	}

	token := st.Token
	if token == "" {
		token = saved.Token
	}
	username := st.Username
	if username == "" {
		username = saved.Username
	}
	if err := cli.start(token, username); err != nil {
		return false, err
	}
	return true, nil
}

func (cli *Client) start(token, username string) error {
	cli.Session.SetCredentials(token, username)
	cli.API.SetToken(token)
	if cli.Store != nil {
		if err := cli.Store.SaveSession(cli.ctx, token, username); err != nil && cli.Log != nil {
			cli.Log.Logf("client: save session: %v", err)
		}
	}

	conn, err := push.Dial(cli.ctx, cli.wsURL, token, cli.Dispatcher.Dispatch, cli.onPushClosed, cli.Log)
	if err != nil {
		return err
	}
	cli.mu.Lock()
	cli.conn = conn
	cli.logoutOnce = &sync.Once{}
	cli.mu.Unlock()
	cli.Chat.SetTypingSender(conn)

	// Ask for the roster; it arrives as a listOfChat frame.
	go func() {
		if err := cli.API.UsersList(cli.ctx); err != nil {
			cli.authCheck(err)
		}
	}()
	return nil
}

func (cli *Client) onPushClosed(err error) {
	if err == nil {
		return
	}
	if cli.Log != nil {
		cli.Log.Logf("client: push connection lost: %v", err)
	}
	cli.Surfaces.Queue(func() {
		cli.Surfaces.Notifier.Error("Connection lost", "The realtime connection dropped. Log in again to reconnect.")
	})
	cli.teardown(false)
}

// Logout leaves the session cleanly: the open chat's typing state is
// flushed first so no peer is left with a lit indicator.
func (cli *Client) Logout() {
	cli.Chat.FlushTyping(cli.ctx)
	cli.teardown(true)
}

// ForceLogout is the "Not logged in" path: the server already considers the
// session dead, so only local state is torn down.
func (cli *Client) ForceLogout() {
	cli.Chat.FlushTyping(cli.ctx)
	cli.teardown(false)
}

func (cli *Client) teardown(tellServer bool) {
	cli.mu.Lock()
	once := cli.logoutOnce
	cli.mu.Unlock()

	once.Do(func() {
		cli.mu.Lock()
		conn := cli.conn
		cli.conn = nil
		cli.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		cli.Chat.SetTypingSender(nil)

		if tellServer {
			if err := cli.API.Logout(cli.ctx); err != nil && cli.Log != nil {
				cli.Log.Logf("client: logout: %v", err)
			}
		} else {
			cli.API.SetToken("")
		}
		if cli.Store != nil {
			if err := cli.Store.ClearSession(cli.ctx); err != nil && cli.Log != nil {
				cli.Log.Logf("client: clear session: %v", err)
			}
		}

		cli.Session.Reset()
		cli.Roster.Clear()
		cli.Typing.Reset()

		if cli.loggedOut != nil {
			cli.Surfaces.Queue(cli.loggedOut)
		}
	})
}

func (cli *Client) authCheck(err error) bool {
	if errors.Is(err, api.ErrNotLoggedIn) {
		cli.ForceLogout()
		return true
	}
	return false
}
