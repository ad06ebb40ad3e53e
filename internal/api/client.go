// Package api is the REST half of the forum client. Every call decodes the
// server's {success, message, ...} envelope; a body that fails to decode is
// treated as {success: false, message: "Invalid JSON response"} so callers
// only ever see one failure shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"agora/internal/models"
	"agora/internal/utils"
)

// ErrNotLoggedIn is returned when the server rejects a call because the
// session is gone. Callers must treat it as a forced logout.
var ErrNotLoggedIn = utils.AuthError("Not logged in")

// SessionCookie is the cookie name the server reads the session token from.
const SessionCookie = "session_token"

// Client talks to the forum server over HTTP.
type Client struct {
	BaseURL string
	http    *http.Client
	log     *utils.RemoteLogger

	mu    sync.RWMutex
	token string
}

// NewClient builds a Client for the given base URL, e.g. "http://localhost:8080".
func NewClient(baseURL string, log *utils.RemoteLogger) *Client {
	return &Client{
		BaseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// SetToken installs the session token sent with every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the server's common response wrapper. Endpoint payloads ride
// alongside it at the top level.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return utils.RequestError("encoding request body").WithDetails(err.Error())
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return utils.RequestError("building request").WithDetails(err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return utils.RequestError("request failed").WithDetails(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return utils.RequestError("reading response").WithDetails(err.Error())
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		env = envelope{Success: false, Message: "Invalid JSON response"}
	}
	// Some endpoints omit "success" on 200; trust the status code then.
	if !env.Success && resp.StatusCode == http.StatusOK && env.Message == "" {
		env.Success = true
	}

	if !env.Success {
		if c.log != nil {
			c.log.Logf("api: %s %s failed: %s", method, path, env.Message)
		}
		if env.Message == "Not logged in" {
			return ErrNotLoggedIn
		}
		if env.Message == "" {
			env.Message = fmt.Sprintf("server returned %d", resp.StatusCode)
		}
		return utils.RequestError(env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return utils.RequestError("Invalid JSON response").WithDetails(err.Error())
		}
	}
	return nil
}

// Credentials is the login response payload.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login authenticates with a username or email address. On success the
// returned token is installed on the client.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*Credentials, error) {
	if usernameOrEmail == "" || password == "" {
		return nil, utils.ValidationError("username and password are required")
	}
	body := map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, body, &creds); err != nil {
		return nil, err
	}
	c.SetToken(creds.Token)
	return &creds, nil
}

// RegisterForm carries the fields of the registration endpoint.
type RegisterForm struct {
	Username  string `json:"username"`
	Age       string `json:"age"`
	Gender    string `json:"gender"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a new account. The caller still has to log in afterwards.
func (c *Client) Register(ctx context.Context, form RegisterForm) error {
	if form.Username == "" || form.Email == "" || form.Password == "" {
		return utils.ValidationError("username, email and password are required")
	}
	return c.do(ctx, http.MethodPost, "/api/register", nil, form, nil)
}

// Logout invalidates the session server-side and clears the local token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	c.SetToken("")
	if errors.Is(err, ErrNotLoggedIn) {
		// Already logged out as far as the server is concerned.
		return nil
	}
	return err
}

// SessionStatus is the session check payload.
type SessionStatus struct {
	LoggedIn bool   `json:"loggedIn"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// SessionCheck asks the server whether the installed token is still valid.
func (c *Client) SessionCheck(ctx context.Context) (*SessionStatus, error) {
	var st SessionStatus
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// UsersList asks the server to push a fresh roster over the websocket. The
// HTTP response carries no payload; the roster arrives as a listOfChat frame.
func (c *Client) UsersList(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/userslist", nil, nil, nil)
}

// SendMessage submits a private message. The stored message comes back as a
// sendMessage push frame, not in this response.
func (c *Client) SendMessage(ctx context.Context, userUUID, chatUUID, content string) error {
	if content == "" {
		return utils.ValidationError("message content is empty")
	}
	q := url.Values{"UserUUID": {userUUID}, "ChatUUID": {chatUUID}}
	return c.do(ctx, http.MethodPost, "/api/sendmessage", q, map[string]string{"content": content}, nil)
}

// ShowMessages requests the newest numberOfMessages of a chat. The page
// arrives as a showMessages push frame.
func (c *Client) ShowMessages(ctx context.Context, userUUID, chatUUID string, numberOfMessages int) error {
	q := url.Values{"UserUUID": {userUUID}, "ChatUUID": {chatUUID}}
	body := map[string]int{"numberOfMessages": numberOfMessages}
	return c.do(ctx, http.MethodPost, "/api/showmessages", q, body, nil)
}

// Posts fetches the feed, optionally filtered to one category. Zero means all.
func (c *Client) Posts(ctx context.Context, categoryID int) ([]models.Post, error) {
	q := url.Values{"categoryid": {strconv.Itoa(categoryID)}}
	var payload struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts", q, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Posts, nil
}

// CreatePost publishes a new post into the selected categories.
func (c *Client) CreatePost(ctx context.Context, title, content string, categoryIDs []int) error {
	if title == "" || content == "" || len(categoryIDs) == 0 {
		return utils.ValidationError("title, content and at least one category are required")
	}
	body := map[string]any{"title": title, "content": content, "categoryIds": categoryIDs}
	return c.do(ctx, http.MethodPost, "/api/posts", nil, body, nil)
}

// Replies fetches the comments under a post or a comment. parentType is
// "post" or "comment".
func (c *Client) Replies(ctx context.Context, parentID int, parentType string) ([]models.Comment, error) {
	q := url.Values{"parentID": {strconv.Itoa(parentID)}, "parentType": {parentType}}
	var payload struct {
		Comments []models.Comment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/replies", q, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Comments, nil
}

// AddReply posts a comment under the given parent.
func (c *Client) AddReply(ctx context.Context, parentID int, parentType, content string) error {
	if content == "" {
		return utils.ValidationError("reply content is empty")
	}
	q := url.Values{"parentType": {parentType}}
	body := map[string]any{"content": content, "parentid": parentID}
	return c.do(ctx, http.MethodPost, "/api/addreply", q, body, nil)
}

// Like toggles the viewer's like on a post or comment. The updated counters
// arrive as a push frame with isLikeAction set.
func (c *Client) Like(ctx context.Context, postID int, postType string) error {
	q := url.Values{"postType": {postType}}
	return c.do(ctx, http.MethodPost, "/api/like", q, map[string]int{"postID": postID}, nil)
}

// Dislike toggles the viewer's dislike, same contract as Like.
func (c *Client) Dislike(ctx context.Context, postID int, postType string) error {
	q := url.Values{"postType": {postType}}
	return c.do(ctx, http.MethodPost, "/api/dislike", q, map[string]int{"postID": postID}, nil)
}

// Categories fetches the set of post categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var payload struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/category", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// MyProfile fetches the logged-in user's profile.
func (c *Client) MyProfile(ctx context.Context) (*models.User, error) {
	var payload struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/myprofile", nil, nil, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, utils.RequestError("profile missing from response")
	}
	return payload.User, nil
}
