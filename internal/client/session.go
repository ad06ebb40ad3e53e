package client

import "sync"

const defaultPageSize = 10

// Current tracks the open conversation. Zero values mean no chat is open.
type Current struct {
	PeerUUID string
	PeerName string
	ChatUUID string

	// PageSize is the total number of messages the next history fetch asks
	// for. It grows by a page at a time and snaps back when another chat
	// is opened.
	PageSize int

	// MorePages is true while the server keeps returning full pages,
	// meaning older history may still exist.
	MorePages bool
}

// Session is the logged-in state. All access goes through the methods; the
// push channel and the UI touch it from different goroutines.
type Session struct {
	mu sync.RWMutex

	token    string
	username string
	userUUID string
	current  Current
}

func NewSession() *Session {
	return &Session{current: Current{PageSize: defaultPageSize}}
}

func (s *Session) SetCredentials(token, username string) {
	s.mu.Lock()
	s.token = token
	s.username = username
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// SetUserUUID records the viewer's own uuid. The server reveals it on every
// history frame; the login response does not carry it.
func (s *Session) SetUserUUID(uuid string) {
	s.mu.Lock()
	s.userUUID = uuid
	s.mu.Unlock()
}

func (s *Session) UserUUID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userUUID
}

// Current returns a copy of the open-conversation state.
func (s *Session) Current() Current {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent replaces the open-conversation state.
func (s *Session) SetCurrent(c Current) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}

// GrowPage bumps the requested history size by one page and returns the new
// total.
func (s *Session) GrowPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.PageSize += defaultPageSize
	return s.current.PageSize
}

// ResetPaging snaps the page size back to one page, for a fresh chat open.
func (s *Session) ResetPaging() {
	s.mu.Lock()
	s.current.PageSize = defaultPageSize
	s.mu.Unlock()
}

// Reset wipes the session back to logged out.
func (s *Session) Reset() {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.userUUID = ""
	s.current = Current{PageSize: defaultPageSize}
	s.mu.Unlock()
}
