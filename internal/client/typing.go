package client

import (
	"sync"
	"time"
)

// typingIdle is how long a peer's indicator stays lit without a fresh typing
// frame.
const typingIdle = 1000 * time.Millisecond

// TypingTracker drives the per-peer typing indicators from incoming typing
// and stopped_typing frames. Each typing frame re-arms that peer's idle
// timer; the indicator clears when the timer fires or an explicit stop
// arrives, whichever is first.
type TypingTracker struct {
	idle  time.Duration
	set   func(peerUUID string, typing bool)
	known func(peerUUID string) bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTypingTracker builds a tracker. set is called on every indicator
// change; known filters out peers that are not on the roster. A zero idle
// falls back to the default.
func NewTypingTracker(idle time.Duration, set func(peerUUID string, typing bool), known func(peerUUID string) bool) *TypingTracker {
	if idle <= 0 {
		idle = typingIdle
	}
	return &TypingTracker{
		idle:   idle,
		set:    set,
		known:  known,
		timers: make(map[string]*time.Timer),
	}
}

// Typing lights the peer's indicator and re-arms its idle timer. Frames for
// peers missing from the roster are dropped.
func (t *TypingTracker) Typing(peerUUID string) {
	if t.known != nil && !t.known(peerUUID) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[peerUUID]; ok {
		timer.Stop()
	}
	t.timers[peerUUID] = time.AfterFunc(t.idle, func() {
		t.mu.Lock()
		delete(t.timers, peerUUID)
		t.mu.Unlock()
		t.set(peerUUID, false)
	})
	t.set(peerUUID, true)
}

// Stopped clears the peer's indicator. Safe to call when it was never lit.
func (t *TypingTracker) Stopped(peerUUID string) {
	t.mu.Lock()
	if timer, ok := t.timers[peerUUID]; ok {
		timer.Stop()
		delete(t.timers, peerUUID)
	}
	t.mu.Unlock()
	t.set(peerUUID, false)
}

// Reset drops all timers without touching indicators. The roster re-render
// that follows starts every indicator off.
func (t *TypingTracker) Reset() {
	t.mu.Lock()
	for peer, timer := range t.timers {
		timer.Stop()
		delete(t.timers, peer)
	}
	t.mu.Unlock()
}
