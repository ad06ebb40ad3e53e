package client

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type indicatorLog struct {
	mu    sync.Mutex
	state map[string]bool
}

func newIndicatorLog() *indicatorLog {
	return &indicatorLog{state: make(map[string]bool)}
}

func (l *indicatorLog) set(peer string, typing bool) {
	l.mu.Lock()
	l.state[peer] = typing
	l.mu.Unlock()
}

func (l *indicatorLog) get(peer string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state[peer]
}

func TestTypingLightsAndAutoClears(t *testing.T) {
	log := newIndicatorLog()
	tr := NewTypingTracker(30*time.Millisecond, log.set, nil)

	tr.Typing("peer-1")
	require.True(t, log.get("peer-1"))

	require.Eventually(t, func() bool { return !log.get("peer-1") },
		time.Second, 5*time.Millisecond)
}

func TestTypingRearmsOnFreshFrames(t *testing.T) {
	log := newIndicatorLog()
	tr := NewTypingTracker(50*time.Millisecond, log.set, nil)

	tr.Typing("peer-1")
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		tr.Typing("peer-1")
		require.True(t, log.get("peer-1"))
	}

	require.Eventually(t, func() bool { return !log.get("peer-1") },
		time.Second, 5*time.Millisecond)
}

func TestStoppedClearsImmediately(t *testing.T) {
	log := newIndicatorLog()
	tr := NewTypingTracker(time.Minute, log.set, nil)

	tr.Typing("peer-1")
	require.True(t, log.get("peer-1"))

	tr.Stopped("peer-1")
	require.False(t, log.get("peer-1"))

	// Stopping a peer that was never typing is a no-op, not a panic.
	tr.Stopped("peer-2")
	require.False(t, log.get("peer-2"))
}

func TestTypingDropsUnknownPeers(t *testing.T) {
	log := newIndicatorLog()
	known := func(peer string) bool { return peer == "peer-1" }
	tr := NewTypingTracker(time.Minute, log.set, known)

	tr.Typing("ghost")
	require.False(t, log.get("ghost"))

	tr.Typing("peer-1")
	require.True(t, log.get("peer-1"))
}

func TestTrackerIndependentPeers(t *testing.T) {
	log := newIndicatorLog()
	tr := NewTypingTracker(time.Minute, log.set, nil)

	tr.Typing("peer-1")
	tr.Typing("peer-2")
	tr.Stopped("peer-1")

	require.False(t, log.get("peer-1"))
	require.True(t, log.get("peer-2"))
}

func TestResetDropsTimersWithoutIndicatorChanges(t *testing.T) {
	log := newIndicatorLog()
	tr := NewTypingTracker(40*time.Millisecond, log.set, nil)

	tr.Typing("peer-1")
	tr.Reset()

	// The indicator is left as-is; the roster re-render owns the reset.
	require.True(t, log.get("peer-1"))

	// And the dropped timer never fires.
	time.Sleep(80 * time.Millisecond)
	require.True(t, log.get("peer-1"))
}
