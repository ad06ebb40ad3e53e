package client

import (
	"sync"

	"agora/internal/models"
)

// Roster holds the latest user list pushed by the server: peers with an
// existing chat and peers without one. The server owns the ordering.
type Roster struct {
	mu        sync.RWMutex
	chatted   []models.ChatUser
	unchatted []models.ChatUser
}

func NewRoster() *Roster {
	return &Roster{}
}

// Update replaces both partitions with the server's latest snapshot.
func (r *Roster) Update(chatted, unchatted []models.ChatUser) {
	r.mu.Lock()
	r.chatted = chatted
	r.unchatted = unchatted
	r.mu.Unlock()
}

// Snapshot returns copies of both partitions.
func (r *Roster) Snapshot() (chatted, unchatted []models.ChatUser) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chatted = append([]models.ChatUser(nil), r.chatted...)
	unchatted = append([]models.ChatUser(nil), r.unchatted...)
	return chatted, unchatted
}

// Peer looks a user up by uuid across both partitions.
func (r *Roster) Peer(uuid string) (models.ChatUser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cu := range r.chatted {
		if cu.UserUUID == uuid {
			return cu, true
		}
	}
	for _, cu := range r.unchatted {
		if cu.UserUUID == uuid {
			return cu, true
		}
	}
	return models.ChatUser{}, false
}

// HasPeer reports whether the uuid is on the roster at all.
func (r *Roster) HasPeer(uuid string) bool {
	_, ok := r.Peer(uuid)
	return ok
}

// Clear empties the roster, for logout.
func (r *Roster) Clear() {
	r.mu.Lock()
	r.chatted = nil
	r.unchatted = nil
	r.mu.Unlock()
}
