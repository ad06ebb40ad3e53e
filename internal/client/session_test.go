package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionPaging(t *testing.T) {
	s := NewSession()
	require.Equal(t, defaultPageSize, s.Current().PageSize)

	require.Equal(t, 20, s.GrowPage())
	require.Equal(t, 30, s.GrowPage())

	s.ResetPaging()
	require.Equal(t, defaultPageSize, s.Current().PageSize)
}

func TestSessionReset(t *testing.T) {
	s := NewSession()
	s.SetCredentials("tok", "alice")
	s.SetUserUUID("u1")
	s.SetCurrent(Current{PeerUUID: "p1", ChatUUID: "c1", PageSize: 40, MorePages: true})

	s.Reset()
	require.Empty(t, s.Token())
	require.Empty(t, s.Username())
	require.Empty(t, s.UserUUID())
	cur := s.Current()
	require.Empty(t, cur.PeerUUID)
	require.Empty(t, cur.ChatUUID)
	require.Equal(t, defaultPageSize, cur.PageSize)
	require.False(t, cur.MorePages)
}
