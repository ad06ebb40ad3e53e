package utils

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
)

// RemoteLogger streams debug lines to any TCP client that connects. The TUI
// owns the terminal, so `nc localhost <port>` is how you watch the client
// think. A zero port gives a logger that drops everything.
type RemoteLogger struct {
	Port     int
	Listener net.Listener
	instance string

	mu      sync.Mutex
	clients []net.Conn
}

// NewRemoteLogger starts a TCP listener on the given port.
func NewRemoteLogger(port int) (*RemoteLogger, error) {
	rl := &RemoteLogger{
		Port:     port,
		instance: uuid.NewString()[:8],
	}
	if port == 0 {
		return rl, nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return rl, err
	}
	rl.Listener = ln
	go rl.acceptClients()
	return rl, nil
}

func (rl *RemoteLogger) acceptClients() {
	for {
		conn, err := rl.Listener.Accept()
		if err != nil {
			continue
		}
		rl.mu.Lock()
		rl.clients = append(rl.clients, conn)
		rl.mu.Unlock()
	}
}

// Logf sends a formatted log message to all connected clients.
func (rl *RemoteLogger) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for _, conn := range rl.clients {
		fmt.Fprintf(conn, "[%s] %s\n", rl.instance, msg)
	}
}
