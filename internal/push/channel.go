// Package push owns the websocket leg of the forum client. The server does
// all the talking: frames arrive tagged by msgType and are handed to the
// dispatcher in arrival order. The only thing the client ever writes back is
// a typing notice.
package push

import (
	"context"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"agora/internal/protocol"
	"agora/internal/utils"
)

// FrameHandler receives each raw push frame. Frames are delivered one at a
// time from a single goroutine, in the order the server sent them.
type FrameHandler func(data []byte)

// CloseHandler is called once when the read loop exits. err is nil on a
// clean shutdown via Close.
type CloseHandler func(err error)

// Channel is a live websocket connection to the server.
type Channel struct {
	conn    *websocket.Conn
	onClose CloseHandler
	log     *utils.RemoteLogger

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial connects to wsURL (e.g. "ws://localhost:8080/ws") authenticating with
// the session token, and starts the read loop.
func Dial(ctx context.Context, wsURL, token string, onFrame FrameHandler, onClose CloseHandler, log *utils.RemoteLogger) (*Channel, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, utils.ValidationError("bad websocket url").WithDetails(err.Error())
	}
	q := u.Query()
	q.Set("session", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, utils.RequestError("websocket dial failed").WithDetails(err.Error())
	}

	ch := &Channel{
		conn:    conn,
		onClose: onClose,
		log:     log,
		closed:  make(chan struct{}),
	}
	go ch.readLoop(onFrame)
	return ch, nil
}

func (ch *Channel) readLoop(onFrame FrameHandler) {
	for {
		_, data, err := ch.conn.ReadMessage()
		if err != nil {
			select {
			case <-ch.closed:
				err = nil
			default:
			}
			if ch.log != nil && err != nil {
				ch.log.Logf("push: read loop ended: %v", err)
			}
			if ch.onClose != nil {
				ch.onClose(err)
			}
			return
		}
		onFrame(data)
	}
}

// SendTyping tells the server the viewer started typing to the peer.
func (ch *Channel) SendTyping(from, to string) error {
	return ch.sendNotice(protocol.NoticeTyping, from, to)
}

// SendStoppedTyping tells the server the viewer stopped typing to the peer.
func (ch *Channel) SendStoppedTyping(from, to string) error {
	return ch.sendNotice(protocol.NoticeStoppedTyping, from, to)
}

func (ch *Channel) sendNotice(kind, from, to string) error {
	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	err := ch.conn.WriteJSON(protocol.TypingNotice{Type: kind, From: from, To: to})
	if err != nil {
		return utils.RequestError("websocket write failed").WithDetails(err.Error())
	}
	return nil
}

// Close shuts the connection down. The close handler fires with a nil error.
func (ch *Channel) Close() error {
	var err error
	ch.closeOnce.Do(func() {
		close(ch.closed)
		ch.writeMu.Lock()
		ch.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		ch.writeMu.Unlock()
		err = ch.conn.Close()
	})
	return err
}
