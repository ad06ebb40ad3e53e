package client

import (
	"agora/internal/protocol"
	"agora/internal/utils"
)

// Dispatcher routes decoded push frames to their handlers by msgType. It is
// fed from the push channel's read goroutine, so handlers run one at a time
// in arrival order.
type Dispatcher struct {
	handlers map[string]func(*protocol.Event)
	log      *utils.RemoteLogger
}

func NewDispatcher(log *utils.RemoteLogger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]func(*protocol.Event)),
		log:      log,
	}
}

// Handle registers the handler for one msgType, replacing any previous one.
func (d *Dispatcher) Handle(msgType string, h func(*protocol.Event)) {
	d.handlers[msgType] = h
}

// Dispatch decodes a raw frame and runs its handler. Malformed frames and
// unknown tags are logged and dropped; one bad frame must not take the
// connection down.
func (d *Dispatcher) Dispatch(data []byte) {
	ev, err := protocol.DecodeEvent(data)
	if err != nil {
		if d.log != nil {
			d.log.Logf("dispatch: dropping frame: %v", err)
		}
		return
	}
	h, ok := d.handlers[ev.MsgType]
	if !ok {
		if d.log != nil {
			d.log.Logf("dispatch: no handler for %q", ev.MsgType)
		}
		return
	}
	h(ev)
}
