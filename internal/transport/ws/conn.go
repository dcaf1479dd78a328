package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pingEvery      = 15 * time.Second
	sendQueueDepth = 64
)

// conn wraps one websocket connection with a buffered outbound queue. The
// write pump drains the queue in order, which gives the room the per-origin
// FIFO delivery guarantee.
type conn struct {
	id   string
	ws   *websocket.Conn
	send chan OutFrame

	closed chan struct{}
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{
		id:     uuid.NewString(),
		ws:     ws,
		send:   make(chan OutFrame, sendQueueDepth),
		closed: make(chan struct{}),
	}
}

func (c *conn) ID() string { return c.id }

// Send queues the event for delivery. A connection that cannot keep up has
// its events dropped rather than blocking the coordinator loop.
func (c *conn) Send(event string, payload any) {
	select {
	case <-c.closed:
	case c.send <- OutFrame{Event: event, Data: payload}:
	default:
		slog.Warn("ws send queue full, dropping event", "conn", c.id, "event", event)
	}
}

func (c *conn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return c.ws.Close()
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case frame := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(frame)
			if err != nil {
				slog.Error("ws marshal frame", "conn", c.id, "event", frame.Event, "err", err)
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
