package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single write to a connection.
	writeWait = 10 * time.Second
	// sendBufferSize bounds how far a receiver may fall behind before it
	// is dropped.
	sendBufferSize = 64
)

// wsConn is the subset of *websocket.Conn the hub uses. Tests substitute
// an in-memory implementation.
type wsConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live push channel. Writes go through a buffered channel
// drained by WritePump, so delivery to one client never blocks another.
type Client struct {
	conn wsConn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded websocket connection.
func NewClient(conn *websocket.Conn) *Client {
	return newClient(conn)
}

func newClient(conn wsConn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// WritePump drains the send channel onto the connection. It exits when
// the channel is closed or a write fails; transport errors are surfaced
// here, not to the hub.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// enqueue queues data for delivery. It reports false when the client is
// closed or its buffer is full.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend shuts the send channel exactly once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
