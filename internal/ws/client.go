package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BlaJam82/chat-app/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// Client is the live session record for one websocket connection: its
// resolved identity (nil for unauthenticated connections), the display name
// recorded at join time, and the outbound message queue. It is created at
// connect time, handed into every event handler, and torn down at
// disconnect.
type Client struct {
	conn        *websocket.Conn
	send        chan []byte
	connID      string
	identity    *models.Identity
	connectedAt time.Time

	mu          sync.Mutex
	displayName string
	closed      bool

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection in a live session record.
func NewClient(conn *websocket.Conn, identity *models.Identity) *Client {
	return &Client{
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connID:      newConnID(),
		identity:    identity,
		connectedAt: time.Now(),
	}
}

// ConnID returns the connection's correlation id.
func (c *Client) ConnID() string {
	return c.connID
}

// Identity returns the resolved identity, or nil when unauthenticated.
func (c *Client) Identity() *models.Identity {
	return c.identity
}

// SetDisplayName records the name chosen at join time.
func (c *Client) SetDisplayName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayName = name
}

// DisplayName returns the recorded name, empty if no join succeeded yet.
func (c *Client) DisplayName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayName
}

// enqueue hands a frame to the write pump. It reports false when the
// connection is closed or the send buffer is full, which the hub treats as
// a dead connection. The closed check runs under the same lock Close takes,
// so a delivery racing a teardown can never write to a closed channel.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close shuts the outbound queue down exactly once, which in turn stops the
// write pump. Deliveries already in flight observe the closed flag and drop
// their frame instead of panicking.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
	})
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings. One writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
