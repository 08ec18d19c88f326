package hub

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/banterhq/banter/internal/config"
	"github.com/banterhq/banter/pkg/log"
)

var (
	// ErrClientClosed is returned by Enqueue after the connection closed.
	ErrClientClosed = errors.New("client connection closed")
	// ErrSendBufferFull is returned when the client's send buffer is full;
	// the delivery is dropped rather than blocking the caller.
	ErrSendBufferFull = errors.New("client send buffer full")
)

const sendBufferSize = 256

// Client is one live websocket connection bound to a single room for its
// whole lifetime: Connecting -> Open (registered in the Hub) -> Closed
// (unregistered exactly once). It is a delivery sink; it never initiates
// persistence.
type Client struct {
	ID   string
	Room string

	hub  *Hub
	conn *websocket.Conn
	cfg  config.WebSocketConfig

	send chan []byte
	done chan struct{}

	closeOnce sync.Once
	onClose   func(*Client)
}

// NewClient wraps an upgraded websocket connection. onClose runs once after
// the client has left the hub; it may be nil.
func NewClient(id, room string, h *Hub, conn *websocket.Conn, cfg config.WebSocketConfig, onClose func(*Client)) *Client {
	return &Client{
		ID:      id,
		Room:    room,
		hub:     h,
		conn:    conn,
		cfg:     cfg,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// Open registers the client with the hub, transitioning it to Open.
func (c *Client) Open() {
	c.hub.Join(c.Room, c)
}

// Close unregisters the client exactly once, regardless of close reason, and
// tears down the connection. Safe to call from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.Leave(c.Room, c)
		c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

// Enqueue hands a marshalled frame to the write pump without blocking.
// A closed client or a full buffer drops this delivery only.
func (c *Client) Enqueue(frame []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendBufferFull
	}
}

// ReadPump consumes the connection until the peer disconnects or the
// transport errors. Clients do not speak an inbound protocol; the read loop
// exists to honour pongs and to notice the close.
func (c *Client) ReadPump() {
	defer c.Close()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l := log.L()
				l.Debug().Err(err).Str(log.FieldClientID, c.ID).Msg("websocket read error")
			}
			return
		}
	}
}

// WritePump serializes frames from the send buffer onto the connection and
// keeps the peer alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
