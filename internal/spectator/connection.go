package spectator

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

const (
	// writeWait bounds a single write to the peer
	writeWait = 10 * time.Second

	// pongWait bounds the wait for a pong after a ping
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames. Spectators send nothing but
	// control frames
	maxMessageSize = 512

	// sendBuffer is how far a slow spectator may lag behind the feed
	// before being dropped
	sendBuffer = 256
)

// Connection is a single spectator WebSocket connection
type Connection struct {
	ws     *websocket.Conn
	send   chan *Message
	done   chan struct{}
	once   sync.Once
	logger *log.Logger
}

// NewConnection wraps an upgraded WebSocket connection
func NewConnection(ws *websocket.Conn, logger *log.Logger) *Connection {
	return &Connection{
		ws:     ws,
		send:   make(chan *Message, sendBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start begins the connection's read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close tears the connection down. Safe to call more than once
func (c *Connection) Close() error {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
	return nil
}

// SendMessage queues a message for the spectator. A spectator whose
// buffer is full is closed rather than allowed to stall the feed
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Spectator send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump consumes inbound frames until the peer goes away. Spectators
// have no input channel into the game; reading only services control
// frames and detects disconnects
func (c *Connection) readPump() {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Spectator read failed", "error", err)
			}
			return
		}
	}
}

// writePump writes queued messages and periodic pings until the
// connection shuts down
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.logger.Debug("Spectator write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
