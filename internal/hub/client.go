package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/liveness"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

// Session tracks the room association of one connection. A connection
// belongs to at most one room at a time.
type Session struct {
	mu       sync.RWMutex
	room     string
	username string
}

func (s *Session) Join(room, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = room
	s.username = username
}

func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = ""
	s.username = ""
}

func (s *Session) Current() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room, s.username
}

func (s *Session) InRoom() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room != ""
}

// Client is one live transport session on a protocol stack.
type Client struct {
	ID      string
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Session *Session

	// Monitor supervises this connection's heartbeat. Attached by the
	// handler right after the upgrade.
	Monitor *liveness.Monitor

	cfg       config.WebSocketConfig
	closeOnce sync.Once
}

func NewClient(id string, h *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:      id,
		Hub:     h,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Session: &Session{},
		cfg:     cfg,
	}
}

// Ping sends a transport-level ping control frame.
// Together with Terminate this satisfies liveness.Transport.
func (c *Client) Ping() error {
	return c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteWait))
}

// Terminate abruptly closes the underlying socket, no close handshake.
// The peer infers the cause from the drop itself.
func (c *Client) Terminate() error {
	return c.Conn.Close()
}

// ReadPump consumes inbound frames until the connection dies, then runs
// the single teardown path. onClose fires exactly once per connection.
func (c *Client) ReadPump(handler func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		c.Close()
		onClose(c)
	}()

	c.Conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		if c.Monitor != nil {
			c.Monitor.Pong()
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Debug().Str(log.FieldConnID, c.ID).Err(err).Msg("websocket read failed")
			}
			break
		}

		handler(c, message)
	}
}

// WritePump serializes all outbound frames for this connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))

		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}

	// Send channel closed by the hub: finish with a close frame.
	c.Conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendMessage queues a JSON message for the peer. A full queue drops the
// message rather than stalling the caller.
func (c *Client) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
	default:
	}
	return nil
}

// Close tears the connection down: heartbeat cancelled, registry entry
// removed, socket closed. Idempotent; every exit path funnels here.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.Monitor != nil {
			c.Monitor.Stop()
		}
		c.Hub.Unregister(c)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}
